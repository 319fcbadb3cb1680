package config

import (
	"time"

	"github.com/dmitrymomot/videovault/pkg/environment"
)

// Storage backends selectable with STORAGE.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// App holds process-wide application settings.
type App struct {
	Env  string `env:"APP_ENV" envDefault:"development"`
	Name string `env:"APP_NAME" envDefault:"videovault"`
	// URL is the public frontend origin used for checkout redirects.
	URL string `env:"APP_URL" envDefault:"http://localhost:3000"`

	Storage string `env:"STORAGE" envDefault:"postgres"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`

	// EnableManualActivation exposes /api/stripe/mock-webhook. Ignored in production.
	EnableManualActivation bool `env:"ENABLE_MANUAL_ACTIVATION" envDefault:"false"`
	MetricsEnabled         bool `env:"METRICS_ENABLED" envDefault:"true"`

	AuthRateLimit float64 `env:"AUTH_RATE_LIMIT" envDefault:"1"`
	AuthRateBurst int     `env:"AUTH_RATE_BURST" envDefault:"10"`

	EventLedgerSize int           `env:"EVENT_LEDGER_SIZE" envDefault:"10000"`
	EventLedgerTTL  time.Duration `env:"EVENT_LEDGER_TTL" envDefault:"72h"`

	HealthTimeout time.Duration `env:"HEALTH_TIMEOUT" envDefault:"3s"`
}

// Environment returns the parsed APP_ENV.
func (a App) Environment() environment.Environment {
	return environment.Parse(a.Env)
}

// ManualActivationAllowed reports whether the manual activation endpoint may
// be mounted. It is never allowed in production.
func (a App) ManualActivationAllowed() bool {
	return a.EnableManualActivation && !a.Environment().IsProduction()
}

// Admin holds the seeded administrator credentials.
type Admin struct {
	Email    string `env:"ADMIN_EMAIL" envDefault:"admin@example.com"`
	Password string `env:"ADMIN_PASSWORD" envDefault:"admin123"`
}
