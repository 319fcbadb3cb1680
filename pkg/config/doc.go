// Package config loads typed configuration structs from the environment.
//
// Values come from process environment variables, optionally seeded from a
// .env file in the working directory (loaded once, never overriding variables
// that are already set). Parsing is done by github.com/caarlos0/env/v11 so the
// usual `env`, `envDefault` and `envSeparator` tags apply.
//
// Each struct type is parsed at most once per process; later calls return a
// copy of the cached value.
//
//	type StripeConfig struct {
//		SecretKey     string `env:"STRIPE_SECRET_KEY,required"`
//		WebhookSecret string `env:"STRIPE_WEBHOOK_SECRET,required"`
//	}
//
//	var cfg StripeConfig
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
//
// Use Reset in tests to drop the cache between cases.
package config
