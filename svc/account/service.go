package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrymomot/videovault/pkg/logger"
	"github.com/dmitrymomot/videovault/pkg/validator"
)

const (
	MinPasswordLength = 8
	MaxPasswordLength = 128

	// SeedBcryptCost is used for the seeded administrator password.
	SeedBcryptCost = 12
)

// Service implements password accounts on a Store.
type Service struct {
	store      Store
	bcryptCost int
	logger     *slog.Logger
	now        func() time.Time
}

type Option func(*Service)

// WithBcryptCost sets the bcrypt cost for password hashing.
func WithBcryptCost(cost int) Option {
	return func(s *Service) {
		s.bcryptCost = cost
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// WithClock overrides the time source for created/updated stamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func NewService(store Store, opts ...Option) *Service {
	s := &Service{
		store:      store,
		bcryptCost: bcrypt.DefaultCost,
		logger:     logger.Discard(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NormalizeEmail lowercases and trims an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a USER account.
func (s *Service) Register(ctx context.Context, email, password string) (*User, error) {
	return s.create(ctx, email, password, RoleUser, s.bcryptCost)
}

func (s *Service) create(ctx context.Context, email, password string, role Role, cost int) (*User, error) {
	email = NormalizeEmail(email)

	if err := validator.Apply(
		validator.ValidEmail("email", email),
		validator.LengthBetween("password", password, MinPasswordLength, MaxPasswordLength),
	); err != nil {
		return nil, err
	}

	_, err := s.store.GetUserByEmail(ctx, email)
	if err == nil {
		return nil, ErrEmailAlreadyExists
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.now().UTC()
	user := &User{
		ID:        uuid.NewString(),
		Email:     email,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.CreateUser(ctx, user, string(hash)); err != nil {
		if errors.Is(err, ErrEmailAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.InfoContext(ctx, "user registered",
		logger.UserID(user.ID),
		logger.Role(string(role)),
		logger.Component("account"),
	)
	return user, nil
}

// Authenticate verifies email and password. Any failure is reported as
// ErrInvalidCredentials so callers cannot probe for registered emails.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	user, err := s.store.GetUserByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if !errors.Is(err, ErrUserNotFound) {
			s.logger.ErrorContext(ctx, "failed to load user for login", logger.Error(err), logger.Component("account"))
		}
		return nil, ErrInvalidCredentials
	}

	hash, err := s.store.GetPasswordHash(ctx, user.ID)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// Get returns the current record for id.
func (s *Service) Get(ctx context.Context, id string) (*User, error) {
	return s.store.GetUserByID(ctx, id)
}

// List returns users matching filter.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*User, error) {
	if filter.Role != "" && !filter.Role.Valid() {
		return nil, ErrInvalidRole
	}
	return s.store.ListUsers(ctx, filter)
}

// EnsureAdmin creates the administrator account unless a user with email
// already exists. created is false when nothing was written.
func (s *Service) EnsureAdmin(ctx context.Context, email, password string) (user *User, created bool, err error) {
	existing, err := s.store.GetUserByEmail(ctx, NormalizeEmail(email))
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, false, fmt.Errorf("failed to check existing admin: %w", err)
	}

	user, err = s.create(ctx, email, password, RoleAdmin, SeedBcryptCost)
	if err != nil {
		return nil, false, err
	}
	return user, true, nil
}
