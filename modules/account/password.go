package account

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/videovault/handler"
	"github.com/dmitrymomot/videovault/pkg/jwt"
	"github.com/dmitrymomot/videovault/svc/account"
)

type PasswordService struct {
	accounts     *account.Service
	tokens       *jwt.Service
	errorHandler handler.ErrorHandler[handler.Context]
}

func NewPasswordService(
	accounts *account.Service,
	tokens *jwt.Service,
	errorHandler handler.ErrorHandler[handler.Context],
) *PasswordService {
	return &PasswordService{
		accounts:     accounts,
		tokens:       tokens,
		errorHandler: errorHandler,
	}
}

func (s *PasswordService) Handle() http.Handler {
	r := chi.NewRouter()

	r.Post("/register", handler.Wrap(s.register,
		handler.WithBinders[handler.Context, RegisterRequest](handler.BindJSON()),
		handler.WithErrorHandler[handler.Context, RegisterRequest](s.errorHandler),
	))

	r.Post("/login", handler.Wrap(s.login,
		handler.WithBinders[handler.Context, LoginRequest](handler.BindJSON()),
		handler.WithErrorHandler[handler.Context, LoginRequest](s.errorHandler),
	))

	return r
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Token string        `json:"token"`
	User  *account.User `json:"user"`
}

var (
	errEmailTaken         = handler.ErrConflict.WithMessage("User already exists")
	errInvalidCredentials = handler.ErrUnauthorized.WithMessage("Invalid credentials")
)

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *PasswordService) register(ctx handler.Context, req RegisterRequest) handler.Response {
	u, err := s.accounts.Register(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, account.ErrEmailAlreadyExists) {
			return handler.Error(errEmailTaken)
		}
		return handler.Error(err)
	}
	return s.issue(u, http.StatusCreated)
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *PasswordService) login(ctx handler.Context, req LoginRequest) handler.Response {
	u, err := s.accounts.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, account.ErrInvalidCredentials) {
			return handler.Error(errInvalidCredentials)
		}
		return handler.Error(err)
	}
	return s.issue(u, http.StatusOK)
}

func (s *PasswordService) issue(u *account.User, status int) handler.Response {
	token, err := s.tokens.Issue(u.ID)
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(AuthResponse{Token: token, User: u}, handler.WithStatus(status))
}
