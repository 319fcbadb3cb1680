package account

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/videovault/handler"
	"github.com/dmitrymomot/videovault/pkg/jwt"
	"github.com/dmitrymomot/videovault/svc/account"
)

// PermissionReadProfile guards the profile endpoints when mounted by the server.
const PermissionReadProfile = "account.read"

// ProfileService serves the authenticated user's own record.
type ProfileService struct {
	accounts     *account.Service
	errorHandler handler.ErrorHandler[handler.Context]
}

func NewProfileService(accounts *account.Service, errorHandler handler.ErrorHandler[handler.Context]) *ProfileService {
	return &ProfileService{accounts: accounts, errorHandler: errorHandler}
}

func (s *ProfileService) Handle() http.Handler {
	r := chi.NewRouter()
	r.Get("/", handler.Wrap(s.me,
		handler.WithErrorHandler[handler.Context, struct{}](s.errorHandler),
	))
	return r
}

// ProfileResponse wraps the current user.
type ProfileResponse struct {
	User *account.User `json:"user"`
}

// me always reads the store so subscription changes show up immediately.
func (s *ProfileService) me(ctx handler.Context, _ struct{}) handler.Response {
	userID := jwt.UserIDFromContext(ctx)
	if userID == "" {
		return handler.Error(handler.ErrUnauthorized)
	}

	u, err := s.accounts.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, account.ErrUserNotFound) {
			return handler.Error(handler.ErrNotFound.WithMessage("User not found"))
		}
		return handler.Error(err)
	}
	return handler.JSON(ProfileResponse{User: u})
}
