// Package admin mounts the administrator endpoints. Callers guard it with
// access.RequirePermission.
package admin

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/videovault/handler"
	"github.com/dmitrymomot/videovault/svc/account"
)

// PermissionListUsers is required to read the user directory.
const PermissionListUsers = "users.list"

type Service struct {
	accounts     *account.Service
	errorHandler handler.ErrorHandler[handler.Context]
}

func NewService(accounts *account.Service, errorHandler handler.ErrorHandler[handler.Context]) *Service {
	return &Service{accounts: accounts, errorHandler: errorHandler}
}

func (s *Service) Handle() http.Handler {
	r := chi.NewRouter()
	r.Get("/users", handler.Wrap(s.listUsers,
		handler.WithBinders[handler.Context, account.ListFilter](handler.BindQuery()),
		handler.WithErrorHandler[handler.Context, account.ListFilter](s.errorHandler),
	))
	return r
}

type UsersResponse struct {
	Users []*account.User `json:"users"`
}

func (s *Service) listUsers(ctx handler.Context, filter account.ListFilter) handler.Response {
	users, err := s.accounts.List(ctx, filter)
	if err != nil {
		if errors.Is(err, account.ErrInvalidRole) {
			return handler.Error(handler.ErrBadRequest.WithMessage("Invalid role filter"))
		}
		return handler.Error(err)
	}
	if users == nil {
		users = []*account.User{}
	}
	return handler.JSON(UsersResponse{Users: users})
}
