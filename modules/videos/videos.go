// Package videos mounts the subscription-gated bookmark library.
package videos

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/videovault/handler"
	"github.com/dmitrymomot/videovault/pkg/jwt"
	"github.com/dmitrymomot/videovault/svc/videos"
)

// Permissions checked by the guard passed with WithGuard.
const (
	PermissionRead  = "videos.read"
	PermissionWrite = "videos.write"
)

var (
	errSubscriptionRequired = handler.ErrForbidden.WithMessage("Active subscription required")
	errURLRequired          = handler.ErrBadRequest.WithMessage("YouTube URL is required")
	errInvalidURL           = handler.ErrBadRequest.WithMessage("Invalid YouTube URL")
	errAlreadyExists        = handler.ErrBadRequest.WithMessage("Video already exists in the library")
)

type Service struct {
	videos       *videos.Service
	errorHandler handler.ErrorHandler[handler.Context]
	guard        func(permission string) func(http.Handler) http.Handler
}

// Option configures the videos module.
type Option func(*Service)

// WithGuard requires PermissionRead on listing and PermissionWrite on adding.
func WithGuard(guard func(permission string) func(http.Handler) http.Handler) Option {
	return func(s *Service) {
		s.guard = guard
	}
}

func NewService(svc *videos.Service, errorHandler handler.ErrorHandler[handler.Context], opts ...Option) *Service {
	s := &Service{videos: svc, errorHandler: errorHandler}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Handle() http.Handler {
	r := chi.NewRouter()

	r.With(s.require(PermissionRead)...).Get("/", handler.Wrap(s.list,
		handler.WithErrorHandler[handler.Context, struct{}](s.errorHandler),
	))
	r.With(s.require(PermissionWrite)...).Post("/", handler.Wrap(s.add,
		handler.WithBinders[handler.Context, AddRequest](handler.BindJSON()),
		handler.WithErrorHandler[handler.Context, AddRequest](s.errorHandler),
	))

	return r
}

func (s *Service) require(permission string) []func(http.Handler) http.Handler {
	if s.guard == nil {
		return nil
	}
	return []func(http.Handler) http.Handler{s.guard(permission)}
}

type ListResponse struct {
	Videos []*videos.Video `json:"videos"`
}

func (s *Service) list(ctx handler.Context, _ struct{}) handler.Response {
	userID := jwt.UserIDFromContext(ctx)
	if userID == "" {
		return handler.Error(handler.ErrUnauthorized)
	}

	list, err := s.videos.List(ctx, userID)
	if err != nil {
		return handler.Error(mapError(err))
	}
	if list == nil {
		list = []*videos.Video{}
	}
	return handler.JSON(ListResponse{Videos: list})
}

type AddRequest struct {
	YoutubeURL string `json:"youtubeUrl"`
}

type AddResponse struct {
	Video *videos.Video `json:"video"`
}

func (s *Service) add(ctx handler.Context, req AddRequest) handler.Response {
	userID := jwt.UserIDFromContext(ctx)
	if userID == "" {
		return handler.Error(handler.ErrUnauthorized)
	}

	v, err := s.videos.Add(ctx, userID, req.YoutubeURL)
	if err != nil {
		return handler.Error(mapError(err))
	}
	return handler.JSON(AddResponse{Video: v})
}

func mapError(err error) error {
	switch {
	case errors.Is(err, videos.ErrSubscriptionRequired):
		return errSubscriptionRequired
	case errors.Is(err, videos.ErrURLRequired):
		return errURLRequired
	case errors.Is(err, videos.ErrInvalidURL):
		return errInvalidURL
	case errors.Is(err, videos.ErrAlreadyExists):
		return errAlreadyExists
	default:
		return err
	}
}
