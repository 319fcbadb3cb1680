package videos

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/videovault/pkg/logger"
	"github.com/dmitrymomot/videovault/svc/account"
)

// Service exposes the bookmark library behind the subscription gate.
type Service struct {
	store  Store
	users  account.Store
	logger *slog.Logger
	now    func() time.Time
}

type Option func(*Service)

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func NewService(store Store, users account.Store, opts ...Option) *Service {
	s := &Service{
		store:  store,
		users:  users,
		logger: logger.Discard(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// entitled re-reads the user so a cancellation takes effect on the next request.
func (s *Service) entitled(ctx context.Context, userID string) error {
	u, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, account.ErrUserNotFound) {
			return ErrSubscriptionRequired
		}
		return fmt.Errorf("load user: %w", err)
	}
	if !u.HasActiveSubscription() {
		return ErrSubscriptionRequired
	}
	return nil
}

// List returns the user's videos, newest first.
func (s *Service) List(ctx context.Context, userID string) ([]*Video, error) {
	if err := s.entitled(ctx, userID); err != nil {
		return nil, err
	}
	return s.store.ListByUser(ctx, userID)
}

// Add bookmarks a YouTube URL for the user.
func (s *Service) Add(ctx context.Context, userID, youtubeURL string) (*Video, error) {
	if err := s.entitled(ctx, userID); err != nil {
		return nil, err
	}

	youtubeURL = strings.TrimSpace(youtubeURL)
	if youtubeURL == "" {
		return nil, ErrURLRequired
	}
	youtubeID, ok := ExtractYouTubeID(youtubeURL)
	if !ok {
		return nil, ErrInvalidURL
	}

	exists, err := s.store.ExistsByYouTubeID(ctx, youtubeID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyExists
	}

	meta := MetadataFor(youtubeID)
	v := &Video{
		ID:          uuid.NewString(),
		UserID:      userID,
		Title:       meta.Title,
		YoutubeURL:  youtubeURL,
		YoutubeID:   youtubeID,
		Description: meta.Description,
		Thumbnail:   meta.Thumbnail,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.store.Create(ctx, v); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "video bookmarked",
		logger.UserID(userID),
		slog.String("youtube_id", youtubeID),
		logger.Component("videos"),
	)
	return v, nil
}
