package videos

import "context"

// Store persists videos. YouTube ids are unique across the library.
type Store interface {
	ListByUser(ctx context.Context, userID string) ([]*Video, error)
	ExistsByYouTubeID(ctx context.Context, youtubeID string) (bool, error)
	// Create returns ErrAlreadyExists when the YouTube id is taken.
	Create(ctx context.Context, v *Video) error
}
