package videos

import (
	"context"
	"slices"
	"sync"
)

// MemoryStore is an in-process Store.
type MemoryStore struct {
	mu     sync.RWMutex
	videos []*Video
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) ListByUser(_ context.Context, userID string) ([]*Video, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []*Video{}
	for _, v := range s.videos {
		if v.UserID == userID {
			c := *v
			out = append(out, &c)
		}
	}
	slices.SortStableFunc(out, func(a, b *Video) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out, nil
}

func (s *MemoryStore) ExistsByYouTubeID(_ context.Context, youtubeID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.ContainsFunc(s.videos, func(v *Video) bool { return v.YoutubeID == youtubeID }), nil
}

func (s *MemoryStore) Create(_ context.Context, v *Video) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if slices.ContainsFunc(s.videos, func(e *Video) bool { return e.YoutubeID == v.YoutubeID }) {
		return ErrAlreadyExists
	}
	c := *v
	s.videos = append(s.videos, &c)
	return nil
}
