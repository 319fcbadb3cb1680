package account

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"
)

// MemoryStore is a mutex-guarded Store for tests and local development.
type MemoryStore struct {
	mu     sync.RWMutex
	users  map[string]*User
	hashes map[string]string
	now    func() time.Time
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:  make(map[string]*User),
		hashes: make(map[string]string),
		now:    time.Now,
	}
}

func cloneUser(u *User) *User {
	c := *u
	if u.SubscriptionStatus != nil {
		c.SubscriptionStatus = strPtr(*u.SubscriptionStatus)
	}
	if u.SubscriptionID != nil {
		c.SubscriptionID = strPtr(*u.SubscriptionID)
	}
	if u.BillingCustomerID != nil {
		c.BillingCustomerID = strPtr(*u.BillingCustomerID)
	}
	return &c
}

func (s *MemoryStore) CreateUser(_ context.Context, user *User, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == user.Email {
			return ErrEmailAlreadyExists
		}
	}
	s.users[user.ID] = cloneUser(user)
	s.hashes[user.ID] = passwordHash
	return nil
}

func (s *MemoryStore) GetUserByID(_ context.Context, id string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (s *MemoryStore) GetUserByEmail(_ context.Context, email string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, ErrUserNotFound
}

func (s *MemoryStore) GetPasswordHash(_ context.Context, userID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	h, ok := s.hashes[userID]
	if !ok {
		return "", ErrUserNotFound
	}
	return h, nil
}

func (s *MemoryStore) ListUsers(_ context.Context, filter ListFilter) ([]*User, error) {
	filter = filter.normalized()

	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]*User, 0, len(s.users))
	for _, u := range s.users {
		if filter.Role != "" && u.Role != filter.Role {
			continue
		}
		switch filter.Status {
		case "":
		case StatusNone:
			if u.SubscriptionStatus != nil {
				continue
			}
		default:
			if u.SubscriptionStatus == nil || *u.SubscriptionStatus != filter.Status {
				continue
			}
		}
		users = append(users, cloneUser(u))
	}

	slices.SortFunc(users, func(a, b *User) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	if filter.Offset >= len(users) {
		return []*User{}, nil
	}
	users = users[filter.Offset:]
	if len(users) > filter.Limit {
		users = users[:filter.Limit]
	}
	return users, nil
}

func (s *MemoryStore) SetBillingCustomerID(_ context.Context, userID, customerID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return "", ErrUserNotFound
	}
	if u.BillingCustomerID == nil {
		u.BillingCustomerID = strPtr(customerID)
		u.UpdatedAt = s.now().UTC()
	}
	return *u.BillingCustomerID, nil
}

func (s *MemoryStore) SetSubscription(_ context.Context, userID, subscriptionID, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return ErrUserNotFound
	}
	u.SubscriptionID = strPtr(subscriptionID)
	u.SubscriptionStatus = strPtr(status)
	u.UpdatedAt = s.now().UTC()
	return nil
}

func (s *MemoryStore) UpdateStatusBySubscriptionID(_ context.Context, subscriptionID, status string) (int64, error) {
	return s.updateBySubscription(subscriptionID, func(u *User) {
		u.SubscriptionStatus = strPtr(status)
	}), nil
}

func (s *MemoryStore) ClearSubscription(_ context.Context, subscriptionID, status string) (int64, error) {
	return s.updateBySubscription(subscriptionID, func(u *User) {
		u.SubscriptionStatus = strPtr(status)
		u.SubscriptionID = nil
	}), nil
}

func (s *MemoryStore) updateBySubscription(subscriptionID string, fn func(*User)) int64 {
	if subscriptionID == "" {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	now := s.now().UTC()
	for _, u := range s.users {
		if u.SubscriptionID != nil && *u.SubscriptionID == subscriptionID {
			fn(u)
			u.UpdatedAt = now
			n++
		}
	}
	return n
}
