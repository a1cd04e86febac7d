package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/fdg312/health-assistant/internal/storage"
)

type profilesStore struct {
	mu       sync.RWMutex
	profiles map[string]storage.Profile
}

func newProfilesStore() *profilesStore {
	return &profilesStore{profiles: make(map[string]storage.Profile)}
}

func (s *profilesStore) GetProfile(ctx context.Context, userID string) (*storage.Profile, error) {
	_ = ctx

	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[strings.TrimSpace(userID)]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &p, nil
}

func (s *profilesStore) UpsertProfile(ctx context.Context, profile *storage.Profile) error {
	_ = ctx

	s.mu.Lock()
	defer s.mu.Unlock()

	userID := strings.TrimSpace(profile.UserID)
	now := time.Now().UTC()
	if existing, ok := s.profiles[userID]; ok {
		profile.CreatedAt = existing.CreatedAt
	} else {
		profile.CreatedAt = now
	}
	profile.UserID = userID
	profile.UpdatedAt = now

	s.profiles[userID] = *profile
	return nil
}
