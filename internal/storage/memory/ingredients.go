package memory

import (
	"context"
	"sync"
	"time"

	"github.com/fdg312/health-assistant/internal/storage"
	"github.com/google/uuid"
)

type ingredientChecksStore struct {
	mu     sync.RWMutex
	checks []storage.IngredientCheck
}

func newIngredientChecksStore() *ingredientChecksStore {
	return &ingredientChecksStore{checks: make([]storage.IngredientCheck, 0)}
}

func (s *ingredientChecksStore) CreateIngredientCheck(ctx context.Context, check *storage.IngredientCheck) error {
	_ = ctx

	s.mu.Lock()
	defer s.mu.Unlock()

	if check.ID == uuid.Nil {
		check.ID = uuid.New()
	}
	check.CreatedAt = time.Now().UTC()
	check.Suggestions = append([]string(nil), check.Suggestions...)

	s.checks = append(s.checks, *check)
	return nil
}

func (s *ingredientChecksStore) ListIngredientChecks(ctx context.Context, userID string, limit int) ([]storage.IngredientCheck, error) {
	_ = ctx

	if limit <= 0 {
		limit = 50
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]storage.IngredientCheck, 0, limit)
	for i := len(s.checks) - 1; i >= 0 && len(result) < limit; i-- {
		if s.checks[i].UserID == userID {
			result = append(result, s.checks[i])
		}
	}
	return result, nil
}

func (s *ingredientChecksStore) DeleteIngredientCheck(ctx context.Context, userID string, id uuid.UUID) error {
	_ = ctx

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, check := range s.checks {
		if check.ID == id && check.UserID == userID {
			s.checks = append(s.checks[:i], s.checks[i+1:]...)
			return nil
		}
	}
	return storage.ErrNotFound
}
