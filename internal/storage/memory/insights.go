package memory

import (
	"context"
	"sync"
	"time"

	"github.com/fdg312/health-assistant/internal/storage"
	"github.com/google/uuid"
)

type insightKey struct {
	userID string
	date   string
}

type insightsStore struct {
	mu       sync.RWMutex
	insights map[insightKey]storage.Insight
}

func newInsightsStore() *insightsStore {
	return &insightsStore{insights: make(map[insightKey]storage.Insight)}
}

func (s *insightsStore) UpsertInsight(ctx context.Context, insight *storage.Insight) error {
	_ = ctx

	s.mu.Lock()
	defer s.mu.Unlock()

	key := insightKey{userID: insight.UserID, date: insight.Date}
	if existing, ok := s.insights[key]; ok {
		insight.ID = existing.ID
	} else if insight.ID == uuid.Nil {
		insight.ID = uuid.New()
	}
	insight.CreatedAt = time.Now().UTC()

	s.insights[key] = *insight
	return nil
}

func (s *insightsStore) GetInsight(ctx context.Context, userID, date string) (*storage.Insight, error) {
	_ = ctx

	s.mu.RLock()
	defer s.mu.RUnlock()

	insight, ok := s.insights[insightKey{userID: userID, date: date}]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &insight, nil
}
