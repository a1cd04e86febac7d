package memory

import (
	"context"
	"sync"
	"time"

	"github.com/fdg312/health-assistant/internal/storage"
	"github.com/google/uuid"
)

type chatLogsStore struct {
	mu   sync.RWMutex
	logs []storage.ChatLog
}

func newChatLogsStore() *chatLogsStore {
	return &chatLogsStore{logs: make([]storage.ChatLog, 0)}
}

func (s *chatLogsStore) CreateChatLog(ctx context.Context, log *storage.ChatLog) error {
	_ = ctx

	s.mu.Lock()
	defer s.mu.Unlock()

	if log.ID == uuid.Nil {
		log.ID = uuid.New()
	}
	log.CreatedAt = time.Now().UTC()

	s.logs = append(s.logs, *log)
	return nil
}

func (s *chatLogsStore) ListChatLogs(ctx context.Context, userID string, limit int) ([]storage.ChatLog, error) {
	_ = ctx

	if limit <= 0 {
		limit = 50
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]storage.ChatLog, 0, limit)
	for i := len(s.logs) - 1; i >= 0 && len(result) < limit; i-- {
		if s.logs[i].UserID == userID {
			result = append(result, s.logs[i])
		}
	}
	return result, nil
}
