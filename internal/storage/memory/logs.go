package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/fdg312/health-assistant/internal/storage"
	"github.com/google/uuid"
)

type foodLogsStore struct {
	mu   sync.RWMutex
	logs []storage.FoodLog
}

func newFoodLogsStore() *foodLogsStore {
	return &foodLogsStore{logs: make([]storage.FoodLog, 0)}
}

func (s *foodLogsStore) CreateFoodLog(ctx context.Context, log *storage.FoodLog) error {
	_ = ctx

	s.mu.Lock()
	defer s.mu.Unlock()

	if log.ID == uuid.Nil {
		log.ID = uuid.New()
	}
	log.CreatedAt = time.Now().UTC()
	log.Items = append([]storage.FoodLogItem(nil), log.Items...)

	s.logs = append(s.logs, *log)
	return nil
}

func (s *foodLogsStore) ListFoodLogs(ctx context.Context, userID, from, to string) ([]storage.FoodLog, error) {
	_ = ctx

	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]storage.FoodLog, 0)
	for i := len(s.logs) - 1; i >= 0; i-- {
		log := s.logs[i]
		if log.UserID != userID || !inRange(log.Date, from, to) {
			continue
		}
		result = append(result, log)
	}

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].Date != result[j].Date {
			return result[i].Date > result[j].Date
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (s *foodLogsStore) DeleteFoodLog(ctx context.Context, userID string, id uuid.UUID) error {
	_ = ctx

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, log := range s.logs {
		if log.ID == id && log.UserID == userID {
			s.logs = append(s.logs[:i], s.logs[i+1:]...)
			return nil
		}
	}
	return storage.ErrNotFound
}

type workoutLogsStore struct {
	mu   sync.RWMutex
	logs []storage.WorkoutLog
}

func newWorkoutLogsStore() *workoutLogsStore {
	return &workoutLogsStore{logs: make([]storage.WorkoutLog, 0)}
}

func (s *workoutLogsStore) CreateWorkoutLog(ctx context.Context, log *storage.WorkoutLog) error {
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

func (s *workoutLogsStore) ListWorkoutLogs(ctx context.Context, userID, from, to string) ([]storage.WorkoutLog, error) {
	_ = ctx

	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]storage.WorkoutLog, 0)
	for i := len(s.logs) - 1; i >= 0; i-- {
		log := s.logs[i]
		if log.UserID != userID || !inRange(log.Date, from, to) {
			continue
		}
		result = append(result, log)
	}

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].Date != result[j].Date {
			return result[i].Date > result[j].Date
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (s *workoutLogsStore) DeleteWorkoutLog(ctx context.Context, userID string, id uuid.UUID) error {
	_ = ctx

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, log := range s.logs {
		if log.ID == id && log.UserID == userID {
			s.logs = append(s.logs[:i], s.logs[i+1:]...)
			return nil
		}
	}
	return storage.ErrNotFound
}

type bodyLogsStore struct {
	mu   sync.RWMutex
	logs []storage.BodyLog
}

func newBodyLogsStore() *bodyLogsStore {
	return &bodyLogsStore{logs: make([]storage.BodyLog, 0)}
}

func (s *bodyLogsStore) CreateBodyLog(ctx context.Context, log *storage.BodyLog) error {
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

func (s *bodyLogsStore) ListBodyLogs(ctx context.Context, userID, from, to string) ([]storage.BodyLog, error) {
	_ = ctx

	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]storage.BodyLog, 0)
	for i := len(s.logs) - 1; i >= 0; i-- {
		log := s.logs[i]
		if log.UserID != userID || !inRange(log.Date, from, to) {
			continue
		}
		result = append(result, log)
	}

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].Date != result[j].Date {
			return result[i].Date > result[j].Date
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (s *bodyLogsStore) DeleteBodyLog(ctx context.Context, userID string, id uuid.UUID) error {
	_ = ctx

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, log := range s.logs {
		if log.ID == id && log.UserID == userID {
			s.logs = append(s.logs[:i], s.logs[i+1:]...)
			return nil
		}
	}
	return storage.ErrNotFound
}
