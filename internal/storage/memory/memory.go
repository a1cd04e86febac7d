package memory

import (
	"github.com/fdg312/health-assistant/internal/storage"
)

// MemoryStorage is the in-memory storage.Storage used when no database is configured.
type MemoryStorage struct {
	*profilesStore
	*foodLogsStore
	*workoutLogsStore
	*bodyLogsStore
	*ingredientChecksStore
	*insightsStore
	*chatLogsStore
}

var _ storage.Storage = (*MemoryStorage)(nil)

func New() *MemoryStorage {
	return &MemoryStorage{
		profilesStore:         newProfilesStore(),
		foodLogsStore:         newFoodLogsStore(),
		workoutLogsStore:      newWorkoutLogsStore(),
		bodyLogsStore:         newBodyLogsStore(),
		ingredientChecksStore: newIngredientChecksStore(),
		insightsStore:         newInsightsStore(),
		chatLogsStore:         newChatLogsStore(),
	}
}

func (m *MemoryStorage) Close() error {
	return nil
}

func inRange(date, from, to string) bool {
	if from != "" && date < from {
		return false
	}
	if to != "" && date > to {
		return false
	}
	return true
}
