package insights

import (
	"context"
	"time"

	"github.com/fdg312/health-assistant/internal/ai"
	"github.com/fdg312/health-assistant/internal/storage"
)

// DayReader is the slice of the record store needed to assemble one user day.
type DayReader interface {
	ListFoodLogs(ctx context.Context, userID, from, to string) ([]storage.FoodLog, error)
	ListWorkoutLogs(ctx context.Context, userID, from, to string) ([]storage.WorkoutLog, error)
	ListBodyLogs(ctx context.Context, userID, from, to string) ([]storage.BodyLog, error)
}

// DayRecords holds everything a user logged on one date.
type DayRecords struct {
	Date     time.Time
	Food     []storage.FoodLog
	Workouts []storage.WorkoutLog
	Body     []storage.BodyLog
}

func CollectDay(ctx context.Context, store DayReader, userID string, day time.Time) (DayRecords, error) {
	date := day.Format(storage.DateLayout)

	food, err := store.ListFoodLogs(ctx, userID, date, date)
	if err != nil {
		return DayRecords{}, err
	}
	workouts, err := store.ListWorkoutLogs(ctx, userID, date, date)
	if err != nil {
		return DayRecords{}, err
	}
	body, err := store.ListBodyLogs(ctx, userID, date, date)
	if err != nil {
		return DayRecords{}, err
	}

	return DayRecords{Date: day, Food: food, Workouts: workouts, Body: body}, nil
}

// KcalRange sums the food log totals.
func (d DayRecords) KcalRange() (int, int) {
	minKcal, maxKcal := 0, 0
	for _, log := range d.Food {
		minKcal += log.TotalKcalMin
		maxKcal += log.TotalKcalMax
	}
	return minKcal, maxKcal
}

func (d DayRecords) WorkoutMinutes() int {
	total := 0
	for _, log := range d.Workouts {
		total += log.DurationMinutes
	}
	return total
}

func (d DayRecords) InsightRequest(profile *ai.UserProfileSummary) ai.InsightRequest {
	req := ai.InsightRequest{
		Date:        d.Date,
		FoodLogs:    make([]ai.FoodLogSummary, 0, len(d.Food)),
		WorkoutLogs: make([]ai.WorkoutLogSummary, 0, len(d.Workouts)),
		BodyLogs:    make([]ai.BodyLogSummary, 0, len(d.Body)),
		Profile:     profile,
	}
	for _, log := range d.Food {
		req.FoodLogs = append(req.FoodLogs, ai.FoodLogSummary{
			RawInput:     log.RawInput,
			TotalKcalMin: log.TotalKcalMin,
			TotalKcalMax: log.TotalKcalMax,
		})
	}
	for _, log := range d.Workouts {
		req.WorkoutLogs = append(req.WorkoutLogs, ai.WorkoutLogSummary{
			WorkoutType:     log.WorkoutType,
			DurationMinutes: log.DurationMinutes,
		})
	}
	for _, log := range d.Body {
		req.BodyLogs = append(req.BodyLogs, ai.BodyLogSummary{WeightKG: log.WeightKG})
	}
	return req
}
