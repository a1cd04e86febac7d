package feed

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/fdg312/health-assistant/internal/insights"
	"github.com/fdg312/health-assistant/internal/storage"
	"github.com/fdg312/health-assistant/internal/userctx"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidDays  = errors.New("days must be between 1 and 90")
)

const (
	DefaultDays = 7
	maxDays     = 90
)

// Service aggregates logged records over a trailing window ending today.
type Service struct {
	storage insights.DayReader
	now     func() time.Time
}

func NewService(st insights.DayReader) *Service {
	return &Service{
		storage: st,
		now:     time.Now,
	}
}

func (s *Service) GetDashboard(ctx context.Context, days int) (*DashboardResponse, error) {
	userID, ok := userctx.GetUserID(ctx)
	if !ok || strings.TrimSpace(userID) == "" {
		return nil, ErrUnauthorized
	}
	if days < 1 || days > maxDays {
		return nil, ErrInvalidDays
	}

	end := s.now().UTC()
	to := end.Format(storage.DateLayout)
	from := end.AddDate(0, 0, -(days - 1)).Format(storage.DateLayout)

	food, err := s.storage.ListFoodLogs(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	workouts, err := s.storage.ListWorkoutLogs(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	body, err := s.storage.ListBodyLogs(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	// Oldest first for charting.
	trend := make([]WeightPoint, 0, len(body))
	for _, log := range body {
		trend = append(trend, WeightPoint{Date: log.Date, WeightKG: log.WeightKG})
	}
	sort.SliceStable(trend, func(i, j int) bool { return trend[i].Date < trend[j].Date })

	foodDays := make(map[string]struct{})
	totalKcal := 0
	for _, log := range food {
		foodDays[log.Date] = struct{}{}
		totalKcal += log.TotalKcalMax
	}
	workoutDays := make(map[string]struct{})
	for _, log := range workouts {
		workoutDays[log.Date] = struct{}{}
	}

	avgCalories := 0
	if len(food) > 0 {
		avgCalories = totalKcal / days
	}
	rate := float64(len(foodDays)) / float64(days)

	return &DashboardResponse{
		From:         from,
		To:           to,
		WeightTrends: trend,
		CompletionRate: CompletionRate{
			Calories:    rate,
			Workouts:    len(workoutDays),
			DaysLogged:  len(foodDays),
			TotalDays:   days,
			AvgCalories: avgCalories,
			MealsLogged: len(food),
		},
		WeeklyInsights: []string{
			fmt.Sprintf("本周记录了 %d 餐，平均每日 %d kcal", len(food), avgCalories),
			fmt.Sprintf("运动天数: %d 天", len(workoutDays)),
			fmt.Sprintf("记录完成率: %d%%", int(rate*100)),
		},
	}, nil
}
