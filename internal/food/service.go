package food

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fdg312/health-assistant/internal/ai"
	"github.com/fdg312/health-assistant/internal/storage"
	"github.com/fdg312/health-assistant/internal/userctx"
	"github.com/google/uuid"
)

var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrInvalidRequest = errors.New("invalid request")
	ErrNotFound       = errors.New("food log not found")
	ErrAIFailed       = errors.New("ai failed")
)

const defaultMealType = "snack"

var mealTypes = map[string]bool{
	"breakfast": true,
	"lunch":     true,
	"dinner":    true,
	"snack":     true,
}

type profileSummaries interface {
	Summary(ctx context.Context, userID string) (*ai.UserProfileSummary, error)
}

type Service struct {
	storage  storage.FoodLogsStorage
	profiles profileSummaries
	provider ai.Provider
}

func NewService(st storage.FoodLogsStorage, profiles profileSummaries, provider ai.Provider) *Service {
	return &Service{
		storage:  st,
		profiles: profiles,
		provider: provider,
	}
}

// Parse estimates the foods in free text against the caller's goal. Nothing is stored.
func (s *Service) Parse(ctx context.Context, req ParseRequest) (*ParseResponse, error) {
	userID := userIDFromContext(ctx)
	if userID == "" {
		return nil, ErrUnauthorized
	}

	mealType, err := normalizeMealType(req.MealType)
	if err != nil {
		return nil, err
	}

	profile, err := s.profiles.Summary(ctx, userID)
	if err != nil {
		return nil, err
	}

	result, err := s.provider.ParseFood(ctx, req.Text, profile.Goal())
	if err != nil {
		if errors.Is(err, ai.ErrValidation) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrAIFailed, err)
	}

	items := make([]FoodItem, 0, len(result.Items))
	for _, item := range result.Items {
		items = append(items, FoodItem{
			Name:        item.Name,
			CaloriesMin: item.KcalMin,
			CaloriesMax: item.KcalMax,
			Portion:     item.PortionAssumption,
			MealType:    mealType,
		})
	}

	return &ParseResponse{
		Items:        items,
		TotalKcalMin: result.TotalKcalMin,
		TotalKcalMax: result.TotalKcalMax,
		Cautions:     result.Cautions,
	}, nil
}

// CreateLog stores confirmed items. Totals are always recomputed from the items.
func (s *Service) CreateLog(ctx context.Context, req CreateLogRequest) (*FoodLogDTO, error) {
	userID := userIDFromContext(ctx)
	if userID == "" {
		return nil, ErrUnauthorized
	}

	date := strings.TrimSpace(req.Date)
	if !validDate(date) {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidRequest)
	}
	if len(req.FoodItems) == 0 {
		return nil, fmt.Errorf("%w: food_items must not be empty", ErrInvalidRequest)
	}

	items := make([]storage.FoodLogItem, 0, len(req.FoodItems))
	names := make([]string, 0, len(req.FoodItems))
	totalMin, totalMax := 0, 0
	for _, item := range req.FoodItems {
		name := strings.TrimSpace(item.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: item name is required", ErrInvalidRequest)
		}
		if item.CaloriesMin < 0 || item.CaloriesMax < item.CaloriesMin {
			return nil, fmt.Errorf("%w: invalid calorie range for %q", ErrInvalidRequest, name)
		}
		mealType, err := normalizeMealType(item.MealType)
		if err != nil {
			return nil, err
		}

		items = append(items, storage.FoodLogItem{
			Name:     name,
			Portion:  strings.TrimSpace(item.Portion),
			KcalMin:  item.CaloriesMin,
			KcalMax:  item.CaloriesMax,
			MealType: mealType,
		})
		names = append(names, name)
		totalMin += item.CaloriesMin
		totalMax += item.CaloriesMax
	}

	rawInput := strings.TrimSpace(req.RawInput)
	if rawInput == "" {
		rawInput = strings.Join(names, ", ")
	}

	log := &storage.FoodLog{
		UserID:       userID,
		Date:         date,
		MealType:     items[0].MealType,
		RawInput:     rawInput,
		Items:        items,
		TotalKcalMin: totalMin,
		TotalKcalMax: totalMax,
		Cautions:     strings.TrimSpace(req.Cautions),
	}
	if err := s.storage.CreateFoodLog(ctx, log); err != nil {
		return nil, err
	}

	dto := toDTO(*log)
	return &dto, nil
}

// ListLogs accepts either a single date or a from/to pair.
func (s *Service) ListLogs(ctx context.Context, date, from, to string) ([]FoodLogDTO, error) {
	userID := userIDFromContext(ctx)
	if userID == "" {
		return nil, ErrUnauthorized
	}

	from, to, err := resolveRange(date, from, to)
	if err != nil {
		return nil, err
	}

	logs, err := s.storage.ListFoodLogs(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	result := make([]FoodLogDTO, 0, len(logs))
	for _, log := range logs {
		result = append(result, toDTO(log))
	}
	return result, nil
}

func (s *Service) DeleteLog(ctx context.Context, id uuid.UUID) error {
	userID := userIDFromContext(ctx)
	if userID == "" {
		return ErrUnauthorized
	}

	if err := s.storage.DeleteFoodLog(ctx, userID, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func resolveRange(date, from, to string) (string, string, error) {
	date, from, to = strings.TrimSpace(date), strings.TrimSpace(from), strings.TrimSpace(to)
	switch {
	case date != "":
		if !validDate(date) {
			return "", "", fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidRequest)
		}
		return date, date, nil
	case from != "" && to != "":
		if !validDate(from) || !validDate(to) || from > to {
			return "", "", fmt.Errorf("%w: invalid date_from/date_to", ErrInvalidRequest)
		}
		return from, to, nil
	default:
		return "", "", fmt.Errorf("%w: provide date or both date_from and date_to", ErrInvalidRequest)
	}
}

func normalizeMealType(raw string) (string, error) {
	mealType := strings.ToLower(strings.TrimSpace(raw))
	if mealType == "" {
		return defaultMealType, nil
	}
	if !mealTypes[mealType] {
		return "", fmt.Errorf("%w: unknown meal_type %q", ErrInvalidRequest, raw)
	}
	return mealType, nil
}

func validDate(s string) bool {
	_, err := time.Parse(storage.DateLayout, s)
	return err == nil
}

func userIDFromContext(ctx context.Context) string {
	userID, ok := userctx.GetUserID(ctx)
	if !ok {
		return ""
	}
	return strings.TrimSpace(userID)
}

func toDTO(log storage.FoodLog) FoodLogDTO {
	items := make([]FoodItem, 0, len(log.Items))
	for _, item := range log.Items {
		mealType := item.MealType
		if mealType == "" {
			mealType = log.MealType
		}
		items = append(items, FoodItem{
			Name:        item.Name,
			CaloriesMin: item.KcalMin,
			CaloriesMax: item.KcalMax,
			Portion:     item.Portion,
			MealType:    mealType,
		})
	}
	return FoodLogDTO{
		ID:            log.ID,
		UserID:        log.UserID,
		Date:          log.Date,
		MealType:      log.MealType,
		RawInput:      log.RawInput,
		FoodItems:     items,
		TotalKcalMin:  log.TotalKcalMin,
		TotalKcalMax:  log.TotalKcalMax,
		TotalCalories: log.TotalKcalMax,
		Cautions:      log.Cautions,
		CreatedAt:     log.CreatedAt,
	}
}
