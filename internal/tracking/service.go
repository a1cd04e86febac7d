package tracking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fdg312/health-assistant/internal/storage"
	"github.com/fdg312/health-assistant/internal/userctx"
	"github.com/google/uuid"
)

var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrInvalidRequest = errors.New("invalid request")
	ErrNotFound       = errors.New("log not found")
)

const (
	maxDurationMinutes = 24 * 60
	maxWeightKG        = 500
)

// Store covers workout and body logs.
type Store interface {
	storage.WorkoutLogsStorage
	storage.BodyLogsStorage
}

type Service struct {
	storage Store
}

func NewService(st Store) *Service {
	return &Service{storage: st}
}

func (s *Service) CreateWorkoutLog(ctx context.Context, req CreateWorkoutLogRequest) (*WorkoutLogDTO, error) {
	userID := userIDFromContext(ctx)
	if userID == "" {
		return nil, ErrUnauthorized
	}

	date := strings.TrimSpace(req.Date)
	if !validDate(date) {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidRequest)
	}
	workoutType := strings.TrimSpace(req.WorkoutType)
	if workoutType == "" {
		return nil, fmt.Errorf("%w: workout_type is required", ErrInvalidRequest)
	}
	if req.DurationMinutes <= 0 || req.DurationMinutes > maxDurationMinutes {
		return nil, fmt.Errorf("%w: duration_minutes must be positive", ErrInvalidRequest)
	}

	log := &storage.WorkoutLog{
		UserID:          userID,
		Date:            date,
		WorkoutType:     workoutType,
		DurationMinutes: req.DurationMinutes,
		Notes:           strings.TrimSpace(req.Notes),
	}
	if err := s.storage.CreateWorkoutLog(ctx, log); err != nil {
		return nil, err
	}

	dto := workoutToDTO(*log)
	return &dto, nil
}

func (s *Service) ListWorkoutLogs(ctx context.Context, from, to string) ([]WorkoutLogDTO, error) {
	userID := userIDFromContext(ctx)
	if userID == "" {
		return nil, ErrUnauthorized
	}
	if err := validateRange(from, to); err != nil {
		return nil, err
	}

	logs, err := s.storage.ListWorkoutLogs(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	result := make([]WorkoutLogDTO, 0, len(logs))
	for _, log := range logs {
		result = append(result, workoutToDTO(log))
	}
	return result, nil
}

func (s *Service) DeleteWorkoutLog(ctx context.Context, id uuid.UUID) error {
	userID := userIDFromContext(ctx)
	if userID == "" {
		return ErrUnauthorized
	}
	return mapNotFound(s.storage.DeleteWorkoutLog(ctx, userID, id))
}

func (s *Service) CreateBodyLog(ctx context.Context, req CreateBodyLogRequest) (*BodyLogDTO, error) {
	userID := userIDFromContext(ctx)
	if userID == "" {
		return nil, ErrUnauthorized
	}

	date := strings.TrimSpace(req.Date)
	if !validDate(date) {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidRequest)
	}
	if req.WeightKG <= 0 || req.WeightKG > maxWeightKG {
		return nil, fmt.Errorf("%w: weight_kg must be positive", ErrInvalidRequest)
	}

	log := &storage.BodyLog{
		UserID:   userID,
		Date:     date,
		WeightKG: req.WeightKG,
		Notes:    strings.TrimSpace(req.Notes),
	}
	if err := s.storage.CreateBodyLog(ctx, log); err != nil {
		return nil, err
	}

	dto := bodyToDTO(*log)
	return &dto, nil
}

func (s *Service) ListBodyLogs(ctx context.Context, from, to string) ([]BodyLogDTO, error) {
	userID := userIDFromContext(ctx)
	if userID == "" {
		return nil, ErrUnauthorized
	}
	if err := validateRange(from, to); err != nil {
		return nil, err
	}

	logs, err := s.storage.ListBodyLogs(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	result := make([]BodyLogDTO, 0, len(logs))
	for _, log := range logs {
		result = append(result, bodyToDTO(log))
	}
	return result, nil
}

func (s *Service) DeleteBodyLog(ctx context.Context, id uuid.UUID) error {
	userID := userIDFromContext(ctx)
	if userID == "" {
		return ErrUnauthorized
	}
	return mapNotFound(s.storage.DeleteBodyLog(ctx, userID, id))
}

func validateRange(from, to string) error {
	if !validDate(from) || !validDate(to) {
		return fmt.Errorf("%w: date_from and date_to must be YYYY-MM-DD", ErrInvalidRequest)
	}
	if from > to {
		return fmt.Errorf("%w: date_from is after date_to", ErrInvalidRequest)
	}
	return nil
}

func mapNotFound(err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return ErrNotFound
	}
	return err
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

func workoutToDTO(log storage.WorkoutLog) WorkoutLogDTO {
	return WorkoutLogDTO{
		ID:              log.ID,
		UserID:          log.UserID,
		Date:            log.Date,
		WorkoutType:     log.WorkoutType,
		DurationMinutes: log.DurationMinutes,
		Notes:           log.Notes,
		CreatedAt:       log.CreatedAt,
	}
}

func bodyToDTO(log storage.BodyLog) BodyLogDTO {
	return BodyLogDTO{
		ID:        log.ID,
		UserID:    log.UserID,
		Date:      log.Date,
		WeightKG:  log.WeightKG,
		Notes:     log.Notes,
		CreatedAt: log.CreatedAt,
	}
}
