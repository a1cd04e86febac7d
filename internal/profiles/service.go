package profiles

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fdg312/health-assistant/internal/ai"
	"github.com/fdg312/health-assistant/internal/storage"
	"github.com/fdg312/health-assistant/internal/userctx"
)

var (
	ErrUnauthorized    = errors.New("unauthorized")
	ErrInvalidRequest  = errors.New("invalid request")
	ErrProfileNotFound = errors.New("profile not found")
)

type Service struct {
	storage storage.ProfilesStorage
}

func NewService(st storage.ProfilesStorage) *Service {
	return &Service{storage: st}
}

func (s *Service) GetProfile(ctx context.Context) (*ProfileDTO, error) {
	userID, ok := userctx.GetUserID(ctx)
	if !ok || strings.TrimSpace(userID) == "" {
		return nil, ErrUnauthorized
	}

	profile, err := s.storage.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	dto := toDTO(profile)
	return &dto, nil
}

// UpsertProfile creates the caller's profile or replaces it. start_weight_kg is required on
// creation and kept from the stored profile when omitted afterwards.
func (s *Service) UpsertProfile(ctx context.Context, req UpsertProfileRequest) (*ProfileDTO, error) {
	userID, ok := userctx.GetUserID(ctx)
	if !ok || strings.TrimSpace(userID) == "" {
		return nil, ErrUnauthorized
	}

	if err := validate(req); err != nil {
		return nil, err
	}

	existing, err := s.storage.GetProfile(ctx, userID)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	var startWeight float64
	switch {
	case req.StartWeightKG != nil:
		startWeight = *req.StartWeightKG
	case existing != nil:
		startWeight = existing.StartWeightKG
	default:
		return nil, fmt.Errorf("%w: start_weight_kg is required", ErrInvalidRequest)
	}

	profile := &storage.Profile{
		UserID:         userID,
		GoalType:       strings.TrimSpace(req.GoalType),
		HeightCM:       req.HeightCM,
		StartWeightKG:  startWeight,
		TargetWeightKG: req.TargetWeightKG,
		ActivityLevel:  strings.TrimSpace(req.ActivityLevel),
		Age:            req.Age,
		Gender:         trimOptional(req.Gender),
	}
	if err := s.storage.UpsertProfile(ctx, profile); err != nil {
		return nil, err
	}

	dto := toDTO(profile)
	return &dto, nil
}

// Summary returns the generation-facing view of a user's profile, or nil when the user has
// not completed onboarding.
func (s *Service) Summary(ctx context.Context, userID string) (*ai.UserProfileSummary, error) {
	profile, err := s.storage.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return ToSummary(profile), nil
}

func ToSummary(p *storage.Profile) *ai.UserProfileSummary {
	if p == nil {
		return nil
	}
	return &ai.UserProfileSummary{
		GoalType:      ai.GoalType(p.GoalType),
		HeightCM:      p.HeightCM,
		StartWeightKG: p.StartWeightKG,
		ActivityLevel: ai.ActivityLevel(p.ActivityLevel),
		Age:           p.Age,
		Gender:        p.Gender,
	}
}

func validate(req UpsertProfileRequest) error {
	if !ai.GoalType(strings.TrimSpace(req.GoalType)).Valid() {
		return fmt.Errorf("%w: goal_type must be one of cut, bulk, gain, maintain", ErrInvalidRequest)
	}
	if !ai.ActivityLevel(strings.TrimSpace(req.ActivityLevel)).Valid() {
		return fmt.Errorf("%w: invalid activity_level", ErrInvalidRequest)
	}
	if req.HeightCM <= 0 {
		return fmt.Errorf("%w: height_cm must be positive", ErrInvalidRequest)
	}
	if req.StartWeightKG != nil && *req.StartWeightKG <= 0 {
		return fmt.Errorf("%w: start_weight_kg must be positive", ErrInvalidRequest)
	}
	if req.TargetWeightKG != nil && *req.TargetWeightKG <= 0 {
		return fmt.Errorf("%w: target_weight_kg must be positive", ErrInvalidRequest)
	}
	if req.Age != nil && (*req.Age <= 0 || *req.Age > 150) {
		return fmt.Errorf("%w: age must be within 1..150", ErrInvalidRequest)
	}
	return nil
}

func trimOptional(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func toDTO(p *storage.Profile) ProfileDTO {
	return ProfileDTO{
		UserID:         p.UserID,
		GoalType:       p.GoalType,
		HeightCM:       p.HeightCM,
		StartWeightKG:  p.StartWeightKG,
		TargetWeightKG: p.TargetWeightKG,
		ActivityLevel:  p.ActivityLevel,
		Age:            p.Age,
		Gender:         p.Gender,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}
