package ingredients

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fdg312/health-assistant/internal/ai"
	"github.com/fdg312/health-assistant/internal/storage"
	"github.com/fdg312/health-assistant/internal/userctx"
	"github.com/google/uuid"
)

var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrInvalidRequest = errors.New("invalid request")
	ErrNotFound       = errors.New("ingredient check not found")
	ErrAIFailed       = errors.New("ai failed")
)

const checksLimit = 50

type profileSummaries interface {
	Summary(ctx context.Context, userID string) (*ai.UserProfileSummary, error)
}

type Service struct {
	storage  storage.IngredientChecksStorage
	profiles profileSummaries
	provider ai.Provider
}

func NewService(st storage.IngredientChecksStorage, profiles profileSummaries, provider ai.Provider) *Service {
	return &Service{
		storage:  st,
		profiles: profiles,
		provider: provider,
	}
}

// Analyze classifies an ingredient list against the caller's goal and stores the result.
func (s *Service) Analyze(ctx context.Context, req AnalyzeRequest) (*AnalyzeResponse, error) {
	userID := userIDFromContext(ctx)
	if userID == "" {
		return nil, ErrUnauthorized
	}

	profile, err := s.profiles.Summary(ctx, userID)
	if err != nil {
		return nil, err
	}

	result, err := s.provider.AnalyzeIngredient(ctx, req.Text, profile.Goal())
	if err != nil {
		if errors.Is(err, ai.ErrValidation) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrAIFailed, err)
	}

	check := &storage.IngredientCheck{
		UserID:      userID,
		RawInput:    strings.TrimSpace(req.Text),
		Verdict:     string(result.Verdict.Category),
		Reason:      result.Verdict.Reason,
		Suggestions: result.Verdict.Suggestions,
		Details:     result.Details,
	}
	if err := s.storage.CreateIngredientCheck(ctx, check); err != nil {
		return nil, err
	}

	return &AnalyzeResponse{ID: check.ID, IngredientAnalyzeResult: result}, nil
}

func (s *Service) ListChecks(ctx context.Context) ([]CheckDTO, error) {
	userID := userIDFromContext(ctx)
	if userID == "" {
		return nil, ErrUnauthorized
	}

	checks, err := s.storage.ListIngredientChecks(ctx, userID, checksLimit)
	if err != nil {
		return nil, err
	}

	result := make([]CheckDTO, 0, len(checks))
	for _, check := range checks {
		result = append(result, toDTO(check))
	}
	return result, nil
}

func (s *Service) DeleteCheck(ctx context.Context, id uuid.UUID) error {
	userID := userIDFromContext(ctx)
	if userID == "" {
		return ErrUnauthorized
	}

	if err := s.storage.DeleteIngredientCheck(ctx, userID, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func userIDFromContext(ctx context.Context) string {
	userID, ok := userctx.GetUserID(ctx)
	if !ok {
		return ""
	}
	return strings.TrimSpace(userID)
}

func toDTO(check storage.IngredientCheck) CheckDTO {
	suggestions := check.Suggestions
	if suggestions == nil {
		suggestions = []string{}
	}
	return CheckDTO{
		ID:       check.ID,
		RawInput: check.RawInput,
		Result: ai.IngredientAnalyzeResult{
			Verdict: ai.IngredientVerdict{
				Category:    ai.VerdictCategory(check.Verdict),
				Reason:      check.Reason,
				Suggestions: suggestions,
			},
			Details: check.Details,
		},
		CreatedAt: check.CreatedAt,
	}
}
