package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Provider is a backend for the four generation operations. Implementations are stateless
// across calls and safe for concurrent use.
type Provider interface {
	ParseFood(ctx context.Context, text string, goal GoalType) (FoodParseResult, error)
	AnalyzeIngredient(ctx context.Context, text string, goal GoalType) (IngredientAnalyzeResult, error)
	GenerateInsight(ctx context.Context, req InsightRequest) (InsightData, error)
	Chat(ctx context.Context, req ChatRequest) (string, error)
}

var (
	// ErrValidation marks a request rejected before any backend work.
	ErrValidation = errors.New("validation failed")
	// ErrGeneration marks a backend that could not produce a contract-conforming result.
	ErrGeneration = errors.New("generation failed")
)

const (
	OpParseFood         = "parse_food"
	OpAnalyzeIngredient = "analyze_ingredient"
	OpGenerateInsight   = "generate_insight"
	OpChat              = "chat"
)

// GenerationError carries the cause of a terminal generation failure.
type GenerationError struct {
	Op       string
	Attempts int
	Cause    error
}

func (e *GenerationError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("%s: %s", e.Op, ErrGeneration)
	}
	return fmt.Sprintf("%s: %s after %d attempt(s): %v", e.Op, ErrGeneration, e.Attempts, e.Cause)
}

func (e *GenerationError) Unwrap() error { return e.Cause }

func (e *GenerationError) Is(target error) bool { return target == ErrGeneration }

// AsGenerationError unwraps err into a *GenerationError.
func AsGenerationError(err error) (*GenerationError, bool) {
	var ge *GenerationError
	if errors.As(err, &ge) {
		return ge, true
	}
	return nil, false
}

func requireText(op, text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", fmt.Errorf("%w: %s requires non-empty text", ErrValidation, op)
	}
	return trimmed, nil
}
