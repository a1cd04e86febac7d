package ingredients

import (
	"time"

	"github.com/fdg312/health-assistant/internal/ai"
	"github.com/google/uuid"
)

type AnalyzeRequest struct {
	Text string `json:"text"`
}

type AnalyzeResponse struct {
	ID uuid.UUID `json:"id"`
	ai.IngredientAnalyzeResult
}

type CheckDTO struct {
	ID        uuid.UUID                  `json:"id"`
	RawInput  string                     `json:"raw_input"`
	Result    ai.IngredientAnalyzeResult `json:"result_json"`
	CreatedAt time.Time                  `json:"created_at"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
