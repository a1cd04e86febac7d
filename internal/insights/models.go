package insights

import (
	"time"

	"github.com/google/uuid"
)

type GenerateRequest struct {
	Date string `json:"date"`
}

type InsightDTO struct {
	ID          uuid.UUID `json:"id"`
	Date        string    `json:"date"`
	GapSummary  string    `json:"gap_summary"`
	Reasons     []string  `json:"reasons"`
	NextActions []string  `json:"next_actions"`
	CreatedAt   time.Time `json:"created_at"`
}

// ReportResult is either inline file bytes or a presigned download link.
type ReportResult struct {
	Filename    string
	ContentType string
	Data        []byte
	URL         string
	ExpiresIn   int
}

type ReportLinkResponse struct {
	URL              string `json:"url"`
	Filename         string `json:"filename"`
	ExpiresInSeconds int    `json:"expires_in_seconds"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
