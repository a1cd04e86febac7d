package tracking

import (
	"time"

	"github.com/google/uuid"
)

type CreateWorkoutLogRequest struct {
	Date            string `json:"date"`
	WorkoutType     string `json:"workout_type"`
	DurationMinutes int    `json:"duration_minutes"`
	Notes           string `json:"notes"`
}

type WorkoutLogDTO struct {
	ID              uuid.UUID `json:"id"`
	UserID          string    `json:"user_id"`
	Date            string    `json:"date"`
	WorkoutType     string    `json:"workout_type"`
	DurationMinutes int       `json:"duration_minutes"`
	Notes           string    `json:"notes"`
	CreatedAt       time.Time `json:"created_at"`
}

type CreateBodyLogRequest struct {
	Date     string  `json:"date"`
	WeightKG float64 `json:"weight_kg"`
	Notes    string  `json:"notes"`
}

type BodyLogDTO struct {
	ID        uuid.UUID `json:"id"`
	UserID    string    `json:"user_id"`
	Date      string    `json:"date"`
	WeightKG  float64   `json:"weight_kg"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
