package profiles

import "time"

// UpsertProfileRequest is the PUT /v1/profile body. Pointer fields are optional.
type UpsertProfileRequest struct {
	GoalType       string   `json:"goal_type"`
	HeightCM       float64  `json:"height_cm"`
	StartWeightKG  *float64 `json:"start_weight_kg"`
	TargetWeightKG *float64 `json:"target_weight_kg"`
	ActivityLevel  string   `json:"activity_level"`
	Age            *int     `json:"age"`
	Gender         *string  `json:"gender"`
}

type ProfileDTO struct {
	UserID         string    `json:"user_id"`
	GoalType       string    `json:"goal_type"`
	HeightCM       float64   `json:"height_cm"`
	StartWeightKG  float64   `json:"start_weight_kg"`
	TargetWeightKG *float64  `json:"target_weight_kg"`
	ActivityLevel  string    `json:"activity_level"`
	Age            *int      `json:"age"`
	Gender         *string   `json:"gender"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
