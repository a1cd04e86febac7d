package food

import (
	"time"

	"github.com/google/uuid"
)

type ParseRequest struct {
	Text     string `json:"text"`
	MealType string `json:"meal_type"`
}

// FoodItem is the client-facing item shape shared by parse and log endpoints.
type FoodItem struct {
	Name        string `json:"name"`
	CaloriesMin int    `json:"calories_min"`
	CaloriesMax int    `json:"calories_max"`
	Portion     string `json:"portion"`
	MealType    string `json:"meal_type"`
}

type ParseResponse struct {
	Items        []FoodItem `json:"items"`
	TotalKcalMin int        `json:"total_kcal_min"`
	TotalKcalMax int        `json:"total_kcal_max"`
	Cautions     string     `json:"cautions"`
}

type CreateLogRequest struct {
	Date      string     `json:"date"`
	RawInput  string     `json:"raw_input"`
	FoodItems []FoodItem `json:"food_items"`
	Cautions  string     `json:"cautions"`
}

type FoodLogDTO struct {
	ID            uuid.UUID  `json:"id"`
	UserID        string     `json:"user_id"`
	Date          string     `json:"date"`
	MealType      string     `json:"meal_type"`
	RawInput      string     `json:"raw_input"`
	FoodItems     []FoodItem `json:"food_items"`
	TotalKcalMin  int        `json:"total_kcal_min"`
	TotalKcalMax  int        `json:"total_kcal_max"`
	TotalCalories int        `json:"total_calories"`
	Cautions      string     `json:"cautions"`
	CreatedAt     time.Time  `json:"created_at"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
