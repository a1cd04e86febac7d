package storage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned for a missing record or one owned by another user.
var ErrNotFound = errors.New("record not found")

// DateLayout is the YYYY-MM-DD format used for every record date.
const DateLayout = "2006-01-02"

// Storage bundles every record store behind one backend.
type Storage interface {
	ProfilesStorage
	FoodLogsStorage
	WorkoutLogsStorage
	BodyLogsStorage
	IngredientChecksStorage
	InsightsStorage
	ChatLogsStorage

	// Close releases the backend connection (Postgres).
	Close() error
}

// Profile is the one-per-user health profile.
type Profile struct {
	UserID         string
	GoalType       string // cut | bulk | gain | maintain
	HeightCM       float64
	StartWeightKG  float64
	TargetWeightKG *float64
	ActivityLevel  string // sedentary | light | moderate | active | very_active
	Age            *int
	Gender         *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type ProfilesStorage interface {
	// GetProfile returns ErrNotFound when the user has no profile yet.
	GetProfile(ctx context.Context, userID string) (*Profile, error)

	// UpsertProfile creates or replaces the user's profile.
	UpsertProfile(ctx context.Context, profile *Profile) error
}

type FoodLogItem struct {
	Name     string `json:"name"`
	Portion  string `json:"portion"`
	KcalMin  int    `json:"kcal_min"`
	KcalMax  int    `json:"kcal_max"`
	MealType string `json:"meal_type,omitempty"`
}

type FoodLog struct {
	ID           uuid.UUID
	UserID       string
	Date         string // YYYY-MM-DD
	MealType     string
	RawInput     string
	Items        []FoodLogItem
	TotalKcalMin int
	TotalKcalMax int
	Cautions     string
	CreatedAt    time.Time
}

type FoodLogsStorage interface {
	CreateFoodLog(ctx context.Context, log *FoodLog) error
	// ListFoodLogs returns logs with from <= date <= to, newest first.
	ListFoodLogs(ctx context.Context, userID, from, to string) ([]FoodLog, error)
	DeleteFoodLog(ctx context.Context, userID string, id uuid.UUID) error
}

type WorkoutLog struct {
	ID              uuid.UUID
	UserID          string
	Date            string
	WorkoutType     string
	DurationMinutes int
	Notes           string
	CreatedAt       time.Time
}

type WorkoutLogsStorage interface {
	CreateWorkoutLog(ctx context.Context, log *WorkoutLog) error
	ListWorkoutLogs(ctx context.Context, userID, from, to string) ([]WorkoutLog, error)
	DeleteWorkoutLog(ctx context.Context, userID string, id uuid.UUID) error
}

type BodyLog struct {
	ID        uuid.UUID
	UserID    string
	Date      string
	WeightKG  float64
	Notes     string
	CreatedAt time.Time
}

type BodyLogsStorage interface {
	CreateBodyLog(ctx context.Context, log *BodyLog) error
	ListBodyLogs(ctx context.Context, userID, from, to string) ([]BodyLog, error)
	DeleteBodyLog(ctx context.Context, userID string, id uuid.UUID) error
}

// IngredientCheck stores one analysis result.
type IngredientCheck struct {
	ID          uuid.UUID
	UserID      string
	RawInput    string
	Verdict     string // recommend | caution | avoid
	Reason      string
	Suggestions []string
	Details     string
	CreatedAt   time.Time
}

type IngredientChecksStorage interface {
	CreateIngredientCheck(ctx context.Context, check *IngredientCheck) error
	// ListIngredientChecks returns up to limit checks, newest first.
	ListIngredientChecks(ctx context.Context, userID string, limit int) ([]IngredientCheck, error)
	DeleteIngredientCheck(ctx context.Context, userID string, id uuid.UUID) error
}

// Insight is the generated summary for one user day. A regenerated insight replaces the old one.
type Insight struct {
	ID          uuid.UUID
	UserID      string
	Date        string
	GapSummary  string
	Reasons     []string
	NextActions []string
	CreatedAt   time.Time
}

type InsightsStorage interface {
	UpsertInsight(ctx context.Context, insight *Insight) error
	GetInsight(ctx context.Context, userID, date string) (*Insight, error)
}

// ChatLog is one recorded conversational turn.
type ChatLog struct {
	ID        uuid.UUID
	UserID    string
	Message   string
	Response  string
	Context   []byte // JSON object, may be nil
	CreatedAt time.Time
}

type ChatLogsStorage interface {
	CreateChatLog(ctx context.Context, log *ChatLog) error
	// ListChatLogs returns up to limit turns, newest first.
	ListChatLogs(ctx context.Context, userID string, limit int) ([]ChatLog, error)
}
