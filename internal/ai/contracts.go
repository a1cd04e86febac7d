package ai

import "time"

type GoalType string

const (
	GoalCut      GoalType = "cut"
	GoalBulk     GoalType = "bulk"
	GoalGain     GoalType = "gain"
	GoalMaintain GoalType = "maintain"
)

// Valid reports whether g belongs to the closed goal set.
func (g GoalType) Valid() bool {
	switch g {
	case GoalCut, GoalBulk, GoalGain, GoalMaintain:
		return true
	default:
		return false
	}
}

type ActivityLevel string

const (
	ActivitySedentary  ActivityLevel = "sedentary"
	ActivityLight      ActivityLevel = "light"
	ActivityModerate   ActivityLevel = "moderate"
	ActivityActive     ActivityLevel = "active"
	ActivityVeryActive ActivityLevel = "very_active"
)

func (a ActivityLevel) Valid() bool {
	switch a {
	case ActivitySedentary, ActivityLight, ActivityModerate, ActivityActive, ActivityVeryActive:
		return true
	default:
		return false
	}
}

type VerdictCategory string

const (
	VerdictRecommend VerdictCategory = "recommend"
	VerdictCaution   VerdictCategory = "caution"
	VerdictAvoid     VerdictCategory = "avoid"
)

func (c VerdictCategory) Valid() bool {
	switch c {
	case VerdictRecommend, VerdictCaution, VerdictAvoid:
		return true
	default:
		return false
	}
}

// FoodItem is one parsed food with a calorie estimate range. KcalMin <= KcalMax.
type FoodItem struct {
	Name              string   `json:"name"`
	PortionAssumption string   `json:"portion_assumption"`
	PortionOptions    []string `json:"portion_options"`
	KcalMin           int      `json:"kcal_min"`
	KcalMax           int      `json:"kcal_max"`
	Notes             string   `json:"notes"`
}

// FoodParseResult totals are the sums of the item bounds.
type FoodParseResult struct {
	Items        []FoodItem `json:"items"`
	TotalKcalMin int        `json:"total_kcal_min"`
	TotalKcalMax int        `json:"total_kcal_max"`
	Cautions     string     `json:"cautions"`
}

type IngredientVerdict struct {
	Category    VerdictCategory `json:"category"`
	Reason      string          `json:"reason"`
	Suggestions []string        `json:"suggestions"`
}

type IngredientAnalyzeResult struct {
	Verdict IngredientVerdict `json:"verdict"`
	Details string            `json:"details"`
}

type InsightData struct {
	GapSummary  string   `json:"gap_summary"`
	Reasons     []string `json:"reasons"`
	NextActions []string `json:"next_actions"`
}

// ChatExchange is one prior (message, response) pair. Providers read it, never modify it.
type ChatExchange struct {
	Message  string `json:"message"`
	Response string `json:"response"`
}

type UserProfileSummary struct {
	GoalType      GoalType      `json:"goal_type"`
	HeightCM      float64       `json:"height_cm"`
	StartWeightKG float64       `json:"start_weight_kg"`
	ActivityLevel ActivityLevel `json:"activity_level"`
	Age           *int          `json:"age,omitempty"`
	Gender        *string       `json:"gender,omitempty"`
}

// Goal returns the profile goal, or maintain for a nil profile.
func (p *UserProfileSummary) Goal() GoalType {
	if p == nil || p.GoalType == "" {
		return GoalMaintain
	}
	return p.GoalType
}

type FoodLogSummary struct {
	RawInput     string `json:"raw_input"`
	TotalKcalMin int    `json:"total_kcal_min"`
	TotalKcalMax int    `json:"total_kcal_max"`
}

type WorkoutLogSummary struct {
	WorkoutType     string `json:"workout_type"`
	DurationMinutes int    `json:"duration_minutes"`
}

type BodyLogSummary struct {
	WeightKG float64 `json:"weight_kg"`
}

type InsightRequest struct {
	Date        time.Time
	FoodLogs    []FoodLogSummary
	WorkoutLogs []WorkoutLogSummary
	BodyLogs    []BodyLogSummary
	Profile     *UserProfileSummary
}

type ChatRequest struct {
	Message string
	Context map[string]any
	History []ChatExchange
	Profile *UserProfileSummary
}
