package feed

type WeightPoint struct {
	Date     string  `json:"date"`
	WeightKG float64 `json:"weight"`
}

type CompletionRate struct {
	// Calories is the share of days in the window with at least one food log.
	Calories    float64 `json:"calories"`
	Workouts    int     `json:"workouts"`
	DaysLogged  int     `json:"days_logged"`
	TotalDays   int     `json:"total_days"`
	AvgCalories int     `json:"avg_calories"`
	MealsLogged int     `json:"meals_logged"`
}

type DashboardResponse struct {
	From           string         `json:"from"`
	To             string         `json:"to"`
	WeightTrends   []WeightPoint  `json:"weight_trends"`
	CompletionRate CompletionRate `json:"completion_rate"`
	WeeklyInsights []string       `json:"weekly_insights"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
