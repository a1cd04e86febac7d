package reports

import "errors"

const (
	FormatPDF = "pdf"
	FormatCSV = "csv"
)

var ErrUnsupportedFormat = errors.New("unsupported report format")

// DailyReport is everything rendered into a one-day export.
type DailyReport struct {
	Date           string
	Goal           string
	TargetKcal     int
	KcalMin        int
	KcalMax        int
	Meals          []MealLine
	WorkoutMinutes int
	WeightKG       *float64
	GapSummary     string
	Reasons        []string
	NextActions    []string
}

type MealLine struct {
	MealType string
	RawInput string
	KcalMin  int
	KcalMax  int
}

// ContentType returns the MIME type for format.
func ContentType(format string) string {
	switch format {
	case FormatCSV:
		return "text/csv"
	default:
		return "application/pdf"
	}
}
