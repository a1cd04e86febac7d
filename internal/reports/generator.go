package reports

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

const coreFont = "Helvetica"

// Generator renders daily reports. With a TTF font path it writes full Unicode; otherwise it
// falls back to a core font and replaces characters outside cp1252.
type Generator struct {
	fontPath string
}

func NewGenerator(fontPath string) *Generator {
	return &Generator{fontPath: strings.TrimSpace(fontPath)}
}

func (g *Generator) Render(report DailyReport, format string) ([]byte, error) {
	switch format {
	case FormatPDF:
		return g.renderPDF(report)
	case FormatCSV:
		return renderCSV(report)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

func renderCSV(report DailyReport) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	rows := [][]string{
		{"section", "field", "value"},
		{"summary", "date", report.Date},
		{"summary", "goal", report.Goal},
		{"summary", "target_kcal", strconv.Itoa(report.TargetKcal)},
		{"summary", "kcal_min", strconv.Itoa(report.KcalMin)},
		{"summary", "kcal_max", strconv.Itoa(report.KcalMax)},
		{"summary", "workout_minutes", strconv.Itoa(report.WorkoutMinutes)},
		{"summary", "weight_kg", formatWeight(report.WeightKG)},
		{"insight", "gap_summary", report.GapSummary},
	}
	for _, meal := range report.Meals {
		rows = append(rows, []string{"meal", meal.MealType, fmt.Sprintf("%s (%d-%d kcal)", meal.RawInput, meal.KcalMin, meal.KcalMax)})
	}
	for _, reason := range report.Reasons {
		rows = append(rows, []string{"insight", "reason", reason})
	}
	for _, action := range report.NextActions {
		rows = append(rows, []string{"insight", "next_action", action})
	}

	if err := w.WriteAll(rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g *Generator) renderPDF(report DailyReport) ([]byte, error) {
	fontDir := ""
	if g.fontPath != "" {
		fontDir = filepath.Dir(g.fontPath)
	}
	pdf := gofpdf.New("P", "mm", "A4", fontDir)

	fontName := coreFont
	text := pdf.UnicodeTranslatorFromDescriptor("")
	if g.fontPath != "" {
		pdf.AddUTF8Font("report", "", filepath.Base(g.fontPath))
		if pdf.Err() {
			return nil, fmt.Errorf("failed to load report font: %w", pdf.Error())
		}
		fontName = "report"
		text = func(s string) string { return s }
	} else {
		translate := text
		text = func(s string) string { return translate(toLatin1(s)) }
	}

	pdf.AddPage()
	pdf.SetFont(fontName, "", 16)
	pdf.Cell(0, 10, text("Daily Health Report"))
	pdf.Ln(8)

	pdf.SetFont(fontName, "", 12)
	pdf.Cell(0, 8, text(fmt.Sprintf("Date: %s   Goal: %s", report.Date, report.Goal)))
	pdf.Ln(12)

	pdf.SetFont(fontName, "", 14)
	pdf.Cell(0, 8, text("Summary"))
	pdf.Ln(8)

	pdf.SetFont(fontName, "", 10)
	summary := []string{
		fmt.Sprintf("Calories: %d-%d kcal (target %d)", report.KcalMin, report.KcalMax, report.TargetKcal),
		fmt.Sprintf("Exercise: %d min", report.WorkoutMinutes),
		fmt.Sprintf("Weight: %s", formatWeight(report.WeightKG)),
	}
	for _, line := range summary {
		pdf.Cell(0, 6, text(line))
		pdf.Ln(5)
	}
	pdf.Ln(7)

	if len(report.Meals) > 0 {
		pdf.SetFont(fontName, "", 14)
		pdf.Cell(0, 8, text("Meals"))
		pdf.Ln(8)

		pdf.SetFont(fontName, "", 8)
		pdf.CellFormat(30, 6, text("Meal"), "1", 0, "C", false, 0, "")
		pdf.CellFormat(110, 6, text("Food"), "1", 0, "C", false, 0, "")
		pdf.CellFormat(40, 6, text("kcal"), "1", 1, "C", false, 0, "")
		for _, meal := range report.Meals {
			pdf.CellFormat(30, 6, text(meal.MealType), "1", 0, "C", false, 0, "")
			pdf.CellFormat(110, 6, text(truncate(meal.RawInput, 70)), "1", 0, "L", false, 0, "")
			pdf.CellFormat(40, 6, fmt.Sprintf("%d-%d", meal.KcalMin, meal.KcalMax), "1", 1, "C", false, 0, "")
		}
		pdf.Ln(6)
	}

	pdf.SetFont(fontName, "", 14)
	pdf.Cell(0, 8, text("Insight"))
	pdf.Ln(8)

	pdf.SetFont(fontName, "", 10)
	pdf.MultiCell(0, 6, text(report.GapSummary), "", "L", false)
	writeBullets(pdf, fontName, text, "Why", report.Reasons)
	writeBullets(pdf, fontName, text, "Next steps", report.NextActions)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func writeBullets(pdf *gofpdf.Fpdf, fontName string, text func(string) string, title string, lines []string) {
	if len(lines) == 0 {
		return
	}
	pdf.Ln(3)
	pdf.SetFont(fontName, "", 11)
	pdf.Cell(0, 7, text(title))
	pdf.Ln(7)
	pdf.SetFont(fontName, "", 10)
	for _, line := range lines {
		pdf.MultiCell(0, 6, text("- "+line), "", "L", false)
	}
}

// toLatin1 replaces runes the core fonts cannot draw.
func toLatin1(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < 256 {
			b.WriteRune(r)
		} else {
			b.WriteByte('?')
		}
	}
	return b.String()
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}

func formatWeight(w *float64) string {
	if w == nil {
		return "no data"
	}
	return strconv.FormatFloat(*w, 'f', 1, 64) + " kg"
}
