package insights

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fdg312/health-assistant/internal/ai"
	"github.com/fdg312/health-assistant/internal/blob"
	"github.com/fdg312/health-assistant/internal/profiles"
	"github.com/fdg312/health-assistant/internal/reports"
	"github.com/fdg312/health-assistant/internal/storage"
	"github.com/fdg312/health-assistant/internal/userctx"
	"github.com/google/uuid"
)

var (
	ErrUnauthorized    = errors.New("unauthorized")
	ErrInvalidRequest  = errors.New("invalid request")
	ErrProfileNotFound = errors.New("profile not found")
	ErrNotFound        = errors.New("insight not found")
	ErrAIFailed        = errors.New("ai failed")
)

// Store is the record store slice the insight flow reads and writes.
type Store interface {
	DayReader
	storage.ProfilesStorage
	storage.InsightsStorage
}

type Service struct {
	storage    Store
	provider   ai.Provider
	generator  *reports.Generator
	blobStore  blob.Store
	presignTTL time.Duration
	now        func() time.Time
}

// NewService wires the insight flow. blobStore may be nil, in which case reports are returned
// inline.
func NewService(st Store, provider ai.Provider, generator *reports.Generator, blobStore blob.Store, presignTTL time.Duration) *Service {
	return &Service{
		storage:    st,
		provider:   provider,
		generator:  generator,
		blobStore:  blobStore,
		presignTTL: presignTTL,
		now:        time.Now,
	}
}

// Generate produces the insight for one day and replaces any earlier one.
func (s *Service) Generate(ctx context.Context, req GenerateRequest) (*InsightDTO, error) {
	userID := userIDFromContext(ctx)
	if userID == "" {
		return nil, ErrUnauthorized
	}

	day, err := s.resolveDate(req.Date)
	if err != nil {
		return nil, err
	}

	profile, err := s.storage.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	records, err := CollectDay(ctx, s.storage, userID, day)
	if err != nil {
		return nil, err
	}

	data, err := s.provider.GenerateInsight(ctx, records.InsightRequest(profiles.ToSummary(profile)))
	if err != nil {
		if errors.Is(err, ai.ErrValidation) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrAIFailed, err)
	}

	insight := &storage.Insight{
		UserID:      userID,
		Date:        day.Format(storage.DateLayout),
		GapSummary:  data.GapSummary,
		Reasons:     data.Reasons,
		NextActions: data.NextActions,
	}
	if err := s.storage.UpsertInsight(ctx, insight); err != nil {
		return nil, err
	}

	dto := toDTO(*insight)
	return &dto, nil
}

func (s *Service) GetDaily(ctx context.Context, date string) (*InsightDTO, error) {
	userID := userIDFromContext(ctx)
	if userID == "" {
		return nil, ErrUnauthorized
	}

	day, err := s.resolveDate(date)
	if err != nil {
		return nil, err
	}

	insight, err := s.storage.GetInsight(ctx, userID, day.Format(storage.DateLayout))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	dto := toDTO(*insight)
	return &dto, nil
}

// Report renders the stored insight and the day's logs. With an object store configured the
// file is uploaded and a presigned link is returned instead of the bytes.
func (s *Service) Report(ctx context.Context, date, format string) (*ReportResult, error) {
	userID := userIDFromContext(ctx)
	if userID == "" {
		return nil, ErrUnauthorized
	}

	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = reports.FormatPDF
	}
	if format != reports.FormatPDF && format != reports.FormatCSV {
		return nil, fmt.Errorf("%w: format must be pdf or csv", ErrInvalidRequest)
	}

	day, err := s.resolveDate(date)
	if err != nil {
		return nil, err
	}
	dateStr := day.Format(storage.DateLayout)

	insight, err := s.storage.GetInsight(ctx, userID, dateStr)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	profile, err := s.storage.GetProfile(ctx, userID)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}
	summary := profiles.ToSummary(profile)

	records, err := CollectDay(ctx, s.storage, userID, day)
	if err != nil {
		return nil, err
	}

	data, err := s.generator.Render(buildReport(records, summary, insight), format)
	if err != nil {
		return nil, err
	}

	result := &ReportResult{
		Filename:    fmt.Sprintf("insight-%s.%s", dateStr, format),
		ContentType: reports.ContentType(format),
	}

	if s.blobStore == nil {
		result.Data = data
		return result, nil
	}

	key := fmt.Sprintf("reports/%s/%s-%s.%s", userID, dateStr, uuid.NewString(), format)
	if _, err := s.blobStore.PutObject(ctx, key, data, result.ContentType); err != nil {
		return nil, err
	}
	url, err := s.blobStore.PresignGet(ctx, key, s.presignTTL)
	if err != nil {
		return nil, err
	}
	result.URL = url
	result.ExpiresIn = int(s.presignTTL.Seconds())
	return result, nil
}

func buildReport(records DayRecords, profile *ai.UserProfileSummary, insight *storage.Insight) reports.DailyReport {
	goal := profile.Goal()
	minKcal, maxKcal := records.KcalRange()

	meals := make([]reports.MealLine, 0, len(records.Food))
	for i := len(records.Food) - 1; i >= 0; i-- {
		log := records.Food[i]
		meals = append(meals, reports.MealLine{
			MealType: log.MealType,
			RawInput: log.RawInput,
			KcalMin:  log.TotalKcalMin,
			KcalMax:  log.TotalKcalMax,
		})
	}

	var weight *float64
	if len(records.Body) > 0 {
		// Newest body log of the day.
		w := records.Body[0].WeightKG
		weight = &w
	}

	return reports.DailyReport{
		Date:           insight.Date,
		Goal:           string(goal),
		TargetKcal:     ai.TargetCalories(goal),
		KcalMin:        minKcal,
		KcalMax:        maxKcal,
		Meals:          meals,
		WorkoutMinutes: records.WorkoutMinutes(),
		WeightKG:       weight,
		GapSummary:     insight.GapSummary,
		Reasons:        insight.Reasons,
		NextActions:    insight.NextActions,
	}
}

// resolveDate parses YYYY-MM-DD, defaulting to today (UTC).
func (s *Service) resolveDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		now := s.now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	day, err := time.Parse(storage.DateLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidRequest)
	}
	return day, nil
}

func userIDFromContext(ctx context.Context) string {
	userID, ok := userctx.GetUserID(ctx)
	if !ok {
		return ""
	}
	return strings.TrimSpace(userID)
}

func toDTO(insight storage.Insight) InsightDTO {
	reasons := insight.Reasons
	if reasons == nil {
		reasons = []string{}
	}
	actions := insight.NextActions
	if actions == nil {
		actions = []string{}
	}
	return InsightDTO{
		ID:          insight.ID,
		Date:        insight.Date,
		GapSummary:  insight.GapSummary,
		Reasons:     reasons,
		NextActions: actions,
		CreatedAt:   insight.CreatedAt,
	}
}
