package feed

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fdg312/health-assistant/internal/storage"
	"github.com/fdg312/health-assistant/internal/storage/memory"
	"github.com/fdg312/health-assistant/internal/userctx"
)

func TestGetDashboard(t *testing.T) {
	ctx := context.Background()
	mem := memory.New()
	service := NewService(mem)
	service.now = func() time.Time { return time.Date(2026, 3, 14, 20, 0, 0, 0, time.UTC) }

	mustCreate := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatalf("seed failed: %v", err)
		}
	}
	mustCreate(mem.CreateFoodLog(ctx, &storage.FoodLog{UserID: "userA", Date: "2026-03-14", TotalKcalMax: 700}))
	mustCreate(mem.CreateFoodLog(ctx, &storage.FoodLog{UserID: "userA", Date: "2026-03-14", TotalKcalMax: 700}))
	mustCreate(mem.CreateFoodLog(ctx, &storage.FoodLog{UserID: "userA", Date: "2026-03-10", TotalKcalMax: 1400}))
	mustCreate(mem.CreateFoodLog(ctx, &storage.FoodLog{UserID: "userA", Date: "2026-03-01", TotalKcalMax: 9999}))
	mustCreate(mem.CreateWorkoutLog(ctx, &storage.WorkoutLog{UserID: "userA", Date: "2026-03-13", WorkoutType: "run", DurationMinutes: 20}))
	mustCreate(mem.CreateBodyLog(ctx, &storage.BodyLog{UserID: "userA", Date: "2026-03-14", WeightKG: 71}))
	mustCreate(mem.CreateBodyLog(ctx, &storage.BodyLog{UserID: "userA", Date: "2026-03-09", WeightKG: 72}))

	req := httptest.NewRequest(http.MethodGet, "/v1/dashboard?days=7", nil)
	req = req.WithContext(userctx.WithUserID(ctx, "userA"))
	w := httptest.NewRecorder()
	HandleGetDashboard(service)(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", w.Code, w.Body.String())
	}

	var resp DashboardResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.From != "2026-03-08" || resp.To != "2026-03-14" {
		t.Fatalf("unexpected window %s..%s", resp.From, resp.To)
	}
	if len(resp.WeightTrends) != 2 || resp.WeightTrends[0].Date != "2026-03-09" {
		t.Fatalf("expected oldest-first trend, got %+v", resp.WeightTrends)
	}
	if resp.CompletionRate.DaysLogged != 2 || resp.CompletionRate.MealsLogged != 3 {
		t.Fatalf("unexpected completion: %+v", resp.CompletionRate)
	}
	if resp.CompletionRate.AvgCalories != 400 {
		t.Fatalf("expected avg 400, got %d", resp.CompletionRate.AvgCalories)
	}
	if resp.CompletionRate.Workouts != 1 {
		t.Fatalf("expected 1 workout day, got %d", resp.CompletionRate.Workouts)
	}
	if len(resp.WeeklyInsights) != 3 {
		t.Fatalf("expected 3 insight lines, got %d", len(resp.WeeklyInsights))
	}
}

func TestGetDashboardRejectsWindow(t *testing.T) {
	service := NewService(memory.New())

	for _, days := range []string{"0", "91", "abc"} {
		req := httptest.NewRequest(http.MethodGet, "/v1/dashboard?days="+days, nil)
		req = req.WithContext(userctx.WithUserID(context.Background(), "userA"))
		w := httptest.NewRecorder()
		HandleGetDashboard(service)(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("days=%s: expected 400, got %d", days, w.Code)
		}
	}
}
