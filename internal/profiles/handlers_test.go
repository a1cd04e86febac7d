package profiles

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fdg312/health-assistant/internal/ai"
	"github.com/fdg312/health-assistant/internal/storage/memory"
	"github.com/fdg312/health-assistant/internal/userctx"
)

func setupHandler() (*Handler, *Service) {
	service := NewService(memory.New())
	return NewHandler(service), service
}

func putProfile(t *testing.T, handler *Handler, userID string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPut, "/v1/profile", bytes.NewReader(data))
	req = req.WithContext(userctx.WithUserID(context.Background(), userID))
	w := httptest.NewRecorder()
	handler.HandleUpsert(w, req)
	return w
}

func TestGetProfileNotFound(t *testing.T) {
	handler, _ := setupHandler()

	req := httptest.NewRequest(http.MethodGet, "/v1/profile", nil)
	req = req.WithContext(userctx.WithUserID(context.Background(), "userA"))
	w := httptest.NewRecorder()
	handler.HandleGet(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestUpsertThenGet(t *testing.T) {
	handler, _ := setupHandler()

	start := 80.0
	w := putProfile(t, handler, "userA", UpsertProfileRequest{
		GoalType:      "cut",
		HeightCM:      178,
		StartWeightKG: &start,
		ActivityLevel: "moderate",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", w.Code, w.Body.String())
	}

	// Second PUT omits start weight and keeps the stored one.
	w = putProfile(t, handler, "userA", map[string]any{
		"goal_type":      "maintain",
		"height_cm":      178,
		"activity_level": "active",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", w.Code, w.Body.String())
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/profile", nil)
	req = req.WithContext(userctx.WithUserID(context.Background(), "userA"))
	w = httptest.NewRecorder()
	handler.HandleGet(w, req)

	var resp ProfileDTO
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.GoalType != "maintain" || resp.StartWeightKG != 80 || resp.ActivityLevel != "active" {
		t.Fatalf("unexpected profile: %+v", resp)
	}
}

func TestUpsertValidation(t *testing.T) {
	handler, _ := setupHandler()
	start := 70.0
	negative := -1.0
	badAge := 200

	tests := map[string]UpsertProfileRequest{
		"unknown goal":     {GoalType: "shred", HeightCM: 170, StartWeightKG: &start, ActivityLevel: "light"},
		"unknown activity": {GoalType: "cut", HeightCM: 170, StartWeightKG: &start, ActivityLevel: "lazy"},
		"zero height":      {GoalType: "cut", StartWeightKG: &start, ActivityLevel: "light"},
		"missing start":    {GoalType: "cut", HeightCM: 170, ActivityLevel: "light"},
		"negative target":  {GoalType: "cut", HeightCM: 170, StartWeightKG: &start, TargetWeightKG: &negative, ActivityLevel: "light"},
		"age out of range": {GoalType: "cut", HeightCM: 170, StartWeightKG: &start, ActivityLevel: "light", Age: &badAge},
	}

	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			w := putProfile(t, handler, "userA", body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", w.Code)
			}
		})
	}
}

func TestSummary(t *testing.T) {
	_, service := setupHandler()

	summary, err := service.Summary(context.Background(), "nobody")
	if err != nil || summary != nil {
		t.Fatalf("expected nil summary without profile, got %+v err=%v", summary, err)
	}
	if summary.Goal() != ai.GoalMaintain {
		t.Fatalf("expected maintain goal for nil summary")
	}

	start := 60.0
	ctx := userctx.WithUserID(context.Background(), "userB")
	if _, err := service.UpsertProfile(ctx, UpsertProfileRequest{GoalType: "bulk", HeightCM: 180, StartWeightKG: &start, ActivityLevel: "very_active"}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	summary, err = service.Summary(context.Background(), "userB")
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.Goal() != ai.GoalBulk || summary.ActivityLevel != ai.ActivityVeryActive {
		t.Fatalf("unexpected summary: %+v", summary)
	}
}
