package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/fdg312/health-assistant/internal/storage"
	"github.com/google/uuid"
)

func TestFoodLogsNewestFirstWithinRange(t *testing.T) {
	st := New()
	ctx := context.Background()

	for _, date := range []string{"2024-03-01", "2024-03-03", "2024-03-02", "2024-03-03"} {
		log := &storage.FoodLog{UserID: "u1", Date: date, RawInput: date}
		if err := st.CreateFoodLog(ctx, log); err != nil {
			t.Fatalf("create food log: %v", err)
		}
	}
	if err := st.CreateFoodLog(ctx, &storage.FoodLog{UserID: "u2", Date: "2024-03-02"}); err != nil {
		t.Fatalf("create food log: %v", err)
	}

	logs, err := st.ListFoodLogs(ctx, "u1", "2024-03-02", "2024-03-03")
	if err != nil {
		t.Fatalf("list food logs: %v", err)
	}
	if len(logs) != 3 {
		t.Fatalf("expected 3 logs, got %d", len(logs))
	}
	if logs[0].Date != "2024-03-03" || logs[2].Date != "2024-03-02" {
		t.Fatalf("expected newest date first, got %s..%s", logs[0].Date, logs[2].Date)
	}
	for _, log := range logs {
		if log.ID == uuid.Nil || log.CreatedAt.IsZero() {
			t.Fatalf("expected id and created_at to be assigned")
		}
	}
}

func TestDeleteRejectsForeignRecord(t *testing.T) {
	st := New()
	ctx := context.Background()

	log := &storage.WorkoutLog{UserID: "owner", Date: "2024-03-01", WorkoutType: "run", DurationMinutes: 30}
	if err := st.CreateWorkoutLog(ctx, log); err != nil {
		t.Fatalf("create workout log: %v", err)
	}

	if err := st.DeleteWorkoutLog(ctx, "intruder", log.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign delete, got %v", err)
	}
	if err := st.DeleteWorkoutLog(ctx, "owner", log.ID); err != nil {
		t.Fatalf("delete workout log: %v", err)
	}
	if err := st.DeleteWorkoutLog(ctx, "owner", log.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for second delete, got %v", err)
	}
}

func TestChatLogsNewestFirstWithLimit(t *testing.T) {
	st := New()
	ctx := context.Background()

	for _, msg := range []string{"first", "second", "third"} {
		if err := st.CreateChatLog(ctx, &storage.ChatLog{UserID: "u1", Message: msg, Response: "ok"}); err != nil {
			t.Fatalf("create chat log: %v", err)
		}
	}

	logs, err := st.ListChatLogs(ctx, "u1", 2)
	if err != nil {
		t.Fatalf("list chat logs: %v", err)
	}
	if len(logs) != 2 || logs[0].Message != "third" || logs[1].Message != "second" {
		t.Fatalf("unexpected chat logs order: %+v", logs)
	}
}

func TestProfileUpsertKeepsCreatedAt(t *testing.T) {
	st := New()
	ctx := context.Background()

	if _, err := st.GetProfile(ctx, "u1"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound before upsert, got %v", err)
	}

	first := &storage.Profile{UserID: "u1", GoalType: "cut", HeightCM: 170, StartWeightKG: 80, ActivityLevel: "light"}
	if err := st.UpsertProfile(ctx, first); err != nil {
		t.Fatalf("upsert profile: %v", err)
	}
	second := &storage.Profile{UserID: "u1", GoalType: "bulk", HeightCM: 170, StartWeightKG: 80, ActivityLevel: "active"}
	if err := st.UpsertProfile(ctx, second); err != nil {
		t.Fatalf("upsert profile: %v", err)
	}

	got, err := st.GetProfile(ctx, "u1")
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if got.GoalType != "bulk" {
		t.Fatalf("expected bulk, got %s", got.GoalType)
	}
	if !got.CreatedAt.Equal(first.CreatedAt) {
		t.Fatalf("expected created_at to survive upsert")
	}
}

func TestInsightUpsertReplacesSameDay(t *testing.T) {
	st := New()
	ctx := context.Background()

	first := &storage.Insight{UserID: "u1", Date: "2024-03-01", GapSummary: "old"}
	if err := st.UpsertInsight(ctx, first); err != nil {
		t.Fatalf("upsert insight: %v", err)
	}
	if err := st.UpsertInsight(ctx, &storage.Insight{UserID: "u1", Date: "2024-03-01", GapSummary: "new"}); err != nil {
		t.Fatalf("upsert insight: %v", err)
	}

	got, err := st.GetInsight(ctx, "u1", "2024-03-01")
	if err != nil {
		t.Fatalf("get insight: %v", err)
	}
	if got.GapSummary != "new" || got.ID != first.ID {
		t.Fatalf("expected replaced insight with stable id, got %+v", got)
	}
}
