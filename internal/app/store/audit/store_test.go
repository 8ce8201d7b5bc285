package audit_test

import (
	"testing"
	"time"

	"github.com/dalemusser/deptnews/internal/app/store/audit"
	"github.com/dalemusser/deptnews/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_LogAndGetByUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	userID := primitive.NewObjectID()
	err := store.Log(ctx, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventLoginSuccess,
		UserID:    &userID,
		IP:        "192.168.1.1",
		UserAgent: "TestBrowser/1.0",
		Success:   true,
	})
	if err != nil {
		t.Fatalf("Log failed: %v", err)
	}

	events, err := store.GetByUser(ctx, userID, 10)
	if err != nil {
		t.Fatalf("GetByUser failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].ID.IsZero() || events[0].Timestamp.IsZero() {
		t.Errorf("id/timestamp not generated: %+v", events[0])
	}
}

func TestStore_QueryFilters(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	events := []audit.Event{
		{Category: audit.CategoryAuth, EventType: audit.EventLoginSuccess, Timestamp: base, Success: true},
		{Category: audit.CategoryAuth, EventType: audit.EventLoginFailedWrongPassword, Timestamp: base.Add(time.Hour)},
		{Category: audit.CategoryAdmin, EventType: audit.EventAnnouncementCreated, Department: "CSE", Timestamp: base.Add(2 * time.Hour), Success: true},
		{Category: audit.CategoryAdmin, EventType: audit.EventAnnouncementCreated, Department: "ECE", Timestamp: base.Add(3 * time.Hour), Success: true},
	}
	for _, e := range events {
		if err := store.Log(ctx, e); err != nil {
			t.Fatalf("Log: %v", err)
		}
	}

	tests := []struct {
		name   string
		filter audit.QueryFilter
		want   int64
	}{
		{"all", audit.QueryFilter{}, 4},
		{"category", audit.QueryFilter{Category: audit.CategoryAuth}, 2},
		{"event type", audit.QueryFilter{EventType: audit.EventAnnouncementCreated}, 2},
		{"department", audit.QueryFilter{Department: "CSE"}, 1},
		{"time window", audit.QueryFilter{StartTime: ptr(base.Add(time.Hour)), EndTime: ptr(base.Add(3 * time.Hour))}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := store.CountByFilter(ctx, tt.filter)
			if err != nil {
				t.Fatalf("CountByFilter: %v", err)
			}
			if n != tt.want {
				t.Errorf("count = %d, want %d", n, tt.want)
			}
		})
	}

	got, err := store.Query(ctx, audit.QueryFilter{Limit: 2})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(got) != 2 || got[0].Department != "ECE" {
		t.Errorf("expected newest first with limit 2, got %+v", got)
	}
}

func ptr(t time.Time) *time.Time { return &t }
