package newsreport_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/deptnews/internal/app/features/newsreport"
	"github.com/dalemusser/deptnews/internal/app/system/daterange"
	"github.com/dalemusser/deptnews/internal/app/system/metrics"
	"github.com/dalemusser/deptnews/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type countingAgg struct {
	calls int
	err   error
}

func (a *countingAgg) Aggregate(ctx context.Context, pipeline interface{}, opts ...*options.AggregateOptions) (*mongo.Cursor, error) {
	a.calls++
	if a.err != nil {
		return nil, a.err
	}
	return mongo.NewCursorFromDocuments(nil, nil, nil)
}

func fixedNow() time.Time {
	return time.Date(2025, 6, 3, 12, 0, 0, 0, daterange.IST.Location())
}

func newHandler(agg *countingAgg) *newsreport.Handler {
	h := newsreport.NewHandler(agg, daterange.IST, 7, metrics.New(), zap.NewNop())
	h.SetClock(fixedNow)
	return h
}

func TestServeGrouped_ReversedRangeIs400WithoutQuery(t *testing.T) {
	agg := &countingAgg{}
	h := newHandler(agg)

	rec := testutil.NewRecorder()
	h.ServeGrouped(rec, testutil.NewAuthenticatedRequest("GET",
		"/api/news/grouped?from=2025-06-05&to=2025-06-01", testutil.AdminIdentity()))

	rec.AssertStatus(t, http.StatusBadRequest)
	if agg.calls != 0 {
		t.Errorf("aggregate called %d times for a reversed range", agg.calls)
	}
}

func TestServeGrouped_EmptyIsArray(t *testing.T) {
	h := newHandler(&countingAgg{})

	rec := testutil.NewRecorder()
	h.ServeGrouped(rec, testutil.NewAuthenticatedRequest("GET", "/api/news/grouped", testutil.DepartmentIdentity("CSE")))

	rec.AssertStatus(t, http.StatusOK)
	if got := rec.Body.String(); got != "[]\n" && got != "[]" {
		t.Errorf("body = %q, want empty array", got)
	}
}

func TestServeGrouped_StoreErrorIs500(t *testing.T) {
	h := newHandler(&countingAgg{err: errors.New("boom")})

	rec := testutil.NewRecorder()
	h.ServeGrouped(rec, testutil.NewAuthenticatedRequest("GET", "/api/news/grouped", testutil.AdminIdentity()))

	rec.AssertStatus(t, http.StatusInternalServerError)
}

func seedReport(t *testing.T) *newsreport.Handler {
	t.Helper()
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	loc := daterange.IST.Location()
	fx.CreateAnnouncement(ctx, "CSE", "a", time.Date(2025, 6, 3, 0, 0, 0, 0, loc))
	fx.CreateAnnouncement(ctx, "CSE", "b", time.Date(2025, 6, 3, 23, 59, 0, 0, loc))
	fx.CreateAnnouncement(ctx, "CSE", "c", time.Date(2025, 6, 2, 8, 0, 0, 0, loc))
	fx.CreateAnnouncement(ctx, "ECE", "d", time.Date(2025, 6, 3, 9, 0, 0, 0, loc))
	fx.CreateAnnouncement(ctx, "ECE", "old", time.Date(2025, 5, 1, 9, 0, 0, 0, loc))

	h := newsreport.NewHandler(db.Collection("announcements"), daterange.IST, 7, metrics.New(), zap.NewNop())
	h.SetClock(fixedNow)
	return h
}

func TestServeGrouped_DepartmentSeesExpandedOwnItems(t *testing.T) {
	h := seedReport(t)

	rec := testutil.NewRecorder()
	h.ServeGrouped(rec, testutil.NewAuthenticatedRequest("GET", "/api/news/grouped?dept=ECE", testutil.DepartmentIdentity("CSE")))
	rec.AssertStatus(t, http.StatusOK)

	var got []struct {
		Date  string `json:"date"`
		Total int64  `json:"total"`
		Items []struct {
			Department string `json:"department"`
		} `json:"items"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("buckets = %d, want 2 (%s)", len(got), rec.Body.String())
	}
	if got[0].Date != "2025-06-03" || got[0].Total != 2 {
		t.Errorf("first bucket = %+v", got[0])
	}
	for _, b := range got {
		for _, it := range b.Items {
			if it.Department != "CSE" {
				t.Errorf("leaked %s item", it.Department)
			}
		}
	}
}

func TestServeGrouped_AdminAllIsSummary(t *testing.T) {
	h := seedReport(t)

	rec := testutil.NewRecorder()
	h.ServeGrouped(rec, testutil.NewAuthenticatedRequest("GET", "/api/news/grouped?date=2025-06-03", testutil.AdminIdentity()))
	rec.AssertStatus(t, http.StatusOK)

	var got []struct {
		Date        string `json:"date"`
		Total       int64  `json:"total"`
		Departments []struct {
			Department string `json:"department"`
			Count      int64  `json:"count"`
		} `json:"departments"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 1 || got[0].Total != 3 {
		t.Fatalf("got %+v, want one bucket of 3", got)
	}
	counts := map[string]int64{}
	for _, d := range got[0].Departments {
		counts[d.Department] = d.Count
	}
	if counts["CSE"] != 2 || counts["ECE"] != 1 {
		t.Errorf("department counts = %v", counts)
	}
}
