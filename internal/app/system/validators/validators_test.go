package validators_test

import (
	"testing"
	"time"

	accountstore "github.com/dalemusser/deptnews/internal/app/store/accounts"
	announcementstore "github.com/dalemusser/deptnews/internal/app/store/announcements"
	"github.com/dalemusser/deptnews/internal/app/store/audit"
	"github.com/dalemusser/deptnews/internal/app/system/validators"
	"github.com/dalemusser/deptnews/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
)

func TestEnsureAll_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db, nil); err != nil {
		t.Fatalf("first EnsureAll failed: %v", err)
	}
	if err := validators.EnsureAll(ctx, db, nil); err != nil {
		t.Fatalf("second EnsureAll failed: %v", err)
	}
}

func TestEnsureAll_CreatesCollections(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db, nil); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	names, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		t.Fatalf("ListCollectionNames failed: %v", err)
	}
	have := make(map[string]bool)
	for _, n := range names {
		have[n] = true
	}
	for _, want := range []string{accountstore.CollectionName, announcementstore.CollectionName, audit.CollectionName} {
		if !have[want] {
			t.Errorf("expected collection %q to exist", want)
		}
	}
}

func TestValidators(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db, nil); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	now := time.Now().UTC()
	tests := []struct {
		name    string
		coll    string
		doc     bson.M
		wantErr bool
	}{
		{"account missing fields", accountstore.CollectionName, bson.M{"username": "x"}, true},
		{"account bad role", accountstore.CollectionName, bson.M{
			"username": "x", "username_ci": "x", "password_hash": "h", "role": "superuser",
		}, true},
		{"account valid", accountstore.CollectionName, bson.M{
			"username": "CSE", "username_ci": "cse", "password_hash": "h", "role": "department",
			"dept_short": "CSE", "dept_long": "Computer Science",
		}, false},
		{"announcement blank department", announcementstore.CollectionName, bson.M{
			"department": " ", "title": "t", "files": bson.A{}, "created_at": now,
		}, true},
		{"announcement string date", announcementstore.CollectionName, bson.M{
			"department": "CSE", "title": "t", "files": bson.A{}, "created_at": "2024-05-01",
		}, true},
		{"announcement valid", announcementstore.CollectionName, bson.M{
			"department": "CSE", "title": "t", "body": "b", "created_at": now,
			"files": bson.A{bson.M{"storage_id": "f1", "mime_type": "image/png", "embed_link": "/files/f1"}},
		}, false},
		{"audit bad category", audit.CollectionName, bson.M{
			"timestamp": now, "category": "billing", "event_type": "x",
		}, true},
		{"audit valid", audit.CollectionName, bson.M{
			"timestamp": now, "category": audit.CategoryAuth, "event_type": audit.EventLoginSuccess,
		}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := db.Collection(tc.coll).InsertOne(ctx, tc.doc)
			if tc.wantErr && err == nil {
				t.Error("expected validation error")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("insert failed: %v", err)
			}
		})
	}
}
