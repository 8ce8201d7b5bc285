package indexes_test

import (
	"testing"
	"time"

	"github.com/dalemusser/deptnews/internal/app/system/indexes"
	"github.com/dalemusser/deptnews/internal/testutil"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

func indexNames(t *testing.T, db *mongo.Database, coll string) map[string]bool {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()

	cur, err := db.Collection(coll).Indexes().List(ctx)
	if err != nil {
		t.Fatalf("list %s indexes: %v", coll, err)
	}
	defer cur.Close(ctx)

	names := map[string]bool{}
	for cur.Next(ctx) {
		var idx bson.M
		if err := cur.Decode(&idx); err != nil {
			continue
		}
		if name, ok := idx["name"].(string); ok {
			names[name] = true
		}
	}
	return names
}

func TestEnsureAll_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db, zap.NewNop()); err != nil {
		t.Fatalf("first EnsureAll: %v", err)
	}
	if err := indexes.EnsureAll(ctx, db, zap.NewNop()); err != nil {
		t.Fatalf("second EnsureAll: %v", err)
	}
}

func TestEnsureAll_CreatesIndexes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db, nil); err != nil {
		t.Fatalf("EnsureAll: %v", err)
	}

	want := map[string][]string{
		"accounts":      {"uniq_accounts_username_ci", "idx_accounts_role_dept"},
		"announcements": {"idx_announcements_dept_created", "idx_announcements_created"},
		"audit_events":  {"idx_audit_timestamp", "idx_audit_category_type_ts", "idx_audit_user_ts", "idx_audit_dept_ts"},
	}
	for coll, names := range want {
		got := indexNames(t, db, coll)
		for _, n := range names {
			if !got[n] {
				t.Errorf("%s: missing index %q", coll, n)
			}
		}
	}
}

func TestEnsureAll_RenamesIndexWithSameKeys(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := db.Collection("announcements").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "created_at", Value: -1}},
		Options: options.Index().SetName("legacy_created"),
	})
	if err != nil {
		t.Fatalf("create legacy index: %v", err)
	}

	if err := indexes.EnsureAll(ctx, db, zap.NewNop()); err != nil {
		t.Fatalf("EnsureAll: %v", err)
	}
	got := indexNames(t, db, "announcements")
	if got["legacy_created"] || !got["idx_announcements_created"] {
		t.Errorf("indexes = %v", got)
	}
}

func TestEnsureAll_UniqueUsernameEnforced(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db, zap.NewNop()); err != nil {
		t.Fatalf("EnsureAll: %v", err)
	}

	c := db.Collection("accounts")
	doc := func() bson.M {
		return bson.M{"_id": primitive.NewObjectID(), "username": "Desk", "username_ci": "desk", "created_at": time.Now()}
	}
	if _, err := c.InsertOne(ctx, doc()); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	_, err := c.InsertOne(ctx, doc())
	if !wafflemongo.IsDup(err) {
		t.Errorf("second insert err = %v, want duplicate key", err)
	}
}
