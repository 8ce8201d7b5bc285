// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	accountstore "github.com/dalemusser/deptnews/internal/app/store/accounts"
	announcementstore "github.com/dalemusser/deptnews/internal/app/store/announcements"
	"github.com/dalemusser/deptnews/internal/app/store/audit"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

/*
EnsureAll is called at startup. Each collection's set is idempotent.
Errors are aggregated so every problem is visible and startup can fail fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	sets := []struct {
		collection string
		models     []mongo.IndexModel
	}{
		{accountstore.CollectionName, accountIndexes()},
		{announcementstore.CollectionName, announcementIndexes()},
		{audit.CollectionName, auditIndexes()},
	}

	var problems []string
	for _, s := range sets {
		if err := ensureIndexSet(ctx, db.Collection(s.collection), s.models, logger); err != nil {
			problems = append(problems, s.collection+": "+err.Error())
		}
	}
	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Collection-specific index sets                                             */
/* -------------------------------------------------------------------------- */

func accountIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		// Usernames are unique after case folding.
		{
			Keys:    bson.D{{Key: "username_ci", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_accounts_username_ci"),
		},
		// Department directory and admin-first listing.
		{
			Keys:    bson.D{{Key: "role", Value: 1}, {Key: "dept_short", Value: 1}},
			Options: options.Index().SetName("idx_accounts_role_dept"),
		},
	}
}

func announcementIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		// Department-scoped list and report match.
		{
			Keys:    bson.D{{Key: "department", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_announcements_dept_created"),
		},
		// Unscoped (admin) list and report match.
		{
			Keys:    bson.D{{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_announcements_created"),
		},
	}
}

func auditIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "timestamp", Value: -1}},
			Options: options.Index().SetName("idx_audit_timestamp"),
		},
		{
			Keys: bson.D{
				{Key: "category", Value: 1},
				{Key: "event_type", Value: 1},
				{Key: "timestamp", Value: -1},
			},
			Options: options.Index().SetName("idx_audit_category_type_ts"),
		},
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "timestamp", Value: -1}},
			Options: options.Index().SetName("idx_audit_user_ts"),
		},
		{
			Keys:    bson.D{{Key: "department", Value: 1}, {Key: "timestamp", Value: -1}},
			Options: options.Index().SetName("idx_audit_dept_ts"),
		},
	}
}

/* -------------------------------------------------------------------------- */
/* Core helper: reconcile a set of desired indexes for one collection         */
/* -------------------------------------------------------------------------- */

type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique *bool  `bson:"unique,omitempty"`
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

func isTrue(b *bool) bool { return b != nil && *b }

// Mongo/DocDB return IndexOptionsConflict when an index with the same keys
// exists under a different name or with different options.
func isOptionsConflictErr(err error) bool {
	return err != nil && strings.Contains(err.Error(), "IndexOptionsConflict")
}

// listIndexes returns the collection's indexes keyed by key signature.
func listIndexes(ctx context.Context, coll *mongo.Collection, log *zap.Logger) (map[string]existingIndex, error) {
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := map[string]existingIndex{}
	for cur.Next(ctx) {
		var idx existingIndex
		if err := cur.Decode(&idx); err != nil {
			log.Warn("failed to decode existing index", zap.String("collection", coll.Name()), zap.Error(err))
			continue
		}
		out[keySig(idx.Key)] = idx
	}
	return out, cur.Err()
}

func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel, log *zap.Logger) error {
	var errs []string

	for _, m := range models {
		var name string
		var unique *bool
		if m.Options != nil {
			if m.Options.Name != nil {
				name = *m.Options.Name
			}
			unique = m.Options.Unique
		}
		sig := keySig(m.Keys.(bson.D))
		start := time.Now()

		fields := []zap.Field{
			zap.String("collection", coll.Name()),
			zap.String("name", name),
			zap.String("keys", sig),
			zap.Bool("unique", isTrue(unique)),
		}

		existing, err := listIndexes(ctx, coll, log)
		if err != nil {
			// NamespaceNotFound on a fresh database; CreateOne creates the collection.
			log.Debug("list indexes failed", append(fields, zap.Error(err))...)
		}

		ex, found := existing[sig]
		switch {
		case found && isTrue(ex.Unique) == isTrue(unique) && (name == "" || ex.Name == name):
			log.Debug("reusing existing index", append(fields, zap.Duration("took", time.Since(start)))...)
			continue

		case found:
			// Same keys but a different name or uniqueness: drop and recreate.
			if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
				log.Warn("drop existing index failed", append(fields, zap.String("existing", ex.Name), zap.Error(err))...)
				errs = append(errs, fmt.Sprintf("%s(%s): drop failed: %v", coll.Name(), name, err))
				continue
			}
		}

		created, err := coll.Indexes().CreateOne(ctx, m)
		if isOptionsConflictErr(err) {
			// Raced with another instance or a name clash surfaced late.
			if again, lerr := listIndexes(ctx, coll, log); lerr == nil {
				if ex, ok := again[sig]; ok && ex.Name != "" {
					if _, derr := coll.Indexes().DropOne(ctx, ex.Name); derr == nil {
						created, err = coll.Indexes().CreateOne(ctx, m)
					}
				}
			}
		}
		if err != nil {
			if wafflemongo.IsDup(err) && isTrue(unique) {
				errs = append(errs, fmt.Sprintf("%s(%s): cannot create unique index (duplicates present)", coll.Name(), name))
			} else {
				errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), name, err))
			}
			log.Warn("index ensure failed", append(fields, zap.Duration("took", time.Since(start)), zap.Error(err))...)
			continue
		}

		log.Info("index ensured", append(fields,
			zap.String("created_name", created),
			zap.Duration("took", time.Since(start)))...)
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}
