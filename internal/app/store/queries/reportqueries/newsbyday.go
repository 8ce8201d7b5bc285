// Package reportqueries provides complex read-only queries for reports.
package reportqueries

import (
	"context"
	"fmt"
	"time"

	"github.com/dalemusser/deptnews/internal/app/policy/newspolicy"
	"github.com/dalemusser/deptnews/internal/app/system/daterange"
	"github.com/dalemusser/deptnews/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Aggregator is the part of *mongo.Collection the report needs.
type Aggregator interface {
	Aggregate(ctx context.Context, pipeline interface{}, opts ...*options.AggregateOptions) (*mongo.Cursor, error)
}

// Shape names the two report layouts.
type Shape string

const (
	// ShapeExpanded lists every announcement per day. Used for single-department scopes.
	ShapeExpanded Shape = "expanded"
	// ShapeSummary lists per-department counts per day. Used for the all-departments admin view.
	ShapeSummary Shape = "summary"
)

// dayFormat renders a bucket key; zero padding keeps string order equal to date order.
const dayFormat = "%Y-%m-%d"

// Header is shared by both bucket variants.
type Header struct {
	Date  string `bson:"date" json:"date"`
	Total int64  `bson:"total" json:"total"`
}

// Bucket is one civil day of the report. It is implemented only by
// ExpandedBucket and SummaryBucket; switch on the concrete type to branch.
type Bucket interface {
	BucketHeader() Header
	isBucket()
}

// Item is one announcement inside an expanded bucket.
type Item struct {
	ID         primitive.ObjectID `bson:"_id" json:"id"`
	Title      string             `bson:"title" json:"title"`
	Body       string             `bson:"body" json:"body"`
	Department string             `bson:"department" json:"department"`
	CreatedAt  time.Time          `bson:"created_at" json:"createdAt"`
	Files      []models.FileMeta  `bson:"files" json:"files"`
}

// ExpandedBucket carries the full announcements for one day.
type ExpandedBucket struct {
	Header `bson:",inline"`
	Items  []Item `bson:"items" json:"items"`
}

// DepartmentCount is one department's announcement count for a day.
type DepartmentCount struct {
	Department string `bson:"department" json:"department"`
	Count      int64  `bson:"count" json:"count"`
}

// SummaryBucket carries per-department counts for one day.
type SummaryBucket struct {
	Header      `bson:",inline"`
	Departments []DepartmentCount `bson:"departments" json:"departments"`
}

func (b ExpandedBucket) BucketHeader() Header { return b.Header }
func (ExpandedBucket) isBucket()              {}

func (b SummaryBucket) BucketHeader() Header { return b.Header }
func (SummaryBucket) isBucket()              {}

// ShapeFor picks the report layout for a scope.
func ShapeFor(scope newspolicy.Scope) Shape {
	if scope.All {
		return ShapeSummary
	}
	return ShapeExpanded
}

// MatchFilter builds the $match predicate: department (unless the scope is
// all departments) and created_at inside [rng.Start, rng.End).
func MatchFilter(scope newspolicy.Scope, rng daterange.Range) bson.D {
	match := bson.D{}
	if !scope.All {
		match = append(match, bson.E{Key: "department", Value: scope.Department})
	}
	match = append(match, bson.E{Key: "created_at", Value: bson.D{
		{Key: "$gte", Value: rng.Start},
		{Key: "$lt", Value: rng.End},
	}})
	return match
}

// dayExpr buckets created_at into a civil-day string in zone.
func dayExpr(zone daterange.Zone) bson.D {
	return bson.D{{Key: "$dateToString", Value: bson.D{
		{Key: "format", Value: dayFormat},
		{Key: "date", Value: "$created_at"},
		{Key: "timezone", Value: zone.Offset()},
	}}}
}

// ExpandedPipeline groups matching announcements by civil day and pushes
// each one into the day's items, newest first.
func ExpandedPipeline(match bson.D, zone daterange.Zone) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: dayExpr(zone)},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "items", Value: bson.D{{Key: "$push", Value: bson.D{
				{Key: "_id", Value: "$_id"},
				{Key: "title", Value: "$title"},
				{Key: "body", Value: "$body"},
				{Key: "department", Value: "$department"},
				{Key: "created_at", Value: "$created_at"},
				{Key: "files", Value: "$files"},
			}}}},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "date", Value: "$_id"},
			{Key: "total", Value: 1},
			{Key: "items", Value: 1},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "date", Value: -1}}}},
	}
}

// SummaryPipeline counts matching announcements per (civil day, department)
// and then folds those counts into one row per day.
func SummaryPipeline(match bson.D, zone daterange.Zone) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: bson.D{
				{Key: "day", Value: dayExpr(zone)},
				{Key: "department", Value: "$department"},
			}},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		// stable department order inside each day
		{{Key: "$sort", Value: bson.D{{Key: "_id.day", Value: 1}, {Key: "_id.department", Value: 1}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$_id.day"},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: "$count"}}},
			{Key: "departments", Value: bson.D{{Key: "$push", Value: bson.D{
				{Key: "department", Value: "$_id.department"},
				{Key: "count", Value: "$count"},
			}}}},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "date", Value: "$_id"},
			{Key: "total", Value: 1},
			{Key: "departments", Value: 1},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "date", Value: -1}}}},
	}
}

// BuildPipeline validates the range and returns the shape and pipeline for
// scope. An invalid range is rejected with daterange.ErrInvalidRange.
func BuildPipeline(scope newspolicy.Scope, rng daterange.Range, zone daterange.Zone) (Shape, mongo.Pipeline, error) {
	if err := rng.Validate(); err != nil {
		return "", nil, err
	}
	match := MatchFilter(scope, rng)
	shape := ShapeFor(scope)
	switch shape {
	case ShapeSummary:
		return shape, SummaryPipeline(match, zone), nil
	default:
		return shape, ExpandedPipeline(match, zone), nil
	}
}

// NewsByDay runs the report for scope over rng and returns day buckets,
// most recent day first. An empty match yields an empty, non-nil slice.
// Store errors are returned wrapped; nothing is retried.
func NewsByDay(ctx context.Context, agg Aggregator, scope newspolicy.Scope, rng daterange.Range, zone daterange.Zone) ([]Bucket, error) {
	shape, pipeline, err := BuildPipeline(scope, rng, zone)
	if err != nil {
		return nil, err
	}

	cur, err := agg.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate news by day: %w", err)
	}
	defer cur.Close(ctx)

	switch shape {
	case ShapeSummary:
		var rows []SummaryBucket
		if err := cur.All(ctx, &rows); err != nil {
			return nil, fmt.Errorf("decode summary buckets: %w", err)
		}
		out := make([]Bucket, 0, len(rows))
		for _, row := range rows {
			out = append(out, row)
		}
		return out, nil
	default:
		var rows []ExpandedBucket
		if err := cur.All(ctx, &rows); err != nil {
			return nil, fmt.Errorf("decode expanded buckets: %w", err)
		}
		out := make([]Bucket, 0, len(rows))
		for _, row := range rows {
			out = append(out, row)
		}
		return out, nil
	}
}
