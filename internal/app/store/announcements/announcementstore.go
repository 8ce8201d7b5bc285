package announcementstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dalemusser/deptnews/internal/app/system/daterange"
	"github.com/dalemusser/deptnews/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CollectionName is the MongoDB collection holding announcements.
const CollectionName = "announcements"

var (
	// ErrNotFound is returned when no announcement has the requested id.
	ErrNotFound = errors.New("announcement not found")

	errDeptNeeded  = errors.New("announcement must have a department")
	errTitleNeeded = errors.New("announcement must have a title")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(CollectionName)}
}

// Collection exposes the underlying collection for read-only aggregations
// such as the day-bucket report.
func (s *Store) Collection() *mongo.Collection {
	return s.c
}

// NewInput carries the fields a caller supplies when creating an announcement.
type NewInput struct {
	Department string
	Title      string
	Body       string
	Files      []models.FileMeta
}

// Create inserts a new announcement. The id and created_at are assigned
// here and never changed afterwards.
func (s *Store) Create(ctx context.Context, in NewInput) (models.Announcement, error) {
	a := models.Announcement{
		ID:         primitive.NewObjectID(),
		Department: strings.TrimSpace(in.Department),
		Title:      strings.TrimSpace(in.Title),
		Body:       in.Body,
		Files:      in.Files,
		CreatedAt:  time.Now().UTC().Truncate(time.Millisecond),
	}
	if a.Department == "" {
		return models.Announcement{}, errDeptNeeded
	}
	if a.Title == "" {
		return models.Announcement{}, errTitleNeeded
	}
	if a.Files == nil {
		a.Files = []models.FileMeta{}
	}

	if _, err := s.c.InsertOne(ctx, a); err != nil {
		return models.Announcement{}, err
	}
	return a, nil
}

// AppendFile pushes f onto the announcement's files and returns the updated
// document. Existing files are never touched.
func (s *Store) AppendFile(ctx context.Context, id primitive.ObjectID, f models.FileMeta) (models.Announcement, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var a models.Announcement
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$push": bson.M{"files": f}},
		opts,
	).Decode(&a)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Announcement{}, ErrNotFound
	}
	if err != nil {
		return models.Announcement{}, err
	}
	return a, nil
}

// GetByID loads an announcement. Returns ErrNotFound if missing.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Announcement, error) {
	var a models.Announcement
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&a)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Announcement{}, ErrNotFound
	}
	if err != nil {
		return models.Announcement{}, err
	}
	return a, nil
}

// Filter narrows List. Department is matched exactly unless AllDepartments
// is set, so an empty Department matches nothing. A nil Range means no time
// bound.
type Filter struct {
	AllDepartments bool
	Department     string
	Range          *daterange.Range
}

func (f Filter) query() bson.M {
	q := bson.M{}
	if !f.AllDepartments {
		q["department"] = f.Department
	}
	if f.Range != nil {
		q["created_at"] = bson.M{"$gte": f.Range.Start, "$lt": f.Range.End}
	}
	return q
}

// List returns one page of announcements matching f, newest first, and the
// total number of matches. page is 1-based.
func (s *Store) List(ctx context.Context, f Filter, page, pageSize int) ([]models.Announcement, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	q := f.query()

	total, err := s.c.CountDocuments(ctx, q)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64((page - 1) * pageSize)).
		SetLimit(int64(pageSize))

	cur, err := s.c.Find(ctx, q, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	out := []models.Announcement{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}
