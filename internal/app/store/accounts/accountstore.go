package accountstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dalemusser/deptnews/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"
)

// CollectionName is the MongoDB collection holding accounts.
const CollectionName = "accounts"

var (
	// ErrDuplicateUsername is returned when the username (case-folded) is taken.
	ErrDuplicateUsername = errors.New("username already exists")
	// ErrNotFound is returned when no account has the requested id or username.
	ErrNotFound = errors.New("account not found")
	// ErrProtectedAccount is returned when deleting an admin account.
	ErrProtectedAccount = errors.New("cannot delete admin accounts")
	// ErrEmptyPassword is returned when a blank password is supplied.
	ErrEmptyPassword = errors.New("password required")

	errBadRole    = errors.New(`role must be "admin"|"department"`)
	errDeptNeeded = errors.New("department accounts must have dept_short and dept_long")
	errNameNeeded = errors.New("username required")
)

type Store struct {
	c    *mongo.Collection
	cost int
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(CollectionName), cost: bcrypt.DefaultCost}
}

// WithHashCost returns a copy of the store that hashes passwords at cost.
// Tests use bcrypt.MinCost.
func (s *Store) WithHashCost(cost int) *Store {
	return &Store{c: s.c, cost: cost}
}

// GetByID loads an account by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Account, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

// GetByUsername looks up an account by case-insensitive username.
func (s *Store) GetByUsername(ctx context.Context, username string) (models.Account, error) {
	return s.findOne(ctx, bson.M{"username_ci": text.Fold(strings.TrimSpace(username))})
}

func (s *Store) findOne(ctx context.Context, filter bson.M) (models.Account, error) {
	var a models.Account
	err := s.c.FindOne(ctx, filter).Decode(&a)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Account{}, ErrNotFound
	}
	if err != nil {
		return models.Account{}, err
	}
	return a, nil
}

// NewInput carries the fields for a new account. Password is plain text and
// is hashed before storage.
type NewInput struct {
	Username  string
	Password  string
	Role      string
	DeptShort string
	DeptLong  string
}

// Create validates, hashes the password and inserts the account.
func (s *Store) Create(ctx context.Context, in NewInput) (models.Account, error) {
	a := models.Account{
		ID:        primitive.NewObjectID(),
		Username:  strings.TrimSpace(in.Username),
		Role:      in.Role,
		DeptShort: strings.TrimSpace(in.DeptShort),
		DeptLong:  strings.TrimSpace(in.DeptLong),
	}
	a.UsernameCI = text.Fold(a.Username)

	if a.Username == "" {
		return models.Account{}, errNameNeeded
	}
	switch a.Role {
	case models.RoleAdmin:
	case models.RoleDepartment:
		if a.DeptShort == "" || a.DeptLong == "" {
			return models.Account{}, errDeptNeeded
		}
	default:
		return models.Account{}, errBadRole
	}

	hash, err := s.hash(in.Password)
	if err != nil {
		return models.Account{}, err
	}
	a.PasswordHash = hash

	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, a); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Account{}, ErrDuplicateUsername
		}
		return models.Account{}, err
	}
	return a, nil
}

func (s *Store) hash(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}
	b, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CheckPassword reports whether password matches the account's hash.
func CheckPassword(a models.Account, password string) bool {
	if a.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)) == nil
}

// SetPassword replaces the password hash of any account (admins included).
func (s *Store) SetPassword(ctx context.Context, id primitive.ObjectID, password string) error {
	hash, err := s.hash(password)
	if err != nil {
		return err
	}
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"password_hash": hash,
		"updated_at":    time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a department account. Admin accounts are refused with
// ErrProtectedAccount.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (models.Account, error) {
	a, err := s.GetByID(ctx, id)
	if err != nil {
		return models.Account{}, err
	}
	if a.Role != models.RoleDepartment {
		return models.Account{}, ErrProtectedAccount
	}
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id, "role": models.RoleDepartment})
	if err != nil {
		return models.Account{}, err
	}
	if res.DeletedCount == 0 {
		return models.Account{}, ErrNotFound
	}
	return a, nil
}

// List returns every account, admins first, then by username.
func (s *Store) List(ctx context.Context) ([]models.Account, error) {
	opts := options.Find().SetSort(bson.D{{Key: "role", Value: 1}, {Key: "username_ci", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Account{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CountByRole counts accounts with the given role.
func (s *Store) CountByRole(ctx context.Context, role string) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"role": role})
}

// Department is a distinct department known from department accounts.
type Department struct {
	Short string `bson:"dept_short" json:"deptShort"`
	Long  string `bson:"dept_long" json:"deptLong"`
}

// ListDepartments returns the distinct (short, long) pairs of department
// accounts, sorted by short code.
func (s *Store) ListDepartments(ctx context.Context) ([]Department, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "role", Value: models.RoleDepartment}}}},
		{{Key: "$group", Value: bson.D{{Key: "_id", Value: bson.D{
			{Key: "dept_short", Value: "$dept_short"},
			{Key: "dept_long", Value: "$dept_long"},
		}}}}},
		{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "dept_short", Value: "$_id.dept_short"},
			{Key: "dept_long", Value: "$_id.dept_long"},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "dept_short", Value: 1}, {Key: "dept_long", Value: 1}}}},
	}
	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []Department{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
