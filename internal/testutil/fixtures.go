package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/deptnews/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateAccount inserts an account with a bcrypt hash of password.
// Hashing uses the minimum cost to keep tests fast.
func (f *Fixtures) CreateAccount(ctx context.Context, username, password, role, deptShort, deptLong string) models.Account {
	f.t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		f.t.Fatalf("failed to hash password: %v", err)
	}

	now := time.Now().UTC()
	acct := models.Account{
		ID:           primitive.NewObjectID(),
		Username:     username,
		UsernameCI:   text.Fold(username),
		PasswordHash: string(hash),
		Role:         role,
		DeptShort:    deptShort,
		DeptLong:     deptLong,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := f.db.Collection("accounts").InsertOne(ctx, acct); err != nil {
		f.t.Fatalf("failed to create test account: %v", err)
	}
	return acct
}

// CreateAdmin creates an admin account.
func (f *Fixtures) CreateAdmin(ctx context.Context, username, password string) models.Account {
	f.t.Helper()
	return f.CreateAccount(ctx, username, password, models.RoleAdmin, "", "")
}

// CreateDepartmentAccount creates a department (limited) account.
func (f *Fixtures) CreateDepartmentAccount(ctx context.Context, username, password, deptShort, deptLong string) models.Account {
	f.t.Helper()
	return f.CreateAccount(ctx, username, password, models.RoleDepartment, deptShort, deptLong)
}

// CreateAnnouncement inserts an announcement for dept created at the given instant.
func (f *Fixtures) CreateAnnouncement(ctx context.Context, dept, title string, createdAt time.Time) models.Announcement {
	f.t.Helper()

	a := models.Announcement{
		ID:         primitive.NewObjectID(),
		Department: dept,
		Title:      title,
		Body:       title + " body",
		Files:      []models.FileMeta{},
		CreatedAt:  createdAt.UTC().Truncate(time.Millisecond),
	}

	if _, err := f.db.Collection("announcements").InsertOne(ctx, a); err != nil {
		f.t.Fatalf("failed to create test announcement: %v", err)
	}
	return a
}
