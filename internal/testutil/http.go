package testutil

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/dalemusser/deptnews/internal/app/system/auth"
	"github.com/dalemusser/deptnews/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AdminIdentity returns an admin identity with a fresh ID.
func AdminIdentity() auth.Identity {
	return auth.Identity{
		UserID:   primitive.NewObjectID().Hex(),
		Username: "admin",
		Role:     models.RoleAdmin,
	}
}

// DepartmentIdentity returns a department identity scoped to dept.
func DepartmentIdentity(dept string) auth.Identity {
	return auth.Identity{
		UserID:     primitive.NewObjectID().Hex(),
		Username:   strings.ToLower(dept) + "-desk",
		Role:       models.RoleDepartment,
		Department: dept,
	}
}

// NewRequest creates an HTTP request for testing.
func NewRequest(method, target string) *http.Request {
	return httptest.NewRequest(method, target, nil)
}

// NewJSONRequest creates a request with a JSON body.
func NewJSONRequest(method, target, body string) *http.Request {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// NewAuthenticatedRequest creates an HTTP request with an identity in context.
// This bypasses token parsing and injects the identity directly.
func NewAuthenticatedRequest(method, target string, id auth.Identity) *http.Request {
	return auth.WithTestIdentity(httptest.NewRequest(method, target, nil), id)
}

// ResponseRecorder wraps httptest.ResponseRecorder with helper methods.
type ResponseRecorder struct {
	*httptest.ResponseRecorder
}

// NewRecorder creates a new ResponseRecorder.
func NewRecorder() *ResponseRecorder {
	return &ResponseRecorder{httptest.NewRecorder()}
}

// AssertStatus checks the response status code.
func (r *ResponseRecorder) AssertStatus(t interface{ Errorf(string, ...any) }, expected int) {
	if r.Code != expected {
		t.Errorf("status code: got %d, want %d (body %q)", r.Code, expected, r.Body.String())
	}
}

// AssertContains checks if the response body contains the expected string.
func (r *ResponseRecorder) AssertContains(t interface{ Errorf(string, ...any) }, expected string) {
	if !strings.Contains(r.Body.String(), expected) {
		t.Errorf("response body does not contain %q", expected)
	}
}
