package accounts_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/deptnews/internal/app/features/accounts"
	accountstore "github.com/dalemusser/deptnews/internal/app/store/accounts"
	"github.com/dalemusser/deptnews/internal/app/system/auth"
	"github.com/dalemusser/deptnews/internal/app/system/indexes"
	"github.com/dalemusser/deptnews/internal/testutil"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type env struct {
	router http.Handler
	db     *mongo.Database
	fx     *testutil.Fixtures
}

func newEnv(t *testing.T) env {
	t.Helper()
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := indexes.EnsureAll(ctx, db, zap.NewNop()); err != nil {
		t.Fatalf("EnsureAll: %v", err)
	}

	tokens, err := auth.NewTokens("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewTokens: %v", err)
	}
	sm := auth.NewManager(tokens, zap.NewNop())
	h := accounts.NewHandler(db, nil, zap.NewNop())

	r := chi.NewRouter()
	r.Mount("/api/account", accounts.Routes(h, sm))
	return env{router: r, db: db, fx: testutil.NewFixtures(t, db)}
}

func (e env) do(method, target, body string, id auth.Identity) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	req = auth.WithTestIdentity(req, id)
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func TestRoutes_AdminsOnly(t *testing.T) {
	e := newEnv(t)

	rec := e.do("GET", "/api/account/users", "", testutil.DepartmentIdentity("CSE"))
	if rec.Code != http.StatusForbidden || !strings.Contains(rec.Body.String(), "Admins only") {
		t.Errorf("department caller: %d %s", rec.Code, rec.Body.String())
	}
}

func TestServeList_AdminsFirst(t *testing.T) {
	e := newEnv(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	e.fx.CreateDepartmentAccount(ctx, "aaa-desk", "pw", "AAA", "Applied Arts")
	e.fx.CreateAdmin(ctx, "zadmin", "pw")

	rec := e.do("GET", "/api/account/users", "", testutil.AdminIdentity())
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var got []struct {
		Username string `json:"username"`
		Access   string `json:"access"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 2 || got[0].Username != "zadmin" || got[0].Access != "full" || got[1].Access != "limited" {
		t.Errorf("list = %+v", got)
	}
	if strings.Contains(rec.Body.String(), "password") {
		t.Error("list leaks password data")
	}
}

func TestHandleCreate(t *testing.T) {
	e := newEnv(t)
	admin := testutil.AdminIdentity()

	rec := e.do("POST", "/api/account", `{"username":"cse-desk","password":"pw","deptShort":"CSE","deptLong":"Computer Science","access":"full"}`, admin)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create = %d %s", rec.Code, rec.Body.String())
	}
	var created struct {
		ID     string `json:"id"`
		Role   string `json:"role"`
		Access string `json:"access"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.Role != "department" || created.Access != "limited" {
		t.Errorf("requested access must be ignored: %+v", created)
	}

	rec = e.do("POST", "/api/account", `{"username":"CSE-DESK","password":"pw","deptShort":"CSE","deptLong":"Computer Science"}`, admin)
	if rec.Code != http.StatusConflict {
		t.Errorf("duplicate = %d, want 409", rec.Code)
	}

	rec = e.do("POST", "/api/account", `{"username":"x","password":"pw","deptShort":"X"}`, admin)
	if rec.Code != http.StatusBadRequest || !strings.Contains(rec.Body.String(), "Missing fields") {
		t.Errorf("missing = %d %s", rec.Code, rec.Body.String())
	}
}

func TestHandleSetPassword(t *testing.T) {
	e := newEnv(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	acct := e.fx.CreateDepartmentAccount(ctx, "cse-desk", "old", "CSE", "Computer Science")
	admin := testutil.AdminIdentity()

	rec := e.do("PATCH", "/api/account/"+acct.ID.Hex()+"/password", `{"password":"new"}`, admin)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Password updated") {
		t.Fatalf("set = %d %s", rec.Code, rec.Body.String())
	}
	got, err := accountstore.New(e.db).GetByID(ctx, acct.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !accountstore.CheckPassword(got, "new") || accountstore.CheckPassword(got, "old") {
		t.Error("password was not replaced")
	}

	if rec := e.do("PATCH", "/api/account/"+acct.ID.Hex()+"/password", `{"password":""}`, admin); rec.Code != http.StatusBadRequest {
		t.Errorf("blank = %d, want 400", rec.Code)
	}
	if rec := e.do("PATCH", "/api/account/"+primitive.NewObjectID().Hex()+"/password", `{"password":"x"}`, admin); rec.Code != http.StatusNotFound {
		t.Errorf("unknown = %d, want 404", rec.Code)
	}
}

func TestHandleDelete(t *testing.T) {
	e := newEnv(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	dept := e.fx.CreateDepartmentAccount(ctx, "cse-desk", "pw", "CSE", "Computer Science")
	root := e.fx.CreateAdmin(ctx, "admin", "pw")
	admin := testutil.AdminIdentity()

	tests := []struct {
		name string
		id   string
		want int
	}{
		{"admin refused", root.ID.Hex(), http.StatusBadRequest},
		{"department deleted", dept.ID.Hex(), http.StatusOK},
		{"already gone", dept.ID.Hex(), http.StatusNotFound},
		{"bad id", "zzz", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rec := e.do("DELETE", "/api/account/"+tt.id, "", admin); rec.Code != tt.want {
				t.Errorf("status = %d, want %d (%s)", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}
