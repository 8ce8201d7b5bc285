package newspolicy_test

import (
	"testing"

	"github.com/dalemusser/deptnews/internal/app/policy/newspolicy"
	"github.com/dalemusser/deptnews/internal/app/system/auth"
)

func TestResolveScope_DepartmentIsForced(t *testing.T) {
	id := auth.Identity{Role: "department", Department: "CSE"}
	requests := []string{"", "CSE", "IT", "all", "   ", "'; drop table", "$ne", "CSE\x00IT"}
	for _, req := range requests {
		got := newspolicy.ResolveScope(id, req)
		if got.All {
			t.Errorf("requested %q: scope widened to all departments", req)
		}
		if got.Department != "CSE" {
			t.Errorf("requested %q: Department = %q, want %q", req, got.Department, "CSE")
		}
	}
}

func TestResolveScope_UnknownRoleTreatedAsDepartment(t *testing.T) {
	id := auth.Identity{Role: "Admin ", Department: "IT"}
	got := newspolicy.ResolveScope(id, "")
	if got.All || got.Department != "IT" {
		t.Errorf("ResolveScope = %+v, want department IT", got)
	}
}

func TestResolveScope_AdminDefaultsToAll(t *testing.T) {
	got := newspolicy.ResolveScope(auth.Identity{Role: "admin"}, "")
	if !got.All {
		t.Errorf("ResolveScope = %+v, want All", got)
	}
	if got.String() != "all" {
		t.Errorf("String() = %q, want %q", got.String(), "all")
	}
}

func TestResolveScope_AdminBlankRequestIsAll(t *testing.T) {
	got := newspolicy.ResolveScope(auth.Identity{Role: "admin"}, "   ")
	if !got.All {
		t.Errorf("ResolveScope = %+v, want All", got)
	}
}

func TestResolveScope_AdminNarrows(t *testing.T) {
	got := newspolicy.ResolveScope(auth.Identity{Role: "admin", Department: "ADMIN"}, "ECE")
	if got.All || got.Department != "ECE" {
		t.Errorf("ResolveScope = %+v, want department ECE", got)
	}
	if got.String() != "ECE" {
		t.Errorf("String() = %q, want %q", got.String(), "ECE")
	}
}

func TestCanView(t *testing.T) {
	dept := auth.Identity{Role: "department", Department: "CSE"}
	admin := auth.Identity{Role: "admin"}

	if !newspolicy.CanView(dept, "CSE") {
		t.Error("department account should see its own announcements")
	}
	if newspolicy.CanView(dept, "IT") {
		t.Error("department account should not see another department")
	}
	if !newspolicy.CanView(admin, "IT") {
		t.Error("admin should see every department")
	}
}
