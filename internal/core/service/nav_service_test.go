package service

import (
	"testing"

	"github.com/c-library/catalog-admin/internal/core/domain"
)

func TestVisibleNav_AdminSeesUsersEntry(t *testing.T) {
	admin := &domain.User{Role: domain.RoleAdmin, Permissions: domain.PermissionIDs()}
	entries := VisibleNav(admin)

	if len(entries) != len(domain.AllPermissions) {
		t.Fatalf("expected %d entries, got %d", len(domain.AllPermissions), len(entries))
	}
	last := entries[len(entries)-1]
	if last.Path != "/users" {
		t.Fatalf("users entry missing or out of order: %+v", entries)
	}
}

// The users entry is role-governed: an editor holding manage_users still does
// not see it, and an admin without it still does.
func TestVisibleNav_UsersEntryIsRoleGoverned(t *testing.T) {
	editor := &domain.User{Role: domain.RoleEditor, Permissions: []domain.Permission{domain.PermManageUsers}}
	for _, e := range VisibleNav(editor) {
		if e.Path == "/users" {
			t.Fatalf("editor saw users entry")
		}
	}

	admin := &domain.User{Role: domain.RoleAdmin, Permissions: []domain.Permission{domain.PermViewDashboard}}
	entries := VisibleNav(admin)
	if len(entries) != 2 || entries[1].Path != "/users" {
		t.Fatalf("admin without manage_users lost the entry: %+v", entries)
	}
}

func TestVisibleNav_PermissionFiltering(t *testing.T) {
	viewer := &domain.User{Role: domain.RoleViewer, Permissions: []domain.Permission{
		domain.PermViewDashboard,
		domain.PermManageReserved,
	}}
	entries := VisibleNav(viewer)

	want := []string{"/dashboard", "/reserved-titles"}
	if len(entries) != len(want) {
		t.Fatalf("expected %d entries, got %+v", len(want), entries)
	}
	for i, path := range want {
		if entries[i].Path != path {
			t.Fatalf("entry %d = %q, want %q", i, entries[i].Path, path)
		}
	}
}

func TestVisibleNav_NilAndEmpty(t *testing.T) {
	if entries := VisibleNav(nil); entries != nil {
		t.Fatalf("nil user should yield nil entries, got %+v", entries)
	}
	if entries := VisibleNav(&domain.User{Role: domain.RoleViewer}); len(entries) != 0 {
		t.Fatalf("no permissions should yield no entries, got %+v", entries)
	}
}
