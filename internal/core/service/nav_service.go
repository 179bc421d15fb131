package service

import (
	"github.com/c-library/catalog-admin/internal/core/domain"
)

// NavEntry is a single navigation item the caller is allowed to see.
type NavEntry struct {
	Path  string `json:"path"`
	Label string `json:"label"`
}

// navItem binds a navigation entry to the permission that reveals it.
type navItem struct {
	entry      NavEntry
	permission domain.Permission
}

// baseNav is the ordered navigation, one entry per catalog area. The users
// entry is not listed here: it is governed by role, not permission (see
// VisibleNav).
var baseNav = []navItem{
	{entry: NavEntry{Path: "/dashboard", Label: "Dashboard"}, permission: domain.PermViewDashboard},
	{entry: NavEntry{Path: "/theses", Label: "Theses"}, permission: domain.PermManageTheses},
	{entry: NavEntry{Path: "/archive", Label: "Archive"}, permission: domain.PermManageArchive},
	{entry: NavEntry{Path: "/universities", Label: "Universities and specializations"}, permission: domain.PermManageUnis},
	{entry: NavEntry{Path: "/reserved-titles", Label: "Reserved titles"}, permission: domain.PermManageReserved},
}

var usersNav = NavEntry{Path: "/users", Label: "User management"}

// VisibleNav computes the navigation entries for a user. Catalog entries are
// permission-governed; the user-management entry is role-governed (admin
// only). The users *page* is additionally permission-gated at the route, so
// an admin without manage_users sees the entry but not the page.
func VisibleNav(user *domain.User) []NavEntry {
	if user == nil {
		return nil
	}

	entries := make([]NavEntry, 0, len(baseNav)+1)
	for _, item := range baseNav {
		if user.HasPermission(item.permission) {
			entries = append(entries, item.entry)
		}
	}
	if user.Role == domain.RoleAdmin {
		entries = append(entries, usersNav)
	}
	return entries
}
