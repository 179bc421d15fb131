package domain

// Permission identifies a single grantable capability.
type Permission string

const (
	PermViewDashboard  Permission = "view_dashboard"
	PermManageTheses   Permission = "manage_theses"
	PermManageArchive  Permission = "manage_archived_theses"
	PermManageReserved Permission = "manage_reserved_titles"
	PermManageUnis     Permission = "manage_universities_specializations"
	PermManageUsers    Permission = "manage_users"
)

// PermissionInfo pairs a permission id with its display label.
type PermissionInfo struct {
	ID    Permission `json:"id"`
	Label string     `json:"label"`
}

// AllPermissions is the closed catalog of grantable capabilities, in display
// order. A user's permission set may only contain members of this catalog.
var AllPermissions = []PermissionInfo{
	{ID: PermViewDashboard, Label: "View dashboard"},
	{ID: PermManageTheses, Label: "Manage theses (add, edit, archive)"},
	{ID: PermManageArchive, Label: "Manage archive (restore, permanent delete)"},
	{ID: PermManageReserved, Label: "Manage reserved titles (add, edit, delete)"},
	{ID: PermManageUnis, Label: "Manage universities and specializations"},
	{ID: PermManageUsers, Label: "Manage users (add, edit, delete)"},
}

// KnownPermission reports whether p is a member of the catalog.
func KnownPermission(p Permission) bool {
	for _, info := range AllPermissions {
		if info.ID == p {
			return true
		}
	}
	return false
}

// ValidatePermissions returns ErrUnknownPermission when any member of perms
// is outside the catalog.
func ValidatePermissions(perms []Permission) error {
	for _, p := range perms {
		if !KnownPermission(p) {
			return ErrUnknownPermission
		}
	}
	return nil
}

// PermissionIDs returns the full catalog as a flat id list. Used when
// seeding the default admin account.
func PermissionIDs() []Permission {
	ids := make([]Permission, len(AllPermissions))
	for i, info := range AllPermissions {
		ids[i] = info.ID
	}
	return ids
}
