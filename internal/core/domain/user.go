package domain

import "errors"

const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
	RoleViewer = "viewer"
)

var ErrUserNotFound = errors.New("user not found")
var ErrUsernameTaken = errors.New("username already taken")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrForbidden = errors.New("access forbidden")
var ErrSelfDelete = errors.New("cannot delete own account")
var ErrUnknownPermission = errors.New("unknown permission")
var ErrTokenRevoked = errors.New("token revoked")

// ValidRole reports whether role is one of the known coarse classifications.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleEditor || role == RoleViewer
}

// User models an administrative account. Role is a coarse classification;
// Permissions is the fine-grained capability set that actually gates access
// to catalog features. The two are deliberately independent.
type User struct {
	ID           int64        `json:"id"`
	Username     string       `json:"username"`
	FullName     string       `json:"full_name,omitempty"`
	Role         string       `json:"role"`
	Permissions  []Permission `json:"permissions"`
	PasswordHash string       `json:"-"`
}

// HasPermission reports whether the user's permission set contains p.
func (u *User) HasPermission(p Permission) bool {
	for _, have := range u.Permissions {
		if have == p {
			return true
		}
	}
	return false
}

// Clone returns a deep copy. Session and handler code hand out clones so
// later store mutations never show through an already-fetched snapshot.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	c.Permissions = append([]Permission(nil), u.Permissions...)
	return &c
}
