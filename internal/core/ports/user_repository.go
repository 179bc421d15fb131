package ports

import (
	"context"

	"github.com/c-library/catalog-admin/internal/core/domain"
)

// NewUser carries the data needed to create an account. PasswordHash is
// already hashed by the service layer; repositories never see plaintext.
type NewUser struct {
	Username     string
	FullName     string
	Role         string
	Permissions  []domain.Permission
	PasswordHash string
}

// UserUpdate is a partial update; nil fields are left untouched.
type UserUpdate struct {
	Username    *string
	FullName    *string
	Role        *string
	Permissions *[]domain.Permission
}

// CurrentUserLookup resolves the account the session tracker treats as "who
// is using this process". It is the session's only persistence dependency.
type CurrentUserLookup interface {
	GetCurrent(ctx context.Context) (*domain.User, error)
}

// UserRepository defines persistence for administrative accounts.
//
// Implementations must assign strictly increasing ids that are never reused,
// enforce case-sensitive username uniqueness (Add, and Update when the new
// username collides with a different user), and preserve insertion order in
// GetAll.
type UserRepository interface {
	CurrentUserLookup
	GetAll(ctx context.Context) ([]*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	Add(ctx context.Context, input NewUser) (*domain.User, error)
	Update(ctx context.Context, id int64, update UserUpdate) (*domain.User, error)
	Delete(ctx context.Context, id int64) error
	SetPasswordHash(ctx context.Context, id int64, hash string) error
}
