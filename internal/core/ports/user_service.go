package ports

import (
	"context"

	"github.com/c-library/catalog-admin/internal/core/domain"
)

// AddUserInput carries the data for creating an account, with the plaintext
// password still present; the service hashes it before it reaches storage.
type AddUserInput struct {
	Username    string
	FullName    string
	Password    string
	Role        string
	Permissions []domain.Permission
}

// UpdateUserInput is a partial account update. Nil fields are untouched.
type UpdateUserInput struct {
	Username    *string
	FullName    *string
	Role        *string
	Permissions *[]domain.Permission
}

// UserService defines account management use cases. Operations that must not
// apply to the caller's own account (DeleteUser) take the acting user's id.
type UserService interface {
	ListUsers(ctx context.Context) ([]*domain.User, error)
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	AddUser(ctx context.Context, input AddUserInput) (*domain.User, error)
	UpdateUser(ctx context.Context, id int64, input UpdateUserInput) (*domain.User, error)
	// DeleteUser removes the account with the given id. actorID is the
	// authenticated caller; deleting your own account is rejected.
	DeleteUser(ctx context.Context, actorID, id int64) error
	ChangePassword(ctx context.Context, id int64, current, next string) error
	UpdateProfile(ctx context.Context, id int64, fullName string) (*domain.User, error)
}
