package memory

import (
	"context"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/c-library/catalog-admin/internal/core/domain"
	"github.com/c-library/catalog-admin/internal/core/ports"
)

// UserRepository is an in-memory, demonstration-grade store. It keeps users
// in insertion order, assigns strictly increasing ids that are never reused,
// and enforces case-sensitive username uniqueness. An optional artificial
// latency mimics a remote backend for local UI work.
//
// All methods hand out clones; callers never hold live references into the
// store.
type UserRepository struct {
	mu      sync.Mutex
	users   []*domain.User
	nextID  int64
	latency time.Duration

	// currentUsername is the account GetCurrent resolves to. A production
	// repository replaces this with session-token validation.
	currentUsername string
}

// NewUserRepository returns an empty store. latency of 0 disables the
// simulated delay.
func NewUserRepository(latency time.Duration) *UserRepository {
	return &UserRepository{nextID: 1, latency: latency}
}

// NewSeededRepository returns a store preloaded with the two demonstration
// accounts: an admin holding every permission and an editor holding all but
// user management. Both accounts use the given password.
func NewSeededRepository(latency time.Duration, password string) *UserRepository {
	r := NewUserRepository(latency)

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		panic("memory: seed password hash: " + err.Error())
	}

	ctx := context.Background()
	_, _ = r.Add(ctx, ports.NewUser{
		Username:     "omar",
		FullName:     "Omar (administrator)",
		Role:         domain.RoleAdmin,
		Permissions:  domain.PermissionIDs(),
		PasswordHash: string(hash),
	})
	_, _ = r.Add(ctx, ports.NewUser{
		Username: "editor_user",
		FullName: "Editor account",
		Role:     domain.RoleEditor,
		Permissions: []domain.Permission{
			domain.PermViewDashboard,
			domain.PermManageTheses,
			domain.PermManageArchive,
			domain.PermManageReserved,
			domain.PermManageUnis,
		},
		PasswordHash: string(hash),
	})
	r.currentUsername = "omar"
	return r
}

func (r *UserRepository) sleep(ctx context.Context) error {
	if r.latency <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(r.latency):
		return nil
	}
}

// GetCurrent resolves the fixed demonstration account.
func (r *UserRepository) GetCurrent(ctx context.Context) (*domain.User, error) {
	if err := r.sleep(ctx); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == r.currentUsername {
			return u.Clone(), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *UserRepository) GetAll(ctx context.Context) ([]*domain.User, error) {
	if err := r.sleep(ctx); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.User, len(r.users))
	for i, u := range r.users {
		out[i] = u.Clone()
	}
	return out, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	if err := r.sleep(ctx); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == id {
			return u.Clone(), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	if err := r.sleep(ctx); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			return u.Clone(), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *UserRepository) Add(ctx context.Context, input ports.NewUser) (*domain.User, error) {
	if err := r.sleep(ctx); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == input.Username {
			return nil, domain.ErrUsernameTaken
		}
	}

	user := &domain.User{
		ID:           r.nextID,
		Username:     input.Username,
		FullName:     input.FullName,
		Role:         input.Role,
		Permissions:  append([]domain.Permission(nil), input.Permissions...),
		PasswordHash: input.PasswordHash,
	}
	r.nextID++
	r.users = append(r.users, user)
	return user.Clone(), nil
}

func (r *UserRepository) Update(ctx context.Context, id int64, update ports.UserUpdate) (*domain.User, error) {
	if err := r.sleep(ctx); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var target *domain.User
	for _, u := range r.users {
		if u.ID == id {
			target = u
			break
		}
	}
	if target == nil {
		return nil, domain.ErrUserNotFound
	}

	// Self-collision is allowed: renaming a user to its current name is a
	// no-op, not a conflict.
	if update.Username != nil {
		for _, u := range r.users {
			if u.Username == *update.Username && u.ID != id {
				return nil, domain.ErrUsernameTaken
			}
		}
		target.Username = *update.Username
	}
	if update.FullName != nil {
		target.FullName = *update.FullName
	}
	if update.Role != nil {
		target.Role = *update.Role
	}
	if update.Permissions != nil {
		target.Permissions = append([]domain.Permission(nil), (*update.Permissions)...)
	}
	return target.Clone(), nil
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	if err := r.sleep(ctx); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for i, u := range r.users {
		if u.ID == id {
			r.users = append(r.users[:i], r.users[i+1:]...)
			return nil
		}
	}
	return domain.ErrUserNotFound
}

func (r *UserRepository) SetPasswordHash(ctx context.Context, id int64, hash string) error {
	if err := r.sleep(ctx); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == id {
			u.PasswordHash = hash
			return nil
		}
	}
	return domain.ErrUserNotFound
}
