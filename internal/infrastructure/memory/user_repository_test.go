package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/c-library/catalog-admin/internal/core/domain"
	"github.com/c-library/catalog-admin/internal/core/ports"
)

func addUser(t *testing.T, r *UserRepository, username, role string, perms ...domain.Permission) *domain.User {
	t.Helper()
	u, err := r.Add(context.Background(), ports.NewUser{
		Username:     username,
		Role:         role,
		Permissions:  perms,
		PasswordHash: "x",
	})
	if err != nil {
		t.Fatalf("add %q: %v", username, err)
	}
	return u
}

func TestAdd_DuplicateUsername(t *testing.T) {
	r := NewUserRepository(0)
	addUser(t, r, "omar", domain.RoleAdmin)

	if _, err := r.Add(context.Background(), ports.NewUser{Username: "omar", Role: domain.RoleAdmin}); !errors.Is(err, domain.ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}

	users, err := r.GetAll(context.Background())
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if len(users) != 1 {
		t.Fatalf("store changed by failed add: %d users", len(users))
	}
}

func TestAdd_IDsMonotonic_NeverReused(t *testing.T) {
	r := NewUserRepository(0)
	ctx := context.Background()

	a := addUser(t, r, "a", domain.RoleViewer)
	b := addUser(t, r, "b", domain.RoleViewer)
	if b.ID <= a.ID {
		t.Fatalf("ids not increasing: %d then %d", a.ID, b.ID)
	}

	if err := r.Delete(ctx, b.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	c := addUser(t, r, "c", domain.RoleViewer)
	if c.ID <= b.ID {
		t.Fatalf("id %d reused after deleting %d", c.ID, b.ID)
	}
}

func TestDelete_RemovesAndGetByIDFails(t *testing.T) {
	r := NewUserRepository(0)
	ctx := context.Background()
	u := addUser(t, r, "omar", domain.RoleAdmin)

	if err := r.Delete(ctx, u.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := r.GetByID(ctx, u.ID); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if err := r.Delete(ctx, u.ID); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound for absent id, got %v", err)
	}
}

func TestUpdate_UsernameCollisionRules(t *testing.T) {
	r := NewUserRepository(0)
	ctx := context.Background()
	omar := addUser(t, r, "omar", domain.RoleAdmin)
	sara := addUser(t, r, "sara", domain.RoleViewer)

	// Renaming to a different user's name fails.
	name := "omar"
	if _, err := r.Update(ctx, sara.ID, ports.UserUpdate{Username: &name}); !errors.Is(err, domain.ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}

	// Renaming to your own current name succeeds.
	own := "sara"
	if _, err := r.Update(ctx, sara.ID, ports.UserUpdate{Username: &own}); err != nil {
		t.Fatalf("self-collision rejected: %v", err)
	}

	// Once the other user is gone, the name is free.
	if err := r.Delete(ctx, omar.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := r.Update(ctx, sara.ID, ports.UserUpdate{Username: &name}); err != nil {
		t.Fatalf("rename after delete rejected: %v", err)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	r := NewUserRepository(0)
	name := "ghost"
	if _, err := r.Update(context.Background(), 42, ports.UserUpdate{Username: &name}); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestGetAll_InsertionOrderAndIsolation(t *testing.T) {
	r := NewUserRepository(0)
	addUser(t, r, "omar", domain.RoleAdmin)
	addUser(t, r, "sara", domain.RoleViewer, domain.PermViewDashboard)

	users, err := r.GetAll(context.Background())
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if users[0].Username != "omar" || users[1].Username != "sara" {
		t.Fatalf("insertion order not preserved: %q, %q", users[0].Username, users[1].Username)
	}

	// Mutating a returned record must not leak into the store.
	users[1].Permissions[0] = domain.PermManageUsers
	again, _ := r.GetAll(context.Background())
	if again[1].Permissions[0] != domain.PermViewDashboard {
		t.Fatalf("store mutated through returned snapshot")
	}
}

func TestSeededRepository(t *testing.T) {
	r := NewSeededRepository(0, "11223344")
	ctx := context.Background()

	current, err := r.GetCurrent(ctx)
	if err != nil {
		t.Fatalf("GetCurrent: %v", err)
	}
	if current.Username != "omar" || current.Role != domain.RoleAdmin {
		t.Fatalf("unexpected current user: %+v", current)
	}
	if len(current.Permissions) != len(domain.AllPermissions) {
		t.Fatalf("seed admin missing permissions: %d", len(current.Permissions))
	}

	editor, err := r.FindByUsername(ctx, "editor_user")
	if err != nil {
		t.Fatalf("FindByUsername: %v", err)
	}
	if editor.HasPermission(domain.PermManageUsers) {
		t.Fatalf("seed editor should not manage users")
	}
}
