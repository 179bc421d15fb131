package service

import (
	"context"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/c-library/catalog-admin/internal/core/domain"
	"github.com/c-library/catalog-admin/internal/core/ports"
)

// UserService implements account management on top of a UserRepository.
// Username uniqueness and id assignment live in the repository; everything
// policy-shaped (catalog membership, role validity, self-delete protection,
// password verification) lives here.
type UserService struct {
	repo   ports.UserRepository
	logger zerolog.Logger
}

func NewUserService(repo ports.UserRepository, logger zerolog.Logger) *UserService {
	return &UserService{repo: repo, logger: logger}
}

func (s *UserService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.repo.GetAll(ctx)
}

func (s *UserService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *UserService) AddUser(ctx context.Context, input ports.AddUserInput) (*domain.User, error) {
	if input.Username == "" || input.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}
	if !domain.ValidRole(input.Role) {
		return nil, domain.ErrInvalidCredentials
	}
	if err := domain.ValidatePermissions(input.Permissions); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.Add(ctx, ports.NewUser{
		Username:     input.Username,
		FullName:     input.FullName,
		Role:         input.Role,
		Permissions:  input.Permissions,
		PasswordHash: string(hash),
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("user_id", created.ID).Str("username", created.Username).Msg("user created")
	return created, nil
}

func (s *UserService) UpdateUser(ctx context.Context, id int64, input ports.UpdateUserInput) (*domain.User, error) {
	if input.Role != nil && !domain.ValidRole(*input.Role) {
		return nil, domain.ErrInvalidCredentials
	}
	if input.Permissions != nil {
		if err := domain.ValidatePermissions(*input.Permissions); err != nil {
			return nil, err
		}
	}

	updated, err := s.repo.Update(ctx, id, ports.UserUpdate{
		Username:    input.Username,
		FullName:    input.FullName,
		Role:        input.Role,
		Permissions: input.Permissions,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("user_id", id).Msg("user updated")
	return updated, nil
}

// DeleteUser removes the account with the given id. The acting user can
// never remove their own account; that rule is enforced here rather than at
// the presentation layer so no transport can bypass it.
func (s *UserService) DeleteUser(ctx context.Context, actorID, id int64) error {
	if actorID == id {
		return domain.ErrSelfDelete
	}
	// Deleting an absent id fails loudly instead of succeeding as a no-op.
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Int64("user_id", id).Int64("actor_id", actorID).Msg("user deleted")
	return nil
}

// ChangePassword verifies the current password before storing the new hash.
func (s *UserService) ChangePassword(ctx context.Context, id int64, current, next string) error {
	if next == "" {
		return domain.ErrInvalidCredentials
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)) != nil {
		return domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.repo.SetPasswordHash(ctx, id, string(hash)); err != nil {
		return err
	}

	s.logger.Info().Int64("user_id", id).Msg("password changed")
	return nil
}

func (s *UserService) UpdateProfile(ctx context.Context, id int64, fullName string) (*domain.User, error) {
	return s.repo.Update(ctx, id, ports.UserUpdate{FullName: &fullName})
}
