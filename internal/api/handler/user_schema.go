package handler

import (
	"github.com/c-library/catalog-admin/internal/core/domain"
)

// --- Request types for account management ---

type addUserRequest struct {
	Username    string   `json:"username"    validate:"required,min=3"`
	FullName    string   `json:"full_name"`
	Password    string   `json:"password"    validate:"required,min=8"`
	Role        string   `json:"role"        validate:"required,oneof=admin editor viewer"`
	Permissions []string `json:"permissions"`
}

type updateUserRequest struct {
	Username    *string   `json:"username"    validate:"omitempty,min=3"`
	FullName    *string   `json:"full_name"`
	Role        *string   `json:"role"        validate:"omitempty,oneof=admin editor viewer"`
	Permissions *[]string `json:"permissions"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password"     validate:"required,min=8"`
}

type updateProfileRequest struct {
	FullName string `json:"full_name" validate:"required"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func toPermissions(ids []string) []domain.Permission {
	perms := make([]domain.Permission, len(ids))
	for i, id := range ids {
		perms[i] = domain.Permission(id)
	}
	return perms
}
