package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/c-library/catalog-admin/internal/core/domain"
	"github.com/c-library/catalog-admin/internal/core/service"
)

// NavHandler derives the navigation entries visible to the authenticated
// caller from the identity claims injected by the Auth middleware.
type NavHandler struct{}

func NewNavHandler() *NavHandler {
	return &NavHandler{}
}

type navResponse struct {
	Entries []service.NavEntry `json:"entries"`
}

// Get returns the caller's visible navigation, in display order.
//
// @Summary      Visible navigation entries
// @Tags         navigation
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  navResponse
// @Router       /v1/navigation [get]
func (h *NavHandler) Get(c echo.Context) error {
	role, _ := c.Get("role").(string)
	permSet, _ := c.Get("permissions").(map[string]struct{})

	perms := make([]domain.Permission, 0, len(permSet))
	for p := range permSet {
		perms = append(perms, domain.Permission(p))
	}

	entries := service.VisibleNav(&domain.User{Role: role, Permissions: perms})
	if entries == nil {
		entries = []service.NavEntry{}
	}
	return c.JSON(http.StatusOK, navResponse{Entries: entries})
}
