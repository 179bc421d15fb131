package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/c-library/catalog-admin/internal/api/metrics"
	"github.com/c-library/catalog-admin/internal/core/domain"
	"github.com/c-library/catalog-admin/internal/core/service"
)

// SessionHandler exposes the process-wide current-user tracker. Consumers
// must treat state "unknown" as not-yet-resolved, never as signed out.
type SessionHandler struct {
	session *service.Session
}

func NewSessionHandler(session *service.Session) *SessionHandler {
	return &SessionHandler{session: session}
}

type sessionResponse struct {
	State string       `json:"state"`
	User  *domain.User `json:"user,omitempty"`
}

// Get returns the session state and, when authenticated, the current user.
//
// @Summary      Current session
// @Tags         session
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Router       /v1/session [get]
func (h *SessionHandler) Get(c echo.Context) error {
	state, user := h.session.Current()
	return c.JSON(http.StatusOK, sessionResponse{State: state.String(), User: user})
}

// Refresh re-resolves the current user and returns the resulting session.
// The refetch always terminates in a resolved state; lookup failures read as
// anonymous rather than an error.
//
// @Summary      Refetch the current user
// @Tags         session
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Router       /v1/session/refresh [post]
func (h *SessionHandler) Refresh(c echo.Context) error {
	h.session.Refetch(c.Request().Context())
	state, user := h.session.Current()
	metrics.SessionRefreshesTotal.WithLabelValues(state.String()).Inc()
	return c.JSON(http.StatusOK, sessionResponse{State: state.String(), User: user})
}

// Logout clears the tracked current user.
//
// @Summary      Clear the session
// @Tags         session
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Router       /v1/session/logout [post]
func (h *SessionHandler) Logout(c echo.Context) error {
	h.session.Logout()
	state, user := h.session.Current()
	return c.JSON(http.StatusOK, sessionResponse{State: state.String(), User: user})
}
