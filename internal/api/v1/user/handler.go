package user

import (
	"net/http"
	"time"

	"aiagents-backend/internal/middleware"
	"aiagents-backend/internal/services"
	"aiagents-backend/internal/utils"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	users     *services.UserService
	sessions  *services.SessionStore
	analytics *services.AnalyticsService
}

func NewHandler(users *services.UserService, sessions *services.SessionStore, analytics *services.AnalyticsService) *Handler {
	return &Handler{users: users, sessions: sessions, analytics: analytics}
}

// CurrentUser godoc
// @Summary Get current user
// @Description Get the signed-in user's profile and derived counts
// @Tags user
// @Produce  json
// @Security Bearer
// @Success 200 {object} utils.Response{data=user.ProfileResponse}
// @Failure 401 {object} utils.Response
// @Failure 500 {object} utils.Response
// @Router /auth/me [get]
func (h *Handler) CurrentUser(c *gin.Context) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		utils.RespondError(c, services.ErrUnauthenticated)
		return
	}

	counts, err := h.users.ProfileCounts(c.Request.Context(), u.ID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("User information retrieved successfully", ProfileResponse{
		User:   NewUserResponse(u),
		Counts: counts,
	}))
}

// UpdateProfile godoc
// @Summary Update profile
// @Tags user
// @Accept json
// @Produce json
// @Security Bearer
// @Param body body UpdateProfileRequest true "Profile fields"
// @Success 200 {object} utils.Response{data=user.UserResponse}
// @Failure 401 {object} utils.Response
// @Failure 422 {object} utils.Response
// @Router /users/me [patch]
func (h *Handler) UpdateProfile(c *gin.Context) {
	u, _ := middleware.CurrentUser(c)

	var req UpdateProfileRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	updated, err := h.users.UpdateProfile(c.Request.Context(), u.ID, req.FullName)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Profile updated successfully", NewUserResponse(*updated)))
}

// ChangePassword godoc
// @Summary Change password
// @Description Change the password and sign out every other session
// @Tags user
// @Accept json
// @Produce json
// @Security Bearer
// @Param body body ChangePasswordRequest true "Passwords"
// @Success 200 {object} utils.Response
// @Failure 401 {object} utils.Response
// @Failure 422 {object} utils.Response
// @Router /users/me/password [put]
func (h *Handler) ChangePassword(c *gin.Context) {
	u, _ := middleware.CurrentUser(c)
	session, _ := middleware.CurrentSession(c)

	var req ChangePasswordRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	err := h.users.ChangePassword(c.Request.Context(), u.ID, session.ID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Password changed successfully", nil))
}

// ListSessions godoc
// @Summary List my sessions
// @Tags user
// @Produce json
// @Security Bearer
// @Success 200 {object} utils.Response{data=[]user.SessionResponse}
// @Failure 401 {object} utils.Response
// @Router /users/me/sessions [get]
func (h *Handler) ListSessions(c *gin.Context) {
	u, _ := middleware.CurrentUser(c)
	current, _ := middleware.CurrentSession(c)

	sessions, err := h.sessions.ListForUser(c.Request.Context(), u.ID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	items := make([]SessionResponse, 0, len(sessions))
	for _, s := range sessions {
		items = append(items, SessionResponse{
			ID:        s.ID,
			UserAgent: s.UserAgent,
			IPAddress: s.IPAddress,
			CreatedAt: s.CreatedAt,
			ExpiresAt: s.ExpiresAt,
			Current:   s.ID == current.ID,
		})
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Sessions retrieved successfully", items))
}

// RevokeSession godoc
// @Summary Revoke one of my sessions
// @Tags user
// @Produce json
// @Security Bearer
// @Param id path int true "Session ID"
// @Success 200 {object} utils.Response
// @Failure 401 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Router /users/me/sessions/{id} [delete]
func (h *Handler) RevokeSession(c *gin.Context) {
	u, _ := middleware.CurrentUser(c)
	id, ok := utils.ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.sessions.DestroyByID(c.Request.Context(), u.ID, id); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Session revoked", nil))
}

// MyAnalytics godoc
// @Summary My dashboard metrics
// @Tags user
// @Produce json
// @Security Bearer
// @Success 200 {object} utils.Response{data=services.UserAnalyticsSnapshot}
// @Failure 401 {object} utils.Response
// @Failure 500 {object} utils.Response{data=services.UserAnalyticsSnapshot}
// @Router /users/me/analytics [get]
func (h *Handler) MyAnalytics(c *gin.Context) {
	u, _ := middleware.CurrentUser(c)

	snap, err := h.analytics.ComputeUserAnalytics(c.Request.Context(), u.ID, time.Now())
	if err != nil {
		utils.RespondErrorWithData(c, err, snap)
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Analytics retrieved successfully", snap))
}
