package user

import (
	"net/http"

	userapi "aiagents-backend/internal/api/v1/user"
	"aiagents-backend/internal/middleware"
	"aiagents-backend/internal/models"
	"aiagents-backend/internal/services"
	"aiagents-backend/internal/utils"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	users *services.UserService
}

func NewHandler(users *services.UserService) *Handler {
	return &Handler{users: users}
}

// ListUsers godoc
// @Summary List all users
// @Description Get a paginated list of users. Admin only.
// @Tags admin
// @Produce json
// @Security Bearer
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(10)
// @Param role query string false "USER, ADMIN or SUPER_ADMIN"
// @Param status query string false "ACTIVE, SUSPENDED or DELETED"
// @Param search query string false "Email or name contains"
// @Success 200 {object} utils.Response{data=utils.PageData{items=[]user.UserResponse}}
// @Failure 401 {object} utils.Response
// @Failure 403 {object} utils.Response
// @Failure 422 {object} utils.Response
// @Failure 500 {object} utils.Response
// @Router /admin/users [get]
func (h *Handler) ListUsers(c *gin.Context) {
	var q ListUsersQuery
	if !utils.BindQuery(c, &q) {
		return
	}

	users, total, err := h.users.FindUsers(c.Request.Context(), services.UserFilter{
		Role:   q.Role,
		Status: q.Status,
		Search: q.Search,
		Page:   q.Page,
		Limit:  q.Limit,
	})
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	items := make([]userapi.UserResponse, 0, len(users))
	for _, u := range users {
		items = append(items, userapi.NewUserResponse(u))
	}

	page, limit := q.Resolved()
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Users retrieved successfully", utils.PageData{
		Items: items,
		Total: total,
		Page:  page,
		Limit: limit,
	}))
}

// UpdateUser godoc
// @Summary Moderate a user
// @Description Change a user's role, status or name. Only a SUPER_ADMIN may grant SUPER_ADMIN or modify one. Suspending or deleting revokes all of the user's sessions.
// @Tags admin
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "User ID"
// @Param body body UpdateUserRequest true "User details to update"
// @Success 200 {object} utils.Response{data=user.UserResponse}
// @Failure 401 {object} utils.Response
// @Failure 403 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Failure 409 {object} utils.Response
// @Failure 422 {object} utils.Response
// @Router /admin/users/{id} [patch]
func (h *Handler) UpdateUser(c *gin.Context) {
	operator, _ := middleware.CurrentUser(c)
	id, ok := utils.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateUserRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	in := services.ModerationInput{FullName: req.FullName, Version: req.Version}
	if req.Role != nil {
		r := models.Role(*req.Role)
		in.Role = &r
	}
	if req.Status != nil {
		s := models.UserStatus(*req.Status)
		in.Status = &s
	}

	updated, err := h.users.ModerateUser(c.Request.Context(), operator, id, in)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("User updated successfully", userapi.NewUserResponse(*updated)))
}
