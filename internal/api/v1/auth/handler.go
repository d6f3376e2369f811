package auth

import (
	"net/http"

	"aiagents-backend/internal/api/v1/user"
	"aiagents-backend/internal/models"
	"aiagents-backend/internal/services"
	"aiagents-backend/internal/utils"
	"aiagents-backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	auth     *services.AuthService
	sessions *services.SessionStore
	cookies  utils.CookieOptions
}

func NewHandler(auth *services.AuthService, sessions *services.SessionStore, cookies utils.CookieOptions) *Handler {
	return &Handler{auth: auth, sessions: sessions, cookies: cookies}
}

func (h *Handler) signedIn(c *gin.Context, status int, message string, u models.User, pair *services.TokenPair) {
	utils.SetAuthCookies(c, h.cookies, pair.AccessToken, pair.RefreshToken)
	c.JSON(status, utils.NewResponse(status, message, AuthResponse{
		User:      user.NewUserResponse(u),
		Token:     pair.AccessToken,
		ExpiresAt: pair.AccessExpiresAt,
	}))
}

// Register godoc
// @Summary Register a new user
// @Description Create an account and sign it in
// @Tags auth
// @Accept  json
// @Produce  json
// @Param   input     body   RegisterRequest  true  "Register Input"
// @Success 201 {object} utils.Response{data=AuthResponse}
// @Failure 409 {object} utils.Response
// @Failure 422 {object} utils.Response
// @Failure 500 {object} utils.Response
// @Router /auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	u, pair, err := h.auth.Register(c.Request.Context(), services.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FullName:  req.FullName,
		UserAgent: c.Request.UserAgent(),
		IPAddress: c.ClientIP(),
	})
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	h.signedIn(c, http.StatusCreated, "User registered successfully", *u, pair)
}

// Login godoc
// @Summary Log in a user
// @Description Log in with email and password
// @Tags auth
// @Accept  json
// @Produce  json
// @Param   input     body   LoginRequest  true  "Login Input"
// @Success 200 {object} utils.Response{data=AuthResponse}
// @Failure 401 {object} utils.Response
// @Failure 403 {object} utils.Response
// @Failure 422 {object} utils.Response
// @Router /auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	u, pair, err := h.auth.Login(c.Request.Context(), services.LoginInput{
		Email:     req.Email,
		Password:  req.Password,
		UserAgent: c.Request.UserAgent(),
		IPAddress: c.ClientIP(),
	})
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	h.signedIn(c, http.StatusOK, "Logged in successfully", *u, pair)
}

// Logout godoc
// @Summary Log out
// @Description Delete the current session and clear auth cookies. Always succeeds.
// @Tags auth
// @Produce  json
// @Success 200 {object} utils.Response
// @Router /auth/logout [post]
func (h *Handler) Logout(c *gin.Context) {
	access, _ := utils.ExtractToken(c)
	refresh := utils.ExtractRefreshToken(c)

	if err := h.auth.Logout(c.Request.Context(), access, refresh); err != nil {
		logger.Log.Warn("logout could not delete session", zap.Error(err))
	}

	utils.ClearAuthCookies(c, h.cookies.Secure)
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Logged out successfully", nil))
}

// Refresh godoc
// @Summary Rotate tokens
// @Description Exchange a refresh token (cookie or body) for a new pair
// @Tags auth
// @Accept  json
// @Produce  json
// @Param   input     body   RefreshRequest  false  "Refresh token when not sent as cookie"
// @Success 200 {object} utils.Response{data=AuthResponse}
// @Failure 401 {object} utils.Response
// @Router /auth/refresh [post]
func (h *Handler) Refresh(c *gin.Context) {
	token := utils.ExtractRefreshToken(c)
	if token == "" && c.Request.ContentLength != 0 {
		var req RefreshRequest
		if err := c.ShouldBindJSON(&req); err == nil {
			token = req.RefreshToken
		}
	}
	if token == "" {
		utils.RespondError(c, services.ErrInvalidRefreshToken)
		return
	}

	u, pair, err := h.sessions.Refresh(c.Request.Context(), token, c.Request.UserAgent(), c.ClientIP())
	if err != nil {
		utils.ClearAuthCookies(c, h.cookies.Secure)
		utils.RespondError(c, err)
		return
	}

	h.signedIn(c, http.StatusOK, "Token refreshed", *u, pair)
}
