package utils

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	AccessCookieName  = "auth-token"
	RefreshCookieName = "refresh-token"

	// RefreshCookiePath keeps the refresh token off every request but the
	// auth endpoints.
	RefreshCookiePath = "/api/v1/auth"
)

var ErrNoToken = errors.New("no auth token in request")

// CookieOptions controls how auth cookies are written. Secure only applies
// to the access cookie; the refresh cookie is always Secure.
type CookieOptions struct {
	Secure        bool
	AccessMaxAge  time.Duration
	RefreshMaxAge time.Duration
}

// ExtractToken returns the access token from the auth cookie, falling back
// to an Authorization: Bearer header.
func ExtractToken(c *gin.Context) (string, error) {
	if token, err := c.Cookie(AccessCookieName); err == nil && token != "" {
		return token, nil
	}

	authHeader := c.GetHeader("Authorization")
	const bearerPrefix = "Bearer "
	if strings.HasPrefix(authHeader, bearerPrefix) {
		if token := strings.TrimSpace(strings.TrimPrefix(authHeader, bearerPrefix)); token != "" {
			return token, nil
		}
	}
	return "", ErrNoToken
}

// ExtractRefreshToken reads the refresh cookie, or "" when absent.
func ExtractRefreshToken(c *gin.Context) string {
	token, err := c.Cookie(RefreshCookieName)
	if err != nil {
		return ""
	}
	return token
}

func SetAuthCookies(c *gin.Context, opts CookieOptions, accessToken, refreshToken string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(AccessCookieName, accessToken, int(opts.AccessMaxAge.Seconds()), "/", "", opts.Secure, true)
	c.SetCookie(RefreshCookieName, refreshToken, int(opts.RefreshMaxAge.Seconds()), RefreshCookiePath, "", true, true)
}

// ClearAuthCookies expires both cookies on the client.
func ClearAuthCookies(c *gin.Context, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(AccessCookieName, "", -1, "/", "", secure, true)
	c.SetCookie(RefreshCookieName, "", -1, RefreshCookiePath, "", true, true)
}
