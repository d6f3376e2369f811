package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"aiagents-backend/internal/models"
	"aiagents-backend/internal/services"
	"aiagents-backend/internal/testutil"
	"aiagents-backend/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const password = "Password123"

type testServer struct {
	t      *testing.T
	reg    *services.Registry
	router *gin.Engine
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := testutil.Config()
	rdb, _ := testutil.NewRedis(t)
	reg := services.NewRegistry(cfg, testutil.NewDB(t), rdb, nil)
	return &testServer{t: t, reg: reg, router: NewRouter(cfg, reg)}
}

type request struct {
	method  string
	path    string
	body    interface{}
	cookies []*http.Cookie
	bearer  string
}

func (s *testServer) do(r request) *httptest.ResponseRecorder {
	s.t.Helper()

	var body bytes.Buffer
	if r.body != nil {
		require.NoError(s.t, json.NewEncoder(&body).Encode(r.body))
	}
	req, err := http.NewRequest(r.method, r.path, &body)
	require.NoError(s.t, err)
	req.RequestURI = r.path
	req.Header.Set("Content-Type", "application/json")
	for _, c := range r.cookies {
		req.AddCookie(c)
	}
	if r.bearer != "" {
		req.Header.Set("Authorization", "Bearer "+r.bearer)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, data interface{}) utils.Response {
	t.Helper()
	resp := utils.Response{Data: data}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}

func authCookies(w *httptest.ResponseRecorder) map[string]*http.Cookie {
	out := map[string]*http.Cookie{}
	for _, c := range w.Result().Cookies() {
		out[c.Name] = c
	}
	return out
}

// seedUser inserts an account directly and signs it in over HTTP.
func (s *testServer) seedUser(email string, role models.Role) string {
	s.t.Helper()
	digest, err := s.reg.Hasher.Hash(password)
	require.NoError(s.t, err)
	require.NoError(s.t, s.reg.DB.Create(&models.User{
		Email: email, PasswordHash: digest, FullName: email,
		Role: role, Status: models.UserStatusActive, Version: 1,
	}).Error)

	w := s.do(request{method: http.MethodPost, path: "/api/v1/auth/login", body: gin.H{"email": email, "password": password}})
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())
	return authCookies(w)[utils.AccessCookieName].Value
}

func TestAuthFlow(t *testing.T) {
	s := newTestServer(t)

	w := s.do(request{method: http.MethodPost, path: "/api/v1/auth/register", body: gin.H{
		"email": "a@x.com", "password": password, "fullName": "User A", "acceptTerms": true,
	}})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var registered struct {
		User  map[string]interface{} `json:"user"`
		Token string                 `json:"token"`
	}
	decode(t, w, &registered)
	assert.Equal(t, "a@x.com", registered.User["email"])
	assert.Equal(t, "USER", registered.User["role"])
	assert.NotEmpty(t, registered.Token)

	w = s.do(request{method: http.MethodPost, path: "/api/v1/auth/login", body: gin.H{"email": "a@x.com", "password": password}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	cookies := authCookies(w)
	require.Contains(t, cookies, utils.AccessCookieName)
	require.Contains(t, cookies, utils.RefreshCookieName)
	access, refresh := cookies[utils.AccessCookieName], cookies[utils.RefreshCookieName]
	assert.NotEmpty(t, access.Value)
	assert.NotEmpty(t, refresh.Value)
	assert.True(t, access.HttpOnly)
	assert.Equal(t, int((7 * 24 * time.Hour).Seconds()), access.MaxAge)
	assert.Equal(t, int((30 * 24 * time.Hour).Seconds()), refresh.MaxAge)

	w = s.do(request{method: http.MethodGet, path: "/api/v1/auth/me", cookies: []*http.Cookie{access}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(request{method: http.MethodPost, path: "/api/v1/auth/login", body: gin.H{"email": "a@x.com", "password": password + "x"}})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	wrongPassword := decode(t, w, nil).Message

	w = s.do(request{method: http.MethodPost, path: "/api/v1/auth/login", body: gin.H{"email": "nobody@x.com", "password": password}})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, wrongPassword, decode(t, w, nil).Message)

	w = s.do(request{method: http.MethodPost, path: "/api/v1/auth/logout", cookies: []*http.Cookie{access, refresh}})
	require.Equal(t, http.StatusOK, w.Code)
	for _, c := range authCookies(w) {
		assert.Empty(t, c.Value)
		assert.Less(t, c.MaxAge, 0)
	}

	w = s.do(request{method: http.MethodGet, path: "/api/v1/auth/me"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = s.do(request{method: http.MethodGet, path: "/api/v1/auth/me", cookies: []*http.Cookie{access}})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(request{method: http.MethodPost, path: "/api/v1/auth/logout"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRegisterErrors(t *testing.T) {
	s := newTestServer(t)
	body := gin.H{"email": "a@x.com", "password": password, "fullName": "User A", "acceptTerms": true}

	w := s.do(request{method: http.MethodPost, path: "/api/v1/auth/register", body: body})
	require.Equal(t, http.StatusCreated, w.Code)

	body["email"] = "A@X.COM"
	w = s.do(request{method: http.MethodPost, path: "/api/v1/auth/register", body: body})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(request{method: http.MethodPost, path: "/api/v1/auth/register", body: gin.H{
		"email": "b@x.com", "password": password, "fullName": "User B",
	}})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var data utils.ValidationErrorData
	decode(t, w, &data)
	require.NotEmpty(t, data.Errors)
	assert.Equal(t, "acceptTerms", data.Errors[0].Field)
}

func TestLoginSuspendedAccount(t *testing.T) {
	s := newTestServer(t)
	s.seedUser("s@x.com", models.RoleUser)
	require.NoError(t, s.reg.DB.Model(&models.User{}).Where("email = ?", "s@x.com").Update("status", models.UserStatusSuspended).Error)

	w := s.do(request{method: http.MethodPost, path: "/api/v1/auth/login", body: gin.H{"email": "s@x.com", "password": password}})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRefreshRotatesTokens(t *testing.T) {
	s := newTestServer(t)
	w := s.do(request{method: http.MethodPost, path: "/api/v1/auth/register", body: gin.H{
		"email": "r@x.com", "password": password, "fullName": "R", "acceptTerms": true,
	}})
	require.Equal(t, http.StatusCreated, w.Code)
	cookies := authCookies(w)
	oldAccess := cookies[utils.AccessCookieName]

	w = s.do(request{method: http.MethodPost, path: "/api/v1/auth/refresh", cookies: []*http.Cookie{cookies[utils.RefreshCookieName]}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	newAccess := authCookies(w)[utils.AccessCookieName]
	require.NotNil(t, newAccess)
	assert.NotEqual(t, oldAccess.Value, newAccess.Value)

	assert.Equal(t, http.StatusUnauthorized, s.do(request{method: http.MethodGet, path: "/api/v1/auth/me", cookies: []*http.Cookie{oldAccess}}).Code)
	assert.Equal(t, http.StatusOK, s.do(request{method: http.MethodGet, path: "/api/v1/auth/me", cookies: []*http.Cookie{newAccess}}).Code)

	w = s.do(request{method: http.MethodPost, path: "/api/v1/auth/refresh", cookies: []*http.Cookie{cookies[utils.RefreshCookieName]}})
	assert.Equal(t, http.StatusUnauthorized, w.Code, "a rotated refresh token is spent")

	w = s.do(request{method: http.MethodPost, path: "/api/v1/auth/refresh"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminAnalytics(t *testing.T) {
	s := newTestServer(t)
	user := s.seedUser("user@x.com", models.RoleUser)
	admin := s.seedUser("admin@x.com", models.RoleAdmin)
	super := s.seedUser("super@x.com", models.RoleSuperAdmin)

	w := services.WindowsFor(time.Now(), nil)
	orders := []models.Order{
		{ID: "cur-1", UserID: 1, AgentID: 1, Amount: 100, Status: models.OrderStatusCompleted, CreatedAt: w.CurrentStart.Add(time.Minute)},
		{ID: "cur-2", UserID: 1, AgentID: 1, Amount: 50, Status: models.OrderStatusCompleted, CreatedAt: w.CurrentStart.Add(2 * time.Minute)},
		{ID: "prev-1", UserID: 1, AgentID: 1, Amount: 100, Status: models.OrderStatusCompleted, CreatedAt: w.PreviousStart.Add(time.Hour)},
		{ID: "pending", UserID: 1, AgentID: 1, Amount: 500, Status: models.OrderStatusPending, CreatedAt: w.CurrentStart.Add(time.Minute)},
	}
	require.NoError(t, s.reg.DB.Create(&orders).Error)

	rec := s.do(request{method: http.MethodGet, path: "/api/v1/admin/analytics"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(request{method: http.MethodGet, path: "/api/v1/admin/analytics", bearer: user})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	for name, token := range map[string]string{"admin": admin, "super admin": super} {
		t.Run(name, func(t *testing.T) {
			rec := s.do(request{method: http.MethodGet, path: "/api/v1/admin/analytics", bearer: token})
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			var snap services.AnalyticsSnapshot
			decode(t, rec, &snap)
			assert.Equal(t, 150.0, snap.Revenue.Total)
			assert.Equal(t, 50, snap.Revenue.Growth)
			assert.Equal(t, int64(3), snap.Users.Total)
		})
	}
}

func TestAdminAnalyticsFailureServesEmptySnapshot(t *testing.T) {
	s := newTestServer(t)
	admin := s.seedUser("admin@x.com", models.RoleAdmin)
	require.NoError(t, s.reg.DB.Migrator().DropTable(&models.Order{}))

	rec := s.do(request{method: http.MethodGet, path: "/api/v1/admin/analytics", bearer: admin})
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var snap map[string]interface{}
	resp := decode(t, rec, &snap)
	assert.Equal(t, "Failed to compute analytics", resp.Message)
	assert.Equal(t, []interface{}{}, snap["topAgents"])
	assert.Equal(t, []interface{}{}, snap["topUsers"])
}

func TestAdminUserModeration(t *testing.T) {
	s := newTestServer(t)
	admin := s.seedUser("admin@x.com", models.RoleAdmin)
	super := s.seedUser("super@x.com", models.RoleSuperAdmin)
	target := s.seedUser("target@x.com", models.RoleUser)

	var targetUser models.User
	require.NoError(t, s.reg.DB.Where("email = ?", "target@x.com").First(&targetUser).Error)
	path := fmt.Sprintf("/api/v1/admin/users/%d", targetUser.ID)

	w := s.do(request{method: http.MethodPatch, path: path, bearer: admin, body: gin.H{"role": "SUPER_ADMIN"}})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(request{method: http.MethodPatch, path: path, bearer: admin, body: gin.H{"role": "OWNER"}})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = s.do(request{method: http.MethodPatch, path: path, bearer: super, body: gin.H{"role": "SUPER_ADMIN"}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(request{method: http.MethodPatch, path: path, bearer: admin, body: gin.H{"status": "SUSPENDED"}})
	assert.Equal(t, http.StatusForbidden, w.Code, "admins cannot touch a super admin")

	w = s.do(request{method: http.MethodPatch, path: path, bearer: super, body: gin.H{"status": "SUSPENDED"}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(request{method: http.MethodGet, path: "/api/v1/auth/me", bearer: target})
	assert.Equal(t, http.StatusUnauthorized, w.Code, "suspension revokes existing sessions")

	w = s.do(request{method: http.MethodGet, path: "/api/v1/admin/users?status=SUSPENDED", bearer: admin})
	require.Equal(t, http.StatusOK, w.Code)
	var page struct {
		Total int64 `json:"total"`
	}
	decode(t, w, &page)
	assert.Equal(t, int64(1), page.Total)
}

func TestMarketplaceFlow(t *testing.T) {
	s := newTestServer(t)
	seller := s.seedUser("seller@x.com", models.RoleUser)
	buyer := s.seedUser("buyer@x.com", models.RoleUser)
	admin := s.seedUser("admin@x.com", models.RoleAdmin)

	w := s.do(request{method: http.MethodPost, path: "/api/v1/agents", bearer: seller, body: gin.H{
		"name": "Tax Helper", "category": "finance", "price": 0, "status": "DRAFT",
		"config": gin.H{"model": "gpt-4o", "temperature": 0.2},
	}})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		ID uint `json:"id"`
	}
	decode(t, w, &created)
	agentPath := fmt.Sprintf("/api/v1/agents/%d", created.ID)

	assert.Equal(t, http.StatusNotFound, s.do(request{method: http.MethodGet, path: agentPath}).Code, "drafts are hidden from visitors")
	assert.Equal(t, http.StatusForbidden, s.do(request{method: http.MethodPatch, path: agentPath, bearer: buyer, body: gin.H{"status": "PUBLISHED"}}).Code)

	w = s.do(request{method: http.MethodPatch, path: agentPath, bearer: seller, body: gin.H{"status": "PUBLISHED"}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, http.StatusOK, s.do(request{method: http.MethodGet, path: agentPath}).Code)

	w = s.do(request{method: http.MethodGet, path: "/api/v1/agents?search=tax"})
	require.Equal(t, http.StatusOK, w.Code)
	var listing struct {
		Total int64 `json:"total"`
	}
	decode(t, w, &listing)
	assert.Equal(t, int64(1), listing.Total)

	w = s.do(request{method: http.MethodPost, path: "/api/v1/orders", bearer: buyer, body: gin.H{"agentId": created.ID}})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var purchase struct {
		Order          struct{ Status string } `json:"order"`
		SubscriptionID uint                    `json:"subscriptionId"`
	}
	decode(t, w, &purchase)
	assert.Equal(t, "COMPLETED", purchase.Order.Status)
	assert.NotZero(t, purchase.SubscriptionID)

	w = s.do(request{method: http.MethodGet, path: "/api/v1/subscriptions", bearer: buyer})
	require.Equal(t, http.StatusOK, w.Code)
	var subs []models.Subscription
	decode(t, w, &subs)
	require.Len(t, subs, 1)

	w = s.do(request{method: http.MethodPost, path: "/api/v1/conversations", bearer: buyer, body: gin.H{"agentId": created.ID}})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var conv struct {
		ID uint `json:"id"`
	}
	decode(t, w, &conv)

	w = s.do(request{method: http.MethodPost, path: fmt.Sprintf("/api/v1/conversations/%d/messages", conv.ID), bearer: buyer, body: gin.H{"content": "hello"}})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, http.StatusNotFound, s.do(request{method: http.MethodGet, path: fmt.Sprintf("/api/v1/conversations/%d", conv.ID), bearer: seller}).Code)

	w = s.do(request{method: http.MethodGet, path: "/api/v1/auth/me", bearer: buyer})
	require.Equal(t, http.StatusOK, w.Code)
	var me struct {
		Counts services.ProfileCounts `json:"counts"`
	}
	decode(t, w, &me)
	assert.Equal(t, int64(1), me.Counts.Conversations)
	assert.Equal(t, int64(1), me.Counts.Orders)
	assert.Equal(t, int64(1), me.Counts.ActiveSubscriptions)

	w = s.do(request{method: http.MethodGet, path: "/api/v1/admin/orders/export", bearer: admin})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment; filename=")
	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	assert.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "ID,"))
}

func TestChangePasswordKeepsCurrentSession(t *testing.T) {
	s := newTestServer(t)
	first := s.seedUser("p@x.com", models.RoleUser)
	w := s.do(request{method: http.MethodPost, path: "/api/v1/auth/login", body: gin.H{"email": "p@x.com", "password": password}})
	require.Equal(t, http.StatusOK, w.Code)
	second := authCookies(w)[utils.AccessCookieName].Value

	w = s.do(request{method: http.MethodPut, path: "/api/v1/users/me/password", bearer: second, body: gin.H{
		"currentPassword": password, "newPassword": "Another-Password-1",
	}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	assert.Equal(t, http.StatusUnauthorized, s.do(request{method: http.MethodGet, path: "/api/v1/auth/me", bearer: first}).Code)
	assert.Equal(t, http.StatusOK, s.do(request{method: http.MethodGet, path: "/api/v1/auth/me", bearer: second}).Code)

	w = s.do(request{method: http.MethodGet, path: "/api/v1/users/me/sessions", bearer: second})
	require.Equal(t, http.StatusOK, w.Code)
	var sessions []map[string]interface{}
	decode(t, w, &sessions)
	require.Len(t, sessions, 1)
	assert.Equal(t, true, sessions[0]["current"])
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)
	w := s.do(request{method: http.MethodGet, path: "/healthz"})
	assert.Equal(t, http.StatusOK, w.Code)

	var checks map[string]string
	decode(t, w, &checks)
	assert.Equal(t, "ok", checks["database"])
	assert.Equal(t, "ok", checks["redis"])
}

func TestPaymentNotifyWithoutDriver(t *testing.T) {
	s := newTestServer(t)
	w := s.do(request{method: http.MethodGet, path: "/api/v1/payments/notify?out_trade_no=x&trade_status=TRADE_SUCCESS"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "fail", w.Body.String())
}

func TestSwaggerDocListsRoutes(t *testing.T) {
	s := newTestServer(t)
	w := s.do(request{method: http.MethodGet, path: "/swagger/doc.json"})
	require.Equal(t, http.StatusOK, w.Code)

	var doc struct {
		BasePath string                     `json:"basePath"`
		Paths    map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, "/api/v1", doc.BasePath)
	for _, path := range []string{"/auth/login", "/auth/me", "/admin/analytics", "/agents/{id}", "/payments/notify"} {
		assert.Contains(t, doc.Paths, path)
	}
}
