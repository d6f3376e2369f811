package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signupBody struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	AcceptTerms bool   `json:"acceptTerms" binding:"eq=true"`
}

func bind(t *testing.T, body string) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	var dst signupBody
	return w, BindAndValidate(c, &dst)
}

func decodeValidation(t *testing.T, w *httptest.ResponseRecorder) ValidationErrorData {
	t.Helper()
	var resp struct {
		Status int                 `json:"status"`
		Data   ValidationErrorData `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Status)
	return resp.Data
}

func TestBindAndValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		_, ok := bind(t, `{"email":"a@x.com","password":"longenough","acceptTerms":true}`)
		assert.True(t, ok)
	})

	t.Run("field errors use json names", func(t *testing.T) {
		w, ok := bind(t, `{"email":"nope","password":"short"}`)
		require.False(t, ok)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

		data := decodeValidation(t, w)
		fields := map[string]ValidationErrorDetail{}
		for _, e := range data.Errors {
			fields[e.Field] = e
		}
		require.Contains(t, fields, "email")
		require.Contains(t, fields, "password")
		require.Contains(t, fields, "acceptTerms")
		assert.Equal(t, "email format", fields["email"].Expected)
		assert.Equal(t, "min 8", fields["password"].Expected)
	})

	t.Run("wrong type", func(t *testing.T) {
		w, ok := bind(t, `{"email":42}`)
		require.False(t, ok)
		data := decodeValidation(t, w)
		require.Len(t, data.Errors, 1)
		assert.Equal(t, "email", data.Errors[0].Field)
	})

	t.Run("malformed", func(t *testing.T) {
		w, ok := bind(t, `{`)
		require.False(t, ok)
		data := decodeValidation(t, w)
		require.Len(t, data.Errors, 1)
		assert.Equal(t, "body", data.Errors[0].Field)
	})
}
