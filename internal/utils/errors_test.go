package utils

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"aiagents-backend/internal/apperr"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	notFound := apperr.New(apperr.NotFound, "Agent not found")

	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantMessage string
	}{
		{"sentinel", notFound, http.StatusNotFound, "Agent not found"},
		{"wrapped sentinel", notFound.Wrap(errors.New("record not found")), http.StatusNotFound, "Agent not found"},
		{"conflict", apperr.New(apperr.Conflict, "Email is already registered"), http.StatusConflict, "Email is already registered"},
		{"plain error hides cause", errors.New("pq: connection refused"), http.StatusInternalServerError, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request, _ = http.NewRequest(http.MethodGet, "/", nil)

			RespondError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			var resp Response
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantStatus, resp.Status)
			assert.Equal(t, tt.wantMessage, resp.Message)
			assert.Nil(t, resp.Data)
		})
	}
}

func TestRespondErrorWithData(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/", nil)

	RespondErrorWithData(c, apperr.New(apperr.Aggregation, "Failed to compute analytics"), gin.H{"topAgents": []string{}})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var resp struct {
		Data map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Data, "topAgents")
}
