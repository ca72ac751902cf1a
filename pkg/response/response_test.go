package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set(RequestIDKey, "req-1")

	Success(c, 0, gin.H{"user_id": "u1"}, "ok", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var body Envelope[map[string]string]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "req-1", body.RequestID)
	assert.Equal(t, "u1", body.Data["user_id"])
}

func TestError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Error(c, http.StatusConflict, "NOT_A_TEACHER", "account is not a teacher account", nil)

	assert.Equal(t, http.StatusConflict, w.Code)
	var body struct {
		Success bool      `json:"success"`
		Status  int       `json:"status"`
		Error   ErrorBody `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, http.StatusConflict, body.Status)
	assert.Equal(t, "NOT_A_TEACHER", body.Error.Code)
}

func TestAbort(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized")

	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestError_DefaultsToBadRequest(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Error(c, 0, "INVALID_PAYLOAD", "invalid payload", map[string]string{"email": "email is required"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var body Envelope[any]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotNil(t, body.Error)
	assert.Equal(t, "INVALID_PAYLOAD", body.Error.Code)
	assert.Equal(t, map[string]any{"email": "email is required"}, body.Error.Details)
	assert.Nil(t, body.Data)
}
