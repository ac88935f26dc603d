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

func init() {
	gin.SetMode(gin.TestMode)
}

func perform(t *testing.T, handler gin.HandlerFunc) Response {
	router := gin.New()
	router.GET("/test", handler)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/test", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestSuccess(t *testing.T) {
	resp := perform(t, func(c *gin.Context) {
		Success(c, gin.H{"key": "value"})
	})

	assert.Equal(t, CodeSuccess, resp.Code)
	assert.Equal(t, "success", resp.Message)
	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "value", data["key"])
}

func TestSuccessWithMessage(t *testing.T) {
	resp := perform(t, func(c *gin.Context) {
		SuccessWithMessage(c, "直播已取消", nil)
	})

	assert.Equal(t, CodeSuccess, resp.Code)
	assert.Equal(t, "直播已取消", resp.Message)
	assert.Nil(t, resp.Data)
}

func TestErrorHelpers_DefaultMessages(t *testing.T) {
	tests := []struct {
		name    string
		handler gin.HandlerFunc
		code    int
	}{
		{"param", func(c *gin.Context) { ParamError(c, "") }, CodeParamError},
		{"auth", func(c *gin.Context) { AuthError(c, "") }, CodeAuthFailed},
		{"permission", func(c *gin.Context) { PermissionError(c, "") }, CodePermissionDenied},
		{"not found", func(c *gin.Context) { NotFoundError(c, "") }, CodeResourceNotFound},
		{"quota", func(c *gin.Context) { QuotaError(c, "", nil) }, CodeQuotaExceeded},
		{"duplicate", func(c *gin.Context) { DuplicateError(c, "") }, CodeDuplicateAction},
		{"no subscription", func(c *gin.Context) { NoSubscriptionError(c, "") }, CodeNoSubscription},
		{"conflict", func(c *gin.Context) { ConflictError(c, "", nil) }, CodeSchedulingConflict},
		{"state", func(c *gin.Context) { StateError(c, "") }, CodeInvalidState},
		{"server", func(c *gin.Context) { ServerError(c, "") }, CodeServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := perform(t, tt.handler)
			assert.Equal(t, tt.code, resp.Code)
			assert.Equal(t, Message(tt.code), resp.Message)
			assert.NotEmpty(t, resp.Message)
			assert.Nil(t, resp.Data)
		})
	}
}

func TestErrorHelpers_CustomMessage(t *testing.T) {
	resp := perform(t, func(c *gin.Context) {
		NotFoundError(c, "直播不存在")
	})

	assert.Equal(t, CodeResourceNotFound, resp.Code)
	assert.Equal(t, "直播不存在", resp.Message)
}

func TestErrorWithData(t *testing.T) {
	resp := perform(t, func(c *gin.Context) {
		QuotaError(c, "", gin.H{
			"daily_limit_hours": 2,
			"remaining_hours":   0.5,
			"requested_hours":   1,
		})
	})

	assert.Equal(t, CodeQuotaExceeded, resp.Code)
	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(2), data["daily_limit_hours"])
	assert.Equal(t, 0.5, data["remaining_hours"])
	assert.Equal(t, float64(1), data["requested_hours"])
}

func TestError_UnknownCode(t *testing.T) {
	resp := perform(t, func(c *gin.Context) {
		Error(c, 9999, "")
	})

	assert.Equal(t, 9999, resp.Code)
	assert.Empty(t, resp.Message)
}
