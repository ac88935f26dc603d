package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/qs3c/boost_stream_server/internal/model"
	"github.com/qs3c/boost_stream_server/internal/pkg/response"
	"github.com/qs3c/boost_stream_server/internal/service"
)

type stubLookup map[int64]*model.Streamer

func (s stubLookup) GetByUserID(userID int64) (*model.Streamer, error) {
	if userID < 0 {
		return nil, errors.New("db down")
	}
	streamer, ok := s[userID]
	if !ok {
		return nil, service.ErrStreamerNotFound
	}
	return streamer, nil
}

func streamerRouter(userID *int64) *gin.Engine {
	lookup := stubLookup{10: {ID: 77, UserID: 10}}

	router := gin.New()
	router.Use(func(c *gin.Context) {
		if userID != nil {
			c.Set(UserIDKey, *userID)
		}
		c.Next()
	})
	router.Use(RequireStreamer(lookup))
	router.GET("/test", func(c *gin.Context) {
		id, _ := GetStreamerID(c)
		c.JSON(http.StatusOK, response.Response{Data: id})
	})
	return router
}

func TestRequireStreamer(t *testing.T) {
	tests := []struct {
		name     string
		userID   *int64
		wantCode int
	}{
		{"resolved", int64Ptr(10), response.CodeSuccess},
		{"no profile", int64Ptr(11), response.CodePermissionDenied},
		{"lookup failure", int64Ptr(-1), response.CodeServerError},
		{"unauthenticated", nil, response.CodeAuthFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			streamerRouter(tt.userID).ServeHTTP(w, httptest.NewRequest("GET", "/test", nil))

			resp := parseResponse(t, w)
			assert.Equal(t, tt.wantCode, resp.Code)
			if tt.wantCode == response.CodeSuccess {
				assert.Equal(t, float64(77), resp.Data)
			}
		})
	}
}

func int64Ptr(v int64) *int64 { return &v }
