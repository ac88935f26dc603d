package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/qs3c/boost_stream_server/internal/model"
	"github.com/qs3c/boost_stream_server/internal/pkg/response"
	"github.com/qs3c/boost_stream_server/internal/service"
)

const StreamerIDKey = "streamerID"

// StreamerLookup 按登录用户查找主播档案
type StreamerLookup interface {
	GetByUserID(userID int64) (*model.Streamer, error)
}

// RequireStreamer 解析当前用户对应的主播，未注册主播档案时拒绝
func RequireStreamer(streamers StreamerLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := GetUserID(c)
		if !ok {
			response.AuthError(c, "")
			c.Abort()
			return
		}

		streamer, err := streamers.GetByUserID(userID)
		if err != nil {
			if errors.Is(err, service.ErrStreamerNotFound) {
				response.PermissionError(c, "请先注册主播档案")
			} else {
				log.WithError(err).WithField("user_id", userID).Error("resolve streamer failed")
				response.ServerError(c, "")
			}
			c.Abort()
			return
		}

		c.Set(StreamerIDKey, streamer.ID)
		c.Next()
	}
}

// GetStreamerID 从上下文获取主播 ID
func GetStreamerID(c *gin.Context) (int64, bool) {
	v, exists := c.Get(StreamerIDKey)
	if !exists {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}
