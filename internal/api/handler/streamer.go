package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/qs3c/boost_stream_server/internal/api/middleware"
	"github.com/qs3c/boost_stream_server/internal/model/dto"
	"github.com/qs3c/boost_stream_server/internal/pkg/response"
	"github.com/qs3c/boost_stream_server/internal/service"
)

type StreamerHandler struct {
	streamerService *service.StreamerService
}

func NewStreamerHandler(streamerService *service.StreamerService) *StreamerHandler {
	return &StreamerHandler{
		streamerService: streamerService,
	}
}

// Register 创建主播档案
// POST /api/v1/streamer
func (h *StreamerHandler) Register(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.RegisterStreamerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	profile, err := h.streamerService.Register(userID, &req)
	if err != nil {
		renderError(c, err)
		return
	}

	response.Success(c, profile)
}

// Profile 获取主播档案
// GET /api/v1/streamer
func (h *StreamerHandler) Profile(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	profile, err := h.streamerService.Profile(userID)
	if err != nil {
		renderError(c, err)
		return
	}

	response.Success(c, profile)
}
