package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/qs3c/boost_stream_server/internal/api/middleware"
	"github.com/qs3c/boost_stream_server/internal/model/dto"
	"github.com/qs3c/boost_stream_server/internal/pkg/response"
	"github.com/qs3c/boost_stream_server/internal/service"
)

type StreamHandler struct {
	streamService *service.StreamService
}

func NewStreamHandler(streamService *service.StreamService) *StreamHandler {
	return &StreamHandler{
		streamService: streamService,
	}
}

// List 获取计划直播列表
// GET /api/v1/streams
func (h *StreamHandler) List(c *gin.Context) {
	streamerID, ok := middleware.GetStreamerID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	resp, err := h.streamService.List(streamerID)
	if err != nil {
		renderError(c, err)
		return
	}

	response.Success(c, resp)
}

// Get 获取单个直播
// GET /api/v1/streams/:id
func (h *StreamHandler) Get(c *gin.Context) {
	h.withStream(c, func(streamerID, streamID int64) (interface{}, error) {
		return h.streamService.Get(streamerID, streamID)
	})
}

// Create 创建计划直播
// POST /api/v1/streams
func (h *StreamHandler) Create(c *gin.Context) {
	streamerID, ok := middleware.GetStreamerID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.CreateStreamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	resp, err := h.streamService.Add(streamerID, &req)
	if err != nil {
		renderError(c, err)
		return
	}

	response.SuccessWithMessage(c, "直播已安排", resp)
}

// Update 更新计划直播
// PUT /api/v1/streams/:id
func (h *StreamHandler) Update(c *gin.Context) {
	streamerID, ok := middleware.GetStreamerID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	streamID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateStreamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	resp, err := h.streamService.Update(streamerID, streamID, &req)
	if err != nil {
		renderError(c, err)
		return
	}

	response.SuccessWithMessage(c, "直播已更新", resp)
}

// Start 开始直播
// POST /api/v1/streams/:id/start
func (h *StreamHandler) Start(c *gin.Context) {
	h.withStream(c, func(streamerID, streamID int64) (interface{}, error) {
		return h.streamService.Start(streamerID, streamID)
	})
}

// End 结束直播
// POST /api/v1/streams/:id/end
func (h *StreamHandler) End(c *gin.Context) {
	h.withStream(c, func(streamerID, streamID int64) (interface{}, error) {
		return h.streamService.End(streamerID, streamID)
	})
}

// Cancel 取消直播
// POST /api/v1/streams/:id/cancel
func (h *StreamHandler) Cancel(c *gin.Context) {
	h.withStream(c, func(streamerID, streamID int64) (interface{}, error) {
		return h.streamService.Cancel(streamerID, streamID)
	})
}

// Delete 删除直播
// DELETE /api/v1/streams/:id
func (h *StreamHandler) Delete(c *gin.Context) {
	h.withStream(c, func(streamerID, streamID int64) (interface{}, error) {
		return nil, h.streamService.Delete(streamerID, streamID)
	})
}

func (h *StreamHandler) withStream(c *gin.Context, fn func(streamerID, streamID int64) (interface{}, error)) {
	streamerID, ok := middleware.GetStreamerID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	streamID, ok := paramID(c, "id")
	if !ok {
		return
	}

	data, err := fn(streamerID, streamID)
	if err != nil {
		renderError(c, err)
		return
	}

	response.Success(c, data)
}
