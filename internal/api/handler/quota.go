package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/qs3c/boost_stream_server/internal/api/middleware"
	"github.com/qs3c/boost_stream_server/internal/model/dto"
	"github.com/qs3c/boost_stream_server/internal/pkg/response"
	"github.com/qs3c/boost_stream_server/internal/service"
)

type QuotaHandler struct {
	quotaService *service.QuotaService
}

func NewQuotaHandler(quotaService *service.QuotaService) *QuotaHandler {
	return &QuotaHandler{
		quotaService: quotaService,
	}
}

// Overview 获取当前主播配额概览
// GET /api/v1/quota
func (h *QuotaHandler) Overview(c *gin.Context) {
	streamerID, ok := middleware.GetStreamerID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	resp, err := h.quotaService.Overview(streamerID)
	if err != nil {
		renderError(c, err)
		return
	}

	response.Success(c, resp)
}

// Check 预检能否安排指定时长的直播
// GET /api/v1/quota/check?start=...&duration=...
func (h *QuotaHandler) Check(c *gin.Context) {
	streamerID, ok := middleware.GetStreamerID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var query dto.QuotaCheckQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	usage, err := h.quotaService.Check(streamerID, query.Start, query.Duration)
	if err != nil {
		renderError(c, err)
		return
	}

	response.Success(c, usage)
}

// Daily 单日直播统计
// GET /api/v1/quota/daily?date=2006-01-02
func (h *QuotaHandler) Daily(c *gin.Context) {
	streamerID, ok := middleware.GetStreamerID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var query dto.StatsQuery
	_ = c.ShouldBindQuery(&query)

	resp, err := h.quotaService.DailyStats(streamerID, query.Date)
	if err != nil {
		renderError(c, err)
		return
	}

	response.Success(c, resp)
}

// Range 区间直播统计，默认当月
// GET /api/v1/quota/range?from=...&to=...
func (h *QuotaHandler) Range(c *gin.Context) {
	streamerID, ok := middleware.GetStreamerID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var query dto.StatsQuery
	_ = c.ShouldBindQuery(&query)

	resp, err := h.quotaService.RangeStats(streamerID, query.From, query.To)
	if err != nil {
		renderError(c, err)
		return
	}

	response.Success(c, resp)
}

// Unused 订阅到期后未使用的时长
// GET /api/v1/quota/unused
func (h *QuotaHandler) Unused(c *gin.Context) {
	streamerID, ok := middleware.GetStreamerID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	resp, err := h.quotaService.UnusedHoursOnExpiration(streamerID)
	if err != nil {
		renderError(c, err)
		return
	}

	response.Success(c, resp)
}
