package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/qs3c/boost_stream_server/internal/api/middleware"
	"github.com/qs3c/boost_stream_server/internal/model/dto"
	"github.com/qs3c/boost_stream_server/internal/pkg/response"
	"github.com/qs3c/boost_stream_server/internal/service"
)

type SubscriptionHandler struct {
	subscriptionService *service.SubscriptionService
}

func NewSubscriptionHandler(subscriptionService *service.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{
		subscriptionService: subscriptionService,
	}
}

// Select 选择套餐，生成待支付订阅
// POST /api/v1/subscriptions
func (h *SubscriptionHandler) Select(c *gin.Context) {
	streamerID, ok := middleware.GetStreamerID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.SelectPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	sub, err := h.subscriptionService.SelectPlan(streamerID, &req)
	if err != nil {
		renderError(c, err)
		return
	}

	response.SuccessWithMessage(c, "订阅已创建，等待支付", sub)
}

// List 订阅历史
// GET /api/v1/subscriptions
func (h *SubscriptionHandler) List(c *gin.Context) {
	streamerID, ok := middleware.GetStreamerID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	subs, err := h.subscriptionService.List(streamerID)
	if err != nil {
		renderError(c, err)
		return
	}

	response.Success(c, subs)
}

// Active 当前有效订阅，没有时 data 为 null
// GET /api/v1/subscriptions/active
func (h *SubscriptionHandler) Active(c *gin.Context) {
	streamerID, ok := middleware.GetStreamerID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	sub, err := h.subscriptionService.Active(streamerID)
	if err != nil {
		renderError(c, err)
		return
	}

	response.Success(c, sub)
}

// Get 管理员查看订阅
// GET /api/v1/admin/subscriptions/:id
func (h *SubscriptionHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	sub, err := h.subscriptionService.Get(id)
	if err != nil {
		renderError(c, err)
		return
	}

	response.Success(c, sub)
}

// AdminUpdate 管理员修改订阅状态或时间窗口
// PUT /api/v1/admin/subscriptions/:id
func (h *SubscriptionHandler) AdminUpdate(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req dto.AdminUpdateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	sub, err := h.subscriptionService.AdminUpdate(id, &req)
	if err != nil {
		renderError(c, err)
		return
	}

	response.Success(c, sub)
}
