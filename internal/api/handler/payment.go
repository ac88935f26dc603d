package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/qs3c/boost_stream_server/internal/api/middleware"
	"github.com/qs3c/boost_stream_server/internal/model/dto"
	"github.com/qs3c/boost_stream_server/internal/pkg/response"
	"github.com/qs3c/boost_stream_server/internal/service"
)

type PaymentHandler struct {
	paymentService *service.PaymentService
}

func NewPaymentHandler(paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
	}
}

// List 当前主播的支付记录
// GET /api/v1/payments
func (h *PaymentHandler) List(c *gin.Context) {
	streamerID, ok := middleware.GetStreamerID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	payments, err := h.paymentService.ListByPayee(streamerID)
	if err != nil {
		renderError(c, err)
		return
	}

	response.Success(c, payments)
}

// Record 记录支付结果，完成的支付会激活对应订阅
// POST /api/v1/admin/payments
func (h *PaymentHandler) Record(c *gin.Context) {
	var req dto.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	resp, err := h.paymentService.Record(&req)
	if err != nil {
		renderError(c, err)
		return
	}

	response.Success(c, resp)
}

// Complete 确认待处理支付
// POST /api/v1/admin/payments/:id/complete
func (h *PaymentHandler) Complete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	resp, err := h.paymentService.Complete(id)
	if err != nil {
		renderError(c, err)
		return
	}

	response.Success(c, resp)
}

// Refund 退款
// POST /api/v1/admin/payments/:id/refund
func (h *PaymentHandler) Refund(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	payment, err := h.paymentService.Refund(id)
	if err != nil {
		renderError(c, err)
		return
	}

	response.Success(c, payment)
}

// Retry 失败支付重新置为待处理
// POST /api/v1/admin/payments/:id/retry
func (h *PaymentHandler) Retry(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	payment, err := h.paymentService.Retry(id)
	if err != nil {
		renderError(c, err)
		return
	}

	response.Success(c, payment)
}
