package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/qs3c/boost_stream_server/internal/model/dto"
	"github.com/qs3c/boost_stream_server/internal/pkg/response"
	"github.com/qs3c/boost_stream_server/internal/service"
)

type PlanHandler struct {
	planService *service.PlanService
}

func NewPlanHandler(planService *service.PlanService) *PlanHandler {
	return &PlanHandler{
		planService: planService,
	}
}

// List 获取上架套餐，按价格升序
// GET /api/v1/plans
func (h *PlanHandler) List(c *gin.Context) {
	plans, err := h.planService.ListActive()
	if err != nil {
		renderError(c, err)
		return
	}

	response.Success(c, plans)
}

// Get 获取套餐详情
// GET /api/v1/plans/:id
func (h *PlanHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	plan, err := h.planService.Get(id)
	if err != nil {
		renderError(c, err)
		return
	}

	response.Success(c, plan)
}

// ListAll 管理员获取全部套餐
// GET /api/v1/admin/plans
func (h *PlanHandler) ListAll(c *gin.Context) {
	plans, err := h.planService.ListAll()
	if err != nil {
		renderError(c, err)
		return
	}

	response.Success(c, plans)
}

// Create 创建套餐
// POST /api/v1/admin/plans
func (h *PlanHandler) Create(c *gin.Context) {
	var req dto.CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	plan, err := h.planService.Create(&req)
	if err != nil {
		renderError(c, err)
		return
	}

	response.Success(c, plan)
}

// Update 修改套餐
// PUT /api/v1/admin/plans/:id
func (h *PlanHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	plan, err := h.planService.Update(id, &req)
	if err != nil {
		renderError(c, err)
		return
	}

	response.Success(c, plan)
}

// Toggle 上下架套餐
// POST /api/v1/admin/plans/:id/toggle
func (h *PlanHandler) Toggle(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	plan, err := h.planService.Toggle(id)
	if err != nil {
		renderError(c, err)
		return
	}

	response.Success(c, plan)
}

// Delete 删除套餐
// DELETE /api/v1/admin/plans/:id
func (h *PlanHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.planService.Delete(id); err != nil {
		renderError(c, err)
		return
	}

	response.SuccessWithMessage(c, "套餐已删除", nil)
}
