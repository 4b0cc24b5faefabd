package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"rt-roster/backend/internal/dto"
	"rt-roster/backend/internal/service"
	pkgerrors "rt-roster/backend/pkg/errors"
	"rt-roster/backend/pkg/response"
)

// CycleHandler 排班周期模块 HTTP 处理器
type CycleHandler struct {
	cycleSvc *service.CycleService
}

// NewCycleHandler 创建 CycleHandler
func NewCycleHandler(cycleSvc *service.CycleService) *CycleHandler {
	return &CycleHandler{cycleSvc: cycleSvc}
}

// Create 创建周期
// POST /api/v1/cycles
func (h *CycleHandler) Create(c *gin.Context) {
	var req dto.CreateCycleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	accountID, ok := MustGetAccountID(c)
	if !ok {
		return
	}

	cycle, err := h.cycleSvc.Create(c.Request.Context(), &req, accountID)
	if err != nil {
		if errors.Is(err, service.ErrInvalidDateRange) {
			response.BadRequest(c, 13001, "结束日期不能早于开始日期")
			return
		}
		response.InternalError(c)
		return
	}
	response.Created(c, cycle)
}

// Get 周期详情
// GET /api/v1/cycles/:id
func (h *CycleHandler) Get(c *gin.Context) {
	cycle, err := h.cycleSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrCycleNotFound) {
			response.NotFound(c, 13002, "排班周期不存在")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, cycle)
}

// List 周期列表
// GET /api/v1/cycles
func (h *CycleHandler) List(c *gin.Context) {
	cycles, err := h.cycleSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, cycles)
}

// Update 更新周期
// PUT /api/v1/cycles/:id
func (h *CycleHandler) Update(c *gin.Context) {
	var req dto.UpdateCycleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	accountID, ok := MustGetAccountID(c)
	if !ok {
		return
	}

	cycle, err := h.cycleSvc.Update(c.Request.Context(), c.Param("id"), &req, accountID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCycleNotFound):
			response.NotFound(c, 13002, "排班周期不存在")
		case errors.Is(err, service.ErrCycleNotModifiable):
			response.Conflict(c, 13003, "已发布或已归档的周期不可修改")
		case errors.Is(err, service.ErrInvalidDateRange):
			response.BadRequest(c, 13001, "结束日期不能早于开始日期")
		case errors.Is(err, pkgerrors.ErrOptimisticLock):
			response.Conflict(c, 10006, "数据已被其他操作修改，请刷新后重试")
		default:
			response.InternalError(c)
		}
		return
	}
	response.OK(c, cycle)
}

// Archive 归档周期
// POST /api/v1/cycles/:id/archive
func (h *CycleHandler) Archive(c *gin.Context) {
	accountID, ok := MustGetAccountID(c)
	if !ok {
		return
	}

	if err := h.cycleSvc.Archive(c.Request.Context(), c.Param("id"), accountID); err != nil {
		if errors.Is(err, service.ErrCycleNotFound) {
			response.NotFound(c, 13002, "排班周期不存在")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, nil)
}

// Delete 删除周期
// DELETE /api/v1/cycles/:id
func (h *CycleHandler) Delete(c *gin.Context) {
	if err := h.cycleSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, service.ErrCycleNotFound) {
			response.NotFound(c, 13002, "排班周期不存在")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, nil)
}

// ── 可用性覆盖 ──

// CreateOverride 登记可用性覆盖
// POST /api/v1/cycles/:id/overrides
func (h *CycleHandler) CreateOverride(c *gin.Context) {
	var req dto.CreateOverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	accountID, ok := MustGetAccountID(c)
	if !ok {
		return
	}

	override, err := h.cycleSvc.CreateOverride(c.Request.Context(), c.Param("id"), &req, accountID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCycleNotFound):
			response.NotFound(c, 13002, "排班周期不存在")
		case errors.Is(err, service.ErrCycleNotModifiable):
			response.Conflict(c, 13003, "已发布或已归档的周期不可修改")
		default:
			response.InternalError(c)
		}
		return
	}
	response.Created(c, override)
}

// ListOverrides 周期内覆盖记录列表
// GET /api/v1/cycles/:id/overrides
func (h *CycleHandler) ListOverrides(c *gin.Context) {
	overrides, err := h.cycleSvc.ListOverrides(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrCycleNotFound) {
			response.NotFound(c, 13002, "排班周期不存在")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, overrides)
}

// DeleteOverride 删除覆盖记录
// DELETE /api/v1/cycles/:id/overrides/:override_id
func (h *CycleHandler) DeleteOverride(c *gin.Context) {
	if err := h.cycleSvc.DeleteOverride(c.Request.Context(), c.Param("override_id")); err != nil {
		if errors.Is(err, service.ErrOverrideNotFound) {
			response.NotFound(c, 13004, "可用性覆盖不存在")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, nil)
}
