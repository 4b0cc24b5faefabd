package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"rt-roster/backend/internal/dto"
	"rt-roster/backend/internal/service"
	pkgerrors "rt-roster/backend/pkg/errors"
	"rt-roster/backend/pkg/response"
)

// ScheduleHandler 排班模块 HTTP 处理器
type ScheduleHandler struct {
	scheduleSvc *service.ScheduleService
}

// NewScheduleHandler 创建 ScheduleHandler
func NewScheduleHandler(scheduleSvc *service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{scheduleSvc: scheduleSvc}
}

// AutoGenerate 自动生成排班
// POST /api/v1/cycles/:id/generate
func (h *ScheduleHandler) AutoGenerate(c *gin.Context) {
	var req dto.AutoGenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	accountID, ok := MustGetAccountID(c)
	if !ok {
		return
	}

	result, err := h.scheduleSvc.AutoGenerate(c.Request.Context(), c.Param("id"), &req, accountID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCycleNotFound):
			response.NotFound(c, 13002, "排班周期不存在")
		case errors.Is(err, service.ErrCycleNotDraft):
			response.Conflict(c, 14001, "仅 draft 状态的周期可自动排班")
		default:
			response.InternalError(c)
		}
		return
	}
	response.OK(c, result)
}

// Validate 发布前校验
// GET /api/v1/cycles/:id/validation
func (h *ScheduleHandler) Validate(c *gin.Context) {
	report, err := h.scheduleSvc.Validate(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrCycleNotFound) {
			response.NotFound(c, 13002, "排班周期不存在")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, report)
}

// Publish 发布周期
// POST /api/v1/cycles/:id/publish
func (h *ScheduleHandler) Publish(c *gin.Context) {
	accountID, ok := MustGetAccountID(c)
	if !ok {
		return
	}

	report, err := h.scheduleSvc.Publish(c.Request.Context(), c.Param("id"), accountID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCycleNotFound):
			response.NotFound(c, 13002, "排班周期不存在")
		case errors.Is(err, service.ErrCycleNotDraft):
			response.Conflict(c, 14001, "仅 draft 状态的周期可发布")
		case errors.Is(err, service.ErrCycleHasViolations):
			// 校验报告随错误一并返回，前端据此展示违规明细
			response.ErrorWithData(c, http.StatusConflict, 14002, "校验未通过，周期不可发布", report)
		case errors.Is(err, pkgerrors.ErrOptimisticLock):
			response.Conflict(c, 10006, "数据已被其他操作修改，请刷新后重试")
		default:
			response.InternalError(c)
		}
		return
	}
	response.OK(c, report)
}

// SetLead 指定槽位 lead
// POST /api/v1/cycles/:id/lead
func (h *ScheduleHandler) SetLead(c *gin.Context) {
	var req dto.SetLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.scheduleSvc.SetDesignatedLead(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		if errors.Is(err, service.ErrCycleNotFound) {
			response.NotFound(c, 13002, "排班周期不存在")
			return
		}
		response.InternalError(c)
		return
	}

	// 失败原因码属于正常业务结果，以 409 返回
	if result.Status != "ok" {
		response.ErrorWithData(c, http.StatusConflict, 14003, "lead 指定未成功", result)
		return
	}
	response.OK(c, result)
}

// ClearLead 撤销槽位 lead
// DELETE /api/v1/cycles/:id/lead
func (h *ScheduleHandler) ClearLead(c *gin.Context) {
	date := c.Query("date")
	shiftType := c.Query("shift_type")
	if date == "" || shiftType == "" {
		response.BadRequest(c, 10001, "缺少 date 或 shift_type 参数")
		return
	}

	if err := h.scheduleSvc.ClearDesignatedLead(c.Request.Context(), c.Param("id"), date, shiftType); err != nil {
		if errors.Is(err, service.ErrCycleNotFound) {
			response.NotFound(c, 13002, "排班周期不存在")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, nil)
}

// CheckEligibility 只读资格探查
// POST /api/v1/cycles/:id/eligibility
func (h *ScheduleHandler) CheckEligibility(c *gin.Context) {
	var req dto.EligibilityProbeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.scheduleSvc.CheckEligibility(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCycleNotFound):
			response.NotFound(c, 13002, "排班周期不存在")
		case errors.Is(err, service.ErrTherapistNotFound):
			response.NotFound(c, 12001, "治疗师不存在")
		default:
			response.InternalError(c)
		}
		return
	}
	response.OK(c, result)
}

// ListShifts 周期内全部班次
// GET /api/v1/cycles/:id/shifts
func (h *ScheduleHandler) ListShifts(c *gin.Context) {
	shifts, err := h.scheduleSvc.GetCycleShifts(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrCycleNotFound) {
			response.NotFound(c, 13002, "排班周期不存在")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, shifts)
}

// UpdateShiftStatus 更新班次状态
// PUT /api/v1/shifts/:id/status
func (h *ScheduleHandler) UpdateShiftStatus(c *gin.Context) {
	var req dto.UpdateShiftStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	accountID, ok := MustGetAccountID(c)
	if !ok {
		return
	}

	if err := h.scheduleSvc.UpdateShiftStatus(c.Request.Context(), c.Param("id"), req.Status, accountID); err != nil {
		if errors.Is(err, service.ErrShiftNotFound) {
			response.NotFound(c, 14004, "班次不存在")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, nil)
}

// DeleteShift 删除班次
// DELETE /api/v1/shifts/:id
func (h *ScheduleHandler) DeleteShift(c *gin.Context) {
	if err := h.scheduleSvc.RemoveShift(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, service.ErrShiftNotFound) {
			response.NotFound(c, 14004, "班次不存在")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, nil)
}
