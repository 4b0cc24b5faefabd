package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"rt-roster/backend/internal/dto"
	"rt-roster/backend/internal/service"
	pkgerrors "rt-roster/backend/pkg/errors"
	"rt-roster/backend/pkg/response"
)

// TherapistHandler 治疗师模块 HTTP 处理器
type TherapistHandler struct {
	therapistSvc *service.TherapistService
}

// NewTherapistHandler 创建 TherapistHandler
func NewTherapistHandler(therapistSvc *service.TherapistService) *TherapistHandler {
	return &TherapistHandler{therapistSvc: therapistSvc}
}

// Create 创建治疗师
// POST /api/v1/therapists
func (h *TherapistHandler) Create(c *gin.Context) {
	var req dto.CreateTherapistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	accountID, ok := MustGetAccountID(c)
	if !ok {
		return
	}

	therapist, err := h.therapistSvc.Create(c.Request.Context(), &req, accountID)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.Created(c, therapist)
}

// Get 治疗师详情（含排班模式）
// GET /api/v1/therapists/:id
func (h *TherapistHandler) Get(c *gin.Context) {
	therapist, err := h.therapistSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrTherapistNotFound) {
			response.NotFound(c, 12001, "治疗师不存在")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, therapist)
}

// List 治疗师列表
// GET /api/v1/therapists?active_only=true
func (h *TherapistHandler) List(c *gin.Context) {
	activeOnly := c.Query("active_only") == "true"
	therapists, err := h.therapistSvc.List(c.Request.Context(), activeOnly)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, therapists)
}

// Update 更新治疗师
// PUT /api/v1/therapists/:id
func (h *TherapistHandler) Update(c *gin.Context) {
	var req dto.UpdateTherapistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	accountID, ok := MustGetAccountID(c)
	if !ok {
		return
	}

	therapist, err := h.therapistSvc.Update(c.Request.Context(), c.Param("id"), &req, accountID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTherapistNotFound):
			response.NotFound(c, 12001, "治疗师不存在")
		case errors.Is(err, pkgerrors.ErrOptimisticLock):
			response.Conflict(c, 10006, "数据已被其他操作修改，请刷新后重试")
		default:
			response.InternalError(c)
		}
		return
	}
	response.OK(c, therapist)
}

// Deactivate 停用治疗师
// DELETE /api/v1/therapists/:id
func (h *TherapistHandler) Deactivate(c *gin.Context) {
	accountID, ok := MustGetAccountID(c)
	if !ok {
		return
	}

	if err := h.therapistSvc.Deactivate(c.Request.Context(), c.Param("id"), accountID); err != nil {
		if errors.Is(err, service.ErrTherapistNotFound) {
			response.NotFound(c, 12001, "治疗师不存在")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, nil)
}

// UpsertPattern 设置排班模式
// PUT /api/v1/therapists/:id/pattern
func (h *TherapistHandler) UpsertPattern(c *gin.Context) {
	var req dto.UpsertWorkPatternRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	accountID, ok := MustGetAccountID(c)
	if !ok {
		return
	}

	pattern, err := h.therapistSvc.UpsertPattern(c.Request.Context(), c.Param("id"), &req, accountID)
	if err != nil {
		if errors.Is(err, service.ErrTherapistNotFound) {
			response.NotFound(c, 12001, "治疗师不存在")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, pattern)
}

// GetPattern 查询排班模式
// GET /api/v1/therapists/:id/pattern
func (h *TherapistHandler) GetPattern(c *gin.Context) {
	pattern, err := h.therapistSvc.GetPattern(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.InternalError(c)
		return
	}
	if pattern == nil {
		response.NotFound(c, 12002, "排班模式不存在")
		return
	}
	response.OK(c, pattern)
}

// DeletePattern 删除排班模式
// DELETE /api/v1/therapists/:id/pattern
func (h *TherapistHandler) DeletePattern(c *gin.Context) {
	if err := h.therapistSvc.DeletePattern(c.Request.Context(), c.Param("id")); err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, nil)
}
