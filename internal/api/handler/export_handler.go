package handler

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/gin-gonic/gin"

	"rt-roster/backend/internal/service"
	"rt-roster/backend/pkg/response"
)

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc *service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc *service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportRoster 导出周期值班表（Excel）
// GET /api/v1/cycles/:id/export/roster
func (h *ExportHandler) ExportRoster(c *gin.Context) {
	buf, filename, err := h.exportSvc.ExportRoster(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCycleNotFound):
			response.NotFound(c, 13002, "排班周期不存在")
		case errors.Is(err, service.ErrExportNoShifts):
			response.NotFound(c, 15001, "该周期暂无班次")
		default:
			response.InternalError(c)
		}
		return
	}

	setAttachmentHeader(c, filename)
	c.Data(200, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// ExportCalendar 导出治疗师个人日历（ICS）
// GET /api/v1/cycles/:id/export/calendar/:therapist_id
func (h *ExportHandler) ExportCalendar(c *gin.Context) {
	buf, filename, err := h.exportSvc.ExportTherapistCalendar(c.Request.Context(), c.Param("id"), c.Param("therapist_id"))
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

	setAttachmentHeader(c, filename)
	c.Data(200, "text/calendar; charset=utf-8", buf.Bytes())
}

// setAttachmentHeader 设置下载响应头，文件名按 RFC 5987 编码
func setAttachmentHeader(c *gin.Context, filename string) {
	encoded := url.PathEscape(filename)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename*=UTF-8''%s", encoded))
}
