package handler

import "rt-roster/backend/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth      *AuthHandler
	Therapist *TherapistHandler
	Cycle     *CycleHandler
	Schedule  *ScheduleHandler
	Export    *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:      NewAuthHandler(svc.Auth),
		Therapist: NewTherapistHandler(svc.Therapist),
		Cycle:     NewCycleHandler(svc.Cycle),
		Schedule:  NewScheduleHandler(svc.Schedule),
		Export:    NewExportHandler(svc.Export),
	}
}
