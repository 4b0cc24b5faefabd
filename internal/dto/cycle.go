package dto

// CreateCycleRequest 创建排班周期请求
type CreateCycleRequest struct {
	Label     string `json:"label"      binding:"required,max=100"`
	StartDate string `json:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date"   binding:"required,datetime=2006-01-02"`
}

// UpdateCycleRequest 更新排班周期请求
type UpdateCycleRequest struct {
	Label     string `json:"label"      binding:"required,max=100"`
	StartDate string `json:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date"   binding:"required,datetime=2006-01-02"`
	Version   int    `json:"version"    binding:"required,min=1"`
}

// CreateOverrideRequest 创建可用性覆盖请求
type CreateOverrideRequest struct {
	TherapistID  string `json:"therapist_id"  binding:"required,uuid"`
	Date         string `json:"date"          binding:"required,datetime=2006-01-02"`
	ShiftType    string `json:"shift_type"    binding:"omitempty,oneof=day night both"`
	OverrideType string `json:"override_type" binding:"required,oneof=force_off force_on"`
	Note         string `json:"note"          binding:"max=500"`
}
