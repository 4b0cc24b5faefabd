package dto

// AutoGenerateRequest 自动生成排班请求
type AutoGenerateRequest struct {
	// Strategy 候选筛选策略：pattern（默认）| preferred_days
	Strategy string `json:"strategy" binding:"omitempty,oneof=pattern preferred_days"`
	// Replace 为 true 时先清空周期内已有班次再生成
	Replace bool `json:"replace"`
}

// SetLeadRequest 指定 lead 请求
type SetLeadRequest struct {
	TherapistID string `json:"therapist_id" binding:"required,uuid"`
	Date        string `json:"date"         binding:"required,datetime=2006-01-02"`
	ShiftType   string `json:"shift_type"   binding:"required,oneof=day night"`
}

// EligibilityProbeRequest 资格探查请求（排障用，只读）
type EligibilityProbeRequest struct {
	TherapistID string `json:"therapist_id" binding:"required,uuid"`
	Date        string `json:"date"         binding:"required,datetime=2006-01-02"`
	ShiftType   string `json:"shift_type"   binding:"required,oneof=day night"`
	Strategy    string `json:"strategy"     binding:"omitempty,oneof=pattern preferred_days"`
}

// UpdateShiftStatusRequest 更新班次状态请求
type UpdateShiftStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=scheduled on_call cancelled sick called_off"`
}
