package dto

// CreateTherapistRequest 创建治疗师请求
type CreateTherapistRequest struct {
	FullName           string `json:"full_name"              binding:"required,max=100"`
	ShiftPreference    string `json:"shift_preference"       binding:"omitempty,oneof=day night either"`
	EmploymentType     string `json:"employment_type"        binding:"required,oneof=full_time part_time prn"`
	LeadEligible       bool   `json:"lead_eligible"`
	MaxWorkDaysPerWeek int    `json:"max_work_days_per_week" binding:"omitempty,min=1,max=7"`
	PreferredWeekdays  []int  `json:"preferred_weekdays"     binding:"omitempty,dive,min=0,max=6"`
}

// UpdateTherapistRequest 更新治疗师请求（整体更新，携带版本号做乐观锁）
type UpdateTherapistRequest struct {
	FullName           string  `json:"full_name"              binding:"required,max=100"`
	ShiftPreference    string  `json:"shift_preference"       binding:"required,oneof=day night either"`
	EmploymentType     string  `json:"employment_type"        binding:"required,oneof=full_time part_time prn"`
	LeadEligible       bool    `json:"lead_eligible"`
	MaxWorkDaysPerWeek int     `json:"max_work_days_per_week" binding:"required,min=1,max=7"`
	PreferredWeekdays  []int   `json:"preferred_weekdays"     binding:"omitempty,dive,min=0,max=6"`
	OnFMLA             bool    `json:"on_fmla"`
	FMLAReturnDate     *string `json:"fmla_return_date"       binding:"omitempty,datetime=2006-01-02"`
	IsActive           bool    `json:"is_active"`
	Version            int     `json:"version"                binding:"required,min=1"`
}

// UpsertWorkPatternRequest 设置排班模式请求。
// 字段进入存储前会统一做规整（去重、排序、依赖字段归位）。
type UpsertWorkPatternRequest struct {
	WorksDow          []int   `json:"works_dow"           binding:"omitempty,dive,min=0,max=6"`
	OffsDow           []int   `json:"offs_dow"            binding:"omitempty,dive,min=0,max=6"`
	WeekendRotation   string  `json:"weekend_rotation"    binding:"omitempty,oneof=none every_other"`
	WeekendAnchorDate *string `json:"weekend_anchor_date" binding:"omitempty,datetime=2006-01-02"`
	Mode              string  `json:"mode"                binding:"omitempty,oneof=hard soft"`
	ShiftPreference   string  `json:"shift_preference"    binding:"omitempty,oneof=day night either"`
}
