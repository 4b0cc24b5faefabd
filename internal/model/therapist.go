package model

import "time"

// 班次类型
const (
	ShiftTypeDay   = "day"
	ShiftTypeNight = "night"
	ShiftTypeBoth  = "both" // 仅用于覆盖记录的作用域
)

// 班次偏好
const (
	ShiftPrefDay    = "day"
	ShiftPrefNight  = "night"
	ShiftPrefEither = "either"
)

// 雇佣类型
const (
	EmploymentFullTime = "full_time"
	EmploymentPartTime = "part_time"
	EmploymentPRN      = "prn" // 按需雇佣，仅在明确提供的日期可排
)

// Therapist 治疗师表 — 对应 therapists
type Therapist struct {
	TherapistID        string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"therapist_id"`
	FullName           string     `gorm:"type:varchar(100);not null"                     json:"full_name"`
	ShiftPreference    string     `gorm:"type:varchar(10);not null;default:'either'"     json:"shift_preference"` // day | night | either
	EmploymentType     string     `gorm:"type:varchar(20);not null;default:'full_time'"  json:"employment_type"`  // full_time | part_time | prn
	LeadEligible       bool       `gorm:"not null;default:false"                         json:"lead_eligible"`
	MaxWorkDaysPerWeek int        `gorm:"type:smallint;not null;default:5"               json:"max_work_days_per_week"`
	PreferredWeekdays  IntArray   `gorm:"type:int[];not null;default:'{}'"               json:"preferred_weekdays"` // 0=周日 … 6=周六
	OnFMLA             bool       `gorm:"column:on_fmla;not null;default:false"          json:"on_fmla"`
	FMLAReturnDate     *time.Time `gorm:"column:fmla_return_date;type:date"              json:"fmla_return_date,omitempty"`
	IsActive           bool       `gorm:"not null;default:true"                          json:"is_active"`
	VersionedModel

	// 关联
	Pattern *WorkPattern `gorm:"foreignKey:TherapistID;references:TherapistID" json:"pattern,omitempty"`
}

// TableName 指定表名
func (Therapist) TableName() string { return "therapists" }
