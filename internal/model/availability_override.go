package model

import "time"

// 覆盖类型
const (
	OverrideForceOff = "force_off"
	OverrideForceOn  = "force_on"
)

// AvailabilityOverride 可用性覆盖表 — 对应 availability_overrides
// 作用域精确到（周期, 治疗师, 日期, 班次类型）；周期 A 的覆盖绝不影响周期 B
type AvailabilityOverride struct {
	OverrideID   string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"override_id"`
	CycleID      string    `gorm:"type:uuid;not null;index"                       json:"cycle_id"`
	TherapistID  string    `gorm:"type:uuid;not null"                             json:"therapist_id"`
	Date         time.Time `gorm:"type:date;not null"                             json:"date"`
	ShiftType    string    `gorm:"type:varchar(10);not null;default:'both'"       json:"shift_type"`    // day | night | both
	OverrideType string    `gorm:"type:varchar(10);not null"                      json:"override_type"` // force_off | force_on
	Note         string    `gorm:"type:varchar(500)"                              json:"note,omitempty"`
	VersionedModel

	// 关联
	Therapist *Therapist `gorm:"foreignKey:TherapistID;references:TherapistID" json:"therapist,omitempty"`
}

// TableName 指定表名
func (AvailabilityOverride) TableName() string { return "availability_overrides" }
