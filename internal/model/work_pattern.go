package model

import "time"

// 周末轮换模式
const (
	WeekendRotationNone       = "none"
	WeekendRotationEveryOther = "every_other"
)

// 模式强度
const (
	PatternModeHard = "hard"
	PatternModeSoft = "soft"
)

// WorkPattern 周期性排班模式表 — 对应 work_patterns
// works_dow 为空集表示"任意工作日均可"；offs_dow 为硬性不可排
type WorkPattern struct {
	WorkPatternID     string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"work_pattern_id"`
	TherapistID       string     `gorm:"type:uuid;not null;uniqueIndex"                 json:"therapist_id"`
	WorksDow          IntArray   `gorm:"type:int[];not null;default:'{}'"               json:"works_dow"`
	OffsDow           IntArray   `gorm:"type:int[];not null;default:'{}'"               json:"offs_dow"`
	WeekendRotation   string     `gorm:"type:varchar(20);not null;default:'none'"       json:"weekend_rotation"` // none | every_other
	WeekendAnchorDate *time.Time `gorm:"type:date"                                      json:"weekend_anchor_date,omitempty"`
	Mode              string     `gorm:"type:varchar(10);not null;default:'hard'"       json:"mode"` // hard | soft
	ShiftPreference   string     `gorm:"type:varchar(10);not null;default:'either'"     json:"shift_preference"`
	VersionedModel
}

// TableName 指定表名
func (WorkPattern) TableName() string { return "work_patterns" }
