package model

import "time"

// 周期状态
const (
	CycleStatusDraft     = "draft"
	CycleStatusPublished = "published"
	CycleStatusArchived  = "archived"
)

// ScheduleCycle 排班周期表 — 对应 schedule_cycles
type ScheduleCycle struct {
	CycleID     string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"cycle_id"`
	Label       string     `gorm:"type:varchar(100);not null"                     json:"label"`
	StartDate   time.Time  `gorm:"type:date;not null"                             json:"start_date"`
	EndDate     time.Time  `gorm:"type:date;not null"                             json:"end_date"`
	Status      string     `gorm:"type:varchar(20);not null;default:'draft'"      json:"status"` // draft | published | archived
	PublishedAt *time.Time `json:"published_at,omitempty"`
	VersionedModel
}

// TableName 指定表名
func (ScheduleCycle) TableName() string { return "schedule_cycles" }
