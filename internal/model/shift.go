package model

import "time"

// 班次角色
const (
	RoleLead  = "lead"
	RoleStaff = "staff"
)

// 班次状态
const (
	ShiftStatusScheduled = "scheduled"
	ShiftStatusOnCall    = "on_call"
	ShiftStatusCancelled = "cancelled"
	ShiftStatusSick      = "sick"
	ShiftStatusCalledOff = "called_off"
)

// CountsTowardCoverage 判断状态是否计入覆盖人数与工作量
// sick / called_off / cancelled 完全不计入
func CountsTowardCoverage(status string) bool {
	return status == ShiftStatusScheduled || status == ShiftStatusOnCall
}

// Shift 班次分配表 — 对应 shifts
// 每个槽位（cycle_id, date, shift_type）至多一条 role=lead 的有效记录，
// 由存储层部分唯一索引保证，应用层不做内存判重
type Shift struct {
	ShiftID     string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"shift_id"`
	CycleID     string    `gorm:"type:uuid;not null;index"                       json:"cycle_id"`
	TherapistID string    `gorm:"type:uuid;not null"                             json:"therapist_id"`
	Date        time.Time `gorm:"type:date;not null"                             json:"date"`
	ShiftType   string    `gorm:"type:varchar(10);not null"                      json:"shift_type"` // day | night
	Role        string    `gorm:"type:varchar(10);not null;default:'staff'"      json:"role"`       // lead | staff
	Status      string    `gorm:"type:varchar(20);not null;default:'scheduled'"  json:"status"`
	VersionedModel

	// 关联
	Therapist *Therapist `gorm:"foreignKey:TherapistID;references:TherapistID" json:"therapist,omitempty"`
}

// TableName 指定表名
func (Shift) TableName() string { return "shifts" }

// DateString 返回 ISO 日期（核心算法统一使用字符串日期）
func (s *Shift) DateString() string { return s.Date.Format(DateLayout) }
