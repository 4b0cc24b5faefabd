package service

import (
	"time"

	"rt-roster/backend/internal/model"
)

// ── 工作量度量 ──
//
// "周"一律为周日锚定（周日～周六），用于周上限判定时裁剪到周期范围内。
// 所有函数均为纯函数，输入为调用方显式传入的班次快照。

// WeekBounds 返回包含 date 的周边界（周日～周六，ISO 日期）。
// 日期无法解析时 ok=false。
func WeekBounds(date string) (weekStart, weekEnd string, ok bool) {
	day, valid := parseDate(date)
	if !valid {
		return "", "", false
	}
	start := day.AddDate(0, 0, -int(day.Weekday()))
	end := start.AddDate(0, 0, 6)
	return start.Format(model.DateLayout), end.Format(model.DateLayout), true
}

// WorkloadCount 单个治疗师的工作量计数
type WorkloadCount struct {
	WeekShiftCount  int `json:"week_shift_count"`
	CycleShiftCount int `json:"cycle_shift_count"`
}

// BuildWorkloadCounts 从班次列表统计每位治疗师的周/周期工作天数。
//
// 只统计计入覆盖的状态（scheduled / on_call）；sick、called_off 等
// 完全不计入，该治疗师若无有效班次则不出现在结果中。
// 同一治疗师同一日期的多条记录只算一个工作日。
// 区间比较基于 ISO 日期的字典序，闭区间。
func BuildWorkloadCounts(shifts []model.Shift, weekStart, weekEnd, cycleStart, cycleEnd string) map[string]WorkloadCount {
	counts := make(map[string]WorkloadCount)
	seen := make(map[string]map[string]bool) // therapistID → 已计日期

	for i := range shifts {
		sh := &shifts[i]
		if !model.CountsTowardCoverage(sh.Status) {
			continue
		}
		d := sh.DateString()
		if seen[sh.TherapistID] == nil {
			seen[sh.TherapistID] = make(map[string]bool)
		}
		if seen[sh.TherapistID][d] {
			continue
		}
		seen[sh.TherapistID][d] = true

		c := counts[sh.TherapistID]
		if weekStart <= d && d <= weekEnd {
			c.WeekShiftCount++
		}
		if cycleStart <= d && d <= cycleEnd {
			c.CycleShiftCount++
		}
		counts[sh.TherapistID] = c
	}

	return counts
}

// cycleWeeks 枚举与周期范围 [cycleStart, cycleEnd] 重叠的所有周，
// 每个元素为裁剪前的周起始日期。周期日期非法时返回 nil。
func cycleWeeks(cycleStart, cycleEnd string) []time.Time {
	start, ok1 := parseDate(cycleStart)
	end, ok2 := parseDate(cycleEnd)
	if !ok1 || !ok2 || end.Before(start) {
		return nil
	}

	var weeks []time.Time
	ws := start.AddDate(0, 0, -int(start.Weekday()))
	for !ws.After(end) {
		weeks = append(weeks, ws)
		ws = ws.AddDate(0, 0, 7)
	}
	return weeks
}

// maxDate / minDate ISO 日期字典序比较
func maxDate(a, b string) string {
	if a > b {
		return a
	}
	return b
}

func minDate(a, b string) string {
	if a < b {
		return a
	}
	return b
}

// daysBetween 闭区间 [from, to] 的天数；输入非法或倒序时为 0
func daysBetween(from, to string) int {
	f, ok1 := parseDate(from)
	t, ok2 := parseDate(to)
	if !ok1 || !ok2 || t.Before(f) {
		return 0
	}
	return int(t.Sub(f).Hours()/24) + 1
}
