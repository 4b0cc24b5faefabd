package service

import (
	"sort"

	"rt-roster/backend/internal/model"
)

// ── 发布前规则校验 ──
//
// 三项相互独立的只读检查：覆盖人数、周上限、lead 指定。
// 全部无副作用，作为周期发布前的门禁。

// SlotKey 槽位标识（日期 × 班次类型）
type SlotKey struct {
	Date      string `json:"date"`
	ShiftType string `json:"shift_type"`
}

// BuildSlotHeadcounts 统计每个槽位的有效人数（仅计 scheduled / on_call）
func BuildSlotHeadcounts(shifts []model.Shift) map[SlotKey]int {
	headcounts := make(map[SlotKey]int)
	for i := range shifts {
		sh := &shifts[i]
		if !model.CountsTowardCoverage(sh.Status) {
			continue
		}
		headcounts[SlotKey{Date: sh.DateString(), ShiftType: sh.ShiftType}]++
	}
	return headcounts
}

// CoverageSummary 覆盖检查汇总
type CoverageSummary struct {
	UnderCoverage int `json:"under_coverage"`
	OverCoverage  int `json:"over_coverage"`
	Violations    int `json:"violations"`
}

// SummarizeCoverageViolations 覆盖检查：
// 人数 < min 记一次 under，人数 > max 记一次 over。
// headcounts 应包含周期内全部槽位（无人值守的槽位计 0）。
func SummarizeCoverageViolations(headcounts map[SlotKey]int, minCoverage, maxCoverage int) CoverageSummary {
	var s CoverageSummary
	for _, n := range headcounts {
		if n < minCoverage {
			s.UnderCoverage++
		} else if n > maxCoverage {
			s.OverCoverage++
		}
	}
	s.Violations = s.UnderCoverage + s.OverCoverage
	return s
}

// WeeklyLimitSummary 周上限检查汇总
type WeeklyLimitSummary struct {
	UnderCount int `json:"under_count"`
	OverCount  int `json:"over_count"`
	Violations int `json:"violations"`
}

// SummarizeWeeklyLimitViolations 周上限检查。
//
// 对每位治疗师、每个与周期重叠的周（周日锚定、裁剪到周期范围）：
// cap = min(个人周上限, 该周落在周期内的天数)。周期边界的残缺周
// 因此拥有比整周更小的 cap。工作天数 > cap 记 over，< cap 记 under，
// == cap 无违规。limits 给出参与检查的治疗师及其个人上限。
func SummarizeWeeklyLimitViolations(shifts []model.Shift, limits map[string]int, cycleStart, cycleEnd string) WeeklyLimitSummary {
	var s WeeklyLimitSummary

	weeks := cycleWeeks(cycleStart, cycleEnd)
	if len(weeks) == 0 {
		return s
	}

	// therapistID → 去重后的有效工作日期
	workedDates := make(map[string]map[string]bool)
	for i := range shifts {
		sh := &shifts[i]
		if !model.CountsTowardCoverage(sh.Status) {
			continue
		}
		if workedDates[sh.TherapistID] == nil {
			workedDates[sh.TherapistID] = make(map[string]bool)
		}
		workedDates[sh.TherapistID][sh.DateString()] = true
	}

	for _, ws := range weeks {
		weekStart := ws.Format(model.DateLayout)
		weekEnd := ws.AddDate(0, 0, 6).Format(model.DateLayout)
		clippedStart := maxDate(weekStart, cycleStart)
		clippedEnd := minDate(weekEnd, cycleEnd)
		daysInWeek := daysBetween(clippedStart, clippedEnd)

		for therapistID, limit := range limits {
			weekCap := limit
			if daysInWeek < weekCap {
				weekCap = daysInWeek
			}

			worked := 0
			for d := range workedDates[therapistID] {
				if clippedStart <= d && d <= clippedEnd {
					worked++
				}
			}

			switch {
			case worked > weekCap:
				s.OverCount++
			case worked < weekCap:
				s.UnderCount++
			}
		}
	}

	s.Violations = s.UnderCount + s.OverCount
	return s
}

// ── lead 指定检查 ──

// lead 检查的槽位级原因（一个槽位可同时命中多条）
const (
	LeadReasonMissing    = "missing_lead"
	LeadReasonMultiple   = "multiple_leads"
	LeadReasonIneligible = "ineligible_lead"
)

// LeadIssue 单个槽位的 lead 问题记录
type LeadIssue struct {
	Date      string   `json:"date"`
	ShiftType string   `json:"shift_type"`
	Reasons   []string `json:"reasons"`
}

// LeadSummary lead 指定检查汇总
type LeadSummary struct {
	MissingLead    int         `json:"missing_lead"`
	MultipleLeads  int         `json:"multiple_leads"`
	IneligibleLead int         `json:"ineligible_lead"`
	Violations     int         `json:"violations"`
	Issues         []LeadIssue `json:"issues,omitempty"`
}

// SummarizeLeadViolations lead 指定检查。
//
// 扫描每个槽位的有效分配：无 lead 记 missing_lead，多于一个记
// multiple_leads，lead 不具备资格记 ineligible_lead。三种原因
// 按槽位独立判定，可叠加。leadEligible 为治疗师 lead 资格表。
func SummarizeLeadViolations(shifts []model.Shift, leadEligible map[string]bool) LeadSummary {
	var s LeadSummary

	type slotLeads struct {
		leadCount      int
		ineligibleSeen bool
	}
	slots := make(map[SlotKey]*slotLeads)

	for i := range shifts {
		sh := &shifts[i]
		if !model.CountsTowardCoverage(sh.Status) {
			continue
		}
		key := SlotKey{Date: sh.DateString(), ShiftType: sh.ShiftType}
		sl := slots[key]
		if sl == nil {
			sl = &slotLeads{}
			slots[key] = sl
		}
		if sh.Role == model.RoleLead {
			sl.leadCount++
			if !leadEligible[sh.TherapistID] {
				sl.ineligibleSeen = true
			}
		}
	}

	for key, sl := range slots {
		var reasons []string
		if sl.leadCount == 0 {
			s.MissingLead++
			reasons = append(reasons, LeadReasonMissing)
		}
		if sl.leadCount > 1 {
			s.MultipleLeads++
			reasons = append(reasons, LeadReasonMultiple)
		}
		if sl.ineligibleSeen {
			s.IneligibleLead++
			reasons = append(reasons, LeadReasonIneligible)
		}
		if len(reasons) > 0 {
			s.Issues = append(s.Issues, LeadIssue{Date: key.Date, ShiftType: key.ShiftType, Reasons: reasons})
		}
	}

	// 报告输出稳定有序
	sort.Slice(s.Issues, func(i, j int) bool {
		if s.Issues[i].Date != s.Issues[j].Date {
			return s.Issues[i].Date < s.Issues[j].Date
		}
		return s.Issues[i].ShiftType < s.Issues[j].ShiftType
	})

	s.Violations = s.MissingLead + s.MultipleLeads + s.IneligibleLead
	return s
}
