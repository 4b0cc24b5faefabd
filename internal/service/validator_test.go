package service

import (
	"testing"

	"rt-roster/backend/internal/model"
)

// ── 覆盖检查 ──

func TestSummarizeCoverageViolations(t *testing.T) {
	headcounts := map[SlotKey]int{
		{Date: "2026-01-05", ShiftType: "day"}:   2, // under
		{Date: "2026-01-05", ShiftType: "night"}: 3,
		{Date: "2026-01-06", ShiftType: "day"}:   6, // over
		{Date: "2026-01-06", ShiftType: "night"}: 4,
	}

	s := SummarizeCoverageViolations(headcounts, 3, 5)
	if s.UnderCoverage != 1 {
		t.Errorf("期望 under=1，实际=%d", s.UnderCoverage)
	}
	if s.OverCoverage != 1 {
		t.Errorf("期望 over=1，实际=%d", s.OverCoverage)
	}
	if s.Violations != 2 {
		t.Errorf("期望违规总数=2，实际=%d", s.Violations)
	}
}

func TestSummarizeCoverageViolations_ZeroSlotIsUnder(t *testing.T) {
	headcounts := map[SlotKey]int{
		{Date: "2026-01-05", ShiftType: "day"}: 0,
	}
	s := SummarizeCoverageViolations(headcounts, 3, 5)
	if s.UnderCoverage != 1 {
		t.Errorf("空槽位应计 under，实际=%d", s.UnderCoverage)
	}
}

// ── 周上限检查 ──

func TestSummarizeWeeklyLimitViolations(t *testing.T) {
	// 周期 2026-01-04（周日）～ 2026-01-12（周一）：
	// 第一周 01-04～01-10 完整（cap = min(5,7) = 5）
	// 第二周裁剪为 01-11～01-12 两天（cap = min(5,2) = 2）
	shifts := []model.Shift{
		// t-1 第一周工作 6 天 → over
		shiftOn("t-1", "2026-01-04", "day", model.ShiftStatusScheduled),
		shiftOn("t-1", "2026-01-05", "day", model.ShiftStatusScheduled),
		shiftOn("t-1", "2026-01-06", "day", model.ShiftStatusScheduled),
		shiftOn("t-1", "2026-01-07", "day", model.ShiftStatusScheduled),
		shiftOn("t-1", "2026-01-08", "day", model.ShiftStatusScheduled),
		shiftOn("t-1", "2026-01-09", "day", model.ShiftStatusScheduled),
		// t-1 第二周工作 1 天（cap=2）→ under
		shiftOn("t-1", "2026-01-11", "day", model.ShiftStatusScheduled),
	}

	s := SummarizeWeeklyLimitViolations(shifts, map[string]int{"t-1": 5}, "2026-01-04", "2026-01-12")
	if s.OverCount != 1 {
		t.Errorf("期望 over=1，实际=%d", s.OverCount)
	}
	if s.UnderCount != 1 {
		t.Errorf("期望 under=1（残缺周 cap 收窄），实际=%d", s.UnderCount)
	}
	if s.Violations != 2 {
		t.Errorf("期望违规总数=2，实际=%d", s.Violations)
	}
}

func TestSummarizeWeeklyLimitViolations_ExactCapNoViolation(t *testing.T) {
	// 单周周期 01-04～01-10，上限 2，恰好工作 2 天
	shifts := []model.Shift{
		shiftOn("t-1", "2026-01-05", "day", model.ShiftStatusScheduled),
		shiftOn("t-1", "2026-01-06", "day", model.ShiftStatusScheduled),
	}
	s := SummarizeWeeklyLimitViolations(shifts, map[string]int{"t-1": 2}, "2026-01-04", "2026-01-10")
	if s.Violations != 0 {
		t.Errorf("恰好等于 cap 不应违规，实际=%+v", s)
	}
}

func TestSummarizeWeeklyLimitViolations_DistinctDates(t *testing.T) {
	// 同日双班只算一个工作日
	shifts := []model.Shift{
		shiftOn("t-1", "2026-01-05", "day", model.ShiftStatusScheduled),
		shiftOn("t-1", "2026-01-05", "night", model.ShiftStatusScheduled),
		shiftOn("t-1", "2026-01-06", "day", model.ShiftStatusScheduled),
	}
	s := SummarizeWeeklyLimitViolations(shifts, map[string]int{"t-1": 2}, "2026-01-04", "2026-01-10")
	if s.OverCount != 0 {
		t.Errorf("去重后 2 个工作日不应 over，实际=%+v", s)
	}
}

func TestSummarizeWeeklyLimitViolations_SickNotCounted(t *testing.T) {
	shifts := []model.Shift{
		shiftOn("t-1", "2026-01-05", "day", model.ShiftStatusSick),
		shiftOn("t-1", "2026-01-06", "day", model.ShiftStatusScheduled),
	}
	s := SummarizeWeeklyLimitViolations(shifts, map[string]int{"t-1": 1}, "2026-01-04", "2026-01-10")
	if s.OverCount != 0 {
		t.Errorf("sick 班次不应计入工作日，实际=%+v", s)
	}
}

// ── lead 指定检查 ──

func leadShift(therapistID, date, shiftType, role, status string) model.Shift {
	sh := shiftOn(therapistID, date, shiftType, status)
	sh.Role = role
	return sh
}

func TestSummarizeLeadViolations(t *testing.T) {
	eligible := map[string]bool{"t-1": true, "t-2": true, "t-3": false}
	shifts := []model.Shift{
		// 槽位 1：正常（恰好一个合格 lead）
		leadShift("t-1", "2026-01-05", "day", model.RoleLead, model.ShiftStatusScheduled),
		leadShift("t-2", "2026-01-05", "day", model.RoleStaff, model.ShiftStatusScheduled),
		// 槽位 2：无 lead
		leadShift("t-2", "2026-01-05", "night", model.RoleStaff, model.ShiftStatusScheduled),
		// 槽位 3：两个 lead
		leadShift("t-1", "2026-01-06", "day", model.RoleLead, model.ShiftStatusScheduled),
		leadShift("t-2", "2026-01-06", "day", model.RoleLead, model.ShiftStatusScheduled),
		// 槽位 4：lead 无资格
		leadShift("t-3", "2026-01-06", "night", model.RoleLead, model.ShiftStatusScheduled),
	}

	s := SummarizeLeadViolations(shifts, eligible)
	if s.MissingLead != 1 {
		t.Errorf("期望 missing_lead=1，实际=%d", s.MissingLead)
	}
	if s.MultipleLeads != 1 {
		t.Errorf("期望 multiple_leads=1，实际=%d", s.MultipleLeads)
	}
	if s.IneligibleLead != 1 {
		t.Errorf("期望 ineligible_lead=1，实际=%d", s.IneligibleLead)
	}
	if s.Violations != 3 {
		t.Errorf("期望违规总数=3，实际=%d", s.Violations)
	}
	if len(s.Issues) != 3 {
		t.Fatalf("期望 3 条问题记录，实际=%d", len(s.Issues))
	}
	// 输出按日期、班次类型稳定排序
	if s.Issues[0].Date != "2026-01-05" || s.Issues[0].ShiftType != "night" {
		t.Errorf("第一条应为 01-05 night，实际=%+v", s.Issues[0])
	}
}

func TestSummarizeLeadViolations_CancelledLeadIgnored(t *testing.T) {
	// lead 班次被取消后，槽位回到无 lead 状态
	eligible := map[string]bool{"t-1": true, "t-2": true}
	shifts := []model.Shift{
		leadShift("t-1", "2026-01-05", "day", model.RoleLead, model.ShiftStatusCancelled),
		leadShift("t-2", "2026-01-05", "day", model.RoleStaff, model.ShiftStatusScheduled),
	}

	s := SummarizeLeadViolations(shifts, eligible)
	if s.MissingLead != 1 {
		t.Errorf("取消的 lead 不应计入，期望 missing_lead=1，实际=%+v", s)
	}
}

func TestBuildSlotHeadcounts(t *testing.T) {
	shifts := []model.Shift{
		shiftOn("t-1", "2026-01-05", "day", model.ShiftStatusScheduled),
		shiftOn("t-2", "2026-01-05", "day", model.ShiftStatusOnCall),
		shiftOn("t-3", "2026-01-05", "day", model.ShiftStatusSick),
	}
	headcounts := BuildSlotHeadcounts(shifts)
	if n := headcounts[SlotKey{Date: "2026-01-05", ShiftType: "day"}]; n != 2 {
		t.Errorf("期望有效人数=2（sick 不计），实际=%d", n)
	}
}
