package service

import (
	"testing"
	"time"

	"rt-roster/backend/internal/model"
)

func shiftOn(therapistID, date, shiftType, status string) model.Shift {
	day, _ := time.Parse(model.DateLayout, date)
	return model.Shift{
		TherapistID: therapistID,
		Date:        day,
		ShiftType:   shiftType,
		Role:        model.RoleStaff,
		Status:      status,
	}
}

func TestWeekBounds(t *testing.T) {
	// 2026-01-07 是周三，所在周为 01-04（周日）～ 01-10（周六）
	start, end, ok := WeekBounds("2026-01-07")
	if !ok {
		t.Fatal("WeekBounds 应成功")
	}
	if start != "2026-01-04" || end != "2026-01-10" {
		t.Errorf("期望 [2026-01-04, 2026-01-10]，实际 [%s, %s]", start, end)
	}

	// 周日自身即周起点
	start, end, _ = WeekBounds("2026-01-04")
	if start != "2026-01-04" || end != "2026-01-10" {
		t.Errorf("周日应为周起点，实际 [%s, %s]", start, end)
	}

	if _, _, ok := WeekBounds("bad-date"); ok {
		t.Error("非法日期应返回 ok=false")
	}
}

func TestBuildWorkloadCounts_DistinctDates(t *testing.T) {
	// 同一天的日班+夜班只算一个工作日
	shifts := []model.Shift{
		shiftOn("t-1", "2026-01-05", model.ShiftTypeDay, model.ShiftStatusScheduled),
		shiftOn("t-1", "2026-01-05", model.ShiftTypeNight, model.ShiftStatusScheduled),
		shiftOn("t-1", "2026-01-06", model.ShiftTypeDay, model.ShiftStatusOnCall),
	}

	counts := BuildWorkloadCounts(shifts, "2026-01-04", "2026-01-10", "2026-01-01", "2026-01-31")
	c := counts["t-1"]
	if c.WeekShiftCount != 2 {
		t.Errorf("期望周计数=2（去重日期），实际=%d", c.WeekShiftCount)
	}
	if c.CycleShiftCount != 2 {
		t.Errorf("期望周期计数=2，实际=%d", c.CycleShiftCount)
	}
}

func TestBuildWorkloadCounts_NonCountingStatuses(t *testing.T) {
	shifts := []model.Shift{
		shiftOn("t-1", "2026-01-05", model.ShiftTypeDay, model.ShiftStatusSick),
		shiftOn("t-1", "2026-01-06", model.ShiftTypeDay, model.ShiftStatusCalledOff),
		shiftOn("t-1", "2026-01-07", model.ShiftTypeDay, model.ShiftStatusCancelled),
	}

	counts := BuildWorkloadCounts(shifts, "2026-01-04", "2026-01-10", "2026-01-01", "2026-01-31")
	if _, ok := counts["t-1"]; ok {
		t.Errorf("无有效班次的治疗师不应出现在结果中，实际=%+v", counts["t-1"])
	}
}

func TestBuildWorkloadCounts_WindowClipping(t *testing.T) {
	shifts := []model.Shift{
		shiftOn("t-1", "2026-01-03", model.ShiftTypeDay, model.ShiftStatusScheduled), // 周外、周期内
		shiftOn("t-1", "2026-01-05", model.ShiftTypeDay, model.ShiftStatusScheduled), // 周内、周期内
		shiftOn("t-1", "2026-02-05", model.ShiftTypeDay, model.ShiftStatusScheduled), // 周外、周期外
	}

	counts := BuildWorkloadCounts(shifts, "2026-01-04", "2026-01-10", "2026-01-01", "2026-01-31")
	c := counts["t-1"]
	if c.WeekShiftCount != 1 {
		t.Errorf("期望周计数=1，实际=%d", c.WeekShiftCount)
	}
	if c.CycleShiftCount != 2 {
		t.Errorf("期望周期计数=2，实际=%d", c.CycleShiftCount)
	}
}

func TestCycleWeeks(t *testing.T) {
	// 周期 2026-01-05（周一）～ 2026-01-18（周日）横跨三个周日锚定周
	weeks := cycleWeeks("2026-01-05", "2026-01-18")
	if len(weeks) != 3 {
		t.Fatalf("期望 3 个周，实际=%d", len(weeks))
	}
	want := []string{"2026-01-04", "2026-01-11", "2026-01-18"}
	for i, ws := range weeks {
		if ws.Format(model.DateLayout) != want[i] {
			t.Errorf("第 %d 周起点期望 %s，实际=%s", i, want[i], ws.Format(model.DateLayout))
		}
	}

	if weeks := cycleWeeks("2026-01-10", "2026-01-05"); weeks != nil {
		t.Error("倒序区间应返回 nil")
	}
}

func TestDaysBetween(t *testing.T) {
	if n := daysBetween("2026-01-05", "2026-01-05"); n != 1 {
		t.Errorf("同日闭区间应为 1 天，实际=%d", n)
	}
	if n := daysBetween("2026-01-04", "2026-01-10"); n != 7 {
		t.Errorf("整周应为 7 天，实际=%d", n)
	}
	if n := daysBetween("2026-01-10", "2026-01-04"); n != 0 {
		t.Errorf("倒序应为 0，实际=%d", n)
	}
}
