package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"rt-roster/backend/config"
	"rt-roster/backend/internal/dto"
	"rt-roster/backend/internal/model"
	"rt-roster/backend/internal/repository"
)

type scheduleTestEnv struct {
	svc        *ScheduleService
	cycles     *mockCycleRepo
	therapists *mockTherapistRepo
	overrides  *mockOverrideRepo
	shifts     *mockShiftRepo
}

func newScheduleTestEnv() *scheduleTestEnv {
	env := &scheduleTestEnv{
		cycles:     newMockCycleRepo(),
		therapists: newMockTherapistRepo(),
		overrides:  newMockOverrideRepo(),
		shifts:     newMockShiftRepo(),
	}
	repo := &repository.Repository{
		Account:              newMockAccountRepo(),
		Therapist:            env.therapists,
		WorkPattern:          newMockWorkPatternRepo(),
		AvailabilityOverride: env.overrides,
		ScheduleCycle:        env.cycles,
		Shift:                env.shifts,
	}
	cfg := &config.SchedulingConfig{MinCoverage: 1, TargetCoverage: 2, MaxCoverage: 3}
	env.svc = NewScheduleService(repo, cfg, zap.NewNop())
	return env
}

func (env *scheduleTestEnv) seedCycle(t *testing.T, id, start, end, status string) {
	t.Helper()
	env.cycles.cycles[id] = &model.ScheduleCycle{
		CycleID:   id,
		Label:     "测试周期",
		StartDate: mustDate(t, start),
		EndDate:   mustDate(t, end),
		Status:    status,
	}
}

func (env *scheduleTestEnv) seedShift(t *testing.T, id, cycleID, therapistID, date, shiftType, role, status string) {
	t.Helper()
	sh := shiftOn(therapistID, date, shiftType, status)
	sh.ShiftID = id
	sh.CycleID = cycleID
	sh.Role = role
	env.shifts.shifts = append(env.shifts.shifts, sh)
}

// ── 自动生成 ──

func TestAutoGenerate(t *testing.T) {
	env := newScheduleTestEnv()
	env.seedCycle(t, "cycle-1", "2026-01-05", "2026-01-06", model.CycleStatusDraft)
	for _, id := range []string{"t-1", "t-2", "t-3", "t-4"} {
		env.therapists.add(activeTherapist(id))
	}

	result, err := env.svc.AutoGenerate(context.Background(), "cycle-1",
		&dto.AutoGenerateRequest{Strategy: "pattern"}, "")
	if err != nil {
		t.Fatalf("AutoGenerate 失败: %v", err)
	}

	// 2 天 × 2 班次 = 4 个槽位，4 个候选人足够填满（目标覆盖 2）
	if result.SlotsTotal != 4 {
		t.Errorf("期望槽位总数=4，实际=%d", result.SlotsTotal)
	}
	if result.SlotsFilled != 4 {
		t.Errorf("期望填满槽位=4，实际=%d，欠员=%+v", result.SlotsFilled, result.UnfilledSlots)
	}
	if result.ShiftsCreated != 8 {
		t.Errorf("期望创建班次=8，实际=%d", result.ShiftsCreated)
	}
	if len(env.shifts.shifts) != 8 {
		t.Errorf("期望落库班次=8，实际=%d", len(env.shifts.shifts))
	}
	if result.FeedbackDigest == nil {
		t.Error("生成结果应附带校验摘要")
	}

	// 同一人同一天绝不排两个班
	seen := map[string]bool{}
	for _, sh := range env.shifts.shifts {
		key := sh.TherapistID + "|" + sh.DateString()
		if seen[key] {
			t.Fatalf("治疗师 %s 在 %s 被重复排班", sh.TherapistID, sh.DateString())
		}
		seen[key] = true
		if sh.Role != model.RoleStaff || sh.Status != model.ShiftStatusScheduled {
			t.Errorf("新生成班次应为 staff/scheduled，实际=%s/%s", sh.Role, sh.Status)
		}
	}
}

func TestAutoGenerate_ShortageReported(t *testing.T) {
	env := newScheduleTestEnv()
	env.seedCycle(t, "cycle-1", "2026-01-05", "2026-01-05", model.CycleStatusDraft)
	// 没有任何候选人：两个槽位均欠员且给出原因码

	result, err := env.svc.AutoGenerate(context.Background(), "cycle-1",
		&dto.AutoGenerateRequest{Strategy: "pattern"}, "")
	if err != nil {
		t.Fatalf("AutoGenerate 失败: %v", err)
	}
	if len(result.UnfilledSlots) != 2 {
		t.Fatalf("期望 2 个欠员槽位，实际=%d", len(result.UnfilledSlots))
	}
	for _, slot := range result.UnfilledSlots {
		if slot.Reason != string(ReasonNoEligibleCandidates) {
			t.Errorf("期望原因码 no_eligible_candidates_due_to_constraints，实际=%s", slot.Reason)
		}
	}
}

func TestAutoGenerate_ReplaceClearsExisting(t *testing.T) {
	env := newScheduleTestEnv()
	env.seedCycle(t, "cycle-1", "2026-01-05", "2026-01-05", model.CycleStatusDraft)
	env.therapists.add(activeTherapist("t-1"))
	env.seedShift(t, "sh-old", "cycle-1", "t-9", "2026-01-05", model.ShiftTypeDay, model.RoleStaff, model.ShiftStatusScheduled)

	_, err := env.svc.AutoGenerate(context.Background(), "cycle-1",
		&dto.AutoGenerateRequest{Strategy: "pattern", Replace: true}, "")
	if err != nil {
		t.Fatalf("AutoGenerate 失败: %v", err)
	}
	for _, sh := range env.shifts.shifts {
		if sh.ShiftID == "sh-old" {
			t.Fatal("Replace 模式应清空既有班次后重排")
		}
	}
}

func TestAutoGenerate_OnlyDraft(t *testing.T) {
	env := newScheduleTestEnv()
	env.seedCycle(t, "cycle-1", "2026-01-05", "2026-01-05", model.CycleStatusPublished)

	_, err := env.svc.AutoGenerate(context.Background(), "cycle-1",
		&dto.AutoGenerateRequest{Strategy: "pattern"}, "")
	if !errors.Is(err, ErrCycleNotDraft) {
		t.Errorf("期望 ErrCycleNotDraft，实际=%v", err)
	}

	_, err = env.svc.AutoGenerate(context.Background(), "no-such",
		&dto.AutoGenerateRequest{Strategy: "pattern"}, "")
	if !errors.Is(err, ErrCycleNotFound) {
		t.Errorf("期望 ErrCycleNotFound，实际=%v", err)
	}
}

// ── 校验与发布 ──

func TestValidate_EmptySlotsCounted(t *testing.T) {
	env := newScheduleTestEnv()
	env.seedCycle(t, "cycle-1", "2026-01-05", "2026-01-05", model.CycleStatusDraft)
	// 没有任何班次：2 个槽位均 under coverage

	report, err := env.svc.Validate(context.Background(), "cycle-1")
	if err != nil {
		t.Fatalf("Validate 失败: %v", err)
	}
	if report.Coverage.UnderCoverage != 2 {
		t.Errorf("期望空槽位 under=2，实际=%d", report.Coverage.UnderCoverage)
	}
	if report.Publishable {
		t.Error("存在违规时不应可发布")
	}
}

func TestPublish_RejectedWithReport(t *testing.T) {
	env := newScheduleTestEnv()
	env.seedCycle(t, "cycle-1", "2026-01-05", "2026-01-05", model.CycleStatusDraft)

	report, err := env.svc.Publish(context.Background(), "cycle-1", "op-1")
	if !errors.Is(err, ErrCycleHasViolations) {
		t.Fatalf("期望 ErrCycleHasViolations，实际=%v", err)
	}
	if report == nil || report.TotalViolations == 0 {
		t.Fatal("拒绝发布时应返回违规报告")
	}
	if env.cycles.cycles["cycle-1"].Status != model.CycleStatusDraft {
		t.Error("拒绝发布后周期应保持 draft")
	}
}

func TestPublish_CleanCycle(t *testing.T) {
	env := newScheduleTestEnv()
	env.seedCycle(t, "cycle-1", "2026-01-05", "2026-01-05", model.CycleStatusDraft)

	t1 := activeTherapist("t-1")
	t1.LeadEligible = true
	t2 := activeTherapist("t-2")
	t2.LeadEligible = true
	env.therapists.add(t1)
	env.therapists.add(t2)

	// 每个槽位恰好一个合格 lead，覆盖与周上限均达标
	env.seedShift(t, "sh-1", "cycle-1", "t-1", "2026-01-05", model.ShiftTypeDay, model.RoleLead, model.ShiftStatusScheduled)
	env.seedShift(t, "sh-2", "cycle-1", "t-2", "2026-01-05", model.ShiftTypeNight, model.RoleLead, model.ShiftStatusScheduled)

	report, err := env.svc.Publish(context.Background(), "cycle-1", "op-1")
	if err != nil {
		t.Fatalf("Publish 失败: %v", err)
	}
	if !report.Publishable {
		t.Fatalf("期望可发布，报告=%+v", report)
	}

	cycle := env.cycles.cycles["cycle-1"]
	if cycle.Status != model.CycleStatusPublished {
		t.Errorf("期望状态 published，实际=%s", cycle.Status)
	}
	if cycle.PublishedAt == nil {
		t.Error("发布后应记录 PublishedAt")
	}
}

func TestPublish_OnlyDraft(t *testing.T) {
	env := newScheduleTestEnv()
	env.seedCycle(t, "cycle-1", "2026-01-05", "2026-01-05", model.CycleStatusArchived)

	if _, err := env.svc.Publish(context.Background(), "cycle-1", "op-1"); !errors.Is(err, ErrCycleNotDraft) {
		t.Errorf("期望 ErrCycleNotDraft，实际=%v", err)
	}
}

// ── lead 指定 ──

func TestSetDesignatedLead_OK(t *testing.T) {
	env := newScheduleTestEnv()
	env.seedCycle(t, "cycle-1", "2026-01-05", "2026-01-05", model.CycleStatusDraft)
	env.seedShift(t, "sh-1", "cycle-1", "t-1", "2026-01-05", model.ShiftTypeDay, model.RoleStaff, model.ShiftStatusScheduled)

	result, err := env.svc.SetDesignatedLead(context.Background(), "cycle-1", &dto.SetLeadRequest{
		TherapistID: "t-1",
		Date:        "2026-01-05",
		ShiftType:   model.ShiftTypeDay,
	})
	if err != nil {
		t.Fatalf("SetDesignatedLead 失败: %v", err)
	}
	if result.Status != "ok" {
		t.Fatalf("期望 ok，实际=%s", result.Status)
	}
	if env.shifts.shifts[0].Role != model.RoleLead {
		t.Error("班次角色应升为 lead")
	}
}

func TestSetDesignatedLead_StorageOutcomes(t *testing.T) {
	cases := []struct {
		name       string
		repoErr    error
		wantStatus string
	}{
		{"槽位已有 lead", repository.ErrLeadSlotTaken, string(ReasonMultipleLeadsPrevented)},
		{"无 lead 资格", repository.ErrLeadIneligible, string(ReasonLeadNotEligible)},
		{"槽位无有效班次", repository.ErrShiftAssignmentMissing, string(ReasonFailed)},
		{"底层未知错误", errors.New("connection reset"), string(ReasonFailed)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			env := newScheduleTestEnv()
			env.seedCycle(t, "cycle-1", "2026-01-05", "2026-01-05", model.CycleStatusDraft)
			env.shifts.setLeadErr = tc.repoErr

			result, err := env.svc.SetDesignatedLead(context.Background(), "cycle-1", &dto.SetLeadRequest{
				TherapistID: "t-1",
				Date:        "2026-01-05",
				ShiftType:   model.ShiftTypeDay,
			})
			if err != nil {
				t.Fatalf("存储层拒绝应转为结果码而非错误: %v", err)
			}
			if result.Status != tc.wantStatus {
				t.Errorf("期望结果码=%s，实际=%s", tc.wantStatus, result.Status)
			}
		})
	}
}

func TestClearDesignatedLead(t *testing.T) {
	env := newScheduleTestEnv()
	env.seedCycle(t, "cycle-1", "2026-01-05", "2026-01-05", model.CycleStatusDraft)
	env.seedShift(t, "sh-1", "cycle-1", "t-1", "2026-01-05", model.ShiftTypeDay, model.RoleLead, model.ShiftStatusScheduled)

	if err := env.svc.ClearDesignatedLead(context.Background(), "cycle-1", "2026-01-05", model.ShiftTypeDay); err != nil {
		t.Fatalf("ClearDesignatedLead 失败: %v", err)
	}
	if env.shifts.shifts[0].Role != model.RoleStaff {
		t.Error("撤销后角色应降回 staff")
	}
}

// ── 班次维护 ──

func TestUpdateShiftStatus_NotFound(t *testing.T) {
	env := newScheduleTestEnv()
	err := env.svc.UpdateShiftStatus(context.Background(), "no-such", model.ShiftStatusSick, "op-1")
	if !errors.Is(err, ErrShiftNotFound) {
		t.Errorf("期望 ErrShiftNotFound，实际=%v", err)
	}
}

func TestRemoveShift(t *testing.T) {
	env := newScheduleTestEnv()
	env.seedCycle(t, "cycle-1", "2026-01-05", "2026-01-05", model.CycleStatusDraft)
	env.seedShift(t, "sh-1", "cycle-1", "t-1", "2026-01-05", model.ShiftTypeDay, model.RoleStaff, model.ShiftStatusScheduled)

	if err := env.svc.RemoveShift(context.Background(), "sh-1"); err != nil {
		t.Fatalf("RemoveShift 失败: %v", err)
	}
	if len(env.shifts.shifts) != 0 {
		t.Error("班次应被删除")
	}
	if err := env.svc.RemoveShift(context.Background(), "sh-1"); !errors.Is(err, ErrShiftNotFound) {
		t.Errorf("重复删除应返回 ErrShiftNotFound，实际=%v", err)
	}
}
