package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"rt-roster/backend/config"
	"rt-roster/backend/internal/dto"
	"rt-roster/backend/internal/model"
	"rt-roster/backend/internal/repository"
	"rt-roster/backend/pkg/metrics"
)

var (
	ErrCycleNotFound      = errors.New("排班周期不存在")
	ErrCycleNotDraft      = errors.New("仅 draft 状态的周期可执行此操作")
	ErrCycleHasViolations = errors.New("校验未通过，周期不可发布")
	ErrTherapistNotFound  = errors.New("治疗师不存在")
	ErrShiftNotFound      = errors.New("班次不存在")
)

// slotShiftTypes 每个日期的槽位枚举顺序
var slotShiftTypes = []string{model.ShiftTypeDay, model.ShiftTypeNight}

// ScheduleService 排班编排服务：自动生成、校验、发布、lead 指定
type ScheduleService struct {
	repo   *repository.Repository
	cfg    *config.SchedulingConfig
	logger *zap.Logger
}

func NewScheduleService(repo *repository.Repository, cfg *config.SchedulingConfig, logger *zap.Logger) *ScheduleService {
	return &ScheduleService{repo: repo, cfg: cfg, logger: logger}
}

// ── 结果类型 ──

// UnfilledSlotReport 单个欠员槽位
type UnfilledSlotReport struct {
	Date      string `json:"date"`
	ShiftType string `json:"shift_type"`
	Count     int    `json:"count"`
	Reason    string `json:"reason,omitempty"`
}

// GenerateResult 自动生成排班结果
type GenerateResult struct {
	CycleID        string               `json:"cycle_id"`
	ShiftsCreated  int                  `json:"shifts_created"`
	SlotsFilled    int                  `json:"slots_filled"`
	SlotsTotal     int                  `json:"slots_total"`
	UnfilledSlots  []UnfilledSlotReport `json:"unfilled_slots,omitempty"`
	FeedbackDigest *ValidationReport    `json:"feedback_digest,omitempty"`
}

// ValidationReport 发布前校验报告（覆盖 / 周上限 / lead 三项检查的汇总）
type ValidationReport struct {
	CycleID         string             `json:"cycle_id"`
	Coverage        CoverageSummary    `json:"coverage"`
	WeeklyLimits    WeeklyLimitSummary `json:"weekly_limits"`
	Lead            LeadSummary        `json:"lead"`
	TotalViolations int                `json:"total_violations"`
	Publishable     bool               `json:"publishable"`
}

// SetLeadResult 指定 lead 结果。
// Status 为 ok 或失败原因码：multiple_leads_prevented /
// lead_not_eligible / failed，失败判定完全来自存储层的原子约束。
type SetLeadResult struct {
	Status      string `json:"status"`
	TherapistID string `json:"therapist_id"`
	Date        string `json:"date"`
	ShiftType   string `json:"shift_type"`
}

// ── 自动生成 ──

// AutoGenerate 对周期内每个（日期, 班次）槽位执行轮询填充。
//
// 轮询游标按班次类型各自维护，跨槽位串行传递；当日已排、
// 周上限、资格判定由填充器逐槽保证。生成只补足缺口，
// 已有班次保留（req.Replace 为 true 时先清空重排）。
func (s *ScheduleService) AutoGenerate(ctx context.Context, cycleID string, req *dto.AutoGenerateRequest, operator string) (*GenerateResult, error) {
	cycle, err := s.getCycle(ctx, cycleID)
	if err != nil {
		return nil, err
	}
	if cycle.Status != model.CycleStatusDraft {
		return nil, ErrCycleNotDraft
	}

	therapists, err := s.repo.Therapist.List(ctx, true)
	if err != nil {
		return nil, err
	}
	overrides, err := s.repo.AvailabilityOverride.ListByCycle(ctx, cycleID)
	if err != nil {
		return nil, err
	}

	if req.Replace {
		if err := s.repo.Shift.DeleteByCycle(ctx, cycleID); err != nil {
			return nil, err
		}
	}
	existing, err := s.repo.Shift.ListByCycle(ctx, cycleID)
	if err != nil {
		return nil, err
	}

	strategy := strategyFromName(req.Strategy)
	pools := buildCandidatePools(therapists)
	limits := make(map[string]int, len(therapists))
	for i := range therapists {
		limits[therapists[i].TherapistID] = therapists[i].MaxWorkDaysPerWeek
	}

	// 既有班次回放到运行状态：当日已排集合、周工作日期集合、槽位人数
	assignedByDate := make(map[string]map[string]bool)
	weeklyByWeek := make(map[string]map[string]map[string]bool)
	headcounts := BuildSlotHeadcounts(existing)
	for i := range existing {
		sh := &existing[i]
		if !model.CountsTowardCoverage(sh.Status) {
			continue
		}
		d := sh.DateString()
		if assignedByDate[d] == nil {
			assignedByDate[d] = make(map[string]bool)
		}
		assignedByDate[d][sh.TherapistID] = true

		if ws, _, ok := WeekBounds(d); ok {
			if weeklyByWeek[ws] == nil {
				weeklyByWeek[ws] = make(map[string]map[string]bool)
			}
			if weeklyByWeek[ws][sh.TherapistID] == nil {
				weeklyByWeek[ws][sh.TherapistID] = make(map[string]bool)
			}
			weeklyByWeek[ws][sh.TherapistID][d] = true
		}
	}

	result := &GenerateResult{CycleID: cycleID}
	cursors := map[string]int{model.ShiftTypeDay: 0, model.ShiftTypeNight: 0}
	var newShifts []model.Shift
	now := time.Now()
	by := operatorRef(operator)

	for day := cycle.StartDate; !day.After(cycle.EndDate); day = day.AddDate(0, 0, 1) {
		date := day.Format(model.DateLayout)
		weekStart, _, _ := WeekBounds(date)
		if weeklyByWeek[weekStart] == nil {
			weeklyByWeek[weekStart] = make(map[string]map[string]bool)
		}
		if assignedByDate[date] == nil {
			assignedByDate[date] = make(map[string]bool)
		}

		for _, shiftType := range slotShiftTypes {
			result.SlotsTotal++

			fill := FillSlot(SlotFillParams{
				Candidates:      pools[shiftType],
				Cursor:          cursors[shiftType],
				CycleID:         cycleID,
				Date:            date,
				ShiftType:       shiftType,
				Overrides:       overrides,
				AssignedToday:   assignedByDate[date],
				WeeklyWorked:    weeklyByWeek[weekStart],
				WeeklyLimits:    limits,
				CurrentCoverage: headcounts[SlotKey{Date: date, ShiftType: shiftType}],
				TargetCoverage:  s.cfg.TargetCoverage,
				MinCoverage:     s.cfg.MinCoverage,
				Strategy:        strategy,
			})
			cursors[shiftType] = fill.NextCursor

			for _, therapistID := range fill.Picked {
				newShifts = append(newShifts, model.Shift{
					CycleID:     cycleID,
					TherapistID: therapistID,
					Date:        day,
					ShiftType:   shiftType,
					Role:        model.RoleStaff,
					Status:      model.ShiftStatusScheduled,
					VersionedModel: model.VersionedModel{
						BaseModel: model.BaseModel{CreatedAt: now, UpdatedAt: now, CreatedBy: by, UpdatedBy: by},
						Version:   1,
					},
				})
			}

			if fill.UnfilledCount > 0 {
				report := UnfilledSlotReport{
					Date:      date,
					ShiftType: shiftType,
					Count:     fill.UnfilledCount,
				}
				if fill.UnfilledReason != "" {
					report.Reason = string(fill.UnfilledReason)
					metrics.UnfilledSlots.Inc()
				}
				result.UnfilledSlots = append(result.UnfilledSlots, report)
			} else {
				result.SlotsFilled++
			}
		}
	}

	if err := s.repo.Shift.BatchCreate(ctx, newShifts); err != nil {
		return nil, err
	}
	result.ShiftsCreated = len(newShifts)

	metrics.GenerateRuns.Inc()
	metrics.ShiftsInserted.Add(float64(len(newShifts)))

	// 生成后立即反馈一份校验摘要，调用方无需再发一次校验请求
	if report, err := s.Validate(ctx, cycleID); err == nil {
		result.FeedbackDigest = report
	} else {
		s.logger.Warn("生成后校验失败", zap.String("cycle_id", cycleID), zap.Error(err))
	}

	s.logger.Info("自动排班完成",
		zap.String("cycle_id", cycleID),
		zap.Int("shifts_created", result.ShiftsCreated),
		zap.Int("slots_total", result.SlotsTotal),
		zap.Int("slots_unfilled", len(result.UnfilledSlots)))

	return result, nil
}

// buildCandidatePools 按班次类型划分候选池。
// 有效偏好取模式上的偏好，模式缺省时退回治疗师本人的偏好；
// either 进入两个池。池内顺序继承治疗师列表的稳定排序。
func buildCandidatePools(therapists []model.Therapist) map[string][]Candidate {
	pools := map[string][]Candidate{
		model.ShiftTypeDay:   nil,
		model.ShiftTypeNight: nil,
	}
	for i := range therapists {
		t := &therapists[i]
		pref := t.ShiftPreference
		if t.Pattern != nil && t.Pattern.ShiftPreference != "" && t.Pattern.ShiftPreference != model.ShiftPrefEither {
			pref = t.Pattern.ShiftPreference
		}
		c := Candidate{Therapist: t, Pattern: t.Pattern}
		if pref == model.ShiftPrefDay || pref == model.ShiftPrefEither || pref == "" {
			pools[model.ShiftTypeDay] = append(pools[model.ShiftTypeDay], c)
		}
		if pref == model.ShiftPrefNight || pref == model.ShiftPrefEither || pref == "" {
			pools[model.ShiftTypeNight] = append(pools[model.ShiftTypeNight], c)
		}
	}
	return pools
}

// ── 校验与发布 ──

// Validate 执行发布前三项检查，只读
func (s *ScheduleService) Validate(ctx context.Context, cycleID string) (*ValidationReport, error) {
	cycle, err := s.getCycle(ctx, cycleID)
	if err != nil {
		return nil, err
	}

	shifts, err := s.repo.Shift.ListByCycle(ctx, cycleID)
	if err != nil {
		return nil, err
	}
	therapists, err := s.repo.Therapist.List(ctx, false)
	if err != nil {
		return nil, err
	}

	limits := make(map[string]int)
	leadEligible := make(map[string]bool, len(therapists))
	for i := range therapists {
		t := &therapists[i]
		leadEligible[t.TherapistID] = t.LeadEligible
		if t.IsActive {
			limits[t.TherapistID] = t.MaxWorkDaysPerWeek
		}
	}

	// 覆盖检查必须看见空槽位：周期内所有槽位先占零
	headcounts := BuildSlotHeadcounts(shifts)
	for day := cycle.StartDate; !day.After(cycle.EndDate); day = day.AddDate(0, 0, 1) {
		date := day.Format(model.DateLayout)
		for _, shiftType := range slotShiftTypes {
			key := SlotKey{Date: date, ShiftType: shiftType}
			if _, ok := headcounts[key]; !ok {
				headcounts[key] = 0
			}
		}
	}

	cycleStart := cycle.StartDate.Format(model.DateLayout)
	cycleEnd := cycle.EndDate.Format(model.DateLayout)

	report := &ValidationReport{
		CycleID:      cycleID,
		Coverage:     SummarizeCoverageViolations(headcounts, s.cfg.MinCoverage, s.cfg.MaxCoverage),
		WeeklyLimits: SummarizeWeeklyLimitViolations(shifts, limits, cycleStart, cycleEnd),
		Lead:         SummarizeLeadViolations(shifts, leadEligible),
	}
	report.TotalViolations = report.Coverage.Violations + report.WeeklyLimits.Violations + report.Lead.Violations
	report.Publishable = report.TotalViolations == 0

	metrics.ValidationViolations.WithLabelValues("coverage").Add(float64(report.Coverage.Violations))
	metrics.ValidationViolations.WithLabelValues("weekly_limit").Add(float64(report.WeeklyLimits.Violations))
	metrics.ValidationViolations.WithLabelValues("lead").Add(float64(report.Lead.Violations))

	return report, nil
}

// Publish 发布周期。校验存在任何违规时拒绝，
// 返回的报告随 ErrCycleHasViolations 一并交给调用方展示。
func (s *ScheduleService) Publish(ctx context.Context, cycleID, operator string) (*ValidationReport, error) {
	cycle, err := s.getCycle(ctx, cycleID)
	if err != nil {
		return nil, err
	}
	if cycle.Status != model.CycleStatusDraft {
		return nil, ErrCycleNotDraft
	}

	report, err := s.Validate(ctx, cycleID)
	if err != nil {
		return nil, err
	}
	if !report.Publishable {
		return report, ErrCycleHasViolations
	}

	now := time.Now()
	cycle.Status = model.CycleStatusPublished
	cycle.PublishedAt = &now
	cycle.UpdatedBy = operatorRef(operator)
	if err := s.repo.ScheduleCycle.Update(ctx, cycle); err != nil {
		return nil, err
	}

	s.logger.Info("周期已发布", zap.String("cycle_id", cycleID), zap.String("operator", operator))
	return report, nil
}

// ── lead 指定 ──

// SetDesignatedLead 指定槽位 lead。
//
// 唯一性与资格均由存储层原子保证（部分唯一索引 + 触发器），
// 这里只把存储层哨兵翻译成结果码；除排障日志外不读取任何
// 中间状态，因此并发的两次指定不可能同时成功。
func (s *ScheduleService) SetDesignatedLead(ctx context.Context, cycleID string, req *dto.SetLeadRequest) (*SetLeadResult, error) {
	if _, err := s.getCycle(ctx, cycleID); err != nil {
		return nil, err
	}
	day, ok := parseDate(req.Date)
	if !ok {
		return nil, errors.New("日期格式非法")
	}

	result := &SetLeadResult{
		TherapistID: req.TherapistID,
		Date:        req.Date,
		ShiftType:   req.ShiftType,
	}

	err := s.repo.Shift.SetDesignatedLead(ctx, cycleID, req.TherapistID, day, req.ShiftType)
	switch {
	case err == nil:
		result.Status = "ok"
	case errors.Is(err, repository.ErrLeadSlotTaken):
		result.Status = string(ReasonMultipleLeadsPrevented)
	case errors.Is(err, repository.ErrLeadIneligible):
		result.Status = string(ReasonLeadNotEligible)
	default:
		result.Status = string(ReasonFailed)
		s.logger.Error("lead 指定失败",
			zap.String("cycle_id", cycleID),
			zap.String("therapist_id", req.TherapistID),
			zap.String("date", req.Date),
			zap.String("shift_type", req.ShiftType),
			zap.Error(err))
	}
	return result, nil
}

// ClearDesignatedLead 撤销槽位现有 lead（降回 staff）
func (s *ScheduleService) ClearDesignatedLead(ctx context.Context, cycleID, date, shiftType string) error {
	if _, err := s.getCycle(ctx, cycleID); err != nil {
		return err
	}
	day, ok := parseDate(date)
	if !ok {
		return errors.New("日期格式非法")
	}
	return s.repo.Shift.ClearDesignatedLead(ctx, cycleID, day, shiftType)
}

// ── 探查与班次维护 ──

// CheckEligibility 只读资格探查，供排障界面展示完整原因码
func (s *ScheduleService) CheckEligibility(ctx context.Context, cycleID string, req *dto.EligibilityProbeRequest) (*EligibilityResult, error) {
	if _, err := s.getCycle(ctx, cycleID); err != nil {
		return nil, err
	}
	therapist, err := s.repo.Therapist.GetByID(ctx, req.TherapistID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTherapistNotFound
		}
		return nil, err
	}
	overrides, err := s.repo.AvailabilityOverride.ListByCycle(ctx, cycleID)
	if err != nil {
		return nil, err
	}

	strategy := strategyFromName(req.Strategy)
	res := strategy.Resolve(therapist, therapist.Pattern, cycleID, req.Date, req.ShiftType, overrides)
	return &res, nil
}

// GetCycleShifts 返回周期内全部班次（含治疗师信息）
func (s *ScheduleService) GetCycleShifts(ctx context.Context, cycleID string) ([]model.Shift, error) {
	if _, err := s.getCycle(ctx, cycleID); err != nil {
		return nil, err
	}
	return s.repo.Shift.ListByCycle(ctx, cycleID)
}

// UpdateShiftStatus 更新班次状态（病假、取消等）
func (s *ScheduleService) UpdateShiftStatus(ctx context.Context, shiftID, status, operator string) error {
	err := s.repo.Shift.UpdateStatus(ctx, shiftID, status, operator)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrShiftNotFound
	}
	return err
}

// RemoveShift 删除单个班次
func (s *ScheduleService) RemoveShift(ctx context.Context, shiftID string) error {
	if _, err := s.repo.Shift.GetByID(ctx, shiftID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrShiftNotFound
		}
		return err
	}
	return s.repo.Shift.Delete(ctx, shiftID)
}

func (s *ScheduleService) getCycle(ctx context.Context, cycleID string) (*model.ScheduleCycle, error) {
	cycle, err := s.repo.ScheduleCycle.GetByID(ctx, cycleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCycleNotFound
		}
		return nil, err
	}
	return cycle, nil
}
