package service

import (
	"time"

	"rt-roster/backend/internal/model"
)

// ── 排班资格原因码 ──
//
// 资格判定永不抛出异常：任何结果（含拒绝）都以原因码表达，
// 调用方可对原因码做穷举分支。对外暴露的词汇表与 API 文档一致。

// ReasonCode 资格/填充/写入结果的原因码
type ReasonCode string

const (
	ReasonAllowed                    ReasonCode = "allowed"
	ReasonInactive                   ReasonCode = "inactive"
	ReasonOnFMLA                     ReasonCode = "on_fmla"
	ReasonOverrideForceOff           ReasonCode = "override_force_off"
	ReasonOverrideForceOn            ReasonCode = "override_force_on"
	ReasonBlockedOffsDow             ReasonCode = "blocked_offs_dow"
	ReasonBlockedEveryOtherWeekend   ReasonCode = "blocked_every_other_weekend"
	ReasonBlockedOutsideWorksDowHard ReasonCode = "blocked_outside_works_dow_hard"
	ReasonSoftOutsideWorksDow        ReasonCode = "soft_outside_works_dow"
	ReasonPRNNotOfferedForDate       ReasonCode = "prn_not_offered_for_date"
	ReasonNoEligibleCandidates       ReasonCode = "no_eligible_candidates_due_to_constraints"
	ReasonMultipleLeadsPrevented     ReasonCode = "multiple_leads_prevented"
	ReasonLeadNotEligible            ReasonCode = "lead_not_eligible"
	ReasonFailed                     ReasonCode = "failed"
)

// softPatternPenalty 软模式下排到 works_dow 之外的惩罚分
// 仅用于优先级/打分，不影响资格本身
const softPatternPenalty = 25

// EligibilityResult 资格判定结果
// Allowed 仅在 allowed / override_force_on / soft_outside_works_dow 三种结果下为 true
type EligibilityResult struct {
	Allowed      bool       `json:"allowed"`
	Reason       ReasonCode `json:"reason"`
	Penalty      int        `json:"penalty"`
	OverrideNote string     `json:"override_note,omitempty"`
}

// EligibilityStrategy 资格判定策略
//
// 原始系统中存在两套重叠的资格机制：hard/soft 周模式引擎，
// 与轮询选人用的偏好星期列表。哪一套是权威语义并无定论，
// 因此二者都以策略形式暴露，由调用方选择；默认为 PatternStrategy。
type EligibilityStrategy interface {
	// Resolve 纯函数：不读存储、不写任何状态，所有输入显式传入
	Resolve(t *model.Therapist, pattern *model.WorkPattern, cycleID, date, shiftType string, overrides []model.AvailabilityOverride) EligibilityResult
}

// PatternStrategy 周模式引擎策略（完整优先级链，默认策略）
type PatternStrategy struct{}

// PreferredDaysStrategy 偏好星期列表策略（仅按 Therapist.PreferredWeekdays 判定）
type PreferredDaysStrategy struct{}

// ── 判定实现 ──

func blockedResult(reason ReasonCode) EligibilityResult {
	return EligibilityResult{Allowed: false, Reason: reason}
}

func allowedResult() EligibilityResult {
	return EligibilityResult{Allowed: true, Reason: ReasonAllowed}
}

// parseDate 解析 ISO 日期；失败时 ok=false，调用方按硬阻断处理
func parseDate(s string) (time.Time, bool) {
	t, err := time.Parse(model.DateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// resolvePrelude 两种策略共用的前置判定：
// inactive → 日期合法性 → on_fmla → 覆盖记录。
// handled=true 表示已得出最终结果；否则继续按策略判定，day 为已解析日期。
func resolvePrelude(t *model.Therapist, cycleID, date, shiftType string, overrides []model.AvailabilityOverride) (EligibilityResult, bool, time.Time) {
	// 1. 停用状态优先于一切（包括 force_on）
	if !t.IsActive {
		return blockedResult(ReasonInactive), true, time.Time{}
	}

	// 无法解析的日期按硬阻断处理，绝不 panic
	day, ok := parseDate(date)
	if !ok {
		return blockedResult(ReasonFailed), true, time.Time{}
	}

	// 2. FMLA 休假；已到返岗日期则不再阻断
	if t.OnFMLA && (t.FMLAReturnDate == nil || day.Before(*t.FMLAReturnDate)) {
		return blockedResult(ReasonOnFMLA), true, time.Time{}
	}

	// 3. 覆盖记录：严格限定（周期, 治疗师, 日期），班次 both 匹配任意班次。
	//    force_off 恒胜于 force_on
	var forceOn *model.AvailabilityOverride
	for i := range overrides {
		ov := &overrides[i]
		if ov.CycleID != cycleID || ov.TherapistID != t.TherapistID {
			continue
		}
		if ov.Date.Format(model.DateLayout) != date {
			continue
		}
		if ov.ShiftType != model.ShiftTypeBoth && ov.ShiftType != shiftType {
			continue
		}
		if ov.OverrideType == model.OverrideForceOff {
			res := blockedResult(ReasonOverrideForceOff)
			res.OverrideNote = ov.Note
			return res, true, time.Time{}
		}
		if ov.OverrideType == model.OverrideForceOn && forceOn == nil {
			forceOn = ov
		}
	}
	if forceOn != nil {
		res := EligibilityResult{Allowed: true, Reason: ReasonOverrideForceOn, OverrideNote: forceOn.Note}
		return res, true, time.Time{}
	}

	return EligibilityResult{}, false, day
}

// Resolve 周模式引擎判定，优先级自上而下、首个命中即返回：
// inactive → on_fmla → 覆盖 → 无模式 → offs_dow → 隔周周末 → hard/soft works_dow → PRN 降级
func (PatternStrategy) Resolve(t *model.Therapist, pattern *model.WorkPattern, cycleID, date, shiftType string, overrides []model.AvailabilityOverride) EligibilityResult {
	res, handled, day := resolvePrelude(t, cycleID, date, shiftType, overrides)
	if handled {
		return res
	}

	weekday := int(day.Weekday())

	// 4. 无模式：PRN 必须被明确提供日期，其他雇佣类型默认可排
	if pattern == nil {
		if t.EmploymentType == model.EmploymentPRN {
			return blockedResult(ReasonPRNNotOfferedForDate)
		}
		return allowedResult()
	}

	// 5. 模式判定
	if pattern.OffsDow.Contains(weekday) {
		return blockedResult(ReasonBlockedOffsDow)
	}

	if (weekday == 0 || weekday == 6) &&
		pattern.WeekendRotation == model.WeekendRotationEveryOther &&
		pattern.WeekendAnchorDate != nil {
		if !onWorkingWeekend(day, *pattern.WeekendAnchorDate) {
			return blockedResult(ReasonBlockedEveryOtherWeekend)
		}
	}

	result := allowedResult()
	if len(pattern.WorksDow) > 0 && !pattern.WorksDow.Contains(weekday) {
		if pattern.Mode != model.PatternModeSoft {
			return blockedResult(ReasonBlockedOutsideWorksDowHard)
		}
		result = EligibilityResult{Allowed: true, Reason: ReasonSoftOutsideWorksDow, Penalty: softPatternPenalty}
	}

	// 6. PRN 降级：即使软模式放行，未在 works_dow 中明确提供的日期也不可排
	if t.EmploymentType == model.EmploymentPRN && !pattern.WorksDow.Contains(weekday) {
		return blockedResult(ReasonPRNNotOfferedForDate)
	}

	return result
}

// Resolve 偏好星期列表判定：前置链相同，之后仅看 PreferredWeekdays
func (PreferredDaysStrategy) Resolve(t *model.Therapist, pattern *model.WorkPattern, cycleID, date, shiftType string, overrides []model.AvailabilityOverride) EligibilityResult {
	res, handled, day := resolvePrelude(t, cycleID, date, shiftType, overrides)
	if handled {
		return res
	}

	weekday := int(day.Weekday())

	if len(t.PreferredWeekdays) == 0 {
		if t.EmploymentType == model.EmploymentPRN {
			return blockedResult(ReasonPRNNotOfferedForDate)
		}
		return allowedResult()
	}

	if !t.PreferredWeekdays.Contains(weekday) {
		if t.EmploymentType == model.EmploymentPRN {
			return blockedResult(ReasonPRNNotOfferedForDate)
		}
		return blockedResult(ReasonBlockedOutsideWorksDowHard)
	}

	return allowedResult()
}

// ── 隔周周末 ──

// weekendSaturday 返回日期所属周末的周六：
// 周日归属前一天的周六，周内日期归属本周（周日锚定）随后的周六
func weekendSaturday(day time.Time) time.Time {
	switch day.Weekday() {
	case time.Saturday:
		return day
	case time.Sunday:
		return day.AddDate(0, 0, -1)
	default:
		return day.AddDate(0, 0, int(time.Saturday-day.Weekday()))
	}
}

// onWorkingWeekend 隔周周末判定：
// 该周末的周六与锚定日期所属周六相差 14 天的整数倍时为工作周末。
// 周期严格为 14 天，对锚定日期之前的周末同样成立
func onWorkingWeekend(day, anchor time.Time) bool {
	sat := weekendSaturday(day)
	anchorSat := weekendSaturday(anchor)
	diff := int(sat.Sub(anchorSat).Hours() / 24)
	return ((diff%14)+14)%14 == 0
}
