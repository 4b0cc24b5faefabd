package service

import "rt-roster/backend/internal/model"

// ── 槽位填充（轮询贪心）──
//
// 轮询游标为显式传入/返回的下标，绝不作为共享状态保存：
// 并发的两次填充不允许交错同一个游标（见 SlotFillParams 注释）。

// Candidate 槽位填充候选人（治疗师 + 其排班模式快照）
type Candidate struct {
	Therapist *model.Therapist
	Pattern   *model.WorkPattern
}

// SlotFillParams FillSlot 入参。
//
// AssignedToday / WeeklyWorked 是调用方读取后显式传入的快照，
// FillSlot 在选中候选人时就地更新它们，便于调用方跨槽位复用；
// 调用方负责在每轮自动排班前重新读取新鲜状态，并保证同一周期
// 不会有两轮填充并发执行。
type SlotFillParams struct {
	Candidates []Candidate
	Cursor     int    // 轮询起点（候选人下标）
	CycleID    string
	Date       string // ISO 日期
	ShiftType  string // day | night
	Overrides  []model.AvailabilityOverride

	AssignedToday map[string]bool            // therapistID → 该日期已有分配
	WeeklyWorked  map[string]map[string]bool // therapistID → 该周已工作日期集合
	WeeklyLimits  map[string]int             // therapistID → 每周最大工作天数

	CurrentCoverage int
	TargetCoverage  int
	MinCoverage     int

	Strategy EligibilityStrategy // 为 nil 时使用 PatternStrategy
}

// SlotFillResult FillSlot 出参
type SlotFillResult struct {
	Picked         []string   // 本次选中的治疗师 ID（按选取顺序）
	NextCursor     int        // 下一槽位的轮询起点
	Coverage       int        // 填充后的覆盖人数
	UnfilledCount  int        // 距目标覆盖的缺口
	UnfilledReason ReasonCode // 覆盖仍低于最低值时为 no_eligible_candidates_due_to_constraints，否则为空
}

// FillSlot 将一个（日期, 班次）槽位填充至目标覆盖人数。
//
// 反复执行单次选取，直到覆盖达标或一整圈扫描选不出人为止。
// 保证：同一治疗师同一日期绝不重复分配；绝不使任何人的周工作
// 天数超过其个人上限；单次选取至多完整扫描候选列表一圈，O(n) 有界。
func FillSlot(p SlotFillParams) SlotFillResult {
	strategy := p.Strategy
	if strategy == nil {
		strategy = PatternStrategy{}
	}
	if p.AssignedToday == nil {
		p.AssignedToday = make(map[string]bool)
	}
	if p.WeeklyWorked == nil {
		p.WeeklyWorked = make(map[string]map[string]bool)
	}

	cursor := p.Cursor
	coverage := p.CurrentCoverage
	var picked []string

	for coverage < p.TargetCoverage {
		idx := pickNext(&p, strategy, cursor)
		if idx < 0 {
			// 一整圈找不到可用候选人：停止填充，游标停在失败扫描的起点
			break
		}

		chosen := p.Candidates[idx].Therapist
		picked = append(picked, chosen.TherapistID)
		coverage++

		// 更新快照：当日已排 + 周工作日期集合
		p.AssignedToday[chosen.TherapistID] = true
		if p.WeeklyWorked[chosen.TherapistID] == nil {
			p.WeeklyWorked[chosen.TherapistID] = make(map[string]bool)
		}
		p.WeeklyWorked[chosen.TherapistID][p.Date] = true

		// 轮询：游标越过被选中者
		cursor = (idx + 1) % len(p.Candidates)
	}

	result := SlotFillResult{
		Picked:        picked,
		NextCursor:    cursor,
		Coverage:      coverage,
		UnfilledCount: p.TargetCoverage - coverage,
	}
	if coverage < p.MinCoverage {
		result.UnfilledReason = ReasonNoEligibleCandidates
	}
	return result
}

// pickNext 单次选取：从 cursor 起最多环绕扫描一圈。
//
// 跳过：当日已排、资格判定不通过、将使周工作天数超上限
// （目标日期已在其周工作集合中时不算新增天数）。
// 在可用候选中优先选择偏好星期包含目标星期者，否则取扫描序中
// 第一个可用者。找不到返回 -1。
func pickNext(p *SlotFillParams, strategy EligibilityStrategy, cursor int) int {
	n := len(p.Candidates)
	if n == 0 {
		return -1
	}

	weekday := -1
	if day, ok := parseDate(p.Date); ok {
		weekday = int(day.Weekday())
	}

	first := -1
	for off := 0; off < n; off++ {
		i := (cursor + off) % n
		c := p.Candidates[i]
		id := c.Therapist.TherapistID

		if p.AssignedToday[id] {
			continue
		}

		res := strategy.Resolve(c.Therapist, c.Pattern, p.CycleID, p.Date, p.ShiftType, p.Overrides)
		if !res.Allowed {
			continue
		}

		// 周上限：重复确认已有工作日不算新增
		if !p.WeeklyWorked[id][p.Date] {
			limit, ok := p.WeeklyLimits[id]
			if !ok {
				limit = c.Therapist.MaxWorkDaysPerWeek
			}
			if len(p.WeeklyWorked[id]) >= limit {
				continue
			}
		}

		if weekday >= 0 && c.Therapist.PreferredWeekdays.Contains(weekday) {
			return i
		}
		if first < 0 {
			first = i
		}
	}

	return first
}
