package service

import (
	"sort"

	"rt-roster/backend/internal/model"
)

// NormalizeWorkPattern 将外部录入的排班模式清洗为规范形式。
// 永不失败：无法识别的值一律退化为最宽松的安全默认值。
//
//   - works_dow / offs_dow 去重、升序、过滤到 [0,6]
//   - weekend_rotation 仅接受 every_other（且必须带锚定日期），否则退化为 none
//   - mode 仅接受 soft，否则退化为 hard
//   - shift_preference 仅接受 day/night，否则退化为 either
func NormalizeWorkPattern(raw model.WorkPattern) model.WorkPattern {
	p := raw

	p.WorksDow = normalizeDowSet(raw.WorksDow)
	p.OffsDow = normalizeDowSet(raw.OffsDow)

	if p.WeekendRotation != model.WeekendRotationEveryOther || p.WeekendAnchorDate == nil {
		p.WeekendRotation = model.WeekendRotationNone
		p.WeekendAnchorDate = nil
	}

	if p.Mode != model.PatternModeSoft {
		p.Mode = model.PatternModeHard
	}

	if p.ShiftPreference != model.ShiftPrefDay && p.ShiftPreference != model.ShiftPrefNight {
		p.ShiftPreference = model.ShiftPrefEither
	}

	return p
}

// normalizeDowSet 星期集合规范化：过滤非法值、去重、升序
func normalizeDowSet(raw model.IntArray) model.IntArray {
	seen := make(map[int]bool, len(raw))
	out := make(model.IntArray, 0, len(raw))
	for _, d := range raw {
		if d < 0 || d > 6 || seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, d)
	}
	sort.Ints(out)
	return out
}
