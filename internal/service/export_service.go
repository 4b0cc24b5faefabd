package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"rt-roster/backend/internal/model"
	"rt-roster/backend/internal/repository"
)

var (
	ErrExportNoShifts     = errors.New("该周期暂无班次")
	ErrExportGenerateFail = errors.New("生成导出文件失败")
)

// 班次时刻（ICS 导出用，本地时间）
var shiftClock = map[string]struct{ startHour, endHour int }{
	model.ShiftTypeDay:   {7, 19},
	model.ShiftTypeNight: {19, 31}, // 跨日到次日 07:00
}

// ExportService 排班表导出：Excel 值班表与 ICS 日历
type ExportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

func NewExportService(repo *repository.Repository, logger *zap.Logger) *ExportService {
	return &ExportService{repo: repo, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// ExportRoster — 周期值班表导出为 Excel
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - 单 Sheet，行 = 日期，列 = 日班 / 夜班
//   - 单元格：人员姓名列表，lead 以 ★ 前缀标出
//   - 仅导出计入覆盖的班次（scheduled / on_call）
//
// 返回值：buf（Excel 内容）, filename（建议文件名）, error

func (s *ExportService) ExportRoster(ctx context.Context, cycleID string) (*bytes.Buffer, string, error) {
	cycle, err := s.repo.ScheduleCycle.GetByID(ctx, cycleID)
	if err != nil {
		return nil, "", ErrCycleNotFound
	}
	shifts, err := s.repo.Shift.ListByCycle(ctx, cycleID)
	if err != nil {
		s.logger.Error("查询班次失败", zap.Error(err))
		return nil, "", err
	}
	if len(shifts) == 0 {
		return nil, "", ErrExportNoShifts
	}

	// 槽位 → 单元格文本（列表顺序继承仓储排序：lead 在前）
	cells := make(map[SlotKey][]string)
	for i := range shifts {
		sh := &shifts[i]
		if !model.CountsTowardCoverage(sh.Status) {
			continue
		}
		name := sh.TherapistID
		if sh.Therapist != nil {
			name = sh.Therapist.FullName
		}
		if sh.Role == model.RoleLead {
			name = "★" + name
		}
		if sh.Status == model.ShiftStatusOnCall {
			name += " (on call)"
		}
		key := SlotKey{Date: sh.DateString(), ShiftType: sh.ShiftType}
		cells[key] = append(cells[key], name)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "值班表"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(sheetName, "A", "A", 12)
	f.SetColWidth(sheetName, "B", "B", 8)
	f.SetColWidth(sheetName, "C", "D", 40)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// 标题行
	f.SetCellValue(sheetName, "A1", fmt.Sprintf("%s — 值班表", cycle.Label))
	f.MergeCell(sheetName, "A1", "D1")
	f.SetCellStyle(sheetName, "A1", "A1", headerStyle)

	// 表头
	f.SetCellValue(sheetName, "A2", "日期")
	f.SetCellValue(sheetName, "B2", "星期")
	f.SetCellValue(sheetName, "C2", "日班")
	f.SetCellValue(sheetName, "D2", "夜班")

	weekdayNames := []string{"周日", "周一", "周二", "周三", "周四", "周五", "周六"}

	row := 3
	for day := cycle.StartDate; !day.After(cycle.EndDate); day = day.AddDate(0, 0, 1) {
		date := day.Format(model.DateLayout)
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), date)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), weekdayNames[int(day.Weekday())])

		dayCell := strings.Join(cells[SlotKey{Date: date, ShiftType: model.ShiftTypeDay}], ", ")
		nightCell := strings.Join(cells[SlotKey{Date: date, ShiftType: model.ShiftTypeNight}], ", ")
		if dayCell == "" {
			dayCell = "-"
		}
		if nightCell == "" {
			nightCell = "-"
		}
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), dayCell)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), nightCell)
		row++
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("值班表_%s.xlsx", cycle.Label)
	return buf, filename, nil
}

// ExportTherapistCalendar 导出单个治疗师在周期内的班次为 ICS 日历。
// 夜班跨日（19:00 ～ 次日 07:00），取消/病假班次不导出。
func (s *ExportService) ExportTherapistCalendar(ctx context.Context, cycleID, therapistID string) (*bytes.Buffer, string, error) {
	cycle, err := s.repo.ScheduleCycle.GetByID(ctx, cycleID)
	if err != nil {
		return nil, "", ErrCycleNotFound
	}
	therapist, err := s.repo.Therapist.GetByID(ctx, therapistID)
	if err != nil {
		return nil, "", ErrTherapistNotFound
	}
	shifts, err := s.repo.Shift.ListByCycleAndTherapist(ctx, cycleID, therapistID)
	if err != nil {
		return nil, "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//rt-roster//roster-export//EN")

	now := time.Now()
	for i := range shifts {
		sh := &shifts[i]
		if !model.CountsTowardCoverage(sh.Status) {
			continue
		}
		clock, ok := shiftClock[sh.ShiftType]
		if !ok {
			continue
		}
		day := sh.Date
		start := time.Date(day.Year(), day.Month(), day.Day(), clock.startHour, 0, 0, 0, day.Location())
		end := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location()).
			Add(time.Duration(clock.endHour) * time.Hour)

		event := cal.AddEvent(fmt.Sprintf("%s@rt-roster", sh.ShiftID))
		event.SetCreatedTime(now)
		event.SetDtStampTime(now)
		event.SetStartAt(start)
		event.SetEndAt(end)

		summary := fmt.Sprintf("%s 班", shiftTypeLabel(sh.ShiftType))
		if sh.Role == model.RoleLead {
			summary += "（lead）"
		}
		if sh.Status == model.ShiftStatusOnCall {
			summary += "（on call）"
		}
		event.SetSummary(summary)
		event.SetDescription(fmt.Sprintf("周期: %s", cycle.Label))
	}

	buf := bytes.NewBufferString(cal.Serialize())
	filename := fmt.Sprintf("班表_%s_%s.ics", therapist.FullName, cycle.Label)
	return buf, filename, nil
}

func shiftTypeLabel(shiftType string) string {
	if shiftType == model.ShiftTypeNight {
		return "夜"
	}
	return "日"
}
