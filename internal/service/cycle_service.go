package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"rt-roster/backend/internal/dto"
	"rt-roster/backend/internal/model"
	"rt-roster/backend/internal/repository"
)

var (
	ErrInvalidDateRange   = errors.New("结束日期不能早于开始日期")
	ErrOverrideNotFound   = errors.New("可用性覆盖不存在")
	ErrCycleNotModifiable = errors.New("已发布或已归档的周期不可修改")
)

// CycleService 排班周期与可用性覆盖管理
type CycleService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

func NewCycleService(repo *repository.Repository, logger *zap.Logger) *CycleService {
	return &CycleService{repo: repo, logger: logger}
}

// Create 创建排班周期（初始为 draft）
func (s *CycleService) Create(ctx context.Context, req *dto.CreateCycleRequest, operator string) (*model.ScheduleCycle, error) {
	start, ok1 := parseDate(req.StartDate)
	end, ok2 := parseDate(req.EndDate)
	if !ok1 || !ok2 {
		return nil, errors.New("日期格式非法")
	}
	if end.Before(start) {
		return nil, ErrInvalidDateRange
	}

	cycle := &model.ScheduleCycle{
		Label:          req.Label,
		StartDate:      start,
		EndDate:        end,
		Status:         model.CycleStatusDraft,
		VersionedModel: newVersionedModel(operator),
	}
	if err := s.repo.ScheduleCycle.Create(ctx, cycle); err != nil {
		return nil, err
	}
	s.logger.Info("排班周期已创建",
		zap.String("cycle_id", cycle.CycleID),
		zap.String("label", cycle.Label))
	return cycle, nil
}

// Get 按 ID 获取周期
func (s *CycleService) Get(ctx context.Context, id string) (*model.ScheduleCycle, error) {
	cycle, err := s.repo.ScheduleCycle.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCycleNotFound
		}
		return nil, err
	}
	return cycle, nil
}

// List 周期列表（开始日期倒序）
func (s *CycleService) List(ctx context.Context) ([]model.ScheduleCycle, error) {
	return s.repo.ScheduleCycle.List(ctx)
}

// Update 更新周期基本信息，仅 draft 可改
func (s *CycleService) Update(ctx context.Context, id string, req *dto.UpdateCycleRequest, operator string) (*model.ScheduleCycle, error) {
	cycle, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if cycle.Status != model.CycleStatusDraft {
		return nil, ErrCycleNotModifiable
	}

	start, ok1 := parseDate(req.StartDate)
	end, ok2 := parseDate(req.EndDate)
	if !ok1 || !ok2 {
		return nil, errors.New("日期格式非法")
	}
	if end.Before(start) {
		return nil, ErrInvalidDateRange
	}

	cycle.Label = req.Label
	cycle.StartDate = start
	cycle.EndDate = end
	cycle.UpdatedBy = operatorRef(operator)
	cycle.Version = req.Version

	if err := s.repo.ScheduleCycle.Update(ctx, cycle); err != nil {
		return nil, err
	}
	return cycle, nil
}

// Archive 归档周期
func (s *CycleService) Archive(ctx context.Context, id, operator string) error {
	cycle, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	cycle.Status = model.CycleStatusArchived
	cycle.UpdatedBy = operatorRef(operator)
	return s.repo.ScheduleCycle.Update(ctx, cycle)
}

// Delete 删除周期（连同班次与覆盖记录，依赖外键级联）
func (s *CycleService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.repo.ScheduleCycle.Delete(ctx, id)
}

// ── 可用性覆盖 ──

// CreateOverride 登记可用性覆盖，作用域精确到（周期, 治疗师, 日期, 班次）
func (s *CycleService) CreateOverride(ctx context.Context, cycleID string, req *dto.CreateOverrideRequest, operator string) (*model.AvailabilityOverride, error) {
	cycle, err := s.Get(ctx, cycleID)
	if err != nil {
		return nil, err
	}
	if cycle.Status != model.CycleStatusDraft {
		return nil, ErrCycleNotModifiable
	}

	day, ok := parseDate(req.Date)
	if !ok {
		return nil, errors.New("日期格式非法")
	}

	override := &model.AvailabilityOverride{
		CycleID:        cycleID,
		TherapistID:    req.TherapistID,
		Date:           day,
		ShiftType:      defaultString(req.ShiftType, model.ShiftTypeBoth),
		OverrideType:   req.OverrideType,
		Note:           req.Note,
		VersionedModel: newVersionedModel(operator),
	}
	if err := s.repo.AvailabilityOverride.Create(ctx, override); err != nil {
		return nil, err
	}
	return override, nil
}

// ListOverrides 周期内全部覆盖记录
func (s *CycleService) ListOverrides(ctx context.Context, cycleID string) ([]model.AvailabilityOverride, error) {
	if _, err := s.Get(ctx, cycleID); err != nil {
		return nil, err
	}
	return s.repo.AvailabilityOverride.ListByCycle(ctx, cycleID)
}

// DeleteOverride 删除覆盖记录
func (s *CycleService) DeleteOverride(ctx context.Context, id string) error {
	if _, err := s.repo.AvailabilityOverride.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOverrideNotFound
		}
		return err
	}
	return s.repo.AvailabilityOverride.Delete(ctx, id)
}
