package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"rt-roster/backend/internal/dto"
	"rt-roster/backend/internal/model"
	"rt-roster/backend/internal/repository"
)

// TherapistService 治疗师与排班模式管理
type TherapistService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

func NewTherapistService(repo *repository.Repository, logger *zap.Logger) *TherapistService {
	return &TherapistService{repo: repo, logger: logger}
}

// Create 创建治疗师
func (s *TherapistService) Create(ctx context.Context, req *dto.CreateTherapistRequest, operator string) (*model.Therapist, error) {
	therapist := &model.Therapist{
		FullName:           req.FullName,
		ShiftPreference:    defaultString(req.ShiftPreference, model.ShiftPrefEither),
		EmploymentType:     req.EmploymentType,
		LeadEligible:       req.LeadEligible,
		MaxWorkDaysPerWeek: defaultInt(req.MaxWorkDaysPerWeek, 5),
		PreferredWeekdays:  normalizeDowSet(req.PreferredWeekdays),
		IsActive:           true,
		VersionedModel:     newVersionedModel(operator),
	}
	if err := s.repo.Therapist.Create(ctx, therapist); err != nil {
		return nil, err
	}
	s.logger.Info("治疗师已创建", zap.String("therapist_id", therapist.TherapistID), zap.String("operator", operator))
	return therapist, nil
}

// Get 按 ID 获取治疗师（含排班模式）
func (s *TherapistService) Get(ctx context.Context, id string) (*model.Therapist, error) {
	therapist, err := s.repo.Therapist.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTherapistNotFound
		}
		return nil, err
	}
	return therapist, nil
}

// List 治疗师列表
func (s *TherapistService) List(ctx context.Context, activeOnly bool) ([]model.Therapist, error) {
	return s.repo.Therapist.List(ctx, activeOnly)
}

// Update 整体更新治疗师，版本号不匹配返回 ErrOptimisticLock
func (s *TherapistService) Update(ctx context.Context, id string, req *dto.UpdateTherapistRequest, operator string) (*model.Therapist, error) {
	therapist, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	var fmlaReturn *time.Time
	if req.FMLAReturnDate != nil {
		day, ok := parseDate(*req.FMLAReturnDate)
		if !ok {
			return nil, errors.New("fmla_return_date 格式非法")
		}
		fmlaReturn = &day
	}

	therapist.FullName = req.FullName
	therapist.ShiftPreference = req.ShiftPreference
	therapist.EmploymentType = req.EmploymentType
	therapist.LeadEligible = req.LeadEligible
	therapist.MaxWorkDaysPerWeek = req.MaxWorkDaysPerWeek
	therapist.PreferredWeekdays = normalizeDowSet(req.PreferredWeekdays)
	therapist.OnFMLA = req.OnFMLA
	therapist.FMLAReturnDate = fmlaReturn
	therapist.IsActive = req.IsActive
	therapist.UpdatedBy = operatorRef(operator)
	therapist.Version = req.Version

	if err := s.repo.Therapist.Update(ctx, therapist); err != nil {
		return nil, err
	}
	return therapist, nil
}

// Deactivate 停用治疗师（软下线，历史班次保留）
func (s *TherapistService) Deactivate(ctx context.Context, id, operator string) error {
	therapist, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	therapist.IsActive = false
	therapist.UpdatedBy = operatorRef(operator)
	return s.repo.Therapist.Update(ctx, therapist)
}

// UpsertPattern 设置或整体替换排班模式。
// 入库前统一规整：星期集合去重排序、越界值剔除、依赖字段归位。
func (s *TherapistService) UpsertPattern(ctx context.Context, therapistID string, req *dto.UpsertWorkPatternRequest, operator string) (*model.WorkPattern, error) {
	if _, err := s.Get(ctx, therapistID); err != nil {
		return nil, err
	}

	var anchor *time.Time
	if req.WeekendAnchorDate != nil {
		day, ok := parseDate(*req.WeekendAnchorDate)
		if !ok {
			return nil, errors.New("weekend_anchor_date 格式非法")
		}
		anchor = &day
	}

	normalized := NormalizeWorkPattern(model.WorkPattern{
		TherapistID:       therapistID,
		WorksDow:          model.IntArray(req.WorksDow),
		OffsDow:           model.IntArray(req.OffsDow),
		WeekendRotation:   req.WeekendRotation,
		WeekendAnchorDate: anchor,
		Mode:              req.Mode,
		ShiftPreference:   req.ShiftPreference,
	})
	normalized.VersionedModel = newVersionedModel(operator)

	if err := s.repo.WorkPattern.Upsert(ctx, &normalized); err != nil {
		return nil, err
	}
	return &normalized, nil
}

// GetPattern 获取治疗师的排班模式，不存在时返回 nil
func (s *TherapistService) GetPattern(ctx context.Context, therapistID string) (*model.WorkPattern, error) {
	pattern, err := s.repo.WorkPattern.GetByTherapist(ctx, therapistID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return pattern, nil
}

// DeletePattern 删除治疗师的排班模式
func (s *TherapistService) DeletePattern(ctx context.Context, therapistID string) error {
	return s.repo.WorkPattern.DeleteByTherapist(ctx, therapistID)
}

// ── 小工具 ──

func defaultString(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func defaultInt(v, fallback int) int {
	if v == 0 {
		return fallback
	}
	return v
}

// operatorRef 操作者 ID 转指针，空字符串（系统操作）写 NULL
func operatorRef(operator string) *string {
	if operator == "" {
		return nil
	}
	return &operator
}

func newVersionedModel(operator string) model.VersionedModel {
	now := time.Now()
	by := operatorRef(operator)
	return model.VersionedModel{
		BaseModel: model.BaseModel{CreatedAt: now, UpdatedAt: now, CreatedBy: by, UpdatedBy: by},
		Version:   1,
	}
}
