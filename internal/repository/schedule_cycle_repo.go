package repository

import (
	"context"

	"gorm.io/gorm"

	"rt-roster/backend/internal/model"
	pkgerrors "rt-roster/backend/pkg/errors"
)

// ScheduleCycleRepository 排班周期数据访问接口
type ScheduleCycleRepository interface {
	Create(ctx context.Context, cycle *model.ScheduleCycle) error
	GetByID(ctx context.Context, id string) (*model.ScheduleCycle, error)
	List(ctx context.Context) ([]model.ScheduleCycle, error)
	Update(ctx context.Context, cycle *model.ScheduleCycle) error
	Delete(ctx context.Context, id string) error
}

type scheduleCycleRepo struct {
	db *gorm.DB
}

func NewScheduleCycleRepo(db *gorm.DB) ScheduleCycleRepository {
	return &scheduleCycleRepo{db: db}
}

func (r *scheduleCycleRepo) Create(ctx context.Context, cycle *model.ScheduleCycle) error {
	return r.db.WithContext(ctx).Create(cycle).Error
}

func (r *scheduleCycleRepo) GetByID(ctx context.Context, id string) (*model.ScheduleCycle, error) {
	var cycle model.ScheduleCycle
	err := r.db.WithContext(ctx).
		Where("cycle_id = ?", id).
		First(&cycle).Error
	if err != nil {
		return nil, err
	}
	return &cycle, nil
}

func (r *scheduleCycleRepo) List(ctx context.Context) ([]model.ScheduleCycle, error) {
	var cycles []model.ScheduleCycle
	err := r.db.WithContext(ctx).
		Order("start_date DESC").
		Find(&cycles).Error
	return cycles, err
}

// Update 乐观锁更新，版本不匹配返回 ErrOptimisticLock
func (r *scheduleCycleRepo) Update(ctx context.Context, cycle *model.ScheduleCycle) error {
	oldVersion := cycle.Version
	result := r.db.WithContext(ctx).
		Model(cycle).
		Where("cycle_id = ? AND version = ?", cycle.CycleID, oldVersion).
		Updates(map[string]interface{}{
			"label":        cycle.Label,
			"start_date":   cycle.StartDate,
			"end_date":     cycle.EndDate,
			"status":       cycle.Status,
			"published_at": cycle.PublishedAt,
			"updated_by":   cycle.UpdatedBy,
			"version":      oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	cycle.Version = oldVersion + 1
	return nil
}

func (r *scheduleCycleRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("cycle_id = ?", id).
		Delete(&model.ScheduleCycle{}).Error
}
