package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"rt-roster/backend/internal/model"
)

// AvailabilityOverrideRepository 可用性覆盖数据访问接口
type AvailabilityOverrideRepository interface {
	Create(ctx context.Context, override *model.AvailabilityOverride) error
	GetByID(ctx context.Context, id string) (*model.AvailabilityOverride, error)
	ListByCycle(ctx context.Context, cycleID string) ([]model.AvailabilityOverride, error)
	ListByCycleAndDate(ctx context.Context, cycleID string, date time.Time) ([]model.AvailabilityOverride, error)
	Delete(ctx context.Context, id string) error
}

type availabilityOverrideRepo struct {
	db *gorm.DB
}

func NewAvailabilityOverrideRepo(db *gorm.DB) AvailabilityOverrideRepository {
	return &availabilityOverrideRepo{db: db}
}

func (r *availabilityOverrideRepo) Create(ctx context.Context, override *model.AvailabilityOverride) error {
	return r.db.WithContext(ctx).Create(override).Error
}

func (r *availabilityOverrideRepo) GetByID(ctx context.Context, id string) (*model.AvailabilityOverride, error) {
	var override model.AvailabilityOverride
	err := r.db.WithContext(ctx).
		Where("override_id = ?", id).
		First(&override).Error
	if err != nil {
		return nil, err
	}
	return &override, nil
}

func (r *availabilityOverrideRepo) ListByCycle(ctx context.Context, cycleID string) ([]model.AvailabilityOverride, error) {
	var overrides []model.AvailabilityOverride
	err := r.db.WithContext(ctx).
		Where("cycle_id = ?", cycleID).
		Order("date ASC, therapist_id ASC").
		Find(&overrides).Error
	return overrides, err
}

func (r *availabilityOverrideRepo) ListByCycleAndDate(ctx context.Context, cycleID string, date time.Time) ([]model.AvailabilityOverride, error) {
	var overrides []model.AvailabilityOverride
	err := r.db.WithContext(ctx).
		Where("cycle_id = ? AND date = ?", cycleID, date).
		Find(&overrides).Error
	return overrides, err
}

func (r *availabilityOverrideRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("override_id = ?", id).
		Delete(&model.AvailabilityOverride{}).Error
}
