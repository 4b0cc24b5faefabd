package repository

import (
	"context"

	"gorm.io/gorm"

	"rt-roster/backend/internal/model"
	pkgerrors "rt-roster/backend/pkg/errors"
)

// TherapistRepository 治疗师数据访问接口
type TherapistRepository interface {
	Create(ctx context.Context, therapist *model.Therapist) error
	GetByID(ctx context.Context, id string) (*model.Therapist, error)
	List(ctx context.Context, activeOnly bool) ([]model.Therapist, error)
	Update(ctx context.Context, therapist *model.Therapist) error
	Delete(ctx context.Context, id string) error
}

type therapistRepo struct {
	db *gorm.DB
}

func NewTherapistRepo(db *gorm.DB) TherapistRepository {
	return &therapistRepo{db: db}
}

func (r *therapistRepo) Create(ctx context.Context, therapist *model.Therapist) error {
	return r.db.WithContext(ctx).Create(therapist).Error
}

func (r *therapistRepo) GetByID(ctx context.Context, id string) (*model.Therapist, error) {
	var therapist model.Therapist
	err := r.db.WithContext(ctx).
		Preload("Pattern").
		Where("therapist_id = ?", id).
		First(&therapist).Error
	if err != nil {
		return nil, err
	}
	return &therapist, nil
}

func (r *therapistRepo) List(ctx context.Context, activeOnly bool) ([]model.Therapist, error) {
	var therapists []model.Therapist
	q := r.db.WithContext(ctx).Preload("Pattern")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	err := q.Order("full_name ASC, therapist_id ASC").Find(&therapists).Error
	return therapists, err
}

func (r *therapistRepo) Update(ctx context.Context, therapist *model.Therapist) error {
	oldVersion := therapist.Version
	result := r.db.WithContext(ctx).
		Model(therapist).
		Where("therapist_id = ? AND version = ?", therapist.TherapistID, oldVersion).
		Updates(map[string]interface{}{
			"full_name":              therapist.FullName,
			"shift_preference":       therapist.ShiftPreference,
			"employment_type":        therapist.EmploymentType,
			"lead_eligible":          therapist.LeadEligible,
			"max_work_days_per_week": therapist.MaxWorkDaysPerWeek,
			"preferred_weekdays":     therapist.PreferredWeekdays,
			"on_fmla":                therapist.OnFMLA,
			"fmla_return_date":       therapist.FMLAReturnDate,
			"is_active":              therapist.IsActive,
			"updated_by":             therapist.UpdatedBy,
			"version":                oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	therapist.Version = oldVersion + 1
	return nil
}

func (r *therapistRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("therapist_id = ?", id).
		Delete(&model.Therapist{}).Error
}
