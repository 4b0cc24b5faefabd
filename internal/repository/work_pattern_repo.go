package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"rt-roster/backend/internal/model"
)

// WorkPatternRepository 排班模式数据访问接口
type WorkPatternRepository interface {
	// Upsert 按 therapist_id 插入或整体更新模式
	Upsert(ctx context.Context, pattern *model.WorkPattern) error
	GetByTherapist(ctx context.Context, therapistID string) (*model.WorkPattern, error)
	ListAll(ctx context.Context) ([]model.WorkPattern, error)
	DeleteByTherapist(ctx context.Context, therapistID string) error
}

type workPatternRepo struct {
	db *gorm.DB
}

func NewWorkPatternRepo(db *gorm.DB) WorkPatternRepository {
	return &workPatternRepo{db: db}
}

func (r *workPatternRepo) Upsert(ctx context.Context, pattern *model.WorkPattern) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "therapist_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"works_dow", "offs_dow", "weekend_rotation", "weekend_anchor_date",
				"mode", "shift_preference", "updated_at", "updated_by",
			}),
		}).
		Create(pattern).Error
}

func (r *workPatternRepo) GetByTherapist(ctx context.Context, therapistID string) (*model.WorkPattern, error) {
	var pattern model.WorkPattern
	err := r.db.WithContext(ctx).
		Where("therapist_id = ?", therapistID).
		First(&pattern).Error
	if err != nil {
		return nil, err
	}
	return &pattern, nil
}

func (r *workPatternRepo) ListAll(ctx context.Context) ([]model.WorkPattern, error) {
	var patterns []model.WorkPattern
	err := r.db.WithContext(ctx).Find(&patterns).Error
	return patterns, err
}

func (r *workPatternRepo) DeleteByTherapist(ctx context.Context, therapistID string) error {
	return r.db.WithContext(ctx).
		Where("therapist_id = ?", therapistID).
		Delete(&model.WorkPattern{}).Error
}
