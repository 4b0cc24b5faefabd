package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	Account              AccountRepository
	Therapist            TherapistRepository
	WorkPattern          WorkPatternRepository
	AvailabilityOverride AvailabilityOverrideRepository
	ScheduleCycle        ScheduleCycleRepository
	Shift                ShiftRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Account:              NewAccountRepo(db),
		Therapist:            NewTherapistRepo(db),
		WorkPattern:          NewWorkPatternRepo(db),
		AvailabilityOverride: NewAvailabilityOverrideRepo(db),
		ScheduleCycle:        NewScheduleCycleRepo(db),
		Shift:                NewShiftRepo(db),
	}
}
