package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"rt-roster/backend/internal/model"
)

// 存储层 lead 变更的哨兵错误。
// 唯一约束冲突与触发器异常在这里被翻译成领域错误，
// 上层 service 只认这三个哨兵，不再接触 Postgres 错误码。
var (
	// ErrLeadSlotTaken 该槽位已有其他 lead（部分唯一索引冲突）
	ErrLeadSlotTaken = errors.New("该槽位已存在指定 lead")
	// ErrLeadIneligible 目标治疗师不具备 lead 资格（触发器拒绝）
	ErrLeadIneligible = errors.New("该治疗师不具备 lead 资格")
	// ErrShiftAssignmentMissing 目标治疗师在该槽位没有有效班次
	ErrShiftAssignmentMissing = errors.New("该治疗师在此槽位没有有效班次")
)

// Postgres 错误码
const (
	pgCodeUniqueViolation = "23505" // unique_violation
	pgCodeRaiseException  = "P0001" // raise_exception
)

// ShiftRepository 班次数据访问接口
type ShiftRepository interface {
	BatchCreate(ctx context.Context, shifts []model.Shift) error
	GetByID(ctx context.Context, id string) (*model.Shift, error)
	ListByCycle(ctx context.Context, cycleID string) ([]model.Shift, error)
	ListByCycleAndTherapist(ctx context.Context, cycleID, therapistID string) ([]model.Shift, error)
	UpdateStatus(ctx context.Context, shiftID, status, updatedBy string) error
	Delete(ctx context.Context, shiftID string) error
	DeleteByCycle(ctx context.Context, cycleID string) error

	// SetDesignatedLead 原子地将指定治疗师在槽位内的班次升为 lead。
	// 单条 UPDATE 依赖部分唯一索引与资格触发器保证不变量，
	// 失败时返回上方哨兵错误之一。
	SetDesignatedLead(ctx context.Context, cycleID, therapistID string, date time.Time, shiftType string) error
	// ClearDesignatedLead 将槽位内现有 lead 降回 staff
	ClearDesignatedLead(ctx context.Context, cycleID string, date time.Time, shiftType string) error
}

type shiftRepo struct {
	db *gorm.DB
}

func NewShiftRepo(db *gorm.DB) ShiftRepository {
	return &shiftRepo{db: db}
}

func (r *shiftRepo) BatchCreate(ctx context.Context, shifts []model.Shift) error {
	if len(shifts) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(shifts, 200).Error
}

func (r *shiftRepo) GetByID(ctx context.Context, id string) (*model.Shift, error) {
	var shift model.Shift
	err := r.db.WithContext(ctx).
		Where("shift_id = ?", id).
		First(&shift).Error
	if err != nil {
		return nil, err
	}
	return &shift, nil
}

func (r *shiftRepo) ListByCycle(ctx context.Context, cycleID string) ([]model.Shift, error) {
	var shifts []model.Shift
	err := r.db.WithContext(ctx).
		Preload("Therapist").
		Where("cycle_id = ?", cycleID).
		Order("date ASC, shift_type ASC, role DESC, therapist_id ASC").
		Find(&shifts).Error
	return shifts, err
}

func (r *shiftRepo) ListByCycleAndTherapist(ctx context.Context, cycleID, therapistID string) ([]model.Shift, error) {
	var shifts []model.Shift
	err := r.db.WithContext(ctx).
		Where("cycle_id = ? AND therapist_id = ?", cycleID, therapistID).
		Order("date ASC, shift_type ASC").
		Find(&shifts).Error
	return shifts, err
}

func (r *shiftRepo) UpdateStatus(ctx context.Context, shiftID, status, updatedBy string) error {
	var by *string
	if updatedBy != "" {
		by = &updatedBy
	}
	result := r.db.WithContext(ctx).
		Model(&model.Shift{}).
		Where("shift_id = ?", shiftID).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_by": by,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *shiftRepo) Delete(ctx context.Context, shiftID string) error {
	return r.db.WithContext(ctx).
		Where("shift_id = ?", shiftID).
		Delete(&model.Shift{}).Error
}

func (r *shiftRepo) DeleteByCycle(ctx context.Context, cycleID string) error {
	return r.db.WithContext(ctx).
		Where("cycle_id = ?", cycleID).
		Delete(&model.Shift{}).Error
}

func (r *shiftRepo) SetDesignatedLead(ctx context.Context, cycleID, therapistID string, date time.Time, shiftType string) error {
	result := r.db.WithContext(ctx).
		Model(&model.Shift{}).
		Where("cycle_id = ? AND therapist_id = ? AND date = ? AND shift_type = ? AND status IN ?",
			cycleID, therapistID, date, shiftType,
			[]string{model.ShiftStatusScheduled, model.ShiftStatusOnCall}).
		Update("role", model.RoleLead)
	if result.Error != nil {
		return translateLeadError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrShiftAssignmentMissing
	}
	return nil
}

func (r *shiftRepo) ClearDesignatedLead(ctx context.Context, cycleID string, date time.Time, shiftType string) error {
	return r.db.WithContext(ctx).
		Model(&model.Shift{}).
		Where("cycle_id = ? AND date = ? AND shift_type = ? AND role = ?",
			cycleID, date, shiftType, model.RoleLead).
		Update("role", model.RoleStaff).Error
}

// translateLeadError 把 Postgres 错误翻译成领域哨兵。
// 23505 只会由 lead 部分唯一索引触发（staff 行不在索引内）；
// P0001 带 "lead" 字样的是资格触发器抛出的异常。
func translateLeadError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch {
	case pgErr.Code == pgCodeUniqueViolation:
		return ErrLeadSlotTaken
	case pgErr.Code == pgCodeRaiseException && strings.Contains(strings.ToLower(pgErr.Message), "lead"):
		return ErrLeadIneligible
	}
	return err
}
