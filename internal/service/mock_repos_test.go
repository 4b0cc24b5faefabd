package service

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"rt-roster/backend/internal/model"
	"rt-roster/backend/internal/repository"
)

// ── Mock AccountRepository ──

type mockAccountRepo struct {
	accounts map[string]*model.Account
}

func newMockAccountRepo() *mockAccountRepo {
	return &mockAccountRepo{accounts: make(map[string]*model.Account)}
}

func (m *mockAccountRepo) GetByID(_ context.Context, id string) (*model.Account, error) {
	if a, ok := m.accounts[id]; ok {
		return a, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAccountRepo) GetByEmail(_ context.Context, email string) (*model.Account, error) {
	for _, a := range m.accounts {
		if a.Email == email {
			return a, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAccountRepo) Create(_ context.Context, account *model.Account) error {
	if account.AccountID == "" {
		account.AccountID = "acc-" + account.Email
	}
	m.accounts[account.AccountID] = account
	return nil
}

func (m *mockAccountRepo) Update(_ context.Context, account *model.Account) error {
	m.accounts[account.AccountID] = account
	return nil
}

// ── Mock TherapistRepository ──

type mockTherapistRepo struct {
	therapists map[string]*model.Therapist
	order      []string
}

func newMockTherapistRepo() *mockTherapistRepo {
	return &mockTherapistRepo{therapists: make(map[string]*model.Therapist)}
}

func (m *mockTherapistRepo) add(t *model.Therapist) {
	m.therapists[t.TherapistID] = t
	m.order = append(m.order, t.TherapistID)
}

func (m *mockTherapistRepo) Create(_ context.Context, t *model.Therapist) error {
	if t.TherapistID == "" {
		t.TherapistID = fmt.Sprintf("t-%d", len(m.order)+1)
	}
	m.add(t)
	return nil
}

func (m *mockTherapistRepo) GetByID(_ context.Context, id string) (*model.Therapist, error) {
	if t, ok := m.therapists[id]; ok {
		return t, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTherapistRepo) List(_ context.Context, activeOnly bool) ([]model.Therapist, error) {
	var result []model.Therapist
	for _, id := range m.order {
		t := m.therapists[id]
		if activeOnly && !t.IsActive {
			continue
		}
		result = append(result, *t)
	}
	return result, nil
}

func (m *mockTherapistRepo) Update(_ context.Context, t *model.Therapist) error {
	if _, ok := m.therapists[t.TherapistID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.therapists[t.TherapistID] = t
	return nil
}

func (m *mockTherapistRepo) Delete(_ context.Context, id string) error {
	delete(m.therapists, id)
	return nil
}

// ── Mock WorkPatternRepository ──

type mockWorkPatternRepo struct {
	patterns map[string]*model.WorkPattern // therapistID → pattern
}

func newMockWorkPatternRepo() *mockWorkPatternRepo {
	return &mockWorkPatternRepo{patterns: make(map[string]*model.WorkPattern)}
}

func (m *mockWorkPatternRepo) Upsert(_ context.Context, p *model.WorkPattern) error {
	m.patterns[p.TherapistID] = p
	return nil
}

func (m *mockWorkPatternRepo) GetByTherapist(_ context.Context, therapistID string) (*model.WorkPattern, error) {
	if p, ok := m.patterns[therapistID]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockWorkPatternRepo) ListAll(_ context.Context) ([]model.WorkPattern, error) {
	var result []model.WorkPattern
	for _, p := range m.patterns {
		result = append(result, *p)
	}
	return result, nil
}

func (m *mockWorkPatternRepo) DeleteByTherapist(_ context.Context, therapistID string) error {
	delete(m.patterns, therapistID)
	return nil
}

// ── Mock AvailabilityOverrideRepository ──

type mockOverrideRepo struct {
	overrides []model.AvailabilityOverride
}

func newMockOverrideRepo() *mockOverrideRepo {
	return &mockOverrideRepo{}
}

func (m *mockOverrideRepo) Create(_ context.Context, o *model.AvailabilityOverride) error {
	if o.OverrideID == "" {
		o.OverrideID = fmt.Sprintf("ov-%d", len(m.overrides)+1)
	}
	m.overrides = append(m.overrides, *o)
	return nil
}

func (m *mockOverrideRepo) GetByID(_ context.Context, id string) (*model.AvailabilityOverride, error) {
	for i := range m.overrides {
		if m.overrides[i].OverrideID == id {
			return &m.overrides[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockOverrideRepo) ListByCycle(_ context.Context, cycleID string) ([]model.AvailabilityOverride, error) {
	var result []model.AvailabilityOverride
	for _, o := range m.overrides {
		if o.CycleID == cycleID {
			result = append(result, o)
		}
	}
	return result, nil
}

func (m *mockOverrideRepo) ListByCycleAndDate(_ context.Context, cycleID string, date time.Time) ([]model.AvailabilityOverride, error) {
	var result []model.AvailabilityOverride
	for _, o := range m.overrides {
		if o.CycleID == cycleID && o.Date.Equal(date) {
			result = append(result, o)
		}
	}
	return result, nil
}

func (m *mockOverrideRepo) Delete(_ context.Context, id string) error {
	for i := range m.overrides {
		if m.overrides[i].OverrideID == id {
			m.overrides = append(m.overrides[:i], m.overrides[i+1:]...)
			return nil
		}
	}
	return nil
}

// ── Mock ScheduleCycleRepository ──

type mockCycleRepo struct {
	cycles map[string]*model.ScheduleCycle
}

func newMockCycleRepo() *mockCycleRepo {
	return &mockCycleRepo{cycles: make(map[string]*model.ScheduleCycle)}
}

func (m *mockCycleRepo) Create(_ context.Context, c *model.ScheduleCycle) error {
	if c.CycleID == "" {
		c.CycleID = "cycle-" + c.Label
	}
	m.cycles[c.CycleID] = c
	return nil
}

func (m *mockCycleRepo) GetByID(_ context.Context, id string) (*model.ScheduleCycle, error) {
	if c, ok := m.cycles[id]; ok {
		copied := *c
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCycleRepo) List(_ context.Context) ([]model.ScheduleCycle, error) {
	var result []model.ScheduleCycle
	for _, c := range m.cycles {
		result = append(result, *c)
	}
	return result, nil
}

func (m *mockCycleRepo) Update(_ context.Context, c *model.ScheduleCycle) error {
	if _, ok := m.cycles[c.CycleID]; !ok {
		return gorm.ErrRecordNotFound
	}
	c.Version++
	m.cycles[c.CycleID] = c
	return nil
}

func (m *mockCycleRepo) Delete(_ context.Context, id string) error {
	delete(m.cycles, id)
	return nil
}

// ── Mock ShiftRepository ──

type mockShiftRepo struct {
	shifts []model.Shift

	// setLeadErr 预置 SetDesignatedLead 的返回错误，模拟存储层约束
	setLeadErr error
}

func newMockShiftRepo() *mockShiftRepo {
	return &mockShiftRepo{}
}

func (m *mockShiftRepo) BatchCreate(_ context.Context, shifts []model.Shift) error {
	for i := range shifts {
		if shifts[i].ShiftID == "" {
			shifts[i].ShiftID = fmt.Sprintf("sh-%d", len(m.shifts)+i+1)
		}
	}
	m.shifts = append(m.shifts, shifts...)
	return nil
}

func (m *mockShiftRepo) GetByID(_ context.Context, id string) (*model.Shift, error) {
	for i := range m.shifts {
		if m.shifts[i].ShiftID == id {
			return &m.shifts[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockShiftRepo) ListByCycle(_ context.Context, cycleID string) ([]model.Shift, error) {
	var result []model.Shift
	for _, sh := range m.shifts {
		if sh.CycleID == cycleID {
			result = append(result, sh)
		}
	}
	return result, nil
}

func (m *mockShiftRepo) ListByCycleAndTherapist(_ context.Context, cycleID, therapistID string) ([]model.Shift, error) {
	var result []model.Shift
	for _, sh := range m.shifts {
		if sh.CycleID == cycleID && sh.TherapistID == therapistID {
			result = append(result, sh)
		}
	}
	return result, nil
}

func (m *mockShiftRepo) UpdateStatus(_ context.Context, shiftID, status, _ string) error {
	for i := range m.shifts {
		if m.shifts[i].ShiftID == shiftID {
			m.shifts[i].Status = status
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *mockShiftRepo) Delete(_ context.Context, shiftID string) error {
	for i := range m.shifts {
		if m.shifts[i].ShiftID == shiftID {
			m.shifts = append(m.shifts[:i], m.shifts[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *mockShiftRepo) DeleteByCycle(_ context.Context, cycleID string) error {
	var kept []model.Shift
	for _, sh := range m.shifts {
		if sh.CycleID != cycleID {
			kept = append(kept, sh)
		}
	}
	m.shifts = kept
	return nil
}

func (m *mockShiftRepo) SetDesignatedLead(_ context.Context, cycleID, therapistID string, date time.Time, shiftType string) error {
	if m.setLeadErr != nil {
		return m.setLeadErr
	}
	for i := range m.shifts {
		sh := &m.shifts[i]
		if sh.CycleID == cycleID && sh.TherapistID == therapistID &&
			sh.Date.Equal(date) && sh.ShiftType == shiftType &&
			model.CountsTowardCoverage(sh.Status) {
			sh.Role = model.RoleLead
			return nil
		}
	}
	return repository.ErrShiftAssignmentMissing
}

func (m *mockShiftRepo) ClearDesignatedLead(_ context.Context, cycleID string, date time.Time, shiftType string) error {
	for i := range m.shifts {
		sh := &m.shifts[i]
		if sh.CycleID == cycleID && sh.Date.Equal(date) && sh.ShiftType == shiftType && sh.Role == model.RoleLead {
			sh.Role = model.RoleStaff
		}
	}
	return nil
}
