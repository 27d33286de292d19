package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/roster-service/internal/domain"
	"github.com/spec-kit/roster-service/internal/persistence"
	"github.com/spec-kit/roster-service/internal/repository"
)

// ── Mock StaffRepository ──

type mockStaffRepo struct {
	staff    map[string]*domain.StaffMember
	nextID   int
	failList bool
}

func newMockStaffRepo() *mockStaffRepo {
	return &mockStaffRepo{staff: make(map[string]*domain.StaffMember)}
}

func (m *mockStaffRepo) Create(_ context.Context, staff *domain.StaffMember) error {
	m.nextID++
	staff.ID = fmt.Sprintf("staff-%d", m.nextID)
	staff.CreatedAt = time.Now()
	staff.UpdatedAt = staff.CreatedAt
	copied := *staff
	m.staff[staff.ID] = &copied
	return nil
}

func (m *mockStaffRepo) Update(_ context.Context, staff *domain.StaffMember) error {
	if _, ok := m.staff[staff.ID]; !ok {
		return pgx.ErrNoRows
	}
	copied := *staff
	m.staff[staff.ID] = &copied
	return nil
}

func (m *mockStaffRepo) GetByID(_ context.Context, id string) (*domain.StaffMember, error) {
	if s, ok := m.staff[id]; ok {
		copied := *s
		return &copied, nil
	}
	return nil, pgx.ErrNoRows
}

func (m *mockStaffRepo) List(_ context.Context, filter repository.StaffFilter) ([]domain.StaffMember, error) {
	if m.failList {
		return nil, errors.New("connection refused")
	}
	var result []domain.StaffMember
	for _, s := range m.staff {
		if filter.Active != nil && s.Active != *filter.Active {
			continue
		}
		if filter.Status != nil && s.Status != *filter.Status {
			continue
		}
		result = append(result, *s)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].DisplayOrder != result[j].DisplayOrder {
			return result[i].DisplayOrder < result[j].DisplayOrder
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (m *mockStaffRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.staff[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(m.staff, id)
	return nil
}

func (m *mockStaffRepo) UpdateDisplayOrder(_ context.Context, id string, order int) error {
	s, ok := m.staff[id]
	if !ok {
		return pgx.ErrNoRows
	}
	s.DisplayOrder = order
	return nil
}

func listAllFilter() repository.StaffFilter {
	return repository.StaffFilter{}
}

// ── Mock OverrideRepository ──

type mockOverrideRepo struct {
	overrides map[string]map[string]*domain.ShiftOverride
}

func newMockOverrideRepo() *mockOverrideRepo {
	return &mockOverrideRepo{overrides: make(map[string]map[string]*domain.ShiftOverride)}
}

func (m *mockOverrideRepo) Upsert(_ context.Context, override *domain.ShiftOverride) error {
	if m.overrides[override.StaffID] == nil {
		m.overrides[override.StaffID] = make(map[string]*domain.ShiftOverride)
	}
	override.UpdatedAt = time.Now()
	copied := *override
	m.overrides[override.StaffID][override.Date] = &copied
	return nil
}

func (m *mockOverrideRepo) DeleteByDate(_ context.Context, staffID, date string) error {
	delete(m.overrides[staffID], date)
	return nil
}

func (m *mockOverrideRepo) ListByStaff(_ context.Context, staffID string) ([]domain.ShiftOverride, error) {
	var result []domain.ShiftOverride
	for _, ov := range m.overrides[staffID] {
		result = append(result, *ov)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date < result[j].Date })
	return result, nil
}

func (m *mockOverrideRepo) ListAll(_ context.Context) ([]domain.ShiftOverride, error) {
	var result []domain.ShiftOverride
	for _, byDate := range m.overrides {
		for _, ov := range byDate {
			result = append(result, *ov)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].StaffID != result[j].StaffID {
			return result[i].StaffID < result[j].StaffID
		}
		return result[i].Date < result[j].Date
	})
	return result, nil
}

// ── Mock SnapshotStore ──

type mockSnapshotStore struct {
	saved    []domain.StaffMember
	saveCnt  int
	loadSnap *persistence.RosterSnapshot
}

func newMockSnapshotStore() *mockSnapshotStore {
	return &mockSnapshotStore{}
}

func (m *mockSnapshotStore) Save(_ context.Context, staff []domain.StaffMember) error {
	m.saved = staff
	m.saveCnt++
	return nil
}

func (m *mockSnapshotStore) Load(_ context.Context) (*persistence.RosterSnapshot, error) {
	if m.loadSnap == nil {
		return nil, errors.New("snapshot missing")
	}
	return m.loadSnap, nil
}

// ── Mock AccountRepository ──

type mockAccountRepo struct {
	accounts map[string]*domain.Account
	nextID   int
}

func newMockAccountRepo() *mockAccountRepo {
	return &mockAccountRepo{accounts: make(map[string]*domain.Account)}
}

func (m *mockAccountRepo) Create(_ context.Context, account *domain.Account) error {
	m.nextID++
	account.ID = fmt.Sprintf("account-%d", m.nextID)
	copied := *account
	m.accounts[account.ID] = &copied
	return nil
}

func (m *mockAccountRepo) Update(_ context.Context, account *domain.Account) error {
	if _, ok := m.accounts[account.ID]; !ok {
		return pgx.ErrNoRows
	}
	copied := *account
	m.accounts[account.ID] = &copied
	return nil
}

func (m *mockAccountRepo) GetByID(_ context.Context, id string) (*domain.Account, error) {
	if a, ok := m.accounts[id]; ok {
		copied := *a
		return &copied, nil
	}
	return nil, pgx.ErrNoRows
}

func (m *mockAccountRepo) GetByEmail(_ context.Context, email string) (*domain.Account, error) {
	for _, a := range m.accounts {
		if a.Email == email {
			copied := *a
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}
