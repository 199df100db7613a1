package mock

import (
	"context"
	"sort"
	"sync"

	"github.com/etnagroup/residence/pkg/models"
	"github.com/etnagroup/residence/pkg/repository"
)

// Test helpers and mocks. Each repo keeps rows in memory; setting Err makes
// every call fail with it.
type Mocks struct {
	Complexes *ComplexRepo
	Buildings *BuildingRepo
	Units     *UnitRepo
	Inquiries *InquiryRepo
}

func NewMocks() *Mocks {
	return &Mocks{
		Complexes: &ComplexRepo{table[models.Complex]{rows: map[int64]models.Complex{}}},
		Buildings: &BuildingRepo{table[models.Building]{rows: map[int64]models.Building{}}},
		Units:     &UnitRepo{table[models.Unit]{rows: map[int64]models.Unit{}}},
		Inquiries: &InquiryRepo{table[models.Inquiry]{rows: map[int64]models.Inquiry{}}},
	}
}

var (
	_ repository.ComplexRepo   = (*ComplexRepo)(nil)
	_ repository.BuildingRepo  = (*BuildingRepo)(nil)
	_ repository.UnitRepo      = (*UnitRepo)(nil)
	_ repository.InquiryRepo   = (*InquiryRepo)(nil)
	_ repository.InventoryRepo = (*UnitRepo)(nil)
)

// table is the shared bookkeeping of an in-memory repo.
type table[T any] struct {
	mu     sync.Mutex
	rows   map[int64]T
	nextID int64
	Err    error
}

func (t *table[T]) insert(v T) int64 {
	t.nextID++
	t.rows[t.nextID] = v
	return t.nextID
}

func (t *table[T]) get(id int64) (*T, error) {
	if t.Err != nil {
		return nil, t.Err
	}
	v, ok := t.rows[id]
	if !ok {
		return nil, nil
	}
	return &v, nil
}

// list returns rows in id order, optionally filtered.
func (t *table[T]) list(keep func(T) bool) ([]T, error) {
	if t.Err != nil {
		return nil, t.Err
	}
	ids := make([]int64, 0, len(t.rows))
	for id := range t.rows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := []T{}
	for _, id := range ids {
		if keep == nil || keep(t.rows[id]) {
			out = append(out, t.rows[id])
		}
	}
	return out, nil
}

func (t *table[T]) replace(id int64, v T) error {
	if t.Err != nil {
		return t.Err
	}
	if _, ok := t.rows[id]; !ok {
		return repository.ErrNotFound
	}
	t.rows[id] = v
	return nil
}

func (t *table[T]) remove(id int64) error {
	if t.Err != nil {
		return t.Err
	}
	if _, ok := t.rows[id]; !ok {
		return repository.ErrNotFound
	}
	delete(t.rows, id)
	return nil
}

type ComplexRepo struct{ table[models.Complex] }

func (m *ComplexRepo) CreateComplex(ctx context.Context, c *models.Complex) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return 0, m.Err
	}
	id := m.insert(*c)
	c.ID = id
	m.rows[id] = *c
	return id, nil
}

func (m *ComplexRepo) GetComplex(ctx context.Context, id int64) (*models.Complex, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.get(id)
}

func (m *ComplexRepo) ListComplexes(ctx context.Context) ([]models.Complex, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.list(nil)
}

func (m *ComplexRepo) UpdateComplex(ctx context.Context, c *models.Complex) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.replace(c.ID, *c)
}

func (m *ComplexRepo) DeleteComplex(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.remove(id)
}

type BuildingRepo struct{ table[models.Building] }

func (m *BuildingRepo) CreateBuilding(ctx context.Context, b *models.Building) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return 0, m.Err
	}
	id := m.insert(*b)
	b.ID = id
	m.rows[id] = *b
	return id, nil
}

func (m *BuildingRepo) GetBuilding(ctx context.Context, id int64) (*models.Building, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.get(id)
}

func (m *BuildingRepo) ListBuildings(ctx context.Context) ([]models.Building, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.list(nil)
}

func (m *BuildingRepo) ListBuildingsByComplex(ctx context.Context, complexID int64) ([]models.Building, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.list(func(b models.Building) bool { return b.ComplexID == complexID })
}

func (m *BuildingRepo) UpdateBuilding(ctx context.Context, b *models.Building) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.replace(b.ID, *b)
}

func (m *BuildingRepo) DeleteBuilding(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.remove(id)
}

type UnitRepo struct{ table[models.Unit] }

func (m *UnitRepo) CreateUnit(ctx context.Context, u *models.Unit) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return 0, m.Err
	}
	id := m.insert(*u)
	u.ID = id
	m.rows[id] = *u
	return id, nil
}

func (m *UnitRepo) GetUnit(ctx context.Context, id int64) (*models.Unit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.get(id)
}

func (m *UnitRepo) ListUnits(ctx context.Context) ([]models.Unit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.list(nil)
}

func (m *UnitRepo) ListUnitsByBuilding(ctx context.Context, buildingID int64) ([]models.Unit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.list(func(u models.Unit) bool { return u.BuildingID == buildingID })
}

func (m *UnitRepo) UpdateUnit(ctx context.Context, u *models.Unit) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.replace(u.ID, *u)
}

func (m *UnitRepo) SetUnitStatus(ctx context.Context, id int64, status models.UnitStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, err := m.get(id)
	if err != nil {
		return err
	}
	if u == nil {
		return repository.ErrNotFound
	}
	u.Status = status
	m.rows[id] = *u
	return nil
}

func (m *UnitRepo) DeleteUnit(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.remove(id)
}

// FilterUnits evaluates f in memory so the repo also satisfies InventoryRepo.
func (m *UnitRepo) FilterUnits(ctx context.Context, f models.UnitFilter) ([]models.Unit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.list(f.Matches)
}

func (m *UnitRepo) SummarizeAvailability(ctx context.Context) ([]models.AvailabilitySummary, error) {
	return nil, nil
}

func (m *UnitRepo) ListMoveInReadyUnits(ctx context.Context) ([]models.Unit, error) {
	ready, status := true, models.UnitStatusAvailable
	return m.FilterUnits(ctx, models.UnitFilter{MoveInReady: &ready, Status: &status})
}

type InquiryRepo struct{ table[models.Inquiry] }

func (m *InquiryRepo) CreateInquiry(ctx context.Context, q *models.Inquiry) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return 0, m.Err
	}
	id := m.insert(*q)
	q.ID = id
	m.rows[id] = *q
	return id, nil
}

func (m *InquiryRepo) GetInquiry(ctx context.Context, id int64) (*models.Inquiry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.get(id)
}

func (m *InquiryRepo) ListInquiries(ctx context.Context) ([]models.Inquiry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.list(nil)
}

func (m *InquiryRepo) SetInquiryStatus(ctx context.Context, id int64, status models.InquiryStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	q, err := m.get(id)
	if err != nil {
		return err
	}
	if q == nil {
		return repository.ErrNotFound
	}
	q.Status = status
	m.rows[id] = *q
	return nil
}
