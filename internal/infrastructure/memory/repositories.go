package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-costeo/internal/application/inventory"
	"github.com/jhoicas/inventario-costeo/internal/domain"
	"github.com/jhoicas/inventario-costeo/internal/domain/entity"
	"github.com/jhoicas/inventario-costeo/internal/domain/repository"
)

// Verificación de interfaces.
var (
	_ inventory.TxRunner                   = (*TxRunner)(nil)
	_ repository.UnitRepository            = (*UnitRepo)(nil)
	_ repository.MaterialRepository        = (*MaterialRepo)(nil)
	_ repository.RecipeProvider            = (*MaterialRepo)(nil)
	_ repository.LocationRepository        = (*LocationRepo)(nil)
	_ repository.InventoryRecordRepository = (*InventoryRecordRepo)(nil)
	_ repository.MutationEventRepository   = (*MutationEventRepo)(nil)
	_ repository.InventoryCountRepository  = (*InventoryCountRepo)(nil)
)

// UnitRepo catálogo de unidades en memoria.
type UnitRepo struct{ s *Store }

func NewUnitRepository(s *Store) *UnitRepo { return &UnitRepo{s: s} }

func (r *UnitRepo) Create(_ context.Context, unit *entity.UnitOfMeasure) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.units[unit.ID]; ok {
		return domain.ErrDuplicate
	}
	cp := *unit
	r.s.units[unit.ID] = &cp
	return nil
}

func (r *UnitRepo) GetByID(_ context.Context, id string) (*entity.UnitOfMeasure, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.units[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *UnitRepo) ListByCompany(_ context.Context, companyID string) ([]*entity.UnitOfMeasure, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*entity.UnitOfMeasure
	for _, u := range r.s.units {
		if u.CompanyID == companyID || u.CompanyID == "" {
			cp := *u
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// MaterialRepo catálogo de materiales y recetas en memoria.
type MaterialRepo struct{ s *Store }

func NewMaterialRepository(s *Store) *MaterialRepo { return &MaterialRepo{s: s} }

func (r *MaterialRepo) GetByID(_ context.Context, id string) (*entity.Material, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	m, ok := r.s.materials[id]
	if !ok {
		return nil, nil
	}
	cp := *m
	return &cp, nil
}

func (r *MaterialRepo) Components(_ context.Context, companyID, materialID string) ([]repository.RecipeComponent, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	m, ok := r.s.materials[materialID]
	if !ok || m.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	return append([]repository.RecipeComponent(nil), r.s.recipes[materialID]...), nil
}

// LocationRepo ubicaciones en memoria.
type LocationRepo struct{ s *Store }

func NewLocationRepository(s *Store) *LocationRepo { return &LocationRepo{s: s} }

func (r *LocationRepo) GetByID(_ context.Context, id string) (*entity.Location, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	l, ok := r.s.locations[id]
	if !ok {
		return nil, nil
	}
	cp := *l
	return &cp, nil
}

// InventoryRecordRepo registros valorizados en memoria. El bloqueo lo da TxRunner.
type InventoryRecordRepo struct{ s *Store }

func NewInventoryRecordRepository(s *Store) *InventoryRecordRepo { return &InventoryRecordRepo{s: s} }

func (r *InventoryRecordRepo) Get(_ context.Context, companyID, locationID, materialID string) (*entity.InventoryRecord, error) {
	rec := r.s.Record(locationID, materialID)
	if rec == nil || rec.CompanyID != companyID {
		return nil, nil
	}
	return rec, nil
}

func (r *InventoryRecordRepo) GetOrCreateForUpdate(_ context.Context, companyID, locationID string, material *entity.Material) (*entity.InventoryRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := recordKey(locationID, material.ID)
	if rec, ok := r.s.records[key]; ok {
		if rec.CompanyID != companyID {
			return nil, domain.ErrNotFound
		}
		return rec.Clone(), nil
	}
	rec := entity.NewInventoryRecord(uuid.New().String(), companyID, locationID, material, time.Now())
	r.s.records[key] = rec
	return rec.Clone(), nil
}

func (r *InventoryRecordRepo) Update(_ context.Context, record *entity.InventoryRecord) error {
	key := recordKey(record.LocationID, record.MaterialID)
	if err := r.s.fail("record.update", key); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.records[key]
	if !ok {
		return domain.ErrNotFound
	}
	if cur.Version != record.Version {
		return domain.ErrConflict
	}
	record.Version++
	record.UpdatedAt = time.Now()
	r.s.records[key] = record.Clone()
	return nil
}

func (r *InventoryRecordRepo) ListByLocation(_ context.Context, companyID, locationID string, limit, offset int) ([]*entity.InventoryRecord, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*entity.InventoryRecord
	for _, rec := range r.s.records {
		if rec.CompanyID == companyID && rec.LocationID == locationID {
			out = append(out, rec.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MaterialID < out[j].MaterialID })
	return page(out, limit, offset), nil
}

// MutationEventRepo historial append-only en memoria.
type MutationEventRepo struct{ s *Store }

func NewMutationEventRepository(s *Store) *MutationEventRepo { return &MutationEventRepo{s: s} }

func (r *MutationEventRepo) Create(_ context.Context, event *entity.InventoryMutationEvent) error {
	if err := r.s.fail("event.create", recordKey(event.LocationID, event.MaterialID)); err != nil {
		return err
	}
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if event.RequestID != "" {
		for _, e := range r.s.events {
			if e.CompanyID == event.CompanyID && e.RequestID == event.RequestID && e.Action == event.Action &&
				e.LocationID == event.LocationID && e.MaterialID == event.MaterialID {
				return domain.ErrIllegalState
			}
		}
	}
	cp := *event
	r.s.events = append(r.s.events, &cp)
	return nil
}

func (r *MutationEventRepo) ExistsRequest(_ context.Context, companyID, requestID string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, e := range r.s.events {
		if e.CompanyID == companyID && e.RequestID == requestID {
			return true, nil
		}
	}
	return false, nil
}

func (r *MutationEventRepo) List(_ context.Context, f repository.EventFilter) ([]*entity.InventoryMutationEvent, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*entity.InventoryMutationEvent
	for i := len(r.s.events) - 1; i >= 0; i-- {
		e := r.s.events[i]
		if e.CompanyID != f.CompanyID {
			continue
		}
		if (f.LocationID != "" && e.LocationID != f.LocationID) || (f.MaterialID != "" && e.MaterialID != f.MaterialID) {
			continue
		}
		if (f.From != nil && e.CreatedAt.Before(*f.From)) || (f.To != nil && e.CreatedAt.After(*f.To)) {
			continue
		}
		cp := *e
		out = append(out, &cp)
	}
	return page(out, f.Limit, f.Offset), nil
}

// InventoryCountRepo conteos físicos en memoria.
type InventoryCountRepo struct{ s *Store }

func NewInventoryCountRepository(s *Store) *InventoryCountRepo { return &InventoryCountRepo{s: s} }

func (r *InventoryCountRepo) Create(_ context.Context, count *entity.InventoryCount) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.counts[count.ID] = count.Clone()
	return nil
}

func (r *InventoryCountRepo) GetByID(_ context.Context, id string) (*entity.InventoryCount, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.counts[id]
	if !ok {
		return nil, nil
	}
	return c.Clone(), nil
}

func (r *InventoryCountRepo) GetForUpdate(ctx context.Context, id string) (*entity.InventoryCount, error) {
	return r.GetByID(ctx, id)
}

func (r *InventoryCountRepo) Update(_ context.Context, count *entity.InventoryCount) error {
	if err := r.s.fail("count.update", count.ID); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.counts[count.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.counts[count.ID] = count.Clone()
	return nil
}

func (r *InventoryCountRepo) ListByLocation(_ context.Context, companyID, locationID string, limit, offset int) ([]*entity.InventoryCount, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*entity.InventoryCount
	for _, c := range r.s.counts {
		if c.CompanyID == companyID && (locationID == "" || c.LocationID == locationID) {
			out = append(out, c.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, limit, offset), nil
}

func page[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}

// SeedRecord ayuda de pruebas: registro con stock y costo iniciales.
func SeedRecord(companyID, locationID string, material *entity.Material, stock, cost decimal.Decimal) *entity.InventoryRecord {
	rec := entity.NewInventoryRecord(uuid.New().String(), companyID, locationID, material, time.Now())
	rec.Stock = stock
	rec.AverageCost = cost
	rec.StockValue = stock.Mul(cost)
	return rec
}
