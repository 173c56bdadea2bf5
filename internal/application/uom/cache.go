package uom

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/jhoicas/inventario-costeo/internal/domain/entity"
	"github.com/jhoicas/inventario-costeo/internal/domain/repository"
)

var _ repository.UnitRepository = (*UnitCatalogCache)(nil)

type cachedUnit struct {
	unit      *entity.UnitOfMeasure
	expiresAt time.Time
}

// UnitCatalogCache decorador de lectura sobre UnitRepository.
// El catálogo es de lectura mayoritaria: se comparte entre resoluciones concurrentes
// y las cargas simultáneas de una misma unidad se agrupan en una sola consulta.
type UnitCatalogCache struct {
	repo  repository.UnitRepository
	ttl   time.Duration
	now   func() time.Time
	group singleflight.Group

	mu    sync.RWMutex
	units map[string]cachedUnit
}

// NewUnitCatalogCache construye el cache. ttl <= 0 desactiva la expiración.
func NewUnitCatalogCache(repo repository.UnitRepository, ttl time.Duration) *UnitCatalogCache {
	return &UnitCatalogCache{
		repo:  repo,
		ttl:   ttl,
		now:   time.Now,
		units: make(map[string]cachedUnit),
	}
}

// GetByID devuelve la unidad desde cache o la carga del repositorio.
// Devuelve una copia: los llamadores no pueden mutar el catálogo compartido.
func (c *UnitCatalogCache) GetByID(ctx context.Context, id string) (*entity.UnitOfMeasure, error) {
	c.mu.RLock()
	entry, ok := c.units[id]
	c.mu.RUnlock()
	if ok && (c.ttl <= 0 || c.now().Before(entry.expiresAt)) {
		return copyUnit(entry.unit), nil
	}

	v, err, _ := c.group.Do(id, func() (interface{}, error) {
		u, err := c.repo.GetByID(ctx, id)
		if err != nil || u == nil {
			return u, err
		}
		c.mu.Lock()
		c.units[id] = cachedUnit{unit: u, expiresAt: c.now().Add(c.ttl)}
		c.mu.Unlock()
		return u, nil
	})
	if err != nil {
		return nil, err
	}
	u, _ := v.(*entity.UnitOfMeasure)
	if u == nil {
		return nil, nil
	}
	return copyUnit(u), nil
}

// Create persiste en el repositorio e invalida la entrada.
func (c *UnitCatalogCache) Create(ctx context.Context, unit *entity.UnitOfMeasure) error {
	if err := c.repo.Create(ctx, unit); err != nil {
		return err
	}
	c.Invalidate(unit.ID)
	return nil
}

// ListByCompany no se cachea (consulta administrativa).
func (c *UnitCatalogCache) ListByCompany(ctx context.Context, companyID string) ([]*entity.UnitOfMeasure, error) {
	return c.repo.ListByCompany(ctx, companyID)
}

// Invalidate elimina una unidad del cache.
func (c *UnitCatalogCache) Invalidate(id string) {
	c.mu.Lock()
	delete(c.units, id)
	c.mu.Unlock()
}

func copyUnit(u *entity.UnitOfMeasure) *entity.UnitOfMeasure {
	cp := *u
	if u.BaseUnitID != nil {
		base := *u.BaseUnitID
		cp.BaseUnitID = &base
	}
	return &cp
}
