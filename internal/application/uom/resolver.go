package uom

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-costeo/internal/domain"
	"github.com/jhoicas/inventario-costeo/internal/domain/entity"
	"github.com/jhoicas/inventario-costeo/internal/domain/repository"
	domuom "github.com/jhoicas/inventario-costeo/internal/domain/uom"
)

// Resolution resultado de resolver la conversión entre dos unidades.
type Resolution struct {
	Factor decimal.Decimal // cantidad en Source × Factor = cantidad en Target
	Source *entity.UnitOfMeasure
	Target *entity.UnitOfMeasure
}

// Resolver resuelve factores de conversión entre unidades declaradas.
// No guarda estado por petición: puede compartirse entre goroutines.
type Resolver struct {
	units repository.UnitRepository
}

// NewResolver construye el resolver (normalmente sobre UnitCatalogCache).
func NewResolver(units repository.UnitRepository) *Resolver {
	return &Resolver{units: units}
}

// Resolve devuelve el factor que convierte una cantidad en sourceUnitID a targetUnitID.
// companyID vacío omite la verificación de tenant.
func (r *Resolver) Resolve(ctx context.Context, companyID, sourceUnitID, targetUnitID string) (*Resolution, error) {
	src, err := r.endpoint(ctx, companyID, sourceUnitID)
	if err != nil {
		return nil, err
	}
	dst, err := r.endpoint(ctx, companyID, targetUnitID)
	if err != nil {
		return nil, err
	}
	factor, err := domuom.Factor(src, dst)
	if err != nil {
		return nil, err
	}
	return &Resolution{Factor: factor, Source: src.Unit, Target: dst.Unit}, nil
}

func (r *Resolver) endpoint(ctx context.Context, companyID, unitID string) (domuom.Endpoint, error) {
	unit, err := r.load(ctx, companyID, unitID)
	if err != nil {
		return domuom.Endpoint{}, err
	}
	ep := domuom.Endpoint{Unit: unit}
	if unit.IsSystemUnit() {
		return ep, nil
	}
	base, err := r.load(ctx, companyID, *unit.BaseUnitID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domuom.Endpoint{}, fmt.Errorf("%w: unidad base %s de %s no existe", domain.ErrConversion, *unit.BaseUnitID, unit.ID)
		}
		return domuom.Endpoint{}, err
	}
	ep.Base = base
	return ep, nil
}

func (r *Resolver) load(ctx context.Context, companyID, unitID string) (*entity.UnitOfMeasure, error) {
	if unitID == "" {
		return nil, domain.ErrNotFound
	}
	unit, err := r.units.GetByID(ctx, unitID)
	if err != nil {
		return nil, err
	}
	if unit == nil {
		return nil, domain.ErrNotFound
	}
	// Unidades del sistema sin empresa son compartidas.
	if companyID != "" && unit.CompanyID != "" && unit.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	return unit, nil
}
