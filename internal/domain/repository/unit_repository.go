package repository

import (
	"context"

	"github.com/jhoicas/inventario-costeo/internal/domain/entity"
)

// UnitRepository define el puerto de persistencia para el catálogo de unidades de medida.
type UnitRepository interface {
	Create(ctx context.Context, unit *entity.UnitOfMeasure) error
	GetByID(ctx context.Context, id string) (*entity.UnitOfMeasure, error)
	ListByCompany(ctx context.Context, companyID string) ([]*entity.UnitOfMeasure, error)
}
