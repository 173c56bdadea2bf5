package repository

import (
	"context"

	"github.com/jhoicas/inventario-costeo/internal/domain/entity"
)

// InventoryCountRepository define el puerto de persistencia para conteos físicos.
type InventoryCountRepository interface {
	Create(ctx context.Context, count *entity.InventoryCount) error
	GetByID(ctx context.Context, id string) (*entity.InventoryCount, error)
	// GetForUpdate bloquea el documento (SELECT FOR UPDATE) dentro de una transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.InventoryCount, error)
	Update(ctx context.Context, count *entity.InventoryCount) error
	ListByLocation(ctx context.Context, companyID, locationID string, limit, offset int) ([]*entity.InventoryCount, error)
}
