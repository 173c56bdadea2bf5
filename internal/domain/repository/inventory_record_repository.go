package repository

import (
	"context"

	"github.com/jhoicas/inventario-costeo/internal/domain/entity"
)

// InventoryRecordRepository define el puerto para el stock valorizado por ubicación+material.
// Las operaciones *ForUpdate deben ejecutarse dentro de una transacción: bloquean el registro
// hasta el Commit/Rollback para serializar mutaciones sobre la misma llave.
type InventoryRecordRepository interface {
	// Get devuelve nil, nil si no existe o pertenece a otra empresa.
	Get(ctx context.Context, companyID, locationID, materialID string) (*entity.InventoryRecord, error)
	// GetOrCreateForUpdate crea el registro con stock y costo en cero si no existe y lo bloquea.
	GetOrCreateForUpdate(ctx context.Context, companyID, locationID string, material *entity.Material) (*entity.InventoryRecord, error)
	// Update persiste el registro si su Version coincide (ErrConflict si no) e incrementa Version.
	Update(ctx context.Context, record *entity.InventoryRecord) error
	ListByLocation(ctx context.Context, companyID, locationID string, limit, offset int) ([]*entity.InventoryRecord, error)
}
