package repository

import (
	"context"

	"github.com/jhoicas/inventario-costeo/internal/domain/entity"
)

// LocationRepository define el puerto de persistencia para ubicaciones (DIP).
type LocationRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Location, error)
}
