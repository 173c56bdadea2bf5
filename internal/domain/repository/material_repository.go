package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-costeo/internal/domain/entity"
)

// MaterialRepository puerto de lectura del catálogo de materiales (colaborador externo).
type MaterialRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Material, error)
}

// RecipeComponent insumo consumido por una unidad producida de un material semielaborado.
type RecipeComponent struct {
	MaterialID string
	Quantity   decimal.Decimal
	UnitID     string
}

// RecipeProvider colaborador de recetas/producción: descompone una unidad producida en sus insumos.
type RecipeProvider interface {
	Components(ctx context.Context, companyID, materialID string) ([]RecipeComponent, error)
}
