package repository

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-costeo/internal/domain/entity"
)

// EventFilter filtros del historial de mutaciones.
type EventFilter struct {
	CompanyID  string
	LocationID string
	MaterialID string
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}

// MutationEventRepository puerto del historial append-only (sin Update ni Delete).
type MutationEventRepository interface {
	Create(ctx context.Context, event *entity.InventoryMutationEvent) error
	// ExistsRequest indica si ya se aplicó una mutación con el mismo token de deduplicación.
	ExistsRequest(ctx context.Context, companyID, requestID string) (bool, error)
	List(ctx context.Context, filter EventFilter) ([]*entity.InventoryMutationEvent, error)
}
