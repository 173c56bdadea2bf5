package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CountedQuantityRequest una cantidad contada en una unidad concreta.
type CountedQuantityRequest struct {
	Quantity decimal.Decimal `json:"quantity"`
	UnitID   string          `json:"unit_id"`
}

// CountLineRequest línea de conteo; varias cantidades en unidades distintas se suman.
// unit_cost, si se envía, es el nuevo costo por unidad base.
type CountLineRequest struct {
	MaterialID string                   `json:"material_id"`
	Quantities []CountedQuantityRequest `json:"quantities"`
	UnitCost   *decimal.Decimal         `json:"unit_cost,omitempty"`
}

// CreateCountRequest body para POST /api/inventory/counts.
type CreateCountRequest struct {
	LocationID string             `json:"location_id"`
	Notes      string             `json:"notes,omitempty"`
	Lines      []CountLineRequest `json:"lines"`
}

// UpdateCountLinesRequest body para PUT /api/inventory/counts/:id/lines.
type UpdateCountLinesRequest struct {
	Lines []CountLineRequest `json:"lines"`
}

// CountLineResponse línea preparada con valores calculados.
type CountLineResponse struct {
	MaterialID        string                   `json:"material_id"`
	Quantities        []CountedQuantityRequest `json:"quantities"`
	UnitCost          *decimal.Decimal         `json:"unit_cost,omitempty"`
	CountedBase       decimal.Decimal          `json:"counted_base"`
	SystemStock       decimal.Decimal          `json:"system_stock"`
	AverageCost       decimal.Decimal          `json:"average_cost"`
	Differential      decimal.Decimal          `json:"differential"`
	CountValue        decimal.Decimal          `json:"count_value"`
	DifferentialValue decimal.Decimal          `json:"differential_value"`
}

// CountResponse salida de un conteo.
type CountResponse struct {
	ID         string              `json:"id"`
	LocationID string              `json:"location_id"`
	Status     string              `json:"status"`
	Notes      string              `json:"notes,omitempty"`
	Lines      []CountLineResponse `json:"lines"`
	CreatedBy  string              `json:"created_by,omitempty"`
	CreatedAt  time.Time           `json:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at"`
	LockedAt   *time.Time          `json:"locked_at,omitempty"`
	ClosedAt   *time.Time          `json:"closed_at,omitempty"`
}
