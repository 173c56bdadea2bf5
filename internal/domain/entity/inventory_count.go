package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del conteo físico.
const (
	CountStatusNew      = "NEW"
	CountStatusLocked   = "LOCKED"
	CountStatusRejected = "REJECTED"
	CountStatusApplied  = "APPLIED"
)

// CountedQuantity cantidad contada en una unidad concreta (cajas, unidades sueltas, kg...).
type CountedQuantity struct {
	Quantity decimal.Decimal `json:"quantity"`
	UnitID   string          `json:"unit_id"`
}

// CountLine línea de conteo por material. Los campos calculados se llenan al preparar el conteo.
type CountLine struct {
	MaterialID        string            `json:"material_id"`
	Quantities        []CountedQuantity `json:"quantities"`
	UnitCost          *decimal.Decimal  `json:"unit_cost,omitempty"` // costo por unidad base (opcional)
	CountedBase       decimal.Decimal   `json:"counted_base"`
	SystemStock       decimal.Decimal   `json:"system_stock"`
	AverageCost       decimal.Decimal   `json:"average_cost"`
	Differential      decimal.Decimal   `json:"differential"`
	CountValue        decimal.Decimal   `json:"count_value"`
	DifferentialValue decimal.Decimal   `json:"differential_value"`
}

// InventoryCount documento de conciliación física de una ubicación.
type InventoryCount struct {
	ID         string
	CompanyID  string
	LocationID string
	Status     string
	Lines      []CountLine
	Notes      string
	CreatedBy  string
	CreatedAt  time.Time
	UpdatedAt  time.Time
	LockedAt   *time.Time
	ClosedAt   *time.Time
}

// IsTerminal indica si el conteo ya no admite transiciones.
func (c *InventoryCount) IsTerminal() bool {
	return c.Status == CountStatusRejected || c.Status == CountStatusApplied
}

// Clone copia profunda del documento.
func (c *InventoryCount) Clone() *InventoryCount {
	out := *c
	out.Lines = make([]CountLine, len(c.Lines))
	for i, l := range c.Lines {
		l.Quantities = append([]CountedQuantity(nil), l.Quantities...)
		out.Lines[i] = l
	}
	return &out
}
