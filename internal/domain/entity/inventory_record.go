package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryRecord representa el stock perpetuo de un material en una ubicación.
// Stock y AverageCost están expresados en BaseUnitID; StockValue = Stock × AverageCost (denormalizado).
// Solo lo muta el ledger de inventario.
type InventoryRecord struct {
	ID             string
	CompanyID      string
	LocationID     string
	MaterialID     string
	Stock          decimal.Decimal
	AverageCost    decimal.Decimal
	StockValue     decimal.Decimal
	BaseUnitID     string
	DisplayUnitIDs []string
	Version        int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewInventoryRecord construye el registro vacío (stock 0, costo 0) para un par ubicación/material.
func NewInventoryRecord(id, companyID, locationID string, material *Material, now time.Time) *InventoryRecord {
	return &InventoryRecord{
		ID:             id,
		CompanyID:      companyID,
		LocationID:     locationID,
		MaterialID:     material.ID,
		Stock:          decimal.Zero,
		AverageCost:    decimal.Zero,
		StockValue:     decimal.Zero,
		BaseUnitID:     material.BaseUnitID,
		DisplayUnitIDs: material.DisplayUnitIDs,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// Clone devuelve una copia independiente del registro.
func (r *InventoryRecord) Clone() *InventoryRecord {
	c := *r
	c.DisplayUnitIDs = append([]string(nil), r.DisplayUnitIDs...)
	return &c
}
