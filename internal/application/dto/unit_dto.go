package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateUnitRequest body para POST /api/units.
// Sin base_unit_id la abreviatura debe ser una unidad física conocida (kg, l, each...).
type CreateUnitRequest struct {
	Name               string          `json:"name"`
	Family             string          `json:"family,omitempty"`
	Abbreviation       string          `json:"abbreviation,omitempty"`
	BaseUnitID         *string         `json:"base_unit_id,omitempty"`
	BaseConversionRate decimal.Decimal `json:"base_conversion_rate"`
}

// UnitResponse salida de una unidad de medida.
type UnitResponse struct {
	ID                 string          `json:"id"`
	Name               string          `json:"name"`
	Family             string          `json:"family"`
	Abbreviation       string          `json:"abbreviation,omitempty"`
	BaseUnitID         *string         `json:"base_unit_id,omitempty"`
	BaseConversionRate decimal.Decimal `json:"base_conversion_rate"`
	CreatedAt          time.Time       `json:"created_at"`
}

// ConversionResponse factor entre dos unidades.
type ConversionResponse struct {
	FromUnitID string          `json:"from_unit_id"`
	ToUnitID   string          `json:"to_unit_id"`
	Factor     decimal.Decimal `json:"factor"`
}
