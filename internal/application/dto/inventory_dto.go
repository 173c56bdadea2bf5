package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterMovementRequest body para POST /api/inventory/movements.
// Action: GOODS_RECEIPT, ITEM_SOLD, PRODUCTION, WASTE o MANUAL_COUNT.
// unit_cost es el costo por unidad de unit_id; obligatorio en GOODS_RECEIPT.
type RegisterMovementRequest struct {
	LocationID string           `json:"location_id"`
	MaterialID string           `json:"material_id"`
	Action     string           `json:"action"`
	Quantity   *decimal.Decimal `json:"quantity,omitempty"`
	UnitID     string           `json:"unit_id,omitempty"`
	UnitCost   *decimal.Decimal `json:"unit_cost,omitempty"`
	RequestID  string           `json:"request_id,omitempty"`
	Reference  string           `json:"reference,omitempty"`
}

// TransferRequest body para POST /api/inventory/transfers.
type TransferRequest struct {
	MaterialID     string          `json:"material_id"`
	FromLocationID string          `json:"from_location_id"`
	ToLocationID   string          `json:"to_location_id"`
	Quantity       decimal.Decimal `json:"quantity"`
	UnitID         string          `json:"unit_id,omitempty"`
	RequestID      string          `json:"request_id,omitempty"`
	Reference      string          `json:"reference,omitempty"`
}

// ProductionRequest body para POST /api/inventory/productions.
type ProductionRequest struct {
	LocationID string          `json:"location_id"`
	MaterialID string          `json:"material_id"`
	Quantity   decimal.Decimal `json:"quantity"`
	UnitID     string          `json:"unit_id,omitempty"`
	RequestID  string          `json:"request_id,omitempty"`
	Reference  string          `json:"reference,omitempty"`
}

// InventoryRecordResponse estado de un material en una ubicación, en unidad base.
type InventoryRecordResponse struct {
	ID          string          `json:"id"`
	LocationID  string          `json:"location_id"`
	MaterialID  string          `json:"material_id"`
	BaseUnitID  string          `json:"base_unit_id"`
	Stock       decimal.Decimal `json:"stock"`
	AverageCost decimal.Decimal `json:"average_cost"`
	StockValue  decimal.Decimal `json:"stock_value"`
	Version     int64           `json:"version"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// TransferDetailResponse datos de la contraparte de un traslado.
type TransferDetailResponse struct {
	CounterpartLocationID string          `json:"counterpart_location_id"`
	SourceStockBefore     decimal.Decimal `json:"source_stock_before"`
	SourceStockAfter      decimal.Decimal `json:"source_stock_after"`
	SourceAverageCost     decimal.Decimal `json:"source_average_cost"`
}

// MutationEventResponse entrada del historial de inventario.
type MutationEventResponse struct {
	ID                  string                  `json:"id"`
	LocationID          string                  `json:"location_id"`
	MaterialID          string                  `json:"material_id"`
	Action              string                  `json:"action"`
	TransactionID       string                  `json:"transaction_id"`
	RequestID           string                  `json:"request_id,omitempty"`
	InputQuantity       *decimal.Decimal        `json:"input_quantity,omitempty"`
	InputUnitID         string                  `json:"input_unit_id"`
	InputUnitCost       *decimal.Decimal        `json:"input_unit_cost,omitempty"`
	ConversionFactor    decimal.Decimal         `json:"conversion_factor"`
	PreviousStock       decimal.Decimal         `json:"previous_stock"`
	PreviousAverageCost decimal.Decimal         `json:"previous_average_cost"`
	PreviousStockValue  decimal.Decimal         `json:"previous_stock_value"`
	Stock               decimal.Decimal         `json:"stock"`
	AverageCost         decimal.Decimal         `json:"average_cost"`
	StockValue          decimal.Decimal         `json:"stock_value"`
	Transfer            *TransferDetailResponse `json:"transfer,omitempty"`
	Reference           string                  `json:"reference,omitempty"`
	CreatedBy           string                  `json:"created_by,omitempty"`
	CreatedAt           time.Time               `json:"created_at"`
}

// MovementResponse resultado de una mutación simple.
type MovementResponse struct {
	Record InventoryRecordResponse `json:"record"`
	Event  MutationEventResponse   `json:"event"`
}

// TransferResponse resultado de un traslado: ambos registros y ambos eventos.
type TransferResponse struct {
	TransactionID string                  `json:"transaction_id"`
	Source        InventoryRecordResponse `json:"source"`
	Target        InventoryRecordResponse `json:"target"`
	Events        []MutationEventResponse `json:"events"`
}

// ProductionResponse resultado de una orden de producción.
type ProductionResponse struct {
	TransactionID string                    `json:"transaction_id"`
	ConsumedValue decimal.Decimal           `json:"consumed_value"`
	Output        InventoryRecordResponse   `json:"output"`
	Components    []InventoryRecordResponse `json:"components"`
	Events        []MutationEventResponse   `json:"events"`
}

// UnitValuation stock y costo expresados en una unidad de visualización.
type UnitValuation struct {
	UnitID      string          `json:"unit_id"`
	Factor      decimal.Decimal `json:"factor"`
	Stock       decimal.Decimal `json:"stock"`
	AverageCost decimal.Decimal `json:"average_cost"`
}

// ValuationResponse salida de GET /api/inventory/valuation.
type ValuationResponse struct {
	Record InventoryRecordResponse `json:"record"`
	Units  []UnitValuation         `json:"units"`
}

// HistoryFilter filtros de GET /api/inventory/history.
type HistoryFilter struct {
	LocationID string
	MaterialID string
	From       *time.Time
	To         *time.Time
	PageRequest
}

// HistoryResponse página del historial.
// StockListResponse registros valorizados de una ubicación, por material.
type StockListResponse struct {
	LocationID string                    `json:"location_id"`
	Items      []InventoryRecordResponse `json:"items"`
	TotalValue decimal.Decimal           `json:"total_value"` // suma de la página
	Page       PageResponse              `json:"page"`
}

type HistoryResponse struct {
	Items []MutationEventResponse `json:"items"`
	Page  PageResponse            `json:"page"`
}
