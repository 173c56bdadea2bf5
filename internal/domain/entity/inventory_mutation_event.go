package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Acciones que mutan un InventoryRecord.
const (
	ActionGoodsReceipt         = "GOODS_RECEIPT"
	ActionReceivedWithTransfer = "RECEIVED_WITH_TRANSFER"
	ActionSentWithTransfer     = "SENT_WITH_TRANSFER"
	ActionItemSold             = "ITEM_SOLD"
	ActionManualCount          = "MANUAL_COUNT"
	ActionProduction           = "PRODUCTION"
	ActionWaste                = "WASTE"
)

// TransferDetail datos del lado origen de un traslado, guardados en ambos eventos.
type TransferDetail struct {
	CounterpartLocationID string          `json:"counterpart_location_id"`
	SourceStockBefore     decimal.Decimal `json:"source_stock_before"`
	SourceStockAfter      decimal.Decimal `json:"source_stock_after"`
	SourceAverageCost     decimal.Decimal `json:"source_average_cost"`
}

// CalculatedInventory resultado completo de aplicar una mutación.
type CalculatedInventory struct {
	Stock               decimal.Decimal `json:"stock"`
	AverageCost         decimal.Decimal `json:"average_cost"`
	StockValue          decimal.Decimal `json:"stock_value"`
	ConversionFactor    decimal.Decimal `json:"conversion_factor"`
	PreviousStock       decimal.Decimal `json:"previous_stock"`
	PreviousAverageCost decimal.Decimal `json:"previous_average_cost"`
	PreviousStockValue  decimal.Decimal `json:"previous_stock_value"`
	Transfer            *TransferDetail `json:"transfer,omitempty"`
}

// InventoryMutationEvent historial inmutable (append-only) de una mutación aplicada.
type InventoryMutationEvent struct {
	ID            string
	CompanyID     string
	LocationID    string
	MaterialID    string
	Action        string
	RequestID     string // token de deduplicación opcional
	TransactionID string // agrupa los eventos de una misma unidad de trabajo
	BaseUnitID    string
	InputQuantity *decimal.Decimal
	InputUnitID   string
	InputUnitCost *decimal.Decimal
	Result        CalculatedInventory
	Reference     string // traslado, conteo, producción, factura...
	CreatedBy     string
	CreatedAt     time.Time
}
