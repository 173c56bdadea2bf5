package inventory

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-costeo/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza atomicidad del registro, su historial y (en traslados/conteos) del segundo registro.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		recordRepo repository.InventoryRecordRepository,
		eventRepo repository.MutationEventRepository,
		countRepo repository.InventoryCountRepository,
	) error) error
}

// CatalogSyncSignal cantidad disponible de un material gestionado por cantidad, expresada en su unidad de venta.
type CatalogSyncSignal struct {
	CompanyID       string
	LocationID      string
	MaterialID      string
	SellUnitID      string
	StockInSellUnit decimal.Decimal
}

// CatalogSyncNotifier informa al catálogo de venta la nueva cantidad (best-effort, al menos una vez).
type CatalogSyncNotifier interface {
	NotifyStock(ctx context.Context, signal CatalogSyncSignal) error
}
