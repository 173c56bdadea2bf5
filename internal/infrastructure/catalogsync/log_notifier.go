package catalogsync

import (
	"context"

	"github.com/jhoicas/inventario-costeo/internal/application/inventory"
	"github.com/jhoicas/inventario-costeo/pkg/logger"
)

var _ inventory.CatalogSyncNotifier = (*LogNotifier)(nil)

// LogNotifier registra la señal en el log; se usa cuando no hay webhook configurado.
type LogNotifier struct {
	log *logger.Logger
}

func NewLogNotifier(log *logger.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) NotifyStock(_ context.Context, s inventory.CatalogSyncSignal) error {
	n.log.Info().
		Str("company_id", s.CompanyID).
		Str("location_id", s.LocationID).
		Str("material_id", s.MaterialID).
		Str("unit_id", s.SellUnitID).
		Str("quantity", s.StockInSellUnit.String()).
		Msg("stock disponible para catálogo")
	return nil
}
