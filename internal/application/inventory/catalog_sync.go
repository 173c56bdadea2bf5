package inventory

import (
	"context"

	appuom "github.com/jhoicas/inventario-costeo/internal/application/uom"
	"github.com/jhoicas/inventario-costeo/internal/domain/entity"
	"github.com/jhoicas/inventario-costeo/pkg/logger"
)

// catalogSync publica, después del Commit, la cantidad disponible de materiales gestionados por cantidad.
// Un fallo del notificador se registra y no revierte la mutación ya confirmada.
type catalogSync struct {
	notifier CatalogSyncNotifier
	resolver *appuom.Resolver
	log      *logger.Logger
}

func (s catalogSync) publish(ctx context.Context, material *entity.Material, records ...*entity.InventoryRecord) {
	if s.notifier == nil || material == nil || !material.QuantityManaged {
		return
	}
	sellUnitID := material.BaseUnitID
	if material.SellUnitID != nil && *material.SellUnitID != "" {
		sellUnitID = *material.SellUnitID
	}
	for _, r := range records {
		if r == nil {
			continue
		}
		stock := r.Stock
		if sellUnitID != r.BaseUnitID {
			res, err := s.resolver.Resolve(ctx, r.CompanyID, r.BaseUnitID, sellUnitID)
			if err != nil {
				s.warn(err, r, "no se pudo convertir stock a unidad de venta")
				continue
			}
			stock = stock.Mul(res.Factor)
		}
		err := s.notifier.NotifyStock(ctx, CatalogSyncSignal{
			CompanyID:       r.CompanyID,
			LocationID:      r.LocationID,
			MaterialID:      r.MaterialID,
			SellUnitID:      sellUnitID,
			StockInSellUnit: stock,
		})
		if err != nil {
			s.warn(err, r, "sincronización de catálogo fallida")
		}
	}
}

func (s catalogSync) warn(err error, r *entity.InventoryRecord, msg string) {
	if s.log == nil {
		return
	}
	s.log.Warn().Err(err).
		Str("company_id", r.CompanyID).
		Str("location_id", r.LocationID).
		Str("material_id", r.MaterialID).
		Msg(msg)
}
