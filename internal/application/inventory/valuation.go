package inventory

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-costeo/internal/application/dto"
	appuom "github.com/jhoicas/inventario-costeo/internal/application/uom"
	"github.com/jhoicas/inventario-costeo/internal/domain"
	"github.com/jhoicas/inventario-costeo/internal/domain/repository"
)

// ValuationUseCase lecturas de valuación e historial. No abre transacciones.
type ValuationUseCase struct {
	recordRepo   repository.InventoryRecordRepository
	eventRepo    repository.MutationEventRepository
	materialRepo repository.MaterialRepository
	locationRepo repository.LocationRepository
	resolver     *appuom.Resolver
}

// NewValuationUseCase construye el caso de uso de consultas.
func NewValuationUseCase(
	recordRepo repository.InventoryRecordRepository,
	eventRepo repository.MutationEventRepository,
	materialRepo repository.MaterialRepository,
	locationRepo repository.LocationRepository,
	resolver *appuom.Resolver,
) *ValuationUseCase {
	return &ValuationUseCase{
		recordRepo:   recordRepo,
		eventRepo:    eventRepo,
		materialRepo: materialRepo,
		locationRepo: locationRepo,
		resolver:     resolver,
	}
}

// Get devuelve stock, costo promedio y valor en unidad base, y stock/costo por cada unidad
// de venta, compra, receta y visualización del material. El costo por unidad alterna no se redondea.
func (uc *ValuationUseCase) Get(ctx context.Context, companyID, locationID, materialID string) (*dto.ValuationResponse, error) {
	material, err := loadMaterial(ctx, uc.materialRepo, companyID, materialID)
	if err != nil {
		return nil, err
	}
	if _, err := loadLocation(ctx, uc.locationRepo, companyID, locationID); err != nil {
		return nil, err
	}
	rec, err := uc.recordRepo.Get(ctx, companyID, locationID, materialID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, domain.ErrNotFound
	}

	out := &dto.ValuationResponse{Record: toRecordResponse(rec), Units: []dto.UnitValuation{}}
	for _, unitID := range material.ValuationUnitIDs() {
		// factor: cantidad en unitID × factor = cantidad en base
		res, err := uc.resolver.Resolve(ctx, companyID, unitID, rec.BaseUnitID)
		if err != nil {
			return nil, err
		}
		if res.Factor.IsZero() {
			return nil, domain.ErrConversion
		}
		out.Units = append(out.Units, dto.UnitValuation{
			UnitID:      unitID,
			Factor:      res.Factor,
			Stock:       rec.Stock.Div(res.Factor),
			AverageCost: rec.AverageCost.Mul(res.Factor),
		})
	}
	return out, nil
}

// Stock lista los registros valorizados de una ubicación ordenados por material.
func (uc *ValuationUseCase) Stock(ctx context.Context, companyID, locationID string, page dto.PageRequest) (*dto.StockListResponse, error) {
	if _, err := loadLocation(ctx, uc.locationRepo, companyID, locationID); err != nil {
		return nil, err
	}
	page.Normalize()
	records, err := uc.recordRepo.ListByLocation(ctx, companyID, locationID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := &dto.StockListResponse{
		LocationID: locationID,
		Items:      make([]dto.InventoryRecordResponse, 0, len(records)),
		TotalValue: decimal.Zero,
		Page:       page.Page(len(records)),
	}
	for _, rec := range records {
		out.Items = append(out.Items, toRecordResponse(rec))
		out.TotalValue = out.TotalValue.Add(rec.StockValue)
	}
	return out, nil
}

// History lista eventos de la empresa, más recientes primero.
func (uc *ValuationUseCase) History(ctx context.Context, companyID string, filter dto.HistoryFilter) (*dto.HistoryResponse, error) {
	filter.Normalize()
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, domain.ErrInvalidInput
	}
	events, err := uc.eventRepo.List(ctx, repository.EventFilter{
		CompanyID:  companyID,
		LocationID: filter.LocationID,
		MaterialID: filter.MaterialID,
		From:       filter.From,
		To:         filter.To,
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	})
	if err != nil {
		return nil, err
	}
	return &dto.HistoryResponse{
		Items: toEventResponses(events),
		Page:  filter.Page(len(events)),
	}, nil
}
