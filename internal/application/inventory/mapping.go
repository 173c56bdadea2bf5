package inventory

import (
	"context"

	"github.com/jhoicas/inventario-costeo/internal/application/dto"
	"github.com/jhoicas/inventario-costeo/internal/domain"
	"github.com/jhoicas/inventario-costeo/internal/domain/entity"
	"github.com/jhoicas/inventario-costeo/internal/domain/repository"
)

// loadMaterial devuelve el material si existe y pertenece a la empresa.
func loadMaterial(ctx context.Context, repo repository.MaterialRepository, companyID, materialID string) (*entity.Material, error) {
	if materialID == "" {
		return nil, domain.ErrInvalidInput
	}
	m, err := repo.GetByID(ctx, materialID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}
	if m.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return m, nil
}

// loadLocation valida que la ubicación exista y sea de la empresa.
func loadLocation(ctx context.Context, repo repository.LocationRepository, companyID, locationID string) (*entity.Location, error) {
	if locationID == "" {
		return nil, domain.ErrInvalidInput
	}
	l, err := repo.GetByID(ctx, locationID)
	if err != nil {
		return nil, err
	}
	if l == nil || l.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	return l, nil
}

// ensureNewRequest rechaza un token de deduplicación ya aplicado.
func ensureNewRequest(ctx context.Context, eventRepo repository.MutationEventRepository, companyID, requestID string) error {
	if requestID == "" {
		return nil
	}
	exists, err := eventRepo.ExistsRequest(ctx, companyID, requestID)
	if err != nil {
		return err
	}
	if exists {
		return domain.ErrIllegalState
	}
	return nil
}

func toRecordResponse(r *entity.InventoryRecord) dto.InventoryRecordResponse {
	return dto.InventoryRecordResponse{
		ID:          r.ID,
		LocationID:  r.LocationID,
		MaterialID:  r.MaterialID,
		BaseUnitID:  r.BaseUnitID,
		Stock:       r.Stock,
		AverageCost: r.AverageCost,
		StockValue:  r.StockValue,
		Version:     r.Version,
		UpdatedAt:   r.UpdatedAt,
	}
}

func toEventResponse(e *entity.InventoryMutationEvent) dto.MutationEventResponse {
	out := dto.MutationEventResponse{
		ID:                  e.ID,
		LocationID:          e.LocationID,
		MaterialID:          e.MaterialID,
		Action:              e.Action,
		TransactionID:       e.TransactionID,
		RequestID:           e.RequestID,
		InputQuantity:       e.InputQuantity,
		InputUnitID:         e.InputUnitID,
		InputUnitCost:       e.InputUnitCost,
		ConversionFactor:    e.Result.ConversionFactor,
		PreviousStock:       e.Result.PreviousStock,
		PreviousAverageCost: e.Result.PreviousAverageCost,
		PreviousStockValue:  e.Result.PreviousStockValue,
		Stock:               e.Result.Stock,
		AverageCost:         e.Result.AverageCost,
		StockValue:          e.Result.StockValue,
		Reference:           e.Reference,
		CreatedBy:           e.CreatedBy,
		CreatedAt:           e.CreatedAt,
	}
	if t := e.Result.Transfer; t != nil {
		out.Transfer = &dto.TransferDetailResponse{
			CounterpartLocationID: t.CounterpartLocationID,
			SourceStockBefore:     t.SourceStockBefore,
			SourceStockAfter:      t.SourceStockAfter,
			SourceAverageCost:     t.SourceAverageCost,
		}
	}
	return out
}

func toEventResponses(events []*entity.InventoryMutationEvent) []dto.MutationEventResponse {
	out := make([]dto.MutationEventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, toEventResponse(e))
	}
	return out
}
