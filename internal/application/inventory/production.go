package inventory

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-costeo/internal/application/dto"
	"github.com/jhoicas/inventario-costeo/internal/domain"
	"github.com/jhoicas/inventario-costeo/internal/domain/entity"
	"github.com/jhoicas/inventario-costeo/internal/domain/repository"
	"github.com/jhoicas/inventario-costeo/pkg/logger"
)

// ProductionUseCase consume los insumos de la receta (PRODUCTION) y recibe el material producido
// (GOODS_RECEIPT) al valor consumido, todo en una transacción.
type ProductionUseCase struct {
	txRunner     TxRunner
	ledger       *Ledger
	materialRepo repository.MaterialRepository
	locationRepo repository.LocationRepository
	recipes      repository.RecipeProvider
	sync         catalogSync
}

// NewProductionUseCase construye el caso de uso de producción. notifier puede ser nil.
func NewProductionUseCase(
	txRunner TxRunner,
	ledger *Ledger,
	materialRepo repository.MaterialRepository,
	locationRepo repository.LocationRepository,
	recipes repository.RecipeProvider,
	notifier CatalogSyncNotifier,
	log *logger.Logger,
) *ProductionUseCase {
	return &ProductionUseCase{
		txRunner:     txRunner,
		ledger:       ledger,
		materialRepo: materialRepo,
		locationRepo: locationRepo,
		recipes:      recipes,
		sync:         catalogSync{notifier: notifier, resolver: ledger.resolver, log: log},
	}
}

// ProductionInput orden de producción. Quantity está en UnitID (vacío = unidad base del producido).
type ProductionInput struct {
	CompanyID  string
	UserID     string
	LocationID string
	MaterialID string
	Quantity   decimal.Decimal
	UnitID     string
	RequestID  string
	Reference  string
}

type productionLine struct {
	material *entity.Material
	quantity decimal.Decimal
	unitID   string
	record   *entity.InventoryRecord
}

// Produce descompone la cantidad producida en insumos según la receta (por unidad base del producido).
// Todos los registros se bloquean en orden de material antes de mutar.
func (uc *ProductionUseCase) Produce(ctx context.Context, input ProductionInput) (*dto.ProductionResponse, error) {
	if !input.Quantity.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	output, err := loadMaterial(ctx, uc.materialRepo, input.CompanyID, input.MaterialID)
	if err != nil {
		return nil, err
	}
	if _, err := loadLocation(ctx, uc.locationRepo, input.CompanyID, input.LocationID); err != nil {
		return nil, err
	}
	components, err := uc.recipes.Components(ctx, input.CompanyID, input.MaterialID)
	if err != nil {
		return nil, err
	}
	if len(components) == 0 {
		return nil, domain.ErrInvalidInput
	}

	lines := make([]*productionLine, 0, len(components))
	seen := map[string]bool{output.ID: true}
	for _, comp := range components {
		if seen[comp.MaterialID] || !comp.Quantity.IsPositive() {
			return nil, domain.ErrInvalidInput
		}
		seen[comp.MaterialID] = true
		m, err := loadMaterial(ctx, uc.materialRepo, input.CompanyID, comp.MaterialID)
		if err != nil {
			return nil, err
		}
		lines = append(lines, &productionLine{material: m, quantity: comp.Quantity, unitID: comp.UnitID})
	}

	txID := uuid.New().String()
	reference := input.Reference
	if reference == "" {
		reference = "production:" + txID
	}
	var (
		outRecord     *entity.InventoryRecord
		consumedValue decimal.Decimal
		events        []*entity.InventoryMutationEvent
	)
	err = uc.txRunner.Run(ctx, func(
		recordRepo repository.InventoryRecordRepository,
		eventRepo repository.MutationEventRepository,
		_ repository.InventoryCountRepository,
	) error {
		// orden de bloqueo determinista por id de material
		all := append([]*productionLine{{material: output}}, lines...)
		sort.Slice(all, func(i, j int) bool { return all[i].material.ID < all[j].material.ID })
		for _, l := range all {
			rec, err := recordRepo.GetOrCreateForUpdate(ctx, input.CompanyID, input.LocationID, l.material)
			if err != nil {
				return err
			}
			l.record = rec
		}
		if err := ensureNewRequest(ctx, eventRepo, input.CompanyID, input.RequestID); err != nil {
			return err
		}
		var outLine *productionLine
		for _, l := range all {
			if l.material.ID == output.ID {
				outLine = l
			}
		}

		producedBase, _, err := uc.ledger.BaseQuantity(ctx, input.CompanyID, outLine.record, input.Quantity, input.UnitID)
		if err != nil {
			return err
		}

		consumedValue = decimal.Zero
		events = events[:0]
		for _, l := range lines {
			need := l.quantity.Mul(producedBase)
			base, _, err := uc.ledger.BaseQuantity(ctx, input.CompanyID, l.record, need, l.unitID)
			if err != nil {
				return err
			}
			if base.GreaterThan(l.record.Stock) {
				return domain.ErrInsufficientStock
			}
			consumedValue = consumedValue.Add(base.Mul(l.record.AverageCost))
			updated, ev, err := uc.ledger.ApplyMutation(ctx, recordRepo, eventRepo, l.record, MutationInput{
				CompanyID:     input.CompanyID,
				UserID:        input.UserID,
				Action:        entity.ActionProduction,
				Quantity:      &need,
				UnitID:        l.unitID,
				RequestID:     input.RequestID,
				TransactionID: txID,
				Reference:     reference,
			})
			if err != nil {
				return err
			}
			l.record = updated
			events = append(events, ev)
		}

		unitCost := consumedValue.Div(input.Quantity)
		q := input.Quantity
		var ev *entity.InventoryMutationEvent
		outRecord, ev, err = uc.ledger.ApplyMutation(ctx, recordRepo, eventRepo, outLine.record, MutationInput{
			CompanyID:     input.CompanyID,
			UserID:        input.UserID,
			Action:        entity.ActionGoodsReceipt,
			Quantity:      &q,
			UnitID:        input.UnitID,
			UnitCost:      &unitCost,
			RequestID:     input.RequestID,
			TransactionID: txID,
			Reference:     reference,
		})
		if err != nil {
			return err
		}
		events = append(events, ev)
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.sync.publish(ctx, output, outRecord)
	comps := make([]dto.InventoryRecordResponse, 0, len(lines))
	for _, l := range lines {
		uc.sync.publish(ctx, l.material, l.record)
		comps = append(comps, toRecordResponse(l.record))
	}
	return &dto.ProductionResponse{
		TransactionID: txID,
		ConsumedValue: uc.ledger.Rounder().Money(consumedValue),
		Output:        toRecordResponse(outRecord),
		Components:    comps,
		Events:        toEventResponses(events),
	}, nil
}

// ProduceFromRequest adapta el request HTTP al caso de uso.
func (uc *ProductionUseCase) ProduceFromRequest(ctx context.Context, companyID, userID string, in dto.ProductionRequest) (*dto.ProductionResponse, error) {
	return uc.Produce(ctx, ProductionInput{
		CompanyID:  companyID,
		UserID:     userID,
		LocationID: in.LocationID,
		MaterialID: in.MaterialID,
		Quantity:   in.Quantity,
		UnitID:     in.UnitID,
		RequestID:  in.RequestID,
		Reference:  in.Reference,
	})
}
