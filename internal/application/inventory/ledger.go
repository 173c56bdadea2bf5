package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	appuom "github.com/jhoicas/inventario-costeo/internal/application/uom"
	"github.com/jhoicas/inventario-costeo/internal/domain"
	"github.com/jhoicas/inventario-costeo/internal/domain/entity"
	"github.com/jhoicas/inventario-costeo/internal/domain/inventory"
	"github.com/jhoicas/inventario-costeo/internal/domain/repository"
)

// MutationInput datos de una mutación sobre un registro ya bloqueado.
// Quantity y UnitCost están en la unidad UnitID; Quantity solo puede faltar en MANUAL_COUNT.
type MutationInput struct {
	CompanyID     string
	UserID        string
	Action        string
	Quantity      *decimal.Decimal
	UnitID        string
	UnitCost      *decimal.Decimal
	RequestID     string
	TransactionID string
	Reference     string
	Transfer      *entity.TransferDetail
}

// Ledger motor de valuación: única vía para mutar un InventoryRecord.
// Debe invocarse con repositorios atados a la transacción del llamador.
type Ledger struct {
	resolver *appuom.Resolver
	rounder  inventory.Rounder
	now      func() time.Time
}

// NewLedger construye el ledger con la precisión monetaria de la moneda.
func NewLedger(resolver *appuom.Resolver, rounder inventory.Rounder) *Ledger {
	return &Ledger{resolver: resolver, rounder: rounder, now: time.Now}
}

// Rounder devuelve el redondeo monetario configurado.
func (l *Ledger) Rounder() inventory.Rounder { return l.rounder }

// BaseQuantity convierte una cantidad en unitID a la unidad base del registro.
func (l *Ledger) BaseQuantity(ctx context.Context, companyID string, record *entity.InventoryRecord, qty decimal.Decimal, unitID string) (base, factor decimal.Decimal, err error) {
	factor, err = l.factorToBase(ctx, companyID, record, unitID)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	return qty.Mul(factor), factor, nil
}

func (l *Ledger) factorToBase(ctx context.Context, companyID string, record *entity.InventoryRecord, unitID string) (decimal.Decimal, error) {
	if unitID == "" || unitID == record.BaseUnitID {
		return decimal.NewFromInt(1), nil
	}
	res, err := l.resolver.Resolve(ctx, companyID, unitID, record.BaseUnitID)
	if err != nil {
		return decimal.Zero, err
	}
	return res.Factor, nil
}

// ApplyMutation resuelve el factor, aplica la estrategia de la acción, redondea, persiste el registro
// y agrega el evento de historial. No valida stock negativo: es responsabilidad del llamador.
func (l *Ledger) ApplyMutation(
	ctx context.Context,
	recordRepo repository.InventoryRecordRepository,
	eventRepo repository.MutationEventRepository,
	record *entity.InventoryRecord,
	in MutationInput,
) (*entity.InventoryRecord, *entity.InventoryMutationEvent, error) {
	if _, err := inventory.StrategyFor(in.Action); err != nil {
		return nil, nil, err
	}
	if err := validateMutation(in); err != nil {
		return nil, nil, err
	}

	factor, err := l.factorToBase(ctx, in.CompanyID, record, in.UnitID)
	if err != nil {
		return nil, nil, err
	}
	delta := inventory.Delta{Factor: factor, UnitCost: in.UnitCost}
	if in.Quantity != nil {
		delta.HasQuantity = true
		delta.Quantity = *in.Quantity
		delta.Base = in.Quantity.Mul(factor)
	}

	result, err := inventory.Calculate(record, in.Action, delta, l.rounder)
	if err != nil {
		return nil, nil, err
	}
	result.Transfer = in.Transfer

	now := l.now()
	updated := record.Clone()
	updated.Stock = result.Stock
	updated.AverageCost = result.AverageCost
	updated.StockValue = result.StockValue
	updated.UpdatedAt = now
	if err := recordRepo.Update(ctx, updated); err != nil {
		return nil, nil, fmt.Errorf("persistir registro de inventario: %w", err)
	}

	unitID := in.UnitID
	if unitID == "" {
		unitID = record.BaseUnitID
	}
	event := &entity.InventoryMutationEvent{
		ID:            uuid.New().String(),
		CompanyID:     record.CompanyID,
		LocationID:    record.LocationID,
		MaterialID:    record.MaterialID,
		Action:        in.Action,
		RequestID:     in.RequestID,
		TransactionID: in.TransactionID,
		BaseUnitID:    record.BaseUnitID,
		InputQuantity: in.Quantity,
		InputUnitID:   unitID,
		InputUnitCost: in.UnitCost,
		Result:        result,
		Reference:     in.Reference,
		CreatedBy:     in.UserID,
		CreatedAt:     now,
	}
	if err := eventRepo.Create(ctx, event); err != nil {
		return nil, nil, fmt.Errorf("registrar historial de inventario: %w", err)
	}
	return updated, event, nil
}

func validateMutation(in MutationInput) error {
	if in.Quantity == nil {
		if in.Action != entity.ActionManualCount || in.UnitCost == nil {
			return domain.ErrInvalidInput
		}
	} else {
		if in.Quantity.IsNegative() {
			return domain.ErrInvalidInput
		}
		if in.Action != entity.ActionManualCount && in.Quantity.IsZero() {
			return domain.ErrInvalidInput
		}
	}
	if in.UnitCost != nil && in.UnitCost.IsNegative() {
		return domain.ErrInvalidInput
	}
	return nil
}
