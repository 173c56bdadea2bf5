package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-costeo/internal/application/dto"
	"github.com/jhoicas/inventario-costeo/internal/domain"
	"github.com/jhoicas/inventario-costeo/internal/domain/entity"
	"github.com/jhoicas/inventario-costeo/internal/domain/repository"
	"github.com/jhoicas/inventario-costeo/pkg/logger"
)

// TransferCoordinator mueve stock entre dos ubicaciones en una sola transacción:
// SENT_WITH_TRANSFER en el origen y RECEIVED_WITH_TRANSFER en el destino al costo promedio del origen.
type TransferCoordinator struct {
	txRunner     TxRunner
	ledger       *Ledger
	materialRepo repository.MaterialRepository
	locationRepo repository.LocationRepository
	sync         catalogSync
	log          *logger.Logger
}

// NewTransferCoordinator construye el coordinador de traslados. notifier puede ser nil.
func NewTransferCoordinator(
	txRunner TxRunner,
	ledger *Ledger,
	materialRepo repository.MaterialRepository,
	locationRepo repository.LocationRepository,
	notifier CatalogSyncNotifier,
	log *logger.Logger,
) *TransferCoordinator {
	return &TransferCoordinator{
		txRunner:     txRunner,
		ledger:       ledger,
		materialRepo: materialRepo,
		locationRepo: locationRepo,
		sync:         catalogSync{notifier: notifier, resolver: ledger.resolver, log: log},
		log:          log,
	}
}

// TransferInput entrada de un traslado. Quantity está en UnitID (vacío = unidad base).
type TransferInput struct {
	CompanyID      string
	UserID         string
	MaterialID     string
	FromLocationID string
	ToLocationID   string
	Quantity       decimal.Decimal
	UnitID         string
	RequestID      string
	Reference      string
}

// Transfer bloquea ambos registros en orden de ubicación, valida stock del origen y aplica ambas mutaciones.
// Un fallo al persistir cualquiera de los dos lados se reporta como ErrConsistency y revierte ambos.
func (c *TransferCoordinator) Transfer(ctx context.Context, input TransferInput) (*dto.TransferResponse, error) {
	if input.FromLocationID == "" || input.ToLocationID == "" || input.FromLocationID == input.ToLocationID {
		return nil, domain.ErrInvalidInput
	}
	if !input.Quantity.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	material, err := loadMaterial(ctx, c.materialRepo, input.CompanyID, input.MaterialID)
	if err != nil {
		return nil, err
	}
	for _, id := range []string{input.FromLocationID, input.ToLocationID} {
		if _, err := loadLocation(ctx, c.locationRepo, input.CompanyID, id); err != nil {
			return nil, err
		}
	}

	txID := uuid.New().String()
	reference := input.Reference
	if reference == "" {
		reference = "transfer:" + txID
	}
	var (
		source, target *entity.InventoryRecord
		events         []*entity.InventoryMutationEvent
	)
	err = c.txRunner.Run(ctx, func(
		recordRepo repository.InventoryRecordRepository,
		eventRepo repository.MutationEventRepository,
		_ repository.InventoryCountRepository,
	) error {
		src, dst, err := lockPair(ctx, recordRepo, input.CompanyID, input.FromLocationID, input.ToLocationID, material)
		if err != nil {
			return err
		}
		// con ambas filas bloqueadas un reintento concurrente ya ve los eventos confirmados
		if err := ensureNewRequest(ctx, eventRepo, input.CompanyID, input.RequestID); err != nil {
			return err
		}

		base, factor, err := c.ledger.BaseQuantity(ctx, input.CompanyID, src, input.Quantity, input.UnitID)
		if err != nil {
			return err
		}
		if base.GreaterThan(src.Stock) {
			return domain.ErrInsufficientStock
		}
		// costo por unidad de traslado al costo promedio vigente del origen
		unitCost := src.AverageCost.Mul(factor)
		sourceBefore := src.Stock
		sourceAfter := src.Stock.Sub(base)

		q := input.Quantity
		var sentEvent, receivedEvent *entity.InventoryMutationEvent
		source, sentEvent, err = c.ledger.ApplyMutation(ctx, recordRepo, eventRepo, src, MutationInput{
			CompanyID:     input.CompanyID,
			UserID:        input.UserID,
			Action:        entity.ActionSentWithTransfer,
			Quantity:      &q,
			UnitID:        input.UnitID,
			RequestID:     input.RequestID,
			TransactionID: txID,
			Reference:     reference,
			Transfer: &entity.TransferDetail{
				CounterpartLocationID: input.ToLocationID,
				SourceStockBefore:     sourceBefore,
				SourceStockAfter:      sourceAfter,
				SourceAverageCost:     src.AverageCost,
			},
		})
		if err != nil {
			return transferWriteError(err)
		}

		target, receivedEvent, err = c.ledger.ApplyMutation(ctx, recordRepo, eventRepo, dst, MutationInput{
			CompanyID:     input.CompanyID,
			UserID:        input.UserID,
			Action:        entity.ActionReceivedWithTransfer,
			Quantity:      &q,
			UnitID:        input.UnitID,
			UnitCost:      &unitCost,
			RequestID:     input.RequestID,
			TransactionID: txID,
			Reference:     reference,
			Transfer: &entity.TransferDetail{
				CounterpartLocationID: input.FromLocationID,
				SourceStockBefore:     sourceBefore,
				SourceStockAfter:      sourceAfter,
				SourceAverageCost:     src.AverageCost,
			},
		})
		if err != nil {
			return transferWriteError(err)
		}
		events = []*entity.InventoryMutationEvent{sentEvent, receivedEvent}
		return nil
	})
	if err != nil && events != nil && !errors.Is(err, domain.ErrConsistency) {
		// falló el Commit con ambos lados ya escritos
		err = fmt.Errorf("%w: %w", domain.ErrConsistency, err)
	}
	if err != nil {
		if errors.Is(err, domain.ErrConsistency) && c.log != nil {
			c.log.Error().Err(err).
				Str("transaction_id", txID).
				Str("material_id", input.MaterialID).
				Msg("traslado revertido")
		}
		return nil, err
	}

	c.sync.publish(ctx, material, source, target)
	return &dto.TransferResponse{
		TransactionID: txID,
		Source:        toRecordResponse(source),
		Target:        toRecordResponse(target),
		Events:        toEventResponses(events),
	}, nil
}

// transferWriteError marca como ErrConsistency un fallo al escribir un lado del traslado.
// Un token de deduplicación repetido (índice único) se devuelve tal cual.
func transferWriteError(err error) error {
	if errors.Is(err, domain.ErrIllegalState) {
		return err
	}
	return fmt.Errorf("%w: %w", domain.ErrConsistency, err)
}

// TransferFromRequest adapta el request HTTP al coordinador.
func (c *TransferCoordinator) TransferFromRequest(ctx context.Context, companyID, userID string, in dto.TransferRequest) (*dto.TransferResponse, error) {
	return c.Transfer(ctx, TransferInput{
		CompanyID:      companyID,
		UserID:         userID,
		MaterialID:     in.MaterialID,
		FromLocationID: in.FromLocationID,
		ToLocationID:   in.ToLocationID,
		Quantity:       in.Quantity,
		UnitID:         in.UnitID,
		RequestID:      in.RequestID,
		Reference:      in.Reference,
	})
}

// lockPair bloquea origen y destino siempre en el mismo orden (id de ubicación ascendente)
// para que traslados cruzados no se bloqueen mutuamente.
func lockPair(ctx context.Context, repo repository.InventoryRecordRepository, companyID, fromID, toID string, material *entity.Material) (src, dst *entity.InventoryRecord, err error) {
	first, second := fromID, toID
	if second < first {
		first, second = second, first
	}
	a, err := repo.GetOrCreateForUpdate(ctx, companyID, first, material)
	if err != nil {
		return nil, nil, err
	}
	b, err := repo.GetOrCreateForUpdate(ctx, companyID, second, material)
	if err != nil {
		return nil, nil, err
	}
	if first == fromID {
		return a, b, nil
	}
	return b, a, nil
}
