package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-costeo/internal/application/dto"
	"github.com/jhoicas/inventario-costeo/internal/domain"
	"github.com/jhoicas/inventario-costeo/internal/domain/entity"
	"github.com/jhoicas/inventario-costeo/internal/domain/inventory"
	"github.com/jhoicas/inventario-costeo/internal/domain/repository"
	"github.com/jhoicas/inventario-costeo/pkg/logger"
)

// RegisterMovementUseCase registra mutaciones simples (recepción, venta, producción, merma, ajuste manual)
// de forma transaccional con bloqueo de fila (SELECT FOR UPDATE) y Commit/Rollback.
type RegisterMovementUseCase struct {
	txRunner     TxRunner
	ledger       *Ledger
	materialRepo repository.MaterialRepository
	locationRepo repository.LocationRepository
	sync         catalogSync
	log          *logger.Logger
}

// NewRegisterMovementUseCase construye el caso de uso. notifier puede ser nil.
func NewRegisterMovementUseCase(
	txRunner TxRunner,
	ledger *Ledger,
	materialRepo repository.MaterialRepository,
	locationRepo repository.LocationRepository,
	notifier CatalogSyncNotifier,
	log *logger.Logger,
) *RegisterMovementUseCase {
	return &RegisterMovementUseCase{
		txRunner:     txRunner,
		ledger:       ledger,
		materialRepo: materialRepo,
		locationRepo: locationRepo,
		sync:         catalogSync{notifier: notifier, resolver: ledger.resolver, log: log},
		log:          log,
	}
}

// MovementInputDTO entrada para registrar una mutación simple.
type MovementInputDTO struct {
	CompanyID  string
	UserID     string
	LocationID string
	MaterialID string
	Action     string
	Quantity   *decimal.Decimal
	UnitID     string
	UnitCost   *decimal.Decimal
	RequestID  string
	Reference  string
}

// RegisterMovement valida la entrada, bloquea el registro, aplica la estrategia de la acción
// y guarda registro e historial en la misma transacción.
func (uc *RegisterMovementUseCase) RegisterMovement(ctx context.Context, input MovementInputDTO) (*dto.MovementResponse, error) {
	switch input.Action {
	case entity.ActionGoodsReceipt:
		if input.UnitCost == nil {
			return nil, domain.ErrInvalidInput
		}
	case entity.ActionItemSold, entity.ActionProduction, entity.ActionWaste:
	case entity.ActionManualCount:
	case entity.ActionSentWithTransfer, entity.ActionReceivedWithTransfer:
		// los traslados van siempre por TransferCoordinator para mover ambos lados juntos
		return nil, domain.ErrInvalidInput
	default:
		if _, err := inventory.StrategyFor(input.Action); err != nil {
			return nil, err
		}
	}

	material, err := loadMaterial(ctx, uc.materialRepo, input.CompanyID, input.MaterialID)
	if err != nil {
		return nil, err
	}
	if _, err := loadLocation(ctx, uc.locationRepo, input.CompanyID, input.LocationID); err != nil {
		return nil, err
	}

	txID := uuid.New().String()
	var (
		record *entity.InventoryRecord
		event  *entity.InventoryMutationEvent
	)
	err = uc.txRunner.Run(ctx, func(
		recordRepo repository.InventoryRecordRepository,
		eventRepo repository.MutationEventRepository,
		_ repository.InventoryCountRepository,
	) error {
		// Bloquea la fila para serializar mutaciones concurrentes sobre el mismo material/ubicación
		current, err := recordRepo.GetOrCreateForUpdate(ctx, input.CompanyID, input.LocationID, material)
		if err != nil {
			return err
		}
		// después del bloqueo: un reintento concurrente espera y ve el evento confirmado
		if err := ensureNewRequest(ctx, eventRepo, input.CompanyID, input.RequestID); err != nil {
			return err
		}
		if inventory.IsDecrement(input.Action) && input.Quantity != nil {
			base, _, err := uc.ledger.BaseQuantity(ctx, input.CompanyID, current, *input.Quantity, input.UnitID)
			if err != nil {
				return err
			}
			if base.GreaterThan(current.Stock) {
				return domain.ErrInsufficientStock
			}
		}
		record, event, err = uc.ledger.ApplyMutation(ctx, recordRepo, eventRepo, current, MutationInput{
			CompanyID:     input.CompanyID,
			UserID:        input.UserID,
			Action:        input.Action,
			Quantity:      input.Quantity,
			UnitID:        input.UnitID,
			UnitCost:      input.UnitCost,
			RequestID:     input.RequestID,
			TransactionID: txID,
			Reference:     input.Reference,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	uc.sync.publish(ctx, material, record)
	return &dto.MovementResponse{Record: toRecordResponse(record), Event: toEventResponse(event)}, nil
}

// RegisterMovementFromRequest adapta el request HTTP al caso de uso RegisterMovement(ctx, MovementInputDTO).
func (uc *RegisterMovementUseCase) RegisterMovementFromRequest(ctx context.Context, companyID, userID string, in dto.RegisterMovementRequest) (*dto.MovementResponse, error) {
	return uc.RegisterMovement(ctx, MovementInputDTO{
		CompanyID:  companyID,
		UserID:     userID,
		LocationID: in.LocationID,
		MaterialID: in.MaterialID,
		Action:     in.Action,
		Quantity:   in.Quantity,
		UnitID:     in.UnitID,
		UnitCost:   in.UnitCost,
		RequestID:  in.RequestID,
		Reference:  in.Reference,
	})
}
