package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-costeo/internal/application/dto"
	"github.com/jhoicas/inventario-costeo/internal/domain"
	"github.com/jhoicas/inventario-costeo/internal/domain/entity"
	"github.com/jhoicas/inventario-costeo/internal/domain/inventory"
	"github.com/jhoicas/inventario-costeo/internal/domain/repository"
	"github.com/jhoicas/inventario-costeo/pkg/logger"
)

// CountReconciler gestiona el ciclo de vida de los conteos físicos
// (NEW → LOCKED → APPLIED, o REJECTED) y aplica los ajustes MANUAL_COUNT al aplicarlos.
type CountReconciler struct {
	txRunner     TxRunner
	ledger       *Ledger
	materialRepo repository.MaterialRepository
	locationRepo repository.LocationRepository
	recordRepo   repository.InventoryRecordRepository
	countRepo    repository.InventoryCountRepository
	sync         catalogSync
	log          *logger.Logger
	now          func() time.Time
}

// NewCountReconciler construye el caso de uso de conteos. notifier puede ser nil.
func NewCountReconciler(
	txRunner TxRunner,
	ledger *Ledger,
	materialRepo repository.MaterialRepository,
	locationRepo repository.LocationRepository,
	recordRepo repository.InventoryRecordRepository,
	countRepo repository.InventoryCountRepository,
	notifier CatalogSyncNotifier,
	log *logger.Logger,
) *CountReconciler {
	return &CountReconciler{
		txRunner:     txRunner,
		ledger:       ledger,
		materialRepo: materialRepo,
		locationRepo: locationRepo,
		recordRepo:   recordRepo,
		countRepo:    countRepo,
		sync:         catalogSync{notifier: notifier, resolver: ledger.resolver, log: log},
		log:          log,
		now:          time.Now,
	}
}

// Create registra un conteo NEW y calcula sus diferencias contra el stock actual.
func (uc *CountReconciler) Create(ctx context.Context, companyID, userID string, in dto.CreateCountRequest) (*dto.CountResponse, error) {
	if _, err := loadLocation(ctx, uc.locationRepo, companyID, in.LocationID); err != nil {
		return nil, err
	}
	lines, err := uc.prepareLines(ctx, uc.recordRepo, companyID, in.LocationID, toCountLines(in.Lines))
	if err != nil {
		return nil, err
	}
	now := uc.now()
	count := &entity.InventoryCount{
		ID:         uuid.New().String(),
		CompanyID:  companyID,
		LocationID: in.LocationID,
		Status:     entity.CountStatusNew,
		Lines:      lines,
		Notes:      in.Notes,
		CreatedBy:  userID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	err = uc.txRunner.Run(ctx, func(_ repository.InventoryRecordRepository, _ repository.MutationEventRepository, countRepo repository.InventoryCountRepository) error {
		return countRepo.Create(ctx, count)
	})
	if err != nil {
		return nil, err
	}
	out := toCountResponse(count)
	return &out, nil
}

// UpdateLines reemplaza las líneas de un conteo NEW.
func (uc *CountReconciler) UpdateLines(ctx context.Context, companyID, countID string, in dto.UpdateCountLinesRequest) (*dto.CountResponse, error) {
	return uc.transition(ctx, companyID, countID, func(count *entity.InventoryCount, recordRepo repository.InventoryRecordRepository, _ repository.MutationEventRepository) error {
		if count.Status != entity.CountStatusNew {
			return domain.ErrIllegalState
		}
		lines, err := uc.prepareLines(ctx, recordRepo, companyID, count.LocationID, toCountLines(in.Lines))
		if err != nil {
			return err
		}
		count.Lines = lines
		return nil
	})
}

// Prepare recalcula diferencias y valores con el stock actual sin cambiar el estado.
func (uc *CountReconciler) Prepare(ctx context.Context, companyID, countID string) (*dto.CountResponse, error) {
	return uc.transition(ctx, companyID, countID, func(count *entity.InventoryCount, recordRepo repository.InventoryRecordRepository, _ repository.MutationEventRepository) error {
		if count.IsTerminal() {
			return domain.ErrIllegalState
		}
		lines, err := uc.prepareLines(ctx, recordRepo, companyID, count.LocationID, count.Lines)
		if err != nil {
			return err
		}
		count.Lines = lines
		return nil
	})
}

// Lock congela el conteo para revisión (NEW → LOCKED).
func (uc *CountReconciler) Lock(ctx context.Context, companyID, countID string) (*dto.CountResponse, error) {
	return uc.transition(ctx, companyID, countID, func(count *entity.InventoryCount, _ repository.InventoryRecordRepository, _ repository.MutationEventRepository) error {
		if count.Status != entity.CountStatusNew {
			return domain.ErrIllegalState
		}
		now := uc.now()
		count.Status = entity.CountStatusLocked
		count.LockedAt = &now
		return nil
	})
}

// Reject descarta el conteo sin tocar inventario (NEW|LOCKED → REJECTED).
func (uc *CountReconciler) Reject(ctx context.Context, companyID, countID string) (*dto.CountResponse, error) {
	return uc.transition(ctx, companyID, countID, func(count *entity.InventoryCount, _ repository.InventoryRecordRepository, _ repository.MutationEventRepository) error {
		if count.IsTerminal() {
			return domain.ErrIllegalState
		}
		now := uc.now()
		count.Status = entity.CountStatusRejected
		count.ClosedAt = &now
		return nil
	})
}

// Apply aplica un MANUAL_COUNT por línea (LOCKED → APPLIED). Si cualquier línea falla
// no se modifica ningún registro y el conteo queda LOCKED.
func (uc *CountReconciler) Apply(ctx context.Context, companyID, userID, countID string) (*dto.CountResponse, error) {
	type applied struct {
		material *entity.Material
		record   *entity.InventoryRecord
	}
	var touched []applied
	out, err := uc.transition(ctx, companyID, countID, func(count *entity.InventoryCount, recordRepo repository.InventoryRecordRepository, eventRepo repository.MutationEventRepository) error {
		if count.Status != entity.CountStatusLocked {
			return domain.ErrIllegalState
		}
		touched = touched[:0]
		txID := uuid.New().String()
		for i, line := range count.Lines {
			material, err := loadMaterial(ctx, uc.materialRepo, companyID, line.MaterialID)
			if err != nil {
				return err
			}
			rec, err := recordRepo.GetOrCreateForUpdate(ctx, companyID, count.LocationID, material)
			if err != nil {
				return err
			}
			counted, err := uc.countedBase(ctx, companyID, rec, line.Quantities)
			if err != nil {
				return err
			}
			count.Lines[i] = fillLine(line, rec, counted, uc.ledger.Rounder())
			updated, _, err := uc.ledger.ApplyMutation(ctx, recordRepo, eventRepo, rec, MutationInput{
				CompanyID:     companyID,
				UserID:        userID,
				Action:        entity.ActionManualCount,
				Quantity:      &counted,
				UnitID:        rec.BaseUnitID,
				UnitCost:      line.UnitCost,
				TransactionID: txID,
				Reference:     "count:" + count.ID,
			})
			if err != nil {
				return err
			}
			touched = append(touched, applied{material: material, record: updated})
		}
		now := uc.now()
		count.Status = entity.CountStatusApplied
		count.ClosedAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}
	for _, t := range touched {
		uc.sync.publish(ctx, t.material, t.record)
	}
	return out, nil
}

// Get devuelve un conteo de la empresa.
func (uc *CountReconciler) Get(ctx context.Context, companyID, countID string) (*dto.CountResponse, error) {
	count, err := uc.countRepo.GetByID(ctx, countID)
	if err != nil {
		return nil, err
	}
	if count == nil || count.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	out := toCountResponse(count)
	return &out, nil
}

// List conteos de una ubicación, más recientes primero.
func (uc *CountReconciler) List(ctx context.Context, companyID, locationID string, page dto.PageRequest) ([]dto.CountResponse, error) {
	page.Normalize()
	counts, err := uc.countRepo.ListByLocation(ctx, companyID, locationID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CountResponse, 0, len(counts))
	for _, c := range counts {
		out = append(out, toCountResponse(c))
	}
	return out, nil
}

// transition bloquea el conteo, ejecuta fn y lo persiste en la misma transacción.
func (uc *CountReconciler) transition(
	ctx context.Context,
	companyID, countID string,
	fn func(count *entity.InventoryCount, recordRepo repository.InventoryRecordRepository, eventRepo repository.MutationEventRepository) error,
) (*dto.CountResponse, error) {
	var result *entity.InventoryCount
	err := uc.txRunner.Run(ctx, func(
		recordRepo repository.InventoryRecordRepository,
		eventRepo repository.MutationEventRepository,
		countRepo repository.InventoryCountRepository,
	) error {
		count, err := countRepo.GetForUpdate(ctx, countID)
		if err != nil {
			return err
		}
		if count == nil || count.CompanyID != companyID {
			return domain.ErrNotFound
		}
		if err := fn(count, recordRepo, eventRepo); err != nil {
			return err
		}
		count.UpdatedAt = uc.now()
		if err := countRepo.Update(ctx, count); err != nil {
			return err
		}
		result = count
		return nil
	})
	if err != nil {
		return nil, err
	}
	out := toCountResponse(result)
	return &out, nil
}

// prepareLines valida las líneas y calcula cantidad contada en base, diferencia absoluta y valores.
// Un material sin registro en la ubicación se compara contra stock cero.
func (uc *CountReconciler) prepareLines(ctx context.Context, recordRepo repository.InventoryRecordRepository, companyID, locationID string, lines []entity.CountLine) ([]entity.CountLine, error) {
	if len(lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	seen := make(map[string]bool, len(lines))
	out := make([]entity.CountLine, 0, len(lines))
	rounder := uc.ledger.Rounder()
	for _, line := range lines {
		if line.MaterialID == "" || seen[line.MaterialID] || len(line.Quantities) == 0 {
			return nil, domain.ErrInvalidInput
		}
		if line.UnitCost != nil && line.UnitCost.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		seen[line.MaterialID] = true
		material, err := loadMaterial(ctx, uc.materialRepo, companyID, line.MaterialID)
		if err != nil {
			return nil, err
		}
		rec, err := recordRepo.Get(ctx, companyID, locationID, material.ID)
		if err != nil {
			return nil, err
		}
		if rec == nil {
			rec = entity.NewInventoryRecord("", companyID, locationID, material, uc.now())
		}
		counted, err := uc.countedBase(ctx, companyID, rec, line.Quantities)
		if err != nil {
			return nil, err
		}
		out = append(out, fillLine(line, rec, counted, rounder))
	}
	return out, nil
}

// fillLine completa los valores calculados de una línea contra el registro actual.
func fillLine(line entity.CountLine, rec *entity.InventoryRecord, counted decimal.Decimal, rounder inventory.Rounder) entity.CountLine {
	diff := counted.Sub(rec.Stock).Abs()
	line.CountedBase = counted
	line.SystemStock = rec.Stock
	line.AverageCost = rec.AverageCost
	line.Differential = diff
	line.CountValue = rounder.Money(counted.Mul(rec.AverageCost))
	line.DifferentialValue = rounder.Money(diff.Mul(rec.AverageCost))
	return line
}

// countedBase suma las cantidades contadas convertidas a la unidad base del registro.
func (uc *CountReconciler) countedBase(ctx context.Context, companyID string, rec *entity.InventoryRecord, quantities []entity.CountedQuantity) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, q := range quantities {
		if q.Quantity.IsNegative() {
			return decimal.Zero, domain.ErrInvalidInput
		}
		base, _, err := uc.ledger.BaseQuantity(ctx, companyID, rec, q.Quantity, q.UnitID)
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(base)
	}
	return total, nil
}

func toCountLines(in []dto.CountLineRequest) []entity.CountLine {
	out := make([]entity.CountLine, 0, len(in))
	for _, l := range in {
		qs := make([]entity.CountedQuantity, 0, len(l.Quantities))
		for _, q := range l.Quantities {
			qs = append(qs, entity.CountedQuantity{Quantity: q.Quantity, UnitID: q.UnitID})
		}
		out = append(out, entity.CountLine{MaterialID: l.MaterialID, Quantities: qs, UnitCost: l.UnitCost})
	}
	return out
}

func toCountResponse(c *entity.InventoryCount) dto.CountResponse {
	lines := make([]dto.CountLineResponse, 0, len(c.Lines))
	for _, l := range c.Lines {
		qs := make([]dto.CountedQuantityRequest, 0, len(l.Quantities))
		for _, q := range l.Quantities {
			qs = append(qs, dto.CountedQuantityRequest{Quantity: q.Quantity, UnitID: q.UnitID})
		}
		lines = append(lines, dto.CountLineResponse{
			MaterialID:        l.MaterialID,
			Quantities:        qs,
			UnitCost:          l.UnitCost,
			CountedBase:       l.CountedBase,
			SystemStock:       l.SystemStock,
			AverageCost:       l.AverageCost,
			Differential:      l.Differential,
			CountValue:        l.CountValue,
			DifferentialValue: l.DifferentialValue,
		})
	}
	return dto.CountResponse{
		ID:         c.ID,
		LocationID: c.LocationID,
		Status:     c.Status,
		Notes:      c.Notes,
		Lines:      lines,
		CreatedBy:  c.CreatedBy,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
		LockedAt:   c.LockedAt,
		ClosedAt:   c.ClosedAt,
	}
}
