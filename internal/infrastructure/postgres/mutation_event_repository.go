package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/inventario-costeo/internal/domain"
	"github.com/jhoicas/inventario-costeo/internal/domain/entity"
	"github.com/jhoicas/inventario-costeo/internal/domain/repository"
)

var _ repository.MutationEventRepository = (*MutationEventRepo)(nil)

// MutationEventRepo historial append-only; el resultado calculado se guarda como JSONB.
type MutationEventRepo struct {
	q Querier
}

// NewMutationEventRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMutationEventRepository(q Querier) *MutationEventRepo {
	return &MutationEventRepo{q: q}
}

const eventColumns = `id, company_id, location_id, material_id, action, request_id, transaction_id, base_unit_id,
	input_quantity, input_unit_id, input_unit_cost, result, reference, created_by, created_at`

func (r *MutationEventRepo) Create(ctx context.Context, e *entity.InventoryMutationEvent) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	result, err := json.Marshal(e.Result)
	if err != nil {
		return fmt.Errorf("marshal mutation result: %w", err)
	}
	query := `
		INSERT INTO inventory_mutation_events (` + eventColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err = r.q.Exec(ctx, query,
		e.ID, e.CompanyID, e.LocationID, e.MaterialID, e.Action, nullString(e.RequestID), e.TransactionID, e.BaseUnitID,
		e.InputQuantity, e.InputUnitID, e.InputUnitCost, result, nullString(e.Reference), nullString(e.CreatedBy), e.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: request_id %s ya aplicado", domain.ErrIllegalState, e.RequestID)
		}
		return fmt.Errorf("create mutation event: %w", err)
	}
	return nil
}

func (r *MutationEventRepo) ExistsRequest(ctx context.Context, companyID, requestID string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM inventory_mutation_events WHERE company_id = $1 AND request_id = $2)`,
		companyID, requestID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("exists request: %w", err)
	}
	return exists, nil
}

// List filtra por empresa y opcionalmente ubicación, material y rango de fechas; más recientes primero.
func (r *MutationEventRepo) List(ctx context.Context, f repository.EventFilter) ([]*entity.InventoryMutationEvent, error) {
	where := []string{"company_id = $1"}
	args := []any{f.CompanyID}
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if f.LocationID != "" {
		add("location_id = $%d", f.LocationID)
	}
	if f.MaterialID != "" {
		add("material_id = $%d", f.MaterialID)
	}
	if f.From != nil {
		add("created_at >= $%d", *f.From)
	}
	if f.To != nil {
		add("created_at <= $%d", *f.To)
	}
	args = append(args, f.Limit, f.Offset)
	query := fmt.Sprintf(`SELECT %s FROM inventory_mutation_events WHERE %s
		ORDER BY created_at DESC, id DESC
		LIMIT $%d OFFSET $%d`, eventColumns, strings.Join(where, " AND "), len(args)-1, len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list mutation events: %w", err)
	}
	defer rows.Close()
	var list []*entity.InventoryMutationEvent
	for rows.Next() {
		var e entity.InventoryMutationEvent
		var requestID, reference, createdBy *string
		var result []byte
		if err := rows.Scan(
			&e.ID, &e.CompanyID, &e.LocationID, &e.MaterialID, &e.Action, &requestID, &e.TransactionID, &e.BaseUnitID,
			&e.InputQuantity, &e.InputUnitID, &e.InputUnitCost, &result, &reference, &createdBy, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan mutation event: %w", err)
		}
		if err := json.Unmarshal(result, &e.Result); err != nil {
			return nil, fmt.Errorf("unmarshal mutation result: %w", err)
		}
		e.RequestID = fromNull(requestID)
		e.Reference = fromNull(reference)
		e.CreatedBy = fromNull(createdBy)
		list = append(list, &e)
	}
	return list, rows.Err()
}
