package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-costeo/internal/domain"
	"github.com/jhoicas/inventario-costeo/internal/domain/entity"
	"github.com/jhoicas/inventario-costeo/internal/domain/repository"
)

var _ repository.InventoryRecordRepository = (*InventoryRecordRepo)(nil)

// InventoryRecordRepo stock valorizado por ubicación+material (usable con pool o tx).
type InventoryRecordRepo struct {
	q Querier
}

// NewInventoryRecordRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryRecordRepository(q Querier) *InventoryRecordRepo {
	return &InventoryRecordRepo{q: q}
}

const recordColumns = `id, company_id, location_id, material_id, stock, average_cost, stock_value,
	base_unit_id, display_unit_ids, version, created_at, updated_at`

// Get obtiene el registro sin bloquear; nil si no existe en la empresa.
func (r *InventoryRecordRepo) Get(ctx context.Context, companyID, locationID, materialID string) (*entity.InventoryRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM inventory_records
		WHERE company_id = $1 AND location_id = $2 AND material_id = $3`
	rec, err := scanRecord(r.q.QueryRow(ctx, query, companyID, locationID, materialID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory record: %w", err)
	}
	return rec, nil
}

// GetOrCreateForUpdate inserta el registro en cero si falta (ON CONFLICT DO NOTHING) y lo bloquea (SELECT FOR UPDATE).
func (r *InventoryRecordRepo) GetOrCreateForUpdate(ctx context.Context, companyID, locationID string, material *entity.Material) (*entity.InventoryRecord, error) {
	now := time.Now()
	insert := `
		INSERT INTO inventory_records (id, company_id, location_id, material_id, stock, average_cost, stock_value,
			base_unit_id, display_unit_ids, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, 0, 0, 0, $5, $6, 0, $7, $7)
		ON CONFLICT (location_id, material_id) DO NOTHING`
	displayUnits := material.DisplayUnitIDs
	if displayUnits == nil {
		displayUnits = []string{}
	}
	_, err := r.q.Exec(ctx, insert, uuid.New().String(), companyID, locationID, material.ID, material.BaseUnitID, displayUnits, now)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("create inventory record: %w", err)
	}

	query := `SELECT ` + recordColumns + ` FROM inventory_records
		WHERE company_id = $1 AND location_id = $2 AND material_id = $3
		FOR UPDATE`
	rec, err := scanRecord(r.q.QueryRow(ctx, query, companyID, locationID, material.ID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// la fila existe en otra empresa
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get inventory record for update: %w", err)
	}
	return rec, nil
}

// Update persiste stock y costo si la versión no cambió; incrementa record.Version.
func (r *InventoryRecordRepo) Update(ctx context.Context, record *entity.InventoryRecord) error {
	query := `
		UPDATE inventory_records
		SET stock = $1, average_cost = $2, stock_value = $3, version = version + 1, updated_at = $4
		WHERE id = $5 AND version = $6`
	tag, err := r.q.Exec(ctx, query,
		record.Stock, record.AverageCost, record.StockValue, record.UpdatedAt, record.ID, record.Version,
	)
	if err != nil {
		return fmt.Errorf("update inventory record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrConflict
	}
	record.Version++
	return nil
}

func (r *InventoryRecordRepo) ListByLocation(ctx context.Context, companyID, locationID string, limit, offset int) ([]*entity.InventoryRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM inventory_records
		WHERE company_id = $1 AND location_id = $2
		ORDER BY material_id
		LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, query, companyID, locationID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list inventory records: %w", err)
	}
	defer rows.Close()
	var list []*entity.InventoryRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan inventory record: %w", err)
		}
		list = append(list, rec)
	}
	return list, rows.Err()
}

func scanRecord(row pgx.Row) (*entity.InventoryRecord, error) {
	var rec entity.InventoryRecord
	err := row.Scan(
		&rec.ID, &rec.CompanyID, &rec.LocationID, &rec.MaterialID, &rec.Stock, &rec.AverageCost, &rec.StockValue,
		&rec.BaseUnitID, &rec.DisplayUnitIDs, &rec.Version, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
