package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-costeo/internal/domain"
	"github.com/jhoicas/inventario-costeo/internal/domain/entity"
	"github.com/jhoicas/inventario-costeo/internal/domain/repository"
)

var _ repository.InventoryCountRepository = (*InventoryCountRepo)(nil)

// InventoryCountRepo conteos físicos; las líneas se guardan como JSONB.
type InventoryCountRepo struct {
	q Querier
}

// NewInventoryCountRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryCountRepository(q Querier) *InventoryCountRepo {
	return &InventoryCountRepo{q: q}
}

const countColumns = `id, company_id, location_id, status, lines, notes, created_by, created_at, updated_at, locked_at, closed_at`

func (r *InventoryCountRepo) Create(ctx context.Context, c *entity.InventoryCount) error {
	lines, err := json.Marshal(c.Lines)
	if err != nil {
		return fmt.Errorf("marshal count lines: %w", err)
	}
	query := `
		INSERT INTO inventory_counts (` + countColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err = r.q.Exec(ctx, query,
		c.ID, c.CompanyID, c.LocationID, c.Status, lines, nullString(c.Notes), nullString(c.CreatedBy),
		c.CreatedAt, c.UpdatedAt, c.LockedAt, c.ClosedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create inventory count: %w", err)
	}
	return nil
}

func (r *InventoryCountRepo) GetByID(ctx context.Context, id string) (*entity.InventoryCount, error) {
	return r.get(ctx, `SELECT `+countColumns+` FROM inventory_counts WHERE id = $1`, id)
}

// GetForUpdate bloquea el documento hasta el fin de la transacción.
func (r *InventoryCountRepo) GetForUpdate(ctx context.Context, id string) (*entity.InventoryCount, error) {
	return r.get(ctx, `SELECT `+countColumns+` FROM inventory_counts WHERE id = $1 FOR UPDATE`, id)
}

func (r *InventoryCountRepo) get(ctx context.Context, query, id string) (*entity.InventoryCount, error) {
	c, err := scanCount(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory count: %w", err)
	}
	return c, nil
}

func (r *InventoryCountRepo) Update(ctx context.Context, c *entity.InventoryCount) error {
	lines, err := json.Marshal(c.Lines)
	if err != nil {
		return fmt.Errorf("marshal count lines: %w", err)
	}
	query := `
		UPDATE inventory_counts
		SET status = $1, lines = $2, notes = $3, updated_at = $4, locked_at = $5, closed_at = $6
		WHERE id = $7`
	tag, err := r.q.Exec(ctx, query, c.Status, lines, nullString(c.Notes), c.UpdatedAt, c.LockedAt, c.ClosedAt, c.ID)
	if err != nil {
		return fmt.Errorf("update inventory count: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *InventoryCountRepo) ListByLocation(ctx context.Context, companyID, locationID string, limit, offset int) ([]*entity.InventoryCount, error) {
	query := `
		SELECT ` + countColumns + ` FROM inventory_counts
		WHERE company_id = $1 AND ($2 = '' OR location_id::text = $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, query, companyID, locationID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list inventory counts: %w", err)
	}
	defer rows.Close()
	var list []*entity.InventoryCount
	for rows.Next() {
		c, err := scanCount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan inventory count: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

func scanCount(row pgx.Row) (*entity.InventoryCount, error) {
	var c entity.InventoryCount
	var lines []byte
	var notes, createdBy *string
	err := row.Scan(&c.ID, &c.CompanyID, &c.LocationID, &c.Status, &lines, &notes, &createdBy,
		&c.CreatedAt, &c.UpdatedAt, &c.LockedAt, &c.ClosedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(lines, &c.Lines); err != nil {
		return nil, fmt.Errorf("unmarshal count lines: %w", err)
	}
	c.Notes = fromNull(notes)
	c.CreatedBy = fromNull(createdBy)
	return &c, nil
}
