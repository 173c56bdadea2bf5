package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-costeo/internal/domain"
	"github.com/jhoicas/inventario-costeo/internal/domain/entity"
	"github.com/jhoicas/inventario-costeo/internal/domain/repository"
)

var _ repository.UnitRepository = (*UnitRepo)(nil)

// UnitRepo catálogo de unidades de medida. company_id NULL = unidad compartida del sistema.
type UnitRepo struct {
	q Querier
}

// NewUnitRepository construye el adaptador. Pasar pool o tx (Querier).
func NewUnitRepository(q Querier) *UnitRepo {
	return &UnitRepo{q: q}
}

const unitColumns = `id, company_id, name, family, abbreviation, base_unit_id, base_conversion_rate, created_at`

func (r *UnitRepo) Create(ctx context.Context, unit *entity.UnitOfMeasure) error {
	query := `
		INSERT INTO units_of_measure (` + unitColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		unit.ID, nullString(unit.CompanyID), unit.Name, unit.Family, nullString(unit.Abbreviation),
		unit.BaseUnitID, unit.BaseConversionRate, unit.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("create unit: %w", err)
	}
	return nil
}

func (r *UnitRepo) GetByID(ctx context.Context, id string) (*entity.UnitOfMeasure, error) {
	query := `SELECT ` + unitColumns + ` FROM units_of_measure WHERE id = $1`
	u, err := scanUnit(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get unit: %w", err)
	}
	return u, nil
}

// ListByCompany unidades de la empresa más las del sistema.
func (r *UnitRepo) ListByCompany(ctx context.Context, companyID string) ([]*entity.UnitOfMeasure, error) {
	query := `
		SELECT ` + unitColumns + ` FROM units_of_measure
		WHERE company_id = $1 OR company_id IS NULL
		ORDER BY name`
	rows, err := r.q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("list units: %w", err)
	}
	defer rows.Close()
	var list []*entity.UnitOfMeasure
	for rows.Next() {
		u, err := scanUnit(rows)
		if err != nil {
			return nil, fmt.Errorf("scan unit: %w", err)
		}
		list = append(list, u)
	}
	return list, rows.Err()
}

func scanUnit(row pgx.Row) (*entity.UnitOfMeasure, error) {
	var u entity.UnitOfMeasure
	var companyID, abbreviation *string
	err := row.Scan(&u.ID, &companyID, &u.Name, &u.Family, &abbreviation, &u.BaseUnitID, &u.BaseConversionRate, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	u.CompanyID = fromNull(companyID)
	u.Abbreviation = fromNull(abbreviation)
	return &u, nil
}
