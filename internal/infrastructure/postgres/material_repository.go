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

var (
	_ repository.MaterialRepository = (*MaterialRepo)(nil)
	_ repository.RecipeProvider     = (*MaterialRepo)(nil)
)

// MaterialRepo lectura del catálogo de materiales y de sus recetas de producción.
type MaterialRepo struct {
	q Querier
}

// NewMaterialRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMaterialRepository(q Querier) *MaterialRepo {
	return &MaterialRepo{q: q}
}

func (r *MaterialRepo) GetByID(ctx context.Context, id string) (*entity.Material, error) {
	query := `
		SELECT id, company_id, name, base_unit_id, sell_unit_id, buy_unit_id, recipe_unit_id,
		       display_unit_ids, quantity_managed
		FROM materials WHERE id = $1`
	var m entity.Material
	err := r.q.QueryRow(ctx, query, id).Scan(
		&m.ID, &m.CompanyID, &m.Name, &m.BaseUnitID, &m.SellUnitID, &m.BuyUnitID, &m.RecipeUnitID,
		&m.DisplayUnitIDs, &m.QuantityManaged,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get material: %w", err)
	}
	return &m, nil
}

// Components insumos por unidad base producida del material.
func (r *MaterialRepo) Components(ctx context.Context, companyID, materialID string) ([]repository.RecipeComponent, error) {
	var owner string
	err := r.q.QueryRow(ctx, `SELECT company_id FROM materials WHERE id = $1`, materialID).Scan(&owner)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get recipe owner: %w", err)
	}
	if owner != companyID {
		return nil, domain.ErrNotFound
	}

	query := `
		SELECT component_material_id, quantity, unit_id
		FROM recipe_components WHERE material_id = $1
		ORDER BY position`
	rows, err := r.q.Query(ctx, query, materialID)
	if err != nil {
		return nil, fmt.Errorf("list recipe components: %w", err)
	}
	defer rows.Close()
	var list []repository.RecipeComponent
	for rows.Next() {
		var c repository.RecipeComponent
		if err := rows.Scan(&c.MaterialID, &c.Quantity, &c.UnitID); err != nil {
			return nil, fmt.Errorf("scan recipe component: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}
