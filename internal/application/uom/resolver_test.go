package uom_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-costeo/internal/application/dto"
	"github.com/jhoicas/inventario-costeo/internal/application/uom"
	"github.com/jhoicas/inventario-costeo/internal/domain"
	"github.com/jhoicas/inventario-costeo/internal/domain/entity"
	"github.com/jhoicas/inventario-costeo/internal/infrastructure/memory"
)

func strPtr(s string) *string { return &s }

func newCatalog(t *testing.T) (*memory.Store, *uom.UnitUseCase) {
	t.Helper()
	store := memory.NewStore()
	one := decimal.NewFromInt(1)
	store.PutUnit(&entity.UnitOfMeasure{ID: "u-ea", Name: "Unidad", Family: entity.FamilyCount, Abbreviation: "ea", BaseConversionRate: one})
	store.PutUnit(&entity.UnitOfMeasure{ID: "u-kg", Name: "Kilogramo", Family: entity.FamilyMass, Abbreviation: "kg", BaseConversionRate: one})
	store.PutUnit(&entity.UnitOfMeasure{ID: "u-lb", Name: "Libra", Family: entity.FamilyMass, Abbreviation: "lb", BaseConversionRate: one})
	store.PutUnit(&entity.UnitOfMeasure{ID: "u-box", CompanyID: "c1", Name: "Caja", Family: entity.FamilyCount, BaseUnitID: strPtr("u-ea"), BaseConversionRate: decimal.NewFromInt(12)})
	store.PutUnit(&entity.UnitOfMeasure{ID: "u-other", CompanyID: "c2", Name: "Caja c2", Family: entity.FamilyCount, BaseUnitID: strPtr("u-ea"), BaseConversionRate: decimal.NewFromInt(6)})

	cache := uom.NewUnitCatalogCache(memory.NewUnitRepository(store), 0)
	return store, uom.NewUnitUseCase(cache, uom.NewResolver(cache))
}

func TestResolve_CajaYUnidad(t *testing.T) {
	_, uc := newCatalog(t)
	ctx := context.Background()

	out, err := uc.Resolve(ctx, "c1", "u-box", "u-ea")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(12).Equal(out.Factor))

	back, err := uc.Resolve(ctx, "c1", "u-ea", "u-box")
	require.NoError(t, err)
	// 1/12 con la precisión de división de decimal
	assert.True(t, back.Factor.Mul(decimal.NewFromInt(12)).Sub(decimal.NewFromInt(1)).Abs().LessThan(decimal.New(1, -12)))
}

func TestResolve_Errores(t *testing.T) {
	_, uc := newCatalog(t)
	ctx := context.Background()

	_, err := uc.Resolve(ctx, "c1", "u-box", "u-kg")
	assert.True(t, errors.Is(err, domain.ErrConversion))

	_, err = uc.Resolve(ctx, "c1", "u-other", "u-ea")
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	_, err = uc.Resolve(ctx, "c1", "u-nada", "u-ea")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestResolve_BaseInexistente(t *testing.T) {
	store, uc := newCatalog(t)
	store.PutUnit(&entity.UnitOfMeasure{ID: "u-huerfana", CompanyID: "c1", Name: "Huérfana", BaseUnitID: strPtr("u-borrada"), BaseConversionRate: decimal.NewFromInt(2)})

	_, err := uc.Resolve(context.Background(), "c1", "u-huerfana", "u-ea")
	assert.True(t, errors.Is(err, domain.ErrConversion))
}

func TestCreate_UnidadDelSistema(t *testing.T) {
	_, uc := newCatalog(t)

	out, err := uc.Create(context.Background(), "c1", dto.CreateUnitRequest{Name: "Litro", Abbreviation: "l"})
	require.NoError(t, err)
	assert.Equal(t, entity.FamilyVolume, out.Family)
	assert.Nil(t, out.BaseUnitID)
}

func TestCreate_UnidadPersonalizada(t *testing.T) {
	_, uc := newCatalog(t)
	ctx := context.Background()

	out, err := uc.Create(ctx, "c1", dto.CreateUnitRequest{
		Name:               "Bulto 50 lb",
		BaseUnitID:         strPtr("u-lb"),
		BaseConversionRate: decimal.NewFromInt(50),
	})
	require.NoError(t, err)
	assert.Equal(t, entity.FamilyMass, out.Family)

	res, err := uc.Resolve(ctx, "c1", out.ID, "u-kg")
	require.NoError(t, err)
	// 50 lb = 22.6796185 kg
	assert.True(t, decimal.RequireFromString("22.6796185").Equal(res.Factor.Round(7)))
}

func TestCreate_Validaciones(t *testing.T) {
	_, uc := newCatalog(t)
	ctx := context.Background()

	_, err := uc.Create(ctx, "c1", dto.CreateUnitRequest{Name: ""})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = uc.Create(ctx, "c1", dto.CreateUnitRequest{Name: "Rara", Abbreviation: "zz"})
	assert.True(t, errors.Is(err, domain.ErrConversion))

	_, err = uc.Create(ctx, "c1", dto.CreateUnitRequest{Name: "Kilo", Abbreviation: "kg", Family: entity.FamilyVolume})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	// profundidad máxima 2: no se puede apoyar en otra unidad personalizada
	_, err = uc.Create(ctx, "c1", dto.CreateUnitRequest{Name: "Pallet", BaseUnitID: strPtr("u-box"), BaseConversionRate: decimal.NewFromInt(40)})
	assert.True(t, errors.Is(err, domain.ErrConversion))

	_, err = uc.Create(ctx, "c1", dto.CreateUnitRequest{Name: "Nada", BaseUnitID: strPtr("u-ea"), BaseConversionRate: decimal.Zero})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestList_IncluyeUnidadesDelSistema(t *testing.T) {
	_, uc := newCatalog(t)

	list, err := uc.List(context.Background(), "c1")
	require.NoError(t, err)
	// ea, kg, lb y la caja de c1; la caja de c2 no aparece
	assert.Len(t, list, 4)
}
