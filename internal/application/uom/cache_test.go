package uom_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-costeo/internal/application/uom"
	"github.com/jhoicas/inventario-costeo/internal/domain/entity"
	"github.com/jhoicas/inventario-costeo/internal/infrastructure/memory"
)

// countingRepo cuenta las lecturas que llegan al repositorio real.
type countingRepo struct {
	*memory.UnitRepo
	gets atomic.Int32
}

func (r *countingRepo) GetByID(ctx context.Context, id string) (*entity.UnitOfMeasure, error) {
	r.gets.Add(1)
	return r.UnitRepo.GetByID(ctx, id)
}

func newCountingRepo() *countingRepo {
	store := memory.NewStore()
	store.PutUnit(&entity.UnitOfMeasure{ID: "u-kg", Name: "Kilogramo", Family: entity.FamilyMass, Abbreviation: "kg", BaseConversionRate: decimal.NewFromInt(1)})
	return &countingRepo{UnitRepo: memory.NewUnitRepository(store)}
}

func TestUnitCatalogCache_ReutilizaEntrada(t *testing.T) {
	repo := newCountingRepo()
	cache := uom.NewUnitCatalogCache(repo, time.Minute)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		u, err := cache.GetByID(ctx, "u-kg")
		require.NoError(t, err)
		assert.Equal(t, "kg", u.Abbreviation)
	}
	assert.Equal(t, int32(1), repo.gets.Load())
}

func TestUnitCatalogCache_Expira(t *testing.T) {
	repo := newCountingRepo()
	cache := uom.NewUnitCatalogCache(repo, time.Minute)
	now := time.Now()
	uom.SetCacheClock(cache, func() time.Time { return now })
	ctx := context.Background()

	_, err := cache.GetByID(ctx, "u-kg")
	require.NoError(t, err)
	now = now.Add(2 * time.Minute)
	_, err = cache.GetByID(ctx, "u-kg")
	require.NoError(t, err)

	assert.Equal(t, int32(2), repo.gets.Load())
}

func TestUnitCatalogCache_DevuelveCopias(t *testing.T) {
	cache := uom.NewUnitCatalogCache(newCountingRepo(), 0)
	ctx := context.Background()

	u, err := cache.GetByID(ctx, "u-kg")
	require.NoError(t, err)
	u.Abbreviation = "lb"

	again, err := cache.GetByID(ctx, "u-kg")
	require.NoError(t, err)
	assert.Equal(t, "kg", again.Abbreviation)
}

func TestUnitCatalogCache_Inexistente(t *testing.T) {
	cache := uom.NewUnitCatalogCache(newCountingRepo(), 0)

	u, err := cache.GetByID(context.Background(), "nada")
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestUnitCatalogCache_LecturasConcurrentes(t *testing.T) {
	cache := uom.NewUnitCatalogCache(newCountingRepo(), time.Minute)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			u, err := cache.GetByID(ctx, "u-kg")
			assert.NoError(t, err)
			assert.NotNil(t, u)
		}()
	}
	wg.Wait()
}

func TestUnitCatalogCache_CreateInvalida(t *testing.T) {
	repo := newCountingRepo()
	cache := uom.NewUnitCatalogCache(repo, time.Minute)
	ctx := context.Background()

	require.NoError(t, cache.Create(ctx, &entity.UnitOfMeasure{ID: "u-g", Name: "Gramo", Family: entity.FamilyMass, Abbreviation: "g", BaseConversionRate: decimal.NewFromInt(1)}))
	u, err := cache.GetByID(ctx, "u-g")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "g", u.Abbreviation)
}
