package inventory_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-costeo/internal/application/inventory"
	appuom "github.com/jhoicas/inventario-costeo/internal/application/uom"
	"github.com/jhoicas/inventario-costeo/internal/domain/entity"
	"github.com/jhoicas/inventario-costeo/internal/domain/repository"
	dominv "github.com/jhoicas/inventario-costeo/internal/domain/inventory"
	"github.com/jhoicas/inventario-costeo/internal/infrastructure/memory"
	"github.com/jhoicas/inventario-costeo/pkg/logger"
)

const (
	companyID = "c1"
	userID    = "u1"
	locA      = "loc-a"
	locB      = "loc-b"

	unitKg   = "u-kg"
	unitG    = "u-g"
	unitEach = "u-ea"
	unitBox  = "u-box"
	unitSack = "u-sack"

	matFlour = "m-flour"
	matSugar = "m-sugar"
	matBread = "m-bread"
	matYeast = "m-yeast"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func strPtr(s string) *string { return &s }

func requireDec(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	require.Truef(t, dec(want).Equal(got), "esperado %s, obtenido %s %v", want, got.String(), msgAndArgs)
}

// recordingNotifier guarda las señales de sincronización recibidas.
type recordingNotifier struct {
	mu      sync.Mutex
	signals []inventory.CatalogSyncSignal
	err     error
}

func (n *recordingNotifier) NotifyStock(_ context.Context, s inventory.CatalogSyncSignal) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.signals = append(n.signals, s)
	return n.err
}

type fixture struct {
	store     *memory.Store
	notifier  *recordingNotifier
	ledger    *inventory.Ledger
	movements *inventory.RegisterMovementUseCase
	transfers *inventory.TransferCoordinator
	produce   *inventory.ProductionUseCase
	counts    *inventory.CountReconciler
	valuation *inventory.ValuationUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()

	store.PutUnit(&entity.UnitOfMeasure{ID: unitKg, Name: "Kilogramo", Family: entity.FamilyMass, Abbreviation: "kg", BaseConversionRate: dec("1")})
	store.PutUnit(&entity.UnitOfMeasure{ID: unitG, Name: "Gramo", Family: entity.FamilyMass, Abbreviation: "g", BaseConversionRate: dec("1")})
	store.PutUnit(&entity.UnitOfMeasure{ID: unitEach, Name: "Unidad", Family: entity.FamilyCount, Abbreviation: "ea", BaseConversionRate: dec("1")})
	store.PutUnit(&entity.UnitOfMeasure{ID: unitBox, CompanyID: companyID, Name: "Caja x12", Family: entity.FamilyCount, BaseUnitID: strPtr(unitEach), BaseConversionRate: dec("12")})
	store.PutUnit(&entity.UnitOfMeasure{ID: unitSack, CompanyID: companyID, Name: "Bulto 25 kg", Family: entity.FamilyMass, BaseUnitID: strPtr(unitKg), BaseConversionRate: dec("25")})

	store.PutLocation(&entity.Location{ID: locA, CompanyID: companyID, Name: "Cocina central"})
	store.PutLocation(&entity.Location{ID: locB, CompanyID: companyID, Name: "Punto de venta"})

	store.PutMaterial(&entity.Material{ID: matFlour, CompanyID: companyID, Name: "Harina", BaseUnitID: unitKg, SellUnitID: strPtr(unitG), BuyUnitID: strPtr(unitSack), QuantityManaged: true})
	store.PutMaterial(&entity.Material{ID: matSugar, CompanyID: companyID, Name: "Azúcar", BaseUnitID: unitKg})
	store.PutMaterial(&entity.Material{ID: matYeast, CompanyID: companyID, Name: "Levadura", BaseUnitID: unitG, BuyUnitID: strPtr(unitKg)})
	store.PutMaterial(&entity.Material{ID: matBread, CompanyID: companyID, Name: "Pan", BaseUnitID: unitEach, SellUnitID: strPtr(unitBox)})

	store.PutRecipe(matBread, []repository.RecipeComponent{
		{MaterialID: matFlour, Quantity: dec("0.5"), UnitID: unitKg},
		{MaterialID: matSugar, Quantity: dec("100"), UnitID: unitG},
	})

	resolver := appuom.NewResolver(appuom.NewUnitCatalogCache(memory.NewUnitRepository(store), 0))
	ledger := inventory.NewLedger(resolver, dominv.DefaultRounder)
	tx := memory.NewTxRunner(store)
	materials := memory.NewMaterialRepository(store)
	locations := memory.NewLocationRepository(store)
	notifier := &recordingNotifier{}
	log := logger.Nop()

	return &fixture{
		store:     store,
		notifier:  notifier,
		ledger:    ledger,
		movements: inventory.NewRegisterMovementUseCase(tx, ledger, materials, locations, notifier, log),
		transfers: inventory.NewTransferCoordinator(tx, ledger, materials, locations, notifier, log),
		produce:   inventory.NewProductionUseCase(tx, ledger, materials, locations, materials, notifier, log),
		counts: inventory.NewCountReconciler(tx, ledger, materials, locations,
			memory.NewInventoryRecordRepository(store), memory.NewInventoryCountRepository(store), notifier, log),
		valuation: inventory.NewValuationUseCase(memory.NewInventoryRecordRepository(store),
			memory.NewMutationEventRepository(store), materials, locations, resolver),
	}
}

// seed deja un registro con stock y costo dados (en kg o unidades base del material).
func (f *fixture) seed(t *testing.T, locationID, materialID, stock, cost string) {
	t.Helper()
	m, err := memory.NewMaterialRepository(f.store).GetByID(context.Background(), materialID)
	require.NoError(t, err)
	f.store.PutRecord(memory.SeedRecord(companyID, locationID, m, dec(stock), dec(cost)))
}

func (f *fixture) failOn(op, key string) {
	f.store.FailOn = func(gotOp, gotKey string) error {
		if gotOp == op && gotKey == key {
			return errors.New("fallo de escritura simulado")
		}
		return nil
	}
}
