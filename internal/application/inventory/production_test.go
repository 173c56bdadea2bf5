package inventory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-costeo/internal/application/inventory"
	"github.com/jhoicas/inventario-costeo/internal/domain"
	"github.com/jhoicas/inventario-costeo/internal/domain/entity"
)

func production(qty, unitID string) inventory.ProductionInput {
	return inventory.ProductionInput{
		CompanyID:  companyID,
		UserID:     userID,
		LocationID: locA,
		MaterialID: matBread,
		Quantity:   dec(qty),
		UnitID:     unitID,
	}
}

func TestProduce_ConsumeInsumosYRecibeAlValorConsumido(t *testing.T) {
	f := newFixture(t)
	f.seed(t, locA, matFlour, "10", "5")
	f.seed(t, locA, matSugar, "2", "3")

	out, err := f.produce.Produce(context.Background(), production("4", unitEach))
	require.NoError(t, err)

	// 2 kg harina × 5 + 0.4 kg azúcar × 3
	requireDec(t, "11.2", out.ConsumedValue)
	requireDec(t, "4", out.Output.Stock)
	requireDec(t, "2.8", out.Output.AverageCost)
	requireDec(t, "11.2", out.Output.StockValue)

	requireDec(t, "8", f.store.Record(locA, matFlour).Stock)
	requireDec(t, "1.6", f.store.Record(locA, matSugar).Stock)
	requireDec(t, "5", f.store.Record(locA, matFlour).AverageCost)

	require.Len(t, out.Events, 3)
	assert.Equal(t, entity.ActionProduction, out.Events[0].Action)
	assert.Equal(t, entity.ActionProduction, out.Events[1].Action)
	assert.Equal(t, entity.ActionGoodsReceipt, out.Events[2].Action)
	for _, e := range out.Events {
		assert.Equal(t, out.TransactionID, e.TransactionID)
	}
}

func TestProduce_EnUnidadPersonalizada(t *testing.T) {
	f := newFixture(t)
	f.seed(t, locA, matFlour, "10", "5")
	f.seed(t, locA, matSugar, "2", "3")

	// 1 caja = 12 panes: 6 kg harina y 1.2 kg azúcar
	out, err := f.produce.Produce(context.Background(), production("1", unitBox))
	require.NoError(t, err)

	requireDec(t, "33.6", out.ConsumedValue)
	requireDec(t, "12", out.Output.Stock)
	requireDec(t, "2.8", out.Output.AverageCost)
	requireDec(t, "4", f.store.Record(locA, matFlour).Stock)
	requireDec(t, "0.8", f.store.Record(locA, matSugar).Stock)
}

func TestProduce_InsumoInsuficienteNoModificaNada(t *testing.T) {
	f := newFixture(t)
	f.seed(t, locA, matFlour, "10", "5")
	f.seed(t, locA, matSugar, "2", "3")

	_, err := f.produce.Produce(context.Background(), production("100", unitEach))
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))

	requireDec(t, "10", f.store.Record(locA, matFlour).Stock)
	requireDec(t, "2", f.store.Record(locA, matSugar).Stock)
	assert.Nil(t, f.store.Record(locA, matBread))
	assert.Empty(t, f.store.Events())
}

func TestProduce_SinReceta(t *testing.T) {
	f := newFixture(t)

	in := production("1", unitKg)
	in.MaterialID = matSugar
	_, err := f.produce.Produce(context.Background(), in)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestProduce_CantidadInvalida(t *testing.T) {
	f := newFixture(t)

	_, err := f.produce.Produce(context.Background(), production("0", unitEach))
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestProduce_NotificaInsumosGestionados(t *testing.T) {
	f := newFixture(t)
	f.seed(t, locA, matFlour, "10", "5")
	f.seed(t, locA, matSugar, "2", "3")

	_, err := f.produce.Produce(context.Background(), production("4", unitEach))
	require.NoError(t, err)

	// solo la harina se gestiona por cantidad en el catálogo de venta
	require.Len(t, f.notifier.signals, 1)
	assert.Equal(t, matFlour, f.notifier.signals[0].MaterialID)
	requireDec(t, "8000", f.notifier.signals[0].StockInSellUnit)
}
