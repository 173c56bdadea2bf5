package inventory_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-costeo/internal/domain"
	"github.com/jhoicas/inventario-costeo/internal/domain/entity"
	"github.com/jhoicas/inventario-costeo/internal/domain/inventory"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func ptr(d decimal.Decimal) *decimal.Decimal { return &d }

func record(stock, cost string) *entity.InventoryRecord {
	s, c := dec(stock), dec(cost)
	return &entity.InventoryRecord{Stock: s, AverageCost: c, StockValue: s.Mul(c), BaseUnitID: "kg"}
}

func delta(qty, factor string, cost *decimal.Decimal) inventory.Delta {
	q, f := dec(qty), dec(factor)
	return inventory.Delta{Base: q.Mul(f), Quantity: q, HasQuantity: true, UnitCost: cost, Factor: f}
}

// Escenario A: entrada de 5 kg a 8 sobre 10 kg a 5.
func TestCalculate_GoodsReceipt_EscenarioA(t *testing.T) {
	out, err := inventory.Calculate(record("10", "5"), entity.ActionGoodsReceipt, delta("5", "1", ptr(dec("8"))), inventory.DefaultRounder)
	require.NoError(t, err)
	assert.True(t, out.Stock.Equal(dec("15")))
	assert.True(t, out.AverageCost.Equal(dec("6")))
	assert.True(t, out.StockValue.Equal(dec("90")))
	assert.True(t, out.PreviousStock.Equal(dec("10")))
}

// Escenario B: venta de 3 kg no cambia el costo.
func TestCalculate_ItemSold_EscenarioB(t *testing.T) {
	out, err := inventory.Calculate(record("15", "6"), entity.ActionItemSold, delta("3", "1", nil), inventory.DefaultRounder)
	require.NoError(t, err)
	assert.True(t, out.Stock.Equal(dec("12")))
	assert.True(t, out.AverageCost.Equal(dec("6")))
	assert.True(t, out.StockValue.Equal(dec("72")))
}

func TestCalculate_PromedioDentroDeRango(t *testing.T) {
	cases := []struct{ stock, cost, qty, factor, k string }{
		{"10", "5", "5", "1", "8"},
		{"0.5", "100", "20", "1", "1"},
		{"3", "2.5", "2", "1000", "9000"}, // 2 toneladas a 9000/t en kg
		{"1", "1", "1", "0.001", "1"},
		{"0", "0", "4", "12", "24"},
	}
	for _, tc := range cases {
		rec := record(tc.stock, tc.cost)
		d := delta(tc.qty, tc.factor, ptr(dec(tc.k)))
		out, err := inventory.Calculate(rec, entity.ActionGoodsReceipt, d, inventory.Rounder{Places: 6})
		require.NoError(t, err)

		kBase := dec(tc.k).Div(dec(tc.factor)) // costo entrante por unidad base
		lo, hi := decimal.Min(rec.AverageCost, kBase), decimal.Max(rec.AverageCost, kBase)
		if rec.Stock.IsZero() {
			lo, hi = kBase, kBase
		}
		eps := dec("0.000001")
		assert.True(t, out.AverageCost.GreaterThanOrEqual(lo.Sub(eps)), "%v: %s < %s", tc, out.AverageCost, lo)
		assert.True(t, out.AverageCost.LessThanOrEqual(hi.Add(eps)), "%v: %s > %s", tc, out.AverageCost, hi)
	}
}

// 1 kg a 5 sobre un registro en gramos: 0.005 por gramo, no 0.01.
func TestCalculate_CostoPorGramoNoSeRedondeaAMoneda(t *testing.T) {
	rec := record("0", "0")
	rec.BaseUnitID = "g"
	out, err := inventory.Calculate(rec, entity.ActionGoodsReceipt, delta("1", "1000", ptr(dec("5"))), inventory.DefaultRounder)
	require.NoError(t, err)
	assert.True(t, out.AverageCost.Equal(dec("0.005")), out.AverageCost.String())
	assert.True(t, out.StockValue.Equal(dec("5")))

	// 1/3 por gramo: el costo queda en 10 decimales y el valor en centavos.
	out, err = inventory.Calculate(record("2", "0"), entity.ActionGoodsReceipt, delta("1", "1", ptr(dec("1"))), inventory.DefaultRounder)
	require.NoError(t, err)
	assert.True(t, out.AverageCost.Equal(dec("0.3333333333")), out.AverageCost.String())
	assert.True(t, out.StockValue.Equal(dec("1")))
}

func TestRounder_CostPlacesPorDefecto(t *testing.T) {
	r := inventory.Rounder{Places: 2}
	assert.True(t, r.Cost(dec("0.123456789012")).Equal(dec("0.123456789")))
	assert.True(t, r.Money(dec("0.125")).Equal(dec("0.13")))
}

func TestCalculate_DecrementosNoCambianCosto(t *testing.T) {
	for _, action := range []string{entity.ActionItemSold, entity.ActionWaste, entity.ActionProduction, entity.ActionSentWithTransfer} {
		t.Run(action, func(t *testing.T) {
			out, err := inventory.Calculate(record("20", "3.75"), action, delta("2", "0.5", nil), inventory.DefaultRounder)
			require.NoError(t, err)
			assert.True(t, out.AverageCost.Equal(dec("3.75")))
			assert.True(t, out.Stock.Equal(dec("19")))
			assert.True(t, out.StockValue.Equal(dec("71.25")))
			assert.True(t, inventory.IsDecrement(action))
		})
	}
}

func TestCalculate_ReconteoAbsoluto(t *testing.T) {
	out, err := inventory.Calculate(record("20", "3"), entity.ActionManualCount, delta("7", "1", nil), inventory.DefaultRounder)
	require.NoError(t, err)
	assert.True(t, out.Stock.Equal(dec("7")), "reconteo sobrescribe, no suma")
	assert.True(t, out.AverageCost.Equal(dec("3")))

	// Costo por caja de 12: 24 -> 2 por unidad base.
	d := inventory.Delta{Factor: dec("12"), UnitCost: ptr(dec("24"))}
	out, err = inventory.Calculate(record("20", "3"), entity.ActionManualCount, d, inventory.DefaultRounder)
	require.NoError(t, err)
	assert.True(t, out.Stock.Equal(dec("20")), "sin cantidad conserva el stock")
	assert.True(t, out.AverageCost.Equal(dec("2")))
	assert.True(t, out.StockValue.Equal(dec("40")))
}

func TestCalculate_EntradaSinCosto(t *testing.T) {
	_, err := inventory.Calculate(record("1", "1"), entity.ActionGoodsReceipt, delta("1", "1", nil), inventory.DefaultRounder)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestStrategyFor_AccionDesconocida(t *testing.T) {
	_, err := inventory.StrategyFor("TELEPORT")
	assert.True(t, errors.Is(err, domain.ErrConfiguration))
}

func TestCostCalculator_StockCero(t *testing.T) {
	assert.True(t, inventory.CostCalculator(decimal.Zero, decimal.Zero, decimal.Zero, dec("10")).IsZero())
}
