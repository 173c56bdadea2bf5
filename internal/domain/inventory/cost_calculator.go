package inventory

import "github.com/shopspring/decimal"

// CostCalculator implementa la lógica de costo promedio ponderado (servicio de dominio).
// NuevoCosto = ((StockActual * CostoActual) + ValorEntrada) / (StockActual + CantEntradaBase)
// ValorEntrada = cantidad recibida (en su unidad) × costo por esa unidad, por eso no se reescala.
func CostCalculator(stockActual, costoActual, cantEntradaBase, valorEntrada decimal.Decimal) decimal.Decimal {
	sum := stockActual.Add(cantEntradaBase)
	if sum.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	num := stockActual.Mul(costoActual).Add(valorEntrada)
	return num.Div(sum)
}

// DefaultCostPlaces decimales del costo promedio por unidad base (columnas NUMERIC(24, 10)).
const DefaultCostPlaces int32 = 10

// Rounder redondea montos a los decimales de la moneda (unidad menor) y costos unitarios
// a una precisión propia. Un costo por gramo o por mililitro no cabe en centavos.
type Rounder struct {
	Places     int32
	CostPlaces int32 // <= 0 usa DefaultCostPlaces
}

// DefaultRounder moneda con centavos.
var DefaultRounder = Rounder{Places: 2, CostPlaces: DefaultCostPlaces}

// Money redondea un monto (half-up, como decimal.Round).
func (r Rounder) Money(v decimal.Decimal) decimal.Decimal {
	return v.Round(r.Places)
}

// Cost redondea un costo por unidad base.
func (r Rounder) Cost(v decimal.Decimal) decimal.Decimal {
	places := r.CostPlaces
	if places <= 0 {
		places = DefaultCostPlaces
	}
	return v.Round(places)
}
