package inventory

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-costeo/internal/domain"
	"github.com/jhoicas/inventario-costeo/internal/domain/entity"
)

// Delta entrada normalizada para una estrategia de mutación.
// Base es la cantidad ya convertida a la unidad base del registro (Quantity × Factor).
type Delta struct {
	Base        decimal.Decimal
	Quantity    decimal.Decimal  // cantidad en la unidad de entrada
	HasQuantity bool             // falso solo en un reconteo de costo sin cantidad
	UnitCost    *decimal.Decimal // costo por unidad de entrada
	Factor      decimal.Decimal  // unidad de entrada -> unidad base
}

// Snapshot estado de stock y costo de un registro.
type Snapshot struct {
	Stock       decimal.Decimal
	AverageCost decimal.Decimal
}

// Strategy calcula el nuevo stock y costo promedio para un tipo de acción.
type Strategy interface {
	Action() string
	Apply(current Snapshot, delta Delta) (Snapshot, error)
}

// receiptStrategy entradas valorizadas: compra o recepción por traslado.
type receiptStrategy struct{ action string }

// consumptionStrategy salidas al costo promedio vigente: venta, producción, merma, envío por traslado.
type consumptionStrategy struct{ action string }

// recountStrategy reconteo absoluto (sobrescribe, no incrementa).
type recountStrategy struct{}

func (s receiptStrategy) Action() string     { return s.action }
func (s consumptionStrategy) Action() string { return s.action }
func (recountStrategy) Action() string       { return entity.ActionManualCount }

func (s receiptStrategy) Apply(cur Snapshot, d Delta) (Snapshot, error) {
	if d.UnitCost == nil {
		return Snapshot{}, fmt.Errorf("%w: %s requiere costo unitario", domain.ErrInvalidInput, s.action)
	}
	newStock := cur.Stock.Add(d.Base)
	incomingValue := d.UnitCost.Mul(d.Quantity)
	if newStock.LessThanOrEqual(decimal.Zero) {
		// Sin stock positivo que ponderar: el lote entrante fija el costo.
		if d.Base.IsPositive() && d.Factor.IsPositive() {
			return Snapshot{Stock: newStock, AverageCost: d.UnitCost.Div(d.Factor)}, nil
		}
		return Snapshot{Stock: newStock, AverageCost: decimal.Zero}, nil
	}
	return Snapshot{
		Stock:       newStock,
		AverageCost: CostCalculator(cur.Stock, cur.AverageCost, d.Base, incomingValue),
	}, nil
}

func (s consumptionStrategy) Apply(cur Snapshot, d Delta) (Snapshot, error) {
	return Snapshot{Stock: cur.Stock.Sub(d.Base), AverageCost: cur.AverageCost}, nil
}

func (recountStrategy) Apply(cur Snapshot, d Delta) (Snapshot, error) {
	out := cur
	if d.HasQuantity {
		out.Stock = d.Base
	}
	if d.UnitCost != nil {
		if !d.Factor.IsPositive() {
			return Snapshot{}, fmt.Errorf("%w: factor de conversión inválido", domain.ErrConversion)
		}
		// Costo por unidad de entrada -> costo por unidad base.
		out.AverageCost = d.UnitCost.Div(d.Factor)
	}
	return out, nil
}

// StrategyFor selecciona la estrategia cerrada para cada acción.
func StrategyFor(action string) (Strategy, error) {
	switch action {
	case entity.ActionGoodsReceipt, entity.ActionReceivedWithTransfer:
		return receiptStrategy{action: action}, nil
	case entity.ActionSentWithTransfer, entity.ActionItemSold, entity.ActionProduction, entity.ActionWaste:
		return consumptionStrategy{action: action}, nil
	case entity.ActionManualCount:
		return recountStrategy{}, nil
	}
	return nil, fmt.Errorf("%w: acción de inventario desconocida %q", domain.ErrConfiguration, action)
}

// IsDecrement indica si la acción consume stock (el llamador debe validar existencias antes).
func IsDecrement(action string) bool {
	switch action {
	case entity.ActionSentWithTransfer, entity.ActionItemSold, entity.ActionProduction, entity.ActionWaste:
		return true
	}
	return false
}

// Calculate aplica la estrategia y redondea. El costo promedio conserva CostPlaces decimales;
// solo StockValue, que siempre se recalcula, va a la unidad menor de la moneda.
func Calculate(record *entity.InventoryRecord, action string, d Delta, r Rounder) (entity.CalculatedInventory, error) {
	strategy, err := StrategyFor(action)
	if err != nil {
		return entity.CalculatedInventory{}, err
	}
	next, err := strategy.Apply(Snapshot{Stock: record.Stock, AverageCost: record.AverageCost}, d)
	if err != nil {
		return entity.CalculatedInventory{}, err
	}
	avg := r.Cost(next.AverageCost)
	return entity.CalculatedInventory{
		Stock:               next.Stock,
		AverageCost:         avg,
		StockValue:          r.Money(next.Stock.Mul(avg)),
		ConversionFactor:    d.Factor,
		PreviousStock:       record.Stock,
		PreviousAverageCost: record.AverageCost,
		PreviousStockValue:  record.StockValue,
	}, nil
}
