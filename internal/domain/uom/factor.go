// Package uom composición de factores entre unidades declaradas (sistema o personalizadas de un nivel).
package uom

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-costeo/internal/domain"
	"github.com/jhoicas/inventario-costeo/internal/domain/entity"
	"github.com/jhoicas/inventario-costeo/pkg/units"
)

// Endpoint unidad declarada junto con su unidad base (nil si es unidad del sistema).
type Endpoint struct {
	Unit *entity.UnitOfMeasure
	Base *entity.UnitOfMeasure
}

// systemScale devuelve la abreviatura del sistema efectiva y cuántas unidades de sistema vale 1 unidad.
func (e Endpoint) systemScale() (string, decimal.Decimal, error) {
	if e.Unit == nil {
		return "", decimal.Zero, fmt.Errorf("%w: unidad nula", domain.ErrConversion)
	}
	if e.Unit.IsSystemUnit() {
		return e.Unit.Abbreviation, decimal.NewFromInt(1), nil
	}
	if e.Base == nil {
		return "", decimal.Zero, fmt.Errorf("%w: unidad %s sin unidad base", domain.ErrConversion, e.Unit.ID)
	}
	if !e.Base.IsSystemUnit() {
		return "", decimal.Zero, fmt.Errorf("%w: unidad %s apunta a otra unidad personalizada", domain.ErrConversion, e.Unit.ID)
	}
	if !e.Unit.BaseConversionRate.IsPositive() {
		return "", decimal.Zero, fmt.Errorf("%w: tasa de conversión inválida en %s", domain.ErrConversion, e.Unit.ID)
	}
	return e.Base.Abbreviation, e.Unit.BaseConversionRate, nil
}

// Factor devuelve el multiplicador que convierte una cantidad en source a la cantidad equivalente en target.
// factor = convertir(sourceScale, sourceAbbr -> targetAbbr) / targetScale
func Factor(source, target Endpoint) (decimal.Decimal, error) {
	srcAbbr, srcScale, err := source.systemScale()
	if err != nil {
		return decimal.Zero, err
	}
	dstAbbr, dstScale, err := target.systemScale()
	if err != nil {
		return decimal.Zero, err
	}
	if source.Unit.ID != "" && source.Unit.ID == target.Unit.ID {
		return decimal.NewFromInt(1), nil
	}

	// Familias antes de delegar a la tabla dimensional.
	srcFamily, err := units.Family(srcAbbr)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", domain.ErrConversion, err)
	}
	dstFamily, err := units.Family(dstAbbr)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", domain.ErrConversion, err)
	}
	if srcFamily != dstFamily {
		return decimal.Zero, fmt.Errorf("%w: %s (%s) -> %s (%s)", domain.ErrConversion,
			source.Unit.Name, srcFamily, target.Unit.Name, dstFamily)
	}

	inSystem, err := units.Convert(srcScale, srcAbbr, dstAbbr)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", domain.ErrConversion, err)
	}
	return inSystem.Div(dstScale), nil
}
