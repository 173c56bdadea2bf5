package uom_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-costeo/internal/domain"
	"github.com/jhoicas/inventario-costeo/internal/domain/entity"
	"github.com/jhoicas/inventario-costeo/internal/domain/uom"
)

func sys(id, abbr, family string) *entity.UnitOfMeasure {
	return &entity.UnitOfMeasure{ID: id, Name: id, Abbreviation: abbr, Family: family}
}

func custom(id string, base *entity.UnitOfMeasure, rate string) *entity.UnitOfMeasure {
	baseID := base.ID
	return &entity.UnitOfMeasure{
		ID: id, Name: id, Family: base.Family, BaseUnitID: &baseID,
		BaseConversionRate: decimal.RequireFromString(rate),
	}
}

var tolerance = decimal.RequireFromString("0.000000001")

// Escenario D: caja de 12 unidades.
func TestFactor_CajaAUnidad(t *testing.T) {
	each := sys("each", "each", entity.FamilyCount)
	box := custom("box", each, "12")

	f, err := uom.Factor(uom.Endpoint{Unit: box, Base: each}, uom.Endpoint{Unit: each})
	require.NoError(t, err)
	assert.True(t, f.Equal(decimal.NewFromInt(12)), "box->each = %s", f)

	inv, err := uom.Factor(uom.Endpoint{Unit: each}, uom.Endpoint{Unit: box, Base: each})
	require.NoError(t, err)
	want := decimal.NewFromInt(1).Div(decimal.NewFromInt(12))
	assert.True(t, inv.Sub(want).Abs().LessThan(tolerance), "each->box = %s", inv)
}

func TestFactor_RoundTrip(t *testing.T) {
	kg := sys("kg", "kg", entity.FamilyMass)
	g := sys("g", "g", entity.FamilyMass)
	lb := sys("lb", "lb", entity.FamilyMass)
	sack := custom("sack", kg, "25")
	bag := custom("bag", lb, "3.5")

	eps := map[string]uom.Endpoint{
		"kg":   {Unit: kg},
		"g":    {Unit: g},
		"lb":   {Unit: lb},
		"sack": {Unit: sack, Base: kg},
		"bag":  {Unit: bag, Base: lb},
	}
	one := decimal.NewFromInt(1)
	for an, a := range eps {
		for bn, b := range eps {
			ab, err := uom.Factor(a, b)
			require.NoError(t, err, "%s->%s", an, bn)
			ba, err := uom.Factor(b, a)
			require.NoError(t, err, "%s->%s", bn, an)
			assert.True(t, ab.Mul(ba).Sub(one).Abs().LessThan(tolerance), "%s<->%s = %s", an, bn, ab.Mul(ba))
		}
	}
}

func TestFactor_PersonalizadaEntreSistemas(t *testing.T) {
	kg := sys("kg", "kg", entity.FamilyMass)
	g := sys("g", "g", entity.FamilyMass)
	sack := custom("sack", kg, "25")

	f, err := uom.Factor(uom.Endpoint{Unit: sack, Base: kg}, uom.Endpoint{Unit: g})
	require.NoError(t, err)
	assert.True(t, f.Equal(decimal.NewFromInt(25000)))
}

func TestFactor_FamiliasDistintas(t *testing.T) {
	kg := sys("kg", "kg", entity.FamilyMass)
	l := sys("l", "l", entity.FamilyVolume)
	_, err := uom.Factor(uom.Endpoint{Unit: kg}, uom.Endpoint{Unit: l})
	assert.True(t, errors.Is(err, domain.ErrConversion))
}

func TestFactor_ProfundidadMayorADos(t *testing.T) {
	each := sys("each", "each", entity.FamilyCount)
	box := custom("box", each, "12")
	pallet := custom("pallet", box, "40")
	_, err := uom.Factor(uom.Endpoint{Unit: pallet, Base: box}, uom.Endpoint{Unit: each})
	assert.True(t, errors.Is(err, domain.ErrConversion))
}

func TestFactor_BaseFaltante(t *testing.T) {
	each := sys("each", "each", entity.FamilyCount)
	box := custom("box", each, "12")
	_, err := uom.Factor(uom.Endpoint{Unit: box}, uom.Endpoint{Unit: each})
	assert.True(t, errors.Is(err, domain.ErrConversion))
}

func TestFactor_MismaUnidad(t *testing.T) {
	each := sys("each", "each", entity.FamilyCount)
	box := custom("box", each, "12")
	f, err := uom.Factor(uom.Endpoint{Unit: box, Base: each}, uom.Endpoint{Unit: box, Base: each})
	require.NoError(t, err)
	assert.True(t, f.Equal(decimal.NewFromInt(1)))
}
