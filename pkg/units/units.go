// Package units conversión dimensional de unidades físicas por abreviatura.
// Cada unidad se define por su familia y su factor hacia la unidad de referencia de la familia
// (g, ml, each, m). Convertir entre familias distintas no está definido.
package units

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Errores de conversión.
var (
	ErrUnknownUnit  = errors.New("units: unidad desconocida")
	ErrIncompatible = errors.New("units: familias distintas")
)

// Definition describe una unidad física conocida.
type Definition struct {
	Abbreviation string
	Family       string
	ToReference  decimal.Decimal // cantidad de la unidad de referencia que equivale a 1 de esta unidad
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

var table = map[string]Definition{
	// masa (referencia: g)
	"mg": {"mg", "mass", d("0.001")},
	"g":  {"g", "mass", d("1")},
	"kg": {"kg", "mass", d("1000")},
	"t":  {"t", "mass", d("1000000")},
	"oz": {"oz", "mass", d("28.349523125")},
	"lb": {"lb", "mass", d("453.59237")},

	// volumen (referencia: ml)
	"ml":    {"ml", "volume", d("1")},
	"cl":    {"cl", "volume", d("10")},
	"dl":    {"dl", "volume", d("100")},
	"l":     {"l", "volume", d("1000")},
	"m3":    {"m3", "volume", d("1000000")},
	"tsp":   {"tsp", "volume", d("4.92892159375")},
	"tbsp":  {"tbsp", "volume", d("14.78676478125")},
	"fl-oz": {"fl-oz", "volume", d("29.5735295625")},
	"cup":   {"cup", "volume", d("236.5882365")},
	"pnt":   {"pnt", "volume", d("473.176473")},
	"qt":    {"qt", "volume", d("946.352946")},
	"gal":   {"gal", "volume", d("3785.411784")},

	// conteo (referencia: each)
	"ea":    {"ea", "count", d("1")},
	"each":  {"each", "count", d("1")},
	"pcs":   {"pcs", "count", d("1")},
	"dozen": {"dozen", "count", d("12")},

	// longitud (referencia: m)
	"mm": {"mm", "length", d("0.001")},
	"cm": {"cm", "length", d("0.01")},
	"m":  {"m", "length", d("1")},
	"km": {"km", "length", d("1000")},
	"in": {"in", "length", d("0.0254")},
	"ft": {"ft", "length", d("0.3048")},
}

func normalize(abbr string) string {
	return strings.ToLower(strings.TrimSpace(abbr))
}

// Lookup devuelve la definición de una abreviatura.
func Lookup(abbr string) (Definition, error) {
	def, ok := table[normalize(abbr)]
	if !ok {
		return Definition{}, fmt.Errorf("%w: %q", ErrUnknownUnit, abbr)
	}
	return def, nil
}

// Family devuelve la familia de medida de una abreviatura.
func Family(abbr string) (string, error) {
	def, err := Lookup(abbr)
	if err != nil {
		return "", err
	}
	return def.Family, nil
}

// Known indica si la abreviatura está en la tabla.
func Known(abbr string) bool {
	_, ok := table[normalize(abbr)]
	return ok
}

// Convert expresa value (en from) en la unidad to.
func Convert(value decimal.Decimal, from, to string) (decimal.Decimal, error) {
	src, err := Lookup(from)
	if err != nil {
		return decimal.Zero, err
	}
	dst, err := Lookup(to)
	if err != nil {
		return decimal.Zero, err
	}
	if src.Family != dst.Family {
		return decimal.Zero, fmt.Errorf("%w: %s (%s) -> %s (%s)", ErrIncompatible, from, src.Family, to, dst.Family)
	}
	if src.Abbreviation == dst.Abbreviation {
		return value, nil
	}
	return value.Mul(src.ToReference).Div(dst.ToReference), nil
}

// All devuelve las definiciones conocidas (para seeds y validaciones).
func All() []Definition {
	out := make([]Definition, 0, len(table))
	for _, def := range table {
		out = append(out, def)
	}
	return out
}
