package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Familias de medida soportadas por el catálogo de unidades.
const (
	FamilyMass   = "mass"
	FamilyVolume = "volume"
	FamilyCount  = "count"
	FamilyLength = "length"
)

// UnitOfMeasure representa una unidad declarada por la empresa.
// Sin BaseUnitID es una unidad del sistema (Abbreviation la entiende pkg/units);
// con BaseUnitID es una unidad personalizada de proveedor: 1 unidad = BaseConversionRate × base.
type UnitOfMeasure struct {
	ID                 string
	CompanyID          string
	Name               string
	Family             string
	Abbreviation       string
	BaseUnitID         *string
	BaseConversionRate decimal.Decimal
	CreatedAt          time.Time
}

// IsSystemUnit indica si la unidad no depende de otra.
func (u *UnitOfMeasure) IsSystemUnit() bool {
	return u.BaseUnitID == nil || *u.BaseUnitID == ""
}

// SystemUnitID id estable de la unidad del sistema con esa abreviatura (mismo valor en seeds y memoria).
func SystemUnitID(abbr string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("uom:"+strings.ToLower(strings.TrimSpace(abbr)))).String()
}
