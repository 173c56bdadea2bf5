package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-costeo/internal/domain/entity"
	"github.com/jhoicas/inventario-costeo/pkg/units"
)

// "m\xe9trico" es "métrico" en ISO-8859-1.
const latin1Catalog = "<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?>\n" +
	"<unidades>\n" +
	"  <unidad codigo=\"KGM\" simbolo=\"kg\" nombre=\"Kilogramo m\xe9trico\"/>\n" +
	"  <unidad codigo=\"GRM\" simbolo=\"g\" nombre=\"Gramo\"/>\n" +
	"  <unidad codigo=\"LTR\" simbolo=\"L\" nombre=\"Litro\"/>\n" +
	"  <unidad codigo=\"MTR\" simbolo=\"m\" nombre=\"\"/>\n" +
	"  <unidad codigo=\"KGM\" simbolo=\"kg\" nombre=\"Repetido\"/>\n" +
	"  <unidad codigo=\"HUR\" simbolo=\"h\" nombre=\"Hora\"/>\n" +
	"</unidades>\n"

func TestParseCatalog(t *testing.T) {
	list, skipped, err := parseCatalog(strings.NewReader(latin1Catalog))
	require.NoError(t, err)

	require.Len(t, list, 4)
	assert.Equal(t, []string{"HUR"}, skipped)

	// orden: familia y luego abreviatura
	assert.Equal(t, "m", list[0].Abbreviation)
	assert.Equal(t, "m", list[0].Name)
	assert.Equal(t, "g", list[1].Abbreviation)
	assert.Equal(t, "kg", list[2].Abbreviation)
	assert.Equal(t, "Kilogramo métrico", list[2].Name)
	assert.Equal(t, entity.FamilyMass, list[2].Family)
	assert.Equal(t, entity.SystemUnitID("kg"), list[2].ID)
	assert.Equal(t, "l", list[3].Abbreviation)
	assert.Equal(t, entity.FamilyVolume, list[3].Family)
}

func TestParseCatalog_InvalidXML(t *testing.T) {
	_, _, err := parseCatalog(strings.NewReader("<unidades><unidad"))
	assert.Error(t, err)
}

func TestFromTable_CoversAllUnits(t *testing.T) {
	list := fromTable()
	assert.Len(t, list, len(units.All()))
	for _, u := range list {
		assert.Equal(t, entity.SystemUnitID(u.Abbreviation), u.ID)
	}
}

func TestRenderSQL(t *testing.T) {
	var buf bytes.Buffer
	err := renderSQL(&buf, []seedUnit{{ID: "id-1", Name: "Pie d'obra", Family: entity.FamilyLength, Abbreviation: "ft", Code: "FOT"}})
	require.NoError(t, err)

	sql := buf.String()
	assert.Contains(t, sql, "-- FOT\n")
	assert.Contains(t, sql, "VALUES ('id-1', NULL, 'Pie d''obra', 'length', 'ft', NULL, 1)")
	assert.Contains(t, sql, "ON CONFLICT (id) DO UPDATE")
}
