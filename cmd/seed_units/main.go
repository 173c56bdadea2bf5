// seed_units genera el script SQL de unidades del sistema a partir de una lista de códigos
// de unidad estilo UN/CEFACT (XML, normalmente en ISO-8859-1).
//
// Uso: go run ./cmd/seed_units [ruta/unidades.xml]
// Sin argumento genera las unidades conocidas por pkg/units con su abreviatura como nombre.
// Escribe: internal/infrastructure/postgres/migrations/002_seed_units.sql
//
// Formato esperado:
//
//	<unidades>
//	  <unidad codigo="KGM" simbolo="kg" nombre="Kilogramo"/>
//	</unidades>
package main

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/inventario-costeo/internal/domain/entity"
	"github.com/jhoicas/inventario-costeo/pkg/units"
)

type catalogo struct {
	Unidades []unidad `xml:"unidad"`
}

type unidad struct {
	Codigo  string `xml:"codigo,attr"`
	Simbolo string `xml:"simbolo,attr"`
	Nombre  string `xml:"nombre,attr"`
}

// seedUnit fila a insertar en units_of_measure.
type seedUnit struct {
	ID           string
	Name         string
	Family       string
	Abbreviation string
	Code         string
}

func main() {
	var (
		list    []seedUnit
		skipped []string
		err     error
	)
	if len(os.Args) > 1 {
		list, skipped, err = fromFile(os.Args[1])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Leer XML: %v\n", err)
			os.Exit(1)
		}
	} else {
		list = fromTable()
	}

	moduleRoot := findModuleRoot()
	outPath := filepath.Join(moduleRoot, "internal", "infrastructure", "postgres", "migrations", "002_seed_units.sql")
	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	if err := renderSQL(out, list); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir SQL: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Generado %s: %d unidades, %d códigos sin equivalencia\n", outPath, len(list), len(skipped))
	for _, code := range skipped {
		fmt.Fprintf(os.Stderr, "  sin equivalencia: %s\n", code)
	}
}

func fromFile(path string) ([]seedUnit, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	return parseCatalog(f)
}

// parseCatalog lee el XML y conserva solo los símbolos que pkg/units sabe convertir.
// Devuelve además los códigos descartados.
func parseCatalog(r io.Reader) ([]seedUnit, []string, error) {
	var c catalogo
	dec := xml.NewDecoder(r)
	dec.CharsetReader = func(charset string, input io.Reader) (io.Reader, error) {
		if strings.EqualFold(charset, "ISO-8859-1") || strings.EqualFold(charset, "ISO8859-1") {
			return transform.NewReader(input, charmap.ISO8859_1.NewDecoder()), nil
		}
		if strings.EqualFold(charset, "windows-1252") {
			return transform.NewReader(input, charmap.Windows1252.NewDecoder()), nil
		}
		return input, nil
	}
	if err := dec.Decode(&c); err != nil {
		return nil, nil, fmt.Errorf("decodificar XML: %w", err)
	}

	seen := make(map[string]bool)
	var (
		list    []seedUnit
		skipped []string
	)
	for _, u := range c.Unidades {
		symbol := strings.ToLower(strings.TrimSpace(u.Simbolo))
		def, err := units.Lookup(symbol)
		if err != nil {
			skipped = append(skipped, strings.TrimSpace(u.Codigo))
			continue
		}
		if seen[def.Abbreviation] {
			continue
		}
		seen[def.Abbreviation] = true
		name := strings.TrimSpace(u.Nombre)
		if name == "" {
			name = def.Abbreviation
		}
		list = append(list, seedUnit{
			ID:           entity.SystemUnitID(def.Abbreviation),
			Name:         name,
			Family:       def.Family,
			Abbreviation: def.Abbreviation,
			Code:         strings.TrimSpace(u.Codigo),
		})
	}
	sortUnits(list)
	return list, skipped, nil
}

func fromTable() []seedUnit {
	defs := units.All()
	list := make([]seedUnit, 0, len(defs))
	for _, def := range defs {
		list = append(list, seedUnit{
			ID:           entity.SystemUnitID(def.Abbreviation),
			Name:         def.Abbreviation,
			Family:       def.Family,
			Abbreviation: def.Abbreviation,
		})
	}
	sortUnits(list)
	return list
}

// Orden estable por familia y abreviatura.
func sortUnits(list []seedUnit) {
	sort.Slice(list, func(i, j int) bool {
		if list[i].Family != list[j].Family {
			return list[i].Family < list[j].Family
		}
		return list[i].Abbreviation < list[j].Abbreviation
	})
}

func renderSQL(w io.Writer, list []seedUnit) error {
	var b strings.Builder
	b.WriteString("-- Unidades del sistema (sin empresa, sin unidad base)\n")
	b.WriteString("-- Generado por cmd/seed_units\n\n")
	for _, u := range list {
		if u.Code != "" {
			fmt.Fprintf(&b, "-- %s\n", u.Code)
		}
		fmt.Fprintf(&b, "INSERT INTO units_of_measure (id, company_id, name, family, abbreviation, base_unit_id, base_conversion_rate)\n")
		fmt.Fprintf(&b, "VALUES ('%s', NULL, '%s', '%s', '%s', NULL, 1)\n", u.ID, escapeSQL(u.Name), u.Family, escapeSQL(u.Abbreviation))
		b.WriteString("ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name;\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
