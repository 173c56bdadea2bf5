package entity

// Material es la entidad del catálogo externo (insumo o producto semielaborado).
// Aquí solo se lee: define la unidad base del stock y las unidades de compra, venta y receta.
type Material struct {
	ID              string
	CompanyID       string
	Name            string
	BaseUnitID      string
	SellUnitID      *string
	BuyUnitID       *string
	RecipeUnitID    *string
	DisplayUnitIDs  []string
	QuantityManaged bool // sincroniza cantidades disponibles en el catálogo de venta
}

// ValuationUnitIDs devuelve las unidades (sin repetir y sin la base) en las que se expresa la valuación.
func (m *Material) ValuationUnitIDs() []string {
	seen := map[string]bool{m.BaseUnitID: true}
	var out []string
	add := func(id *string) {
		if id == nil || *id == "" || seen[*id] {
			return
		}
		seen[*id] = true
		out = append(out, *id)
	}
	add(m.SellUnitID)
	add(m.BuyUnitID)
	add(m.RecipeUnitID)
	for i := range m.DisplayUnitIDs {
		add(&m.DisplayUnitIDs[i])
	}
	return out
}
