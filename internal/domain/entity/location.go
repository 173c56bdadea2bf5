package entity

import "time"

// Location representa una bodega, cocina o sucursal donde se almacena inventario (multi-ubicación).
type Location struct {
	ID        string
	CompanyID string
	Name      string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
