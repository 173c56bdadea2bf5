package uom

import "time"

// SetCacheClock permite a los tests externos sustituir el reloj de la caché.
func SetCacheClock(c *UnitCatalogCache, now func() time.Time) { c.now = now }
