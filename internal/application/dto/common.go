package dto

const (
	DefaultPageLimit = 50
	MaxPageLimit     = 500
)

// PageRequest paginación de historial y conteos (?limit=&offset=).
type PageRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// Normalize lleva Limit a [1, MaxPageLimit] (DefaultPageLimit si no viene) y Offset a >= 0.
func (p *PageRequest) Normalize() {
	switch {
	case p.Limit <= 0:
		p.Limit = DefaultPageLimit
	case p.Limit > MaxPageLimit:
		p.Limit = MaxPageLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// Page arma los metadatos de respuesta para una página con returned elementos.
// HasMore es una estimación: la página vino llena.
func (p PageRequest) Page(returned int) PageResponse {
	return PageResponse{
		Limit:    p.Limit,
		Offset:   p.Offset,
		Returned: returned,
		HasMore:  returned == p.Limit,
	}
}

type PageResponse struct {
	Limit    int  `json:"limit"`
	Offset   int  `json:"offset"`
	Returned int  `json:"returned"`
	HasMore  bool `json:"has_more"`
}

// ErrorResponse cuerpo de error HTTP. Code es estable (VALIDATION, CONVERSION, INSUFFICIENT_STOCK, ...).
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
