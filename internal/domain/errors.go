package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")

	// Motor de costeo.
	ErrConversion    = errors.New("unidades no convertibles")
	ErrIllegalState  = errors.New("transición de estado no permitida")
	ErrConsistency   = errors.New("operación multi-registro no confirmada")
	ErrConfiguration = errors.New("configuración inválida")
)
