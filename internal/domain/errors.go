package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrUserNotFound        = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists  = errors.New("el email ya está registrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrDuplicate           = errors.New("recurso duplicado")
	ErrUnauthorized        = errors.New("no autorizado")
	ErrForbidden           = errors.New("acceso denegado")
	ErrConflict            = errors.New("conflicto con el estado actual")
	ErrInvoiceLocked       = errors.New("una factura pagada no se puede modificar")
	ErrInvoiceNotDeletable = errors.New("solo se eliminan facturas en draft o cancelled y sin pagos")
	ErrVersionMismatch     = errors.New("la factura fue modificada por otra operación")
)
