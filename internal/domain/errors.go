package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrInvalidState       = errors.New("transición de estado no permitida")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	// ErrConcurrency indica que otro escritor tocó la misma unidad de stock
	// en una transacción concurrente (abort de serialización o deadlock).
	// El caller debe reintentar la operación completa.
	ErrConcurrency = errors.New("conflicto de concurrencia, reintentar")
)
