package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")

	// Validación de facturas manuales
	ErrMissingCustomer = errors.New("la factura requiere un cliente (id o email válido)")
	ErrMissingItems    = errors.New("la factura requiere al menos una línea (producto o personalizada)")

	// Operaciones sobre facturas
	ErrInvalidInvoice     = errors.New("la factura no existe o no es una factura manual")
	ErrEmailUnavailable   = errors.New("no hay transporte de correo configurado")
	ErrDocumentGeneration = errors.New("la generación del documento falló")
)
