package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas). Cada error tipado de abajo
// coincide con su centinela vía errors.Is.
var (
	ErrValidation        = errors.New("entrada inválida")
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrTransient         = errors.New("error transitorio de almacenamiento")
)

// ErrIdempotencyKeyTaken la clave de idempotencia ya pertenece a un movimiento confirmado.
var ErrIdempotencyKeyTaken = &ConflictError{Reason: "clave de idempotencia ya utilizada"}

// ValidationError solicitud mal formada o incompleta. Se corrige desde el cliente, nunca se reintenta.
type ValidationError struct {
	Field  string
	Reason string
}

// NewValidationError construye un ValidationError.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return e.Field + ": " + e.Reason
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// InsufficientStockError rechazo de negocio: la ubicación no tiene unidades suficientes.
// AvailableUnknown indica que el saldo no pudo releerse; Available no es confiable.
type InsufficientStockError struct {
	Location         string
	Available        int64
	Requested        int64
	AvailableUnknown bool
}

func (e *InsufficientStockError) Error() string {
	if e.AvailableUnknown {
		return fmt.Sprintf("stock insuficiente en %s. Solicitado: %d", e.Location, e.Requested)
	}
	return fmt.Sprintf("stock insuficiente en %s. Disponible: %d, Solicitado: %d", e.Location, e.Available, e.Requested)
}

func (e *InsufficientStockError) Is(target error) bool { return target == ErrInsufficientStock }

// NotFoundError el recurso referenciado no existe.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s no encontrado: %s", e.Resource, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// ConflictError violación de unicidad o de integridad referencial.
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string { return e.Reason }

func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

// TransientError falla de almacenamiento dentro de la unidad atómica; es seguro reintentar la solicitud completa.
type TransientError struct {
	Op  string
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransientError) Unwrap() error { return e.Err }

func (e *TransientError) Is(target error) bool { return target == ErrTransient }

// IsRejection indica si err es un rechazo de negocio (no transitorio).
func IsRejection(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrInsufficientStock) ||
		errors.Is(err, ErrConflict)
}
