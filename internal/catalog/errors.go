// Package catalog implementa las reglas de negocio de la tienda sobre los
// repositorios: lectura y escritura de productos, carrito, lista de deseos y la
// cascada que mantiene los dependientes consistentes con los productos.
package catalog

import (
	"errors"
	"fmt"

	"storefront-api/internal/repository"
)

var (
	// ErrNotFound es el error del repositorio, re-exportado para que los
	// llamadores solo necesiten este paquete para clasificar resultados.
	ErrNotFound = repository.ErrNotFound

	ErrEmptyPayload      = errors.New("request body is empty")
	ErrInvalidPayload    = errors.New("invalid request body")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// StockError indica una cantidad en el carrito mayor al stock del producto.
// Coincide con ErrInsufficientStock en errors.Is.
type StockError struct {
	Available int
}

func (e *StockError) Error() string {
	return fmt.Sprintf("Only %d available", e.Available)
}

func (e *StockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// Pasos de la cascada, en orden de ejecución.
const (
	StepLookup          = "lookup"
	StepDeleteProduct   = "delete product"
	StepDeleteCart      = "delete cart items"
	StepDeleteWishlist  = "delete wishlist items"
	StepListKeys        = "list product keys"
	StepCleanupCart     = "cleanup cart"
	StepCleanupWishlist = "cleanup wishlist"
)

// CascadeError corta un borrado o limpieza de varios pasos. Partial guarda los
// conteos de los pasos completados antes de que fallara Step.
type CascadeError struct {
	Step    string
	Partial DeleteResult
	Err     error
}

func (e *CascadeError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

func (e *CascadeError) Unwrap() error {
	return e.Err
}
