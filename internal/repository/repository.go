// Package repository contiene los adaptadores del store para las colecciones
// products, cart, wishlist y users.
package repository

//go:generate mockgen -source=repository.go -destination=mocks/mock_repository.go -package=mocks

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"

	"storefront-api/internal/identifier"
	"storefront-api/internal/models"
)

// ErrNotFound se retorna cuando una búsqueda por id no encuentra nada.
var ErrNotFound = errors.New("document not found")

// UpdateResult es el resumen de una actualización de un documento.
type UpdateResult struct {
	ID            string `json:"id"`
	MatchedCount  int64  `json:"matchedCount"`
	ModifiedCount int64  `json:"modifiedCount"`
	UpsertedCount int64  `json:"upsertedCount"`
}

// ProductRepository es el contrato del store para la colección products.
type ProductRepository interface {
	FindAll(ctx context.Context) ([]models.Product, error)
	FindByID(ctx context.Context, id identifier.ID) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) (identifier.ID, error)
	Update(ctx context.Context, id identifier.ID, fields bson.M) (*UpdateResult, error)
	Delete(ctx context.Context, id identifier.ID) (int64, error)
	// Keys lista cada id nativo (hex) y de aplicación de la colección.
	Keys(ctx context.Context) ([]string, error)
}

// ItemRepository es el contrato del store compartido por las colecciones
// cart y wishlist.
type ItemRepository interface {
	FindAll(ctx context.Context) ([]models.Item, error)
	FindByID(ctx context.Context, id identifier.ID) (*models.Item, error)
	Create(ctx context.Context, item *models.Item) (identifier.ID, error)
	Update(ctx context.Context, id identifier.ID, fields bson.M) (*UpdateResult, error)
	Delete(ctx context.Context, id identifier.ID) (int64, error)
	// DeleteByProduct elimina los items cuyo productId está en keys.
	DeleteByProduct(ctx context.Context, keys []string) (int64, error)
	// DeleteOrphans elimina los items cuyo productId no está en keep.
	DeleteOrphans(ctx context.Context, keep []string) (int64, error)
}

// UserRepository es el contrato del store para la colección users.
type UserRepository interface {
	FindAll(ctx context.Context) ([]models.User, error)
	Create(ctx context.Context, user *models.User) (identifier.ID, error)
}
