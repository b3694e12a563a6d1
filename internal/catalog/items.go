package catalog

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.opentelemetry.io/otel/attribute"

	"storefront-api/internal/identifier"
	"storefront-api/internal/models"
	"storefront-api/internal/repository"
)

const (
	fieldProductID = "productId"
	fieldQuantity  = "quantity"
)

// CartService gestiona las líneas del carrito. La cantidad queda limitada por
// el stock del producto referenciado cuando este existe.
type CartService struct {
	items    repository.ItemRepository
	products repository.ProductRepository
}

func NewCartService(items repository.ItemRepository, products repository.ProductRepository) *CartService {
	return &CartService{items: items, products: products}
}

func (s *CartService) List(ctx context.Context) ([]models.Item, error) {
	return listItems(ctx, s.items)
}

// Add inserta una línea en el carrito. Sin quantity, se usa 1.
func (s *CartService) Add(ctx context.Context, fields bson.M) (id identifier.ID, err error) {
	ctx, span := startSpan(ctx, "catalog.cart.add")
	defer func() { endSpan(span, err) }()

	var item models.Item
	if err := decodePayload(fields, &item); err != nil {
		return identifier.ID{}, err
	}
	if item.ProductID == "" {
		return identifier.ID{}, fmt.Errorf("%w: productId is required", ErrInvalidPayload)
	}
	if _, ok := fields[fieldQuantity]; !ok {
		item.Quantity = 1
	}
	if item.Quantity <= 0 {
		return identifier.ID{}, fmt.Errorf("%w: quantity must be positive", ErrInvalidPayload)
	}
	span.SetAttributes(attribute.String("product.id", item.ProductID))

	if err := s.checkStock(ctx, item.ProductID, item.Quantity); err != nil {
		return identifier.ID{}, err
	}
	return s.items.Create(ctx, &item)
}

// Update aplica fields sobre la línea del carrito indicada por raw.
func (s *CartService) Update(ctx context.Context, raw string, fields bson.M) (result *repository.UpdateResult, err error) {
	ctx, span := startSpan(ctx, "catalog.cart.update", attribute.String("item.id", raw))
	defer func() { endSpan(span, err) }()

	set, err := updateFields(fields)
	if err != nil {
		return nil, err
	}
	if err := checkFields(set, &models.Item{}); err != nil {
		return nil, err
	}
	id := identifier.Parse(raw)

	quantity, hasQuantity, err := intField(set, fieldQuantity)
	if err != nil {
		return nil, err
	}
	if hasQuantity {
		if quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity must be positive", ErrInvalidPayload)
		}
		productID, _ := set[fieldProductID].(string)
		if productID == "" {
			current, err := s.items.FindByID(ctx, id)
			if err != nil {
				return nil, err
			}
			productID = current.ProductID
		}
		if err := s.checkStock(ctx, productID, quantity); err != nil {
			return nil, err
		}
	}

	result, err = s.items.Update(ctx, id, set)
	if err != nil {
		return nil, err
	}
	if result.MatchedCount == 0 {
		return nil, ErrNotFound
	}
	return result, nil
}

func (s *CartService) Remove(ctx context.Context, raw string) error {
	return removeItem(ctx, s.items, "catalog.cart.remove", raw)
}

func (s *CartService) checkStock(ctx context.Context, productID string, quantity int) error {
	product, err := s.products.FindByID(ctx, identifier.Parse(productID))
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if quantity > product.Stock {
		return &StockError{Available: product.Stock}
	}
	return nil
}

// WishlistService gestiona la lista de deseos.
type WishlistService struct {
	items repository.ItemRepository
}

func NewWishlistService(items repository.ItemRepository) *WishlistService {
	return &WishlistService{items: items}
}

func (s *WishlistService) List(ctx context.Context) ([]models.Item, error) {
	return listItems(ctx, s.items)
}

func (s *WishlistService) Add(ctx context.Context, fields bson.M) (id identifier.ID, err error) {
	ctx, span := startSpan(ctx, "catalog.wishlist.add")
	defer func() { endSpan(span, err) }()

	var item models.Item
	if err := decodePayload(fields, &item); err != nil {
		return identifier.ID{}, err
	}
	if item.ProductID == "" {
		return identifier.ID{}, fmt.Errorf("%w: productId is required", ErrInvalidPayload)
	}
	item.Quantity = 0
	return s.items.Create(ctx, &item)
}

func (s *WishlistService) Remove(ctx context.Context, raw string) error {
	return removeItem(ctx, s.items, "catalog.wishlist.remove", raw)
}

func listItems(ctx context.Context, repo repository.ItemRepository) ([]models.Item, error) {
	items, err := repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.Item{}
	}
	return items, nil
}

func removeItem(ctx context.Context, repo repository.ItemRepository, spanName, raw string) (err error) {
	ctx, span := startSpan(ctx, spanName, attribute.String("item.id", raw))
	defer func() { endSpan(span, err) }()

	deleted, err := repo.Delete(ctx, identifier.Parse(raw))
	if err != nil {
		return err
	}
	if deleted == 0 {
		return ErrNotFound
	}
	return nil
}
