package catalog

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"

	"storefront-api/internal/identifier"
	"storefront-api/internal/logger"
	"storefront-api/internal/repository"
)

// Disparadores reportados a un RemovalRecorder.
const (
	TriggerDelete  = "delete"
	TriggerCleanup = "cleanup"
)

// RemovalRecorder registra cuántos dependientes eliminó una cascada.
type RemovalRecorder interface {
	ObserveRemoval(trigger string, cart, wishlist int64)
}

// DeleteResult resume un borrado de producto y su cascada.
type DeleteResult struct {
	DeletedProduct      int64 `json:"deletedProduct"`
	RemovedFromCart     int64 `json:"removedFromCart"`
	RemovedFromWishlist int64 `json:"removedFromWishlist"`
}

// CleanupResult resume una limpieza de huérfanos.
type CleanupResult struct {
	RemovedFromCart     int64 `json:"removedFromCart"`
	RemovedFromWishlist int64 `json:"removedFromWishlist"`
}

// Invalidator descarta las lecturas de productos en caché tras una escritura.
type Invalidator interface {
	Invalidate(ctx context.Context)
}

// Coordinator mantiene el carrito y la lista de deseos consistentes con la
// colección de productos. Los pasos corren en orden fijo y sin transacción; si
// uno falla se cortan los siguientes y Cleanup elimina lo que haya quedado.
type Coordinator struct {
	products    repository.ProductRepository
	cart        repository.ItemRepository
	wishlist    repository.ItemRepository
	invalidator Invalidator
	recorder    RemovalRecorder
}

func NewCoordinator(
	products repository.ProductRepository,
	cart, wishlist repository.ItemRepository,
	invalidator Invalidator,
	recorder RemovalRecorder,
) *Coordinator {
	return &Coordinator{
		products:    products,
		cart:        cart,
		wishlist:    wishlist,
		invalidator: invalidator,
		recorder:    recorder,
	}
}

// DeleteProduct elimina el producto indicado por raw y luego cada item del
// carrito y de la lista de deseos que lo referencia. Los items coinciden por el
// string del path y por cada id del producto guardado. Si el producto no existe
// retorna ErrNotFound y no toca nada más.
func (c *Coordinator) DeleteProduct(ctx context.Context, raw string) (result *DeleteResult, err error) {
	id := identifier.Parse(raw)
	ctx, span := startSpan(ctx, "catalog.cascade.delete_product",
		attribute.String("product.id", raw),
		attribute.String("product.id_kind", id.Kind().String()),
	)
	defer func() { endSpan(span, err) }()

	product, err := c.products.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, &CascadeError{Step: StepLookup, Err: err}
	}

	result = &DeleteResult{}

	result.DeletedProduct, err = c.products.Delete(ctx, id)
	if err != nil {
		return nil, c.abort(ctx, StepDeleteProduct, result, err)
	}
	c.invalidate(ctx)

	keys := referenceKeys(raw, product.Keys())

	result.RemovedFromCart, err = c.cart.DeleteByProduct(ctx, keys)
	if err != nil {
		return nil, c.abort(ctx, StepDeleteCart, result, err)
	}

	result.RemovedFromWishlist, err = c.wishlist.DeleteByProduct(ctx, keys)
	if err != nil {
		return nil, c.abort(ctx, StepDeleteWishlist, result, err)
	}

	c.observe(TriggerDelete, result.RemovedFromCart, result.RemovedFromWishlist)
	span.SetAttributes(
		attribute.Int64("cascade.cart_removed", result.RemovedFromCart),
		attribute.Int64("cascade.wishlist_removed", result.RemovedFromWishlist),
	)

	logger.Info(ctx).
		Str("product_id", raw).
		Int64("deleted_product", result.DeletedProduct).
		Int64("removed_from_cart", result.RemovedFromCart).
		Int64("removed_from_wishlist", result.RemovedFromWishlist).
		Msg("Product and related data deleted")

	return result, nil
}

// Cleanup elimina los items del carrito y de la lista de deseos cuyo productId
// no corresponde a ningún producto. Correrlo de nuevo sin escrituras en medio
// no elimina nada.
func (c *Coordinator) Cleanup(ctx context.Context) (result *CleanupResult, err error) {
	ctx, span := startSpan(ctx, "catalog.cascade.cleanup")
	defer func() { endSpan(span, err) }()

	keep, err := c.products.Keys(ctx)
	if err != nil {
		return nil, &CascadeError{Step: StepListKeys, Err: err}
	}

	result = &CleanupResult{}

	result.RemovedFromCart, err = c.cart.DeleteOrphans(ctx, keep)
	if err != nil {
		return nil, &CascadeError{Step: StepCleanupCart, Err: err}
	}

	result.RemovedFromWishlist, err = c.wishlist.DeleteOrphans(ctx, keep)
	if err != nil {
		return nil, &CascadeError{
			Step:    StepCleanupWishlist,
			Partial: DeleteResult{RemovedFromCart: result.RemovedFromCart},
			Err:     err,
		}
	}

	c.invalidate(ctx)
	c.observe(TriggerCleanup, result.RemovedFromCart, result.RemovedFromWishlist)

	logger.Info(ctx).
		Int("product_keys", len(keep)).
		Int64("removed_from_cart", result.RemovedFromCart).
		Int64("removed_from_wishlist", result.RemovedFromWishlist).
		Msg("Cleanup complete")

	return result, nil
}

func (c *Coordinator) abort(ctx context.Context, step string, partial *DeleteResult, err error) error {
	c.observe(TriggerDelete, partial.RemovedFromCart, partial.RemovedFromWishlist)

	logger.Error(ctx).
		Err(err).
		Str("step", step).
		Int64("deleted_product", partial.DeletedProduct).
		Int64("removed_from_cart", partial.RemovedFromCart).
		Msg("Cascade delete aborted")

	return &CascadeError{Step: step, Partial: *partial, Err: err}
}

func (c *Coordinator) invalidate(ctx context.Context) {
	if c.invalidator != nil {
		c.invalidator.Invalidate(ctx)
	}
}

func (c *Coordinator) observe(trigger string, cart, wishlist int64) {
	if c.recorder != nil {
		c.recorder.ObserveRemoval(trigger, cart, wishlist)
	}
}

// referenceKeys retorna raw seguido de las claves del producto, sin
// duplicados.
func referenceKeys(raw string, keys []string) []string {
	out := []string{raw}
	seen := map[string]bool{raw: true}
	for _, k := range keys {
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	return out
}
