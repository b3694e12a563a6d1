package catalog

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.opentelemetry.io/otel/attribute"

	"storefront-api/internal/cache"
	"storefront-api/internal/identifier"
	"storefront-api/internal/logger"
	"storefront-api/internal/models"
	"storefront-api/internal/repository"
)

const (
	cachePrefix      = "products:"
	cacheKeyAll      = cachePrefix + "all"
	cacheKeyIDPrefix = cachePrefix + "id:"
)

// Órdenes aceptados por ListQuery.Sort.
const (
	SortFeatured   = "featured"
	SortPriceLow   = "price-low"
	SortPriceHigh  = "price-high"
	SortNameAsc    = "name-asc"
	SortNameDesc   = "name-desc"
	SortRatingHigh = "rating-high"
	SortNewest     = "newest"
)

// ListQuery filtra y ordena un listado de productos. El valor cero retorna
// la colección tal como está guardada.
type ListQuery struct {
	Category string
	Search   string
	Sort     string
}

func (q ListQuery) isZero() bool {
	return q.Category == "" && q.Search == "" && q.Sort == ""
}

// ProductService lee y escribe la colección de productos a través del caché.
// Una lectura que compitió con una invalidación no vuelve a llenar el caché.
type ProductService struct {
	repo  repository.ProductRepository
	cache cache.Store
	now   func() time.Time

	mu         sync.Mutex
	generation uint64
}

func NewProductService(repo repository.ProductRepository, store cache.Store) *ProductService {
	if store == nil {
		store = cache.Noop{}
	}
	return &ProductService{repo: repo, cache: store, now: time.Now}
}

// List retorna los productos que coinciden con q.
func (s *ProductService) List(ctx context.Context, q ListQuery) (products []models.Product, err error) {
	ctx, span := startSpan(ctx, "catalog.products.list",
		attribute.String("category", q.Category),
		attribute.String("sort", q.Sort),
	)
	defer func() { endSpan(span, err) }()

	products, err = s.all(ctx)
	if err != nil {
		return nil, err
	}
	if q.isZero() {
		return products, nil
	}
	return Query(products, q), nil
}

func (s *ProductService) all(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if hit, err := s.cache.Get(ctx, cacheKeyAll, &products); err != nil {
		logger.Warn(ctx).Err(err).Msg("Product cache read failed")
	} else if hit {
		return products, nil
	}

	gen := s.currentGeneration()
	products, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []models.Product{}
	}
	s.fill(ctx, gen, cacheKeyAll, products)
	return products, nil
}

// Get obtiene el producto indicado por raw, id nativo o de aplicación.
func (s *ProductService) Get(ctx context.Context, raw string) (product *models.Product, err error) {
	id := identifier.Parse(raw)
	ctx, span := startSpan(ctx, "catalog.products.get",
		attribute.String("product.id", raw),
		attribute.String("product.id_kind", id.Kind().String()),
	)
	defer func() { endSpan(span, err) }()

	key := cacheKeyIDPrefix + raw
	var cached models.Product
	if hit, cerr := s.cache.Get(ctx, key, &cached); cerr != nil {
		logger.Warn(ctx).Err(cerr).Str("key", key).Msg("Product cache read failed")
	} else if hit {
		return &cached, nil
	}

	gen := s.currentGeneration()
	product, err = s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.fill(ctx, gen, key, product)
	return product, nil
}

// Create inserta un producto desde un objeto JSON y retorna el documento
// guardado, releído para que se vean los valores por defecto.
func (s *ProductService) Create(ctx context.Context, fields bson.M) (product *models.Product, err error) {
	ctx, span := startSpan(ctx, "catalog.products.create")
	defer func() { endSpan(span, err) }()

	var p models.Product
	if err := decodePayload(fields, &p); err != nil {
		return nil, err
	}
	p.ApplyDefaults(s.now())

	if !models.IsKnownCategory(p.Category) {
		logger.Warn(ctx).
			Str("category", p.Category).
			Str("name", p.Name).
			Msg("Product created with unknown category")
	}

	id, err := s.repo.Create(ctx, &p)
	if err != nil {
		return nil, err
	}
	s.Invalidate(ctx)

	product, err = s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	logger.Info(ctx).
		Str("product_id", product.ObjectID.Hex()).
		Str("app_id", product.ID).
		Msg("Product created")
	return product, nil
}

// Update aplica fields sobre el producto indicado por raw. Ambos campos de id
// se ignoran. Un producto inexistente es ErrNotFound.
func (s *ProductService) Update(ctx context.Context, raw string, fields bson.M) (result *repository.UpdateResult, err error) {
	ctx, span := startSpan(ctx, "catalog.products.update", attribute.String("product.id", raw))
	defer func() { endSpan(span, err) }()

	set, err := updateFields(fields)
	if err != nil {
		return nil, err
	}
	if err := checkFields(set, &models.Product{}); err != nil {
		return nil, err
	}

	result, err = s.repo.Update(ctx, identifier.Parse(raw), set)
	if err != nil {
		return nil, err
	}
	if result.MatchedCount == 0 {
		return nil, ErrNotFound
	}
	s.Invalidate(ctx)
	return result, nil
}

// Invalidate descarta todas las lecturas de productos en caché. Llamar tras
// cualquier escritura en la colección de productos.
func (s *ProductService) Invalidate(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.generation++
	if err := s.cache.DeletePrefix(ctx, cachePrefix); err != nil {
		logger.Warn(ctx).Err(err).Msg("Product cache invalidation failed")
	}
}

func (s *ProductService) currentGeneration() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// fill guarda value bajo key salvo que el caché se haya invalidado después de
// iniciar la lectura que lo produjo.
func (s *ProductService) fill(ctx context.Context, gen uint64, key string, value interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.generation != gen {
		return
	}
	if err := s.cache.Set(ctx, key, value); err != nil {
		logger.Warn(ctx).Err(err).Str("key", key).Msg("Product cache write failed")
	}
}

// Query filtra productos por categoría y búsqueda y los ordena según q.Sort.
// Un orden desconocido usa el orden destacado; uno vacío mantiene el orden
// de entrada.
func Query(products []models.Product, q ListQuery) []models.Product {
	out := make([]models.Product, 0, len(products))
	term := strings.ToLower(strings.TrimSpace(q.Search))
	for _, p := range products {
		if q.Category != "" && q.Category != "all" && p.Category != q.Category {
			continue
		}
		if term != "" && !matchesTerm(p, term) {
			continue
		}
		out = append(out, p)
	}

	if q.Sort == "" {
		return out
	}
	sort.SliceStable(out, less(out, q.Sort))
	return out
}

func matchesTerm(p models.Product, term string) bool {
	contains := func(s string) bool {
		return strings.Contains(strings.ToLower(s), term)
	}
	if contains(p.Name) || contains(p.Description) || contains(p.Category) {
		return true
	}
	for _, spec := range p.Specs {
		if contains(spec.Label) || contains(spec.Value) {
			return true
		}
	}
	return false
}

func less(ps []models.Product, order string) func(i, j int) bool {
	switch order {
	case SortPriceLow:
		return func(i, j int) bool { return ps[i].Price < ps[j].Price }
	case SortPriceHigh:
		return func(i, j int) bool { return ps[i].Price > ps[j].Price }
	case SortNameAsc:
		return func(i, j int) bool { return strings.ToLower(ps[i].Name) < strings.ToLower(ps[j].Name) }
	case SortNameDesc:
		return func(i, j int) bool { return strings.ToLower(ps[i].Name) > strings.ToLower(ps[j].Name) }
	case SortRatingHigh:
		return func(i, j int) bool { return ps[i].Rating > ps[j].Rating }
	case SortNewest:
		return func(i, j int) bool { return createdAt(ps[i]).After(createdAt(ps[j])) }
	default:
		return func(i, j int) bool {
			if ps[i].Featured != ps[j].Featured {
				return ps[i].Featured
			}
			return ps[i].Rating > ps[j].Rating
		}
	}
}

func createdAt(p models.Product) time.Time {
	for _, layout := range []string{models.CreatedAtLayout, time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, p.CreatedAt); err == nil {
			return t
		}
	}
	return time.Time{}
}
