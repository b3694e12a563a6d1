// Package app arma el contexto de la aplicación para todo el proceso: stores,
// caché, servicios y el handler HTTP. Todo se construye una vez en New y se
// libera en Close.
package app

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"storefront-api/internal/cache"
	"storefront-api/internal/catalog"
	"storefront-api/internal/config"
	"storefront-api/internal/database"
	"storefront-api/internal/handlers"
	"storefront-api/internal/logger"
	"storefront-api/internal/metrics"
	"storefront-api/internal/repository"
	"storefront-api/internal/routes"
)

const (
	serviceName      = "storefront-api"
	redisCachePrefix = "storefront:"
)

// Stores agrupa los repositorios sobre los que corren los servicios.
type Stores struct {
	Products repository.ProductRepository
	Cart     repository.ItemRepository
	Wishlist repository.ItemRepository
	Users    repository.UserRepository
	Pinger   database.Pinger
}

// MemoryStores retorna repositorios vacíos en memoria.
func MemoryStores() Stores {
	return Stores{
		Products: repository.NewMemoryProductRepository(),
		Cart:     repository.NewMemoryItemRepository(),
		Wishlist: repository.NewMemoryItemRepository(),
		Users:    repository.NewMemoryUserRepository(),
		Pinger:   database.StaticPinger{},
	}
}

// MongoStores retorna repositorios sobre las colecciones de db.
func MongoStores(db *mongo.Database, cfg *config.Config) Stores {
	return Stores{
		Products: repository.NewMongoProductRepository(db.Collection(repository.ProductsCollection), cfg.RequestTimeout),
		Cart:     repository.NewMongoItemRepository(db.Collection(repository.CartCollection), cfg.RequestTimeout),
		Wishlist: repository.NewMongoItemRepository(db.Collection(repository.WishlistCollection), cfg.RequestTimeout),
		Users:    repository.NewMongoUserRepository(db.Collection(repository.UsersCollection), cfg.RequestTimeout),
		Pinger:   database.NewMongoPinger(db),
	}
}

// App es el contexto compartido por todas las peticiones.
type App struct {
	Config   *config.Config
	Router   *gin.Engine
	Handler  http.Handler
	Registry *prometheus.Registry

	client *mongo.Client
	cache  cache.Store
}

// New conecta el store y el caché configurados y arma el handler.
// Un error de conexión al store se retorna al llamador, que lo trata como
// fatal.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	var (
		stores Stores
		client *mongo.Client
	)

	switch cfg.StoreDriver {
	case config.StoreMemory:
		logger.Logger.Warn().Msg("Using in-memory store, data is lost on restart")
		stores = MemoryStores()
	default:
		var err error
		client, err = database.Connect(ctx, cfg.MongoURI)
		if err != nil {
			return nil, err
		}
		stores = MongoStores(client.Database(cfg.MongoDB), cfg)
	}

	a := Build(cfg, stores, newCache(ctx, cfg))
	a.client = client
	return a, nil
}

// Build arma una App sobre stores y caché ya construidos.
func Build(cfg *config.Config, stores Stores, store cache.Store) *App {
	if store == nil {
		store = cache.Noop{}
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	productSvc := catalog.NewProductService(stores.Products, store)
	coordinator := catalog.NewCoordinator(stores.Products, stores.Cart, stores.Wishlist, productSvc, m)

	router := gin.New()
	router.Use(
		gin.Recovery(),
		handlers.RequestID(),
		handlers.RequestLogger(),
		m.Middleware(),
	)

	routes.RegisterRoutes(router, routes.Handlers{
		Products: handlers.NewProductHandler(productSvc, coordinator),
		Cart:     handlers.NewCartHandler(catalog.NewCartService(stores.Cart, stores.Products)),
		Wishlist: handlers.NewWishlistHandler(catalog.NewWishlistService(stores.Wishlist)),
		System: handlers.NewSystemHandler(
			stores.Pinger,
			coordinator,
			catalog.NewUserService(stores.Users),
		),
		Metrics: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	})

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders:   []string{"Content-Type", "Authorization", handlers.RequestIDHeader},
		ExposedHeaders:   []string{handlers.RequestIDHeader},
		AllowCredentials: true,
	})

	return &App{
		Config:   cfg,
		Router:   router,
		Handler:  otelhttp.NewHandler(c.Handler(router), serviceName),
		Registry: registry,
		cache:    store,
	}
}

func newCache(ctx context.Context, cfg *config.Config) cache.Store {
	switch cfg.CacheDriver {
	case config.CacheNone:
		return cache.Noop{}
	case config.CacheRedis:
		redisCache, err := cache.NewRedis(ctx, cfg.RedisAddr, redisCachePrefix, cfg.CacheTTL)
		if err == nil {
			logger.Logger.Info().Str("addr", cfg.RedisAddr).Msg("Using Redis product cache")
			return redisCache
		}
		logger.Logger.Warn().
			Err(err).
			Str("addr", cfg.RedisAddr).
			Msg("Redis unavailable, falling back to in-memory cache")
	}
	return cache.NewMemory(cfg.CacheTTL, cfg.CacheTTL)
}

// Close libera el caché y la conexión al store.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if err := a.cache.Close(); err != nil {
		errs = append(errs, err)
	}
	if a.client != nil {
		if err := a.client.Disconnect(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
