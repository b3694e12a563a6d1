package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics agrupa los collectors de Prometheus de la tienda.
type Metrics struct {
	requests       *prometheus.CounterVec
	latency        *prometheus.HistogramVec
	cascadeRemoved *prometheus.CounterVec
}

// New registra los collectors en reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "storefront_http_requests_total",
				Help: "Total number of HTTP requests handled by the storefront API",
			},
			[]string{"method", "route", "status"},
		),
		latency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "storefront_http_request_duration_seconds",
				Help:    "Duration of storefront API requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		cascadeRemoved: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "storefront_cascade_removed_total",
				Help: "Cart and wishlist documents removed by cascade delete or cleanup",
			},
			[]string{"collection", "trigger"},
		),
	}
}

// Middleware registra conteo y latencia de peticiones por ruta.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())

		m.requests.WithLabelValues(c.Request.Method, route, status).Inc()
		m.latency.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// ObserveRemoval cuenta los dependientes eliminados por disparador ("delete" o "cleanup").
func (m *Metrics) ObserveRemoval(trigger string, cart, wishlist int64) {
	m.cascadeRemoved.WithLabelValues("cart", trigger).Add(float64(cart))
	m.cascadeRemoved.WithLabelValues("wishlist", trigger).Add(float64(wishlist))
}
