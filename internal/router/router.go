package router

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	playgroundvalidator "github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/rmagbanua/nanaycare-api/internal/handler"
	appointmenth "github.com/rmagbanua/nanaycare-api/internal/handler/appointment"
	assistanth "github.com/rmagbanua/nanaycare-api/internal/handler/assistant"
	authh "github.com/rmagbanua/nanaycare-api/internal/handler/auth"
	feedh "github.com/rmagbanua/nanaycare-api/internal/handler/feed"
	materialh "github.com/rmagbanua/nanaycare-api/internal/handler/material"
	motherh "github.com/rmagbanua/nanaycare-api/internal/handler/mother"
	riskh "github.com/rmagbanua/nanaycare-api/internal/handler/risk"
	userh "github.com/rmagbanua/nanaycare-api/internal/handler/user"
	"github.com/rmagbanua/nanaycare-api/internal/middleware"
	"github.com/rmagbanua/nanaycare-api/internal/model"
	"github.com/rmagbanua/nanaycare-api/pkg/validator"
)

type Config struct {
	RateLimitRPS   float64
	RateLimitBurst int
	RequestTimeout time.Duration
	CORS           middleware.CORSConfig
	MetricsPrefix  string
}

type Router struct {
	engine       *gin.Engine
	auth         *middleware.AuthMiddleware
	authH        *authh.Handler
	motherH      *motherh.Handler
	riskH        *riskh.Handler
	appointmentH *appointmenth.Handler
	materialH    *materialh.Handler
	feedH        *feedh.Handler
	assistantH   *assistanth.Handler
	userH        *userh.Handler
	h            *handler.Handler
	metrics      *routerMetrics
}

type routerMetrics struct {
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	errorTotal      *prometheus.CounterVec
}

func NewRouter(
	auth *middleware.AuthMiddleware,
	authH *authh.Handler,
	motherH *motherh.Handler,
	riskH *riskh.Handler,
	appointmentH *appointmenth.Handler,
	materialH *materialh.Handler,
	feedH *feedh.Handler,
	assistantH *assistanth.Handler,
	userH *userh.Handler,
	h *handler.Handler,
	config Config,
) *Router {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	if v, ok := binding.Validator.Engine().(*playgroundvalidator.Validate); ok {
		if err := validator.RegisterDomainRules(v); err != nil {
			panic(err)
		}
	}

	r := &Router{
		engine:       engine,
		auth:         auth,
		authH:        authH,
		motherH:      motherH,
		riskH:        riskH,
		appointmentH: appointmentH,
		materialH:    materialH,
		feedH:        feedH,
		assistantH:   assistantH,
		userH:        userH,
		h:            h,
		metrics:      initRouterMetrics(config.MetricsPrefix),
	}

	engine.Use(
		gin.Recovery(),
		middleware.Logger(),
		middleware.ErrorHandler(),
		r.metricsMiddleware(),
		middleware.Timeout(middleware.TimeoutConfig{Duration: config.RequestTimeout}),
		middleware.RequestID(),
	)
	engine.Use(middleware.CORS(config.CORS))

	rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		RPS:   config.RateLimitRPS,
		Burst: config.RateLimitBurst,
	})
	engine.Use(rateLimiter.RateLimit())

	return r
}

func (r *Router) Setup() {
	api := r.engine.Group("/api/v1")

	api.Use(func(c *gin.Context) {
		c.Header("X-API-Version", "1.0")
		c.Next()
	})

	r.setupHealthCheck(api)

	// Public routes
	r.authH.RegisterRoutes(api)

	// Protected routes
	protected := api.Group("")
	protected.Use(r.auth.Authenticate())

	r.motherH.RegisterRoutes(protected, r.auth)
	r.materialH.RegisterRoutes(protected, r.auth)
	r.assistantH.RegisterRoutes(protected, r.auth)
	r.userH.RegisterRoutes(protected, r.auth)
	r.feedH.RegisterRoutes(protected)

	staff := protected.Group("")
	staff.Use(r.auth.RequireRole(model.RoleHealthWorker, model.RoleAdmin))
	r.riskH.RegisterRoutes(staff)
	r.appointmentH.RegisterRoutes(staff)
}

func (r *Router) setupHealthCheck(rg *gin.RouterGroup) {
	health := rg.Group("/health")
	{
		health.GET("/live", r.h.LivenessCheck)
		health.GET("/ready", r.h.ReadinessCheck)
	}
	rg.GET("/metrics", r.h.MetricsHandler)
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func initRouterMetrics(prefix string) *routerMetrics {
	return &routerMetrics{
		requestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: prefix + "_request_duration_seconds",
				Help: "Duration of HTTP requests in seconds",
			},
			[]string{"method", "path", "status"},
		),
		requestTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		errorTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_errors_total",
				Help: "Total number of HTTP errors",
			},
			[]string{"method", "path", "type"},
		),
	}
}

func (r *Router) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()

		c.Next()

		status := fmt.Sprintf("%d", c.Writer.Status())
		duration := time.Since(start).Seconds()

		r.metrics.requestDuration.WithLabelValues(c.Request.Method, path, status).Observe(duration)
		r.metrics.requestTotal.WithLabelValues(c.Request.Method, path, status).Inc()

		if c.Writer.Status() >= 400 {
			r.metrics.errorTotal.WithLabelValues(c.Request.Method, path, "http").Inc()
		}
	}
}
