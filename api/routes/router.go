// api/routes/router.go
package routes

import (
	"net/http"
	"time"

	"github.com/harshnandal981/Advermo-sub000/internal/bookings"
	"github.com/harshnandal981/Advermo-sub000/internal/cancellation"
	"github.com/harshnandal981/Advermo-sub000/internal/payments"
	"github.com/harshnandal981/Advermo-sub000/internal/shared/clock"
	"github.com/harshnandal981/Advermo-sub000/internal/shared/config"
	"github.com/harshnandal981/Advermo-sub000/internal/shared/database"
	"github.com/harshnandal981/Advermo-sub000/internal/spaces"
	"github.com/harshnandal981/Advermo-sub000/internal/sweeper"
	"github.com/harshnandal981/Advermo-sub000/pkg/cache"

	"github.com/gin-gonic/gin"
)

// Dependencies are the collaborators created by main before routing
type Dependencies struct {
	Publisher bookings.EventPublisher
	Gateway   payments.Gateway
	Clock     clock.Clock
}

// Router holds all route dependencies
type Router struct {
	config *config.Config
	db     *database.DB
	deps   Dependencies

	catalog        spaces.Catalog
	spaceRepo      spaces.Repository
	bookingRepo    bookings.Repository
	bookingService bookings.Service
	paymentRepo    payments.Repository
	sweeper        *sweeper.Sweeper
	jobs           *sweeper.JobProcessor
}

// NewRouter creates a new router instance and wires the services shared by the route groups
func NewRouter(cfg *config.Config, db *database.DB, deps Dependencies) *Router {
	if deps.Clock == nil {
		deps.Clock = clock.NewSystem()
	}
	r := &Router{
		config: cfg,
		db:     db,
		deps:   deps,
	}

	pg := db.GetPostgreSQL()
	r.spaceRepo = spaces.NewRepository(pg)
	r.catalog = spaces.NewCatalog(r.spaceRepo, cache.NewService(db.GetRedisClient()), cfg.Redis.CatalogTTL)

	r.bookingRepo = bookings.NewRepository(pg, bookings.RepositoryOptions{
		ReadRetries:      cfg.Booking.ReadRetries,
		ReadRetryBackoff: cfg.Booking.ReadRetryBackoff,
	})
	r.bookingService = bookings.NewService(r.bookingRepo, r.catalog, deps.Publisher, deps.Clock, bookings.OptionsFromConfig(cfg.Booking))
	r.paymentRepo = payments.NewRepository(pg)

	r.sweeper = sweeper.New(r.bookingRepo, r.bookingService, deps.Clock, sweeper.Options{
		Workers:         cfg.Sweeper.Workers,
		PaymentDeadline: cfg.Booking.PaymentDeadline,
		StoreTimeout:    cfg.Booking.StoreTimeout,
	})
	if cfg.Sweeper.Enabled {
		r.jobs = sweeper.NewJobProcessor(r.sweeper, sweeper.JobConfigFrom(cfg.Sweeper))
	}

	return r
}

// JobProcessor returns the background sweep jobs, or nil when they are disabled
func (r *Router) JobProcessor() *sweeper.JobProcessor {
	return r.jobs
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	// Health check and basic info endpoints
	r.setupHealthRoutes(engine)

	// API routes
	api := engine.Group(r.config.GetAPIBasePath())
	{
		r.setupSpaceRoutes(api)
		r.setupBookingRoutes(api)
		r.setupPaymentRoutes(api)
		r.setupCancellationRoutes(api)
		r.setupSweepRoutes(api)
	}
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		// Perform health checks
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "advermo-bookings",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "advermo-bookings",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})

	engine.GET("/status", func(c *gin.Context) {
		status := gin.H{
			"status":      "operational",
			"api_version": r.config.APIVersion,
			"timestamp":   time.Now(),
		}
		if r.jobs != nil {
			status["sweep_jobs"] = r.jobs.GetJobStatus()
		}
		c.JSON(http.StatusOK, status)
	})
}

// setupSpaceRoutes configures the read-only catalog routes
func (r *Router) setupSpaceRoutes(rg *gin.RouterGroup) {
	spaceController := spaces.NewController(r.spaceRepo, r.catalog)
	spaces.SetupSpaceRoutes(rg, spaceController)
}

// setupBookingRoutes configures booking lifecycle routes
func (r *Router) setupBookingRoutes(rg *gin.RouterGroup) {
	bookingController := bookings.NewController(r.bookingService)
	bookings.SetupBookingRoutes(rg, bookingController, r.config)
}

// setupPaymentRoutes configures payment order and webhook routes
func (r *Router) setupPaymentRoutes(rg *gin.RouterGroup) {
	paymentService := payments.NewService(r.paymentRepo, r.bookingService, r.deps.Gateway, r.config.Payment.Currency, r.deps.Clock, r.config.Booking.StoreTimeout)
	reconciler := payments.NewReconciler(r.paymentRepo, r.bookingService, r.deps.Clock, r.config.Booking.StoreTimeout)

	paymentController := payments.NewController(paymentService)
	webhookHandler := payments.NewWebhookHandler(r.deps.Gateway, reconciler)

	payments.SetupPaymentRoutes(rg, paymentController, webhookHandler, r.config)
}

// setupCancellationRoutes configures cancellation and refund routes
func (r *Router) setupCancellationRoutes(rg *gin.RouterGroup) {
	cancellationRepo := cancellation.NewRepository(r.db.GetPostgreSQL())
	cancellationService := cancellation.NewService(cancellationRepo, r.bookingService, r.paymentRepo, r.deps.Gateway, r.deps.Clock, r.config.Booking.StoreTimeout)
	cancellationController := cancellation.NewController(cancellationService)

	cancellation.SetupCancellationRoutes(rg, cancellationController, r.config)
}

// setupSweepRoutes configures the admin sweep trigger
func (r *Router) setupSweepRoutes(rg *gin.RouterGroup) {
	sweepController := sweeper.NewController(r.sweeper, r.jobs)
	sweeper.SetupSweepRoutes(rg, sweepController, r.config)
}
