package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/drmadhusudhan/clinic-api/config"
	"github.com/drmadhusudhan/clinic-api/internal/service"
	"github.com/drmadhusudhan/clinic-api/pkg/metrics"
)

// Handlers groups the route handlers the router wires up.
type Handlers struct {
	Booking  *BookingHandler
	Override *OverrideHandler
	Payment  *PaymentHandler
	Auth     *AuthHandler
	Doctor   *DoctorHandler
}

// NewRouter assembles the gin engine: middleware, public booking routes,
// payment routes, and the token-guarded admin surface.
func NewRouter(
	cfg *config.Config,
	db *gorm.DB,
	handlers Handlers,
	authSvc *service.AuthService,
	collector *metrics.Collector,
	log *zap.Logger,
) *gin.Engine {
	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(log))
	r.Use(Metrics(collector))
	if cfg.Tracing.Enabled {
		r.Use(Tracing(cfg.Tracing.ServiceName))
	}

	r.GET("/healthz", func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "version": cfg.App.Version})
	})
	r.GET("/metrics", gin.WrapH(metrics.MetricsHandler()))

	api := r.Group("/api")
	{
		api.POST("/auth/login", handlers.Auth.Login)

		bookings := api.Group("/bookings")
		{
			bookings.GET("/slots", handlers.Booking.GetSlots)
			bookings.POST("", handlers.Booking.Book)
			bookings.GET("/check-appointments", handlers.Booking.CheckAppointments)
			bookings.GET("/doctor", handlers.Doctor.Get)

			admin := bookings.Group("")
			admin.Use(AdminOnly(authSvc))
			{
				admin.PATCH("/:appointmentId/complete", handlers.Booking.Complete)
				admin.GET("/doctor/appointments", handlers.Booking.ListAppointments)
				admin.GET("/availability/override", handlers.Override.Get)
				admin.PUT("/availability/override", handlers.Override.Upsert)
				admin.POST("/availability/override", handlers.Override.Upsert)
				admin.DELETE("/availability/override", handlers.Override.Delete)
			}
		}

		payments := api.Group("/payments")
		{
			payments.POST("/create-order", handlers.Payment.CreateOrder)
			payments.POST("/verify", handlers.Payment.Verify)
		}
	}

	return r
}
