package app

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"chargenow/internal/handler"
	"chargenow/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	RequestHandler  *handler.RequestHandler
	BookingHandler  *handler.BookingHandler
	PaymentHandler  *handler.PaymentHandler
	FeedbackHandler *handler.FeedbackHandler
	FleetHandler    *handler.FleetHandler
	ProfileHandler  *handler.ProfileHandler
	JWTSecret       []byte
	RedisClient     *redis.Client // optional; disables idempotency replay when nil
	NewRelicApp     *newrelic.Application
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORSMiddleware())

	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/v1")
	v1.Use(middleware.Authenticate(deps.JWTSecret))
	v1.Use(middleware.TagTransaction())
	v1.Use(middleware.IdempotencyMiddleware(deps.RedisClient))
	{
		requests := v1.Group("/requests")
		{
			requests.POST("", deps.RequestHandler.CreateRequest)
			requests.GET("", deps.RequestHandler.ListRequests)
			requests.GET("/:id", deps.RequestHandler.GetRequest)
			requests.PUT("/:id", deps.RequestHandler.DecideRequest)
			requests.PUT("/:id/operator", deps.RequestHandler.AssignOperator)
		}

		bookings := v1.Group("/bookings")
		{
			bookings.GET("", deps.BookingHandler.ListBookings)
			bookings.GET("/:id", deps.BookingHandler.GetBooking)
			bookings.PUT("/:id", deps.BookingHandler.ChargingStep)
			bookings.PUT("/:id/cancel", deps.BookingHandler.CancelBooking)
		}

		payments := v1.Group("/payments")
		{
			payments.POST("", deps.PaymentHandler.RecordPayment)
			payments.GET("", deps.PaymentHandler.ListPayments)
			payments.PUT("/:id/settle", deps.PaymentHandler.SettlePayment)
		}

		feedback := v1.Group("/feedback")
		{
			feedback.POST("", deps.FeedbackHandler.SubmitFeedback)
			feedback.GET("", deps.FeedbackHandler.ListFeedback)
			feedback.DELETE("/:id", deps.FeedbackHandler.DeleteFeedback)
		}

		operator := v1.Group("/operator")
		{
			operator.PUT("/status", deps.FleetHandler.SetStatus)
			operator.GET("/van", deps.FleetHandler.MyVan)
		}

		operators := v1.Group("/operators")
		{
			operators.GET("/online", deps.FleetHandler.OnlineOperators)
			operators.GET("/:id/status", deps.FleetHandler.TrackOperator)
			operators.PUT("/:id/verification", deps.FleetHandler.SetVerification)
		}

		vans := v1.Group("/vans")
		{
			vans.POST("", deps.FleetHandler.RegisterVan)
			vans.PUT("/:id/operator", deps.FleetHandler.AssignVan)
			vans.DELETE("/:id/operator", deps.FleetHandler.UnassignVan)
		}

		v1.GET("/profile", deps.ProfileHandler.GetProfile)
		v1.PUT("/profile", deps.ProfileHandler.UpdateProfile)

		vehicles := v1.Group("/vehicles")
		{
			vehicles.GET("", deps.ProfileHandler.ListVehicles)
			vehicles.POST("", deps.ProfileHandler.AddVehicle)
			vehicles.PUT("/:id", deps.ProfileHandler.UpdateVehicle)
			vehicles.DELETE("/:id", deps.ProfileHandler.DeleteVehicle)
		}
	}

	return router
}
