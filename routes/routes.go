package routes

import (
	"net/http"
	"time"

	"coachbook/handlers"
	"coachbook/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterAvailabilityRoutes sets up the public slot-catalog endpoints.
func RegisterAvailabilityRoutes(r *gin.Engine) {
	api := r.Group("/api/availability")
	{
		api.GET("/slots", handlers.ListSlots)
		api.POST("/expand", handlers.ExpandWeekly)
	}
}

// RegisterCourseRoutes sets up the public course-catalog endpoints.
func RegisterCourseRoutes(r *gin.Engine) {
	api := r.Group("/api/courses")
	{
		api.GET("", handlers.ListCourses)
		api.GET("/:courseID", handlers.GetCourse)
	}
}

// RegisterBookingRoutes sets up the draft wizard endpoints. All require an
// authenticated customer.
func RegisterBookingRoutes(r *gin.Engine) {
	api := r.Group("/api/bookings")
	{
		api.Use(middleware.CustomerAuthMiddleware())
		api.POST("/drafts", handlers.StartDraft)
		api.GET("/drafts/:draftID", handlers.GetDraft)
		api.PUT("/drafts/:draftID/package", handlers.SelectPackage)
		api.PUT("/drafts/:draftID/answers", handlers.SubmitAnswers)
		api.PUT("/drafts/:draftID/slots", handlers.SelectSlots)
		api.POST("/drafts/:draftID/submit", handlers.SubmitDraft)
		api.DELETE("/drafts/:draftID", handlers.CancelDraft)
	}
}

// RegisterWebhookRoutes sets up the payment-provider callback. No customer
// auth: the request is authenticated by its signature header.
func RegisterWebhookRoutes(r *gin.Engine) {
	r.POST("/api/webhooks/payment", handlers.PaymentWebhook)
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Hi, I'm Coachbook"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "Stripe-Signature"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RateLimitMiddleware())

	RegisterHealthRoute(r)
	RegisterAvailabilityRoutes(r)
	RegisterCourseRoutes(r)
	RegisterBookingRoutes(r)
	RegisterWebhookRoutes(r)
}
