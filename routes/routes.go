package routes

import (
	"net/http"
	"time"

	"clinicbooking/handlers"
	"clinicbooking/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		status := utils.GetHealthStatus()
		code := http.StatusOK
		if !status.Healthy() {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{"status": status, "message": "Hi, I'm the clinic booking service"})
	})
}

// RegisterCatalogRoutes registers the read-only expert and service endpoints.
func RegisterCatalogRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/catalog")
	{
		api.GET("/services", hb.ListServicesHandler)
		api.GET("/services/:slug", hb.GetServiceHandler)
		api.GET("/experts", hb.ListExpertsHandler)
		api.GET("/experts/:slug", hb.GetExpertHandler)
	}
}

// RegisterBookingRoutes sets up the endpoints for the booking wizard.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	wizardGroup := r.Group("/api/booking/wizard")
	{
		wizardGroup.POST("", hb.OpenWizard)
		wizardGroup.GET("/:sessionID", hb.GetWizard)
		wizardGroup.PATCH("/:sessionID/fields", hb.SelectWizardField)
		wizardGroup.POST("/:sessionID/next", hb.NextWizardStep)
		wizardGroup.POST("/:sessionID/back", hb.PrevWizardStep)
		wizardGroup.POST("/:sessionID/calendar/month", hb.ShiftWizardMonth)
		wizardGroup.POST("/:sessionID/calendar/date", hb.SelectWizardDate)
		wizardGroup.POST("/:sessionID/time", hb.SelectWizardTime)
		wizardGroup.POST("/:sessionID/submit", hb.SubmitWizard)
		wizardGroup.POST("/:sessionID/reset", hb.ResetWizard)
		wizardGroup.DELETE("/:sessionID", hb.CloseWizard)
	}
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle, allowedOrigins []string) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:  allowedOrigins,
		AllowMethods:  []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "X-Request-ID"},
		ExposeHeaders: []string{"Content-Length", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}))

	RegisterHealthRoute(r)
	RegisterCatalogRoutes(r, hb)
	RegisterBookingRoutes(r, hb)
}
