package routes

import (
	"github.com/aronh-dev/GuestSphere/controllers"
	"github.com/aronh-dev/GuestSphere/middleware"
	"github.com/gin-gonic/gin"
)

// initCodeTemplateRoutes initializes code template and event activation routes
func initCodeTemplateRoutes(router *gin.RouterGroup) {
	templates := router.Group("/code-templates")
	templates.Use(middleware.AuthMiddleware())
	{
		templates.GET("", controllers.ListCodeTemplates)
		templates.POST("", controllers.CreateCodeTemplate)
		templates.PUT("/:id", controllers.UpdateCodeTemplate)
		templates.DELETE("/:id", controllers.DeleteCodeTemplate)

		templates.GET("/brand/:brandId", controllers.GetTemplatesForBrand)
		templates.GET("/event/:eventId", controllers.GetCodesForEvent)
		templates.POST("/migrate-event/:eventId", controllers.MigrateEventCodes)
	}

	activations := router.Group("/event-code-activations")
	activations.Use(middleware.AuthMiddleware())
	{
		activations.GET("/:eventId", controllers.GetEventCodes)
		activations.PUT("/:eventId/toggle", controllers.ToggleEventCode)
		activations.PUT("/:eventId/bulk", controllers.BulkToggleEventCodes)
		activations.PUT("/overrides/:activationId", controllers.UpdateCodeOverrides)
		activations.DELETE("/overrides/:activationId", controllers.ClearCodeOverrides)
	}
}
