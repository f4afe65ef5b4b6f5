package routes

import (
	"github.com/aronh-dev/GuestSphere/controllers"
	"github.com/aronh-dev/GuestSphere/middleware"
	"github.com/gin-gonic/gin"
)

// initBrandRoutes initializes brand and team-member routes
func initBrandRoutes(router *gin.RouterGroup) {
	brands := router.Group("/brands")
	brands.Use(middleware.AuthMiddleware())
	{
		brands.GET("", controllers.ListBrands)
		brands.POST("", controllers.CreateBrand)
		brands.PUT("/:brandId", controllers.UpdateBrand)
		brands.DELETE("/:brandId", controllers.DeleteBrand)

		brands.POST("/:brandId/members", controllers.AddBrandMember)
		brands.DELETE("/:brandId/members/:userId", controllers.RemoveBrandMember)

		brands.GET("/:brandId/events", controllers.ListBrandEvents)
		brands.GET("/:brandId/analytics", controllers.GetBrandAnalytics)
	}
}
