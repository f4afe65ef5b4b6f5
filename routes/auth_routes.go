package routes

import (
	"github.com/aronh-dev/GuestSphere/controllers"
	"github.com/gin-gonic/gin"
)

// initAuthRoutes initializes signup and login routes
func initAuthRoutes(router *gin.RouterGroup) {
	router.POST("/signup", controllers.RegisterUser)
	router.POST("/signup/verify-otp", controllers.VerifyOTP)
	router.POST("/login", controllers.LoginUser)
}
