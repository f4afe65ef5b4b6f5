package routes

import (
	"github.com/aronh-dev/GuestSphere/controllers"
	"github.com/aronh-dev/GuestSphere/middleware"
	"github.com/gin-gonic/gin"
)

// initEventRoutes initializes event, guest-list and ticket routes
func initEventRoutes(router *gin.RouterGroup) {
	events := router.Group("/events")
	events.Use(middleware.AuthMiddleware())
	{
		events.POST("", controllers.CreateEvent)
		events.PUT("/:eventId", controllers.UpdateEvent)
		events.DELETE("/:eventId", controllers.DeleteEvent)
		events.POST("/:eventId/occurrences", controllers.GenerateOccurrences)

		// Flat per-event settings rows
		events.GET("/:eventId/settings", controllers.ListCodeSettings)
		events.POST("/:eventId/settings", controllers.CreateCodeSetting)
		events.PUT("/:eventId/settings/:settingId", controllers.UpdateCodeSetting)
		events.DELETE("/:eventId/settings/:settingId", controllers.DeleteCodeSetting)

		// Guest list
		events.GET("/:eventId/codes", controllers.ListIssuedCodes)
		events.POST("/:eventId/codes", controllers.IssueCode)
		events.GET("/:eventId/codes/:codeId/pdf", controllers.DownloadCodePDF)
		events.PUT("/:eventId/codes/:codeId/cancel", controllers.CancelCode)

		// Door
		events.POST("/:eventId/checkin", controllers.CheckInCode)
		events.GET("/:eventId/checkin/lookup", controllers.LookupCode)

		events.GET("/:eventId/analytics", controllers.GetEventAnalytics)
		events.GET("/:eventId/analytics/export", controllers.DownloadGuestListExcel)
	}

	// Ticket checkout is public; buyers are not platform users
	tickets := router.Group("/tickets")
	{
		tickets.POST("/:eventId/checkout", controllers.InitiateTicketPayment)
		tickets.POST("/verify", controllers.VerifyTicketPayment)
	}
}
