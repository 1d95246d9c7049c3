package api

import (
	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine, handler *Handler) {
	api := router.Group("/api")
	{
		api.GET("/listings", handler.GetAllListings)
		api.GET("/listings/search", handler.SearchListings)
		api.POST("/listings", handler.CreateListing)
		api.POST("/bookings", handler.CreateBooking)
		api.GET("/bookings/guest", handler.GetGuestBookings)
		api.GET("/bookings/host", handler.GetHostBookings)
		api.POST("/bookings/:id/cancel", handler.CancelBooking)
		api.GET("/geocode", handler.GeocodeSearch)
		api.GET("/settings/telegram", handler.GetTelegramSettings)
		api.POST("/settings/telegram", handler.UpdateTelegramSettings)
	}
}
