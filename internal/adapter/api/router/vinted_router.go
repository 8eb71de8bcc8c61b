package router

import (
	"github.com/labstack/echo/v4"

	"chatstage/internal/adapter/api/handler"
)

// SetupVintedRouter sets up the resale-app routes.
func SetupVintedRouter(e *echo.Echo, vintedHandler *handler.VintedHandler) {
	vintedGroup := e.Group("/v1/vinted")

	vintedGroup.GET("/conversations", vintedHandler.ListConversations)
	vintedGroup.GET("/conversations/:id", vintedHandler.GetConversation)
	vintedGroup.PUT("/conversations/:id", vintedHandler.UpdateConversation)
	vintedGroup.POST("/conversations/:id/offer/accept", vintedHandler.AcceptOffer)
	vintedGroup.POST("/conversations/:id/offer/decline", vintedHandler.DeclineOffer)
	vintedGroup.GET("/balance", vintedHandler.GetBalance)
}
