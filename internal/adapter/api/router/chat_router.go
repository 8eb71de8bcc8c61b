package router

import (
	"github.com/labstack/echo/v4"

	"chatstage/internal/adapter/api/handler"
)

// SetupChatRouter sets up the messenger-app routes.
func SetupChatRouter(e *echo.Echo, chatHandler *handler.ChatHandler) {
	chatGroup := e.Group("/v1/conversations")

	chatGroup.GET("", chatHandler.ListConversations)
	chatGroup.GET("/:id", chatHandler.GetConversation)
	chatGroup.POST("/:id/messages", chatHandler.SendMessage)
	chatGroup.POST("/:id/typing", chatHandler.SimulateTyping)
}
