package router

import (
	"github.com/labstack/echo/v4"

	"chatstage/internal/adapter/api/handler"
)

func Setup(e *echo.Echo, chatHandler *handler.ChatHandler, vintedHandler *handler.VintedHandler, editorHandler *handler.EditorHandler, menuHandler *handler.MenuHandler, wsHandler *handler.WebSocketHandler) {
	SetupHealthRouter(e)
	SetupChatRouter(e, chatHandler)
	SetupVintedRouter(e, vintedHandler)
	SetupEditorRouter(e, editorHandler)
	SetupMenuRouter(e, menuHandler)
	SetupWebSocketRouter(e, wsHandler)
}
