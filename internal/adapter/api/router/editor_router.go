package router

import (
	"github.com/labstack/echo/v4"

	"chatstage/internal/adapter/api/handler"
)

// SetupEditorRouter sets up the fabrication surface: session state, the
// mutation API over the merged collections, export/import and bulk tools.
func SetupEditorRouter(e *echo.Echo, editorHandler *handler.EditorHandler) {
	editorGroup := e.Group("/v1/editor")

	editorGroup.GET("", editorHandler.GetState)
	editorGroup.POST("/panel/open", editorHandler.OpenPanel)
	editorGroup.POST("/panel/close", editorHandler.ClosePanel)
	editorGroup.POST("/panel/toggle", editorHandler.TogglePanel)
	editorGroup.POST("/mode/toggle", editorHandler.ToggleEditMode)

	editorGroup.GET("/conversations", editorHandler.ListConversations)
	editorGroup.POST("/conversations", editorHandler.AddConversation)
	editorGroup.PATCH("/conversations/:id", editorHandler.UpdateConversation)
	editorGroup.DELETE("/conversations/:id", editorHandler.DeleteConversation)
	editorGroup.PATCH("/conversations/:id/participant", editorHandler.UpdateParticipant)
	editorGroup.PATCH("/conversations/:id/product", editorHandler.UpdateProduct)
	editorGroup.POST("/conversations/:id/messages", editorHandler.AddMessage)
	editorGroup.PATCH("/conversations/:id/messages/:messageId", editorHandler.UpdateMessage)
	editorGroup.DELETE("/conversations/:id/messages/:messageId", editorHandler.DeleteMessage)

	editorGroup.GET("/export", editorHandler.Export)
	editorGroup.POST("/import", editorHandler.Import)
	editorGroup.POST("/bulk", editorHandler.BulkCreate)
	editorGroup.POST("/clear", editorHandler.ClearAll)
}
