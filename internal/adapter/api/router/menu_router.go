package router

import (
	"github.com/labstack/echo/v4"

	"chatstage/internal/adapter/api/handler"
)

func SetupMenuRouter(e *echo.Echo, menuHandler *handler.MenuHandler) {
	e.GET("/v1/menu/:app", menuHandler.GetMenu)
}
