package handler

import (
	"github.com/labstack/echo/v4"

	"chatstage/pkg/errors"
	"chatstage/pkg/response"
)

// MenuHandler serves the per-app screen catalogs; pure navigation data.
type MenuHandler struct{}

func NewMenuHandler() *MenuHandler {
	return &MenuHandler{}
}

type menuScreen struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

var appMenus = map[string][]menuScreen{
	"messenger": {
		{Name: "Inbox", Path: "/v1/conversations"},
		{Name: "Conversation", Path: "/v1/conversations/:id"},
	},
	"vinted": {
		{Name: "Inbox", Path: "/v1/vinted/conversations"},
		{Name: "Conversation", Path: "/v1/vinted/conversations/:id"},
		{Name: "Balance", Path: "/v1/vinted/balance"},
	},
}

func (h *MenuHandler) GetMenu(c echo.Context) error {
	app := c.Param("app")
	screens, ok := appMenus[app]
	if !ok {
		return response.Error(c, errors.NotFound("Menu", nil))
	}
	return response.Success(c, map[string]interface{}{
		"app":     app,
		"screens": screens,
	})
}
