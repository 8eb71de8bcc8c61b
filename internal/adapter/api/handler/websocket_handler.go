package handler

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	gorillaws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	ws "chatstage/internal/infrastructure/websocket"
	"chatstage/internal/usecase"
	"chatstage/pkg/errors"
	"chatstage/pkg/logger"
)

// WebSocketHandler connects editor sessions. Outbound frames carry state and
// conversation change events; inbound frames deliver boundary input, the
// cancel key among them.
type WebSocketHandler struct {
	wsManager     *ws.Manager
	editorUseCase *usecase.EditorUseCase
}

var upgrader = gorillaws.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // mockup tool, same-origin enforcement not needed
	},
}

func NewWebSocketHandler(wsManager *ws.Manager, editorUseCase *usecase.EditorUseCase) *WebSocketHandler {
	return &WebSocketHandler{
		wsManager:     wsManager,
		editorUseCase: editorUseCase,
	}
}

type clientEvent struct {
	Type string `json:"type"`
}

func (h *WebSocketHandler) HandleWebSocket(c echo.Context) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return errors.Internal("Failed to upgrade connection", err)
	}

	client := &ws.Client{
		SessionID: uuid.New().String(),
		Conn:      conn,
		Send:      make(chan []byte, 256),
	}

	h.wsManager.Register <- client

	go client.ReadPump(h.wsManager, h.handleEvent)
	go client.WritePump()

	return nil
}

// handleEvent maps boundary input onto editor state-machine events. The
// cancel key toggles the panel: close if open, open otherwise.
func (h *WebSocketHandler) handleEvent(sessionID string, payload []byte) {
	var event clientEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		logger.Warn("ignoring malformed editor event from %s", sessionID)
		return
	}

	switch event.Type {
	case "escape":
		h.editorUseCase.TogglePanel()
	default:
		logger.Debug("unknown editor event %q from %s", event.Type, sessionID)
	}
}
