package handler

import (
	"github.com/labstack/echo/v4"

	"chatstage/internal/usecase"
	"chatstage/pkg/response"
)

type ChatHandler struct {
	chatUseCase *usecase.ChatUseCase
}

func NewChatHandler(chatUseCase *usecase.ChatUseCase) *ChatHandler {
	return &ChatHandler{chatUseCase: chatUseCase}
}

type sendMessageRequest struct {
	Text string `json:"text" validate:"required"`
}

// ListConversations returns the messenger inbox, newest first.
func (h *ChatHandler) ListConversations(c echo.Context) error {
	return response.Success(c, h.chatUseCase.Conversations())
}

func (h *ChatHandler) GetConversation(c echo.Context) error {
	conv, err := h.chatUseCase.GetConversation(c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, conv)
}

// SendMessage appends an outgoing message and starts the delivery
// simulation.
func (h *ChatHandler) SendMessage(c echo.Context) error {
	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	msgID, err := h.chatUseCase.SendMessage(c.Param("id"), req.Text)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, map[string]string{"messageId": msgID})
}

func (h *ChatHandler) SimulateTyping(c echo.Context) error {
	if err := h.chatUseCase.SimulateTyping(c.Param("id")); err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]bool{"typing": true})
}
