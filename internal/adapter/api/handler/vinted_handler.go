package handler

import (
	"github.com/labstack/echo/v4"

	"chatstage/internal/store"
	"chatstage/internal/usecase"
	"chatstage/pkg/response"
)

type VintedHandler struct {
	vintedUseCase *usecase.VintedUseCase
}

func NewVintedHandler(vintedUseCase *usecase.VintedUseCase) *VintedHandler {
	return &VintedHandler{vintedUseCase: vintedUseCase}
}

type updateVintedConversationRequest struct {
	UnreadCount *int    `json:"unreadCount"`
	IsTyping    *bool   `json:"isTyping"`
	TimeAgo     *string `json:"timeAgo"`
}

func (h *VintedHandler) ListConversations(c echo.Context) error {
	return response.Success(c, h.vintedUseCase.Conversations())
}

func (h *VintedHandler) GetConversation(c echo.Context) error {
	conv, err := h.vintedUseCase.GetConversation(c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, conv)
}

func (h *VintedHandler) UpdateConversation(c echo.Context) error {
	var req updateVintedConversationRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	err := h.vintedUseCase.UpdateConversation(c.Param("id"), store.ConversationPatch{
		UnreadCount: req.UnreadCount,
		IsTyping:    req.IsTyping,
		TimeAgo:     req.TimeAgo,
	})
	if err != nil {
		return response.Error(c, err)
	}

	conv, err := h.vintedUseCase.GetConversation(c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, conv)
}

func (h *VintedHandler) AcceptOffer(c echo.Context) error {
	conv, err := h.vintedUseCase.AcceptOffer(c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, conv)
}

func (h *VintedHandler) DeclineOffer(c echo.Context) error {
	conv, err := h.vintedUseCase.DeclineOffer(c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, conv)
}

func (h *VintedHandler) GetBalance(c echo.Context) error {
	return response.Success(c, h.vintedUseCase.Balance())
}
