package handler

import (
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"chatstage/internal/domain/entity"
	"chatstage/internal/store"
	"chatstage/internal/usecase"
	"chatstage/pkg/errors"
	"chatstage/pkg/response"
)

// EditorHandler exposes the full fabrication surface: session state, the
// mutation API over the merged view, export/import and bulk generation.
type EditorHandler struct {
	editorUseCase    *usecase.EditorUseCase
	generatorUseCase *usecase.GeneratorUseCase
}

func NewEditorHandler(editorUseCase *usecase.EditorUseCase, generatorUseCase *usecase.GeneratorUseCase) *EditorHandler {
	return &EditorHandler{
		editorUseCase:    editorUseCase,
		generatorUseCase: generatorUseCase,
	}
}

func (h *EditorHandler) GetState(c echo.Context) error {
	return response.Success(c, h.editorUseCase.State())
}

func (h *EditorHandler) OpenPanel(c echo.Context) error {
	return response.Success(c, h.editorUseCase.OpenPanel())
}

func (h *EditorHandler) ClosePanel(c echo.Context) error {
	return response.Success(c, h.editorUseCase.ClosePanel())
}

func (h *EditorHandler) TogglePanel(c echo.Context) error {
	return response.Success(c, h.editorUseCase.TogglePanel())
}

func (h *EditorHandler) ToggleEditMode(c echo.Context) error {
	return response.Success(c, h.editorUseCase.ToggleEditMode())
}

func (h *EditorHandler) ListConversations(c echo.Context) error {
	return response.Success(c, h.editorUseCase.Conversations())
}

type addConversationRequest struct {
	ParticipantName   string  `json:"participantName"`
	ParticipantAvatar string  `json:"participantAvatar" validate:"omitempty,url"`
	ProductTitle      string  `json:"productTitle"`
	ProductPrice      float64 `json:"productPrice" validate:"gte=0"`
	ProductImage      string  `json:"productImage" validate:"omitempty,url"`
}

func (h *EditorHandler) AddConversation(c echo.Context) error {
	var req addConversationRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	id := h.editorUseCase.AddConversation(usecase.NewConversationInput{
		ParticipantName:   req.ParticipantName,
		ParticipantAvatar: req.ParticipantAvatar,
		ProductTitle:      req.ProductTitle,
		ProductPrice:      req.ProductPrice,
		ProductImage:      req.ProductImage,
	}, time.Now().UTC().Format(time.RFC3339))
	return response.Created(c, map[string]string{"conversationId": id})
}

func (h *EditorHandler) DeleteConversation(c echo.Context) error {
	h.editorUseCase.DeleteConversation(c.Param("id"))
	return response.Success(c, map[string]bool{"deleted": true})
}

type updateConversationRequest struct {
	UnreadCount *int                `json:"unreadCount"`
	IsTyping    *bool               `json:"isTyping"`
	TimeAgo     *string             `json:"timeAgo"`
	LastMessage *entity.LastMessage `json:"lastMessage"`
	Offer       *entity.Offer       `json:"offer"`
	RemoveOffer bool                `json:"removeOffer"`
}

func (h *EditorHandler) UpdateConversation(c echo.Context) error {
	var req updateConversationRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	h.editorUseCase.UpdateConversation(c.Param("id"), store.ConversationPatch{
		UnreadCount: req.UnreadCount,
		IsTyping:    req.IsTyping,
		TimeAgo:     req.TimeAgo,
		LastMessage: req.LastMessage,
		Offer:       req.Offer,
		RemoveOffer: req.RemoveOffer,
	})
	return response.Success(c, map[string]bool{"updated": true})
}

type updateParticipantRequest struct {
	Name        *string `json:"name"`
	Avatar      *string `json:"avatar"`
	AvatarColor *string `json:"avatarColor"`
	Location    *string `json:"location"`
	LastSeen    *string `json:"lastSeen"`
	IsOnline    *bool   `json:"isOnline"`
}

func (h *EditorHandler) UpdateParticipant(c echo.Context) error {
	var req updateParticipantRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	h.editorUseCase.UpdateParticipant(c.Param("id"), store.ParticipantPatch{
		Name:        req.Name,
		Avatar:      req.Avatar,
		AvatarColor: req.AvatarColor,
		Location:    req.Location,
		LastSeen:    req.LastSeen,
		IsOnline:    req.IsOnline,
	})
	return response.Success(c, map[string]bool{"updated": true})
}

type updateProductRequest struct {
	Title         *string  `json:"title"`
	Price         *float64 `json:"price"`
	OriginalPrice *float64 `json:"originalPrice"`
	Currency      *string  `json:"currency"`
	Image         *string  `json:"image"`
	Subtotal      *float64 `json:"subtotal"`
	Status        *string  `json:"status"`
}

func (h *EditorHandler) UpdateProduct(c echo.Context) error {
	var req updateProductRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	h.editorUseCase.UpdateProduct(c.Param("id"), store.ProductPatch{
		Title:         req.Title,
		Price:         req.Price,
		OriginalPrice: req.OriginalPrice,
		Currency:      req.Currency,
		Image:         req.Image,
		Subtotal:      req.Subtotal,
		Status:        req.Status,
	})
	return response.Success(c, map[string]bool{"updated": true})
}

type addEditorMessageRequest struct {
	SenderID  string `json:"senderId"`
	Text      string `json:"text" validate:"required"`
	Timestamp string `json:"timestamp"`
	Status    string `json:"status" validate:"omitempty,oneof=sent delivered read"`
}

func (h *EditorHandler) AddMessage(c echo.Context) error {
	var req addEditorMessageRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	id := h.editorUseCase.AddMessage(c.Param("id"), entity.Message{
		SenderID:  req.SenderID,
		Text:      req.Text,
		Timestamp: req.Timestamp,
		Status:    req.Status,
	})
	if id == "" {
		return response.Error(c, errors.NotFound("Conversation", nil))
	}
	return response.Created(c, map[string]string{"messageId": id})
}

type updateMessageRequest struct {
	SenderID  *string `json:"senderId"`
	Text      *string `json:"text"`
	Timestamp *string `json:"timestamp"`
	Status    *string `json:"status"`
	Type      *string `json:"type"`
}

func (h *EditorHandler) UpdateMessage(c echo.Context) error {
	var req updateMessageRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	h.editorUseCase.UpdateMessage(c.Param("id"), c.Param("messageId"), store.MessagePatch{
		SenderID:  req.SenderID,
		Text:      req.Text,
		Timestamp: req.Timestamp,
		Status:    req.Status,
		Type:      req.Type,
	})
	return response.Success(c, map[string]bool{"updated": true})
}

func (h *EditorHandler) DeleteMessage(c echo.Context) error {
	h.editorUseCase.DeleteMessage(c.Param("id"), c.Param("messageId"))
	return response.Success(c, map[string]bool{"deleted": true})
}

// Export streams the whole dataset as a downloadable JSON document.
func (h *EditorHandler) Export(c echo.Context) error {
	data, err := h.editorUseCase.ExportData()
	if err != nil {
		return response.Error(c, err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="marketplace-data.json"`)
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, data)
}

func (h *EditorHandler) Import(c echo.Context) error {
	payload, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return response.Error(c, errors.ImportMalformed("Failed to read payload", err))
	}
	if err := h.editorUseCase.ImportData(payload); err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]bool{"imported": true})
}

type bulkCreateRequest struct {
	Count           int      `json:"count" validate:"required,min=1,max=500"`
	DefaultStatus   string   `json:"defaultStatus" validate:"omitempty,oneof=unread read"`
	RandomizeNames  bool     `json:"randomizeNames"`
	GenderMode      string   `json:"genderMode" validate:"omitempty,oneof=mix female male maleFocus"`
	CustomUsernames []string `json:"customUsernames"`
	RandomizeTimes  bool     `json:"randomizeTimes"`
	TimeRangeDays   int      `json:"timeRangeDays" validate:"omitempty,min=1,max=30"`
	ProductTitle    string   `json:"productTitle"`
	ProductPrice    float64  `json:"productPrice" validate:"gte=0"`
	ProductImage    string   `json:"productImage" validate:"omitempty,url"`

	OfferPercentage     int     `json:"offerPercentage" validate:"min=0,max=100"`
	RandomizeOfferPrice bool    `json:"randomizeOfferPrice"`
	FixedOfferPrice     float64 `json:"fixedOfferPrice" validate:"gte=0"`
	OfferPriceMin       float64 `json:"offerPriceMin" validate:"gte=0"`
	OfferPriceMax       float64 `json:"offerPriceMax" validate:"gte=0"`
}

func (h *EditorHandler) BulkCreate(c echo.Context) error {
	var req bulkCreateRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	generated := h.generatorUseCase.BulkCreate(usecase.BulkCreateInput{
		Count:               req.Count,
		DefaultUnread:       req.DefaultStatus != "read",
		RandomizeNames:      req.RandomizeNames,
		GenderMode:          req.GenderMode,
		CustomUsernames:     req.CustomUsernames,
		RandomizeTimes:      req.RandomizeTimes,
		TimeRangeDays:       req.TimeRangeDays,
		ProductTitle:        req.ProductTitle,
		ProductPrice:        req.ProductPrice,
		ProductImage:        req.ProductImage,
		OfferPercentage:     req.OfferPercentage,
		RandomizeOfferPrice: req.RandomizeOfferPrice,
		FixedOfferPrice:     req.FixedOfferPrice,
		OfferPriceMin:       req.OfferPriceMin,
		OfferPriceMax:       req.OfferPriceMax,
	})
	return response.Created(c, map[string]interface{}{
		"created": len(generated),
	})
}

func (h *EditorHandler) ClearAll(c echo.Context) error {
	h.generatorUseCase.ClearAll()
	return response.Success(c, map[string]bool{"cleared": true})
}
