package tests

import (
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chatstage/internal/adapter/api"
	"chatstage/internal/adapter/api/handler"
	"chatstage/internal/adapter/api/router"
	"chatstage/internal/domain/entity"
	"chatstage/internal/infrastructure/websocket"
	"chatstage/internal/scheduler"
	"chatstage/internal/store"
	"chatstage/internal/usecase"
)

func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()

	marketplace := store.New([]entity.Conversation{{
		ID:          "conv_m1",
		Participant: entity.Participant{ID: "p1", Name: "alex"},
		Product:     entity.Product{ID: "pr1", Title: "Denim Jacket", Price: 30, Currency: "GBP", Status: "available"},
		Messages:    []entity.Message{},
	}})
	vinted := store.New([]entity.Conversation{{
		ID:          "conv_v1",
		Participant: entity.Participant{ID: "p2", Name: "sam"},
		Product:     entity.Product{ID: "pr2", Title: "Leather Boots", Price: 45, Currency: "GBP", Status: "available"},
		Messages:    []entity.Message{},
		Offer:       &entity.Offer{Amount: 35, OriginalPrice: 45, Status: entity.OfferStatusPending},
	}})

	tasks := scheduler.New()
	t.Cleanup(tasks.CancelAll)
	wsManager := websocket.NewManager()
	currentUser := entity.User{ID: "me", Name: "Me"}

	chatUseCase := usecase.NewChatUseCase(marketplace, tasks)
	vintedUseCase := usecase.NewVintedUseCase(vinted, entity.Balance{Available: 100, Currency: "GBP"})
	editorUseCase := usecase.NewEditorUseCase(marketplace, vinted, currentUser, tasks, wsManager)
	generatorUseCase := usecase.NewGeneratorUseCase(vinted, rand.New(rand.NewSource(1)), nil)

	e := echo.New()
	e.Validator = api.NewValidator()
	router.Setup(e,
		handler.NewChatHandler(chatUseCase),
		handler.NewVintedHandler(vintedUseCase),
		handler.NewEditorHandler(editorUseCase, generatorUseCase),
		handler.NewMenuHandler(),
		handler.NewWebSocketHandler(wsManager, editorUseCase),
	)
	return e
}

func doJSON(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestHealthCheck(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}

func TestMenu(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodGet, "/v1/menu/vinted", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	env := decode(t, rec)
	assert.True(t, env.Success)
	assert.Contains(t, string(env.Data), "Balance")

	rec = doJSON(e, http.MethodGet, "/v1/menu/unknown", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	env = decode(t, rec)
	require.NotNil(t, env.Error)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
}

func TestEditorPanelToggle(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/v1/editor/panel/toggle", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	env := decode(t, rec)
	assert.Contains(t, string(env.Data), `"panelOpen":true`)

	rec = doJSON(e, http.MethodPost, "/v1/editor/panel/toggle", "")
	env = decode(t, rec)
	assert.Contains(t, string(env.Data), `"panelOpen":false`)
}

func TestSendMessage(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/v1/conversations/conv_m1/messages", `{"text":"hi there"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
	env := decode(t, rec)
	assert.Contains(t, string(env.Data), "messageId")

	rec = doJSON(e, http.MethodPost, "/v1/conversations/conv_m1/messages", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	env = decode(t, rec)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)

	rec = doJSON(e, http.MethodPost, "/v1/conversations/missing/messages", `{"text":"hi"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAcceptOfferFlow(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/v1/vinted/conversations/conv_v1/offer/accept", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	env := decode(t, rec)
	assert.Contains(t, string(env.Data), `"status":"accepted"`)
	assert.Contains(t, string(env.Data), `"status":"sold"`)

	rec = doJSON(e, http.MethodGet, "/v1/vinted/balance", "")
	env = decode(t, rec)
	assert.Contains(t, string(env.Data), `"pending":35`)

	rec = doJSON(e, http.MethodPost, "/v1/vinted/conversations/conv_v1/offer/accept", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExportImport(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodGet, "/v1/editor/export", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "marketplace-data.json")
	exported := rec.Body.String()
	assert.Contains(t, exported, "conv_m1")

	rec = doJSON(e, http.MethodPost, "/v1/editor/import", exported)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(e, http.MethodPost, "/v1/editor/import", `{"nope":1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	env := decode(t, rec)
	require.NotNil(t, env.Error)
	assert.Equal(t, "IMPORT_MALFORMED", env.Error.Code)
}

func TestBulkCreateValidation(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/v1/editor/bulk", `{"count":3}`)
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(e, http.MethodGet, "/v1/vinted/conversations", "")
	env := decode(t, rec)
	var convs []entity.Conversation
	require.NoError(t, json.Unmarshal(env.Data, &convs))
	assert.Len(t, convs, 4)

	rec = doJSON(e, http.MethodPost, "/v1/editor/bulk", `{"count":0}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(e, http.MethodPost, "/v1/editor/bulk", `{"count":10,"genderMode":"robot"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
