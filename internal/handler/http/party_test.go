package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"homestream/internal/domain"
	httpHandler "homestream/internal/handler/http"
	"homestream/internal/infra/state/memory"
	"homestream/internal/middleware"
	"homestream/internal/repository"
	"homestream/internal/repository/mocks"
	"homestream/internal/service"
)

func newPartyRouter(t *testing.T) (*gin.Engine, *memory.PartyRegistry, *mocks.SelectionStore, *mocks.VideoRepository) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	registry := memory.NewPartyRegistry()
	selections := new(mocks.SelectionStore)
	videoRepo := new(mocks.VideoRepository)
	catalog := service.NewCatalogService(videoRepo, new(mocks.AnimeRepository))
	partyService := service.NewPartyService(registry, selections, catalog, service.NewRoomCodeGenerator(6))
	handler := httpHandler.NewPartyHandler(partyService)

	router := gin.New()
	// Stand-in for the JWT middleware.
	router.Use(func(c *gin.Context) { c.Set(middleware.CtxUserID, uint(1)) })
	router.POST("/api/parties", handler.CreateParty)
	router.POST("/api/parties/join", handler.JoinParty)
	router.GET("/api/parties", handler.ListParties)
	router.GET("/api/parties/:code", handler.RoomInfo)
	return router, registry, selections, videoRepo
}

func TestPartyHandler_CreateParty(t *testing.T) {
	router, _, selections, videoRepo := newPartyRouter(t)

	videoRepo.On("FindByID", mock.Anything, uint(7)).
		Return(&domain.Video{ID: 7, Title: "Heat", URL: "https://media/heat.mp4"}, nil).
		Once()
	selections.On("Put", mock.Anything, uint(1), mock.AnythingOfType("*domain.PendingSelection")).
		Return(nil).
		Once()

	body := bytes.NewBufferString(`{"selection": "video-7"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/parties", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp httpHandler.CreatePartyResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.RoomCode, 6)
	selections.AssertExpectations(t)
}

func TestPartyHandler_CreateParty_BadSelection(t *testing.T) {
	router, _, _, _ := newPartyRouter(t)

	body := bytes.NewBufferString(`{"selection": "garbage"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/parties", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPartyHandler_JoinParty_UnknownCode(t *testing.T) {
	router, _, _, _ := newPartyRouter(t)

	body := bytes.NewBufferString(`{"room_code": "NOPE42"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/parties/join", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPartyHandler_ListParties(t *testing.T) {
	router, registry, _, _ := newPartyRouter(t)

	registry.CreateIfAbsent(&domain.Party{Code: "ABC123", LeaderName: "alice", VideoTitle: "Heat"})

	req := httptest.NewRequest(http.MethodGet, "/api/parties", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ABC123")
	assert.Contains(t, w.Body.String(), "alice")
}

func TestPartyHandler_RoomInfo_NoStash(t *testing.T) {
	router, _, selections, _ := newPartyRouter(t)

	selections.On("Get", mock.Anything, uint(1)).
		Return(nil, repository.ErrSelectionNotFound).
		Once()

	req := httptest.NewRequest(http.MethodGet, "/api/parties/ABC123", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
