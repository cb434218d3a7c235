package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"homestream/internal/middleware"
	"homestream/internal/service"
)

// PartyHandler serves the HTTP half of the watch-together flow: preparing a
// party from a catalog pick, joining by code, the lobby listing and the
// player-page room info. The websocket half lives in the hub.
type PartyHandler struct {
	partyService *service.PartyService
}

func NewPartyHandler(partyService *service.PartyService) *PartyHandler {
	return &PartyHandler{partyService: partyService}
}

type CreatePartyRequest struct {
	// Selection is a combined catalog reference, e.g. "video-7" or "anime-12".
	Selection string `json:"selection" binding:"required"`
}

type CreatePartyResponse struct {
	Message  string `json:"message"`
	RoomCode string `json:"room_code"`
}

func (h *PartyHandler) CreateParty(c *gin.Context) {
	userID := c.GetUint(middleware.CtxUserID)
	if userID == 0 {
		ErrorResponse(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req CreatePartyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid input: selection is required")
		return
	}

	code, err := h.partyService.CreateParty(c.Request.Context(), userID, req.Selection)
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	logrus.WithFields(logrus.Fields{"user_id": userID, "room_code": code}).Info("Party prepared via HTTP")
	SuccessResponse(c, http.StatusOK, CreatePartyResponse{Message: "Party created", RoomCode: code})
}

type JoinPartyRequest struct {
	RoomCode string `json:"room_code" binding:"required"`
}

func (h *PartyHandler) JoinParty(c *gin.Context) {
	userID := c.GetUint(middleware.CtxUserID)
	if userID == 0 {
		ErrorResponse(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req JoinPartyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid input: room_code is required")
		return
	}

	code, err := h.partyService.JoinParty(c.Request.Context(), userID, req.RoomCode)
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, gin.H{"message": "Joined party", "room_code": code})
}

// ListParties is the lobby view of all active rooms.
func (h *PartyHandler) ListParties(c *gin.Context) {
	SuccessResponse(c, http.StatusOK, gin.H{"parties": h.partyService.ListParties(c.Request.Context())})
}

// RoomInfo returns the caller's pending selection for the room, consumed by
// the player page before the websocket connects.
func (h *PartyHandler) RoomInfo(c *gin.Context) {
	userID := c.GetUint(middleware.CtxUserID)
	if userID == 0 {
		ErrorResponse(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	sel, err := h.partyService.RoomInfo(c.Request.Context(), userID, c.Param("code"))
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, sel)
}
