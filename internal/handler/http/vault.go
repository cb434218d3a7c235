package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"homestream/internal/service"
)

// VaultHandler serves the password vault. All routes are master-only; the
// RequireMaster middleware enforces that before these run.
type VaultHandler struct {
	vaultService *service.VaultService
}

func NewVaultHandler(vaultService *service.VaultService) *VaultHandler {
	return &VaultHandler{vaultService: vaultService}
}

type AddVaultEntryRequest struct {
	Name     string `json:"name" binding:"required,max=120"`
	Password string `json:"password" binding:"required"`
}

func (h *VaultHandler) List(c *gin.Context) {
	entries, err := h.vaultService.List(c.Request.Context())
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{"entries": entries})
}

func (h *VaultHandler) Add(c *gin.Context) {
	var req AddVaultEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid input: name and password are required")
		return
	}
	entry, err := h.vaultService.Add(c.Request.Context(), req.Name, req.Password)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusCreated, gin.H{"id": entry.ID, "name": entry.Name})
}

func (h *VaultHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.vaultService.Delete(c.Request.Context(), id); err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{"message": "Entry deleted"})
}
