package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"homestream/internal/service"
)

// CatalogHandler serves the video and anime catalog CRUD.
type CatalogHandler struct {
	catalogService *service.CatalogService
}

func NewCatalogHandler(catalogService *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	parsed, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || parsed == 0 {
		ErrorResponse(c, http.StatusBadRequest, "Invalid id: "+raw)
		return 0, false
	}
	return uint(parsed), true
}

// --- videos ---

type AddVideoRequest struct {
	Title string `json:"title" binding:"required"`
	URL   string `json:"url" binding:"required,url"`
}

func (h *CatalogHandler) ListVideos(c *gin.Context) {
	videos, err := h.catalogService.ListVideos(c.Request.Context())
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{"videos": videos})
}

func (h *CatalogHandler) AddVideo(c *gin.Context) {
	var req AddVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid input: title and url are required")
		return
	}
	video, err := h.catalogService.AddVideo(c.Request.Context(), req.Title, req.URL)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusCreated, video)
}

func (h *CatalogHandler) DeleteVideo(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.catalogService.DeleteVideo(c.Request.Context(), id); err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{"message": "Video deleted"})
}

// --- anime ---

type AddSeriesRequest struct {
	Title    string `json:"title" binding:"required"`
	ImageURL string `json:"image_url" binding:"omitempty,url"`
}

type AddEpisodeRequest struct {
	Title string `json:"title" binding:"required"`
	URL   string `json:"url" binding:"required,url"`
}

func (h *CatalogHandler) ListSeries(c *gin.Context) {
	series, err := h.catalogService.ListSeries(c.Request.Context())
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{"series": series})
}

func (h *CatalogHandler) SeriesDetail(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	series, err := h.catalogService.SeriesDetail(c.Request.Context(), id)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, series)
}

func (h *CatalogHandler) AddSeries(c *gin.Context) {
	var req AddSeriesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid input: title is required")
		return
	}
	series, err := h.catalogService.AddSeries(c.Request.Context(), req.Title, req.ImageURL)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusCreated, series)
}

func (h *CatalogHandler) DeleteSeries(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.catalogService.DeleteSeries(c.Request.Context(), id); err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{"message": "Series deleted"})
}

func (h *CatalogHandler) AddEpisode(c *gin.Context) {
	seriesID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req AddEpisodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid input: title and url are required")
		return
	}
	episode, err := h.catalogService.AddEpisode(c.Request.Context(), seriesID, req.Title, req.URL)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusCreated, episode)
}

func (h *CatalogHandler) DeleteEpisode(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.catalogService.DeleteEpisode(c.Request.Context(), id); err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{"message": "Episode deleted"})
}
