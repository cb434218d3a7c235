package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"homestream/internal/storage"
)

// FilesHandler serves the master-only file manager: upload, list, download
// and delete against a flat on-disk directory.
type FilesHandler struct {
	store *storage.FileStore
}

func NewFilesHandler(store *storage.FileStore) *FilesHandler {
	if store == nil {
		panic("FileStore cannot be nil for FilesHandler")
	}
	return &FilesHandler{store: store}
}

func (h *FilesHandler) List(c *gin.Context) {
	files, err := h.store.List()
	if err != nil {
		logrus.WithError(err).Error("Failed to list files")
		ErrorResponse(c, http.StatusInternalServerError, "Failed to list files")
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{"files": files})
}

func (h *FilesHandler) Upload(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid input: file field is required")
		return
	}
	src, err := header.Open()
	if err != nil {
		logrus.WithError(err).Error("Failed to open uploaded file")
		ErrorResponse(c, http.StatusInternalServerError, "Failed to read upload")
		return
	}
	defer src.Close()

	name, err := h.store.Save(header.Filename, src)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidFilename) {
			ErrorResponse(c, http.StatusBadRequest, "Invalid filename")
			return
		}
		logrus.WithError(err).Error("Failed to store uploaded file")
		ErrorResponse(c, http.StatusInternalServerError, "Failed to store upload")
		return
	}
	SuccessResponse(c, http.StatusCreated, gin.H{"message": "File uploaded", "name": name})
}

func (h *FilesHandler) Download(c *gin.Context) {
	path, err := h.store.Path(c.Param("name"))
	if err != nil {
		h.handleStoreError(c, err)
		return
	}
	c.FileAttachment(path, c.Param("name"))
}

func (h *FilesHandler) Delete(c *gin.Context) {
	if err := h.store.Remove(c.Param("name")); err != nil {
		h.handleStoreError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{"message": "File deleted"})
}

func (h *FilesHandler) handleStoreError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, storage.ErrInvalidFilename):
		ErrorResponse(c, http.StatusBadRequest, "Invalid filename")
	case errors.Is(err, storage.ErrFileNotFound):
		ErrorResponse(c, http.StatusNotFound, "File not found")
	default:
		logrus.WithError(err).Error("File store operation failed")
		ErrorResponse(c, http.StatusInternalServerError, "File operation failed")
	}
}
