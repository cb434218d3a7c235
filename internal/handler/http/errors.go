package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"homestream/internal/service"
)

// HandleServiceError maps business errors onto HTTP status codes. Anything
// unrecognized is logged and reported as a generic 500.
func HandleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAuthenticationFailed):
		ErrorResponse(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrRegistrationFailed),
		errors.Is(err, service.ErrReservedUsername),
		errors.Is(err, service.ErrInvalidSelection):
		ErrorResponse(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrVideoNotFound),
		errors.Is(err, service.ErrSeriesNotFound),
		errors.Is(err, service.ErrInvalidPartyCode),
		errors.Is(err, service.ErrNoPendingSelection),
		errors.Is(err, service.ErrEntryNotFound):
		ErrorResponse(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrDuplicateName):
		ErrorResponse(c, http.StatusConflict, err.Error())
	default:
		logrus.WithError(err).Error("Unhandled internal server error")
		ErrorResponse(c, http.StatusInternalServerError, "An unexpected error occurred")
	}
}
