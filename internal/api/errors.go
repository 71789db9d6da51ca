package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"alcyxob/strength-planner/internal/domain"
	"alcyxob/strength-planner/internal/logger"
	"alcyxob/strength-planner/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// Helper to return JSON error response and abort request
func abortWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, ErrorResponse{Error: message})
}

func abortWithFieldError(c *gin.Context, field, message string) {
	c.AbortWithStatusJSON(http.StatusUnprocessableEntity, ErrorResponse{Error: message, Field: field})
}

// respondError maps a service error onto an HTTP status. Unexpected errors are logged
// and hidden from the client.
func respondError(c *gin.Context, log *logger.Logger, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, ErrorResponse{Error: verr.Error(), Field: verr.Field})
	case errors.Is(err, service.ErrValidation):
		abortWithError(c, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, service.ErrNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrConflict), errors.Is(err, service.ErrUserAlreadyExists):
		abortWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrAccessDenied):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrAuthenticationFailed), errors.Is(err, service.ErrInvalidToken):
		abortWithError(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrMediaUnavailable):
		abortWithError(c, http.StatusServiceUnavailable, err.Error())
	default:
		log.Error("Request failed", "method", c.Request.Method, "path", c.FullPath(), "error", err)
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred.")
	}
}

// bindJSON decodes the body. Malformed or truncated JSON is a 400, failed binding rules a 422.
func bindJSON(c *gin.Context, req interface{}) bool {
	err := c.ShouldBindJSON(req)
	if err == nil {
		return true
	}
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &syntaxErr), errors.As(err, &typeErr),
		errors.Is(err, io.ErrUnexpectedEOF), errors.Is(err, io.EOF):
		abortWithError(c, http.StatusBadRequest, "Malformed JSON: "+err.Error())
	default:
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "Validation error: " + err.Error()})
	}
	return false
}

// idParam parses a path parameter as an ObjectID.
func idParam(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Invalid %s format.", name))
		return primitive.NilObjectID, false
	}
	return id, true
}

// parseObjectID parses an optional hex id from a request body.
func parseObjectID(c *gin.Context, field string, hex *string) (*primitive.ObjectID, bool) {
	if hex == nil || *hex == "" {
		return nil, true
	}
	id, err := primitive.ObjectIDFromHex(*hex)
	if err != nil {
		abortWithFieldError(c, field, field+": must be a valid id")
		return nil, false
	}
	return &id, true
}

func parseObjectIDs(c *gin.Context, field string, hexes []string) ([]primitive.ObjectID, bool) {
	ids := make([]primitive.ObjectID, 0, len(hexes))
	for _, h := range hexes {
		id, err := primitive.ObjectIDFromHex(h)
		if err != nil {
			abortWithFieldError(c, field, field+": must contain valid ids")
			return nil, false
		}
		ids = append(ids, id)
	}
	return ids, true
}

// parseDate parses a YYYY-MM-DD calendar date.
func parseDate(c *gin.Context, field, value string) (time.Time, bool) {
	d, err := time.Parse(domain.DateLayout, value)
	if err != nil {
		abortWithFieldError(c, field, field+": must be a date formatted YYYY-MM-DD")
		return time.Time{}, false
	}
	return d, true
}
