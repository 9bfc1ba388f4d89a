package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/eadcode/OnlineDatingApp/internal/apperrors"
	"github.com/eadcode/OnlineDatingApp/internal/logging"
	"github.com/eadcode/OnlineDatingApp/internal/middleware"
)

func requestIDFromContext(c *gin.Context) string {
	if id := c.GetString(logging.RequestIDKey); id != "" {
		return id
	}

	requestID := c.GetHeader(logging.RequestIDHeader)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	c.Set(logging.RequestIDKey, requestID)
	return requestID
}

func currentUserID(c *gin.Context) int {
	return c.GetInt(middleware.UserIDKey)
}

// respondError writes err as {"error", "kind", "fields"} with the mapped status.
// Unclassified errors are logged and reported as a generic 500.
func respondError(c *gin.Context, err error) {
	status := apperrors.HTTPStatus(err)
	kind := apperrors.KindOf(err)

	var appErr *apperrors.Error
	if status == http.StatusInternalServerError || !errors.As(err, &appErr) {
		log.Error().Err(err).Str("request_id", requestIDFromContext(c)).Str("route", c.FullPath()).Msg("request failed")
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error", "kind": apperrors.KindInternal})
		return
	}

	body := gin.H{"error": appErr.Message, "kind": kind}
	if len(appErr.Fields) > 0 {
		body["fields"] = appErr.Fields
	}
	c.JSON(status, body)
}

// paramID parses a positive integer path parameter, answering 404 when it is malformed.
func paramID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found", "kind": apperrors.KindNotFound})
		return 0, false
	}
	return id, true
}

// bindBody binds JSON or form input, answering 422 on failure.
func bindBody(c *gin.Context, dst any) bool {
	if err := c.ShouldBind(dst); err != nil {
		respondError(c, apperrors.Validation(err.Error(), nil))
		return false
	}
	return true
}
