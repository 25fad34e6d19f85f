package http

import (
	"errors"
	"eshop/internal/domain"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type ErrorResponse struct {
	Code      string         `json:"code"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
	TraceID   string         `json:"traceId"`
	Timestamp time.Time      `json:"timestamp"`
}

func statusFor(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindInvalidInput:
		return http.StatusBadRequest
	case domain.KindConflict:
		return http.StatusConflict
	case domain.KindUnavailable:
		return http.StatusServiceUnavailable
	case domain.KindTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// respondError renders err as the error envelope. Anything that is not a
// *domain.Error is reported as an internal error; the wrapped cause is only
// logged.
func respondError(c *gin.Context, err error) {
	var de *domain.Error
	if !errors.As(err, &de) {
		de = domain.NewInternal(err)
	}

	status := statusFor(de.Kind)
	traceID := RequestIDFrom(c)
	if status >= http.StatusInternalServerError {
		log.Printf("[%s] %s %s failed: %v", traceID, c.Request.Method, c.Request.URL.Path, err)
	}

	c.AbortWithStatusJSON(status, ErrorResponse{
		Code:      de.Code,
		Message:   de.Message,
		Details:   de.Details,
		TraceID:   traceID,
		Timestamp: time.Now().UTC(),
	})
}

// respondBindError reports request-shape failures as VALIDATION_ERROR with
// one detail entry per offending field.
func respondBindError(c *gin.Context, err error) {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		details := make(map[string]any, len(ve))
		for _, fe := range ve {
			details[fieldPath(fe)] = fe.Tag()
		}
		respondError(c, domain.NewValidationError("One or more validation errors occurred.", details))
		return
	}
	respondError(c, domain.NewValidationError("The request body is not valid JSON for this operation.", nil))
}
