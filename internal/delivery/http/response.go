package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/catalogcompare/backend/internal/domain"
)

const (
	codeRouteNotFound     = "ROUTE_NOT_FOUND"
	codeRateLimitExceeded = "RATE_LIMIT_EXCEEDED"
	msgInternal           = "Internal server error"
)

// errorBody is the payload under "error" in every failure response
type errorBody struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

type errorResponse struct {
	Success bool      `json:"success"`
	Error   errorBody `json:"error"`
}

// respondOK writes {success: true, data, ...extra}.
func respondOK(c *gin.Context, data any, extra gin.H) {
	body := gin.H{
		"success": true,
		"data":    data,
	}
	for k, v := range extra {
		body[k] = v
	}
	c.JSON(http.StatusOK, body)
}

// respondComparison adds the reconciliation of requested ids to a compare view.
func respondComparison(c *gin.Context, data any, cmp *domain.Comparison) {
	respondOK(c, data, gin.H{
		"total":        len(cmp.Products),
		"requestedIds": cmp.RequestedIDs,
		"foundIds":     cmp.FoundIDs,
		"missingIds":   cmp.MissingIDs,
	})
}

func abortWithError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, errorResponse{
		Error: errorBody{Message: message, Code: code},
	})
}

// statusFor maps an error kind onto its HTTP status.
func statusFor(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindInvalidInput, domain.KindTooMany:
		return http.StatusBadRequest
	case domain.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the failure envelope for err. Internal details are hidden in production.
func (h *Handler) respondError(c *gin.Context, err error) {
	var de *domain.Error
	if !errors.As(err, &de) {
		de = domain.Internal(domain.CodeInternal, msgInternal, err)
	}

	status := statusFor(de.Kind)
	message, code := de.Message, de.Code

	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed",
			zap.String("request_id", requestID(c)),
			zap.String("path", c.Request.URL.Path),
			zap.String("code", code),
			zap.Error(err))
		if h.production {
			message, code = msgInternal, domain.CodeInternal
		}
	}

	abortWithError(c, status, code, message)
}
