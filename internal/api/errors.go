package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/giorgikontridze/health-intel-dash/internal/excel"
	"github.com/giorgikontridze/health-intel-dash/internal/models"
)

// Response is the error body of every failed request.
type Response struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Details string `json:"details,omitempty"`
}

// statusFor maps an error from the core or the data source to an HTTP status
// and a short message suitable for display.
func statusFor(err error) (int, string) {
	switch {
	case models.IsValidation(err):
		return http.StatusBadRequest, "invalid input"
	case eris.Is(err, excel.ErrSourceNotFound):
		return http.StatusNotFound, "demand file not found"
	case eris.Is(err, models.ErrEmptyDemandSet):
		return http.StatusUnprocessableEntity, "no data available"
	case eris.Is(err, models.ErrEmptyFacilitySet):
		return http.StatusUnprocessableEntity, "no facilities configured"
	default:
		return http.StatusInternalServerError, "analysis failed"
	}
}

func (h *Handler) fail(c *gin.Context, err error) {
	status, msg := statusFor(err)
	fields := []zap.Field{
		zap.String("request_id", c.GetString(requestIDKey)),
		zap.Int("status", status),
		zap.Error(err),
	}
	if status >= http.StatusInternalServerError {
		h.log.Error(msg, fields...)
	} else {
		h.log.Warn(msg, fields...)
	}
	c.JSON(status, Response{Success: false, Error: msg, Details: err.Error()})
}
