package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/seo-dashboard-api/internal/apperr"
)

// statusFor maps the error taxonomy to HTTP statuses: not-found 404,
// validation 400, webhook-class 503, everything else 500.
func statusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindWebhook:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes a domain error. Webhook-class errors carry the
// configured webhook URL so operators can troubleshoot from the toast alone.
func respondError(c *gin.Context, err error, fallback, webhookURL string) {
	e := apperr.AsError(err, fallback)

	body := gin.H{"error": e.Message}
	if e.Hint != "" {
		body["hint"] = e.Hint
	}
	if e.Kind == apperr.KindWebhook && webhookURL != "" {
		body["webhook_url"] = webhookURL
	}
	c.JSON(statusFor(e.Kind), body)
}
