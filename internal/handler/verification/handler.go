package verification

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/wexxqt/ecatsulta-api/pkg/errors"
	"github.com/wexxqt/ecatsulta-api/pkg/metrics"

	"github.com/wexxqt/ecatsulta-api/internal/service/verification"
)

type Handler struct {
	service *verification.Service
	metrics *metrics.Metrics
}

func NewHandler(service *verification.Service, metrics *metrics.Metrics) *Handler {
	return &Handler{service: service, metrics: metrics}
}

// VerifyCode resolves a typed or pre-normalized appointment code.
func (h *Handler) VerifyCode(c *gin.Context) {
	apt, err := h.service.LookupByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.observe(err)
		c.Error(err)
		return
	}

	h.metrics.VerificationLookups.WithLabelValues("found").Inc()
	c.JSON(http.StatusOK, gin.H{"status": "success", "data": apt})
}

// VerifyScan accepts the raw decoder output from a scanner client as the
// request body and resolves whatever code it carries.
func (h *Handler) VerifyScan(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil || len(body) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "scan payload is required"})
		return
	}

	apt, err := h.service.VerifyScan(c.Request.Context(), json.RawMessage(body))
	if err != nil {
		h.observe(err)
		c.Error(err)
		return
	}

	h.metrics.VerificationLookups.WithLabelValues("found").Inc()
	c.JSON(http.StatusOK, gin.H{"status": "success", "data": apt})
}

func (h *Handler) observe(err error) {
	if apperrors.IsNotFound(err) {
		h.metrics.VerificationLookups.WithLabelValues("not_found").Inc()
		return
	}
	h.metrics.VerificationLookups.WithLabelValues("error").Inc()
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	verify := r.Group("/verify")
	{
		verify.GET("/:code", h.VerifyCode)
		verify.POST("/scan", h.VerifyScan)
	}
}
