package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wexxqt/ecatsulta-api/internal/model"
	"github.com/wexxqt/ecatsulta-api/internal/service/passkey"
	"github.com/wexxqt/ecatsulta-api/pkg/auth"
	"github.com/wexxqt/ecatsulta-api/pkg/metrics"
)

type Handler struct {
	passkeys *passkey.Service
	sessions auth.SessionService
	metrics  *metrics.Metrics
}

func NewHandler(passkeys *passkey.Service, sessions auth.SessionService, metrics *metrics.Metrics) *Handler {
	return &Handler{passkeys: passkeys, sessions: sessions, metrics: metrics}
}

// ValidatePasskey checks one of the four static role passkeys. A valid
// passkey yields a session token; every failure shape yields the same
// negative response.
func (h *Handler) ValidatePasskey(c *gin.Context) {
	var req model.ValidatePasskeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}

	role := model.AccessRole(req.Type)
	if !h.passkeys.VerifyRolePasskey(role, req.Passkey, c.ClientIP()) {
		h.metrics.PasskeyVerifications.WithLabelValues("role", "denied").Inc()
		c.JSON(http.StatusOK, gin.H{"status": "success", "data": model.SessionResponse{Valid: false}})
		return
	}

	token, err := h.sessions.IssueToken(string(role))
	if err != nil {
		c.Error(err)
		return
	}

	h.metrics.PasskeyVerifications.WithLabelValues("role", "granted").Inc()
	c.JSON(http.StatusOK, gin.H{"status": "success", "data": model.SessionResponse{Valid: true, Token: token}})
}

// VerifyPatientPasskey checks a patient passkey. Unknown identification
// numbers and wrong secrets both come back valid=false.
func (h *Handler) VerifyPatientPasskey(c *gin.Context) {
	var req model.VerifyPasskeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}

	valid, err := h.passkeys.VerifyPasskey(c.Request.Context(), req.IdentificationNumber, req.Passkey)
	if err != nil {
		c.Error(err)
		return
	}

	outcome := "denied"
	if valid {
		outcome = "granted"
	}
	h.metrics.PasskeyVerifications.WithLabelValues("patient", outcome).Inc()

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": gin.H{"valid": valid}})
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/validate-passkey", h.ValidatePasskey)
		authGroup.POST("/verify-patient-passkey", h.VerifyPatientPasskey)
	}
}
