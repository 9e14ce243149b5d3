package doctor

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wexxqt/ecatsulta-api/internal/service/doctor"
)

type Handler struct {
	service *doctor.Service
}

func NewHandler(service *doctor.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) ListDoctors(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "success", "data": h.service.List()})
}

func (h *Handler) GetSlots(c *gin.Context) {
	date, err := time.Parse("2006-01-02", c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid date format"})
		return
	}

	slots, err := h.service.AvailableSlots(c.Request.Context(), c.Param("id"), date)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": slots})
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	doctors := r.Group("/doctors")
	{
		doctors.GET("", h.ListDoctors)
		doctors.GET("/:id/slots", h.GetSlots)
	}
}
