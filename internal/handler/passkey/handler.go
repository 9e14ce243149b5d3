package passkey

import (
	"encoding/csv"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/wexxqt/ecatsulta-api/internal/model"
	"github.com/wexxqt/ecatsulta-api/internal/service/passkey"
)

type Handler struct {
	service *passkey.Service
}

func NewHandler(service *passkey.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) SetPasskey(c *gin.Context) {
	var req model.SetPasskeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}

	record, err := h.service.SetPasskey(c.Request.Context(), req.IdentificationNumber, req.Passkey)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": "success", "data": record})
}

// ListPasskeys returns every record. Hashes are excluded by the model's
// serialization, never by post-processing here.
func (h *Handler) ListPasskeys(c *gin.Context) {
	records, err := h.service.ListPasskeys(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": records})
}

func (h *Handler) DeletePasskey(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid passkey ID"})
		return
	}

	if err := h.service.DeletePasskey(c.Request.Context(), id); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// ImportPasskeys accepts a CSV upload with idNumber and passkey columns.
// The file is rejected before any row is processed when it is not a CSV
// or the required headers are missing.
func (h *Handler) ImportPasskeys(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "file upload is required"})
		return
	}

	if !strings.EqualFold(filepath.Ext(fileHeader.Filename), ".csv") {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "only CSV uploads are accepted"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "failed to open upload"})
		return
	}
	defer file.Close()

	rows, err := parseImportCSV(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}

	result := h.service.ImportPasskeys(c.Request.Context(), rows)
	c.JSON(http.StatusOK, gin.H{"status": "success", "data": result})
}

var errMissingHeaders = errors.New("CSV must have idNumber and passkey header columns")

// parseImportCSV reads the header row, locates the required columns
// case-insensitively, and collects the rows. Extra columns are ignored;
// short rows produce an empty passkey and fail per-row validation later.
func parseImportCSV(r io.Reader) ([]model.PasskeyImportRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, errors.New("CSV is empty or unreadable")
	}

	// Excel exports prefix the first cell with a UTF-8 BOM.
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	idCol, passkeyCol := -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "idnumber":
			idCol = i
		case "passkey":
			passkeyCol = i
		}
	}
	if idCol < 0 || passkeyCol < 0 {
		return nil, errMissingHeaders
	}

	var rows []model.PasskeyImportRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.New("CSV is malformed")
		}

		row := model.PasskeyImportRow{}
		if idCol < len(record) {
			row.IdentificationNumber = strings.TrimSpace(record[idCol])
		}
		if passkeyCol < len(record) {
			row.Passkey = strings.TrimSpace(record[passkeyCol])
		}
		rows = append(rows, row)
	}

	return rows, nil
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	passkeys := r.Group("/passkeys")
	{
		passkeys.POST("", h.SetPasskey)
		passkeys.GET("", h.ListPasskeys)
		passkeys.DELETE("/:id", h.DeletePasskey)
		passkeys.POST("/import", h.ImportPasskeys)
	}
}
