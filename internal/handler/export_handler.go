package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bukhari-academy/academy-api/internal/service"
	appErrors "github.com/bukhari-academy/academy-api/pkg/errors"
	"github.com/bukhari-academy/academy-api/pkg/response"
)

// ExportHandler serves admin downloads.
type ExportHandler struct {
	service *service.ExportService
}

// NewExportHandler creates a new handler.
func NewExportHandler(svc *service.ExportService) *ExportHandler {
	return &ExportHandler{service: svc}
}

// RosterCSV godoc
// @Summary Download the student roster as CSV
// @Tags Admin
// @Produce text/csv
// @Security BearerAuth
// @Success 200 {file} file
// @Router /admin/students/export.csv [get]
func (h *ExportHandler) RosterCSV(c *gin.Context) {
	payload, err := h.service.RosterCSV(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="students.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", payload)
}

// MonthlyPDF godoc
// @Summary Download one student's monthly report as PDF
// @Tags Admin
// @Produce application/pdf
// @Security BearerAuth
// @Param studentId path string true "Student ID"
// @Param month query int false "Month 1..12"
// @Param year query int false "Year"
// @Success 200 {file} file
// @Failure 404 {object} response.Envelope
// @Router /admin/reports/monthly/{studentId} [get]
func (h *ExportHandler) MonthlyPDF(c *gin.Context) {
	now := time.Now().UTC()
	month := int(now.Month())
	year := now.Year()
	if raw := c.Query("month"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 || v > 12 {
			response.Error(c, appErrors.Clone(appErrors.ErrOutOfRange, "month must be between 1 and 12"))
			return
		}
		month = v
	}
	if raw := c.Query("year"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrOutOfRange, "year must be a number"))
			return
		}
		year = v
	}

	payload, err := h.service.MonthlyPDF(c.Request.Context(), c.Param("studentId"), month, year)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="report-%d-%d.pdf"`, year, month))
	c.Data(http.StatusOK, "application/pdf", payload)
}
