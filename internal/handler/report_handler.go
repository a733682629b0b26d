package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/bukhari-academy/academy-api/internal/dto"
	"github.com/bukhari-academy/academy-api/internal/middleware"
	"github.com/bukhari-academy/academy-api/internal/service"
	appErrors "github.com/bukhari-academy/academy-api/pkg/errors"
	"github.com/bukhari-academy/academy-api/pkg/response"
)

// ReportHandler wires HTTP endpoints to the monthly report service.
type ReportHandler struct {
	service *service.ReportService
}

// NewReportHandler creates a new handler.
func NewReportHandler(svc *service.ReportService) *ReportHandler {
	return &ReportHandler{service: svc}
}

// bindPeriod merges the month/year query parameters into the request.
// Query values win over the body, matching the querystring contract.
func bindPeriod(c *gin.Context, req *dto.SendReportRequest) error {
	if raw := c.Query("month"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 || v > 12 {
			return appErrors.Clone(appErrors.ErrOutOfRange, "month must be between 1 and 12")
		}
		req.Month = &v
	}
	if raw := c.Query("year"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return appErrors.Clone(appErrors.ErrOutOfRange, "year must be a number")
		}
		req.Year = &v
	}
	return nil
}

// SendOne godoc
// @Summary Email one student's monthly report
// @Tags Reports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param studentId path string true "Student ID"
// @Param month query int false "Month 1..12"
// @Param year query int false "Year"
// @Param payload body dto.SendReportRequest false "Period"
// @Success 200 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /email/send-monthly-report/{studentId} [post]
func (h *ReportHandler) SendOne(c *gin.Context) {
	claims, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.SendReportRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrMissingInput.Code, http.StatusBadRequest, "invalid report payload"))
			return
		}
	}
	if err := bindPeriod(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	report, err := h.service.SendOne(c.Request.Context(), claims, c.Param("studentId"), req)
	if err != nil {
		// Mail not configured still carries the assembled report as a preview.
		var appErr *appErrors.Error
		if errors.As(err, &appErr) && appErr.Code == appErrors.ErrMailNotConfigured.Code && report != nil {
			response.ErrorWithMeta(c, err, map[string]interface{}{"preview": report})
			return
		}
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report)
}

// SendAll godoc
// @Summary Email monthly reports to every student
// @Tags Reports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param month query int false "Month 1..12"
// @Param year query int false "Year"
// @Param payload body dto.SendReportRequest false "Period"
// @Success 200 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /email/send-monthly-reports [post]
func (h *ReportHandler) SendAll(c *gin.Context) {
	claims, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.SendReportRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrMissingInput.Code, http.StatusBadRequest, "invalid report payload"))
			return
		}
	}
	if err := bindPeriod(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.service.SendAll(c.Request.Context(), claims, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}
