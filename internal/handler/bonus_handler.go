package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bukhari-academy/academy-api/internal/dto"
	"github.com/bukhari-academy/academy-api/internal/middleware"
	"github.com/bukhari-academy/academy-api/internal/service"
	appErrors "github.com/bukhari-academy/academy-api/pkg/errors"
	"github.com/bukhari-academy/academy-api/pkg/response"
)

// BonusHandler wires HTTP endpoints to the bonus service.
type BonusHandler struct {
	service *service.BonusService
}

// NewBonusHandler creates a new handler.
func NewBonusHandler(svc *service.BonusService) *BonusHandler {
	return &BonusHandler{service: svc}
}

// Summary godoc
// @Summary List a student's bonuses with total
// @Tags Bonuses
// @Produce json
// @Security BearerAuth
// @Param studentId path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /students/{studentId}/bonuses [get]
func (h *BonusHandler) Summary(c *gin.Context) {
	claims, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	summary, err := h.service.Summary(c.Request.Context(), claims, c.Param("studentId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary)
}

// Add godoc
// @Summary Award bonus points
// @Tags Bonuses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param studentId path string true "Student ID"
// @Param payload body dto.AddBonusRequest true "Bonus payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /students/{studentId}/bonuses [post]
func (h *BonusHandler) Add(c *gin.Context) {
	claims, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.AddBonusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrMissingInput.Code, http.StatusBadRequest, "invalid bonus payload"))
		return
	}

	bonus, err := h.service.Add(c.Request.Context(), claims, c.Param("studentId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, bonus)
}
