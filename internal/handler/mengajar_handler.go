package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/presensi-guru-api/internal/service"
	appErrors "github.com/noah-isme/presensi-guru-api/pkg/errors"
	"github.com/noah-isme/presensi-guru-api/pkg/response"
)

// MengajarHandler wires HTTP endpoints to the teaching attendance service.
type MengajarHandler struct {
	service *service.MengajarService
}

// NewMengajarHandler creates a new handler.
func NewMengajarHandler(svc *service.MengajarService) *MengajarHandler {
	return &MengajarHandler{service: svc}
}

// Today godoc
// @Summary Today's teaching slots
// @Description List the guru's slots for today with derived status
// @Tags Mengajar
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /guru/jadwal/hari-ini [get]
func (h *MengajarHandler) Today(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	items, err := h.service.TodaySchedule(c.Request.Context(), claims.GuruID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// Week godoc
// @Summary This week's teaching slots
// @Description List the guru's slots for the next seven days
// @Tags Mengajar
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /guru/jadwal/minggu [get]
func (h *MengajarHandler) Week(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	items, err := h.service.WeekSchedule(c.Request.Context(), claims.GuruID, 7)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// Submit godoc
// @Summary File teaching attendance
// @Description File today's attendance for a slot, at most once per slot and date
// @Tags Mengajar
// @Accept json
// @Produce json
// @Param payload body service.SubmitMengajarRequest true "Submission payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /guru/mengajar [post]
func (h *MengajarHandler) Submit(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.SubmitMengajarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid submission payload"))
		return
	}

	record, err := h.service.Submit(c.Request.Context(), claims.GuruID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, record)
}

// Detail godoc
// @Summary Teaching attendance detail
// @Description Fetch the filed record for a slot and date (default today)
// @Tags Mengajar
// @Produce json
// @Param jadwalID path string true "Jadwal id"
// @Param tanggal query string false "Date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /guru/mengajar/{jadwalID} [get]
func (h *MengajarHandler) Detail(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	tanggal := time.Now()
	if raw := c.Query("tanggal"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "tanggal must be YYYY-MM-DD"))
			return
		}
		tanggal = parsed
	}

	record, err := h.service.Detail(c.Request.Context(), claims.GuruID, c.Param("jadwalID"), tanggal)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record, nil)
}
