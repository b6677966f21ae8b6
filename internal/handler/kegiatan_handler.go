package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/presensi-guru-api/internal/service"
	appErrors "github.com/noah-isme/presensi-guru-api/pkg/errors"
	"github.com/noah-isme/presensi-guru-api/pkg/response"
)

// KegiatanHandler wires HTTP endpoints to the activity attendance service.
type KegiatanHandler struct {
	service *service.KegiatanService
}

// NewKegiatanHandler creates a new handler.
func NewKegiatanHandler(svc *service.KegiatanService) *KegiatanHandler {
	return &KegiatanHandler{service: svc}
}

// List godoc
// @Summary Guru's activities
// @Description List activities where the guru is PJ or pendamping, with per-role status
// @Tags Kegiatan
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /guru/kegiatan [get]
func (h *KegiatanHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	items, err := h.service.List(c.Request.Context(), claims.GuruID, 0)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// Submit godoc
// @Summary Submit activity attendance
// @Description The penanggung jawab files the authoritative activity record
// @Tags Kegiatan
// @Accept json
// @Produce json
// @Param id path string true "Kegiatan id"
// @Param payload body service.SubmitKegiatanRequest true "Submission payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /guru/kegiatan/{id}/absensi [post]
func (h *KegiatanHandler) Submit(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.SubmitKegiatanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid submission payload"))
		return
	}

	record, err := h.service.SubmitPJ(c.Request.Context(), claims.GuruID, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, record)
}

// SelfReport godoc
// @Summary Pendamping self report
// @Description A companion reports their own attendance on the activity
// @Tags Kegiatan
// @Accept json
// @Produce json
// @Param id path string true "Kegiatan id"
// @Param payload body service.SelfReportRequest true "Self report payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /guru/kegiatan/{id}/absensi-pendamping [post]
func (h *KegiatanHandler) SelfReport(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.SelfReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid self report payload"))
		return
	}

	record, err := h.service.SelfReportPendamping(c.Request.Context(), claims.GuruID, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record, nil)
}

// AdminUpdate godoc
// @Summary Admin edit activity attendance
// @Description Correct an activity record; the result is forced to submitted
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "Kegiatan id"
// @Param payload body service.SubmitKegiatanRequest true "Update payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/kegiatan/{id}/absensi [put]
func (h *KegiatanHandler) AdminUpdate(c *gin.Context) {
	var req service.SubmitKegiatanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid update payload"))
		return
	}

	record, err := h.service.AdminUpdate(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record, nil)
}
