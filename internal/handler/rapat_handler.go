package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/presensi-guru-api/internal/service"
	appErrors "github.com/noah-isme/presensi-guru-api/pkg/errors"
	"github.com/noah-isme/presensi-guru-api/pkg/response"
)

// RapatHandler wires HTTP endpoints to the meeting attendance service.
type RapatHandler struct {
	service *service.RapatService
}

// NewRapatHandler creates a new handler.
func NewRapatHandler(svc *service.RapatService) *RapatHandler {
	return &RapatHandler{service: svc}
}

// List godoc
// @Summary Guru's meetings
// @Description List meetings where the guru is pimpinan, sekretaris, or peserta
// @Tags Rapat
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /guru/rapat [get]
func (h *RapatHandler) List(c *gin.Context) {
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

// SelfReportPimpinan godoc
// @Summary Pimpinan self report
// @Description The meeting leader reports their own attendance
// @Tags Rapat
// @Accept json
// @Produce json
// @Param id path string true "Rapat id"
// @Param payload body service.SelfReportRequest true "Self report payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /guru/rapat/{id}/absensi-pimpinan [post]
func (h *RapatHandler) SelfReportPimpinan(c *gin.Context) {
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

	record, err := h.service.SelfReportPimpinan(c.Request.Context(), claims.GuruID, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record, nil)
}

// SelfReportPeserta godoc
// @Summary Peserta self report
// @Description A participant reports their own attendance
// @Tags Rapat
// @Accept json
// @Produce json
// @Param id path string true "Rapat id"
// @Param payload body service.SelfReportRequest true "Self report payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /guru/rapat/{id}/absensi-peserta [post]
func (h *RapatHandler) SelfReportPeserta(c *gin.Context) {
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

	record, err := h.service.SelfReportPeserta(c.Request.Context(), claims.GuruID, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record, nil)
}

// SubmitSekretaris godoc
// @Summary Submit meeting attendance
// @Description The sekretaris files the authoritative meeting record with notulensi
// @Tags Rapat
// @Accept json
// @Produce json
// @Param id path string true "Rapat id"
// @Param payload body service.SubmitRapatRequest true "Submission payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /guru/rapat/{id}/absensi-sekretaris [post]
func (h *RapatHandler) SubmitSekretaris(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.SubmitRapatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid submission payload"))
		return
	}

	record, err := h.service.SubmitSekretaris(c.Request.Context(), claims.GuruID, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, record)
}

// PesertaStatus godoc
// @Summary Participant attendance check
// @Description Reports whether the guru already counts as attended for the meeting
// @Tags Rapat
// @Produce json
// @Param id path string true "Rapat id"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /guru/rapat/{id}/status-peserta [get]
func (h *RapatHandler) PesertaStatus(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	status, err := h.service.PesertaStatus(c.Request.Context(), claims.GuruID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, status, nil)
}
