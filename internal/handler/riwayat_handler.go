package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/presensi-guru-api/internal/service"
	appErrors "github.com/noah-isme/presensi-guru-api/pkg/errors"
	"github.com/noah-isme/presensi-guru-api/pkg/response"
)

// RiwayatHandler wires HTTP endpoints to the history service.
type RiwayatHandler struct {
	service *service.RiwayatService
}

// NewRiwayatHandler creates a new handler.
func NewRiwayatHandler(svc *service.RiwayatService) *RiwayatHandler {
	return &RiwayatHandler{service: svc}
}

func historyRange(c *gin.Context) (time.Time, time.Time, error) {
	var from, to time.Time
	if raw := c.Query("dari"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return from, to, appErrors.Clone(appErrors.ErrValidation, "dari must be YYYY-MM-DD")
		}
		from = parsed
	}
	if raw := c.Query("sampai"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return from, to, appErrors.Clone(appErrors.ErrValidation, "sampai must be YYYY-MM-DD")
		}
		to = parsed
	}
	return from, to, nil
}

// Mengajar godoc
// @Summary Teaching history
// @Description Reconstructed teaching history; unfiled past obligations show as Alpha
// @Tags Riwayat
// @Produce json
// @Param dari query string false "Start date (YYYY-MM-DD)"
// @Param sampai query string false "End date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /guru/riwayat/mengajar [get]
func (h *RiwayatHandler) Mengajar(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	from, to, err := historyRange(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	items, err := h.service.Mengajar(c.Request.Context(), claims.GuruID, from, to)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// Kegiatan godoc
// @Summary Activity history
// @Description Concluded activity obligations with the guru's resolved status
// @Tags Riwayat
// @Produce json
// @Param dari query string false "Start date (YYYY-MM-DD)"
// @Param sampai query string false "End date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /guru/riwayat/kegiatan [get]
func (h *RiwayatHandler) Kegiatan(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	from, to, err := historyRange(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	items, err := h.service.Kegiatan(c.Request.Context(), claims.GuruID, from, to)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// Rapat godoc
// @Summary Meeting history
// @Description Concluded meeting obligations with the guru's resolved status
// @Tags Riwayat
// @Produce json
// @Param dari query string false "Start date (YYYY-MM-DD)"
// @Param sampai query string false "End date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /guru/riwayat/rapat [get]
func (h *RiwayatHandler) Rapat(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	from, to, err := historyRange(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	items, err := h.service.Rapat(c.Request.Context(), claims.GuruID, from, to)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}
