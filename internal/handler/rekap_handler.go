package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/presensi-guru-api/internal/service"
	appErrors "github.com/noah-isme/presensi-guru-api/pkg/errors"
	"github.com/noah-isme/presensi-guru-api/pkg/response"
)

// RekapHandler wires the monthly recap service to admin HTTP endpoints.
type RekapHandler struct {
	service *service.RecapService
}

// NewRekapHandler creates a new handler.
func NewRekapHandler(svc *service.RecapService) *RekapHandler {
	return &RekapHandler{service: svc}
}

func monthParams(c *gin.Context) (int, int, error) {
	now := time.Now()
	bulan := int(now.Month())
	tahun := now.Year()
	if raw := c.Query("bulan"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 12 {
			return 0, 0, appErrors.Clone(appErrors.ErrValidation, "bulan must be 1-12")
		}
		bulan = parsed
	}
	if raw := c.Query("tahun"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 2000 || parsed > 2100 {
			return 0, 0, appErrors.Clone(appErrors.ErrValidation, "tahun is invalid")
		}
		tahun = parsed
	}
	return bulan, tahun, nil
}

// Guru godoc
// @Summary Monthly teacher roll-up
// @Description Institution-wide monthly attendance grid; format=csv|pdf streams a file
// @Tags Admin
// @Produce json
// @Param bulan query int false "Month (1-12), defaults to current"
// @Param tahun query int false "Year, defaults to current"
// @Param format query string false "csv or pdf"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /admin/rekap/guru [get]
func (h *RekapHandler) Guru(c *gin.Context) {
	bulan, tahun, err := monthParams(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	switch c.Query("format") {
	case "csv":
		payload, err := h.service.GuruMonthlyCSV(c.Request.Context(), bulan, tahun)
		if err != nil {
			response.Error(c, err)
			return
		}
		filename := fmt.Sprintf("rekap-guru-%04d-%02d.csv", tahun, bulan)
		c.Header("Content-Disposition", "attachment; filename="+filename)
		c.Data(http.StatusOK, "text/csv", payload)
	case "pdf":
		payload, err := h.service.GuruMonthlyPDF(c.Request.Context(), bulan, tahun)
		if err != nil {
			response.Error(c, err)
			return
		}
		filename := fmt.Sprintf("rekap-guru-%04d-%02d.pdf", tahun, bulan)
		c.Header("Content-Disposition", "attachment; filename="+filename)
		c.Data(http.StatusOK, "application/pdf", payload)
	case "":
		recap, err := h.service.GuruMonthly(c.Request.Context(), bulan, tahun)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, recap, nil)
	default:
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf"))
	}
}

// Kelas godoc
// @Summary Monthly class grid
// @Description Per-student monthly attendance grid for one class
// @Tags Admin
// @Produce json
// @Param kelas path string true "Class name"
// @Param bulan query int false "Month (1-12), defaults to current"
// @Param tahun query int false "Year, defaults to current"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /admin/rekap/kelas/{kelas} [get]
func (h *RekapHandler) Kelas(c *gin.Context) {
	bulan, tahun, err := monthParams(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	recap, err := h.service.KelasMonthly(c.Request.Context(), c.Param("kelas"), bulan, tahun)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, recap, nil)
}
