package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/presensi-guru-api/internal/models"
	appErrors "github.com/noah-isme/presensi-guru-api/pkg/errors"
)

type mengajarJadwalRepository interface {
	List(ctx context.Context, filter models.JadwalFilter) ([]models.Jadwal, error)
	GetByID(ctx context.Context, id string) (*models.Jadwal, error)
}

type mengajarRepository interface {
	InsertOnce(ctx context.Context, record *models.AbsensiMengajar) (*models.AbsensiMengajar, bool, error)
	UpdateUnlocked(ctx context.Context, record *models.AbsensiMengajar) (*models.AbsensiMengajar, bool, error)
	GetByJadwalTanggal(ctx context.Context, jadwalID string, tanggal time.Time) (*models.AbsensiMengajar, error)
	UpsertSiswa(ctx context.Context, record *models.AbsensiSiswa) error
	DeleteSiswa(ctx context.Context, siswaID string, tanggal time.Time) error
}

// MengajarService coordinates teaching attendance workflows.
type MengajarService struct {
	jadwalRepo mengajarJadwalRepository
	repo       mengajarRepository
	clock      Clock
	metrics    *MetricsService
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewMengajarService constructs the teaching attendance service.
func NewMengajarService(jadwalRepo mengajarJadwalRepository, repo mengajarRepository, clock Clock, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *MengajarService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &MengajarService{jadwalRepo: jadwalRepo, repo: repo, clock: clock, metrics: metrics, validator: validate, logger: logger}
	svc.validator.RegisterValidation("attendance_status", func(fl validator.FieldLevel) bool {
		_, ok := models.NormalizeStatus(fl.Field().String())
		return ok
	})
	return svc
}

// JadwalItem is a weekly slot enriched with its derived state for a date.
type JadwalItem struct {
	Jadwal  models.Jadwal           `json:"jadwal"`
	Tanggal string                  `json:"tanggal"`
	Status  models.PresenceStatus   `json:"status"`
	Absensi *models.AbsensiMengajar `json:"absensi,omitempty"`
}

// SiswaStatusItem is one student's status in a class submission.
type SiswaStatusItem struct {
	SiswaID    string `json:"siswa_id" validate:"required"`
	Nama       string `json:"nama"`
	Status     string `json:"status" validate:"required,attendance_status"`
	Keterangan string `json:"keterangan"`
}

// SubmitMengajarRequest is the payload for filing a teaching attendance.
type SubmitMengajarRequest struct {
	JadwalID       string            `json:"jadwal_id" validate:"required"`
	GuruStatus     string            `json:"guru_status" validate:"omitempty,attendance_status"`
	GuruKeterangan string            `json:"guru_keterangan"`
	Materi         string            `json:"materi"`
	Catatan        string            `json:"catatan"`
	Siswa          []SiswaStatusItem `json:"siswa" validate:"dive"`
}

// TodaySchedule returns the guru's slots for today with derived status.
func (s *MengajarService) TodaySchedule(ctx context.Context, guruID string) ([]JadwalItem, error) {
	now := s.clock.Now()
	return s.scheduleForDate(ctx, guruID, now, now)
}

// WeekSchedule returns the guru's slots for the next `days` days, today first.
func (s *MengajarService) WeekSchedule(ctx context.Context, guruID string, days int) ([]JadwalItem, error) {
	if days <= 0 {
		days = 7
	}
	now := s.clock.Now()
	items := make([]JadwalItem, 0)
	for offset := 0; offset < days; offset++ {
		date := now.AddDate(0, 0, offset)
		dayItems, err := s.scheduleForDate(ctx, guruID, now, date)
		if err != nil {
			return nil, err
		}
		items = append(items, dayItems...)
	}
	return items, nil
}

func (s *MengajarService) scheduleForDate(ctx context.Context, guruID string, now, date time.Time) ([]JadwalItem, error) {
	slots, err := s.jadwalRepo.List(ctx, models.JadwalFilter{
		GuruID:     guruID,
		Hari:       models.HariName(date.Weekday()),
		ActiveOnly: true,
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load jadwal")
	}

	items := make([]JadwalItem, 0, len(slots))
	day := truncateToDay(date)
	for _, slot := range slots {
		record, err := s.repo.GetByJadwalTanggal(ctx, slot.ID, day)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load absensi")
		}

		status := s.deriveSlotStatus(now, date, slot, record != nil)
		items = append(items, JadwalItem{
			Jadwal:  slot,
			Tanggal: day.Format("2006-01-02"),
			Status:  status,
			Absensi: record,
		})
	}
	return items, nil
}

func (s *MengajarService) deriveSlotStatus(now, date time.Time, slot models.Jadwal, hasRecord bool) models.PresenceStatus {
	if hasRecord {
		return models.PresenceSudahAbsen
	}
	start, end, err := ParseJamWindow(date, slot.JamMulai, slot.JamSelesai, s.clock.Location())
	if err != nil {
		s.logger.Warn("jadwal has malformed time window",
			zap.String("jadwal_id", slot.ID), zap.Error(err))
		return models.PresenceBelumMulai
	}
	return DeriveStatusForDate(now, date, start, end, false)
}

// Submit files today's teaching attendance for the slot. At most one record
// exists per (jadwal, tanggal); re-filing a locked record is a conflict the
// client resolves by showing the existing data.
func (s *MengajarService) Submit(ctx context.Context, guruID string, req SubmitMengajarRequest) (*models.AbsensiMengajar, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid submission payload")
	}

	jadwal, err := s.jadwalRepo.GetByID(ctx, req.JadwalID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "jadwal not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load jadwal")
	}
	if jadwal.GuruID != guruID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "jadwal belongs to another guru")
	}
	if jadwal.Status != models.JadwalStatusAktif {
		return nil, appErrors.Clone(appErrors.ErrValidation, "jadwal is not active")
	}

	now := s.clock.Now()
	today := truncateToDay(now)
	if jadwal.Hari != models.HariName(now.Weekday()) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "jadwal is not scheduled for today")
	}

	guruStatus := models.AttendanceStatusHadir
	if req.GuruStatus != "" {
		guruStatus, _ = models.NormalizeStatus(req.GuruStatus)
	}

	counts, err := s.saveSiswa(ctx, jadwal.Kelas, today, req.Siswa)
	if err != nil {
		return nil, err
	}

	record := &models.AbsensiMengajar{
		JadwalID:      jadwal.ID,
		GuruID:        guruID,
		Tanggal:       today,
		GuruStatus:    guruStatus,
		SnapshotKelas: jadwal.Kelas,
		SnapshotMapel: jadwal.Mapel,
		SnapshotJam:   jadwal.JamMulai + " - " + jadwal.JamSelesai,
		SnapshotHari:  jadwal.Hari,
		SiswaHadir:    counts.Hadir,
		SiswaSakit:    counts.Sakit,
		SiswaIzin:     counts.Izin,
		SiswaAlpha:    counts.Alpha,
		AbsensiTime:   now,
	}
	// Keterangan only travels with an absence status.
	if guruStatus != models.AttendanceStatusHadir && strings.TrimSpace(req.GuruKeterangan) != "" {
		keterangan := strings.TrimSpace(req.GuruKeterangan)
		record.GuruKeterangan = &keterangan
	}
	if strings.TrimSpace(req.Materi) != "" {
		materi := strings.TrimSpace(req.Materi)
		record.Materi = &materi
	}
	if strings.TrimSpace(req.Catatan) != "" {
		catatan := strings.TrimSpace(req.Catatan)
		record.Catatan = &catatan
	}

	stored, inserted, err := s.repo.InsertOnce(ctx, record)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store absensi")
	}
	if !inserted {
		stored, inserted, err = s.repo.UpdateUnlocked(ctx, record)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store absensi")
		}
		if !inserted {
			s.metrics.ObserveSubmission("mengajar", "conflict")
			return nil, appErrors.Clone(appErrors.ErrAlreadySubmitted, "absensi untuk jadwal ini sudah dilakukan")
		}
	}

	s.metrics.ObserveSubmission("mengajar", "accepted")
	s.logger.Info("teaching attendance filed",
		zap.String("jadwal_id", jadwal.ID),
		zap.String("guru_id", guruID),
		zap.String("tanggal", today.Format("2006-01-02")))
	return stored, nil
}

// Detail returns the filed record for a slot and date.
func (s *MengajarService) Detail(ctx context.Context, guruID, jadwalID string, tanggal time.Time) (*models.AbsensiMengajar, error) {
	jadwal, err := s.jadwalRepo.GetByID(ctx, jadwalID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "jadwal not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load jadwal")
	}
	if jadwal.GuruID != guruID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "jadwal belongs to another guru")
	}

	record, err := s.repo.GetByJadwalTanggal(ctx, jadwalID, truncateToDay(tanggal))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "absensi not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load absensi")
	}
	return record, nil
}

func (s *MengajarService) saveSiswa(ctx context.Context, kelas string, tanggal time.Time, items []SiswaStatusItem) (models.SiswaCounts, error) {
	counts := models.SiswaCounts{}
	for _, item := range items {
		status, ok := models.NormalizeStatus(item.Status)
		if !ok {
			return counts, appErrors.Clone(appErrors.ErrValidation, "invalid siswa status")
		}
		switch status {
		case models.AttendanceStatusHadir:
			// Hadir rows are implicit: remove any stored override.
			if err := s.repo.DeleteSiswa(ctx, item.SiswaID, tanggal); err != nil {
				return counts, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to clear siswa record")
			}
			counts.Hadir++
		default:
			record := &models.AbsensiSiswa{
				SiswaID: item.SiswaID,
				Nama:    item.Nama,
				Kelas:   kelas,
				Tanggal: tanggal,
				Status:  status,
			}
			if strings.TrimSpace(item.Keterangan) != "" {
				keterangan := strings.TrimSpace(item.Keterangan)
				record.Keterangan = &keterangan
			}
			if err := s.repo.UpsertSiswa(ctx, record); err != nil {
				return counts, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store siswa record")
			}
			switch status {
			case models.AttendanceStatusSakit:
				counts.Sakit++
			case models.AttendanceStatusIzin:
				counts.Izin++
			case models.AttendanceStatusAlpha:
				counts.Alpha++
			}
		}
	}
	return counts, nil
}
