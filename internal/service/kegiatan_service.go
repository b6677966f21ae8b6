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

type kegiatanRepository interface {
	GetByID(ctx context.Context, id string) (*models.Kegiatan, error)
	ListForGuru(ctx context.Context, guruID string, from, to time.Time) ([]models.Kegiatan, error)
	GetAbsensi(ctx context.Context, kegiatanID string) (*models.AbsensiKegiatan, error)
	Upsert(ctx context.Context, record *models.AbsensiKegiatan) (*models.AbsensiKegiatan, error)
	UpsertSubmit(ctx context.Context, record *models.AbsensiKegiatan) (*models.AbsensiKegiatan, bool, error)
}

// KegiatanService coordinates activity attendance workflows.
type KegiatanService struct {
	repo      kegiatanRepository
	clock     Clock
	metrics   *MetricsService
	minPhotos int
	maxPhotos int
	validator *validator.Validate
	logger    *zap.Logger
}

// NewKegiatanService constructs the activity attendance service.
func NewKegiatanService(repo kegiatanRepository, clock Clock, metrics *MetricsService, minPhotos, maxPhotos int, validate *validator.Validate, logger *zap.Logger) *KegiatanService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if minPhotos <= 0 {
		minPhotos = 2
	}
	if maxPhotos < minPhotos {
		maxPhotos = minPhotos + 2
	}
	svc := &KegiatanService{repo: repo, clock: clock, metrics: metrics, minPhotos: minPhotos, maxPhotos: maxPhotos, validator: validate, logger: logger}
	svc.validator.RegisterValidation("attendance_status", func(fl validator.FieldLevel) bool {
		_, ok := models.NormalizeStatus(fl.Field().String())
		return ok
	})
	return svc
}

// KegiatanItem is an activity enriched with the viewer's role and derived state.
type KegiatanItem struct {
	Kegiatan models.Kegiatan         `json:"kegiatan"`
	Role     models.KegiatanRole     `json:"role"`
	Status   models.PresenceStatus   `json:"status"`
	Absensi  *models.AbsensiKegiatan `json:"absensi,omitempty"`
}

// PartyStatusItem is one companion's status in a PJ submission.
type PartyStatusItem struct {
	GuruID     string `json:"guru_id" validate:"required"`
	Status     string `json:"status" validate:"required,attendance_status"`
	Keterangan string `json:"keterangan"`
}

// SubmitKegiatanRequest is the PJ's authoritative submission payload.
type SubmitKegiatanRequest struct {
	PJStatus     string            `json:"pj_status" validate:"required,attendance_status"`
	PJKeterangan string            `json:"pj_keterangan"`
	Pendamping   []PartyStatusItem `json:"pendamping" validate:"dive"`
	Siswa        []SiswaStatusItem `json:"siswa" validate:"dive"`
	Catatan      string            `json:"catatan"`
	Foto         []string          `json:"foto" validate:"required"`
}

// SelfReportRequest is a companion's or participant's own attendance report.
type SelfReportRequest struct {
	Status     string `json:"status" validate:"required,attendance_status"`
	Keterangan string `json:"keterangan"`
}

// RoleFor resolves how the guru is obligated to the activity.
func RoleFor(kegiatan *models.Kegiatan, guruID string) (models.KegiatanRole, bool) {
	if kegiatan.PenanggungJawabID == guruID {
		return models.KegiatanRolePJ, true
	}
	if kegiatan.PendampingIDs.Contains(guruID) {
		return models.KegiatanRolePendamping, true
	}
	return "", false
}

// List returns the guru's activities in a window around today with per-role
// derived status. The same record can yield different statuses for PJ and
// companions: a companion's draft self-report never marks the PJ as done.
func (s *KegiatanService) List(ctx context.Context, guruID string, windowDays int) ([]KegiatanItem, error) {
	if windowDays <= 0 {
		windowDays = 7
	}
	now := s.clock.Now()
	from := truncateToDay(now.AddDate(0, 0, -windowDays))
	to := truncateToDay(now.AddDate(0, 0, windowDays)).Add(24*time.Hour - time.Second)

	activities, err := s.repo.ListForGuru(ctx, guruID, from, to)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load kegiatan")
	}

	items := make([]KegiatanItem, 0, len(activities))
	for _, kegiatan := range activities {
		role, obligated := RoleFor(&kegiatan, guruID)
		if !obligated {
			continue
		}
		record, err := s.loadAbsensi(ctx, kegiatan.ID)
		if err != nil {
			return nil, err
		}
		authoritative := KegiatanAuthority(record, role, guruID)
		items = append(items, KegiatanItem{
			Kegiatan: kegiatan,
			Role:     role,
			Status:   DeriveStatus(now, kegiatan.WaktuMulai, kegiatan.WaktuBerakhir, authoritative),
			Absensi:  record,
		})
	}
	return items, nil
}

// SubmitPJ files the responsible party's authoritative record. Companion
// self-reports already in the draft survive the merge with their provenance
// intact; entries missing from the submission are dropped.
func (s *KegiatanService) SubmitPJ(ctx context.Context, guruID, kegiatanID string, req SubmitKegiatanRequest) (*models.AbsensiKegiatan, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid submission payload")
	}
	if len(req.Foto) < s.minPhotos || len(req.Foto) > s.maxPhotos {
		return nil, appErrors.Clone(appErrors.ErrValidation, "photo count out of range")
	}

	kegiatan, err := s.loadKegiatan(ctx, kegiatanID)
	if err != nil {
		return nil, err
	}
	if role, _ := RoleFor(kegiatan, guruID); role != models.KegiatanRolePJ {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only the penanggung jawab may submit")
	}

	existing, err := s.loadAbsensi(ctx, kegiatanID)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.Status == models.RecordSubmitted && !existing.IsUnlocked {
		s.metrics.ObserveSubmission("kegiatan", "conflict")
		return nil, appErrors.Clone(appErrors.ErrAlreadySubmitted, "absensi kegiatan ini sudah dilakukan")
	}

	now := s.clock.Now()
	incoming := make([]models.PartyEntry, 0, len(req.Pendamping))
	for _, item := range req.Pendamping {
		status, _ := models.NormalizeStatus(item.Status)
		incoming = append(incoming, models.PartyEntry{
			GuruID:     item.GuruID,
			Status:     status,
			Keterangan: strings.TrimSpace(item.Keterangan),
		})
	}

	var prior []models.PartyEntry
	record := &models.AbsensiKegiatan{
		KegiatanID: kegiatanID,
		Tanggal:    truncateToDay(now),
		Status:     models.RecordSubmitted,
	}
	if existing != nil {
		record.ID = existing.ID
		record.Tanggal = existing.Tanggal
		record.CreatedAt = existing.CreatedAt
		prior = existing.AbsensiPendamping
	}
	record.AbsensiPendamping = MergeParticipants(prior, incoming)

	pjStatus, _ := models.NormalizeStatus(req.PJStatus)
	record.PJStatus = pjStatus
	if strings.TrimSpace(req.PJKeterangan) != "" {
		keterangan := strings.TrimSpace(req.PJKeterangan)
		record.PJKeterangan = &keterangan
	}
	if strings.TrimSpace(req.Catatan) != "" {
		catatan := strings.TrimSpace(req.Catatan)
		record.Catatan = &catatan
	}
	record.Foto = models.StringList(req.Foto)
	record.AbsensiSiswa = buildSiswaEntries(req.Siswa)

	stored, submitted, err := s.repo.UpsertSubmit(ctx, record)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store absensi kegiatan")
	}
	if !submitted {
		s.metrics.ObserveSubmission("kegiatan", "conflict")
		return nil, appErrors.Clone(appErrors.ErrAlreadySubmitted, "absensi kegiatan ini sudah dilakukan")
	}

	s.metrics.ObserveSubmission("kegiatan", "accepted")
	s.logger.Info("activity attendance submitted",
		zap.String("kegiatan_id", kegiatanID), zap.String("guru_id", guruID))
	return stored, nil
}

// SelfReportPendamping records a companion's own attendance against the
// activity's draft, creating the draft when none exists yet.
func (s *KegiatanService) SelfReportPendamping(ctx context.Context, guruID, kegiatanID string, req SelfReportRequest) (*models.AbsensiKegiatan, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid self report payload")
	}

	kegiatan, err := s.loadKegiatan(ctx, kegiatanID)
	if err != nil {
		return nil, err
	}
	if role, _ := RoleFor(kegiatan, guruID); role != models.KegiatanRolePendamping {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "guru is not a pendamping of this kegiatan")
	}

	existing, err := s.loadAbsensi(ctx, kegiatanID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	status, _ := models.NormalizeStatus(req.Status)
	report := models.PartyEntry{
		GuruID:     guruID,
		Status:     status,
		Keterangan: strings.TrimSpace(req.Keterangan),
		AttendedAt: &now,
	}

	record := &models.AbsensiKegiatan{
		KegiatanID: kegiatanID,
		Tanggal:    truncateToDay(now),
		PJStatus:   models.AttendanceStatusAlpha,
		Status:     models.RecordDraft,
	}
	if existing != nil {
		record = existing
	}
	record.AbsensiPendamping = UpsertSelfReport(record.AbsensiPendamping, report)

	stored, err := s.repo.Upsert(ctx, record)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store self report")
	}
	return stored, nil
}

// AdminUpdate lets an admin correct an activity record. The result is always
// submitted, regardless of its previous state.
func (s *KegiatanService) AdminUpdate(ctx context.Context, kegiatanID string, req SubmitKegiatanRequest) (*models.AbsensiKegiatan, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid update payload")
	}

	if _, err := s.loadKegiatan(ctx, kegiatanID); err != nil {
		return nil, err
	}
	existing, err := s.loadAbsensi(ctx, kegiatanID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	record := &models.AbsensiKegiatan{
		KegiatanID: kegiatanID,
		Tanggal:    truncateToDay(now),
	}
	var prior []models.PartyEntry
	if existing != nil {
		record.ID = existing.ID
		record.Tanggal = existing.Tanggal
		record.CreatedAt = existing.CreatedAt
		record.Foto = existing.Foto
		prior = existing.AbsensiPendamping
	}
	if len(req.Foto) > 0 {
		record.Foto = models.StringList(req.Foto)
	}

	incoming := make([]models.PartyEntry, 0, len(req.Pendamping))
	for _, item := range req.Pendamping {
		status, _ := models.NormalizeStatus(item.Status)
		incoming = append(incoming, models.PartyEntry{
			GuruID:     item.GuruID,
			Status:     status,
			Keterangan: strings.TrimSpace(item.Keterangan),
		})
	}
	record.AbsensiPendamping = MergeParticipants(prior, incoming)
	record.AbsensiSiswa = buildSiswaEntries(req.Siswa)

	pjStatus, _ := models.NormalizeStatus(req.PJStatus)
	record.PJStatus = pjStatus
	if strings.TrimSpace(req.PJKeterangan) != "" {
		keterangan := strings.TrimSpace(req.PJKeterangan)
		record.PJKeterangan = &keterangan
	}
	if strings.TrimSpace(req.Catatan) != "" {
		catatan := strings.TrimSpace(req.Catatan)
		record.Catatan = &catatan
	}
	record.Status = models.RecordSubmitted
	record.IsUnlocked = false

	stored, err := s.repo.Upsert(ctx, record)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update absensi kegiatan")
	}
	return stored, nil
}

func (s *KegiatanService) loadKegiatan(ctx context.Context, id string) (*models.Kegiatan, error) {
	kegiatan, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "kegiatan not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load kegiatan")
	}
	return kegiatan, nil
}

func (s *KegiatanService) loadAbsensi(ctx context.Context, kegiatanID string) (*models.AbsensiKegiatan, error) {
	record, err := s.repo.GetAbsensi(ctx, kegiatanID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load absensi kegiatan")
	}
	return record, nil
}

func buildSiswaEntries(items []SiswaStatusItem) models.SiswaEntryList {
	if len(items) == 0 {
		return nil
	}
	entries := make(models.SiswaEntryList, 0, len(items))
	for _, item := range items {
		status, _ := models.NormalizeStatus(item.Status)
		entries = append(entries, models.SiswaEntry{
			SiswaID:    item.SiswaID,
			Nama:       item.Nama,
			Status:     status,
			Keterangan: strings.TrimSpace(item.Keterangan),
		})
	}
	return entries
}
