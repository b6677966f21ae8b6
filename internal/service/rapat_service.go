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

type rapatRepository interface {
	GetByID(ctx context.Context, id string) (*models.Rapat, error)
	ListForGuru(ctx context.Context, guruID string, from, to time.Time) ([]models.Rapat, error)
	GetAbsensi(ctx context.Context, rapatID string) (*models.AbsensiRapat, error)
	Upsert(ctx context.Context, record *models.AbsensiRapat) (*models.AbsensiRapat, error)
	UpsertSubmit(ctx context.Context, record *models.AbsensiRapat) (*models.AbsensiRapat, bool, error)
}

// RapatService coordinates meeting attendance workflows.
type RapatService struct {
	repo      rapatRepository
	clock     Clock
	metrics   *MetricsService
	minPhotos int
	maxPhotos int
	validator *validator.Validate
	logger    *zap.Logger
}

// NewRapatService constructs the meeting attendance service.
func NewRapatService(repo rapatRepository, clock Clock, metrics *MetricsService, minPhotos, maxPhotos int, validate *validator.Validate, logger *zap.Logger) *RapatService {
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
	svc := &RapatService{repo: repo, clock: clock, metrics: metrics, minPhotos: minPhotos, maxPhotos: maxPhotos, validator: validate, logger: logger}
	svc.validator.RegisterValidation("attendance_status", func(fl validator.FieldLevel) bool {
		_, ok := models.NormalizeStatus(fl.Field().String())
		return ok
	})
	return svc
}

// RapatItem is a meeting enriched with the viewer's role and derived state.
type RapatItem struct {
	Rapat   models.Rapat          `json:"rapat"`
	Role    models.RapatRole      `json:"role"`
	Status  models.PresenceStatus `json:"status"`
	Absensi *models.AbsensiRapat  `json:"absensi,omitempty"`
}

// SubmitRapatRequest is the secretary's authoritative submission payload.
type SubmitRapatRequest struct {
	PimpinanStatus   string            `json:"pimpinan_status" validate:"required,attendance_status"`
	SekretarisStatus string            `json:"sekretaris_status" validate:"required,attendance_status"`
	Peserta          []PartyStatusItem `json:"peserta" validate:"dive"`
	Notulensi        string            `json:"notulensi" validate:"required"`
	Foto             []string          `json:"foto" validate:"required"`
}

// PesertaStatusResponse answers the attended-yet check for a participant.
type PesertaStatusResponse struct {
	Attended bool `json:"attended"`
}

// RapatRoleFor resolves how the guru is obligated to the meeting.
func RapatRoleFor(rapat *models.Rapat, guruID string) (models.RapatRole, bool) {
	switch {
	case rapat.PimpinanID == guruID:
		return models.RapatRolePimpinan, true
	case rapat.SekretarisID == guruID:
		return models.RapatRoleSekretaris, true
	case rapat.PesertaIDs.Contains(guruID):
		return models.RapatRolePeserta, true
	default:
		return "", false
	}
}

// List returns the guru's meetings in a window around today with per-role
// derived status.
func (s *RapatService) List(ctx context.Context, guruID string, windowDays int) ([]RapatItem, error) {
	if windowDays <= 0 {
		windowDays = 7
	}
	now := s.clock.Now()
	from := truncateToDay(now.AddDate(0, 0, -windowDays))
	to := truncateToDay(now.AddDate(0, 0, windowDays))

	meetings, err := s.repo.ListForGuru(ctx, guruID, from, to)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load rapat")
	}

	items := make([]RapatItem, 0, len(meetings))
	for _, rapat := range meetings {
		role, obligated := RapatRoleFor(&rapat, guruID)
		if !obligated {
			continue
		}
		record, err := s.loadAbsensi(ctx, rapat.ID)
		if err != nil {
			return nil, err
		}
		items = append(items, RapatItem{
			Rapat:   rapat,
			Role:    role,
			Status:  s.deriveRapatStatus(now, &rapat, record, role, guruID),
			Absensi: record,
		})
	}
	return items, nil
}

func (s *RapatService) deriveRapatStatus(now time.Time, rapat *models.Rapat, record *models.AbsensiRapat, role models.RapatRole, guruID string) models.PresenceStatus {
	authoritative := RapatAuthority(record, role, guruID)
	start, end, err := ParseJamWindow(rapat.Tanggal, rapat.WaktuMulai, rapat.WaktuSelesai, s.clock.Location())
	if err != nil {
		if authoritative {
			return models.PresenceSudahAbsen
		}
		s.logger.Warn("rapat has malformed time window",
			zap.String("rapat_id", rapat.ID), zap.Error(err))
		return models.PresenceBelumMulai
	}
	return DeriveStatusForDate(now, rapat.Tanggal, start, end, authoritative)
}

// SelfReportPimpinan records the leader's own attendance on the meeting record.
func (s *RapatService) SelfReportPimpinan(ctx context.Context, guruID, rapatID string, req SelfReportRequest) (*models.AbsensiRapat, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid self report payload")
	}

	rapat, err := s.loadRapat(ctx, rapatID)
	if err != nil {
		return nil, err
	}
	if role, _ := RapatRoleFor(rapat, guruID); role != models.RapatRolePimpinan {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "guru is not the pimpinan of this rapat")
	}

	existing, err := s.loadAbsensi(ctx, rapatID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	status, _ := models.NormalizeStatus(req.Status)
	record := &models.AbsensiRapat{
		RapatID:          rapatID,
		PimpinanStatus:   models.AttendanceStatusAlpha,
		SekretarisStatus: models.AttendanceStatusAlpha,
		Status:           models.RecordDraft,
	}
	if existing != nil {
		record = existing
	}
	record.PimpinanStatus = status
	if strings.TrimSpace(req.Keterangan) != "" {
		keterangan := strings.TrimSpace(req.Keterangan)
		record.PimpinanKeterangan = &keterangan
	}
	record.PimpinanSelfAttended = true
	record.PimpinanAttendedAt = &now

	stored, err := s.repo.Upsert(ctx, record)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store self report")
	}
	return stored, nil
}

// SelfReportPeserta records a participant's own attendance on the meeting record.
func (s *RapatService) SelfReportPeserta(ctx context.Context, guruID, rapatID string, req SelfReportRequest) (*models.AbsensiRapat, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid self report payload")
	}

	rapat, err := s.loadRapat(ctx, rapatID)
	if err != nil {
		return nil, err
	}
	if role, _ := RapatRoleFor(rapat, guruID); role != models.RapatRolePeserta {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "guru is not a peserta of this rapat")
	}

	existing, err := s.loadAbsensi(ctx, rapatID)
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

	record := &models.AbsensiRapat{
		RapatID:          rapatID,
		PimpinanStatus:   models.AttendanceStatusAlpha,
		SekretarisStatus: models.AttendanceStatusAlpha,
		Status:           models.RecordDraft,
	}
	if existing != nil {
		record = existing
	}
	record.AbsensiPeserta = UpsertSelfReport(record.AbsensiPeserta, report)

	stored, err := s.repo.Upsert(ctx, record)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store self report")
	}
	return stored, nil
}

// SubmitSekretaris files the secretary's authoritative record. Participant
// self-reports merge with provenance preserved, and the leader's own
// self-report flag and timestamp are carried over untouched.
func (s *RapatService) SubmitSekretaris(ctx context.Context, guruID, rapatID string, req SubmitRapatRequest) (*models.AbsensiRapat, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid submission payload")
	}
	if len(req.Foto) < s.minPhotos || len(req.Foto) > s.maxPhotos {
		return nil, appErrors.Clone(appErrors.ErrValidation, "photo count out of range")
	}

	rapat, err := s.loadRapat(ctx, rapatID)
	if err != nil {
		return nil, err
	}
	if role, _ := RapatRoleFor(rapat, guruID); role != models.RapatRoleSekretaris {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only the sekretaris may submit")
	}

	existing, err := s.loadAbsensi(ctx, rapatID)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.Status == models.RecordSubmitted && !existing.IsUnlocked {
		s.metrics.ObserveSubmission("rapat", "conflict")
		return nil, appErrors.Clone(appErrors.ErrAlreadySubmitted, "absensi rapat ini sudah dilakukan")
	}

	incoming := make([]models.PartyEntry, 0, len(req.Peserta))
	for _, item := range req.Peserta {
		status, _ := models.NormalizeStatus(item.Status)
		incoming = append(incoming, models.PartyEntry{
			GuruID:     item.GuruID,
			Status:     status,
			Keterangan: strings.TrimSpace(item.Keterangan),
		})
	}

	record := &models.AbsensiRapat{
		RapatID: rapatID,
		Status:  models.RecordSubmitted,
	}
	var prior []models.PartyEntry
	if existing != nil {
		record.ID = existing.ID
		record.CreatedAt = existing.CreatedAt
		record.PimpinanSelfAttended = existing.PimpinanSelfAttended
		record.PimpinanAttendedAt = existing.PimpinanAttendedAt
		record.PimpinanKeterangan = existing.PimpinanKeterangan
		prior = existing.AbsensiPeserta
	}
	record.AbsensiPeserta = MergeParticipants(prior, incoming)

	pimpinanStatus, _ := models.NormalizeStatus(req.PimpinanStatus)
	sekretarisStatus, _ := models.NormalizeStatus(req.SekretarisStatus)
	record.PimpinanStatus = pimpinanStatus
	record.SekretarisStatus = sekretarisStatus
	notulensi := strings.TrimSpace(req.Notulensi)
	record.Notulensi = &notulensi
	record.Foto = models.StringList(req.Foto)

	stored, submitted, err := s.repo.UpsertSubmit(ctx, record)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store absensi rapat")
	}
	if !submitted {
		s.metrics.ObserveSubmission("rapat", "conflict")
		return nil, appErrors.Clone(appErrors.ErrAlreadySubmitted, "absensi rapat ini sudah dilakukan")
	}

	s.metrics.ObserveSubmission("rapat", "accepted")
	s.logger.Info("meeting attendance submitted",
		zap.String("rapat_id", rapatID), zap.String("guru_id", guruID))
	return stored, nil
}

// PesertaStatus reports whether the participant already counts as attended:
// either they self-reported or the secretary submitted the record.
func (s *RapatService) PesertaStatus(ctx context.Context, guruID, rapatID string) (*PesertaStatusResponse, error) {
	rapat, err := s.loadRapat(ctx, rapatID)
	if err != nil {
		return nil, err
	}
	if _, obligated := RapatRoleFor(rapat, guruID); !obligated {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "guru is not obligated to this rapat")
	}

	record, err := s.loadAbsensi(ctx, rapatID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return &PesertaStatusResponse{Attended: false}, nil
	}
	if record.Status == models.RecordSubmitted {
		return &PesertaStatusResponse{Attended: true}, nil
	}
	entry, ok := record.AbsensiPeserta.Find(guruID)
	return &PesertaStatusResponse{Attended: ok && entry.SelfAttended}, nil
}

func (s *RapatService) loadRapat(ctx context.Context, id string) (*models.Rapat, error) {
	rapat, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "rapat not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load rapat")
	}
	return rapat, nil
}

func (s *RapatService) loadAbsensi(ctx context.Context, rapatID string) (*models.AbsensiRapat, error) {
	record, err := s.repo.GetAbsensi(ctx, rapatID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load absensi rapat")
	}
	return record, nil
}
