package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/presensi-guru-api/internal/models"
	appErrors "github.com/noah-isme/presensi-guru-api/pkg/errors"
)

type mockKegiatanRepo struct {
	kegiatan       map[string]*models.Kegiatan
	absensi        map[string]*models.AbsensiKegiatan
	submitConflict bool
	lastUpsert     *models.AbsensiKegiatan
}

func (m *mockKegiatanRepo) GetByID(ctx context.Context, id string) (*models.Kegiatan, error) {
	if k, ok := m.kegiatan[id]; ok {
		return k, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockKegiatanRepo) ListForGuru(ctx context.Context, guruID string, from, to time.Time) ([]models.Kegiatan, error) {
	var out []models.Kegiatan
	for _, k := range m.kegiatan {
		if k.PenanggungJawabID == guruID || k.PendampingIDs.Contains(guruID) {
			out = append(out, *k)
		}
	}
	return out, nil
}

func (m *mockKegiatanRepo) GetAbsensi(ctx context.Context, kegiatanID string) (*models.AbsensiKegiatan, error) {
	if record, ok := m.absensi[kegiatanID]; ok {
		return record, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockKegiatanRepo) Upsert(ctx context.Context, record *models.AbsensiKegiatan) (*models.AbsensiKegiatan, error) {
	if m.absensi == nil {
		m.absensi = make(map[string]*models.AbsensiKegiatan)
	}
	m.absensi[record.KegiatanID] = record
	m.lastUpsert = record
	return record, nil
}

func (m *mockKegiatanRepo) UpsertSubmit(ctx context.Context, record *models.AbsensiKegiatan) (*models.AbsensiKegiatan, bool, error) {
	if m.submitConflict {
		return nil, false, nil
	}
	if m.absensi == nil {
		m.absensi = make(map[string]*models.AbsensiKegiatan)
	}
	m.absensi[record.KegiatanID] = record
	m.lastUpsert = record
	return record, true, nil
}

func studyTour(t *testing.T) *models.Kegiatan {
	loc := jakartaLoc(t)
	return &models.Kegiatan{
		ID:                "keg-1",
		Nama:              "Study Tour",
		PenanggungJawabID: "g-pj",
		PendampingIDs:     models.StringList{"g-p1", "g-p2"},
		WaktuMulai:        time.Date(2026, 3, 2, 7, 0, 0, 0, loc),
		WaktuBerakhir:     time.Date(2026, 3, 3, 17, 0, 0, 0, loc),
		Aktif:             true,
	}
}

func TestKegiatanSubmitPJMergesSelfReports(t *testing.T) {
	attendedAt := time.Date(2026, 3, 2, 7, 30, 0, 0, time.UTC)
	repo := &mockKegiatanRepo{
		kegiatan: map[string]*models.Kegiatan{"keg-1": studyTour(t)},
		absensi: map[string]*models.AbsensiKegiatan{
			"keg-1": {
				ID:         "abs-1",
				KegiatanID: "keg-1",
				PJStatus:   models.AttendanceStatusAlpha,
				Status:     models.RecordDraft,
				AbsensiPendamping: models.PartyEntryList{
					{GuruID: "g-p1", Status: models.AttendanceStatusHadir, SelfAttended: true, AttendedAt: &attendedAt},
				},
			},
		},
	}
	svc := NewKegiatanService(repo, mondayClock(t), nil, 2, 4, nil, zap.NewNop())

	record, err := svc.SubmitPJ(context.Background(), "g-pj", "keg-1", SubmitKegiatanRequest{
		PJStatus: "H",
		Pendamping: []PartyStatusItem{
			{GuruID: "g-p1", Status: "I", Keterangan: "dinas"},
			{GuruID: "g-p2", Status: "A"},
		},
		Foto: []string{"a.jpg", "b.jpg"},
	})
	require.NoError(t, err)

	assert.Equal(t, models.RecordSubmitted, record.Status)
	require.Len(t, record.AbsensiPendamping, 2)
	assert.Equal(t, models.AttendanceStatusIzin, record.AbsensiPendamping[0].Status)
	assert.True(t, record.AbsensiPendamping[0].SelfAttended)
	require.NotNil(t, record.AbsensiPendamping[0].AttendedAt)
	assert.False(t, record.AbsensiPendamping[1].SelfAttended)
}

func TestKegiatanSubmitPJPhotoBounds(t *testing.T) {
	repo := &mockKegiatanRepo{kegiatan: map[string]*models.Kegiatan{"keg-1": studyTour(t)}}
	svc := NewKegiatanService(repo, mondayClock(t), nil, 2, 4, nil, zap.NewNop())

	_, err := svc.SubmitPJ(context.Background(), "g-pj", "keg-1", SubmitKegiatanRequest{
		PJStatus: "H", Foto: []string{"only-one.jpg"},
	})
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)

	_, err = svc.SubmitPJ(context.Background(), "g-pj", "keg-1", SubmitKegiatanRequest{
		PJStatus: "H", Foto: []string{"1.jpg", "2.jpg", "3.jpg", "4.jpg", "5.jpg"},
	})
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestKegiatanSubmitPJConflict(t *testing.T) {
	repo := &mockKegiatanRepo{
		kegiatan:       map[string]*models.Kegiatan{"keg-1": studyTour(t)},
		submitConflict: true,
	}
	svc := NewKegiatanService(repo, mondayClock(t), nil, 2, 4, nil, zap.NewNop())

	_, err := svc.SubmitPJ(context.Background(), "g-pj", "keg-1", SubmitKegiatanRequest{
		PJStatus: "H", Foto: []string{"a.jpg", "b.jpg"},
	})
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrAlreadySubmitted.Code, appErr.Code)
	assert.Equal(t, 409, appErr.Status)
}

func TestKegiatanSubmitPJOnlyPJ(t *testing.T) {
	repo := &mockKegiatanRepo{kegiatan: map[string]*models.Kegiatan{"keg-1": studyTour(t)}}
	svc := NewKegiatanService(repo, mondayClock(t), nil, 2, 4, nil, zap.NewNop())

	_, err := svc.SubmitPJ(context.Background(), "g-p1", "keg-1", SubmitKegiatanRequest{
		PJStatus: "H", Foto: []string{"a.jpg", "b.jpg"},
	})
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrForbidden.Code, appErr.Code)
}

func TestKegiatanSelfReportCreatesDraft(t *testing.T) {
	repo := &mockKegiatanRepo{kegiatan: map[string]*models.Kegiatan{"keg-1": studyTour(t)}}
	svc := NewKegiatanService(repo, mondayClock(t), nil, 2, 4, nil, zap.NewNop())

	record, err := svc.SelfReportPendamping(context.Background(), "g-p1", "keg-1", SelfReportRequest{Status: "H"})
	require.NoError(t, err)

	// The draft exists with the PJ still unreported.
	assert.Equal(t, models.RecordDraft, record.Status)
	assert.Equal(t, models.AttendanceStatusAlpha, record.PJStatus)
	require.Len(t, record.AbsensiPendamping, 1)
	assert.True(t, record.AbsensiPendamping[0].SelfAttended)
	require.NotNil(t, record.AbsensiPendamping[0].AttendedAt)
}

func TestKegiatanListPerRoleStatus(t *testing.T) {
	attendedAt := time.Date(2026, 3, 2, 7, 30, 0, 0, time.UTC)
	repo := &mockKegiatanRepo{
		kegiatan: map[string]*models.Kegiatan{"keg-1": studyTour(t)},
		absensi: map[string]*models.AbsensiKegiatan{
			"keg-1": {
				KegiatanID: "keg-1",
				PJStatus:   models.AttendanceStatusAlpha,
				Status:     models.RecordDraft,
				AbsensiPendamping: models.PartyEntryList{
					{GuruID: "g-p1", Status: models.AttendanceStatusHadir, SelfAttended: true, AttendedAt: &attendedAt},
				},
			},
		},
	}
	svc := NewKegiatanService(repo, mondayClock(t), nil, 2, 4, nil, zap.NewNop())

	// Same record, different viewers: the companion is done, the PJ is not.
	pendampingItems, err := svc.List(context.Background(), "g-p1", 7)
	require.NoError(t, err)
	require.Len(t, pendampingItems, 1)
	assert.Equal(t, models.PresenceSudahAbsen, pendampingItems[0].Status)

	pjItems, err := svc.List(context.Background(), "g-pj", 7)
	require.NoError(t, err)
	require.Len(t, pjItems, 1)
	assert.Equal(t, models.PresenceSedangBerlangsung, pjItems[0].Status)
}

func TestKegiatanAdminUpdateForcesSubmitted(t *testing.T) {
	repo := &mockKegiatanRepo{
		kegiatan: map[string]*models.Kegiatan{"keg-1": studyTour(t)},
		absensi: map[string]*models.AbsensiKegiatan{
			"keg-1": {
				ID: "abs-1", KegiatanID: "keg-1",
				PJStatus: models.AttendanceStatusAlpha, Status: models.RecordDraft, IsUnlocked: true,
				Foto: models.StringList{"old.jpg"},
			},
		},
	}
	svc := NewKegiatanService(repo, mondayClock(t), nil, 2, 4, nil, zap.NewNop())

	record, err := svc.AdminUpdate(context.Background(), "keg-1", SubmitKegiatanRequest{
		PJStatus: "I", PJKeterangan: "tugas dinas", Foto: []string{"x.jpg", "y.jpg"},
	})
	require.NoError(t, err)
	assert.Equal(t, models.RecordSubmitted, record.Status)
	assert.False(t, record.IsUnlocked)
	assert.Equal(t, models.AttendanceStatusIzin, record.PJStatus)
}
