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

type mockRapatRepo struct {
	rapat          map[string]*models.Rapat
	absensi        map[string]*models.AbsensiRapat
	submitConflict bool
}

func (m *mockRapatRepo) GetByID(ctx context.Context, id string) (*models.Rapat, error) {
	if r, ok := m.rapat[id]; ok {
		return r, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockRapatRepo) ListForGuru(ctx context.Context, guruID string, from, to time.Time) ([]models.Rapat, error) {
	var out []models.Rapat
	for _, r := range m.rapat {
		if r.PimpinanID == guruID || r.SekretarisID == guruID || r.PesertaIDs.Contains(guruID) {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *mockRapatRepo) GetAbsensi(ctx context.Context, rapatID string) (*models.AbsensiRapat, error) {
	if record, ok := m.absensi[rapatID]; ok {
		return record, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockRapatRepo) Upsert(ctx context.Context, record *models.AbsensiRapat) (*models.AbsensiRapat, error) {
	if m.absensi == nil {
		m.absensi = make(map[string]*models.AbsensiRapat)
	}
	m.absensi[record.RapatID] = record
	return record, nil
}

func (m *mockRapatRepo) UpsertSubmit(ctx context.Context, record *models.AbsensiRapat) (*models.AbsensiRapat, bool, error) {
	if m.submitConflict {
		return nil, false, nil
	}
	if m.absensi == nil {
		m.absensi = make(map[string]*models.AbsensiRapat)
	}
	m.absensi[record.RapatID] = record
	return record, true, nil
}

func staffMeeting(t *testing.T) *models.Rapat {
	loc := jakartaLoc(t)
	return &models.Rapat{
		ID:           "rpt-1",
		Judul:        "Rapat Koordinasi",
		PimpinanID:   "g-pim",
		SekretarisID: "g-sek",
		PesertaIDs:   models.StringList{"g-a", "g-b"},
		Tanggal:      time.Date(2026, 3, 2, 0, 0, 0, 0, loc),
		WaktuMulai:   "07:30",
		WaktuSelesai: "09:00",
	}
}

func TestRapatSubmitSekretarisPreservesPimpinanSelfReport(t *testing.T) {
	attendedAt := time.Date(2026, 3, 2, 7, 35, 0, 0, time.UTC)
	keterangan := "hadir langsung"
	repo := &mockRapatRepo{
		rapat: map[string]*models.Rapat{"rpt-1": staffMeeting(t)},
		absensi: map[string]*models.AbsensiRapat{
			"rpt-1": {
				ID:                   "abs-1",
				RapatID:              "rpt-1",
				PimpinanStatus:       models.AttendanceStatusHadir,
				PimpinanKeterangan:   &keterangan,
				PimpinanSelfAttended: true,
				PimpinanAttendedAt:   &attendedAt,
				SekretarisStatus:     models.AttendanceStatusAlpha,
				Status:               models.RecordDraft,
				AbsensiPeserta: models.PartyEntryList{
					{GuruID: "g-a", Status: models.AttendanceStatusHadir, SelfAttended: true, AttendedAt: &attendedAt},
				},
			},
		},
	}
	svc := NewRapatService(repo, mondayClock(t), nil, 2, 4, nil, zap.NewNop())

	record, err := svc.SubmitSekretaris(context.Background(), "g-sek", "rpt-1", SubmitRapatRequest{
		PimpinanStatus:   "H",
		SekretarisStatus: "H",
		Peserta: []PartyStatusItem{
			{GuruID: "g-a", Status: "H"},
			{GuruID: "g-b", Status: "A"},
		},
		Notulensi: "Pembahasan ujian sekolah",
		Foto:      []string{"1.jpg", "2.jpg"},
	})
	require.NoError(t, err)

	assert.Equal(t, models.RecordSubmitted, record.Status)
	assert.True(t, record.PimpinanSelfAttended)
	require.NotNil(t, record.PimpinanAttendedAt)
	assert.True(t, record.PimpinanAttendedAt.Equal(attendedAt))
	require.Len(t, record.AbsensiPeserta, 2)
	assert.True(t, record.AbsensiPeserta[0].SelfAttended)
	assert.False(t, record.AbsensiPeserta[1].SelfAttended)
}

func TestRapatSubmitSekretarisGuards(t *testing.T) {
	repo := &mockRapatRepo{rapat: map[string]*models.Rapat{"rpt-1": staffMeeting(t)}}
	svc := NewRapatService(repo, mondayClock(t), nil, 2, 4, nil, zap.NewNop())

	// Notulensi is required.
	_, err := svc.SubmitSekretaris(context.Background(), "g-sek", "rpt-1", SubmitRapatRequest{
		PimpinanStatus: "H", SekretarisStatus: "H", Foto: []string{"1.jpg", "2.jpg"},
	})
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)

	// Only the sekretaris may submit.
	_, err = svc.SubmitSekretaris(context.Background(), "g-pim", "rpt-1", SubmitRapatRequest{
		PimpinanStatus: "H", SekretarisStatus: "H", Notulensi: "x", Foto: []string{"1.jpg", "2.jpg"},
	})
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrForbidden.Code, appErr.Code)
}

func TestRapatSubmitSekretarisConflict(t *testing.T) {
	repo := &mockRapatRepo{
		rapat:          map[string]*models.Rapat{"rpt-1": staffMeeting(t)},
		submitConflict: true,
	}
	svc := NewRapatService(repo, mondayClock(t), nil, 2, 4, nil, zap.NewNop())

	_, err := svc.SubmitSekretaris(context.Background(), "g-sek", "rpt-1", SubmitRapatRequest{
		PimpinanStatus: "H", SekretarisStatus: "H", Notulensi: "x", Foto: []string{"1.jpg", "2.jpg"},
	})
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrAlreadySubmitted.Code, appErr.Code)
}

func TestRapatSelfReports(t *testing.T) {
	repo := &mockRapatRepo{rapat: map[string]*models.Rapat{"rpt-1": staffMeeting(t)}}
	svc := NewRapatService(repo, mondayClock(t), nil, 2, 4, nil, zap.NewNop())

	record, err := svc.SelfReportPimpinan(context.Background(), "g-pim", "rpt-1", SelfReportRequest{Status: "H"})
	require.NoError(t, err)
	assert.True(t, record.PimpinanSelfAttended)
	require.NotNil(t, record.PimpinanAttendedAt)
	assert.Equal(t, models.RecordDraft, record.Status)

	record, err = svc.SelfReportPeserta(context.Background(), "g-a", "rpt-1", SelfReportRequest{Status: "H"})
	require.NoError(t, err)
	entry, ok := record.AbsensiPeserta.Find("g-a")
	require.True(t, ok)
	assert.True(t, entry.SelfAttended)

	_, err = svc.SelfReportPeserta(context.Background(), "g-pim", "rpt-1", SelfReportRequest{Status: "H"})
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrForbidden.Code, appErr.Code)
}

func TestRapatPesertaStatus(t *testing.T) {
	repo := &mockRapatRepo{rapat: map[string]*models.Rapat{"rpt-1": staffMeeting(t)}}
	svc := NewRapatService(repo, mondayClock(t), nil, 2, 4, nil, zap.NewNop())

	status, err := svc.PesertaStatus(context.Background(), "g-a", "rpt-1")
	require.NoError(t, err)
	assert.False(t, status.Attended)

	_, err = svc.SelfReportPeserta(context.Background(), "g-a", "rpt-1", SelfReportRequest{Status: "H"})
	require.NoError(t, err)

	status, err = svc.PesertaStatus(context.Background(), "g-a", "rpt-1")
	require.NoError(t, err)
	assert.True(t, status.Attended)

	// A submitted record marks everyone as attended.
	status, err = svc.PesertaStatus(context.Background(), "g-b", "rpt-1")
	require.NoError(t, err)
	assert.False(t, status.Attended)
	repo.absensi["rpt-1"].Status = models.RecordSubmitted
	status, err = svc.PesertaStatus(context.Background(), "g-b", "rpt-1")
	require.NoError(t, err)
	assert.True(t, status.Attended)
}

func TestRapatListPerRoleStatus(t *testing.T) {
	attendedAt := time.Date(2026, 3, 2, 7, 35, 0, 0, time.UTC)
	repo := &mockRapatRepo{
		rapat: map[string]*models.Rapat{"rpt-1": staffMeeting(t)},
		absensi: map[string]*models.AbsensiRapat{
			"rpt-1": {
				RapatID:              "rpt-1",
				PimpinanStatus:       models.AttendanceStatusHadir,
				PimpinanSelfAttended: true,
				PimpinanAttendedAt:   &attendedAt,
				SekretarisStatus:     models.AttendanceStatusAlpha,
				Status:               models.RecordDraft,
			},
		},
	}
	svc := NewRapatService(repo, mondayClock(t), nil, 2, 4, nil, zap.NewNop())

	pimpinan, err := svc.List(context.Background(), "g-pim", 7)
	require.NoError(t, err)
	require.Len(t, pimpinan, 1)
	assert.Equal(t, models.PresenceSudahAbsen, pimpinan[0].Status)

	sekretaris, err := svc.List(context.Background(), "g-sek", 7)
	require.NoError(t, err)
	require.Len(t, sekretaris, 1)
	assert.Equal(t, models.PresenceSedangBerlangsung, sekretaris[0].Status)
}

func TestRapatListMalformedWindowDegrades(t *testing.T) {
	broken := staffMeeting(t)
	broken.WaktuMulai = "pagi"
	repo := &mockRapatRepo{rapat: map[string]*models.Rapat{"rpt-1": broken}}
	svc := NewRapatService(repo, mondayClock(t), nil, 2, 4, nil, zap.NewNop())

	items, err := svc.List(context.Background(), "g-a", 7)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, models.PresenceBelumMulai, items[0].Status)
}
