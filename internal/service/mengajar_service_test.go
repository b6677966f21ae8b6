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

type mockJadwalRepo struct {
	slots   []models.Jadwal
	byID    map[string]*models.Jadwal
	listErr error
}

func (m *mockJadwalRepo) List(ctx context.Context, filter models.JadwalFilter) ([]models.Jadwal, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []models.Jadwal
	for _, slot := range m.slots {
		if filter.GuruID != "" && slot.GuruID != filter.GuruID {
			continue
		}
		if filter.Hari != "" && slot.Hari != filter.Hari {
			continue
		}
		if filter.ActiveOnly && slot.Status != models.JadwalStatusAktif {
			continue
		}
		out = append(out, slot)
	}
	return out, nil
}

func (m *mockJadwalRepo) GetByID(ctx context.Context, id string) (*models.Jadwal, error) {
	if slot, ok := m.byID[id]; ok {
		return slot, nil
	}
	return nil, sql.ErrNoRows
}

type mockMengajarRepo struct {
	records        map[string]*models.AbsensiMengajar
	insertConflict bool
	unlockedUpdate bool
	siswaUpserts   []*models.AbsensiSiswa
	siswaDeletes   []string
}

func (m *mockMengajarRepo) key(jadwalID string, tanggal time.Time) string {
	return jadwalID + "|" + tanggal.Format("2006-01-02")
}

func (m *mockMengajarRepo) InsertOnce(ctx context.Context, record *models.AbsensiMengajar) (*models.AbsensiMengajar, bool, error) {
	if m.insertConflict {
		return nil, false, nil
	}
	if m.records == nil {
		m.records = make(map[string]*models.AbsensiMengajar)
	}
	record.ID = "abs-1"
	m.records[m.key(record.JadwalID, record.Tanggal)] = record
	return record, true, nil
}

func (m *mockMengajarRepo) UpdateUnlocked(ctx context.Context, record *models.AbsensiMengajar) (*models.AbsensiMengajar, bool, error) {
	if !m.unlockedUpdate {
		return nil, false, nil
	}
	return record, true, nil
}

func (m *mockMengajarRepo) GetByJadwalTanggal(ctx context.Context, jadwalID string, tanggal time.Time) (*models.AbsensiMengajar, error) {
	if record, ok := m.records[m.key(jadwalID, tanggal)]; ok {
		return record, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockMengajarRepo) UpsertSiswa(ctx context.Context, record *models.AbsensiSiswa) error {
	m.siswaUpserts = append(m.siswaUpserts, record)
	return nil
}

func (m *mockMengajarRepo) DeleteSiswa(ctx context.Context, siswaID string, tanggal time.Time) error {
	m.siswaDeletes = append(m.siswaDeletes, siswaID)
	return nil
}

func mondaySlot(guruID string) *models.Jadwal {
	return &models.Jadwal{
		ID:         "jdw-1",
		GuruID:     guruID,
		Mapel:      "Matematika",
		Kelas:      "XII-A",
		Hari:       "Senin",
		JamMulai:   "07:15",
		JamSelesai: "08:45",
		Status:     models.JadwalStatusAktif,
	}
}

// 2026-03-02 is a Monday.
func mondayClock(t *testing.T) Clock {
	return FixedClock(time.Date(2026, 3, 2, 8, 0, 0, 0, jakartaLoc(t)))
}

func TestMengajarSubmitSuccess(t *testing.T) {
	slot := mondaySlot("g-1")
	jadwalRepo := &mockJadwalRepo{byID: map[string]*models.Jadwal{"jdw-1": slot}}
	repo := &mockMengajarRepo{}
	svc := NewMengajarService(jadwalRepo, repo, mondayClock(t), nil, nil, zap.NewNop())

	record, err := svc.Submit(context.Background(), "g-1", SubmitMengajarRequest{
		JadwalID: "jdw-1",
		Materi:   "Integral tentu",
		Siswa: []SiswaStatusItem{
			{SiswaID: "s-1", Nama: "Andi", Status: "H"},
			{SiswaID: "s-2", Nama: "Budi", Status: "S", Keterangan: "demam"},
			{SiswaID: "s-3", Nama: "Citra", Status: "A"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, models.AttendanceStatusHadir, record.GuruStatus)
	assert.Equal(t, "XII-A", record.SnapshotKelas)
	assert.Equal(t, "07:15 - 08:45", record.SnapshotJam)
	assert.Equal(t, 1, record.SiswaHadir)
	assert.Equal(t, 1, record.SiswaSakit)
	assert.Equal(t, 1, record.SiswaAlpha)

	// H rows are deleted, not stored; only the S and A overrides persist.
	assert.Equal(t, []string{"s-1"}, repo.siswaDeletes)
	require.Len(t, repo.siswaUpserts, 2)
	assert.Equal(t, models.AttendanceStatusSakit, repo.siswaUpserts[0].Status)
}

func TestMengajarSubmitConflict(t *testing.T) {
	slot := mondaySlot("g-1")
	jadwalRepo := &mockJadwalRepo{byID: map[string]*models.Jadwal{"jdw-1": slot}}
	repo := &mockMengajarRepo{insertConflict: true}
	svc := NewMengajarService(jadwalRepo, repo, mondayClock(t), nil, nil, zap.NewNop())

	_, err := svc.Submit(context.Background(), "g-1", SubmitMengajarRequest{JadwalID: "jdw-1"})
	require.Error(t, err)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrAlreadySubmitted.Code, appErr.Code)
	assert.Equal(t, 409, appErr.Status)
}

func TestMengajarSubmitUnlockedRecordAllowsRefile(t *testing.T) {
	slot := mondaySlot("g-1")
	jadwalRepo := &mockJadwalRepo{byID: map[string]*models.Jadwal{"jdw-1": slot}}
	repo := &mockMengajarRepo{insertConflict: true, unlockedUpdate: true}
	svc := NewMengajarService(jadwalRepo, repo, mondayClock(t), nil, nil, zap.NewNop())

	record, err := svc.Submit(context.Background(), "g-1", SubmitMengajarRequest{JadwalID: "jdw-1", GuruStatus: "I", GuruKeterangan: "dinas luar"})
	require.NoError(t, err)
	assert.Equal(t, models.AttendanceStatusIzin, record.GuruStatus)
	require.NotNil(t, record.GuruKeterangan)
	assert.Equal(t, "dinas luar", *record.GuruKeterangan)
}

func TestMengajarSubmitKeteranganDroppedWhenHadir(t *testing.T) {
	slot := mondaySlot("g-1")
	jadwalRepo := &mockJadwalRepo{byID: map[string]*models.Jadwal{"jdw-1": slot}}
	repo := &mockMengajarRepo{}
	svc := NewMengajarService(jadwalRepo, repo, mondayClock(t), nil, nil, zap.NewNop())

	record, err := svc.Submit(context.Background(), "g-1", SubmitMengajarRequest{
		JadwalID:       "jdw-1",
		GuruStatus:     "H",
		GuruKeterangan: "should not persist",
	})
	require.NoError(t, err)
	assert.Nil(t, record.GuruKeterangan)
}

func TestMengajarSubmitGuards(t *testing.T) {
	slot := mondaySlot("g-1")
	jadwalRepo := &mockJadwalRepo{byID: map[string]*models.Jadwal{"jdw-1": slot}}
	svc := NewMengajarService(jadwalRepo, &mockMengajarRepo{}, mondayClock(t), nil, nil, zap.NewNop())

	_, err := svc.Submit(context.Background(), "g-2", SubmitMengajarRequest{JadwalID: "jdw-1"})
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrForbidden.Code, appErr.Code)

	_, err = svc.Submit(context.Background(), "g-1", SubmitMengajarRequest{JadwalID: "missing"})
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)

	// A Tuesday slot cannot be filed on Monday.
	tuesday := mondaySlot("g-1")
	tuesday.ID = "jdw-2"
	tuesday.Hari = "Selasa"
	jadwalRepo.byID["jdw-2"] = tuesday
	_, err = svc.Submit(context.Background(), "g-1", SubmitMengajarRequest{JadwalID: "jdw-2"})
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestTodayScheduleDerivesStatus(t *testing.T) {
	early := mondaySlot("g-1")
	late := mondaySlot("g-1")
	late.ID = "jdw-2"
	late.JamMulai = "13:00"
	late.JamSelesai = "14:30"
	past := mondaySlot("g-1")
	past.ID = "jdw-3"
	past.JamMulai = "06:00"
	past.JamSelesai = "06:45"

	jadwalRepo := &mockJadwalRepo{slots: []models.Jadwal{*early, *late, *past}}
	repo := &mockMengajarRepo{}
	svc := NewMengajarService(jadwalRepo, repo, mondayClock(t), nil, nil, zap.NewNop())

	items, err := svc.TodaySchedule(context.Background(), "g-1")
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, models.PresenceSedangBerlangsung, items[0].Status)
	assert.Equal(t, models.PresenceBelumMulai, items[1].Status)
	assert.Equal(t, models.PresenceTerlewat, items[2].Status)
}

func TestDetailNotFoundDistinctFromConflict(t *testing.T) {
	slot := mondaySlot("g-1")
	jadwalRepo := &mockJadwalRepo{byID: map[string]*models.Jadwal{"jdw-1": slot}}
	svc := NewMengajarService(jadwalRepo, &mockMengajarRepo{}, mondayClock(t), nil, nil, zap.NewNop())

	_, err := svc.Detail(context.Background(), "g-1", "jdw-1", time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC))
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
	assert.Equal(t, 404, appErr.Status)
}
