package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/presensi-guru-api/internal/models"
)

func TestDashboardTodayCountsPending(t *testing.T) {
	clock := mondayClock(t)

	slot := mondaySlot("g-pj")
	jadwalRepo := &mockJadwalRepo{slots: []models.Jadwal{*slot}}
	mengajarSvc := NewMengajarService(jadwalRepo, &mockMengajarRepo{}, clock, nil, nil, zap.NewNop())

	kegiatanRepo := &mockKegiatanRepo{kegiatan: map[string]*models.Kegiatan{"keg-1": studyTour(t)}}
	kegiatanSvc := NewKegiatanService(kegiatanRepo, clock, nil, 2, 4, nil, zap.NewNop())

	rapatRepo := &mockRapatRepo{rapat: map[string]*models.Rapat{"rpt-1": staffMeeting(t)}}
	rapatSvc := NewRapatService(rapatRepo, clock, nil, 2, 4, nil, zap.NewNop())

	svc := NewDashboardService(mengajarSvc, kegiatanSvc, rapatSvc, nil, 0, clock, zap.NewNop())

	summary, err := svc.Today(context.Background(), "g-pj")
	require.NoError(t, err)

	assert.Equal(t, "2026-03-02", summary.Tanggal)

	// The 07:15 slot is in progress at 08:00 and the activity spans today;
	// the guru is not a party to the meeting.
	require.Len(t, summary.Jadwal, 1)
	assert.Equal(t, models.PresenceSedangBerlangsung, summary.Jadwal[0].Status)
	require.Len(t, summary.Kegiatan, 1)
	assert.Empty(t, summary.Rapat)

	assert.Equal(t, 1, summary.PendingJadwal)
	assert.Equal(t, 1, summary.PendingKegiatan)
	assert.Equal(t, 0, summary.PendingRapat)
}

func TestDashboardTodayFiledSlotNotPending(t *testing.T) {
	clock := mondayClock(t)

	slot := mondaySlot("g-1")
	jadwalRepo := &mockJadwalRepo{slots: []models.Jadwal{*slot}, byID: map[string]*models.Jadwal{"jdw-1": slot}}
	mengajarRepo := &mockMengajarRepo{}
	mengajarSvc := NewMengajarService(jadwalRepo, mengajarRepo, clock, nil, nil, zap.NewNop())

	_, err := mengajarSvc.Submit(context.Background(), "g-1", SubmitMengajarRequest{JadwalID: "jdw-1"})
	require.NoError(t, err)

	kegiatanSvc := NewKegiatanService(&mockKegiatanRepo{}, clock, nil, 2, 4, nil, zap.NewNop())
	rapatSvc := NewRapatService(&mockRapatRepo{}, clock, nil, 2, 4, nil, zap.NewNop())
	svc := NewDashboardService(mengajarSvc, kegiatanSvc, rapatSvc, nil, 0, clock, zap.NewNop())

	summary, err := svc.Today(context.Background(), "g-1")
	require.NoError(t, err)

	require.Len(t, summary.Jadwal, 1)
	assert.Equal(t, models.PresenceSudahAbsen, summary.Jadwal[0].Status)
	assert.Equal(t, 0, summary.PendingJadwal)
}
