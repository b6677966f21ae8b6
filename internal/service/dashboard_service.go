package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/presensi-guru-api/internal/models"
)

// DashboardSummary is the guru's today-at-a-glance view: every obligation for
// the day with its derived status, plus pending counts for reminder badges.
type DashboardSummary struct {
	Tanggal         string         `json:"tanggal"`
	Jadwal          []JadwalItem   `json:"jadwal"`
	Kegiatan        []KegiatanItem `json:"kegiatan"`
	Rapat           []RapatItem    `json:"rapat"`
	PendingJadwal   int            `json:"pending_jadwal"`
	PendingKegiatan int            `json:"pending_kegiatan"`
	PendingRapat    int            `json:"pending_rapat"`
}

// DashboardService aggregates today's obligations across the three types.
type DashboardService struct {
	mengajar *MengajarService
	kegiatan *KegiatanService
	rapat    *RapatService
	cache    *CacheService
	cacheTTL time.Duration
	clock    Clock
	logger   *zap.Logger
}

// NewDashboardService constructs the dashboard service.
func NewDashboardService(mengajar *MengajarService, kegiatan *KegiatanService, rapat *RapatService, cache *CacheService, cacheTTL time.Duration, clock Clock, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &DashboardService{
		mengajar: mengajar,
		kegiatan: kegiatan,
		rapat:    rapat,
		cache:    cache,
		cacheTTL: cacheTTL,
		clock:    clock,
		logger:   logger,
	}
}

// Today builds the guru's dashboard for the current date.
func (s *DashboardService) Today(ctx context.Context, guruID string) (*DashboardSummary, error) {
	now := s.clock.Now()
	today := now.Format("2006-01-02")

	cacheKey := fmt.Sprintf("dashboard:%s:%s", guruID, today)
	if s.cache.Enabled() {
		var cached DashboardSummary
		if hit, _ := s.cache.Get(ctx, cacheKey, &cached); hit {
			return &cached, nil
		}
	}

	jadwal, err := s.mengajar.TodaySchedule(ctx, guruID)
	if err != nil {
		return nil, err
	}
	kegiatan, err := s.kegiatan.List(ctx, guruID, 0)
	if err != nil {
		return nil, err
	}
	rapat, err := s.rapat.List(ctx, guruID, 0)
	if err != nil {
		return nil, err
	}

	summary := &DashboardSummary{
		Tanggal:  today,
		Jadwal:   jadwal,
		Kegiatan: filterKegiatanToday(kegiatan, now),
		Rapat:    filterRapatToday(rapat, now),
	}
	for _, item := range summary.Jadwal {
		if pendingStatus(item.Status) {
			summary.PendingJadwal++
		}
	}
	for _, item := range summary.Kegiatan {
		if pendingStatus(item.Status) {
			summary.PendingKegiatan++
		}
	}
	for _, item := range summary.Rapat {
		if pendingStatus(item.Status) {
			summary.PendingRapat++
		}
	}

	if s.cache.Enabled() {
		_ = s.cache.Set(ctx, cacheKey, summary, s.cacheTTL)
	}
	return summary, nil
}

// pendingStatus marks the states that still need the guru to act today.
func pendingStatus(status models.PresenceStatus) bool {
	return status == models.PresenceBelumMulai || status == models.PresenceSedangBerlangsung
}

func filterKegiatanToday(items []KegiatanItem, now time.Time) []KegiatanItem {
	today := truncateToDay(now)
	filtered := make([]KegiatanItem, 0, len(items))
	for _, item := range items {
		if overlapsDay(item.Kegiatan.WaktuMulai, item.Kegiatan.WaktuBerakhir, today) {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

func filterRapatToday(items []RapatItem, now time.Time) []RapatItem {
	filtered := make([]RapatItem, 0, len(items))
	for _, item := range items {
		if sameDay(item.Rapat.Tanggal, now) {
			filtered = append(filtered, item)
		}
	}
	return filtered
}
