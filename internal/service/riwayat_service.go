package service

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/presensi-guru-api/internal/models"
	appErrors "github.com/noah-isme/presensi-guru-api/pkg/errors"
)

const keteranganTidakAbsen = "Tidak melakukan absensi"

type riwayatJadwalRepository interface {
	List(ctx context.Context, filter models.JadwalFilter) ([]models.Jadwal, error)
}

type riwayatMengajarRepository interface {
	ListByGuruRange(ctx context.Context, guruID string, from, to time.Time) ([]models.AbsensiMengajar, error)
}

type riwayatKegiatanRepository interface {
	ListForGuru(ctx context.Context, guruID string, from, to time.Time) ([]models.Kegiatan, error)
	ListAbsensiByKegiatanIDs(ctx context.Context, ids []string) ([]models.AbsensiKegiatan, error)
}

type riwayatRapatRepository interface {
	ListForGuru(ctx context.Context, guruID string, from, to time.Time) ([]models.Rapat, error)
	ListAbsensiByRapatIDs(ctx context.Context, ids []string) ([]models.AbsensiRapat, error)
}

type riwayatKalenderRepository interface {
	ListLiburRanges(ctx context.Context, from, to time.Time) ([]models.Kalender, error)
}

// RiwayatService builds per-guru attendance history. History is reconstructed
// from obligations, not from records alone: an obligation that passed without
// a record surfaces as Alpha.
type RiwayatService struct {
	jadwalRepo   riwayatJadwalRepository
	mengajarRepo riwayatMengajarRepository
	kegiatanRepo riwayatKegiatanRepository
	rapatRepo    riwayatRapatRepository
	kalenderRepo riwayatKalenderRepository
	clock        Clock
	logger       *zap.Logger
}

// NewRiwayatService constructs the history service.
func NewRiwayatService(
	jadwalRepo riwayatJadwalRepository,
	mengajarRepo riwayatMengajarRepository,
	kegiatanRepo riwayatKegiatanRepository,
	rapatRepo riwayatRapatRepository,
	kalenderRepo riwayatKalenderRepository,
	clock Clock,
	logger *zap.Logger,
) *RiwayatService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RiwayatService{
		jadwalRepo:   jadwalRepo,
		mengajarRepo: mengajarRepo,
		kegiatanRepo: kegiatanRepo,
		rapatRepo:    rapatRepo,
		kalenderRepo: kalenderRepo,
		clock:        clock,
		logger:       logger,
	}
}

// MengajarHistoryItem is one teaching obligation occurrence in the history.
type MengajarHistoryItem struct {
	Jadwal     models.Jadwal           `json:"jadwal"`
	Tanggal    time.Time               `json:"tanggal"`
	GuruStatus models.AttendanceStatus `json:"guru_status"`
	Keterangan string                  `json:"keterangan,omitempty"`
	Absensi    *models.AbsensiMengajar `json:"absensi,omitempty"`
}

// KegiatanHistoryItem is one concluded activity obligation in the history.
type KegiatanHistoryItem struct {
	Kegiatan   models.Kegiatan         `json:"kegiatan"`
	Role       models.KegiatanRole     `json:"role"`
	Status     models.AttendanceStatus `json:"status"`
	Keterangan string                  `json:"keterangan,omitempty"`
}

// RapatHistoryItem is one concluded meeting obligation in the history.
type RapatHistoryItem struct {
	Rapat      models.Rapat            `json:"rapat"`
	Role       models.RapatRole        `json:"role"`
	Status     models.AttendanceStatus `json:"status"`
	Keterangan string                  `json:"keterangan,omitempty"`
}

// Mengajar reconstructs a guru's teaching history over the range. Every
// occurrence of an active slot on its weekday counts as an obligation unless
// the day is a school holiday; an occurrence whose window has ended with no
// filed record becomes Alpha.
func (s *RiwayatService) Mengajar(ctx context.Context, guruID string, from, to time.Time) ([]MengajarHistoryItem, error) {
	now := s.clock.Now()
	from, to = s.clampRange(from, to, now)

	slots, err := s.jadwalRepo.List(ctx, models.JadwalFilter{GuruID: guruID, ActiveOnly: true})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load jadwal")
	}
	records, err := s.mengajarRepo.ListByGuruRange(ctx, guruID, from, to)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load absensi mengajar")
	}
	libur, err := s.liburSet(ctx, from, to)
	if err != nil {
		return nil, err
	}

	recordByKey := make(map[string]*models.AbsensiMengajar, len(records))
	for i := range records {
		record := &records[i]
		recordByKey[record.JadwalID+"|"+record.Tanggal.Format("2006-01-02")] = record
	}

	var items []MengajarHistoryItem
	for day := truncateToDay(from); !day.After(truncateToDay(to)); day = day.AddDate(0, 0, 1) {
		if libur[day.Format("2006-01-02")] {
			continue
		}
		hari := models.HariName(day.Weekday())
		for i := range slots {
			jadwal := slots[i]
			if jadwal.Hari != hari {
				continue
			}
			record := recordByKey[jadwal.ID+"|"+day.Format("2006-01-02")]
			if record != nil {
				items = append(items, MengajarHistoryItem{
					Jadwal:     jadwal,
					Tanggal:    day,
					GuruStatus: record.GuruStatus,
					Absensi:    record,
				})
				continue
			}
			_, end, err := ParseJamWindow(day, jadwal.JamMulai, jadwal.JamSelesai, s.clock.Location())
			if err != nil {
				s.logger.Warn("jadwal has malformed time window",
					zap.String("jadwal_id", jadwal.ID), zap.Error(err))
				continue
			}
			if now.Before(end) {
				continue
			}
			items = append(items, MengajarHistoryItem{
				Jadwal:     jadwal,
				Tanggal:    day,
				GuruStatus: models.AttendanceStatusAlpha,
				Keterangan: keteranganTidakAbsen,
			})
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Tanggal.After(items[j].Tanggal)
	})
	return items, nil
}

// Kegiatan reconstructs a guru's activity history over the range. Only
// concluded activities appear; the guru's status comes from the record per
// their role, defaulting to Alpha when the record is missing or silent about
// them.
func (s *RiwayatService) Kegiatan(ctx context.Context, guruID string, from, to time.Time) ([]KegiatanHistoryItem, error) {
	now := s.clock.Now()
	from, to = s.clampRange(from, to, now)

	activities, err := s.kegiatanRepo.ListForGuru(ctx, guruID, from, to)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load kegiatan")
	}

	ids := make([]string, 0, len(activities))
	for _, kegiatan := range activities {
		ids = append(ids, kegiatan.ID)
	}
	records, err := s.kegiatanRepo.ListAbsensiByKegiatanIDs(ctx, ids)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load absensi kegiatan")
	}
	recordByID := make(map[string]*models.AbsensiKegiatan, len(records))
	for i := range records {
		recordByID[records[i].KegiatanID] = &records[i]
	}

	var items []KegiatanHistoryItem
	for _, kegiatan := range activities {
		if now.Before(kegiatan.WaktuBerakhir) {
			continue
		}
		role, obligated := RoleFor(&kegiatan, guruID)
		if !obligated {
			continue
		}
		item := KegiatanHistoryItem{
			Kegiatan:   kegiatan,
			Role:       role,
			Status:     models.AttendanceStatusAlpha,
			Keterangan: keteranganTidakAbsen,
		}
		if record := recordByID[kegiatan.ID]; record != nil {
			switch role {
			case models.KegiatanRolePJ:
				if record.Status == models.RecordSubmitted {
					item.Status = record.PJStatus
					item.Keterangan = derefString(record.PJKeterangan)
				}
			case models.KegiatanRolePendamping:
				if entry, ok := record.AbsensiPendamping.Find(guruID); ok {
					item.Status = entry.Status
					item.Keterangan = entry.Keterangan
				}
			}
		}
		items = append(items, item)
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Kegiatan.WaktuMulai.After(items[j].Kegiatan.WaktuMulai)
	})
	return items, nil
}

// Rapat reconstructs a guru's meeting history over the range. Only concluded
// meetings appear, with the same Alpha default as activities.
func (s *RiwayatService) Rapat(ctx context.Context, guruID string, from, to time.Time) ([]RapatHistoryItem, error) {
	now := s.clock.Now()
	from, to = s.clampRange(from, to, now)

	meetings, err := s.rapatRepo.ListForGuru(ctx, guruID, from, to)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load rapat")
	}

	ids := make([]string, 0, len(meetings))
	for _, rapat := range meetings {
		ids = append(ids, rapat.ID)
	}
	records, err := s.rapatRepo.ListAbsensiByRapatIDs(ctx, ids)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load absensi rapat")
	}
	recordByID := make(map[string]*models.AbsensiRapat, len(records))
	for i := range records {
		recordByID[records[i].RapatID] = &records[i]
	}

	var items []RapatHistoryItem
	for _, rapat := range meetings {
		if !s.rapatConcluded(now, &rapat) {
			continue
		}
		role, obligated := RapatRoleFor(&rapat, guruID)
		if !obligated {
			continue
		}
		item := RapatHistoryItem{
			Rapat:      rapat,
			Role:       role,
			Status:     models.AttendanceStatusAlpha,
			Keterangan: keteranganTidakAbsen,
		}
		if record := recordByID[rapat.ID]; record != nil {
			switch role {
			case models.RapatRolePimpinan:
				if record.PimpinanSelfAttended || record.Status == models.RecordSubmitted {
					item.Status = record.PimpinanStatus
					item.Keterangan = derefString(record.PimpinanKeterangan)
				}
			case models.RapatRoleSekretaris:
				if record.Status == models.RecordSubmitted {
					item.Status = record.SekretarisStatus
					item.Keterangan = ""
				}
			case models.RapatRolePeserta:
				if entry, ok := record.AbsensiPeserta.Find(guruID); ok {
					if entry.SelfAttended || record.Status == models.RecordSubmitted {
						item.Status = entry.Status
						item.Keterangan = entry.Keterangan
					}
				}
			}
		}
		items = append(items, item)
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Rapat.Tanggal.After(items[j].Rapat.Tanggal)
	})
	return items, nil
}

func (s *RiwayatService) rapatConcluded(now time.Time, rapat *models.Rapat) bool {
	_, end, err := ParseJamWindow(rapat.Tanggal, rapat.WaktuMulai, rapat.WaktuSelesai, s.clock.Location())
	if err != nil {
		s.logger.Warn("rapat has malformed time window",
			zap.String("rapat_id", rapat.ID), zap.Error(err))
		return truncateToDay(rapat.Tanggal).Before(truncateToDay(now))
	}
	return !now.Before(end)
}

func (s *RiwayatService) liburSet(ctx context.Context, from, to time.Time) (map[string]bool, error) {
	ranges, err := s.kalenderRepo.ListLiburRanges(ctx, from, to)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load kalender")
	}
	libur := make(map[string]bool)
	for _, entry := range ranges {
		for day := truncateToDay(entry.TanggalMulai); !day.After(entry.TanggalSelesai); day = day.AddDate(0, 0, 1) {
			libur[day.Format("2006-01-02")] = true
		}
	}
	return libur, nil
}

// clampRange keeps history bounded to the past and applies a default window
// when the caller provides none.
func (s *RiwayatService) clampRange(from, to time.Time, now time.Time) (time.Time, time.Time) {
	today := truncateToDay(now)
	if to.IsZero() || to.After(today) {
		to = today
	}
	if from.IsZero() {
		from = to.AddDate(0, -1, 0)
	}
	if from.After(to) {
		from = to
	}
	return truncateToDay(from), truncateToDay(to)
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
