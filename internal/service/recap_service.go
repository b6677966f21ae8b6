package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/presensi-guru-api/internal/models"
	appErrors "github.com/noah-isme/presensi-guru-api/pkg/errors"
	"github.com/noah-isme/presensi-guru-api/pkg/export"
)

type recapGuruRepository interface {
	ListActive(ctx context.Context) ([]models.Guru, error)
}

type recapJadwalRepository interface {
	ListActiveAll(ctx context.Context) ([]models.Jadwal, error)
}

type recapMengajarRepository interface {
	ListRange(ctx context.Context, from, to time.Time) ([]models.AbsensiMengajar, error)
	SchoolDays(ctx context.Context, kelas string, from, to time.Time) ([]time.Time, error)
	ListSiswaRange(ctx context.Context, kelas string, from, to time.Time) ([]models.AbsensiSiswa, error)
}

type recapKegiatanRepository interface {
	ListRange(ctx context.Context, from, to time.Time) ([]models.Kegiatan, error)
	ListAbsensiByKegiatanIDs(ctx context.Context, ids []string) ([]models.AbsensiKegiatan, error)
}

type recapRapatRepository interface {
	ListRange(ctx context.Context, from, to time.Time) ([]models.Rapat, error)
	ListAbsensiByRapatIDs(ctx context.Context, ids []string) ([]models.AbsensiRapat, error)
}

type recapKalenderRepository interface {
	ListLiburRanges(ctx context.Context, from, to time.Time) ([]models.Kalender, error)
}

// RecapService builds the monthly attendance grids for admins. Grids combine
// obligations (what should have happened) with records (what was filed); a
// day with an obligation but no record rolls up as Alpha.
type RecapService struct {
	guruRepo     recapGuruRepository
	jadwalRepo   recapJadwalRepository
	mengajarRepo recapMengajarRepository
	kegiatanRepo recapKegiatanRepository
	rapatRepo    recapRapatRepository
	kalenderRepo recapKalenderRepository
	cache        *CacheService
	cacheTTL     time.Duration
	csv          *export.CSVExporter
	pdf          *export.PDFExporter
	clock        Clock
	logger       *zap.Logger
}

// NewRecapService constructs the recap service.
func NewRecapService(
	guruRepo recapGuruRepository,
	jadwalRepo recapJadwalRepository,
	mengajarRepo recapMengajarRepository,
	kegiatanRepo recapKegiatanRepository,
	rapatRepo recapRapatRepository,
	kalenderRepo recapKalenderRepository,
	cache *CacheService,
	cacheTTL time.Duration,
	clock Clock,
	logger *zap.Logger,
) *RecapService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = 15 * time.Minute
	}
	return &RecapService{
		guruRepo:     guruRepo,
		jadwalRepo:   jadwalRepo,
		mengajarRepo: mengajarRepo,
		kegiatanRepo: kegiatanRepo,
		rapatRepo:    rapatRepo,
		kalenderRepo: kalenderRepo,
		cache:        cache,
		cacheTTL:     cacheTTL,
		csv:          export.NewCSVExporter(),
		pdf:          export.NewPDFExporter(),
		clock:        clock,
		logger:       logger,
	}
}

// statusMerge folds one more status letter into a day cell, worst wins.
func statusMerge(current, incoming models.AttendanceStatus) models.AttendanceStatus {
	if current == "" {
		return incoming
	}
	return models.WorstStatus(current, incoming)
}

// normalizeRecordStatus cleans a stored status letter for roll-up. Grids never
// fail on a single dirty row: unknown letters degrade to Hadir.
func normalizeRecordStatus(raw models.AttendanceStatus) models.AttendanceStatus {
	if status, ok := models.NormalizeStatus(string(raw)); ok {
		return status
	}
	return models.AttendanceStatusHadir
}

// GuruMonthly builds the institution-wide teacher roll-up for a month.
// Weekly-schedule obligations are suppressed on Libur days; meeting and
// activity obligations are not. Obligated days with no status roll up as
// Alpha; teachers without a single obligated day in the month are omitted.
func (s *RecapService) GuruMonthly(ctx context.Context, bulan, tahun int) (*models.RecapResponse, error) {
	if bulan < 1 || bulan > 12 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "bulan must be 1-12")
	}

	cacheKey := fmt.Sprintf("rekap:guru:%04d-%02d", tahun, bulan)
	if s.cache.Enabled() {
		var cached models.RecapResponse
		if hit, _ := s.cache.Get(ctx, cacheKey, &cached); hit {
			return &cached, nil
		}
	}

	loc := s.clock.Location()
	monthStart := time.Date(tahun, time.Month(bulan), 1, 0, 0, 0, 0, loc)
	monthEnd := monthStart.AddDate(0, 1, -1)
	daysInMonth := monthEnd.Day()

	teachers, err := s.guruRepo.ListActive(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load guru roster")
	}
	libur, err := s.liburDays(ctx, monthStart, monthEnd)
	if err != nil {
		return nil, err
	}

	// obligated[guruID][day] and status[guruID][day] build up per source; the
	// final pass resolves them into cells.
	obligated := make(map[string]map[int]bool)
	status := make(map[string]map[int]models.AttendanceStatus)
	markObligation := func(guruID string, day int) {
		if obligated[guruID] == nil {
			obligated[guruID] = make(map[int]bool)
		}
		obligated[guruID][day] = true
	}
	markStatus := func(guruID string, day int, incoming models.AttendanceStatus) {
		if status[guruID] == nil {
			status[guruID] = make(map[int]models.AttendanceStatus)
		}
		status[guruID][day] = statusMerge(status[guruID][day], incoming)
	}

	if err := s.applyJadwalObligations(ctx, monthStart, daysInMonth, libur, markObligation); err != nil {
		return nil, err
	}
	if err := s.applyMengajarRecords(ctx, monthStart, monthEnd, libur, markObligation, markStatus); err != nil {
		return nil, err
	}
	if err := s.applyRapat(ctx, monthStart, monthEnd, bulan, tahun, markObligation, markStatus); err != nil {
		return nil, err
	}
	if err := s.applyKegiatan(ctx, monthStart, monthEnd, daysInMonth, bulan, tahun, markObligation, markStatus); err != nil {
		return nil, err
	}

	response := &models.RecapResponse{Bulan: bulan, Tahun: tahun, DaysInMonth: daysInMonth}
	for _, guru := range teachers {
		guruDays := obligated[guru.ID]
		if len(guruDays) == 0 {
			continue
		}
		row := models.GuruMonthlyRecap{
			GuruID: guru.ID,
			Nama:   guru.Nama,
			Days:   make(map[int]string, daysInMonth),
			Totals: map[string]int{"H": 0, "I": 0, "S": 0, "A": 0},
		}
		for day := 1; day <= daysInMonth; day++ {
			if !guruDays[day] {
				row.Days[day] = ""
				continue
			}
			cell := models.AttendanceStatusAlpha
			if recorded, ok := status[guru.ID][day]; ok && recorded != "" {
				cell = recorded
			}
			row.Days[day] = string(cell)
			row.Totals[string(cell)]++
		}
		response.Guru = append(response.Guru, row)
	}
	sort.SliceStable(response.Guru, func(i, j int) bool {
		return response.Guru[i].Nama < response.Guru[j].Nama
	})

	if s.cache.Enabled() {
		_ = s.cache.Set(ctx, cacheKey, response, s.cacheTTL)
	}
	return response, nil
}

func (s *RecapService) applyJadwalObligations(ctx context.Context, monthStart time.Time, daysInMonth int, libur map[int]bool, markObligation func(string, int)) error {
	slots, err := s.jadwalRepo.ListActiveAll(ctx)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load jadwal")
	}
	slotsByHari := make(map[string][]models.Jadwal)
	for _, jadwal := range slots {
		slotsByHari[jadwal.Hari] = append(slotsByHari[jadwal.Hari], jadwal)
	}
	for day := 1; day <= daysInMonth; day++ {
		if libur[day] {
			continue
		}
		date := monthStart.AddDate(0, 0, day-1)
		for _, jadwal := range slotsByHari[models.HariName(date.Weekday())] {
			markObligation(jadwal.GuruID, day)
		}
	}
	return nil
}

func (s *RecapService) applyMengajarRecords(ctx context.Context, monthStart, monthEnd time.Time, libur map[int]bool, markObligation func(string, int), markStatus func(string, int, models.AttendanceStatus)) error {
	records, err := s.mengajarRepo.ListRange(ctx, monthStart, monthEnd)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load absensi mengajar")
	}
	for _, record := range records {
		day := record.Tanggal.Day()
		if libur[day] {
			continue
		}
		// A filed record is itself proof of obligation even when the slot was
		// later deactivated or rescheduled.
		markObligation(record.GuruID, day)
		markStatus(record.GuruID, day, normalizeRecordStatus(record.GuruStatus))
	}
	return nil
}

func (s *RecapService) applyRapat(ctx context.Context, monthStart, monthEnd time.Time, bulan, tahun int, markObligation func(string, int), markStatus func(string, int, models.AttendanceStatus)) error {
	meetings, err := s.rapatRepo.ListRange(ctx, monthStart, monthEnd)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load rapat")
	}
	ids := make([]string, 0, len(meetings))
	for _, rapat := range meetings {
		ids = append(ids, rapat.ID)
	}
	records, err := s.rapatRepo.ListAbsensiByRapatIDs(ctx, ids)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load absensi rapat")
	}
	recordByID := make(map[string]*models.AbsensiRapat, len(records))
	for i := range records {
		recordByID[records[i].RapatID] = &records[i]
	}

	for _, rapat := range meetings {
		if int(rapat.Tanggal.Month()) != bulan || rapat.Tanggal.Year() != tahun {
			continue
		}
		day := rapat.Tanggal.Day()
		markObligation(rapat.PimpinanID, day)
		markObligation(rapat.SekretarisID, day)
		for _, pesertaID := range rapat.PesertaIDs {
			markObligation(pesertaID, day)
		}
		record := recordByID[rapat.ID]
		if record == nil {
			continue
		}
		if record.PimpinanSelfAttended || record.Status == models.RecordSubmitted {
			markStatus(rapat.PimpinanID, day, normalizeRecordStatus(record.PimpinanStatus))
		}
		if record.Status == models.RecordSubmitted {
			markStatus(rapat.SekretarisID, day, normalizeRecordStatus(record.SekretarisStatus))
		}
		for _, entry := range record.AbsensiPeserta {
			if entry.SelfAttended || record.Status == models.RecordSubmitted {
				markStatus(entry.GuruID, day, normalizeRecordStatus(entry.Status))
			}
		}
	}
	return nil
}

func (s *RecapService) applyKegiatan(ctx context.Context, monthStart, monthEnd time.Time, daysInMonth, bulan, tahun int, markObligation func(string, int), markStatus func(string, int, models.AttendanceStatus)) error {
	activities, err := s.kegiatanRepo.ListRange(ctx, monthStart, monthEnd)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load kegiatan")
	}
	ids := make([]string, 0, len(activities))
	for _, kegiatan := range activities {
		ids = append(ids, kegiatan.ID)
	}
	records, err := s.kegiatanRepo.ListAbsensiByKegiatanIDs(ctx, ids)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load absensi kegiatan")
	}
	recordByID := make(map[string]*models.AbsensiKegiatan, len(records))
	for i := range records {
		recordByID[records[i].KegiatanID] = &records[i]
	}

	for _, kegiatan := range activities {
		record := recordByID[kegiatan.ID]
		for day := 1; day <= daysInMonth; day++ {
			date := time.Date(tahun, time.Month(bulan), day, 12, 0, 0, 0, monthStart.Location())
			if date.Before(truncateToDay(kegiatan.WaktuMulai)) || date.After(kegiatan.WaktuBerakhir.Add(24*time.Hour)) {
				continue
			}
			if !overlapsDay(kegiatan.WaktuMulai, kegiatan.WaktuBerakhir, truncateToDay(date)) {
				continue
			}
			markObligation(kegiatan.PenanggungJawabID, day)
			for _, pendampingID := range kegiatan.PendampingIDs {
				markObligation(pendampingID, day)
			}
			if record == nil {
				continue
			}
			if record.Status == models.RecordSubmitted {
				markStatus(kegiatan.PenanggungJawabID, day, normalizeRecordStatus(record.PJStatus))
			}
			for _, entry := range record.AbsensiPendamping {
				if entry.SelfAttended || record.Status == models.RecordSubmitted {
					markStatus(entry.GuruID, day, normalizeRecordStatus(entry.Status))
				}
			}
		}
	}
	return nil
}

// overlapsDay reports whether [start, end] touches the calendar day at
// midnight day..day+24h.
func overlapsDay(start, end time.Time, day time.Time) bool {
	dayEnd := day.Add(24 * time.Hour)
	return start.Before(dayEnd) && !end.Before(day)
}

// KelasMonthly builds the per-class student grid. School days are the dates a
// teaching attendance was filed for the class; Hadir is the default on a
// school day and overrides stored as S/I/A replace it.
func (s *RecapService) KelasMonthly(ctx context.Context, kelas string, bulan, tahun int) (*models.KelasRecapResponse, error) {
	if bulan < 1 || bulan > 12 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "bulan must be 1-12")
	}
	kelas = strings.TrimSpace(kelas)
	if kelas == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "kelas is required")
	}

	cacheKey := fmt.Sprintf("rekap:kelas:%s:%04d-%02d", kelas, tahun, bulan)
	if s.cache.Enabled() {
		var cached models.KelasRecapResponse
		if hit, _ := s.cache.Get(ctx, cacheKey, &cached); hit {
			return &cached, nil
		}
	}

	loc := s.clock.Location()
	monthStart := time.Date(tahun, time.Month(bulan), 1, 0, 0, 0, 0, loc)
	monthEnd := monthStart.AddDate(0, 1, -1)
	daysInMonth := monthEnd.Day()

	schoolDates, err := s.mengajarRepo.SchoolDays(ctx, kelas, monthStart, monthEnd)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load school days")
	}
	schoolDay := make(map[int]bool, len(schoolDates))
	schoolDays := make([]int, 0, len(schoolDates))
	for _, date := range schoolDates {
		day := date.Day()
		if !schoolDay[day] {
			schoolDay[day] = true
			schoolDays = append(schoolDays, day)
		}
	}
	sort.Ints(schoolDays)

	overrides, err := s.mengajarRepo.ListSiswaRange(ctx, kelas, monthStart, monthEnd)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load absensi siswa")
	}

	type siswaInfo struct {
		nama string
		days map[int]models.AttendanceStatus
	}
	bySiswa := make(map[string]*siswaInfo)
	for _, row := range overrides {
		info := bySiswa[row.SiswaID]
		if info == nil {
			info = &siswaInfo{nama: row.Nama, days: make(map[int]models.AttendanceStatus)}
			bySiswa[row.SiswaID] = info
		}
		if info.nama == "" {
			info.nama = row.Nama
		}
		info.days[row.Tanggal.Day()] = normalizeRecordStatus(row.Status)
	}

	response := &models.KelasRecapResponse{
		Kelas:       kelas,
		Bulan:       bulan,
		Tahun:       tahun,
		DaysInMonth: daysInMonth,
		SchoolDays:  schoolDays,
	}
	for siswaID, info := range bySiswa {
		row := models.SiswaMonthlyRecap{
			SiswaID: siswaID,
			Nama:    info.nama,
			Days:    make(map[int]string, daysInMonth),
			Totals:  map[string]int{"H": 0, "I": 0, "S": 0, "A": 0},
		}
		for day := 1; day <= daysInMonth; day++ {
			if !schoolDay[day] {
				row.Days[day] = ""
				continue
			}
			cell := models.AttendanceStatusHadir
			if override, ok := info.days[day]; ok {
				cell = override
			}
			row.Days[day] = string(cell)
			row.Totals[string(cell)]++
		}
		response.Siswa = append(response.Siswa, row)
	}
	sort.SliceStable(response.Siswa, func(i, j int) bool {
		return response.Siswa[i].Nama < response.Siswa[j].Nama
	})

	if s.cache.Enabled() {
		_ = s.cache.Set(ctx, cacheKey, response, s.cacheTTL)
	}
	return response, nil
}

// GuruMonthlyCSV renders the teacher roll-up as CSV bytes.
func (s *RecapService) GuruMonthlyCSV(ctx context.Context, bulan, tahun int) ([]byte, error) {
	recap, err := s.GuruMonthly(ctx, bulan, tahun)
	if err != nil {
		return nil, err
	}
	payload, err := s.csv.RenderRecap(recapSheet(recap))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
	}
	return payload, nil
}

// GuruMonthlyPDF renders the teacher roll-up as PDF bytes.
func (s *RecapService) GuruMonthlyPDF(ctx context.Context, bulan, tahun int) ([]byte, error) {
	recap, err := s.GuruMonthly(ctx, bulan, tahun)
	if err != nil {
		return nil, err
	}
	payload, err := s.pdf.RenderRecap(recapSheet(recap))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
	}
	return payload, nil
}

func recapSheet(recap *models.RecapResponse) export.RecapSheet {
	sheet := export.RecapSheet{
		Title:       "Rekap Kehadiran Guru",
		Subtitle:    fmt.Sprintf("%s %d", monthName(recap.Bulan), recap.Tahun),
		DaysInMonth: recap.DaysInMonth,
	}
	for _, row := range recap.Guru {
		sheet.Rows = append(sheet.Rows, export.RecapRow{
			Name:   row.Nama,
			Days:   row.Days,
			Totals: row.Totals,
		})
	}
	return sheet
}

var monthNames = [...]string{"", "Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember"}

func monthName(bulan int) string {
	if bulan < 1 || bulan > 12 {
		return ""
	}
	return monthNames[bulan]
}

// liburDays resolves Libur calendar ranges into day numbers of the month.
func (s *RecapService) liburDays(ctx context.Context, monthStart, monthEnd time.Time) (map[int]bool, error) {
	ranges, err := s.kalenderRepo.ListLiburRanges(ctx, monthStart, monthEnd)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load kalender")
	}
	libur := make(map[int]bool)
	for _, entry := range ranges {
		for day := truncateToDay(entry.TanggalMulai); !day.After(entry.TanggalSelesai); day = day.AddDate(0, 0, 1) {
			if day.Month() == monthStart.Month() && day.Year() == monthStart.Year() {
				libur[day.Day()] = true
			}
		}
	}
	return libur, nil
}
