package service

import (
	"fmt"
	"time"

	"github.com/noah-isme/presensi-guru-api/internal/models"
)

// DeriveStatus computes the obligation state shown to a guru, in this exact
// precedence: an authoritative record wins unconditionally, then the time
// window against now decides. "Authoritative" is role-dependent; callers
// resolve it before calling (see AuthorityFor* helpers).
func DeriveStatus(now, start, end time.Time, authoritative bool) models.PresenceStatus {
	if authoritative {
		return models.PresenceSudahAbsen
	}
	if now.Before(start) {
		return models.PresenceBelumMulai
	}
	if !now.After(end) {
		return models.PresenceSedangBerlangsung
	}
	return models.PresenceTerlewat
}

// DeriveStatusForDate scopes derivation to a target calendar day: a future
// day is always belum_mulai; today and past days fall through to the
// time-window comparison with the window anchored on that day.
func DeriveStatusForDate(now time.Time, date time.Time, start, end time.Time, authoritative bool) models.PresenceStatus {
	if authoritative {
		return models.PresenceSudahAbsen
	}
	nowDay := truncateToDay(now)
	targetDay := truncateToDay(date)
	if targetDay.After(nowDay) {
		return models.PresenceBelumMulai
	}
	return DeriveStatus(now, start, end, false)
}

// ParseJamWindow resolves "HH:MM" start/end strings onto a calendar day in
// the given zone. Malformed times are a data-integrity error; callers degrade
// to belum_mulai and log.
func ParseJamWindow(date time.Time, jamMulai, jamSelesai string, loc *time.Location) (time.Time, time.Time, error) {
	start, err := parseJamOn(date, jamMulai, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("jam_mulai: %w", err)
	}
	end, err := parseJamOn(date, jamSelesai, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("jam_selesai: %w", err)
	}
	return start, end, nil
}

func parseJamOn(date time.Time, jam string, loc *time.Location) (time.Time, error) {
	parsed, err := time.Parse("15:04", jam)
	if err != nil {
		parsed, err = time.Parse("15:04:05", jam)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid time %q", jam)
		}
	}
	return time.Date(date.Year(), date.Month(), date.Day(), parsed.Hour(), parsed.Minute(), 0, 0, loc), nil
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// KegiatanAuthority resolves whether an activity record is authoritative for
// the viewer. The PJ only counts their own submitted record; a companion's
// draft self-report never short-circuits the PJ's view. A companion counts
// their own self_attended entry regardless of overall record state.
func KegiatanAuthority(record *models.AbsensiKegiatan, role models.KegiatanRole, guruID string) bool {
	if record == nil {
		return false
	}
	switch role {
	case models.KegiatanRolePJ:
		return record.Status == models.RecordSubmitted
	case models.KegiatanRolePendamping:
		entry, ok := record.AbsensiPendamping.Find(guruID)
		return ok && entry.SelfAttended
	default:
		return false
	}
}

// RapatAuthority resolves whether a meeting record is authoritative for the
// viewer: sekretaris on submission, pimpinan on their own self-report flag,
// peserta on their own self_attended entry.
func RapatAuthority(record *models.AbsensiRapat, role models.RapatRole, guruID string) bool {
	if record == nil {
		return false
	}
	switch role {
	case models.RapatRoleSekretaris:
		return record.Status == models.RecordSubmitted
	case models.RapatRolePimpinan:
		return record.PimpinanSelfAttended
	case models.RapatRolePeserta:
		entry, ok := record.AbsensiPeserta.Find(guruID)
		return ok && entry.SelfAttended
	default:
		return false
	}
}
