package models

import "strings"

// AttendanceStatus is the canonical H/I/S/A attendance alphabet. The letters
// are an external contract shared with the mobile frontend and payroll
// tooling and must not change.
type AttendanceStatus string

const (
	AttendanceStatusHadir AttendanceStatus = "H"
	AttendanceStatusIzin  AttendanceStatus = "I"
	AttendanceStatusSakit AttendanceStatus = "S"
	AttendanceStatusAlpha AttendanceStatus = "A"
)

// Valid returns true when the status is a supported value.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendanceStatusHadir, AttendanceStatusIzin, AttendanceStatusSakit, AttendanceStatusAlpha:
		return true
	default:
		return false
	}
}

// Severity orders statuses for worst-case merging: A > S > I > H.
func (s AttendanceStatus) Severity() int {
	switch s {
	case AttendanceStatusAlpha:
		return 4
	case AttendanceStatusSakit:
		return 3
	case AttendanceStatusIzin:
		return 2
	case AttendanceStatusHadir:
		return 1
	default:
		return 0
	}
}

// NormalizeStatus maps raw input ("h", "HADIR", "sakit", ...) onto the
// canonical enum. Unknown input returns Hadir with ok=false; callers that
// require strictness must check ok.
func NormalizeStatus(raw string) (AttendanceStatus, bool) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "H", "HADIR":
		return AttendanceStatusHadir, true
	case "I", "IZIN":
		return AttendanceStatusIzin, true
	case "S", "SAKIT":
		return AttendanceStatusSakit, true
	case "A", "ALPHA", "ALPA":
		return AttendanceStatusAlpha, true
	default:
		return AttendanceStatusHadir, false
	}
}

// WorstStatus returns the more severe of two statuses.
func WorstStatus(a, b AttendanceStatus) AttendanceStatus {
	if b.Severity() > a.Severity() {
		return b
	}
	return a
}

// PresenceStatus is the derived obligation state shown to the guru. The four
// literal strings are consumed by frontend color coding verbatim.
type PresenceStatus string

const (
	PresenceBelumMulai        PresenceStatus = "belum_mulai"
	PresenceSedangBerlangsung PresenceStatus = "sedang_berlangsung"
	PresenceTerlewat          PresenceStatus = "terlewat"
	PresenceSudahAbsen        PresenceStatus = "sudah_absen"
)

// RecordStatus marks whether a multi-party attendance record has been filed
// by its authoritative submitter.
type RecordStatus string

const (
	RecordDraft     RecordStatus = "draft"
	RecordSubmitted RecordStatus = "submitted"
)
