package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/presensi-guru-api/internal/models"
)

func jakartaLoc(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Jakarta")
	require.NoError(t, err)
	return loc
}

func TestDeriveStatusPrecedence(t *testing.T) {
	loc := jakartaLoc(t)
	start := time.Date(2026, 3, 2, 8, 0, 0, 0, loc)
	end := time.Date(2026, 3, 2, 9, 30, 0, 0, loc)

	tests := []struct {
		name          string
		now           time.Time
		authoritative bool
		want          models.PresenceStatus
	}{
		{"record wins before window", time.Date(2026, 3, 2, 7, 0, 0, 0, loc), true, models.PresenceSudahAbsen},
		{"record wins after window", time.Date(2026, 3, 2, 11, 0, 0, 0, loc), true, models.PresenceSudahAbsen},
		{"before start", time.Date(2026, 3, 2, 7, 59, 0, 0, loc), false, models.PresenceBelumMulai},
		{"at start", start, false, models.PresenceSedangBerlangsung},
		{"inside window", time.Date(2026, 3, 2, 8, 45, 0, 0, loc), false, models.PresenceSedangBerlangsung},
		{"at end", end, false, models.PresenceSedangBerlangsung},
		{"after end", time.Date(2026, 3, 2, 9, 31, 0, 0, loc), false, models.PresenceTerlewat},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DeriveStatus(tc.now, start, end, tc.authoritative))
		})
	}
}

func TestDeriveStatusForDateFutureDay(t *testing.T) {
	loc := jakartaLoc(t)
	now := time.Date(2026, 3, 2, 23, 0, 0, 0, loc)
	tomorrow := time.Date(2026, 3, 3, 0, 0, 0, 0, loc)
	start := time.Date(2026, 3, 3, 7, 0, 0, 0, loc)
	end := time.Date(2026, 3, 3, 8, 0, 0, 0, loc)

	// A future day is pending even late at night, regardless of the wall clock.
	assert.Equal(t, models.PresenceBelumMulai, DeriveStatusForDate(now, tomorrow, start, end, false))
	assert.Equal(t, models.PresenceSudahAbsen, DeriveStatusForDate(now, tomorrow, start, end, true))
}

func TestParseJamWindow(t *testing.T) {
	loc := jakartaLoc(t)
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, loc)

	start, end, err := ParseJamWindow(date, "07:15", "08:45", loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 2, 7, 15, 0, 0, loc), start)
	assert.Equal(t, time.Date(2026, 3, 2, 8, 45, 0, 0, loc), end)

	start, _, err = ParseJamWindow(date, "07:15:30", "08:45:00", loc)
	require.NoError(t, err)
	assert.Equal(t, 15, start.Minute())

	_, _, err = ParseJamWindow(date, "7 pagi", "08:45", loc)
	assert.Error(t, err)
	_, _, err = ParseJamWindow(date, "07:15", "", loc)
	assert.Error(t, err)
}

func TestKegiatanAuthorityPerRole(t *testing.T) {
	record := &models.AbsensiKegiatan{
		Status: models.RecordDraft,
		AbsensiPendamping: models.PartyEntryList{
			{GuruID: "g-2", Status: models.AttendanceStatusHadir, SelfAttended: true},
			{GuruID: "g-3", Status: models.AttendanceStatusHadir},
		},
	}

	// Companion draft self-report never marks the PJ as done.
	assert.False(t, KegiatanAuthority(record, models.KegiatanRolePJ, "g-1"))
	assert.True(t, KegiatanAuthority(record, models.KegiatanRolePendamping, "g-2"))
	assert.False(t, KegiatanAuthority(record, models.KegiatanRolePendamping, "g-3"))

	record.Status = models.RecordSubmitted
	assert.True(t, KegiatanAuthority(record, models.KegiatanRolePJ, "g-1"))

	assert.False(t, KegiatanAuthority(nil, models.KegiatanRolePJ, "g-1"))
}

func TestRapatAuthorityPerRole(t *testing.T) {
	record := &models.AbsensiRapat{
		Status:               models.RecordDraft,
		PimpinanSelfAttended: true,
		AbsensiPeserta: models.PartyEntryList{
			{GuruID: "g-5", Status: models.AttendanceStatusHadir, SelfAttended: true},
		},
	}

	assert.True(t, RapatAuthority(record, models.RapatRolePimpinan, "g-1"))
	assert.False(t, RapatAuthority(record, models.RapatRoleSekretaris, "g-4"))
	assert.True(t, RapatAuthority(record, models.RapatRolePeserta, "g-5"))
	assert.False(t, RapatAuthority(record, models.RapatRolePeserta, "g-6"))

	record.Status = models.RecordSubmitted
	assert.True(t, RapatAuthority(record, models.RapatRoleSekretaris, "g-4"))
}
