package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/presensi-guru-api/internal/models"
)

func TestMergeParticipantsPreservesSelfReports(t *testing.T) {
	attendedAt := time.Date(2026, 3, 2, 8, 10, 0, 0, time.UTC)
	existing := []models.PartyEntry{
		{GuruID: "g-1", Status: models.AttendanceStatusHadir, SelfAttended: true, AttendedAt: &attendedAt},
		{GuruID: "g-2", Status: models.AttendanceStatusIzin},
	}
	incoming := []models.PartyEntry{
		{GuruID: "g-1", Status: models.AttendanceStatusIzin, Keterangan: "izin rapat dinas"},
		{GuruID: "g-3", Status: models.AttendanceStatusAlpha},
	}

	merged := MergeParticipants(existing, incoming)
	require.Len(t, merged, 2)

	// Submitter's status applies but the self-report provenance survives.
	assert.Equal(t, "g-1", merged[0].GuruID)
	assert.Equal(t, models.AttendanceStatusIzin, merged[0].Status)
	assert.Equal(t, "izin rapat dinas", merged[0].Keterangan)
	assert.True(t, merged[0].SelfAttended)
	require.NotNil(t, merged[0].AttendedAt)
	assert.True(t, merged[0].AttendedAt.Equal(attendedAt))

	// g-2 was absent from the incoming list and drops; g-3 is new.
	assert.Equal(t, "g-3", merged[1].GuruID)
	assert.False(t, merged[1].SelfAttended)
}

func TestMergeParticipantsIdempotent(t *testing.T) {
	attendedAt := time.Date(2026, 3, 2, 8, 10, 0, 0, time.UTC)
	existing := []models.PartyEntry{
		{GuruID: "g-1", Status: models.AttendanceStatusHadir, SelfAttended: true, AttendedAt: &attendedAt},
	}
	incoming := []models.PartyEntry{
		{GuruID: "g-1", Status: models.AttendanceStatusHadir},
		{GuruID: "g-2", Status: models.AttendanceStatusSakit},
	}

	once := MergeParticipants(existing, incoming)
	twice := MergeParticipants(once, incoming)
	assert.Equal(t, once, twice)
}

func TestMergeParticipantsEmptyIncomingDropsAll(t *testing.T) {
	existing := []models.PartyEntry{
		{GuruID: "g-1", Status: models.AttendanceStatusHadir, SelfAttended: true},
	}
	assert.Empty(t, MergeParticipants(existing, nil))
}

func TestUpsertSelfReport(t *testing.T) {
	attendedAt := time.Date(2026, 3, 2, 8, 10, 0, 0, time.UTC)
	entries := []models.PartyEntry{
		{GuruID: "g-1", Status: models.AttendanceStatusAlpha},
		{GuruID: "g-2", Status: models.AttendanceStatusHadir},
	}

	updated := UpsertSelfReport(entries, models.PartyEntry{
		GuruID:     "g-1",
		Status:     models.AttendanceStatusHadir,
		AttendedAt: &attendedAt,
	})
	require.Len(t, updated, 2)
	assert.Equal(t, models.AttendanceStatusHadir, updated[0].Status)
	assert.True(t, updated[0].SelfAttended)
	// Original slice is untouched.
	assert.False(t, entries[0].SelfAttended)

	appended := UpsertSelfReport(entries, models.PartyEntry{GuruID: "g-9", Status: models.AttendanceStatusHadir})
	require.Len(t, appended, 3)
	assert.Equal(t, "g-9", appended[2].GuruID)
	assert.True(t, appended[2].SelfAttended)
}
