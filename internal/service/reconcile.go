package service

import "github.com/noah-isme/presensi-guru-api/internal/models"

// MergeParticipants reconciles an authoritative submission's party list with
// previously self-reported entries. The incoming list is the source of truth
// for membership; for each incoming entry the submitter's status and
// keterangan apply, but a prior self_attended=true flag and its attended_at
// timestamp are never erased. Entries only present in the existing list are
// dropped. Applying the same submission twice yields the same result.
func MergeParticipants(existing, incoming []models.PartyEntry) []models.PartyEntry {
	prior := make(map[string]models.PartyEntry, len(existing))
	for _, entry := range existing {
		prior[entry.GuruID] = entry
	}

	merged := make([]models.PartyEntry, 0, len(incoming))
	for _, entry := range incoming {
		if previous, ok := prior[entry.GuruID]; ok && previous.SelfAttended {
			entry.SelfAttended = true
			entry.AttendedAt = previous.AttendedAt
		}
		merged = append(merged, entry)
	}
	return merged
}

// UpsertSelfReport updates the caller's own entry in a party list, or appends
// it when absent. The self_attended flag and attended_at timestamp always
// reflect this self-report.
func UpsertSelfReport(entries []models.PartyEntry, report models.PartyEntry) []models.PartyEntry {
	report.SelfAttended = true
	for i, entry := range entries {
		if entry.GuruID == report.GuruID {
			updated := make([]models.PartyEntry, len(entries))
			copy(updated, entries)
			updated[i] = report
			return updated
		}
	}
	return append(append([]models.PartyEntry{}, entries...), report)
}
