package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// PartyEntry is one obligated party's attendance inside a multi-party record
// (activity companions, meeting participants). Stored as a JSONB list column.
// SelfAttended marks that the party reported themselves rather than being
// marked by the authoritative submitter; once true the flag and AttendedAt
// survive every later merge.
type PartyEntry struct {
	GuruID       string           `json:"guru_id"`
	Status       AttendanceStatus `json:"status"`
	Keterangan   string           `json:"keterangan,omitempty"`
	SelfAttended bool             `json:"self_attended"`
	AttendedAt   *time.Time       `json:"attended_at,omitempty"`
}

// PartyEntryList is a JSONB column holding PartyEntry records.
type PartyEntryList []PartyEntry

// Value implements driver.Valuer.
func (l PartyEntryList) Value() (driver.Value, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner. Entries are validated on read: a malformed
// element or an unknown status letter is a data-integrity error.
func (l *PartyEntryList) Scan(src interface{}) error {
	raw, err := jsonbBytes(src)
	if err != nil {
		return fmt.Errorf("party entries: %w", err)
	}
	if len(raw) == 0 {
		*l = nil
		return nil
	}
	var entries []PartyEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return fmt.Errorf("decode party entries: %w", err)
	}
	for i, entry := range entries {
		if entry.GuruID == "" {
			return fmt.Errorf("party entry %d: missing guru_id", i)
		}
		if !entry.Status.Valid() {
			return fmt.Errorf("party entry %d: invalid status %q", i, entry.Status)
		}
	}
	*l = entries
	return nil
}

// Find returns the entry for the given guru, if present.
func (l PartyEntryList) Find(guruID string) (PartyEntry, bool) {
	for _, entry := range l {
		if entry.GuruID == guruID {
			return entry, true
		}
	}
	return PartyEntry{}, false
}

// SiswaEntry is a per-student attendance element inside an activity record.
type SiswaEntry struct {
	SiswaID    string           `json:"siswa_id"`
	Nama       string           `json:"nama,omitempty"`
	Status     AttendanceStatus `json:"status"`
	Keterangan string           `json:"keterangan,omitempty"`
}

// SiswaEntryList is a JSONB column holding SiswaEntry records.
type SiswaEntryList []SiswaEntry

// Value implements driver.Valuer.
func (l SiswaEntryList) Value() (driver.Value, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner.
func (l *SiswaEntryList) Scan(src interface{}) error {
	raw, err := jsonbBytes(src)
	if err != nil {
		return fmt.Errorf("siswa entries: %w", err)
	}
	if len(raw) == 0 {
		*l = nil
		return nil
	}
	var entries []SiswaEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return fmt.Errorf("decode siswa entries: %w", err)
	}
	*l = entries
	return nil
}

// StringList is a JSONB column holding a plain list of strings (ids, photo
// URLs, external guest names).
type StringList []string

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(src interface{}) error {
	raw, err := jsonbBytes(src)
	if err != nil {
		return fmt.Errorf("string list: %w", err)
	}
	if len(raw) == 0 {
		*l = nil
		return nil
	}
	var values []string
	if err := json.Unmarshal(raw, &values); err != nil {
		return fmt.Errorf("decode string list: %w", err)
	}
	*l = values
	return nil
}

// Contains reports whether the list holds the given value.
func (l StringList) Contains(value string) bool {
	for _, v := range l {
		if v == value {
			return true
		}
	}
	return false
}

func jsonbBytes(src interface{}) ([]byte, error) {
	switch v := src.(type) {
	case nil:
		return nil, nil
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, fmt.Errorf("unsupported source type %T", src)
	}
}
