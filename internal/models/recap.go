package models

// GuruMonthlyRecap is one teacher's month in the institution-wide roll-up:
// day number to "H"/"I"/"S"/"A", or "" when the day carried no obligation.
type GuruMonthlyRecap struct {
	GuruID string         `json:"guru_id"`
	Nama   string         `json:"nama"`
	Days   map[int]string `json:"days"`
	Totals map[string]int `json:"totals"`
}

// SiswaMonthlyRecap is one student's month in the per-class grid.
type SiswaMonthlyRecap struct {
	SiswaID string         `json:"siswa_id"`
	Nama    string         `json:"nama"`
	Days    map[int]string `json:"days"`
	Totals  map[string]int `json:"totals"`
}

// RecapResponse wraps a month of recap rows.
type RecapResponse struct {
	Bulan       int                `json:"bulan"`
	Tahun       int                `json:"tahun"`
	DaysInMonth int                `json:"days_in_month"`
	Guru        []GuruMonthlyRecap `json:"guru,omitempty"`
}

// KelasRecapResponse wraps a class's month of student rows.
type KelasRecapResponse struct {
	Kelas       string              `json:"kelas"`
	Bulan       int                 `json:"bulan"`
	Tahun       int                 `json:"tahun"`
	DaysInMonth int                 `json:"days_in_month"`
	SchoolDays  []int               `json:"school_days"`
	Siswa       []SiswaMonthlyRecap `json:"siswa"`
}
