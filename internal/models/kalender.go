package models

import "time"

// KalenderStatusLibur marks a non-instructional date range. Libur days
// suppress weekly-schedule obligations but never one-off meetings or
// activities scheduled on them.
const KalenderStatusLibur = "Libur"

// Kalender is an academic calendar entry covering an inclusive date range.
type Kalender struct {
	ID             string    `db:"id" json:"id"`
	Keterangan     string    `db:"keterangan" json:"keterangan"`
	TanggalMulai   time.Time `db:"tanggal_mulai" json:"tanggal_mulai"`
	TanggalSelesai time.Time `db:"tanggal_selesai" json:"tanggal_selesai"`
	StatusKBM      string    `db:"status_kbm" json:"status_kbm"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}
