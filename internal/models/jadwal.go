package models

import "time"

// JadwalStatusAktif marks an active weekly slot; anything else is treated as
// soft-deactivated.
const JadwalStatusAktif = "Aktif"

// Jadwal is a recurring weekly teaching slot. Hari holds the Indonesian
// weekday name ("Senin".."Minggu"); JamMulai/JamSelesai are "HH:MM" wall
// clock times in the institution zone.
type Jadwal struct {
	ID            string    `db:"id" json:"id"`
	GuruID        string    `db:"guru_id" json:"guru_id"`
	Mapel         string    `db:"mapel" json:"mapel"`
	Kelas         string    `db:"kelas" json:"kelas"`
	Hari          string    `db:"hari" json:"hari"`
	JamMulai      string    `db:"jam_mulai" json:"jam_mulai"`
	JamSelesai    string    `db:"jam_selesai" json:"jam_selesai"`
	TahunAjaranID string    `db:"tahun_ajaran_id" json:"tahun_ajaran_id"`
	Status        string    `db:"status" json:"status"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// JadwalFilter defines query filters for weekly slots.
type JadwalFilter struct {
	GuruID        string
	Hari          string
	Kelas         string
	TahunAjaranID string
	ActiveOnly    bool
}

var hariNames = map[time.Weekday]string{
	time.Monday:    "Senin",
	time.Tuesday:   "Selasa",
	time.Wednesday: "Rabu",
	time.Thursday:  "Kamis",
	time.Friday:    "Jumat",
	time.Saturday:  "Sabtu",
	time.Sunday:    "Minggu",
}

// HariName returns the Indonesian weekday name used by Jadwal.Hari.
func HariName(day time.Weekday) string {
	return hariNames[day]
}
