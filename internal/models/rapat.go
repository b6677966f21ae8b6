package models

import "time"

// Rapat is a dated meeting with a leader, a secretary, a participant teacher
// list, and optional external guests. WaktuMulai/WaktuSelesai are "HH:MM"
// wall clock times on Tanggal.
type Rapat struct {
	ID           string     `db:"id" json:"id"`
	Judul        string     `db:"judul" json:"judul"`
	PimpinanID   string     `db:"pimpinan_id" json:"pimpinan_id"`
	SekretarisID string     `db:"sekretaris_id" json:"sekretaris_id"`
	PesertaIDs   StringList `db:"peserta_ids" json:"peserta_ids"`
	TamuEksternal StringList `db:"tamu_eksternal" json:"tamu_eksternal"`
	Lokasi       *string    `db:"lokasi" json:"lokasi,omitempty"`
	Tanggal      time.Time  `db:"tanggal" json:"tanggal"`
	WaktuMulai   string     `db:"waktu_mulai" json:"waktu_mulai"`
	WaktuSelesai string     `db:"waktu_selesai" json:"waktu_selesai"`
	Status       string     `db:"status" json:"status"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// AbsensiRapat is the meeting's single attendance record: at most one per
// rapat, enforced by a unique constraint.
type AbsensiRapat struct {
	ID                   string           `db:"id" json:"id"`
	RapatID              string           `db:"rapat_id" json:"rapat_id"`
	PimpinanStatus       AttendanceStatus `db:"pimpinan_status" json:"pimpinan_status"`
	PimpinanKeterangan   *string          `db:"pimpinan_keterangan" json:"pimpinan_keterangan,omitempty"`
	PimpinanSelfAttended bool             `db:"pimpinan_self_attended" json:"pimpinan_self_attended"`
	PimpinanAttendedAt   *time.Time       `db:"pimpinan_attended_at" json:"pimpinan_attended_at,omitempty"`
	SekretarisStatus     AttendanceStatus `db:"sekretaris_status" json:"sekretaris_status"`
	AbsensiPeserta       PartyEntryList   `db:"absensi_peserta" json:"absensi_peserta"`
	Notulensi            *string          `db:"notulensi" json:"notulensi,omitempty"`
	Foto                 StringList       `db:"foto" json:"foto"`
	Status               RecordStatus     `db:"status" json:"status"`
	IsUnlocked           bool             `db:"is_unlocked" json:"is_unlocked"`
	CreatedAt            time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time        `db:"updated_at" json:"updated_at"`
}

// RapatRole identifies how a guru is obligated to a meeting.
type RapatRole string

const (
	RapatRolePimpinan   RapatRole = "pimpinan"
	RapatRoleSekretaris RapatRole = "sekretaris"
	RapatRolePeserta    RapatRole = "peserta"
)
