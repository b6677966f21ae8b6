package models

import "time"

// Kegiatan is a dated or date-ranged institutional activity with one
// responsible party (PJ), companion teachers, and participant classes.
type Kegiatan struct {
	ID               string     `db:"id" json:"id"`
	Nama             string     `db:"nama" json:"nama"`
	PenanggungJawabID string    `db:"penanggung_jawab_id" json:"penanggung_jawab_id"`
	PendampingIDs    StringList `db:"pendamping_ids" json:"pendamping_ids"`
	KelasPeserta     StringList `db:"kelas_peserta" json:"kelas_peserta"`
	Lokasi           *string    `db:"lokasi" json:"lokasi,omitempty"`
	WaktuMulai       time.Time  `db:"waktu_mulai" json:"waktu_mulai"`
	WaktuBerakhir    time.Time  `db:"waktu_berakhir" json:"waktu_berakhir"`
	Aktif            bool       `db:"aktif" json:"aktif"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updated_at"`
}

// AbsensiKegiatan covers the activity's entire duration: at most one record
// per kegiatan, enforced by a unique constraint, never one per day.
type AbsensiKegiatan struct {
	ID                string           `db:"id" json:"id"`
	KegiatanID        string           `db:"kegiatan_id" json:"kegiatan_id"`
	Tanggal           time.Time        `db:"tanggal" json:"tanggal"`
	PJStatus          AttendanceStatus `db:"pj_status" json:"pj_status"`
	PJKeterangan      *string          `db:"pj_keterangan" json:"pj_keterangan,omitempty"`
	AbsensiPendamping PartyEntryList   `db:"absensi_pendamping" json:"absensi_pendamping"`
	AbsensiSiswa      SiswaEntryList   `db:"absensi_siswa" json:"absensi_siswa"`
	Catatan           *string          `db:"catatan" json:"catatan,omitempty"`
	Foto              StringList       `db:"foto" json:"foto"`
	Status            RecordStatus     `db:"status" json:"status"`
	IsUnlocked        bool             `db:"is_unlocked" json:"is_unlocked"`
	CreatedAt         time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time        `db:"updated_at" json:"updated_at"`
}

// KegiatanRole identifies how a guru is obligated to an activity.
type KegiatanRole string

const (
	KegiatanRolePJ         KegiatanRole = "penanggung_jawab"
	KegiatanRolePendamping KegiatanRole = "pendamping"
)
