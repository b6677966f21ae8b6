package models

import "time"

// AbsensiMengajar is a filed teaching attendance: at most one per
// (jadwal_id, tanggal), enforced by a unique constraint. Snapshot columns
// denormalise the slot's class/subject/time so history survives schedule
// edits. Student counts are aggregated at filing time.
type AbsensiMengajar struct {
	ID              string           `db:"id" json:"id"`
	JadwalID        string           `db:"jadwal_id" json:"jadwal_id"`
	GuruID          string           `db:"guru_id" json:"guru_id"`
	Tanggal         time.Time        `db:"tanggal" json:"tanggal"`
	GuruStatus      AttendanceStatus `db:"guru_status" json:"guru_status"`
	GuruKeterangan  *string          `db:"guru_keterangan" json:"guru_keterangan,omitempty"`
	Materi          *string          `db:"materi" json:"materi,omitempty"`
	Catatan         *string          `db:"catatan" json:"catatan,omitempty"`
	SnapshotKelas   string           `db:"snapshot_kelas" json:"snapshot_kelas"`
	SnapshotMapel   string           `db:"snapshot_mapel" json:"snapshot_mapel"`
	SnapshotJam     string           `db:"snapshot_jam" json:"snapshot_jam"`
	SnapshotHari    string           `db:"snapshot_hari" json:"snapshot_hari"`
	SiswaHadir      int              `db:"siswa_hadir" json:"siswa_hadir"`
	SiswaSakit      int              `db:"siswa_sakit" json:"siswa_sakit"`
	SiswaIzin       int              `db:"siswa_izin" json:"siswa_izin"`
	SiswaAlpha      int              `db:"siswa_alpha" json:"siswa_alpha"`
	IsUnlocked      bool             `db:"is_unlocked" json:"is_unlocked"`
	AbsensiTime     time.Time        `db:"absensi_time" json:"absensi_time"`
	CreatedAt       time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time        `db:"updated_at" json:"updated_at"`
}

// AbsensiSiswa is a per-student override for a date. Hadir is implicit: a
// student with no row for a school day counts as present, so only I/S/A rows
// are stored and an H submission deletes any stored row.
type AbsensiSiswa struct {
	ID         string           `db:"id" json:"id"`
	SiswaID    string           `db:"siswa_id" json:"siswa_id"`
	Nama       string           `db:"nama" json:"nama"`
	Kelas      string           `db:"kelas" json:"kelas"`
	Tanggal    time.Time        `db:"tanggal" json:"tanggal"`
	Status     AttendanceStatus `db:"status" json:"status"`
	Keterangan *string          `db:"keterangan" json:"keterangan,omitempty"`
	CreatedAt  time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time        `db:"updated_at" json:"updated_at"`
}

// SiswaCounts aggregates a class submission for snapshotting.
type SiswaCounts struct {
	Hadir int `json:"siswa_hadir"`
	Sakit int `json:"siswa_sakit"`
	Izin  int `json:"siswa_izin"`
	Alpha int `json:"siswa_alpha"`
}
