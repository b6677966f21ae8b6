package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/presensi-guru-api/internal/models"
)

// MengajarRepository handles persistence for teaching attendance and the
// per-student override rows beneath it.
type MengajarRepository struct {
	db *sqlx.DB
}

// NewMengajarRepository constructs the repository.
func NewMengajarRepository(db *sqlx.DB) *MengajarRepository {
	return &MengajarRepository{db: db}
}

const absensiMengajarColumns = `id, jadwal_id, guru_id, tanggal, guru_status, guru_keterangan, materi, catatan,
snapshot_kelas, snapshot_mapel, snapshot_jam, snapshot_hari,
siswa_hadir, siswa_sakit, siswa_izin, siswa_alpha, is_unlocked, absensi_time, created_at, updated_at`

// InsertOnce files a teaching attendance exactly once per (jadwal, tanggal).
// The unique constraint plus DO NOTHING makes concurrent duplicate filings
// race-free: the loser observes inserted=false instead of a constraint error.
func (r *MengajarRepository) InsertOnce(ctx context.Context, record *models.AbsensiMengajar) (*models.AbsensiMengajar, bool, error) {
	now := time.Now().UTC()
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	record.CreatedAt = now
	record.UpdatedAt = now

	query := fmt.Sprintf(`INSERT INTO absensi_mengajar (%s)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
ON CONFLICT (jadwal_id, tanggal) DO NOTHING
RETURNING %s`, absensiMengajarColumns, absensiMengajarColumns)

	var stored models.AbsensiMengajar
	err := r.db.GetContext(ctx, &stored, query,
		record.ID, record.JadwalID, record.GuruID, record.Tanggal,
		record.GuruStatus, record.GuruKeterangan, record.Materi, record.Catatan,
		record.SnapshotKelas, record.SnapshotMapel, record.SnapshotJam, record.SnapshotHari,
		record.SiswaHadir, record.SiswaSakit, record.SiswaIzin, record.SiswaAlpha,
		record.IsUnlocked, record.AbsensiTime, record.CreatedAt, record.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("insert absensi mengajar: %w", err)
	}
	return &stored, true, nil
}

// UpdateUnlocked re-files a record that an admin explicitly unlocked. The
// WHERE guard keeps locked records immutable even under races; updated=false
// means no unlocked record existed.
func (r *MengajarRepository) UpdateUnlocked(ctx context.Context, record *models.AbsensiMengajar) (*models.AbsensiMengajar, bool, error) {
	record.UpdatedAt = time.Now().UTC()
	query := fmt.Sprintf(`UPDATE absensi_mengajar
SET guru_status = $3, guru_keterangan = $4, materi = $5, catatan = $6,
	siswa_hadir = $7, siswa_sakit = $8, siswa_izin = $9, siswa_alpha = $10,
	is_unlocked = FALSE, absensi_time = $11, updated_at = $12
WHERE jadwal_id = $1 AND tanggal = $2 AND is_unlocked
RETURNING %s`, absensiMengajarColumns)
	var stored models.AbsensiMengajar
	err := r.db.GetContext(ctx, &stored, query,
		record.JadwalID, record.Tanggal, record.GuruStatus, record.GuruKeterangan,
		record.Materi, record.Catatan, record.SiswaHadir, record.SiswaSakit,
		record.SiswaIzin, record.SiswaAlpha, record.AbsensiTime, record.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("update unlocked absensi mengajar: %w", err)
	}
	return &stored, true, nil
}

// GetByJadwalTanggal returns the filed record for a slot on a date, if any.
func (r *MengajarRepository) GetByJadwalTanggal(ctx context.Context, jadwalID string, tanggal time.Time) (*models.AbsensiMengajar, error) {
	query := fmt.Sprintf(`SELECT %s FROM absensi_mengajar WHERE jadwal_id = $1 AND tanggal = $2`, absensiMengajarColumns)
	var record models.AbsensiMengajar
	if err := r.db.GetContext(ctx, &record, query, jadwalID, tanggal); err != nil {
		return nil, fmt.Errorf("get absensi mengajar: %w", err)
	}
	return &record, nil
}

// ListByGuruRange returns a guru's filed records within an inclusive date range.
func (r *MengajarRepository) ListByGuruRange(ctx context.Context, guruID string, from, to time.Time) ([]models.AbsensiMengajar, error) {
	query := fmt.Sprintf(`SELECT %s FROM absensi_mengajar
WHERE guru_id = $1 AND tanggal >= $2 AND tanggal <= $3
ORDER BY tanggal DESC`, absensiMengajarColumns)
	var rows []models.AbsensiMengajar
	if err := r.db.SelectContext(ctx, &rows, query, guruID, from, to); err != nil {
		return nil, fmt.Errorf("list absensi mengajar by guru: %w", err)
	}
	return rows, nil
}

// ListRange returns all filed records within an inclusive date range.
func (r *MengajarRepository) ListRange(ctx context.Context, from, to time.Time) ([]models.AbsensiMengajar, error) {
	query := fmt.Sprintf(`SELECT %s FROM absensi_mengajar
WHERE tanggal >= $1 AND tanggal <= $2`, absensiMengajarColumns)
	var rows []models.AbsensiMengajar
	if err := r.db.SelectContext(ctx, &rows, query, from, to); err != nil {
		return nil, fmt.Errorf("list absensi mengajar range: %w", err)
	}
	return rows, nil
}

// SchoolDays returns the distinct dates a class had a filed teaching
// attendance within the range.
func (r *MengajarRepository) SchoolDays(ctx context.Context, kelas string, from, to time.Time) ([]time.Time, error) {
	query := `SELECT DISTINCT tanggal FROM absensi_mengajar
WHERE snapshot_kelas = $1 AND tanggal >= $2 AND tanggal <= $3
ORDER BY tanggal ASC`
	var days []time.Time
	if err := r.db.SelectContext(ctx, &days, query, kelas, from, to); err != nil {
		return nil, fmt.Errorf("school days: %w", err)
	}
	return days, nil
}

// UpsertSiswa stores a student's I/S/A override for a date. Hadir rows are
// never stored; callers delete instead.
func (r *MengajarRepository) UpsertSiswa(ctx context.Context, record *models.AbsensiSiswa) error {
	now := time.Now().UTC()
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now
	query := `INSERT INTO absensi_siswa (id, siswa_id, nama, kelas, tanggal, status, keterangan, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (siswa_id, tanggal)
DO UPDATE SET status = EXCLUDED.status, keterangan = EXCLUDED.keterangan, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.ExecContext(ctx, query,
		record.ID, record.SiswaID, record.Nama, record.Kelas, record.Tanggal,
		record.Status, record.Keterangan, record.CreatedAt, record.UpdatedAt); err != nil {
		return fmt.Errorf("upsert absensi siswa: %w", err)
	}
	return nil
}

// DeleteSiswa removes a student's override for a date (the student is Hadir).
func (r *MengajarRepository) DeleteSiswa(ctx context.Context, siswaID string, tanggal time.Time) error {
	query := `DELETE FROM absensi_siswa WHERE siswa_id = $1 AND tanggal = $2`
	if _, err := r.db.ExecContext(ctx, query, siswaID, tanggal); err != nil {
		return fmt.Errorf("delete absensi siswa: %w", err)
	}
	return nil
}

// ListSiswaRange returns stored student overrides for a class within a range.
func (r *MengajarRepository) ListSiswaRange(ctx context.Context, kelas string, from, to time.Time) ([]models.AbsensiSiswa, error) {
	query := `SELECT id, siswa_id, nama, kelas, tanggal, status, keterangan, created_at, updated_at
FROM absensi_siswa
WHERE kelas = $1 AND tanggal >= $2 AND tanggal <= $3
ORDER BY tanggal ASC`
	var rows []models.AbsensiSiswa
	if err := r.db.SelectContext(ctx, &rows, query, kelas, from, to); err != nil {
		return nil, fmt.Errorf("list absensi siswa range: %w", err)
	}
	return rows, nil
}
