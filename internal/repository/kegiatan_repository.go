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

// KegiatanRepository handles persistence for activities and their single
// multi-party attendance record.
type KegiatanRepository struct {
	db *sqlx.DB
}

// NewKegiatanRepository constructs the repository.
func NewKegiatanRepository(db *sqlx.DB) *KegiatanRepository {
	return &KegiatanRepository{db: db}
}

const kegiatanColumns = `id, nama, penanggung_jawab_id, pendamping_ids, kelas_peserta, lokasi,
waktu_mulai, waktu_berakhir, aktif, created_at, updated_at`

const absensiKegiatanColumns = `id, kegiatan_id, tanggal, pj_status, pj_keterangan, absensi_pendamping,
absensi_siswa, catatan, foto, status, is_unlocked, created_at, updated_at`

// GetByID returns a single activity.
func (r *KegiatanRepository) GetByID(ctx context.Context, id string) (*models.Kegiatan, error) {
	query := fmt.Sprintf(`SELECT %s FROM kegiatan WHERE id = $1`, kegiatanColumns)
	var kegiatan models.Kegiatan
	if err := r.db.GetContext(ctx, &kegiatan, query, id); err != nil {
		return nil, fmt.Errorf("get kegiatan: %w", err)
	}
	return &kegiatan, nil
}

// ListForGuru returns active activities overlapping the window where the guru
// is PJ or companion.
func (r *KegiatanRepository) ListForGuru(ctx context.Context, guruID string, from, to time.Time) ([]models.Kegiatan, error) {
	query := fmt.Sprintf(`SELECT %s FROM kegiatan
WHERE aktif = TRUE
  AND waktu_mulai <= $2 AND waktu_berakhir >= $1
  AND (penanggung_jawab_id = $3 OR pendamping_ids @> to_jsonb(ARRAY[$3]::text[]))
ORDER BY waktu_mulai ASC`, kegiatanColumns)
	var rows []models.Kegiatan
	if err := r.db.SelectContext(ctx, &rows, query, from, to, guruID); err != nil {
		return nil, fmt.Errorf("list kegiatan for guru: %w", err)
	}
	return rows, nil
}

// ListRange returns active activities whose duration overlaps the range.
func (r *KegiatanRepository) ListRange(ctx context.Context, from, to time.Time) ([]models.Kegiatan, error) {
	query := fmt.Sprintf(`SELECT %s FROM kegiatan
WHERE aktif = TRUE AND waktu_mulai <= $2 AND waktu_berakhir >= $1
ORDER BY waktu_mulai ASC`, kegiatanColumns)
	var rows []models.Kegiatan
	if err := r.db.SelectContext(ctx, &rows, query, from, to); err != nil {
		return nil, fmt.Errorf("list kegiatan range: %w", err)
	}
	return rows, nil
}

// GetAbsensi returns the activity's attendance record, if filed.
func (r *KegiatanRepository) GetAbsensi(ctx context.Context, kegiatanID string) (*models.AbsensiKegiatan, error) {
	query := fmt.Sprintf(`SELECT %s FROM absensi_kegiatan WHERE kegiatan_id = $1`, absensiKegiatanColumns)
	var record models.AbsensiKegiatan
	if err := r.db.GetContext(ctx, &record, query, kegiatanID); err != nil {
		return nil, fmt.Errorf("get absensi kegiatan: %w", err)
	}
	return &record, nil
}

// ListAbsensiByKegiatanIDs returns filed records for the given activities.
func (r *KegiatanRepository) ListAbsensiByKegiatanIDs(ctx context.Context, ids []string) ([]models.AbsensiKegiatan, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In(fmt.Sprintf(`SELECT %s FROM absensi_kegiatan WHERE kegiatan_id IN (?)`, absensiKegiatanColumns), ids)
	if err != nil {
		return nil, fmt.Errorf("build absensi kegiatan query: %w", err)
	}
	query = r.db.Rebind(query)
	var rows []models.AbsensiKegiatan
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list absensi kegiatan: %w", err)
	}
	return rows, nil
}

// Upsert writes the activity's single record keyed by kegiatan_id. Used by
// companion self-reports, which may legitimately update a draft.
func (r *KegiatanRepository) Upsert(ctx context.Context, record *models.AbsensiKegiatan) (*models.AbsensiKegiatan, error) {
	now := time.Now().UTC()
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now
	query := fmt.Sprintf(`INSERT INTO absensi_kegiatan (%s)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
ON CONFLICT (kegiatan_id)
DO UPDATE SET pj_status = EXCLUDED.pj_status, pj_keterangan = EXCLUDED.pj_keterangan,
	absensi_pendamping = EXCLUDED.absensi_pendamping, absensi_siswa = EXCLUDED.absensi_siswa,
	catatan = EXCLUDED.catatan, foto = EXCLUDED.foto, status = EXCLUDED.status,
	is_unlocked = EXCLUDED.is_unlocked, updated_at = EXCLUDED.updated_at
RETURNING %s`, absensiKegiatanColumns, absensiKegiatanColumns)
	var stored models.AbsensiKegiatan
	if err := r.db.GetContext(ctx, &stored, query,
		record.ID, record.KegiatanID, record.Tanggal, record.PJStatus, record.PJKeterangan,
		record.AbsensiPendamping, record.AbsensiSiswa, record.Catatan, record.Foto,
		record.Status, record.IsUnlocked, record.CreatedAt, record.UpdatedAt); err != nil {
		return nil, fmt.Errorf("upsert absensi kegiatan: %w", err)
	}
	return &stored, nil
}

// UpsertSubmit writes the PJ's authoritative submission. The conditional
// update refuses to overwrite a submitted-and-locked record even under
// concurrent submitters: the loser observes submitted=false.
func (r *KegiatanRepository) UpsertSubmit(ctx context.Context, record *models.AbsensiKegiatan) (*models.AbsensiKegiatan, bool, error) {
	now := time.Now().UTC()
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now
	query := fmt.Sprintf(`INSERT INTO absensi_kegiatan (%s)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
ON CONFLICT (kegiatan_id)
DO UPDATE SET pj_status = EXCLUDED.pj_status, pj_keterangan = EXCLUDED.pj_keterangan,
	absensi_pendamping = EXCLUDED.absensi_pendamping, absensi_siswa = EXCLUDED.absensi_siswa,
	catatan = EXCLUDED.catatan, foto = EXCLUDED.foto, status = EXCLUDED.status,
	is_unlocked = FALSE, updated_at = EXCLUDED.updated_at
WHERE absensi_kegiatan.status <> 'submitted' OR absensi_kegiatan.is_unlocked
RETURNING %s`, absensiKegiatanColumns, absensiKegiatanColumns)
	var stored models.AbsensiKegiatan
	err := r.db.GetContext(ctx, &stored, query,
		record.ID, record.KegiatanID, record.Tanggal, record.PJStatus, record.PJKeterangan,
		record.AbsensiPendamping, record.AbsensiSiswa, record.Catatan, record.Foto,
		record.Status, record.IsUnlocked, record.CreatedAt, record.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("submit absensi kegiatan: %w", err)
	}
	return &stored, true, nil
}
