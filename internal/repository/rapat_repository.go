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

// RapatRepository handles persistence for meetings and their single
// multi-party attendance record.
type RapatRepository struct {
	db *sqlx.DB
}

// NewRapatRepository constructs the repository.
func NewRapatRepository(db *sqlx.DB) *RapatRepository {
	return &RapatRepository{db: db}
}

const rapatColumns = `id, judul, pimpinan_id, sekretaris_id, peserta_ids, tamu_eksternal, lokasi,
tanggal, waktu_mulai, waktu_selesai, status, created_at, updated_at`

const absensiRapatColumns = `id, rapat_id, pimpinan_status, pimpinan_keterangan, pimpinan_self_attended,
pimpinan_attended_at, sekretaris_status, absensi_peserta, notulensi, foto, status, is_unlocked, created_at, updated_at`

// GetByID returns a single meeting.
func (r *RapatRepository) GetByID(ctx context.Context, id string) (*models.Rapat, error) {
	query := fmt.Sprintf(`SELECT %s FROM rapat WHERE id = $1`, rapatColumns)
	var rapat models.Rapat
	if err := r.db.GetContext(ctx, &rapat, query, id); err != nil {
		return nil, fmt.Errorf("get rapat: %w", err)
	}
	return &rapat, nil
}

// ListForGuru returns meetings in the window where the guru is pimpinan,
// sekretaris, or listed peserta.
func (r *RapatRepository) ListForGuru(ctx context.Context, guruID string, from, to time.Time) ([]models.Rapat, error) {
	query := fmt.Sprintf(`SELECT %s FROM rapat
WHERE tanggal >= $1 AND tanggal <= $2
  AND (pimpinan_id = $3 OR sekretaris_id = $3 OR peserta_ids @> to_jsonb(ARRAY[$3]::text[]))
ORDER BY tanggal ASC, waktu_mulai ASC`, rapatColumns)
	var rows []models.Rapat
	if err := r.db.SelectContext(ctx, &rows, query, from, to, guruID); err != nil {
		return nil, fmt.Errorf("list rapat for guru: %w", err)
	}
	return rows, nil
}

// ListRange returns meetings dated within the range.
func (r *RapatRepository) ListRange(ctx context.Context, from, to time.Time) ([]models.Rapat, error) {
	query := fmt.Sprintf(`SELECT %s FROM rapat
WHERE tanggal >= $1 AND tanggal <= $2
ORDER BY tanggal ASC`, rapatColumns)
	var rows []models.Rapat
	if err := r.db.SelectContext(ctx, &rows, query, from, to); err != nil {
		return nil, fmt.Errorf("list rapat range: %w", err)
	}
	return rows, nil
}

// GetAbsensi returns the meeting's attendance record, if filed.
func (r *RapatRepository) GetAbsensi(ctx context.Context, rapatID string) (*models.AbsensiRapat, error) {
	query := fmt.Sprintf(`SELECT %s FROM absensi_rapat WHERE rapat_id = $1`, absensiRapatColumns)
	var record models.AbsensiRapat
	if err := r.db.GetContext(ctx, &record, query, rapatID); err != nil {
		return nil, fmt.Errorf("get absensi rapat: %w", err)
	}
	return &record, nil
}

// ListAbsensiByRapatIDs returns filed records for the given meetings.
func (r *RapatRepository) ListAbsensiByRapatIDs(ctx context.Context, ids []string) ([]models.AbsensiRapat, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In(fmt.Sprintf(`SELECT %s FROM absensi_rapat WHERE rapat_id IN (?)`, absensiRapatColumns), ids)
	if err != nil {
		return nil, fmt.Errorf("build absensi rapat query: %w", err)
	}
	query = r.db.Rebind(query)
	var rows []models.AbsensiRapat
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list absensi rapat: %w", err)
	}
	return rows, nil
}

// Upsert writes the meeting's single record keyed by rapat_id. Used by
// pimpinan and peserta self-reports against a draft.
func (r *RapatRepository) Upsert(ctx context.Context, record *models.AbsensiRapat) (*models.AbsensiRapat, error) {
	now := time.Now().UTC()
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now
	query := fmt.Sprintf(`INSERT INTO absensi_rapat (%s)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
ON CONFLICT (rapat_id)
DO UPDATE SET pimpinan_status = EXCLUDED.pimpinan_status, pimpinan_keterangan = EXCLUDED.pimpinan_keterangan,
	pimpinan_self_attended = EXCLUDED.pimpinan_self_attended, pimpinan_attended_at = EXCLUDED.pimpinan_attended_at,
	sekretaris_status = EXCLUDED.sekretaris_status, absensi_peserta = EXCLUDED.absensi_peserta,
	notulensi = EXCLUDED.notulensi, foto = EXCLUDED.foto, status = EXCLUDED.status,
	is_unlocked = EXCLUDED.is_unlocked, updated_at = EXCLUDED.updated_at
RETURNING %s`, absensiRapatColumns, absensiRapatColumns)
	var stored models.AbsensiRapat
	if err := r.db.GetContext(ctx, &stored, query,
		record.ID, record.RapatID, record.PimpinanStatus, record.PimpinanKeterangan,
		record.PimpinanSelfAttended, record.PimpinanAttendedAt, record.SekretarisStatus,
		record.AbsensiPeserta, record.Notulensi, record.Foto, record.Status,
		record.IsUnlocked, record.CreatedAt, record.UpdatedAt); err != nil {
		return nil, fmt.Errorf("upsert absensi rapat: %w", err)
	}
	return &stored, nil
}

// UpsertSubmit writes the secretary's authoritative submission. The
// conditional update refuses to overwrite a submitted-and-locked record; the
// losing concurrent submitter observes submitted=false.
func (r *RapatRepository) UpsertSubmit(ctx context.Context, record *models.AbsensiRapat) (*models.AbsensiRapat, bool, error) {
	now := time.Now().UTC()
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now
	query := fmt.Sprintf(`INSERT INTO absensi_rapat (%s)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
ON CONFLICT (rapat_id)
DO UPDATE SET pimpinan_status = EXCLUDED.pimpinan_status, pimpinan_keterangan = EXCLUDED.pimpinan_keterangan,
	pimpinan_self_attended = EXCLUDED.pimpinan_self_attended, pimpinan_attended_at = EXCLUDED.pimpinan_attended_at,
	sekretaris_status = EXCLUDED.sekretaris_status, absensi_peserta = EXCLUDED.absensi_peserta,
	notulensi = EXCLUDED.notulensi, foto = EXCLUDED.foto, status = EXCLUDED.status,
	is_unlocked = FALSE, updated_at = EXCLUDED.updated_at
WHERE absensi_rapat.status <> 'submitted' OR absensi_rapat.is_unlocked
RETURNING %s`, absensiRapatColumns, absensiRapatColumns)
	var stored models.AbsensiRapat
	err := r.db.GetContext(ctx, &stored, query,
		record.ID, record.RapatID, record.PimpinanStatus, record.PimpinanKeterangan,
		record.PimpinanSelfAttended, record.PimpinanAttendedAt, record.SekretarisStatus,
		record.AbsensiPeserta, record.Notulensi, record.Foto, record.Status,
		record.IsUnlocked, record.CreatedAt, record.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("submit absensi rapat: %w", err)
	}
	return &stored, true, nil
}
