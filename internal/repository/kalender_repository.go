package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/presensi-guru-api/internal/models"
)

// KalenderRepository handles persistence for academic calendar entries.
type KalenderRepository struct {
	db *sqlx.DB
}

// NewKalenderRepository constructs the repository.
func NewKalenderRepository(db *sqlx.DB) *KalenderRepository {
	return &KalenderRepository{db: db}
}

// ListLiburRanges returns Libur entries whose range overlaps [from, to].
func (r *KalenderRepository) ListLiburRanges(ctx context.Context, from, to time.Time) ([]models.Kalender, error) {
	query := `SELECT id, keterangan, tanggal_mulai, tanggal_selesai, status_kbm, created_at, updated_at
FROM kalender
WHERE status_kbm = $1 AND tanggal_mulai <= $3 AND tanggal_selesai >= $2
ORDER BY tanggal_mulai ASC`
	var rows []models.Kalender
	if err := r.db.SelectContext(ctx, &rows, query, models.KalenderStatusLibur, from, to); err != nil {
		return nil, fmt.Errorf("list libur ranges: %w", err)
	}
	return rows, nil
}
