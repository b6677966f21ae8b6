package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/presensi-guru-api/internal/models"
)

// JadwalRepository handles persistence for weekly teaching slots.
type JadwalRepository struct {
	db *sqlx.DB
}

// NewJadwalRepository constructs the repository.
func NewJadwalRepository(db *sqlx.DB) *JadwalRepository {
	return &JadwalRepository{db: db}
}

const jadwalColumns = `id, guru_id, mapel, kelas, hari, jam_mulai, jam_selesai, tahun_ajaran_id, status, created_at, updated_at`

// List returns weekly slots matching the provided filter, ordered by start time.
func (r *JadwalRepository) List(ctx context.Context, filter models.JadwalFilter) ([]models.Jadwal, error) {
	where := []string{"1=1"}
	args := []interface{}{}
	if filter.GuruID != "" {
		where = append(where, fmt.Sprintf("guru_id = $%d", len(args)+1))
		args = append(args, filter.GuruID)
	}
	if filter.Hari != "" {
		where = append(where, fmt.Sprintf("hari = $%d", len(args)+1))
		args = append(args, filter.Hari)
	}
	if filter.Kelas != "" {
		where = append(where, fmt.Sprintf("kelas = $%d", len(args)+1))
		args = append(args, filter.Kelas)
	}
	if filter.TahunAjaranID != "" {
		where = append(where, fmt.Sprintf("tahun_ajaran_id = $%d", len(args)+1))
		args = append(args, filter.TahunAjaranID)
	}
	if filter.ActiveOnly {
		where = append(where, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, models.JadwalStatusAktif)
	}

	query := fmt.Sprintf(`SELECT %s FROM jadwal WHERE %s ORDER BY jam_mulai ASC`,
		jadwalColumns, strings.Join(where, " AND "))

	var rows []models.Jadwal
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list jadwal: %w", err)
	}
	return rows, nil
}

// GetByID returns a single weekly slot.
func (r *JadwalRepository) GetByID(ctx context.Context, id string) (*models.Jadwal, error) {
	query := fmt.Sprintf(`SELECT %s FROM jadwal WHERE id = $1`, jadwalColumns)
	var jadwal models.Jadwal
	if err := r.db.GetContext(ctx, &jadwal, query, id); err != nil {
		return nil, fmt.Errorf("get jadwal: %w", err)
	}
	return &jadwal, nil
}

// ListActiveAll returns every active slot, used by the monthly roll-up.
func (r *JadwalRepository) ListActiveAll(ctx context.Context) ([]models.Jadwal, error) {
	query := fmt.Sprintf(`SELECT %s FROM jadwal WHERE status = $1 ORDER BY guru_id, hari, jam_mulai`, jadwalColumns)
	var rows []models.Jadwal
	if err := r.db.SelectContext(ctx, &rows, query, models.JadwalStatusAktif); err != nil {
		return nil, fmt.Errorf("list active jadwal: %w", err)
	}
	return rows, nil
}
