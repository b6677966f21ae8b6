package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/presensi-guru-api/internal/models"
)

// GuruRepository handles persistence for the teacher roster.
type GuruRepository struct {
	db *sqlx.DB
}

// NewGuruRepository constructs the repository.
func NewGuruRepository(db *sqlx.DB) *GuruRepository {
	return &GuruRepository{db: db}
}

// FindByEmail returns the guru with the given email.
func (r *GuruRepository) FindByEmail(ctx context.Context, email string) (*models.Guru, error) {
	query := `SELECT id, nama, email, nip, password_hash, role, active, created_at, updated_at
FROM guru WHERE email = $1`
	var guru models.Guru
	if err := r.db.GetContext(ctx, &guru, query, email); err != nil {
		return nil, fmt.Errorf("find guru by email: %w", err)
	}
	return &guru, nil
}

// FindByID returns the guru with the given id.
func (r *GuruRepository) FindByID(ctx context.Context, id string) (*models.Guru, error) {
	query := `SELECT id, nama, email, nip, password_hash, role, active, created_at, updated_at
FROM guru WHERE id = $1`
	var guru models.Guru
	if err := r.db.GetContext(ctx, &guru, query, id); err != nil {
		return nil, fmt.Errorf("find guru by id: %w", err)
	}
	return &guru, nil
}

// ListActive returns all active teachers ordered by name.
func (r *GuruRepository) ListActive(ctx context.Context) ([]models.Guru, error) {
	query := `SELECT id, nama, email, nip, password_hash, role, active, created_at, updated_at
FROM guru WHERE active = TRUE ORDER BY nama ASC`
	var rows []models.Guru
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list active guru: %w", err)
	}
	return rows, nil
}
