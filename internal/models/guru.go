package models

import "time"

// Guru is a teacher on the roster. Also the auth principal for the mobile app.
type Guru struct {
	ID           string    `db:"id" json:"id"`
	Nama         string    `db:"nama" json:"nama"`
	Email        string    `db:"email" json:"email"`
	NIP          *string   `db:"nip" json:"nip,omitempty"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         string    `db:"role" json:"role"`
	Active       bool      `db:"active" json:"active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

const (
	RoleGuru  = "guru"
	RoleAdmin = "admin"
)
