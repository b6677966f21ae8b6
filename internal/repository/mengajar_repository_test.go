package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/presensi-guru-api/internal/models"
)

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	sqlxdb := sqlx.NewDb(db, "sqlmock")
	return sqlxdb, mock, func() {
		db.Close()
	}
}

var absensiMengajarCols = []string{
	"id", "jadwal_id", "guru_id", "tanggal", "guru_status", "guru_keterangan", "materi", "catatan",
	"snapshot_kelas", "snapshot_mapel", "snapshot_jam", "snapshot_hari",
	"siswa_hadir", "siswa_sakit", "siswa_izin", "siswa_alpha", "is_unlocked", "absensi_time", "created_at", "updated_at",
}

func TestInsertOnceReturnsStoredRow(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewMengajarRepository(db)

	now := time.Now()
	tanggal := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(absensiMengajarCols).
		AddRow("abs-1", "jdw-1", "g-1", tanggal, "H", nil, nil, nil,
			"XII-A", "Matematika", "07:15 - 08:45", "Senin",
			30, 1, 0, 1, false, now, now, now)
	mock.ExpectQuery("INSERT INTO absensi_mengajar").WillReturnRows(rows)

	stored, inserted, err := repo.InsertOnce(context.Background(), &models.AbsensiMengajar{
		JadwalID: "jdw-1", GuruID: "g-1", Tanggal: tanggal,
		GuruStatus: models.AttendanceStatusHadir,
	})
	require.NoError(t, err)
	assert.True(t, inserted)
	assert.Equal(t, "abs-1", stored.ID)
	assert.Equal(t, "XII-A", stored.SnapshotKelas)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertOnceConflictIsNotAnError(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewMengajarRepository(db)

	// ON CONFLICT DO NOTHING yields zero rows for the losing writer.
	mock.ExpectQuery("INSERT INTO absensi_mengajar").WillReturnRows(sqlmock.NewRows(absensiMengajarCols))

	stored, inserted, err := repo.InsertOnce(context.Background(), &models.AbsensiMengajar{
		JadwalID: "jdw-1", GuruID: "g-1",
		Tanggal:    time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		GuruStatus: models.AttendanceStatusHadir,
	})
	require.NoError(t, err)
	assert.False(t, inserted)
	assert.Nil(t, stored)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateUnlockedRequiresUnlockedRow(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewMengajarRepository(db)

	mock.ExpectQuery("UPDATE absensi_mengajar").WillReturnRows(sqlmock.NewRows(absensiMengajarCols))

	_, updated, err := repo.UpdateUnlocked(context.Background(), &models.AbsensiMengajar{
		JadwalID: "jdw-1",
		Tanggal:  time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.False(t, updated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertSiswaAndDelete(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewMengajarRepository(db)

	tanggal := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	mock.ExpectExec("INSERT INTO absensi_siswa").WillReturnResult(sqlmock.NewResult(1, 1))
	err := repo.UpsertSiswa(context.Background(), &models.AbsensiSiswa{
		SiswaID: "s-1", Nama: "Andi", Kelas: "XII-A",
		Tanggal: tanggal, Status: models.AttendanceStatusSakit,
	})
	require.NoError(t, err)

	mock.ExpectExec("DELETE FROM absensi_siswa").
		WithArgs("s-1", tanggal).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.DeleteSiswa(context.Background(), "s-1", tanggal))
	assert.NoError(t, mock.ExpectationsWereMet())
}
