package repository

import (
	"context"
	"errors"

	"dochadzka_backend/internals/features/attendance/model"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AttendanceRepository struct {
	DB *gorm.DB
}

func NewAttendanceRepository(db *gorm.DB) *AttendanceRepository {
	return &AttendanceRepository{DB: db}
}

// Insert appends one row. When the idempotency key already exists no row is
// written and the stored row is returned with duplicate=true.
func (r *AttendanceRepository) Insert(ctx context.Context, row *model.AttendanceModel) (model.AttendanceModel, bool, error) {
	db := r.DB.WithContext(ctx)

	if row.AttendanceIdempotencyKey == nil {
		if err := db.Create(row).Error; err != nil {
			return model.AttendanceModel{}, false, err
		}
		return *row, false, nil
	}

	res := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "idempotency_key"}},
		DoNothing: true,
	}).Create(row)
	if res.Error != nil {
		return model.AttendanceModel{}, false, res.Error
	}
	if res.RowsAffected > 0 {
		return *row, false, nil
	}

	var stored model.AttendanceModel
	if err := db.Where("idempotency_key = ?", *row.AttendanceIdempotencyKey).Take(&stored).Error; err != nil {
		return model.AttendanceModel{}, false, err
	}
	return stored, true, nil
}

// SafeToRetry reports whether err is known to have happened before the
// statement reached the database.
func SafeToRetry(err error) bool {
	if err == nil {
		return false
	}
	if pgconn.SafeToRetry(err) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// Server rejected the statement, nothing was written.
		return true
	}
	return false
}
