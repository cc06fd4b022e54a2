package repository

import (
	"context"

	"dochadzka_backend/internals/features/devices/model"

	"gorm.io/gorm"
)

type DeviceRepository struct {
	DB *gorm.DB
}

func NewDeviceRepository(db *gorm.DB) *DeviceRepository {
	return &DeviceRepository{DB: db}
}

// ExistsByCode reports whether the allow-list has a row with this code.
func (r *DeviceRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).
		Model(&model.DeviceModel{}).
		Where("code = ?", code).
		Limit(1).
		Count(&n).Error
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
