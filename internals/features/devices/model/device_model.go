package model

import "time"

// DeviceModel is one pre-registered kiosk in the allow-list.
type DeviceModel struct {
	DeviceCode      string    `gorm:"column:code;primaryKey;type:text"                json:"code"`
	DeviceLabel     *string   `gorm:"column:label;type:varchar(120)"                 json:"label,omitempty"`
	DeviceCreatedAt time.Time `gorm:"column:created_at;autoCreateTime;default:now()" json:"created_at"`
}

func (DeviceModel) TableName() string { return "devices" }
