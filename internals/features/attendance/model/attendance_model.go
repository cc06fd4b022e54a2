package model

import (
	"time"

	"github.com/google/uuid"
)

// AttendanceModel is one append-only check-in/check-out event.
type AttendanceModel struct {
	AttendanceID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:id" json:"id"`

	AttendanceUserCode string `gorm:"type:text;not null;column:user_code;index:idx_attendance_user_code_ts,priority:1" json:"user_code"`
	AttendancePosition string `gorm:"type:text;not null;column:position"                                               json:"position"`
	AttendanceAction   string `gorm:"type:text;not null;column:action"                                                 json:"action"`

	// Local wall time with offset, after the policy correction.
	AttendanceTimestamp time.Time `gorm:"type:timestamptz;not null;column:timestamp;index:idx_attendance_user_code_ts,priority:2" json:"timestamp"`
	AttendanceValid     bool      `gorm:"not null;column:valid"                                                                  json:"valid"`

	// NULL keys never collide; a repeated key returns the stored row.
	AttendanceIdempotencyKey *uuid.UUID `gorm:"type:uuid;uniqueIndex;column:idempotency_key" json:"idempotency_key,omitempty"`

	AttendanceCreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (AttendanceModel) TableName() string { return "attendance" }
