package dto

import (
	"time"

	"dochadzka_backend/internals/features/attendance/model"
	"dochadzka_backend/internals/helpers/dbtime"

	"github.com/google/uuid"
)

/* =========================================================
 * REQUESTS
 * ========================================================= */

// Shape and roster checks live in the recorder so they map to typed errors.
type RecordAttendanceRequest struct {
	UserCode       string `json:"user_code"`
	Position       string `json:"position"`
	Action         string `json:"action"                    validate:"required,attendance_action"`
	IdempotencyKey string `json:"idempotency_key,omitempty" validate:"omitempty,uuid"`
}

/* =========================================================
 * RESPONSE
 * ========================================================= */

type AttendanceResponse struct {
	ID        uuid.UUID `json:"id"`
	UserCode  string    `json:"user_code"`
	Position  string    `json:"position"`
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
	Valid     bool      `json:"valid"`
	Duplicate bool      `json:"duplicate"`
}

func NewAttendanceResponse(m model.AttendanceModel, duplicate bool) AttendanceResponse {
	return AttendanceResponse{
		ID:        m.AttendanceID,
		UserCode:  m.AttendanceUserCode,
		Position:  m.AttendancePosition,
		Action:    m.AttendanceAction,
		Timestamp: m.AttendanceTimestamp,
		Valid:     m.AttendanceValid,
		Duplicate: duplicate,
	}
}

type ClockResponse struct {
	Now              time.Time       `json:"now"`
	Clock            string          `json:"clock"`
	TimeZone         string          `json:"time_zone"`
	OpenActions      []string        `json:"open_actions"`
	ArrivalWindows   []dbtime.Window `json:"arrival_windows"`
	DepartureWindows []dbtime.Window `json:"departure_windows"`
}

type PositionsResponse struct {
	Positions []string `json:"positions"`
}
