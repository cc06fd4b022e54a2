package dto

import (
	"time"

	"dochadzka_backend/internals/features/devices/cache"
)

/* =========================================================
 * REQUESTS
 * ========================================================= */

type AuthorizeDeviceRequest struct {
	Code string `json:"code" form:"code" validate:"required,max=64"`
}

/* =========================================================
 * RESPONSE
 * ========================================================= */

type DeviceAuthorizationResponse struct {
	Code      string     `json:"code"`
	Day       string     `json:"day,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

func NewDeviceAuthorizationResponse(a cache.Authorization, loc *time.Location) DeviceAuthorizationResponse {
	out := DeviceAuthorizationResponse{Code: a.Code, Day: a.Day}
	if exp := a.Expires(loc); !exp.IsZero() {
		out.ExpiresAt = &exp
	}
	return out
}
