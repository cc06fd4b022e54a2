package device

import (
	"context"
	"time"

	"dochadzka_backend/internals/constants"
	"dochadzka_backend/internals/features/devices/cache"
	helper "dochadzka_backend/internals/helpers"
	"dochadzka_backend/internals/helpers/dbtime"

	"github.com/gofiber/fiber/v2"
)

const (
	LocDeviceCode = "device_code"

	HeaderDeviceCode = "X-Device-Code"
	QueryDeviceCode  = "device_code"
)

// Authorizer is the device allow-list check. An error means the lookup
// failed, not that the code is unknown.
type Authorizer interface {
	Check(ctx context.Context, code string) (bool, error)
}

type Options struct {
	Location     *time.Location
	SecureCookie bool
	DayScoped    bool
	Now          func() time.Time
}

// RequireDevice lets the request through only from an authorized kiosk:
//  1. a device_code cookie still valid today, or
//  2. X-Device-Code header / ?device_code= verified against the allow-list
//     (the cookie is then re-issued).
//
// A failed allow-list lookup answers 503 REMOTE_UNAVAILABLE so clients retry
// instead of treating the device as revoked.
func RequireDevice(gate Authorizer, opts Options) fiber.Handler {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return func(c *fiber.Ctx) error {
		loc := opts.Location
		if loc == nil {
			loc = dbtime.GetKioskLocation(c)
		}
		cc := cache.NewCookieCache(c, loc, opts.SecureCookie)
		now := opts.Now()

		if a, ok := cache.Lookup(cc, now, loc); ok {
			c.Locals(LocDeviceCode, a.Code)
			return c.Next()
		}

		code := c.Get(HeaderDeviceCode)
		if code == "" {
			code = c.Query(QueryDeviceCode)
		}
		if code != "" {
			ok, err := gate.Check(c.UserContext(), code)
			if err != nil {
				// allow-list unreachable: not a verdict on the device
				return helper.JsonErrorCode(c, fiber.StatusServiceUnavailable,
					constants.CodeRemoteUnavailable, constants.MsgNotRecorded,
					fiber.Map{"safe_to_retry": true})
			}
			if ok {
				a := cache.NewAuthorization(code, now, loc, opts.DayScoped)
				_ = cc.Set(a)
				c.Locals(LocDeviceCode, a.Code)
				return c.Next()
			}
		}

		return helper.JsonErrorCode(c, fiber.StatusForbidden,
			constants.CodeDeviceNotAuthorized, constants.MsgDeviceNotAuthorized, nil)
	}
}
