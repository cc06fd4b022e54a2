// file: internals/helpers/dbtime/time_helper.go
package dbtime

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

const (
	LocKioskLoc = "kiosk_loc" // *time.Location

	DefaultTimeZone = "Europe/Bratislava"
	DayLayout       = "2006-01-02"
)

// UseLocation puts the kiosk location into locals for downstream handlers.
func UseLocation(loc *time.Location) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(LocKioskLoc, loc)
		return c.Next()
	}
}

// GetKioskLocation:
// 1) c.Locals("kiosk_loc") yang diisi middleware
// 2) Fallback: Europe/Bratislava
// 3) Fallback terakhir: time.UTC
func GetKioskLocation(c *fiber.Ctx) *time.Location {
	if c != nil {
		if v := c.Locals(LocKioskLoc); v != nil {
			if loc, ok := v.(*time.Location); ok && loc != nil {
				return loc
			}
		}
	}
	if loc, err := time.LoadLocation(DefaultTimeZone); err == nil {
		return loc
	}
	return time.UTC
}

// Today returns the calendar date of now in loc as YYYY-MM-DD.
func Today(now time.Time, loc *time.Location) string {
	return now.In(loc).Format(DayLayout)
}

// NextMidnight returns the start of the day after now, in loc.
func NextMidnight(now time.Time, loc *time.Location) time.Time {
	n := now.In(loc)
	return time.Date(n.Year(), n.Month(), n.Day()+1, 0, 0, 0, 0, loc)
}
