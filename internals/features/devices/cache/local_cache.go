package cache

import (
	"errors"
	"strings"
	"time"

	"dochadzka_backend/internals/helpers/dbtime"
)

// LocalCache stores a device authorization on the presenting client so
// the kiosk is not re-prompted on every load. Advisory only.
type LocalCache interface {
	Get() (Authorization, bool, error)
	Set(Authorization) error
	Clear() error
}

// Authorization is a cached (code, day) pair. Empty Day means no expiry.
type Authorization struct {
	Code string `json:"code"`
	Day  string `json:"day,omitempty"`
}

var ErrMalformed = errors.New("cache: malformed device authorization")

// NewAuthorization builds the cache entry for a code the gate just confirmed.
func NewAuthorization(code string, now time.Time, loc *time.Location, dayScoped bool) Authorization {
	a := Authorization{Code: strings.TrimSpace(code)}
	if dayScoped {
		a.Day = dbtime.Today(now, loc)
	}
	return a
}

// ValidOn reports whether the entry still applies on the calendar day of now.
func (a Authorization) ValidOn(now time.Time, loc *time.Location) bool {
	if a.Code == "" {
		return false
	}
	return a.Day == "" || a.Day == dbtime.Today(now, loc)
}

// Expires returns the instant the entry stops applying (zero if never).
func (a Authorization) Expires(loc *time.Location) time.Time {
	if a.Day == "" {
		return time.Time{}
	}
	d, err := time.ParseInLocation(dbtime.DayLayout, a.Day, loc)
	if err != nil {
		return time.Time{}
	}
	return dbtime.NextMidnight(d, loc)
}

// Encode renders "code|YYYY-MM-DD" or just "code".
func (a Authorization) Encode() string {
	if a.Day == "" {
		return a.Code
	}
	return a.Code + "|" + a.Day
}

func Decode(s string) (Authorization, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Authorization{}, ErrMalformed
	}
	code, day, hasDay := strings.Cut(s, "|")
	a := Authorization{Code: strings.TrimSpace(code)}
	if a.Code == "" {
		return Authorization{}, ErrMalformed
	}
	if hasDay {
		day = strings.TrimSpace(day)
		if _, err := time.Parse(dbtime.DayLayout, day); err != nil {
			return Authorization{}, ErrMalformed
		}
		a.Day = day
	}
	return a, nil
}

// Lookup returns the cached authorization if it is still valid today.
// Stale or unreadable entries are cleared.
func Lookup(c LocalCache, now time.Time, loc *time.Location) (Authorization, bool) {
	a, ok, err := c.Get()
	if err != nil || (ok && !a.ValidOn(now, loc)) {
		_ = c.Clear()
		return Authorization{}, false
	}
	return a, ok
}
