package configs

import (
	"fmt"
	"strings"
	"time"

	"dochadzka_backend/internals/constants"
	"dochadzka_backend/internals/helpers/dbtime"
)

// Reference site policy. Other deployments override through env.
const (
	DefaultBadgeCodeLength  = 8
	DeviceCodeLength        = 8
	DefaultArrivalWindows   = "05:00-07:00,13:00-15:00"
	DefaultDepartureWindows = "13:30-15:00,21:00-23:00"
)

// Policy holds every site-specific attendance rule in one place.
type Policy struct {
	BadgeCodeLength  int
	DeviceCodeLength int
	Location         *time.Location
	ArrivalWindows   []dbtime.Window
	DepartureWindows []dbtime.Window
	// Added to every submission timestamp before classification and storage.
	TimestampCorrectionOffset time.Duration
	Positions                 []string
}

// DefaultPolicy returns the reference deployment (Europe/Bratislava).
func DefaultPolicy() (Policy, error) {
	return buildPolicy(
		DefaultBadgeCodeLength,
		dbtime.DefaultTimeZone,
		DefaultArrivalWindows,
		DefaultDepartureWindows,
		0,
	)
}

// LoadPolicy reads ATTENDANCE_* env overrides on top of the defaults.
func LoadPolicy() (Policy, error) {
	offset, err := parseOffset(GetEnv("ATTENDANCE_TIMESTAMP_OFFSET", "0s"))
	if err != nil {
		return Policy{}, err
	}
	return buildPolicy(
		GetEnvInt("ATTENDANCE_BADGE_CODE_LENGTH", DefaultBadgeCodeLength),
		GetEnv("ATTENDANCE_TIMEZONE", dbtime.DefaultTimeZone),
		GetEnv("ATTENDANCE_ARRIVAL_WINDOWS", DefaultArrivalWindows),
		GetEnv("ATTENDANCE_DEPARTURE_WINDOWS", DefaultDepartureWindows),
		offset,
	)
}

func buildPolicy(badgeLen int, zone, arrival, departure string, offset time.Duration) (Policy, error) {
	if badgeLen <= 0 {
		return Policy{}, fmt.Errorf("badge code length must be positive, got %d", badgeLen)
	}
	loc, err := time.LoadLocation(strings.TrimSpace(zone))
	if err != nil {
		return Policy{}, fmt.Errorf("time zone %q: %w", zone, err)
	}
	arr, err := dbtime.ParseWindows(arrival)
	if err != nil {
		return Policy{}, fmt.Errorf("arrival windows: %w", err)
	}
	dep, err := dbtime.ParseWindows(departure)
	if err != nil {
		return Policy{}, fmt.Errorf("departure windows: %w", err)
	}
	return Policy{
		BadgeCodeLength:           badgeLen,
		DeviceCodeLength:          DeviceCodeLength,
		Location:                  loc,
		ArrivalWindows:            arr,
		DepartureWindows:          dep,
		TimestampCorrectionOffset: offset,
		Positions:                 append([]string(nil), constants.Positions...),
	}, nil
}

func parseOffset(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "0" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("ATTENDANCE_TIMESTAMP_OFFSET %q: %w", s, err)
	}
	return d, nil
}

// WindowsFor returns the validity windows of an action.
func (p Policy) WindowsFor(a constants.Action) []dbtime.Window {
	switch a {
	case constants.ActionArrival:
		return p.ArrivalWindows
	case constants.ActionDeparture:
		return p.DepartureWindows
	}
	return nil
}

// HasPosition reports roster membership (exact match).
func (p Policy) HasPosition(pos string) bool {
	for _, x := range p.Positions {
		if x == pos {
			return true
		}
	}
	return false
}
