package service

import (
	"context"
	"log"
	"regexp"
	"strconv"
	"strings"

	"dochadzka_backend/internals/middlewares/metrics"
)

// DeviceFinder is the remote allow-list lookup.
type DeviceFinder interface {
	ExistsByCode(ctx context.Context, code string) (bool, error)
}

// Gate decides whether a kiosk may record attendance.
type Gate struct {
	finder DeviceFinder
	shape  *regexp.Regexp
}

func NewGate(finder DeviceFinder, codeLength int) *Gate {
	return &Gate{
		finder: finder,
		shape:  regexp.MustCompile(`^[A-Za-z0-9]{` + strconv.Itoa(codeLength) + `}$`),
	}
}

// Normalize trims the code the same way IsAuthorized does.
func (g *Gate) Normalize(code string) string {
	return strings.TrimSpace(code)
}

// ValidShape reports whether code (after trimming) has the device code shape.
func (g *Gate) ValidShape(code string) bool {
	return g.shape.MatchString(g.Normalize(code))
}

// Check looks the code up in the allow-list. A non-nil error means the
// lookup itself failed and says nothing about the code.
func (g *Gate) Check(ctx context.Context, code string) (bool, error) {
	code = g.Normalize(code)
	if !g.ValidShape(code) {
		metrics.DeviceChecks.WithLabelValues("bad_shape").Inc()
		return false, nil
	}

	ok, err := g.finder.ExistsByCode(ctx, code)
	if err != nil {
		log.Printf("[ERROR] device lookup failed: %v", err)
		metrics.DeviceChecks.WithLabelValues("error").Inc()
		return false, err
	}
	if !ok {
		metrics.DeviceChecks.WithLabelValues("denied").Inc()
		return false, nil
	}
	metrics.DeviceChecks.WithLabelValues("allowed").Inc()
	return true, nil
}

// IsAuthorized is Check failing closed: lookup errors count as not authorized.
func (g *Gate) IsAuthorized(ctx context.Context, code string) bool {
	ok, err := g.Check(ctx, code)
	return ok && err == nil
}
