package service

import (
	"time"

	"dochadzka_backend/internals/configs"
	"dochadzka_backend/internals/constants"
	"dochadzka_backend/internals/helpers/dbtime"
)

// ResolveTimestamp applies the configured correction and moves ts into the
// policy zone. The result is what gets classified and stored.
func ResolveTimestamp(p configs.Policy, ts time.Time) time.Time {
	return ts.Add(p.TimestampCorrectionOffset).In(p.Location)
}

// Classify reports whether ts falls inside any validity window of action,
// evaluated on the wall clock of the policy zone.
func Classify(p configs.Policy, action constants.Action, ts time.Time) bool {
	return dbtime.AnyContains(p.WindowsFor(action), ts.In(p.Location))
}

// OpenActions lists the actions whose window contains ts.
func OpenActions(p configs.Policy, ts time.Time) []constants.Action {
	var out []constants.Action
	for _, a := range []constants.Action{constants.ActionArrival, constants.ActionDeparture} {
		if Classify(p, a, ts) {
			out = append(out, a)
		}
	}
	return out
}
