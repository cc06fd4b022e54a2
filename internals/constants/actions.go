package constants

import "strings"

// Action is the literal tag stored in attendance.action.
type Action string

const (
	ActionArrival   Action = "Príchod"
	ActionDeparture Action = "Odchod"
)

// ParseAction accepts the stored tags and their English aliases.
func ParseAction(s string) (Action, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "príchod", "prichod", "arrival":
		return ActionArrival, true
	case "odchod", "departure":
		return ActionDeparture, true
	}
	return "", false
}

func (a Action) String() string { return string(a) }
