package dbtime

import (
	"fmt"
	"strings"
	"time"
)

// Window is a closed time-of-day interval [Start, End].
type Window struct {
	Start Tod `json:"start"`
	End   Tod `json:"end"`
}

func NewWindow(start, end string) (Window, error) {
	s, err := Parse(start)
	if err != nil {
		return Window{}, err
	}
	e, err := Parse(end)
	if err != nil {
		return Window{}, err
	}
	if e.SinceMidnight() < s.SinceMidnight() {
		return Window{}, fmt.Errorf("window %s-%s: end before start", s, e)
	}
	return Window{Start: s, End: e}, nil
}

// Contains reports whether the wall-clock time of t (in t's own location)
// lies inside the window, both ends inclusive.
func (w Window) Contains(t time.Time) bool {
	d := ClockOf(t)
	return d >= w.Start.SinceMidnight() && d <= w.End.SinceMidnight()
}

func (w Window) String() string {
	return w.Start.Format("15:04") + "-" + w.End.Format("15:04")
}

// ParseWindows reads "HH:MM-HH:MM[,HH:MM-HH:MM...]".
func ParseWindows(s string) ([]Window, error) {
	var out []Window
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		bounds := strings.SplitN(part, "-", 2)
		if len(bounds) != 2 {
			return nil, fmt.Errorf("window %q: expected HH:MM-HH:MM", part)
		}
		w, err := NewWindow(bounds[0], bounds[1])
		if err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no windows in %q", s)
	}
	return out, nil
}

// AnyContains reports whether t falls in at least one window.
func AnyContains(ws []Window, t time.Time) bool {
	for _, w := range ws {
		if w.Contains(t) {
			return true
		}
	}
	return false
}
