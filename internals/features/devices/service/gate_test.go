package service

import (
	"context"
	"errors"
	"testing"
)

type fakeFinder struct {
	codes map[string]bool
	err   error
	calls int
}

func (f *fakeFinder) ExistsByCode(_ context.Context, code string) (bool, error) {
	f.calls++
	if f.err != nil {
		return false, f.err
	}
	return f.codes[code], nil
}

func TestGateAllowsRegisteredCode(t *testing.T) {
	f := &fakeFinder{codes: map[string]bool{"TAB12345": true}}
	g := NewGate(f, 8)
	if !g.IsAuthorized(context.Background(), "  TAB12345 ") {
		t.Fatalf("expected registered code to be authorized")
	}
}

func TestGateDeniesUnknownCode(t *testing.T) {
	f := &fakeFinder{codes: map[string]bool{"TAB12345": true}}
	g := NewGate(f, 8)
	if g.IsAuthorized(context.Background(), "TAB99999") {
		t.Fatalf("expected unknown code to be denied")
	}
	if f.calls != 1 {
		t.Fatalf("expected one remote lookup, got %d", f.calls)
	}
}

func TestGateRejectsShapeWithoutRemoteCall(t *testing.T) {
	f := &fakeFinder{codes: map[string]bool{}}
	g := NewGate(f, 8)
	for _, code := range []string{"", "short", "TAB123456", "TAB-1234", "TÁB12345"} {
		if g.IsAuthorized(context.Background(), code) {
			t.Fatalf("expected %q to be rejected", code)
		}
	}
	if f.calls != 0 {
		t.Fatalf("shape mismatch must not hit the allow-list, got %d calls", f.calls)
	}
}

func TestGateFailsClosedOnRemoteError(t *testing.T) {
	f := &fakeFinder{err: errors.New("connection refused")}
	g := NewGate(f, 8)
	if g.IsAuthorized(context.Background(), "TAB12345") {
		t.Fatalf("expected remote failure to deny")
	}
}

func TestGateCheckSeparatesOutageFromDenial(t *testing.T) {
	f := &fakeFinder{codes: map[string]bool{"TAB12345": true}}
	g := NewGate(f, 8)

	if ok, err := g.Check(context.Background(), "TAB99999"); ok || err != nil {
		t.Fatalf("unknown code: got ok=%v err=%v, want false/nil", ok, err)
	}
	if ok, err := g.Check(context.Background(), "bad"); ok || err != nil {
		t.Fatalf("bad shape: got ok=%v err=%v, want false/nil", ok, err)
	}

	f.err = errors.New("connection refused")
	ok, err := g.Check(context.Background(), "TAB12345")
	if ok || err == nil {
		t.Fatalf("outage: got ok=%v err=%v, want false/error", ok, err)
	}
}
