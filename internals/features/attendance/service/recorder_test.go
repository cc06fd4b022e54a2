package service

import (
	"context"
	"errors"
	"testing"

	"dochadzka_backend/internals/constants"
	"dochadzka_backend/internals/features/attendance/model"

	"github.com/google/uuid"
)

type fakeStore struct {
	rows  []model.AttendanceModel
	err   error
	calls int
}

func (s *fakeStore) Insert(_ context.Context, row *model.AttendanceModel) (model.AttendanceModel, bool, error) {
	s.calls++
	if s.err != nil {
		return model.AttendanceModel{}, false, s.err
	}
	if row.AttendanceIdempotencyKey != nil {
		for _, r := range s.rows {
			if r.AttendanceIdempotencyKey != nil && *r.AttendanceIdempotencyKey == *row.AttendanceIdempotencyKey {
				return r, true, nil
			}
		}
	}
	row.AttendanceID = uuid.New()
	s.rows = append(s.rows, *row)
	return *row, false, nil
}

func TestRecordRejectsBadShapeWithoutWrite(t *testing.T) {
	p := mustPolicy(t)
	store := &fakeStore{}
	rec := NewRecorder(p, store)

	for _, code := range []string{"", "ABC", "ABCDEFGHI", "ABCD-123", "ABCD 123", "ČIPCODE1", "ABCDEFG\t"} {
		out, err := rec.Record(context.Background(), Submission{
			BadgeCode: code,
			Position:  "CCTV",
			Action:    constants.ActionArrival,
			Timestamp: local(p, 6, 0, 0),
		})
		if kind, _ := KindOf(err); kind != KindInvalidCodeShape {
			t.Fatalf("code %q: expected InvalidCodeShape, got %v", code, err)
		}
		if out.Accepted {
			t.Fatalf("code %q: rejected submission must not be accepted", code)
		}
	}
	if store.calls != 0 {
		t.Fatalf("expected no writes, got %d", store.calls)
	}
}

func TestRecordTrimsBadgeCode(t *testing.T) {
	p := mustPolicy(t)
	store := &fakeStore{}
	rec := NewRecorder(p, store)

	out, err := rec.Record(context.Background(), Submission{
		BadgeCode: "  AB12CD34\n",
		Position:  "Brány",
		Action:    constants.ActionArrival,
		Timestamp: local(p, 6, 0, 0),
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if out.Event.AttendanceUserCode != "AB12CD34" {
		t.Fatalf("expected trimmed code, got %q", out.Event.AttendanceUserCode)
	}
}

func TestRecordRejectsUnknownPosition(t *testing.T) {
	p := mustPolicy(t)
	store := &fakeStore{}
	rec := NewRecorder(p, store)

	for _, pos := range []string{"", "Kuchyňa", "cctv", " CCTV"} {
		_, err := rec.Record(context.Background(), Submission{
			BadgeCode: "AB12CD34",
			Position:  pos,
			Action:    constants.ActionArrival,
			Timestamp: local(p, 6, 0, 0),
		})
		if kind, _ := KindOf(err); kind != KindUnknownPosition {
			t.Fatalf("position %q: expected UnknownPosition, got %v", pos, err)
		}
	}
	if store.calls != 0 {
		t.Fatalf("expected no writes, got %d", store.calls)
	}
}

func TestRecordHonoursConfiguredBadgeLength(t *testing.T) {
	p := mustPolicy(t)
	p.BadgeCodeLength = 10
	rec := NewRecorder(p, &fakeStore{})

	if _, err := rec.Validate("AB12CD34", "CCTV"); err == nil {
		t.Fatalf("expected 8-char code to fail a 10-char policy")
	}
	if _, err := rec.Validate("AB12CD34EF", "CCTV"); err != nil {
		t.Fatalf("expected 10-char code to pass: %v", err)
	}
}

func TestRecordPersistsValidity(t *testing.T) {
	p := mustPolicy(t)
	store := &fakeStore{}
	rec := NewRecorder(p, store)

	cases := []struct {
		action constants.Action
		hh, mm int
		valid  bool
	}{
		{constants.ActionArrival, 6, 0, true},
		{constants.ActionArrival, 7, 30, false},
		{constants.ActionDeparture, 14, 0, true},
		{constants.ActionDeparture, 12, 0, false},
	}
	for _, tc := range cases {
		out, err := rec.Record(context.Background(), Submission{
			BadgeCode: "AB12CD34",
			Position:  "Sklad2",
			Action:    tc.action,
			Timestamp: local(p, tc.hh, tc.mm, 0),
		})
		if err != nil {
			t.Fatalf("%s %02d:%02d: %v", tc.action, tc.hh, tc.mm, err)
		}
		if !out.Accepted || out.Valid != tc.valid || out.Event.AttendanceValid != tc.valid {
			t.Fatalf("%s %02d:%02d: got %+v, want valid=%v", tc.action, tc.hh, tc.mm, out, tc.valid)
		}
		if out.Event.AttendanceAction != tc.action.String() {
			t.Fatalf("expected stored action tag %q, got %q", tc.action, out.Event.AttendanceAction)
		}
	}
	if len(store.rows) != len(cases) {
		t.Fatalf("expected %d rows, got %d", len(cases), len(store.rows))
	}
}

func TestRecordAllowsRepeatedTapsWithoutKey(t *testing.T) {
	p := mustPolicy(t)
	store := &fakeStore{}
	rec := NewRecorder(p, store)
	sub := Submission{BadgeCode: "AB12CD34", Position: "CCTV", Action: constants.ActionArrival, Timestamp: local(p, 6, 0, 0)}

	for i := 0; i < 2; i++ {
		if _, err := rec.Record(context.Background(), sub); err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
	}
	if len(store.rows) != 2 {
		t.Fatalf("expected two rows for two taps, got %d", len(store.rows))
	}
}

func TestRecordCollapsesDuplicateIdempotencyKey(t *testing.T) {
	p := mustPolicy(t)
	store := &fakeStore{}
	rec := NewRecorder(p, store)
	key := uuid.New()
	sub := Submission{BadgeCode: "AB12CD34", Position: "CCTV", Action: constants.ActionArrival, Timestamp: local(p, 6, 0, 0), IdempotencyKey: &key}

	first, err := rec.Record(context.Background(), sub)
	if err != nil {
		t.Fatalf("first record: %v", err)
	}
	// A retry later in the day must not be re-classified.
	sub.Timestamp = local(p, 9, 0, 0)
	second, err := rec.Record(context.Background(), sub)
	if err != nil {
		t.Fatalf("second record: %v", err)
	}
	if !second.Duplicate || second.Event.AttendanceID != first.Event.AttendanceID {
		t.Fatalf("expected duplicate of first row, got %+v", second)
	}
	if !second.Valid {
		t.Fatalf("duplicate must report the stored validity")
	}
	if len(store.rows) != 1 {
		t.Fatalf("expected a single stored row, got %d", len(store.rows))
	}
}

func TestRecordRejectsReusedKeyForDifferentSubmission(t *testing.T) {
	p := mustPolicy(t)
	store := &fakeStore{}
	rec := NewRecorder(p, store)
	key := uuid.New()
	sub := Submission{BadgeCode: "AB12CD34", Position: "CCTV", Action: constants.ActionArrival, Timestamp: local(p, 6, 0, 0), IdempotencyKey: &key}

	if _, err := rec.Record(context.Background(), sub); err != nil {
		t.Fatalf("first record: %v", err)
	}

	for name, mutate := range map[string]func(*Submission){
		"badge":    func(s *Submission) { s.BadgeCode = "ZZ99YY88" },
		"position": func(s *Submission) { s.Position = "Brány" },
		"action":   func(s *Submission) { s.Action = constants.ActionDeparture },
	} {
		other := sub
		mutate(&other)
		out, err := rec.Record(context.Background(), other)
		if kind, _ := KindOf(err); kind != KindIdempotencyConflict {
			t.Fatalf("%s: expected IdempotencyConflict, got %v", name, err)
		}
		if out.Accepted {
			t.Fatalf("%s: conflicting submission must not be reported as accepted", name)
		}
	}
	if len(store.rows) != 1 {
		t.Fatalf("expected a single stored row, got %d", len(store.rows))
	}
}

func TestRecordReportsRemoteUnavailable(t *testing.T) {
	p := mustPolicy(t)
	cause := errors.New("dial tcp: connection refused")
	rec := NewRecorder(p, &fakeStore{err: cause})

	out, err := rec.Record(context.Background(), Submission{
		BadgeCode: "AB12CD34",
		Position:  "CCTV",
		Action:    constants.ActionDeparture,
		Timestamp: local(p, 22, 0, 0),
	})
	if kind, _ := KindOf(err); kind != KindRemoteUnavailable {
		t.Fatalf("expected RemoteUnavailable, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause to be wrapped")
	}
	if out.Accepted {
		t.Fatalf("failed insert must not be reported as accepted")
	}
}

func TestRecordRejectsUnknownAction(t *testing.T) {
	p := mustPolicy(t)
	store := &fakeStore{}
	rec := NewRecorder(p, store)
	_, err := rec.Record(context.Background(), Submission{
		BadgeCode: "AB12CD34",
		Position:  "CCTV",
		Action:    constants.Action("Obed"),
		Timestamp: local(p, 6, 0, 0),
	})
	if !errors.Is(err, ErrUnknownAction) || store.calls != 0 {
		t.Fatalf("expected ErrUnknownAction without write, got %v (calls=%d)", err, store.calls)
	}
}
