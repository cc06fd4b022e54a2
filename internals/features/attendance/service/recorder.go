package service

import (
	"context"
	"log"
	"regexp"
	"strconv"
	"strings"
	"time"

	"dochadzka_backend/internals/configs"
	"dochadzka_backend/internals/constants"
	"dochadzka_backend/internals/features/attendance/model"
	"dochadzka_backend/internals/features/attendance/repository"
	"dochadzka_backend/internals/middlewares/metrics"

	"github.com/google/uuid"
)

// AttendanceStore appends attendance rows to the remote table.
type AttendanceStore interface {
	Insert(ctx context.Context, row *model.AttendanceModel) (model.AttendanceModel, bool, error)
}

type Submission struct {
	BadgeCode      string
	Position       string
	Action         constants.Action
	Timestamp      time.Time
	IdempotencyKey *uuid.UUID
}

type Outcome struct {
	Accepted  bool
	Valid     bool
	Duplicate bool
	Event     model.AttendanceModel
}

type Recorder struct {
	policy configs.Policy
	store  AttendanceStore
	shape  *regexp.Regexp
}

func NewRecorder(policy configs.Policy, store AttendanceStore) *Recorder {
	return &Recorder{
		policy: policy,
		store:  store,
		shape:  regexp.MustCompile(`^[A-Za-z0-9]{` + strconv.Itoa(policy.BadgeCodeLength) + `}$`),
	}
}

func (r *Recorder) Policy() configs.Policy { return r.policy }

// Validate runs the shape and roster gates, in that order, and returns the
// trimmed badge code.
func (r *Recorder) Validate(badgeCode, position string) (string, error) {
	code := strings.TrimSpace(badgeCode)
	if !r.shape.MatchString(code) {
		return "", r.reject(KindInvalidCodeShape)
	}
	if !r.policy.HasPosition(position) {
		return "", r.reject(KindUnknownPosition)
	}
	return code, nil
}

func (r *Recorder) reject(kind ErrorKind) error {
	metrics.AttendanceSubmissions.WithLabelValues("rejected_" + string(kind)).Inc()
	return &RecordError{Kind: kind}
}

// Record validates, classifies and persists one submission.
// Rejections and store failures come back as *RecordError.
func (r *Recorder) Record(ctx context.Context, sub Submission) (Outcome, error) {
	code, err := r.Validate(sub.BadgeCode, sub.Position)
	if err != nil {
		return Outcome{}, err
	}
	if sub.Action != constants.ActionArrival && sub.Action != constants.ActionDeparture {
		return Outcome{}, ErrUnknownAction
	}

	ts := ResolveTimestamp(r.policy, sub.Timestamp)
	valid := Classify(r.policy, sub.Action, ts)

	row := &model.AttendanceModel{
		AttendanceUserCode:       code,
		AttendancePosition:       sub.Position,
		AttendanceAction:         sub.Action.String(),
		AttendanceTimestamp:      ts,
		AttendanceValid:          valid,
		AttendanceIdempotencyKey: sub.IdempotencyKey,
	}
	stored, dup, err := r.store.Insert(ctx, row)
	if err != nil {
		log.Printf("[ERROR] attendance insert failed user_code=%s action=%s: %v", code, sub.Action, err)
		metrics.AttendanceSubmissions.WithLabelValues("remote_unavailable").Inc()
		return Outcome{}, &RecordError{
			Kind:        KindRemoteUnavailable,
			Err:         err,
			SafeToRetry: repository.SafeToRetry(err),
		}
	}

	if dup {
		if !samePayload(stored, row) {
			log.Printf("[WARN] idempotency key %s reused for a different submission (stored user_code=%s action=%s, got user_code=%s action=%s)",
				sub.IdempotencyKey, stored.AttendanceUserCode, stored.AttendanceAction, code, sub.Action)
			metrics.AttendanceSubmissions.WithLabelValues("idempotency_conflict").Inc()
			return Outcome{}, &RecordError{Kind: KindIdempotencyConflict}
		}
		metrics.AttendanceSubmissions.WithLabelValues("duplicate").Inc()
		return Outcome{Accepted: true, Valid: stored.AttendanceValid, Duplicate: true, Event: stored}, nil
	}
	if valid {
		metrics.AttendanceSubmissions.WithLabelValues("accepted_valid").Inc()
	} else {
		metrics.AttendanceSubmissions.WithLabelValues("accepted_out_of_window").Inc()
	}
	return Outcome{Accepted: true, Valid: valid, Event: stored}, nil
}

func samePayload(stored model.AttendanceModel, row *model.AttendanceModel) bool {
	return stored.AttendanceUserCode == row.AttendanceUserCode &&
		stored.AttendancePosition == row.AttendancePosition &&
		stored.AttendanceAction == row.AttendanceAction
}
