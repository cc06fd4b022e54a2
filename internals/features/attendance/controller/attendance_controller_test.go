package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"dochadzka_backend/internals/configs"
	"dochadzka_backend/internals/features/attendance/model"
	"dochadzka_backend/internals/features/attendance/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type memStore struct {
	rows []model.AttendanceModel
	err  error
}

func (m *memStore) Insert(_ context.Context, row *model.AttendanceModel) (model.AttendanceModel, bool, error) {
	if m.err != nil {
		return model.AttendanceModel{}, false, m.err
	}
	if k := row.AttendanceIdempotencyKey; k != nil {
		for _, r := range m.rows {
			if r.AttendanceIdempotencyKey != nil && *r.AttendanceIdempotencyKey == *k {
				return r, true, nil
			}
		}
	}
	row.AttendanceID = uuid.New()
	m.rows = append(m.rows, *row)
	return *row, false, nil
}

type envelope struct {
	Success   bool            `json:"success"`
	Message   string          `json:"message"`
	ErrorCode string          `json:"error_code"`
	Data      json.RawMessage `json:"data"`
}

func newAttendanceApp(t *testing.T, store service.AttendanceStore, clock string) *fiber.App {
	t.Helper()
	p, err := configs.DefaultPolicy()
	if err != nil {
		t.Skipf("default policy unavailable: %v", err)
	}
	p.Location = time.UTC

	ctl := NewAttendanceController(service.NewRecorder(p, store))
	now, err := time.Parse(time.RFC3339, "2026-10-15T"+clock+"Z")
	if err != nil {
		t.Fatalf("parse clock: %v", err)
	}
	ctl.Now = func() time.Time { return now }

	app := fiber.New()
	app.Post("/attendance", ctl.Record)
	app.Get("/attendance/positions", ctl.Positions)
	app.Get("/attendance/clock", ctl.Clock)
	return app
}

func post(t *testing.T, app *fiber.App, body string, headers map[string]string) (int, envelope) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/attendance", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp.StatusCode, env
}

func TestRecordValidArrival(t *testing.T) {
	store := &memStore{}
	app := newAttendanceApp(t, store, "06:00:00")

	status, env := post(t, app, `{"user_code":" AB12CD34 ","position":"CCTV","action":"arrival"}`, nil)
	if status != fiber.StatusCreated {
		t.Fatalf("expected 201, got %d (%+v)", status, env)
	}
	if env.Message != "Príchod zaznamenaný (platný)" {
		t.Fatalf("unexpected message %q", env.Message)
	}
	var data struct {
		UserCode string `json:"user_code"`
		Action   string `json:"action"`
		Valid    bool   `json:"valid"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if data.UserCode != "AB12CD34" || data.Action != "Príchod" || !data.Valid {
		t.Fatalf("unexpected data %+v", data)
	}
	if len(store.rows) != 1 {
		t.Fatalf("expected one row, got %d", len(store.rows))
	}
}

func TestRecordOutOfWindowIsStillAccepted(t *testing.T) {
	store := &memStore{}
	app := newAttendanceApp(t, store, "12:00:00")

	status, env := post(t, app, `{"user_code":"AB12CD34","position":"Sklad3","action":"Odchod"}`, nil)
	if status != fiber.StatusCreated {
		t.Fatalf("expected 201, got %d", status)
	}
	if env.Message != "Odchod zaznamenaný (mimo času)" {
		t.Fatalf("unexpected message %q", env.Message)
	}
	if len(store.rows) != 1 || store.rows[0].AttendanceValid {
		t.Fatalf("expected one invalid row, got %+v", store.rows)
	}
}

func TestRecordRejections(t *testing.T) {
	cases := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"short code", `{"user_code":"AB12","position":"CCTV","action":"arrival"}`, fiber.StatusUnprocessableEntity, "INVALID_CODE_SHAPE"},
		{"unknown position", `{"user_code":"AB12CD34","position":"Recepcia","action":"arrival"}`, fiber.StatusUnprocessableEntity, "UNKNOWN_POSITION"},
		{"bad action", `{"user_code":"AB12CD34","position":"CCTV","action":"lunch"}`, fiber.StatusUnprocessableEntity, "VALIDATION_ERROR"},
		{"bad key", `{"user_code":"AB12CD34","position":"CCTV","action":"arrival","idempotency_key":"nope"}`, fiber.StatusUnprocessableEntity, "VALIDATION_ERROR"},
		{"short code, no action", `{"user_code":"AB12","position":"CCTV"}`, fiber.StatusUnprocessableEntity, "INVALID_CODE_SHAPE"},
		{"unknown position, bad action", `{"user_code":"AB12CD34","position":"Recepcia","action":"lunch"}`, fiber.StatusUnprocessableEntity, "UNKNOWN_POSITION"},
		{"malformed json", `{"user_code":`, fiber.StatusBadRequest, "BAD_REQUEST"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := &memStore{}
			app := newAttendanceApp(t, store, "06:00:00")
			status, env := post(t, app, tc.body, nil)
			if status != tc.status || env.ErrorCode != tc.code {
				t.Fatalf("got %d/%s, want %d/%s", status, env.ErrorCode, tc.status, tc.code)
			}
			if len(store.rows) != 0 {
				t.Fatalf("rejected submission must not write, got %d rows", len(store.rows))
			}
		})
	}
}

func TestRecordRemoteUnavailable(t *testing.T) {
	app := newAttendanceApp(t, &memStore{err: errors.New("connection reset")}, "06:00:00")
	status, env := post(t, app, `{"user_code":"AB12CD34","position":"CCTV","action":"arrival"}`, nil)
	if status != fiber.StatusServiceUnavailable || env.ErrorCode != "REMOTE_UNAVAILABLE" {
		t.Fatalf("got %d/%s", status, env.ErrorCode)
	}
	if env.Success {
		t.Fatalf("failed insert must not look successful")
	}
}

func TestRecordIdempotencyKeyHeader(t *testing.T) {
	store := &memStore{}
	app := newAttendanceApp(t, store, "06:00:00")
	key := uuid.NewString()
	body := `{"user_code":"AB12CD34","position":"CCTV","action":"arrival"}`

	status, _ := post(t, app, body, map[string]string{HeaderIdempotencyKey: key})
	if status != fiber.StatusCreated {
		t.Fatalf("first submit: %d", status)
	}
	status, env := post(t, app, body, map[string]string{HeaderIdempotencyKey: key})
	if status != fiber.StatusOK {
		t.Fatalf("retry: expected 200, got %d", status)
	}
	if !strings.Contains(string(env.Data), `"duplicate":true`) {
		t.Fatalf("expected duplicate flag, got %s", env.Data)
	}
	if len(store.rows) != 1 {
		t.Fatalf("expected one row, got %d", len(store.rows))
	}
}

func TestClockReportsOpenActions(t *testing.T) {
	app := newAttendanceApp(t, &memStore{}, "14:00:00")
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/attendance/clock", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	var data struct {
		Clock       string   `json:"clock"`
		OpenActions []string `json:"open_actions"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if data.Clock != "14:00:00" || len(data.OpenActions) != 2 {
		t.Fatalf("unexpected clock %+v", data)
	}
}

func TestPositionsListsRoster(t *testing.T) {
	app := newAttendanceApp(t, &memStore{}, "06:00:00")
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/attendance/positions", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.Contains(string(env.Data), "Veliteľ") {
		t.Fatalf("expected roster in response, got %s", env.Data)
	}
}

func TestRecordReusedKeyForOtherBadgeConflicts(t *testing.T) {
	store := &memStore{}
	app := newAttendanceApp(t, store, "06:00:00")
	key := uuid.NewString()

	status, _ := post(t, app, `{"user_code":"AB12CD34","position":"CCTV","action":"arrival","idempotency_key":"`+key+`"}`, nil)
	if status != fiber.StatusCreated {
		t.Fatalf("first submit: %d", status)
	}
	status, env := post(t, app, `{"user_code":"ZZ99YY88","position":"CCTV","action":"arrival","idempotency_key":"`+key+`"}`, nil)
	if status != fiber.StatusConflict || env.ErrorCode != "IDEMPOTENCY_CONFLICT" {
		t.Fatalf("got %d/%s, want 409/IDEMPOTENCY_CONFLICT", status, env.ErrorCode)
	}
	if strings.Contains(string(env.Data), "AB12CD34") {
		t.Fatalf("another badge's event must not leak: %s", env.Data)
	}
	if len(store.rows) != 1 {
		t.Fatalf("expected one row, got %d", len(store.rows))
	}
}
