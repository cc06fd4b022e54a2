package kiosk

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"dochadzka_backend/internals/constants"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	headerDeviceCode     = "X-Device-Code"
	headerIdempotencyKey = "Idempotency-Key"
)

// APIError is a non-2xx answer from the attendance API.
type APIError struct {
	Status      int
	Code        string
	Message     string
	SafeToRetry bool
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%d %s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

// revokesDevice: only a definitive 403 from the allow-list drops the cached code.
func (e *APIError) revokesDevice() bool {
	return e.Status == fiber.StatusForbidden && e.Code == constants.CodeDeviceNotAuthorized
}

// Retryable: transport failures and REMOTE_UNAVAILABLE.
func Retryable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var ae *APIError
	if errors.As(err, &ae) {
		return ae.Code == constants.CodeRemoteUnavailable
	}
	return true
}

type envelope[T any] struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	ErrorCode string `json:"error_code"`
	Data      T      `json:"data"`
}

type errorData struct {
	SafeToRetry bool `json:"safe_to_retry"`
}

type Authorization struct {
	Code      string    `json:"code"`
	Day       string    `json:"day"`
	ExpiresAt time.Time `json:"expires_at"`
}

type Event struct {
	ID        uuid.UUID `json:"id"`
	UserCode  string    `json:"user_code"`
	Position  string    `json:"position"`
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
	Valid     bool      `json:"valid"`
	Duplicate bool      `json:"duplicate"`
}

type Clock struct {
	Now         time.Time `json:"now"`
	Clock       string    `json:"clock"`
	TimeZone    string    `json:"time_zone"`
	OpenActions []string  `json:"open_actions"`
}

type Submission struct {
	BadgeCode string
	Position  string
	Action    constants.Action
}

// Receipt is what the kiosk shows after a recorded tap.
type Receipt struct {
	Message  string
	Event    Event
	Attempts int
}

// Client talks to the attendance API with fiber's HTTP agent.
type Client struct {
	BaseURL    string
	DeviceCode string
	Timeout    time.Duration
}

func NewClient(baseURL, deviceCode string, timeout time.Duration) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		DeviceCode: deviceCode,
		Timeout:    timeout,
	}
}

func (c *Client) Authorize(code string) (Authorization, error) {
	body, err := sonic.Marshal(fiber.Map{"code": code})
	if err != nil {
		return Authorization{}, err
	}
	a := fiber.Post(c.BaseURL + "/api/devices/authorize").Body(body)
	out, _, err := call[Authorization](c, a, "")
	return out, err
}

func (c *Client) Positions() ([]string, error) {
	out, _, err := call[struct {
		Positions []string `json:"positions"`
	}](c, fiber.Get(c.BaseURL+"/api/attendance/positions"), "")
	return out.Positions, err
}

func (c *Client) Clock() (Clock, error) {
	out, _, err := call[Clock](c, fiber.Get(c.BaseURL+"/api/attendance/clock"), "")
	return out, err
}

// Record sends one attempt of a submission under the given idempotency key.
func (c *Client) Record(sub Submission, key uuid.UUID) (Receipt, error) {
	body, err := sonic.Marshal(fiber.Map{
		"user_code":       sub.BadgeCode,
		"position":        sub.Position,
		"action":          sub.Action.String(),
		"idempotency_key": key.String(),
	})
	if err != nil {
		return Receipt{}, err
	}
	a := fiber.Post(c.BaseURL + "/api/attendance").Body(body)
	ev, msg, err := call[Event](c, a, key.String())
	if err != nil {
		return Receipt{}, err
	}
	return Receipt{Message: msg, Event: ev}, nil
}

// Submit records with one idempotency key for every attempt, so a retry
// after a lost response never produces a second row.
func (c *Client) Submit(ctx context.Context, sub Submission, retries int, delay time.Duration) (Receipt, error) {
	key := uuid.New()
	var lastErr error
	for attempt := 1; attempt <= retries+1; attempt++ {
		if err := ctx.Err(); err != nil {
			return Receipt{}, err
		}
		r, err := c.Record(sub, key)
		if err == nil {
			r.Attempts = attempt
			return r, nil
		}
		lastErr = err
		if !Retryable(err) {
			return Receipt{}, err
		}
		if attempt <= retries && delay > 0 {
			select {
			case <-ctx.Done():
				return Receipt{}, ctx.Err()
			case <-time.After(delay):
			}
		}
	}
	return Receipt{}, lastErr
}

func call[T any](c *Client, a *fiber.Agent, idempotencyKey string) (T, string, error) {
	var zero T
	a.ContentType(fiber.MIMEApplicationJSON).Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)
	if c.DeviceCode != "" {
		a.Set(headerDeviceCode, c.DeviceCode)
	}
	if idempotencyKey != "" {
		a.Set(headerIdempotencyKey, idempotencyKey)
	}
	if c.Timeout > 0 {
		a.Timeout(c.Timeout)
	}

	status, body, errs := a.Bytes()
	if len(errs) > 0 {
		return zero, "", fmt.Errorf("request failed: %w", errors.Join(errs...))
	}

	if status >= fiber.StatusBadRequest {
		var env envelope[errorData]
		if err := sonic.Unmarshal(body, &env); err != nil {
			return zero, "", &APIError{Status: status, Message: strings.TrimSpace(string(body))}
		}
		return zero, "", &APIError{
			Status:      status,
			Code:        env.ErrorCode,
			Message:     env.Message,
			SafeToRetry: env.Data.SafeToRetry,
		}
	}

	var env envelope[T]
	if err := sonic.Unmarshal(body, &env); err != nil {
		return zero, "", fmt.Errorf("decode response: %w", err)
	}
	return env.Data, env.Message, nil
}
