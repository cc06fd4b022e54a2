package controller

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"dochadzka_backend/internals/constants"
	"dochadzka_backend/internals/features/attendance/dto"
	"dochadzka_backend/internals/features/attendance/service"
	helper "dochadzka_backend/internals/helpers"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const HeaderIdempotencyKey = "Idempotency-Key"

type AttendanceController struct {
	Recorder *service.Recorder
	Now      func() time.Time

	validate *validator.Validate
}

func NewAttendanceController(rec *service.Recorder) *AttendanceController {
	v := validator.New()
	_ = v.RegisterValidation("attendance_action", func(fl validator.FieldLevel) bool {
		_, ok := constants.ParseAction(fl.Field().String())
		return ok
	})
	return &AttendanceController{Recorder: rec, Now: time.Now, validate: v}
}

/* ===================== RECORD ===================== */
// POST /api/attendance
func (ctrl *AttendanceController) Record(c *fiber.Ctx) error {
	// Timestamp diambil saat submit, bukan dari klien
	now := ctrl.Now()

	var req dto.RecordAttendanceRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid payload")
	}
	if req.IdempotencyKey == "" {
		req.IdempotencyKey = strings.TrimSpace(c.Get(HeaderIdempotencyKey))
	}
	// badge shape, then roster, then the rest of the payload
	if _, err := ctrl.Recorder.Validate(req.UserCode, req.Position); err != nil {
		return recordError(c, err)
	}
	if err := ctrl.validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	action, _ := constants.ParseAction(req.Action)
	sub := service.Submission{
		BadgeCode: req.UserCode,
		Position:  req.Position,
		Action:    action,
		Timestamp: now,
	}
	if req.IdempotencyKey != "" {
		key, err := uuid.Parse(req.IdempotencyKey)
		if err != nil {
			return helper.JsonValidationError(c, map[string][]string{"IdempotencyKey": {"uuid"}})
		}
		sub.IdempotencyKey = &key
	}

	out, err := ctrl.Recorder.Record(c.UserContext(), sub)
	if err != nil {
		return recordError(c, err)
	}

	data := dto.NewAttendanceResponse(out.Event, out.Duplicate)
	msg := outcomeMessage(action, out.Valid)
	if out.Duplicate {
		return helper.JsonOK(c, msg, data)
	}
	return helper.JsonCreated(c, msg, data)
}

// "Príchod zaznamenaný (platný)" / "Odchod zaznamenaný (mimo času)"
func outcomeMessage(a constants.Action, valid bool) string {
	flag := "(mimo času)"
	if valid {
		flag = "(platný)"
	}
	return fmt.Sprintf("%s zaznamenaný %s", a, flag)
}

func recordError(c *fiber.Ctx, err error) error {
	var re *service.RecordError
	if !errors.As(err, &re) {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	switch re.Kind {
	case service.KindInvalidCodeShape:
		return helper.JsonErrorCode(c, fiber.StatusUnprocessableEntity,
			constants.CodeInvalidCodeShape, constants.MsgInvalidBadge, nil)
	case service.KindUnknownPosition:
		return helper.JsonErrorCode(c, fiber.StatusUnprocessableEntity,
			constants.CodeUnknownPosition, constants.MsgUnknownPosition, nil)
	case service.KindIdempotencyConflict:
		return helper.JsonErrorCode(c, fiber.StatusConflict,
			constants.CodeIdempotencyConflict, constants.MsgIdempotencyConflict, nil)
	case service.KindDeviceNotAuthorized:
		return helper.JsonErrorCode(c, fiber.StatusForbidden,
			constants.CodeDeviceNotAuthorized, constants.MsgDeviceNotAuthorized, nil)
	default:
		return helper.JsonErrorCode(c, fiber.StatusServiceUnavailable,
			constants.CodeRemoteUnavailable, constants.MsgNotRecorded,
			fiber.Map{"safe_to_retry": re.SafeToRetry})
	}
}

/* ===================== POSITIONS ===================== */
// GET /api/attendance/positions
func (ctrl *AttendanceController) Positions(c *fiber.Ctx) error {
	return helper.JsonOK(c, "ok", dto.PositionsResponse{Positions: ctrl.Recorder.Policy().Positions})
}

/* ===================== CLOCK ===================== */
// GET /api/attendance/clock
func (ctrl *AttendanceController) Clock(c *fiber.Ctx) error {
	p := ctrl.Recorder.Policy()
	now := service.ResolveTimestamp(p, ctrl.Now())

	open := []string{}
	for _, a := range service.OpenActions(p, now) {
		open = append(open, a.String())
	}
	return helper.JsonOK(c, "ok", dto.ClockResponse{
		Now:              now,
		Clock:            now.Format("15:04:05"),
		TimeZone:         p.Location.String(),
		OpenActions:      open,
		ArrivalWindows:   p.ArrivalWindows,
		DepartureWindows: p.DepartureWindows,
	})
}
