package controller

import (
	"time"

	"dochadzka_backend/internals/constants"
	"dochadzka_backend/internals/features/devices/cache"
	"dochadzka_backend/internals/features/devices/dto"
	"dochadzka_backend/internals/features/devices/service"
	helper "dochadzka_backend/internals/helpers"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type DeviceController struct {
	Gate         *service.Gate
	Loc          *time.Location
	SecureCookie bool
	DayScoped    bool
	Now          func() time.Time

	validate *validator.Validate
}

func NewDeviceController(gate *service.Gate, loc *time.Location, secureCookie, dayScoped bool) *DeviceController {
	return &DeviceController{
		Gate:         gate,
		Loc:          loc,
		SecureCookie: secureCookie,
		DayScoped:    dayScoped,
		Now:          time.Now,
		validate:     validator.New(),
	}
}

/* ===================== AUTHORIZE ===================== */
// POST /api/devices/authorize
func (ctrl *DeviceController) Authorize(c *fiber.Ctx) error {
	var req dto.AuthorizeDeviceRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid payload")
	}
	if err := ctrl.validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	ok, err := ctrl.Gate.Check(c.UserContext(), req.Code)
	if err != nil {
		return helper.JsonErrorCode(c, fiber.StatusServiceUnavailable,
			constants.CodeRemoteUnavailable, constants.MsgTryAgain, fiber.Map{"safe_to_retry": true})
	}
	if !ok {
		return helper.JsonErrorCode(c, fiber.StatusForbidden,
			constants.CodeDeviceNotAuthorized, constants.MsgDeviceNotAuthorized, nil)
	}

	a := cache.NewAuthorization(ctrl.Gate.Normalize(req.Code), ctrl.Now(), ctrl.Loc, ctrl.DayScoped)
	if err := cache.NewCookieCache(c, ctrl.Loc, ctrl.SecureCookie).Set(a); err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonOK(c, constants.MsgDeviceAuthorized, dto.NewDeviceAuthorizationResponse(a, ctrl.Loc))
}

/* ===================== STATUS ===================== */
// GET /api/devices/me
func (ctrl *DeviceController) Me(c *fiber.Ctx) error {
	a, ok := cache.Lookup(cache.NewCookieCache(c, ctrl.Loc, ctrl.SecureCookie), ctrl.Now(), ctrl.Loc)
	if !ok {
		return helper.JsonErrorCode(c, fiber.StatusForbidden,
			constants.CodeDeviceNotAuthorized, constants.MsgDeviceNotAuthorized, nil)
	}
	return helper.JsonOK(c, "ok", dto.NewDeviceAuthorizationResponse(a, ctrl.Loc))
}

/* ===================== FORGET ===================== */
// DELETE /api/devices/me
func (ctrl *DeviceController) Forget(c *fiber.Ctx) error {
	_ = cache.NewCookieCache(c, ctrl.Loc, ctrl.SecureCookie).Clear()
	return helper.JsonDeleted(c, constants.MsgDeviceForgotten, nil)
}
