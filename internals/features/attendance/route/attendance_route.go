package route

import (
	"dochadzka_backend/internals/features/attendance/controller"

	"github.com/gofiber/fiber/v2"
)

// AttendanceRoutes mounts /attendance behind the device guard.
func AttendanceRoutes(r fiber.Router, ctl *controller.AttendanceController, guard fiber.Handler) {
	g := r.Group("/attendance", guard)
	g.Post("/", ctl.Record)
	g.Get("/positions", ctl.Positions)
	g.Get("/clock", ctl.Clock)
}
