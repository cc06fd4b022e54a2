package route

import (
	"dochadzka_backend/internals/features/devices/controller"
	middlewares "dochadzka_backend/internals/middlewares"

	"github.com/gofiber/fiber/v2"
)

func DeviceRoutes(r fiber.Router, ctl *controller.DeviceController) {
	g := r.Group("/devices")
	g.Post("/authorize", middlewares.DeviceAuthorizeRateLimiter(), ctl.Authorize)
	g.Get("/me", ctl.Me)
	g.Delete("/me", ctl.Forget)
}
