// file: internals/route/index.go
package routes

import (
	"log"
	"time"

	"dochadzka_backend/internals/configs"
	attendanceController "dochadzka_backend/internals/features/attendance/controller"
	attendanceRepo "dochadzka_backend/internals/features/attendance/repository"
	attendanceRoute "dochadzka_backend/internals/features/attendance/route"
	attendanceService "dochadzka_backend/internals/features/attendance/service"
	deviceController "dochadzka_backend/internals/features/devices/controller"
	deviceRepo "dochadzka_backend/internals/features/devices/repository"
	deviceRoute "dochadzka_backend/internals/features/devices/route"
	deviceService "dochadzka_backend/internals/features/devices/service"
	"dochadzka_backend/internals/middlewares/device"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

var startTime time.Time

func SetupRoutes(app *fiber.App, db *gorm.DB, policy configs.Policy) {
	startTime = time.Now()

	secureCookie := configs.GetEnvBool("COOKIE_SECURE", false)
	dayScoped := configs.GetEnvBool("DEVICE_CACHE_DAY_SCOPED", true)

	// ===================== BASE =====================
	log.Println("[INFO] Setting up BaseRoutes...")
	BaseRoutes(app, db)

	gate := deviceService.NewGate(deviceRepo.NewDeviceRepository(db), policy.DeviceCodeLength)
	recorder := attendanceService.NewRecorder(policy, attendanceRepo.NewAttendanceRepository(db))

	api := app.Group("/api")

	// ===================== DEVICE GATE (public) =====================
	log.Println("[INFO] Setting up DeviceRoutes...")
	deviceRoute.DeviceRoutes(api, deviceController.NewDeviceController(gate, policy.Location, secureCookie, dayScoped))

	// ===================== KIOSK (authorized device) =====================
	log.Println("[INFO] Setting up AttendanceRoutes (RequireDevice)...")
	requireDevice := device.RequireDevice(gate, device.Options{
		Location:     policy.Location,
		SecureCookie: secureCookie,
		DayScoped:    dayScoped,
	})
	attendanceRoute.AttendanceRoutes(api, attendanceController.NewAttendanceController(recorder), requireDevice)

	log.Printf("[INFO] Routes ready (zone=%s, badge_len=%d)", policy.Location, policy.BadgeCodeLength)
}
