package middlewares

import (
	"log"
	"time"

	"dochadzka_backend/internals/configs"
	"dochadzka_backend/internals/helpers/dbtime"
	"dochadzka_backend/internals/middlewares/logger"
	"dochadzka_backend/internals/middlewares/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/encryptcookie"
	"github.com/gofiber/fiber/v2/middleware/etag"
)

// SetupMiddlewares memasang middleware global sesuai urutan yang aman.
func SetupMiddlewares(app *fiber.App, loc *time.Location) {
	app.Use(RecoveryMiddleware())
	app.Use(RequestID(configs.GetEnvDuration("REQUEST_TIMEOUT", 5*time.Second)))
	app.Use(logger.LoggerMiddleware(loc.String()))
	app.Use(metrics.Middleware())
	app.Use(compress.New(compress.Config{Level: compress.LevelDefault}))
	app.Use(etag.New())
	app.Use(CorsMiddleware())
	app.Use(GlobalRateLimiter())
	app.Use(encryptcookie.New(encryptcookie.Config{Key: cookieKey()}))
	app.Use(dbtime.UseLocation(loc))
}

func cookieKey() string {
	if k := configs.GetEnv("COOKIE_KEY"); k != "" {
		return k
	}
	log.Println("⚠️ COOKIE_KEY is not set, generating an ephemeral key (device cookies reset on restart)")
	return encryptcookie.GenerateKey()
}
