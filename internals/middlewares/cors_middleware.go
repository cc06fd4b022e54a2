// middlewares/cors.go

package middlewares

import (
	"strings"

	"dochadzka_backend/internals/configs"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

const defaultAllowOrigins = "http://localhost:5173,http://127.0.0.1:5500"

// CorsMiddleware membuat middleware CORS (origins dari CORS_ALLOW_ORIGINS)
func CorsMiddleware() fiber.Handler {
	var origins []string
	for _, o := range strings.Split(configs.GetEnv("CORS_ALLOW_ORIGINS", defaultAllowOrigins), ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return cors.New(cors.Config{
		AllowOrigins:     strings.Join(origins, ", "),
		AllowMethods:     "GET,POST,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, X-Device-Code, Idempotency-Key, X-Request-ID",
		AllowCredentials: true,
	})
}
