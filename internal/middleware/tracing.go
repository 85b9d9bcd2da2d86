package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	headerTraceID = "X-Trace-Id"
	localsTraceID = "trace_id"
)

// Tracing stamps each request with a fresh trace ID. Handlers and the route
// logger read it from Locals; the response echoes it so a client can quote
// the ID when reporting a failed upload.
func Tracing() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := uuid.NewString()
		c.Locals(localsTraceID, id)
		c.Set(headerTraceID, id)
		return c.Next()
	}
}

// GetTraceID reads the request's trace ID, empty when tracing is not mounted.
func GetTraceID(c *fiber.Ctx) string {
	id, _ := c.Locals(localsTraceID).(string)
	return id
}
