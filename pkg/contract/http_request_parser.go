package contract

import "github.com/gofiber/fiber/v2"

// HTTPRequestParser decodes and validates inbound request payloads.
// Implementations report malformed input as *Error so handlers can
// pass it through unchanged.
type HTTPRequestParser interface {
	ParseBody(ctx *fiber.Ctx, out interface{}) *Error
}
