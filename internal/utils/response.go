package utils

import (
	"github.com/gofiber/fiber/v2"
)

// DataResponse sends {success:true, data:...}, the envelope every list and
// create route shares.
func DataResponse(c *fiber.Ctx, data interface{}) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"data":    data,
	})
}

// MessageResponse sends {success:true, message:...}.
func MessageResponse(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": message,
	})
}

// ErrorResponse sends {success:false, message:...} with the given status.
func ErrorResponse(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}

// NotFoundResponse sends a 404 with {success:false, message:...}.
func NotFoundResponse(c *fiber.Ctx, message string) error {
	return ErrorResponse(c, fiber.StatusNotFound, message)
}

// ServerErrorResponse sends a 500 with a generic message. The underlying
// error is logged server-side, never echoed to the client.
func ServerErrorResponse(c *fiber.Ctx) error {
	return ErrorResponse(c, fiber.StatusInternalServerError, "Server error")
}

// ErrorResponseStruct defines the schema for error responses
type ErrorResponseStruct struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// DataResponseStruct defines the schema for data responses
type DataResponseStruct struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
}
