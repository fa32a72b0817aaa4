// Package serviceutils holds the JSON response envelope shared by handlers.
package serviceutils

import (
	"github.com/labstack/echo/v4"
	"github.com/locvowork/orgmaker/internal/logger"
)

// APIResponse is the envelope every endpoint answers with.
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func ResponseSuccess(c echo.Context, status int, message string, data interface{}) error {
	return c.JSON(status, APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// ResponseError logs err against the request and writes the error envelope.
func ResponseError(c echo.Context, status int, message string, err error) error {
	resp := APIResponse{
		Success: false,
		Message: message,
	}
	if err != nil {
		resp.Error = err.Error()
		logger.WarnLog(c.Request().Context(), "%s %s: %s: %v", c.Request().Method, c.Path(), message, err)
	}
	return c.JSON(status, resp)
}
