package logger

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// RequestContext attaches the request id, method and route template to the
// logger carried by the request context. Handlers that log through the
// request context get the fields on every line.
func RequestContext() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			id := req.Header.Get(echo.HeaderXRequestID)
			if id == "" {
				id = c.Response().Header().Get(echo.HeaderXRequestID)
			}
			if id == "" {
				id = uuid.NewString()
				c.Response().Header().Set(echo.HeaderXRequestID, id)
			}

			ctx := WithLogger(req.Context(), map[string]interface{}{
				"request_id": id,
				"method":     req.Method,
				"route":      c.Path(),
			})
			c.SetRequest(req.WithContext(ctx))
			return next(c)
		}
	}
}
