package middleware

import (
	"myBookShelf/business/recommendation"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// TraceID propagates X-Request-ID (or a fresh uuid) into the request context
// and echoes it back on the response.
func TraceID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			id := req.Header.Get(echo.HeaderXRequestID)
			if id == "" {
				id = uuid.NewString()
			}

			ctx := recommendation.ContextWithTraceID(req.Context(), id)
			c.SetRequest(req.WithContext(ctx))
			c.Response().Header().Set(echo.HeaderXRequestID, id)

			return next(c)
		}
	}
}
