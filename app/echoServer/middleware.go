// app/echoServer/middleware.go
package echoServer

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/armando2sarango/cuencawheels-rest-sub000/app/echoServer/jwtx"
	"github.com/armando2sarango/cuencawheels-rest-sub000/model"
	sessionsvc "github.com/armando2sarango/cuencawheels-rest-sub000/service/session"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

func RegisterMiddlewares(e *echo.Echo) {

	e.Use(middleware.Recover())

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: func() string { return uuid.NewString() },
	}))

	e.Use(Slog())
}

func Slog() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			lat := time.Since(start).Milliseconds()

			rid := c.Response().Header().Get(echo.HeaderXRequestID)
			slog.Info("http",
				"method", c.Request().Method,
				"path", c.Path(),
				"status", c.Response().Status,
				"latency_ms", lat,
				"req_id", rid,
				"ip", c.RealIP(),
				"ua", c.Request().UserAgent(),
			)
			return err
		}
	}
}

// SessionGuard runs after the JWT check. It resolves the sliding-expiry
// session named by the token's sid claim, touches it so activity extends
// the window, and stashes identity in the echo context.
func SessionGuard(mgr *sessionsvc.Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sid, err := jwtx.SessionIDFromContext(c)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
			}
			sess, err := mgr.Get(sid)
			if err != nil {
				if errors.Is(err, sessionsvc.ErrExpired) || errors.Is(err, sessionsvc.ErrNotFound) {
					return c.JSON(http.StatusUnauthorized, echo.Map{"message": "session expired"})
				}
				return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
			}
			_ = mgr.Touch(sid)

			c.Set("session_id", sid)
			c.Set("user_id", sess.UserID)
			c.Set("role", sess.Role)
			c.Set("cart_id", sess.CartID)
			return next(c)
		}
	}
}

// RequireAdmin gates the back-office endpoints.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("role").(string)
			if role != model.RoleAdministrator {
				return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
			}
			return next(c)
		}
	}
}
