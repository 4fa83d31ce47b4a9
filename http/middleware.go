package http

import (
	"strings"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/labstack/echo/v4"
	"github.com/lithammer/shortuuid/v3"
	"github.com/sirupsen/logrus"
)

const headerKeyCorrelationID = "Correlation-ID"

const contextKeyUserID = "user_id"

func correlationIDMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()

		correlationID := req.Header.Get(headerKeyCorrelationID)
		if correlationID == "" {
			correlationID = "gen_" + shortuuid.New()
		}

		ctx := log.ContextWithCorrelationID(req.Context(), correlationID)
		ctx = log.ToContext(ctx, logrus.WithFields(logrus.Fields{
			"correlation_id": correlationID,
			"method":         req.Method,
			"path":           req.URL.Path,
		}))
		c.SetRequest(req.WithContext(ctx))
		c.Response().Header().Set(headerKeyCorrelationID, correlationID)

		return next(c)
	}
}

// authMiddleware only checks the bearer token. Handlers that need the user
// record load it themselves, so a deleted user surfaces as not found.
func authMiddleware(auth AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))

			userID, err := auth.VerifyToken(token)
			if err != nil {
				return toHTTPError(err)
			}

			c.Set(contextKeyUserID, userID)
			ctx := log.ToContext(c.Request().Context(), log.FromContext(c.Request().Context()).WithField("user_id", userID))
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func currentUserID(c echo.Context) string {
	userID, _ := c.Get(contextKeyUserID).(string)
	return userID
}
