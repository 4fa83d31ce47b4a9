package http

import (
	"net/http"
	"ticketing/monitoring"

	commonHTTP "github.com/ThreeDotsLabs/go-event-driven/common/http"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

var ErrServerClosed = http.ErrServerClosed

type RouterConfig struct {
	Auth    AuthService
	Events  EventService
	Tickets TicketService

	// AttendanceEnabled registers GET /events/:id/attendance.
	AttendanceEnabled bool
}

func NewRouter(cfg RouterConfig) *echo.Echo {
	server := commonHTTP.NewEcho()
	server.HideBanner = true
	server.HTTPErrorHandler = errorHandler

	server.Pre(middleware.RemoveTrailingSlash())
	server.Use(middleware.Recover())
	server.Use(correlationIDMiddleware)
	server.Use(monitoring.HTTPMiddleware)
	server.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{echo.HeaderAuthorization, echo.HeaderContentType},
		AllowMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPatch,
			http.MethodDelete, http.MethodOptions,
		},
	}))

	server.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, landingResponse{
			Message: "Welcome to the Events API!",
			Endpoints: map[string][]string{
				"auth":    {"/auth/signup", "/auth/login", "/auth/update-profile", "/auth/account"},
				"events":  {"/events", "/events/:id"},
				"tickets": {"/tickets", "/tickets/my", "/tickets/:id/confirm", "/tickets/:id/cancel"},
			},
		})
	})
	server.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "healthy",
			"message": "Events API is running fine!",
		})
	})
	server.GET("/metrics", monitoring.Handler())

	h := handler{
		auth:    cfg.Auth,
		events:  cfg.Events,
		tickets: cfg.Tickets,
	}
	authenticated := authMiddleware(cfg.Auth)

	authGroup := server.Group("/auth")
	authGroup.POST("/signup", h.Signup)
	authGroup.POST("/login", h.Login)
	authGroup.PATCH("/update-profile", h.UpdateProfile, authenticated)
	authGroup.DELETE("/account", h.DeleteAccount, authenticated)

	server.GET("/events", h.ListEvents)
	server.GET("/events/:id", h.GetEvent)
	server.POST("/events", h.CreateEvent, authenticated)
	server.PATCH("/events/:id", h.UpdateEvent, authenticated)
	server.DELETE("/events/:id", h.DeleteEvent, authenticated)
	if cfg.AttendanceEnabled {
		server.GET("/events/:id/attendance", h.GetAttendance, authenticated)
	}

	server.POST("/tickets", h.IssueTicket, authenticated)
	server.GET("/tickets/my", h.ListMyTickets, authenticated)
	server.PATCH("/tickets/:id/confirm", h.ConfirmTicket, authenticated)
	server.PATCH("/tickets/:id/cancel", h.CancelTicket, authenticated)

	return server
}
