package api

import (
	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/pizzabook/pizza-api/docs"
	"github.com/pizzabook/pizza-api/internal/api/handler"
	"github.com/pizzabook/pizza-api/internal/api/middleware"
	"github.com/pizzabook/pizza-api/internal/core/ports"
	"github.com/pizzabook/pizza-api/internal/infrastructure/http/handlers"
)

// Dependencies is everything the router needs from the composition root.
type Dependencies struct {
	Pizzas  ports.PizzaService
	Users   ports.UserDirectory
	Limiter middleware.Limiter
	// Readiness checks run by GET /health/ready, keyed by dependency name.
	Readiness map[string]handlers.Check

	SessionSecret string
	SessionCookie string

	Logger zerolog.Logger

	// Registerer and Gatherer default to the global Prometheus registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(requestLogger(deps.Logger))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:                 "pizza",
		Subsystem:                 "http",
		Registerer:                deps.Registerer,
		DoNotUseRequestPathFor404: true,
	}))

	// --- Dependencies ---
	pizzaHandler := handler.NewPizzaHandler(deps.Pizzas, deps.Users)
	session := middleware.Session(deps.SessionSecret, deps.SessionCookie)
	rateLimit := middleware.RateLimit(deps.Limiter, deps.Logger)

	// --- Pizza routes ---
	// Middleware is attached per route so that unsupported methods are
	// answered with 405 before any session check.
	e.POST("/pizzas", pizzaHandler.Create, session, rateLimit)
	e.POST("/pizzas/create", pizzaHandler.Create, session, rateLimit)
	e.GET("/pizzas", pizzaHandler.List, session)
	e.PUT("/pizzas/delete/:id", pizzaHandler.Hide, session)
	for _, path := range []string{"/pizzas", "/pizzas/create", "/pizzas/delete/:id"} {
		e.OPTIONS(path, methodNotAllowed)
	}

	// --- Health probes (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	readinessHandler := handlers.NewReadinessHandler(deps.Readiness)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?

	// --- Operations ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: deps.Gatherer,
	}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// methodNotAllowed replaces echo's automatic OPTIONS reply.
func methodNotAllowed(echo.Context) error {
	return echo.ErrMethodNotAllowed
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			if v.Error != nil {
				evt = log.Warn().Err(v.Error)
			}
			evt.
				Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}
