package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/xiaot623/debate/internal/config"
	"github.com/xiaot623/debate/internal/domain"
	"github.com/xiaot623/debate/internal/hub"
	"github.com/xiaot623/debate/internal/service"
)

// Handler handles HTTP requests.
type Handler struct {
	cfg    *config.Config
	svc    *service.Service
	hub    *hub.Hub
	logger *slog.Logger
}

// NewHandler creates a new handler. h may be nil, which disables the stream.
func NewHandler(cfg *config.Config, svc *service.Service, h *hub.Hub, logger *slog.Logger) *Handler {
	if cfg == nil {
		cfg = &config.Config{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		cfg:    cfg,
		svc:    svc,
		hub:    h,
		logger: logger,
	}
}

// RegisterRoutes registers routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	// Debate API
	e.POST("/v1/debate/submit", h.Submit)
	e.GET("/v1/debate/history", h.GetHistory)
	e.GET("/v1/debate/agents", h.GetAgents)
	e.GET("/v1/debate/verdict", h.GetVerdict)
	e.GET("/v1/debate/transcript", h.GetTranscript)
	e.GET("/v1/debate/stream", h.Stream)

	// Tool API
	e.GET("/v1/tools", h.ListTools)
	e.POST("/v1/tools/:tool_name/invoke", h.InvokeTool)

	e.GET("/health", h.Health)
}

// Health returns health status.
func (h *Handler) Health(c echo.Context) error {
	resp := map[string]any{
		"status":  "healthy",
		"name":    domain.ServerName,
		"version": domain.ServerVersion,
	}
	if h.hub != nil {
		resp["connections"] = h.hub.GetConnectionCount()
	}
	return c.JSON(http.StatusOK, resp)
}

// statusFor maps a submission error to an HTTP status code.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrMissingContent):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnregisteredAgent):
		return http.StatusConflict
	case errors.Is(err, domain.ErrPolicyBlocked):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrUnknownAction):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func errorJSON(c echo.Context, status int, msg string) error {
	return c.JSON(status, domain.ErrorResponse{Error: msg})
}
