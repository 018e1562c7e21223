package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/xiaot623/debate/internal/domain"
)

// ListTools handles GET /v1/tools.
func (h *Handler) ListTools(c echo.Context) error {
	return c.JSON(http.StatusOK, domain.ListToolsResponse{Tools: h.svc.ListTools()})
}

// InvokeTool handles POST /v1/tools/:tool_name/invoke. Tool failures are
// reported in the result with isError set, not through the status code.
func (h *Handler) InvokeTool(c echo.Context) error {
	toolName := c.Param("tool_name")
	var req domain.ToolInvokeRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid request body")
	}

	result := h.svc.CallTool(c.Request().Context(), toolName, req.Args)
	return c.JSON(http.StatusOK, result)
}
