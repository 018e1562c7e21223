package http

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/xiaot623/debate/internal/domain"
	"github.com/xiaot623/debate/internal/service"
	"github.com/xiaot623/debate/internal/tools"
)

// Submit handles POST /v1/debate/submit.
func (h *Handler) Submit(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid request body")
	}
	input, err := tools.DecodeArgs(body)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, err.Error())
	}

	outcome, err := h.svc.Submit(c.Request().Context(), input)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			h.logger.Error("submit failed", "error", err)
		}
		return errorJSON(c, status, err.Error())
	}
	return c.JSON(http.StatusOK, outcome.Snapshot)
}

// GetHistory handles GET /v1/debate/history.
func (h *Handler) GetHistory(c echo.Context) error {
	records := h.svc.History()
	return c.JSON(http.StatusOK, domain.HistoryResponse{
		Records: records,
		Total:   len(records),
	})
}

// GetAgents handles GET /v1/debate/agents.
func (h *Handler) GetAgents(c echo.Context) error {
	return c.JSON(http.StatusOK, domain.AgentsResponse{Agents: h.svc.Agents()})
}

// GetVerdict handles GET /v1/debate/verdict.
func (h *Handler) GetVerdict(c echo.Context) error {
	v := h.svc.Verdict()
	if v == nil {
		return errorJSON(c, http.StatusNotFound, "no verdict yet")
	}
	return c.JSON(http.StatusOK, v)
}

// GetTranscript handles GET /v1/debate/transcript.
func (h *Handler) GetTranscript(c echo.Context) error {
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return errorJSON(c, http.StatusBadRequest, "limit must be a non-negative integer")
		}
		limit = n
	}

	records, err := h.svc.Transcript(c.Request().Context(), limit)
	if err != nil {
		if errors.Is(err, service.ErrNoArchive) {
			return errorJSON(c, http.StatusNotFound, err.Error())
		}
		h.logger.Error("transcript read failed", "error", err)
		return errorJSON(c, http.StatusInternalServerError, "failed to read transcript")
	}
	return c.JSON(http.StatusOK, domain.HistoryResponse{
		Records: records,
		Total:   len(records),
	})
}
