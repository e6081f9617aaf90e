package api

import (
	"errors"
	"net/http"
	"time"

	"ForecastOps/internal/domain/models"
	xhttp "ForecastOps/pkg/http"
	xlogger "ForecastOps/pkg/logger"
	"ForecastOps/pkg/util"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

// statusStreamInterval is how often the websocket pushes run status.
const statusStreamInterval = 2 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The dashboard is served from a different origin in development.
	CheckOrigin: func(*http.Request) bool { return true },
}

func (h *Handler) RetryPipeline(c echo.Context) error {
	symbol := util.NormalizeSymbol(c.Param("ticker"))

	result, err := h.dispatcher.Dispatch(c.Request().Context(), symbol)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return xhttp.AppErrorResponse(c, xhttp.NotFoundErrorf("Ticker %s not found", symbol))
		}
		h.logger.Error("pipeline dispatch failed", xlogger.String("ticker", symbol), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.AcceptedResponse(c, result)
}

func (h *Handler) PipelineStatus(c echo.Context) error {
	symbol := util.NormalizeSymbol(c.Param("ticker"))

	status, err := h.status.Status(c.Request().Context(), symbol)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return xhttp.AppErrorResponse(c, xhttp.NotFoundErrorf("Ticker %s not found", symbol))
		}
		h.logger.Error("pipeline status failed", xlogger.String("ticker", symbol), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, status)
}

// StreamPipelineStatus pushes run status over a websocket until the run
// reaches a terminal state or the client disconnects.
func (h *Handler) StreamPipelineStatus(c echo.Context) error {
	symbol := util.NormalizeSymbol(c.Param("ticker"))
	ctx := c.Request().Context()

	if _, err := h.status.Status(ctx, symbol); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return xhttp.AppErrorResponse(c, xhttp.NotFoundErrorf("Ticker %s not found", symbol))
		}
		return xhttp.AppErrorResponse(c, err)
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	ticker := time.NewTicker(statusStreamInterval)
	defer ticker.Stop()

	for {
		status, err := h.status.Status(ctx, symbol)
		if err != nil {
			h.logger.Warn("status stream read failed", xlogger.String("ticker", symbol), xlogger.Error(err))
			return nil
		}
		if err := conn.WriteJSON(status); err != nil {
			return nil
		}
		if status.Status == models.RunStatusSuccess || status.Status == models.RunStatusError {
			return nil
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
