package api

import (
	"errors"
	"strconv"

	"ForecastOps/internal/domain/models"
	"ForecastOps/internal/usecase"
	xhttp "ForecastOps/pkg/http"
	xlogger "ForecastOps/pkg/logger"
	"ForecastOps/pkg/util"

	"github.com/labstack/echo/v4"
)

func (h *Handler) Forecast(c echo.Context) error {
	symbol := util.NormalizeSymbol(c.Param("ticker"))

	horizon := usecase.DefaultHorizon
	if raw := c.QueryParam("horizon"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > usecase.MaxHorizon {
			return xhttp.AppErrorResponse(c,
				xhttp.BadRequestErrorf("Horizon must be an integer between 1 and %d", usecase.MaxHorizon))
		}
		horizon = n
	}

	forecast, err := h.forecasts.Get(c.Request().Context(), symbol, horizon)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			return xhttp.AppErrorResponse(c, xhttp.NotFoundErrorf("Ticker %s not found", symbol))
		case errors.Is(err, usecase.ErrNoForecast):
			return xhttp.AppErrorResponse(c, xhttp.NotFoundErrorf("No forecast data available for %s", symbol))
		default:
			h.logger.Error("forecast failed", xlogger.String("ticker", symbol), xlogger.Error(err))
			return xhttp.AppErrorResponse(c, err)
		}
	}
	return xhttp.SuccessResponse(c, forecast)
}
