package api

import (
	"ForecastOps/internal/usecase"
	xhttp "ForecastOps/pkg/http"
	xlogger "ForecastOps/pkg/logger"
	"ForecastOps/pkg/util"

	"github.com/labstack/echo/v4"
)

func (h *Handler) Logs(c echo.Context) error {
	symbol := util.NormalizeSymbol(c.QueryParam("ticker"))
	limit := util.ParseIntDefault(c.QueryParam("limit"), usecase.DefaultLogLimit)

	logs, err := h.logs.List(c.Request().Context(), symbol, limit)
	if err != nil {
		h.logger.Error("list logs failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, logs)
}
