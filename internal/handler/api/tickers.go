package api

import (
	"errors"

	"ForecastOps/internal/domain/models"
	"ForecastOps/internal/usecase"
	xhttp "ForecastOps/pkg/http"
	xlogger "ForecastOps/pkg/logger"
	"ForecastOps/pkg/util"

	"github.com/labstack/echo/v4"
)

func (h *Handler) ListTickers(c echo.Context) error {
	tickers, err := h.tickers.List(c.Request().Context())
	if err != nil {
		h.logger.Error("list tickers failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, tickers)
}

func (h *Handler) CreateTicker(c echo.Context) error {
	req := &models.CreateTickerRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	t, err := h.tickers.Create(c.Request().Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrSymbolRequired):
			return xhttp.AppErrorResponse(c, xhttp.BadRequestError("Ticker symbol is required"))
		case errors.Is(err, models.ErrDuplicate):
			symbol := util.NormalizeSymbol(req.ResolveSymbol())
			return xhttp.AppErrorResponse(c, xhttp.ConflictErrorf("Ticker %s already exists", symbol))
		default:
			h.logger.Error("create ticker failed", xlogger.Error(err))
			return xhttp.AppErrorResponse(c, err)
		}
	}
	return xhttp.CreatedResponse(c, t)
}

func (h *Handler) TickerDetail(c echo.Context) error {
	symbol := util.NormalizeSymbol(c.Param("ticker"))

	t, err := h.tickers.Detail(c.Request().Context(), symbol)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return xhttp.AppErrorResponse(c, xhttp.NotFoundErrorf("Ticker %s not found", symbol))
		}
		h.logger.Error("ticker detail failed", xlogger.String("ticker", symbol), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, t)
}

func (h *Handler) DeleteTicker(c echo.Context) error {
	symbol := util.NormalizeSymbol(c.Param("ticker"))

	if err := h.tickers.Delete(c.Request().Context(), symbol); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return xhttp.AppErrorResponse(c, xhttp.NotFoundErrorf("Ticker %s not found", symbol))
		}
		h.logger.Error("delete ticker failed", xlogger.String("ticker", symbol), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.NoContentResponse(c)
}
