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

func (h *Handler) ListModels(c echo.Context) error {
	symbol := util.NormalizeSymbol(c.Param("ticker"))

	candidates, err := h.candidates.List(c.Request().Context(), symbol)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			return xhttp.AppErrorResponse(c, xhttp.NotFoundErrorf("Ticker %s not found", symbol))
		case errors.Is(err, usecase.ErrNoModels):
			return xhttp.AppErrorResponse(c, xhttp.NotFoundErrorf("No models available for %s", symbol))
		default:
			h.logger.Error("list models failed", xlogger.String("ticker", symbol), xlogger.Error(err))
			return xhttp.AppErrorResponse(c, err)
		}
	}
	return xhttp.SuccessResponse(c, candidates)
}

func (h *Handler) DeployModel(c echo.Context) error {
	symbol := util.NormalizeSymbol(c.Param("ticker"))

	req := &models.DeployModelRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	result, err := h.candidates.Deploy(c.Request().Context(), symbol, req)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			return xhttp.AppErrorResponse(c, xhttp.NotFoundErrorf("Ticker %s not found", symbol))
		case errors.Is(err, usecase.ErrNotCandidate):
			return xhttp.AppErrorResponse(c, xhttp.ConflictErrorf("Model %s not found in candidates for %s", req.Model, symbol))
		default:
			h.logger.Error("deploy model failed", xlogger.String("ticker", symbol), xlogger.Error(err))
			return xhttp.AppErrorResponse(c, err)
		}
	}
	return xhttp.SuccessResponse(c, result)
}
