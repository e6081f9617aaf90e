package api

import (
	"ForecastOps/internal/domain/models"
	xhttp "ForecastOps/pkg/http"
	xlogger "ForecastOps/pkg/logger"

	"github.com/labstack/echo/v4"
)

func (h *Handler) GetSettings(c echo.Context) error {
	settings, err := h.settings.Get(c.Request().Context())
	if err != nil {
		h.logger.Error("get settings failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, settings)
}

func (h *Handler) UpdateSettings(c echo.Context) error {
	req := &models.UpdateSettingsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	settings, err := h.settings.Update(c.Request().Context(), req)
	if err != nil {
		h.logger.Error("update settings failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, settings)
}
