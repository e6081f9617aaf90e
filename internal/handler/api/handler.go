package api

import (
	"time"

	"ForecastOps/internal/usecase"
	xhttp "ForecastOps/pkg/http"
	xlogger "ForecastOps/pkg/logger"
	"ForecastOps/pkg/util"

	"github.com/labstack/echo/v4"
)

// Version reported by the health endpoint.
const Version = "0.1.0"

// Handler exposes the REST API consumed by the dashboard.
type Handler struct {
	logger     *xlogger.Logger
	tickers    *usecase.TickerUseCase
	candidates *usecase.ModelsUseCase
	forecasts  *usecase.ForecastUseCase
	logs       *usecase.LogsUseCase
	settings   *usecase.SettingsUseCase
	dispatcher *usecase.PipelineDispatcher
	status     *usecase.PipelineStatus
}

func NewHandler(
	lgr *xlogger.Logger,
	tickers *usecase.TickerUseCase,
	candidates *usecase.ModelsUseCase,
	forecasts *usecase.ForecastUseCase,
	logs *usecase.LogsUseCase,
	settings *usecase.SettingsUseCase,
	dispatcher *usecase.PipelineDispatcher,
	status *usecase.PipelineStatus,
) *Handler {
	return &Handler{
		logger:     lgr,
		tickers:    tickers,
		candidates: candidates,
		forecasts:  forecasts,
		logs:       logs,
		settings:   settings,
		dispatcher: dispatcher,
		status:     status,
	}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")

	g.GET("/health", h.Health)

	g.GET("/tickers", h.ListTickers)
	g.POST("/tickers", h.CreateTicker)
	g.GET("/tickers/:ticker", h.TickerDetail)
	g.DELETE("/tickers/:ticker", h.DeleteTicker)

	g.POST("/pipeline/:ticker/retry", h.RetryPipeline)
	g.GET("/pipeline/:ticker/status", h.PipelineStatus)
	g.GET("/pipeline/:ticker/stream", h.StreamPipelineStatus)

	g.GET("/models/:ticker", h.ListModels)
	g.POST("/models/:ticker/deploy", h.DeployModel)

	g.GET("/forecast/:ticker", h.Forecast)
	g.GET("/logs", h.Logs)

	g.GET("/settings", h.GetSettings)
	g.PUT("/settings", h.UpdateSettings)
}

func (h *Handler) Health(c echo.Context) error {
	return xhttp.SuccessResponse(c, map[string]string{
		"status":    "healthy",
		"timestamp": util.FormatTimestamp(time.Now().UTC()),
		"version":   Version,
	})
}
