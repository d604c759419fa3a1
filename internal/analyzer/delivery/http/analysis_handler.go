package http

import (
	"errors"
	"net/http"

	"golang-stock-analyst/internal/analyzer/dto"
	"golang-stock-analyst/internal/analyzer/report"
	"golang-stock-analyst/internal/analyzer/repository"
	"golang-stock-analyst/internal/analyzer/service"
	"golang-stock-analyst/pkg/common"
	"golang-stock-analyst/pkg/logger"

	"github.com/labstack/echo/v4"
)

// AnalysisHandler handles HTTP requests for stock analyses.
type AnalysisHandler struct {
	analysisService  service.AnalysisService
	schedulerService service.SchedulerService
	logger           *logger.Logger
}

// NewAnalysisHandler creates a new AnalysisHandler. schedulerService may be nil,
// in which case queueing is reported as unavailable.
func NewAnalysisHandler(analysisService service.AnalysisService, schedulerService service.SchedulerService, logger *logger.Logger) *AnalysisHandler {
	return &AnalysisHandler{analysisService: analysisService, schedulerService: schedulerService, logger: logger}
}

// RegisterRoutes registers the analysis routes to the Echo group.
func (h *AnalysisHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/:symbol", h.GetAnalysis)
	g.POST("/:symbol/queue", h.QueueAnalysis)
}

// GetAnalysis godoc
// @Summary Analyze a stock
// @Description Runs the twenty questions for a symbol. Returns JSON, or the rendered report when format is text or markdown.
// @Tags analysis
// @Produce  json
// @Produce  plain
// @Param   symbol  path    string true  "Ticker symbol"
// @Param   format  query   string false "text or markdown"
// @Success 200 {object} dto.AnalysisResult
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /analysis/{symbol} [get]
func (h *AnalysisHandler) GetAnalysis(c echo.Context) error {
	format := c.QueryParam("format")
	if format != "" && format != common.ReportFormatText && format != common.ReportFormatMarkdown {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "format must be text or markdown"})
	}

	result, err := h.analysisService.Analyze(c.Request().Context(), c.Param("symbol"))
	if err != nil {
		return c.JSON(statusOf(err), dto.ErrorResponse{Error: err.Error()})
	}

	if format == "" {
		return c.JSON(http.StatusOK, result)
	}

	content, err := report.Render(result, format)
	if err != nil {
		h.logger.Error("Failed to render report", logger.ErrorField(err), logger.StringField("symbol", result.Symbol))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: err.Error()})
	}
	if format == common.ReportFormatMarkdown {
		return c.Blob(http.StatusOK, "text/markdown; charset=UTF-8", []byte(content))
	}
	return c.String(http.StatusOK, content)
}

// QueueAnalysis godoc
// @Summary Queue a stock analysis
// @Description Publishes an analysis request to the analyzer stream. The result is delivered by Telegram when notify is true.
// @Tags analysis
// @Produce  json
// @Param   symbol  path    string true  "Ticker symbol"
// @Param   notify  query   bool   false "Send the summary to Telegram"
// @Success 202 {object} map[string]string
// @Failure 400 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /analysis/{symbol}/queue [post]
func (h *AnalysisHandler) QueueAnalysis(c echo.Context) error {
	if h.schedulerService == nil {
		return c.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{Error: "queueing is not available"})
	}

	notify := c.QueryParam("notify") == "true"
	id, err := h.schedulerService.Publish(c.Request().Context(), c.Param("symbol"), notify)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidSymbol) {
			return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: err.Error()})
	}

	return c.JSON(http.StatusAccepted, echo.Map{"message_id": id})
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, repository.ErrInvalidSymbol):
		return http.StatusBadRequest
	case errors.Is(err, repository.ErrSymbolNotFound):
		return http.StatusNotFound
	case errors.Is(err, repository.ErrProviderUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
