package api

import (
	"bytes"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	models "FinCast/internal/domain/models"
	"FinCast/internal/service/cache"
	"FinCast/internal/service/metrics"
	"FinCast/internal/usecase"
	xhttp "FinCast/pkg/http"
	xlogger "FinCast/pkg/logger"
	"FinCast/pkg/util"

	"github.com/labstack/echo/v4"
)

const cacheNamespace = "fincast:forecast"

// preferred column order for price tables; anything else follows alphabetically
var canonicalColumns = []string{"Open", "High", "Low", "Close", "Adj Close", "Volume"}

// ForecastEchoHandler serves the forecast API.
type ForecastEchoHandler struct {
	logger   *xlogger.Logger
	forecast *usecase.ForecastUseCase
	models   *usecase.ModelsUseCase
	cache    cache.BytesCache
	cacheTTL time.Duration
	guard    echo.MiddlewareFunc
}

func NewForecastEchoHandler(logger *xlogger.Logger, forecast *usecase.ForecastUseCase, models *usecase.ModelsUseCase) *ForecastEchoHandler {
	return &ForecastEchoHandler{logger: logger, forecast: forecast, models: models}
}

// WithCache enables response caching; a nil cache disables it.
func (h *ForecastEchoHandler) WithCache(c cache.BytesCache, ttl time.Duration) *ForecastEchoHandler {
	h.cache = c
	h.cacheTTL = ttl
	return h
}

// WithGuard installs middleware in front of the forecast route only.
func (h *ForecastEchoHandler) WithGuard(mw echo.MiddlewareFunc) *ForecastEchoHandler {
	h.guard = mw
	return h
}

func (h *ForecastEchoHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.Health)
	g := e.Group("/api")
	if h.guard != nil {
		g.POST("/forecast", h.Forecast, h.guard)
	} else {
		g.POST("/forecast", h.Forecast)
	}
	g.GET("/models", h.Models)
}

func (h *ForecastEchoHandler) Health(c echo.Context) error {
	return xhttp.SuccessResponse(c, map[string]string{"status": "ok"})
}

func (h *ForecastEchoHandler) Models(c echo.Context) error {
	return xhttp.SuccessResponse(c, &models.ModelsResponse{Models: h.models.List()})
}

func (h *ForecastEchoHandler) Forecast(c echo.Context) error {
	start := time.Now()
	defer func() {
		metrics.EndpointLatency.WithLabelValues("forecast").Observe(time.Since(start).Seconds())
	}()

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		metrics.EndpointErrors.WithLabelValues("forecast").Inc()
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError("unreadable body").WithError(err))
	}
	c.Request().Body = io.NopCloser(bytes.NewReader(body))

	key := cache.Key(cacheNamespace, body)
	if cached, ok := h.lookup(c, key); ok {
		c.Response().Header().Set("X-Cache", "HIT")
		return c.JSONBlob(http.StatusOK, cached)
	}

	req := &models.ForecastRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		metrics.EndpointErrors.WithLabelValues("forecast").Inc()
		return xhttp.BadRequestResponse(c, verr)
	}
	if name, ok := h.models.Lookup(req.Model); ok {
		req.Model = name
	}

	frame, appErr := frameFromRequest(req)
	if appErr != nil {
		metrics.EndpointErrors.WithLabelValues("forecast").Inc()
		return xhttp.AppErrorResponse(c, appErr)
	}

	res, err := h.forecast.Run(c.Request().Context(), usecase.ForecastParams{
		Symbol:  req.Symbol,
		Horizon: req.Horizon,
		Model:   req.Model,
		Window:  req.Window,
		Data:    frame,
	})
	if err != nil {
		metrics.EndpointErrors.WithLabelValues("forecast").Inc()
		if usecase.IsInputError(err) {
			return xhttp.AppErrorResponse(c, xhttp.InputError("ERR_"+strings.ToUpper(usecase.ErrorKind(err)), "", err))
		}
		h.logger.Error("forecast usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalError("forecast failed").WithError(err))
	}

	payload, err := xhttp.EncodeSuccess(models.NewForecastResponse(res, util.DateLayout))
	if err != nil {
		h.logger.Error("encode forecast response", xlogger.Error(err))
		return xhttp.InternalServerErrorResponse(c)
	}
	h.store(c, key, payload)
	c.Response().Header().Set("X-Cache", "MISS")
	return c.JSONBlob(http.StatusOK, payload)
}

func (h *ForecastEchoHandler) lookup(c echo.Context, key string) ([]byte, bool) {
	if h.cache == nil {
		return nil, false
	}
	b, ok, err := h.cache.GetBytes(c.Request().Context(), key)
	if err != nil {
		h.logger.Warn("cache get failed", xlogger.Error(err))
		metrics.CacheLookups.WithLabelValues("error").Inc()
		return nil, false
	}
	if !ok {
		metrics.CacheLookups.WithLabelValues("miss").Inc()
		return nil, false
	}
	metrics.CacheLookups.WithLabelValues("hit").Inc()
	return b, true
}

func (h *ForecastEchoHandler) store(c echo.Context, key string, payload []byte) {
	if h.cache == nil {
		return
	}
	if err := h.cache.SetBytes(c.Request().Context(), key, payload, h.cacheTTL); err != nil {
		h.logger.Warn("cache set failed", xlogger.Error(err))
	}
}

func frameFromRequest(req *models.ForecastRequest) (*models.Frame, *xhttp.AppError) {
	index := make([]time.Time, len(req.Dates))
	for i, s := range req.Dates {
		t, ok := util.ParseTime(s)
		if !ok {
			return nil, xhttp.NewAppError("ERR_INVALID_DATE", "dates", "unparseable date", http.StatusBadRequest).
				WithParam("index", i).WithParam("value", s)
		}
		index[i] = t
	}
	frame, err := models.NewFrame(index, orderColumns(req.Columns), req.Columns)
	if err != nil {
		return nil, xhttp.InputError("ERR_BAD_INPUT", "columns", err)
	}
	return frame, nil
}

func orderColumns(cols map[string][]float64) []string {
	out := make([]string, 0, len(cols))
	seen := make(map[string]bool, len(cols))
	for _, name := range canonicalColumns {
		if _, ok := cols[name]; ok {
			out = append(out, name)
			seen[name] = true
		}
	}
	rest := make([]string, 0, len(cols))
	for name := range cols {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}

var _ xhttp.Handler = (*ForecastEchoHandler)(nil)
