package repository

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang-stock-analyst/internal/analyzer/config"
	"golang-stock-analyst/pkg/logger"
	"golang-stock-analyst/pkg/metrics"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

// httpFetcher performs rate limited GET requests behind a circuit breaker.
type httpFetcher struct {
	source              string
	log                 *logger.Logger
	httpClient          *http.Client
	requestLimiter      *rate.Limiter
	breaker             *gobreaker.CircuitBreaker
	maxRequestPerMinute int
}

func newHTTPFetcher(source string, cfg config.YahooFinance, log *logger.Logger) *httpFetcher {
	secondsPerRequest := time.Minute / time.Duration(cfg.MaxRequestPerMinute)
	maxFailures := cfg.BreakerMaxFailures
	if maxFailures == 0 {
		maxFailures = 3
	}

	settings := gobreaker.Settings{
		Name:    source,
		Timeout: cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		// an unknown symbol or a cancelled request says nothing about provider health
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrSymbolNotFound) || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("Circuit breaker state changed",
				logger.StringField("source", name),
				logger.StringField("from", from.String()),
				logger.StringField("to", to.String()))
		},
	}

	return &httpFetcher{
		source:              source,
		log:                 log,
		httpClient:          &http.Client{Timeout: cfg.Timeout},
		requestLimiter:      rate.NewLimiter(rate.Every(secondsPerRequest), 1),
		breaker:             gobreaker.NewCircuitBreaker(settings),
		maxRequestPerMinute: cfg.MaxRequestPerMinute,
	}
}

// get returns the response body of url. A 404 maps to ErrSymbolNotFound and an open breaker
// to ErrProviderUnavailable.
func (f *httpFetcher) get(ctx context.Context, url string, accept string) ([]byte, error) {
	body, err := f.breaker.Execute(func() (interface{}, error) {
		return f.sendRequest(ctx, url, accept)
	})
	if err != nil {
		metrics.ProviderRequests.WithLabelValues(f.source, "error").Inc()
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%s: %w", f.source, ErrProviderUnavailable)
		}
		return nil, err
	}

	metrics.ProviderRequests.WithLabelValues(f.source, "ok").Inc()
	return body.([]byte), nil
}

func (f *httpFetcher) sendRequest(ctx context.Context, url string, accept string) ([]byte, error) {
	fields := []zap.Field{
		zap.String("source", f.source),
		zap.String("url", url),
		zap.Int("max_request_per_minute", f.maxRequestPerMinute),
	}

	if err := f.requestLimiter.Wait(ctx); err != nil {
		fields = append(fields, zap.Error(err))
		f.log.ErrorContext(ctx, "Failed to wait for request limit", fields...)
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		fields = append(fields, zap.Error(err))
		f.log.ErrorContext(ctx, "Failed to create new http request", fields...)
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", accept)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		fields = append(fields, zap.Error(err))
		f.log.ErrorContext(ctx, "Failed to send request", fields...)
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrSymbolNotFound
	}
	if resp.StatusCode != http.StatusOK {
		fields = append(fields, zap.Int("status_code", resp.StatusCode))
		f.log.ErrorContext(ctx, "Received non-OK response", fields...)
		return nil, fmt.Errorf("%s: unexpected status code %d", f.source, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		fields = append(fields, zap.Error(err))
		f.log.ErrorContext(ctx, "Failed to read response body", fields...)
		return nil, err
	}

	f.log.DebugContext(ctx, "Request completed", fields...)
	return body, nil
}
