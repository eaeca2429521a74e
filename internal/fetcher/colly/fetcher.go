// Package collyfetcher implements citation.Fetcher using gocolly.
package collyfetcher

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"

	"github.com/JakeFAU/webcite/internal/citation"
)

// ErrEmptyURL is returned when Fetch is called without a URL.
var ErrEmptyURL = errors.New("empty url")

// ErrNoResponse is returned when the collector finished without a response or error.
var ErrNoResponse = errors.New("colly fetch produced no response")

const defaultTimeout = 15 * time.Second

// Config controls collector behavior.
type Config struct {
	UserAgent string
	Headers   map[string]string
	Timeout   time.Duration
}

// Fetcher implements citation.Fetcher using the Colly collector.
type Fetcher struct {
	cfg           Config
	baseCollector *colly.Collector
	logger        *zap.Logger
}

type collectorHooks interface {
	OnRequest(colly.RequestCallback)
	OnResponseHeaders(colly.ResponseHeadersCallback)
	OnResponse(colly.ResponseCallback)
	OnError(colly.ErrorCallback)
}

// New builds a Fetcher.
func New(cfg Config, logger *zap.Logger) *Fetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	c := colly.NewCollector(
		colly.Async(false),
		colly.AllowURLRevisit(),
	)
	// Error pages are still parsed for metadata.
	c.ParseHTTPErrorResponse = true
	c.WithTransport(newHTTPTransport())
	c.SetRequestTimeout(cfg.Timeout)

	return &Fetcher{
		cfg:           cfg,
		baseCollector: c,
		logger:        logger,
	}
}

// Fetch executes a single HTTP GET using Colly.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (citation.Page, error) {
	if strings.TrimSpace(rawURL) == "" {
		return citation.Page{}, ErrEmptyURL
	}
	var (
		result   citation.Page
		got      bool
		fetchErr error
	)
	start := time.Now()
	collector := f.buildCollector()
	f.configureCollectorHooks(collector, start, &result, &got, &fetchErr)

	if err := f.runCollector(ctx, collector, rawURL, &fetchErr); err != nil {
		f.logger.Debug("fetch failed", zap.String("url", rawURL), zap.Error(err))
		return citation.Page{}, err
	}
	if !got {
		return citation.Page{}, ErrNoResponse
	}
	result.URL = rawURL
	f.logger.Debug("fetch completed",
		zap.String("url", rawURL),
		zap.Int("status", result.StatusCode),
		zap.Int("bytes", len(result.Body)),
		zap.Duration("duration", result.Duration),
	)
	return result, nil
}

func (f *Fetcher) buildCollector() *colly.Collector {
	collector := f.baseCollector.Clone()
	if f.cfg.UserAgent != "" {
		collector.UserAgent = f.cfg.UserAgent
	}
	return collector
}

func (f *Fetcher) configureCollectorHooks(
	hooks collectorHooks,
	start time.Time,
	result *citation.Page,
	got *bool,
	fetchErr *error,
) {
	hooks.OnRequest(func(r *colly.Request) {
		f.copyHeaders(r)
	})

	// colly re-decodes bodies using a declared non-UTF-8 charset before
	// OnResponse runs. Hiding the charset keeps the raw bytes so the document
	// layer can detect the encoding from content.
	var declaredType string
	hooks.OnResponseHeaders(func(r *colly.Response) {
		if r.Headers == nil {
			return
		}
		declaredType = r.Headers.Get("Content-Type")
		if declaredType != "" {
			r.Headers.Set("Content-Type", withoutParams(declaredType))
		}
	})

	hooks.OnResponse(func(r *colly.Response) {
		var headers http.Header
		if r.Headers != nil {
			headers = r.Headers.Clone()
			if declaredType != "" {
				headers.Set("Content-Type", declaredType)
			}
		}
		finalURL := ""
		if r.Request != nil && r.Request.URL != nil {
			finalURL = r.Request.URL.String()
		}
		*result = citation.Page{
			FinalURL:   finalURL,
			StatusCode: r.StatusCode,
			Headers:    headers,
			Body:       append([]byte(nil), r.Body...),
			Duration:   time.Since(start),
		}
		*got = true
	})

	hooks.OnError(func(_ *colly.Response, err error) {
		if err == nil {
			err = errors.New("unknown colly error")
		}
		*fetchErr = err
	})
}

func (f *Fetcher) runCollector(ctx context.Context, collector *colly.Collector, url string, fetchErr *error) error {
	done := make(chan error, 1)
	go func() {
		done <- collector.Visit(url)
	}()

	select {
	case <-ctx.Done():
		return fmt.Errorf("colly fetch canceled: %w", ctx.Err())
	case err := <-done:
		if err != nil {
			return fmt.Errorf("colly visit failed: %w", err)
		}
		if *fetchErr != nil {
			return fmt.Errorf("colly response failed: %w", *fetchErr)
		}
		return nil
	}
}

func (f *Fetcher) copyHeaders(r *colly.Request) {
	if r.Headers == nil {
		return
	}
	for key, value := range f.cfg.Headers {
		if value == "" {
			continue
		}
		r.Headers.Set(key, value)
	}
	if f.cfg.UserAgent != "" {
		r.Headers.Set("User-Agent", f.cfg.UserAgent)
	}
}

// withoutParams drops the parameters, charset included, from a Content-Type.
func withoutParams(contentType string) string {
	mediaType, _, _ := strings.Cut(contentType, ";")
	return strings.TrimSpace(mediaType)
}

func newHTTPTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   15 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
	}
}
