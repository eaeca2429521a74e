package citation

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/JakeFAU/webcite/internal/document"
	"github.com/JakeFAU/webcite/internal/metrics"
	"github.com/JakeFAU/webcite/internal/resolve"
	"github.com/JakeFAU/webcite/internal/structured"
)

const (
	accessDateLayout  = "2006-01-02"
	fetchFailedPrefix = "fetch failed: "

	outcomeSuccess  = "success"
	outcomeDegraded = "degraded"
)

// Config tunes the Extractor.
type Config struct {
	// Location is the zone used to stamp the access date. Nil means time.Local.
	Location *time.Location
}

// Extractor runs the fetch, parse, resolve and format pipeline.
type Extractor struct {
	fetcher Fetcher
	clock   Clock
	pauser  Pauser
	loc     *time.Location
	logger  *zap.Logger
}

// NewExtractor wires an Extractor. A nil pauser disables the politeness delay.
func NewExtractor(fetcher Fetcher, clock Clock, pauser Pauser, cfg Config, logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}
	return &Extractor{
		fetcher: fetcher,
		clock:   clock,
		pauser:  pauser,
		loc:     loc,
		logger:  logger,
	}
}

// Extract builds the Record for rawURL. It never fails: fetch and decode
// errors yield a degraded Record, and the politeness pause runs only after a
// successful extraction.
func (e *Extractor) Extract(ctx context.Context, rawURL string) Record {
	logger := e.logger.With(zap.String("url", rawURL))

	page, err := e.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		logger.Warn("fetch failed", zap.Error(err))
		return e.degraded(rawURL, err)
	}
	metrics.ObserveFetch(page.StatusCode, page.Duration)

	doc, err := document.Parse(page.Body, page.ContentType())
	if err != nil {
		logger.Warn("page decode failed", zap.Error(err))
		return e.degraded(rawURL, err)
	}

	data := structured.Locate(doc.LDJSONBlocks())
	rec := Record{
		Author:     resolve.Author(data, doc),
		PubDate:    resolve.PubDate(data, doc),
		Title:      resolve.Title(data, doc, rawURL),
		SiteName:   resolve.SiteName(data, doc, rawURL),
		URL:        rawURL,
		AccessDate: e.today(),
	}
	rec.Citation = Format(rec)
	metrics.ObserveExtraction(outcomeSuccess)
	logger.Info("extraction completed",
		zap.Int("status", page.StatusCode),
		zap.String("encoding", doc.Encoding),
		zap.Stringer("structured_data", data.Kind()),
	)

	if e.pauser != nil {
		delay := e.pauser.Pause(ctx)
		metrics.ObservePolitenessDelay(delay)
	}
	return rec
}

func (e *Extractor) degraded(rawURL string, err error) Record {
	metrics.ObserveExtraction(outcomeDegraded)
	rec := Record{
		Author:     resolve.Unknown,
		PubDate:    resolve.Unknown,
		Title:      fmt.Sprintf("%s%v", fetchFailedPrefix, err),
		SiteName:   resolve.Host(rawURL),
		URL:        rawURL,
		AccessDate: e.today(),
	}
	rec.Citation = Format(rec)
	return rec
}

func (e *Extractor) today() string {
	return e.clock.Now().In(e.loc).Format(accessDateLayout)
}
