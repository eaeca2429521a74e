package citation

import (
	"net/http"
	"time"
)

// Record is the per-request metadata result. Every field is always populated.
type Record struct {
	Author     string `json:"author"`
	PubDate    string `json:"pub_date"`
	Title      string `json:"title"`
	SiteName   string `json:"site_name"`
	URL        string `json:"url"`
	AccessDate string `json:"access_date"`
	Citation   string `json:"citation"`
}

// Page is the raw result returned by a Fetcher implementation.
type Page struct {
	URL        string
	FinalURL   string
	StatusCode int
	Headers    http.Header
	Body       []byte
	Duration   time.Duration
}

// ContentType returns the declared Content-Type header, if any.
func (p Page) ContentType() string {
	if p.Headers == nil {
		return ""
	}
	return p.Headers.Get("Content-Type")
}
