// Package resolve implements the four metadata field resolvers. Each one walks
// its sources in priority order (structured data, meta tags, DOM, default) and
// always returns a value; a source counts only when it yields a non-empty string.
package resolve

import (
	"net/url"

	"github.com/araddon/dateparse"

	"github.com/JakeFAU/webcite/internal/document"
	"github.com/JakeFAU/webcite/internal/structured"
)

// Sentinels for fields that could not be determined. They are deliberately
// distinct strings.
const (
	Unknown = "unknown"
	NoDate  = "no date"
)

const isoDate = "2006-01-02"

// Page is the DOM surface the resolvers read. *document.Document satisfies it.
type Page interface {
	Meta(names ...string) (string, bool)
	ClassText(classes ...string) (string, bool)
	Title() (string, bool)
	TimeDatetime() (string, bool)
}

var _ Page = (*document.Document)(nil)

// Author resolves the page author.
func Author(data structured.Data, page Page) string {
	if obj, ok := data.Object(); ok {
		for _, key := range []string{"author", "creator"} {
			if name, ok := entityName(obj.Entity(key)); ok {
				return name
			}
		}
	}
	if m, ok := page.Meta("author", "article:author"); ok {
		return m
	}
	if txt, ok := page.ClassText("byline", "author"); ok {
		return txt
	}
	return Unknown
}

func entityName(e structured.Entity) (string, bool) {
	switch e.Kind() {
	case structured.EntityString:
		return e.Text()
	case structured.EntityObject:
		obj, _ := e.Object()
		return obj.FirstText("name", "@id")
	default:
		return "", false
	}
}

// PubDate resolves the publication date as YYYY-MM-DD, or the raw source value
// when it does not parse as a date.
func PubDate(data structured.Data, page Page) string {
	if obj, ok := data.Object(); ok {
		if raw, ok := obj.FirstText("datePublished", "dateCreated", "uploadDate"); ok {
			return NormalizeDate(raw)
		}
	}
	if m, ok := page.Meta("article:published_time", "date", "pubdate", "publishdate"); ok {
		return NormalizeDate(m)
	}
	if dt, ok := page.TimeDatetime(); ok {
		return NormalizeDate(dt)
	}
	return NoDate
}

// NormalizeDate reduces a date or timestamp to its calendar date. Unparseable
// input is returned unchanged.
func NormalizeDate(raw string) string {
	t, err := dateparse.ParseAny(raw)
	if err != nil {
		return raw
	}
	return t.Format(isoDate)
}

// Title resolves the page title, falling back to the URL host.
func Title(data structured.Data, page Page, rawURL string) string {
	if obj, ok := data.Object(); ok {
		if v, ok := obj.FirstText("headline", "name", "title"); ok {
			return v
		}
	}
	if m, ok := page.Meta("og:title", "twitter:title"); ok {
		return m
	}
	if t, ok := page.Title(); ok {
		return t
	}
	return Host(rawURL)
}

// SiteName resolves the publishing site, falling back to the URL host.
func SiteName(data structured.Data, page Page, rawURL string) string {
	if m, ok := page.Meta("og:site_name"); ok {
		return m
	}
	if obj, ok := data.Object(); ok {
		if pub, ok := obj.Entity("publisher").Object(); ok {
			if name, ok := pub.Text("name"); ok {
				return name
			}
		}
	}
	return Host(rawURL)
}

// Host returns the host[:port] component of rawURL, or "" when it has none.
func Host(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Host
}
