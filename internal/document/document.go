// Package document decodes fetched page bytes and exposes the DOM lookups the
// field resolvers need.
package document

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/saintfish/chardet"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
)

const ldJSONSelector = `script[type="application/ld+json"]`

// Document is a parsed HTML page.
type Document struct {
	doc      *goquery.Document
	Encoding string
}

// Parse decodes body to UTF-8 and parses it into a queryable document.
func Parse(body []byte, contentType string) (*Document, error) {
	enc, name := DetectEncoding(body, contentType)
	decoded := body
	if enc != nil {
		out, err := enc.NewDecoder().Bytes(body)
		if err != nil {
			return nil, fmt.Errorf("decode %s body: %w", name, err)
		}
		decoded = out
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(decoded))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return &Document{doc: doc, Encoding: name}, nil
}

// DetectEncoding picks the body encoding from its content rather than the
// declared charset. A nil encoding means the body is already UTF-8.
func DetectEncoding(body []byte, contentType string) (encoding.Encoding, string) {
	if utf8.Valid(body) {
		return nil, "utf-8"
	}
	if res, err := chardet.NewHtmlDetector().DetectBest(body); err == nil && res != nil {
		if enc, name := charset.Lookup(res.Charset); enc != nil {
			return enc, name
		}
	}
	enc, name, _ := charset.DetermineEncoding(body, contentType)
	return enc, name
}

// Meta returns the trimmed content of the first meta tag whose property or
// name attribute matches, trying names in order.
func (d *Document) Meta(names ...string) (string, bool) {
	for _, n := range names {
		for _, attr := range []string{"property", "name"} {
			sel := d.doc.Find(fmt.Sprintf(`meta[%s=%q]`, attr, n)).First()
			if sel.Length() == 0 {
				continue
			}
			if content := strings.TrimSpace(sel.AttrOr("content", "")); content != "" {
				return content, true
			}
			break
		}
	}
	return "", false
}

// ClassText returns the visible text of the first element carrying one of the
// given classes, trying classes in order.
func (d *Document) ClassText(classes ...string) (string, bool) {
	for _, c := range classes {
		sel := d.doc.Find("." + c).First()
		if sel.Length() == 0 {
			continue
		}
		if txt := collapse(sel.Text()); txt != "" {
			return txt, true
		}
	}
	return "", false
}

// Title returns the trimmed text of the document's title element.
func (d *Document) Title() (string, bool) {
	txt := strings.TrimSpace(d.doc.Find("title").First().Text())
	return txt, txt != ""
}

// TimeDatetime returns the datetime attribute of the first time element.
func (d *Document) TimeDatetime() (string, bool) {
	v, ok := d.doc.Find("time").First().Attr("datetime")
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

// LDJSONBlocks returns the raw bodies of every structured-data script block.
func (d *Document) LDJSONBlocks() []string {
	var blocks []string
	d.doc.Find(ldJSONSelector).Each(func(_ int, s *goquery.Selection) {
		blocks = append(blocks, s.Text())
	})
	return blocks
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
