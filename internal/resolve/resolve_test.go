package resolve

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/JakeFAU/webcite/internal/document"
	"github.com/JakeFAU/webcite/internal/structured"
)

const pageURL = "https://example.com/x"

func parse(t *testing.T, html string) (structured.Data, *document.Document) {
	t.Helper()
	doc, err := document.Parse([]byte(html), "text/html; charset=utf-8")
	require.NoError(t, err)
	return structured.Locate(doc.LDJSONBlocks()), doc
}

func TestAuthor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "structured string",
			html: `<script type="application/ld+json">{"author":"Jane Roe"}</script><meta name="author" content="Meta">`,
			want: "Jane Roe",
		},
		{
			name: "structured list of persons",
			html: `<script type="application/ld+json">{"author":[{"@type":"Person","name":"First"},{"name":"Second"}]}</script>`,
			want: "First",
		},
		{
			name: "structured id when name missing",
			html: `<script type="application/ld+json">{"author":{"@id":"https://example.com/#me"}}</script>`,
			want: "https://example.com/#me",
		},
		{
			name: "creator used when author missing",
			html: `<script type="application/ld+json">{"creator":"Maker"}</script>`,
			want: "Maker",
		},
		{
			name: "nameless author object falls through to meta",
			html: `<script type="application/ld+json">{"author":{"@type":"Person"}}</script><meta name="author" content="Meta Author">`,
			want: "Meta Author",
		},
		{
			name: "article author meta",
			html: `<meta property="article:author" content="Prop Author">`,
			want: "Prop Author",
		},
		{
			name: "byline class",
			html: `<div class="byline">By <a>Reporter</a></div>`,
			want: "By Reporter",
		},
		{
			name: "author class",
			html: `<span class="author">Columnist</span>`,
			want: "Columnist",
		},
		{
			name: "nothing found",
			html: `<p>plain</p>`,
			want: Unknown,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			data, doc := parse(t, tc.html)
			require.Equal(t, tc.want, Author(data, doc))
		})
	}
}

func TestPubDate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "structured timestamp reduced to date",
			html: `<script type="application/ld+json">{"datePublished":"2020-01-02T00:00:00Z"}</script>`,
			want: "2020-01-02",
		},
		{
			name: "structured priority order",
			html: `<script type="application/ld+json">{"uploadDate":"2021-03-03","dateCreated":"2021-02-02"}</script>`,
			want: "2021-02-02",
		},
		{
			name: "structured unparseable returned raw",
			html: `<script type="application/ld+json">{"datePublished":"sometime last spring"}</script>`,
			want: "sometime last spring",
		},
		{
			name: "meta published time",
			html: `<meta property="article:published_time" content="2018-07-15T09:30:00+09:00">`,
			want: "2018-07-15",
		},
		{
			name: "meta date name",
			html: `<meta name="pubdate" content="2017-12-31">`,
			want: "2017-12-31",
		},
		{
			name: "time element",
			html: `<time datetime="2019-05-01">May first</time>`,
			want: "2019-05-01",
		},
		{
			name: "time element raw",
			html: `<time datetime="not-a-date">?</time>`,
			want: "not-a-date",
		},
		{
			name: "no date source",
			html: `<p>undated</p>`,
			want: NoDate,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			data, doc := parse(t, tc.html)
			require.Equal(t, tc.want, PubDate(data, doc))
		})
	}
}

func TestSentinelsDiffer(t *testing.T) {
	t.Parallel()
	require.NotEqual(t, Unknown, NoDate)
}

func TestTitle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "structured headline first",
			html: `<script type="application/ld+json">{"name":"Name","headline":"Headline"}</script><meta property="og:title" content="OG">`,
			want: "Headline",
		},
		{
			name: "structured name",
			html: `<script type="application/ld+json">{"name":"Name","title":"Title"}</script>`,
			want: "Name",
		},
		{
			name: "og title",
			html: `<meta property="og:title" content="OG Title"><title>Doc</title>`,
			want: "OG Title",
		},
		{
			name: "twitter title",
			html: `<meta name="twitter:title" content="Tweet Title"><title>Doc</title>`,
			want: "Tweet Title",
		},
		{
			name: "title element trimmed",
			html: `<title>  Doc Title </title>`,
			want: "Doc Title",
		},
		{
			name: "host fallback",
			html: `<p>untitled</p>`,
			want: "example.com",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			data, doc := parse(t, tc.html)
			require.Equal(t, tc.want, Title(data, doc, pageURL))
		})
	}
}

func TestSiteName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "og site name wins over publisher",
			html: `<meta property="og:site_name" content="OG Site"><script type="application/ld+json">{"publisher":{"name":"Pub"}}</script>`,
			want: "OG Site",
		},
		{
			name: "publisher name",
			html: `<script type="application/ld+json">{"publisher":{"@type":"Organization","name":"Pub"}}</script>`,
			want: "Pub",
		},
		{
			name: "publisher without name",
			html: `<script type="application/ld+json">{"publisher":{"@type":"Organization"}}</script>`,
			want: "example.com",
		},
		{
			name: "host fallback",
			html: `<p>anonymous</p>`,
			want: "example.com",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			data, doc := parse(t, tc.html)
			require.Equal(t, tc.want, SiteName(data, doc, pageURL))
		})
	}
}

func TestHost(t *testing.T) {
	t.Parallel()

	require.Equal(t, "example.com", Host("https://example.com/x"))
	require.Equal(t, "localhost:8080", Host("http://localhost:8080/a?b=c"))
	require.Equal(t, "", Host("not a url"))
	require.Equal(t, "", Host("://bad"))
}
