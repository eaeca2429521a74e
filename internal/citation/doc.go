// Package citation turns a page URL into a bibliographic Record: it fetches the
// page, parses it, resolves author, publication date, title and site name, and
// renders the citation line. Fetch failures never escape Extract; they produce
// a degraded Record with the error text embedded.
package citation
