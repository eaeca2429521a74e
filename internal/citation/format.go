package citation

import "fmt"

const citationTemplate = "%s (%s). 「%s」. 『%s』. %s (取得・閲覧 %s)"

// Format renders the citation line for r. The Citation field itself is ignored.
func Format(r Record) string {
	return fmt.Sprintf(citationTemplate, r.Author, r.PubDate, r.Title, r.SiteName, r.URL, r.AccessDate)
}
