// =============================================================================
// donorlens - Search Result Parsing
// =============================================================================
//
// The entity-search endpoint answers with an HTML page whose result table
// carries one row per matching entity: name and link in the second cell,
// historical dollar total in the last. Only positive-dollar entities are
// worth a lookup; the rest are name collisions with no giving history.
//
// =============================================================================

package search

import (
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/civicsignal/donorlens/internal/amount"
)

// Result is one positive-dollar search hit.
type Result struct {
	// Name is the entity's display name, reordered from the service's
	// "LAST, FIRST" convention.
	Name string

	// Href is the absolute entity-details URL.
	Href string

	// Eid is the numeric lookup identifier extracted from the href.
	Eid string
}

// ParseResults extracts the positive-dollar rows from a search result page.
// A page with no result table parses to no results, not an error.
func ParseResults(page string, baseURL string) ([]Result, error) {
	doc, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return nil, err
	}

	var results []Result
	for _, tbody := range findAll(doc, "tbody") {
		for _, tr := range findAll(tbody, "tr") {
			cells := findAll(tr, "td")
			if len(cells) < 3 {
				continue
			}

			total := amount.ParseStrict(textContent(cells[len(cells)-1]))
			if total <= 0 {
				continue
			}

			anchor := firstElement(cells[1], "a")
			if anchor == nil {
				continue
			}
			href := attr(anchor, "href")
			if href == "" {
				continue
			}
			href = NormalizeHref(href, baseURL)

			results = append(results, Result{
				Name: FormatName(textContent(anchor)),
				Href: href,
				Eid:  ExtractEid(href),
			})
		}
	}
	return results, nil
}

// NormalizeHref returns an absolute URL, prepending the service base when
// the href is site-relative.
func NormalizeHref(href, baseURL string) string {
	href = strings.TrimSpace(href)
	if strings.HasPrefix(href, "/") {
		return strings.TrimRight(baseURL, "/") + href
	}
	return href
}

var trailingDigits = regexp.MustCompile(`(\d+)(?:\D*)$`)

// ExtractEid pulls the numeric eid from an entity href like
// "/entity-details?eid=49301129". When the query is missing it falls back to
// the last run of digits; when even that fails, the href passes through
// unchanged so the caller can log it.
func ExtractEid(href string) string {
	href = strings.TrimSpace(href)
	if u, err := url.Parse(href); err == nil {
		if v := u.Query().Get("eid"); v != "" {
			if eid := digitsOnly(v); eid != "" {
				return eid
			}
		}
	}
	if m := trailingDigits.FindStringSubmatch(href); m != nil {
		return m[1]
	}
	return href
}

// FormatName converts the service's "NELSON, MIKE" convention into
// "Mike Nelson", title-casing each part.
func FormatName(raw string) string {
	raw = strings.TrimSpace(raw)
	if last, first, ok := strings.Cut(raw, ","); ok {
		return titleCase(strings.TrimSpace(first)) + " " + titleCase(strings.TrimSpace(last))
	}
	return titleCase(raw)
}

func titleCase(s string) string {
	parts := strings.Fields(strings.ToLower(s))
	for i, p := range parts {
		r := []rune(p)
		r[0] = []rune(strings.ToUpper(string(r[0])))[0]
		parts[i] = string(r)
	}
	return strings.Join(parts, " ")
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// =============================================================================
// HTML TREE HELPERS
// =============================================================================

// findAll returns every element named tag beneath n, in document order.
func findAll(n *html.Node, tag string) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.ElementNode && node.Data == tag {
			out = append(out, node)
			// Tables do not nest in these pages; no need to descend further.
			return
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

// firstElement returns the first element named tag beneath n, or nil.
func firstElement(n *html.Node, tag string) *html.Node {
	found := findAll(n, tag)
	if len(found) == 0 {
		return nil
	}
	return found[0]
}

// textContent concatenates the trimmed text beneath n.
func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			b.WriteString(node.Data)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(b.String())
}

// attr returns an element's attribute value, or "".
func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return strings.TrimSpace(a.Val)
		}
	}
	return ""
}
