package scraper

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/pfrederiksen/landmark-ics/internal/showtime"
)

var (
	// A text node that looks like it carries a date or a time
	yearWord     = regexp.MustCompile(`\b\d{4}\b`)
	meridiemWord = regexp.MustCompile(`\b(am|pm|AM|PM)\b`)

	// Fallback: any line with a word and a 4-digit year
	datedText = regexp.MustCompile(`[A-Za-z]{3,9}[^\n]+\d{4}[^\n]*`)
)

const readMoreText = "read more"

// Candidate is the raw text the scraper found for one listing container.
type Candidate struct {
	Title       string
	DateText    string
	Line        showtime.Line
	Bullets     []string
	URL         string
	Description string
}

// collectCandidates finds every listing container on the calendar page.
// Containers are tried WordPress query-loop posts first, then articles, then
// whatever holds a "Read More" link. The same container may appear more
// than once; duplicates are dropped later by title.
func collectCandidates(doc *goquery.Document) []*goquery.Selection {
	var candidates []*goquery.Selection
	seen := make(map[*html.Node]bool)

	doc.Find(".wp-block-post").Each(func(_ int, sel *goquery.Selection) {
		seen[sel.Nodes[0]] = true
		candidates = append(candidates, sel)
	})

	doc.Find("article").Each(func(_ int, sel *goquery.Selection) {
		if seen[sel.Nodes[0]] {
			return
		}
		seen[sel.Nodes[0]] = true
		candidates = append(candidates, sel)
	})

	doc.Find("a").Each(func(_ int, a *goquery.Selection) {
		if !isReadMore(a) {
			return
		}
		container := a.Parent().Closest("article, div, section")
		if container.Length() == 0 {
			container = a.Parent()
		}
		if container.Length() > 0 {
			candidates = append(candidates, container)
		}
	})

	return candidates
}

func isReadMore(a *goquery.Selection) bool {
	return strings.ToLower(strings.TrimSpace(a.Text())) == readMoreText
}

// newCandidate pulls title, date text, bullets, link and description out of
// a listing container. It reports false when the container has no usable
// title.
func newCandidate(node *goquery.Selection, base *url.URL) (*Candidate, bool) {
	titleEl := node.Find("h2, h3").First()
	if titleEl.Length() == 0 {
		titleEl = node.Find("a").First()
	}
	if titleEl.Length() == 0 {
		return nil, false
	}

	title := strippedText(titleEl)
	if title == "" || strings.EqualFold(title, readMoreText) {
		return nil, false
	}

	c := &Candidate{Title: title}
	c.DateText = findDateText(node)
	c.Line = showtime.Classify(c.DateText)

	node.Find("li").Each(func(_ int, li *goquery.Selection) {
		c.Bullets = append(c.Bullets, strippedText(li))
	})

	if href, ok := node.Find("a").FilterFunction(func(_ int, a *goquery.Selection) bool {
		return isReadMore(a)
	}).First().Attr("href"); ok && href != "" {
		c.URL = resolveURL(base, href)
	}

	if p := node.Find("p").First(); p.Length() > 0 {
		c.Description = strippedText(p)
	}

	return c, true
}

// findDateText returns the first text node mentioning a year or am/pm, or
// failing that the first dated-looking line of the container. The result is
// folded for matching.
func findDateText(node *goquery.Selection) string {
	strs := allForMatching(strippedStrings(node))
	for _, s := range strs {
		if yearWord.MatchString(s) || meridiemWord.MatchString(s) {
			return s
		}
	}

	full := "\n" + strings.Join(strs, "\n")
	return datedText.FindString(full)
}

func resolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	if base == nil {
		return ref.String()
	}
	return base.ResolveReference(ref).String()
}
