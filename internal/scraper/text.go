package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/text/unicode/norm"
)

// strippedStrings returns every non-blank text node under sel in document
// order, trimmed and otherwise as authored. Script and style contents are
// skipped.
func strippedStrings(sel *goquery.Selection) []string {
	var out []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			if s := strings.TrimSpace(n.Data); s != "" {
				out = append(out, s)
			}
			return
		case html.ElementNode:
			switch n.DataAtom {
			case atom.Script, atom.Style, atom.Noscript, atom.Template:
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range sel.Nodes {
		walk(n)
	}
	return out
}

// strippedText joins the stripped strings of sel without a separator.
func strippedText(sel *goquery.Selection) string {
	return strings.Join(strippedStrings(sel), "")
}

// forMatching NFKC-folds text that is about to be matched against the date
// and time patterns, so no-break and thin spaces match `\s`. Published text
// (titles, descriptions) never goes through it.
func forMatching(s string) string {
	return norm.NFKC.String(s)
}

func allForMatching(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = forMatching(s)
	}
	return out
}

// pageText is the whole visible text of sel, one text node per line, ready
// for the date and time patterns.
func pageText(sel *goquery.Selection) string {
	return forMatching(strings.Join(strippedStrings(sel), "\n"))
}
