// Package extraction selects candidate text chunks from a parsed report page.
// Chunks are ordered by expected precision: titles and headings first, then
// text adjacent to role keywords, then a length-capped full-text fallback.
package extraction

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// FallbackTextLimit caps the full-page fallback chunk so pattern matching
// over the noisiest candidate stays bounded.
const FallbackTextLimit = 6000

// headingSelectors are tried in order; titles and headings are cheap,
// high-precision candidates.
var headingSelectors = []string{"title", "h1", "h2", "h3"}

// roleKeywordPatterns mark text nodes whose enclosing element likely names the
// instructor. Internal whitespace is tolerated ("Course  Head").
var roleKeywordPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)Instructor`),
	regexp.MustCompile(`(?i)Instructors`),
	regexp.MustCompile(`(?i)Course\s*Head`),
	regexp.MustCompile(`(?i)Primary\s+Instructor`),
	regexp.MustCompile(`(?i)Lecturer`),
}

// Chunks returns the ordered, deduplicated candidate text chunks of doc:
// title/heading text in document order, then the enclosing-element text of
// every role-keyword match, then the fallback full text as the final item.
// The fallback is always last and exempt from deduplication.
func Chunks(doc *goquery.Document) []string {
	var chunks []string
	seen := make(map[string]struct{})
	add := func(text string) {
		if text == "" {
			return
		}
		if _, dup := seen[text]; dup {
			return
		}
		seen[text] = struct{}{}
		chunks = append(chunks, text)
	}

	for _, selector := range headingSelectors {
		doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
			add(collapseSelection(sel))
		})
	}

	textNodes := visibleTextNodes(doc)
	for _, pattern := range roleKeywordPatterns {
		for _, node := range textNodes {
			if !pattern.MatchString(node.Data) {
				continue
			}
			add(enclosingText(node))
		}
	}

	if fallback := FallbackText(doc); fallback != "" {
		chunks = append(chunks, fallback)
	}
	return chunks
}

// FallbackText joins every visible text node with single spaces, truncated to
// the first FallbackTextLimit runes.
func FallbackText(doc *goquery.Document) string {
	var parts []string
	for _, root := range doc.Nodes {
		collectText(root, &parts)
	}
	return truncateRunes(strings.Join(parts, " "), FallbackTextLimit)
}

// collapseSelection renders a selection's visible text nodes trimmed and
// joined with single spaces.
func collapseSelection(sel *goquery.Selection) string {
	var parts []string
	for _, node := range sel.Nodes {
		collectText(node, &parts)
	}
	return strings.Join(parts, " ")
}

// enclosingText renders the text of the element containing a text node.
func enclosingText(node *html.Node) string {
	if parent := node.Parent; parent != nil {
		var parts []string
		collectText(parent, &parts)
		return strings.Join(parts, " ")
	}
	return strings.TrimSpace(node.Data)
}

// visibleTextNodes returns non-blank text nodes in document order, skipping
// script, style, and noscript content.
func visibleTextNodes(doc *goquery.Document) []*html.Node {
	var nodes []*html.Node
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if hiddenElement(n) {
			return
		}
		if n.Type == html.TextNode && strings.TrimSpace(n.Data) != "" {
			nodes = append(nodes, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, root := range doc.Nodes {
		walk(root)
	}
	return nodes
}

// collectText appends the trimmed visible text nodes under n to parts.
func collectText(n *html.Node, parts *[]string) {
	if hiddenElement(n) {
		return
	}
	if n.Type == html.TextNode {
		if text := strings.TrimSpace(n.Data); text != "" {
			*parts = append(*parts, text)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, parts)
	}
}

func hiddenElement(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	switch n.Data {
	case "script", "style", "noscript":
		return true
	}
	return false
}

func truncateRunes(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit])
}
