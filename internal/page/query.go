package page

import (
	"slices"
	"strings"

	"golang.org/x/net/html"
)

// QueryAll returns the elements below n, in document order, with the given
// tag name that carry class. Empty tag or class match any.
func QueryAll(n *html.Node, tag, class string) []*html.Node {
	var found []*html.Node
	var traverse func(*html.Node)
	traverse = func(node *html.Node) {
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && (tag == "" || c.Data == tag) && (class == "" || HasClass(c, class)) {
				found = append(found, c)
			}
			traverse(c)
		}
	}
	traverse(n)
	return found
}

// HasClass reports whether n's class attribute contains class.
func HasClass(n *html.Node, class string) bool {
	for _, a := range n.Attr {
		if a.Key == "class" {
			return slices.Contains(strings.Fields(a.Val), class)
		}
	}
	return false
}

// TextContent concatenates the text nodes below n.
func TextContent(n *html.Node) string {
	var sb strings.Builder
	var traverse func(*html.Node)
	traverse = func(node *html.Node) {
		if node.Type == html.TextNode {
			sb.WriteString(node.Data)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			traverse(c)
		}
	}
	traverse(n)
	return sb.String()
}

// Quotes returns the quote elements that are direct children of note
// articles, matching "article.edxnotes-page-item > .note-quote".
func Quotes(root *html.Node) []*html.Node {
	var quotes []*html.Node
	for _, article := range QueryAll(root, "article", ItemClass) {
		for c := article.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && HasClass(c, QuoteClass) {
				quotes = append(quotes, c)
			}
		}
	}
	return quotes
}
