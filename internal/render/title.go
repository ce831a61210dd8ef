package render

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ExtractTitle parses htmlStr and returns the text of the first <title>
// element in document order. ok is false when the document has none.
func ExtractTitle(htmlStr string) (title string, ok bool, err error) {
	doc, err := html.Parse(strings.NewReader(htmlStr))
	if err != nil {
		return "", false, err
	}

	n := findFirst(doc, atom.Title)
	if n == nil {
		return "", false, nil
	}

	var b strings.Builder
	collectInnerText(&b, n)
	return b.String(), true, nil
}

// findFirst performs a depth-first search for the first element matching a
func findFirst(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, a); found != nil {
			return found
		}
	}
	return nil
}

func collectInnerText(b *strings.Builder, n *html.Node) {
	if n.Type == html.TextNode {
		b.WriteString(n.Data)
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectInnerText(b, c)
	}
}
