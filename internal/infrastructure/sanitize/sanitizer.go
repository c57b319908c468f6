package sanitize

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// noiseSelector matches block elements that carry no article text.
const noiseSelector = "script,style,nav,footer,header"

// inlineTags contribute their text without introducing word boundaries, so
// markup like "<b>Go</b>pher" stays "Gopher" instead of "Go pher".
var inlineTags = map[string]struct{}{
	"a": {}, "b": {}, "i": {}, "u": {},
	"strong": {}, "em": {}, "span": {},
	"sub": {}, "sup": {}, "code": {},
	"small": {}, "big": {},
}

// Clean strips markup from feed-supplied text and returns plain text with
// whitespace collapsed to single spaces. Markup the parser cannot recover
// from yields the input unchanged; Clean never fails.
func Clean(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return raw
	}

	doc.Find(noiseSelector).Remove()

	var b strings.Builder
	for _, node := range doc.Find("body").Nodes {
		writeText(&b, node)
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

// FirstImage returns the src of the first <img> tag in the raw markup.
func FirstImage(raw string) (string, bool) {
	if strings.TrimSpace(raw) == "" {
		return "", false
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return "", false
	}

	src, ok := doc.Find("img").First().Attr("src")
	if !ok || src == "" {
		return "", false
	}
	return src, true
}

func writeText(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
	case html.ElementNode:
		_, inline := inlineTags[n.Data]
		if !inline {
			b.WriteString(" ")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			writeText(b, c)
		}
		if !inline {
			b.WriteString(" ")
		}
	default:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			writeText(b, c)
		}
	}
}
