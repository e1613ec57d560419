package report

import (
	"strings"

	"golang.org/x/net/html"
)

var blockTags = map[string]bool{
	"p":   true,
	"div": true,
	"h1":  true,
	"h2":  true,
	"h3":  true,
	"h4":  true,
	"h5":  true,
	"h6":  true,
	"li":  true,
	"tr":  true,
}

// HTMLToText flattens rich text to plain text. The end of a paragraph, div,
// heading, list item or table row becomes a line break, as does a <br>. All
// other markup is dropped and entities are decoded.
func HTMLToText(s string) string {
	if s == "" {
		return ""
	}
	sb := strings.Builder{}
	z := html.NewTokenizer(strings.NewReader(s))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.TrimSpace(sb.String())
		case html.TextToken:
			sb.WriteString(strings.ReplaceAll(string(z.Text()), "\u00a0", " "))
		case html.StartTagToken, html.SelfClosingTagToken:
			if name, _ := z.TagName(); string(name) == "br" {
				sb.WriteByte('\n')
			}
		case html.EndTagToken:
			if name, _ := z.TagName(); blockTags[string(name)] {
				sb.WriteByte('\n')
			}
		}
	}
}
