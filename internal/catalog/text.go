package catalog

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

// CleanText strips markup and entities from a scraped description and
// collapses whitespace. Plain text passes through unchanged apart from
// whitespace folding.
func CleanText(raw string) string {
	if !strings.ContainsAny(raw, "<&") {
		return collapse(raw)
	}

	tokenizer := html.NewTokenizer(strings.NewReader(raw))
	var textBuilder strings.Builder
	inScript := false
	inStyle := false

	for {
		tokenType := tokenizer.Next()

		switch tokenType {
		case html.ErrorToken:
			if tokenizer.Err() == io.EOF {
				return collapse(textBuilder.String())
			}
			// Malformed input: show it as-is rather than losing the plot.
			return collapse(raw)

		case html.StartTagToken, html.SelfClosingTagToken:
			token := tokenizer.Token()
			switch token.Data {
			case "script":
				inScript = true
			case "style":
				inStyle = true
			case "br", "p", "div", "li":
				textBuilder.WriteString(" ")
			}

		case html.EndTagToken:
			token := tokenizer.Token()
			switch token.Data {
			case "script":
				inScript = false
			case "style":
				inStyle = false
			}

		case html.TextToken:
			if !inScript && !inStyle {
				textBuilder.WriteString(tokenizer.Token().Data)
			}
		}
	}
}

// collapse removes excessive whitespace
func collapse(input string) string {
	return strings.Join(strings.Fields(input), " ")
}
