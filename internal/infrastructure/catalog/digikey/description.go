package digikey

import (
	"strings"

	"golang.org/x/net/html"
)

// Теги, содержимое которых не является текстом описания
var skippedTags = []string{"script", "style", "noscript", "svg", "iframe", "head"}

const maxDescriptionLen = 2000

// plainText сводит описание товара к чистому тексту: Digi-Key иногда
// отдаёт разметку и HTML-сущности в DetailedDescription.
func plainText(raw string) string {
	if !strings.ContainsAny(raw, "<&") {
		return collapseSpaces(raw)
	}

	doc, err := html.Parse(strings.NewReader(raw))
	if err != nil {
		return collapseSpaces(raw)
	}

	var sb strings.Builder
	collectText(doc, &sb)

	return truncate(collapseSpaces(sb.String()), maxDescriptionLen)
}

// collectText рекурсивно собирает текстовые узлы, пропуская мусорные теги
func collectText(n *html.Node, sb *strings.Builder) {
	switch n.Type {
	case html.CommentNode:
		return
	case html.ElementNode:
		if isOneOf(n.Data, skippedTags...) {
			return
		}
		if n.Data == "br" || n.Data == "p" || n.Data == "li" {
			sb.WriteByte(' ')
		}
	case html.TextNode:
		sb.WriteString(n.Data)
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, sb)
	}
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

// isOneOf проверяет, что s совпадает с одним из candidates
func isOneOf(s string, candidates ...string) bool {
	for _, c := range candidates {
		if s == c {
			return true
		}
	}
	return false
}
