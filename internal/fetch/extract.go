package fetch

import (
	"strings"

	"golang.org/x/net/html"
)

// Tags whose subtrees never contain readable evidence.
var skipTags = map[string]bool{
	"script": true, "style": true, "noscript": true, "iframe": true,
	"svg": true, "canvas": true, "audio": true, "video": true,
	"nav": true, "header": true, "footer": true, "aside": true, "form": true,
}

// Block-level tags that imply a line break between text runs.
var blockTags = map[string]bool{
	"p": true, "h1": true, "h2": true, "h3": true, "h4": true, "h5": true,
	"h6": true, "div": true, "section": true, "article": true, "main": true,
	"blockquote": true, "li": true, "dt": true, "dd": true,
	"tr": true, "td": true, "th": true, "br": true, "figcaption": true,
}

// Class/id fragments that mark ads, popups, and other junk containers.
var junkMarkers = []string{
	"advertisement", "ad-banner", "cookie-banner", "newsletter",
	"popup", "modal", "overlay", "sponsored", "subscribe",
}

// ExtractText parses HTML and returns the readable body text with markup,
// scripts, navigation, and ad containers stripped. It prefers the
// article/main subtree when one exists, falling back to the whole body.
func ExtractText(htmlStr string) string {
	doc, err := html.Parse(strings.NewReader(htmlStr))
	if err != nil {
		return ""
	}

	root := findMainContent(doc)
	if root == nil {
		root = doc
	}

	var b strings.Builder
	collectText(root, &b)

	// Collapse runs of blank lines left by block handling.
	lines := strings.Split(b.String(), "\n")
	var out []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}

// findMainContent locates the semantic content container, if any.
func findMainContent(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && (n.Data == "article" || n.Data == "main") {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findMainContent(c); found != nil {
			return found
		}
	}
	return nil
}

func collectText(n *html.Node, b *strings.Builder) {
	if n.Type == html.ElementNode {
		if skipTags[n.Data] || isJunkNode(n) {
			return
		}
	}

	if n.Type == html.TextNode {
		if text := strings.TrimSpace(n.Data); text != "" {
			b.WriteString(text)
			b.WriteByte(' ')
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, b)
	}

	if n.Type == html.ElementNode && blockTags[n.Data] {
		b.WriteByte('\n')
	}
}

func isJunkNode(n *html.Node) bool {
	for _, attr := range n.Attr {
		switch attr.Key {
		case "class", "id":
			val := strings.ToLower(attr.Val)
			for _, marker := range junkMarkers {
				if strings.Contains(val, marker) {
					return true
				}
			}
		case "aria-hidden":
			if attr.Val == "true" {
				return true
			}
		}
	}
	return false
}
