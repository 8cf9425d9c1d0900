package fetch

import (
	"strings"
	"testing"
)

func TestExtractText_Basic(t *testing.T) {
	html := `
	<html>
	<body>
		<p>First paragraph of readable content.</p>
		<p>Second paragraph with more detail.</p>
	</body>
	</html>
	`

	text := ExtractText(html)

	if !strings.Contains(text, "First paragraph of readable content.") {
		t.Errorf("Expected paragraph text, got %q", text)
	}
	if !strings.Contains(text, "Second paragraph") {
		t.Errorf("Expected second paragraph, got %q", text)
	}
}

func TestExtractText_StripsScriptsAndStyles(t *testing.T) {
	html := `
	<html>
	<head><style>body { color: red; }</style></head>
	<body>
		<script>var tracking = "evil";</script>
		<p>Visible content only.</p>
		<noscript>Enable JavaScript</noscript>
	</body>
	</html>
	`

	text := ExtractText(html)

	if strings.Contains(text, "tracking") || strings.Contains(text, "color: red") {
		t.Errorf("Expected script/style content stripped, got %q", text)
	}
	if strings.Contains(text, "Enable JavaScript") {
		t.Errorf("Expected noscript stripped, got %q", text)
	}
	if !strings.Contains(text, "Visible content only.") {
		t.Errorf("Expected visible content kept, got %q", text)
	}
}

func TestExtractText_StripsNavigationAndChrome(t *testing.T) {
	html := `
	<html>
	<body>
		<nav><a href="/">Home</a><a href="/about">About</a></nav>
		<header>Site Header</header>
		<p>Article body text lives here.</p>
		<footer>Copyright 2025</footer>
	</body>
	</html>
	`

	text := ExtractText(html)

	for _, chrome := range []string{"Home", "Site Header", "Copyright"} {
		if strings.Contains(text, chrome) {
			t.Errorf("Expected %q stripped, got %q", chrome, text)
		}
	}
	if !strings.Contains(text, "Article body text lives here.") {
		t.Errorf("Expected body text kept, got %q", text)
	}
}

func TestExtractText_PrefersArticle(t *testing.T) {
	html := `
	<html>
	<body>
		<div>Sidebar recommendation widget text.</div>
		<article>
			<p>The actual story content.</p>
		</article>
	</body>
	</html>
	`

	text := ExtractText(html)

	if !strings.Contains(text, "The actual story content.") {
		t.Errorf("Expected article content, got %q", text)
	}
	if strings.Contains(text, "Sidebar recommendation") {
		t.Errorf("Expected content outside <article> ignored, got %q", text)
	}
}

func TestExtractText_SkipsJunkContainers(t *testing.T) {
	html := `
	<html>
	<body>
		<div class="advertisement">Buy now!</div>
		<div id="cookie-banner">We use cookies.</div>
		<div aria-hidden="true">Hidden decoration</div>
		<p>Real content survives.</p>
	</body>
	</html>
	`

	text := ExtractText(html)

	for _, junk := range []string{"Buy now!", "We use cookies.", "Hidden decoration"} {
		if strings.Contains(text, junk) {
			t.Errorf("Expected %q stripped, got %q", junk, text)
		}
	}
	if !strings.Contains(text, "Real content survives.") {
		t.Errorf("Expected real content kept, got %q", text)
	}
}

func TestExtractText_BlockBreaks(t *testing.T) {
	html := `<html><body><p>Line one.</p><p>Line two.</p></body></html>`

	text := ExtractText(html)

	if !strings.Contains(text, "\n") {
		t.Errorf("Expected block elements separated by newlines, got %q", text)
	}
}

func TestExtractText_Empty(t *testing.T) {
	if got := ExtractText(""); got != "" {
		t.Errorf("Expected empty output for empty input, got %q", got)
	}
}
