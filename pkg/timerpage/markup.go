package timerpage

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// FindStartControl scans an HTML document for the first enabled button, or
// button/submit input, whose text or value contains "start" (any case), and
// returns a selector that targets it.
func FindStartControl(doc string) (string, bool, error) {
	root, err := html.Parse(strings.NewReader(doc))
	if err != nil {
		return "", false, fmt.Errorf("failed to parse HTML: %w", err)
	}

	selector, ok := findStartNode(root)
	return selector, ok, nil
}

func findStartNode(n *html.Node) (string, bool) {
	if n.Type == html.ElementNode {
		if selector, ok := startSelector(n); ok {
			return selector, true
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if selector, ok := findStartNode(c); ok {
			return selector, true
		}
	}
	return "", false
}

// startSelector returns a selector for n when n is an enabled start control.
func startSelector(n *html.Node) (string, bool) {
	if hasAttr(n, "disabled") {
		return "", false
	}

	var label, fallback string
	switch strings.ToLower(n.Data) {
	case "button":
		label = strings.Join(strings.Fields(textContent(n)), " ")
		fallback = `button:has-text("` + quoteSelector(label) + `")`
	case "input":
		typ := strings.ToLower(attr(n, "type"))
		if typ != "button" && typ != "submit" {
			return "", false
		}
		label = attr(n, "value")
		fallback = `input[value="` + quoteSelector(label) + `"]`
	default:
		return "", false
	}

	if !strings.Contains(strings.ToLower(label), "start") {
		return "", false
	}
	if id := attr(n, "id"); id != "" {
		return `[id="` + quoteSelector(id) + `"]`, true
	}
	return fallback, true
}

// selectorQuoter escapes text for a double-quoted CSS or Playwright string.
// Everything else, non-ASCII included, is kept literally.
var selectorQuoter = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\a `)

func quoteSelector(s string) string {
	return selectorQuoter.Replace(s)
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}

func hasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return true
		}
	}
	return false
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
