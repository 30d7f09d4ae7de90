package extract

import (
	"bytes"
	"strings"
	"unicode"

	"golang.org/x/net/html"
)

// Document is the prose found in one input, split into blocks.
type Document struct {
	Title string
	// Text is every block joined by a blank line.
	Text string
	// Blocks holds one entry per paragraph, heading, list item or table cell,
	// with whitespace collapsed.
	Blocks []string
	// Abbrs are the <abbr title="..."> declarations seen in HTML input.
	Abbrs []Abbr
}

// Abbr is an abbreviation declared by markup rather than by prose.
type Abbr struct {
	Short     string `json:"short" yaml:"short"`
	Expansion string `json:"expansion" yaml:"expansion"`
}

// Options tune what counts as prose.
type Options struct {
	// KeepCode keeps <pre>/<code> content and fenced Markdown blocks.
	// Identifiers in code otherwise show up as capitalized phrases.
	KeepCode bool
}

// FromHTML extracts prose from HTML, preferring <main> or <article> and
// falling back to <body>. Navigation, footers, scripts, code and consent
// banners are skipped.
func FromHTML(input []byte) Document {
	return FromHTMLWith(input, Options{})
}

// FromHTMLWith is FromHTML with explicit options.
func FromHTMLWith(input []byte, opts Options) Document {
	node, err := html.Parse(bytes.NewReader(input))
	if err != nil || node == nil {
		return Document{}
	}
	title := collapseSpaces(strings.TrimSpace(findTitle(node)))

	content := findFirst(node, "main")
	if content == nil {
		content = findFirst(node, "article")
	}
	if content == nil {
		content = findFirst(node, "body")
	}
	c := &collector{opts: opts, seen: map[string]struct{}{}}
	if content != nil {
		c.walk(content, false)
	}
	c.endBlock()
	return newDocument(title, c.blocks, c.abbrs)
}

func newDocument(title string, blocks []string, abbrs []Abbr) Document {
	return Document{
		Title:  title,
		Text:   strings.Join(blocks, "\n\n"),
		Blocks: blocks,
		Abbrs:  abbrs,
	}
}

type collector struct {
	opts   Options
	cur    strings.Builder
	blocks []string
	abbrs  []Abbr
	seen   map[string]struct{}
}

func (c *collector) walk(n *html.Node, inPre bool) {
	block := false
	if n.Type == html.ElementNode {
		if isBoilerplateContainer(n) {
			return
		}
		switch strings.ToLower(n.Data) {
		case "script", "style", "noscript", "nav", "footer", "aside", "iframe", "template", "svg", "button", "form":
			return
		case "pre", "code", "kbd", "samp":
			if !c.opts.KeepCode {
				return
			}
			inPre = true
		case "br", "hr":
			c.endBlock()
		case "abbr", "acronym":
			c.abbr(n)
		case "p", "h1", "h2", "h3", "h4", "h5", "h6", "li", "dt", "dd",
			"blockquote", "td", "th", "caption", "figcaption", "div", "section", "header", "tr":
			block = true
			c.endBlock()
		}
	}

	if n.Type == html.TextNode {
		if inPre {
			lines := strings.Split(n.Data, "\n")
			for i, line := range lines {
				if i > 0 {
					c.endBlock()
				}
				c.cur.WriteString(line)
			}
		} else {
			c.cur.WriteString(n.Data)
		}
	}

	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		c.walk(ch, inPre)
	}

	if block {
		c.endBlock()
	}
}

func (c *collector) endBlock() {
	text := collapseSpaces(strings.TrimSpace(c.cur.String()))
	c.cur.Reset()
	if text != "" {
		c.blocks = append(c.blocks, text)
	}
}

func (c *collector) abbr(n *html.Node) {
	var expansion string
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, "title") {
			expansion = collapseSpaces(strings.TrimSpace(a.Val))
		}
	}
	short := collapseSpaces(strings.TrimSpace(textOf(n)))
	if expansion == "" || short == "" {
		return
	}
	if _, ok := c.seen[short]; ok {
		return
	}
	c.seen[short] = struct{}{}
	c.abbrs = append(c.abbrs, Abbr{Short: short, Expansion: expansion})
}

func textOf(n *html.Node) string {
	var b strings.Builder
	var dfs func(*html.Node)
	dfs = func(cur *html.Node) {
		if cur.Type == html.TextNode {
			b.WriteString(cur.Data)
		}
		for ch := cur.FirstChild; ch != nil; ch = ch.NextSibling {
			dfs(ch)
		}
	}
	dfs(n)
	return b.String()
}

func findTitle(n *html.Node) string {
	head := findFirst(n, "head")
	if head == nil {
		return ""
	}
	t := findFirst(head, "title")
	if t == nil || t.FirstChild == nil {
		return ""
	}
	return t.FirstChild.Data
}

func findFirst(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && strings.EqualFold(n.Data, tag) {
		return n
	}
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		if res := findFirst(ch, tag); res != nil {
			return res
		}
	}
	return nil
}

// isBoilerplateContainer reports whether the element looks like a cookie or
// consent banner.
func isBoilerplateContainer(n *html.Node) bool {
	for _, attr := range n.Attr {
		key := strings.ToLower(attr.Key)
		if key != "id" && key != "class" && key != "role" && key != "aria-label" && !strings.HasPrefix(key, "data-") {
			continue
		}
		val := strings.ToLower(attr.Val)
		for _, marker := range []string{"cookie", "consent", "gdpr"} {
			if strings.Contains(val, marker) {
				return true
			}
		}
	}
	return false
}

// collapseSpaces folds every run of Unicode whitespace, including
// non-breaking spaces, into one ASCII space.
func collapseSpaces(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	lastSpace := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastSpace {
				b.WriteByte(' ')
				lastSpace = true
			}
			continue
		}
		b.WriteRune(r)
		lastSpace = false
	}
	return b.String()
}
