package sanitize

import (
	"html"
	"regexp"
	"strings"
)

// elements that can run or embed content; always dropped with their
// content, whatever the configured allow-list says
var executableElements = []string{
	"applet", "audio", "base", "canvas", "embed", "form", "frame",
	"frameset", "iframe", "link", "math", "meta", "noembed", "noframes",
	"noscript", "object", "portal", "script", "style", "svg", "template",
	"video", "xmp",
}

// attributes that carry URLs, styles or code; never kept
var forbiddenAttrs = map[string]bool{
	"action": true, "background": true, "formaction": true, "href": true,
	"lowsrc": true, "dynsrc": true, "src": true, "srcdoc": true,
	"srcset": true, "style": true, "xlink:href": true, "xmlns": true,
}

var (
	attrValidators = map[string]*regexp.Regexp{
		"color": regexp.MustCompile(`^(#[0-9a-fA-F]{3}|#[0-9a-fA-F]{6}|#[0-9a-fA-F]{8}|[a-zA-Z]{1,24})$`),
		"size":  regexp.MustCompile(`^[+-]?\d{1,2}$`),
		"face":  regexp.MustCompile(`^[\p{L}\p{N} ,\-]{1,64}$`),
	}
	genericAttrValue = regexp.MustCompile(`^[\p{L}\p{N} #%,.\-]{0,64}$`)
	tagPattern       = regexp.MustCompile(`<[^>]*>`)
)

// Policy is the allow-list table applied to cue markup.
type Policy struct {
	inline     map[string]bool
	attributed map[string]map[string]bool
	drop       map[string]bool
}

// DefaultPolicy keeps emphasis, bold, underline, strike and line
// breaks, plus <font> with color/size/face.
func DefaultPolicy() *Policy {
	return NewPolicy(
		[]string{"b", "i", "u", "em", "strong", "s", "br"},
		map[string][]string{"font": {"color", "size", "face"}},
		nil,
	)
}

// NewPolicy builds a policy from configuration. Executable elements are
// added to the drop list and removed from both allow-lists; event
// handler and URL attributes are never allowed.
func NewPolicy(inline []string, attributed map[string][]string, drop []string) *Policy {
	p := &Policy{
		inline:     make(map[string]bool),
		attributed: make(map[string]map[string]bool),
		drop:       make(map[string]bool),
	}

	for _, tag := range drop {
		p.drop[normalize(tag)] = true
	}
	for _, tag := range executableElements {
		p.drop[tag] = true
	}

	for _, tag := range inline {
		tag = normalize(tag)
		if tag != "" && !p.drop[tag] {
			p.inline[tag] = true
		}
	}

	for tag, attrs := range attributed {
		tag = normalize(tag)
		if tag == "" || p.drop[tag] {
			continue
		}
		allowed := make(map[string]bool)
		for _, a := range attrs {
			a = normalize(a)
			if a == "" || forbiddenAttr(a) {
				continue
			}
			allowed[a] = true
		}
		p.attributed[tag] = allowed
		delete(p.inline, tag)
	}

	return p
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func forbiddenAttr(name string) bool {
	return strings.HasPrefix(name, "on") || forbiddenAttrs[name]
}

// Clean returns a new tree that only contains what the policy allows.
// The input tree is not modified.
func (p *Policy) Clean(n *Node) *Node {
	out := &Node{Type: n.Type, Tag: n.Tag, Text: n.Text}
	out.Children = p.cleanChildren(n.Children)
	return out
}

func (p *Policy) cleanChildren(children []*Node) []*Node {
	var out []*Node
	for _, c := range children {
		if c.Type == TextNode {
			out = append(out, &Node{Type: TextNode, Text: c.Text})
			continue
		}

		switch {
		case p.drop[c.Tag]:
			// gone, content included
		case p.inline[c.Tag]:
			out = append(out, &Node{
				Type:     ElementNode,
				Tag:      c.Tag,
				Children: p.cleanChildren(c.Children),
			})
		case p.attributed[c.Tag] != nil:
			out = append(out, &Node{
				Type:     ElementNode,
				Tag:      c.Tag,
				Attrs:    p.cleanAttrs(c.Tag, c.Attrs),
				Children: p.cleanChildren(c.Children),
			})
		default:
			out = append(out, p.cleanChildren(c.Children)...)
		}
	}
	return out
}

func (p *Policy) cleanAttrs(tag string, attrs []Attr) []Attr {
	allowed := p.attributed[tag]
	seen := make(map[string]bool)

	var out []Attr
	for _, a := range attrs {
		if !allowed[a.Key] || seen[a.Key] || forbiddenAttr(a.Key) {
			continue
		}
		val := strings.TrimSpace(a.Val)
		if !validAttrValue(a.Key, val) {
			continue
		}
		seen[a.Key] = true
		out = append(out, Attr{Key: a.Key, Val: val})
	}
	return out
}

func validAttrValue(key, val string) bool {
	if re, ok := attrValidators[key]; ok {
		return re.MatchString(val)
	}
	return genericAttrValue.MatchString(val)
}

// Render sanitises cue text into display markup. It never fails: if the
// markup cannot be tokenized the cue is rendered as escaped plain text.
func (p *Policy) Render(text string) (out string) {
	defer func() {
		if r := recover(); r != nil {
			out = escapePlain(text)
		}
	}()

	root, err := Parse(text)
	if err != nil {
		return escapePlain(text)
	}
	return Render(p.Clean(root))
}

// PlainText returns the visible text of cue markup without any tags.
// Content of dropped elements is left out. The result is not escaped.
func (p *Policy) PlainText(text string) string {
	root, err := Parse(text)
	if err != nil {
		return html.UnescapeString(tagPattern.ReplaceAllString(text, ""))
	}
	return TextContent(root, p.drop)
}

func escapePlain(text string) string {
	plain := html.UnescapeString(tagPattern.ReplaceAllString(text, ""))
	return strings.ReplaceAll(html.EscapeString(plain), "\n", "<br>")
}
