// Package sanitize reduces cue markup to a fixed, allow-listed subset
// before it reaches a render surface.
//
// Markup is lexed with the x/net/html tokenizer into a small Node tree
// (tag, attributes, children) that does not depend on any DOM. A Policy
// then rebuilds the tree: allowed inline tags lose every attribute,
// attributed tags keep only their allow-listed attributes with valid
// values, executable or embeddable elements vanish together with their
// content, and every other element is unwrapped to its text.
package sanitize

import (
	"errors"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// upper bound for a single token; larger input degrades to plain text
const maxTokenBytes = 64 << 10

type NodeType int

const (
	TextNode NodeType = iota
	ElementNode
)

type Attr struct {
	Key string
	Val string
}

type Node struct {
	Type     NodeType
	Tag      string // lower-case, empty for text and for the root
	Attrs    []Attr
	Text     string // unescaped text for TextNode
	Children []*Node
}

var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// Parse builds a node tree from a markup fragment. Unmatched end tags
// are ignored and unclosed elements are closed at the end of input.
// Comments and doctypes are discarded.
func Parse(markup string) (*Node, error) {
	root := &Node{Type: ElementNode}
	stack := []*Node{root}

	z := html.NewTokenizer(strings.NewReader(markup))
	z.SetMaxBuf(maxTokenBytes)

	for {
		tt := z.Next()
		top := stack[len(stack)-1]

		switch tt {
		case html.ErrorToken:
			if errors.Is(z.Err(), io.EOF) {
				return root, nil
			}
			return nil, z.Err()

		case html.TextToken:
			top.Children = append(top.Children, &Node{
				Type: TextNode,
				Text: string(z.Text()),
			})

		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			el := &Node{Type: ElementNode, Tag: string(name)}
			for hasAttr {
				var key, val []byte
				key, val, hasAttr = z.TagAttr()
				el.Attrs = append(el.Attrs, Attr{Key: string(key), Val: string(val)})
			}
			top.Children = append(top.Children, el)
			if tt == html.StartTagToken && !voidElements[el.Tag] {
				stack = append(stack, el)
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			for i := len(stack) - 1; i > 0; i-- {
				if stack[i].Tag == string(name) {
					stack = stack[:i]
					break
				}
			}
		}
	}
}

// Render serialises a tree back to markup. Text is escaped and "\n"
// becomes <br>.
func Render(n *Node) string {
	var sb strings.Builder
	render(&sb, n)
	return sb.String()
}

func render(sb *strings.Builder, n *Node) {
	if n.Type == TextNode {
		lines := strings.Split(n.Text, "\n")
		for i, line := range lines {
			if i > 0 {
				sb.WriteString("<br>")
			}
			sb.WriteString(html.EscapeString(line))
		}
		return
	}

	if n.Tag != "" {
		sb.WriteByte('<')
		sb.WriteString(n.Tag)
		for _, a := range n.Attrs {
			sb.WriteByte(' ')
			sb.WriteString(a.Key)
			sb.WriteString(`="`)
			sb.WriteString(html.EscapeString(a.Val))
			sb.WriteByte('"')
		}
		sb.WriteByte('>')
		if voidElements[n.Tag] {
			return
		}
	}

	for _, c := range n.Children {
		render(sb, c)
	}

	if n.Tag != "" {
		sb.WriteString("</")
		sb.WriteString(n.Tag)
		sb.WriteByte('>')
	}
}

// TextContent concatenates the text of a tree, skipping the subtrees
// rooted at any tag in skip. <br> contributes a newline.
func TextContent(n *Node, skip map[string]bool) string {
	var sb strings.Builder
	textContent(&sb, n, skip)
	return sb.String()
}

func textContent(sb *strings.Builder, n *Node, skip map[string]bool) {
	if n.Type == TextNode {
		sb.WriteString(n.Text)
		return
	}
	if skip[n.Tag] {
		return
	}
	if n.Tag == "br" {
		sb.WriteByte('\n')
		return
	}
	for _, c := range n.Children {
		textContent(sb, c, skip)
	}
}
