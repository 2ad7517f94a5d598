package render

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
)

// Problem is a fragment link whose anchor is missing from the document.
type Problem struct {
	Target string
	Text   string
}

func (p Problem) String() string {
	return fmt.Sprintf("link %q points to missing anchor #%s", p.Text, p.Target)
}

var htmlAnchor = regexp.MustCompile(`<a\s+(?:id|name)="([^"]+)"`)

func newMarkdown() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)
}

// Verify reports fragment links in md that have no matching anchor. HTML
// anchors and generated heading ids both count as anchors.
func Verify(md string) []Problem {
	src := []byte(md)
	root := newMarkdown().Parser().Parse(text.NewReader(src))

	anchors := make(map[string]bool)
	type fragment struct{ target, text string }
	var links []fragment

	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Heading:
			if id, ok := node.AttributeString("id"); ok {
				if b, ok := id.([]byte); ok {
					anchors[string(b)] = true
				}
			}
		case *ast.RawHTML:
			for i := 0; i < node.Segments.Len(); i++ {
				seg := node.Segments.At(i)
				collectAnchors(anchors, seg.Value(src))
			}
		case *ast.HTMLBlock:
			for i := 0; i < node.Lines().Len(); i++ {
				seg := node.Lines().At(i)
				collectAnchors(anchors, seg.Value(src))
			}
		case *ast.Link:
			dest := string(node.Destination)
			if target, ok := strings.CutPrefix(dest, "#"); ok {
				links = append(links, fragment{target: target, text: nodeText(node, src)})
			}
		}
		return ast.WalkContinue, nil
	})

	var problems []Problem
	for _, l := range links {
		if !anchors[l.target] {
			problems = append(problems, Problem{Target: l.target, Text: l.text})
		}
	}
	return problems
}

func collectAnchors(into map[string]bool, b []byte) {
	for _, m := range htmlAnchor.FindAllSubmatch(b, -1) {
		into[string(m[1])] = true
	}
}

func nodeText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			buf.Write(t.Segment.Value(src))
		case *ast.String:
			buf.Write(t.Value)
		default:
			buf.WriteString(nodeText(c, src))
		}
	}
	return buf.String()
}

// ToHTML converts a document to HTML with GitHub-flavored tables. Raw HTML
// anchors are kept.
func ToHTML(md string) ([]byte, error) {
	var buf bytes.Buffer
	if err := newMarkdown().Convert([]byte(md), &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
