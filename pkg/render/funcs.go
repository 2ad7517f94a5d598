package render

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/zendapi/moxygen/pkg/doctree"
)

func (r *Renderer) funcs() template.FuncMap {
	return template.FuncMap{
		"anchor":           r.anchor,
		"member":           r.entry,
		"link":             link,
		"heading":          heading,
		"cell":             cell,
		"indent":           indent,
		"join":             strings.Join,
		"kindTitle":        kindTitle,
		"signature":        signature,
		"summary":          summary,
		"title":            title,
		"members":          func(e *doctree.Entry) []*doctree.Entry { return e.Members() },
		"compounds":        func(e *doctree.Entry) []*doctree.Entry { return e.Compounds() },
		"hasDescription":   hasDescription,
		"documentedParams": documentedParams,
	}
}

func (r *Renderer) anchor(id string) string {
	if !r.anchors || id == "" {
		return ""
	}
	return fmt.Sprintf(`<a id="%s"></a>`, id)
}

func link(e *doctree.Entry) string {
	return fmt.Sprintf("[`%s`](#%s)", e.Name(), e.ID())
}

func heading(level int, text string) string {
	level = max(1, min(level, 6))
	return strings.Repeat("#", level) + " " + text
}

// cell makes s safe inside a table cell: one line, pipes escaped.
func cell(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	return strings.ReplaceAll(s, "|", `\|`)
}

func indent(n int, s string) string {
	pad := strings.Repeat(" ", n)
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = pad + l
		}
	}
	return strings.Join(lines, "\n")
}

var kindWords = map[string]string{
	"func":    "Functions",
	"attrib":  "Attributes",
	"type":    "Types",
	"slot":    "Slots",
	"signal":  "Signals",
	"friend":  "Friends",
	"related": "Related",
}

// kindTitle is a heading for a kind: "Class", "Public Static Functions".
func kindTitle(k doctree.Kind) string {
	words := strings.Split(k.String(), "-")
	for i, w := range words {
		if k.IsMember() && i == len(words)-1 {
			if plural, ok := kindWords[w]; ok {
				words[i] = plural
				continue
			}
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// signature is the one-line declaration of a member.
func signature(e *doctree.Entry) string {
	p := e.Payload()
	init := p.Extra["initializer"]

	switch e.Kind() {
	case doctree.KindDefine:
		s := e.Name()
		if len(p.Params) > 0 {
			names := make([]string, len(p.Params))
			for i, prm := range p.Params {
				names[i] = prm.Name
			}
			s += "(" + strings.Join(names, ", ") + ")"
		}
		if init != "" {
			s += " " + init
		}
		return "define " + s
	case doctree.KindEnum:
		return "enum " + e.Name()
	}

	var parts []string
	if t := p.Extra["template"]; t != "" {
		parts = append(parts, t)
	}
	if p.Static {
		parts = append(parts, "static")
	}
	if p.Virtual != "" {
		parts = append(parts, "virtual")
	}
	if p.Type != "" {
		parts = append(parts, p.Type)
	}
	name := e.Name() + p.ArgsString
	if init != "" {
		name += " " + init
	}
	return strings.Join(append(parts, name), " ")
}

// summary is the brief description, or the first paragraph of the
// detailed one.
func summary(e *doctree.Entry) string {
	p := e.Payload()
	if p.Brief != "" {
		return p.Brief
	}
	first, _, _ := strings.Cut(p.Detailed, "\n\n")
	return first
}

func title(e *doctree.Entry) string {
	if t := e.Payload().Title; t != "" {
		return t
	}
	return e.Name()
}

func hasDescription(e *doctree.Entry) bool {
	p := e.Payload()
	return p.Brief != "" || p.Detailed != ""
}

// documentedParams returns the parameters that carry a description.
func documentedParams(e *doctree.Entry) []doctree.Param {
	var out []doctree.Param
	for _, p := range e.Payload().Params {
		if p.Description != "" {
			out = append(out, p)
		}
	}
	return out
}
