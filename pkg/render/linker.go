package render

import (
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/zendapi/moxygen/pkg/doctree"
)

// Linker resolves "#id" links across the documents of one run.
type Linker struct {
	home  map[string]string          // id -> path of the first document containing it
	in    map[string]map[string]bool // path -> ids rendered there
	known map[string]bool            // ids of every tree node
}

// NewLinker indexes the documents. Ids of t that no document contains are
// treated as excluded; ids unknown to t are left alone. t may be nil.
func NewLinker(t *doctree.Tree, docs []*Document) *Linker {
	l := &Linker{
		home:  make(map[string]string),
		in:    make(map[string]map[string]bool),
		known: make(map[string]bool),
	}
	if t != nil {
		for _, n := range t.Nodes() {
			l.known[n.ID()] = true
			for _, ev := range n.Payload().EnumValues {
				if ev.ID != "" {
					l.known[ev.ID] = true
				}
			}
		}
	}

	for _, d := range docs {
		ids := make(map[string]bool)
		add := func(id string) {
			ids[id] = true
			if _, ok := l.home[id]; !ok {
				l.home[id] = d.Path
			}
		}
		for _, e := range d.Entries {
			add(e.ID())
			for _, ev := range e.Payload().EnumValues {
				if ev.ID != "" {
					add(ev.ID)
				}
			}
		}
		l.in[d.Path] = ids
	}
	return l
}

// Target returns the link destination for id as seen from the document at
// from, and false when the entity is not rendered anywhere.
func (l *Linker) Target(from, id string) (string, bool) {
	if l.in[from][id] {
		return "#" + id, true
	}
	to, ok := l.home[id]
	if !ok {
		return "", false
	}
	return relative(from, to) + "#" + id, true
}

var fragmentLink = regexp.MustCompile(`\]\(#([^)\s]+)\)`)

// Rewrite resolves every "[text](#id)" link in md for the document at from.
func (l *Linker) Rewrite(from, md string) string {
	locs := fragmentLink.FindAllStringSubmatchIndex(md, -1)
	if len(locs) == 0 {
		return md
	}

	var b strings.Builder
	last := 0
	for _, loc := range locs {
		start, end := loc[0], loc[1]
		id := md[loc[2]:loc[3]]

		if target, ok := l.Target(from, id); ok {
			b.WriteString(md[last:start])
			b.WriteString("](" + target + ")")
			last = end
			continue
		}
		if !l.known[id] {
			continue
		}

		// Excluded everywhere: keep the link text only.
		open := openingBracket(md, start)
		if open < last {
			continue
		}
		b.WriteString(md[last:open])
		b.WriteString(md[open+1 : start])
		last = end
	}
	b.WriteString(md[last:])
	return b.String()
}

// openingBracket finds the '[' matching the ']' at close, or -1.
func openingBracket(s string, close int) int {
	depth := 0
	for i := close - 1; i >= 0; i-- {
		switch s[i] {
		case ']':
			depth++
		case '[':
			if depth == 0 {
				return i
			}
			depth--
		case '\n':
			return -1
		}
	}
	return -1
}

// relative is the slash-separated path of to, relative to from's directory.
func relative(from, to string) string {
	rel, err := filepath.Rel(filepath.Dir(from), to)
	if err != nil {
		return filepath.ToSlash(to)
	}
	return path.Clean(filepath.ToSlash(rel))
}
