package render

import (
	"bytes"

	"gopkg.in/yaml.v3"

	"github.com/zendapi/moxygen/pkg/doctree"
)

// FrontMatter is the YAML header written before a document when enabled.
type FrontMatter struct {
	Title     string   `yaml:"title,omitempty"`
	Group     string   `yaml:"group,omitempty"`
	Generator string   `yaml:"generator,omitempty"`
	Kinds     []string `yaml:"kinds,omitempty"`
}

// Marshal encodes the front matter with its "---" delimiters.
func (f FrontMatter) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("---\n")
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		_ = enc.Close()
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	buf.WriteString("---\n\n")
	return buf.Bytes(), nil
}

func (r *Renderer) frontMatterFor(doc *Document) ([]byte, error) {
	fm := FrontMatter{
		Title:     doc.Title,
		Group:     doc.Name,
		Generator: r.generator,
		Kinds:     entryKinds(doc.Entries),
	}
	if fm.Title == "" {
		fm.Title = "API"
	}
	return fm.Marshal()
}

// entryKinds lists the distinct kinds of entries in first-seen order.
func entryKinds(entries []*doctree.Entry) []string {
	seen := make(map[doctree.Kind]bool)
	var out []string
	for _, e := range entries {
		if k := e.Kind(); !seen[k] {
			seen[k] = true
			out = append(out, k.String())
		}
	}
	return out
}
