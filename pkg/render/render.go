package render

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"regexp"
	"strings"
	"text/template"

	"github.com/zendapi/moxygen/pkg/doctree"
)

// TemplateExt is the suffix of template files.
const TemplateExt = ".md.tmpl"

var (
	// ErrNoTemplates is returned by [New] when the file system holds no
	// *.md.tmpl files.
	ErrNoTemplates = errors.New("no templates found")

	// ErrMissingTemplate is returned when no template in the lookup chain
	// exists for an entry.
	ErrMissingTemplate = errors.New("missing template")
)

//go:embed all:templates
var builtin embed.FS

// DefaultLanguage is the template set used for languages without their own.
const DefaultLanguage = "cpp"

// Builtin returns the embedded templates for a language, falling back to
// the C++ set.
func Builtin(language string) fs.FS {
	if language != "" {
		if sub, err := fs.Sub(builtin, "templates/"+language); err == nil {
			if _, err := fs.Stat(sub, "compound"+TemplateExt); err == nil {
				return sub
			}
		}
	}
	sub, _ := fs.Sub(builtin, "templates/"+DefaultLanguage)
	return sub
}

// Document is one output file: an ordered sequence of entries.
type Document struct {
	// Name is the group name in group mode, empty for a single document.
	Name string

	// Title is the group title, or the group name when it has none.
	Title string

	// Path is the output path, used to compute links between documents.
	Path string

	Entries []*doctree.Entry
}

// Renderer executes templates over document entries. It is safe for
// concurrent use once built.
type Renderer struct {
	tmpl        *template.Template
	anchors     bool
	frontMatter bool
	generator   string
}

// Option configures a [Renderer].
type Option func(*Renderer)

// WithAnchors makes the anchor helper emit HTML anchors. Enabled by default.
func WithAnchors(enabled bool) Option {
	return func(r *Renderer) { r.anchors = enabled }
}

// WithFrontMatter prepends YAML front matter to every document.
func WithFrontMatter(enabled bool) Option {
	return func(r *Renderer) { r.frontMatter = enabled }
}

// WithGenerator sets the generator recorded in front matter.
func WithGenerator(name string) Option {
	return func(r *Renderer) { r.generator = name }
}

// New parses every *.md.tmpl file at the top level of fsys. Templates are
// named by file name and may define shared sub-templates.
func New(fsys fs.FS, opts ...Option) (*Renderer, error) {
	r := &Renderer{anchors: true}
	for _, opt := range opts {
		opt(r)
	}

	matches, err := fs.Glob(fsys, "*"+TemplateExt)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, ErrNoTemplates
	}

	tmpl, err := template.New("").Funcs(r.funcs()).Option("missingkey=error").ParseFS(fsys, matches...)
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	r.tmpl = tmpl
	return r, nil
}

// Render renders a document. Member entries are skipped; their parents
// render them. When l is non-nil, fragment links are rewritten for doc.Path.
func (r *Renderer) Render(doc *Document, l *Linker) (string, error) {
	var buf bytes.Buffer

	if r.frontMatter {
		fm, err := r.frontMatterFor(doc)
		if err != nil {
			return "", err
		}
		buf.Write(fm)
	}

	first := true
	for _, e := range doc.Entries {
		if e.Kind().IsMember() {
			continue
		}
		s, err := r.entry(e)
		if err != nil {
			return "", err
		}
		if !first {
			buf.WriteByte('\n')
		}
		first = false
		buf.WriteString(s)
	}

	out := tidy(buf.String())
	if l != nil {
		out = l.Rewrite(doc.Path, out)
	}
	return out, nil
}

func (r *Renderer) entry(e *doctree.Entry) (string, error) {
	t := r.lookup(e.Kind())
	if t == nil {
		return "", fmt.Errorf("%w for %s %s", ErrMissingTemplate, e.Kind(), e.ID())
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, e); err != nil {
		return "", fmt.Errorf("render %s: %w", e.ID(), err)
	}
	return buf.String(), nil
}

func (r *Renderer) lookup(k doctree.Kind) *template.Template {
	for _, name := range templateChain(k) {
		if t := r.tmpl.Lookup(name + TemplateExt); t != nil {
			return t
		}
	}
	return nil
}

// templateChain lists template names from most to least specific.
func templateChain(k doctree.Kind) []string {
	chain := []string{k.String()}
	switch {
	case k.IsMember() || k == doctree.KindTypedef:
		return append(chain, "member")
	case k.IsClassLike():
		chain = append(chain, "class")
	}
	return append(chain, "compound")
}

var extraBlankLines = regexp.MustCompile(`\n{3,}`)

func tidy(s string) string {
	s = extraBlankLines.ReplaceAllString(s, "\n\n")
	return strings.TrimLeft(s, "\n")
}
