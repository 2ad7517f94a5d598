package doxygen

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/zendapi/moxygen/pkg/doctree"
)

// IndexFile is the name of the doxygen XML index.
const IndexFile = "index.xml"

var (
	// ErrNoIndex is returned when the input directory has no readable
	// index.xml.
	ErrNoIndex = errors.New("doxygen index not found")

	// ErrBadIndex is returned when index.xml is not valid doxygen XML.
	ErrBadIndex = errors.New("invalid doxygen index")
)

// LoadOptions configures [Load].
type LoadOptions struct {
	// Language tags records and fenced code blocks. Defaults to "cpp".
	Language string

	// Anchors keeps <anchor> elements from descriptions as HTML anchors.
	Anchors bool

	// Concurrency bounds how many compound files are parsed at once.
	// Zero uses GOMAXPROCS.
	Concurrency int
}

// LoadError is a compound file that could not be read or parsed. The
// compound still gets a record built from its index entry, without children
// or documentation.
type LoadError struct {
	RefID string
	Path  string
	Err   error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.RefID, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Result is the outcome of [Load].
type Result struct {
	Records   *doctree.RecordSet
	Errors    []*LoadError
	Compounds int
	Members   int
}

// Load reads index.xml from dir and every compound file it lists, and
// returns the normalized records. The set has no designated root; the tree
// builder synthesizes one.
//
// Compound files are parsed concurrently. Records are emitted in index
// order regardless of scheduling: each compound followed by the members it
// defines for the first time.
func Load(ctx context.Context, dir string, opts LoadOptions) (*Result, error) {
	if opts.Language == "" {
		opts.Language = "cpp"
	}

	data, err := os.ReadFile(filepath.Join(dir, IndexFile))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoIndex, err)
	}
	var idx indexFile
	if err := xml.Unmarshal(data, &idx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadIndex, err)
	}

	defs, loadErrs, err := parseCompounds(ctx, dir, idx.Compounds, opts.Concurrency)
	if err != nil {
		return nil, err
	}

	b := &builder{
		conv:  &converter{language: opts.Language, anchors: opts.Anchors},
		lang:  opts.Language,
		pos:   make(map[string]int),
		owner: make(map[string]int),
	}
	res := &Result{Records: doctree.NewRecordSet("")}

	for i, ic := range idx.Compounds {
		if _, dup := b.pos[ic.RefID]; dup || ic.RefID == "" {
			continue
		}
		if loadErrs[i] != nil {
			res.Errors = append(res.Errors, loadErrs[i])
			b.add(doctree.Record{
				ID:      ic.RefID,
				Kind:    doctree.ParseKind(ic.Kind),
				Name:    ic.Name,
				Payload: doctree.Payload{Language: b.lang},
			})
			res.Compounds++
			continue
		}
		b.compound(defs[i])
		res.Compounds++
	}

	for _, r := range b.records {
		if err := res.Records.Add(r); err != nil {
			return nil, err
		}
	}
	res.Members = res.Records.Len() - res.Compounds
	return res, nil
}

func parseCompounds(ctx context.Context, dir string, compounds []indexCompound, concurrency int) ([]*compoundDef, []*LoadError, error) {
	defs := make([]*compoundDef, len(compounds))
	errs := make([]*LoadError, len(compounds))

	g, ctx := errgroup.WithContext(ctx)
	if concurrency <= 0 {
		concurrency = runtime.GOMAXPROCS(0)
	}
	g.SetLimit(concurrency)

	for i, ic := range compounds {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			path := filepath.Join(dir, ic.RefID+".xml")
			def, err := parseCompound(path, ic.RefID)
			if err != nil {
				errs[i] = &LoadError{RefID: ic.RefID, Path: path, Err: err}
				return nil
			}
			defs[i] = def
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return defs, errs, nil
}

func parseCompound(path, refID string) (*compoundDef, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f compoundFile
	if err := xml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	for i := range f.Compounds {
		if f.Compounds[i].ID == refID {
			return &f.Compounds[i], nil
		}
	}
	return nil, fmt.Errorf("no compounddef with id %q", refID)
}

// builder accumulates records in load order. A member defined by several
// compounds takes its kind from the most structural one, so a method listed
// by both its class and a group keeps the class section kind.
type builder struct {
	conv    *converter
	lang    string
	records []doctree.Record
	pos     map[string]int
	owner   map[string]int
}

func (b *builder) add(r doctree.Record) {
	b.pos[r.ID] = len(b.records)
	b.records = append(b.records, r)
}

func (b *builder) compound(def *compoundDef) {
	r := doctree.Record{
		ID:   def.ID,
		Kind: doctree.ParseKind(def.Kind),
		Name: def.Name,
		Payload: doctree.Payload{
			Title:      strings.TrimSpace(def.Title),
			Brief:      b.conv.Markdown(def.Brief),
			Detailed:   b.conv.Markdown(def.Detailed),
			Protection: def.Prot,
			Language:   b.lang,
			Location:   def.Location.toLocation(),
		},
	}
	if len(def.Includes) > 0 {
		r.Payload.Include = strings.TrimSpace(def.Includes[0].Text)
	}
	if t := templateDecl(def.TemplateParams); t != "" {
		r.Payload.Extra = map[string]string{"template": t}
	}

	for _, refs := range [][]ref{def.Namespaces, def.Classes, def.Groups, def.Files, def.Dirs, def.Pages} {
		for _, rf := range refs {
			if rf.RefID != "" {
				r.Children = append(r.Children, rf.RefID)
			}
		}
	}

	b.add(r)

	for _, s := range def.Sections {
		for i := range s.Members {
			m := &s.Members[i]
			if m.ID == "" {
				continue
			}
			b.records[b.pos[def.ID]].Children = append(b.records[b.pos[def.ID]].Children, m.ID)
			b.member(def, s.Kind, m)
		}
	}
}

func (b *builder) member(owner *compoundDef, section string, m *memberDef) {
	rank := ownerRank(owner.Kind)
	kind := memberKind(section, m.Kind)

	if i, seen := b.pos[m.ID]; seen {
		if rank < b.owner[m.ID] {
			b.records[i].Kind = kind
			b.records[i].ParentID = owner.ID
			b.owner[m.ID] = rank
		}
		return
	}

	detailed := m.Detailed.without(func(n *mnode) bool {
		return n.name == "parameterlist" && n.attr["kind"] == "param"
	})
	p := doctree.Payload{
		Brief:      b.conv.Markdown(m.Brief),
		Detailed:   b.conv.Markdown(detailed),
		Type:       m.Type.Text(),
		Definition: strings.TrimSpace(m.Definition),
		ArgsString: strings.TrimSpace(m.ArgsString),
		Protection: m.Prot,
		Static:     m.Static == "yes",
		Const:      m.Const == "yes",
		Language:   b.lang,
		Location:   m.Location.toLocation(),
	}
	if m.Virt != "" && m.Virt != "non-virtual" {
		p.Virtual = m.Virt
	}

	descs := b.paramDescriptions(m.Detailed)
	for _, prm := range m.Params {
		name := prm.DeclName
		if name == "" {
			name = prm.DefName
		}
		p.Params = append(p.Params, doctree.Param{
			Type:        strings.TrimSpace(prm.Type.Text() + " " + prm.Array),
			Name:        name,
			Default:     prm.DefVal.Text(),
			Description: descs[name],
		})
	}
	for _, ev := range m.EnumValues {
		p.EnumValues = append(p.EnumValues, doctree.EnumValue{
			ID:          ev.ID,
			Name:        ev.Name,
			Initializer: ev.Initializer.Text(),
			Brief:       b.conv.Markdown(ev.Brief),
		})
	}

	extra := map[string]string{}
	if init := m.Initializer.Text(); init != "" {
		extra["initializer"] = init
	}
	if t := templateDecl(m.TemplateParams); t != "" {
		extra["template"] = t
	}
	if len(extra) > 0 {
		p.Extra = extra
	}

	b.add(doctree.Record{ID: m.ID, Kind: kind, Name: m.Name, ParentID: owner.ID, Payload: p})
	b.owner[m.ID] = rank
}

func (b *builder) paramDescriptions(detailed markup) map[string]string {
	out := make(map[string]string)
	b.conv.inline++
	defer func() { b.conv.inline-- }()
	for _, list := range detailed.find("parameterlist") {
		if list.attr["kind"] != "param" {
			continue
		}
		for _, item := range list.children {
			if item.name != "parameteritem" {
				continue
			}
			names, desc := b.conv.parameterItem(item)
			for _, n := range names {
				out[n] = desc
			}
		}
	}
	return out
}

// memberKind uses the section kind when it is part of the vocabulary and
// falls back to the member's own kind for user-defined sections.
func memberKind(section, member string) doctree.Kind {
	if k := doctree.ParseKind(section); k != doctree.KindUnknown {
		return k
	}
	return doctree.ParseKind(member)
}

func ownerRank(kind string) int {
	switch doctree.ParseKind(kind) {
	case doctree.KindFile, doctree.KindDir:
		return 1
	case doctree.KindGroup:
		return 2
	}
	return 0
}

func templateDecl(params []param) string {
	if len(params) == 0 {
		return ""
	}
	parts := make([]string, len(params))
	for i, p := range params {
		s := p.Type.Text()
		if p.DeclName != "" {
			s += " " + p.DeclName
		}
		if d := p.DefVal.Text(); d != "" {
			s += " = " + d
		}
		parts[i] = s
	}
	return "template<" + strings.Join(parts, ", ") + ">"
}

func (l location) toLocation() *doctree.Location {
	if l.File == "" {
		return nil
	}
	line, _ := strconv.Atoi(l.Line)
	return &doctree.Location{File: l.File, Line: line}
}
