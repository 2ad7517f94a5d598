package doctree

// Filter is an allow-list configuration for deriving a [View] from a tree.
//
// Members applies to member kinds and Compounds to compound kinds; a kind is
// only ever checked against its own axis. Filtering is default-deny: a kind
// missing from the applicable set is excluded together with its subtree.
//
// Scope, when set, restricts non-group compounds to those that belong to the
// named group (see [Tree.InScope]) and makes the group the view's root.
type Filter struct {
	Members   KindSet
	Compounds KindSet
	Scope     string
}

// NewFilter builds a filter from kind names. Unknown names match nothing.
func NewFilter(members, compounds []string) Filter {
	return Filter{
		Members:   NewKindSet(members...),
		Compounds: NewKindSet(compounds...),
	}
}

// WithScope returns a copy of f scoped to the given group ID.
func (f Filter) WithScope(groupID string) Filter {
	f.Scope = groupID
	return f
}

// Allows reports whether entities of kind k pass the kind check.
func (f Filter) Allows(k Kind) bool {
	switch {
	case k.IsMember():
		return f.Members.Has(k)
	case k.IsCompound():
		return f.Compounds.Has(k)
	}
	return false
}

// Apply derives a filtered view of t. The view is rooted at the scope group
// when Scope names a node in the tree, and at the tree root otherwise. The
// view root is always kept regardless of its kind.
//
// Apply never modifies t; every call allocates a fresh view, so concurrent
// calls over the same tree are safe.
func (f Filter) Apply(t *Tree) *View {
	start := t.Root()
	if f.Scope != "" {
		if g, ok := t.Node(f.Scope); ok {
			start = g
		}
	}

	v := &View{filter: f, index: make(map[string]*Entry)}
	v.root = v.add(start, nil)
	v.fill(t, v.root)
	return v
}

// fill appends the surviving candidates of e in order and recurses into
// surviving compounds. The scope group lists its members, which may be owned
// elsewhere; every other node lists the children it owns.
func (v *View) fill(t *Tree, e *Entry) {
	candidates := e.node.children
	if v.filter.Scope != "" && e.node.ID() == v.filter.Scope {
		candidates = e.node.refs
	}

	for _, c := range candidates {
		if !v.keep(t, c) {
			continue
		}
		child := v.add(c, e)
		e.children = append(e.children, child)
		if c.Kind().IsCompound() {
			v.fill(t, child)
		}
	}
}

func (v *View) keep(t *Tree, n *Node) bool {
	if _, seen := v.index[n.ID()]; seen {
		return false
	}
	if !v.filter.Allows(n.Kind()) {
		return false
	}
	if v.filter.Scope != "" && n.Kind().IsCompound() && !n.Kind().IsGroup() {
		return t.InScope(n.ID(), v.filter.Scope)
	}
	return true
}

func (v *View) add(n *Node, parent *Entry) *Entry {
	e := &Entry{node: n, parent: parent}
	if parent != nil {
		e.depth = parent.depth + 1
	}
	v.index[n.ID()] = e
	return e
}

// View is a filtered, read-only projection of a [Tree]. It never aliases
// mutable state of the tree; entries are allocated per view.
type View struct {
	filter Filter
	root   *Entry
	index  map[string]*Entry
}

// Root returns the view root: the tree root or the scope group.
func (v *View) Root() *Entry { return v.root }

// Filter returns the configuration the view was derived with.
func (v *View) Filter() Filter { return v.filter }

// Len returns the number of entries in the view, including the root.
func (v *View) Len() int { return len(v.index) }

// Contains reports whether the node with the given ID survived filtering.
func (v *View) Contains(id string) bool {
	_, ok := v.index[id]
	return ok
}

// Entry returns the entry for the given ID.
func (v *View) Entry(id string) (*Entry, bool) {
	e, ok := v.index[id]
	return e, ok
}

// Children returns the surviving children of e in original order.
func (v *View) Children(e *Entry) []*Entry { return e.Children() }

// Entry is a node as seen through a [View]: the node plus its surviving
// children.
type Entry struct {
	node     *Node
	parent   *Entry
	children []*Entry
	depth    int
}

// Node returns the underlying tree node.
func (e *Entry) Node() *Node { return e.node }

// ID returns the record ID.
func (e *Entry) ID() string { return e.node.ID() }

// Kind returns the record kind.
func (e *Entry) Kind() Kind { return e.node.Kind() }

// Name returns the display name.
func (e *Entry) Name() string { return e.node.Name() }

// Payload returns the record payload. Callers must treat it as read-only.
func (e *Entry) Payload() *Payload { return e.node.Payload() }

// Parent returns the enclosing entry, or nil for the view root.
func (e *Entry) Parent() *Entry { return e.parent }

// Depth is the distance from the view root.
func (e *Entry) Depth() int { return e.depth }

// Children returns the surviving children. The slice must not be modified.
func (e *Entry) Children() []*Entry { return e.children }

// Members returns the surviving member children.
func (e *Entry) Members() []*Entry {
	var out []*Entry
	for _, c := range e.children {
		if c.Kind().IsMember() {
			out = append(out, c)
		}
	}
	return out
}

// Compounds returns the surviving compound children.
func (e *Entry) Compounds() []*Entry {
	var out []*Entry
	for _, c := range e.children {
		if c.Kind().IsCompound() {
			out = append(out, c)
		}
	}
	return out
}
