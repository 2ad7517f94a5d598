package doctree

import "fmt"

// WarningKind classifies recoverable problems found while building a tree.
type WarningKind int

const (
	// WarnMissingReference means a child ID did not resolve to a record.
	// The reference is dropped.
	WarnMissingReference WarningKind = iota
	// WarnOrphan means a record was not reachable from the root and is
	// left out of the tree.
	WarnOrphan
)

// Warning is a recoverable build problem. Warnings never abort [Build].
type Warning struct {
	Kind WarningKind
	From string // referencing record (empty for orphans)
	ID   string // unresolved or orphaned ID
}

func (w Warning) String() string {
	switch w.Kind {
	case WarnMissingReference:
		return fmt.Sprintf("%s references unknown id %s", w.From, w.ID)
	case WarnOrphan:
		return fmt.Sprintf("%s is not reachable from the root", w.ID)
	}
	return w.ID
}

// Node is a record placed in the tree. A node has exactly one owner
// (Parent), except the root which has none.
type Node struct {
	rec      Record
	parent   *Node
	children []*Node // owned, in reference order
	refs     []*Node // every resolved reference, owned or not, in reference order
	claimed  bool
}

// ID returns the record ID.
func (n *Node) ID() string { return n.rec.ID }

// Kind returns the record kind.
func (n *Node) Kind() Kind { return n.rec.Kind }

// Name returns the display name.
func (n *Node) Name() string { return n.rec.Name }

// Record returns a copy of the underlying record.
func (n *Node) Record() Record { return n.rec.clone() }

// Payload returns the record payload. Callers must treat it as read-only.
func (n *Node) Payload() *Payload { return &n.rec.Payload }

// Parent returns the owning node, or nil for the root.
func (n *Node) Parent() *Node { return n.parent }

// Children returns the owned child nodes in reference order. The returned
// slice must not be modified.
func (n *Node) Children() []*Node { return n.children }

// Refs returns every resolved reference in reference order, including
// references to nodes owned elsewhere. For groups this is the group's
// membership list. The returned slice must not be modified.
func (n *Node) Refs() []*Node { return n.refs }

// Depth returns the number of owners between n and the root.
func (n *Node) Depth() int {
	d := 0
	for p := n.parent; p != nil; p = p.parent {
		d++
	}
	return d
}

// Tree is an immutable, rooted ownership tree over a record set.
//
// Build it with [Build]. A Tree is safe for concurrent readers; nothing in
// this package modifies it after Build returns.
type Tree struct {
	root     *Node
	nodes    map[string]*Node // arena keyed by record ID
	order    []*Node          // reachable nodes in pre-order
	groups   []*Node          // group compounds in pre-order
	members  map[string]map[string]bool
	warnings []Warning
}

// Build resolves a record set into a tree.
//
// Child IDs are resolved against the set; unresolved IDs are dropped and
// reported as warnings. A reference cycle anywhere in the set fails with a
// [*CycleError]; a designated root that is not in the set fails with
// [ErrUnresolvedRoot]. When the set has no designated root, a synthetic
// [KindIndex] root is created whose children are the records that no
// structural container references.
//
// Ownership is assigned in tiers: references from namespaces, classes and
// other structural compounds are resolved first, then references from files
// and directories, then references from groups. Within a tier the first
// reference in pre-order wins. Later references to an owned node are kept
// as non-owning links (see [Node.Refs]).
//
// Build never modifies the records in set.
func Build(set *RecordSet) (*Tree, error) {
	t := &Tree{
		nodes:   make(map[string]*Node, set.Len()+1),
		members: make(map[string]map[string]bool),
	}

	arena := make([]*Node, 0, set.Len())
	for _, r := range set.records {
		n := &Node{rec: r.clone()}
		t.nodes[r.ID] = n
		arena = append(arena, n)
	}

	for _, n := range arena {
		t.resolve(n)
	}

	if set.RootID != "" {
		root, ok := t.nodes[set.RootID]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnresolvedRoot, set.RootID)
		}
		t.root = root
	} else {
		t.root = t.synthesizeRoot(arena)
		t.nodes[RootID] = t.root
	}

	if err := t.detectCycles(arena); err != nil {
		return nil, err
	}

	t.claim()

	for _, n := range arena {
		if !n.claimed && n != t.root {
			t.warnings = append(t.warnings, Warning{Kind: WarnOrphan, ID: n.ID()})
			delete(t.nodes, n.ID())
		}
	}

	t.index(t.root)
	return t, nil
}

// resolve turns child IDs into node references, dropping unknown IDs.
func (t *Tree) resolve(n *Node) {
	for _, id := range n.rec.Children {
		c, ok := t.nodes[id]
		if !ok {
			t.warnings = append(t.warnings, Warning{Kind: WarnMissingReference, From: n.ID(), ID: id})
			continue
		}
		n.refs = append(n.refs, c)
		if n.Kind().IsGroup() {
			set := t.members[n.ID()]
			if set == nil {
				set = make(map[string]bool)
				t.members[n.ID()] = set
			}
			set[c.ID()] = true
		}
	}
}

// synthesizeRoot creates the index node. A record is top-level when no
// record whose ownership tier is at or below the record's rank references
// it: a class listed only by a file or group still appears at the top,
// while members always nest under something.
func (t *Tree) synthesizeRoot(arena []*Node) *Node {
	nested := make(map[*Node]bool)
	for _, p := range arena {
		for _, c := range p.refs {
			if p.Kind().ownerTier() <= c.Kind().rank() {
				nested[c] = true
			}
		}
	}

	root := &Node{rec: Record{ID: RootID, Kind: KindIndex, Name: "index"}}
	for _, n := range arena {
		if !nested[n] {
			root.rec.Children = append(root.rec.Children, n.ID())
			root.refs = append(root.refs, n)
		}
	}
	return root
}

// detectCycles runs a depth-first search over all references, including
// those of unreachable records. Gray nodes form the active ancestor chain.
func (t *Tree) detectCycles(arena []*Node) error {
	const (
		white = iota
		gray
		black
	)

	color := make(map[*Node]int, len(arena)+1)
	var stack []*Node
	var cycle []string

	var dfs func(n *Node) bool
	dfs = func(n *Node) bool {
		color[n] = gray
		stack = append(stack, n)
		for _, c := range n.refs {
			switch color[c] {
			case white:
				if dfs(c) {
					return true
				}
			case gray:
				for i, s := range stack {
					if s == c {
						for _, p := range stack[i:] {
							cycle = append(cycle, p.ID())
						}
						cycle = append(cycle, c.ID())
						return true
					}
				}
			}
		}
		stack = stack[:len(stack)-1]
		color[n] = black
		return false
	}

	for _, n := range append([]*Node{t.root}, arena...) {
		if color[n] == white && dfs(n) {
			return &CycleError{Path: cycle}
		}
	}
	return nil
}

// claim assigns owners tier by tier. A node whose references belong to a
// later tier is parked until that tier's pass.
func (t *Tree) claim() {
	var pending [tierMember][]*Node

	var walk func(n *Node, pass tier)
	walk = func(n *Node, pass tier) {
		if ti := n.Kind().ownerTier(); ti > pass && n != t.root {
			pending[ti] = append(pending[ti], n)
			return
		}
		for _, c := range n.refs {
			if c.claimed || c == t.root {
				continue
			}
			c.claimed = true
			c.parent = n
			n.children = append(n.children, c)
			walk(c, pass)
		}
	}

	t.root.claimed = true
	walk(t.root, tierStructural)
	for pass := tierFile; pass < tierMember; pass++ {
		// walk may append to later tiers only, so ranging over a snapshot
		// of this tier is complete.
		for _, n := range pending[pass] {
			walk(n, pass)
		}
	}
}

// index records pre-order and discovers groups at any depth.
func (t *Tree) index(n *Node) {
	t.order = append(t.order, n)
	if n.Kind().IsGroup() {
		t.groups = append(t.groups, n)
	}
	for _, c := range n.children {
		t.index(c)
	}
}

// Root returns the root node.
func (t *Tree) Root() *Node { return t.root }

// Node returns the node with the given ID. Orphaned records are not
// part of the tree and are not found.
func (t *Tree) Node(id string) (*Node, bool) {
	n, ok := t.nodes[id]
	return n, ok
}

// Len returns the number of nodes in the tree, including the root.
func (t *Tree) Len() int { return len(t.order) }

// Nodes returns all nodes in pre-order, starting with the root.
func (t *Tree) Nodes() []*Node {
	out := make([]*Node, len(t.order))
	copy(out, t.order)
	return out
}

// Warnings returns the recoverable problems found by [Build].
func (t *Tree) Warnings() []Warning {
	out := make([]Warning, len(t.warnings))
	copy(out, t.warnings)
	return out
}

// Groups returns every group compound in pre-order discovery order,
// regardless of depth.
func (t *Tree) Groups() []*Node {
	out := make([]*Node, len(t.groups))
	copy(out, t.groups)
	return out
}

// MembersOf returns the nodes the group references directly, in reference
// order. Members may be owned by other compounds.
func (t *Tree) MembersOf(groupID string) []*Node {
	g, ok := t.nodes[groupID]
	if !ok || !g.Kind().IsGroup() {
		return nil
	}
	out := make([]*Node, len(g.refs))
	copy(out, g.refs)
	return out
}

// Walk visits owned nodes in pre-order starting at the root. Returning false
// from fn skips the node's subtree.
func (t *Tree) Walk(fn func(n *Node) bool) {
	var walk func(n *Node)
	walk = func(n *Node) {
		if !fn(n) {
			return
		}
		for _, c := range n.children {
			walk(c)
		}
	}
	walk(t.root)
}

// IsMemberOf reports whether the group references id directly.
func (t *Tree) IsMemberOf(id, groupID string) bool {
	return t.members[groupID][id]
}

// InScope reports whether the node is a descendant of the group, or is a
// member of the group, or descends from such a member.
func (t *Tree) InScope(id, groupID string) bool {
	n, ok := t.nodes[id]
	if !ok {
		return false
	}
	for ; n != nil; n = n.parent {
		if n.ID() == groupID || t.members[groupID][n.ID()] {
			return true
		}
	}
	return false
}

// Path returns the ownership chain from the root to the node, inclusive.
func (t *Tree) Path(id string) []*Node {
	n, ok := t.nodes[id]
	if !ok {
		return nil
	}
	var path []*Node
	for ; n != nil; n = n.parent {
		path = append(path, n)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// Stats counts tree nodes per kind, excluding the root.
func (t *Tree) Stats() map[Kind]int {
	stats := make(map[Kind]int)
	for _, n := range t.order {
		if n != t.root {
			stats[n.Kind()]++
		}
	}
	return stats
}
