package doctree

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(id string, kind Kind, children ...string) Record {
	return Record{ID: id, Kind: kind, Name: id, Children: children}
}

func mustSet(t *testing.T, rootID string, records ...Record) *RecordSet {
	t.Helper()
	set := NewRecordSet(rootID)
	for _, r := range records {
		require.NoError(t, set.Add(r))
	}
	return set
}

func mustBuild(t *testing.T, rootID string, records ...Record) *Tree {
	t.Helper()
	tree, err := Build(mustSet(t, rootID, records...))
	require.NoError(t, err)
	return tree
}

func ids(nodes []*Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.ID()
	}
	return out
}

func TestRecordSetAdd(t *testing.T) {
	set := NewRecordSet("")
	require.NoError(t, set.Add(rec("a", KindClass)))

	err := set.Add(rec("a", KindStruct))
	assert.ErrorIs(t, err, ErrDuplicateRecordID)

	err = set.Add(rec("", KindClass))
	assert.ErrorIs(t, err, ErrInvalidRecordID)

	err = set.Add(rec(RootID, KindClass))
	assert.ErrorIs(t, err, ErrInvalidRecordID)

	assert.Equal(t, 1, set.Len())
	r, ok := set.Get("a")
	require.True(t, ok)
	assert.Equal(t, KindClass, r.Kind)
}

func TestBuildWellFormed(t *testing.T) {
	tree := mustBuild(t, "",
		rec("ns", KindNamespace, "A", "B", "f"),
		rec("A", KindClass, "m1", "m2"),
		rec("B", KindStruct),
		rec("m1", KindPublicFunc),
		rec("m2", KindPublicAttrib),
		rec("f", KindFunc),
	)

	root := tree.Root()
	assert.Nil(t, root.Parent())
	assert.Equal(t, KindIndex, root.Kind())
	assert.Equal(t, []string{"ns"}, ids(root.Children()))

	seen := map[string]bool{}
	tree.Walk(func(n *Node) bool {
		assert.False(t, seen[n.ID()], "node %s visited twice", n.ID())
		seen[n.ID()] = true
		if n != root {
			require.NotNil(t, n.Parent(), n.ID())
			assert.Contains(t, ids(n.Parent().Children()), n.ID())
		}
		return true
	})
	assert.Len(t, seen, 7)
	assert.Equal(t, 7, tree.Len())
	assert.Empty(t, tree.Warnings())
}

func TestBuildDoesNotMutateInput(t *testing.T) {
	set := mustSet(t, "",
		rec("A", KindClass, "m1", "missing"),
		rec("m1", KindPublicFunc),
	)
	before := set.Records()

	_, err := Build(set)
	require.NoError(t, err)
	assert.Equal(t, before, set.Records())
}

func TestBuildMissingReference(t *testing.T) {
	tree := mustBuild(t, "",
		rec("A", KindClass, "m1", "ghost", "m2"),
		rec("m1", KindPublicFunc),
		rec("m2", KindPublicFunc),
	)

	a, ok := tree.Node("A")
	require.True(t, ok)
	assert.Equal(t, []string{"m1", "m2"}, ids(a.Children()))

	warnings := tree.Warnings()
	require.Len(t, warnings, 1)
	assert.Equal(t, WarnMissingReference, warnings[0].Kind)
	assert.Equal(t, "A", warnings[0].From)
	assert.Equal(t, "ghost", warnings[0].ID)
}

func TestBuildCycle(t *testing.T) {
	tests := []struct {
		name    string
		records []Record
	}{
		{
			name: "two nodes",
			records: []Record{
				rec("A", KindNamespace, "B"),
				rec("B", KindNamespace, "A"),
			},
		},
		{
			name: "self reference",
			records: []Record{
				rec("A", KindClass, "A"),
			},
		},
		{
			name: "below reachable prefix",
			records: []Record{
				rec("top", KindNamespace, "x"),
				rec("x", KindNamespace, "y"),
				rec("y", KindClass, "z"),
				rec("z", KindClass, "x"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(mustSet(t, "", tt.records...))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrCycle)

			var cerr *CycleError
			require.True(t, errors.As(err, &cerr))
			require.GreaterOrEqual(t, len(cerr.Path), 2)
			assert.Equal(t, cerr.Path[0], cerr.Path[len(cerr.Path)-1])
		})
	}
}

func TestBuildCycleAmongOrphans(t *testing.T) {
	_, err := Build(mustSet(t, "top",
		rec("top", KindNamespace),
		rec("x", KindClass, "y"),
		rec("y", KindClass, "x"),
	))
	assert.ErrorIs(t, err, ErrCycle)
}

func TestBuildDesignatedRoot(t *testing.T) {
	tree := mustBuild(t, "main",
		rec("main", KindPage, "A"),
		rec("A", KindClass),
		rec("stray", KindClass),
	)

	assert.Equal(t, "main", tree.Root().ID())
	assert.Equal(t, []string{"A"}, ids(tree.Root().Children()))

	_, ok := tree.Node("stray")
	assert.False(t, ok)
	warnings := tree.Warnings()
	require.Len(t, warnings, 1)
	assert.Equal(t, WarnOrphan, warnings[0].Kind)
	assert.Equal(t, "stray", warnings[0].ID)
}

func TestBuildUnresolvedRoot(t *testing.T) {
	_, err := Build(mustSet(t, "nope", rec("A", KindClass)))
	assert.ErrorIs(t, err, ErrUnresolvedRoot)
}

func TestBuildOwnershipTiers(t *testing.T) {
	// The group and the file are listed first, yet the namespace owns the
	// class and the class owns its member.
	tree := mustBuild(t, "",
		rec("grp", KindGroup, "C", "m"),
		rec("hdr", KindFile, "C", "free"),
		rec("ns", KindNamespace, "C"),
		rec("C", KindClass, "m"),
		rec("m", KindPublicFunc),
		rec("free", KindFunc),
	)

	assert.Equal(t, []string{"grp", "hdr", "ns"}, ids(tree.Root().Children()))

	owner := func(id string) string {
		n, ok := tree.Node(id)
		require.True(t, ok, id)
		return n.Parent().ID()
	}
	assert.Equal(t, "ns", owner("C"))
	assert.Equal(t, "C", owner("m"))
	assert.Equal(t, "hdr", owner("free"))

	grp, _ := tree.Node("grp")
	assert.Empty(t, grp.Children())
	assert.Equal(t, []string{"C", "m"}, ids(grp.Refs()))
	assert.Equal(t, []string{"C", "m"}, ids(tree.MembersOf("grp")))
}

func TestBuildFirstVisitWinsWithinTier(t *testing.T) {
	tree := mustBuild(t, "",
		rec("n1", KindNamespace, "shared"),
		rec("n2", KindNamespace, "shared"),
		rec("shared", KindClass),
	)

	n, ok := tree.Node("shared")
	require.True(t, ok)
	assert.Equal(t, "n1", n.Parent().ID())

	n2, _ := tree.Node("n2")
	assert.Empty(t, n2.Children())
	assert.Equal(t, []string{"shared"}, ids(n2.Refs()))
}

func TestBuildSynthesizedRootKeepsGroupOnlyCompounds(t *testing.T) {
	tree := mustBuild(t, "",
		rec("grp", KindGroup, "Widget"),
		rec("Widget", KindClass),
	)

	assert.Equal(t, []string{"grp", "Widget"}, ids(tree.Root().Children()))
	assert.True(t, tree.IsMemberOf("Widget", "grp"))
}

func TestTreeGroupsAnyDepth(t *testing.T) {
	tree := mustBuild(t, "",
		rec("outer", KindGroup, "inner"),
		rec("inner", KindGroup, "x"),
		rec("other", KindGroup),
		rec("x", KindFunc),
	)

	assert.Equal(t, []string{"outer", "inner", "other"}, ids(tree.Groups()))
	assert.Equal(t, "outer", tree.Path("inner")[1].ID())
}

func TestTreeInScope(t *testing.T) {
	tree := mustBuild(t, "",
		rec("grp", KindGroup, "C"),
		rec("ns", KindNamespace, "C", "D"),
		rec("C", KindClass, "Inner"),
		rec("Inner", KindStruct),
		rec("D", KindClass),
	)

	assert.True(t, tree.InScope("C", "grp"))
	assert.True(t, tree.InScope("Inner", "grp"))
	assert.False(t, tree.InScope("D", "grp"))
	assert.False(t, tree.InScope("ns", "grp"))
	assert.False(t, tree.InScope("missing", "grp"))
}

func TestTreePath(t *testing.T) {
	tree := mustBuild(t, "",
		rec("ns", KindNamespace, "C"),
		rec("C", KindClass, "m"),
		rec("m", KindPublicFunc),
	)

	assert.Equal(t, []string{RootID, "ns", "C", "m"}, ids(tree.Path("m")))
	assert.Nil(t, tree.Path("missing"))

	m, _ := tree.Node("m")
	assert.Equal(t, 3, m.Depth())
}

func TestTreeStats(t *testing.T) {
	tree := mustBuild(t, "",
		rec("ns", KindNamespace, "C", "f", "g"),
		rec("C", KindClass),
		rec("f", KindFunc),
		rec("g", KindFunc),
	)

	assert.Equal(t, map[Kind]int{KindNamespace: 1, KindClass: 1, KindFunc: 2}, tree.Stats())
}
