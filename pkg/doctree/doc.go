// Package doctree builds the in-memory document model that moxygen renders:
// a rooted ownership tree of documented entities, filtered views over it,
// and the linear sequences handed to templates.
//
// # Overview
//
// A loader (such as [github.com/zendapi/moxygen/pkg/doxygen]) produces a
// flat [RecordSet]. Each [Record] names its children by ID, which can encode
// any graph: a class is listed by its namespace, by its file and by the groups
// it belongs to. [Build] turns these references into a tree in which every
// node has exactly one owner:
//
//	set := doctree.NewRecordSet("")
//	_ = set.Add(doctree.Record{ID: "ns", Kind: doctree.KindNamespace, Name: "app", Children: []string{"cls"}})
//	_ = set.Add(doctree.Record{ID: "cls", Kind: doctree.KindClass, Name: "app::Widget"})
//	tree, err := doctree.Build(set)
//
// # Ownership
//
// When several compounds reference the same child, ownership is decided in
// tiers. References made by namespaces, classes, pages and the root are
// resolved first, then those made by files and directories, then those made
// by groups. Within a tier the first reference reached in pre-order wins.
// References that lose keep existing as links ([Node.Refs]); for groups they
// form the membership list used by group-scoped filtering.
//
// Unresolved child IDs are dropped and reported through [Tree.Warnings].
// Reference cycles and an unresolvable designated root are fatal.
//
// # Filtering
//
// A [Filter] holds two allow-lists, one for member kinds and one for compound
// kinds. [Filter.Apply] derives a [View] in which disallowed nodes are
// excluded along with their subtrees. Filtering is default-deny, preserves
// sibling order and never drops a compound just because it ended up empty.
// Kinds are a closed enum; strings outside the vocabulary parse to
// [KindUnknown], which no filter allows.
//
// # Output Sequences
//
// [Linearize] flattens a view in pre-order, optionally starting with the
// root entry. [PartitionByGroup] computes one sequence per group compound,
// each filtered to its group's scope and starting with the group entry.
//
// # Concurrency
//
// A built [Tree] is never modified. Views and sequences are freshly allocated
// per call, so any number of goroutines may filter and linearize the same
// tree at once.
package doctree
