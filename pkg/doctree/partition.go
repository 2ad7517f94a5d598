package doctree

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// GroupSequence is the output for one group: the group's filtered view and
// its linearization, group entry first.
type GroupSequence struct {
	Group   *Node
	View    *View
	Entries []*Entry
}

// PartitionByGroup produces one sequence per group compound found anywhere
// in the tree, in discovery order. Each sequence is filtered with f scoped to
// its group and starts with the group entry.
//
// Groups are computed concurrently, at most concurrency at a time (no limit
// when concurrency <= 0). The result order does not depend on scheduling.
// It returns [ErrNoGroups] when the tree has no groups.
func PartitionByGroup(ctx context.Context, t *Tree, f Filter, concurrency int) ([]GroupSequence, error) {
	groups := t.Groups()
	if len(groups) == 0 {
		return nil, ErrNoGroups
	}

	out := make([]GroupSequence, len(groups))
	g, ctx := errgroup.WithContext(ctx)
	if concurrency > 0 {
		g.SetLimit(concurrency)
	}

	for i, grp := range groups {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			v := f.WithScope(grp.ID()).Apply(t)
			out[i] = GroupSequence{Group: grp, View: v, Entries: Linearize(v, true)}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
