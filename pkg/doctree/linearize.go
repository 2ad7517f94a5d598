package doctree

// Linearize flattens a view into pre-order: each entry followed by its
// surviving children, recursively. With includeRoot the view root comes
// first; otherwise the sequence starts with the root's children.
//
// Linearize is a pure function of the view.
func Linearize(v *View, includeRoot bool) []*Entry {
	out := make([]*Entry, 0, v.Len())
	var walk func(e *Entry)
	walk = func(e *Entry) {
		out = append(out, e)
		for _, c := range e.children {
			walk(c)
		}
	}

	if includeRoot {
		walk(v.root)
		return out
	}
	for _, c := range v.root.children {
		walk(c)
	}
	return out
}
