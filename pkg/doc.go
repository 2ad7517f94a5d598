// Package pkg provides the libraries behind moxygen, a doxygen XML to
// Markdown converter.
//
// # Overview
//
// Doxygen describes an API as compounds (namespaces, classes, files,
// groups, ...) that list their members and inner compounds. The same
// element is usually listed several times: by its namespace, by the file
// that declares it and by the groups that mention it. moxygen resolves
// those listings into one ownership tree and writes it out as Markdown.
//
// # Architecture
//
// The data flow:
//
//	doxygen XML directory (or records JSON)
//	         ↓
//	    [doxygen] package (parse index.xml and compound files)
//	         ↓
//	    [doctree] package (build tree, filter, linearize, partition by group)
//	         ↓
//	    [render] package (templates, cross-document links)
//	         ↓
//	    Markdown files
//
// # Quick Start
//
//	import (
//	    "context"
//	    "github.com/zendapi/moxygen/pkg/doctree"
//	    "github.com/zendapi/moxygen/pkg/doxygen"
//	    "github.com/zendapi/moxygen/pkg/render"
//	)
//
//	// 1. Load records
//	res, _ := doxygen.Load(context.Background(), "build/xml", doxygen.LoadOptions{Anchors: true})
//
//	// 2. Build the ownership tree
//	tree, _ := doctree.Build(res.Records)
//
//	// 3. Filter and linearize
//	f := doctree.NewFilter([]string{"func", "public-func"}, []string{"namespace", "class"})
//	doc := &render.Document{Path: "api.md", Entries: doctree.Linearize(f.Apply(tree), true)}
//
//	// 4. Render
//	r, _ := render.New(render.Builtin("cpp"))
//	md, _ := r.Render(doc, render.NewLinker(tree, []*render.Document{doc}))
//
// Most callers use [pipeline] instead, which adds caching, group mode and
// file output.
//
// # Main Packages
//
// [doctree] - The core: element kinds, records, the tree builder with its
// ownership rules, the kind filter, the linearizer and the group
// partitioner. It knows nothing about XML or Markdown.
//
// [doxygen] - Loader for doxygen XML. Converts description markup to
// Markdown and maps section kinds to member kinds.
//
// [io] - JSON import and export of record sets.
//
// [render] - Template renderer with built-in templates per language, the
// cross-document linker, YAML front matter and goldmark link checks.
//
// [render/nodelink] - Graphviz diagrams of the filtered hierarchy.
//
// [pipeline] - Load, build, plan, render and write, shared by the CLI and
// the preview server.
//
// [cache] - Record-set cache with file, Redis and no-op backends.
//
// [config] - TOML and YAML configuration files.
//
// [errors] - Coded errors and input validation.
//
// [observability] - Hook interfaces for metrics and tracing.
//
// # Testing
//
//	go test ./pkg/...           # All tests
//	go test ./pkg/doctree/...   # Specific package
//	go test -run Example        # Examples only
//
// [doctree]: https://pkg.go.dev/github.com/zendapi/moxygen/pkg/doctree
// [doxygen]: https://pkg.go.dev/github.com/zendapi/moxygen/pkg/doxygen
// [io]: https://pkg.go.dev/github.com/zendapi/moxygen/pkg/io
// [render]: https://pkg.go.dev/github.com/zendapi/moxygen/pkg/render
// [render/nodelink]: https://pkg.go.dev/github.com/zendapi/moxygen/pkg/render/nodelink
// [pipeline]: https://pkg.go.dev/github.com/zendapi/moxygen/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/zendapi/moxygen/pkg/cache
// [config]: https://pkg.go.dev/github.com/zendapi/moxygen/pkg/config
// [errors]: https://pkg.go.dev/github.com/zendapi/moxygen/pkg/errors
// [observability]: https://pkg.go.dev/github.com/zendapi/moxygen/pkg/observability
package pkg
