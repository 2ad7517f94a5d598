// Package render turns linearized documentation entries into Markdown.
//
// # Templates
//
// A [Renderer] is built from an [fs.FS] holding *.md.tmpl files in Go
// text/template syntax. Each compound entry of a document is rendered with
// the first template found for:
//
//  1. its exact kind ("struct.md.tmpl", "namespace.md.tmpl", "index.md.tmpl")
//  2. its kind family ("class.md.tmpl" for struct, union, interface and
//     other class-like kinds; "member.md.tmpl" for members and typedefs)
//  3. "compound.md.tmpl"
//
// Member entries are not rendered on their own. Compound templates render
// them through the member helper, which applies the same lookup.
// Default templates for C++ are embedded, see [Builtin].
//
// # Links
//
// Descriptions link to other entities as "[text](#id)". A [Linker] built
// from all documents of a run rewrites these so that links into another
// document point at "file.md#id", and links to entities that no document
// contains become plain text.
//
// # Checking Output
//
// [Verify] parses Markdown with goldmark and reports fragment links whose
// anchor does not exist in the same document. [ToHTML] renders a document
// for the preview server.
//
// The [nodelink] subpackage draws the filtered hierarchy with Graphviz.
//
// [nodelink]: github.com/zendapi/moxygen/pkg/render/nodelink
package render
