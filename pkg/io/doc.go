// Package io provides JSON import and export for normalized record sets.
//
// # Overview
//
// The doxygen loader is the usual source of records, but any tool can feed
// moxygen by writing this format directly. It is also the payload stored by
// the record cache, so a cached run skips XML parsing entirely.
//
// # JSON Format
//
//	{
//	  "root": "",
//	  "meta": {"id": "0b5c…", "generator": "moxygen 1.2.0"},
//	  "records": [
//	    {"id": "ns", "kind": "namespace", "name": "app", "children": ["cls"]},
//	    {"id": "cls", "kind": "class", "name": "app::Widget", "parent": "ns",
//	     "payload": {"brief": "A widget."}}
//	  ]
//	}
//
// "root" names the designated root record; leave it empty to let the tree
// builder synthesize one. "meta" is informational and ignored on import.
//
// # Record Fields
//
// Required:
//   - id: unique, non-empty identifier
//   - kind: kind name such as "class" or "public-func"; unknown names load
//     as the unknown kind, which no filter allows
//
// Optional:
//   - name: display name
//   - children: ordered child IDs; unresolved IDs are reported when the tree
//     is built, not here
//   - parent: weak back-reference, informational only
//   - payload: documentation fields (brief, detailed, type, params, ...)
//
// # Import and Export
//
// Use [ImportJSON] / [ReadJSON] to decode and [ExportJSON] / [WriteJSON] to
// encode. Import rejects duplicate and empty IDs; it does not check
// structure, which is the tree builder's job.
package io
