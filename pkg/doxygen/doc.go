// Package doxygen loads Doxygen XML output into normalized doctree records.
//
// [Load] reads index.xml and one <refid>.xml file per listed compound.
// Compounds become records whose children are their inner compounds
// followed by the members of every section. Members take the kind of the
// section they appear in (public-func, protected-attrib, func, define, ...),
// which is the vocabulary filter configurations use. Enum values are kept in
// their enum's payload rather than as separate records.
//
// Brief and detailed descriptions are converted to Markdown. References
// become links to "#refid" fragments, which renderers may rewrite.
//
// A compound file that cannot be read or parsed is reported as a
// [LoadError]; the compound is kept with its index name and no children.
// A missing or malformed index.xml fails the whole load.
package doxygen
