package doxygen

import (
	"encoding/xml"
	"regexp"
	"strconv"
	"strings"
)

// markup keeps doxygen mixed content (text interleaved with elements) in
// document order, which plain struct decoding loses.
type markup struct {
	nodes []*mnode
}

// mnode is an element, or a text run when name is empty.
type mnode struct {
	name     string
	attr     map[string]string
	text     string
	children []*mnode
}

func (m *markup) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	root := &mnode{}
	stack := []*mnode{root}
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		top := stack[len(stack)-1]
		switch t := tok.(type) {
		case xml.StartElement:
			n := &mnode{name: t.Name.Local, attr: make(map[string]string, len(t.Attr))}
			for _, a := range t.Attr {
				n.attr[a.Name.Local] = a.Value
			}
			top.children = append(top.children, n)
			stack = append(stack, n)
		case xml.EndElement:
			if len(stack) == 1 {
				m.nodes = root.children
				return nil
			}
			stack = stack[:len(stack)-1]
		case xml.CharData:
			top.children = append(top.children, &mnode{text: string(t)})
		}
	}
}

// Text returns the markup's character data with all tags removed and
// whitespace collapsed.
func (m markup) Text() string {
	var sb strings.Builder
	var walk func(ns []*mnode)
	walk = func(ns []*mnode) {
		for _, n := range ns {
			if n.name == "" {
				sb.WriteString(n.text)
				continue
			}
			walk(n.children)
		}
	}
	walk(m.nodes)
	return strings.Join(strings.Fields(sb.String()), " ")
}

// without returns a copy of m with every element matching drop removed at
// any depth. Used to lift parameter descriptions out of detailed text.
func (m markup) without(drop func(n *mnode) bool) markup {
	var filter func(ns []*mnode) []*mnode
	filter = func(ns []*mnode) []*mnode {
		var out []*mnode
		for _, n := range ns {
			if n.name != "" && drop(n) {
				continue
			}
			c := *n
			c.children = filter(n.children)
			out = append(out, &c)
		}
		return out
	}
	return markup{nodes: filter(m.nodes)}
}

// find returns every element with the given name, in document order.
func (m markup) find(name string) []*mnode {
	var out []*mnode
	var walk func(ns []*mnode)
	walk = func(ns []*mnode) {
		for _, n := range ns {
			if n.name == name {
				out = append(out, n)
			}
			walk(n.children)
		}
	}
	walk(m.nodes)
	return out
}

var (
	wsRun      = regexp.MustCompile(`[ \t\r\n]+`)
	blankLines = regexp.MustCompile(`\n[ \t]*\n(?:[ \t]*\n)+`)
	spaceNL    = regexp.MustCompile(`[ \t]+\n`)
)

// converter renders description markup as Markdown.
type converter struct {
	language string
	anchors  bool
	verbatim int
	inline   int
	lists    int
}

// Markdown renders m. References become links to "#refid" fragments; the
// renderer rewrites them when targets live in another document.
func (c *converter) Markdown(m markup) string {
	s := c.nodes(m.nodes)
	s = spaceNL.ReplaceAllStringFunc(s, func(run string) string {
		// A hard line break is exactly two trailing spaces.
		if strings.HasSuffix(run, "  \n") && strings.Count(run, " ") == 2 {
			return run
		}
		return "\n"
	})
	s = blankLines.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

func (c *converter) nodes(ns []*mnode) string {
	var sb strings.Builder
	for _, n := range ns {
		sb.WriteString(c.node(n))
	}
	return sb.String()
}

func (c *converter) block(s string) string {
	if c.inline > 0 {
		return strings.TrimSpace(s) + " "
	}
	return "\n\n" + strings.TrimSpace(s) + "\n\n"
}

func (c *converter) node(n *mnode) string {
	if n.name == "" {
		if c.verbatim > 0 {
			return n.text
		}
		return wsRun.ReplaceAllString(n.text, " ")
	}

	switch n.name {
	case "para":
		return c.block(c.nodes(n.children))

	case "ref":
		text := c.nodes(n.children)
		if id := n.attr["refid"]; id != "" && c.verbatim == 0 {
			return "[" + strings.TrimSpace(text) + "](#" + id + ")"
		}
		return text

	case "ulink":
		return "[" + strings.TrimSpace(c.nodes(n.children)) + "](" + n.attr["url"] + ")"

	case "bold":
		return wrapInline("**", c.nodes(n.children))
	case "emphasis":
		return wrapInline("*", c.nodes(n.children))
	case "computeroutput":
		return wrapInline("`", c.nodes(n.children))
	case "strike", "del":
		return wrapInline("~~", c.nodes(n.children))

	case "linebreak":
		return "  \n"
	case "sp":
		return " "
	case "ndash":
		return "–"
	case "mdash":
		return "—"

	case "programlisting":
		return c.code(c.language, n.children)
	case "codeline", "highlight":
		return c.nodes(n.children)
	case "verbatim":
		return c.code("", n.children)

	case "itemizedlist":
		return c.list(n, func(int) string { return "* " })
	case "orderedlist":
		return c.list(n, func(i int) string { return strconv.Itoa(i+1) + ". " })

	case "parameterlist":
		return c.parameterList(n)

	case "simplesect":
		return c.simpleSect(n)

	case "heading":
		level, _ := strconv.Atoi(n.attr["level"])
		level = min(max(level, 1), 6)
		return "\n\n" + strings.Repeat("#", level) + " " + strings.TrimSpace(c.nodes(n.children)) + "\n\n"

	case "sect1", "sect2", "sect3", "sect4":
		level, _ := strconv.Atoi(n.name[len("sect"):])
		var title string
		var rest []*mnode
		for _, ch := range n.children {
			if ch.name == "title" {
				title = c.nodes(ch.children)
				continue
			}
			rest = append(rest, ch)
		}
		out := ""
		if id := n.attr["id"]; id != "" && c.anchors {
			out = `<a id="` + id + `"></a>`
		}
		return "\n\n" + out + "\n" + strings.Repeat("#", level+2) + " " + strings.TrimSpace(title) + "\n\n" + c.nodes(rest)

	case "anchor":
		if !c.anchors {
			return ""
		}
		return `<a id="` + n.attr["id"] + `"></a>`

	case "xrefsect":
		var title, body string
		for _, ch := range n.children {
			switch ch.name {
			case "xreftitle":
				title = c.nodes(ch.children)
			case "xrefdescription":
				c.inline++
				body = c.nodes(ch.children)
				c.inline--
			}
		}
		return c.block("**" + strings.TrimSpace(title) + "**: " + body)

	case "table":
		return c.table(n)

	case "image":
		if n.attr["type"] != "" && n.attr["type"] != "html" {
			return ""
		}
		return "![" + strings.TrimSpace(c.nodes(n.children)) + "](" + n.attr["name"] + ")"

	case "htmlonly":
		c.verbatim++
		defer func() { c.verbatim-- }()
		return c.nodes(n.children)

	case "latexonly", "rtfonly", "manonly", "xmlonly", "docbookonly", "title":
		return ""
	}

	return c.nodes(n.children)
}

func (c *converter) code(lang string, children []*mnode) string {
	c.verbatim++
	defer func() { c.verbatim-- }()

	var lines []string
	hasLines := false
	for _, ch := range children {
		if ch.name == "codeline" {
			hasLines = true
			lines = append(lines, c.node(ch))
		}
	}
	body := strings.Join(lines, "\n")
	if !hasLines {
		body = strings.Trim(c.nodes(children), "\n")
	}
	if c.inline > 0 {
		return "`" + strings.TrimSpace(body) + "` "
	}
	return "\n\n```" + lang + "\n" + body + "\n```\n\n"
}

func (c *converter) list(n *mnode, marker func(i int) string) string {
	c.lists++
	c.inline++
	defer func() {
		c.lists--
		c.inline--
	}()

	indent := strings.Repeat("  ", c.lists-1)
	var sb strings.Builder
	i := 0
	for _, ch := range n.children {
		if ch.name != "listitem" {
			continue
		}
		sb.WriteString("\n" + indent + marker(i) + strings.TrimSpace(c.nodes(ch.children)))
		i++
	}
	if c.lists == 1 {
		return sb.String() + "\n\n"
	}
	return sb.String()
}

var parameterListTitles = map[string]string{
	"param":         "Parameters",
	"retval":        "Return values",
	"exception":     "Exceptions",
	"templateparam": "Template parameters",
}

func (c *converter) parameterList(n *mnode) string {
	title, ok := parameterListTitles[n.attr["kind"]]
	if !ok {
		title = "Parameters"
	}

	c.inline++
	defer func() { c.inline-- }()

	var sb strings.Builder
	sb.WriteString("\n\n#### " + title + "\n")
	for _, item := range n.children {
		if item.name != "parameteritem" {
			continue
		}
		names, desc := c.parameterItem(item)
		sb.WriteString("\n* `" + strings.Join(names, "`, `") + "` " + desc)
	}
	return sb.String() + "\n\n"
}

func (c *converter) parameterItem(item *mnode) (names []string, desc string) {
	for _, ch := range item.children {
		switch ch.name {
		case "parameternamelist":
			for _, pn := range ch.children {
				if pn.name != "parametername" {
					continue
				}
				if s := plain(pn); s != "" {
					names = append(names, s)
				}
			}
		case "parameterdescription":
			desc = strings.TrimSpace(c.nodes(ch.children))
		}
	}
	return names, desc
}

func (c *converter) simpleSect(n *mnode) string {
	kind := n.attr["kind"]

	var title string
	var rest []*mnode
	for _, ch := range n.children {
		if ch.name == "title" {
			title = plain(ch)
			continue
		}
		rest = append(rest, ch)
	}

	c.inline++
	body := strings.TrimSpace(c.nodes(rest))
	c.inline--

	switch kind {
	case "return":
		return "\n\n#### Returns\n" + body + "\n\n"
	case "see":
		return c.block("**See also**: " + body)
	case "par":
		if title == "" {
			return c.block(body)
		}
		return c.block("**" + strings.TrimSpace(title) + "**: " + body)
	}
	if kind == "" {
		return c.block(body)
	}
	return c.block("**" + strings.ToUpper(kind[:1]) + kind[1:] + "**: " + body)
}

func (c *converter) table(n *mnode) string {
	c.inline++
	defer func() { c.inline-- }()

	var rows [][]string
	for _, row := range n.children {
		if row.name != "row" {
			continue
		}
		var cells []string
		for _, e := range row.children {
			if e.name == "entry" {
				cell := strings.TrimSpace(c.nodes(e.children))
				cells = append(cells, strings.ReplaceAll(cell, "|", `\|`))
			}
		}
		rows = append(rows, cells)
	}
	if len(rows) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("\n\n")
	for i, cells := range rows {
		sb.WriteString("| " + strings.Join(cells, " | ") + " |\n")
		if i == 0 {
			sb.WriteString(strings.Repeat("| --- ", len(cells)) + "|\n")
		}
	}
	return sb.String() + "\n"
}

// wrapInline puts markers around s while keeping surrounding whitespace
// outside them, since "** bold **" does not parse as emphasis.
func wrapInline(marker, s string) string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return s
	}
	lead := s[:strings.Index(s, trimmed)]
	trail := s[len(lead)+len(trimmed):]
	return lead + marker + trimmed + marker + trail
}

func plain(n *mnode) string {
	return markup{nodes: n.children}.Text()
}
