package doxygen

import (
	"encoding/xml"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func convert(t *testing.T, body string, anchors bool) string {
	t.Helper()
	var m markup
	require.NoError(t, xml.Unmarshal([]byte("<detaileddescription>"+body+"</detaileddescription>"), &m))
	c := &converter{language: "cpp", anchors: anchors}
	return c.Markdown(m)
}

func TestMarkdownInline(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "<para>Hello   world</para>", "Hello world"},
		{"bold", "<para>a <bold>b </bold>c</para>", "a **b** c"},
		{"emphasis", "<para><emphasis>x</emphasis></para>", "*x*"},
		{"code", "<para>call <computeroutput>f()</computeroutput></para>", "call `f()`"},
		{"ref", `<para>see <ref refid="classA" kindref="compound">A</ref></para>`, "see [A](#classA)"},
		{"ulink", `<para><ulink url="https://example.com">site</ulink></para>`, "[site](https://example.com)"},
		{"dashes", "<para>a<ndash/>b<mdash/>c</para>", "a–b—c"},
		{"linebreak", "<para>one<linebreak/>two</para>", "one  \ntwo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, convert(t, tt.in, true))
		})
	}
}

func TestMarkdownParagraphs(t *testing.T) {
	got := convert(t, "<para>first</para>\n  <para>second</para>", true)
	assert.Equal(t, "first\n\nsecond", got)
}

func TestMarkdownLists(t *testing.T) {
	in := `<para><orderedlist>
		<listitem><para>one</para></listitem>
		<listitem><para>two<itemizedlist><listitem><para>nested</para></listitem></itemizedlist></para></listitem>
	</orderedlist></para>`

	assert.Equal(t, "1. one\n2. two\n  * nested", convert(t, in, true))
}

func TestMarkdownParameterList(t *testing.T) {
	in := `<para><parameterlist kind="exception">
		<parameteritem>
			<parameternamelist><parametername>std::runtime_error</parametername></parameternamelist>
			<parameterdescription><para>on failure</para></parameterdescription>
		</parameteritem>
	</parameterlist></para>`

	assert.Equal(t, "#### Exceptions\n\n* `std::runtime_error` on failure", convert(t, in, true))
}

func TestMarkdownSimpleSect(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"return", `<para><simplesect kind="return"><para>zero</para></simplesect></para>`, "#### Returns\nzero"},
		{"see", `<para><simplesect kind="see"><para>other</para></simplesect></para>`, "**See also**: other"},
		{"note", `<para><simplesect kind="note"><para>careful</para></simplesect></para>`, "**Note**: careful"},
		{"par", `<para><simplesect kind="par"><title>Threading</title><para>safe</para></simplesect></para>`, "**Threading**: safe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, convert(t, tt.in, true))
		})
	}
}

func TestMarkdownAnchors(t *testing.T) {
	in := `<para><anchor id="intro"/>Intro</para>`
	assert.Equal(t, `<a id="intro"></a>Intro`, convert(t, in, true))
	assert.Equal(t, "Intro", convert(t, in, false))
}

func TestMarkdownVerbatimAndTable(t *testing.T) {
	assert.Equal(t, "```\n  raw <text>\n```", convert(t, "<verbatim>  raw &lt;text&gt;</verbatim>", true))

	table := `<table rows="2" cols="2">
		<row><entry thead="yes"><para>Name</para></entry><entry thead="yes"><para>Value</para></entry></row>
		<row><entry thead="no"><para>a|b</para></entry><entry thead="no"><para>1</para></entry></row>
	</table>`
	assert.Equal(t, "| Name | Value |\n| --- | --- |\n| a\\|b | 1 |", convert(t, table, true))
}

func TestMarkupText(t *testing.T) {
	var m markup
	require.NoError(t, xml.Unmarshal([]byte(`<type>const <ref refid="x">Foo</ref> &amp;</type>`), &m))
	assert.Equal(t, "const Foo &", m.Text())
}
