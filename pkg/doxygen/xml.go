package doxygen

import "encoding/xml"

// index.xml

type indexFile struct {
	XMLName   xml.Name        `xml:"doxygenindex"`
	Compounds []indexCompound `xml:"compound"`
}

type indexCompound struct {
	RefID   string        `xml:"refid,attr"`
	Kind    string        `xml:"kind,attr"`
	Name    string        `xml:"name"`
	Members []indexMember `xml:"member"`
}

type indexMember struct {
	RefID string `xml:"refid,attr"`
	Kind  string `xml:"kind,attr"`
	Name  string `xml:"name"`
}

// <refid>.xml

type compoundFile struct {
	XMLName   xml.Name      `xml:"doxygen"`
	Compounds []compoundDef `xml:"compounddef"`
}

type compoundDef struct {
	ID         string `xml:"id,attr"`
	Kind       string `xml:"kind,attr"`
	Language   string `xml:"language,attr"`
	Prot       string `xml:"prot,attr"`
	Name       string `xml:"compoundname"`
	Title      string `xml:"title"`
	Includes   []ref  `xml:"includes"`
	Namespaces []ref  `xml:"innernamespace"`
	Classes    []ref  `xml:"innerclass"`
	Groups     []ref  `xml:"innergroup"`
	Files      []ref  `xml:"innerfile"`
	Dirs       []ref  `xml:"innerdir"`
	Pages      []ref  `xml:"innerpage"`

	TemplateParams []param      `xml:"templateparamlist>param"`
	Sections       []sectionDef `xml:"sectiondef"`
	Brief          markup       `xml:"briefdescription"`
	Detailed       markup       `xml:"detaileddescription"`
	Location       location     `xml:"location"`
}

type ref struct {
	RefID string `xml:"refid,attr"`
	Local string `xml:"local,attr"`
	Text  string `xml:",chardata"`
}

type sectionDef struct {
	Kind    string      `xml:"kind,attr"`
	Header  string      `xml:"header"`
	Members []memberDef `xml:"memberdef"`
}

type memberDef struct {
	ID     string `xml:"id,attr"`
	Kind   string `xml:"kind,attr"`
	Prot   string `xml:"prot,attr"`
	Static string `xml:"static,attr"`
	Const  string `xml:"const,attr"`
	Virt   string `xml:"virt,attr"`

	Type           markup      `xml:"type"`
	Definition     string      `xml:"definition"`
	ArgsString     string      `xml:"argsstring"`
	Name           string      `xml:"name"`
	Initializer    markup      `xml:"initializer"`
	TemplateParams []param     `xml:"templateparamlist>param"`
	Params         []param     `xml:"param"`
	EnumValues     []enumValue `xml:"enumvalue"`
	Brief          markup      `xml:"briefdescription"`
	Detailed       markup      `xml:"detaileddescription"`
	Location       location    `xml:"location"`
}

type param struct {
	Type     markup `xml:"type"`
	DeclName string `xml:"declname"`
	DefName  string `xml:"defname"`
	Array    string `xml:"array"`
	DefVal   markup `xml:"defval"`
}

type enumValue struct {
	ID          string `xml:"id,attr"`
	Name        string `xml:"name"`
	Initializer markup `xml:"initializer"`
	Brief       markup `xml:"briefdescription"`
}

type location struct {
	File string `xml:"file,attr"`
	Line string `xml:"line,attr"`
}
