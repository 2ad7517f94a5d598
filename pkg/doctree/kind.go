package doctree

import "strings"

// Kind identifies what a documented entity is. The vocabulary is closed:
// strings that do not name a known kind parse to [KindUnknown], which never
// passes a filter.
type Kind int

const (
	// KindUnknown is any kind string outside the known vocabulary.
	KindUnknown Kind = iota

	// KindIndex is the synthetic root sentinel. It is never filtered.
	KindIndex

	// Compound kinds.
	KindNamespace
	KindClass
	KindStruct
	KindUnion
	KindInterface
	KindProtocol
	KindCategory
	KindException
	KindTypedef
	KindGroup
	KindFile
	KindDir
	KindPage
	KindExample

	// Member kinds at namespace and file scope.
	KindDefine
	KindEnum
	KindEnumValue
	KindFunc
	KindVariable

	// Member kinds for class sections.
	KindPublicFunc
	KindProtectedFunc
	KindPrivateFunc
	KindPublicStaticFunc
	KindProtectedStaticFunc
	KindPrivateStaticFunc
	KindPublicAttrib
	KindProtectedAttrib
	KindPrivateAttrib
	KindPublicStaticAttrib
	KindProtectedStaticAttrib
	KindPrivateStaticAttrib
	KindPublicType
	KindProtectedType
	KindPrivateType
	KindPublicSlot
	KindProtectedSlot
	KindPrivateSlot
	KindSignal
	KindFriend
	KindProperty
	KindEvent
	KindRelated

	kindCount
)

var kindNames = [kindCount]string{
	KindUnknown:               "unknown",
	KindIndex:                 "index",
	KindNamespace:             "namespace",
	KindClass:                 "class",
	KindStruct:                "struct",
	KindUnion:                 "union",
	KindInterface:             "interface",
	KindProtocol:              "protocol",
	KindCategory:              "category",
	KindException:             "exception",
	KindTypedef:               "typedef",
	KindGroup:                 "group",
	KindFile:                  "file",
	KindDir:                   "dir",
	KindPage:                  "page",
	KindExample:               "example",
	KindDefine:                "define",
	KindEnum:                  "enum",
	KindEnumValue:             "enumvalue",
	KindFunc:                  "func",
	KindVariable:              "variable",
	KindPublicFunc:            "public-func",
	KindProtectedFunc:         "protected-func",
	KindPrivateFunc:           "private-func",
	KindPublicStaticFunc:      "public-static-func",
	KindProtectedStaticFunc:   "protected-static-func",
	KindPrivateStaticFunc:     "private-static-func",
	KindPublicAttrib:          "public-attrib",
	KindProtectedAttrib:       "protected-attrib",
	KindPrivateAttrib:         "private-attrib",
	KindPublicStaticAttrib:    "public-static-attrib",
	KindProtectedStaticAttrib: "protected-static-attrib",
	KindPrivateStaticAttrib:   "private-static-attrib",
	KindPublicType:            "public-type",
	KindProtectedType:         "protected-type",
	KindPrivateType:           "private-type",
	KindPublicSlot:            "public-slot",
	KindProtectedSlot:         "protected-slot",
	KindPrivateSlot:           "private-slot",
	KindSignal:                "signal",
	KindFriend:                "friend",
	KindProperty:              "property",
	KindEvent:                 "event",
	KindRelated:               "related",
}

// kindAliases maps doxygen spellings that differ from the canonical names.
var kindAliases = map[string]Kind{
	"function": KindFunc,
	"var":      KindVariable,
	"root":     KindIndex,
}

var kindByName = func() map[string]Kind {
	m := make(map[string]Kind, int(kindCount)+len(kindAliases))
	for k := KindUnknown + 1; k < kindCount; k++ {
		m[kindNames[k]] = k
	}
	for name, k := range kindAliases {
		m[name] = k
	}
	return m
}()

// ParseKind maps a kind string to its Kind. Matching is case-insensitive and
// ignores surrounding whitespace. Unrecognized strings return [KindUnknown].
func ParseKind(s string) Kind {
	if k, ok := kindByName[strings.ToLower(strings.TrimSpace(s))]; ok {
		return k
	}
	return KindUnknown
}

// String returns the canonical kind name.
func (k Kind) String() string {
	if k < 0 || k >= kindCount {
		return kindNames[KindUnknown]
	}
	return kindNames[k]
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler. Unknown names decode to
// [KindUnknown] rather than failing.
func (k *Kind) UnmarshalText(b []byte) error {
	*k = ParseKind(string(b))
	return nil
}

// IsCompound reports whether entities of this kind can own children.
func (k Kind) IsCompound() bool { return k >= KindNamespace && k <= KindExample }

// IsMember reports whether this is a leaf member kind.
func (k Kind) IsMember() bool { return k >= KindDefine && k < kindCount }

// IsGroup reports whether k is the group kind.
func (k Kind) IsGroup() bool { return k == KindGroup }

// IsClassLike reports whether k renders as a class (class, struct, union and
// the other aggregate type kinds).
func (k Kind) IsClassLike() bool {
	switch k {
	case KindClass, KindStruct, KindUnion, KindInterface, KindProtocol, KindCategory, KindException:
		return true
	}
	return false
}

// Kinds returns every known kind except [KindUnknown], in declaration order.
func Kinds() []Kind {
	out := make([]Kind, 0, kindCount-1)
	for k := KindUnknown + 1; k < kindCount; k++ {
		out = append(out, k)
	}
	return out
}

// tier orders ownership claims. References from lower tiers are resolved
// before references from higher tiers, so a class referenced by both its
// namespace and a group is owned by the namespace.
type tier int

const (
	tierStructural tier = iota // namespaces, classes, pages, the root
	tierFile                   // files and directories
	tierGroup                  // groups
	tierMember                 // members: owned by whichever tier references them
)

// ownerTier is the tier at which references made by a node of kind k are
// resolved.
func (k Kind) ownerTier() tier {
	switch k {
	case KindFile, KindDir:
		return tierFile
	case KindGroup:
		return tierGroup
	}
	return tierStructural
}

// rank is the tier a referenced node of kind k competes in when deciding
// whether it is top-level. A node is top-level when no referrer has an
// ownerTier at or below its rank.
func (k Kind) rank() tier {
	if k.IsMember() || k == KindUnknown {
		return tierMember
	}
	return k.ownerTier()
}

// KindSet is an allow-list of kinds. The zero value allows nothing.
type KindSet map[Kind]bool

// NewKindSet builds a set from kind names. Unknown names are dropped: they
// would match nothing anyway.
func NewKindSet(names ...string) KindSet {
	s := make(KindSet, len(names))
	for _, n := range names {
		if k := ParseKind(n); k != KindUnknown {
			s[k] = true
		}
	}
	return s
}

// Has reports whether k is allowed. [KindUnknown] is never allowed.
func (s KindSet) Has(k Kind) bool {
	return k != KindUnknown && s[k]
}

// Names returns the canonical names in the set, in kind declaration order.
func (s KindSet) Names() []string {
	var out []string
	for _, k := range Kinds() {
		if s[k] {
			out = append(out, k.String())
		}
	}
	return out
}
