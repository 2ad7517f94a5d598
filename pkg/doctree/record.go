package doctree

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// RootID is the reserved identifier of the synthetic root node.
const RootID = "__index__"

var (
	// ErrInvalidRecordID is returned by [RecordSet.Add] when a record has an
	// empty ID or uses the reserved [RootID].
	ErrInvalidRecordID = errors.New("record ID must not be empty or reserved")

	// ErrDuplicateRecordID is returned by [RecordSet.Add] when a record with
	// the same ID was already added.
	ErrDuplicateRecordID = errors.New("duplicate record ID")

	// ErrUnresolvedRoot is returned by [Build] when the designated root ID
	// does not name a record in the set.
	ErrUnresolvedRoot = errors.New("root record not found")

	// ErrCycle is returned by [Build] when child references form a cycle.
	// The concrete error is a [*CycleError] carrying the offending chain.
	ErrCycle = errors.New("reference cycle")

	// ErrNoGroups is returned by [PartitionByGroup] when the tree contains no
	// group compounds.
	ErrNoGroups = errors.New("no groups found")
)

// CycleError reports a reference cycle found while building a tree.
// Path lists the record IDs along the cycle, starting and ending with the
// same ID.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("%v: %s", ErrCycle, strings.Join(e.Path, " -> "))
}

// Is makes errors.Is(err, ErrCycle) match.
func (e *CycleError) Is(target error) bool { return target == ErrCycle }

// Record is one documented program element as produced by a loader.
// Children lists the IDs of child compounds and members, in document order.
// ParentID is a weak back-reference used for lookup only; ownership is
// decided by [Build].
type Record struct {
	ID       string   `json:"id"`
	Kind     Kind     `json:"kind"`
	Name     string   `json:"name"`
	Children []string `json:"children,omitempty"`
	ParentID string   `json:"parent,omitempty"`
	Payload  Payload  `json:"payload"`
}

// Payload holds kind-specific documentation. The core never reads it.
type Payload struct {
	Title      string            `json:"title,omitempty"`
	Brief      string            `json:"brief,omitempty"`
	Detailed   string            `json:"detailed,omitempty"`
	Type       string            `json:"type,omitempty"`
	Definition string            `json:"definition,omitempty"`
	ArgsString string            `json:"args,omitempty"`
	Params     []Param           `json:"params,omitempty"`
	EnumValues []EnumValue       `json:"enum_values,omitempty"`
	Protection string            `json:"protection,omitempty"`
	Static     bool              `json:"static,omitempty"`
	Const      bool              `json:"const,omitempty"`
	Virtual    string            `json:"virtual,omitempty"`
	Include    string            `json:"include,omitempty"`
	Language   string            `json:"language,omitempty"`
	Location   *Location         `json:"location,omitempty"`
	Extra      map[string]string `json:"extra,omitempty"`
}

// Param is a function or template parameter.
type Param struct {
	Type        string `json:"type,omitempty"`
	Name        string `json:"name,omitempty"`
	Default     string `json:"default,omitempty"`
	Description string `json:"description,omitempty"`
}

// EnumValue is a single enumerator of an enum member.
type EnumValue struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name"`
	Initializer string `json:"initializer,omitempty"`
	Brief       string `json:"brief,omitempty"`
}

// Location is the source position of a declaration.
type Location struct {
	File string `json:"file,omitempty"`
	Line int    `json:"line,omitempty"`
}

// clone returns a deep copy so the builder can never alias loader memory.
func (r Record) clone() Record {
	r.Children = slices.Clone(r.Children)
	r.Payload.Params = slices.Clone(r.Payload.Params)
	r.Payload.EnumValues = slices.Clone(r.Payload.EnumValues)
	if r.Payload.Location != nil {
		loc := *r.Payload.Location
		r.Payload.Location = &loc
	}
	r.Payload.Extra = maps.Clone(r.Payload.Extra)
	return r
}

// RecordSet is the loader output: records in load order plus an optional
// designated root. When RootID is empty, [Build] synthesizes a root.
//
// The zero value is not usable - use [NewRecordSet].
type RecordSet struct {
	RootID  string
	records []Record
	index   map[string]int
}

// NewRecordSet creates an empty set with the given designated root ID
// (empty for a synthesized root).
func NewRecordSet(rootID string) *RecordSet {
	return &RecordSet{RootID: rootID, index: make(map[string]int)}
}

// Add appends a record. It returns [ErrInvalidRecordID] for empty or
// reserved IDs and [ErrDuplicateRecordID] when the ID is already present.
func (s *RecordSet) Add(r Record) error {
	if r.ID == "" || r.ID == RootID {
		return fmt.Errorf("%w: %q", ErrInvalidRecordID, r.ID)
	}
	if _, ok := s.index[r.ID]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateRecordID, r.ID)
	}
	s.index[r.ID] = len(s.records)
	s.records = append(s.records, r)
	return nil
}

// Get returns the record with the given ID.
func (s *RecordSet) Get(id string) (Record, bool) {
	i, ok := s.index[id]
	if !ok {
		return Record{}, false
	}
	return s.records[i], true
}

// Len returns the number of records.
func (s *RecordSet) Len() int { return len(s.records) }

// Records returns a copy of the records in load order.
func (s *RecordSet) Records() []Record { return slices.Clone(s.records) }
