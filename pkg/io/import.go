package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/zendapi/moxygen/pkg/doctree"
)

// ReadJSON decodes a JSON record set from r.
//
// The input must be an object with a "records" array; see the package
// documentation for the field list. Kind names are parsed with
// [doctree.ParseKind].
//
// ReadJSON returns an error if the JSON is malformed or a record has an
// empty or duplicate ID. Errors name the offending record. ReadJSON does
// not close r.
func ReadJSON(r io.Reader) (*doctree.RecordSet, error) {
	var data document
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	set := doctree.NewRecordSet(data.Root)
	for i, rec := range data.Records {
		if err := set.Add(rec); err != nil {
			return nil, fmt.Errorf("record %d (%s): %w", i, rec.ID, err)
		}
	}
	return set, nil
}

// ImportJSON reads a JSON file at path and returns the decoded record set.
func ImportJSON(path string) (*doctree.RecordSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}
