package export

import (
	"encoding/json"
	"errors"

	"roster/internal/domain/activity"
	"roster/internal/domain/participation"
	"roster/internal/domain/student"
)

// Version is the schema version written into every document.
const Version = "1"

// Format constants for export file format.
const (
	FormatJSON = "json"
)

// Domain errors.
var (
	ErrUnsupportedVersion = errors.New("unsupported export version")
)

// Document is a diagnostic/backup snapshot of one roster and its grid.
// It is never a save path.
type Document struct {
	Version    string              `json:"version"`
	Students   []student.Student   `json:"students"`
	Activities []activity.Activity `json:"activities"`
	Selection  []Selection         `json:"selection"`
}

// Selection is one flattened grid entry.
type Selection struct {
	StudentID    int64                  `json:"student_id"`
	Participated bool                   `json:"participated"`
	Position     participation.Position `json:"position"`
	TeamName     string                 `json:"team_name"`
}

// Build flattens roster, activities and grid entries into a Document.
// PRE: any inputs, including nil slices and an empty grid
// POST: Selection holds one item per explicit grid entry, sorted by student ID
// INVARIANT: inputs are not modified; slices are never nil in the result
func Build(roster []student.Student, activities []activity.Activity, g participation.Grid) Document {
	doc := Document{
		Version:    Version,
		Students:   append([]student.Student{}, roster...),
		Activities: append([]activity.Activity{}, activities...),
		Selection:  make([]Selection, 0, g.Len()),
	}
	for _, e := range g.Entries() {
		doc.Selection = append(doc.Selection, Selection{
			StudentID:    e.StudentID,
			Participated: e.Row.Participated,
			Position:     e.Row.Position,
			TeamName:     e.Row.TeamName,
		})
	}
	return doc
}

// ToJSON serializes the Document to indented JSON.
func (d *Document) ToJSON() ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

// Parse decodes a document written by ToJSON.
func Parse(data []byte) (Document, error) {
	var d Document
	if err := json.Unmarshal(data, &d); err != nil {
		return Document{}, err
	}
	if d.Version != Version {
		return Document{}, ErrUnsupportedVersion
	}
	return d, nil
}

// Grid rebuilds the draft grid captured in the document.
func (d *Document) Grid() participation.Grid {
	g := participation.NewGrid()
	for _, s := range d.Selection {
		g = g.Upsert(s.StudentID, participation.RowPatch{
			Participated: &s.Participated,
			Position:     &s.Position,
			TeamName:     &s.TeamName,
		})
	}
	return g
}
