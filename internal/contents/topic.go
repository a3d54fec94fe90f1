package contents

import (
	"github.com/realmforge/rwgen/api"
	"github.com/realmforge/rwgen/internal/structure"
)

// Alias is a name for a topic: the public name slot itself, or an
// additional alternate name with its own matching flags.
type Alias struct {
	Name          Binding
	Revealed      bool
	AutoAccept    bool
	ShowInNav     bool
	CaseMatching  string // "" means the schema default
	MatchPriority string
}

// Relationship links the topic generated from a record to every other
// record whose OtherLink value equals this record's ThisLink value.
type Relationship struct {
	Nature    Nature
	Qualifier string // tag name in the nature's domain, or attitude level
	ThisLink  Binding
	OtherLink Binding
}

// Topic is the root of one instantiated category. Sections and Aliases
// are owned outright; Parents are separately owned topic trees referenced
// as the grouping chain, innermost group first.
type Topic struct {
	Category *structure.Node // never nil, fixed at construction

	Public        Alias
	Aliases       []*Alias
	Parents       []*Topic
	Relationships []*Relationship
	Sections      []*Section

	Prefix Binding
	Suffix Binding

	// KeyColumn/KeyValue restrict this topic to rows where the column
	// holds exactly the value. KeyColumn < 0 disables the filter.
	KeyColumn int
	KeyValue  string
}

// MatchesRow applies the topic's key filter to one row of tbl.
func (t *Topic) MatchesRow(tbl api.Table, row int) bool {
	if t.KeyColumn < 0 {
		return true
	}
	return tbl.Cell(row, t.KeyColumn) == t.KeyValue
}

// Section is an instantiated partition. It may repeat across a swept
// range of columns when the multiple bindings are configured.
type Section struct {
	Partition *structure.Node // never nil, fixed at construction

	Contents     Binding // free text, emitted as a synthetic Multi_Line snippet
	GMDirections Binding

	// Multiplicity: when MultipleFirst references a column the section
	// repeats once per column block from first to last, stepping by
	// (second - first). Without a second column it emits a single
	// repetition; without a last column the sweep runs to the table edge.
	MultipleFirst  Binding
	MultipleSecond Binding
	MultipleLast   Binding

	Collapsed bool
	Style     Style
	Veracity  Veracity
	Purpose   Purpose

	Snippets    []*Snippet
	Subsections []*Section
}

// Multiple reports whether the section is configured to repeat.
func (s *Section) Multiple() bool { return s.MultipleFirst.IsDefined() }

// Snippet is an instantiated facet and carries the bindings for each of
// the facet type's fields. Unused bindings stay undefined.
type Snippet struct {
	Facet *structure.Node // never nil, fixed at construction
	Type  structure.SnippetType

	Contents     Binding
	Annotation   Binding
	GMDirections Binding
	TagNames     Binding // comma-separated names resolved against the facet's domain
	Label        Binding
	Filename     Binding // local path or URL for asset-bearing types
	StartDate    Binding
	FinishDate   Binding

	Style    Style
	Veracity Veracity
	Purpose  Purpose
	Revealed bool
}
