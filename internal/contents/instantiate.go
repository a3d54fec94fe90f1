package contents

import "github.com/realmforge/rwgen/internal/structure"

// Instantiate builds the contents tree matching a category template: one
// Topic, a Section per partition and a Snippet per facet, in structural
// order. Embedded category nodes are separate template definitions and
// are skipped, as are children the structure load flagged as excluded
// from content. Given the same category node the result is always shaped
// identically, so callers may cache per category name.
func Instantiate(category *structure.Node) *Topic {
	t := &Topic{Category: category, KeyColumn: -1}
	for _, c := range category.Children {
		if c.ContentExcluded || c.Kind == structure.KindCategory {
			continue
		}
		if c.Kind == structure.KindPartition {
			t.Sections = append(t.Sections, instantiateSection(c))
		}
	}
	return t
}

func instantiateSection(partition *structure.Node) *Section {
	s := &Section{Partition: partition}
	for _, c := range partition.Children {
		switch c.Kind {
		case structure.KindFacet:
			s.Snippets = append(s.Snippets, &Snippet{Facet: c, Type: c.FacetType})
		case structure.KindPartition:
			s.Subsections = append(s.Subsections, instantiateSection(c))
		}
	}
	return s
}
