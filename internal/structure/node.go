// Package structure holds the immutable template tree loaded from a
// Realm Works structure document: categories, partitions, facets and the
// domain/tag vocabularies. The tree is built once per session and never
// mutated afterwards; the export writer re-serializes it verbatim.
package structure

import "encoding/xml"

// Kind is the closed set of node variants. Unrecognized elements become
// KindPlain rather than failing the load, because the target schema
// evolves independently of this tool.
type Kind int

const (
	KindPlain Kind = iota
	KindStructure
	KindCategory
	KindDomain
	KindFacet
	KindPartition
)

func (k Kind) String() string {
	switch k {
	case KindStructure:
		return "structure"
	case KindCategory:
		return "category"
	case KindDomain:
		return "domain"
	case KindFacet:
		return "facet"
	case KindPartition:
		return "partition"
	default:
		return "plain"
	}
}

// SnippetType is the facet type attribute, which decides what content
// shape the instantiated snippet produces.
type SnippetType string

const (
	MultiLine   SnippetType = "Multi_Line"
	LabeledText SnippetType = "Labeled_Text"
	Numeric     SnippetType = "Numeric"
	DateGame    SnippetType = "Date_Game"
	DateRange   SnippetType = "Date_Range"
	TagStandard SnippetType = "Tag_Standard"
	MultiDomain SnippetType = "Multi_Domain"
	HybridTag   SnippetType = "Hybrid_Tag"
	Picture     SnippetType = "Picture"
	Statblock   SnippetType = "Statblock"
	Portfolio   SnippetType = "Portfolio"
	RichText    SnippetType = "Rich_Text"
	PDF         SnippetType = "PDF"
	Audio       SnippetType = "Audio"
	Video       SnippetType = "Video"
	HTML        SnippetType = "HTML"
	Foreign     SnippetType = "Foreign"
	SmartImage  SnippetType = "Smart_Image"
)

// IsDate reports whether the type carries a game date. Date snippets are
// suppressed entirely when their start date resolves empty.
func (t SnippetType) IsDate() bool { return t == DateGame || t == DateRange }

// IsTag reports whether the type holds tag assignments from a domain.
func (t SnippetType) IsTag() bool {
	return t == TagStandard || t == MultiDomain || t == HybridTag
}

// IsAsset reports whether the type embeds an external file or URL.
func (t SnippetType) IsAsset() bool {
	switch t {
	case Picture, Statblock, Portfolio, RichText, PDF, Audio, Video, HTML, Foreign, SmartImage:
		return true
	}
	return false
}

// Node is one element of the loaded structure tree. Fields are populated
// during the load and read-only afterwards. XMLTag keeps the original
// element name (including any _global suffix) so re-serialization is
// faithful; Attrs keeps the raw attribute list in document order for the
// same reason.
type Node struct {
	Kind      Kind
	XMLTag    string
	BaseTag   string // XMLTag with the _global suffix stripped
	ID        string
	UUID      string
	Name      string
	Signature string
	Global    bool
	Revealed  bool
	FacetType SnippetType // facets only
	DomainID  string      // facets only: domain backing tag facets
	Attrs     []xml.Attr
	Children  []*Node
	Text      string

	// ContentExcluded marks children that stay in the structure section
	// but never instantiate into content (category description/summary).
	ContentExcluded bool
}

// Attr returns the named attribute value, or "".
func (n *Node) Attr(name string) string {
	for _, a := range n.Attrs {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

// postLoad runs once when the element's end tag is reached.
func (n *Node) postLoad() {
	switch n.Kind {
	case KindCategory:
		for _, c := range n.Children {
			if c.BaseTag == "description" || c.BaseTag == "summary" {
				c.ContentExcluded = true
			}
		}
	case KindFacet:
		n.FacetType = SnippetType(n.Attr("type"))
		n.DomainID = n.Attr("domain_id")
	}
}
