package contents

import (
	"errors"
	"fmt"

	"github.com/ohler55/ojg/oj"

	"github.com/realmforge/rwgen/api"
	"github.com/realmforge/rwgen/internal/structure"
)

// ErrUnknownSlot is returned when a saved mapping names a partition or
// facet the loaded structure tree no longer has.
var ErrUnknownSlot = errors.New("no matching slot in structure")

// Project is everything the user configured for one export: file paths,
// export metadata, and one contents tree per configured topic. Topics
// serialize by partition/facet name and type, and are re-resolved against
// the structure tree on load, so a saved project survives re-exports of
// an unchanged structure file.
type Project struct {
	DataPath      string
	StructurePath string
	Category      string
	Details       api.Details
	Topics        []*Topic
}

// Save renders the project as a JSON document.
func (p *Project) Save() []byte {
	topics := make([]any, len(p.Topics))
	for i, t := range p.Topics {
		topics[i] = encodeTopic(t)
	}
	doc := map[string]any{
		"data_path":      p.DataPath,
		"structure_path": p.StructurePath,
		"category":       p.Category,
		"details": map[string]any{
			"name":         p.Details.Name,
			"version":      p.Details.Version,
			"abbrev":       p.Details.Abbrev,
			"summary":      p.Details.Summary,
			"description":  p.Details.Description,
			"requirements": p.Details.Requirements,
			"credits":      p.Details.Credits,
			"legal":        p.Details.Legal,
			"other_notes":  p.Details.Other,
		},
		"topics": topics,
	}
	return []byte(oj.JSON(doc, 2))
}

// PeekStructurePath reads just the structure-file path out of a saved
// project, so callers can load the structure tree before re-binding the
// rest of the project against it.
func PeekStructurePath(data []byte) (string, error) {
	parsed, err := oj.ParseString(string(data))
	if err != nil {
		return "", fmt.Errorf("parse project: %w", err)
	}
	doc, ok := parsed.(map[string]any)
	if !ok {
		return "", fmt.Errorf("parse project: not an object")
	}
	p := asString(doc["structure_path"])
	if p == "" {
		return "", fmt.Errorf("project has no structure path")
	}
	return p, nil
}

// LoadProject parses a saved project and re-binds it to the given
// structure tree. Load(Save(p)) is identical to p for the same tree.
func LoadProject(data []byte, tree *structure.Tree) (*Project, error) {
	parsed, err := oj.ParseString(string(data))
	if err != nil {
		return nil, fmt.Errorf("parse project: %w", err)
	}
	doc, ok := parsed.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("parse project: not an object")
	}

	p := &Project{
		DataPath:      asString(doc["data_path"]),
		StructurePath: asString(doc["structure_path"]),
		Category:      asString(doc["category"]),
	}
	if d, ok := doc["details"].(map[string]any); ok {
		p.Details = api.Details{
			Name:         asString(d["name"]),
			Version:      asString(d["version"]),
			Abbrev:       asString(d["abbrev"]),
			Summary:      asString(d["summary"]),
			Description:  asString(d["description"]),
			Requirements: asString(d["requirements"]),
			Credits:      asString(d["credits"]),
			Legal:        asString(d["legal"]),
			Other:        asString(d["other_notes"]),
		}
	}
	if list, ok := doc["topics"].([]any); ok {
		for _, item := range list {
			tm, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("parse project: topic entry is not an object")
			}
			t, err := decodeTopic(tm, tree)
			if err != nil {
				return nil, err
			}
			p.Topics = append(p.Topics, t)
		}
	}
	return p, nil
}

// --- encoding ---

func encodeBinding(b Binding) any {
	if col, ok := b.Column(); ok {
		return map[string]any{"column": col}
	}
	if b.FixedText() != "" {
		return map[string]any{"text": b.FixedText()}
	}
	return nil
}

func encodeAlias(a *Alias) map[string]any {
	return map[string]any{
		"name":           encodeBinding(a.Name),
		"revealed":       a.Revealed,
		"auto_accept":    a.AutoAccept,
		"show_in_nav":    a.ShowInNav,
		"case_matching":  a.CaseMatching,
		"match_priority": a.MatchPriority,
	}
}

func encodeTopic(t *Topic) map[string]any {
	aliases := make([]any, len(t.Aliases))
	for i, a := range t.Aliases {
		aliases[i] = encodeAlias(a)
	}
	parents := make([]any, len(t.Parents))
	for i, pt := range t.Parents {
		parents[i] = encodeTopic(pt)
	}
	rels := make([]any, len(t.Relationships))
	for i, r := range t.Relationships {
		rels[i] = map[string]any{
			"nature":     string(r.Nature),
			"qualifier":  r.Qualifier,
			"this_link":  encodeBinding(r.ThisLink),
			"other_link": encodeBinding(r.OtherLink),
		}
	}
	sections := make([]any, len(t.Sections))
	for i, s := range t.Sections {
		sections[i] = encodeSection(s)
	}
	return map[string]any{
		"category":      t.Category.Name,
		"public":        encodeAlias(&t.Public),
		"aliases":       aliases,
		"parents":       parents,
		"relationships": rels,
		"sections":      sections,
		"prefix":        encodeBinding(t.Prefix),
		"suffix":        encodeBinding(t.Suffix),
		"key_column":    t.KeyColumn,
		"key_value":     t.KeyValue,
	}
}

func encodeSection(s *Section) map[string]any {
	snippets := make([]any, len(s.Snippets))
	for i, sn := range s.Snippets {
		snippets[i] = map[string]any{
			"facet":         sn.Facet.Name,
			"type":          string(sn.Type),
			"contents":      encodeBinding(sn.Contents),
			"annotation":    encodeBinding(sn.Annotation),
			"gm_directions": encodeBinding(sn.GMDirections),
			"tag_names":     encodeBinding(sn.TagNames),
			"label":         encodeBinding(sn.Label),
			"filename":      encodeBinding(sn.Filename),
			"start_date":    encodeBinding(sn.StartDate),
			"finish_date":   encodeBinding(sn.FinishDate),
			"style":         string(sn.Style),
			"veracity":      string(sn.Veracity),
			"purpose":       string(sn.Purpose),
			"revealed":      sn.Revealed,
		}
	}
	subs := make([]any, len(s.Subsections))
	for i, sub := range s.Subsections {
		subs[i] = encodeSection(sub)
	}
	return map[string]any{
		"partition":       s.Partition.Name,
		"contents":        encodeBinding(s.Contents),
		"gm_directions":   encodeBinding(s.GMDirections),
		"multiple_first":  encodeBinding(s.MultipleFirst),
		"multiple_second": encodeBinding(s.MultipleSecond),
		"multiple_last":   encodeBinding(s.MultipleLast),
		"collapsed":       s.Collapsed,
		"style":           string(s.Style),
		"veracity":        string(s.Veracity),
		"purpose":         string(s.Purpose),
		"subsections":     subs,
		"snippets":        snippets,
	}
}

// --- decoding ---

func decodeBinding(v any) Binding {
	m, ok := v.(map[string]any)
	if !ok {
		return Binding{}
	}
	if c, ok := m["column"]; ok {
		return ColumnBinding(asInt(c))
	}
	return FixedBinding(asString(m["text"]))
}

func decodeAlias(v any) Alias {
	m, _ := v.(map[string]any)
	if m == nil {
		return Alias{}
	}
	return Alias{
		Name:          decodeBinding(m["name"]),
		Revealed:      asBool(m["revealed"]),
		AutoAccept:    asBool(m["auto_accept"]),
		ShowInNav:     asBool(m["show_in_nav"]),
		CaseMatching:  asString(m["case_matching"]),
		MatchPriority: asString(m["match_priority"]),
	}
}

func decodeTopic(m map[string]any, tree *structure.Tree) (*Topic, error) {
	catName := asString(m["category"])
	cat, ok := tree.Category(catName)
	if !ok {
		return nil, fmt.Errorf("%w: category %q", ErrUnknownSlot, catName)
	}
	t := Instantiate(cat)
	t.Public = decodeAlias(m["public"])
	t.Prefix = decodeBinding(m["prefix"])
	t.Suffix = decodeBinding(m["suffix"])
	t.KeyColumn = asInt(m["key_column"])
	t.KeyValue = asString(m["key_value"])

	if list, ok := m["aliases"].([]any); ok {
		for _, item := range list {
			a := decodeAlias(item)
			t.Aliases = append(t.Aliases, &a)
		}
	}
	if list, ok := m["parents"].([]any); ok {
		for _, item := range list {
			pm, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("parse project: parent entry is not an object")
			}
			pt, err := decodeTopic(pm, tree)
			if err != nil {
				return nil, err
			}
			t.Parents = append(t.Parents, pt)
		}
	}
	if list, ok := m["relationships"].([]any); ok {
		for _, item := range list {
			rm, _ := item.(map[string]any)
			if rm == nil {
				continue
			}
			t.Relationships = append(t.Relationships, &Relationship{
				Nature:    Nature(asString(rm["nature"])),
				Qualifier: asString(rm["qualifier"]),
				ThisLink:  decodeBinding(rm["this_link"]),
				OtherLink: decodeBinding(rm["other_link"]),
			})
		}
	}
	if list, ok := m["sections"].([]any); ok {
		for _, item := range list {
			sm, _ := item.(map[string]any)
			if sm == nil {
				continue
			}
			if err := applySection(sm, t.Sections); err != nil {
				return nil, err
			}
		}
	}
	return t, nil
}

// applySection matches a stored section entry to an instantiated section
// by partition name and copies its bindings over.
func applySection(m map[string]any, candidates []*Section) error {
	name := asString(m["partition"])
	var s *Section
	for _, c := range candidates {
		if c.Partition.Name == name {
			s = c
			break
		}
	}
	if s == nil {
		return fmt.Errorf("%w: partition %q", ErrUnknownSlot, name)
	}
	s.Contents = decodeBinding(m["contents"])
	s.GMDirections = decodeBinding(m["gm_directions"])
	s.MultipleFirst = decodeBinding(m["multiple_first"])
	s.MultipleSecond = decodeBinding(m["multiple_second"])
	s.MultipleLast = decodeBinding(m["multiple_last"])
	s.Collapsed = asBool(m["collapsed"])
	s.Style = Style(asString(m["style"]))
	s.Veracity = Veracity(asString(m["veracity"]))
	s.Purpose = Purpose(asString(m["purpose"]))

	if list, ok := m["snippets"].([]any); ok {
		for _, item := range list {
			snm, _ := item.(map[string]any)
			if snm == nil {
				continue
			}
			if err := applySnippet(snm, s.Snippets); err != nil {
				return err
			}
		}
	}
	if list, ok := m["subsections"].([]any); ok {
		for _, item := range list {
			subm, _ := item.(map[string]any)
			if subm == nil {
				continue
			}
			if err := applySection(subm, s.Subsections); err != nil {
				return err
			}
		}
	}
	return nil
}

// applySnippet matches by facet name and type together, since a partition
// may hold several facets with one name but different types.
func applySnippet(m map[string]any, candidates []*Snippet) error {
	name := asString(m["facet"])
	typ := structure.SnippetType(asString(m["type"]))
	var sn *Snippet
	for _, c := range candidates {
		if c.Facet.Name == name && c.Type == typ {
			sn = c
			break
		}
	}
	if sn == nil {
		return fmt.Errorf("%w: facet %q (%s)", ErrUnknownSlot, name, typ)
	}
	sn.Contents = decodeBinding(m["contents"])
	sn.Annotation = decodeBinding(m["annotation"])
	sn.GMDirections = decodeBinding(m["gm_directions"])
	sn.TagNames = decodeBinding(m["tag_names"])
	sn.Label = decodeBinding(m["label"])
	sn.Filename = decodeBinding(m["filename"])
	sn.StartDate = decodeBinding(m["start_date"])
	sn.FinishDate = decodeBinding(m["finish_date"])
	sn.Style = Style(asString(m["style"]))
	sn.Veracity = Veracity(asString(m["veracity"]))
	sn.Purpose = Purpose(asString(m["purpose"]))
	sn.Revealed = asBool(m["revealed"])
	return nil
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asBool(v any) bool {
	b, _ := v.(bool)
	return b
}

func asInt(v any) int {
	switch n := v.(type) {
	case int64:
		return int(n)
	case int:
		return n
	case float64:
		return int(n)
	}
	return 0
}
