package export

import (
	"encoding/base64"
	"fmt"
	"io"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/realmforge/rwgen/api"
	"github.com/realmforge/rwgen/internal/contents"
	"github.com/realmforge/rwgen/internal/structure"
)

// Engine expands configured topics against a table into one export
// document. It assumes exclusive access to the contents trees for the
// duration of a Generate call; nothing in here is safe to run twice
// concurrently over the same trees.
type Engine struct {
	Tree    *structure.Tree
	Details api.Details
	Ctx     *Context
}

// genState is the per-run bookkeeping: duplicate-name detection and the
// id counters for wrappers and aliases.
type genState struct {
	names       map[string]string // public name → id that first used it
	nextWrapper int
	nextAlias   int
	done, total int
}

// recordName tracks generated topic names. A name reused by a different
// id is a warning, not an error: the document still carries both topics
// and the target system decides at import time.
func (st *genState) recordName(ctx *Context, name, id string) {
	if prev, ok := st.names[name]; ok && prev != id {
		ctx.Warnf("duplicate topic %q in output", name)
		return
	}
	st.names[name] = id
}

func (st *genState) wrapperID() string {
	id := fmt.Sprintf("topic_%d", st.nextWrapper)
	st.nextWrapper++
	return id
}

func (st *genState) aliasID() string {
	id := fmt.Sprintf("alias_%d", st.nextAlias)
	st.nextAlias++
	return id
}

// Generate emits one export document for the given body topics. The
// structure section is the loaded tree re-serialized verbatim; the
// contents section holds one topic per matching row, nested under parent
// wrappers when a parent chain is configured.
func (e *Engine) Generate(out io.Writer, topics []*contents.Topic, tbl api.Table) error {
	for _, t := range topics {
		if err := checkNames(t); err != nil {
			return err
		}
	}

	d := newDocWriter(out)
	d.head()
	d.open("export", e.exportAttrs()...)

	d.open("definition")
	e.emitDetails(d)
	d.close("definition")

	d.raw(e.Tree.Serialize())

	d.open("contents")
	base := tbl.Base()
	st := &genState{
		names:       map[string]string{},
		nextWrapper: base.RowCount() + 1,
		nextAlias:   1,
		total:       base.RowCount() * len(topics),
	}
	for _, t := range topics {
		e.emitWithParents(d, t, t.Parents, tbl, st)
	}
	d.close("contents")

	d.close("export")
	return d.flush()
}

// checkNames enforces the generation preconditions before any output is
// written: the body topic and every parent in its chain must have a name
// binding (a column or non-empty fixed text).
func checkNames(t *contents.Topic) error {
	if !t.Public.Name.IsDefined() {
		return fmt.Errorf("the topic %q needs a field allocated to the name", t.Category.Name)
	}
	for _, p := range t.Parents {
		if !p.Public.Name.IsDefined() {
			return fmt.Errorf("the parent topic %q needs a field allocated to the name", p.Category.Name)
		}
	}
	return nil
}

func (e *Engine) exportAttrs() []attr {
	root := e.Tree.Root
	pick := func(name, def string) string {
		if v := root.Attr(name); v != "" {
			return v
		}
		return def
	}
	return []attr{
		{"xmlns", pick("xmlns", "urn:lonewolf-realmworks:export")},
		{"format_version", pick("format_version", "3")},
		{"game_system_id", pick("game_system_id", "1")},
		{"is_structure_only", "false"},
	}
}

func (e *Engine) emitDetails(d *docWriter) {
	det := e.Details
	d.open("details", attr{"name", det.Name}, attr{"version", det.Version}, attr{"abbrev", det.Abbrev})
	pairs := []struct{ tag, val string }{
		{"summary", det.Summary},
		{"description", det.Description},
		{"requirements", det.Requirements},
		{"credits", det.Credits},
		{"legal", det.Legal},
		{"other_notes", det.Other},
	}
	for _, p := range pairs {
		if p.val != "" {
			d.textElem(p.tag, p.val)
		}
	}
	d.close("details")
	d.selfClose("content_summary", attr{"name", det.Name}, attr{"abbrev", det.Abbrev})
}

// emitWithParents descends the parent chain, innermost group first,
// before emitting the body topic's rows.
func (e *Engine) emitWithParents(d *docWriter, t *contents.Topic, chain []*contents.Topic, tbl api.Table, st *genState) {
	if len(chain) == 0 {
		e.emitRows(d, t, tbl, st)
		return
	}
	head := chain[0]

	col, bound := head.Public.Name.Column()
	if !bound {
		// Fixed-text parent: one wrapper around the whole current table.
		name := head.Public.Name.Resolve(tbl, 0, 0)
		e.openWrapper(d, head, name, st)
		e.emitWithParents(d, t, chain[1:], tbl, st)
		d.close("topic")
		return
	}

	// Column-bound parent: one wrapper per distinct non-empty key value,
	// visited in sorted order, each recursing into the filtered rows.
	seen := map[string]bool{}
	var values []string
	for i := 0; i < tbl.RowCount(); i++ {
		v := tbl.Cell(i, col)
		if v != "" && !seen[v] {
			seen[v] = true
			values = append(values, v)
		}
	}
	sort.Strings(values)
	for _, v := range values {
		sub := tbl.FilterEquals(col, v)
		e.openWrapper(d, head, v, st)
		e.emitWithParents(d, t, chain[1:], sub, st)
		d.close("topic")
	}
}

func (e *Engine) openWrapper(d *docWriter, head *contents.Topic, name string, st *genState) {
	id := st.wrapperID()
	st.recordName(e.Ctx, name, id)
	d.open("topic",
		attr{"topic_id", id},
		attr{"public_name", truncateName(name)},
		attr{"category_id", head.Category.ID},
	)
}

func (e *Engine) emitRows(d *docWriter, t *contents.Topic, tbl api.Table, st *genState) {
	for i := 0; i < tbl.RowCount(); i++ {
		st.done++
		e.Ctx.progress(st.done, st.total)
		if !t.MatchesRow(tbl, i) {
			continue
		}
		name := t.Public.Name.Resolve(tbl, i, 0)
		if name == "" {
			continue // a row without a name never becomes a topic
		}
		id := tbl.RowIdentity(i)
		st.recordName(e.Ctx, name, id)
		e.emitTopic(d, t, tbl, i, id, name, st)
	}
}

func (e *Engine) emitTopic(d *docWriter, t *contents.Topic, tbl api.Table, row int, id, name string, st *genState) {
	attrs := []attr{
		{"topic_id", id},
		{"public_name", truncateName(name)},
		{"category_id", t.Category.ID},
	}
	if prefix := t.Prefix.Resolve(tbl, row, 0); prefix != "" {
		attrs = append(attrs, attr{"prefix", prefix})
	}
	if suffix := t.Suffix.Resolve(tbl, row, 0); suffix != "" {
		attrs = append(attrs, attr{"suffix", suffix})
	}
	attrs = append(attrs, attr{"is_revealed", strconv.FormatBool(t.Public.Revealed)})
	d.open("topic", attrs...)

	e.emitAliases(d, t, tbl, row, name, st)
	for _, s := range t.Sections {
		e.emitSection(d, s, tbl, row, 0)
	}
	e.emitImportTag(d)
	e.emitRelationships(d, t, tbl, row)

	d.close("topic")
}

// emitAliases writes the topic's alternate names, skipping any that
// duplicate the topic's own name or an earlier alias of the same topic.
func (e *Engine) emitAliases(d *docWriter, t *contents.Topic, tbl api.Table, row int, topicName string, st *genState) {
	seen := map[string]bool{topicName: true}
	for _, a := range t.Aliases {
		name := a.Name.Resolve(tbl, row, 0)
		if name == "" {
			continue
		}
		if seen[name] {
			e.Ctx.Warnf("duplicate alias %q on topic %q", name, topicName)
			continue
		}
		seen[name] = true

		attrs := []attr{{"alias_id", st.aliasID()}, {"name", truncateName(name)}}
		if a.AutoAccept {
			attrs = append(attrs, attr{"is_auto_accept", "true"})
		}
		if a.CaseMatching != "" {
			attrs = append(attrs, attr{"case_matching", a.CaseMatching})
		}
		if a.MatchPriority != "" {
			attrs = append(attrs, attr{"match_priority", a.MatchPriority})
		}
		if a.ShowInNav {
			attrs = append(attrs, attr{"is_show_nav_pane", "true"})
		}
		if a.Revealed {
			attrs = append(attrs, attr{"is_revealed", "true"})
		}
		d.selfClose("alias", attrs...)
	}
}

// emitImportTag marks every generated topic with the fixed import tag so
// the batch is findable in the target system afterwards.
func (e *Engine) emitImportTag(d *docWriter) {
	if dom, ok := e.Ctx.Domains.ByName("Utility"); ok {
		if tag, ok := dom.TagByName("Import"); ok {
			d.selfClose("tag_assign", attr{"tag_id", tag.ID})
			return
		}
	}
	d.selfClose("tag_assign", attr{"domain_name", "Utility"}, attr{"tag_name", "Import"})
}

// emitSection writes one section, or a swept run of sections when the
// multiplicity columns are configured. off is the column offset the
// enclosing expansion already applied; each repetition adds its own block
// delta on top when resolving child bindings.
func (e *Engine) emitSection(d *docWriter, s *contents.Section, tbl api.Table, row, off int) {
	if !s.Multiple() {
		d.open("section", attr{"partition_id", s.Partition.ID})
		e.emitSectionBody(d, s, tbl, row, off)
		d.close("section")
		return
	}

	first, ok := s.MultipleFirst.Column()
	if !ok {
		// Multiple flagged but bound to fixed text: nothing to sweep.
		e.Ctx.Warnf("section %q: repeat-from is not a column", s.Partition.Name)
		return
	}
	last := tbl.ColumnCount() - 1
	step := 1
	second, hasSecond := s.MultipleSecond.Column()
	if hasSecond {
		step = second - first
		if l, ok := s.MultipleLast.Column(); ok {
			last = l
		}
	} else {
		last = first // degenerate: one repetition named from the swept column
	}
	if step <= 0 {
		e.Ctx.Warnf("section %q: repeat step must be positive", s.Partition.Name)
		return
	}

	for c := first; c <= last; c += step {
		name := tbl.Cell(row, c+off)
		if name == "" {
			break // the sweep ends at the first empty block
		}
		d.open("section",
			attr{"partition_id", s.Partition.ID},
			attr{"name", truncateName(name)},
		)
		e.emitSectionBody(d, s, tbl, row, off+(c-first))
		d.close("section")
	}
}

// emitSectionBody writes the section's children in schema order: facet
// snippets, then the section's own free text (as a synthetic Multi_Line
// snippet), then nested subsections.
func (e *Engine) emitSectionBody(d *docWriter, s *contents.Section, tbl api.Table, row, off int) {
	for _, sn := range s.Snippets {
		e.emitSnippet(d, sn, tbl, row, off)
	}
	if s.Contents.IsDefined() || s.GMDirections.IsDefined() {
		text := s.Contents.Resolve(tbl, row, off)
		gm := s.GMDirections.Resolve(tbl, row, off)
		if text != "" || gm != "" {
			attrs := snippetAttrs("", structure.MultiLine, s.Style, s.Veracity,
				effectivePurpose(s.Purpose, text != "", gm != ""), false)
			d.open("snippet", attrs...)
			if text != "" {
				d.textElem("contents", formatContents(text))
			}
			if gm != "" {
				d.textElem("gm_directions", formatContents(gm))
			}
			d.close("snippet")
		}
	}
	for _, sub := range s.Subsections {
		e.emitSection(d, sub, tbl, row, off)
	}
}

func snippetAttrs(facetID string, typ structure.SnippetType, style contents.Style, ver contents.Veracity, purpose contents.Purpose, revealed bool) []attr {
	attrs := []attr{}
	if facetID != "" {
		attrs = append(attrs, attr{"facet_id", facetID})
	}
	attrs = append(attrs, attr{"type", string(typ)})
	if style != "" {
		attrs = append(attrs, attr{"style", string(style)})
	}
	if ver != "" {
		attrs = append(attrs, attr{"veracity", string(ver)})
	}
	if purpose != "" {
		attrs = append(attrs, attr{"purpose", string(purpose)})
	}
	if revealed {
		attrs = append(attrs, attr{"is_revealed", "true"})
	}
	return attrs
}

// effectivePurpose forces the purpose attribute when GM directions are
// present: Directions_Only without player content, Both with it.
func effectivePurpose(p contents.Purpose, hasContent, hasGM bool) contents.Purpose {
	if !hasGM {
		return p
	}
	if hasContent {
		return contents.PurposeBoth
	}
	return contents.PurposeDirectionsOnly
}

func (e *Engine) emitSnippet(d *docWriter, sn *contents.Snippet, tbl api.Table, row, off int) {
	resolve := func(b *contents.Binding) string { return strings.TrimSpace(b.Resolve(tbl, row, off)) }

	annotation := resolve(&sn.Annotation)
	gm := resolve(&sn.GMDirections)

	emitTail := func() {
		if annotation != "" {
			d.textElem("annotation", annotation)
		}
		if gm != "" {
			d.textElem("gm_directions", formatContents(gm))
		}
	}

	switch {
	case sn.Type.IsDate():
		start := resolve(&sn.StartDate)
		if start == "" {
			return // a date snippet without a start date is suppressed
		}
		d.open("snippet", snippetAttrs(sn.Facet.ID, sn.Type, sn.Style, sn.Veracity,
			effectivePurpose(sn.Purpose, true, gm != ""), sn.Revealed)...)
		if sn.Type == structure.DateRange {
			finish := resolve(&sn.FinishDate)
			if finish == "" {
				finish = start
			}
			d.selfClose("date_range",
				attr{"canonical_start", normalizeDate(start)},
				attr{"canonical_end", normalizeDate(finish)},
			)
		} else {
			d.selfClose("game_date", attr{"canonical", normalizeDate(start)})
		}
		emitTail()
		d.close("snippet")

	case sn.Type == structure.Numeric:
		value := resolve(&sn.Contents)
		if value != "" {
			if _, err := strconv.ParseFloat(value, 64); err != nil {
				e.Ctx.Warnf("facet %q: value %q is not numeric", sn.Facet.Name, value)
				value = ""
			}
		}
		if value == "" && annotation == "" && gm == "" {
			return
		}
		d.open("snippet", snippetAttrs(sn.Facet.ID, sn.Type, sn.Style, sn.Veracity,
			effectivePurpose(sn.Purpose, value != "", gm != ""), sn.Revealed)...)
		if value != "" {
			d.textElem("contents", value)
		}
		emitTail()
		d.close("snippet")

	case sn.Type.IsTag():
		assigns := e.resolveTags(sn, resolve(&sn.TagNames))
		if len(assigns) == 0 && annotation == "" && gm == "" {
			return
		}
		d.open("snippet", snippetAttrs(sn.Facet.ID, sn.Type, sn.Style, sn.Veracity,
			effectivePurpose(sn.Purpose, len(assigns) > 0, gm != ""), sn.Revealed)...)
		emitTail()
		for _, tag := range assigns {
			d.selfClose("tag_assign", attr{"tag_id", tag.ID})
		}
		d.close("snippet")

	case sn.Type.IsAsset():
		filename := resolve(&sn.Filename)
		if filename == "" {
			return
		}
		d.open("snippet", snippetAttrs(sn.Facet.ID, sn.Type, sn.Style, sn.Veracity,
			effectivePurpose(sn.Purpose, true, gm != ""), sn.Revealed)...)
		if data, err := e.Ctx.Assets.Fetch(filename); err != nil {
			e.Ctx.Warnf("%v", err)
		} else {
			label := resolve(&sn.Label)
			if label == "" {
				label = path.Base(filename)
			}
			d.open("ext_object", attr{"name", truncateName(label)}, attr{"type", string(sn.Type)})
			d.open("asset", attr{"filename", path.Base(filename)})
			d.textElem("contents", base64.StdEncoding.EncodeToString(data))
			d.close("asset")
			d.close("ext_object")
		}
		emitTail()
		d.close("snippet")

	default: // Multi_Line, Labeled_Text and any unrecognized text type
		text := resolve(&sn.Contents)
		if text == "" && annotation == "" && gm == "" {
			return
		}
		attrs := snippetAttrs(sn.Facet.ID, sn.Type, sn.Style, sn.Veracity,
			effectivePurpose(sn.Purpose, text != "", gm != ""), sn.Revealed)
		if sn.Type == structure.LabeledText {
			if label := resolve(&sn.Label); label != "" {
				attrs = append(attrs, attr{"label", truncateName(label)})
			}
		}
		d.open("snippet", attrs...)
		if text != "" {
			d.textElem("contents", formatContents(text))
		}
		emitTail()
		d.close("snippet")
	}
}

// resolveTags splits a comma-separated tag list and resolves each name
// against the facet's domain, skipping names the vocabulary lacks.
func (e *Engine) resolveTags(sn *contents.Snippet, names string) []structure.Tag {
	if names == "" {
		return nil
	}
	dom, ok := e.Ctx.Domains.ByID(sn.Facet.DomainID)
	if !ok {
		e.Ctx.Warnf("facet %q: domain %q not found", sn.Facet.Name, sn.Facet.DomainID)
		return nil
	}
	var tags []structure.Tag
	for _, name := range strings.Split(names, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		tag, ok := dom.TagByName(name)
		if !ok {
			e.Ctx.Warnf("tag %q is not in domain %q", name, dom.Name)
			continue
		}
		tags = append(tags, tag)
	}
	return tags
}

// emitRelationships cross-matches the current record against the base
// table. The match always runs over the unfiltered base, so parent-chain
// filtering of the current topic never narrows the candidate set.
func (e *Engine) emitRelationships(d *docWriter, t *contents.Topic, tbl api.Table, row int) {
	base := tbl.Base()
	for _, rel := range t.Relationships {
		this := strings.TrimSpace(rel.ThisLink.Resolve(tbl, row, 0))
		if this == "" {
			continue
		}
		for j := 0; j < base.RowCount(); j++ {
			other := strings.TrimSpace(rel.OtherLink.Resolve(base, j, 0))
			if other != this {
				continue
			}
			attrs := []attr{
				{"target_id", base.RowIdentity(j)},
				{"nature", string(rel.Nature)},
			}
			attrs = append(attrs, e.qualifierAttrs(rel)...)
			d.selfClose("connection", attrs...)
		}
	}
}

// qualifierAttrs resolves the nature-dependent qualifier: a numeric
// rating for attitude natures, a tag id from the nature's fixed domain
// otherwise. Unresolvable qualifiers degrade to a bare connection.
func (e *Engine) qualifierAttrs(rel *contents.Relationship) []attr {
	if rel.Qualifier == "" {
		return nil
	}
	if rel.Nature.IsAttitude() {
		rating, ok := contents.AttitudeRating(rel.Qualifier)
		if !ok {
			e.Ctx.Warnf("unknown attitude level %q", rel.Qualifier)
			return nil
		}
		return []attr{{"attitude", rating}}
	}
	domName := rel.Nature.QualifierDomain()
	if domName == "" {
		return nil
	}
	dom, ok := e.Ctx.Domains.ByName(domName)
	if !ok {
		e.Ctx.Warnf("relationship domain %q not found", domName)
		return nil
	}
	tag, ok := dom.TagByName(rel.Qualifier)
	if !ok {
		e.Ctx.Warnf("tag %q is not in domain %q", rel.Qualifier, domName)
		return nil
	}
	return []attr{{"qualifier_tag_id", tag.ID}, {"qualifier", tag.Name}}
}
