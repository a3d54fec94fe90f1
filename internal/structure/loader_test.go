package structure

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleStructure = `<structure xmlns="urn:lonewolf-realmworks:export" format_version="3">
  <category original_id="cat_1" original_uuid="uuid-cat-1" name="Person">
    <description>People records</description>
    <summary>One person per row</summary>
    <partition original_id="part_1" name="Overview">
      <facet original_id="facet_1" name="Background" type="Multi_Line" />
      <facet original_id="facet_2" name="Age" type="Numeric" />
    </partition>
    <partition original_id="part_2" name="Timeline">
      <facet original_id="facet_3" name="Born" type="Date_Game" />
      <partition original_id="part_3" name="Events">
        <facet original_id="facet_4" name="Note" type="Labeled_Text" />
      </partition>
    </partition>
  </category>
  <category_global global_id="cat_g1" global_uuid="uuid-cat-g1" name="Place">
    <partition_global global_id="part_g1" name="Geography">
      <facet_global global_id="facet_g1" name="Region" type="Tag_Standard" domain_id="dom_1" />
    </partition_global>
  </category_global>
  <domain original_id="dom_1" name="Regions">
    <tag original_id="tag_1" name="North" />
    <tag original_id="tag_2" name="South" />
  </domain>
  <domain original_id="dom_2" name="Utility">
    <tag original_id="tag_u1" name="Import" />
  </domain>
  <mystery_element flavor="opaque">pass-through text</mystery_element>
</structure>`

func loadSample(t *testing.T) *Tree {
	t.Helper()
	tree, err := Load(strings.NewReader(sampleStructure))
	require.NoError(t, err)
	return tree
}

func TestLoad_Kinds(t *testing.T) {
	tree := loadSample(t)
	require.Equal(t, KindStructure, tree.Root.Kind)

	person, ok := tree.Category("Person")
	require.True(t, ok)
	assert.Equal(t, "cat_1", person.ID)
	assert.Equal(t, "uuid-cat-1", person.UUID)
	assert.False(t, person.Global)

	place, ok := tree.Category("Place")
	require.True(t, ok)
	assert.True(t, place.Global, "_global suffix becomes a flag")
	assert.Equal(t, "cat_g1", place.ID, "global nodes resolve ids from global_id")
	assert.Equal(t, "uuid-cat-g1", place.UUID)
	assert.Equal(t, "category", place.BaseTag)
	assert.Equal(t, "category_global", place.XMLTag, "original tag kept for re-emit")
}

func TestLoad_UnknownTagFallsBackToPlain(t *testing.T) {
	tree := loadSample(t)
	last := tree.Root.Children[len(tree.Root.Children)-1]
	assert.Equal(t, KindPlain, last.Kind)
	assert.Equal(t, "mystery_element", last.XMLTag)
	assert.Equal(t, "pass-through text", last.Text, "character data is trimmed")
}

func TestLoad_PostLoadExcludesDescriptionAndSummary(t *testing.T) {
	tree := loadSample(t)
	person, _ := tree.Category("Person")
	excluded := 0
	for _, c := range person.Children {
		if c.ContentExcluded {
			excluded++
		}
	}
	assert.Equal(t, 2, excluded, "description and summary are structure-only")
}

func TestLoad_FacetTypeAndDomain(t *testing.T) {
	tree := loadSample(t)
	place, _ := tree.Category("Place")
	facet := place.Children[0].Children[0]
	require.Equal(t, KindFacet, facet.Kind)
	assert.Equal(t, TagStandard, facet.FacetType)
	assert.Equal(t, "dom_1", facet.DomainID)
}

func TestLoad_DomainRegistry(t *testing.T) {
	tree := loadSample(t)
	dom, ok := tree.Domains.ByName("Regions")
	require.True(t, ok)
	assert.Len(t, dom.Tags, 2)

	tag, ok := dom.TagByName("South")
	require.True(t, ok)
	assert.Equal(t, "tag_2", tag.ID)

	byID, ok := tree.Domains.ByID("dom_1")
	require.True(t, ok)
	assert.Same(t, dom, byID)
}

func TestLoad_CategoryOrder(t *testing.T) {
	tree := loadSample(t)
	assert.Equal(t, []string{"Person", "Place"}, tree.CategoryNames())
}

func TestLoad_MalformedReportsLine(t *testing.T) {
	_, err := Load(strings.NewReader("<structure>\n  <category name=\"x\">\n</structure>"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformed))
	assert.Contains(t, err.Error(), "line 3")
}

func TestSerialize_Fixpoint(t *testing.T) {
	tree := loadSample(t)
	first := tree.Serialize()

	reloaded, err := Load(strings.NewReader(first))
	require.NoError(t, err)
	assert.Equal(t, first, reloaded.Serialize(),
		"re-serializing a reloaded tree must be byte-identical")
}

func TestSerialize_KeepsAttributeOrder(t *testing.T) {
	tree := loadSample(t)
	out := tree.Serialize()
	assert.Contains(t, out, `<facet original_id="facet_1" name="Background" type="Multi_Line" />`)
	assert.Contains(t, out, `<category_global global_id="cat_g1" global_uuid="uuid-cat-g1" name="Place">`)
}
