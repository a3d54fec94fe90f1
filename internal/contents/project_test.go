package contents

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/realmforge/rwgen/api"
	"github.com/realmforge/rwgen/internal/structure"
)

const projectStructure = `<structure>
  <category original_id="cat_1" name="Person">
    <partition original_id="part_1" name="Overview">
      <facet original_id="facet_1" name="Background" type="Multi_Line" />
      <facet original_id="facet_2" name="Age" type="Numeric" />
      <partition original_id="part_2" name="Details">
        <facet original_id="facet_3" name="Born" type="Date_Game" />
      </partition>
    </partition>
    <partition original_id="part_3" name="Gallery">
      <facet original_id="facet_4" name="Portrait" type="Picture" />
      <facet original_id="facet_5" name="Region" type="Tag_Standard" domain_id="dom_1" />
    </partition>
  </category>
  <category original_id="cat_2" name="Group">
    <partition original_id="part_4" name="Membership">
      <facet original_id="facet_6" name="Notes" type="Multi_Line" />
    </partition>
  </category>
  <domain original_id="dom_1" name="Regions">
    <tag original_id="tag_1" name="North" />
  </domain>
</structure>`

func loadProjectTree(t *testing.T) *structure.Tree {
	t.Helper()
	tree, err := structure.Load(strings.NewReader(projectStructure))
	require.NoError(t, err)
	return tree
}

func TestInstantiate_Shape(t *testing.T) {
	tree := loadProjectTree(t)
	cat, _ := tree.Category("Person")
	topic := Instantiate(cat)

	require.Len(t, topic.Sections, 2)
	overview := topic.Sections[0]
	assert.Equal(t, "Overview", overview.Partition.Name)
	require.Len(t, overview.Snippets, 2)
	assert.Equal(t, structure.MultiLine, overview.Snippets[0].Type)
	require.Len(t, overview.Subsections, 1)
	assert.Equal(t, "Born", overview.Subsections[0].Snippets[0].Facet.Name)
	assert.Equal(t, -1, topic.KeyColumn)
}

func TestInstantiate_SkipsEmbeddedCategories(t *testing.T) {
	tree, err := structure.Load(strings.NewReader(`<structure>
  <category original_id="c1" name="Outer">
    <partition original_id="p1" name="Fields" />
    <category original_id="c2" name="Inner">
      <partition original_id="p2" name="Hidden" />
    </category>
  </category>
</structure>`))
	require.NoError(t, err)
	cat, _ := tree.Category("Outer")
	topic := Instantiate(cat)
	require.Len(t, topic.Sections, 1)
	assert.Equal(t, "Fields", topic.Sections[0].Partition.Name)
}

// buildFullProject configures every node variant the project file can
// carry: aliases, a parent chain, relationships, multiplicity and one
// snippet of each bound shape.
func buildFullProject(tree *structure.Tree) *Project {
	personCat, _ := tree.Category("Person")
	groupCat, _ := tree.Category("Group")

	topic := Instantiate(personCat)
	topic.Public.Name = ColumnBinding(0)
	topic.Public.Revealed = true
	topic.Prefix = FixedBinding("Sir")
	topic.KeyColumn = 4
	topic.KeyValue = "person"

	nick := &Alias{Name: ColumnBinding(1), AutoAccept: true, CaseMatching: "Ignore", MatchPriority: "Normal"}
	topic.Aliases = append(topic.Aliases, nick)

	parent := Instantiate(groupCat)
	parent.Public.Name = ColumnBinding(2)
	parent.Sections[0].Snippets[0].Contents = FixedBinding("roster")
	topic.Parents = append(topic.Parents, parent)

	topic.Relationships = append(topic.Relationships, &Relationship{
		Nature:    NatureMasterMinion,
		Qualifier: "Household",
		ThisLink:  ColumnBinding(0),
		OtherLink: ColumnBinding(3),
	})

	overview := topic.Sections[0]
	overview.Contents = ColumnBinding(5)
	overview.Style = StyleReadAloud
	overview.Snippets[0].Contents = ColumnBinding(6)
	overview.Snippets[0].GMDirections = ColumnBinding(7)
	overview.Snippets[1].Contents = ColumnBinding(8)
	overview.Subsections[0].Snippets[0].StartDate = ColumnBinding(9)
	overview.MultipleFirst = ColumnBinding(6)
	overview.MultipleSecond = ColumnBinding(8)
	overview.MultipleLast = ColumnBinding(10)

	gallery := topic.Sections[1]
	gallery.Snippets[0].Filename = ColumnBinding(11)
	gallery.Snippets[0].Label = FixedBinding("Portrait")
	gallery.Snippets[1].TagNames = FixedBinding("North")
	gallery.Snippets[1].Revealed = true

	return &Project{
		DataPath:      "people.csv",
		StructurePath: "structure.xml",
		Category:      "Person",
		Details:       api.Details{Name: "People Import", Version: "1.2", Summary: "test run"},
		Topics:        []*Topic{topic},
	}
}

func TestProject_RoundTrip(t *testing.T) {
	tree := loadProjectTree(t)
	p := buildFullProject(tree)

	raw := p.Save()
	reloaded, err := LoadProject(raw, tree)
	require.NoError(t, err)

	assert.Equal(t, p, reloaded)
}

func TestProject_PeekStructurePath(t *testing.T) {
	tree := loadProjectTree(t)
	raw := buildFullProject(tree).Save()
	path, err := PeekStructurePath(raw)
	require.NoError(t, err)
	assert.Equal(t, "structure.xml", path)
}

func TestLoadProject_UnknownFacetFails(t *testing.T) {
	tree := loadProjectTree(t)
	raw := buildFullProject(tree).Save()

	// A structure without the Age facet can no longer satisfy the saved
	// mapping.
	shrunk, err := structure.Load(strings.NewReader(`<structure>
  <category original_id="cat_1" name="Person">
    <partition original_id="part_1" name="Overview">
      <facet original_id="facet_1" name="Background" type="Multi_Line" />
    </partition>
  </category>
  <category original_id="cat_2" name="Group">
    <partition original_id="part_4" name="Membership">
      <facet original_id="facet_6" name="Notes" type="Multi_Line" />
    </partition>
  </category>
</structure>`))
	require.NoError(t, err)

	_, err = LoadProject(raw, shrunk)
	require.ErrorIs(t, err, ErrUnknownSlot)
}

func TestAttitudeRating_DerivedFromLevelOrder(t *testing.T) {
	r, ok := AttitudeRating("Neutral")
	require.True(t, ok)
	assert.Equal(t, "0", r)

	r, _ = AttitudeRating("Hatred")
	assert.Equal(t, "-3", r)
	r, _ = AttitudeRating("Love")
	assert.Equal(t, "3", r)

	_, ok = AttitudeRating("Indifferent")
	assert.False(t, ok)
}
