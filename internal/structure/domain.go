package structure

// Tag is one allowed value inside a domain vocabulary.
type Tag struct {
	ID   string
	Name string
}

// Domain is a named vocabulary of tags, looked up when resolving snippet
// tag assignments and relationship qualifiers.
type Domain struct {
	ID   string
	Name string
	Tags []Tag
}

// TagByName finds a tag by its display name.
func (d *Domain) TagByName(name string) (Tag, bool) {
	for _, t := range d.Tags {
		if t.Name == name {
			return t, true
		}
	}
	return Tag{}, false
}

// DomainRegistry indexes the loaded domains by name and id.
type DomainRegistry struct {
	byName map[string]*Domain
	byID   map[string]*Domain
}

func NewDomainRegistry() *DomainRegistry {
	return &DomainRegistry{byName: map[string]*Domain{}, byID: map[string]*Domain{}}
}

func (r *DomainRegistry) add(d *Domain) {
	if _, seen := r.byName[d.Name]; !seen {
		r.byName[d.Name] = d
	}
	if d.ID != "" {
		r.byID[d.ID] = d
	}
}

func (r *DomainRegistry) ByName(name string) (*Domain, bool) {
	d, ok := r.byName[name]
	return d, ok
}

func (r *DomainRegistry) ByID(id string) (*Domain, bool) {
	d, ok := r.byID[id]
	return d, ok
}

func domainFromNode(n *Node) *Domain {
	d := &Domain{ID: n.ID, Name: n.Name}
	for _, c := range n.Children {
		if c.BaseTag == "tag" {
			d.Tags = append(d.Tags, Tag{ID: c.ID, Name: c.Name})
		}
	}
	return d
}
