package structure

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrMalformed wraps XML syntax failures during structure load. The load
// aborts with an empty tree; there is no partial recovery.
var ErrMalformed = errors.New("malformed structure document")

// Tree is the loaded structure document plus the lookups derived from it.
type Tree struct {
	Root       *Node
	Domains    *DomainRegistry
	categories map[string]*Node
	order      []string
}

// Load parses a structure document into a Tree. Malformed markup is
// reported with its line number and yields no tree at all.
func Load(r io.Reader) (*Tree, error) {
	dec := xml.NewDecoder(r)

	var root *Node
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, loadError(err)
		}
		if start, ok := tok.(xml.StartElement); ok {
			root, err = parseElement(dec, start)
			if err != nil {
				return nil, err
			}
			break
		}
	}
	if root == nil {
		return nil, fmt.Errorf("%w: no root element", ErrMalformed)
	}

	t := &Tree{Root: root, Domains: NewDomainRegistry(), categories: map[string]*Node{}}
	t.index(root)
	return t, nil
}

func loadError(err error) error {
	var syn *xml.SyntaxError
	if errors.As(err, &syn) {
		return fmt.Errorf("%w: line %d: %s", ErrMalformed, syn.Line, syn.Msg)
	}
	return fmt.Errorf("%w: %v", ErrMalformed, err)
}

// parseElement is the recursive-descent core: one call per element,
// returning when its end tag is consumed.
func parseElement(dec *xml.Decoder, start xml.StartElement) (*Node, error) {
	n := newNode(start)
	var text strings.Builder
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, loadError(err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			child, err := parseElement(dec, t)
			if err != nil {
				return nil, err
			}
			n.Children = append(n.Children, child)
		case xml.CharData:
			text.Write(t)
		case xml.EndElement:
			n.Text = strings.TrimSpace(text.String())
			n.postLoad()
			return n, nil
		}
	}
}

// newNode dispatches on the tag-name prefix. A _global suffix is stripped
// into a flag, and id/uuid resolution differs for global elements.
func newNode(start xml.StartElement) *Node {
	tag := start.Name.Local
	global := strings.HasSuffix(tag, "_global")
	base := strings.TrimSuffix(tag, "_global")

	n := &Node{
		XMLTag:  tag,
		BaseTag: base,
		Global:  global,
		Attrs:   append([]xml.Attr(nil), start.Attr...),
	}
	switch {
	case strings.HasPrefix(base, "structure"):
		n.Kind = KindStructure
	case strings.HasPrefix(base, "category"):
		n.Kind = KindCategory
	case strings.HasPrefix(base, "domain"):
		n.Kind = KindDomain
	case strings.HasPrefix(base, "facet"):
		n.Kind = KindFacet
	case strings.HasPrefix(base, "partition"):
		n.Kind = KindPartition
	default:
		n.Kind = KindPlain
	}

	if global {
		n.ID = n.Attr("global_id")
		n.UUID = n.Attr("global_uuid")
	} else {
		n.ID = n.Attr("original_id")
		n.UUID = n.Attr("original_uuid")
	}
	if n.ID == "" {
		n.ID = n.Attr("id")
	}
	n.Name = n.Attr("name")
	n.Signature = n.Attr("signature")
	n.Revealed = n.Attr("is_revealed") == "true"
	return n
}

func (t *Tree) index(n *Node) {
	switch n.Kind {
	case KindCategory:
		if _, seen := t.categories[n.Name]; !seen {
			t.categories[n.Name] = n
			t.order = append(t.order, n.Name)
		}
		return // embedded categories are separate templates, not indexed deeper
	case KindDomain:
		t.Domains.add(domainFromNode(n))
	}
	for _, c := range n.Children {
		t.index(c)
	}
}

// Category looks up a top-level category template by name.
func (t *Tree) Category(name string) (*Node, bool) {
	c, ok := t.categories[name]
	return c, ok
}

// CategoryNames lists the top-level categories in document order.
func (t *Tree) CategoryNames() []string {
	return append([]string(nil), t.order...)
}
