package svgdoc

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

var (
	ErrNoRoot     = errors.New("document has no svg root element")
	ErrUnbalanced = errors.New("unbalanced element tags")
)

func ParseFile(path string) (*Document, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer file.Close()

	doc, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return doc, nil
}

// Parse reads an SVG document. Raw tokens are used so prefixes survive a
// round trip through Serialize unchanged.
func Parse(r io.Reader) (*Document, error) {
	dec := xml.NewDecoder(r)
	dec.Entity = xml.HTMLEntity

	doc := &Document{root: -1}
	var stack []int

	for {
		tok, err := dec.RawToken()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode xml: %w", err)
		}

		parent := NoParent
		if len(stack) > 0 {
			parent = stack[len(stack)-1]
		}

		switch t := tok.(type) {
		case xml.StartElement:
			t = t.Copy()
			id := doc.add(Node{Kind: ElementNode, Name: t.Name, Attr: t.Attr}, parent)
			if doc.root < 0 && parent == NoParent && t.Name.Local == "svg" {
				doc.root = id
			}
			stack = append(stack, id)
		case xml.EndElement:
			if len(stack) == 0 {
				return nil, fmt.Errorf("%w: stray </%s>", ErrUnbalanced, t.Name.Local)
			}
			open := doc.nodes[stack[len(stack)-1]].Name
			if open != t.Name {
				return nil, fmt.Errorf("%w: <%s> closed by </%s>", ErrUnbalanced, open.Local, t.Name.Local)
			}
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if parent == NoParent && strings.TrimSpace(string(t)) == "" {
				continue
			}
			doc.add(Node{Kind: TextNode, Data: string(t)}, parent)
		case xml.Comment:
			doc.add(Node{Kind: CommentNode, Data: string(t)}, parent)
		case xml.ProcInst:
			doc.add(Node{Kind: ProcInstNode, Target: t.Target, Data: string(t.Inst)}, parent)
		case xml.Directive:
			doc.add(Node{Kind: DirectiveNode, Data: string(t)}, parent)
		}
	}

	if len(stack) > 0 {
		return nil, fmt.Errorf("%w: <%s> not closed", ErrUnbalanced, doc.nodes[stack[len(stack)-1]].Name.Local)
	}
	if doc.root < 0 {
		return nil, ErrNoRoot
	}

	return doc, nil
}

func (d *Document) add(n Node, parent int) int {
	id := len(d.nodes)
	n.Parent = parent
	d.nodes = append(d.nodes, n)

	if parent == NoParent {
		d.top = append(d.top, id)
	} else {
		d.nodes[parent].Children = append(d.nodes[parent].Children, id)
	}

	return id
}

// Root returns the id of the top level svg element.
func (d *Document) Root() int {
	return d.root
}

// Len returns the number of nodes; valid ids are 0 to Len()-1.
func (d *Document) Len() int {
	return len(d.nodes)
}

func (d *Document) Node(id int) *Node {
	return &d.nodes[id]
}

func (d *Document) Parent(id int) int {
	return d.nodes[id].Parent
}

// Attr returns the value of an unprefixed attribute.
func (d *Document) Attr(id int, local string) (string, bool) {
	for _, a := range d.nodes[id].Attr {
		if a.Name.Space == "" && a.Name.Local == local {
			return a.Value, true
		}
	}

	return "", false
}

// SetAttr sets an unprefixed attribute, appending it if it is missing.
func (d *Document) SetAttr(id int, local, value string) {
	n := &d.nodes[id]
	for i, a := range n.Attr {
		if a.Name.Space == "" && a.Name.Local == local {
			n.Attr[i].Value = value
			return
		}
	}

	n.Attr = append(n.Attr, xml.Attr{Name: xml.Name{Local: local}, Value: value})
}

func (d *Document) RemoveAttr(id int, local string) {
	n := &d.nodes[id]
	attrs := n.Attr[:0]
	for _, a := range n.Attr {
		if a.Name.Space == "" && a.Name.Local == local {
			continue
		}
		attrs = append(attrs, a)
	}
	n.Attr = attrs
}

// Text returns the character data of id and all its descendants (tspans
// included), concatenated in document order.
func (d *Document) Text(id int) string {
	var sb strings.Builder
	d.appendText(&sb, id)
	return sb.String()
}

func (d *Document) appendText(sb *strings.Builder, id int) {
	for _, c := range d.nodes[id].Children {
		switch d.nodes[c].Kind {
		case TextNode:
			sb.WriteString(d.nodes[c].Data)
		case ElementNode:
			d.appendText(sb, c)
		}
	}
}

// FirstChild returns the first child element of id with the given local name.
func (d *Document) FirstChild(id int, local string) (int, bool) {
	for _, c := range d.nodes[id].Children {
		n := &d.nodes[c]
		if n.Kind == ElementNode && n.Name.Local == local {
			return c, true
		}
	}

	return -1, false
}

// Elements returns the ids of all elements with the given local name, in
// document order.
func (d *Document) Elements(local string) []int {
	var ids []int
	for id := range d.nodes {
		n := &d.nodes[id]
		if n.Kind == ElementNode && n.Name.Local == local {
			ids = append(ids, id)
		}
	}

	return ids
}
