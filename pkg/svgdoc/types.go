package svgdoc

import "encoding/xml"

const (
	SVGNamespace   = "http://www.w3.org/2000/svg"
	XLinkNamespace = "http://www.w3.org/1999/xlink"
)

type NodeKind uint8

const (
	ElementNode NodeKind = iota
	TextNode
	CommentNode
	ProcInstNode
	DirectiveNode
)

// NoParent is the parent of top level nodes.
const NoParent = -1

// Node is one entry of the document arena. Names keep the prefix as written
// in the source (Name.Space is the prefix, not the namespace URL).
type Node struct {
	Kind     NodeKind
	Name     xml.Name
	Attr     []xml.Attr
	Data     string
	Target   string
	Parent   int
	Children []int
}

// Document is a parsed SVG held as an arena of nodes. Node ids are indices
// into the arena and are assigned in document order.
type Document struct {
	nodes []Node
	top   []int
	root  int
}
