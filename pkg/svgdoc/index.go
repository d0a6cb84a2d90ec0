package svgdoc

import (
	"strings"

	"codeberg.org/miketth/keylive/pkg/keylabel"
)

// KeyClass marks text elements that carry a key legend.
const KeyClass = "key"

// Index maps a key label to the rect that is highlighted for it.
type Index map[keylabel.Label]int

// BuildIndex scans text elements in document order. A text element whose
// class contains the "key" token names a key; the first rect in its parent
// group is the key's rect. When a label is drawn more than once only the
// first occurrence is indexed.
func BuildIndex(d *Document) Index {
	index := make(Index)

	for _, id := range d.Elements("text") {
		class, _ := d.Attr(id, "class")
		if !HasClass(class, KeyClass) {
			continue
		}

		label := keylabel.Label(strings.TrimSpace(d.Text(id)))
		if label == "" {
			continue
		}
		if _, seen := index[label]; seen {
			continue
		}

		group := d.Parent(id)
		if group == NoParent {
			continue
		}

		rect, ok := d.FirstChild(group, "rect")
		if !ok {
			continue
		}

		index[label] = rect
	}

	return index
}

func (ix Index) Lookup(label keylabel.Label) (int, bool) {
	id, ok := ix[label]
	return id, ok
}
