package diagram

import (
	"fmt"
	"slices"

	"codeberg.org/miketth/keylive/pkg/keylabel"
	"codeberg.org/miketth/keylive/pkg/svgdoc"
	"go.uber.org/zap"
)

// HeldClass is added to the rect of every held key.
const HeldClass = "held"

// Loader receives the renderable form of the document after each change.
type Loader interface {
	LoadDocument(renderable []byte) error
}

// Mutator owns the parsed diagram and keeps the held class of each key rect
// in sync with the key state. Every change re-serializes the whole document
// and hands it to the loader.
type Mutator struct {
	doc    *svgdoc.Document
	index  svgdoc.Index
	loader Loader
	log    *zap.SugaredLogger
}

func NewMutator(doc *svgdoc.Document, loader Loader, log *zap.SugaredLogger) *Mutator {
	m := &Mutator{
		loader: loader,
		log:    log,
	}
	m.setDocument(doc)

	return m
}

func (m *Mutator) setDocument(doc *svgdoc.Document) {
	m.doc = doc
	m.index = svgdoc.BuildIndex(doc)
	m.log.Debugw("indexed diagram", "keys", len(m.index))
}

func (m *Mutator) Document() *svgdoc.Document {
	return m.doc
}

func (m *Mutator) Index() svgdoc.Index {
	return m.index
}

// Load hands the current document to the loader.
func (m *Mutator) Load() error {
	renderable, err := m.doc.Bytes()
	if err != nil {
		return fmt.Errorf("serialize: %w", err)
	}

	if err := m.loader.LoadDocument(renderable); err != nil {
		return fmt.Errorf("load document: %w", err)
	}

	return nil
}

// Update sets or clears the held class for label. It reports whether the
// document changed; labels missing from the diagram and keys already in the
// wanted state leave the document alone and do not reload.
func (m *Mutator) Update(label keylabel.Label, held bool) (bool, error) {
	if !m.mark(label, held) {
		return false, nil
	}

	if err := m.Load(); err != nil {
		return true, err
	}

	return true, nil
}

func (m *Mutator) mark(label keylabel.Label, held bool) bool {
	rect, ok := m.index.Lookup(label)
	if !ok {
		return false
	}

	current := m.doc.Classes(rect)
	var desired []string
	if held {
		desired = svgdoc.WithClass(current, HeldClass)
	} else {
		desired = svgdoc.WithoutClass(current, HeldClass)
	}

	if slices.Equal(current, desired) {
		return false
	}

	m.doc.SetClasses(rect, desired)
	return true
}

// Reload replaces the document, marks every held label in it and loads it
// once.
func (m *Mutator) Reload(doc *svgdoc.Document, held []keylabel.Label) error {
	m.setDocument(doc)

	for _, label := range held {
		m.mark(label, true)
	}

	return m.Load()
}
