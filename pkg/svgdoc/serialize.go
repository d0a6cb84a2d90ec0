package svgdoc

import (
	"bufio"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

var attrEscaper = strings.NewReplacer(
	`&`, "&amp;",
	`<`, "&lt;",
	`>`, "&gt;",
	`"`, "&quot;",
	"\n", "&#xA;",
	"\r", "&#xD;",
	"\t", "&#x9;",
)

// Serialize writes the document as XML. The root element always declares
// the SVG default namespace and the xlink namespace so that no synthetic
// prefixes are ever needed.
func (d *Document) Serialize(w io.Writer) error {
	bw := bufio.NewWriter(w)

	for _, id := range d.top {
		if err := d.writeNode(bw, id); err != nil {
			return err
		}
		if d.nodes[id].Kind != TextNode {
			if err := bw.WriteByte('\n'); err != nil {
				return fmt.Errorf("write: %w", err)
			}
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}

	return nil
}

func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.Serialize(&buf); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func (d *Document) writeNode(w *bufio.Writer, id int) error {
	n := &d.nodes[id]

	switch n.Kind {
	case TextNode:
		if err := xml.EscapeText(w, []byte(n.Data)); err != nil {
			return fmt.Errorf("escape text: %w", err)
		}
		return nil
	case CommentNode:
		_, err := fmt.Fprintf(w, "<!--%s-->", n.Data)
		return err
	case ProcInstNode:
		if n.Data == "" {
			_, err := fmt.Fprintf(w, "<?%s?>", n.Target)
			return err
		}
		_, err := fmt.Fprintf(w, "<?%s %s?>", n.Target, n.Data)
		return err
	case DirectiveNode:
		_, err := fmt.Fprintf(w, "<!%s>", n.Data)
		return err
	}

	name := qualified(n.Name)
	w.WriteByte('<')
	w.WriteString(name)

	attrs := n.Attr
	if id == d.root {
		attrs = withNamespaces(attrs)
	}
	for _, a := range attrs {
		w.WriteByte(' ')
		w.WriteString(qualified(a.Name))
		w.WriteString(`="`)
		attrEscaper.WriteString(w, a.Value)
		w.WriteByte('"')
	}

	if len(n.Children) == 0 {
		_, err := w.WriteString("/>")
		return err
	}

	w.WriteByte('>')
	for _, c := range n.Children {
		if err := d.writeNode(w, c); err != nil {
			return err
		}
	}
	w.WriteString("</")
	w.WriteString(name)
	_, err := w.WriteString(">")
	return err
}

func withNamespaces(attrs []xml.Attr) []xml.Attr {
	var hasDefault, hasXLink bool
	for _, a := range attrs {
		switch {
		case a.Name.Space == "" && a.Name.Local == "xmlns":
			hasDefault = true
		case a.Name.Space == "xmlns" && a.Name.Local == "xlink":
			hasXLink = true
		}
	}

	if hasDefault && hasXLink {
		return attrs
	}

	out := make([]xml.Attr, 0, len(attrs)+2)
	if !hasDefault {
		out = append(out, xml.Attr{Name: xml.Name{Local: "xmlns"}, Value: SVGNamespace})
	}
	if !hasXLink {
		out = append(out, xml.Attr{Name: xml.Name{Space: "xmlns", Local: "xlink"}, Value: XLinkNamespace})
	}

	return append(out, attrs...)
}

func qualified(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}

	return n.Space + ":" + n.Local
}
