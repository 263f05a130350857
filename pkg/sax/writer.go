package sax

import (
	"encoding/xml"
	"errors"
	"io"
)

// WriterOption customises a Writer.
type WriterOption func(*Writer)

// WithIndent indents nested elements using the supplied prefix and indent.
func WithIndent(prefix, indent string) WriterOption {
	return func(w *Writer) {
		w.enc.Indent(prefix, indent)
	}
}

// Writer serialises events as XML. Namespace declarations carried on incoming
// attributes are dropped and re-derived from element names, so the output
// stays well-formed regardless of the prefixes used by the source.
type Writer struct {
	enc      *xml.Encoder
	defaults []string
}

// NewWriter returns a Writer encoding to w.
func NewWriter(w io.Writer, options ...WriterOption) *Writer {
	writer := &Writer{enc: xml.NewEncoder(w)}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(writer)
	}
	return writer
}

// StartElement encodes a start tag.
func (w *Writer) StartElement(name xml.Name, attrs []xml.Attr) error {
	out := make([]xml.Attr, 0, len(attrs)+1)
	for _, attr := range attrs {
		if isNamespaceDecl(attr.Name) {
			continue
		}
		out = append(out, attr)
	}

	// encoding/xml declares xmlns for namespaced elements only; an
	// unqualified child of a namespaced parent has to undeclare it.
	if name.Space == "" && w.inheritedDefault() != "" {
		out = append(out, xml.Attr{Name: xml.Name{Local: "xmlns"}, Value: ""})
	}
	w.defaults = append(w.defaults, name.Space)

	return w.enc.EncodeToken(xml.StartElement{Name: name, Attr: out})
}

// EndElement encodes an end tag.
func (w *Writer) EndElement(name xml.Name) error {
	if len(w.defaults) == 0 {
		return errors.New("sax: end element without matching start")
	}
	w.defaults = w.defaults[:len(w.defaults)-1]
	return w.enc.EncodeToken(xml.EndElement{Name: name})
}

// Characters encodes escaped character data.
func (w *Writer) Characters(text []byte) error {
	return w.enc.EncodeToken(xml.CharData(text))
}

// Flush writes any buffered output to the underlying writer.
func (w *Writer) Flush() error {
	return w.enc.Flush()
}

func (w *Writer) inheritedDefault() string {
	if len(w.defaults) == 0 {
		return ""
	}
	return w.defaults[len(w.defaults)-1]
}

func isNamespaceDecl(name xml.Name) bool {
	return name.Space == "xmlns" || (name.Space == "" && name.Local == "xmlns")
}
