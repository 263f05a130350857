package sax

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"

	"github.com/jacoelho/xsd/pkg/xmlstream"
)

// Decode tokenizes the XML document read from r and pushes its elements and
// character data to h. Comments, processing instructions and directives are
// dropped. Handler errors are returned unchanged so callers can classify them;
// syntax errors are wrapped.
func Decode(ctx context.Context, r io.Reader, h Handler) error {
	if r == nil {
		return errors.New("sax: reader is nil")
	}
	if h == nil {
		return errors.New("sax: handler is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	dec, err := xmlstream.NewStringReader(r)
	if err != nil {
		return fmt.Errorf("sax: decode: %w", err)
	}
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		ev, err := dec.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("sax: decode: %w", err)
		}

		switch ev.Kind {
		case xmlstream.EventStartElement:
			err = h.StartElement(elementName(ev.Name), attrsOf(ev.Attrs))
		case xmlstream.EventEndElement:
			err = h.EndElement(elementName(ev.Name))
		case xmlstream.EventCharData:
			err = h.Characters(ev.Text)
		}
		if err != nil {
			return err
		}
	}
}

func elementName(name xmlstream.QName) xml.Name {
	return xml.Name{Space: string(name.Namespace), Local: string(name.Local)}
}

// attrsOf copies the reader's attribute buffer, which is reused on the next
// event. Namespace declarations keep the encoding/xml shape so the writer and
// outline can recognise them.
func attrsOf(in []xmlstream.StringAttr) []xml.Attr {
	if len(in) == 0 {
		return nil
	}
	out := make([]xml.Attr, 0, len(in))
	for _, a := range in {
		name := xml.Name{Space: a.NamespaceURI(), Local: a.LocalName()}
		if name.Space == xmlstream.XMLNSNamespace {
			if name.Local == "xmlns" {
				name = xml.Name{Local: "xmlns"}
			} else {
				name.Space = "xmlns"
			}
		}
		out = append(out, xml.Attr{Name: name, Value: a.Value()})
	}
	return out
}
