package sax

import (
	"encoding/xml"
	"fmt"
)

// Kind identifies the type of a buffered event.
type Kind uint8

const (
	KindStartElement Kind = iota + 1
	KindEndElement
	KindCharacters
)

// String returns a short label for the event kind.
func (k Kind) String() string {
	switch k {
	case KindStartElement:
		return "start"
	case KindEndElement:
		return "end"
	case KindCharacters:
		return "characters"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Event is a single tagged record of the stream. Start events carry Name and
// Attrs, end events carry Name, character events carry Text.
type Event struct {
	Kind  Kind
	Name  xml.Name
	Attrs []xml.Attr
	Text  []byte
}

// Handler receives a tree-shaped event sequence one event at a time. Slices
// passed to a Handler are only valid for the duration of the call;
// implementations that retain them must copy.
type Handler interface {
	StartElement(name xml.Name, attrs []xml.Attr) error
	EndElement(name xml.Name) error
	Characters(text []byte) error
}

// Dispatch delivers ev to h using the method matching its kind.
func Dispatch(h Handler, ev Event) error {
	switch ev.Kind {
	case KindStartElement:
		return h.StartElement(ev.Name, ev.Attrs)
	case KindEndElement:
		return h.EndElement(ev.Name)
	case KindCharacters:
		return h.Characters(ev.Text)
	default:
		return fmt.Errorf("sax: unsupported event %s", ev.Kind)
	}
}

// Attr returns the value of the unqualified attribute named local.
func Attr(attrs []xml.Attr, local string) (string, bool) {
	for _, attr := range attrs {
		if attr.Name.Space == "" && attr.Name.Local == local {
			return attr.Value, true
		}
	}
	return "", false
}

// WithAttr returns a copy of attrs with the unqualified attribute local set to
// value, replacing an existing entry in place or appending a new one.
func WithAttr(attrs []xml.Attr, local, value string) []xml.Attr {
	out := make([]xml.Attr, 0, len(attrs)+1)
	replaced := false
	for _, attr := range attrs {
		if !replaced && attr.Name.Space == "" && attr.Name.Local == local {
			attr.Value = value
			replaced = true
		}
		out = append(out, attr)
	}
	if !replaced {
		out = append(out, xml.Attr{Name: xml.Name{Local: local}, Value: value})
	}
	return out
}
