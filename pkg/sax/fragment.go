package sax

import "encoding/xml"

// Fragment is an append-only arena of events. It implements Handler so it can
// sit in any pipeline as a recorder; Replay feeds the recorded events back to
// another Handler in their original order.
type Fragment struct {
	events []Event
}

// StartElement records a start event, copying the attribute slice.
func (f *Fragment) StartElement(name xml.Name, attrs []xml.Attr) error {
	var copied []xml.Attr
	if len(attrs) > 0 {
		copied = make([]xml.Attr, len(attrs))
		copy(copied, attrs)
	}
	f.events = append(f.events, Event{Kind: KindStartElement, Name: name, Attrs: copied})
	return nil
}

// EndElement records an end event.
func (f *Fragment) EndElement(name xml.Name) error {
	f.events = append(f.events, Event{Kind: KindEndElement, Name: name})
	return nil
}

// Characters records a character event, copying the text.
func (f *Fragment) Characters(text []byte) error {
	f.events = append(f.events, Event{Kind: KindCharacters, Text: append([]byte(nil), text...)})
	return nil
}

// Len reports the number of recorded events.
func (f *Fragment) Len() int {
	if f == nil {
		return 0
	}
	return len(f.events)
}

// Events exposes the recorded events. Callers must not modify the result.
func (f *Fragment) Events() []Event {
	if f == nil {
		return nil
	}
	return f.events
}

// Replay dispatches every recorded event to h, stopping at the first error.
func (f *Fragment) Replay(h Handler) error {
	if f == nil {
		return nil
	}
	for _, ev := range f.events {
		if err := Dispatch(h, ev); err != nil {
			return err
		}
	}
	return nil
}

// Reset discards the recorded events while keeping the backing storage.
func (f *Fragment) Reset() {
	clear(f.events)
	f.events = f.events[:0]
}
