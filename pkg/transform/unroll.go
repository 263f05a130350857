package transform

import (
	"encoding/xml"

	"github.com/goliatone/go-xmlform/pkg/sax"
)

// beginRecording switches to recording mode for a repeat or itemset body.
// The repeat wrapper is structural and emitted right away; itemset produces
// no element of its own.
func (t *Transformer) beginRecording(tc *traversal, cls class, el element) error {
	raw, ok := el.attr(AttrNodeset)
	if !ok || raw == "" {
		return missingAttribute(el.name.Local, AttrNodeset)
	}
	nodeset := tc.refs.resolve(raw)

	tc.mode = modeRecording
	tc.rec = recording{
		startDepth: tc.depth,
		kind:       cls,
		tag:        el.name.Local,
		nodeset:    nodeset,
		fragment:   &sax.Fragment{},
	}

	if cls == classRepeat {
		return t.out.StartElement(el.name, sax.WithAttr(el.attrs, AttrNodeset, nodeset))
	}
	return nil
}

// endRecording finishes the recording session and unrolls the fragment.
// Recording state is cleared before replay, so a template may itself contain
// a repeat: it is recorded and unrolled during each replay of the outer one.
func (t *Transformer) endRecording(tc *traversal, name xml.Name) error {
	rec := tc.rec
	tc.mode = modePassthrough
	tc.rec = recording{}

	err := t.unroll(tc, rec)
	if err == nil && rec.kind == classRepeat {
		err = t.out.EndElement(name)
	}
	tc.refs.popFrom(tc.depth)
	tc.depth--
	return err
}

// unroll replays the fragment once per location, each inside a group (repeat)
// or item (itemset) wrapper whose ref is the location.
func (t *Transformer) unroll(tc *traversal, rec recording) error {
	entry, ok := tc.forms.top()
	if !ok {
		return &TagError{Tag: rec.tag, Err: ErrNoActiveForm}
	}
	locations, err := entry.form.Locate(rec.nodeset)
	if err != nil {
		return tagError(rec.tag, AttrNodeset, err)
	}

	wrapper := vocabularyName(TagGroup)
	if rec.kind == classItemset {
		wrapper = vocabularyName(TagItem)
	}
	for _, location := range locations {
		if err := t.replay(tc, rec.fragment, wrapper, location); err != nil {
			return err
		}
	}
	t.observer.ObserveUnroll(rec.tag, len(locations))
	return nil
}

// replay runs the recorded events through the regular per-element logic with
// location seeded as the innermost canonical reference.
func (t *Transformer) replay(tc *traversal, fragment *sax.Fragment, wrapper xml.Name, location string) error {
	tc.depth++
	tc.refs.push(tc.depth, location)

	attrs := []xml.Attr{{Name: xml.Name{Local: AttrRef}, Value: location}}
	if err := t.out.StartElement(wrapper, attrs); err != nil {
		return err
	}
	if err := fragment.Replay(player{t: t, tc: tc}); err != nil {
		return err
	}

	tc.refs.popFrom(tc.depth)
	tc.depth--
	return t.out.EndElement(wrapper)
}

// player adapts replayed events back into the engine's per-element logic.
type player struct {
	t  *Transformer
	tc *traversal
}

func (p player) StartElement(name xml.Name, attrs []xml.Attr) error {
	return p.t.startElement(p.tc, element{name: name, attrs: attrs})
}

func (p player) EndElement(name xml.Name) error {
	return p.t.endElement(p.tc, name)
}

func (p player) Characters(text []byte) error {
	return p.t.characters(p.tc, text)
}
