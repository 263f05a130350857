package transform

import (
	"encoding/xml"
	"fmt"
	"reflect"
	"strings"
)

// openOutput renders a read-only field. An explicit form attribute binds a
// different form for the extent of the element.
func (t *Transformer) openOutput(tc *traversal, el element) error {
	ref, err := requireRef(el)
	if err != nil {
		return err
	}
	entry, err := t.activeForm(tc, el)
	if err != nil {
		return tagError(el.name.Local, AttrForm, err)
	}
	value, err := entry.form.Value(ref)
	if err != nil {
		return tagError(el.name.Local, AttrRef, err)
	}

	tc.forms.push(formEntry{id: entry.id, view: entry.view, form: entry.form})
	if err := t.out.StartElement(el.name, el.attrs); err != nil {
		return err
	}
	return t.emitValues(value)
}

func (t *Transformer) closeOutput(tc *traversal, el element) error {
	tc.forms.pop()
	return t.out.EndElement(el.name)
}

// openInput renders an editable field and registers its reference with the
// view being rendered.
func (t *Transformer) openInput(tc *traversal, el element) error {
	ref, err := requireRef(el)
	if err != nil {
		return err
	}
	entry, err := t.activeForm(tc, el)
	if err != nil {
		return tagError(el.name.Local, AttrForm, err)
	}
	value, err := entry.form.Value(ref)
	if err != nil {
		return tagError(el.name.Local, AttrRef, err)
	}

	entry.form.RegisterExpectedReference(t.ctx, entry.view, ref, el.name.Local)
	if err := t.out.StartElement(el.name, el.attrs); err != nil {
		return err
	}
	return t.emitValues(value)
}

// openHidden defers value rendering to the closing tag, where it is skipped
// if the template supplied a literal value child.
func (t *Transformer) openHidden(tc *traversal, el element) error {
	ref, err := requireRef(el)
	if err != nil {
		return err
	}
	entry, err := t.activeForm(tc, el)
	if err != nil {
		return tagError(el.name.Local, AttrForm, err)
	}

	entry.form.RegisterExpectedReference(t.ctx, entry.view, ref, el.name.Local)
	tc.hiddens = append(tc.hiddens, hiddenField{depth: tc.depth, ref: ref, form: entry})
	return t.out.StartElement(el.name, el.attrs)
}

func (t *Transformer) closeHidden(tc *traversal, el element) error {
	hidden, ok := tc.topHidden()
	if ok && hidden.depth == tc.depth {
		field := *hidden
		tc.hiddens = tc.hiddens[:len(tc.hiddens)-1]
		if !field.literal {
			value, err := field.form.form.Value(field.ref)
			if err != nil {
				return tagError(el.name.Local, AttrRef, err)
			}
			if err := t.emitValues(value); err != nil {
				return err
			}
		}
	}
	return t.out.EndElement(el.name)
}

// openContent handles caption, hint, help and value. With a ref the model
// value becomes the element text; without one the tag passes through.
func (t *Transformer) openContent(tc *traversal, el element) error {
	if el.name.Local == TagValue {
		if hidden, ok := tc.topHidden(); ok && hidden.depth == tc.depth-1 {
			hidden.literal = true
		}
	}
	if err := t.out.StartElement(el.name, el.attrs); err != nil {
		return err
	}

	ref, ok := el.attr(AttrRef)
	if !ok {
		return nil
	}
	entry, err := t.activeForm(tc, el)
	if err != nil {
		return tagError(el.name.Local, AttrForm, err)
	}
	value, err := entry.form.Value(ref)
	if err != nil {
		return tagError(el.name.Local, AttrRef, err)
	}
	members, _ := valueMembers(value)
	text := make([]string, 0, len(members))
	for _, member := range members {
		if s := formatValue(member); s != "" {
			text = append(text, s)
		}
	}
	if len(text) == 0 {
		return nil
	}
	return t.out.Characters([]byte(strings.Join(text, " ")))
}

// emitValues writes one value element per member of a sequence, or a single
// value element for scalars and nil.
func (t *Transformer) emitValues(value any) error {
	name := vocabularyName(TagValue)
	members, _ := valueMembers(value)
	for _, member := range members {
		if err := t.out.StartElement(name, nil); err != nil {
			return err
		}
		if s := formatValue(member); s != "" {
			if err := t.out.Characters([]byte(s)); err != nil {
				return err
			}
		}
		if err := t.out.EndElement(name); err != nil {
			return err
		}
	}
	return nil
}

func requireRef(el element) (string, error) {
	ref, ok := el.attr(AttrRef)
	if !ok || ref == "" {
		return "", missingAttribute(el.name.Local, AttrRef)
	}
	return ref, nil
}

// valueMembers flattens sequences into their members. Scalars and nil become
// a single member; byte slices count as scalars.
func valueMembers(value any) ([]any, bool) {
	switch v := value.(type) {
	case nil:
		return []any{nil}, false
	case []any:
		return v, true
	case []string:
		out := make([]any, len(v))
		for i, s := range v {
			out[i] = s
		}
		return out, true
	case []byte, string, xml.CharData:
		return []any{value}, false
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return []any{value}, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

func formatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case xml.CharData:
		return string(v)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
