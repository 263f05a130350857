package transform

type elementFunc func(t *Transformer, tc *traversal, el element) error

type elementHandler struct {
	open  elementFunc
	close elementFunc
}

// handlers maps every tag class to its open and close behaviour. Close
// handlers receive the element name only.
var handlers = [classCount]elementHandler{
	classUnknown:    {open: (*Transformer).openUnknown, close: (*Transformer).closePlain},
	classForm:       {open: (*Transformer).openForm, close: (*Transformer).closeForm},
	classOutput:     {open: (*Transformer).openOutput, close: (*Transformer).closeOutput},
	classViolations: {open: (*Transformer).openViolations, close: (*Transformer).closeViolations},
	classAction:     {open: (*Transformer).openAction, close: (*Transformer).closePlain},
	classContent:    {open: (*Transformer).openContent, close: (*Transformer).closePlain},
	classInput:      {open: (*Transformer).openInput, close: (*Transformer).closePlain},
	classHidden:     {open: (*Transformer).openHidden, close: (*Transformer).closeHidden},
	classRepeat:     {open: (*Transformer).openPlain, close: (*Transformer).closePlain},
	classItemset:    {open: (*Transformer).openPlain, close: (*Transformer).closePlain},
	classGenerated:  {open: (*Transformer).openPlain, close: (*Transformer).closePlain},
}

func (t *Transformer) openPlain(_ *traversal, el element) error {
	return t.out.StartElement(el.name, el.attrs)
}

func (t *Transformer) closePlain(_ *traversal, el element) error {
	return t.out.EndElement(el.name)
}

// openUnknown forwards tags the vocabulary does not define so newer
// templates keep rendering.
func (t *Transformer) openUnknown(tc *traversal, el element) error {
	t.logger.WarnContext(t.ctx, "xmlform: unrecognized tag passed through",
		"tag", el.name.Local,
		"depth", tc.depth,
		"in_form", len(tc.forms) > 0,
	)
	return t.out.StartElement(el.name, el.attrs)
}

func (t *Transformer) openForm(tc *traversal, el element) error {
	if tc.forms.hasOpened() {
		return &TagError{Tag: TagForm, Err: ErrNestedForm}
	}
	id, ok := el.attr(AttrID)
	if !ok || id == "" {
		return missingAttribute(TagForm, AttrID)
	}
	entry, err := t.lookupForm(id)
	if err != nil {
		return tagError(TagForm, AttrID, err)
	}
	entry.view, _ = el.attr(AttrView)
	entry.opened = true

	entry.form.ClearExpectedReferences(t.ctx, entry.view)
	tc.forms.push(entry)
	return t.out.StartElement(el.name, el.attrs)
}

func (t *Transformer) closeForm(tc *traversal, el element) error {
	tc.forms.pop()
	return t.out.EndElement(el.name)
}
