package transform

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingAttribute reports a vocabulary tag without a mandatory attribute.
	ErrMissingAttribute = errors.New("transform: missing required attribute")
	// ErrNestedForm reports a form tag opened inside another form.
	ErrNestedForm = errors.New("transform: forms cannot be nested")
	// ErrNoActiveForm reports a tag that needs a form when none is bound and
	// no explicit form attribute names one.
	ErrNoActiveForm = errors.New("transform: no active form")
	// ErrNotReset reports events pushed to a Transformer outside a
	// Reset/Clear cycle.
	ErrNotReset = errors.New("transform: transformer used before reset")
)

// TagError names the vocabulary tag (and attribute, when relevant) that
// aborted a transformation.
type TagError struct {
	Tag  string
	Attr string
	Err  error
}

func (e *TagError) Error() string {
	if e.Attr != "" {
		return fmt.Sprintf("transform: <%s> @%s: %v", e.Tag, e.Attr, e.Err)
	}
	return fmt.Sprintf("transform: <%s>: %v", e.Tag, e.Err)
}

func (e *TagError) Unwrap() error {
	return e.Err
}

func missingAttribute(tag, attr string) error {
	return &TagError{Tag: tag, Attr: attr, Err: ErrMissingAttribute}
}

func tagError(tag, attr string, err error) error {
	var existing *TagError
	if errors.As(err, &existing) {
		return err
	}
	return &TagError{Tag: tag, Attr: attr, Err: err}
}
