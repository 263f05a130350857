package transform

import (
	"encoding/xml"
	"sort"

	"github.com/goliatone/go-xmlform/pkg/model"
)

// openViolations replaces the violations tag with one violation element per
// relevant entry. Directly under a form every entry is listed with its path;
// inside a field only the entries for the field's canonical reference are
// listed, without a ref attribute.
func (t *Transformer) openViolations(tc *traversal, el element) error {
	entry, err := t.activeForm(tc, el)
	if err != nil {
		return tagError(TagViolations, AttrForm, err)
	}
	violations := entry.form.Violations()
	if len(violations) == 0 {
		return nil
	}

	active, scoped := tc.refs.top()
	if !scoped {
		for _, violation := range violations {
			attrs := []xml.Attr{{Name: xml.Name{Local: AttrRef}, Value: violation.Path}}
			if err := t.emitViolation(attrs, violation.Message); err != nil {
				return err
			}
		}
		return nil
	}

	for _, violation := range fieldViolations(violations, active.canonical) {
		if err := t.emitViolation(nil, violation.Message); err != nil {
			return err
		}
	}
	return nil
}

func (t *Transformer) closeViolations(*traversal, element) error {
	return nil
}

func (t *Transformer) emitViolation(attrs []xml.Attr, message string) error {
	name := vocabularyName(TagViolation)
	if err := t.out.StartElement(name, attrs); err != nil {
		return err
	}
	if message != "" {
		if err := t.out.Characters([]byte(message)); err != nil {
			return err
		}
	}
	return t.out.EndElement(name)
}

// fieldViolations returns the contiguous run of entries whose path equals
// ref. violations must be sorted by path.
func fieldViolations(violations []model.Violation, ref string) []model.Violation {
	first := sort.Search(len(violations), func(i int) bool {
		return violations[i].Path >= ref
	})
	last := first
	for last < len(violations) && violations[last].Path == ref {
		last++
	}
	return violations[first:last]
}
