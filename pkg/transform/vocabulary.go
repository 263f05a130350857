package transform

import "encoding/xml"

// Namespace is the xmlform vocabulary namespace URI.
const Namespace = "http://apache.org/cocoon/xmlform/1.0"

// Vocabulary tags.
const (
	TagForm          = "form"
	TagOutput        = "output"
	TagViolations    = "violations"
	TagViolation     = "violation"
	TagSubmit        = "submit"
	TagCancel        = "cancel"
	TagReset         = "reset"
	TagCaption       = "caption"
	TagHint          = "hint"
	TagHelp          = "help"
	TagValue         = "value"
	TagTextbox       = "textbox"
	TagTextarea      = "textarea"
	TagPassword      = "password"
	TagSelectBoolean = "selectBoolean"
	TagSelectOne     = "selectOne"
	TagSelectMany    = "selectMany"
	TagHidden        = "hidden"
	TagItemset       = "itemset"
	TagItem          = "item"
	TagRepeat        = "repeat"
	TagGroup         = "group"
)

// Vocabulary attributes.
const (
	AttrRef          = "ref"
	AttrNodeset      = "nodeset"
	AttrForm         = "form"
	AttrID           = "id"
	AttrView         = "view"
	AttrContinuation = "continuation"
)

type class uint8

const (
	classUnknown class = iota
	classForm
	classOutput
	classViolations
	classAction
	classContent
	classInput
	classHidden
	classRepeat
	classItemset
	classGenerated
	classCount
)

var vocabulary = map[string]class{
	TagForm:          classForm,
	TagOutput:        classOutput,
	TagViolations:    classViolations,
	TagSubmit:        classAction,
	TagCancel:        classAction,
	TagReset:         classAction,
	TagCaption:       classContent,
	TagHint:          classContent,
	TagHelp:          classContent,
	TagValue:         classContent,
	TagTextbox:       classInput,
	TagTextarea:      classInput,
	TagPassword:      classInput,
	TagSelectBoolean: classInput,
	TagSelectOne:     classInput,
	TagSelectMany:    classInput,
	TagHidden:        classHidden,
	TagRepeat:        classRepeat,
	TagItemset:       classItemset,
	TagGroup:         classGenerated,
	TagItem:          classGenerated,
	TagViolation:     classGenerated,
}

// classify reports the tag class of name and whether name belongs to the
// vocabulary namespace at all.
func classify(name xml.Name) (class, bool) {
	if name.Space != Namespace {
		return classUnknown, false
	}
	return vocabulary[name.Local], true
}

func vocabularyName(local string) xml.Name {
	return xml.Name{Space: Namespace, Local: local}
}
