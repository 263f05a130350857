package transform

import "github.com/goliatone/go-xmlform/pkg/model"

type formEntry struct {
	id   string
	view string
	form model.Form
	// opened marks entries pushed by a form tag, as opposed to output tags
	// binding another form for lookups.
	opened bool
}

type formStack []formEntry

func (s formStack) top() (formEntry, bool) {
	if len(s) == 0 {
		return formEntry{}, false
	}
	return s[len(s)-1], true
}

func (s formStack) hasOpened() bool {
	for _, entry := range s {
		if entry.opened {
			return true
		}
	}
	return false
}

func (s *formStack) push(entry formEntry) {
	*s = append(*s, entry)
}

func (s *formStack) pop() {
	if len(*s) > 0 {
		*s = (*s)[:len(*s)-1]
	}
}
