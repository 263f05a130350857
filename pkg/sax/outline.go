package sax

import (
	"bytes"
	"strings"
)

// Outline renders events as one line per event using local names only:
// "+tag a=b" for starts, "-tag" for ends and a quoted line for text.
// Whitespace-only text is skipped, which keeps the result stable across
// template indentation. It is intended for diagnostics and tests.
func Outline(events []Event) []string {
	lines := make([]string, 0, len(events))
	for _, ev := range events {
		switch ev.Kind {
		case KindStartElement:
			var b strings.Builder
			b.WriteByte('+')
			b.WriteString(ev.Name.Local)
			for _, attr := range ev.Attrs {
				if isNamespaceDecl(attr.Name) {
					continue
				}
				b.WriteByte(' ')
				b.WriteString(attr.Name.Local)
				b.WriteByte('=')
				b.WriteString(attr.Value)
			}
			lines = append(lines, b.String())
		case KindEndElement:
			lines = append(lines, "-"+ev.Name.Local)
		case KindCharacters:
			text := bytes.TrimSpace(ev.Text)
			if len(text) == 0 {
				continue
			}
			lines = append(lines, `"`+string(text)+`"`)
		}
	}
	return lines
}
