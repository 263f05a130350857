package memory

import (
	"strconv"
	"strings"
)

// splitPath breaks a reference into segments. Leading slashes are ignored so
// relative references resolve from the document root.
func splitPath(ref string) []string {
	parts := strings.Split(strings.TrimSpace(ref), "/")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" || part == "." {
			continue
		}
		out = append(out, part)
	}
	return out
}

func joinPath(segments []string) string {
	return "/" + strings.Join(segments, "/")
}

func lookup(root any, segments []string) (any, bool) {
	current := root
	for _, segment := range segments {
		switch node := current.(type) {
		case map[string]any:
			next, ok := node[segment]
			if !ok {
				return nil, false
			}
			current = next
		case []any:
			idx, err := strconv.Atoi(segment)
			if err != nil || idx < 0 || idx >= len(node) {
				return nil, false
			}
			current = node[idx]
		default:
			return nil, false
		}
	}
	return current, true
}

func pointerPath(pointer []string) string {
	if len(pointer) == 0 {
		return "/"
	}
	segments := make([]string, 0, len(pointer))
	for _, segment := range pointer {
		segment = strings.ReplaceAll(segment, "~1", "/")
		segment = strings.ReplaceAll(segment, "~0", "~")
		segments = append(segments, segment)
	}
	return joinPath(segments)
}
