package transform

import "github.com/goliatone/go-xmlform/pkg/sax"

type mode uint8

const (
	modePassthrough mode = iota
	modeRecording
)

type recording struct {
	startDepth int
	kind       class
	tag        string
	nodeset    string
	fragment   *sax.Fragment
}

type hiddenField struct {
	depth   int
	ref     string
	form    formEntry
	literal bool
}

// traversal is the mutable state of one document transformation.
type traversal struct {
	depth   int
	mode    mode
	rec     recording
	refs    refStack
	forms   formStack
	hiddens []hiddenField
}

func newTraversal() *traversal {
	return &traversal{}
}

// Snapshot is a read-only view of a Transformer's traversal state.
type Snapshot struct {
	Depth      int
	References int
	Forms      int
	Recording  bool
	Buffered   int
}

func (tc *traversal) snapshot() Snapshot {
	if tc == nil {
		return Snapshot{}
	}
	return Snapshot{
		Depth:      tc.depth,
		References: len(tc.refs),
		Forms:      len(tc.forms),
		Recording:  tc.mode == modeRecording,
		Buffered:   tc.rec.fragment.Len(),
	}
}

func (tc *traversal) topHidden() (*hiddenField, bool) {
	if len(tc.hiddens) == 0 {
		return nil, false
	}
	return &tc.hiddens[len(tc.hiddens)-1], true
}
