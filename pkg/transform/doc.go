// Package transform implements the streaming xmlform engine: a SAX-style
// filter that binds the xmlform vocabulary to a data model while the template
// streams through it.
//
// The Transformer keeps one traversal context per document: the element
// depth, a stack of canonical references, a stack of bound forms and the
// recording state. Elements in the xmlform namespace are dispatched through a
// handler table keyed by tag class. repeat and itemset bodies are recorded
// into a sax.Fragment and, at the closing tag, replayed once per location the
// model returns; replay runs the same per-element logic as live events, so
// relative references inside the template resolve against each location.
//
// Instances are reusable but not safe for concurrent use. Pool hands them out
// with Reset applied and clears them on return.
package transform
