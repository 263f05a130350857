// Package sax defines the push-based event vocabulary shared by the xmlform
// engine and its collaborators: element start, element end and character
// events, a Handler that receives them, an append-only Fragment arena that
// records and replays them, and adapters between events and XML bytes.
package sax
