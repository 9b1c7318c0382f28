// Package afix implements the bidirectional codec between positional
// rigid-group instruction streams and the relational constraint columns
// used in structured crystallographic records.
//
// The instruction stream is a line-oriented format: AFIX directives open
// and close constraint scopes, and the atom lines between them become
// members of the innermost open scope. Decode replays the stream against
// a scope stack and emits one AtomRecord per retained atom plus a catalog
// of the distinct constraint definitions it saw. Encode is the inverse:
// it walks the attachment graph in deterministic order and re-derives a
// directive stream whose decode reproduces the input records exactly.
//
// The two directions share one scope-stack transition function, so any
// stream the encoder emits is by construction consistent with what the
// decoder will rebuild from it.
package afix
