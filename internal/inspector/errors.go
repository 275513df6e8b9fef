// Package inspector keeps a stylesheet's authoring text synchronized with
// its live, parsed style objects under client-driven edits: replacing sheet
// text, retargeting a selector, inserting or overwriting a property, and
// toggling a property's disabled state while preserving its original text.
package inspector

import "errors"

// Error kinds per the public edit surface. Callers distinguish only applied
// vs. not-applied; errors.Is lets internal code (diagnostics, logging) tell
// the kinds apart without the public surface ever throwing.
var (
	ErrNotReady        = errors.New("inspector: text or source data not ready")
	ErrNoSuchRule      = errors.New("inspector: no rule at that ordinal")
	ErrNoSourceData    = errors.New("inspector: no source data for this style")
	ErrParseRejected   = errors.New("inspector: live engine rejected new text")
	ErrIndexOutOfRange = errors.New("inspector: property index out of range")
	ErrBadOrdinal      = errors.New("inspector: non-numeric ordinal")
)
