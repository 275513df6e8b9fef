package inspector

import (
	"fmt"
	"strconv"

	"devcss.dev/inspector/internal/livestyle"
	"devcss.dev/inspector/internal/parser/css"
)

// SourceRange, PropertySourceData, StyleSourceData and RuleSourceData are
// produced by the external parser (internal/parser/css); the inspector only
// ever consumes them, so it re-uses those types directly rather than
// defining a parallel set.
type (
	SourceRange        = css.SourceRange
	PropertySourceData = css.PropertySourceData
	StyleSourceData    = css.StyleSourceData
	RuleSourceData     = css.RuleSourceData
)

// InspectorStyleProperty is one entry of a flattened property listing: a
// source-derived property, a disabled shadow, or a live-only synthetic
// entry (see InspectorStyle.populateAllProperties).
type InspectorStyleProperty struct {
	Source    PropertySourceData
	HasSource bool
	Disabled  bool
	// RawText holds the original substring (including trailing ";") for a
	// disabled entry, so it can be reinserted verbatim on enable.
	RawText string
}

// InspectorCSSId identifies one style-bearing rule within a sheet. Ordinal
// is a decimal string indexing only style-bearing rules; non-style rules
// (e.g. @import) are never assigned an ordinal.
type InspectorCSSId struct {
	SheetID string
	Ordinal string
}

func (id InspectorCSSId) IsEmpty() bool {
	return id.SheetID == "" && id.Ordinal == ""
}

func (id InspectorCSSId) ordinalInt() (int, error) {
	n, err := strconv.Atoi(id.Ordinal)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrBadOrdinal, id.Ordinal)
	}
	return n, nil
}

// NewInspectorCSSId builds an id for the style-bearing rule at ordinal n.
func NewInspectorCSSId(sheetID string, ordinal int) InspectorCSSId {
	return InspectorCSSId{SheetID: sheetID, Ordinal: strconv.Itoa(ordinal)}
}

// styleHost is the back handle InspectorStyle uses to reach its parent
// sheet, per spec §9: "represent this as a back handle... ownership goes
// sheet -> style, never the reverse." Both InspectorStyleSheet and
// InlineStyleSheet implement it.
type styleHost interface {
	// EnsureParsedDataReady fetches text (if missing) and (re)derives source
	// data (if missing) so StyleSourceDataFor/BodyText can be trusted.
	EnsureParsedDataReady() error
	// StyleSourceDataFor returns the body range and property ranges
	// currently recorded for the rule backing decl.
	StyleSourceDataFor(decl livestyle.Declaration) (*StyleSourceData, bool)
	// BodyText returns the literal current body substring for decl.
	BodyText(decl livestyle.Declaration) (string, bool)
	// SetStyleText commits newBody as decl's style body: mutate the live
	// style, and only on success patch the stored text.
	SetStyleText(decl livestyle.Declaration, newBody string) bool
}
