// Package css extracts source-range metadata from CSS text using tree-sitter.
// It is the "external parser" collaborator described by the stylesheet
// inspector: it never mutates a stylesheet, it only turns text into ranges.
package css

// SourceRange is a half-open [Start, End) byte range into the text that was
// parsed. It is re-exported by internal/inspector as the canonical range
// type; the parser package only produces values, it never interprets them.
type SourceRange struct {
	Start uint32
	End   uint32
}

// PropertySourceData describes one declaration found inside a style body.
// Range covers the whole declaration, including a trailing ";" when present,
// so that replacing [Range.Start, Range.End) with new text is always safe.
type PropertySourceData struct {
	Name      string
	Value     string
	Important bool
	ParsedOK  bool
	Range     SourceRange
}

// StyleSourceData describes the body of a single rule or declaration block.
// BodyRange excludes the enclosing "{" and "}" (or, for a declaration-only
// parse, spans the whole input).
type StyleSourceData struct {
	BodyRange  SourceRange
	Properties []PropertySourceData
}

// RuleSourceData describes one style-bearing rule: its selector text range
// and the source data for its declaration body.
type RuleSourceData struct {
	SelectorRange SourceRange
	Style         StyleSourceData
}

// ParseResult is the result of parsing a full stylesheet: one RuleSourceData
// per style-bearing rule (@-rules without a declaration body are skipped),
// in document order.
type ParseResult struct {
	Rules []RuleSourceData
}
