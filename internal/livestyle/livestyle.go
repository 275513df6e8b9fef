// Package livestyle defines the minimal surface the inspector needs from a
// live CSS object model: a stylesheet holding rules, each rule holding a
// style declaration that actually affects how a page renders. Production
// code wires this to a real browser's CSSOM; this package also ships an
// in-memory implementation (backed by douceur) good enough to develop and
// test the inspector against without a browser in the loop.
package livestyle

// Node is the minimal DOM surface the inspector needs: enough to read and
// write an element's inline style attribute, and to fetch a <style>
// element's text content.
type Node interface {
	TagName() string
	NodeType() string
	InnerText() string
	GetAttribute(name string) (string, bool)
	SetAttribute(name, value string) error
}

// Declaration is a live CSS style declaration - the body of one rule, or an
// element's inline style. Mutations here are what actually affects
// rendering; the inspector's job is keeping stylesheet text in sync with it.
type Declaration interface {
	Len() int
	PropertyNameAt(i int) string
	GetPropertyValue(name string) string
	// GetPropertyPriority returns "important" or "".
	GetPropertyPriority(name string) string
	IsPropertyImplicit(name string) bool
	// GetPropertyShorthand returns the shorthand name longhand belongs to,
	// or "" if it has none.
	GetPropertyShorthand(name string) string
	// SetCSSText replaces the whole declaration block. May fail if text
	// doesn't parse; a failed call must leave the declaration unchanged.
	SetCSSText(text string) error
	CSSText() string
}

// Rule is one style-bearing rule of a Sheet.
type Rule interface {
	Style() Declaration
	SelectorText() string
	SetSelectorText(selector string)
	SourceLine() int
}

// Sheet is a live stylesheet as held by the style engine/rendering pipeline.
// Item returns nil for rules that carry no declaration block (e.g. @import),
// which keeps them out of the inspector's style-bearing ordinal sequence.
type Sheet interface {
	Len() int
	Item(i int) Rule
	Remove(i int) error
	// ParseString replaces every rule in the sheet with the rules parsed
	// from text, using strict or quirks-mode parsing.
	ParseString(text string, strict bool) error
	AddRule(selector, body string) (Rule, error)
	OwnerNode() Node
	Href() string
	FinalURL() string
	Disabled() bool
	Title() string
}
