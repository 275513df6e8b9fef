package inspector

import (
	"fmt"

	"devcss.dev/inspector/internal/livestyle"
	"devcss.dev/inspector/internal/parser/css"
)

// InlineStyleSheet is the §4.4 specialization of InspectorStyleSheet where
// the "sheet" is a single element's style="" attribute: there is exactly
// one rule, its ordinal is always "0", and its InspectorStyle is owned for
// the sheet's whole lifetime rather than only while it has disabled
// properties.
type InlineStyleSheet struct {
	id      string
	origin  string
	element livestyle.Node
	style   livestyle.Declaration

	ruleSourceData *StyleSourceData
	inspectorStyle *InspectorStyle
}

// NewInlineStyleSheet builds an edit engine over element's style attribute.
// style is the live declaration backing that attribute (the DOM's
// element.style, already wired to re-cascade on SetCSSText).
func NewInlineStyleSheet(id string, element livestyle.Node, style livestyle.Declaration, origin string) *InlineStyleSheet {
	s := &InlineStyleSheet{id: id, origin: origin, element: element, style: style}
	s.inspectorStyle = NewInspectorStyle(s, style)
	return s
}

func (s *InlineStyleSheet) ID() string { return s.id }

// RuleID is always ordinal "0", per §4.4.
func (s *InlineStyleSheet) RuleID() InspectorCSSId { return NewInspectorCSSId(s.id, 0) }

// EnsureParsedDataReady implements §4.4: reads the current style attribute
// and asks the parser for a declaration-level parse yielding only property
// ranges and a synthetic body range [0, len). An empty attribute is a valid
// empty, zero-width body.
func (s *InlineStyleSheet) EnsureParsedDataReady() error {
	if s.ruleSourceData != nil {
		return nil
	}

	attr, _ := s.element.GetAttribute("style")
	if attr == "" {
		s.ruleSourceData = &StyleSourceData{BodyRange: SourceRange{Start: 0, End: 0}}
		return nil
	}

	parser := css.AcquireParser()
	defer css.ReleaseParser(parser)
	data, err := parser.ParseDeclaration(attr)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrParseRejected, err)
	}
	refineColorValidity(data.Properties)
	s.ruleSourceData = data
	return nil
}

// StyleSourceDataFor implements the styleHost interface. There is only one
// style on an inline sheet, so decl is ignored.
func (s *InlineStyleSheet) StyleSourceDataFor(_ livestyle.Declaration) (*StyleSourceData, bool) {
	return s.ruleSourceData, s.ruleSourceData != nil
}

// BodyText implements the styleHost interface: the literal current style
// attribute value, since its body range is always [0, len).
func (s *InlineStyleSheet) BodyText(_ livestyle.Declaration) (string, bool) {
	if s.ruleSourceData == nil {
		return "", false
	}
	attr, _ := s.element.GetAttribute("style")
	return attr, true
}

// SetStyleText implements §4.4: write to the element's style attribute and
// invalidate the single-rule source data.
func (s *InlineStyleSheet) SetStyleText(decl livestyle.Declaration, newBody string) bool {
	if err := decl.SetCSSText(newBody); err != nil {
		return false
	}
	if err := s.element.SetAttribute("style", newBody); err != nil {
		return false
	}
	s.ruleSourceData = nil
	return true
}

// SetPropertyText forwards to the sheet's single, always-cached
// InspectorStyle. id's ordinal must be "0".
func (s *InlineStyleSheet) SetPropertyText(id InspectorCSSId, propertyIndex int, text string, overwrite bool) (bool, error) {
	if id.Ordinal != "0" {
		return false, ErrNoSuchRule
	}
	return s.inspectorStyle.SetPropertyText(propertyIndex, text, overwrite)
}

// ToggleProperty forwards to the sheet's single InspectorStyle.
func (s *InlineStyleSheet) ToggleProperty(id InspectorCSSId, propertyIndex int, disable bool) (bool, error) {
	if id.Ordinal != "0" {
		return false, ErrNoSuchRule
	}
	return s.inspectorStyle.ToggleProperty(propertyIndex, disable)
}

// BuildObjectForStyle serializes the sheet's single Style view of §6.
func (s *InlineStyleSheet) BuildObjectForStyle() *StyleView {
	_ = s.EnsureParsedDataReady()
	view := s.inspectorStyle.BuildObjectForStyle()
	if bodyText, ok := s.BodyText(s.style); ok {
		view.CSSText = &bodyText
	}
	return view
}
