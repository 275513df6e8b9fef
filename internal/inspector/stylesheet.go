package inspector

import (
	"fmt"
	"strings"

	"devcss.dev/inspector/internal/livestyle"
	"devcss.dev/inspector/internal/log"
	"devcss.dev/inspector/internal/parser/css"
)

// ResourceLoader fetches the original text of an externally-linked
// stylesheet, per spec §6's resource interface.
type ResourceLoader interface {
	FetchResourceContent(url string) (string, bool)
}

// InspectorStyleSheet mediates between a live sheet (held by the style
// engine) and its ParsedSheet mirror: set_text, set_rule_selector, add_rule,
// and per-style edits forwarded into InspectorStyle. It caches an
// InspectorStyle per live style only while that style carries disabled
// properties (§3, "two-lifetime caching").
type InspectorStyleSheet struct {
	id          string
	pageSheet   livestyle.Sheet
	origin      string
	documentURL string
	strict      bool
	loader      ResourceLoader

	parsed             ParsedSheet
	stylesWithDisabled map[livestyle.Declaration]*InspectorStyle
	revalidating       bool
}

// NewInspectorStyleSheet constructs an edit engine over one live sheet.
// strict selects the live sheet's parsing mode for ParseString/AddRule.
func NewInspectorStyleSheet(id string, pageSheet livestyle.Sheet, origin, documentURL string, loader ResourceLoader, strict bool) *InspectorStyleSheet {
	return &InspectorStyleSheet{
		id:                 id,
		pageSheet:          pageSheet,
		origin:             origin,
		documentURL:        documentURL,
		strict:             strict,
		loader:             loader,
		stylesWithDisabled: make(map[livestyle.Declaration]*InspectorStyle),
	}
}

func (s *InspectorStyleSheet) ID() string { return s.id }

// SetText implements §4.3.1: replace the stored text (dropping source
// data), drop every rule from the live sheet, clear cached InspectorStyles,
// and ask the live sheet to re-parse the new text.
func (s *InspectorStyleSheet) SetText(newText string) bool {
	s.parsed.SetText(newText)
	for s.pageSheet.Len() > 0 {
		if err := s.pageSheet.Remove(s.pageSheet.Len() - 1); err != nil {
			log.Warn("inspector: failed to clear sheet %s before re-parse: %v", s.id, err)
			break
		}
	}
	s.stylesWithDisabled = make(map[livestyle.Declaration]*InspectorStyle)

	if err := s.pageSheet.ParseString(newText, s.strict); err != nil {
		log.Warn("inspector: set_text rejected by live engine for sheet %s: %v", s.id, err)
		return false
	}
	log.Debug("inspector: set_text applied to sheet %s (%d bytes)", s.id, len(newText))
	return true
}

// SetRuleSelector implements §4.3.2.
func (s *InspectorStyleSheet) SetRuleSelector(id InspectorCSSId, newSelector string) (bool, error) {
	rule, err := s.ruleForID(id)
	if err != nil {
		return false, err
	}
	if err := s.EnsureParsedDataReady(); err != nil {
		return false, err
	}
	ordinal, err := id.ordinalInt()
	if err != nil {
		return false, err
	}
	rsd, ok := s.parsed.RuleSourceDataAt(ordinal)
	if !ok {
		return false, ErrNoSourceData
	}

	rule.SetSelectorText(newSelector)

	text := s.parsed.Text()
	r := rsd.SelectorRange
	if int(r.End) > len(text) || r.Start > r.End {
		return false, ErrIndexOutOfRange
	}
	patched := text[:r.Start] + newSelector + text[r.End:]
	s.parsed.SetText(patched)
	return true, nil
}

// AddRule implements §4.3.3.
func (s *InspectorStyleSheet) AddRule(selector string) (InspectorCSSId, bool) {
	if _, err := s.pageSheet.AddRule(selector, ""); err != nil {
		log.Warn("inspector: add_rule rejected for %q on sheet %s: %v", selector, s.id, err)
		return InspectorCSSId{}, false
	}

	text := s.parsed.Text()
	if text != "" {
		text += "\n"
	}
	text += selector + " {}"
	s.parsed.SetText(text)

	return NewInspectorCSSId(s.id, s.pageSheet.Len()-1), true
}

// SetStyleText implements §4.3.4 and the styleHost interface: splice
// newBody into the rule's body range, commit it on the live style, and
// only on success patch the stored text.
func (s *InspectorStyleSheet) SetStyleText(style livestyle.Declaration, newBody string) bool {
	if s.pageSheet == nil {
		return false
	}
	if err := s.EnsureParsedDataReady(); err != nil {
		return false
	}
	styleData, ok := s.StyleSourceDataFor(style)
	if !ok {
		return false
	}
	text := s.parsed.Text()
	start, end := styleData.BodyRange.Start, styleData.BodyRange.End
	if int(end) > len(text) || start > end {
		return false
	}

	if err := style.SetCSSText(newBody); err != nil {
		log.Warn("inspector: live style rejected new body on sheet %s: %v", s.id, err)
		return false
	}
	patched := text[:start] + newBody + text[end:]
	s.parsed.SetText(patched)
	return true
}

// StyleSourceDataFor implements the styleHost interface.
func (s *InspectorStyleSheet) StyleSourceDataFor(style livestyle.Declaration) (*StyleSourceData, bool) {
	index, ok := s.ruleIndexByStyle(style)
	if !ok {
		return nil, false
	}
	rsd, ok := s.parsed.RuleSourceDataAt(index)
	if !ok {
		return nil, false
	}
	return &rsd.Style, true
}

// BodyText implements the styleHost interface.
func (s *InspectorStyleSheet) BodyText(style livestyle.Declaration) (string, bool) {
	styleData, ok := s.StyleSourceDataFor(style)
	if !ok {
		return "", false
	}
	text := s.parsed.Text()
	if int(styleData.BodyRange.End) > len(text) {
		return "", false
	}
	return text[styleData.BodyRange.Start:styleData.BodyRange.End], true
}

// ruleIndexByStyle implements §4.3.5.
func (s *InspectorStyleSheet) ruleIndexByStyle(style livestyle.Declaration) (int, bool) {
	index := 0
	for i := 0; i < s.pageSheet.Len(); i++ {
		rule := s.pageSheet.Item(i)
		if rule == nil {
			continue
		}
		if rule.Style() == style {
			return index, true
		}
		index++
	}
	return 0, false
}

// ruleForOrdinal implements the read half of §4.3.5.
func (s *InspectorStyleSheet) ruleForOrdinal(ordinal int) (livestyle.Rule, bool) {
	current := 0
	for i := 0; i < s.pageSheet.Len(); i++ {
		rule := s.pageSheet.Item(i)
		if rule == nil {
			continue
		}
		if current == ordinal {
			return rule, true
		}
		current++
	}
	return nil, false
}

func (s *InspectorStyleSheet) ruleForID(id InspectorCSSId) (livestyle.Rule, error) {
	ordinal, err := id.ordinalInt()
	if err != nil {
		return nil, err
	}
	rule, ok := s.ruleForOrdinal(ordinal)
	if !ok {
		return nil, ErrNoSuchRule
	}
	return rule, nil
}

// EnsureParsedDataReady implements §4.3.6.
func (s *InspectorStyleSheet) EnsureParsedDataReady() error {
	if err := s.ensureText(); err != nil {
		return err
	}
	return s.ensureSourceData()
}

func (s *InspectorStyleSheet) ensureText() error {
	if s.parsed.HasText() {
		return nil
	}
	text, ok := s.originalStyleSheetText()
	if !ok {
		return ErrNotReady
	}
	s.parsed.SetText(text)
	return nil
}

func (s *InspectorStyleSheet) originalStyleSheetText() (string, bool) {
	if text, ok := s.inlineStyleSheetText(); ok {
		return text, true
	}
	return s.resourceStyleSheetText()
}

func (s *InspectorStyleSheet) inlineStyleSheetText() (string, bool) {
	if s.pageSheet == nil {
		return "", false
	}
	owner := s.pageSheet.OwnerNode()
	if owner == nil {
		return "", false
	}
	if owner.NodeType() != "element" || !strings.EqualFold(owner.TagName(), "style") {
		return "", false
	}
	return owner.InnerText(), true
}

func (s *InspectorStyleSheet) resourceStyleSheetText() (string, bool) {
	if s.loader == nil || s.pageSheet == nil {
		return "", false
	}
	url := s.pageSheet.FinalURL()
	if url == "" {
		return "", false
	}
	return s.loader.FetchResourceContent(url)
}

func (s *InspectorStyleSheet) ensureSourceData() error {
	if s.parsed.HasSourceData() {
		return nil
	}
	if !s.parsed.HasText() {
		return ErrNotReady
	}

	parser := css.AcquireParser()
	defer css.ReleaseParser(parser)

	result, err := parser.ParseSheet(s.parsed.Text())
	if err != nil {
		return fmt.Errorf("%w: %v", ErrParseRejected, err)
	}
	refineRuleColorValidity(result.Rules)
	s.parsed.SetSourceData(result.Rules)
	return nil
}

// Revalidate implements §4.3.7: recover when the page mutates a live style
// directly, out from under the inspector.
func (s *InspectorStyleSheet) Revalidate(style livestyle.Declaration) {
	if s.revalidating {
		return
	}
	s.revalidating = true
	defer func() { s.revalidating = false }()

	if _, ok := s.ruleIndexByStyle(style); !ok {
		return
	}
	bodyText, ok := s.BodyText(style)
	if !ok {
		return
	}
	if bodyText == style.CSSText() {
		return
	}

	delete(s.stylesWithDisabled, style)
	s.SetStyleText(style, style.CSSText())
}

// inspectorStyleForID resolves id to a style engine: the cached, retained
// instance if the live style has disabled properties, otherwise a fresh
// transient one.
func (s *InspectorStyleSheet) inspectorStyleForID(id InspectorCSSId) (*InspectorStyle, livestyle.Declaration, error) {
	rule, err := s.ruleForID(id)
	if err != nil {
		return nil, nil, err
	}
	style := rule.Style()
	if cached, ok := s.stylesWithDisabled[style]; ok {
		return cached, style, nil
	}
	return NewInspectorStyle(s, style), style, nil
}

// SetPropertyText forwards to InspectorStyle.SetPropertyText for the style
// named by id, keeping the two-lifetime cache current afterward.
func (s *InspectorStyleSheet) SetPropertyText(id InspectorCSSId, propertyIndex int, text string, overwrite bool) (bool, error) {
	inspectorStyle, style, err := s.inspectorStyleForID(id)
	if err != nil {
		return false, err
	}
	ok, err := inspectorStyle.SetPropertyText(propertyIndex, text, overwrite)
	s.syncStyleCache(style, inspectorStyle)
	return ok, err
}

// ToggleProperty forwards to InspectorStyle.ToggleProperty and updates the
// retained-instance cache: remembered on disable, forgotten once the
// disabled list becomes empty after an enable.
func (s *InspectorStyleSheet) ToggleProperty(id InspectorCSSId, propertyIndex int, disable bool) (bool, error) {
	inspectorStyle, style, err := s.inspectorStyleForID(id)
	if err != nil {
		return false, err
	}
	ok, err := inspectorStyle.ToggleProperty(propertyIndex, disable)
	s.syncStyleCache(style, inspectorStyle)
	return ok, err
}

func (s *InspectorStyleSheet) syncStyleCache(style livestyle.Declaration, inspectorStyle *InspectorStyle) {
	if inspectorStyle.HasDisabledProperties() {
		s.stylesWithDisabled[style] = inspectorStyle
	} else {
		delete(s.stylesWithDisabled, style)
	}
}

// BuildObjectForStyleSheet serializes the StyleSheet view of §6.
func (s *InspectorStyleSheet) BuildObjectForStyleSheet() (*StyleSheetView, error) {
	if s.pageSheet == nil {
		return nil, ErrNotReady
	}
	view := &StyleSheetView{
		StyleSheetID: s.id,
		Disabled:     s.pageSheet.Disabled(),
		SourceURL:    s.pageSheet.Href(),
		Title:        s.pageSheet.Title(),
	}
	if err := s.ensureText(); err == nil {
		text := s.parsed.Text()
		view.Text = &text
	}
	ordinal := 0
	for i := 0; i < s.pageSheet.Len(); i++ {
		rule := s.pageSheet.Item(i)
		if rule == nil {
			continue
		}
		ruleView, err := s.BuildObjectForRule(rule, ordinal)
		ordinal++
		if err != nil {
			continue
		}
		view.Rules = append(view.Rules, ruleView)
	}
	return view, nil
}

// BuildObjectForRule serializes one Rule view of §6.
func (s *InspectorStyleSheet) BuildObjectForRule(rule livestyle.Rule, ordinal int) (*RuleView, error) {
	sourceURL := s.pageSheet.Href()
	if sourceURL == "" {
		sourceURL = s.documentURL
	}
	id := NewInspectorCSSId(s.id, ordinal)
	view := &RuleView{
		SelectorText: rule.SelectorText(),
		SourceURL:    sourceURL,
		SourceLine:   rule.SourceLine(),
		Origin:       s.origin,
		RuleID:       id.SheetID + "." + id.Ordinal,
	}

	inspectorStyle, _, err := s.inspectorStyleForID(id)
	if err != nil {
		return nil, err
	}
	// Ensure source data is derived before building the style view, so
	// populateAllProperties sees real ranges rather than falling through to
	// live-only entries; parse failure still yields a degraded-but-valid view.
	parseErr := s.EnsureParsedDataReady()
	styleView := inspectorStyle.BuildObjectForStyle()
	if parseErr == nil {
		if bodyText, ok := s.BodyText(rule.Style()); ok {
			styleView.CSSText = &bodyText
		}
	}
	view.Style = styleView
	return view, nil
}
