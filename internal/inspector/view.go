package inspector

// Exposed view shapes, produced per the inspector protocol (spec §6). These
// are plain data - nothing here mutates the model.

type StyleSheetView struct {
	StyleSheetID string      `json:"styleSheetId"`
	Disabled     bool        `json:"disabled"`
	SourceURL    string      `json:"sourceURL"`
	Title        string      `json:"title"`
	Text         *string     `json:"text,omitempty"`
	Rules        []*RuleView `json:"rules"`
}

type RuleView struct {
	RuleID       string     `json:"ruleId,omitempty"`
	SelectorText string     `json:"selectorText"`
	SourceURL    string     `json:"sourceURL"`
	SourceLine   int        `json:"sourceLine"`
	Origin       string     `json:"origin"`
	Style        *StyleView `json:"style"`
}

type StyleView struct {
	StyleID         string            `json:"styleId,omitempty"`
	Properties      StylePropertyView `json:"properties"`
	CSSProperties   []PropertyView    `json:"cssProperties"`
	ShorthandValues map[string]string `json:"shorthandValues"`
	CSSText         *string           `json:"cssText,omitempty"`
}

type StylePropertyView struct {
	Width       string  `json:"width"`
	Height      string  `json:"height"`
	StartOffset *uint32 `json:"startOffset,omitempty"`
	EndOffset   *uint32 `json:"endOffset,omitempty"`
}

type PropertyView struct {
	Status        string  `json:"status"`
	ParsedOK      bool    `json:"parsedOk"`
	Name          string  `json:"name,omitempty"`
	Value         string  `json:"value,omitempty"`
	Priority      string  `json:"priority,omitempty"`
	Implicit      *bool   `json:"implicit,omitempty"`
	StartOffset   *uint32 `json:"startOffset,omitempty"`
	EndOffset     *uint32 `json:"endOffset,omitempty"`
	ShorthandName string  `json:"shorthandName,omitempty"`
	Text          string  `json:"text,omitempty"`
}

// BuildObjectForStyle implements §4.2.7: one PropertyView per flat-listing
// entry, with active/inactive shadowing by name and a shorthandValues map
// computed once per shorthand encountered.
func (s *InspectorStyle) BuildObjectForStyle() *StyleView {
	all := s.populateAllProperties()

	view := &StyleView{
		Properties: StylePropertyView{
			Width:  s.live.GetPropertyValue("width"),
			Height: s.live.GetPropertyValue("height"),
		},
		ShorthandValues: make(map[string]string),
	}
	if styleData, ok := s.host.StyleSourceDataFor(s.live); ok {
		start, end := styleData.BodyRange.Start, styleData.BodyRange.End
		view.Properties.StartOffset = &start
		view.Properties.EndOffset = &end
	}

	foundShorthands := make(map[string]bool)
	lastActiveIndexByName := make(map[string]int)

	for _, p := range all {
		pv := PropertyView{ParsedOK: p.Source.ParsedOK}

		switch {
		case p.Disabled:
			pv.Status = "disabled"
			pv.Text = p.RawText
			start := p.Source.Range.Start
			pv.StartOffset = &start
			pv.EndOffset = &start
		case p.HasSource:
			pv.Status = "active"
			pv.Name = p.Source.Name
			pv.Value = p.Source.Value
			if p.Source.Important {
				pv.Priority = "important"
			}
			implicit := false
			pv.Implicit = &implicit
			start, end := p.Source.Range.Start, p.Source.Range.End
			pv.StartOffset = &start
			pv.EndOffset = &end
			if prevIdx, ok := lastActiveIndexByName[p.Source.Name]; ok {
				view.CSSProperties[prevIdx].Status = "inactive"
				view.CSSProperties[prevIdx].ShorthandName = ""
			}
		default:
			pv.Status = "style"
			pv.Name = p.Source.Name
			pv.Value = p.Source.Value
			if p.Source.Important {
				pv.Priority = "important"
			}
			implicit := s.live.IsPropertyImplicit(p.Source.Name)
			pv.Implicit = &implicit
		}

		// Property(disabled) carries {status, parsedOk, text} plus a
		// zero-width offset at its shadow position; shorthand resolution
		// only applies to entries that still have a live value to resolve
		// against.
		if p.Source.ParsedOK && !p.Disabled {
			shorthand := s.live.GetPropertyShorthand(p.Source.Name)
			pv.ShorthandName = shorthand
			if shorthand != "" && !foundShorthands[shorthand] {
				foundShorthands[shorthand] = true
				view.ShorthandValues[shorthand] = s.ShorthandValue(shorthand)
			}
		}

		view.CSSProperties = append(view.CSSProperties, pv)
		if !p.Disabled && pv.Status != "style" {
			lastActiveIndexByName[p.Source.Name] = len(view.CSSProperties) - 1
		}
	}

	return view
}
