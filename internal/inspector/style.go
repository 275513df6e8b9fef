package inspector

import (
	"devcss.dev/inspector/internal/livestyle"
)

// disabledEntry is one shadowed property: lifted out of the authoring text,
// its original PropertySourceData kept with range.end collapsed onto
// range.start (a zero-width sentinel at the removal point), plus the raw
// text needed to reinsert it verbatim on enable.
type disabledEntry struct {
	source  PropertySourceData
	rawText string
}

// InspectorStyle is the property-level edit engine for a single style
// block: the body of one rule, or an element's inline style. It owns the
// disabled-property shadow list for that block; the live style and the
// sheet's authoring text are reached through host, never stored by value.
type InspectorStyle struct {
	host     styleHost
	live     livestyle.Declaration
	disabled []disabledEntry
}

// NewInspectorStyle builds a style engine over live, reaching its parent
// sheet through host. Per spec §3, this is cheap and transient unless the
// style ends up with disabled properties, in which case the parent sheet
// retains it.
func NewInspectorStyle(host styleHost, live livestyle.Declaration) *InspectorStyle {
	return &InspectorStyle{host: host, live: live}
}

// HasDisabledProperties reports whether the parent sheet should retain this
// instance rather than discard it at the end of the current request.
func (s *InspectorStyle) HasDisabledProperties() bool {
	return len(s.disabled) > 0
}

// populateAllProperties merges source-derived properties, the disabled
// shadow list, and live-only properties into one ordered listing, per
// spec §4.2.1.
func (s *InspectorStyle) populateAllProperties() []InspectorStyleProperty {
	var result []InspectorStyleProperty

	disabledIndex := 0
	flushDisabledUpTo := func(start uint32) {
		for disabledIndex < len(s.disabled) && s.disabled[disabledIndex].source.Range.Start <= start {
			d := s.disabled[disabledIndex]
			result = append(result, InspectorStyleProperty{
				Source:    d.source,
				HasSource: true,
				Disabled:  true,
				RawText:   d.rawText,
			})
			disabledIndex++
		}
	}

	sourceNames := make(map[string]bool)
	if styleData, ok := s.host.StyleSourceDataFor(s.live); ok {
		for _, p := range styleData.Properties {
			flushDisabledUpTo(p.Range.Start)
			result = append(result, InspectorStyleProperty{Source: p, HasSource: true})
			sourceNames[p.Name] = true
		}
	}

	for disabledIndex < len(s.disabled) {
		d := s.disabled[disabledIndex]
		result = append(result, InspectorStyleProperty{
			Source:    d.source,
			HasSource: true,
			Disabled:  true,
			RawText:   d.rawText,
		})
		disabledIndex++
	}

	for i := 0; i < s.live.Len(); i++ {
		name := s.live.PropertyNameAt(i)
		if sourceNames[name] {
			continue
		}
		sourceNames[name] = true
		result = append(result, InspectorStyleProperty{
			Source: PropertySourceData{
				Name:      name,
				Value:     s.live.GetPropertyValue(name),
				Important: s.live.GetPropertyPriority(name) == "important",
				ParsedOK:  true,
			},
			HasSource: false,
		})
	}

	return result
}

// disabledIndexByOrdinal translates a flat-listing ordinal into an index
// into the disabled shadow list, per spec §4.2.6. When canUseSubsequent is
// true and no disabled entry sits exactly at ordinal, the next disabled
// entry's index is returned instead (used when inserting/overwriting: later
// shadows still need shifting even if the edited entry itself isn't one).
func disabledIndexByOrdinal(ordinal int, canUseSubsequent bool, all []InspectorStyleProperty) (int, bool) {
	disabledIndex := 0
	for i, p := range all {
		if p.Disabled {
			if i == ordinal || (canUseSubsequent && i > ordinal) {
				return disabledIndex, true
			}
			disabledIndex++
		}
	}
	return 0, false
}

// shiftDisabledProperties shifts every shadow at or after fromIndex by
// delta bytes, keeping their zero-width ranges consistent with text that
// grew or shrank earlier in the block.
func (s *InspectorStyle) shiftDisabledProperties(fromIndex int, delta int32) {
	for i := fromIndex; i < len(s.disabled); i++ {
		r := &s.disabled[i].source.Range
		r.Start = uint32(int32(r.Start) + delta)
		r.End = r.Start
	}
}

// SetPropertyText implements §4.2.2: overwrite an existing property's text,
// re-enable a disabled one by overwriting it with empty text, update a
// disabled shadow's pending raw text, or insert new text at index.
func (s *InspectorStyle) SetPropertyText(index int, newText string, overwrite bool) (bool, error) {
	if err := s.host.EnsureParsedDataReady(); err != nil {
		return false, err
	}

	all := s.populateAllProperties()
	var lengthDelta int32

	if overwrite {
		if index < 0 || index >= len(all) {
			return false, ErrIndexOutOfRange
		}
		property := all[index]
		oldLength := int32(property.Source.Range.End - property.Source.Range.Start)
		newLength := int32(len(newText))
		lengthDelta = newLength - oldLength

		if !property.Disabled {
			if !s.replacePropertyInStyleText(property, newText) {
				return false, ErrParseRejected
			}
		} else {
			disabledIdx, found := disabledIndexByOrdinal(index, false, all)
			if !found {
				return false, ErrIndexOutOfRange
			}
			if newText == "" {
				return s.enableProperty(index, all)
			}
			s.disabled[disabledIdx].rawText = newText
			return true, nil
		}
	} else {
		bodyText, ok := s.host.BodyText(s.live)
		if !ok {
			return false, ErrNoSourceData
		}
		styleData, ok := s.host.StyleSourceDataFor(s.live)
		if !ok {
			return false, ErrNoSourceData
		}
		lengthDelta = int32(len(newText))

		insertAt := styleData.BodyRange.End
		if index < len(all) && all[index].HasSource {
			insertAt = all[index].Source.Range.Start
		}
		localOffset := insertAt - styleData.BodyRange.Start
		if int(localOffset) > len(bodyText) {
			return false, ErrIndexOutOfRange
		}
		newBody := bodyText[:localOffset] + newText + bodyText[localOffset:]
		if !s.host.SetStyleText(s.live, newBody) {
			return false, ErrParseRejected
		}
	}

	if disabledIdx, ok := disabledIndexByOrdinal(index, true, all); ok {
		s.shiftDisabledProperties(disabledIdx, lengthDelta)
	}
	return true, nil
}

// ToggleProperty implements §4.2.3: idempotent if the property's current
// disabled state already matches, otherwise dispatches to disable/enable.
func (s *InspectorStyle) ToggleProperty(index int, disable bool) (bool, error) {
	if err := s.host.EnsureParsedDataReady(); err != nil {
		return false, err
	}
	if _, ok := s.host.StyleSourceDataFor(s.live); !ok {
		return false, ErrNoSourceData
	}

	all := s.populateAllProperties()
	if index < 0 || index >= len(all) {
		return false, ErrIndexOutOfRange
	}
	property := all[index]
	if property.Disabled == disable {
		return true, nil
	}
	if disable {
		return s.disableProperty(index, all)
	}
	return s.enableProperty(index, all)
}

// disableProperty implements §4.2.4.
func (s *InspectorStyle) disableProperty(index int, all []InspectorStyleProperty) (bool, error) {
	property := all[index]
	start := property.Source.Range.Start
	length := int32(property.Source.Range.End - start)

	bodyText, ok := s.host.BodyText(s.live)
	if !ok {
		return false, ErrNoSourceData
	}
	styleData, _ := s.host.StyleSourceDataFor(s.live)
	localStart := start - styleData.BodyRange.Start
	localEnd := localStart + uint32(length)
	if int(localEnd) > len(bodyText) {
		return false, ErrIndexOutOfRange
	}
	rawText := bodyText[localStart:localEnd]

	if !s.replacePropertyInStyleText(property, "") {
		return false, ErrParseRejected
	}

	entry := disabledEntry{source: property.Source, rawText: rawText}
	entry.source.Range.End = entry.source.Range.Start

	insertionIndex, found := disabledIndexByOrdinal(index, true, all)
	if !found {
		s.disabled = append(s.disabled, entry)
	} else {
		s.disabled = append(s.disabled, disabledEntry{})
		copy(s.disabled[insertionIndex+1:], s.disabled[insertionIndex:])
		s.disabled[insertionIndex] = entry
		s.shiftDisabledProperties(insertionIndex+1, -length)
	}
	return true, nil
}

// enableProperty implements §4.2.5.
func (s *InspectorStyle) enableProperty(index int, all []InspectorStyleProperty) (bool, error) {
	disabledIndex, found := disabledIndexByOrdinal(index, false, all)
	if !found {
		return false, ErrIndexOutOfRange
	}
	entry := s.disabled[disabledIndex]
	s.disabled = append(s.disabled[:disabledIndex], s.disabled[disabledIndex+1:]...)

	property := InspectorStyleProperty{Source: entry.source, Disabled: true, RawText: entry.rawText}
	if !s.replacePropertyInStyleText(property, entry.rawText) {
		return false, ErrParseRejected
	}
	s.shiftDisabledProperties(disabledIndex, int32(len(entry.rawText)))
	return true, nil
}

// replacePropertyInStyleText splices newText into the current body text at
// property's recorded range and commits the result through the host.
func (s *InspectorStyle) replacePropertyInStyleText(property InspectorStyleProperty, newText string) bool {
	bodyText, ok := s.host.BodyText(s.live)
	if !ok {
		return false
	}
	styleData, ok := s.host.StyleSourceDataFor(s.live)
	if !ok {
		return false
	}
	localStart := property.Source.Range.Start - styleData.BodyRange.Start
	localEnd := property.Source.Range.End - styleData.BodyRange.Start
	if int(localEnd) > len(bodyText) || localStart > localEnd {
		return false
	}
	newBody := bodyText[:localStart] + newText + bodyText[localEnd:]
	return s.host.SetStyleText(s.live, newBody)
}

// ShorthandValue implements §4.2.8: the live style's direct shorthand value
// if present, else the concatenation of its non-implicit longhand values.
func (s *InspectorStyle) ShorthandValue(shorthand string) string {
	if v := s.live.GetPropertyValue(shorthand); v != "" {
		return v
	}
	var value string
	for i := 0; i < s.live.Len(); i++ {
		name := s.live.PropertyNameAt(i)
		if s.live.GetPropertyShorthand(name) != shorthand {
			continue
		}
		if s.live.IsPropertyImplicit(name) {
			continue
		}
		v := s.live.GetPropertyValue(name)
		if v == "initial" {
			continue
		}
		if value != "" {
			value += " "
		}
		value += v
	}
	return value
}

// ShorthandPriority implements §4.2.8.
func (s *InspectorStyle) ShorthandPriority(shorthand string) string {
	if p := s.live.GetPropertyPriority(shorthand); p != "" {
		return p
	}
	for i := 0; i < s.live.Len(); i++ {
		name := s.live.PropertyNameAt(i)
		if s.live.GetPropertyShorthand(name) != shorthand {
			continue
		}
		return s.live.GetPropertyPriority(name)
	}
	return ""
}

// LonghandProperties implements §4.2.8.
func (s *InspectorStyle) LonghandProperties(shorthand string) []string {
	var names []string
	seen := make(map[string]bool)
	for i := 0; i < s.live.Len(); i++ {
		name := s.live.PropertyNameAt(i)
		if seen[name] || s.live.GetPropertyShorthand(name) != shorthand {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}
