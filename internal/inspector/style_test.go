package inspector

import (
	"testing"

	"devcss.dev/inspector/internal/livestyle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeHost is a minimal styleHost backed by a single in-memory body string,
// used to exercise InspectorStyle in isolation from InspectorStyleSheet.
type fakeHost struct {
	body       string
	styleData  StyleSourceData
	ready      bool
	setCount   int
	lastCommit string
}

func (h *fakeHost) EnsureParsedDataReady() error { return nil }

func (h *fakeHost) StyleSourceDataFor(_ livestyle.Declaration) (*StyleSourceData, bool) {
	if !h.ready {
		return nil, false
	}
	return &h.styleData, true
}

func (h *fakeHost) BodyText(_ livestyle.Declaration) (string, bool) {
	if !h.ready {
		return "", false
	}
	return h.body, true
}

func (h *fakeHost) SetStyleText(decl livestyle.Declaration, newBody string) bool {
	if err := decl.SetCSSText(newBody); err != nil {
		return false
	}
	h.body = newBody
	h.setCount++
	h.lastCommit = newBody
	h.styleData = StyleSourceData{BodyRange: SourceRange{Start: 0, End: uint32(len(newBody))}}
	return true
}

// newFakeStyle builds an InspectorStyle over a live MemDeclaration seeded
// with body, and a host whose recorded source data matches it exactly -
// enough to drive populateAllProperties without the sheet-level machinery.
func newFakeStyle(t *testing.T, body string, props []PropertySourceData) (*InspectorStyle, *fakeHost, livestyle.Declaration) {
	t.Helper()
	live := livestyle.NewMemDeclaration()
	require.NoError(t, live.SetCSSText(body))
	host := &fakeHost{
		body:  body,
		ready: true,
		styleData: StyleSourceData{
			BodyRange:  SourceRange{Start: 0, End: uint32(len(body))},
			Properties: props,
		},
	}
	return NewInspectorStyle(host, live), host, live
}

func TestShorthandValuePrefersDirectShorthand(t *testing.T) {
	style, _, _ := newFakeStyle(t, "margin: 1px;", nil)
	assert.Equal(t, "1px", style.ShorthandValue("margin"))
}

func TestShorthandValueConcatenatesExplicitLonghands(t *testing.T) {
	style, _, _ := newFakeStyle(t, "margin-top: 1px; margin-right: 2px;", nil)
	// margin itself was never set directly, so expandShorthands added no
	// implicit longhands; only the two explicit longhands exist, the other
	// two are absent.
	got := style.ShorthandValue("margin")
	assert.Equal(t, "1px 2px", got)
}

func TestShorthandValueSkipsInitialLonghands(t *testing.T) {
	live := livestyle.NewMemDeclaration()
	require.NoError(t, live.SetCSSText("margin-top: initial; margin-right: 2px;"))
	style := NewInspectorStyle(&fakeHost{ready: true}, live)
	assert.Equal(t, "2px", style.ShorthandValue("margin"))
}

func TestShorthandPriorityFallsBackToLonghand(t *testing.T) {
	live := livestyle.NewMemDeclaration()
	require.NoError(t, live.SetCSSText("margin-top: 1px !important;"))
	style := NewInspectorStyle(&fakeHost{ready: true}, live)
	assert.Equal(t, "important", style.ShorthandPriority("margin"))
}

func TestLonghandPropertiesDedupes(t *testing.T) {
	live := livestyle.NewMemDeclaration()
	require.NoError(t, live.SetCSSText("margin: 1px;"))
	style := NewInspectorStyle(&fakeHost{ready: true}, live)
	names := style.LonghandProperties("margin")
	assert.ElementsMatch(t, []string{"margin-top", "margin-right", "margin-bottom", "margin-left"}, names)
}

func TestDisabledIndexByOrdinalExactMatch(t *testing.T) {
	all := []InspectorStyleProperty{
		{Disabled: true},
		{HasSource: true},
		{Disabled: true},
	}
	idx, ok := disabledIndexByOrdinal(2, false, all)
	require.True(t, ok)
	assert.Equal(t, 1, idx)
}

func TestDisabledIndexByOrdinalSubsequent(t *testing.T) {
	all := []InspectorStyleProperty{
		{HasSource: true},
		{HasSource: true},
		{Disabled: true},
	}
	// ordinal 1 (the active entry) isn't disabled; canUseSubsequent finds
	// the next disabled entry after it, at shadow-list index 0.
	idx, ok := disabledIndexByOrdinal(1, true, all)
	require.True(t, ok)
	assert.Equal(t, 0, idx)
}

func TestDisabledIndexByOrdinalNotFound(t *testing.T) {
	all := []InspectorStyleProperty{
		{HasSource: true},
		{HasSource: true},
	}
	_, ok := disabledIndexByOrdinal(1, true, all)
	assert.False(t, ok)
}

func TestPopulateAllPropertiesOrdersByRangeThenLiveOnly(t *testing.T) {
	// "width" has no shorthand expansion, so the live declaration's entries
	// line up exactly with the recorded source properties - no live-only
	// entries sneak into the merge.
	props := []PropertySourceData{
		{Name: "color", Value: "red", Range: SourceRange{Start: 0, End: 11}, ParsedOK: true},
		{Name: "width", Value: "10px", Range: SourceRange{Start: 11, End: 23}, ParsedOK: true},
	}
	style, _, _ := newFakeStyle(t, "color: red;width: 10px;", props)

	// A disabled shadow sitting between the two source properties should
	// surface between them, not after.
	style.disabled = []disabledEntry{
		{source: PropertySourceData{Name: "old-prop", Range: SourceRange{Start: 11, End: 11}}, rawText: "old-prop: x;"},
	}

	all := style.populateAllProperties()
	require.Len(t, all, 3)
	assert.Equal(t, "color", all[0].Source.Name)
	assert.True(t, all[1].Disabled)
	assert.True(t, all[1].HasSource)
	assert.Equal(t, "old-prop", all[1].Source.Name)
	assert.Equal(t, "width", all[2].Source.Name)
}

func TestPopulateAllPropertiesAppendsLiveOnlyEntries(t *testing.T) {
	// The live declaration has a longhand (via shorthand expansion) that the
	// recorded source data doesn't know about - it must still appear, marked
	// HasSource: false.
	style, _, _ := newFakeStyle(t, "margin: 1px;", nil)
	all := style.populateAllProperties()
	var sawLonghand bool
	for _, p := range all {
		if p.Source.Name == "margin-top" {
			sawLonghand = true
			assert.False(t, p.HasSource)
		}
	}
	assert.True(t, sawLonghand)
}

func TestSetPropertyTextOverwriteDisabledShadowUpdatesRawText(t *testing.T) {
	style, _, _ := newFakeStyle(t, "", nil)
	style.disabled = []disabledEntry{
		{source: PropertySourceData{Name: "color", Range: SourceRange{Start: 0, End: 0}}, rawText: "color: red;"},
	}

	ok, err := style.SetPropertyText(0, "color: blue;", true)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "color: blue;", style.disabled[0].rawText)
}
