package integration_test

import (
	"testing"

	documentcolor "devcss.dev/inspector/lsp/methods/textDocument/documentColor"
	"devcss.dev/inspector/lsp/types"
	"devcss.dev/inspector/test/integration/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// TestDocumentColorBasic verifies one swatch per color-typed declaration.
func TestDocumentColorBasic(t *testing.T) {
	server := testutil.NewTestServer(t)
	uri := "file:///test.css"
	testutil.OpenCSS(t, server, uri, `.button {
  color: #0000ff;
  background-color: #00ff00;
}`)

	req := types.NewRequestContext(server, nil)
	colors, err := documentcolor.DocumentColor(req, &protocol.DocumentColorParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	})
	require.NoError(t, err)
	require.Len(t, colors, 2)

	assert.InDelta(t, 0.0, float64(colors[0].Color.Red), 0.01)
	assert.InDelta(t, 0.0, float64(colors[0].Color.Green), 0.01)
	assert.InDelta(t, 1.0, float64(colors[0].Color.Blue), 0.01)
	assert.InDelta(t, 1.0, float64(colors[0].Color.Alpha), 0.01)

	assert.InDelta(t, 0.0, float64(colors[1].Color.Red), 0.01)
	assert.InDelta(t, 1.0, float64(colors[1].Color.Green), 0.01)
	assert.InDelta(t, 0.0, float64(colors[1].Color.Blue), 0.01)
}

// TestDocumentColorMixed verifies non-color declarations contribute no
// swatches alongside color ones.
func TestDocumentColorMixed(t *testing.T) {
	server := testutil.NewTestServer(t)
	uri := "file:///test.css"
	testutil.OpenCSS(t, server, uri, `.button {
  color: #0000ff;
  background-color: #00ff00;
  margin: 10px;
}`)

	req := types.NewRequestContext(server, nil)
	colors, err := documentcolor.DocumentColor(req, &protocol.DocumentColorParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	})
	require.NoError(t, err)
	require.Len(t, colors, 2, "margin is not a color property and should be skipped")

	for _, colorInfo := range colors {
		assert.GreaterOrEqual(t, float64(colorInfo.Color.Red), 0.0)
		assert.LessOrEqual(t, float64(colorInfo.Color.Red), 1.0)
		assert.GreaterOrEqual(t, float64(colorInfo.Color.Green), 0.0)
		assert.LessOrEqual(t, float64(colorInfo.Color.Green), 1.0)
		assert.GreaterOrEqual(t, float64(colorInfo.Color.Blue), 0.0)
		assert.LessOrEqual(t, float64(colorInfo.Color.Blue), 1.0)
	}
}

// TestDocumentColorEmpty verifies a document with no color declarations
// yields no swatches.
func TestDocumentColorEmpty(t *testing.T) {
	server := testutil.NewTestServer(t)
	uri := "file:///test.css"
	testutil.OpenCSS(t, server, uri, `.button { margin: 10px; padding: 5px; }`)

	req := types.NewRequestContext(server, nil)
	colors, err := documentcolor.DocumentColor(req, &protocol.DocumentColorParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	})
	require.NoError(t, err)
	assert.Empty(t, colors)
}

// TestColorPresentation verifies a resolved opaque color is offered back in
// hex, rgb, rgba, and hsl notations.
func TestColorPresentation(t *testing.T) {
	server := testutil.NewTestServer(t)

	req := types.NewRequestContext(server, nil)
	presentations, err := documentcolor.ColorPresentation(req, &protocol.ColorPresentationParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: "file:///test.css"},
		Color: protocol.Color{
			Red:   0.0,
			Green: 0.0,
			Blue:  1.0,
			Alpha: 1.0,
		},
		Range: protocol.Range{
			Start: protocol.Position{Line: 0, Character: 0},
			End:   protocol.Position{Line: 0, Character: 10},
		},
	})
	require.NoError(t, err)
	require.NotEmpty(t, presentations)

	labels := make([]string, len(presentations))
	for i, p := range presentations {
		labels[i] = p.Label
	}

	assert.Contains(t, labels, "#0000ff")
	assert.Contains(t, labels, "rgb(0, 0, 255)")
}

// TestColorPresentationWithAlpha verifies a semi-transparent color is
// offered back with alpha-aware notations.
func TestColorPresentationWithAlpha(t *testing.T) {
	server := testutil.NewTestServer(t)

	req := types.NewRequestContext(server, nil)
	presentations, err := documentcolor.ColorPresentation(req, &protocol.ColorPresentationParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: "file:///test.css"},
		Color: protocol.Color{
			Red:   1.0,
			Green: 0.0,
			Blue:  0.0,
			Alpha: 0.5,
		},
		Range: protocol.Range{
			Start: protocol.Position{Line: 0, Character: 0},
			End:   protocol.Position{Line: 0, Character: 10},
		},
	})
	require.NoError(t, err)
	require.NotEmpty(t, presentations)

	labels := make([]string, len(presentations))
	for i, p := range presentations {
		labels[i] = p.Label
	}

	assert.Contains(t, labels, "rgba(255, 0, 0, 0.50)")
}

// TestDocumentColorNonCSSFile verifies color returns nil for non-CSS files.
func TestDocumentColorNonCSSFile(t *testing.T) {
	server := testutil.NewTestServer(t)
	uri := "file:///test.json"
	require.NoError(t, server.DocumentManager().DidOpen(uri, "json", 1, `{"color": "red"}`))

	req := types.NewRequestContext(server, nil)
	colors, err := documentcolor.DocumentColor(req, &protocol.DocumentColorParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	})
	require.NoError(t, err)
	assert.Nil(t, colors)
}

// TestDocumentColorRootRule verifies colors surface from declarations in a
// :root rule the same as from any other rule.
func TestDocumentColorRootRule(t *testing.T) {
	server := testutil.NewTestServer(t)
	uri := "file:///test.css"
	testutil.OpenCSS(t, server, uri, `:root {
  color: #0000ff;
  background-color: #00ff00;
}`)

	req := types.NewRequestContext(server, nil)
	colors, err := documentcolor.DocumentColor(req, &protocol.DocumentColorParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(colors), 1)
}

// TestDocumentColorInvalidColorValue verifies an unparseable color value is
// skipped rather than surfaced as a swatch.
func TestDocumentColorInvalidColorValue(t *testing.T) {
	server := testutil.NewTestServer(t)
	uri := "file:///test.css"
	testutil.OpenCSS(t, server, uri, `.button { color: notacolor; }`)

	req := types.NewRequestContext(server, nil)
	colors, err := documentcolor.DocumentColor(req, &protocol.DocumentColorParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	})
	require.NoError(t, err)
	assert.Empty(t, colors)
}

// TestDocumentColorDisabledDeclaration verifies a disabled (commented-out)
// color declaration contributes no swatch.
func TestDocumentColorDisabledDeclaration(t *testing.T) {
	server := testutil.NewTestServer(t)
	uri := "file:///test.css"
	testutil.OpenCSS(t, server, uri, `.button { /* color: #0000ff; */ }`)

	req := types.NewRequestContext(server, nil)
	colors, err := documentcolor.DocumentColor(req, &protocol.DocumentColorParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	})
	require.NoError(t, err)
	assert.Empty(t, colors)
}
