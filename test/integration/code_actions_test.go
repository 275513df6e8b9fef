package integration_test

import (
	"testing"

	codeaction "devcss.dev/inspector/lsp/methods/textDocument/codeAction"
	"devcss.dev/inspector/lsp/methods/textDocument/diagnostic"
	"devcss.dev/inspector/lsp/types"
	"devcss.dev/inspector/test/integration/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// TestCodeActionDisableDeclaration verifies that requesting code actions
// over a live declaration offers to wrap it in a comment.
func TestCodeActionDisableDeclaration(t *testing.T) {
	server := testutil.NewTestServer(t)
	uri := "file:///test.css"
	content := ".button { color: red; }"
	testutil.OpenCSS(t, server, uri, content)

	req := types.NewRequestContext(server, nil)
	result, err := codeaction.CodeAction(req, &protocol.CodeActionParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
		Range: protocol.Range{
			Start: protocol.Position{Line: 0, Character: 0},
			End:   protocol.Position{Line: 0, Character: uint32(len(content))}, //nolint:gosec
		},
	})
	require.NoError(t, err)
	require.NotNil(t, result)

	actions, ok := result.([]protocol.CodeAction)
	require.True(t, ok)
	require.NotEmpty(t, actions)

	var disable *protocol.CodeAction
	for i := range actions {
		if actions[i].Title == `Disable declaration "color"` {
			disable = &actions[i]
			break
		}
	}
	require.NotNil(t, disable, "should offer to disable the color declaration")
	require.NotNil(t, disable.Kind)
	assert.Equal(t, protocol.CodeActionKindRefactorRewrite, *disable.Kind)

	require.NotNil(t, disable.Edit)
	edits := disable.Edit.Changes[uri]
	require.Len(t, edits, 1)
	assert.Contains(t, edits[0].NewText, "/* color: red; */")
}

// TestCodeActionEnableDeclaration verifies the inverse: a commented-out
// declaration offers to become live again.
func TestCodeActionEnableDeclaration(t *testing.T) {
	server := testutil.NewTestServer(t)
	uri := "file:///test.css"
	content := ".button { /* color: red; */ background-color: blue; }"
	testutil.OpenCSS(t, server, uri, content)

	req := types.NewRequestContext(server, nil)
	result, err := codeaction.CodeAction(req, &protocol.CodeActionParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
		Range: protocol.Range{
			Start: protocol.Position{Line: 0, Character: 0},
			End:   protocol.Position{Line: 0, Character: uint32(len(content))}, //nolint:gosec
		},
	})
	require.NoError(t, err)
	actions, ok := result.([]protocol.CodeAction)
	require.True(t, ok)

	var enable *protocol.CodeAction
	for i := range actions {
		if actions[i].Title == "Enable commented-out declaration" {
			enable = &actions[i]
			break
		}
	}
	require.NotNil(t, enable, "should offer to re-enable the commented-out declaration")
	require.NotNil(t, enable.Edit)
	edits := enable.Edit.Changes[uri]
	require.Len(t, edits, 1)
	assert.Equal(t, "color: red;", edits[0].NewText)
}

// TestCodeActionRemoveInvalidDeclaration verifies that a declaration whose
// value the style engine rejects offers a preferred "remove" quick fix
// attached to its diagnostic.
func TestCodeActionRemoveInvalidDeclaration(t *testing.T) {
	server := testutil.NewTestServer(t)
	uri := "file:///test.css"
	content := ".button { color: notacolor; }"
	testutil.OpenCSS(t, server, uri, content)

	diagnostics, err := diagnostic.GetDiagnostics(server, uri)
	require.NoError(t, err)
	require.Len(t, diagnostics, 1)

	req := types.NewRequestContext(server, nil)
	result, err := codeaction.CodeAction(req, &protocol.CodeActionParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
		Range:        diagnostics[0].Range,
		Context: protocol.CodeActionContext{
			Diagnostics: diagnostics,
		},
	})
	require.NoError(t, err)
	actions, ok := result.([]protocol.CodeAction)
	require.True(t, ok)

	var remove *protocol.CodeAction
	for i := range actions {
		if actions[i].Title == `Remove invalid declaration "color"` {
			remove = &actions[i]
			break
		}
	}
	require.NotNil(t, remove, "should offer to remove the invalid declaration")
	require.NotNil(t, remove.Kind)
	assert.Equal(t, protocol.CodeActionKindQuickFix, *remove.Kind)
	require.NotNil(t, remove.IsPreferred)
	assert.True(t, *remove.IsPreferred)
	require.Len(t, remove.Diagnostics, 1)

	require.NotNil(t, remove.Edit)
	edits := remove.Edit.Changes[uri]
	require.Len(t, edits, 1)
	assert.Equal(t, "", edits[0].NewText)
}

// TestCodeActionResolve verifies resolve is a no-op that returns the action
// unchanged, since every action already carries its edit.
func TestCodeActionResolve(t *testing.T) {
	server := testutil.NewTestServer(t)
	req := types.NewRequestContext(server, nil)

	kind := protocol.CodeActionKindQuickFix
	action := &protocol.CodeAction{
		Title: "Remove invalid declaration \"color\"",
		Kind:  &kind,
	}

	resolved, err := codeaction.CodeActionResolve(req, action)
	require.NoError(t, err)
	assert.Same(t, action, resolved)
}

// TestCodeActionNonCSSDocument verifies no actions are produced for
// documents outside the CSS language.
func TestCodeActionNonCSSDocument(t *testing.T) {
	server := testutil.NewTestServer(t)
	uri := "file:///test.json"
	require.NoError(t, server.DocumentManager().DidOpen(uri, "json", 1, `{"a":1}`))

	req := types.NewRequestContext(server, nil)
	result, err := codeaction.CodeAction(req, &protocol.CodeActionParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	})
	require.NoError(t, err)
	assert.Nil(t, result)
}
