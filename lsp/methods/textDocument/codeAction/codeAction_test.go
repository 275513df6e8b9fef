package codeaction_test

import (
	"testing"

	codeaction "devcss.dev/inspector/lsp/methods/textDocument/codeAction"
	"devcss.dev/inspector/lsp/testutil"
	"devcss.dev/inspector/lsp/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

func newTestRequest() (*types.RequestContext, *testutil.MockServerContext) {
	mock := testutil.NewMockServerContext()
	glspCtx := &glsp.Context{}
	return types.NewRequestContext(mock, glspCtx), mock
}

func titles(actions []protocol.CodeAction) []string {
	out := make([]string, len(actions))
	for i, a := range actions {
		out[i] = a.Title
	}
	return out
}

func TestCodeAction_DisableDeclaration(t *testing.T) {
	req, mock := newTestRequest()

	uri := "file:///test.css"
	cssContent := `.button { color: red; }`
	_ = mock.DocumentManager().DidOpen(uri, "css", 1, cssContent)

	result, err := codeaction.CodeAction(req, &protocol.CodeActionParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
		Range: protocol.Range{
			Start: protocol.Position{Line: 0, Character: 13},
			End:   protocol.Position{Line: 0, Character: 13},
		},
	})

	require.NoError(t, err)
	actions, ok := result.([]protocol.CodeAction)
	require.True(t, ok)
	require.Contains(t, titles(actions), `Disable declaration "color"`)
}

func TestCodeAction_RemoveInvalidDeclaration(t *testing.T) {
	req, mock := newTestRequest()

	uri := "file:///test.css"
	cssContent := `.button { color: not-a-color; }`
	_ = mock.DocumentManager().DidOpen(uri, "css", 1, cssContent)

	result, err := codeaction.CodeAction(req, &protocol.CodeActionParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
		Range: protocol.Range{
			Start: protocol.Position{Line: 0, Character: 13},
			End:   protocol.Position{Line: 0, Character: 13},
		},
	})

	require.NoError(t, err)
	actions, ok := result.([]protocol.CodeAction)
	require.True(t, ok)
	require.Contains(t, titles(actions), `Remove invalid declaration "color"`)
}

func TestCodeAction_EnableCommentedDeclaration(t *testing.T) {
	req, mock := newTestRequest()

	uri := "file:///test.css"
	cssContent := `.button { /* color: red; */ }`
	_ = mock.DocumentManager().DidOpen(uri, "css", 1, cssContent)

	result, err := codeaction.CodeAction(req, &protocol.CodeActionParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
		Range: protocol.Range{
			Start: protocol.Position{Line: 0, Character: 15},
			End:   protocol.Position{Line: 0, Character: 15},
		},
	})

	require.NoError(t, err)
	actions, ok := result.([]protocol.CodeAction)
	require.True(t, ok)
	require.Contains(t, titles(actions), "Enable commented-out declaration")
}

func TestCodeAction_OutsideRange(t *testing.T) {
	req, mock := newTestRequest()

	uri := "file:///test.css"
	cssContent := `.button { color: red; }`
	_ = mock.DocumentManager().DidOpen(uri, "css", 1, cssContent)

	result, err := codeaction.CodeAction(req, &protocol.CodeActionParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
		Range: protocol.Range{
			Start: protocol.Position{Line: 0, Character: 0},
			End:   protocol.Position{Line: 0, Character: 1},
		},
	})

	require.NoError(t, err)
	actions, ok := result.([]protocol.CodeAction)
	require.True(t, ok)
	assert.Empty(t, actions)
}

func TestCodeAction_NonCSSDocument(t *testing.T) {
	req, mock := newTestRequest()

	uri := "file:///test.json"
	_ = mock.DocumentManager().DidOpen(uri, "json", 1, `{}`)

	result, err := codeaction.CodeAction(req, &protocol.CodeActionParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	})

	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestCodeActionResolve_ReturnsUnchanged(t *testing.T) {
	req, _ := newTestRequest()

	kind := protocol.CodeActionKindQuickFix
	action := &protocol.CodeAction{Title: "Disable declaration \"color\"", Kind: &kind}

	result, err := codeaction.CodeActionResolve(req, action)

	require.NoError(t, err)
	assert.Same(t, action, result)
}
