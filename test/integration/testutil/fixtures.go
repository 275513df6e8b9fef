package testutil

import (
	"testing"

	"devcss.dev/inspector/lsp"
	"devcss.dev/inspector/lsp/methods/textDocument"
	"devcss.dev/inspector/lsp/types"
	"github.com/stretchr/testify/require"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// NewTestServer creates a new LSP server for testing.
func NewTestServer(t *testing.T) *lsp.Server {
	t.Helper()
	server, err := lsp.NewServer()
	require.NoError(t, err, "Failed to create test server")
	return server
}

// OpenCSS opens a CSS document with the given content in the server.
func OpenCSS(t *testing.T, server *lsp.Server, uri, content string) {
	t.Helper()
	params := &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{
			URI:        uri,
			LanguageID: "css",
			Version:    1,
			Text:       content,
		},
	}
	req := types.NewRequestContext(server, nil)
	err := textDocument.DidOpen(req, params)
	require.NoError(t, err, "Failed to open CSS document: %s", uri)
}

// ChangeCSS replaces a previously-opened document's content.
func ChangeCSS(t *testing.T, server *lsp.Server, uri, content string, version int32) {
	t.Helper()

	textChange := protocol.TextDocumentContentChangeEvent{}
	textChange.Text = content

	params := &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: uri},
			Version:                version,
		},
		ContentChanges: []interface{}{textChange},
	}
	req := types.NewRequestContext(server, nil)
	err := textDocument.DidChange(req, params)
	require.NoError(t, err, "Failed to change CSS document: %s", uri)
}
