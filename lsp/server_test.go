package lsp

import (
	"testing"

	"devcss.dev/inspector/internal/documents"
	"devcss.dev/inspector/internal/inspector"
	"devcss.dev/inspector/lsp/methods/lifecycle"
	"devcss.dev/inspector/lsp/methods/textDocument"
	codeaction "devcss.dev/inspector/lsp/methods/textDocument/codeAction"
	"devcss.dev/inspector/lsp/methods/textDocument/diagnostic"
	documentcolor "devcss.dev/inspector/lsp/methods/textDocument/documentColor"
	"devcss.dev/inspector/lsp/methods/textDocument/hover"
	semantictokens "devcss.dev/inspector/lsp/methods/textDocument/semanticTokens"
	"devcss.dev/inspector/lsp/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// TestHandlers_WrappersSmokeTest verifies that protocol handler wrappers
// are properly connected to their business logic methods.
// This provides coverage for the 1-3 line wrapper functions without
// duplicating the comprehensive business logic tests in integration/.
func TestHandlers_WrappersSmokeTest(t *testing.T) {
	server := &Server{
		documents:  documents.NewManager(),
		config:     types.ServerConfig{},
		sheets:     make(map[string]*inspector.InspectorStyleSheet),
		tokenCache: semantictokens.NewTokenCache(),
	}

	var ctx *glsp.Context

	t.Run("Hover", func(t *testing.T) {
		params := &protocol.HoverParams{
			TextDocumentPositionParams: protocol.TextDocumentPositionParams{
				TextDocument: protocol.TextDocumentIdentifier{URI: "file:///test.css"},
				Position:     protocol.Position{Line: 0, Character: 0},
			},
		}
		req := types.NewRequestContext(server, ctx)
		result, err := hover.Hover(req, params)
		assert.NoError(t, err)
		assert.Nil(t, result)
	})

	t.Run("CodeAction", func(t *testing.T) {
		params := &protocol.CodeActionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: "file:///test.css"},
			Range: protocol.Range{
				Start: protocol.Position{Line: 0, Character: 0},
				End:   protocol.Position{Line: 0, Character: 5},
			},
		}
		req := types.NewRequestContext(server, ctx)
		result, err := codeaction.CodeAction(req, params)
		assert.NoError(t, err)
		assert.Nil(t, result)
	})

	t.Run("CodeActionResolve", func(t *testing.T) {
		action := &protocol.CodeAction{Title: "test"}
		req := types.NewRequestContext(server, ctx)
		result, err := codeaction.CodeActionResolve(req, action)
		assert.NoError(t, err)
		assert.Equal(t, action, result)
	})

	t.Run("DocumentColor", func(t *testing.T) {
		params := &protocol.DocumentColorParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: "file:///test.css"},
		}
		req := types.NewRequestContext(server, ctx)
		result, err := documentcolor.DocumentColor(req, params)
		assert.NoError(t, err)
		assert.Empty(t, result)
	})

	t.Run("ColorPresentation", func(t *testing.T) {
		params := &protocol.ColorPresentationParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: "file:///test.css"},
			Color: protocol.Color{
				Red:   1.0,
				Green: 0.0,
				Blue:  0.0,
				Alpha: 1.0,
			},
		}
		req := types.NewRequestContext(server, ctx)
		result, err := documentcolor.ColorPresentation(req, params)
		assert.NoError(t, err)
		assert.Len(t, result, 4)
	})

	t.Run("DocumentDiagnostic", func(t *testing.T) {
		params := &diagnostic.DocumentDiagnosticParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: "file:///test.css"},
		}
		req := types.NewRequestContext(server, ctx)
		result, err := diagnostic.DocumentDiagnostic(req, params)
		assert.NoError(t, err)
		assert.NotNil(t, result)
	})

	t.Run("DidOpen", func(t *testing.T) {
		params := &protocol.DidOpenTextDocumentParams{
			TextDocument: protocol.TextDocumentItem{
				URI:        "file:///test.css",
				LanguageID: "css",
				Version:    1,
				Text:       "body { color: red; }",
			},
		}
		req := types.NewRequestContext(server, ctx)
		err := textDocument.DidOpen(req, params)
		assert.NoError(t, err)
	})

	t.Run("didChange", func(t *testing.T) {
		_ = server.documents.DidOpen("file:///test.css", "css", 1, "body { color: red; }")

		textChange := protocol.TextDocumentContentChangeEvent{}
		textChange.Text = "body { color: blue; }"

		params := &protocol.DidChangeTextDocumentParams{
			TextDocument: protocol.VersionedTextDocumentIdentifier{
				TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: "file:///test.css"},
				Version:                2,
			},
			ContentChanges: []any{textChange},
		}
		req := types.NewRequestContext(server, ctx)
		err := textDocument.DidChange(req, params)
		assert.NoError(t, err)
	})

	t.Run("didClose", func(t *testing.T) {
		_ = server.documents.DidOpen("file:///test2.css", "css", 1, "")

		params := &protocol.DidCloseTextDocumentParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: "file:///test2.css"},
		}
		req := types.NewRequestContext(server, ctx)
		err := textDocument.DidClose(req, params)
		assert.NoError(t, err)
	})

	t.Run("shutdown", func(t *testing.T) {
		req := types.NewRequestContext(server, ctx)
		err := lifecycle.Shutdown(req.Server, req.GLSP)
		assert.NoError(t, err)
	})

	t.Run("setTrace", func(t *testing.T) {
		params := &protocol.SetTraceParams{Value: "off"}
		req := types.NewRequestContext(server, ctx)
		err := lifecycle.SetTrace(req, params)
		assert.NoError(t, err)
	})
}

// TestServer_Close tests that Close() properly releases resources.
func TestServer_Close(t *testing.T) {
	t.Run("Close releases CSS parser pool", func(t *testing.T) {
		server, err := NewServer()
		assert.NoError(t, err)
		assert.NotNil(t, server)

		assert.NotPanics(t, func() {
			err := server.Close()
			assert.NoError(t, err)
		})
	})

	t.Run("Close can be called multiple times", func(t *testing.T) {
		server, err := NewServer()
		assert.NoError(t, err)

		err = server.Close()
		assert.NoError(t, err)

		err = server.Close()
		assert.NoError(t, err)
	})

	t.Run("Close works with nil server fields", func(t *testing.T) {
		server := &Server{
			documents: documents.NewManager(),
			config:    types.ServerConfig{},
			sheets:    make(map[string]*inspector.InspectorStyleSheet),
		}

		assert.NotPanics(t, func() {
			err := server.Close()
			assert.NoError(t, err)
		})
	})
}

func TestPublishDiagnostics_NilContext(t *testing.T) {
	t.Run("errors when both contexts are nil", func(t *testing.T) {
		server := &Server{
			documents: documents.NewManager(),
			config:    types.ServerConfig{},
			sheets:    make(map[string]*inspector.InspectorStyleSheet),
			context:   nil,
		}

		err := server.documents.DidOpen("file:///test.css", "css", 1, `.test { color: red; }`)
		require.NoError(t, err)

		err = server.PublishDiagnostics(nil, "file:///test.css")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "no client context available")
	})

	t.Run("errors when parameter is nil and server context is unset", func(t *testing.T) {
		server := &Server{
			documents: documents.NewManager(),
			config:    types.ServerConfig{},
			sheets:    make(map[string]*inspector.InspectorStyleSheet),
		}

		err := server.documents.DidOpen("file:///test.css", "css", 1, `.test { color: red; }`)
		require.NoError(t, err)

		err = server.PublishDiagnostics(nil, "file:///test.css")
		assert.Error(t, err)
	})
}

func TestServer_SupportsSnippets(t *testing.T) {
	t.Run("returns false when capabilities are nil", func(t *testing.T) {
		s, err := NewServer()
		require.NoError(t, err)

		assert.False(t, s.SupportsSnippets())
	})

	t.Run("returns false when TextDocument is nil", func(t *testing.T) {
		s, err := NewServer()
		require.NoError(t, err)

		s.SetClientCapabilities(protocol.ClientCapabilities{})
		assert.False(t, s.SupportsSnippets())
	})

	t.Run("returns false when Completion is nil", func(t *testing.T) {
		s, err := NewServer()
		require.NoError(t, err)

		s.SetClientCapabilities(protocol.ClientCapabilities{
			TextDocument: &protocol.TextDocumentClientCapabilities{},
		})
		assert.False(t, s.SupportsSnippets())
	})

	t.Run("returns false when CompletionItem is nil", func(t *testing.T) {
		s, err := NewServer()
		require.NoError(t, err)

		s.SetClientCapabilities(protocol.ClientCapabilities{
			TextDocument: &protocol.TextDocumentClientCapabilities{
				Completion: &protocol.CompletionClientCapabilities{},
			},
		})
		assert.False(t, s.SupportsSnippets())
	})

	t.Run("returns true when SnippetSupport is true", func(t *testing.T) {
		s, err := NewServer()
		require.NoError(t, err)

		snippetSupport := true
		s.SetClientCapabilities(protocol.ClientCapabilities{
			TextDocument: &protocol.TextDocumentClientCapabilities{
				Completion: &protocol.CompletionClientCapabilities{
					CompletionItem: &struct {
						SnippetSupport          *bool                 `json:"snippetSupport,omitempty"`
						CommitCharactersSupport *bool                 `json:"commitCharactersSupport,omitempty"`
						DocumentationFormat     []protocol.MarkupKind `json:"documentationFormat,omitempty"`
						DeprecatedSupport       *bool                 `json:"deprecatedSupport,omitempty"`
						PreselectSupport        *bool                 `json:"preselectSupport,omitempty"`
						TagSupport              *struct {
							ValueSet []protocol.CompletionItemTag `json:"valueSet"`
						} `json:"tagSupport,omitempty"`
						InsertReplaceSupport bool `json:"insertReplaceSupport,omitempty"`
						ResolveSupport       *struct {
							Properties []string `json:"properties"`
						} `json:"resolveSupport,omitempty"`
						InsertTextModeSupport *struct {
							ValueSet []protocol.InsertTextMode `json:"valueSet"`
						} `json:"insertTextModeSupport,omitempty"`
					}{
						SnippetSupport: &snippetSupport,
					},
				},
			},
		})
		assert.True(t, s.SupportsSnippets())
	})
}

func TestServer_PreferredHoverFormat(t *testing.T) {
	t.Run("returns markdown when capabilities are nil", func(t *testing.T) {
		s, err := NewServer()
		require.NoError(t, err)

		assert.Equal(t, protocol.MarkupKindMarkdown, s.PreferredHoverFormat())
	})

	t.Run("returns markdown when TextDocument is nil", func(t *testing.T) {
		s, err := NewServer()
		require.NoError(t, err)

		s.SetClientCapabilities(protocol.ClientCapabilities{})
		assert.Equal(t, protocol.MarkupKindMarkdown, s.PreferredHoverFormat())
	})

	t.Run("returns markdown when Hover is nil", func(t *testing.T) {
		s, err := NewServer()
		require.NoError(t, err)

		s.SetClientCapabilities(protocol.ClientCapabilities{
			TextDocument: &protocol.TextDocumentClientCapabilities{},
		})
		assert.Equal(t, protocol.MarkupKindMarkdown, s.PreferredHoverFormat())
	})

	t.Run("returns markdown when ContentFormat is empty", func(t *testing.T) {
		s, err := NewServer()
		require.NoError(t, err)

		s.SetClientCapabilities(protocol.ClientCapabilities{
			TextDocument: &protocol.TextDocumentClientCapabilities{
				Hover: &protocol.HoverClientCapabilities{
					ContentFormat: []protocol.MarkupKind{},
				},
			},
		})
		assert.Equal(t, protocol.MarkupKindMarkdown, s.PreferredHoverFormat())
	})

	t.Run("returns first format from ContentFormat", func(t *testing.T) {
		s, err := NewServer()
		require.NoError(t, err)

		s.SetClientCapabilities(protocol.ClientCapabilities{
			TextDocument: &protocol.TextDocumentClientCapabilities{
				Hover: &protocol.HoverClientCapabilities{
					ContentFormat: []protocol.MarkupKind{protocol.MarkupKindPlainText, protocol.MarkupKindMarkdown},
				},
			},
		})
		assert.Equal(t, protocol.MarkupKindPlainText, s.PreferredHoverFormat())
	})
}

func TestServer_SupportsDefinitionLinks(t *testing.T) {
	t.Run("returns false when capabilities are nil", func(t *testing.T) {
		s, err := NewServer()
		require.NoError(t, err)

		assert.False(t, s.SupportsDefinitionLinks())
	})

	t.Run("returns false when LinkSupport is nil", func(t *testing.T) {
		s, err := NewServer()
		require.NoError(t, err)

		s.SetClientCapabilities(protocol.ClientCapabilities{
			TextDocument: &protocol.TextDocumentClientCapabilities{
				Definition: &protocol.DefinitionClientCapabilities{},
			},
		})
		assert.False(t, s.SupportsDefinitionLinks())
	})

	t.Run("returns true when LinkSupport is true", func(t *testing.T) {
		s, err := NewServer()
		require.NoError(t, err)

		linkSupport := true
		s.SetClientCapabilities(protocol.ClientCapabilities{
			TextDocument: &protocol.TextDocumentClientCapabilities{
				Definition: &protocol.DefinitionClientCapabilities{
					LinkSupport: &linkSupport,
				},
			},
		})
		assert.True(t, s.SupportsDefinitionLinks())
	})
}

func TestServer_SupportsDiagnosticRelatedInfo(t *testing.T) {
	t.Run("returns false when capabilities are nil", func(t *testing.T) {
		s, err := NewServer()
		require.NoError(t, err)

		assert.False(t, s.SupportsDiagnosticRelatedInfo())
	})

	t.Run("returns false when RelatedInformation is nil", func(t *testing.T) {
		s, err := NewServer()
		require.NoError(t, err)

		s.SetClientCapabilities(protocol.ClientCapabilities{
			TextDocument: &protocol.TextDocumentClientCapabilities{
				PublishDiagnostics: &protocol.PublishDiagnosticsClientCapabilities{},
			},
		})
		assert.False(t, s.SupportsDiagnosticRelatedInfo())
	})

	t.Run("returns true when RelatedInformation is true", func(t *testing.T) {
		s, err := NewServer()
		require.NoError(t, err)

		relatedInfo := true
		s.SetClientCapabilities(protocol.ClientCapabilities{
			TextDocument: &protocol.TextDocumentClientCapabilities{
				PublishDiagnostics: &protocol.PublishDiagnosticsClientCapabilities{
					RelatedInformation: &relatedInfo,
				},
			},
		})
		assert.True(t, s.SupportsDiagnosticRelatedInfo())
	})
}

func TestServer_SheetCaching(t *testing.T) {
	s, err := NewServer()
	require.NoError(t, err)

	uri := "file:///test.css"
	_ = s.documents.DidOpen(uri, "css", 1, ".a { color: red; }")

	sheet1, err := s.Sheet(uri)
	require.NoError(t, err)
	require.NotNil(t, sheet1)

	sheet2, err := s.Sheet(uri)
	require.NoError(t, err)
	assert.Same(t, sheet1, sheet2, "Sheet should be cached across calls")

	s.InvalidateSheet(uri)

	sheet3, err := s.Sheet(uri)
	require.NoError(t, err)
	assert.NotSame(t, sheet1, sheet3, "Sheet should be rebuilt after invalidation")
}

func TestServer_Warnings(t *testing.T) {
	s, err := NewServer()
	require.NoError(t, err)

	assert.Empty(t, s.TakeWarnings())

	s.AddWarning(nil)
	assert.Empty(t, s.TakeWarnings())

	s.AddWarning(assert.AnError)
	warnings := s.TakeWarnings()
	require.Len(t, warnings, 1)
	assert.Equal(t, assert.AnError, warnings[0])

	assert.Empty(t, s.TakeWarnings(), "warnings should be drained after TakeWarnings")
}
