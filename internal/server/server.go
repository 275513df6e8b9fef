package server

import (
	"fmt"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Server represents the CSS Inspector language server.
type Server struct {
	initialized bool
	version     string
}

// New creates a new CSS Inspector language server instance.
func New() *Server {
	return &Server{
		version: "1.0.0-go",
	}
}

// Initialize handles the LSP initialize request
func (s *Server) Initialize(params *protocol.InitializeParams) (*protocol.InitializeResult, error) {
	if params == nil {
		return nil, fmt.Errorf("initialize params cannot be nil")
	}

	// Build server capabilities
	syncKind := protocol.TextDocumentSyncKindIncremental
	capabilities := protocol.ServerCapabilities{
		// Text document sync - incremental
		TextDocumentSync: protocol.TextDocumentSyncOptions{
			OpenClose: boolPtr(true),
			Change:    &syncKind,
		},

		// Hover reports a declaration's source value, priority, status and
		// shorthand name.
		HoverProvider: true,

		// Disable/enable a declaration by wrapping or unwrapping it in a
		// comment, and remove declarations with invalid values.
		CodeActionProvider: &protocol.CodeActionOptions{
			ResolveProvider: boolPtr(false),
		},

		// Color swatches for recognized color-typed property values.
		ColorProvider: true,

		// Disabled-declaration ranges get a "disabled" token modifier.
		SemanticTokensProvider: &protocol.SemanticTokensOptions{
			Legend: protocol.SemanticTokensLegend{
				TokenTypes:     []string{"property", "value"},
				TokenModifiers: []string{"disabled"},
			},
			Full: true,
		},

		// Note: DiagnosticProvider is LSP 3.17, glsp uses 3.16 - diagnostics
		// are served from the textDocument/diagnostic request handler directly.
	}

	result := &protocol.InitializeResult{
		Capabilities: capabilities,
	}

	return result, nil
}

// Initialized handles the LSP initialized notification
func (s *Server) Initialized(params *protocol.InitializedParams) error {
	s.initialized = true
	return nil
}

func boolPtr(b bool) *bool {
	return &b
}
