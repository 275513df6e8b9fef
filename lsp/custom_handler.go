package lsp

import (
	"encoding/json"

	"devcss.dev/inspector/lsp/methods/textDocument/diagnostic"
	semantictokens "devcss.dev/inspector/lsp/methods/textDocument/semanticTokens"
	"devcss.dev/inspector/lsp/types"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// CustomHandler wraps protocol.Handler to add custom method support
//
// WORKAROUND: This wrapper is needed to support LSP 3.17 methods while using glsp v0.2.2
// which only implements LSP 3.16. The protocol.Handler struct doesn't have fields for
// LSP 3.17 methods like textDocument/diagnostic, so we intercept them here.
//
// When glsp is updated to support LSP 3.17, this wrapper can be removed and we can
// register handlers directly in protocol.Handler (protocol_3_17.Handler).
type CustomHandler struct {
	*protocol.Handler // Pointer to avoid copying embedded mutex
	server            *Server
}

// Handle implements glsp.Handler interface
func (h *CustomHandler) Handle(context *glsp.Context) (r any, validMethod bool, validParams bool, err error) {
	// WORKAROUND: Intercept initialize to detect diagnostic capability from raw params
	// Since glsp v0.2.2 only supports LSP 3.16, the parsed InitializeParams struct doesn't
	// include the LSP 3.17 "diagnostic" field. We parse the raw JSON here to detect it,
	// then let the normal initialize handler continue.
	if context.Method == "initialize" {
		// Detect pull diagnostics support from raw capabilities JSON
		supportsPullDiagnostics := DetectPullDiagnosticsSupport(context.Params)

		// Store the detected capability in the server for use during initialization
		h.server.SetClientDiagnosticCapability(supportsPullDiagnostics)

		// Fall through to let the normal initialize handler process the request
		// (don't return here - we want the standard initialization to proceed)
	}

	// WORKAROUND: Intercept textDocument/diagnostic for LSP 3.17 pull diagnostics
	// This method doesn't exist in protocol.Handler (LSP 3.16), so we handle it manually
	if context.Method == "textDocument/diagnostic" {
		// Parse params manually since protocol.Handler doesn't know about this method
		var params diagnostic.DocumentDiagnosticParams
		if err := json.Unmarshal(context.Params, &params); err != nil {
			return nil, true, false, err
		}

		// Create request context and call our handler
		req := types.NewRequestContext(h.server, context)
		result, err := diagnostic.DocumentDiagnostic(req, &params)
		if err != nil {
			return nil, true, true, err
		}

		return result, true, true, nil
	}

	// WORKAROUND: Intercept textDocument/semanticTokens/full/delta the same
	// way as textDocument/diagnostic - protocol.Handler (LSP 3.16) has no
	// field for it. Capabilities advertise full.delta = true (initialize.go)
	// backed by semantictokens.SemanticTokensDelta's TokenCache-based diffing.
	if context.Method == "textDocument/semanticTokens/full/delta" {
		var params protocol.SemanticTokensDeltaParams
		if err := json.Unmarshal(context.Params, &params); err != nil {
			return nil, true, false, err
		}

		result, err := semantictokens.SemanticTokensDelta(h.server, context, &params)
		if err != nil {
			return nil, true, true, err
		}

		return result, true, true, nil
	}

	// Fall through to default protocol.Handler
	return h.Handler.Handle(context)
}
