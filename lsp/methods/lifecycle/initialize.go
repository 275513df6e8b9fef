package lifecycle

import (
	"fmt"
	"os"

	"devcss.dev/inspector/internal/server"
	"devcss.dev/inspector/internal/uriutil"
	"devcss.dev/inspector/lsp/methods/textDocument/diagnostic"
	"devcss.dev/inspector/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Initialize handles the LSP initialize request.
func Initialize(req *types.RequestContext, params *protocol.InitializeParams) (any, error) {
	clientName := "unknown"
	if params.ClientInfo != nil {
		clientName = params.ClientInfo.Name
	}

	fmt.Fprintf(os.Stderr, "[CSSI] Initializing for client: %s\n", clientName)

	req.Server.SetClientCapabilities(params.Capabilities)

	// WORKAROUND: glsp v0.2.2 models LSP 3.16, so TextDocumentClientCapabilities
	// has no Diagnostic field to detect pull-diagnostics support from. Modern
	// clients (LSP 3.17+) are assumed capable until glsp grows that field.
	supportsPullDiagnostics := false
	if params.Capabilities.TextDocument != nil {
		supportsPullDiagnostics = true
	}
	req.Server.SetUsePullDiagnostics(supportsPullDiagnostics)

	if supportsPullDiagnostics {
		fmt.Fprintf(os.Stderr, "[CSSI] Using pull diagnostics model (LSP 3.17) - client will request diagnostics\n")
	} else {
		fmt.Fprintf(os.Stderr, "[CSSI] Using push diagnostics model (LSP 3.0) - server will push diagnostics\n")
	}

	if params.RootURI != nil {
		req.Server.SetRootURI(*params.RootURI)
		req.Server.SetRootPath(uriutil.URIToPath(*params.RootURI))
		fmt.Fprintf(os.Stderr, "[CSSI] Workspace root: %s\n", req.Server.RootPath())
	} else if params.RootPath != nil {
		req.Server.SetRootPath(*params.RootPath)
		req.Server.SetRootURI(uriutil.PathToURI(*params.RootPath))
		fmt.Fprintf(os.Stderr, "[CSSI] Workspace root (from rootPath): %s\n", req.Server.RootPath())
	}

	// internal/server.Server builds the core protocol.ServerCapabilities this
	// handler actually serves; wrap it in map[string]any only to graft on
	// diagnosticProvider, an LSP 3.17 field glsp v0.2.2 doesn't model.
	base, err := server.New().Initialize(params)
	if err != nil {
		return nil, err
	}
	capabilities := map[string]any{
		"textDocumentSync":       base.Capabilities.TextDocumentSync,
		"hoverProvider":          base.Capabilities.HoverProvider,
		"codeActionProvider":     base.Capabilities.CodeActionProvider,
		"colorProvider":          base.Capabilities.ColorProvider,
		"semanticTokensProvider": semanticTokensCapabilities(semanticTokensOptions(base.Capabilities.SemanticTokensProvider)),
	}

	if supportsPullDiagnostics {
		capabilities["diagnosticProvider"] = diagnostic.DiagnosticOptions{
			InterFileDependencies: false,
			WorkspaceDiagnostics:  false,
		}
	}

	// WORKAROUND: mirrors the Capabilities-as-any workaround above; protocol.InitializeResult
	// expects protocol.ServerCapabilities directly.
	return struct {
		Capabilities any                                   `json:"capabilities"`
		ServerInfo   *protocol.InitializeResultServerInfo `json:"serverInfo,omitempty"`
	}{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    "css-inspector-language-server",
			Version: strPtr("1.0.0-alpha"),
		},
	}, nil
}

// semanticTokensOptions returns v as *protocol.SemanticTokensOptions, or nil
// when v holds some other type.
func semanticTokensOptions(v any) *protocol.SemanticTokensOptions {
	opts, _ := v.(*protocol.SemanticTokensOptions)
	return opts
}

// semanticTokensCapabilities re-expresses internal/server's legend as the
// map shape needed to additionally advertise delta support, which
// protocol.SemanticTokensOptions.Full (bool-only in glsp v0.2.2) can't hold.
func semanticTokensCapabilities(opts *protocol.SemanticTokensOptions) map[string]any {
	if opts == nil {
		return nil
	}
	return map[string]any{
		"legend": map[string]any{
			"tokenTypes":     opts.Legend.TokenTypes,
			"tokenModifiers": opts.Legend.TokenModifiers,
		},
		"full": map[string]any{
			"delta": true,
		},
	}
}

func boolPtr(b bool) *bool {
	return &b
}

func strPtr(s string) *string {
	return &s
}
