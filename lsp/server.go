package lsp

import (
	"fmt"
	"sync"

	"devcss.dev/inspector/internal/documents"
	"devcss.dev/inspector/internal/inspector"
	"devcss.dev/inspector/internal/livestyle"
	"devcss.dev/inspector/internal/log"
	"devcss.dev/inspector/internal/parser/css"
	"devcss.dev/inspector/internal/resource"
	"devcss.dev/inspector/lsp/methods/lifecycle"
	"devcss.dev/inspector/lsp/methods/textDocument"
	codeaction "devcss.dev/inspector/lsp/methods/textDocument/codeAction"
	"devcss.dev/inspector/lsp/methods/textDocument/diagnostic"
	documentcolor "devcss.dev/inspector/lsp/methods/textDocument/documentColor"
	"devcss.dev/inspector/lsp/methods/textDocument/hover"
	semantictokens "devcss.dev/inspector/lsp/methods/textDocument/semanticTokens"
	"devcss.dev/inspector/lsp/methods/workspace"
	"devcss.dev/inspector/lsp/types"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"
)

// Verify that Server implements ServerContext interface
var _ types.ServerContext = (*Server)(nil)

// Server represents the CSS Inspector language server.
type Server struct {
	documents  *documents.Manager
	glspServer *server.Server
	context    *glsp.Context

	rootURI  string             // Workspace root URI
	rootPath string             // Workspace root path (file system)
	config   types.ServerConfig // Server configuration
	configMu sync.RWMutex       // Protects rootURI, rootPath, config, context, clientDiagnosticCapability, usePullDiagnostics, clientCaps

	clientDiagnosticCapability *bool // Client's diagnostic capability detected from raw initialize params (nil = not detected yet)
	usePullDiagnostics         bool  // Whether to use pull diagnostics (LSP 3.17) vs push (LSP 3.0)
	clientCaps                 *protocol.ClientCapabilities

	sheetsMu sync.Mutex
	sheets   map[string]*inspector.InspectorStyleSheet

	tokenCache *semantictokens.TokenCache

	warningsMu sync.Mutex
	warnings   []error
}

// NewServer creates a new CSS Inspector LSP server.
func NewServer() (*Server, error) {
	s := &Server{
		documents:  documents.NewManager(),
		config:     types.DefaultConfig(),
		sheets:     make(map[string]*inspector.InspectorStyleSheet),
		tokenCache: semantictokens.NewTokenCache(),
	}

	// Create the GLSP server with our handlers wrapped with middleware
	protocolHandler := protocol.Handler{
		Initialize:                      requestMethod(s, "initialize", lifecycle.Initialize),
		Initialized:                     notify(s, "initialized", lifecycle.Initialized),
		Shutdown:                        noParam(s, "shutdown", lifecycle.Shutdown),
		SetTrace:                        requestNotify(s, "$/setTrace", lifecycle.SetTrace),
		WorkspaceDidChangeConfiguration: notify(s, "workspace/didChangeConfiguration", workspace.DidChangeConfiguration),
		WorkspaceDidChangeWatchedFiles:  notify(s, "workspace/didChangeWatchedFiles", workspace.DidChangeWatchedFiles),
		TextDocumentDidOpen:             requestNotify(s, "textDocument/didOpen", textDocument.DidOpen),
		TextDocumentDidChange:           requestNotify(s, "textDocument/didChange", textDocument.DidChange),
		TextDocumentDidClose:            requestNotify(s, "textDocument/didClose", textDocument.DidClose),
		TextDocumentHover:               requestMethod(s, "textDocument/hover", hover.Hover),
		TextDocumentColor:               requestMethod(s, "textDocument/documentColor", documentcolor.DocumentColor),
		TextDocumentColorPresentation:   requestMethod(s, "textDocument/colorPresentation", documentcolor.ColorPresentation),
		TextDocumentCodeAction:          requestMethod(s, "textDocument/codeAction", codeaction.CodeAction),
		CodeActionResolve:               requestMethod(s, "codeAction/resolve", codeaction.CodeActionResolve),
		TextDocumentSemanticTokensFull:  method(s, "textDocument/semanticTokens/full", semantictokens.SemanticTokensFull),
	}

	// WORKAROUND: Wrap with custom handler to support LSP 3.17 features
	// The CustomHandler intercepts LSP 3.17 methods (like textDocument/diagnostic
	// and the delta variant of semanticTokens/full) before they reach
	// protocol.Handler, which only knows about LSP 3.16 methods. When glsp is
	// updated to LSP 3.17, we can remove CustomHandler and use
	// protocol_3_17.Handler directly.
	customHandler := &CustomHandler{
		Handler: &protocolHandler,
		server:  s,
	}

	// Create GLSP server with debug enabled for stdio
	s.glspServer = server.NewServer(customHandler, "css-inspector", true)

	return s, nil
}

// RunStdio starts the LSP server using stdio transport
func (s *Server) RunStdio() error {
	return s.glspServer.RunStdio()
}

// Close releases server resources including the CSS parser pool.
// It is safe to call Close multiple times.
// This method should be called when the server is no longer needed,
// typically in test cleanup via defer server.Close().
func (s *Server) Close() error {
	css.ClosePool()
	return nil
}

// ServerContext interface implementation

// Document returns the document with the given URI
func (s *Server) Document(uri string) *documents.Document {
	return s.documents.Get(uri)
}

// DocumentManager returns the document manager
func (s *Server) DocumentManager() *documents.Manager {
	return s.documents
}

// AllDocuments returns all tracked documents
func (s *Server) AllDocuments() []*documents.Document {
	return s.documents.GetAll()
}

// Sheet builds (and caches) an inspector view over the document's current
// CSS text. Callers that mutate the underlying document must call
// InvalidateSheet so the next Sheet call rebuilds from the fresh text.
func (s *Server) Sheet(uri string) (*inspector.InspectorStyleSheet, error) {
	s.sheetsMu.Lock()
	defer s.sheetsMu.Unlock()

	if sheet, ok := s.sheets[uri]; ok {
		return sheet, nil
	}

	doc := s.documents.Get(uri)
	content := ""
	if doc != nil {
		content = doc.Content()
	}

	config := s.GetConfig()

	pageSheet := livestyle.NewMemSheet(nil)
	pageSheet.SetHref(uri, uri)
	loader := resource.NewLoader(config.ResourceFetchTimeout())
	sheet := inspector.NewInspectorStyleSheet(uri, pageSheet, "inspector", uri, loader, config.Strict)
	sheet.SetText(content)
	s.sheets[uri] = sheet
	return sheet, nil
}

// InvalidateSheet evicts any cached inspector view for uri.
func (s *Server) InvalidateSheet(uri string) {
	s.sheetsMu.Lock()
	defer s.sheetsMu.Unlock()
	delete(s.sheets, uri)
}

// RootURI returns the workspace root URI
func (s *Server) RootURI() string {
	s.configMu.RLock()
	defer s.configMu.RUnlock()
	return s.rootURI
}

// RootPath returns the workspace root path
func (s *Server) RootPath() string {
	s.configMu.RLock()
	defer s.configMu.RUnlock()
	return s.rootPath
}

// SetRootURI sets the workspace root URI
func (s *Server) SetRootURI(uri string) {
	s.configMu.Lock()
	defer s.configMu.Unlock()
	s.rootURI = uri
}

// SetRootPath sets the workspace root path
func (s *Server) SetRootPath(path string) {
	s.configMu.Lock()
	defer s.configMu.Unlock()
	s.rootPath = path
}

// GetConfig returns the current server configuration.
func (s *Server) GetConfig() types.ServerConfig {
	s.configMu.RLock()
	defer s.configMu.RUnlock()
	return s.config
}

// SetConfig replaces the current server configuration.
func (s *Server) SetConfig(config types.ServerConfig) {
	s.configMu.Lock()
	defer s.configMu.Unlock()
	s.config = config
}

// GLSPContext returns the GLSP context.
// Access is protected by configMu to prevent concurrent races.
func (s *Server) GLSPContext() *glsp.Context {
	s.configMu.RLock()
	defer s.configMu.RUnlock()
	return s.context
}

// SetGLSPContext sets the GLSP context.
// Access is protected by configMu to prevent concurrent races.
func (s *Server) SetGLSPContext(ctx *glsp.Context) {
	s.configMu.Lock()
	defer s.configMu.Unlock()
	s.context = ctx
}

// ClientDiagnosticCapability returns the detected client diagnostic capability.
// Returns nil if capability detection has not yet occurred (e.g., before initialize).
// Access is protected by configMu to prevent concurrent races.
func (s *Server) ClientDiagnosticCapability() *bool {
	s.configMu.RLock()
	defer s.configMu.RUnlock()
	return s.clientDiagnosticCapability
}

// SetClientDiagnosticCapability sets the client's diagnostic capability based on
// detection from raw initialize params. This should be called by the CustomHandler
// when it intercepts the initialize request and parses client capabilities.
// Access is protected by configMu to prevent concurrent races.
func (s *Server) SetClientDiagnosticCapability(hasCapability bool) {
	s.configMu.Lock()
	defer s.configMu.Unlock()
	s.clientDiagnosticCapability = &hasCapability
}

// ClientCapabilities returns the capabilities the client advertised at
// initialize time, or nil if initialize hasn't happened yet.
func (s *Server) ClientCapabilities() *protocol.ClientCapabilities {
	s.configMu.RLock()
	defer s.configMu.RUnlock()
	return s.clientCaps
}

// SetClientCapabilities records the capabilities the client advertised.
func (s *Server) SetClientCapabilities(caps protocol.ClientCapabilities) {
	s.configMu.Lock()
	defer s.configMu.Unlock()
	s.clientCaps = &caps
}

// SupportsSnippets reports whether the client accepts snippet-format edits,
// as advertised via its completion-item capabilities.
func (s *Server) SupportsSnippets() bool {
	caps := s.ClientCapabilities()
	if caps == nil || caps.TextDocument == nil || caps.TextDocument.Completion == nil {
		return false
	}
	item := caps.TextDocument.Completion.CompletionItem
	if item == nil || item.SnippetSupport == nil {
		return false
	}
	return *item.SnippetSupport
}

// PreferredHoverFormat returns the markup kind to use for hover content.
func (s *Server) PreferredHoverFormat() protocol.MarkupKind {
	caps := s.ClientCapabilities()
	if caps == nil || caps.TextDocument == nil || caps.TextDocument.Hover == nil {
		return protocol.MarkupKindMarkdown
	}
	for _, format := range caps.TextDocument.Hover.ContentFormat {
		if format == protocol.MarkupKindMarkdown {
			return protocol.MarkupKindMarkdown
		}
	}
	if len(caps.TextDocument.Hover.ContentFormat) > 0 {
		return caps.TextDocument.Hover.ContentFormat[0]
	}
	return protocol.MarkupKindMarkdown
}

// SupportsDefinitionLinks reports whether the client understands
// LocationLink-style definition responses.
func (s *Server) SupportsDefinitionLinks() bool {
	caps := s.ClientCapabilities()
	if caps == nil || caps.TextDocument == nil || caps.TextDocument.Definition == nil {
		return false
	}
	return caps.TextDocument.Definition.LinkSupport != nil && *caps.TextDocument.Definition.LinkSupport
}

// SupportsDiagnosticRelatedInfo reports whether the client can render
// relatedInformation on diagnostics.
func (s *Server) SupportsDiagnosticRelatedInfo() bool {
	caps := s.ClientCapabilities()
	if caps == nil || caps.TextDocument == nil || caps.TextDocument.PublishDiagnostics == nil {
		return false
	}
	return caps.TextDocument.PublishDiagnostics.RelatedInformation != nil && *caps.TextDocument.PublishDiagnostics.RelatedInformation
}

// UsePullDiagnostics returns whether the client supports pull diagnostics (LSP 3.17)
// If true, the server should NOT send push diagnostics (textDocument/publishDiagnostics)
// and instead wait for the client to request diagnostics via textDocument/diagnostic
func (s *Server) UsePullDiagnostics() bool {
	s.configMu.RLock()
	defer s.configMu.RUnlock()
	return s.usePullDiagnostics
}

// SetUsePullDiagnostics sets whether to use pull diagnostics based on client capabilities
func (s *Server) SetUsePullDiagnostics(use bool) {
	s.configMu.Lock()
	defer s.configMu.Unlock()
	s.usePullDiagnostics = use
}

// PublishDiagnostics publishes diagnostics for a document
func (s *Server) PublishDiagnostics(context *glsp.Context, uri string) error {
	log.Info("Publishing diagnostics for: %s", uri)

	// Select a working context: use passed-in context if non-nil, otherwise fall back to server's context
	workingContext := context
	if workingContext == nil {
		workingContext = s.GLSPContext()
	}

	// If we still don't have a context, fail fast
	if workingContext == nil {
		return fmt.Errorf("cannot publish diagnostics: no client context available")
	}

	// If server is configured to use pull diagnostics, don't publish (client will request)
	if s.UsePullDiagnostics() {
		return nil
	}

	diagnostics, err := diagnostic.GetDiagnostics(s, uri)
	if err != nil {
		return err
	}

	// Publish diagnostics to the client using the selected context
	workingContext.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})

	return nil
}

// AddWarning records a non-fatal warning surfaced during request handling.
func (s *Server) AddWarning(err error) {
	if err == nil {
		return
	}
	s.warningsMu.Lock()
	defer s.warningsMu.Unlock()
	s.warnings = append(s.warnings, err)
}

// TakeWarnings drains and returns any warnings recorded since the last call.
func (s *Server) TakeWarnings() []error {
	s.warningsMu.Lock()
	defer s.warningsMu.Unlock()
	out := s.warnings
	s.warnings = nil
	return out
}

// SemanticTokenCache returns the server's cache of previously computed
// semantic tokens, used to answer textDocument/semanticTokens/full/delta.
func (s *Server) SemanticTokenCache() types.SemanticTokenCacher {
	return s.tokenCache
}
