package types

import (
	"devcss.dev/inspector/internal/documents"
	"devcss.dev/inspector/internal/inspector"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// ServerContext provides all dependencies needed for LSP handlers.
// This unified context eliminates the need for handler-specific interfaces
// and enables dependency injection for testing.
type ServerContext interface {
	// Document operations
	Document(uri string) *documents.Document
	DocumentManager() *documents.Manager
	AllDocuments() []*documents.Document

	// Sheet returns (creating it on first use) the inspector view over the
	// CSS text currently held by the document with the given URI.
	Sheet(uri string) (*inspector.InspectorStyleSheet, error)
	InvalidateSheet(uri string)

	// Workspace operations
	RootURI() string
	RootPath() string
	SetRootURI(uri string)
	SetRootPath(path string)

	// Configuration
	GetConfig() ServerConfig
	SetConfig(config ServerConfig)

	// LSP context (for publishing diagnostics, etc.)
	GLSPContext() *glsp.Context
	SetGLSPContext(ctx *glsp.Context)

	// Client capability detection
	ClientDiagnosticCapability() *bool
	SetClientDiagnosticCapability(hasCapability bool)
	ClientCapabilities() *protocol.ClientCapabilities
	SetClientCapabilities(caps protocol.ClientCapabilities)
	SupportsSnippets() bool
	PreferredHoverFormat() protocol.MarkupKind
	SupportsDefinitionLinks() bool
	SupportsDiagnosticRelatedInfo() bool

	// Pull vs. push diagnostics (LSP 3.17 vs 3.16)
	UsePullDiagnostics() bool
	SetUsePullDiagnostics(use bool)

	// Diagnostics publishing
	PublishDiagnostics(context *glsp.Context, uri string) error

	// Server-wide warnings, surfaced independently of any one request's
	// RequestContext.warnings (e.g. background revalidation).
	AddWarning(err error)
	TakeWarnings() []error

	// Semantic token result caching, for full/delta requests.
	SemanticTokenCache() SemanticTokenCacher
}

// SemanticTokenCacheEntry is a cached semantic-tokens response for one
// document, keyed by the resultID handed back to the client.
type SemanticTokenCacheEntry struct {
	ResultID string
	Data     []uint32
	Version  int
}

// SemanticTokenCacher stores semantic token results so that
// textDocument/semanticTokens/delta can diff against the previous result
// instead of recomputing from scratch.
type SemanticTokenCacher interface {
	Store(uri string, data []uint32, version int) string
	Get(resultID string) *SemanticTokenCacheEntry
	GetByURI(uri string) *SemanticTokenCacheEntry
	Invalidate(uri string)
}
