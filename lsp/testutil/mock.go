package testutil

import (
	"sync"

	"devcss.dev/inspector/internal/documents"
	"devcss.dev/inspector/internal/inspector"
	"devcss.dev/inspector/internal/livestyle"
	"devcss.dev/inspector/lsp/types"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// MockServerContext implements types.ServerContext for testing.
// It provides a minimal implementation with configurable behavior via callback functions.
type MockServerContext struct {
	docs        *documents.Manager
	rootURI     string
	rootPath    string
	config      types.ServerConfig
	glspContext *glsp.Context

	sheetsMu sync.Mutex
	sheets   map[string]*inspector.InspectorStyleSheet

	clientDiagCap *bool
	clientCaps    *protocol.ClientCapabilities
	usePull       bool

	warningsMu sync.Mutex
	warnings   []error

	cache types.SemanticTokenCacher

	// Optional callbacks for custom behavior in tests
	PublishDiagnosticsFunc func(*glsp.Context, string) error

	PublishDiagnosticsCalled bool
}

// NewMockServerContext creates a new mock server context with default behavior.
func NewMockServerContext() *MockServerContext {
	return &MockServerContext{
		docs:   documents.NewManager(),
		config: types.DefaultConfig(),
		sheets: make(map[string]*inspector.InspectorStyleSheet),
	}
}

func (m *MockServerContext) Document(uri string) *documents.Document { return m.docs.Get(uri) }
func (m *MockServerContext) DocumentManager() *documents.Manager     { return m.docs }
func (m *MockServerContext) AllDocuments() []*documents.Document     { return m.docs.GetAll() }

// Sheet builds (and caches) an inspector view over the document's CSS text.
func (m *MockServerContext) Sheet(uri string) (*inspector.InspectorStyleSheet, error) {
	m.sheetsMu.Lock()
	defer m.sheetsMu.Unlock()

	if sheet, ok := m.sheets[uri]; ok {
		return sheet, nil
	}

	doc := m.docs.Get(uri)
	content := ""
	if doc != nil {
		content = doc.Content()
	}

	pageSheet := livestyle.NewMemSheet(nil)
	pageSheet.SetHref(uri, uri)
	sheet := inspector.NewInspectorStyleSheet(uri, pageSheet, "inspector", uri, nil, m.config.Strict)
	sheet.SetText(content)
	m.sheets[uri] = sheet
	return sheet, nil
}

func (m *MockServerContext) InvalidateSheet(uri string) {
	m.sheetsMu.Lock()
	defer m.sheetsMu.Unlock()
	delete(m.sheets, uri)
}

func (m *MockServerContext) RootURI() string          { return m.rootURI }
func (m *MockServerContext) RootPath() string         { return m.rootPath }
func (m *MockServerContext) SetRootURI(uri string)    { m.rootURI = uri }
func (m *MockServerContext) SetRootPath(path string)  { m.rootPath = path }
func (m *MockServerContext) GetConfig() types.ServerConfig     { return m.config }
func (m *MockServerContext) SetConfig(config types.ServerConfig) { m.config = config }

func (m *MockServerContext) GLSPContext() *glsp.Context       { return m.glspContext }
func (m *MockServerContext) SetGLSPContext(ctx *glsp.Context) { m.glspContext = ctx }

func (m *MockServerContext) ClientDiagnosticCapability() *bool { return m.clientDiagCap }
func (m *MockServerContext) SetClientDiagnosticCapability(hasCapability bool) {
	m.clientDiagCap = &hasCapability
}
func (m *MockServerContext) ClientCapabilities() *protocol.ClientCapabilities { return m.clientCaps }
func (m *MockServerContext) SetClientCapabilities(caps protocol.ClientCapabilities) {
	m.clientCaps = &caps
}
func (m *MockServerContext) SupportsSnippets() bool {
	if m.clientCaps == nil || m.clientCaps.TextDocument == nil || m.clientCaps.TextDocument.CodeAction == nil {
		return false
	}
	return false
}
func (m *MockServerContext) PreferredHoverFormat() protocol.MarkupKind {
	return protocol.MarkupKindMarkdown
}
func (m *MockServerContext) SupportsDefinitionLinks() bool      { return false }
func (m *MockServerContext) SupportsDiagnosticRelatedInfo() bool { return false }

func (m *MockServerContext) UsePullDiagnostics() bool       { return m.usePull }
func (m *MockServerContext) SetUsePullDiagnostics(use bool) { m.usePull = use }

// PublishDiagnostics publishes diagnostics for a document.
func (m *MockServerContext) PublishDiagnostics(context *glsp.Context, uri string) error {
	m.PublishDiagnosticsCalled = true
	if m.PublishDiagnosticsFunc != nil {
		return m.PublishDiagnosticsFunc(context, uri)
	}
	return nil
}

func (m *MockServerContext) AddWarning(err error) {
	if err == nil {
		return
	}
	m.warningsMu.Lock()
	defer m.warningsMu.Unlock()
	m.warnings = append(m.warnings, err)
}

func (m *MockServerContext) TakeWarnings() []error {
	m.warningsMu.Lock()
	defer m.warningsMu.Unlock()
	out := m.warnings
	m.warnings = nil
	return out
}

func (m *MockServerContext) SemanticTokenCache() types.SemanticTokenCacher {
	if m.cache == nil {
		m.cache = &mockCache{entries: make(map[string]*types.SemanticTokenCacheEntry), byURI: make(map[string]string)}
	}
	return m.cache
}

type mockCache struct {
	mu      sync.Mutex
	entries map[string]*types.SemanticTokenCacheEntry
	byURI   map[string]string
	counter int
}

func (c *mockCache) Store(uri string, data []uint32, version int) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counter++
	id := "mock-" + string(rune('0'+c.counter))
	c.entries[id] = &types.SemanticTokenCacheEntry{ResultID: id, Data: data, Version: version}
	c.byURI[uri] = id
	return id
}

func (c *mockCache) Get(resultID string) *types.SemanticTokenCacheEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries[resultID]
}

func (c *mockCache) GetByURI(uri string) *types.SemanticTokenCacheEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	if id, ok := c.byURI[uri]; ok {
		return c.entries[id]
	}
	return nil
}

func (c *mockCache) Invalidate(uri string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if id, ok := c.byURI[uri]; ok {
		delete(c.entries, id)
		delete(c.byURI, uri)
	}
}
