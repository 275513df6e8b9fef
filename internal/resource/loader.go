// Package resource implements the inspector.ResourceLoader interface: it
// fetches the original text of an externally-linked stylesheet, either from
// the local filesystem (file:// URLs, and bare paths relative to a document)
// or over HTTP/HTTPS.
package resource

import (
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"devcss.dev/inspector/internal/log"
	"devcss.dev/inspector/internal/uriutil"
)

const userAgent = "css-inspector-language-server/1.0 (compatible; Go)"

// DefaultFetchTimeout bounds a single resource fetch when the server
// configuration doesn't override it.
const DefaultFetchTimeout = 10 * time.Second

// Loader fetches externally-linked stylesheet text for InspectorStyleSheet's
// resource interface. It is safe for concurrent use.
type Loader struct {
	client *http.Client
}

// NewLoader constructs a Loader whose HTTP fetches are bounded by timeout.
// A non-positive timeout falls back to DefaultFetchTimeout.
func NewLoader(timeout time.Duration) *Loader {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	return &Loader{
		client: &http.Client{Timeout: timeout},
	}
}

// FetchResourceContent retrieves the text at rawURL, satisfying
// inspector.ResourceLoader. Failures are logged and reported as a plain
// not-found rather than an error, matching the interface's contract that a
// resource fetch either produces text or doesn't.
func (l *Loader) FetchResourceContent(rawURL string) (string, bool) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		log.Warn("resource: invalid URL %q: %v", rawURL, err)
		return "", false
	}

	switch parsed.Scheme {
	case "http", "https":
		return l.fetchHTTP(rawURL)
	case "file", "":
		return l.fetchFile(rawURL)
	default:
		log.Warn("resource: unsupported scheme %q for %q", parsed.Scheme, rawURL)
		return "", false
	}
}

func (l *Loader) fetchHTTP(rawURL string) (string, bool) {
	req, err := http.NewRequest(http.MethodGet, rawURL, nil)
	if err != nil {
		log.Warn("resource: building request for %q: %v", rawURL, err)
		return "", false
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/css,*/*;q=0.1")

	resp, err := l.client.Do(req)
	if err != nil {
		log.Warn("resource: fetching %q: %v", rawURL, err)
		return "", false
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Warn("resource: %q returned HTTP %d", rawURL, resp.StatusCode)
		return "", false
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Warn("resource: reading body of %q: %v", rawURL, err)
		return "", false
	}

	return string(body), true
}

func (l *Loader) fetchFile(rawURL string) (string, bool) {
	path := rawURL
	if strings.HasPrefix(rawURL, "file:") {
		path = uriutil.URIToPath(rawURL)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		log.Warn("resource: reading %q: %v", path, err)
		return "", false
	}
	return string(data), true
}

// ResolveURL resolves a possibly-relative href against the document's own
// URL, the way a browser resolves a <link href> against its owning document.
func ResolveURL(documentURL, href string) string {
	base, err := url.Parse(documentURL)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}
