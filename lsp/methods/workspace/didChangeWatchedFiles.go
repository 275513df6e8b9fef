package workspace

import (
	"fmt"
	"os"

	"devcss.dev/inspector/internal/uriutil"
	"devcss.dev/inspector/lsp/types"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// DidChangeWatchedFiles handles the workspace/didChangeWatchedFiles notification.
//
// The CSS Inspector's only source of truth for a stylesheet is the open
// document text the client sends via textDocument/didOpen|didChange - there
// is no on-disk token file to reload here, unlike the teacher's token
// watcher. This stays registered (glsp requires a handler once the
// capability is declared) purely to log external edits to open files for
// diagnosis; it never mutates server state.
func DidChangeWatchedFiles(ctx types.ServerContext, context *glsp.Context, params *protocol.DidChangeWatchedFilesParams) error {
	for _, change := range params.Changes {
		path := uriutil.URIToPath(change.URI)
		fmt.Fprintf(os.Stderr, "[CSSI] Watched file change (no-op): %s (type: %d)\n", path, change.Type)
	}
	return nil
}
