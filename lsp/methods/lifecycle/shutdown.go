package lifecycle

import (
	"fmt"
	"os"

	"devcss.dev/inspector/internal/parser/css"
	"devcss.dev/inspector/lsp/types"
	"github.com/tliron/glsp"
)

// Shutdown handles the LSP shutdown request
func Shutdown(ctx types.ServerContext, context *glsp.Context) error {
	fmt.Fprintf(os.Stderr, "[CSSI] Server shutting down\n")

	// Clean up the CSS parser pool
	// Note: This is currently handled by server.Close() but we put it here
	// for completeness in case we need other cleanup logic
	css.ClosePool()

	return nil
}
