package lifecycle

import (
	"fmt"
	"os"

	"devcss.dev/inspector/lsp/types"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Initialized handles the LSP initialized notification
func Initialized(ctx types.ServerContext, context *glsp.Context, params *protocol.InitializedParams) error {
	fmt.Fprintf(os.Stderr, "[CSSI] Server initialized\n")

	// Store context for later use (diagnostics)
	ctx.SetGLSPContext(context)

	return nil
}
