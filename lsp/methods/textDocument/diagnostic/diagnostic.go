package diagnostic

import (
	"fmt"
	"os"

	csshelpers "devcss.dev/inspector/lsp/helpers/css"
	"devcss.dev/inspector/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// DocumentDiagnostic handles the textDocument/diagnostic request (pull diagnostics).
//
// This is an LSP 3.17 feature. Since glsp v0.2.2 only supports LSP 3.16, this handler
// is called via CustomHandler which intercepts the method before it reaches protocol.Handler.
func DocumentDiagnostic(req *types.RequestContext, params *DocumentDiagnosticParams) (any, error) {
	uri := params.TextDocument.URI
	fmt.Fprintf(os.Stderr, "[CSSI] Pull diagnostics requested for: %s\n", uri)

	diagnostics, err := GetDiagnostics(req.Server, uri)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[CSSI] Error getting diagnostics: %v\n", err)
		return nil, err
	}

	return RelatedFullDocumentDiagnosticReport{
		Kind:  string(DiagnosticFull),
		Items: diagnostics,
	}, nil
}

// GetDiagnostics returns diagnostics for a document: one per property whose
// value the live style engine rejected (PropertyView.ParsedOK == false on an
// active or inactive declaration; disabled and live-only entries are skipped).
func GetDiagnostics(ctx types.ServerContext, uri string) ([]protocol.Diagnostic, error) {
	doc := ctx.Document(uri)
	if doc == nil {
		return []protocol.Diagnostic{}, nil
	}

	if doc.LanguageID() != "css" {
		return []protocol.Diagnostic{}, nil
	}

	sheet, err := ctx.Sheet(uri)
	if err != nil {
		return nil, fmt.Errorf("failed to build stylesheet view: %w", err)
	}

	view, err := sheet.BuildObjectForStyleSheet()
	if err != nil {
		return nil, fmt.Errorf("failed to build stylesheet view: %w", err)
	}

	content := doc.Content()
	diagnostics := []protocol.Diagnostic{}

	for _, rule := range view.Rules {
		if rule.Style == nil {
			continue
		}
		for _, prop := range rule.Style.CSSProperties {
			if prop.Status != "active" && prop.Status != "inactive" {
				continue
			}
			if prop.ParsedOK || prop.StartOffset == nil || prop.EndOffset == nil {
				continue
			}

			severity := protocol.DiagnosticSeverityError
			diagnostics = append(diagnostics, protocol.Diagnostic{
				Range:    csshelpers.RangeToProtocol(content, *prop.StartOffset, *prop.EndOffset),
				Severity: &severity,
				Source:   strPtr("css-inspector"),
				Message:  fmt.Sprintf("invalid value for property %q: %q", prop.Name, prop.Value),
			})
		}
	}

	return diagnostics, nil
}

func strPtr(s string) *string { return &s }
