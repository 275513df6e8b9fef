package codeaction

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"devcss.dev/inspector/lsp/helpers"
	csshelpers "devcss.dev/inspector/lsp/helpers/css"
	"devcss.dev/inspector/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// commentedDeclaration matches a CSS comment whose body looks like exactly
// one declaration, e.g. "/* color: red; */" - the shape
// createDisableDeclarationAction produces.
var commentedDeclaration = regexp.MustCompile(`/\*\s*([a-zA-Z-]+\s*:\s*[^;]+;?)\s*\*/`)

// CodeAction handles the textDocument/codeAction request: for declarations
// intersecting the requested range it offers to disable (or re-enable) them,
// and for declarations with a value the style engine rejected it offers to
// remove them outright.
func CodeAction(req *types.RequestContext, params *protocol.CodeActionParams) (any, error) {
	uri := params.TextDocument.URI

	fmt.Fprintf(os.Stderr, "[CSSI] CodeAction requested: %s\n", uri)

	doc := req.Server.Document(uri)
	if doc == nil {
		return nil, nil
	}

	if doc.LanguageID() != "css" {
		return nil, nil
	}

	sheet, err := req.Server.Sheet(uri)
	if err != nil {
		return nil, fmt.Errorf("failed to build stylesheet view: %w", err)
	}

	view, err := sheet.BuildObjectForStyleSheet()
	if err != nil {
		return nil, fmt.Errorf("failed to build stylesheet view: %w", err)
	}

	content := doc.Content()
	var actions []protocol.CodeAction

	for _, rule := range view.Rules {
		if rule.Style == nil {
			continue
		}
		for _, prop := range rule.Style.CSSProperties {
			if prop.Status == "disabled" || prop.StartOffset == nil || prop.EndOffset == nil {
				continue
			}
			declRange := csshelpers.RangeToProtocol(content, *prop.StartOffset, *prop.EndOffset)
			if !helpers.RangesIntersect(params.Range, declRange) {
				continue
			}

			if !prop.ParsedOK {
				diag := matchingDiagnostic(params.Context.Diagnostics, declRange)
				if action := createRemoveInvalidDeclarationAction(content, uri, prop, diag); action != nil {
					actions = append(actions, *action)
				}
			}

			if prop.Status == "active" || prop.Status == "inactive" {
				if action := createDisableDeclarationAction(content, uri, prop); action != nil {
					actions = append(actions, *action)
				}
			}
		}
	}

	actions = append(actions, enableActionsInRange(content, uri, params.Range)...)

	fmt.Fprintf(os.Stderr, "[CSSI] Returning %d code actions\n", len(actions))

	return actions, nil
}

// enableActionsInRange finds comments shaped like a single disabled
// declaration ("/* name: value; */") that intersect the requested range and
// offers to restore each one to a live declaration.
func enableActionsInRange(content, uri string, requestedRange protocol.Range) []protocol.CodeAction {
	var actions []protocol.CodeAction

	for _, loc := range commentedDeclaration.FindAllStringSubmatchIndex(content, -1) {
		start, end := uint32(loc[0]), uint32(loc[1]) //nolint:gosec
		commentRange := csshelpers.RangeToProtocol(content, start, end)
		if !helpers.RangesIntersect(requestedRange, commentRange) {
			continue
		}

		inner := strings.TrimSpace(content[loc[2]:loc[3]])
		if !strings.HasSuffix(inner, ";") {
			inner += ";"
		}

		if action := createEnableDeclarationAction(content, uri, start, end, inner); action != nil {
			actions = append(actions, *action)
		}
	}

	return actions
}

// CodeActionResolve handles the codeAction/resolve request. Every action
// this package produces already carries its edit, so resolution is a no-op.
func CodeActionResolve(req *types.RequestContext, action *protocol.CodeAction) (*protocol.CodeAction, error) {
	fmt.Fprintf(os.Stderr, "[CSSI] CodeActionResolve requested: %s\n", action.Title)
	return action, nil
}
