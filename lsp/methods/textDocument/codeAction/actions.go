package codeaction

import (
	"fmt"

	"devcss.dev/inspector/internal/inspector"
	csshelpers "devcss.dev/inspector/lsp/helpers/css"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// createDisableDeclarationAction wraps a live declaration's source text in a
// CSS comment, the textual analogue of the inspector's ToggleProperty RPC:
// the declaration stops taking effect but its text is preserved for later
// re-enabling.
func createDisableDeclarationAction(content, uri string, prop inspector.PropertyView) *protocol.CodeAction {
	if prop.StartOffset == nil || prop.EndOffset == nil {
		return nil
	}
	start, end := *prop.StartOffset, *prop.EndOffset
	if end < start || int(end) > len(content) {
		return nil
	}
	declText := content[start:end]

	kind := protocol.CodeActionKindRefactorRewrite
	return &protocol.CodeAction{
		Title: fmt.Sprintf("Disable declaration %q", prop.Name),
		Kind:  &kind,
		Edit: &protocol.WorkspaceEdit{
			Changes: map[string][]protocol.TextEdit{
				uri: {
					{
						Range:   csshelpers.RangeToProtocol(content, start, end),
						NewText: "/* " + declText + " */",
					},
				},
			},
		},
	}
}

// createEnableDeclarationAction unwraps a comment of the shape "/* name:
// value; */" back into a live declaration, the inverse of
// createDisableDeclarationAction.
func createEnableDeclarationAction(content, uri string, start, end uint32, inner string) *protocol.CodeAction {
	kind := protocol.CodeActionKindRefactorRewrite
	return &protocol.CodeAction{
		Title: "Enable commented-out declaration",
		Kind:  &kind,
		Edit: &protocol.WorkspaceEdit{
			Changes: map[string][]protocol.TextEdit{
				uri: {
					{
						Range:   csshelpers.RangeToProtocol(content, start, end),
						NewText: inner,
					},
				},
			},
		},
	}
}

// createRemoveInvalidDeclarationAction deletes a declaration whose value the
// style engine rejected. Attached to the matching diagnostic, if any, and
// marked preferred since there's no other reasonable autofix for a bad
// value - the author has to supply a new one by hand.
func createRemoveInvalidDeclarationAction(content, uri string, prop inspector.PropertyView, matchingDiag *protocol.Diagnostic) *protocol.CodeAction {
	if prop.StartOffset == nil || prop.EndOffset == nil {
		return nil
	}
	start, end := *prop.StartOffset, *prop.EndOffset
	if end < start || int(end) > len(content) {
		return nil
	}

	kind := protocol.CodeActionKindQuickFix
	action := &protocol.CodeAction{
		Title: fmt.Sprintf("Remove invalid declaration %q", prop.Name),
		Kind:  &kind,
		Edit: &protocol.WorkspaceEdit{
			Changes: map[string][]protocol.TextEdit{
				uri: {
					{
						Range:   csshelpers.RangeToProtocol(content, start, end),
						NewText: "",
					},
				},
			},
		},
	}
	if matchingDiag != nil {
		action.Diagnostics = []protocol.Diagnostic{*matchingDiag}
		preferred := true
		action.IsPreferred = &preferred
	}
	return action
}

// matchingDiagnostic finds the diagnostic (if any) whose range starts at the
// same position as the given range, so a generated action can attach itself
// to the editor's existing red-squiggle context.
func matchingDiagnostic(diagnostics []protocol.Diagnostic, r protocol.Range) *protocol.Diagnostic {
	for i := range diagnostics {
		if diagnostics[i].Range.Start == r.Start {
			return &diagnostics[i]
		}
	}
	return nil
}
