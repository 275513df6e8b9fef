package hover

import (
	"fmt"
	"strings"

	"devcss.dev/inspector/internal/inspector"
	"devcss.dev/inspector/internal/log"
	csshelpers "devcss.dev/inspector/lsp/helpers/css"
	"devcss.dev/inspector/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Hover handles the textDocument/hover request: for a position inside a CSS
// declaration, it reports the declaration's inspector status (active,
// inactive, disabled) and, for values the live style engine rejected, why.
func Hover(req *types.RequestContext, params *protocol.HoverParams) (*protocol.Hover, error) {
	uri := params.TextDocument.URI
	position := params.Position

	log.Info("Hover requested: %s at line %d, char %d", uri, position.Line, position.Character)

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
	offset := csshelpers.PositionToOffset(content, position)
	format := req.Server.PreferredHoverFormat()

	for _, rule := range view.Rules {
		if rule.Style == nil {
			continue
		}
		for _, prop := range rule.Style.CSSProperties {
			if prop.StartOffset == nil || prop.EndOffset == nil {
				continue
			}
			if !csshelpers.ContainsOffset(*prop.StartOffset, *prop.EndOffset, offset) {
				continue
			}
			return propertyHover(content, prop, format), nil
		}
	}

	return nil, nil
}

// propertyHover renders the hover card for one declaration under the cursor.
func propertyHover(content string, prop inspector.PropertyView, format protocol.MarkupKind) *protocol.Hover {
	var b strings.Builder

	switch prop.Status {
	case "disabled":
		if format == protocol.MarkupKindPlainText {
			fmt.Fprintf(&b, "disabled declaration\n%s", prop.Text)
		} else {
			fmt.Fprintf(&b, "**disabled declaration**\n```css\n%s\n```", prop.Text)
		}
	case "inactive":
		renderActiveProperty(&b, prop, format, "overridden by a later declaration of the same property")
	case "style":
		renderActiveProperty(&b, prop, format, "resolved from the live style, no authoring text backs it")
	default: // "active"
		note := ""
		if !prop.ParsedOK {
			note = "value rejected by the style engine"
		}
		renderActiveProperty(&b, prop, format, note)
	}

	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  format,
			Value: b.String(),
		},
		Range: rangeFor(content, prop),
	}
}

func renderActiveProperty(b *strings.Builder, prop inspector.PropertyView, format protocol.MarkupKind, note string) {
	if format == protocol.MarkupKindPlainText {
		fmt.Fprintf(b, "%s: %s", prop.Name, prop.Value)
		if prop.Priority != "" {
			fmt.Fprintf(b, " !%s", prop.Priority)
		}
		if prop.ShorthandName != "" {
			fmt.Fprintf(b, "\npart of shorthand: %s", prop.ShorthandName)
		}
		if note != "" {
			fmt.Fprintf(b, "\n%s", note)
		}
		return
	}

	fmt.Fprintf(b, "```css\n%s: %s", prop.Name, prop.Value)
	if prop.Priority != "" {
		fmt.Fprintf(b, " !%s", prop.Priority)
	}
	b.WriteString(";\n```")
	if prop.ShorthandName != "" {
		fmt.Fprintf(b, "\n\npart of shorthand **%s**", prop.ShorthandName)
	}
	if note != "" {
		fmt.Fprintf(b, "\n\n⚠️ %s", note)
	}
}

func rangeFor(content string, prop inspector.PropertyView) *protocol.Range {
	if prop.StartOffset == nil || prop.EndOffset == nil {
		return nil
	}
	r := csshelpers.RangeToProtocol(content, *prop.StartOffset, *prop.EndOffset)
	return &r
}
