package semantictokens

import (
	"fmt"
	"os"
	"strings"

	"devcss.dev/inspector/internal/documents"
	"devcss.dev/inspector/internal/inspector"
	"devcss.dev/inspector/internal/position"
	csshelpers "devcss.dev/inspector/lsp/helpers/css"
	"devcss.dev/inspector/lsp/types"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Token type indices, matching the legend advertised in initialize.go:
// tokenTypes = ["property", "value"].
const (
	tokenTypeProperty = 0
	tokenTypeValue    = 1
)

// Token modifier bitmask, matching the legend's tokenModifiers = ["disabled"].
const modifierDisabled = 1 << 0

// SemanticTokenIntermediate represents an intermediate token before delta encoding.
// Positions and lengths are in UTF-16 code units (LSP default encoding).
type SemanticTokenIntermediate struct {
	Line           int
	StartChar      int
	Length         int
	TokenType      int
	TokenModifiers int
}

// SemanticTokensFull handles the textDocument/semanticTokens/full request:
// one token per CSS declaration, covering the whole "name: value" span, with
// the disabled modifier set for properties toggled off via the inspector.
func SemanticTokensFull(ctx types.ServerContext, context *glsp.Context, params *protocol.SemanticTokensParams) (*protocol.SemanticTokens, error) {
	uri := params.TextDocument.URI
	fmt.Fprintf(os.Stderr, "[CSSI] Semantic tokens requested for: %s\n", uri)

	doc := ctx.Document(uri)
	if doc == nil {
		return nil, fmt.Errorf("document not found: %s", uri)
	}

	if doc.LanguageID() != "css" {
		return nil, nil
	}

	intermediateTokens, err := GetSemanticTokensForDocument(ctx, doc)
	if err != nil {
		return nil, err
	}

	data := encodeSemanticTokens(intermediateTokens)
	resultID := ctx.SemanticTokenCache().Store(uri, data, doc.Version())

	return &protocol.SemanticTokens{
		ResultID: &resultID,
		Data:     data,
	}, nil
}

// encodeSemanticTokens converts intermediate tokens to delta-encoded format (LSP spec)
func encodeSemanticTokens(intermediateTokens []SemanticTokenIntermediate) []uint32 {
	data := make([]uint32, 0, len(intermediateTokens)*5)
	prevLine := 0
	prevStartChar := 0

	for _, token := range intermediateTokens {
		deltaLine := token.Line - prevLine
		deltaStart := token.StartChar
		if deltaLine == 0 {
			deltaStart = token.StartChar - prevStartChar
		}

		data = append(data,
			uint32(deltaLine),      //nolint:gosec
			uint32(deltaStart),     //nolint:gosec
			uint32(token.Length),   //nolint:gosec
			uint32(token.TokenType),
			uint32(token.TokenModifiers),
		)

		prevLine = token.Line
		prevStartChar = token.StartChar
	}

	return data
}

// GetSemanticTokensForDocument walks the document's inspector view and emits
// one token per declaration (active, inactive, or disabled). Disabled
// declarations carry the modifierDisabled bit; their offsets collapse to a
// single zero-width point once toggled off, so they surface as zero-length
// tokens rather than disappearing from the response entirely.
func GetSemanticTokensForDocument(ctx types.ServerContext, doc *documents.Document) ([]SemanticTokenIntermediate, error) {
	sheet, err := ctx.Sheet(doc.URI())
	if err != nil {
		return nil, fmt.Errorf("failed to build stylesheet view: %w", err)
	}

	view, err := sheet.BuildObjectForStyleSheet()
	if err != nil {
		return nil, fmt.Errorf("failed to build stylesheet view: %w", err)
	}

	content := doc.Content()
	var tokens []SemanticTokenIntermediate

	for _, rule := range view.Rules {
		if rule.Style == nil {
			continue
		}
		for _, prop := range rule.Style.CSSProperties {
			if prop.StartOffset == nil || prop.EndOffset == nil {
				continue
			}
			tokens = append(tokens, propertyTokens(content, prop)...)
		}
	}

	return tokens, nil
}

// propertyTokens turns one declaration into its semantic tokens: a
// "property" token over the name, and - when the name/value boundary can be
// found - a "value" token over the rest of the declaration.
func propertyTokens(content string, prop inspector.PropertyView) []SemanticTokenIntermediate {
	start, end := *prop.StartOffset, *prop.EndOffset
	if end < start || int(end) > len(content) {
		return nil
	}
	declText := content[start:end]

	modifiers := 0
	if prop.Status == "disabled" {
		modifiers = modifierDisabled
	}

	startPos := csshelpers.OffsetToPosition(content, start)

	colonIdx := -1
	if prop.Status != "disabled" {
		colonIdx = strings.IndexByte(declText, ':')
	}

	if colonIdx < 0 {
		return []SemanticTokenIntermediate{{
			Line:           int(startPos.Line),
			StartChar:      int(startPos.Character),
			Length:         position.StringLengthUTF16(declText),
			TokenType:      tokenTypeProperty,
			TokenModifiers: modifiers,
		}}
	}

	nameText := declText[:colonIdx]
	valueText := declText[colonIdx+1:]
	valuePos := csshelpers.OffsetToPosition(content, start+uint32(colonIdx)+1) //nolint:gosec

	return []SemanticTokenIntermediate{
		{
			Line:           int(startPos.Line),
			StartChar:      int(startPos.Character),
			Length:         position.StringLengthUTF16(nameText),
			TokenType:      tokenTypeProperty,
			TokenModifiers: modifiers,
		},
		{
			Line:           int(valuePos.Line),
			StartChar:      int(valuePos.Character),
			Length:         position.StringLengthUTF16(valueText),
			TokenType:      tokenTypeValue,
			TokenModifiers: modifiers,
		},
	}
}

// SemanticTokensDelta handles the textDocument/semanticTokens/full/delta
// request: recomputes the current token data and diffs it against the
// cached response for params.PreviousResultID.
func SemanticTokensDelta(ctx types.ServerContext, context *glsp.Context, params *protocol.SemanticTokensDeltaParams) (any, error) {
	uri := params.TextDocument.URI
	doc := ctx.Document(uri)
	if doc == nil {
		return nil, fmt.Errorf("document not found: %s", uri)
	}

	intermediateTokens, err := GetSemanticTokensForDocument(ctx, doc)
	if err != nil {
		return nil, err
	}
	newData := encodeSemanticTokens(intermediateTokens)
	resultID := ctx.SemanticTokenCache().Store(uri, newData, doc.Version())

	previous := ctx.SemanticTokenCache().Get(params.PreviousResultID)
	if previous == nil {
		// No usable baseline: fall back to a full response, per the LSP
		// spec's allowance for servers to return SemanticTokens instead of
		// SemanticTokensDelta when the previous result is unknown.
		return &protocol.SemanticTokens{ResultID: &resultID, Data: newData}, nil
	}

	edits := ComputeDelta(previous.Data, newData)
	return &protocol.SemanticTokensDelta{
		ResultId: &resultID,
		Edits:    edits,
	}, nil
}

// SemanticTokensRange handles the textDocument/semanticTokens/range request
func SemanticTokensRange(ctx types.ServerContext, context *glsp.Context, params *protocol.SemanticTokensRangeParams) (*protocol.SemanticTokens, error) {
	doc := ctx.Document(params.TextDocument.URI)
	if doc == nil {
		return nil, fmt.Errorf("document not found: %s", params.TextDocument.URI)
	}

	intermediateTokens, err := GetSemanticTokensForDocument(ctx, doc)
	if err != nil {
		return nil, err
	}

	startLine := int(params.Range.Start.Line)
	endLine := int(params.Range.End.Line)
	startChar := int(params.Range.Start.Character)
	endChar := int(params.Range.End.Character)

	var filtered []SemanticTokenIntermediate
	for _, token := range intermediateTokens {
		if token.Line < startLine || token.Line > endLine {
			continue
		}
		if token.Line == startLine && token.StartChar < startChar {
			continue
		}
		if token.Line == endLine && token.StartChar >= endChar {
			continue
		}
		filtered = append(filtered, token)
	}

	return &protocol.SemanticTokens{
		Data: encodeSemanticTokens(filtered),
	}, nil
}
