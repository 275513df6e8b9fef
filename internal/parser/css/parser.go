package css

import (
	"fmt"
	"sync"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_css "github.com/tree-sitter/tree-sitter-css/bindings/go"
)

// Parser wraps a tree-sitter CSS parser. It is not safe for concurrent use;
// acquire one per goroutine via AcquireParser.
type Parser struct {
	parser *sitter.Parser
}

func newParser() *Parser {
	parser := sitter.NewParser()
	lang := sitter.NewLanguage(tree_sitter_css.Language())
	parser.SetLanguage(lang)
	return &Parser{parser: parser}
}

var parserPool = sync.Pool{
	New: func() any { return newParser() },
}

// AcquireParser borrows a Parser from the pool, creating one if none is idle.
func AcquireParser() *Parser {
	return parserPool.Get().(*Parser)
}

// ReleaseParser returns a Parser to the pool for reuse.
func ReleaseParser(p *Parser) {
	parserPool.Put(p)
}

// ClosePool drops every parser in the pool. Called on server shutdown so the
// tree-sitter parsers' native memory is released deterministically.
func ClosePool() {
	newParserFn := parserPool.New
	parserPool.New = nil
	defer func() { parserPool.New = newParserFn }()
	for {
		v := parserPool.Get()
		if v == nil {
			return
		}
		p := v.(*Parser)
		p.parser.Close()
	}
}

// ParseSheet parses a full stylesheet and returns one RuleSourceData per
// style-bearing rule, in document order. Non-style rules (@import and other
// at-rules without a declaration body) are skipped, matching the ordinal
// rule of InspectorCSSId.
func (p *Parser) ParseSheet(text string) (*ParseResult, error) {
	source := []byte(text)
	tree := p.parser.Parse(source, nil)
	if tree == nil {
		return nil, fmt.Errorf("css: failed to parse stylesheet")
	}
	defer tree.Close()

	result := &ParseResult{Rules: []RuleSourceData{}}
	root := tree.RootNode()
	for i := uint(0); i < root.ChildCount(); i++ {
		child := root.Child(i)
		if child.Kind() != "rule_set" {
			continue
		}
		rule, ok := ruleSourceDataFromRuleSet(child, source)
		if !ok {
			continue
		}
		result.Rules = append(result.Rules, rule)
	}
	return result, nil
}

// ParseDeclaration parses a bare declaration list - the contents of an
// element's style="..." attribute - and returns its property ranges. The
// returned StyleSourceData.BodyRange is always [0, len(text)) since there is
// no enclosing block.
func (p *Parser) ParseDeclaration(text string) (*StyleSourceData, error) {
	// tree-sitter-css has no top-level "declaration list" rule, so wrap the
	// text in a synthetic rule and translate ranges back afterwards.
	wrapped := "x{" + text + "}"
	source := []byte(wrapped)
	tree := p.parser.Parse(source, nil)
	if tree == nil {
		return nil, fmt.Errorf("css: failed to parse declaration")
	}
	defer tree.Close()

	root := tree.RootNode()
	for i := uint(0); i < root.ChildCount(); i++ {
		child := root.Child(i)
		if child.Kind() != "rule_set" {
			continue
		}
		block := findChildKind(child, "block")
		if block == nil {
			continue
		}
		props := propertiesFromBlock(block, source)
		const offset = 2 // length of "x{"
		shiftProperties(props, offset)
		return &StyleSourceData{
			BodyRange:  SourceRange{Start: 0, End: uint32(len(text))},
			Properties: props,
		}, nil
	}
	return &StyleSourceData{BodyRange: SourceRange{Start: 0, End: uint32(len(text))}}, nil
}

func ruleSourceDataFromRuleSet(node *sitter.Node, source []byte) (RuleSourceData, bool) {
	selectors := findChildKind(node, "selectors")
	block := findChildKind(node, "block")
	if selectors == nil || block == nil {
		return RuleSourceData{}, false
	}

	bodyStart := block.StartByte() + 1 // past "{"
	bodyEnd := block.EndByte()
	if bodyEnd > bodyStart {
		bodyEnd-- // before "}"
	} else {
		bodyEnd = bodyStart
	}

	return RuleSourceData{
		SelectorRange: SourceRange{Start: uint32(selectors.StartByte()), End: uint32(selectors.EndByte())},
		Style: StyleSourceData{
			BodyRange:  SourceRange{Start: uint32(bodyStart), End: uint32(bodyEnd)},
			Properties: propertiesFromBlock(block, source),
		},
	}, true
}

func propertiesFromBlock(block *sitter.Node, source []byte) []PropertySourceData {
	var props []PropertySourceData
	for i := uint(0); i < block.ChildCount(); i++ {
		child := block.Child(i)
		if child.Kind() != "declaration" {
			continue
		}
		if prop, ok := propertySourceDataFromDeclaration(child, source); ok {
			props = append(props, prop)
		}
	}
	return props
}

func propertySourceDataFromDeclaration(node *sitter.Node, source []byte) (PropertySourceData, bool) {
	nameNode := findChildKind(node, "property_name")
	if nameNode == nil {
		return PropertySourceData{}, false
	}

	important := false
	var valueParts []string
	hasError := false
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		switch child.Kind() {
		case "property_name", ":", ";":
			continue
		case "important":
			important = true
		case "ERROR":
			hasError = true
		default:
			valueParts = append(valueParts, string(source[child.StartByte():child.EndByte()]))
		}
	}

	value := joinValueParts(valueParts)

	// A declaration's range runs to the end of the node, which already
	// includes a trailing ";" when the grammar attached one.
	return PropertySourceData{
		Name:      string(source[nameNode.StartByte():nameNode.EndByte()]),
		Value:     value,
		Important: important,
		ParsedOK:  !hasError,
		Range:     SourceRange{Start: uint32(node.StartByte()), End: uint32(node.EndByte())},
	}, true
}

func joinValueParts(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += " "
		}
		out += p
	}
	return out
}

func findChildKind(node *sitter.Node, kind string) *sitter.Node {
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child.Kind() == kind {
			return child
		}
	}
	return nil
}

func shiftProperties(props []PropertySourceData, delta uint32) {
	for i := range props {
		if props[i].Range.Start >= delta {
			props[i].Range.Start -= delta
			props[i].Range.End -= delta
		}
	}
}
