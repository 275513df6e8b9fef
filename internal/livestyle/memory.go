package livestyle

import (
	"fmt"
	"strings"

	"github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
)

// shorthandLonghands maps a shorthand property to the longhands it expands
// into. Kept intentionally small - enough to exercise §4.2.8 shorthand
// resolution without reimplementing the CSS property table.
var shorthandLonghands = map[string][]string{
	"margin":        {"margin-top", "margin-right", "margin-bottom", "margin-left"},
	"padding":       {"padding-top", "padding-right", "padding-bottom", "padding-left"},
	"border-color":  {"border-top-color", "border-right-color", "border-bottom-color", "border-left-color"},
	"border-width":  {"border-top-width", "border-right-width", "border-bottom-width", "border-left-width"},
	"border-style":  {"border-top-style", "border-right-style", "border-bottom-style", "border-left-style"},
}

var longhandShorthand = func() map[string]string {
	m := make(map[string]string)
	for shorthand, longhands := range shorthandLonghands {
		for _, l := range longhands {
			m[l] = shorthand
		}
	}
	return m
}()

type declEntry struct {
	name      string
	value     string
	important bool
	implicit  bool
}

// MemDeclaration is an in-memory Declaration backed by a flat, ordered list
// of properties. It re-derives shorthand longhands on every SetCSSText,
// mimicking a real engine's cascade recomputation closely enough to drive
// the inspector's "live-only property" and "shorthand value" logic.
type MemDeclaration struct {
	entries []declEntry
}

func NewMemDeclaration() *MemDeclaration {
	return &MemDeclaration{}
}

func (d *MemDeclaration) Len() int { return len(d.entries) }

func (d *MemDeclaration) PropertyNameAt(i int) string {
	if i < 0 || i >= len(d.entries) {
		return ""
	}
	return d.entries[i].name
}

func (d *MemDeclaration) indexOf(name string) int {
	for i, e := range d.entries {
		if e.name == name {
			return i
		}
	}
	return -1
}

func (d *MemDeclaration) GetPropertyValue(name string) string {
	if i := d.indexOf(name); i >= 0 {
		return d.entries[i].value
	}
	return ""
}

func (d *MemDeclaration) GetPropertyPriority(name string) string {
	if i := d.indexOf(name); i >= 0 && d.entries[i].important {
		return "important"
	}
	return ""
}

func (d *MemDeclaration) IsPropertyImplicit(name string) bool {
	if i := d.indexOf(name); i >= 0 {
		return d.entries[i].implicit
	}
	return false
}

func (d *MemDeclaration) GetPropertyShorthand(name string) string {
	return longhandShorthand[name]
}

func (d *MemDeclaration) CSSText() string {
	var b strings.Builder
	for _, e := range d.entries {
		if e.implicit {
			continue
		}
		b.WriteString(e.name)
		b.WriteString(": ")
		b.WriteString(e.value)
		if e.important {
			b.WriteString(" !important")
		}
		b.WriteString("; ")
	}
	return strings.TrimSpace(b.String())
}

// SetCSSText re-parses text as a declaration list and replaces the explicit
// properties, then expands any shorthand present into implicit longhands
// that don't already have an explicit value of their own.
func (d *MemDeclaration) SetCSSText(text string) error {
	decls, err := parser.ParseDeclarations(text)
	if err != nil {
		return fmt.Errorf("livestyle: invalid declaration text: %w", err)
	}

	explicit := make([]declEntry, 0, len(decls))
	seen := make(map[string]int, len(decls))
	for _, decl := range decls {
		entry := declEntry{name: decl.Property, value: strings.TrimSpace(decl.Value), important: decl.Important}
		if i, ok := seen[entry.name]; ok {
			explicit[i] = entry
			continue
		}
		seen[entry.name] = len(explicit)
		explicit = append(explicit, entry)
	}

	d.entries = explicit
	d.expandShorthands()
	return nil
}

func (d *MemDeclaration) expandShorthands() {
	explicitNames := make(map[string]bool, len(d.entries))
	for _, e := range d.entries {
		explicitNames[e.name] = true
	}
	for _, e := range d.entries {
		longhands, ok := shorthandLonghands[e.name]
		if !ok {
			continue
		}
		for _, lh := range longhands {
			if explicitNames[lh] {
				continue
			}
			d.entries = append(d.entries, declEntry{name: lh, value: e.value, important: e.important, implicit: true})
		}
	}
}

// MemRule is an in-memory Rule.
type MemRule struct {
	selector   string
	style      *MemDeclaration
	sourceLine int
}

func (r *MemRule) Style() Declaration        { return r.style }
func (r *MemRule) SelectorText() string      { return r.selector }
func (r *MemRule) SetSelectorText(s string)  { r.selector = s }
func (r *MemRule) SourceLine() int           { return r.sourceLine }

// MemNode is an in-memory Node, standing in for a DOM element.
type MemNode struct {
	tagName   string
	nodeType  string
	innerText string
	attrs     map[string]string
}

func NewMemElement(tagName string) *MemNode {
	return &MemNode{tagName: tagName, nodeType: "element", attrs: make(map[string]string)}
}

func (n *MemNode) TagName() string    { return n.tagName }
func (n *MemNode) NodeType() string   { return n.nodeType }
func (n *MemNode) InnerText() string  { return n.innerText }
func (n *MemNode) SetInnerText(t string) { n.innerText = t }

func (n *MemNode) GetAttribute(name string) (string, bool) {
	v, ok := n.attrs[name]
	return v, ok
}

func (n *MemNode) SetAttribute(name, value string) error {
	n.attrs[name] = value
	return nil
}

// MemSheet is an in-memory Sheet. Rules without a declaration body (at-rules
// such as @import) are dropped entirely during ParseString, so Item never
// needs to return nil for them - every stored rule is style-bearing.
type MemSheet struct {
	rules    []*MemRule
	owner    Node
	href     string
	finalURL string
	disabled bool
	title    string
}

func NewMemSheet(owner Node) *MemSheet {
	return &MemSheet{owner: owner}
}

func (s *MemSheet) Len() int { return len(s.rules) }

func (s *MemSheet) Item(i int) Rule {
	if i < 0 || i >= len(s.rules) {
		return nil
	}
	return s.rules[i]
}

func (s *MemSheet) Remove(i int) error {
	if i < 0 || i >= len(s.rules) {
		return fmt.Errorf("livestyle: rule index %d out of range", i)
	}
	s.rules = append(s.rules[:i], s.rules[i+1:]...)
	return nil
}

func (s *MemSheet) ParseString(text string, strict bool) error {
	sheet, err := parser.Parse(text)
	if err != nil {
		return fmt.Errorf("livestyle: parse rejected: %w", err)
	}
	s.rules = rulesFromCSSStylesheet(sheet)
	return nil
}

func (s *MemSheet) AddRule(selector, body string) (Rule, error) {
	sheet, err := parser.Parse(selector + " {" + body + "}")
	if err != nil {
		return nil, fmt.Errorf("livestyle: parse rejected: %w", err)
	}
	rules := rulesFromCSSStylesheet(sheet)
	if len(rules) == 0 {
		return nil, fmt.Errorf("livestyle: no style rule produced for selector %q", selector)
	}
	rule := rules[0]
	s.rules = append(s.rules, rule)
	return rule, nil
}

func (s *MemSheet) OwnerNode() Node   { return s.owner }
func (s *MemSheet) Href() string      { return s.href }
func (s *MemSheet) FinalURL() string  { return s.finalURL }
func (s *MemSheet) Disabled() bool    { return s.disabled }
func (s *MemSheet) Title() string     { return s.title }

func (s *MemSheet) SetHref(href, finalURL string) { s.href = href; s.finalURL = finalURL }
func (s *MemSheet) SetTitle(title string)         { s.title = title }

func rulesFromCSSStylesheet(sheet *css.Stylesheet) []*MemRule {
	rules := make([]*MemRule, 0, len(sheet.Rules))
	for _, r := range sheet.Rules {
		if r.Kind == css.AtRule {
			continue // e.g. @import, @media - not style-bearing
		}
		decl := NewMemDeclaration()
		for _, d := range r.Declarations {
			decl.entries = append(decl.entries, declEntry{name: d.Property, value: strings.TrimSpace(d.Value), important: d.Important})
		}
		decl.expandShorthands()
		rules = append(rules, &MemRule{selector: strings.TrimSpace(r.Prelude), style: decl})
	}
	return rules
}
