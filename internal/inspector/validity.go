package inspector

import "github.com/mazznoer/csscolorparser"

// colorProperties lists the property names whose value grammar is "a
// color": the tree-sitter parser accepts their syntactic shape, but only
// csscolorparser tells us whether the value is semantically a real color.
var colorProperties = map[string]bool{
	"color":                 true,
	"background-color":      true,
	"border-color":          true,
	"border-top-color":      true,
	"border-right-color":    true,
	"border-bottom-color":   true,
	"border-left-color":     true,
	"outline-color":         true,
	"text-decoration-color": true,
	"caret-color":           true,
	"fill":                  true,
	"stroke":                true,
}

// IsColorProperty reports whether name is one of the properties whose
// value grammar is "a color", per colorProperties.
func IsColorProperty(name string) bool {
	return colorProperties[name]
}

// refineColorValidity downgrades ParsedOK to false for color-typed
// properties whose value csscolorparser can't resolve, e.g.
// `color: not-a-color;` - syntactically a plain value, semantically bogus.
func refineColorValidity(props []PropertySourceData) {
	for i := range props {
		if !props[i].ParsedOK || !colorProperties[props[i].Name] {
			continue
		}
		if _, err := csscolorparser.Parse(props[i].Value); err != nil {
			props[i].ParsedOK = false
		}
	}
}

// refineRuleColorValidity applies refineColorValidity to every rule's
// properties in place.
func refineRuleColorValidity(rules []RuleSourceData) {
	for i := range rules {
		refineColorValidity(rules[i].Style.Properties)
	}
}
