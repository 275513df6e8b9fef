package documentcolor

import (
	"fmt"
	"math"
	"strings"

	"devcss.dev/inspector/internal/inspector"
	"devcss.dev/inspector/internal/log"
	csshelpers "devcss.dev/inspector/lsp/helpers/css"
	"devcss.dev/inspector/lsp/types"
	"github.com/mazznoer/csscolorparser"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// DocumentColor handles the textDocument/documentColor request: one swatch
// per color-typed declaration whose value csscolorparser can resolve,
// positioned over the value text so an editor can render an inline swatch
// and drive colorPresentation edits.
func DocumentColor(req *types.RequestContext, params *protocol.DocumentColorParams) ([]protocol.ColorInformation, error) {
	uri := params.TextDocument.URI

	log.Info("DocumentColor requested: %s", uri)

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
	var colors []protocol.ColorInformation

	for _, rule := range view.Rules {
		if rule.Style == nil {
			continue
		}
		for _, prop := range rule.Style.CSSProperties {
			if prop.Status == "disabled" {
				continue
			}
			if !inspector.IsColorProperty(prop.Name) {
				continue
			}
			color, err := parseColor(prop.Value)
			if err != nil {
				continue
			}
			rng := propertyValueRange(content, prop)
			if rng == nil {
				continue
			}
			colors = append(colors, protocol.ColorInformation{
				Range: *rng,
				Color: *color,
			})
		}
	}

	log.Info("Found %d colors", len(colors))

	return colors, nil
}

// propertyValueRange narrows a declaration's whole-declaration range down to
// just its value text, so the swatch (and any edit colorPresentation
// produces) doesn't clobber the property name.
func propertyValueRange(content string, prop inspector.PropertyView) *protocol.Range {
	if prop.StartOffset == nil || prop.EndOffset == nil {
		return nil
	}
	start, end := *prop.StartOffset, *prop.EndOffset
	if end < start || int(end) > len(content) {
		return nil
	}
	declText := content[start:end]
	colonIdx := strings.IndexByte(declText, ':')
	if colonIdx < 0 {
		r := csshelpers.RangeToProtocol(content, start, end)
		return &r
	}
	rest := declText[colonIdx+1:]
	valueIdx := strings.Index(rest, prop.Value)
	if valueIdx < 0 {
		r := csshelpers.RangeToProtocol(content, start, end)
		return &r
	}
	valueStart := start + uint32(colonIdx) + 1 + uint32(valueIdx) //nolint:gosec
	valueEnd := valueStart + uint32(len(prop.Value))              //nolint:gosec
	r := csshelpers.RangeToProtocol(content, valueStart, valueEnd)
	return &r
}

// ColorPresentation handles the textDocument/colorPresentation request:
// given a color an editor's picker resolved to, offer the equivalent CSS
// value in each common textual notation.
func ColorPresentation(req *types.RequestContext, params *protocol.ColorPresentationParams) ([]protocol.ColorPresentation, error) {
	c := params.Color

	log.Info("ColorPresentation requested: %s", params.TextDocument.URI)

	r := clamp255(float64(c.Red))
	g := clamp255(float64(c.Green))
	b := clamp255(float64(c.Blue))
	a := float64(c.Alpha)

	var presentations []protocol.ColorPresentation

	if a >= 1.0 {
		presentations = append(presentations, protocol.ColorPresentation{
			Label: fmt.Sprintf("#%02x%02x%02x", r, g, b),
		})
	} else {
		presentations = append(presentations, protocol.ColorPresentation{
			Label: fmt.Sprintf("#%02x%02x%02x%02x", r, g, b, clamp255(a)),
		})
	}

	presentations = append(presentations, protocol.ColorPresentation{
		Label: fmt.Sprintf("rgb(%d, %d, %d)", r, g, b),
	})
	presentations = append(presentations, protocol.ColorPresentation{
		Label: fmt.Sprintf("rgba(%d, %d, %d, %.2f)", r, g, b, a),
	})

	h, s, l := rgbToHSL(float64(c.Red), float64(c.Green), float64(c.Blue))
	if a >= 1.0 {
		presentations = append(presentations, protocol.ColorPresentation{
			Label: fmt.Sprintf("hsl(%.0f, %.0f%%, %.0f%%)", h, s*100, l*100),
		})
	} else {
		presentations = append(presentations, protocol.ColorPresentation{
			Label: fmt.Sprintf("hsla(%.0f, %.0f%%, %.0f%%, %.2f)", h, s*100, l*100, a),
		})
	}

	return presentations, nil
}

func clamp255(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(math.Round(v * 255))
}

// rgbToHSL converts RGB channels in [0,1] to hue in degrees [0,360) and
// saturation/lightness in [0,1].
func rgbToHSL(r, g, b float64) (h, s, l float64) {
	max := math.Max(r, math.Max(g, b))
	min := math.Min(r, math.Min(g, b))
	l = (max + min) / 2

	if max == min {
		return 0, 0, l
	}

	d := max - min
	if l > 0.5 {
		s = d / (2 - max - min)
	} else {
		s = d / (max + min)
	}

	switch max {
	case r:
		h = (g - b) / d
		if g < b {
			h += 6
		}
	case g:
		h = (b-r)/d + 2
	case b:
		h = (r-g)/d + 4
	}
	h *= 60

	return h, s, l
}

// parseColor parses a CSS color value (hex, rgb, hsl, named, etc.) into a
// protocol.Color, delegating the grammar to csscolorparser.
func parseColor(value string) (*protocol.Color, error) {
	value = strings.TrimSpace(value)

	parsed, err := csscolorparser.Parse(value)
	if err != nil {
		return nil, fmt.Errorf("unsupported color format: %s", value)
	}

	return &protocol.Color{
		Red:   protocol.Decimal(parsed.R),
		Green: protocol.Decimal(parsed.G),
		Blue:  protocol.Decimal(parsed.B),
		Alpha: protocol.Decimal(parsed.A),
	}, nil
}
