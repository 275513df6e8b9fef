package inspector

// ParsedSheet holds the current authoring text of one stylesheet and, once
// the external parser has been run over it, a parallel slice of per-rule
// RuleSourceData. It is pure storage: nothing here calls the parser or the
// live style engine.
type ParsedSheet struct {
	text          string
	hasText       bool
	sourceData    []RuleSourceData
	hasSourceData bool
}

// SetText assigns the authoring text and drops any previously recorded
// source data - callers must re-derive it via the external parser before
// trusting RuleSourceDataAt again.
func (p *ParsedSheet) SetText(text string) {
	p.text = text
	p.hasText = true
	p.hasSourceData = false
	p.sourceData = nil
}

func (p *ParsedSheet) Text() string  { return p.text }
func (p *ParsedSheet) HasText() bool { return p.hasText }

// SetSourceData records one RuleSourceData per style-bearing rule, in the
// same order those rules appear in the live sheet.
func (p *ParsedSheet) SetSourceData(data []RuleSourceData) {
	p.sourceData = data
	p.hasSourceData = true
}

func (p *ParsedSheet) HasSourceData() bool { return p.hasSourceData }

// RuleSourceDataAt returns the source data for the style-bearing rule at
// index, or false when source data is absent or index is out of range.
func (p *ParsedSheet) RuleSourceDataAt(index int) (*RuleSourceData, bool) {
	if !p.hasSourceData || index < 0 || index >= len(p.sourceData) {
		return nil, false
	}
	return &p.sourceData[index], true
}
