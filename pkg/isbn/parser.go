package isbn

// Parser runs the recognise, checksum and decompose pipeline against one
// range table. A Parser holds no mutable state and is safe for concurrent use.
type Parser struct {
	table *RangeTable
	forms Forms
}

// NewParser returns a parser over table accepting the given forms. A nil
// table selects DefaultRangeTable.
func NewParser(table *RangeTable, forms Forms) *Parser {
	if table == nil {
		table = DefaultRangeTable()
	}
	if forms == 0 {
		forms = FormBoth
	}
	return &Parser{table: table, forms: forms}
}

// Table returns the range table the parser decomposes against.
func (p *Parser) Table() *RangeTable { return p.table }

// Forms returns the accepted input forms.
func (p *Parser) Forms() Forms { return p.forms }

// Parse turns free text into an Identifier. The returned error is one of the
// data errors declared in this package.
func (p *Parser) Parse(text string) (Identifier, error) {
	raw, err := Recognize(text, p.forms)
	if err != nil {
		return Identifier{}, err
	}
	if !ValidChecksum(raw) {
		return Identifier{}, ErrInvalidCheckDigit
	}
	if len(raw) == 10 {
		if raw, err = To13(raw); err != nil {
			return Identifier{}, err
		}
	}
	return Decompose(raw, p.table)
}

// MustParse is like Parse but panics on failure.
func (p *Parser) MustParse(text string) Identifier {
	id, err := p.Parse(text)
	if err != nil {
		panic(err)
	}
	return id
}

// TryParse is like Parse but reports failure as ok == false.
func (p *Parser) TryParse(text string) (Identifier, bool) {
	id, err := p.Parse(text)
	return id, err == nil
}

// IsValid reports whether text parses.
func (p *Parser) IsValid(text string) bool {
	_, err := p.Parse(text)
	return err == nil
}

// ValidateChecksum reports whether text is recognised and its check digit is
// correct. The range table is not consulted.
func (p *Parser) ValidateChecksum(text string) bool {
	raw, err := Recognize(text, p.forms)
	return err == nil && ValidChecksum(raw)
}

// Result is the serialisable outcome of a parse. Agency is looked up in the
// parser's range table.
type Result struct {
	Input  string      `json:"input"`
	ISBN   *Identifier `json:"isbn,omitempty"`
	Agency string      `json:"agency,omitempty"`
	Error  string      `json:"error,omitempty"`
	Kind   Kind        `json:"kind,omitempty"`
}

// OK reports whether the parse succeeded.
func (r Result) OK() bool { return r.ISBN != nil }

// Err returns the failure as an error, or nil.
func (r Result) Err() error {
	for _, k := range kinds {
		if k.kind == r.Kind {
			return k.err
		}
	}
	return nil
}

// ParseResult runs Parse and packs the outcome into a Result.
func (p *Parser) ParseResult(text string) Result {
	id, err := p.Parse(text)
	if err != nil {
		return Result{Input: text, Error: err.Error(), Kind: KindOf(err)}
	}
	return Result{Input: text, ISBN: &id, Agency: id.AgencyIn(p.table)}
}
