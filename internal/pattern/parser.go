package pattern

import (
	"strconv"
	"strings"
)

type parser struct {
	tok  *tokenizer
	expr *Expr
}

// Parse parses a pattern. Empty input yields an empty offset pattern.
func Parse(text string) (*Expr, error) {
	p := &parser{tok: newTokenizer(text), expr: &Expr{}}
	if err := p.parse(); err != nil {
		return nil, err
	}
	return p.expr, nil
}

// MustParse is like Parse but panics on error. Intended for tests and
// package-level pattern constants.
func MustParse(text string) *Expr {
	e, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return e
}

func (p *parser) parse() error {
	p.skipWhitespace()

	var err error
	switch p.tok.peek().typ {
	case tokPointer, tokReference:
		err = p.parseReferenceOrPointer()
	case tokValueOpen:
		err = p.parseStaticValue()
	case tokEOF:
		// empty pattern
	case tokInvalid:
		err = p.errorf("Syntax error")
	default:
		p.expr.Type = TypeOffset
		err = p.parseBody()
	}
	if err != nil {
		return err
	}

	p.skipWhitespace()
	if p.tok.peek().typ != tokEOF {
		return p.errorf("Unexpected tokens after end of pattern")
	}
	return nil
}

func (p *parser) parseStaticValue() error {
	p.tok.advance()
	p.skipWhitespace()

	if err := p.expect(tokHex, tokNumber); err != nil {
		return err
	}
	v, err := strconv.ParseUint(trimHexPrefix(p.tok.text(p.tok.peek())), 16, 32)
	if err != nil {
		return p.errorf("Invalid static value")
	}
	p.tok.advance()
	p.expr.Type = TypeStaticValue
	p.expr.StaticValue = uint32(v)

	p.skipWhitespace()
	if err := p.expect(tokValueClose); err != nil {
		return err
	}
	p.tok.advance()
	return nil
}

func (p *parser) parseReferenceOrPointer() error {
	if p.tok.advance().typ == tokPointer {
		p.expr.Type = TypePointer
	} else {
		p.expr.Type = TypeReference
		p.skipWhitespace()
		if p.tok.peek().typ == tokBL {
			p.tok.advance()
			p.expr.Type = TypeBranchReference
		}
	}

	p.skipWhitespace()
	if err := p.expect(tokParenOpen); err != nil {
		return err
	}
	p.tok.advance()

	if err := p.parseBody(); err != nil {
		return err
	}

	p.skipWhitespace()
	if err := p.expect(tokParenClose); err != nil {
		return err
	}
	p.tok.advance()

	off, err := p.parseOffset()
	if err != nil {
		return err
	}
	p.expr.OutputOffset = off
	return nil
}

// parseBody parses pattern data followed by an optional input offset. The
// data may be wrapped in parens: ( AB CD ) + 1.
func (p *parser) parseBody() error {
	p.skipWhitespace()

	wrapped := p.tok.peek().typ == tokParenOpen
	if wrapped {
		p.tok.advance()
	}
	if err := p.parseData(); err != nil {
		return err
	}
	if wrapped {
		if err := p.expect(tokParenClose); err != nil {
			return err
		}
		p.tok.advance()
	}

	off, err := p.parseOffset()
	if err != nil {
		return err
	}
	p.expr.InputOffset = off
	return nil
}

func (p *parser) parseOffset() (int, error) {
	p.skipWhitespace()
	typ := p.tok.peek().typ
	if typ != tokPlus && typ != tokMinus {
		return 0, nil
	}
	p.tok.advance()

	p.skipWhitespace()
	if err := p.expect(tokHex, tokNumber); err != nil {
		return 0, err
	}
	v, err := strconv.ParseInt(trimHexPrefix(p.tok.text(p.tok.peek())), 16, 32)
	if err != nil {
		return 0, p.errorf("Invalid offset")
	}
	p.tok.advance()

	if typ == tokMinus {
		v = -v
	}
	return int(v), nil
}

// parseData consumes bytes and sub-patterns until something else shows up.
func (p *parser) parseData() error {
	for {
		tok := p.tok.peek()
		var err error
		switch tok.typ {
		case tokHex, tokMask:
			err = p.parseHexMask()
		case tokBin:
			p.parseBinMask()
		case tok2Open:
			err = p.parseSub(SubBranch2, tok2Open, tok2Close)
		case tok4Open:
			err = p.parseSub(SubBranch4, tok4Open, tok4Close)
		case tokBLF:
			p.tok.advance()
			p.skipWhitespace()
			err = p.parseSub(SubBranch4, tokParenOpen, tokParenClose)
		case tokLDR:
			p.tok.advance()
			p.skipWhitespace()
			switch p.tok.peek().typ {
			case tok2Open:
				err = p.parseSub(SubLDR2, tok2Open, tok2Close)
			default:
				err = p.parseSub(SubLDR4, tok4Open, tok4Close)
			}
		case tokString:
			err = p.parseString()
		case tokSeparator, tokWhitespace:
			p.tok.advance()
		case tokInvalid:
			err = p.errorf("Syntax error")
		default:
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (p *parser) parseHexMask() error {
	value := p.tok.text(p.tok.peek())
	if len(value)%2 != 0 {
		return p.errorf("The hex number length must be even")
	}

	for i := 0; i < len(value); i += 2 {
		var b, m byte
		if value[i] != '?' {
			m |= 0xF0
			b |= hexNibble(value[i]) << 4
		}
		if value[i+1] != '?' {
			m |= 0x0F
			b |= hexNibble(value[i+1])
		}
		p.expr.push(b, m)
	}

	p.tok.advance()
	return nil
}

func (p *parser) parseBinMask() {
	value := p.tok.text(p.tok.advance())
	var b, m byte
	for i := 1; i <= 8; i++ {
		bit := byte(1) << (8 - i)
		switch value[i] {
		case '1':
			m |= bit
			b |= bit
		case '0':
			m |= bit
		}
	}
	p.expr.push(b, m)
}

func (p *parser) parseSub(typ SubType, opening, closing tokenType) error {
	if err := p.expect(opening); err != nil {
		return err
	}
	p.tok.advance()

	parent := p.expr
	p.expr = &Expr{}
	err := p.parseData()
	child := p.expr
	p.expr = parent
	if err != nil {
		return err
	}

	if err := p.expect(closing); err != nil {
		return err
	}
	p.tok.advance()

	p.addSub(typ, child)
	return nil
}

func (p *parser) parseString() error {
	value := p.tok.text(p.tok.peek())
	text := value[1 : len(value)-1]
	if text == "" {
		return p.errorf("Empty string not allowed")
	}
	p.tok.advance()

	child := &Expr{}
	for i := 0; i < len(text); i++ {
		child.push(text[i], 0xFF)
	}
	p.addSub(SubString, child)
	return nil
}

// addSub reserves a wildcard slot for a sub-pattern in the current expr.
func (p *parser) addSub(typ SubType, child *Expr) {
	size := typ.Size()
	p.expr.Subs = append(p.expr.Subs, Sub{
		Type:   typ,
		Expr:   child,
		Offset: p.expr.Len(),
		Size:   size,
	})
	for i := 0; i < size; i++ {
		p.expr.push(0, 0)
	}
}

func (p *parser) skipWhitespace() {
	for p.tok.peek().typ == tokWhitespace {
		p.tok.advance()
	}
}

func (p *parser) expect(types ...tokenType) error {
	got := p.tok.peek().typ
	for _, t := range types {
		if got == t {
			return nil
		}
	}
	switch got {
	case tokEOF:
		return p.errorf("Unexpected EOF")
	case tokInvalid:
		return p.errorf("Syntax error")
	}
	return p.errorf("Unexpected token " + got.String())
}

func (p *parser) errorf(msg string) error {
	return newSyntaxError(p.tok.input, p.tok.peek().start, msg)
}

func trimHexPrefix(s string) string {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return s[2:]
	}
	return s
}
