package pattern

import "strings"

type tokenType int

const (
	tokEOF tokenType = iota
	tokInvalid
	tokReference
	tokPointer
	tokBLF
	tokBL
	tokLDR
	tok4Open
	tok4Close
	tok2Open
	tok2Close
	tokParenOpen
	tokParenClose
	tokValueOpen
	tokValueClose
	tokSeparator
	tokWhitespace
	tokPlus
	tokMinus
	tokNumber // 0x-prefixed literal
	tokHex
	tokMask
	tokBin
	tokString
)

var tokenNames = map[tokenType]string{
	tokEOF:        "EOF",
	tokInvalid:    "INVALID",
	tokReference:  "REFERENCE",
	tokPointer:    "POINTER",
	tokBLF:        "BLF",
	tokBL:         "BL",
	tokLDR:        "LDR",
	tok4Open:      "4B_BRANCH_OPEN",
	tok4Close:     "4B_BRANCH_CLOSE",
	tok2Open:      "2B_BRANCH_OPEN",
	tok2Close:     "2B_BRANCH_CLOSE",
	tokParenOpen:  "PAREN_OPEN",
	tokParenClose: "PAREN_CLOSE",
	tokValueOpen:  "VALUE_OPEN",
	tokValueClose: "VALUE_CLOSE",
	tokSeparator:  "SEPARATOR",
	tokWhitespace: "WHITESPACE",
	tokPlus:       "PLUS",
	tokMinus:      "MINUS",
	tokNumber:     "NUMBER",
	tokHex:        "HEX",
	tokMask:       "MASK",
	tokBin:        "BIN",
	tokString:     "STRING",
}

func (t tokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return "UNKNOWN"
}

var punctuation = map[byte]tokenType{
	'&': tokReference,
	'*': tokPointer,
	'(': tokParenOpen,
	')': tokParenClose,
	'[': tok2Open,
	']': tok2Close,
	'{': tok4Open,
	'}': tok4Close,
	'<': tokValueOpen,
	'>': tokValueClose,
	'+': tokPlus,
	'-': tokMinus,
	',': tokSeparator,
}

type token struct {
	typ        tokenType
	start, end int
}

// tokenizer is a one-token lookahead scanner over a pattern string.
type tokenizer struct {
	input  string
	offset int
	next   *token
}

func newTokenizer(input string) *tokenizer {
	return &tokenizer{input: input}
}

func (t *tokenizer) peek() token {
	if t.next == nil {
		tok := t.scan()
		t.next = &tok
	}
	return *t.next
}

func (t *tokenizer) advance() token {
	tok := t.peek()
	t.next = nil
	return tok
}

func (t *tokenizer) text(tok token) string {
	return t.input[tok.start:tok.end]
}

func (t *tokenizer) avail() int { return len(t.input) - t.offset }

func (t *tokenizer) at(i int) byte {
	if t.offset+i >= len(t.input) {
		return 0
	}
	return t.input[t.offset+i]
}

func (t *tokenizer) emit(typ tokenType, start int) token {
	return token{typ: typ, start: start, end: t.offset}
}

func (t *tokenizer) scan() token {
	start := t.offset
	if t.avail() == 0 {
		return t.emit(tokEOF, start)
	}

	c := t.at(0)

	if isSpace(c) {
		for t.avail() > 0 && isSpace(t.at(0)) {
			t.offset++
		}
		return t.emit(tokWhitespace, start)
	}

	if c == '[' && t.avail() >= 10 && t.at(9) == ']' && isBinaryByte(t.input[t.offset+1:t.offset+9]) {
		t.offset += 10
		return t.emit(tokBin, start)
	}

	if typ, ok := punctuation[c]; ok {
		t.offset++
		return t.emit(typ, start)
	}

	if t.hasKeyword("_blf") {
		t.offset += 4
		return t.emit(tokBLF, start)
	}

	if t.hasKeyword("ldr") {
		t.offset += 3
		return t.emit(tokLDR, start)
	}

	// "BL" is also valid hex, so it only counts as a keyword right before
	// an opening paren.
	if t.hasKeyword("bl") && t.parenFollows(2) {
		t.offset += 2
		return t.emit(tokBL, start)
	}

	if c == '0' && (t.at(1) == 'x' || t.at(1) == 'X') && isHex(t.at(2)) {
		t.offset += 3
		for t.avail() > 0 && isHex(t.at(0)) {
			t.offset++
		}
		return t.emit(tokNumber, start)
	}

	if isHexPattern(c) {
		mask := false
		for t.avail() > 0 && isHexPattern(t.at(0)) {
			if t.at(0) == '?' {
				mask = true
			}
			t.offset++
		}
		if mask {
			return t.emit(tokMask, start)
		}
		return t.emit(tokHex, start)
	}

	if c == '"' {
		end := strings.IndexByte(t.input[t.offset+1:], '"')
		if end >= 0 {
			t.offset += end + 2
			return t.emit(tokString, start)
		}
	}

	return t.emit(tokInvalid, start)
}

func (t *tokenizer) hasKeyword(kw string) bool {
	if t.avail() < len(kw) {
		return false
	}
	return strings.EqualFold(t.input[t.offset:t.offset+len(kw)], kw)
}

func (t *tokenizer) parenFollows(from int) bool {
	for i := t.offset + from; i < len(t.input); i++ {
		if isSpace(t.input[i]) {
			continue
		}
		return t.input[i] == '('
	}
	return false
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}

func isHex(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isHexPattern(c byte) bool {
	return isHex(c) || c == '?'
}

// isBinaryByte accepts eight of '0', '1', '.' with at least one '.';
// without a wildcard bit the text reads better as hex.
func isBinaryByte(s string) bool {
	wildcard := false
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '0', '1':
		case '.':
			wildcard = true
		default:
			return false
		}
	}
	return wildcard
}

func hexNibble(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10
	}
	return 0
}
