package pattern

// Type says how a match is turned into a result value.
type Type int

const (
	// TypeOffset yields the address of the match.
	TypeOffset Type = iota
	// TypePointer reads a 32-bit word at the match.
	TypePointer
	// TypeReference decodes an LDR at the match and reads its literal.
	TypeReference
	// TypeBranchReference decodes a B/BL/BLX at the match.
	TypeBranchReference
	// TypeStaticValue is a constant; nothing is searched.
	TypeStaticValue
)

// String returns the name used in reports.
func (t Type) String() string {
	switch t {
	case TypeOffset:
		return "offset"
	case TypePointer:
		return "pointer"
	case TypeReference:
		return "reference"
	case TypeBranchReference:
		return "branch"
	case TypeStaticValue:
		return "static_value"
	}
	return "unknown"
}

// SubType selects how a sub-pattern slot is followed.
type SubType int

const (
	SubBranch4 SubType = iota // Thumb BL/BLX or ARM B/BL/BLX
	SubBranch2                // Thumb B / Bcc
	SubLDR4                   // ARM LDR Rd, [PC, #imm]
	SubLDR2                   // Thumb LDR Rd, [PC, #imm]
	SubString                 // 32-bit pointer to ASCII text
)

// Size is the number of bytes the slot occupies in the parent pattern.
func (t SubType) Size() int {
	switch t {
	case SubBranch2, SubLDR2:
		return 2
	}
	return 4
}

// Sub is a nested pattern anchored at a slot of its parent.
type Sub struct {
	Type   SubType
	Expr   *Expr
	Offset int // position of the slot within the parent's bytes
	Size   int
}

// Expr is a parsed pattern. Bytes and Masks always have equal length;
// bits cleared in a mask are cleared in the byte too.
type Expr struct {
	Type         Type
	InputOffset  int // added to the match position before decoding
	OutputOffset int // added to the decoded value
	Bytes        []byte
	Masks        []byte
	Subs         []Sub // ordered by Offset
	StaticValue  uint32
}

// Len returns the number of bytes the pattern spans.
func (e *Expr) Len() int { return len(e.Bytes) }

// FirstFixed returns the index of the first byte that is not a full
// wildcard, or -1 if there is none.
func (e *Expr) FirstFixed() int {
	for i, m := range e.Masks {
		if m != 0 {
			return i
		}
	}
	return -1
}

// MatchAt reports whether data starts with the masked bytes of e.
// Sub-pattern slots are not checked.
func (e *Expr) MatchAt(data []byte) bool {
	if len(data) < len(e.Bytes) {
		return false
	}
	for i, m := range e.Masks {
		if m != 0 && data[i]&m != e.Bytes[i] {
			return false
		}
	}
	return true
}

func (e *Expr) subAt(pos int) (Sub, bool) {
	for _, s := range e.Subs {
		if s.Offset == pos {
			return s, true
		}
	}
	return Sub{}, false
}

func (e *Expr) push(b, m byte) {
	e.Bytes = append(e.Bytes, b&m)
	e.Masks = append(e.Masks, m)
}
