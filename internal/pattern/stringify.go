package pattern

import (
	"fmt"
	"strings"
)

// String renders the canonical text of the pattern. Parsing the result
// yields an equivalent Expr.
func (e *Expr) String() string {
	if e.Type == TypeStaticValue {
		return fmt.Sprintf("< %08X >", e.StaticValue)
	}

	var b strings.Builder
	switch e.Type {
	case TypeReference:
		b.WriteString("&(")
	case TypeBranchReference:
		b.WriteString("&BL(")
	case TypePointer:
		b.WriteString("*(")
	}

	parts := e.dataParts()
	if e.InputOffset != 0 {
		parts = append(parts, signed(e.InputOffset))
	}
	b.WriteString(strings.Join(parts, " "))

	switch e.Type {
	case TypeReference, TypeBranchReference, TypePointer:
		b.WriteString(")")
		if e.OutputOffset != 0 {
			b.WriteString(" " + signed(e.OutputOffset))
		}
	}
	return b.String()
}

func (e *Expr) dataParts() []string {
	parts := make([]string, 0, e.Len())
	for i := 0; i < e.Len(); i++ {
		if sub, ok := e.subAt(i); ok {
			parts = append(parts, sub.String())
			i += sub.Size - 1
			continue
		}
		parts = append(parts, formatByte(e.Bytes[i], e.Masks[i]))
	}
	return parts
}

func (s Sub) String() string {
	inner := strings.Join(s.Expr.dataParts(), " ")
	switch s.Type {
	case SubBranch2:
		return "[ " + inner + " ]"
	case SubLDR2:
		return "LDR[ " + inner + " ]"
	case SubLDR4:
		return "LDR{ " + inner + " }"
	case SubString:
		return `"` + string(s.Expr.Bytes) + `"`
	}
	return "{ " + inner + " }"
}

func formatByte(b, m byte) string {
	switch m {
	case 0x00:
		return "??"
	case 0x0F:
		return fmt.Sprintf("?%X", b&0x0F)
	case 0xF0:
		return fmt.Sprintf("%X?", b>>4)
	case 0xFF:
		return fmt.Sprintf("%02X", b)
	}

	var bits [8]byte
	for i := range bits {
		bit := byte(1) << (7 - i)
		switch {
		case m&bit == 0:
			bits[i] = '.'
		case b&bit != 0:
			bits[i] = '1'
		default:
			bits[i] = '0'
		}
	}
	return "[" + string(bits[:]) + "]"
}

func signed(v int) string {
	if v < 0 {
		return fmt.Sprintf("- %X", -v)
	}
	return fmt.Sprintf("+ %X", v)
}
