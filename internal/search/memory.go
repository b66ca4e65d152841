package search

import "encoding/binary"

// Memory is a firmware image mapped at Base.
type Memory struct {
	Base  uint32
	Data  []byte
	Align int
}

// Contains reports whether [addr, addr+n) lies inside the image.
func (m Memory) Contains(addr uint32, n int) bool {
	if addr < m.Base || n < 0 {
		return false
	}
	off := uint64(addr - m.Base)
	return off+uint64(n) <= uint64(len(m.Data))
}

// At returns the image bytes from addr to the end of the image.
func (m Memory) At(addr uint32) ([]byte, bool) {
	if !m.Contains(addr, 0) {
		return nil, false
	}
	return m.Data[addr-m.Base:], true
}

// Word reads a little-endian 32-bit word at addr.
func (m Memory) Word(addr uint32) (uint32, bool) {
	if !m.Contains(addr, 4) {
		return 0, false
	}
	off := addr - m.Base
	return binary.LittleEndian.Uint32(m.Data[off : off+4]), true
}

func (m Memory) align() int {
	if m.Align < 1 {
		return 1
	}
	return m.Align
}

// Result is one decoded pattern match.
type Result struct {
	Address uint32 `json:"address"`
	Offset  uint32 `json:"offset"`
	Value   uint32 `json:"value"`
}

// XRefType says how a cross-reference points at its target.
type XRefType int

const (
	XRefReference XRefType = iota
	XRefBranchCall
	XRefPointer
)

func (t XRefType) String() string {
	switch t {
	case XRefReference:
		return "reference"
	case XRefBranchCall:
		return "branch call"
	case XRefPointer:
		return "pointer"
	}
	return "unknown"
}

// XRef is one place in the image that refers to a target address.
type XRef struct {
	Type    XRefType
	Address uint32
	Offset  uint32
	Target  uint32
}
