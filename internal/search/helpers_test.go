package search_test

import (
	"encoding/binary"

	"ptr89/internal/search"
)

const base = 0x08000000

func newMemory(size int) search.Memory {
	return search.Memory{Base: base, Data: make([]byte, size), Align: 1}
}

func put(mem search.Memory, addr uint32, b ...byte) {
	copy(mem.Data[addr-mem.Base:], b)
}

func putWord(mem search.Memory, addr, v uint32) {
	binary.LittleEndian.PutUint32(mem.Data[addr-mem.Base:], v)
}

func putHalf(mem search.Memory, addr uint32, v uint16) {
	binary.LittleEndian.PutUint16(mem.Data[addr-mem.Base:], v)
}

func thumbBL(mem search.Memory, addr, target uint32) {
	off := target - (addr + 4)
	putHalf(mem, addr, 0xF000|uint16(off>>12)&0x7FF)
	putHalf(mem, addr+2, 0xF800|uint16(off>>1)&0x7FF)
}

func armBL(mem search.Memory, addr, target uint32) {
	putWord(mem, addr, 0xEB000000|((target-addr-8)>>2)&0xFFFFFF)
}

func thumbB(mem search.Memory, addr, target uint32) {
	putHalf(mem, addr, 0xE000|uint16((target-addr-4)>>1)&0x7FF)
}

// thumbLDR emits LDR R0, [PC, #imm] loading from literal.
func thumbLDR(mem search.Memory, addr, literal uint32) {
	imm := literal - (addr+4)&^3
	putHalf(mem, addr, 0x4800|uint16(imm>>2))
}

// armLDR emits LDR R0, [PC, #+imm] loading from literal.
func armLDR(mem search.Memory, addr, literal uint32) {
	putWord(mem, addr, 0xE59F0000|(literal-addr-8))
}
