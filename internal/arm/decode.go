package arm

import (
	"encoding/binary"
	"fmt"
)

// RegPC is the register number of the program counter.
const RegPC = 15

var conditions = [16]string{
	"EQ", "NE", "CS", "CC", "MI", "PL", "VS", "VC",
	"HI", "LS", "GE", "LT", "GT", "LE", "", "??",
}

// Insn is a decoded instruction.
type Insn struct {
	Addr   uint32 // address the instruction lives at
	Size   int    // encoded size in bytes
	Target uint32 // branch destination or literal address
	Reg    int    // destination register for loads, -1 otherwise
	Text   string // disassembly, for tracing
}

// IsLoadPC reports whether the instruction loads the program counter.
func (i Insn) IsLoadPC() bool { return i.Reg == RegPC }

func (i Insn) String() string {
	return fmt.Sprintf("%08X: %s", i.Addr, i.Text)
}

// signExtend widens the low bits of v to a full 32-bit two's complement value.
func signExtend(v uint32, bits uint) uint32 {
	shift := 32 - bits
	return uint32(int32(v<<shift) >> shift)
}

// ThumbBL decodes a 32-bit Thumb BL or BLX (immediate) pair.
// BLX switches to ARM state, so its target is word aligned.
func ThumbBL(addr uint32, b []byte) (Insn, bool) {
	if addr%2 != 0 || len(b) < 4 {
		return Insn{}, false
	}
	hi := binary.LittleEndian.Uint16(b)
	lo := binary.LittleEndian.Uint16(b[2:])
	if hi&0xF800 != 0xF000 {
		return Insn{}, false
	}

	off := signExtend(uint32(hi&0x7FF), 11)<<12 + uint32(lo&0x7FF)<<1
	target := addr + 4 + off

	switch lo & 0xF800 {
	case 0xF800:
		return Insn{Addr: addr, Size: 4, Target: target, Reg: -1,
			Text: fmt.Sprintf("BL #0x%08X", target)}, true
	case 0xE800:
		target &^= 3
		return Insn{Addr: addr, Size: 4, Target: target, Reg: -1,
			Text: fmt.Sprintf("BLX #0x%08X", target)}, true
	}
	return Insn{}, false
}

// ArmBL decodes an ARM B, BL (any condition) or BLX (immediate).
func ArmBL(addr uint32, b []byte) (Insn, bool) {
	if addr%4 != 0 || len(b) < 4 {
		return Insn{}, false
	}
	instr := binary.LittleEndian.Uint32(b)
	off := signExtend(instr&0xFFFFFF, 24) << 2

	if instr&0xFE000000 == 0xFA000000 {
		h := (instr >> 24) & 1
		target := addr + 8 + off + h<<1
		return Insn{Addr: addr, Size: 4, Target: target, Reg: -1,
			Text: fmt.Sprintf("BLX #0x%08X", target)}, true
	}

	cond := conditions[instr>>28]
	target := addr + 8 + off
	switch instr & 0x0F000000 {
	case 0x0B000000:
		return Insn{Addr: addr, Size: 4, Target: target, Reg: -1,
			Text: fmt.Sprintf("BL%s #0x%08X", cond, target)}, true
	case 0x0A000000:
		return Insn{Addr: addr, Size: 4, Target: target, Reg: -1,
			Text: fmt.Sprintf("B%s #0x%08X", cond, target)}, true
	}
	return Insn{}, false
}

// ThumbB decodes a 16-bit Thumb unconditional or conditional branch.
// Condition codes 0xE and 0xF are UDF and SVC and do not decode.
func ThumbB(addr uint32, b []byte) (Insn, bool) {
	if addr%2 != 0 || len(b) < 2 {
		return Insn{}, false
	}
	instr := binary.LittleEndian.Uint16(b)

	if instr&0xF800 == 0xE000 {
		target := addr + 4 + signExtend(uint32(instr&0x7FF), 11)<<1
		return Insn{Addr: addr, Size: 2, Target: target, Reg: -1,
			Text: fmt.Sprintf("B #0x%08X", target)}, true
	}

	if instr&0xF000 == 0xD000 {
		cond := (instr >> 8) & 0xF
		if cond >= 0xE {
			return Insn{}, false
		}
		target := addr + 4 + signExtend(uint32(instr&0xFF), 8)<<1
		return Insn{Addr: addr, Size: 2, Target: target, Reg: -1,
			Text: fmt.Sprintf("B%s #0x%08X", conditions[cond], target)}, true
	}
	return Insn{}, false
}

// ThumbLDR decodes LDR Rd, [PC, #imm]. Target is the literal's address.
func ThumbLDR(addr uint32, b []byte) (Insn, bool) {
	if addr%2 != 0 || len(b) < 2 {
		return Insn{}, false
	}
	instr := binary.LittleEndian.Uint16(b)
	if instr&0xF800 != 0x4800 {
		return Insn{}, false
	}

	rd := int(instr>>8) & 7
	imm := uint32(instr&0xFF) << 2
	target := (addr+4)&^3 + imm
	return Insn{Addr: addr, Size: 2, Target: target, Reg: rd,
		Text: fmt.Sprintf("LDR R%d, [PC, #0x%X] ; 0x%08X", rd, imm, target)}, true
}

// ArmLDR decodes a word LDR Rd, [PC, #+/-imm12] with pre-indexing and no
// writeback. Target is the literal's address.
func ArmLDR(addr uint32, b []byte) (Insn, bool) {
	if addr%4 != 0 || len(b) < 4 {
		return Insn{}, false
	}
	instr := binary.LittleEndian.Uint32(b)
	if instr&0x0F7F0000 != 0x051F0000 || instr>>28 == 0xF {
		return Insn{}, false
	}

	imm := instr & 0xFFF
	sign := byte('+')
	target := addr + 8
	if instr&(1<<23) != 0 {
		target += imm
	} else {
		target -= imm
		sign = '-'
	}
	rd := int(instr>>12) & 0xF
	return Insn{Addr: addr, Size: 4, Target: target, Reg: rd,
		Text: fmt.Sprintf("LDR%s %s, [PC, #%c0x%X] ; 0x%08X",
			conditions[instr>>28], regName(rd), sign, imm, target)}, true
}

// ArmThunk decodes an LDR PC, [PC, #imm] veneer. Target is the address of
// the literal that holds the real destination.
func ArmThunk(addr uint32, b []byte) (Insn, bool) {
	insn, ok := ArmLDR(addr, b)
	if !ok || !insn.IsLoadPC() {
		return Insn{}, false
	}
	return insn, true
}

// ThumbBXPC decodes the Thumb "BX PC" state switch. Target is the word
// aligned ARM address execution continues at.
func ThumbBXPC(addr uint32, b []byte) (Insn, bool) {
	if addr%2 != 0 || len(b) < 2 {
		return Insn{}, false
	}
	if binary.LittleEndian.Uint16(b) != 0x4778 {
		return Insn{}, false
	}
	target := (addr + 4) &^ 3
	return Insn{Addr: addr, Size: 2, Target: target, Reg: -1,
		Text: fmt.Sprintf("BX PC ; 0x%08X", target)}, true
}

func regName(r int) string {
	switch r {
	case 13:
		return "SP"
	case 14:
		return "LR"
	case RegPC:
		return "PC"
	}
	return fmt.Sprintf("R%d", r)
}
