package search

import (
	"ptr89/internal/arm"
	"ptr89/internal/pattern"
)

// maxThunkDepth bounds how many veneers a branch is followed through.
const maxThunkDepth = 4

// matchSubs checks every sub-pattern of e for a match anchored at addr.
func (s *Searcher) matchSubs(tr tracer, e *pattern.Expr, addr uint32, mem Memory) bool {
	for _, sub := range e.Subs {
		if !s.matchSub(tr, sub, addr+uint32(sub.Offset), mem) {
			return false
		}
	}
	return true
}

func (s *Searcher) matchSub(tr tracer, sub pattern.Sub, slot uint32, mem Memory) bool {
	b, ok := mem.At(slot)
	if !ok {
		return false
	}

	switch sub.Type {
	case pattern.SubBranch2:
		insn, ok := arm.ThumbB(slot, b)
		if !ok {
			tr.printf("%08X: not a Thumb B", slot)
			return false
		}
		tr.printf("%s", insn)
		return s.matchBranchTarget(tr, sub.Expr, insn.Target, mem)

	case pattern.SubBranch4:
		if insn, ok := arm.ThumbBL(slot, b); ok {
			tr.printf("%s", insn)
			if s.matchBranchTarget(tr, sub.Expr, insn.Target, mem) {
				return true
			}
		}
		if insn, ok := arm.ArmBL(slot, b); ok {
			tr.printf("%s", insn)
			return s.matchBranchTarget(tr, sub.Expr, insn.Target, mem)
		}
		tr.printf("%08X: no BL/BLX target matched", slot)
		return false

	case pattern.SubLDR4, pattern.SubLDR2:
		decode := arm.ArmLDR
		if sub.Type == pattern.SubLDR2 {
			decode = arm.ThumbLDR
		}
		insn, ok := decode(slot, b)
		if !ok {
			tr.printf("%08X: not an LDR literal", slot)
			return false
		}
		tr.printf("%s", insn)
		ptr, ok := mem.Word(insn.Target)
		if !ok {
			return false
		}
		return s.matchPointer(tr, sub.Expr, ptr, mem)

	case pattern.SubString:
		ptr, ok := mem.Word(slot)
		if !ok {
			return false
		}
		tr.printf("%08X: string pointer %08X", slot, ptr)
		return s.matchAt(tr, sub.Expr, ptr, mem)
	}
	return false
}

// matchPointer matches e at a loaded pointer. Pointers to Thumb code have
// bit 0 set, so the even address is tried as well.
func (s *Searcher) matchPointer(tr tracer, e *pattern.Expr, ptr uint32, mem Memory) bool {
	if s.matchAt(tr, e, ptr, mem) {
		return true
	}
	return ptr&1 != 0 && s.matchAt(tr, e, ptr&^1, mem)
}

// matchBranchTarget matches e at a branch destination, then at every
// destination reached through Thumb BX PC and ARM LDR PC veneers.
func (s *Searcher) matchBranchTarget(tr tracer, e *pattern.Expr, target uint32, mem Memory) bool {
	for depth := 0; ; depth++ {
		if s.matchAt(tr, e, target, mem) {
			return true
		}
		if depth == maxThunkDepth {
			return false
		}
		next, ok := s.followThunk(tr, target, mem)
		if !ok {
			return false
		}
		target = next
	}
}

func (s *Searcher) followThunk(tr tracer, addr uint32, mem Memory) (uint32, bool) {
	b, ok := mem.At(addr)
	if !ok {
		return 0, false
	}
	if insn, ok := arm.ThumbBXPC(addr, b); ok {
		tr.printf("%s", insn)
		addr = insn.Target
		if b, ok = mem.At(addr); !ok {
			return 0, false
		}
	}
	insn, ok := arm.ArmThunk(addr, b)
	if !ok {
		return 0, false
	}
	tr.printf("%s", insn)
	dest, ok := mem.Word(insn.Target)
	if !ok {
		return 0, false
	}
	return dest &^ 1, true
}

// matchAt reports whether e, including its own sub-patterns, matches at
// addr.
func (s *Searcher) matchAt(tr tracer, e *pattern.Expr, addr uint32, mem Memory) bool {
	if !mem.Contains(addr, e.Len()) {
		tr.printf("%08X: outside the image", addr)
		return false
	}
	b, _ := mem.At(addr)
	if !e.MatchAt(b) {
		tr.printf("%08X: bytes differ", addr)
		return false
	}
	tr.printf("%08X: matched %s", addr, e)
	return s.matchSubs(tr.nest(), e, addr, mem)
}
