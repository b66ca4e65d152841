package search

import (
	"context"

	"ptr89/internal/arm"
)

// FindXRefs returns the places in mem that call, load or point at target,
// at most limit of them (0 means no limit). Bit 0 of addresses is ignored
// when comparing, so Thumb and ARM views of a function both count.
func (s *Searcher) FindXRefs(ctx context.Context, target uint32, mem Memory, limit int) ([]XRef, error) {
	tr := newTracer(s.log)
	want := target &^ 1
	align := mem.align()

	var refs []XRef
	for off := 0; off+2 <= len(mem.Data); off += 2 {
		if off%ctxPollInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if off%align != 0 {
			continue
		}

		addr := mem.Base + uint32(off)
		typ, ok := s.xrefAt(addr, want, mem)
		if !ok {
			continue
		}
		tr.printf("%08X: %s", addr, typ)
		refs = append(refs, XRef{Type: typ, Address: addr, Offset: uint32(off), Target: target})
		if limit > 0 && len(refs) >= limit {
			break
		}
	}
	return refs, nil
}

// xrefAt classifies what at addr refers to want. Calls win over loads,
// loads over raw pointers.
func (s *Searcher) xrefAt(addr, want uint32, mem Memory) (XRefType, bool) {
	b := mem.Data[addr-mem.Base:]

	if insn, ok := arm.ThumbBL(addr, b); ok && insn.Target&^1 == want {
		return XRefBranchCall, true
	}
	if insn, ok := arm.ArmBL(addr, b); ok && insn.Target&^1 == want {
		return XRefBranchCall, true
	}

	if insn, ok := arm.ThumbLDR(addr, b); ok {
		if v, ok := mem.Word(insn.Target); ok && v&^1 == want {
			return XRefReference, true
		}
	}
	if insn, ok := arm.ArmLDR(addr, b); ok {
		if v, ok := mem.Word(insn.Target); ok && v&^1 == want {
			return XRefReference, true
		}
	}

	if addr%4 == 0 {
		if v, ok := mem.Word(addr); ok && v&^1 == want {
			return XRefPointer, true
		}
	}
	return 0, false
}
