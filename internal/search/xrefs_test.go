package search_test

import (
	"context"
	"testing"

	"ptr89/internal/search"
)

func xrefImage() search.Memory {
	mem := newMemory(0x200)
	thumbBL(mem, base+0x10, base+0x100)
	armBL(mem, base+0x20, base+0x100)
	thumbLDR(mem, base+0x30, base+0x40)
	putWord(mem, base+0x40, base+0x101)
	armLDR(mem, base+0x50, base+0x60)
	putWord(mem, base+0x60, base+0x100)
	return mem
}

func TestFindXRefs(t *testing.T) {
	refs, err := search.New(nil).FindXRefs(context.Background(), base+0x101, xrefImage(), 0)
	if err != nil {
		t.Fatalf("FindXRefs: %v", err)
	}

	want := []struct {
		typ  search.XRefType
		addr uint32
	}{
		{search.XRefBranchCall, base + 0x10},
		{search.XRefBranchCall, base + 0x20},
		{search.XRefReference, base + 0x30},
		{search.XRefPointer, base + 0x40},
		{search.XRefReference, base + 0x50},
		{search.XRefPointer, base + 0x60},
	}
	if len(refs) != len(want) {
		t.Fatalf("got %d refs %+v, want %d", len(refs), refs, len(want))
	}
	for i, w := range want {
		r := refs[i]
		if r.Type != w.typ || r.Address != w.addr {
			t.Errorf("ref %d = %v@%08X, want %v@%08X", i, r.Type, r.Address, w.typ, w.addr)
		}
		if r.Offset != r.Address-base || r.Target != base+0x101 {
			t.Errorf("ref %d: offset %X target %X", i, r.Offset, r.Target)
		}
	}
}

func TestFindXRefs_Limit(t *testing.T) {
	refs, err := search.New(nil).FindXRefs(context.Background(), base+0x100, xrefImage(), 2)
	if err != nil {
		t.Fatalf("FindXRefs: %v", err)
	}
	if len(refs) != 2 || refs[1].Address != base+0x20 {
		t.Fatalf("got %+v", refs)
	}
}

func TestXRefType_String(t *testing.T) {
	if got := search.XRefBranchCall.String(); got != "branch call" {
		t.Fatalf("got %q", got)
	}
}
