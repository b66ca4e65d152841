package search

import (
	"bytes"
	"context"
	"errors"

	"github.com/rs/zerolog"

	"ptr89/internal/arm"
	"ptr89/internal/pattern"
)

// ErrNoFixedBytes is returned for patterns made only of wildcards.
var ErrNoFixedBytes = errors.New("pattern has no fixed bytes")

// Cancellation is polled once per this many candidate offsets.
const ctxPollInterval = 1 << 14

// Searcher runs pattern and cross-reference scans.
type Searcher struct {
	log *zerolog.Logger
}

// New returns a Searcher that traces to log at debug level. A nil log
// disables tracing.
func New(log *zerolog.Logger) *Searcher {
	return &Searcher{log: log}
}

// Find returns the decoded matches of e in mem, at most limit of them
// (0 means no limit). Matches never overlap.
func (s *Searcher) Find(ctx context.Context, e *pattern.Expr, mem Memory, limit int) ([]Result, error) {
	if e.Type == pattern.TypeStaticValue {
		return []Result{{Value: e.StaticValue}}, nil
	}
	first := e.FirstFixed()
	if first < 0 {
		return nil, ErrNoFixedBytes
	}

	tr := newTracer(s.log)
	data := mem.Data
	n := e.Len()
	align := mem.align()

	anchor := e.Bytes[first]
	exactAnchor := e.Masks[first] == 0xFF

	var results []Result
	polls := 0
	for off := 0; off+n <= len(data); {
		if exactAnchor {
			i := bytes.IndexByte(data[off+first:len(data)-n+first+1], anchor)
			if i < 0 {
				break
			}
			off += i
			if r := off % align; r != 0 {
				off += align - r
				continue
			}
		}

		polls++
		if polls%ctxPollInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		if !e.MatchAt(data[off:]) {
			off += align
			continue
		}
		addr := mem.Base + uint32(off)
		if tr.enabled() {
			tr.printf("candidate at %08X", addr)
		}
		if !s.matchSubs(tr.nest(), e, addr, mem) {
			off += align
			continue
		}
		res, ok := s.decode(tr, e, off, mem)
		if !ok {
			off += align
			continue
		}

		results = append(results, res)
		if limit > 0 && len(results) >= limit {
			break
		}
		off = alignUp(off+n, align)
	}
	return results, nil
}

// decode turns a match at offset off into a result according to the
// pattern type.
func (s *Searcher) decode(tr tracer, e *pattern.Expr, off int, mem Memory) (Result, bool) {
	pos := int64(off) + int64(e.InputOffset)
	if pos < 0 || pos >= int64(len(mem.Data)) {
		tr.printf("input offset %d leaves the image", e.InputOffset)
		return Result{}, false
	}
	addr := mem.Base + uint32(pos)
	res := Result{Address: addr, Offset: uint32(pos)}
	out := uint32(int32(e.OutputOffset))

	switch e.Type {
	case pattern.TypeOffset:
		res.Value = addr
		return res, true

	case pattern.TypePointer:
		v, ok := mem.Word(addr)
		if !ok {
			return Result{}, false
		}
		res.Value = v + out
		return res, true

	case pattern.TypeReference:
		v, ok := s.loadLiteral(tr, addr&^1, mem)
		if !ok {
			return Result{}, false
		}
		res.Value = v + out
		return res, true

	case pattern.TypeBranchReference:
		insn, ok := decodeBranch(addr, mem)
		if !ok {
			tr.printf("no branch at %08X", addr)
			return Result{}, false
		}
		tr.printf("%s", insn)
		res.Value = insn.Target + out
		return res, true
	}
	return Result{}, false
}

// loadLiteral decodes an ARM or Thumb PC-relative LDR at addr and returns
// the word it loads.
func (s *Searcher) loadLiteral(tr tracer, addr uint32, mem Memory) (uint32, bool) {
	b, ok := mem.At(addr)
	if !ok {
		return 0, false
	}
	insn, ok := arm.ArmLDR(addr, b)
	if !ok {
		insn, ok = arm.ThumbLDR(addr, b)
	}
	if !ok {
		tr.printf("no LDR at %08X", addr)
		return 0, false
	}
	tr.printf("%s", insn)
	return mem.Word(insn.Target)
}

// decodeBranch tries Thumb BL/BLX, ARM B/BL/BLX and Thumb B in that order.
func decodeBranch(addr uint32, mem Memory) (arm.Insn, bool) {
	b, ok := mem.At(addr)
	if !ok {
		return arm.Insn{}, false
	}
	if insn, ok := arm.ThumbBL(addr, b); ok {
		return insn, true
	}
	if insn, ok := arm.ArmBL(addr, b); ok {
		return insn, true
	}
	return arm.ThumbB(addr, b)
}

func alignUp(v, align int) int {
	if r := v % align; r != 0 {
		return v + align - r
	}
	return v
}
