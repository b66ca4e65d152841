package arm_test

import (
	"testing"

	"ptr89/internal/arm"
)

type decodeCase struct {
	name   string
	addr   uint32
	bytes  []byte
	want   uint32
	wantOK bool
}

func runCases(t *testing.T, decode func(uint32, []byte) (arm.Insn, bool), cases []decodeCase) {
	t.Helper()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			insn, ok := decode(tc.addr, tc.bytes)
			if ok != tc.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tc.wantOK)
			}
			if ok && insn.Target != tc.want {
				t.Fatalf("target = %08X, want %08X (%s)", insn.Target, tc.want, insn)
			}
		})
	}
}

func TestArmBL(t *testing.T) {
	runCases(t, arm.ArmBL, []decodeCase{
		{"BL backward", 0xA0001000, []byte{0xFE, 0xFB, 0xFF, 0x0B}, 0xA0000000, true},
		{"BLX backward", 0xA0001000, []byte{0xFE, 0xFB, 0xFF, 0xFA}, 0xA0000000, true},
		{"BL forward", 0xA0000000, []byte{0xFE, 0x03, 0x00, 0x0B}, 0xA0001000, true},
		{"BLX forward", 0xA0000000, []byte{0xFE, 0x03, 0x00, 0xFA}, 0xA0001000, true},
		{"BLX backward H=1", 0xA0001000, []byte{0xFE, 0xFB, 0xFF, 0xFB}, 0xA0000002, true},
		{"BLX forward H=1", 0xA0000000, []byte{0xFE, 0x03, 0x00, 0xFB}, 0xA0001002, true},
		{"B always", 0xA0000000, []byte{0xFE, 0x03, 0x00, 0xEA}, 0xA0001000, true},
		{"misaligned", 0xA0000002, []byte{0xFE, 0x03, 0x00, 0x0B}, 0, false},
		{"not a branch", 0xA0000000, []byte{0x00, 0x00, 0xA0, 0xE1}, 0, false},
		{"short input", 0xA0000000, []byte{0xFE, 0x03}, 0, false},
	})
}

func TestThumbBL(t *testing.T) {
	runCases(t, arm.ThumbBL, []decodeCase{
		{"BL backward", 0xA0001000, []byte{0xFE, 0xF7, 0xFE, 0xFF}, 0xA0000000, true},
		{"BLX backward", 0xA0001000, []byte{0xFE, 0xF7, 0xFE, 0xEF}, 0xA0000000, true},
		{"BL forward", 0xA0000000, []byte{0x00, 0xF0, 0xFE, 0xFF}, 0xA0001000, true},
		{"BLX forward", 0xA0000000, []byte{0x00, 0xF0, 0xFE, 0xEF}, 0xA0001000, true},
		{"odd address", 0xA0000001, []byte{0x00, 0xF0, 0xFE, 0xFF}, 0, false},
		{"second half missing", 0xA0000000, []byte{0x00, 0xF0, 0x00, 0x00}, 0, false},
	})
}

func TestThumbB(t *testing.T) {
	runCases(t, arm.ThumbB, []decodeCase{
		{"B backward", 0xA0000100, []byte{0x7E, 0xE7}, 0xA0000000, true},
		{"B forward", 0xA0000000, []byte{0x7E, 0xE0}, 0xA0000100, true},
		{"BEQ backward", 0xA0000010, []byte{0xF6, 0xD0}, 0xA0000000, true},
		{"BEQ forward", 0xA0000000, []byte{0x06, 0xD0}, 0xA0000010, true},
		{"SVC is not a branch", 0xA0000000, []byte{0x06, 0xDF}, 0, false},
		{"UDF is not a branch", 0xA0000000, []byte{0x06, 0xDE}, 0, false},
	})
}

func TestThumbLDR(t *testing.T) {
	runCases(t, arm.ThumbLDR, []decodeCase{
		{"aligned", 0xA0000000, []byte{0x16, 0x48}, 0xA000005C, true},
		{"half aligned", 0xA0000002, []byte{0x16, 0x48}, 0xA000005C, true},
		{"not ldr", 0xA0000000, []byte{0x16, 0x49 & 0x3F}, 0, false},
	})
}

func TestArmLDR(t *testing.T) {
	tests := []struct {
		name   string
		addr   uint32
		bytes  []byte
		want   uint32
		wantPC bool
	}{
		{"R0 forward", 0xA0000000, []byte{0x00, 0x01, 0x9F, 0xE5}, 0xA0000108, false},
		{"R0 backward", 0xA0000100, []byte{0x00, 0x01, 0x1F, 0xE5}, 0xA0000008, false},
		{"PC forward", 0xA0000000, []byte{0x00, 0xF1, 0x9F, 0xE5}, 0xA0000108, true},
		{"PC backward", 0xA0000100, []byte{0x00, 0xF1, 0x1F, 0xE5}, 0xA0000008, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			insn, ok := arm.ArmLDR(tc.addr, tc.bytes)
			if !ok {
				t.Fatal("expected LDR to decode")
			}
			if insn.Target != tc.want {
				t.Fatalf("target = %08X, want %08X", insn.Target, tc.want)
			}
			if insn.IsLoadPC() != tc.wantPC {
				t.Fatalf("IsLoadPC = %v, want %v", insn.IsLoadPC(), tc.wantPC)
			}
		})
	}

	// LDRB must not be mistaken for a word load.
	if _, ok := arm.ArmLDR(0xA0000000, []byte{0x00, 0x01, 0xDF, 0xE5}); ok {
		t.Fatal("LDRB decoded as LDR")
	}
	// STR shares the encoding apart from the L bit.
	if _, ok := arm.ArmLDR(0xA0000000, []byte{0x00, 0x01, 0x8F, 0xE5}); ok {
		t.Fatal("STR decoded as LDR")
	}
}

func TestArmThunk(t *testing.T) {
	// LDR PC, [PC, #-4]
	insn, ok := arm.ArmThunk(0xA0000000, []byte{0x04, 0xF0, 0x1F, 0xE5})
	if !ok {
		t.Fatal("expected thunk")
	}
	if insn.Target != 0xA0000004 {
		t.Fatalf("literal at %08X, want A0000004", insn.Target)
	}
	if _, ok := arm.ArmThunk(0xA0000000, []byte{0x00, 0x01, 0x9F, 0xE5}); ok {
		t.Fatal("LDR R0 is not a thunk")
	}
}

func TestThumbBXPC(t *testing.T) {
	insn, ok := arm.ThumbBXPC(0xA0000002, []byte{0x78, 0x47})
	if !ok {
		t.Fatal("expected BX PC")
	}
	if insn.Target != 0xA0000004 {
		t.Fatalf("target = %08X, want A0000004", insn.Target)
	}
}
