// Package arm decodes the handful of ARM and Thumb instructions that
// matter when walking a firmware image: branches (B, BL, BLX), PC-relative
// literal loads (LDR Rd, [PC, #imm]) and the LDR PC veneers the linker
// emits for long calls.
//
// Every decoder takes the virtual address the instruction lives at and its
// raw little-endian bytes, and reports the address it refers to. Decoders
// never panic on short input; they simply report ok == false.
package arm
