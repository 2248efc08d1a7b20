package cpu

// Processor modes, encoded in CPSR bits 4..0. Only the mode field itself is
// modeled; per-mode banked registers are deliberately not modeled (a single
// flat bank is used for r0..r14), matching the reduced register model this
// core targets.
const (
	ModeUser = 0x10
	ModeFIQ  = 0x11
	ModeIRQ  = 0x12
	ModeSVC  = 0x13
	ModeAbt  = 0x17
	ModeUnd  = 0x1B
	ModeSys  = 0x1F
)

// CPSR bit positions.
const (
	cpsrBitT = 5
	cpsrBitN = 31
	cpsrBitZ = 30
	cpsrBitC = 29
	cpsrBitV = 28
)

const cpsrModeMask = 0x1F
const cpsrFlagMask = uint32(1)<<cpsrBitN | uint32(1)<<cpsrBitZ | uint32(1)<<cpsrBitC | uint32(1)<<cpsrBitV

// Registers is the flat ARMv4T register file: r0..r12, sp (r13), lr (r14),
// pc (r15), CPSR and a single (unbanked) SPSR.
type Registers struct {
	r    [16]uint32
	cpsr uint32
	spsr uint32
}

// NewRegisters returns a zero-initialized register file with CPSR set to
// T=0 (ARM state), mode=User, as required at reset.
func NewRegisters() *Registers {
	reg := &Registers{}
	reg.cpsr = ModeUser
	return reg
}

// R reads general register n (0..15) with no pipeline adjustment.
func (r *Registers) R(n uint8) uint32 {
	return r.r[n&0xF]
}

// SetR writes general register n (0..15).
func (r *Registers) SetR(n uint8, v uint32) {
	r.r[n&0xF] = v
}

// PC returns the raw program counter (r15), with no pipeline offset applied.
func (r *Registers) PC() uint32 {
	return r.r[15]
}

// SetPC writes the program counter directly.
func (r *Registers) SetPC(v uint32) {
	r.r[15] = v
}

// PCRead centralizes the "reading r15 yields pc+offset" pipeline rule: +8 in
// ARM state, +4 with bit 1 cleared in Thumb state, for the executors that need to read r15 as
// an operand rather than as the fetch address.
func (r *Registers) PCRead() uint32 {
	if r.IsThumb() {
		return (r.r[15] + 4) &^ 2
	}
	return r.r[15] + 8
}

// CPSR returns the full current program status register.
func (r *Registers) CPSR() uint32 {
	return r.cpsr
}

// SetCPSR writes the full CPSR. In User mode, only the flag bits (31..28)
// may be changed; the rest of the write is silently discarded and the
// previous value of those bits is preserved (ModeViolation policy, §7).
func (r *Registers) SetCPSR(v uint32) {
	if r.Mode() == ModeUser {
		r.cpsr = (r.cpsr &^ cpsrFlagMask) | (v & cpsrFlagMask)
		return
	}
	r.cpsr = v
}

// SPSR returns the saved program status register.
func (r *Registers) SPSR() uint32 {
	return r.spsr
}

// SetSPSR writes the saved program status register.
func (r *Registers) SetSPSR(v uint32) {
	r.spsr = v
}

// Mode returns the current processor mode field.
func (r *Registers) Mode() uint32 {
	return r.cpsr & cpsrModeMask
}

// SetMode sets the processor mode field, leaving every other CPSR bit
// untouched. Unlike SetCPSR, this is always permitted: SWI entry uses it to
// switch to Supervisor mode from User mode. MSR and SPSR restore go through
// SetCPSR and are subject to its User-mode write restriction.
func (r *Registers) SetMode(m uint32) {
	r.cpsr = (r.cpsr &^ uint32(cpsrModeMask)) | (m & cpsrModeMask)
}

// IsThumb reports whether the T bit is set (Thumb state).
func (r *Registers) IsThumb() bool {
	return bitSet(r.cpsr, cpsrBitT)
}

// SetThumbState sets or clears the T bit.
func (r *Registers) SetThumbState(thumb bool) {
	if thumb {
		r.cpsr |= 1 << cpsrBitT
	} else {
		r.cpsr &^= 1 << cpsrBitT
	}
}

// FlagN, FlagZ, FlagC, FlagV read the corresponding CPSR condition flag.
func (r *Registers) FlagN() bool { return bitSet(r.cpsr, cpsrBitN) }
func (r *Registers) FlagZ() bool { return bitSet(r.cpsr, cpsrBitZ) }
func (r *Registers) FlagC() bool { return bitSet(r.cpsr, cpsrBitC) }
func (r *Registers) FlagV() bool { return bitSet(r.cpsr, cpsrBitV) }

func setFlagBit(cpsr *uint32, pos uint, v bool) {
	if v {
		*cpsr |= 1 << pos
	} else {
		*cpsr &^= 1 << pos
	}
}

// SetFlagN, SetFlagZ, SetFlagC, SetFlagV write the corresponding CPSR
// condition flag without disturbing any other bit.
func (r *Registers) SetFlagN(v bool) { setFlagBit(&r.cpsr, cpsrBitN, v) }
func (r *Registers) SetFlagZ(v bool) { setFlagBit(&r.cpsr, cpsrBitZ, v) }
func (r *Registers) SetFlagC(v bool) { setFlagBit(&r.cpsr, cpsrBitC, v) }
func (r *Registers) SetFlagV(v bool) { setFlagBit(&r.cpsr, cpsrBitV, v) }

// SetNZ sets N and Z from a 32-bit result, the common case for every
// flag-setting data-processing instruction.
func (r *Registers) SetNZ(result uint32) {
	r.SetFlagN(result&0x80000000 != 0)
	r.SetFlagZ(result == 0)
}
