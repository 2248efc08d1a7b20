package cpu

import "math/bits"

// Thumb format-4 ALU opcodes.
const (
	tAND = 0
	tEOR = 1
	tLSL = 2
	tLSR = 3
	tASR = 4
	tADC = 5
	tSBC = 6
	tROR = 7
	tTST = 8
	tNEG = 9
	tCMP = 10
	tCMN = 11
	tORR = 12
	tMUL = 13
	tBIC = 14
	tMVN = 15
)

// ExecuteThumb executes one 16-bit Thumb instruction halfword, per §4.G.
func ExecuteThumb(c *CPU, hw uint16) (bool, error) {
	switch instr := DecodeThumb(hw).(type) {
	case ThumbShiftImm:
		return execThumbShiftImm(c, instr)
	case ThumbAddSub:
		return execThumbAddSub(c, instr)
	case ThumbImmOp:
		return execThumbImmOp(c, instr)
	case ThumbALU:
		return execThumbALU(c, instr)
	case ThumbHiReg:
		return execThumbHiReg(c, instr)
	case ThumbPCRelLoad:
		return execThumbPCRelLoad(c, instr)
	case ThumbLoadStoreReg:
		return execThumbLoadStoreReg(c, instr)
	case ThumbLoadStoreSigned:
		return execThumbLoadStoreSigned(c, instr)
	case ThumbLoadStoreImm:
		return execThumbLoadStoreImm(c, instr)
	case ThumbLoadStoreHalf:
		return execThumbLoadStoreHalf(c, instr)
	case ThumbSPRelLoadStore:
		return execThumbSPRelLoadStore(c, instr)
	case ThumbLoadAddr:
		return execThumbLoadAddr(c, instr)
	case ThumbAddSPOffset:
		return execThumbAddSPOffset(c, instr)
	case ThumbPushPop:
		return execThumbPushPop(c, instr)
	case ThumbMultipleLoadStore:
		return execThumbMultipleLoadStore(c, instr)
	case ThumbCondBranch:
		return execThumbCondBranch(c, instr)
	case ThumbSWI:
		return execThumbSWI(c, instr)
	case ThumbBranch:
		return execThumbBranch(c, instr)
	case ThumbLongBranchLink:
		return execThumbLongBranchLink(c, instr)
	default:
		return false, &UnhandledInstructionError{PC: c.Regs.PC(), Encoding: uint32(hw), Thumb: true}
	}
}

func execThumbShiftImm(c *CPU, instr ThumbShiftImm) (bool, error) {
	rs := c.Regs.R(instr.Rs)
	result, carry := Shift(rs, instr.Op, uint32(instr.Offset5), c.Regs.FlagC(), true)
	c.Regs.SetR(instr.Rd, result)
	c.Regs.SetNZ(result)
	c.Regs.SetFlagC(carry)
	return false, nil
}

func execThumbAddSub(c *CPU, instr ThumbAddSub) (bool, error) {
	rs := c.Regs.R(instr.Rs)
	var operand uint32
	if instr.Imm {
		operand = uint32(instr.RnOrImm3)
	} else {
		operand = c.Regs.R(instr.RnOrImm3)
	}
	var result uint32
	var carry, overflow bool
	if instr.Sub {
		result, carry, overflow = subWithFlags(rs, operand, true)
	} else {
		result, carry, overflow = addWithFlags(rs, operand, false)
	}
	c.Regs.SetR(instr.Rd, result)
	c.Regs.SetNZ(result)
	c.Regs.SetFlagC(carry)
	c.Regs.SetFlagV(overflow)
	return false, nil
}

func execThumbImmOp(c *CPU, instr ThumbImmOp) (bool, error) {
	imm := uint32(instr.Imm8)
	rd := c.Regs.R(instr.Rd)
	var result uint32
	var carry, overflow bool
	var writes bool
	switch instr.Op {
	case 0: // MOV
		result = imm
		writes = true
		c.Regs.SetNZ(result)
	case 1: // CMP
		result, carry, overflow = subWithFlags(rd, imm, true)
		c.Regs.SetNZ(result)
		c.Regs.SetFlagC(carry)
		c.Regs.SetFlagV(overflow)
	case 2: // ADD
		result, carry, overflow = addWithFlags(rd, imm, false)
		writes = true
		c.Regs.SetNZ(result)
		c.Regs.SetFlagC(carry)
		c.Regs.SetFlagV(overflow)
	case 3: // SUB
		result, carry, overflow = subWithFlags(rd, imm, true)
		writes = true
		c.Regs.SetNZ(result)
		c.Regs.SetFlagC(carry)
		c.Regs.SetFlagV(overflow)
	}
	if writes {
		c.Regs.SetR(instr.Rd, result)
	}
	return false, nil
}

func execThumbALU(c *CPU, instr ThumbALU) (bool, error) {
	rd := c.Regs.R(instr.Rd)
	rs := c.Regs.R(instr.Rs)
	cin := c.Regs.FlagC()

	var result uint32
	var carry, overflow bool
	writes := true
	updateCV := false
	updateC := false

	switch instr.Op {
	case tAND:
		result = rd & rs
	case tEOR:
		result = rd ^ rs
	case tLSL:
		result, carry = Shift(rd, ShiftLSL, rs&0xFF, cin, false)
		updateC = true
	case tLSR:
		result, carry = Shift(rd, ShiftLSR, rs&0xFF, cin, false)
		updateC = true
	case tASR:
		result, carry = Shift(rd, ShiftASR, rs&0xFF, cin, false)
		updateC = true
	case tADC:
		result, carry, overflow = addWithFlags(rd, rs, cin)
		updateCV = true
	case tSBC:
		result, carry, overflow = subWithFlags(rd, rs, cin)
		updateCV = true
	case tROR:
		result, carry = Shift(rd, ShiftROR, rs&0xFF, cin, false)
		updateC = true
	case tTST:
		result = rd & rs
		writes = false
	case tNEG:
		result, carry, overflow = subWithFlags(0, rs, true)
		updateCV = true
	case tCMP:
		result, carry, overflow = subWithFlags(rd, rs, true)
		updateCV = true
		writes = false
	case tCMN:
		result, carry, overflow = addWithFlags(rd, rs, false)
		updateCV = true
		writes = false
	case tORR:
		result = rd | rs
	case tMUL:
		result = rd * rs
	case tBIC:
		result = rd &^ rs
	case tMVN:
		result = ^rs
	}

	c.Regs.SetNZ(result)
	if updateC {
		c.Regs.SetFlagC(carry)
	}
	if updateCV {
		c.Regs.SetFlagC(carry)
		c.Regs.SetFlagV(overflow)
	}
	if writes {
		c.Regs.SetR(instr.Rd, result)
	}
	return false, nil
}

// writeThumbReg writes a low or Hi register, reporting branchTaken when the
// destination is pc.
func writeThumbReg(c *CPU, rd uint8, value uint32) bool {
	if rd == 15 {
		c.Regs.SetPC(value &^ 1)
		return true
	}
	c.Regs.SetR(rd, value)
	return false
}

func execThumbHiReg(c *CPU, instr ThumbHiReg) (bool, error) {
	rs := c.operand(instr.Rs)
	switch instr.Op {
	case ThumbHiADD:
		result := c.operand(instr.Rd) + rs
		return writeThumbReg(c, instr.Rd, result), nil
	case ThumbHiCMP:
		result, carry, overflow := subWithFlags(c.operand(instr.Rd), rs, true)
		c.Regs.SetNZ(result)
		c.Regs.SetFlagC(carry)
		c.Regs.SetFlagV(overflow)
		return false, nil
	case ThumbHiMOV:
		return writeThumbReg(c, instr.Rd, rs), nil
	case ThumbHiBX:
		if rs&1 != 0 {
			c.Regs.SetThumbState(true)
			c.Regs.SetPC(rs &^ 1)
		} else {
			c.Regs.SetThumbState(false)
			c.Regs.SetPC(rs &^ 3)
		}
		return true, nil
	}
	return false, nil
}

func execThumbPCRelLoad(c *CPU, instr ThumbPCRelLoad) (bool, error) {
	addr := c.Regs.PCRead() + uint32(instr.Imm8)*4
	c.Regs.SetR(instr.Rd, c.Mem.Read32(addr))
	return false, nil
}

func execThumbLoadStoreReg(c *CPU, instr ThumbLoadStoreReg) (bool, error) {
	addr := c.Regs.R(instr.Rb) + c.Regs.R(instr.Ro)
	if instr.L {
		if instr.B {
			c.Regs.SetR(instr.Rd, uint32(c.Mem.Read8(addr)))
		} else {
			c.Regs.SetR(instr.Rd, c.Mem.Read32(addr))
		}
	} else {
		value := c.Regs.R(instr.Rd)
		if instr.B {
			c.Mem.Write8(addr, uint8(value))
		} else {
			c.Mem.Write32(addr, value)
		}
	}
	return false, nil
}

func execThumbLoadStoreSigned(c *CPU, instr ThumbLoadStoreSigned) (bool, error) {
	addr := c.Regs.R(instr.Rb) + c.Regs.R(instr.Ro)
	switch {
	case !instr.H && !instr.S: // STRH
		c.Mem.Write16(addr, uint16(c.Regs.R(instr.Rd)))
	case instr.H && !instr.S: // LDRH
		c.Regs.SetR(instr.Rd, uint32(c.Mem.Read16(addr)))
	case !instr.H && instr.S: // LDSB
		c.Regs.SetR(instr.Rd, uint32(signExtend(uint32(c.Mem.Read8(addr)), 8)))
	default: // LDSH
		c.Regs.SetR(instr.Rd, uint32(signExtend(uint32(c.Mem.Read16(addr)), 16)))
	}
	return false, nil
}

func execThumbLoadStoreImm(c *CPU, instr ThumbLoadStoreImm) (bool, error) {
	var offset uint32
	if instr.B {
		offset = uint32(instr.Offset5)
	} else {
		offset = uint32(instr.Offset5) << 2
	}
	addr := c.Regs.R(instr.Rb) + offset
	if instr.L {
		if instr.B {
			c.Regs.SetR(instr.Rd, uint32(c.Mem.Read8(addr)))
		} else {
			c.Regs.SetR(instr.Rd, c.Mem.Read32(addr))
		}
	} else {
		value := c.Regs.R(instr.Rd)
		if instr.B {
			c.Mem.Write8(addr, uint8(value))
		} else {
			c.Mem.Write32(addr, value)
		}
	}
	return false, nil
}

func execThumbLoadStoreHalf(c *CPU, instr ThumbLoadStoreHalf) (bool, error) {
	addr := c.Regs.R(instr.Rb) + uint32(instr.Offset5)<<1
	if instr.L {
		c.Regs.SetR(instr.Rd, uint32(c.Mem.Read16(addr)))
	} else {
		c.Mem.Write16(addr, uint16(c.Regs.R(instr.Rd)))
	}
	return false, nil
}

func execThumbSPRelLoadStore(c *CPU, instr ThumbSPRelLoadStore) (bool, error) {
	addr := c.Regs.R(13) + uint32(instr.Imm8)*4
	if instr.L {
		c.Regs.SetR(instr.Rd, c.Mem.Read32(addr))
	} else {
		c.Mem.Write32(addr, c.Regs.R(instr.Rd))
	}
	return false, nil
}

func execThumbLoadAddr(c *CPU, instr ThumbLoadAddr) (bool, error) {
	var base uint32
	if instr.SP {
		base = c.Regs.R(13)
	} else {
		base = c.Regs.PCRead()
	}
	c.Regs.SetR(instr.Rd, base+uint32(instr.Imm8)*4)
	return false, nil
}

func execThumbAddSPOffset(c *CPU, instr ThumbAddSPOffset) (bool, error) {
	offset := uint32(instr.Imm7) << 2
	if instr.Sub {
		c.Regs.SetR(13, c.Regs.R(13)-offset)
	} else {
		c.Regs.SetR(13, c.Regs.R(13)+offset)
	}
	return false, nil
}

func execThumbPushPop(c *CPU, instr ThumbPushPop) (bool, error) {
	branchTaken := false
	if instr.L { // POP
		addr := c.Regs.R(13)
		for reg := uint8(0); reg < 8; reg++ {
			if instr.RList&(1<<reg) == 0 {
				continue
			}
			c.Regs.SetR(reg, c.Mem.Read32(addr))
			addr += 4
		}
		if instr.PCLR {
			c.Regs.SetPC(c.Mem.Read32(addr) &^ 1)
			addr += 4
			branchTaken = true
		}
		c.Regs.SetR(13, addr)
		return branchTaken, nil
	}

	// PUSH
	count := bits.OnesCount8(instr.RList)
	if instr.PCLR {
		count++
	}
	addr := c.Regs.R(13) - uint32(count)*4
	base := c.Regs.R(13)
	ptr := addr
	for reg := uint8(0); reg < 8; reg++ {
		if instr.RList&(1<<reg) == 0 {
			continue
		}
		c.Mem.Write32(ptr, c.Regs.R(reg))
		ptr += 4
	}
	if instr.PCLR {
		c.Mem.Write32(ptr, c.Regs.R(14))
	}
	_ = base
	c.Regs.SetR(13, addr)
	return false, nil
}

func execThumbMultipleLoadStore(c *CPU, instr ThumbMultipleLoadStore) (bool, error) {
	addr := c.Regs.R(instr.Rb)
	for reg := uint8(0); reg < 8; reg++ {
		if instr.RList&(1<<reg) == 0 {
			continue
		}
		if instr.L {
			c.Regs.SetR(reg, c.Mem.Read32(addr))
		} else {
			c.Mem.Write32(addr, c.Regs.R(reg))
		}
		addr += 4
	}
	c.Regs.SetR(instr.Rb, addr)
	return false, nil
}

func execThumbCondBranch(c *CPU, instr ThumbCondBranch) (bool, error) {
	if !EvalCondition(c.Regs, instr.Cond) {
		return false, nil
	}
	offset := signExtend(uint32(instr.Offset8)<<1, 9)
	c.Regs.SetPC(uint32(int64(c.Regs.PC()) + 4 + int64(offset)))
	return true, nil
}

func execThumbSWI(c *CPU, _ ThumbSWI) (bool, error) {
	c.Regs.SetSPSR(c.Regs.CPSR())
	c.Regs.SetR(14, c.Regs.PC()+2)
	c.Regs.SetMode(ModeSVC)
	c.Regs.SetThumbState(false)
	c.Regs.SetPC(0x08)
	return true, nil
}

func execThumbBranch(c *CPU, instr ThumbBranch) (bool, error) {
	offset := signExtend(uint32(instr.Offset11)<<1, 12)
	c.Regs.SetPC(uint32(int64(c.Regs.PC()) + 4 + int64(offset)))
	return true, nil
}

func execThumbLongBranchLink(c *CPU, instr ThumbLongBranchLink) (bool, error) {
	if !instr.H {
		offset := signExtend(uint32(instr.Offset11), 11)
		lr := uint32(int64(c.Regs.PC()) + 4 + int64(offset)<<12)
		c.Regs.SetR(14, lr)
		return false, nil
	}
	target := c.Regs.R(14) + uint32(instr.Offset11)<<1
	nextLR := (c.Regs.PC() + 2) | 1
	c.Regs.SetR(14, nextLR)
	c.Regs.SetPC(target)
	return true, nil
}
