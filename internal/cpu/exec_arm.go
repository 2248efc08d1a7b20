package cpu

import "math/bits"

// ExecuteARM executes one 32-bit ARM instruction word, per §4.F. It reports
// branchTaken=true whenever it has written pc directly, telling the
// top-level loop to skip its normal pc advance.
func ExecuteARM(c *CPU, word uint32) (branchTaken bool, err error) {
	cond := Condition(extract(word, 31, 28))
	if !EvalCondition(c.Regs, cond) {
		return false, nil
	}

	switch instr := DecodeARM(word).(type) {
	case ArmDataProcessing:
		return execDataProcessing(c, instr)
	case ArmPSRTransfer:
		return execPSRTransfer(c, instr)
	case ArmBranchExchange:
		return execBranchExchange(c, instr)
	case ArmSingleDataTransfer:
		return execSingleDataTransfer(c, instr)
	case ArmBlockDataTransfer:
		return execBlockDataTransfer(c, instr)
	case ArmBranch:
		return execBranch(c, instr)
	case ArmSWI:
		return execSWI(c, instr)
	default:
		return false, &UnhandledInstructionError{PC: c.Regs.PC(), Encoding: word}
	}
}

// operand reads register n the way an instruction operand does: r15 reads
// as pc+8 (the ARM pipeline offset), every other register reads as-is.
func (c *CPU) operand(n uint8) uint32 {
	if n == 15 {
		return c.Regs.PCRead()
	}
	return c.Regs.R(n)
}

func isTestOp(opcode uint8) bool {
	return opcode == OpTST || opcode == OpTEQ || opcode == OpCMP || opcode == OpCMN
}

func isLogicalOp(opcode uint8) bool {
	switch opcode {
	case OpAND, OpEOR, OpORR, OpBIC, OpMOV, OpMVN, OpTST, OpTEQ:
		return true
	}
	return false
}

// addCarry adds a and b plus an incoming carry, reporting the unsigned
// carry-out.
func addCarry(a, b uint32, cin bool) (result uint32, carryOut bool) {
	sum := uint64(a) + uint64(b)
	if cin {
		sum++
	}
	return uint32(sum), sum > 0xFFFFFFFF
}

// addWithFlags computes a+b+cin and the ARM ADD-family C/V flags.
func addWithFlags(a, b uint32, cin bool) (result uint32, carryOut, overflow bool) {
	result, carryOut = addCarry(a, b, cin)
	overflow = (a^result)&(b^result)&0x80000000 != 0
	return
}

// subWithFlags computes a-b-(cin?0:1) via the standard a + ^b + cin
// two's-complement identity, and the ARM SUB-family C/V flags (C = NOT
// borrow).
func subWithFlags(a, b uint32, cin bool) (result uint32, carryOut, overflow bool) {
	result, carryOut = addCarry(a, ^b, cin)
	overflow = (a^b)&(a^result)&0x80000000 != 0
	return
}

func execDataProcessing(c *CPU, dp ArmDataProcessing) (bool, error) {
	rn := c.operand(dp.Rn)
	var op2 uint32
	var shifterCarry bool

	if dp.I {
		op2 = rotateRight32(uint32(dp.Imm8), uint32(dp.RotateImm)*2)
		if dp.RotateImm == 0 {
			shifterCarry = c.Regs.FlagC()
		} else {
			shifterCarry = bitSet(op2, 31)
		}
	} else {
		rm := c.operand(dp.Rm)
		var amount uint32
		immediate := true
		if dp.RegShift {
			amount = c.Regs.R(dp.Rs) & 0xFF
			immediate = false
		} else {
			amount = uint32(dp.ShiftAmount)
		}
		op2, shifterCarry = Shift(rm, dp.ShiftType, amount, c.Regs.FlagC(), immediate)
	}

	cin := c.Regs.FlagC()
	var result uint32
	var carryOut, overflow bool
	writes := !isTestOp(dp.Opcode)

	switch dp.Opcode {
	case OpAND, OpTST:
		result = rn & op2
	case OpEOR, OpTEQ:
		result = rn ^ op2
	case OpORR:
		result = rn | op2
	case OpBIC:
		result = rn &^ op2
	case OpMOV:
		result = op2
	case OpMVN:
		result = ^op2
	case OpSUB, OpCMP:
		result, carryOut, overflow = subWithFlags(rn, op2, true)
	case OpRSB:
		result, carryOut, overflow = subWithFlags(op2, rn, true)
	case OpADD, OpCMN:
		result, carryOut, overflow = addWithFlags(rn, op2, false)
	case OpADC:
		result, carryOut, overflow = addWithFlags(rn, op2, cin)
	case OpSBC:
		result, carryOut, overflow = subWithFlags(rn, op2, cin)
	case OpRSC:
		result, carryOut, overflow = subWithFlags(op2, rn, cin)
	default:
		return false, &UnhandledInstructionError{PC: c.Regs.PC(), Encoding: uint32(dp.Opcode)}
	}

	restoreCPSR := dp.S && dp.Rd == 15 && writes
	if dp.S && !restoreCPSR {
		c.Regs.SetNZ(result)
		if isLogicalOp(dp.Opcode) {
			c.Regs.SetFlagC(shifterCarry)
		} else {
			c.Regs.SetFlagC(carryOut)
			c.Regs.SetFlagV(overflow)
		}
	}

	if !writes {
		return false, nil
	}

	if dp.Rd == 15 {
		c.Regs.SetPC(result)
		if restoreCPSR {
			c.Regs.SetCPSR(c.Regs.SPSR())
		}
		return true, nil
	}
	c.Regs.SetR(dp.Rd, result)
	return false, nil
}

func execPSRTransfer(c *CPU, pt ArmPSRTransfer) (bool, error) {
	if !pt.ToPSR {
		if pt.UseSPSR {
			c.Regs.SetR(pt.Rd, c.Regs.SPSR())
		} else {
			c.Regs.SetR(pt.Rd, c.Regs.CPSR())
		}
		return false, nil
	}

	var operand uint32
	if pt.I {
		operand = rotateRight32(uint32(pt.Imm8), uint32(pt.RotateImm)*2)
	} else {
		operand = c.Regs.R(pt.Rm)
	}
	if pt.UseSPSR {
		c.Regs.SetSPSR(operand)
	} else {
		c.Regs.SetCPSR(operand)
	}
	return false, nil
}

func execBranchExchange(c *CPU, bx ArmBranchExchange) (bool, error) {
	target := c.Regs.R(bx.Rm)
	if target&1 != 0 {
		c.Regs.SetThumbState(true)
		c.Regs.SetPC(target &^ 1)
	} else {
		c.Regs.SetThumbState(false)
		c.Regs.SetPC(target &^ 3)
	}
	return true, nil
}

func execSingleDataTransfer(c *CPU, sdt ArmSingleDataTransfer) (bool, error) {
	base := c.operand(sdt.Rn)

	var offset uint32
	if sdt.OffsetIsReg {
		offset, _ = Shift(c.Regs.R(sdt.Rm), sdt.ShiftType, uint32(sdt.ShiftAmount), c.Regs.FlagC(), true)
	} else {
		offset = sdt.Imm12
	}

	var effective uint32
	if sdt.U {
		effective = base + offset
	} else {
		effective = base - offset
	}

	accessAddr := base
	if sdt.P {
		accessAddr = effective
	}

	branchTaken := false
	if sdt.L {
		var value uint32
		if sdt.B {
			value = uint32(c.Mem.Read8(accessAddr))
		} else {
			value = c.Mem.Read32(accessAddr)
		}
		if sdt.Rd == 15 {
			c.Regs.SetPC(value &^ 3)
			branchTaken = true
		} else {
			c.Regs.SetR(sdt.Rd, value)
		}
	} else {
		value := c.operand(sdt.Rd)
		if sdt.B {
			c.Mem.Write8(accessAddr, uint8(value))
		} else {
			c.Mem.Write32(accessAddr, value)
		}
	}

	if (sdt.P && sdt.W) || !sdt.P {
		if sdt.Rn != 15 {
			c.Regs.SetR(sdt.Rn, effective)
		}
	}
	return branchTaken, nil
}

func execBlockDataTransfer(c *CPU, bdt ArmBlockDataTransfer) (bool, error) {
	base := c.Regs.R(bdt.Rn)
	count := bits.OnesCount16(bdt.RegList)
	size := uint32(count) * 4

	var addr uint32
	if bdt.U {
		addr = base
		if bdt.P {
			addr += 4
		}
	} else {
		addr = base - size
		if !bdt.P {
			addr += 4
		}
	}

	branchTaken := false
	for reg := uint8(0); reg < 16; reg++ {
		if bdt.RegList&(1<<reg) == 0 {
			continue
		}
		if bdt.L {
			value := c.Mem.Read32(addr)
			c.Regs.SetR(reg, value)
			if reg == 15 {
				branchTaken = true
				if bdt.S {
					c.Regs.SetCPSR(c.Regs.SPSR())
				}
			}
		} else {
			c.Mem.Write32(addr, c.operand(reg))
		}
		addr += 4
	}

	if bdt.W {
		if bdt.U {
			c.Regs.SetR(bdt.Rn, base+size)
		} else {
			c.Regs.SetR(bdt.Rn, base-size)
		}
	}
	return branchTaken, nil
}

func execBranch(c *CPU, br ArmBranch) (bool, error) {
	pc := c.Regs.PC()
	if br.Link {
		c.Regs.SetR(14, pc+4)
	}
	c.Regs.SetPC(uint32(int64(pc) + 8 + int64(br.Offset)))
	return true, nil
}

func execSWI(c *CPU, _ ArmSWI) (bool, error) {
	c.Regs.SetSPSR(c.Regs.CPSR())
	c.Regs.SetR(14, c.Regs.PC()+4)
	c.Regs.SetMode(ModeSVC)
	c.Regs.SetThumbState(false)
	c.Regs.SetPC(0x08)
	return true, nil
}
