package cpu

// DecodeARM classifies a 32-bit ARM instruction word into a tagged variant,
// per §4.F. The returned value is one of ArmDataProcessing,
// ArmPSRTransfer, ArmBranchExchange, ArmSingleDataTransfer,
// ArmBlockDataTransfer, ArmBranch, ArmSWI or ArmUndefined.
func DecodeARM(word uint32) interface{} {
	cond := Condition(extract(word, 31, 28))

	if extract(word, 27, 4) == 0x12FFF1 {
		return ArmBranchExchange{Cond: cond, Rm: uint8(extract(word, 3, 0))}
	}

	switch extract(word, 27, 25) {
	case 0b000, 0b001:
		return decodeDataProcessingOrPSR(word, cond)
	case 0b010, 0b011:
		return decodeSingleDataTransfer(word, cond)
	case 0b100:
		return decodeBlockDataTransfer(word, cond)
	case 0b101:
		return decodeBranch(word, cond)
	case 0b111:
		if extract(word, 27, 24) == 0b1111 {
			return ArmSWI{Cond: cond, Imm: extract(word, 23, 0)}
		}
		return ArmUndefined{Cond: cond, Encoding: word}
	default:
		return ArmUndefined{Cond: cond, Encoding: word}
	}
}

func decodeDataProcessingOrPSR(word uint32, cond Condition) interface{} {
	i := bitSet(word, 25)
	opcode := uint8(extract(word, 24, 21))
	s := bitSet(word, 20)

	if !s && opcode >= OpTST && opcode <= OpCMN {
		return decodePSRTransfer(word, cond, opcode)
	}

	dp := ArmDataProcessing{
		Cond:   cond,
		I:      i,
		Opcode: opcode,
		S:      s,
		Rn:     uint8(extract(word, 19, 16)),
		Rd:     uint8(extract(word, 15, 12)),
	}
	if i {
		dp.RotateImm = uint8(extract(word, 11, 8))
		dp.Imm8 = uint8(extract(word, 7, 0))
	} else {
		dp.ShiftType = ShiftType(extract(word, 6, 5))
		dp.RegShift = bitSet(word, 4)
		if dp.RegShift {
			dp.Rs = uint8(extract(word, 11, 8))
		} else {
			dp.ShiftAmount = uint8(extract(word, 11, 7))
		}
		dp.Rm = uint8(extract(word, 3, 0))
	}
	return dp
}

// decodePSRTransfer handles MRS/MSR, encoded as TST/TEQ/CMP/CMN (S=0).
// Bit 21 selects MSR (1) vs MRS (0); bit 22 selects SPSR (1) vs CPSR (0).
func decodePSRTransfer(word uint32, cond Condition, opcode uint8) interface{} {
	toPSR := bitSet(word, 21)
	useSPSR := bitSet(word, 22)
	pt := ArmPSRTransfer{Cond: cond, UseSPSR: useSPSR, ToPSR: toPSR}
	if !toPSR {
		pt.Rd = uint8(extract(word, 15, 12))
		return pt
	}
	pt.I = bitSet(word, 25)
	if pt.I {
		pt.RotateImm = uint8(extract(word, 11, 8))
		pt.Imm8 = uint8(extract(word, 7, 0))
	} else {
		pt.Rm = uint8(extract(word, 3, 0))
	}
	return pt
}

func decodeSingleDataTransfer(word uint32, cond Condition) interface{} {
	sdt := ArmSingleDataTransfer{
		Cond: cond,
		P:    bitSet(word, 24),
		U:    bitSet(word, 23),
		B:    bitSet(word, 22),
		W:    bitSet(word, 21),
		L:    bitSet(word, 20),
		Rn:   uint8(extract(word, 19, 16)),
		Rd:   uint8(extract(word, 15, 12)),
	}
	sdt.OffsetIsReg = bitSet(word, 25)
	if sdt.OffsetIsReg {
		sdt.ShiftType = ShiftType(extract(word, 6, 5))
		sdt.ShiftAmount = uint8(extract(word, 11, 7))
		sdt.Rm = uint8(extract(word, 3, 0))
	} else {
		sdt.Imm12 = extract(word, 11, 0)
	}
	return sdt
}

func decodeBlockDataTransfer(word uint32, cond Condition) interface{} {
	return ArmBlockDataTransfer{
		Cond:    cond,
		P:       bitSet(word, 24),
		U:       bitSet(word, 23),
		S:       bitSet(word, 22),
		W:       bitSet(word, 21),
		L:       bitSet(word, 20),
		Rn:      uint8(extract(word, 19, 16)),
		RegList: uint16(extract(word, 15, 0)),
	}
}

func decodeBranch(word uint32, cond Condition) interface{} {
	offset24 := extract(word, 23, 0)
	offset := signExtend(offset24<<2, 26)
	return ArmBranch{
		Cond:   cond,
		Link:   bitSet(word, 24),
		Offset: offset,
	}
}
