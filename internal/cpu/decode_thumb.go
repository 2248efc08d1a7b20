package cpu

// DecodeThumb classifies a 16-bit Thumb halfword into one of the 19
// standard Thumb instruction formats (§4.G). Each format is decoded
// independently; none fall through into another (Open Question 3).
func DecodeThumb(hw uint16) interface{} {
	w := uint32(hw)

	switch extract(w, 15, 13) {
	case 0b000:
		if extract(w, 12, 11) == 0b11 {
			return decodeThumbFormat2(w)
		}
		return decodeThumbFormat1(w)
	case 0b001:
		return decodeThumbFormat3(w)
	case 0b010:
		if !bitSet(w, 12) {
			if !bitSet(w, 11) {
				if !bitSet(w, 10) {
					return decodeThumbFormat4(w)
				}
				return decodeThumbFormat5(w)
			}
			return decodeThumbFormat6(w)
		}
		if bitSet(w, 9) {
			return decodeThumbFormat8(w)
		}
		return decodeThumbFormat7(w)
	case 0b011:
		return decodeThumbFormat9(w)
	case 0b100:
		if bitSet(w, 12) {
			return decodeThumbFormat11(w)
		}
		return decodeThumbFormat10(w)
	case 0b101:
		if bitSet(w, 12) {
			return decodeThumbFormat14(w)
		}
		return decodeThumbFormat12(w)
	case 0b110:
		if bitSet(w, 12) {
			return decodeThumbFormat16(w)
		}
		return decodeThumbFormat15(w)
	case 0b111:
		if !bitSet(w, 12) {
			return ThumbBranch{Offset11: uint16(extract(w, 10, 0))}
		}
		return ThumbLongBranchLink{H: bitSet(w, 11), Offset11: uint16(extract(w, 10, 0))}
	}
	return ThumbUndefined{Encoding: hw}
}

func decodeThumbFormat1(w uint32) interface{} {
	return ThumbShiftImm{
		Op:      ShiftType(extract(w, 12, 11)),
		Offset5: uint8(extract(w, 10, 6)),
		Rs:      uint8(extract(w, 5, 3)),
		Rd:      uint8(extract(w, 2, 0)),
	}
}

func decodeThumbFormat2(w uint32) interface{} {
	// bits 15-11 = 00011
	return ThumbAddSub{
		Imm:      bitSet(w, 10),
		Sub:      bitSet(w, 9),
		RnOrImm3: uint8(extract(w, 8, 6)),
		Rs:       uint8(extract(w, 5, 3)),
		Rd:       uint8(extract(w, 2, 0)),
	}
}

func decodeThumbFormat3(w uint32) interface{} {
	return ThumbImmOp{
		Op:   uint8(extract(w, 12, 11)),
		Rd:   uint8(extract(w, 10, 8)),
		Imm8: uint8(extract(w, 7, 0)),
	}
}

func decodeThumbFormat4(w uint32) interface{} {
	return ThumbALU{
		Op: uint8(extract(w, 9, 6)),
		Rs: uint8(extract(w, 5, 3)),
		Rd: uint8(extract(w, 2, 0)),
	}
}

func decodeThumbFormat5(w uint32) interface{} {
	h1 := bit(w, 7)
	h2 := bit(w, 6)
	rs := uint8(h2<<3) | uint8(extract(w, 5, 3))
	rd := uint8(h1<<3) | uint8(extract(w, 2, 0))
	return ThumbHiReg{
		Op: uint8(extract(w, 9, 8)),
		Rs: rs,
		Rd: rd,
	}
}

func decodeThumbFormat6(w uint32) interface{} {
	return ThumbPCRelLoad{
		Rd:   uint8(extract(w, 10, 8)),
		Imm8: uint8(extract(w, 7, 0)),
	}
}

func decodeThumbFormat8(w uint32) interface{} {
	return ThumbLoadStoreSigned{
		H:  bitSet(w, 11),
		S:  bitSet(w, 10),
		Ro: uint8(extract(w, 8, 6)),
		Rb: uint8(extract(w, 5, 3)),
		Rd: uint8(extract(w, 2, 0)),
	}
}

func decodeThumbFormat7(w uint32) interface{} {
	return ThumbLoadStoreReg{
		L:  bitSet(w, 11),
		B:  bitSet(w, 10),
		Ro: uint8(extract(w, 8, 6)),
		Rb: uint8(extract(w, 5, 3)),
		Rd: uint8(extract(w, 2, 0)),
	}
}

func decodeThumbFormat9(w uint32) interface{} {
	return ThumbLoadStoreImm{
		B:       bitSet(w, 12),
		L:       bitSet(w, 11),
		Offset5: uint8(extract(w, 10, 6)),
		Rb:      uint8(extract(w, 5, 3)),
		Rd:      uint8(extract(w, 2, 0)),
	}
}

func decodeThumbFormat10(w uint32) interface{} {
	return ThumbLoadStoreHalf{
		L:       bitSet(w, 11),
		Offset5: uint8(extract(w, 10, 6)),
		Rb:      uint8(extract(w, 5, 3)),
		Rd:      uint8(extract(w, 2, 0)),
	}
}

func decodeThumbFormat11(w uint32) interface{} {
	return ThumbSPRelLoadStore{
		L:    bitSet(w, 11),
		Rd:   uint8(extract(w, 10, 8)),
		Imm8: uint8(extract(w, 7, 0)),
	}
}

func decodeThumbFormat12(w uint32) interface{} {
	return ThumbLoadAddr{
		SP:   bitSet(w, 11),
		Rd:   uint8(extract(w, 10, 8)),
		Imm8: uint8(extract(w, 7, 0)),
	}
}

func decodeThumbFormat13(w uint32) interface{} {
	return ThumbAddSPOffset{
		Sub:  bitSet(w, 7),
		Imm7: uint8(extract(w, 6, 0)),
	}
}

func decodeThumbFormat14(w uint32) interface{} {
	// bits 15-12 = 1011; bits 11-8 distinguish push/pop (L10R) from
	// add-offset-to-sp (0000).
	if extract(w, 11, 8) == 0b0000 {
		return decodeThumbFormat13(w)
	}
	return ThumbPushPop{
		L:     bitSet(w, 11),
		PCLR:  bitSet(w, 8),
		RList: uint8(extract(w, 7, 0)),
	}
}

func decodeThumbFormat15(w uint32) interface{} {
	return ThumbMultipleLoadStore{
		L:     bitSet(w, 11),
		Rb:    uint8(extract(w, 10, 8)),
		RList: uint8(extract(w, 7, 0)),
	}
}

func decodeThumbFormat16(w uint32) interface{} {
	cond := Condition(extract(w, 11, 8))
	imm8 := uint8(extract(w, 7, 0))
	if cond == CondNV {
		return ThumbSWI{Imm8: imm8}
	}
	return ThumbCondBranch{Cond: cond, Offset8: imm8}
}
