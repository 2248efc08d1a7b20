package cpu

// Tagged variants for the 19 standard Thumb instruction formats (§4.G).

type ThumbShiftImm struct { // format 1
	Op      ShiftType // LSL, LSR or ASR only
	Offset5 uint8
	Rs, Rd  uint8
}

type ThumbAddSub struct { // format 2
	Imm      bool
	Sub      bool
	RnOrImm3 uint8
	Rs, Rd   uint8
}

type ThumbImmOp struct { // format 3
	Op   uint8 // 0=MOV 1=CMP 2=ADD 3=SUB
	Rd   uint8
	Imm8 uint8
}

type ThumbALU struct { // format 4
	Op     uint8 // 0..15
	Rs, Rd uint8
}

// Hi-register ALU opcodes (format 5).
const (
	ThumbHiADD = 0
	ThumbHiCMP = 1
	ThumbHiMOV = 2
	ThumbHiBX  = 3
)

type ThumbHiReg struct { // format 5
	Op     uint8
	Rs, Rd uint8 // already merged with H1/H2, full 0..15 register numbers
}

type ThumbPCRelLoad struct { // format 6
	Rd   uint8
	Imm8 uint8
}

type ThumbLoadStoreReg struct { // format 7
	L, B       bool
	Ro, Rb, Rd uint8
}

type ThumbLoadStoreSigned struct { // format 8: S=0,H=0 STRH; S=0,H=1 LDRH; S=1,H=0 LDSB; S=1,H=1 LDSH
	H, S       bool
	Ro, Rb, Rd uint8
}

type ThumbLoadStoreImm struct { // format 9
	B, L       bool
	Offset5    uint8
	Rb, Rd     uint8
}

type ThumbLoadStoreHalf struct { // format 10
	L       bool
	Offset5 uint8
	Rb, Rd  uint8
}

type ThumbSPRelLoadStore struct { // format 11
	L    bool
	Rd   uint8
	Imm8 uint8
}

type ThumbLoadAddr struct { // format 12
	SP   bool // false: from PC, true: from SP
	Rd   uint8
	Imm8 uint8
}

type ThumbAddSPOffset struct { // format 13
	Sub  bool
	Imm7 uint8
}

type ThumbPushPop struct { // format 14
	L     bool
	PCLR  bool // include PC (pop) or LR (push)
	RList uint8
}

type ThumbMultipleLoadStore struct { // format 15
	L     bool
	Rb    uint8
	RList uint8
}

type ThumbCondBranch struct { // format 16
	Cond    Condition
	Offset8 uint8
}

type ThumbSWI struct { // format 17
	Imm8 uint8
}

type ThumbBranch struct { // format 18
	Offset11 uint16
}

type ThumbLongBranchLink struct { // format 19
	H        bool
	Offset11 uint16
}

type ThumbUndefined struct {
	Encoding uint16
}
