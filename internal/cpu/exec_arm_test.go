package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"gbacore/internal/memory"
)

func newTestCPU() *CPU {
	mem := memory.New(make([]byte, 0x4000), make([]byte, 0x1000))
	return NewCPU(mem)
}

func writeARM(c *CPU, addr, word uint32) {
	c.Mem.Write32(addr, word)
}

// S1 MOV immediate.
func TestScenarioMovImmediate(t *testing.T) {
	c := newTestCPU()
	writeARM(c, 0, 0xE3A0100F)
	err := c.Step()
	assert.NoError(t, err)
	assert.Equal(t, uint32(0x0F), c.Regs.R(1))
	assert.Equal(t, uint32(4), c.Regs.PC())
}

// S2 ADD with carry flag set.
func TestScenarioAddWithCarry(t *testing.T) {
	c := newTestCPU()
	c.Regs.SetR(0, 0xFFFFFFFF)
	c.Regs.SetR(1, 1)
	writeARM(c, 0, 0xE0902001)
	err := c.Step()
	assert.NoError(t, err)
	assert.Equal(t, uint32(0), c.Regs.R(2))
	assert.True(t, c.Regs.FlagZ())
	assert.False(t, c.Regs.FlagN())
	assert.True(t, c.Regs.FlagC())
	assert.False(t, c.Regs.FlagV())
}

// S3 SUB flags.
func TestScenarioSubFlags(t *testing.T) {
	c := newTestCPU()
	c.Regs.SetR(0, 2)
	c.Regs.SetR(1, 5)
	writeARM(c, 0, 0xE0501001)
	err := c.Step()
	assert.NoError(t, err)
	assert.Equal(t, uint32(0xFFFFFFFD), c.Regs.R(1))
	assert.True(t, c.Regs.FlagN())
	assert.False(t, c.Regs.FlagZ())
	assert.False(t, c.Regs.FlagC())
	assert.False(t, c.Regs.FlagV())
}

// S4 Branch.
func TestScenarioBranch(t *testing.T) {
	c := newTestCPU()
	c.Regs.SetPC(0x100)
	writeARM(c, 0x100, 0xEA000002)
	err := c.Step()
	assert.NoError(t, err)
	assert.Equal(t, uint32(0x110), c.Regs.PC())
}

// S5 BX to Thumb.
func TestScenarioBranchExchangeToThumb(t *testing.T) {
	c := newTestCPU()
	c.Regs.SetR(0, 0x201)
	c.Regs.SetPC(0x100)
	writeARM(c, 0x100, 0xE12FFF10)
	err := c.Step()
	assert.NoError(t, err)
	assert.Equal(t, uint32(0x200), c.Regs.PC())
	assert.True(t, c.Regs.IsThumb())
}

func TestUnhandledInstructionReported(t *testing.T) {
	c := newTestCPU()
	// cond=AL, bits27-24=1110: falls in the 0b111 class but isn't the fixed
	// 1111 SWI pattern, so it decodes as undefined.
	writeARM(c, 0, 0xEE000000)
	err := c.Step()
	assert.Error(t, err)
	var unhandled *UnhandledInstructionError
	assert.ErrorAs(t, err, &unhandled)
}

func TestConditionalInstructionSkippedWhenFalse(t *testing.T) {
	c := newTestCPU()
	c.Regs.SetFlagZ(false)
	// 0x03A0100F = MOVEQ r1, #0x0F; condition EQ requires Z=1.
	writeARM(c, 0, 0x03A0100F)
	err := c.Step()
	assert.NoError(t, err)
	assert.Equal(t, uint32(0), c.Regs.R(1))
	assert.Equal(t, uint32(4), c.Regs.PC())
}

func TestDataProcessingWritesPCRestoresCPSR(t *testing.T) {
	c := newTestCPU()
	c.Regs.SetMode(ModeSVC)
	c.Regs.SetSPSR(ModeUser)
	c.Regs.SetR(0, 0x1000)
	// E1B0F000 = MOVS pc, r0
	branchTaken, err := ExecuteARM(c, 0xE1B0F000)
	assert.NoError(t, err)
	assert.True(t, branchTaken)
	assert.Equal(t, uint32(0x1000), c.Regs.PC())
	assert.Equal(t, uint32(ModeUser), c.Regs.Mode())
}

func TestExecPSRTransferMRSReadsCPSR(t *testing.T) {
	c := newTestCPU()
	c.Regs.SetMode(ModeIRQ)
	c.Regs.SetFlagN(true)
	branchTaken, err := execPSRTransfer(c, ArmPSRTransfer{Rd: 0, UseSPSR: false})
	assert.NoError(t, err)
	assert.False(t, branchTaken)
	assert.Equal(t, c.Regs.CPSR(), c.Regs.R(0))
	assert.True(t, bitSet(c.Regs.R(0), 31))
}

func TestExecPSRTransferMSRWritesSPSR(t *testing.T) {
	c := newTestCPU()
	c.Regs.SetMode(ModeSVC)
	c.Regs.SetR(1, uint32(ModeIRQ)|0x80000000)
	branchTaken, err := execPSRTransfer(c, ArmPSRTransfer{ToPSR: true, UseSPSR: true, Rm: 1})
	assert.NoError(t, err)
	assert.False(t, branchTaken)
	assert.Equal(t, c.Regs.R(1), c.Regs.SPSR())
}

func TestExecSWIEntersSupervisorMode(t *testing.T) {
	c := newTestCPU()
	c.Regs.SetMode(ModeUser)
	c.Regs.SetPC(0x1000)
	c.Regs.SetFlagZ(true)
	branchTaken, err := execSWI(c, ArmSWI{Imm: 0x42})
	assert.NoError(t, err)
	assert.True(t, branchTaken)
	assert.Equal(t, uint32(ModeSVC), c.Regs.Mode())
	assert.False(t, c.Regs.IsThumb())
	assert.Equal(t, uint32(0x1004), c.Regs.R(14))
	assert.Equal(t, uint32(0x08), c.Regs.PC())
	assert.True(t, c.Regs.FlagZ())
}

func TestBlockDataTransferPushPopRoundTrip(t *testing.T) {
	c := newTestCPU()
	c.Regs.SetR(13, 0x03007F00)
	c.Regs.SetR(0, 0x11111111)
	c.Regs.SetR(1, 0x22222222)
	// STMDB sp!, {r0,r1}: P=1,U=0,W=1,L=0
	_, err := execBlockDataTransfer(c, ArmBlockDataTransfer{
		P: true, U: false, S: false, W: true, L: false,
		Rn: 13, RegList: 0x0003,
	})
	assert.NoError(t, err)
	assert.Equal(t, uint32(0x03007EF8), c.Regs.R(13))

	// LDMIA sp!, {r2,r3}: P=0,U=1,W=1,L=1
	_, err = execBlockDataTransfer(c, ArmBlockDataTransfer{
		P: false, U: true, S: false, W: true, L: true,
		Rn: 13, RegList: 0x000C,
	})
	assert.NoError(t, err)
	assert.Equal(t, c.Regs.R(0), c.Regs.R(2))
	assert.Equal(t, c.Regs.R(1), c.Regs.R(3))
	assert.Equal(t, uint32(0x03007F00), c.Regs.R(13))
}
