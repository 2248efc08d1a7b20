package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func setThumb(c *CPU, addr uint32, hw uint16) {
	c.Regs.SetThumbState(true)
	c.Mem.Write16(addr, hw)
}

// S6 Thumb push/pop round-trip.
func TestScenarioThumbPushPopRoundTrip(t *testing.T) {
	c := newTestCPU()
	c.Regs.SetThumbState(true)
	c.Regs.SetR(13, 0x03007F00)
	c.Regs.SetR(0, 0xAAAA0000)
	c.Regs.SetR(1, 0xBBBB0000)
	c.Regs.SetR(2, 0xCCCC0000)
	c.Regs.SetR(3, 0xDDDD0000)

	// PUSH {r0-r3}
	_, err := execThumbPushPop(c, ThumbPushPop{L: false, PCLR: false, RList: 0x0F})
	assert.NoError(t, err)
	assert.Equal(t, uint32(0x03007EF0), c.Regs.R(13))

	// POP {r4-r7}
	_, err = execThumbPushPop(c, ThumbPushPop{L: true, PCLR: false, RList: 0xF0})
	assert.NoError(t, err)
	assert.Equal(t, c.Regs.R(0), c.Regs.R(4))
	assert.Equal(t, c.Regs.R(1), c.Regs.R(5))
	assert.Equal(t, c.Regs.R(2), c.Regs.R(6))
	assert.Equal(t, c.Regs.R(3), c.Regs.R(7))
	assert.Equal(t, uint32(0x03007F00), c.Regs.R(13))
}

func TestThumbALUCompareSetsFlagsWithoutWriting(t *testing.T) {
	c := newTestCPU()
	c.Regs.SetR(0, 0)
	c.Regs.SetR(1, 5)
	_, err := execThumbALU(c, ThumbALU{Op: tCMP, Rs: 1, Rd: 0})
	assert.NoError(t, err)
	assert.True(t, c.Regs.FlagN())
	assert.False(t, c.Regs.FlagZ())
	assert.Equal(t, uint32(0), c.Regs.R(0)) // CMP does not write
}

func TestThumbConditionalBranchTaken(t *testing.T) {
	c := newTestCPU()
	c.Regs.SetThumbState(true)
	c.Regs.SetPC(0x100)
	c.Regs.SetFlagZ(true)
	branchTaken, err := execThumbCondBranch(c, ThumbCondBranch{Cond: CondEQ, Offset8: 2})
	assert.NoError(t, err)
	assert.True(t, branchTaken)
	assert.Equal(t, uint32(0x100+4+4), c.Regs.PC())
}

func TestThumbConditionalBranchNotTaken(t *testing.T) {
	c := newTestCPU()
	c.Regs.SetThumbState(true)
	c.Regs.SetPC(0x100)
	c.Regs.SetFlagZ(false)
	branchTaken, err := execThumbCondBranch(c, ThumbCondBranch{Cond: CondEQ, Offset8: 2})
	assert.NoError(t, err)
	assert.False(t, branchTaken)
}

func TestThumbLongBranchLinkTwoHalfwords(t *testing.T) {
	c := newTestCPU()
	c.Regs.SetThumbState(true)
	c.Regs.SetPC(0x1000)

	_, err := execThumbLongBranchLink(c, ThumbLongBranchLink{H: false, Offset11: 0})
	assert.NoError(t, err)
	firstLR := c.Regs.R(14)
	assert.Equal(t, uint32(0x1000+4), firstLR)

	c.Regs.SetPC(0x1002)
	branchTaken, err := execThumbLongBranchLink(c, ThumbLongBranchLink{H: true, Offset11: 4})
	assert.NoError(t, err)
	assert.True(t, branchTaken)
	assert.Equal(t, firstLR+8, c.Regs.PC())
	assert.Equal(t, (uint32(0x1002+2))|1, c.Regs.R(14))
}

func TestThumbBranchExchangeToArm(t *testing.T) {
	c := newTestCPU()
	c.Regs.SetThumbState(true)
	c.Regs.SetR(1, 0x2000)
	branchTaken, err := execThumbHiReg(c, ThumbHiReg{Op: ThumbHiBX, Rs: 1, Rd: 0})
	assert.NoError(t, err)
	assert.True(t, branchTaken)
	assert.False(t, c.Regs.IsThumb())
	assert.Equal(t, uint32(0x2000), c.Regs.PC())
}

func TestExecThumbSWIEntersSupervisorMode(t *testing.T) {
	c := newTestCPU()
	c.Regs.SetThumbState(true)
	c.Regs.SetMode(ModeUser)
	c.Regs.SetPC(0x1000)
	branchTaken, err := execThumbSWI(c, ThumbSWI{Imm8: 7})
	assert.NoError(t, err)
	assert.True(t, branchTaken)
	assert.Equal(t, uint32(ModeSVC), c.Regs.Mode())
	assert.False(t, c.Regs.IsThumb())
	assert.Equal(t, uint32(0x1002), c.Regs.R(14))
	assert.Equal(t, uint32(0x08), c.Regs.PC())
}
