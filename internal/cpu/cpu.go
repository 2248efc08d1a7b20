package cpu

import (
	"fmt"

	"gbacore/internal/memory"
)

// Status reports why a Run loop stopped.
type Status int

const (
	// StatusRunning is never returned; it is the zero value used internally
	// while a Run loop is still stepping.
	StatusRunning Status = iota
	// StatusHalted means Run stopped because pc left every mapped region.
	StatusHalted
	// StatusUnhandledInstruction means Step hit an encoding this core does
	// not implement.
	StatusUnhandledInstruction
	// StatusCancelled means the caller's Cancel hook returned true between
	// steps.
	StatusCancelled
	// StatusMaxSteps means Run reached its step budget.
	StatusMaxSteps
)

func (s Status) String() string {
	switch s {
	case StatusHalted:
		return "halted"
	case StatusUnhandledInstruction:
		return "unhandled instruction"
	case StatusCancelled:
		return "cancelled"
	case StatusMaxSteps:
		return "max steps reached"
	default:
		return "running"
	}
}

// CPU is the interpreter core: a flat register file plus a memory view. It
// holds no scheduling state of its own beyond what Step needs to decide the
// next fetch address.
type CPU struct {
	Regs *Registers
	Mem  memory.View

	// Cancel, if set, is polled once per Step by Run; returning true stops
	// the loop with StatusCancelled after the in-flight step completes.
	Cancel func() bool

	// Trace, if set, is called after every successfully executed
	// instruction. AttachTrace (see trace.go) wires it to the dbg logger;
	// it is nil unless AttachTrace has been called.
	Trace func(pc uint32, encoding uint32, thumb bool)
}

// NewCPU constructs a CPU over the given memory view, with registers reset
// to the architectural power-on state (§4.H).
func NewCPU(mem memory.View) *CPU {
	return &CPU{
		Regs: NewRegisters(),
		Mem:  mem,
	}
}

// Reset returns the register file to ARM state, User mode, pc=entry.
func (c *CPU) Reset(entry uint32) {
	c.Regs = NewRegisters()
	c.Regs.SetPC(entry)
}

// Step executes exactly one instruction at the current pc, fetching in ARM
// or Thumb form according to the T bit, and advances pc unless the
// instruction branched (§4.H).
func (c *CPU) Step() error {
	pc := c.Regs.PC()
	thumb := c.Regs.IsThumb()

	var branchTaken bool
	var err error
	var encoding uint32

	if thumb {
		hw := c.Mem.Read16(pc)
		encoding = uint32(hw)
		branchTaken, err = ExecuteThumb(c, hw)
	} else {
		word := c.Mem.Read32(pc)
		encoding = word
		branchTaken, err = ExecuteARM(c, word)
	}

	if err != nil {
		return err
	}

	if !branchTaken {
		if thumb {
			c.Regs.SetPC(pc + 2)
		} else {
			c.Regs.SetPC(pc + 4)
		}
	}

	if c.Trace != nil {
		c.Trace(pc, encoding, thumb)
	}
	return nil
}

// Run steps the core until pc leaves the mapped address space, an
// unhandled instruction is hit, the caller's Cancel hook fires, or maxSteps
// is reached (maxSteps<=0 means unbounded), per §7's termination set.
func (c *CPU) Run(maxSteps int) (Status, error) {
	steps := 0
	for {
		if !c.Mem.Mapped(c.Regs.PC()) {
			return StatusHalted, nil
		}
		if maxSteps > 0 && steps >= maxSteps {
			return StatusMaxSteps, nil
		}
		if c.Cancel != nil && c.Cancel() {
			return StatusCancelled, nil
		}
		if err := c.Step(); err != nil {
			return StatusUnhandledInstruction, err
		}
		steps++
	}
}

// String renders a one-line register dump, used by the CLI and by trace
// output.
func (c *CPU) String() string {
	r := c.Regs
	return fmt.Sprintf("pc=%08X cpsr=%08X mode=%02X thumb=%v", r.PC(), r.CPSR(), r.Mode(), r.IsThumb())
}
