package cpu

import (
	"gbacore/util/convert"
	"gbacore/util/dbg"
)

// AttachTrace wires c.Trace to the dbg package's build-tagged logger, so
// per-instruction trace records are emitted under the debug build tag and
// passed to a no-op logger otherwise. This is the optional instrumentation
// hook; it plays no part in core correctness.
func AttachTrace(c *CPU) {
	c.Trace = func(pc uint32, encoding uint32, thumb bool) {
		r := c.Regs
		if thumb {
			dbg.Printf("pc=%08X op=%04X cpsr=%08X n=%d z=%d c=%d v=%d",
				pc, encoding, r.CPSR(),
				convert.BoolToInt(r.FlagN()), convert.BoolToInt(r.FlagZ()),
				convert.BoolToInt(r.FlagC()), convert.BoolToInt(r.FlagV()))
			return
		}
		dbg.Printf("pc=%08X op=%08X cpsr=%08X n=%d z=%d c=%d v=%d",
			pc, encoding, r.CPSR(),
			convert.BoolToInt(r.FlagN()), convert.BoolToInt(r.FlagZ()),
			convert.BoolToInt(r.FlagC()), convert.BoolToInt(r.FlagV()))
	}
}
