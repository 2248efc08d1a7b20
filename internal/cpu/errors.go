package cpu

import "fmt"

// UnhandledInstructionError reports a decode that reached an encoding the
// implementation does not recognize. It is fatal to the run that produced
// it: the loop stops and surfaces the offending encoding and pc, per §7.
type UnhandledInstructionError struct {
	PC      uint32
	Encoding uint32
	Thumb   bool
}

func (e *UnhandledInstructionError) Error() string {
	if e.Thumb {
		return fmt.Sprintf("unhandled thumb instruction 0x%04X at pc=0x%08X", e.Encoding, e.PC)
	}
	return fmt.Sprintf("unhandled arm instruction 0x%08X at pc=0x%08X", e.Encoding, e.PC)
}
