package cmd

import (
	"fmt"

	"gbacore/internal/config"
	"gbacore/internal/cpu"
	"gbacore/internal/memory"
	"gbacore/rom"

	"github.com/spf13/cobra"
)

var (
	biosPath string
	romPath  string
	startPC  uint32
	maxSteps int
	trace    bool
	cfgPath  string
)

var rootCmd = &cobra.Command{
	Use:   "gbacore",
	Short: "Run a flat ARMv4T memory image to termination",
	Long: `gbacore loads a BIOS image and a ROM image, constructs the GBA-shaped
memory map and CPU core, and runs it until a termination condition is
reached: pc leaving the mapped address space, an unhandled instruction, or
the configured step budget.`,
	RunE: run,
}

func init() {
	rootCmd.Flags().StringVar(&biosPath, "bios", "", "path to a BIOS image")
	rootCmd.Flags().StringVar(&romPath, "rom", "", "path to a cartridge ROM image")
	rootCmd.Flags().Uint32Var(&startPC, "pc", 0, "initial program counter")
	rootCmd.Flags().IntVar(&maxSteps, "max-steps", 0, "stop after this many instructions (0 = unbounded)")
	rootCmd.Flags().BoolVar(&trace, "trace", false, "emit a per-instruction trace (debug builds only)")
	rootCmd.Flags().StringVar(&cfgPath, "config", "", "optional TOML file supplying any of the flags above")

	rootCmd.PreRunE = func(c *cobra.Command, args []string) error {
		if cfgPath == "" {
			return nil
		}
		fileCfg, err := config.Load(cfgPath)
		if err != nil {
			return err
		}
		if !c.Flags().Changed("bios") && fileCfg.BIOS != "" {
			biosPath = fileCfg.BIOS
		}
		if !c.Flags().Changed("rom") && fileCfg.ROM != "" {
			romPath = fileCfg.ROM
		}
		if !c.Flags().Changed("pc") && fileCfg.PC != 0 {
			startPC = fileCfg.PC
		}
		if !c.Flags().Changed("max-steps") && fileCfg.MaxSteps != 0 {
			maxSteps = fileCfg.MaxSteps
		}
		if !c.Flags().Changed("trace") && fileCfg.Trace {
			trace = true
		}
		return nil
	}
}

func run(c *cobra.Command, args []string) error {
	if biosPath == "" || romPath == "" {
		return fmt.Errorf("--bios and --rom are required")
	}

	bios, err := rom.Load(biosPath)
	if err != nil {
		return fmt.Errorf("loading bios: %w", err)
	}
	cart, err := rom.Load(romPath)
	if err != nil {
		return fmt.Errorf("loading rom: %w", err)
	}

	mem := memory.New(bios.Data, cart.Data)
	core := cpu.NewCPU(mem)
	core.Reset(startPC)
	if trace {
		cpu.AttachTrace(core)
	}

	status, err := core.Run(maxSteps)
	if err != nil && status != cpu.StatusUnhandledInstruction {
		return err
	}

	fmt.Printf("%s\n%s\n", status, core)
	if status == cpu.StatusUnhandledInstruction {
		return err
	}
	return nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
