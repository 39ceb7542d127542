package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/bradleyjkemp/memviz"
	"github.com/spf13/cobra"

	"github.com/kapitanov/chip8core/internal/hal"
	"github.com/kapitanov/chip8core/internal/runner"
	"github.com/kapitanov/chip8core/internal/termview"
	"github.com/kapitanov/chip8core/internal/vm"
)

func main() {
	cmd := &cobra.Command{
		Use:           filepath.Base(os.Args[0]),
		Short:         "CHIP-8 interpreter",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	verbose := cmd.PersistentFlags().BoolP("verbose", "v", false, "enable verbose logging")
	seed := cmd.PersistentFlags().Uint64("seed", 0, "seed for the rnd instruction (0 picks a random seed)")
	cpuHz := cmd.PersistentFlags().Int("cpu-hz", runner.DefaultCPUHz, "instructions executed per second")
	timerHz := cmd.PersistentFlags().Int("timer-hz", runner.DefaultTimerHz, "timer decrements per second")

	cmd.PersistentPreRun = func(_ *cobra.Command, _ []string) {
		loggerOpts := &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}
		if *verbose {
			loggerOpts.Level = slog.LevelDebug
		}

		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, loggerOpts)))
	}

	newMachine := func(path string) (*vm.VM, error) {
		var opts []vm.Option
		if *seed != 0 {
			opts = append(opts, vm.WithSeed(*seed))
		}

		machine := vm.New(opts...)
		if err := machine.LoadROM(path); err != nil {
			return nil, err
		}
		return machine, nil
	}

	config := func() runner.Config {
		return runner.Config{CPUHz: *cpuHz, TimerHz: *timerHz}
	}

	cmd.AddCommand(
		runCommand(newMachine, config),
		disasmCommand(),
		traceCommand(newMachine, config),
	)

	cmd.SetArgs(os.Args[1:])
	if err := cmd.Execute(); err != nil {
		slog.Error("fatal error", "err", err)
		os.Exit(1)
	}
}

var _ runner.HAL = (*hal.HAL)(nil)

type machineFactory func(path string) (*vm.VM, error)

func runCommand(newMachine machineFactory, config func() runner.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run PATH_TO_ROM_FILE",
		Short: "Run a ROM in a window",
		Args:  cobra.ExactArgs(1),
	}

	scale := cmd.Flags().Int("scale", hal.DefaultScale, "window pixels per screen pixel")

	cmd.RunE = func(_ *cobra.Command, args []string) error {
		path := args[0]
		machine, err := newMachine(path)
		if err != nil {
			return err
		}

		h, err := hal.New(hal.Options{
			Title: fmt.Sprintf("CHIP-8 - %s", filepath.Base(path)),
			Scale: *scale,
		})
		if err != nil {
			return fmt.Errorf("unable to initialize hal: %w", err)
		}
		defer h.Shutdown()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		for {
			err = runner.Run(ctx, machine, h, config())

			if errors.Is(err, hal.ErrQuit) || errors.Is(err, context.Canceled) {
				return nil
			}

			if errors.Is(err, hal.ErrReboot) {
				slog.Info("reboot")
				machine.Reset()
				continue
			}

			return err
		}
	}

	return cmd
}

func disasmCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "disasm PATH_TO_ROM_FILE",
		Short: "Print a ROM as assembly",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			bs, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("unable to load file %q: %w", path, err)
			}

			out := cmd.OutOrStdout()
			for _, line := range vm.Disassemble(bs, vm.ProgramStart) {
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}
}

func traceCommand(newMachine machineFactory, config func() runner.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trace PATH_TO_ROM_FILE",
		Short: "Run a ROM headless for a number of cycles",
		Args:  cobra.ExactArgs(1),
	}

	cycles := cmd.Flags().IntP("cycles", "n", 600, "number of instructions to execute")
	quiet := cmd.Flags().BoolP("quiet", "q", false, "do not print executed instructions")
	show := cmd.Flags().Bool("show", false, "render the screen in the terminal when done")
	dot := cmd.Flags().String("dot", "", "write a graphviz dump of the machine state to this file")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		machine, err := newMachine(args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		var trace runner.TraceFunc
		if !*quiet {
			trace = func(pc uint16, in vm.Instruction) {
				fmt.Fprintf(out, "0x%04x  %04x  %s\n", pc, in.Word, in)
			}
		}

		faults := runner.RunHeadless(machine, config(), *cycles, trace)
		slog.Info("trace done", "cycles", *cycles, "faults", faults, "pc", fmt.Sprintf("0x%04x", machine.PC()))

		if *show {
			termview.Show(machine.Display(), fmt.Sprintf("pc=0x%04x i=0x%04x %s", machine.PC(), machine.Index(), machine.Registers()))
		}

		if *dot != "" {
			if err := writeStateGraph(*dot, machine); err != nil {
				return err
			}
		}

		return nil
	}

	return cmd
}

type machineState struct {
	PC         uint16
	Index      uint16
	SP         int
	Registers  vm.Registers
	DelayTimer uint8
	SoundTimer uint8
	Waiting    bool
	Next       string
}

func writeStateGraph(path string, machine *vm.VM) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("unable to create %q: %w", path, err)
	}
	defer f.Close()

	memviz.Map(f, &machineState{
		PC:         machine.PC(),
		Index:      machine.Index(),
		SP:         machine.SP(),
		Registers:  machine.Registers(),
		DelayTimer: machine.DelayTimer(),
		SoundTimer: machine.SoundTimer(),
		Waiting:    machine.IsWaitingForKey(),
		Next:       machine.Current().String(),
	})

	slog.Info("state graph written", "path", path)
	return nil
}
