// Package runner handles the program processing workflow of the front end
// modes.
package runner

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/retroenv/retrochip8/internal/app"
	"github.com/retroenv/retrochip8/internal/config"
	"github.com/retroenv/retrochip8/internal/disasm"
	"github.com/retroenv/retrochip8/internal/loader"
	"github.com/retroenv/retrochip8/internal/machine"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrochip8/internal/terminal"
	"github.com/retroenv/retrogolib/log"
)

var errUnknownCommand = errors.New("unknown command")

// Runner runs a program file in the mode selected by the options.
type Runner struct {
	logger *log.Logger
	opts   options.Program

	in  io.Reader
	out io.Writer
}

// New returns a runner that uses the standard input and output.
func New(logger *log.Logger, opts options.Program) *Runner {
	return &Runner{
		logger: logger,
		opts:   opts,
		in:     os.Stdin,
		out:    os.Stdout,
	}
}

// ProcessFile handles the complete workflow: loading the emulator options
// and the program and running the selected mode.
func (r *Runner) ProcessFile(ctx context.Context) error {
	emulator, err := EmulatorOptions(r.opts)
	if err != nil {
		return err
	}

	program, err := loader.New().Load(r.opts.Input)
	if err != nil {
		return fmt.Errorf("loading program: %w", err)
	}
	app.PrintInfo(r.logger, r.opts, emulator, len(program))

	if r.opts.Disasm {
		if err := disasm.Write(r.out, disasm.Program(program)); err != nil {
			return fmt.Errorf("writing disassembly: %w", err)
		}
		return nil
	}

	m, err := machine.New(r.logger, program, emulator)
	if err != nil {
		return fmt.Errorf("creating machine: %w", err)
	}

	switch {
	case r.opts.Step:
		return r.runStep(ctx, m)
	case r.opts.Headless:
		return r.runHeadless(ctx, m)
	default:
		return terminal.New(r.logger, m).Run(ctx)
	}
}

// EmulatorOptions returns the emulator options from the config file, or
// the defaults if none is given, with the command line overrides applied.
// The effective options are written to a file if requested.
func EmulatorOptions(opts options.Program) (options.Emulator, error) {
	emulator := options.NewEmulator()
	if opts.Config != "" {
		var err error
		emulator, err = config.LoadOrCreateEmulator(opts.Config)
		if err != nil {
			return emulator, fmt.Errorf("loading emulator config: %w", err)
		}
	}

	emulator = opts.Apply(emulator)
	if err := emulator.Validate(); err != nil {
		return emulator, fmt.Errorf("validating emulator options: %w", err)
	}

	if opts.WriteConfig != "" {
		if err := config.WriteEmulator(opts.WriteConfig, emulator); err != nil {
			return emulator, err
		}
	}
	return emulator, nil
}

// runHeadless runs the machine in real time for the configured number of
// frames, or until the context is canceled, and prints the display.
func (r *Runner) runHeadless(ctx context.Context, m *machine.Machine) error {
	ticker := time.NewTicker(time.Second / machine.RefreshRate)
	defer ticker.Stop()

	var runErr error
	for frame := 0; r.opts.Frames == 0 || frame < r.opts.Frames; frame++ {
		select {
		case <-ctx.Done():
			runErr = fmt.Errorf("running headless: %w", ctx.Err())
		case <-ticker.C:
			runErr = m.Run()
		}
		if runErr != nil {
			break
		}
	}

	if _, err := fmt.Fprint(r.out, m.DisplayString()); err != nil {
		return fmt.Errorf("writing display: %w", err)
	}
	return runErr
}

// runStep executes one instruction per input line and prints the debug
// state after it. Commands:
//
//	(empty)  step one instruction
//	s N      save the state to slot N
//	l N      load the state from slot N
//	p N      press key N
//	r N      release key N
//	d        print the display
//	q        quit
func (r *Runner) runStep(ctx context.Context, m *machine.Machine) error {
	m.Pause()
	if _, err := fmt.Fprint(r.out, m.DebugState()); err != nil {
		return fmt.Errorf("writing debug state: %w", err)
	}

	scanner := bufio.NewScanner(r.in)
	for scanner.Scan() {
		quit, err := r.stepCommand(ctx, m, strings.TrimSpace(scanner.Text()))
		if err != nil {
			if errors.Is(err, errUnknownCommand) || errors.Is(err, machine.ErrSaveSlotOutOfRange) ||
				errors.Is(err, machine.ErrSaveSlotEmpty) || errors.Is(err, machine.ErrInvalidKey) {
				r.logger.Warn("Command failed", log.Err(err))
				continue
			}
			return err
		}
		if quit {
			return nil
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading commands: %w", err)
	}
	return nil
}

func (r *Runner) stepCommand(ctx context.Context, m *machine.Machine, line string) (bool, error) {
	command, argument, _ := strings.Cut(line, " ")

	var err error
	switch command {
	case "":
		var state string
		state, err = m.StepDebug(ctx)
		if err == nil {
			_, err = fmt.Fprint(r.out, state)
		}

	case "q":
		return true, nil

	case "d":
		_, err = fmt.Fprint(r.out, m.DisplayString())

	case "s", "l", "p", "r":
		var n int
		n, err = strconv.Atoi(strings.TrimSpace(argument))
		if err != nil {
			return false, fmt.Errorf("%w: invalid argument '%s'", errUnknownCommand, argument)
		}
		switch command {
		case "s":
			err = m.SaveState(n)
		case "l":
			err = m.LoadState(n)
			if err == nil {
				_, err = fmt.Fprint(r.out, m.DebugState())
			}
		case "p":
			err = pressKey(m, n, true)
		case "r":
			err = pressKey(m, n, false)
		}

	default:
		return false, fmt.Errorf("%w: '%s'", errUnknownCommand, line)
	}
	return false, err
}

func pressKey(m *machine.Machine, key int, pressed bool) error {
	if key < 0 || key > 0xFF {
		return fmt.Errorf("%w: %d", machine.ErrInvalidKey, key)
	}
	if pressed {
		return m.PressKey(uint8(key))
	}
	return m.ReleaseKey(uint8(key))
}
