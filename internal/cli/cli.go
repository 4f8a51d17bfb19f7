// Package cli handles command line interface logic
package cli

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/retroenv/retrochip8/internal/options"
)

var (
	errMultipleModes  = errors.New("only one of -disasm, -headless and -step can be used")
	errNegativeFrames = errors.New("frame count can not be negative")
)

// ParseFlags parses command line flags and returns the program options.
func ParseFlags() (options.Program, error) {
	flags := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	var opts options.Program
	readOptionFlags(flags, &opts)

	err := flags.Parse(os.Args[1:])
	args := flags.Args()
	if err != nil || (len(args) == 0 && opts.Input == "") {
		return opts, &UsageError{flags: flags}
	}

	if err := validateArgs(args); err != nil {
		return opts, err
	}

	if opts.Input == "" {
		opts.Input = args[0]
	}

	if err := validateOptions(opts); err != nil {
		return opts, err
	}
	return opts, nil
}

// UsageError represents an error that should show usage information
type UsageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

func (e *UsageError) ShowUsage() {
	fmt.Printf("usage: retrochip8 [options] <program file>\n\n")
	if e.flags != nil {
		e.flags.PrintDefaults()
	}
	fmt.Println()
}

// validateArgs checks if arguments are in correct order
func validateArgs(args []string) error {
	for i, arg := range args {
		if i > 0 && arg != "" && arg[0] == '-' {
			return &UsageError{
				msg: fmt.Sprintf("Potential argument %s found after program file, please pass the program file as last argument", arg),
			}
		}
	}
	return nil
}

// validateOptions checks for option values and combinations that can not be used.
func validateOptions(opts options.Program) error {
	modes := 0
	for _, enabled := range []bool{opts.Disasm, opts.Headless, opts.Step} {
		if enabled {
			modes++
		}
	}
	if modes > 1 {
		return errMultipleModes
	}

	if opts.Frames < 0 {
		return fmt.Errorf("%w: %d", errNegativeFrames, opts.Frames)
	}
	return nil
}

func readOptionFlags(flags *flag.FlagSet, opts *options.Program) {
	flags.StringVar(&opts.Input, "i", "", "name of the input program file")
	flags.StringVar(&opts.Config, "c", "", "emulator JSON config file, created with defaults if it does not exist")
	flags.StringVar(&opts.WriteConfig, "write-config", "", "write the effective emulator config to a JSON file")
	flags.BoolVar(&opts.Disasm, "disasm", false, "print a disassembly listing of the program and exit")
	flags.BoolVar(&opts.Headless, "headless", false, "run without terminal rendering and print the display at exit")
	flags.BoolVar(&opts.Step, "step", false, "single step instructions and print the debug state")
	flags.IntVar(&opts.Frames, "frames", 0, "number of frames to run, 0 runs until interrupted")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")
	flags.UintVar(&opts.ClockSpeedHz, "clock", 0, "instructions per second, overrides the configured clock speed")
	flags.BoolVar(&opts.Wraparound, "wrap", false, "wrap sprites around the display edges instead of clipping them")
	flags.BoolVar(&opts.VblankDelay, "vblank", false, "delay sprite drawing until the vertical blank")
}
