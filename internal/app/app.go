// Package app provides the main application helpers for the emulator.
package app

import (
	"strings"

	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"
)

// PrintBanner prints application version information.
func PrintBanner(logger *log.Logger, opts options.Program, version, commit, date string) {
	if opts.Quiet {
		return
	}

	if len(commit) > 7 {
		commit = commit[:7]
	}
	logger.Info("retrochip8", log.String("version", buildinfo.Version(version, commit, date)))

	if date != "" && !strings.Contains(date, "unknown") {
		logger.Info("Build", log.String("date", date))
	}
}

// PrintInfo prints the information about the program file and the
// emulator configuration it runs with.
func PrintInfo(logger *log.Logger, opts options.Program, emulator options.Emulator, programSize int) {
	if opts.Quiet {
		return
	}

	logger.Info("Processing CHIP-8 program",
		log.String("file", opts.Input),
		log.Int("size", programSize),
		log.String("mode", Mode(opts)),
	)
	if opts.Disasm {
		return
	}

	logger.Info("Emulator configuration",
		log.Int("clock_speed_hz", int(emulator.ClockSpeedHz)),
		log.Bool("shifting_with_vy", emulator.ShiftingWithVy),
		log.Bool("sprite_clipping", emulator.SpriteClipping),
		log.Bool("vblank_delay", emulator.EmulateDrawVblankDelay),
		log.Int("vblank_idle_cycles", int(emulator.VblankIdleCycles)),
	)
	if emulator.VblankIdleCycles > 0 && !emulator.EmulateDrawVblankDelay {
		logger.Warn("Vblank idle cycles have no effect without the draw vblank delay")
	}
}

// Mode returns the name of the front end mode selected by the options.
func Mode(opts options.Program) string {
	switch {
	case opts.Disasm:
		return "disasm"
	case opts.Step:
		return "step"
	case opts.Headless:
		return "headless"
	default:
		return "terminal"
	}
}
