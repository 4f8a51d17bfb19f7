// Package terminal runs a machine interactively in a terminal. The display
// is rendered with goterm and the keyboard is read in raw mode.
package terminal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tm "github.com/buger/goterm"
	"github.com/retroenv/retrochip8/internal/display"
	"github.com/retroenv/retrogolib/log"
	"golang.org/x/term"
)

const (
	frameRate  = 60
	holdFrames = 6 // covers the initial auto repeat delay of most terminals

	keyCtrlC  = 0x03
	keyEscape = 0x1b
)

// ErrNotTerminal is returned when the standard input is not a terminal.
var ErrNotTerminal = errors.New("standard input is not a terminal")

// Machine is the part of the machine the terminal front end drives.
type Machine interface {
	Run() error
	Pause()
	Resume()
	Paused() bool
	PressKey(key uint8) error
	ReleaseKey(key uint8) error
	SaveState(slot int) error
	LoadState(slot int) error
	Display() display.Display
	SoundActive() bool
}

// Terminal is the interactive front end.
type Terminal struct {
	logger  *log.Logger
	machine Machine
	keypad  *Keypad
	status  string
}

// New returns a terminal front end for a machine.
func New(logger *log.Logger, machine Machine) *Terminal {
	return &Terminal{
		logger:  logger,
		machine: machine,
		keypad:  NewKeypad(holdFrames),
	}
}

// Run puts the terminal in raw mode and runs the machine until the context
// is canceled, the user quits or the machine fails.
func (t *Terminal) Run(ctx context.Context) error {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return ErrNotTerminal
	}

	state, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("setting terminal raw mode: %w", err)
	}
	defer func() {
		if err := term.Restore(fd, state); err != nil {
			t.logger.Error("Restoring terminal failed", log.Err(err))
		}
	}()

	input := make(chan byte, 64)
	go readInput(os.Stdin, input)

	ticker := time.NewTicker(time.Second / frameRate)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("running terminal: %w", ctx.Err())

		case b, ok := <-input:
			if !ok {
				return nil
			}
			quit, err := t.handleInput(b)
			if err != nil {
				return err
			}
			if quit {
				return nil
			}

		case <-ticker.C:
			if err := t.frame(); err != nil {
				return err
			}
			render(Frame(t.machine.Display(), t.statusLine()))
		}
	}
}

// readInput forwards bytes read from the reader until it fails. The read
// blocks, so the goroutine ends with the process.
func readInput(r io.Reader, input chan<- byte) {
	defer close(input)
	buf := make([]byte, 16)
	for {
		n, err := r.Read(buf)
		for _, b := range buf[:n] {
			input <- b
		}
		if err != nil {
			return
		}
	}
}

// handleInput processes a single input byte and returns whether the user
// quits.
func (t *Terminal) handleInput(b byte) (bool, error) {
	switch b {
	case keyCtrlC, keyEscape:
		return true, nil

	case ' ':
		if t.machine.Paused() {
			t.machine.Resume()
			t.status = ""
		} else {
			t.machine.Pause()
			t.status = "paused"
		}
		return false, nil

	case 'o':
		if err := t.machine.SaveState(0); err != nil {
			t.status = err.Error()
		} else {
			t.status = "state saved"
		}
		return false, nil

	case 'p':
		if err := t.machine.LoadState(0); err != nil {
			t.status = err.Error()
		} else {
			t.status = "state loaded"
		}
		return false, nil
	}

	key, ok := KeyFor(b)
	if !ok {
		return false, nil
	}
	if t.keypad.Press(key) {
		if err := t.machine.PressKey(key); err != nil {
			return false, fmt.Errorf("pressing key: %w", err)
		}
	}
	return false, nil
}

// frame releases expired keys and runs the machine.
func (t *Terminal) frame() error {
	for _, key := range t.keypad.Tick() {
		if err := t.machine.ReleaseKey(key); err != nil {
			return fmt.Errorf("releasing key: %w", err)
		}
	}

	if err := t.machine.Run(); err != nil {
		return fmt.Errorf("running machine: %w", err)
	}
	return nil
}

func (t *Terminal) statusLine() string {
	sound := "     "
	if t.machine.SoundActive() {
		sound = "beep!"
	}
	return fmt.Sprintf("%s  esc: quit  space: pause  o: save  p: load  %s", sound, t.status)
}

// render draws a frame. Raw mode disables the output post processing, so
// line feeds need an explicit carriage return.
func render(frame string) {
	tm.Clear()
	tm.MoveCursor(1, 1)
	_, _ = tm.Print(strings.ReplaceAll(frame, "\n", "\r\n"))
	tm.Flush()
}
