// Package keyboard implements the 16 key input device and the press/release
// protocol used by the blocking key wait instruction.
package keyboard

import "fmt"

// KeyCount is the number of keys of the keypad.
const KeyCount = 16

// WaitState is the state of the key wait protocol.
type WaitState uint8

const (
	// Inactive means no key wait instruction is executing.
	Inactive WaitState = iota
	// WaitingForPress means a key wait is executing and no key went down yet.
	WaitingForPress
	// WaitingForRelease means a key went down during the key wait.
	WaitingForRelease
	// JustReleased means the key that went down was released again.
	JustReleased
)

var waitStateNames = [...]string{
	Inactive:          "Inactive",
	WaitingForPress:   "WaitingForPress",
	WaitingForRelease: "WaitingForRelease",
	JustReleased:      "JustReleased",
}

func (s WaitState) String() string {
	if int(s) < len(waitStateNames) {
		return waitStateNames[s]
	}
	return fmt.Sprintf("WaitState(%d)", uint8(s))
}

// Wait is the protocol value of the key wait instruction. Key is only
// meaningful in the WaitingForRelease and JustReleased states.
type Wait struct {
	State WaitState
	Key   uint8
}

// Keyboard holds the key states. It is a plain value, copying it creates an
// independent snapshot.
type Keyboard struct {
	keys [KeyCount]bool
	wait Wait
}

// Pressed returns whether the key is currently held down.
// Only the low nibble of key is used.
func (k *Keyboard) Pressed(key uint8) bool {
	return k.keys[key&0xF]
}

// Press marks the key as held down. A key wait that waits for a press
// advances only on the transition from released to pressed, holding an
// already pressed key does not trigger it.
func (k *Keyboard) Press(key uint8) {
	key &= 0xF
	if k.keys[key] {
		return
	}
	k.keys[key] = true

	if k.wait.State == WaitingForPress {
		k.wait = Wait{State: WaitingForRelease, Key: key}
	}
}

// Release marks the key as released. It completes a key wait if the key is
// the one that was pressed during the wait.
func (k *Keyboard) Release(key uint8) {
	key &= 0xF
	k.keys[key] = false

	if k.wait.State == WaitingForRelease && k.wait.Key == key {
		k.wait.State = JustReleased
	}
}

// Wait returns the current key wait protocol value.
func (k *Keyboard) Wait() Wait {
	return k.wait
}

// BeginWait starts a key wait that completes after the next full
// press and release cycle of any key.
func (k *Keyboard) BeginWait() {
	k.wait = Wait{State: WaitingForPress}
}

// EndWait resets the key wait protocol.
func (k *Keyboard) EndWait() {
	k.wait = Wait{}
}
