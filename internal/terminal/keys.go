package terminal

// keymap maps the conventional 4x4 block of a host keyboard to the hex
// keypad:
//
//	1 2 3 4      1 2 3 C
//	q w e r  ->  4 5 6 D
//	a s d f      7 8 9 E
//	z x c v      A 0 B F
var keymap = map[byte]uint8{
	'1': 0x1, '2': 0x2, '3': 0x3, '4': 0xC,
	'q': 0x4, 'w': 0x5, 'e': 0x6, 'r': 0xD,
	'a': 0x7, 's': 0x8, 'd': 0x9, 'f': 0xE,
	'z': 0xA, 'x': 0x0, 'c': 0xB, 'v': 0xF,
}

// KeyFor returns the keypad key for a host key. Upper case letters map to
// the same keys as lower case ones.
func KeyFor(b byte) (uint8, bool) {
	if b >= 'A' && b <= 'Z' {
		b += 'a' - 'A'
	}
	key, ok := keymap[b]
	return key, ok
}

// Keypad synthesizes key releases. A raw terminal only reports key presses
// and auto repeats, so a key counts as held until no repeat arrived for a
// number of frames.
type Keypad struct {
	holdFrames int
	remaining  [16]int
}

// NewKeypad returns a keypad that holds a key for the given number of frames
// after the last press.
func NewKeypad(holdFrames int) *Keypad {
	return &Keypad{holdFrames: max(holdFrames, 1)}
}

// Press marks a key as held and returns whether it was not held before.
func (k *Keypad) Press(key uint8) bool {
	key &= 0xF
	newly := k.remaining[key] == 0
	k.remaining[key] = k.holdFrames
	return newly
}

// Tick advances one frame and returns the keys whose hold expired.
func (k *Keypad) Tick() []uint8 {
	var released []uint8
	for key := range k.remaining {
		if k.remaining[key] == 0 {
			continue
		}
		k.remaining[key]--
		if k.remaining[key] == 0 {
			released = append(released, uint8(key))
		}
	}
	return released
}

// Held returns whether a key is currently held.
func (k *Keypad) Held(key uint8) bool {
	return k.remaining[key&0xF] > 0
}
