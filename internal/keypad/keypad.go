package keypad

import "fmt"

const KeyCount = 16

// Key is a logical key index on the hexadecimal keypad.
type Key uint8

const (
	Key0 = Key(iota)
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9
	KeyA
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
)

// Valid reports whether k names one of the 16 keys.
func (k Key) Valid() bool {
	return k < KeyCount
}

func (k Key) String() string {
	return fmt.Sprintf("key%X", uint8(k))
}

// Keypad holds pressed/released state for the 16 logical keys.
// It is written by the input driver and read by the CPU.
type Keypad struct {
	keys [KeyCount]bool
}

// New returns a keypad with every key released.
func New() *Keypad {
	return &Keypad{}
}

// Get reports whether key k is currently held down.
// Keys outside 0x0-0xF are never pressed.
func (kp *Keypad) Get(k Key) bool {
	if !k.Valid() {
		return false
	}

	return kp.keys[k]
}

// Set records the state of key k. Out of range keys are ignored.
func (kp *Keypad) Set(k Key, pressed bool) {
	if !k.Valid() {
		return
	}

	kp.keys[k] = pressed
}

// Reset releases every key.
func (kp *Keypad) Reset() {
	for i := range kp.keys {
		kp.keys[i] = false
	}
}
