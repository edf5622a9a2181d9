package keyboard

import (
	"io"
)

// InputState is a snapshot of the HID keyboard report.
// Internally uses a 256-bit bitmap for N-key rollover support.
type InputState struct {
	Modifiers uint8     // bit 0-7: LCtrl, LShift, LAlt, LGui, RCtrl, RShift, RAlt, RGui
	KeyBitmap [32]uint8 // 256 bits for HID usage codes 0x00-0xFF
}

// Press marks k as down. Modifier usages set their bit in Modifiers.
func (st *InputState) Press(k KeyCode) {
	if k.IsModifier() {
		st.Modifiers |= k.ModifierBit()
		return
	}
	st.KeyBitmap[k/8] |= 1 << (k % 8)
}

// Release marks k as up.
func (st *InputState) Release(k KeyCode) {
	if k.IsModifier() {
		st.Modifiers &^= k.ModifierBit()
		return
	}
	st.KeyBitmap[k/8] &^= 1 << (k % 8)
}

// IsPressed reports whether k is currently down.
func (st InputState) IsPressed(k KeyCode) bool {
	if k.IsModifier() {
		return st.Modifiers&k.ModifierBit() != 0
	}
	return st.KeyBitmap[k/8]&(1<<(k%8)) != 0
}

// Keys returns the non-modifier keys that are down, in usage order.
func (st InputState) Keys() []KeyCode {
	var keys []KeyCode
	for i := 0; i < 256; i++ {
		if st.KeyBitmap[i/8]&(1<<uint(i%8)) != 0 {
			keys = append(keys, KeyCode(i))
		}
	}
	return keys
}

// BuildReport encodes an InputState into the 34-byte HID keyboard report.
//
// Report layout (34 bytes):
//
//	Byte 0: Modifiers (8 bits)
//	Byte 1: Reserved (0x00)
//	Bytes 2-33: Key bitmap (256 bits, 32 bytes)
func (st InputState) BuildReport() []byte {
	b := make([]byte, 34)
	b[0] = st.Modifiers
	copy(b[2:34], st.KeyBitmap[:])
	return b
}

// MarshalBinary encodes InputState to the VIIPER keyboard stream format.
//
// Wire format:
//
//	Byte 0: Modifiers
//	Byte 1: Key count
//	Bytes 2+: Key codes (HID usage codes of pressed keys)
func (st InputState) MarshalBinary() ([]byte, error) {
	keys := st.Keys()
	b := make([]byte, 2+len(keys))
	b[0] = st.Modifiers
	b[1] = uint8(len(keys))
	for i, k := range keys {
		b[2+i] = uint8(k)
	}
	return b, nil
}

// UnmarshalBinary decodes the stream format written by MarshalBinary.
func (st *InputState) UnmarshalBinary(data []byte) error {
	if len(data) < 2 {
		return io.ErrUnexpectedEOF
	}

	keyCount := int(data[1])
	if len(data) < 2+keyCount {
		return io.ErrUnexpectedEOF
	}

	*st = InputState{Modifiers: data[0]}
	for _, k := range data[2 : 2+keyCount] {
		st.Press(KeyCode(k))
	}
	return nil
}
