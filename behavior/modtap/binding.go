package modtap

import "github.com/Alia5/modtap/device/keyboard"

// Binding is one slot of an instance's binding table.
type Binding struct {
	HoldModifier keyboard.KeyCode
	TapModifier  keyboard.KeyCode
	TapKeycode   keyboard.KeyCode
}

// BindingTable is a read-only view of the bindings owned by the host.
type BindingTable interface {
	Binding(slot uint32) (Binding, bool)
	Len() int
}

// Bindings is a BindingTable over a slice.
type Bindings []Binding

func (b Bindings) Binding(slot uint32) (Binding, bool) {
	if uint64(slot) >= uint64(len(b)) {
		return Binding{}, false
	}
	return b[slot], true
}

func (b Bindings) Len() int { return len(b) }
