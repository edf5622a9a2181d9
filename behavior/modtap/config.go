// Package modtap implements the modded hold-tap behavior: a held modifier
// when the upstream engine decided "hold", and a chorded modifier+key tap
// played with fixed delays when it decided "tap".
package modtap

import (
	"fmt"
	"strings"
)

// Flavor biases the upstream hold/tap decision. This package only stores it.
type Flavor int

const (
	HoldPreferred Flavor = iota
	Balanced
	TapPreferred
)

var flavorNames = [...]string{
	HoldPreferred: "hold-preferred",
	Balanced:      "balanced",
	TapPreferred:  "tap-preferred",
}

func (f Flavor) String() string {
	if f >= 0 && int(f) < len(flavorNames) {
		return flavorNames[f]
	}
	return fmt.Sprintf("Flavor(%d)", int(f))
}

// ParseFlavor accepts the declarative names, with '_' and '-' interchangeable.
func ParseFlavor(s string) (Flavor, error) {
	name := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-")
	for i, n := range flavorNames {
		if n == name {
			return Flavor(i), nil
		}
	}
	return 0, fmt.Errorf("unknown flavor %q (expected hold-preferred, balanced or tap-preferred)", s)
}

// MarshalText implements encoding.TextMarshaler.
func (f Flavor) MarshalText() ([]byte, error) {
	if f < 0 || int(f) >= len(flavorNames) {
		return nil, fmt.Errorf("invalid flavor %d", int(f))
	}
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Flavor) UnmarshalText(text []byte) error {
	v, err := ParseFlavor(string(text))
	if err != nil {
		return err
	}
	*f = v
	return nil
}

// Config holds the per-instance timing parameters. The values feed the
// upstream decision engine; the sequencer itself never reads them.
type Config struct {
	TappingTermMs      uint32
	QuickTapMs         uint32
	RequirePriorIdleMs uint32
	Flavor             Flavor
}

// DefaultConfig mirrors the firmware defaults.
func DefaultConfig() Config {
	return Config{TappingTermMs: 200, Flavor: HoldPreferred}
}
