// Package config loads declarative keymap files describing modded
// hold-tap instances and turns them into registered behavior drivers.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml"
	yaml "gopkg.in/yaml.v3"

	"github.com/Alia5/modtap/behavior"
	"github.com/Alia5/modtap/behavior/modtap"
	"github.com/Alia5/modtap/device/keyboard"
)

// Keymap is the root of a keymap file.
type Keymap struct {
	Behaviors []Instance `json:"behaviors" yaml:"behaviors" toml:"behaviors"`
}

// Instance declares one modded hold-tap instance. Omitted numeric fields
// take the values of modtap.DefaultConfig.
type Instance struct {
	ID                 string        `json:"id" yaml:"id" toml:"id"`
	TappingTermMs      *int64        `json:"tapping-term-ms,omitempty" yaml:"tapping-term-ms,omitempty" toml:"tapping-term-ms,omitempty"`
	QuickTapMs         *int64        `json:"quick-tap-ms,omitempty" yaml:"quick-tap-ms,omitempty" toml:"quick-tap-ms,omitempty"`
	RequirePriorIdleMs *int64        `json:"require-prior-idle-ms,omitempty" yaml:"require-prior-idle-ms,omitempty" toml:"require-prior-idle-ms,omitempty"`
	Flavor             string        `json:"flavor,omitempty" yaml:"flavor,omitempty" toml:"flavor,omitempty"`
	Bindings           []BindingSpec `json:"bindings" yaml:"bindings" toml:"bindings"`
}

// BindingSpec is one binding slot, keys given by name (see keyboard.ParseKeyCode).
type BindingSpec struct {
	Hold   string `json:"hold" yaml:"hold" toml:"hold"`
	TapMod string `json:"tap-mod" yaml:"tap-mod" toml:"tap-mod"`
	TapKey string `json:"tap-key" yaml:"tap-key" toml:"tap-key"`
}

// FormatFromPath picks the decoder for a file by extension.
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	case ".toml":
		return "toml"
	default:
		return "json"
	}
}

// Load reads and decodes a keymap file.
func Load(path string) (*Keymap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read keymap: %w", err)
	}
	km, err := Parse(data, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return km, nil
}

// Parse decodes a keymap in the given format ("json", "yaml" or "toml").
// Unknown fields are rejected in every format.
func Parse(data []byte, format string) (*Keymap, error) {
	var km Keymap
	switch format {
	case "yaml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&km); err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	case "toml":
		if err := toml.NewDecoder(bytes.NewReader(data)).Strict(true).Decode(&km); err != nil {
			return nil, fmt.Errorf("decode toml: %w", err)
		}
	case "json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&km); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported keymap format %q", format)
	}
	return &km, nil
}

// Marshal encodes km in the given format.
func Marshal(km *Keymap, format string) ([]byte, error) {
	switch format {
	case "yaml":
		return yaml.Marshal(km)
	case "toml":
		return toml.Marshal(km)
	case "json":
		return json.MarshalIndent(km, "", "  ")
	default:
		return nil, fmt.Errorf("unsupported keymap format %q", format)
	}
}

// Example returns a small keymap used for templates.
func Example() *Keymap {
	term, zero := int64(200), int64(0)
	return &Keymap{Behaviors: []Instance{{
		ID:                 "mht",
		TappingTermMs:      &term,
		QuickTapMs:         &zero,
		RequirePriorIdleMs: &zero,
		Flavor:             modtap.HoldPreferred.String(),
		Bindings: []BindingSpec{
			{Hold: "LCTRL", TapMod: "LSHIFT", TapKey: "KC_A"},
		},
	}}}
}

// Config validates the numeric fields and flavor of an instance.
func (in Instance) Config() (modtap.Config, error) {
	cfg := modtap.DefaultConfig()
	fields := []struct {
		name string
		src  *int64
		dst  *uint32
	}{
		{"tapping-term-ms", in.TappingTermMs, &cfg.TappingTermMs},
		{"quick-tap-ms", in.QuickTapMs, &cfg.QuickTapMs},
		{"require-prior-idle-ms", in.RequirePriorIdleMs, &cfg.RequirePriorIdleMs},
	}
	for _, f := range fields {
		if f.src == nil {
			continue
		}
		if *f.src < 0 || *f.src > math.MaxUint32 {
			return modtap.Config{}, fmt.Errorf("%s: %d out of range", f.name, *f.src)
		}
		*f.dst = uint32(*f.src)
	}
	if in.Flavor != "" {
		fl, err := modtap.ParseFlavor(in.Flavor)
		if err != nil {
			return modtap.Config{}, err
		}
		cfg.Flavor = fl
	}
	return cfg, nil
}

// Table resolves the key names of every binding slot.
func (in Instance) Table() (modtap.Bindings, error) {
	out := make(modtap.Bindings, 0, len(in.Bindings))
	for i, b := range in.Bindings {
		var (
			res modtap.Binding
			err error
		)
		if res.HoldModifier, err = keyboard.ParseKeyCode(b.Hold); err != nil {
			return nil, fmt.Errorf("binding %d hold: %w", i, err)
		}
		if res.TapModifier, err = keyboard.ParseKeyCode(b.TapMod); err != nil {
			return nil, fmt.Errorf("binding %d tap-mod: %w", i, err)
		}
		if res.TapKeycode, err = keyboard.ParseKeyCode(b.TapKey); err != nil {
			return nil, fmt.Errorf("binding %d tap-key: %w", i, err)
		}
		out = append(out, res)
	}
	return out, nil
}

// Build validates every instance and registers one modtap.Sequencer per
// instance, all sharing hid. Any malformed instance fails the whole keymap.
func Build(km *Keymap, hid behavior.HID, opts ...modtap.Option) (*behavior.Registry, []*modtap.Sequencer, error) {
	if km == nil || len(km.Behaviors) == 0 {
		return nil, nil, errors.New("keymap declares no behaviors")
	}
	reg := behavior.NewRegistry()
	seqs := make([]*modtap.Sequencer, 0, len(km.Behaviors))
	for i, in := range km.Behaviors {
		name := in.ID
		if name == "" {
			name = fmt.Sprintf("#%d", i)
		}
		cfg, err := in.Config()
		if err != nil {
			return nil, nil, fmt.Errorf("behavior %s: %w", name, err)
		}
		table, err := in.Table()
		if err != nil {
			return nil, nil, fmt.Errorf("behavior %s: %w", name, err)
		}
		seq := modtap.New(in.ID, cfg, table, hid, opts...)
		if err := reg.Register(in.ID, seq); err != nil {
			return nil, nil, fmt.Errorf("behavior %s: %w", name, err)
		}
		seqs = append(seqs, seq)
	}
	return reg, seqs, nil
}
