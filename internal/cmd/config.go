package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/Alia5/modtap/internal/config"
	"github.com/Alia5/modtap/internal/configpaths"

	toml "github.com/pelletier/go-toml"
	yaml "gopkg.in/yaml.v3"
)

// ConfigCommand groups config-related subcommands.
type ConfigCommand struct {
	Init ConfigInit `cmd:"" help:"Generate a configuration template"`
}

// ConfigInit scaffolds a CLI configuration file for a command, or an
// example keymap.
type ConfigInit struct {
	Command string `arg:"" name:"command" help:"What to generate: play or check flags, or an example keymap" enum:"play,check,keymap"`
	Format  string `help:"Output format" enum:"json,yaml,toml" default:"json"`
	Output  string `help:"Destination file path (defaults to <command>.<format> in the current directory)"`
	Force   bool   `help:"Overwrite if the file already exists"`
}

var flagTemplates = map[string]reflect.Type{
	"play":  reflect.TypeOf(Play{}),
	"check": reflect.TypeOf(Check{}),
}

// Run writes the template for c.Command. Flag templates are derived from
// the command struct tags so they always match what kong accepts.
func (c *ConfigInit) Run() error {
	format := strings.ToLower(c.Format)
	switch format {
	case "json", "yaml", "toml":
	case "yml":
		format = "yaml"
	default:
		return fmt.Errorf("unsupported format: %s", c.Format)
	}

	data, err := c.render(format)
	if err != nil {
		return err
	}

	dest := c.Output
	if dest == "" {
		dest = c.Command + "." + format
	}
	if !c.Force {
		if _, err := os.Stat(dest); err == nil {
			return fmt.Errorf("%s exists; use --force to overwrite", dest)
		}
	}
	if err := configpaths.EnsureDir(dest); err != nil {
		return err
	}
	return os.WriteFile(dest, data, 0o644)
}

func (c *ConfigInit) render(format string) ([]byte, error) {
	if c.Command == "keymap" {
		return config.Marshal(config.Example(), format)
	}
	t, ok := flagTemplates[c.Command]
	if !ok {
		return nil, fmt.Errorf("unknown template %q; expected play, check or keymap", c.Command)
	}
	root := flagDefaults(t)
	switch format {
	case "yaml":
		return yaml.Marshal(root)
	case "toml":
		return toml.Marshal(root)
	default:
		return json.MarshalIndent(root, "", "  ")
	}
}

// flagDefaults maps a kong command struct to its config keys and defaults.
// Embedded groups with a prefix become nested tables.
func flagDefaults(t reflect.Type) map[string]any {
	out := map[string]any{}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() || f.Tag.Get("kong") == "-" {
			continue
		}
		if _, ok := f.Tag.Lookup("embed"); ok {
			sub := flagDefaults(f.Type)
			if group := strings.TrimSuffix(f.Tag.Get("prefix"), "."); group != "" {
				out[group] = sub
				continue
			}
			for k, v := range sub {
				out[k] = v
			}
			continue
		}
		if v := defaultFor(f.Type, f.Tag.Get("default")); v != nil {
			out[configKey(f)] = v
		}
	}
	return out
}

func configKey(f reflect.StructField) string {
	if name := f.Tag.Get("name"); name != "" {
		return name
	}
	r := []rune(f.Name)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}

// defaultFor converts a kong default tag into a typed value. Unparseable
// defaults fall back to the zero value of the kind.
func defaultFor(t reflect.Type, def string) any {
	if t == reflect.TypeOf(time.Duration(0)) {
		if def == "" {
			return "0s"
		}
		return def
	}
	switch t.Kind() {
	case reflect.String:
		return def
	case reflect.Bool:
		b, _ := strconv.ParseBool(def)
		return b
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, _ := strconv.ParseInt(def, 10, 64)
		return n
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, _ := strconv.ParseUint(def, 10, 64)
		return n
	case reflect.Struct:
		return flagDefaults(t)
	default:
		return nil
	}
}
