package cmd

import "github.com/Alia5/modtap/internal/log"

// CLI is the root kong command tree.
type CLI struct {
	Config string     `help:"CLI configuration file (json, yaml or toml)" env:"MODTAP_CONFIG"`
	Log    log.Config `embed:"" prefix:"log."`

	Play      Play          `cmd:"" help:"Replay an event script through the configured behaviors"`
	Check     Check         `cmd:"" help:"Validate a keymap and list its behavior instances"`
	ConfigCmd ConfigCommand `cmd:"" name:"config" help:"Configuration helpers"`
}
