package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/Alia5/modtap/device/keyboard"
	"github.com/Alia5/modtap/internal/config"
	"github.com/Alia5/modtap/internal/configpaths"
)

// Check loads a keymap and prints what it declares.
type Check struct {
	Keymap string `help:"Keymap file (yaml, toml or json)" env:"MODTAP_KEYMAP"`

	Out io.Writer `kong:"-"`
}

// Run is called by Kong when the check command is executed.
func (c *Check) Run(logger *slog.Logger) error {
	path, err := configpaths.FindKeymap(c.Keymap)
	if err != nil {
		return err
	}
	km, err := config.Load(path)
	if err != nil {
		return err
	}
	_, seqs, err := config.Build(km, keyboard.New(logger))
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	logger.Info("keymap ok", "file", path, "behaviors", len(seqs))

	out := c.Out
	if out == nil {
		out = os.Stdout
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "INSTANCE\tFLAVOR\tTAPPING-TERM\tQUICK-TAP\tPRIOR-IDLE\tSLOT\tHOLD\tTAP")
	for _, s := range seqs {
		cfg := s.Config()
		table := s.Bindings()
		for slot := 0; slot < table.Len(); slot++ {
			b, _ := table.Binding(uint32(slot))
			fmt.Fprintf(tw, "%s\t%s\t%dms\t%dms\t%dms\t%d\t%s\t%s+%s\n",
				s.ID(), cfg.Flavor, cfg.TappingTermMs, cfg.QuickTapMs, cfg.RequirePriorIdleMs,
				slot, b.HoldModifier, b.TapModifier, b.TapKeycode)
		}
	}
	return tw.Flush()
}
