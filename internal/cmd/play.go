package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/Alia5/modtap/apiclient"
	"github.com/Alia5/modtap/behavior"
	"github.com/Alia5/modtap/behavior/modtap"
	"github.com/Alia5/modtap/device/keyboard"
	"github.com/Alia5/modtap/internal/config"
	"github.com/Alia5/modtap/internal/configpaths"
	"github.com/Alia5/modtap/internal/log"
	"github.com/Alia5/modtap/internal/script"
)

// ViiperConfig selects an optional VIIPER server to stream reports to.
type ViiperConfig struct {
	Addr          string        `help:"VIIPER API server address (host:port); empty disables streaming" env:"MODTAP_VIIPER_ADDR"`
	Bus           uint32        `help:"Virtual bus to attach the keyboard to" default:"1" env:"MODTAP_VIIPER_BUS"`
	Keep          bool          `help:"Leave the virtual keyboard attached on exit" env:"MODTAP_VIIPER_KEEP"`
	DialTimeout   time.Duration `help:"Dial timeout" default:"3s" env:"MODTAP_VIIPER_DIAL_TIMEOUT"`
	ReqTimeout    time.Duration `help:"Request read/write timeout" default:"5s" env:"MODTAP_VIIPER_REQUEST_TIMEOUT"`
	SettleTimeout time.Duration `help:"Pause after attaching so the host can enumerate the keyboard" default:"500ms" env:"MODTAP_VIIPER_SETTLE"`
}

// Play replays an event script against the keymap's behaviors.
type Play struct {
	Script    string        `arg:"" optional:"" help:"Event script file, '-' reads stdin" default:"-"`
	Keymap    string        `help:"Keymap file (yaml, toml or json)" env:"MODTAP_KEYMAP"`
	TapDelay  time.Duration `help:"Delay between the steps of a tap" default:"15ms" env:"MODTAP_TAP_DELAY"`
	Realtime  bool          `help:"Honor wait steps on the wall clock" default:"true" negatable:"" env:"MODTAP_REALTIME"`
	QueueSize int           `help:"Dispatcher queue length" default:"64" env:"MODTAP_QUEUE_SIZE"`
	Viiper    ViiperConfig  `embed:"" prefix:"viiper."`

	Stdin io.Reader `kong:"-"`
}

// Summary counts what a replay did.
type Summary struct {
	Events     int
	Handled    int
	NotHandled int
	Failed     int
	Final      keyboard.InputState
}

// Run is called by Kong when the play command is executed.
func (p *Play) Run(logger *slog.Logger, rawLogger log.RawLogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	sum, err := p.Execute(ctx, logger, rawLogger)
	if err != nil {
		return err
	}
	logger.Info("replay finished", "events", sum.Events, "handled", sum.Handled,
		"notHandled", sum.NotHandled, "failed", sum.Failed)
	return nil
}

// Execute loads the keymap, wires the report sinks and replays the script.
func (p *Play) Execute(ctx context.Context, logger *slog.Logger, rawLogger log.RawLogger) (Summary, error) {
	path, err := configpaths.FindKeymap(p.Keymap)
	if err != nil {
		return Summary{}, err
	}
	km, err := config.Load(path)
	if err != nil {
		return Summary{}, err
	}

	steps, err := p.readScript(logger)
	if err != nil {
		return Summary{}, err
	}

	kb := keyboard.New(logger)
	if rawLogger != nil {
		kb.AddSink(rawLogger)
	}
	if p.Viiper.Addr != "" {
		detach, err := p.attach(ctx, kb, logger)
		if err != nil {
			return Summary{}, err
		}
		defer detach()
	}

	reg, _, err := config.Build(km, kb, modtap.WithTapDelay(p.TapDelay), modtap.WithLogger(logger))
	if err != nil {
		return Summary{}, fmt.Errorf("%s: %w", path, err)
	}
	logger.Info("loaded keymap", "file", path, "behaviors", reg.IDs())

	var sum Summary
	disp := behavior.NewDispatcher(reg, logger, p.QueueSize)
	disp.OnResult = func(_ behavior.Event, res behavior.Result, err error) {
		sum.Events++
		switch {
		case err != nil:
			sum.Failed++
		case res == behavior.Handled:
			sum.Handled++
		default:
			sum.NotHandled++
		}
	}

	runErr := make(chan error, 1)
	go func() { runErr <- disp.Run(ctx) }()

	var sleeper behavior.Sleeper = behavior.WallClock
	if !p.Realtime {
		sleeper = behavior.SleeperFunc(func(time.Duration) {})
	}
	playErr := script.Play(ctx, disp, steps, sleeper, time.Now())
	disp.Close()
	if err := <-runErr; err != nil {
		return sum, err
	}
	if playErr != nil {
		return sum, playErr
	}
	sum.Final = kb.State()
	if sum.Final != (keyboard.InputState{}) {
		logger.Warn("keys still pressed after replay", "modifiers", fmt.Sprintf("0x%02x", sum.Final.Modifiers), "keys", sum.Final.Keys())
	}
	return sum, nil
}

func (p *Play) readScript(logger *slog.Logger) ([]script.Step, error) {
	if p.Script != "" && p.Script != "-" {
		f, err := os.Open(p.Script)
		if err != nil {
			return nil, fmt.Errorf("open script: %w", err)
		}
		defer f.Close()
		return script.Parse(f)
	}
	in := p.Stdin
	if in == nil {
		in = os.Stdin
		if term.IsTerminal(int(os.Stdin.Fd())) {
			logger.Info("reading events from terminal, finish with Ctrl-D")
		}
	}
	return script.Parse(in)
}

// attach creates a virtual keyboard on the VIIPER server and adds its
// stream as a report sink. The returned func releases all keys and detaches.
func (p *Play) attach(ctx context.Context, kb *keyboard.Keyboard, logger *slog.Logger) (func(), error) {
	client := apiclient.NewWithConfig(p.Viiper.Addr, &apiclient.Config{
		DialTimeout:  p.Viiper.DialTimeout,
		ReadTimeout:  p.Viiper.ReqTimeout,
		WriteTimeout: p.Viiper.ReqTimeout,
	})
	stream, dev, err := client.AttachKeyboard(ctx, p.Viiper.Bus)
	if err != nil {
		return nil, fmt.Errorf("attach VIIPER keyboard: %w", err)
	}
	logger.Info("streaming to VIIPER keyboard", "addr", p.Viiper.Addr, "bus", dev.BusID, "dev", dev.DevId)
	kb.AddSink(stream)
	if p.Viiper.SettleTimeout > 0 {
		time.Sleep(p.Viiper.SettleTimeout)
	}

	return func() {
		kb.Reset()
		_ = stream.Close()
		if p.Viiper.Keep {
			return
		}
		if _, err := client.DeviceRemoveCtx(context.Background(), dev.BusID, dev.DevId); err != nil {
			logger.Warn("failed to remove VIIPER keyboard", "dev", dev.DevId, "error", err)
		}
	}, nil
}
