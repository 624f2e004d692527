package app

import (
	"context"
	"errors"
	"strings"

	"github.com/xxxsen/retronav/internal/catalog"
	"github.com/xxxsen/retronav/internal/launch"
	"github.com/xxxsen/retronav/internal/model"

	"github.com/spf13/pflag"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

// LaunchCommand launches a single rom through the configured emulator.
type LaunchCommand struct {
	system string
	rom    string
	wait   bool
}

func NewLaunchCommand() *LaunchCommand { return &LaunchCommand{} }

func (c *LaunchCommand) Name() string { return "launch" }

func (c *LaunchCommand) Desc() string {
	return "Launch a rom with the configured emulator"
}

func (c *LaunchCommand) Init(f *pflag.FlagSet) {
	f.StringVar(&c.system, "system", "", "system key or display name")
	f.StringVar(&c.rom, "rom", "", "rom filename as listed by query")
	f.BoolVar(&c.wait, "wait", true, "wait for the emulator to exit")
}

func (c *LaunchCommand) PreRun(ctx context.Context) error {
	if strings.TrimSpace(c.system) == "" || strings.TrimSpace(c.rom) == "" {
		return errors.New("launch requires --system and --rom")
	}
	return nil
}

func (c *LaunchCommand) Run(ctx context.Context) error {
	cfg, reg, err := Default()
	if err != nil {
		return err
	}
	desc, err := reg.Resolve(c.system)
	if err != nil {
		return err
	}

	entries, _ := catalog.NewBuilder(reg).BuildSystem(ctx, desc)
	var target *model.RomEntry
	for i := range entries {
		if strings.EqualFold(entries[i].Filename, c.rom) {
			target = &entries[i]
			break
		}
	}
	if target == nil {
		return errors.New("rom not present in the catalog: " + c.rom)
	}

	controller := launch.NewController(cfg.Emulator, cfg.EmulatorCore)
	session, err := controller.Launch(ctx, desc, *target)
	if err != nil {
		return err
	}
	if !c.wait {
		return nil
	}
	code := session.Wait()
	logutil.GetLogger(ctx).Info("launch finished",
		zap.String("rom", target.Filename),
		zap.Int("code", code),
	)
	return nil
}

func (c *LaunchCommand) PostRun(ctx context.Context) error { return nil }

func init() {
	RegisterRunner("launch", func() IRunner { return NewLaunchCommand() })
}
