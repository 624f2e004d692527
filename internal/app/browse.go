package app

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/xxxsen/retronav/internal/catalog"
	"github.com/xxxsen/retronav/internal/input"
	"github.com/xxxsen/retronav/internal/launch"
	"github.com/xxxsen/retronav/internal/model"
	"github.com/xxxsen/retronav/internal/search"

	"github.com/spf13/pflag"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

// BrowseCommand runs the joystick-driven browsing loop: the catalog builds
// in the background, navigation commands move the selection cursor and the
// select button launches the entry under it. Rendering belongs to a real
// front end; this loop logs the selection line instead.
type BrowseCommand struct {
	joystick int
	filter   string
}

func NewBrowseCommand() *BrowseCommand { return &BrowseCommand{} }

func (c *BrowseCommand) Name() string { return "browse" }

func (c *BrowseCommand) Desc() string {
	return "Browse the catalog with a joystick and launch roms"
}

func (c *BrowseCommand) Init(f *pflag.FlagSet) {
	f.IntVar(&c.joystick, "joystick", 0, "joystick device index")
	f.StringVar(&c.filter, "filter", "", "initial text filter")
}

func (c *BrowseCommand) PreRun(ctx context.Context) error { return nil }

func (c *BrowseCommand) Run(ctx context.Context) error {
	cfg, reg, err := Default()
	if err != nil {
		return err
	}
	logger := logutil.GetLogger(ctx)

	poller, err := input.NewSDLPoller(c.joystick)
	if err != nil {
		return err
	}
	defer poller.Close()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store := catalog.NewStore(catalog.NewBuilder(reg))
	rebuilt := store.Rebuild(ctx)

	nav := input.NewNavigator(input.ParamsFromConfig(cfg.Joystick))
	controller := launch.NewController(cfg.Emulator, cfg.EmulatorCore)

	cursor := input.Cursor{}
	cursor.Reset(reg.Keys()[0], 0)

	var view []model.RomEntry
	refreshView := func() {
		view = search.New(store.Current()).Query(search.Query{
			System:     cursor.System,
			Filter:     c.filter,
			Sort:       search.SortByTitle,
			HideClones: cfg.HideClones,
		})
		cursor.ClampTo(len(view))
	}
	refreshView()

	announce := func() {
		if cursor.Index == input.NoSelection {
			logger.Info("selection",
				zap.String("system", cursor.System),
				zap.String("state", "empty"),
			)
			return
		}
		entry := view[cursor.Index]
		logger.Info("selection",
			zap.String("system", cursor.System),
			zap.Int("index", cursor.Index),
			zap.Int("of", len(view)),
			zap.String("title", entry.Title),
		)
	}

	ticker := time.NewTicker(time.Duration(cfg.Joystick.PollIntervalMS) * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case res := <-rebuilt:
			rebuilt = nil
			if !res.Superseded {
				refreshView()
				announce()
			}

		case now := <-ticker.C:
			var cmds []input.Command
			for _, ev := range poller.Poll(now) {
				cmds = append(cmds, nav.HandleEvent(ev)...)
			}
			cmds = append(cmds, nav.Tick(now)...)

			for _, cmd := range cmds {
				switch cmd.Kind {
				case input.CmdMove:
					before := cursor.Index
					cursor.Step(cmd.Steps, len(view), cfg.WrapAround)
					if cursor.Index != before {
						announce()
					}

				case input.CmdSelect:
					if cursor.Index == input.NoSelection {
						continue
					}
					entry := view[cursor.Index]
					desc, ok := reg.Lookup(cursor.System)
					if !ok {
						continue
					}
					if _, err := controller.Launch(ctx, desc, entry); err != nil {
						// Busy selects are dropped, not queued.
						if errors.Is(err, launch.ErrBusy) {
							logger.Debug("select dropped, session active",
								zap.String("rom", entry.Filename),
							)
							continue
						}
						logger.Warn("launch refused", zap.Error(err))
					}

				case input.CmdSystemPrev:
					cursor.Reset(reg.Prev(cursor.System), 0)
					refreshView()
					announce()

				case input.CmdSystemNext:
					cursor.Reset(reg.Next(cursor.System), 0)
					refreshView()
					announce()

				case input.CmdFavorites:
					logger.Info("favorites", zap.Int("count", len(cfg.Favorites)))
				}
			}
		}
	}
}

func (c *BrowseCommand) PostRun(ctx context.Context) error { return nil }

func init() {
	RegisterRunner("browse", func() IRunner { return NewBrowseCommand() })
}
