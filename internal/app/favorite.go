package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/xxxsen/retronav/internal/catalog"
	"github.com/xxxsen/retronav/internal/config"
	"github.com/xxxsen/retronav/internal/launch"
	"github.com/xxxsen/retronav/internal/model"

	"github.com/spf13/pflag"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

// FavoriteCommand maintains the bookmarked rom list stored in the config
// document.
type FavoriteCommand struct {
	list      bool
	addSystem string
	addRom    string
	remove    int
	launchIdx int
}

func NewFavoriteCommand() *FavoriteCommand {
	return &FavoriteCommand{remove: -1, launchIdx: -1}
}

func (c *FavoriteCommand) Name() string { return "favorite" }

func (c *FavoriteCommand) Desc() string {
	return "List, add or remove favorite roms"
}

func (c *FavoriteCommand) Init(f *pflag.FlagSet) {
	f.BoolVar(&c.list, "list", false, "print the favorites as JSON")
	f.StringVar(&c.addSystem, "add-system", "", "system of the rom to bookmark")
	f.StringVar(&c.addRom, "add-rom", "", "rom filename to bookmark")
	f.IntVar(&c.remove, "remove", -1, "favorite index to remove")
	f.IntVar(&c.launchIdx, "launch", -1, "favorite index to launch")
}

func (c *FavoriteCommand) PreRun(ctx context.Context) error {
	adding := c.addSystem != "" || c.addRom != ""
	if adding && (c.addSystem == "" || c.addRom == "") {
		return errors.New("adding a favorite requires --add-system and --add-rom")
	}
	if !c.list && !adding && c.remove < 0 && c.launchIdx < 0 {
		return errors.New("favorite requires --list, --add-system/--add-rom, --remove or --launch")
	}
	return nil
}

func (c *FavoriteCommand) Run(ctx context.Context) error {
	cfg, reg, err := Default()
	if err != nil {
		return err
	}
	logger := logutil.GetLogger(ctx)

	switch {
	case c.addRom != "":
		desc, err := reg.Resolve(c.addSystem)
		if err != nil {
			return err
		}
		entries, _ := catalog.NewBuilder(reg).BuildSystem(ctx, desc)
		for _, entry := range entries {
			if !strings.EqualFold(entry.Filename, c.addRom) {
				continue
			}
			fav := config.Favorite{
				System:       desc.Key,
				Filename:     entry.Filename,
				Title:        entry.Title,
				Year:         entry.Year,
				Manufacturer: entry.Manufacturer,
			}
			for _, existing := range cfg.Favorites {
				if existing.System == fav.System && existing.Filename == fav.Filename {
					logger.Info("favorite already present", zap.String("rom", fav.Filename))
					return nil
				}
			}
			cfg.Favorites = append(cfg.Favorites, fav)
			if err := cfg.Save(ConfigPath()); err != nil {
				return err
			}
			logger.Info("favorite added", zap.String("rom", fav.Filename))
			return nil
		}
		return errors.New("rom not present in the catalog: " + c.addRom)

	case c.launchIdx >= 0:
		if c.launchIdx >= len(cfg.Favorites) {
			return fmt.Errorf("favorite index %d out of range (%d favorites)", c.launchIdx, len(cfg.Favorites))
		}
		fav := cfg.Favorites[c.launchIdx]
		desc, err := reg.Resolve(fav.System)
		if err != nil {
			return err
		}
		entry := model.RomEntry{
			System:       fav.System,
			Filename:     fav.Filename,
			Title:        fav.Title,
			Year:         fav.Year,
			Manufacturer: fav.Manufacturer,
		}
		session, err := launch.NewController(cfg.Emulator, cfg.EmulatorCore).Launch(ctx, desc, entry)
		if err != nil {
			return err
		}
		code := session.Wait()
		logger.Info("favorite launch finished",
			zap.String("rom", fav.Filename),
			zap.Int("code", code),
		)
		return nil

	case c.remove >= 0:
		if c.remove >= len(cfg.Favorites) {
			return fmt.Errorf("favorite index %d out of range (%d favorites)", c.remove, len(cfg.Favorites))
		}
		removed := cfg.Favorites[c.remove]
		cfg.Favorites = append(cfg.Favorites[:c.remove], cfg.Favorites[c.remove+1:]...)
		if err := cfg.Save(ConfigPath()); err != nil {
			return err
		}
		logger.Info("favorite removed", zap.String("rom", removed.Filename))
		return nil

	default:
		data, err := json.MarshalIndent(cfg.Favorites, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal favorites: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}
}

func (c *FavoriteCommand) PostRun(ctx context.Context) error { return nil }

func init() {
	RegisterRunner("favorite", func() IRunner { return NewFavoriteCommand() })
}
