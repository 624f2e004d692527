package app

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/xxxsen/retronav/internal/artwork"
	"github.com/xxxsen/retronav/internal/catalog"
	"github.com/xxxsen/retronav/internal/model"

	"github.com/spf13/pflag"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

// ArtCommand reports artwork coverage: how many catalog entries resolve a
// title and preview image, and which ones are missing.
type ArtCommand struct {
	listMissing bool
}

func NewArtCommand() *ArtCommand { return &ArtCommand{} }

func (c *ArtCommand) Name() string { return "art" }

func (c *ArtCommand) Desc() string {
	return "Report artwork coverage for every system"
}

func (c *ArtCommand) Init(f *pflag.FlagSet) {
	f.BoolVar(&c.listMissing, "list-missing", false, "include filenames without artwork in the report")
}

func (c *ArtCommand) PreRun(ctx context.Context) error {
	logutil.GetLogger(ctx).Info("starting art report")
	return nil
}

func (c *ArtCommand) Run(ctx context.Context) error {
	_, reg, err := Default()
	if err != nil {
		return err
	}
	snap, _ := catalog.NewBuilder(reg).Build(ctx)

	report := model.ArtReport{}
	for _, desc := range reg.Systems() {
		entries := snap.System(desc.Key)
		if len(entries) == 0 {
			continue
		}
		sys := model.ArtSystemReport{System: desc.Key, Entries: len(entries)}
		for _, entry := range entries {
			art := artwork.Resolve(desc, entry)
			if art.TitleImage != "" {
				sys.TitleImages++
			} else if c.listMissing {
				sys.MissingTitle = append(sys.MissingTitle, entry.Filename)
			}
			if art.PreviewImage != "" {
				sys.PreviewImages++
			} else if c.listMissing {
				sys.MissingPreview = append(sys.MissingPreview, entry.Filename)
			}
		}
		report.Systems = append(report.Systems, sys)
		logutil.GetLogger(ctx).Debug("art coverage",
			zap.String("system", desc.Key),
			zap.Int("entries", sys.Entries),
			zap.Int("title_images", sys.TitleImages),
			zap.Int("preview_images", sys.PreviewImages),
		)
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal art report: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func (c *ArtCommand) PostRun(ctx context.Context) error { return nil }

func init() {
	RegisterRunner("art", func() IRunner { return NewArtCommand() })
}
