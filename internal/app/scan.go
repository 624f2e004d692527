package app

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xxxsen/retronav/internal/catalog"
	"github.com/xxxsen/retronav/internal/model"

	"github.com/spf13/pflag"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

// ScanCommand builds the catalog from disk and prints a per-system report.
type ScanCommand struct {
	system string
}

func NewScanCommand() *ScanCommand { return &ScanCommand{} }

func (c *ScanCommand) Name() string { return "scan" }

func (c *ScanCommand) Desc() string {
	return "Build the rom catalog and report per-system counts"
}

func (c *ScanCommand) Init(f *pflag.FlagSet) {
	f.StringVar(&c.system, "system", "", "restrict the scan to one system key")
}

func (c *ScanCommand) PreRun(ctx context.Context) error {
	logutil.GetLogger(ctx).Info("starting scan",
		zap.String("system", c.system),
	)
	return nil
}

func (c *ScanCommand) Run(ctx context.Context) error {
	_, reg, err := Default()
	if err != nil {
		return err
	}

	builder := catalog.NewBuilder(reg)
	report := model.ScanReport{}

	if strings.TrimSpace(c.system) != "" {
		desc, err := reg.Resolve(c.system)
		if err != nil {
			return err
		}
		entries, diags := builder.BuildSystem(ctx, desc)
		report.Systems = append(report.Systems, model.SystemCount{
			System: desc.Key, Name: desc.Name, Count: len(entries),
		})
		report.Total = len(entries)
		report.Diagnostics = diags
	} else {
		snap, diags := builder.Build(ctx)
		for _, desc := range reg.Systems() {
			report.Systems = append(report.Systems, model.SystemCount{
				System: desc.Key, Name: desc.Name, Count: len(snap.System(desc.Key)),
			})
		}
		report.Total = snap.Len()
		report.Diagnostics = diags
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal scan report: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func (c *ScanCommand) PostRun(ctx context.Context) error {
	logutil.GetLogger(ctx).Info("scan completed")
	return nil
}

func init() {
	RegisterRunner("scan", func() IRunner { return NewScanCommand() })
}
