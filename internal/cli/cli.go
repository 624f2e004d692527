package cli

import (
	"context"

	"github.com/xxxsen/retronav/internal/app"
	"github.com/xxxsen/retronav/internal/system"

	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

var configFlag string

var rootCmd = &cobra.Command{
	Use:   "retronav",
	Short: "Catalog and launch roms across retro systems",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, path, err := LoadConfig(configFlag)
		if err != nil {
			return err
		}
		app.SetDefault(cfg, path, system.New(cfg))
		return nil
	},
}

// Execute runs the CLI.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		logutil.GetLogger(context.Background()).Error("exec cmd failed", zap.Error(err))
		return err
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "config file path")

	for _, r := range app.RunnerList() {
		runner := app.MustResolveRunner(r)
		subcmd := &cobra.Command{
			Use:   runner.Name(),
			Short: runner.Desc(),
			RunE: func(cmd *cobra.Command, args []string) error {
				ctx := context.Background()
				if err := runner.PreRun(ctx); err != nil {
					return err
				}
				if err := runner.Run(ctx); err != nil {
					return err
				}
				if err := runner.PostRun(ctx); err != nil {
					return err
				}
				return nil
			},
		}
		runner.Init(subcmd.Flags())
		rootCmd.AddCommand(subcmd)
	}
}
