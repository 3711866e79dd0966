package main

import (
	"github.com/dustin/go-humanize"
	"github.com/mapmark/core/internal/config"
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show what the configured store holds",
	Args:  cobra.NoArgs,
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	ctl, cfg, err := openController(cmd)
	if err != nil {
		return err
	}

	cmd.Printf("storage:  %s\n", cfg.Storage.Mode)
	if cfg.Storage.Mode == config.ModeLocal {
		cmd.Printf("data dir: %s\n", cfg.Storage.DataDir)
	}
	cmd.Printf("points:   %s\n", humanize.Comma(int64(len(ctl.Points()))))
	cmd.Printf("routes:   %s\n", humanize.Comma(int64(len(ctl.Routes()))))

	pictures := 0
	for _, p := range ctl.Points() {
		pictures += len(p.Pictures)
	}
	cmd.Printf("pictures: %s\n", humanize.Comma(int64(pictures)))
	return nil
}
