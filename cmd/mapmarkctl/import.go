package main

import (
	"github.com/dustin/go-humanize"
	"github.com/mapmark/core/internal/importer"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Merge a share document into the store",
	Long:  "Merge a share document into the store. Records whose id already exists are skipped.",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

func init() {
	importCmd.Flags().Bool("routes", false, "treat the document as a routes export")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	asRoutes, _ := cmd.Flags().GetBool("routes")

	data, err := importer.ReadDocument(args[0])
	if err != nil {
		return err
	}

	ctl, _, err := openController(cmd)
	if err != nil {
		return err
	}

	if asRoutes {
		added, err := ctl.ImportRoutes(cmd.Context(), data)
		if err != nil {
			return err
		}
		cmd.Printf("imported %s new routes (%s total)\n", humanize.Comma(int64(added)), humanize.Comma(int64(len(ctl.Routes()))))
		return nil
	}

	added, err := ctl.ImportPoints(cmd.Context(), data)
	if err != nil {
		return err
	}
	cmd.Printf("imported %s new points (%s total)\n", humanize.Comma(int64(added)), humanize.Comma(int64(len(ctl.Points()))))
	return nil
}
