package main

import (
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/mapmark/core/internal/importer"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export [dir]",
	Short: "Export points and routes as share documents",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().Bool("gzip", false, "gzip the exported documents")
	exportCmd.Flags().Bool("points-only", false, "skip the routes document")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}
	compress, _ := cmd.Flags().GetBool("gzip")
	pointsOnly, _ := cmd.Flags().GetBool("points-only")

	ctl, _, err := openController(cmd)
	if err != nil {
		return err
	}

	data, name, err := ctl.ExportPoints()
	if err != nil {
		return err
	}
	if err := writeDoc(cmd, filepath.Join(dir, name), data, compress, len(ctl.Points()), "points"); err != nil {
		return err
	}

	if pointsOnly {
		return nil
	}

	data, name, err = ctl.ExportRoutes()
	if err != nil {
		return err
	}
	return writeDoc(cmd, filepath.Join(dir, name), data, compress, len(ctl.Routes()), "routes")
}

func writeDoc(cmd *cobra.Command, path string, data []byte, compress bool, count int, kind string) error {
	written, err := importer.WriteDocument(path, data, compress)
	if err != nil {
		return err
	}
	cmd.Printf("wrote %s %s (%s) to %s\n", humanize.Comma(int64(count)), kind, humanize.Bytes(uint64(len(data))), written)
	return nil
}
