package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/GregMSThompson/quality-dashboard/internal/composer"
	"github.com/GregMSThompson/quality-dashboard/internal/export"
	"github.com/GregMSThompson/quality-dashboard/internal/printing"
)

const formatHTML = "html"

func newExportCmd(opts *rootOptions) *cobra.Command {
	var (
		format   string
		widgetID string
		outDir   string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write widget data as CSV or Excel, or a printable HTML report",
		RunE: func(cmd *cobra.Command, args []string) error {
			var f export.Format
			if format != formatHTML {
				var err error
				if f, err = export.ParseFormat(format); err != nil {
					return err
				}
			}

			c, err := opts.session(cmd.Context())
			if err != nil {
				return err
			}
			ids := c.WidgetIDs()
			if widgetID != "" {
				ids = []string{widgetID}
			}
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}

			if format == formatHTML {
				return printReport(cmd, opts, c, widgetID, outDir)
			}
			for _, id := range ids {
				tbl, err := c.WidgetTable(id)
				if err != nil {
					return err
				}
				var buf bytes.Buffer
				if f == export.FormatXLSX {
					err = export.XLSX(&buf, tbl)
				} else {
					err = export.CSV(&buf, tbl)
				}
				if err != nil {
					return fmt.Errorf("failed to export %s: %w", id, err)
				}
				path := filepath.Join(outDir, export.Filename(tbl.Title, opts.clock.Now(), f))
				if err := writeFile(cmd, path, buf.Bytes()); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", string(export.FormatCSV), "output format: csv, xlsx or html")
	cmd.Flags().StringVarP(&widgetID, "widget", "w", "", "export one widget instead of all of them")
	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "output directory")
	return cmd
}

// printReport writes one HTML page for the widget, or for the whole
// dashboard when widgetID is empty.
func printReport(cmd *cobra.Command, opts *rootOptions, c *composer.Composer, widgetID, outDir string) error {
	now := opts.clock.Now()
	doc := printing.Document{
		Title:       printing.DashboardTitle(now),
		GeneratedAt: now,
	}
	name := doc.Title
	if widgetID != "" {
		tbl, err := c.WidgetTable(widgetID)
		if err != nil {
			return err
		}
		doc.Title = printing.WidgetTitle(tbl.Title)
		doc.Sections = []export.Table{tbl}
		name = export.BaseName(tbl.Title, now)
	} else {
		tables, err := c.Tables()
		if err != nil {
			return err
		}
		doc.Sections = tables
	}

	var buf bytes.Buffer
	if err := printing.Render(&buf, doc); err != nil {
		return err
	}
	return writeFile(cmd, filepath.Join(outDir, name+".html"), buf.Bytes())
}

func writeFile(cmd *cobra.Command, path string, body []byte) error {
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}
