package cli

import (
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func newWidgetsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "widgets",
		Short: "List the dashboard widgets with their ranges and row counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.session(cmd.Context())
			if err != nil {
				return err
			}
			views, err := c.Render()
			if err != nil {
				return err
			}

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetAutoWrapText(false)
			table.SetAutoFormatHeaders(false)
			table.SetHeader([]string{"ID", "Title", "Kind", "Drill-down", "Range", "Rows"})
			for _, v := range views {
				tbl, err := c.WidgetTable(v.ID)
				if err != nil {
					return err
				}
				rng := "all"
				if v.Range != nil {
					rng = v.Range.StartDate + " to " + v.Range.EndDate
					if v.LocalRange {
						rng += " (local)"
					}
				}
				drill := "-"
				if v.Clickable {
					drill = string(v.Category)
				}
				table.Append([]string{v.ID, v.Title, string(v.Kind), drill, rng, strconv.Itoa(len(tbl.Rows))})
			}
			table.Render()
			return nil
		},
	}
}
