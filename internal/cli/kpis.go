package cli

import (
	"fmt"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func newKPIsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "kpis",
		Short: "Print the headline figures for the selected period",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.session(cmd.Context())
			if err != nil {
				return err
			}
			k, err := c.KPIs()
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Period: %s to %s\n", k.Range.StartDate, k.Range.EndDate)
			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetAutoFormatHeaders(false)
			table.SetHeader([]string{"Metric", "Value"})
			table.Append([]string{"Total deviations", formatFloat(k.TotalDeviations)})
			table.Append([]string{"Open CAPAs", formatFloat(k.OpenCAPAs)})
			table.Append([]string{"Average compliance", formatFloat(k.AverageCompliance)})
			table.Append([]string{"Average CAPA effectiveness", formatFloat(k.AverageEffectiveness)})
			table.Render()
			return nil
		},
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
