// Package cli implements dashctl, a command line view of the quality
// dashboard that loads one session, prints or exports it, and exits.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	"github.com/GregMSThompson/quality-dashboard/internal/bootstrap"
	"github.com/GregMSThompson/quality-dashboard/internal/composer"
	"github.com/GregMSThompson/quality-dashboard/internal/config"
	"github.com/GregMSThompson/quality-dashboard/internal/daterange"
	"github.com/GregMSThompson/quality-dashboard/internal/models"
	"github.com/GregMSThompson/quality-dashboard/pkg/helpers"
	"github.com/GregMSThompson/quality-dashboard/pkg/logger"
)

type ExitCode int

const (
	exitCodeSuccess = 0
	exitCodeError   = 1
)

// Opener returns a loaded session. rng wins over preset when both are set.
type Opener func(ctx context.Context, rng *models.DateRange, preset daterange.Preset) (*composer.Composer, error)

func Run() ExitCode {
	rootCmd := NewRootCmd(os.Stdout, openFromEnv, clockwork.NewRealClock())
	if err := rootCmd.Execute(); err != nil {
		return exitCodeError
	}
	return exitCodeSuccess
}

type rootOptions struct {
	preset string
	start  string
	end    string
	open   Opener
	clock  clockwork.Clock
}

func NewRootCmd(out io.Writer, open Opener, clock clockwork.Clock) *cobra.Command {
	opts := &rootOptions{open: open, clock: clock}

	rootCmd := &cobra.Command{
		Use:          "dashctl",
		Short:        "Inspect and export the quality dashboard.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cmd.Help(); err != nil {
				return fmt.Errorf("failed to show help: %w", err)
			}
			return nil
		},
	}
	rootCmd.SetOut(out)

	rootCmd.PersistentFlags().StringVarP(&opts.preset, "preset", "p", "", "date range preset (last7days, last30days, last60days, last90days, last1year)")
	rootCmd.PersistentFlags().StringVar(&opts.start, "start", "", "range start date, YYYY-MM-DD")
	rootCmd.PersistentFlags().StringVar(&opts.end, "end", "", "range end date, YYYY-MM-DD")

	rootCmd.AddCommand(
		newWidgetsCmd(opts),
		newKPIsCmd(opts),
		newExportCmd(opts),
	)
	return rootCmd
}

func (o *rootOptions) session(ctx context.Context) (*composer.Composer, error) {
	var rng *models.DateRange
	if o.start != "" || o.end != "" {
		r, err := daterange.New(o.start, o.end)
		if err != nil {
			return nil, err
		}
		rng = helpers.Ptr(r.Model())
	}
	var preset daterange.Preset
	if o.preset != "" {
		p, err := daterange.ParsePreset(o.preset)
		if err != nil {
			return nil, err
		}
		preset = p
	}
	return o.open(ctx, rng, preset)
}

// openFromEnv loads a session from the source configured in the
// environment, the same way the API server does.
func openFromEnv(ctx context.Context, rng *models.DateRange, preset daterange.Preset) (*composer.Composer, error) {
	cfg := config.New()
	bs, err := bootstrap.Run(cfg)
	if err != nil {
		return nil, err
	}
	defer bs.Close()

	if preset == "" {
		preset = cfg.DefaultPreset
	}
	c, err := composer.New(composer.Config{
		Source:  bs.Source,
		Layouts: bs.Layouts,
		Range:   rng,
		Preset:  preset,
	})
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(logger.ToContext(ctx, bs.Log), cfg.LoadTimeout)
	defer cancel()
	if err := c.Load(ctx); err != nil {
		return nil, err
	}
	return c, nil
}
