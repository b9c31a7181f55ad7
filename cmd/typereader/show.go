package main

import (
	"bytes"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ahrav/typereader/infrastructure/render"
)

type showOptions struct {
	target      string
	window      int
	statistic   string
	subtypeOf   string
	noDrillDown bool
	svgPath     string
}

func newShowCmd(global *globalOptions) *cobra.Command {
	opts := &showOptions{}
	cmd := &cobra.Command{
		Use:   "show FILE",
		Short: "Draw the per-category rlap chart of a listing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, global, func(a *app) error {
				return runShow(cmd, a, opts, args[0])
			})
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.target, "target", "t", "", "transient name used in captions")
	flags.IntVarP(&opts.window, "window", "w", 0, "number of leading matches to aggregate (default from config)")
	flags.StringVarP(&opts.statistic, "statistic", "s", "", statisticUsage())
	flags.StringVar(&opts.subtypeOf, "subtype-of", "", "also chart the subtypes of this category")
	flags.BoolVar(&opts.noDrillDown, "no-drilldown", false, "do not chart the subtypes of a highlighted category")
	flags.StringVar(&opts.svgPath, "svg", "", "also write the chart as SVG to this file")
	return cmd
}

func runShow(cmd *cobra.Command, a *app, opts *showOptions, path string) error {
	ctx := cmd.Context()
	reader, err := a.service.Open(ctx, path, opts.target)
	if err != nil {
		return err
	}

	sopts := summaryOptions(cmd, a, "", opts.statistic, opts.subtypeOf, opts.window)
	if opts.noDrillDown {
		sopts.DrillDown = false
	}
	summary, err := a.service.Summarize(ctx, reader, sopts)
	if err != nil {
		return err
	}

	chart := summary.Chart()
	cfg := a.service.Engine().Config.Chart
	if err := render.NewTerminalRenderer(cfg.BarWidth).Render(cmd.OutOrStdout(), chart); err != nil {
		return err
	}
	if opts.svgPath == "" {
		return nil
	}

	var buf bytes.Buffer
	svg := render.NewSVGRenderer(render.SVGOptions{Size: cfg.Size})
	if err := svg.Render(&buf, chart); err != nil {
		return err
	}
	if err := writeFile(opts.svgPath, buf.Bytes()); err != nil {
		return err
	}
	a.logger.Debug("chart written", slog.String("path", opts.svgPath))
	return nil
}
