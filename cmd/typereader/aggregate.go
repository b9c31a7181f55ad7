package main

import (
	"bytes"

	"github.com/spf13/cobra"

	"github.com/ahrav/typereader/infrastructure/render"
)

type aggregateOptions struct {
	target    string
	key       string
	window    int
	statistic string
	subtypeOf string
	format    string
	out       string
}

func newAggregateCmd(global *globalOptions) *cobra.Command {
	opts := &aggregateOptions{}
	cmd := &cobra.Command{
		Use:   "aggregate FILE",
		Short: "Print the per-category aggregate of a listing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, global, func(a *app) error {
				return runAggregate(cmd, a, opts, args[0])
			})
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.target, "target", "t", "", "transient name")
	flags.StringVarP(&opts.key, "key", "k", "", "numeric column to reduce (default from config)")
	flags.IntVarP(&opts.window, "window", "w", 0, "number of leading matches to aggregate (default from config)")
	flags.StringVarP(&opts.statistic, "statistic", "s", "", statisticUsage())
	flags.StringVar(&opts.subtypeOf, "subtype-of", "", "also aggregate the subtypes of this category")
	flags.StringVarP(&opts.format, "format", "f", "json", "output format: json, yaml or msgpack")
	flags.StringVarP(&opts.out, "out", "o", "", "write to this file instead of stdout")
	return cmd
}

func runAggregate(cmd *cobra.Command, a *app, opts *aggregateOptions, path string) error {
	encoder, err := render.NewEncoder(opts.format)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	reader, err := a.service.Open(ctx, path, opts.target)
	if err != nil {
		return err
	}
	summary, err := a.service.Summarize(ctx, reader,
		summaryOptions(cmd, a, opts.key, opts.statistic, opts.subtypeOf, opts.window))
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := encoder.Encode(&buf, summary); err != nil {
		return err
	}
	if opts.out != "" {
		return writeFile(opts.out, buf.Bytes())
	}
	_, err = cmd.OutOrStdout().Write(buf.Bytes())
	return err
}
