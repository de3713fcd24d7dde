package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/zoobzio/weakevent"
	"github.com/zoobzio/weakevent/internal/probe"
	"github.com/zoobzio/weakevent/logsink"
	"github.com/zoobzio/weakevent/metrics"
)

type options struct {
	logLevel string
	jsonLogs bool
	metrics  bool
}

func newRootCmd() *cobra.Command {
	opts := &options{logLevel: "info"}
	if v := os.Getenv("WEAKPROBE_LOG_LEVEL"); v != "" {
		opts.logLevel = v
	}

	root := &cobra.Command{
		Use:           "weakprobe",
		Short:         "Exercise weak event sources from scenario files",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", opts.logLevel, "Diagnostic level: debug|info|warn|error (defaults WEAKPROBE_LOG_LEVEL or info)")
	root.PersistentFlags().BoolVar(&opts.jsonLogs, "json", false, "Write diagnostics as JSON instead of console text")

	run := &cobra.Command{
		Use:     "run <scenario>",
		Short:   "Run a scenario and print each step",
		Example: "  weakprobe run scenarios/prune.yaml --metrics",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenario(cmd.OutOrStdout(), cmd.ErrOrStderr(), args[0], opts)
		},
	}
	run.Flags().BoolVar(&opts.metrics, "metrics", false, "Print transition counters after the run")

	root.AddCommand(run)
	return root
}

func newLogger(w io.Writer, opts *options) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(opts.logLevel))
	if err != nil {
		return zerolog.Logger{}, fmt.Errorf("invalid log level %q: %w", opts.logLevel, err)
	}
	if !opts.jsonLogs {
		w = zerolog.ConsoleWriter{Out: w, NoColor: true}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger(), nil
}

func runScenario(out, errOut io.Writer, path string, opts *options) error {
	logger, err := newLogger(errOut, opts)
	if err != nil {
		return err
	}
	sc, err := probe.Load(path)
	if err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}

	collector := metrics.New("weakprobe")
	runner, err := probe.NewRunner(sc,
		weakevent.WithSink(logsink.Zerolog(logger)),
		weakevent.WithObserver(collector),
	)
	if err != nil {
		return err
	}

	name := sc.Name
	if name == "" {
		name = path
	}
	fmt.Fprintf(out, "scenario %s (source %d)\n", name, runner.Source().ID())
	for i, res := range runner.Run(sc.Steps) {
		fmt.Fprintf(out, "%3d  %s\n", i+1, res.Note)
		if res.Report != nil {
			for _, f := range res.Report.Failures {
				fmt.Fprintf(out, "       failed %s: (%s) %s\n", f.Target, f.Category, f.Message)
			}
		}
	}

	if opts.metrics {
		return printMetrics(out, collector)
	}
	return nil
}

func printMetrics(out io.Writer, c *metrics.Collector) error {
	reg := prometheus.NewRegistry()
	if err := reg.Register(c); err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}
	families, err := reg.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}

	var lines []string
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			labels := make([]string, 0, len(m.GetLabel()))
			for _, lp := range m.GetLabel() {
				labels = append(labels, lp.GetName()+"="+lp.GetValue())
			}
			name := mf.GetName()
			if len(labels) > 0 {
				name += "{" + strings.Join(labels, ",") + "}"
			}
			lines = append(lines, fmt.Sprintf("%s %g", name, m.GetCounter().GetValue()))
		}
	}
	sort.Strings(lines)
	fmt.Fprintln(out, "metrics:")
	for _, l := range lines {
		fmt.Fprintln(out, "  "+l)
	}
	return nil
}
