package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"DCABacktest/internal/backtest"
	"DCABacktest/internal/collector"
	"DCABacktest/internal/config"
	"DCABacktest/internal/report"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type options struct {
	configPath string
	envFile    string
	start      string
	end        string
	investment float64
	fee        float64
	schedule   string
	cache      string
	refresh    bool
	chart      string
	report     string
	logLevel   string
	width      int
}

func newRootCmd(ctx context.Context, stdout io.Writer) *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:           "dcabacktest",
		Short:         "Backtest a fixed-amount dollar-cost averaging strategy on historical prices",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd.Flags(), opts)
			if err != nil {
				return err
			}
			return run(ctx, stdout, cfg, opts)
		},
	}

	bindFlags(cmd.Flags(), &opts)
	return cmd
}

func bindFlags(f *pflag.FlagSet, opts *options) {
	def := config.Default()
	f.StringVar(&opts.configPath, "config", "configs/config.yaml", "YAML config file (optional)")
	f.StringVar(&opts.envFile, "env-file", ".env", "dotenv file loaded into the environment (optional)")
	f.StringVar(&opts.start, "start", def.Backtest.Start, "backtest start date, YYYY-MM-DD")
	f.StringVar(&opts.end, "end", def.Backtest.End, "backtest end date, YYYY-MM-DD")
	f.Float64Var(&opts.investment, "investment", def.Backtest.Investment, "amount invested per purchase (USD)")
	f.Float64Var(&opts.fee, "fee", def.Backtest.FeeRate, "taker fee rate, e.g. 0.0007 for 0.07%")
	f.StringVar(&opts.schedule, "schedule", def.Backtest.Schedule, "purchase schedule: @daily, @weekly, @monthly or a cron expression")
	f.StringVar(&opts.cache, "cache", def.DataSource.CacheFile, "CSV price cache file")
	f.BoolVar(&opts.refresh, "refresh", false, "ignore the cache and fetch the price history again")
	f.StringVar(&opts.chart, "chart", def.Output.ChartFile, "output chart PNG")
	f.StringVar(&opts.report, "report", def.Output.ReportFile, "output report PDF")
	f.StringVar(&opts.logLevel, "log-level", def.Log.Level, "log level: debug, info, warn, error")
	f.IntVar(&opts.width, "width", 80, "terminal summary width")
	// --taker-fee is accepted as another name for --fee
	f.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		if name == "taker-fee" {
			name = "fee"
		}
		return pflag.NormalizedName(name)
	})
}

// resolveConfig layers defaults, the YAML file and the environment, then
// applies only the flags that were set on the command line.
func resolveConfig(flags *pflag.FlagSet, opts options) (*config.Config, error) {
	if err := config.LoadEnvFile(opts.envFile); err != nil {
		return nil, err
	}
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}

	set := func(name string, apply func()) {
		if flags.Changed(name) {
			apply()
		}
	}
	set("start", func() { cfg.Backtest.Start = opts.start })
	set("end", func() { cfg.Backtest.End = opts.end })
	set("investment", func() { cfg.Backtest.Investment = opts.investment })
	set("fee", func() { cfg.Backtest.FeeRate = opts.fee })
	set("schedule", func() { cfg.Backtest.Schedule = opts.schedule })
	set("cache", func() { cfg.DataSource.CacheFile = opts.cache })
	set("chart", func() { cfg.Output.ChartFile = opts.chart })
	set("report", func() { cfg.Output.ReportFile = opts.report })
	set("log-level", func() { cfg.Log.Level = opts.logLevel })

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

func setLogLevel(level string) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		log.Warn().Str("level", level).Msg("unknown log level, using info")
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
}

func newFetcher(cfg *config.Config) collector.Fetcher {
	if cfg.DataSource.Provider == "yahoo" {
		return collector.NewYahooFetcher(cfg.DataSource.BaseURL, cfg.Proxy)
	}
	return collector.NewBinanceFetcher(collector.BinanceOptions{
		BaseURL:           cfg.DataSource.BaseURL,
		Proxy:             cfg.Proxy,
		Timeout:           cfg.Timeout(),
		RequestsPerSecond: cfg.DataSource.RequestsPerSecond,
	})
}

func newRunner(cfg *config.Config, refresh bool) (*backtest.Runner, error) {
	histStart, histEnd, err := cfg.History()
	if err != nil {
		return nil, err
	}
	fetcher := newFetcher(cfg)
	log.Info().Str("provider", fetcher.Name()).Str("symbol", cfg.DataSource.Symbol).Msg("data source")

	src := &collector.TieredSource{
		Cache:        collector.NewCSVCache(cfg.DataSource.CacheFile),
		Fetcher:      fetcher,
		Symbol:       cfg.DataSource.Symbol,
		Interval:     cfg.DataSource.Interval,
		HistoryStart: histStart,
		HistoryEnd:   histEnd,
		Refresh:      refresh,
	}
	col := collector.NewCollector(src, cfg.DataSource.Symbol)
	return backtest.NewRunner(col, cfg.Output.ChartFile, cfg.Output.ReportFile, cfg.Output.Asset), nil
}

func run(ctx context.Context, stdout io.Writer, cfg *config.Config, opts options) error {
	setLogLevel(cfg.Log.Level)

	start, end, err := cfg.Period()
	if err != nil {
		return err
	}
	params, err := cfg.StrategyParameters()
	if err != nil {
		return err
	}
	log.Info().Str("start", cfg.Backtest.Start).Str("end", cfg.Backtest.End).
		Float64("investment", params.PeriodicInvestment).Float64("fee", params.FeeRate).
		Str("frequency", params.Frequency()).Msg("starting backtest")

	runner, err := newRunner(cfg, opts.refresh)
	if err != nil {
		return err
	}
	out, err := runner.Run(ctx, backtest.Request{Start: start, End: end, Params: params})
	if err != nil {
		return err
	}

	fmt.Fprintln(stdout, report.Terminal(out.Content, opts.width))
	return nil
}
