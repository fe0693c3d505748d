package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"DCABacktest/internal/model"
	"DCABacktest/internal/strategy"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Backtest struct {
		Start      string  `yaml:"start"`
		End        string  `yaml:"end"`
		Investment float64 `yaml:"investment"`
		FeeRate    float64 `yaml:"fee_rate"`
		Schedule   string  `yaml:"schedule"`
	} `yaml:"backtest"`
	DataSource struct {
		Provider          string  `yaml:"provider"` // binance or yahoo
		BaseURL           string  `yaml:"base_url"`
		Symbol            string  `yaml:"symbol"`
		Interval          string  `yaml:"interval"`
		HistoryStart      string  `yaml:"history_start"`
		HistoryEnd        string  `yaml:"history_end"`
		CacheFile         string  `yaml:"cache_file"`
		RequestsPerSecond float64 `yaml:"requests_per_second"`
		TimeoutSeconds    int     `yaml:"timeout_seconds"`
	} `yaml:"data_source"`
	Output struct {
		Asset      string `yaml:"asset"`
		ChartFile  string `yaml:"chart_file"`
		ReportFile string `yaml:"report_file"`
	} `yaml:"output"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
	Proxy string `yaml:"proxy"`
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	cfg := &Config{}
	cfg.Backtest.Start = "2015-01-01"
	cfg.Backtest.End = "2024-12-31"
	cfg.Backtest.Investment = 30
	cfg.Backtest.FeeRate = 0.0007
	cfg.Backtest.Schedule = "@daily"
	cfg.DataSource.Provider = "binance"
	cfg.DataSource.Symbol = "BTCUSDT"
	cfg.DataSource.Interval = "1h"
	cfg.DataSource.HistoryStart = "2015-01-01"
	cfg.DataSource.HistoryEnd = "2024-12-31"
	cfg.DataSource.CacheFile = "data/btc_binance_data.csv"
	cfg.DataSource.RequestsPerSecond = 5
	cfg.DataSource.TimeoutSeconds = 30
	cfg.Output.Asset = "Bitcoin"
	cfg.Output.ChartFile = "performance.png"
	cfg.Output.ReportFile = "DCA_Backtest_Report.pdf"
	cfg.Log.Level = "info"
	return cfg
}

// LoadEnvFile loads KEY=VALUE pairs from a dotenv file into the process
// environment without overriding variables that are already set. A missing
// file is not an error.
func LoadEnvFile(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load env file: %w", err)
	}
	return nil
}

// Load starts from Default, applies the YAML file at path if it exists, then
// environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	envString := map[string]*string{
		"DCA_START":       &cfg.Backtest.Start,
		"DCA_END":         &cfg.Backtest.End,
		"DCA_SCHEDULE":    &cfg.Backtest.Schedule,
		"DCA_PROVIDER":    &cfg.DataSource.Provider,
		"DCA_BASE_URL":    &cfg.DataSource.BaseURL,
		"DCA_SYMBOL":      &cfg.DataSource.Symbol,
		"DCA_CACHE_FILE":  &cfg.DataSource.CacheFile,
		"DCA_CHART_FILE":  &cfg.Output.ChartFile,
		"DCA_REPORT_FILE": &cfg.Output.ReportFile,
		"DCA_LOG_LEVEL":   &cfg.Log.Level,
		"HTTPS_PROXY":     &cfg.Proxy,
	}
	for key, dst := range envString {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	envFloat := map[string]*float64{
		"DCA_INVESTMENT": &cfg.Backtest.Investment,
		"DCA_FEE_RATE":   &cfg.Backtest.FeeRate,
	}
	for key, dst := range envFloat {
		if v := os.Getenv(key); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: %s=%q is not a number", model.ErrInvalidInput, key, v)
			}
			*dst = f
		}
	}

	return cfg, nil
}

// Validate checks every field the pipeline depends on.
func (c *Config) Validate() error {
	start, end, err := c.Period()
	if err != nil {
		return err
	}
	if end.Before(start) {
		return fmt.Errorf("%w: end date %s is before start date %s", model.ErrInvalidInput, c.Backtest.End, c.Backtest.Start)
	}
	if _, err := c.StrategyParameters(); err != nil {
		return err
	}
	histStart, histEnd, err := c.History()
	if err != nil {
		return err
	}
	switch c.DataSource.Provider {
	case "binance", "yahoo":
	default:
		return fmt.Errorf("%w: data_source.provider must be binance or yahoo, got %q", model.ErrInvalidInput, c.DataSource.Provider)
	}
	if c.DataSource.Provider == "yahoo" && intraday(c.DataSource.Interval) &&
		histEnd.Sub(histStart) > yahooIntradayDays*24*time.Hour {
		return fmt.Errorf("%w: yahoo serves %s bars for at most %d days, use interval 1d or a shorter history window",
			model.ErrInvalidInput, c.DataSource.Interval, yahooIntradayDays)
	}
	if c.DataSource.Symbol == "" {
		return fmt.Errorf("%w: data_source.symbol is required", model.ErrInvalidInput)
	}
	if c.DataSource.Interval == "" {
		return fmt.Errorf("%w: data_source.interval is required", model.ErrInvalidInput)
	}
	if c.DataSource.CacheFile == "" {
		return fmt.Errorf("%w: data_source.cache_file is required", model.ErrInvalidInput)
	}
	if c.DataSource.RequestsPerSecond <= 0 {
		return fmt.Errorf("%w: data_source.requests_per_second must be positive", model.ErrInvalidInput)
	}
	if c.Output.ChartFile == "" || c.Output.ReportFile == "" {
		return fmt.Errorf("%w: output.chart_file and output.report_file are required", model.ErrInvalidInput)
	}
	return nil
}

// Period parses the backtest start and end dates.
func (c *Config) Period() (start, end time.Time, err error) {
	if start, err = parseDate("backtest.start", c.Backtest.Start); err != nil {
		return
	}
	end, err = parseDate("backtest.end", c.Backtest.End)
	return
}

// History parses the window fetched when the cache is empty.
func (c *Config) History() (start, end time.Time, err error) {
	if start, err = parseDate("data_source.history_start", c.DataSource.HistoryStart); err != nil {
		return
	}
	if end, err = parseDate("data_source.history_end", c.DataSource.HistoryEnd); err != nil {
		return
	}
	// include the whole last day
	end = end.AddDate(0, 0, 1).Add(-time.Millisecond)
	return
}

// StrategyParameters builds the validated simulation parameters.
func (c *Config) StrategyParameters() (model.StrategyParameters, error) {
	sched, err := strategy.ParseSchedule(c.Backtest.Schedule)
	if err != nil {
		return model.StrategyParameters{}, err
	}
	p := model.StrategyParameters{
		PeriodicInvestment: c.Backtest.Investment,
		FeeRate:            c.Backtest.FeeRate,
		Schedule:           sched.Calendar(),
	}
	if err := p.Validate(); err != nil {
		return model.StrategyParameters{}, err
	}
	return p, nil
}

// Timeout returns the HTTP timeout for data fetches.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.DataSource.TimeoutSeconds) * time.Second
}

// Yahoo only keeps about two years of intraday bars.
const yahooIntradayDays = 730

// intraday reports whether a Yahoo interval such as 1h or 15m is shorter
// than a day. 1d, 1wk and 1mo are not.
func intraday(interval string) bool {
	return strings.HasSuffix(interval, "m") || strings.HasSuffix(interval, "h")
}

func parseDate(field, v string) (time.Time, error) {
	t, err := time.ParseInLocation(time.DateOnly, v, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s %q is not a YYYY-MM-DD date", model.ErrInvalidInput, field, v)
	}
	return t, nil
}
