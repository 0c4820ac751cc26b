package cli

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/thom899g/autodoc/internal/analyser"
	"github.com/thom899g/autodoc/internal/docs"
	"github.com/thom899g/autodoc/internal/monitor"
)

func newMonitorCommand() *cobra.Command {
	var config MonitorConfig

	cmd := &cobra.Command{
		Use:   "monitor",
		Short: "Poll API endpoints and keep documentation fresh",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return Monitor(cmd.Context(), &config)
		},
	}

	cmd.Flags().StringVar(&config.ConfigPath, "config", ".autodoc.yml", "Path to .autodoc.yml config file")
	cmd.Flags().StringVar(&config.SourcePath, "source", ".", "Directory containing Go source code to document")
	cmd.Flags().StringVar(&config.DocsPath, "docs", "docs.json", "Documentation file to keep updated")
	cmd.Flags().StringVar(&config.Title, "title", "API Documentation", "Documentation title")
	cmd.Flags().DurationVar(&config.Interval, "interval", 0, "Poll interval override (e.g. 30s); defaults to the config file value or 1m")

	return cmd
}

// MonitorConfig holds configuration for the monitoring loop.
type MonitorConfig struct {
	ConfigPath string
	SourcePath string
	DocsPath   string
	Title      string
	Interval   time.Duration
}

// Monitor analyses the source tree once, writes the initial document, then
// blocks in the polling loop until the context is cancelled or a signal
// arrives.
func Monitor(ctx context.Context, config *MonitorConfig) error {
	mcfg, err := loadMonitorConfig(config)
	if err != nil {
		return err
	}

	log, err := newLogger()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	entries, err := analyser.New(log).AnalyseDirectory(config.SourcePath)
	if err != nil {
		return fmt.Errorf("analyse %s: %w", config.SourcePath, err)
	}

	index := docs.NewIndex(config.Title)
	index.Replace(entries)

	flush := func() error {
		out := &GenerateConfig{OutputPath: config.DocsPath, Format: "json"}
		return writeOutput(index.Snapshot(time.Now().UTC()), out)
	}
	if err := flush(); err != nil {
		return fmt.Errorf("write initial documentation: %w", err)
	}

	m := monitor.New(mcfg, index, log)
	m.OnCycle = flush

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("monitoring started",
		zap.Duration("interval", mcfg.Interval),
		zap.Int("endpoints", len(mcfg.Endpoints)),
		zap.String("docs", config.DocsPath),
	)

	if err := m.Run(ctx); !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info("monitoring stopped")
	return nil
}

func loadMonitorConfig(config *MonitorConfig) (monitor.Config, error) {
	cfg, err := readConfigFile(config.ConfigPath)
	if err != nil {
		return monitor.Config{}, err
	}

	interval := config.Interval
	if interval == 0 {
		interval, err = parseInterval(cfg.Monitor.Interval)
		if err != nil {
			return monitor.Config{}, err
		}
	}

	mcfg := monitor.Config{
		Interval:  interval,
		Endpoints: cfg.Monitor.Endpoints,
	}
	if err := mcfg.Validate(); err != nil {
		return monitor.Config{}, err
	}
	return mcfg, nil
}
