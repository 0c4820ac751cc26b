package cli

import (
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/thom899g/autodoc/internal/server"
)

func newServeCommand() *cobra.Command {
	var config ServeConfig

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve generated documentation over HTTP",
		RunE: func(_ *cobra.Command, _ []string) error {
			return Serve(&config)
		},
	}

	cmd.Flags().StringVar(&config.Addr, "addr", ":8080", "Listen address")
	cmd.Flags().StringVar(&config.DocsPath, "docs", "docs.json", "Documentation file to serve")
	cmd.Flags().StringVar(&config.Title, "title", "API Documentation", "Documentation title")
	cmd.Flags().StringVar(&config.ConfigPath, "config", "", "Path to .autodoc.yml config file")

	return cmd
}

// ServeConfig holds configuration for the documentation server.
type ServeConfig struct {
	Addr       string
	DocsPath   string
	Title      string
	ConfigPath string
}

// Serve starts the documentation server and blocks until it exits.
func Serve(config *ServeConfig) error {
	if config.ConfigPath != "" {
		cfg, err := readConfigFile(config.ConfigPath)
		if err != nil {
			return err
		}
		if config.Addr == ":8080" && cfg.Serve.Addr != "" {
			config.Addr = cfg.Serve.Addr
		}
	}

	log, err := newLogger()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	router := server.New(log, server.Config{
		Title:    config.Title,
		DocsPath: config.DocsPath,
	})

	log.Info("serving documentation",
		zap.String("addr", config.Addr),
		zap.String("docs", config.DocsPath),
	)

	srv := &http.Server{
		Addr:              config.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return srv.ListenAndServe()
}
