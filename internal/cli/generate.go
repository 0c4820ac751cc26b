package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/thom899g/autodoc/internal/analyser"
	"github.com/thom899g/autodoc/internal/docs"
)

func newGenerateCommand() *cobra.Command {
	var config GenerateConfig

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate API documentation from source code",
		RunE: func(_ *cobra.Command, _ []string) error {
			return Generate(&config)
		},
	}

	cmd.Flags().StringVar(&config.SourcePath, "source", ".", "Directory containing Go source code to document")
	cmd.Flags().StringVar(&config.OutputPath, "output", "docs.json", "Path to output file or '-' for stdout")
	cmd.Flags().StringVar(&config.Format, "format", "json", "Output format: json, yaml, or markdown")
	cmd.Flags().StringVar(&config.Title, "title", "API Documentation", "Documentation title")
	cmd.Flags().StringVar(&config.ConfigPath, "config", "", "Path to .autodoc.yml config file")

	return cmd
}

// GenerateConfig holds configuration for documentation generation.
type GenerateConfig struct {
	SourcePath string
	OutputPath string
	Format     string
	Title      string
	ConfigPath string
}

// Generate runs the analyser over the configured source tree and writes the
// resulting document.
func Generate(config *GenerateConfig) error {
	if err := loadGenerateConfigFile(config); err != nil {
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

	return writeOutput(index.Snapshot(time.Now().UTC()), config)
}

func loadGenerateConfigFile(config *GenerateConfig) error {
	if config.ConfigPath == "" {
		return nil
	}

	cfg, err := readConfigFile(config.ConfigPath)
	if err != nil {
		return err
	}

	// Apply config values only where flags kept their defaults.
	if config.SourcePath == "." && cfg.Generate.Source != "" {
		config.SourcePath = cfg.Generate.Source
	}
	if config.OutputPath == "docs.json" && cfg.Generate.Output != "" {
		config.OutputPath = cfg.Generate.Output
	}
	if config.Format == "json" && cfg.Generate.Format != "" {
		config.Format = cfg.Generate.Format
	}
	if config.Title == "API Documentation" && cfg.Generate.Title != "" {
		config.Title = cfg.Generate.Title
	}

	return nil
}

// FileSystem allows injecting filesystem operations in tests.
type FileSystem interface {
	Stat(name string) (os.FileInfo, error)
	Create(name string) (*os.File, error)
}

// DefaultFileSystem implements FileSystem using the real filesystem.
type DefaultFileSystem struct{}

func (fs *DefaultFileSystem) Stat(name string) (os.FileInfo, error) {
	return os.Stat(name)
}

func (fs *DefaultFileSystem) Create(name string) (*os.File, error) {
	return os.Create(name)
}

var defaultFileSystem FileSystem = &DefaultFileSystem{}

func writeOutput(doc docs.Document, config *GenerateConfig) error {
	return writeOutputWithFS(doc, config, defaultFileSystem)
}

func writeOutputWithFS(doc docs.Document, config *GenerateConfig, fs FileSystem) error {
	if config.OutputPath == "-" {
		return doc.Write(os.Stdout, config.Format)
	}

	outDir := filepath.Dir(config.OutputPath)
	if fi, err := fs.Stat(outDir); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("output directory %s does not exist — please create it first", outDir)
		}
		return err
	} else if !fi.IsDir() {
		return fmt.Errorf("output path %s is not a directory", outDir)
	}

	f, err := fs.Create(config.OutputPath) // #nosec G304
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	return doc.Write(f, config.Format)
}
