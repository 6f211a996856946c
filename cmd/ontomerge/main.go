// Package main provides the ontomerge binary entry point.
// Ontomerge translates SPARTA STIX datasets into D3FEND ontology triples
// and maintains the merged ontology file on disk.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/c360studio/ontomerge/config"
	"github.com/c360studio/ontomerge/sparta"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "ontomerge"
)

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// rootOptions holds the persistent flags shared by every subcommand.
type rootOptions struct {
	configPath string
	logLevel   string
}

func rootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "ontomerge",
		Short: "SPARTA to D3FEND ontology merge tool",
		Long: `Ontomerge translates the SPARTA space-threat knowledge base from its
STIX bundle form into D3FEND ontology triples and merges them into a
Turtle ontology file in place.

It provides:
- Conversion of techniques, threats, and countermeasures into OWL nodes
- Kill-chain and defense-in-depth hierarchy inference
- Idempotent merges into an existing ontology file`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	cmd.AddCommand(newUpdateCmd(opts))
	cmd.AddCommand(newExportCmd(opts))
	cmd.AddCommand(newVersionsCmd(opts))
	cmd.AddCommand(newWatchCmd(opts))
	cmd.AddCommand(newConfigCmd(opts))

	// Version command
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	})

	return cmd
}

// app bundles the loaded configuration and logger every subcommand needs.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
}

// newApp loads configuration and configures logging. The log-level flag
// outranks the config file.
func newApp(opts *rootOptions) (*app, error) {
	loader := config.NewLoader(nil)
	cfg, err := loader.Load(opts.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	levelName := cfg.Log.Level
	if opts.logLevel != "" {
		levelName = opts.logLevel
	}
	logger := newLogger(levelName)
	slog.SetDefault(logger)

	return &app{cfg: cfg, logger: logger}, nil
}

// newLogger builds the text logger on stderr at the named level.
func newLogger(levelName string) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(levelName) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// resolveDataset picks the dataset to operate on: an explicit version
// targets its conventional path, otherwise the newest dataset in the data
// directory wins.
func resolveDataset(dataDir, versionArg string) (sparta.DatasetInfo, error) {
	if versionArg != "" {
		version := sparta.Version(versionArg)
		return sparta.DatasetInfo{Version: version, Path: sparta.DatasetPath(dataDir, version)}, nil
	}
	return sparta.LatestDataset(dataDir)
}

// resolveTranslation applies the precedence chain for the URI scheme and
// the strict identifier filter: dataset-version defaults first, then the
// config file, then explicit flags.
func resolveTranslation(cfg *config.Config, cmd *cobra.Command, version sparta.Version, schemeFlag string, strictFlag bool) (sparta.Scheme, bool, error) {
	scheme, strict := sparta.DefaultsForVersion(version)
	if cfg.MergeConfig.URIScheme != "" {
		scheme = sparta.Scheme(cfg.MergeConfig.URIScheme)
	}
	if cfg.MergeConfig.StrictIDs != nil {
		strict = *cfg.MergeConfig.StrictIDs
	}
	if cmd.Flags().Changed("scheme") {
		scheme = sparta.Scheme(schemeFlag)
	}
	if cmd.Flags().Changed("strict") {
		strict = strictFlag
	}
	if !scheme.IsValid() {
		return "", false, fmt.Errorf("unknown uri scheme %q", scheme)
	}
	return scheme, strict, nil
}

// firstNonEmpty returns the first non-empty string.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
