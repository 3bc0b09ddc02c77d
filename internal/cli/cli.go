// Package cli implements the reqsmith command-line interface.
//
// Commands cover the manifest lifecycle (generate, check, update, outdated),
// presentation (graph), a report server (serve), and cache management. The
// CLI is built with cobra; configuration merges flags, REQSMITH_* environment
// variables and an optional .reqsmith.toml in the project directory via viper.
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/reqsmith/reqsmith/pkg/buildinfo"
	"github.com/reqsmith/reqsmith/pkg/cache"
	"github.com/reqsmith/reqsmith/pkg/errors"
	"github.com/reqsmith/reqsmith/pkg/pip"
	"github.com/reqsmith/reqsmith/pkg/python"
	"github.com/reqsmith/reqsmith/pkg/reconcile"
	"github.com/reqsmith/reqsmith/pkg/scan"
)

// appName is the application name used for directories and display.
const appName = "reqsmith"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// persistent flag values
	dir     string
	file    string
	verbose bool
	noCache bool
	pipCmd  string

	// config is the merged .reqsmith.toml / environment configuration.
	config Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "reqsmith keeps requirements.txt in step with your imports",
		Long:         `reqsmith scans a Python project for third-party imports and generates, checks, and updates its requirements.txt against the installed pip environment.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.verbose {
				c.SetLogLevel(log.DebugLevel)
			}

			if err := errors.ValidateProjectDir(c.dir); err != nil {
				return err
			}

			cfg, err := LoadConfig(c.dir)
			if err != nil {
				return err
			}
			c.applyConfig(cfg)

			if c.file != "" {
				if err := errors.ValidateManifestFilename(c.file); err != nil {
					return err
				}
			}

			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVarP(&c.dir, "dir", "d", ".", "project directory")
	root.PersistentFlags().StringVarP(&c.file, "file", "f", "", "manifest filename (default requirements.txt)")
	root.PersistentFlags().BoolVar(&c.noCache, "no-cache", false, "bypass the PyPI response cache")
	root.PersistentFlags().StringVar(&c.pipCmd, "pip", "", "pip command to invoke (default \"pip\")")

	root.AddCommand(c.generateCommand())
	root.AddCommand(c.checkCommand())
	root.AddCommand(c.updateCommand())
	root.AddCommand(c.outdatedCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// applyConfig folds the loaded config under the explicit flags: flags win
// where both are set.
func (c *CLI) applyConfig(cfg Config) {
	c.config = cfg
	if c.file == "" && cfg.Manifest != "" {
		c.file = cfg.Manifest
	}
	if c.pipCmd == "" && cfg.PipCommand != "" {
		c.pipCmd = cfg.PipCommand
	}
}

// newReconciler assembles the reconciler shared by all manifest commands.
func (c *CLI) newReconciler() *reconcile.Reconciler {
	runner := pip.ExecRunner{Command: c.pipCmd}
	registry := pip.NewRegistry(runner)

	return &reconcile.Reconciler{
		Registry:     registry,
		Installer:    pip.NewInstaller(runner, registry),
		Mapper:       python.NewMapper(c.config.ExtraMappings),
		ManifestName: c.file,
		ScanOptions: scan.Options{
			ExcludeDirs: c.config.ExcludeDirs,
			Logger:      c.Logger.Debugf,
		},
		Warn: c.Logger.Warnf,
	}
}

// newCache builds the PyPI response cache backend, honoring --no-cache
// and the optional Redis config.
func (c *CLI) newCache() cache.Cache {
	if c.noCache {
		return cache.NewNullCache()
	}
	if c.config.RedisAddr != "" {
		rc, err := cache.NewRedisCache(context.Background(), cache.RedisConfig{
			Addr:   c.config.RedisAddr,
			Prefix: appName,
		})
		if err == nil {
			return rc
		}
		c.Logger.Warn("redis cache unavailable, falling back to file cache", "err", err)
	}

	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache()
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return cache.NewNullCache()
	}
	return fc
}

// cacheDir returns the cache directory using XDG standard (~/.cache/reqsmith/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
