// Package cli implements the flowgraph command-line interface.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/flowgraph/internal/config"
	"github.com/matzehuels/flowgraph/pkg/backend"
	"github.com/matzehuels/flowgraph/pkg/buildinfo"
	"github.com/matzehuels/flowgraph/pkg/cache"
	"github.com/matzehuels/flowgraph/pkg/observability"
	"github.com/matzehuels/flowgraph/pkg/session"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = config.AppName

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	backendURL string
	cfg        *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Flowgraph edits weighted graphs against a graph backend",
		Long:         `Flowgraph loads, edits, inspects and renders weighted directed graphs stored by a graph backend, and serves editing sessions to a browser canvas.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			observability.SetHTTPHooks(&logHTTPHooks{logger: c.Logger})
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/flowgraph/config.toml)")
	root.PersistentFlags().StringVar(&c.backendURL, "backend", "", "graph backend base URL (overrides config)")

	root.AddCommand(c.newCommand())
	root.AddCommand(c.openCommand())
	root.AddCommand(c.pushCommand())
	root.AddCommand(c.checkCommand())
	root.AddCommand(c.strategyCommand())
	root.AddCommand(c.editCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.draftsCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Shared Resources
// =============================================================================

// config loads the configuration once and applies flag overrides.
func (c *CLI) config() (config.Config, error) {
	if c.cfg == nil {
		cfg, err := config.Load(c.configPath)
		if err != nil {
			return cfg, err
		}
		if c.backendURL != "" {
			cfg.Backend.URL = c.backendURL
		}
		c.cfg = &cfg
		c.Logger.Debug("config loaded", "backend", cfg.Backend.URL, "drafts", cfg.Drafts.Backend)
	}
	return *c.cfg, nil
}

// backendClient creates a client for the configured backend.
func (c *CLI) backendClient() (*backend.Client, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	return backend.New(cfg.Backend.URL, backend.WithTimeout(cfg.Backend.Timeout.Duration)), nil
}

// openDrafts opens the configured draft cache.
func (c *CLI) openDrafts(ctx context.Context) (cache.Cache, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	return cache.Open(ctx, cfg.Drafts.CacheOptions())
}

// newManager creates a session manager over the configured backend. With
// drafts set, sessions autosave into the draft cache; the returned close
// function releases it.
func (c *CLI) newManager(ctx context.Context, drafts bool) (*session.Manager, func(), error) {
	client, err := c.backendClient()
	if err != nil {
		return nil, nil, err
	}
	opts := []session.ManagerOption{session.WithLogger(c.Logger)}
	closeFn := func() {}
	if drafts {
		cfg, _ := c.config()
		store, err := c.openDrafts(ctx)
		if err != nil {
			c.Logger.Warn("drafts disabled", "err", err)
		} else {
			opts = append(opts, session.WithDrafts(store, nil, cfg.Drafts.TTL.Duration))
			closeFn = func() { _ = store.Close() }
		}
	}
	return session.NewManager(client, opts...), closeFn, nil
}
