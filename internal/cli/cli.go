// Package cli implements the bricklabels command-line interface.
package cli

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/bricklabels/pkg/buildinfo"
	"github.com/matzehuels/bricklabels/pkg/cache"
	"github.com/matzehuels/bricklabels/pkg/httputil"
	"github.com/matzehuels/bricklabels/pkg/pipeline"
	"github.com/matzehuels/bricklabels/pkg/rebrickable"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "bricklabels"

	// apiKeyEnv is the environment variable consulted when --api-key is unset.
	apiKeyEnv = "REBRICKABLE_API_KEY"

	// defaultCacheTTL is how long cached catalog responses stay fresh.
	defaultCacheTTL = 30 * 24 * time.Hour
)

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
		Use:          "bricklabels",
		Short:        "Bricklabels generates printable labels for brick storage boxes",
		Long:         `Bricklabels fetches part images from the Rebrickable catalog and lays them out on fixed-size printable labels, packing as many parts as fit and marking overflow with a dot-dot-dot indicator.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.generateCommand())
	root.AddCommand(c.labelCommand())
	root.AddCommand(c.fetchCommand())
	root.AddCommand(c.partsCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.genfileCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Client & Runner Factories
// =============================================================================

// clientOpts holds the flags shared by every command that talks to the catalog.
type clientOpts struct {
	apiKey   string
	cacheURL string // empty = file cache, "none" = disabled, redis://... = redis
	cacheTTL time.Duration
}

// registerClientFlags wires the shared catalog flags onto cmd.
func registerClientFlags(cmd *cobra.Command, opts *clientOpts) {
	cmd.Flags().StringVar(&opts.apiKey, "api-key", "", "Rebrickable API key (default $"+apiKeyEnv+")")
	cmd.Flags().StringVar(&opts.cacheURL, "cache", "", "cache backend: file (default), none, or a redis:// URL")
	cmd.Flags().DurationVar(&opts.cacheTTL, "cache-ttl", defaultCacheTTL, "how long cached catalog data stays fresh")
}

// newClient builds a catalog client from the shared flags.
func (c *CLI) newClient(cmd *cobra.Command, opts *clientOpts) (*rebrickable.Client, error) {
	key := opts.apiKey
	if key == "" {
		key = os.Getenv(apiKeyEnv)
	}

	clientOpts := []rebrickable.Option{}

	meta, err := newMetadataCache(opts)
	if err != nil {
		return nil, err
	}
	if meta != nil {
		clientOpts = append(clientOpts, rebrickable.WithMetadataCache(meta))
	}

	imgs, err := newImageCache(cmd, opts)
	if err != nil {
		return nil, err
	}
	clientOpts = append(clientOpts, rebrickable.WithImageCache(imgs, opts.cacheTTL))

	return rebrickable.NewClient(key, clientOpts...), nil
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(cmd *cobra.Command, opts *clientOpts) (*pipeline.Runner, error) {
	client, err := c.newClient(cmd, opts)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(client, c.Logger), nil
}

// newMetadataCache builds the JSON metadata cache, or nil when caching is off.
func newMetadataCache(opts *clientOpts) (*httputil.Cache, error) {
	if opts.cacheURL == "none" {
		return nil, nil
	}
	dir, err := cacheDir()
	if err != nil {
		return nil, err
	}
	return httputil.NewCache(filepath.Join(dir, "meta"), opts.cacheTTL)
}

// newImageCache builds the byte cache used for part images.
func newImageCache(cmd *cobra.Command, opts *clientOpts) (cache.Cache, error) {
	switch {
	case opts.cacheURL == "none":
		return cache.NewNullCache(), nil
	case opts.cacheURL != "":
		return cache.NewRedisCache(cmd.Context(), opts.cacheURL)
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(filepath.Join(dir, "images"))
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/bricklabels/).
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
