package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pedigree/pkg/buildinfo"
	"github.com/matzehuels/pedigree/pkg/cache"
	"github.com/matzehuels/pedigree/pkg/config"
	"github.com/matzehuels/pedigree/pkg/export"
	"github.com/matzehuels/pedigree/pkg/pedigree/edit"
	"github.com/matzehuels/pedigree/pkg/render"
	"github.com/matzehuels/pedigree/pkg/render/nodelink"
	"github.com/matzehuels/pedigree/pkg/render/sink"
	"github.com/matzehuels/pedigree/pkg/session"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "pedigree"

	engineNative = "native"
	engineRSVG   = "rsvg"

	// Subdirectories of the cache directory.
	artifactSubdir = "artifacts"
	autosaveSubdir = "autosave"
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

	configPath string
	verbose    bool
	cfg        config.Config
}

// New creates a new CLI instance with a default logger and the built-in
// configuration. The configuration file is read when a command runs.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		cfg:    config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// Config returns the active configuration.
func (c *CLI) Config() config.Config { return c.cfg }

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "Pedigree edits genetic family-tree charts",
		Long:          `Pedigree is a CLI tool for building genetic pedigree charts: individuals, partnerships and parent-child lines, arranged by generation and exported as PNG, SVG, JSON or Graphviz DOT.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.loadConfig(); err != nil {
				return err
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/pedigree/config.toml)")

	// Document editing
	root.AddCommand(c.newCommand())
	root.AddCommand(c.addCommand())
	root.AddCommand(c.connectCommand())
	root.AddCommand(c.disconnectCommand())
	root.AddCommand(c.childCommand())
	root.AddCommand(c.setCommand())
	root.AddCommand(c.restyleCommand())
	root.AddCommand(c.selectCommand())
	root.AddCommand(c.deleteCommand())
	root.AddCommand(c.arrangeCommand())

	// Inspection and output
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.showCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.recoverCommand())

	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads --config, or the default config file when present, and
// applies its log settings. --verbose wins over the configured level.
func (c *CLI) loadConfig() error {
	var (
		cfg config.Config
		err error
	)
	if c.configPath != "" {
		cfg, err = config.Load(c.configPath)
	} else {
		cfg, err = config.LoadDefault()
	}
	if err != nil {
		return err
	}
	c.cfg = cfg

	c.Logger.SetReportTimestamp(cfg.Log.Timestamps)
	if c.verbose {
		c.SetLogLevel(LogDebug)
	} else if level, err := log.ParseLevel(cfg.Log.Level); err == nil {
		c.SetLogLevel(level)
	}
	c.Logger.Debug("config loaded", "path", c.configPath, "engine", cfg.Export.Engine)
	return nil
}

// =============================================================================
// Session Factory
// =============================================================================

// newEditor builds an editor with the configured geometry and spacing.
func (c *CLI) newEditor(n edit.Notifier) *edit.Editor {
	ed := edit.New(
		edit.WithLayout(c.cfg.LayoutOptions()),
		edit.WithNotifier(n),
		edit.WithLogger(c.Logger),
	)
	canvas := c.cfg.Canvas()
	if err := ed.SetCanvasSize(canvas.Width, canvas.Height); err != nil {
		c.Logger.Warn("canvas size ignored", "error", err)
	}
	return ed
}

// newExporter registers a renderer for every format. engine picks the PNG
// renderer; graphviz swaps the SVG renderer for a Graphviz-laid-out drawing.
func (c *CLI) newExporter(engine string, graphviz bool) *export.Exporter {
	var svgOpts []sink.SVGOption
	if c.cfg.Export.EmbedFont {
		svgOpts = append(svgOpts, sink.WithEmbeddedFont())
	}
	opts := []export.Option{
		export.WithOptions(c.cfg.ExportOptions()),
		export.WithLogger(c.Logger),
	}
	for f, r := range sink.Renderers(engine == engineRSVG, svgOpts...) {
		opts = append(opts, export.WithRenderer(f, r))
	}
	dot := nodelink.Options{Detailed: c.cfg.Export.DOTDetailed}
	opts = append(opts, export.WithRenderer(export.FormatDOT, nodelink.DOT{Options: dot}))
	if graphviz {
		opts = append(opts, export.WithRenderer(export.FormatSVG, nodelink.Graphviz{Options: dot}))
	}
	return export.NewExporter(opts...)
}

// engine returns the PNG engine in use. A configured rsvg engine falls back
// to the native one when rsvg-convert is not installed.
func (c *CLI) engine() string {
	if c.cfg.Export.Engine == engineRSVG && !render.HasRSVG() {
		c.Logger.Warn("rsvg-convert not found, using the native PNG renderer")
		return engineNative
	}
	return c.cfg.Export.Engine
}

// sessionOpts configures newSession.
type sessionOpts struct {
	notifier edit.Notifier
	noCache  bool
	graphviz bool
	autosave bool
}

// newSession builds a session wired to the configured cache and exporter.
// Notices go to the terminal unless opts.notifier is set.
func (c *CLI) newSession(opts sessionOpts) (*session.Session, error) {
	n := opts.notifier
	if n == nil {
		n = edit.NotifierFunc(c.notify)
	}
	store, err := c.newCache(opts.noCache)
	if err != nil {
		return nil, err
	}
	engine := c.engine()
	exporter := c.newExporter(engine, opts.graphviz)
	if opts.graphviz {
		engine += "+graphviz"
	}

	sopts := []session.Option{
		session.WithEditor(c.newEditor(n)),
		session.WithExporter(exporter),
		session.WithCache(store),
		session.WithTTL(c.cfg.Cache.TTL.Duration),
		session.WithEngine(engine),
		session.WithNotifier(n),
		session.WithLogger(c.Logger),
	}
	if ns := c.cfg.Cache.Namespace; ns != "" {
		sopts = append(sopts, session.WithKeyer(cache.NewScopedKeyer(nil, ns+":")))
	}
	if opts.autosave {
		fs, err := c.autosaveStore()
		if err != nil {
			return nil, err
		}
		sopts = append(sopts, session.WithAutosave(fs))
	}
	return session.New(sopts...), nil
}

// notify prints warnings. Errors are returned to cobra and printed once by
// main; info notices only show up in the debug log.
func (c *CLI) notify(n edit.Notice) {
	switch n.Level {
	case edit.LevelWarn:
		printWarning("%s", n.Message)
	default:
		c.Logger.Debug("notice", "level", n.Level, "op", n.Op, "code", n.Code, "message", n.Message)
	}
}

// editFile loads path, applies fn and writes the result back. Nothing is
// written when fn fails.
func (c *CLI) editFile(ctx context.Context, path string, fn func(s *session.Session) error) (*session.Session, error) {
	s, err := c.newSession(sessionOpts{noCache: true})
	if err != nil {
		return nil, err
	}
	if err := s.LoadFile(ctx, path); err != nil {
		return nil, err
	}
	if err := fn(s); err != nil {
		return nil, err
	}
	if err := s.SaveFile(ctx, path); err != nil {
		return nil, err
	}
	return s, nil
}

// openFile loads path into a fresh read-only session.
func (c *CLI) openFile(ctx context.Context, path string, opts sessionOpts) (*session.Session, error) {
	s, err := c.newSession(opts)
	if err != nil {
		return nil, err
	}
	if err := s.LoadFile(ctx, path); err != nil {
		return nil, err
	}
	return s, nil
}

// =============================================================================
// Stores
// =============================================================================

func (c *CLI) newCache(noCache bool) (cache.Cache, error) {
	if noCache || c.cfg.Cache.Disabled {
		return cache.NewNullCache(), nil
	}
	dir, err := c.artifactDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

func (c *CLI) autosaveStore() (*session.FileStore, error) {
	dir, err := c.cacheDir()
	if err != nil {
		return session.NewFileStore("")
	}
	return session.NewFileStore(filepath.Join(dir, autosaveSubdir))
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the configured cache directory, or the XDG default
// (~/.cache/pedigree/).
func (c *CLI) cacheDir() (string, error) {
	if c.cfg.Cache.Dir != "" {
		return c.cfg.Cache.Dir, nil
	}
	return cacheDir()
}

// artifactDir holds cached export artifacts.
func (c *CLI) artifactDir() (string, error) {
	dir, err := c.cacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, artifactSubdir), nil
}

// cacheDir returns the cache directory using XDG standard (~/.cache/pedigree/).
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
