package cli

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pedigree/internal/server"
	"github.com/matzehuels/pedigree/pkg/observability"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr      string
	watch     bool
	noMetrics bool
}

func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve [file]",
		Short: "Serve a chart to a canvas front end",
		Long: `Serve a chart over a local HTTP API and websocket event stream. The
front end posts intents to /api/intents and receives every change and notice
on /api/events. Saving writes back to the file.

A missing file is created empty on the first save. With --watch, outside
edits to the file are loaded as they happen.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr := c.cfg.Server.Addr
			if cmd.Flags().Changed("addr") {
				addr = opts.addr
			}
			watch := c.cfg.Server.Watch || opts.watch
			return c.runServe(cmd.Context(), args, addr, watch, !opts.noMetrics)
		},
	}

	cmd.Flags().StringVarP(&opts.addr, "addr", "a", "127.0.0.1:7070", "listen address (default from config)")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "reload the file when it changes on disk")
	cmd.Flags().BoolVar(&opts.noMetrics, "no-metrics", false, "do not expose /metrics")
	return cmd
}

func (c *CLI) runServe(ctx context.Context, args []string, addr string, watch, metrics bool) error {
	hub := server.NewHub(c.Logger)
	s, err := c.newSession(sessionOpts{notifier: hub, autosave: true})
	if err != nil {
		return err
	}
	defer s.Close(context.Background())

	var path string
	if len(args) == 1 {
		path = args[0]
		if err := s.LoadFile(ctx, path); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return err
			}
			if err := s.SaveFile(ctx, path); err != nil {
				return err
			}
			printInfo("Created %s", path)
		}
	}

	opts := []server.Option{server.WithHub(hub), server.WithLogger(c.Logger)}
	if metrics {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector())
		observability.NewPrometheus(reg).Install()
		defer observability.Reset()
		opts = append(opts, server.WithMetrics(reg))
	}
	if watch && path != "" {
		opts = append(opts, server.WithWatch(path))
	}
	srv := server.New(s, opts...)
	defer srv.Close()

	printSuccess("Serving on http://%s", addr)
	if path != "" {
		printFile(path)
	}
	if dir, err := c.cacheDir(); err == nil {
		printDetail("session %s, autosave in %s", s.ID, filepath.Join(dir, autosaveSubdir))
	}
	return srv.Run(ctx, addr)
}
