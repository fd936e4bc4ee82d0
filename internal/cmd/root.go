package cmd

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"dqx0.com/go/rawhttp/httpx"
	"dqx0.com/go/rawhttp/internal/config"
	"dqx0.com/go/rawhttp/internal/filestore"
	"dqx0.com/go/rawhttp/internal/obs"
	"dqx0.com/go/rawhttp/internal/routes"
	"dqx0.com/go/rawhttp/internal/version"
)

const shutdownTimeout = 5 * time.Second

type options struct {
	configPath  string
	directory   string
	addr        string
	maxConns    int
	debug       bool
	noColor     bool
	showVersion bool
}

// NewRootCmd creates the root command for httpx-serve
func NewRootCmd() *cobra.Command {
	opts := &options{}
	rootCmd := &cobra.Command{
		Use:   version.AppName,
		Short: version.Description,
		Long: fmt.Sprintf(`%s - %s

Serves /, /echo/<text>, /user-agent and GET/POST /files/<name>, with files
read from and written to --directory.
`, version.AppName, version.Description),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.showVersion {
				fmt.Fprintln(cmd.OutOrStdout(), version.GetVersionInfo())
				return nil
			}
			if opts.noColor {
				color.NoColor = true
			}
			cfg, loadErr := opts.resolveConfig(cmd)
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			if err := httpx.ValidateEncodings(cfg.Server.Encodings); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			logger, closer := obs.Init(opts.debug, cfg.Logging)
			defer closer.Close()
			if loadErr != nil {
				logger.Warn().Err(loadErr).Str("path", opts.configPath).Msg("using default configuration")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, logger, cmd.OutOrStdout())
		},
	}

	rootCmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Configuration file path (YAML)")
	rootCmd.Flags().StringVar(&opts.directory, "directory", "", "Directory served under /files (default \"/\")")
	rootCmd.Flags().StringVar(&opts.addr, "addr", "", "Listen address (default \"127.0.0.1:4221\")")
	rootCmd.Flags().IntVar(&opts.maxConns, "max-conns", 0, "Maximum concurrent connections, 0 for unbounded")
	rootCmd.Flags().BoolVarP(&opts.debug, "debug", "d", false, "Enable debug logging")
	rootCmd.Flags().BoolVar(&opts.noColor, "no-color", false, "Disable color output")
	rootCmd.Flags().BoolVarP(&opts.showVersion, "version", "v", false, "Display version information")

	return rootCmd
}

// resolveConfig loads the config file and applies flags the user set. The
// returned config is never nil; the error reports a file that could not be
// loaded.
func (o *options) resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.LoadOrDefault(o.configPath)
	flags := cmd.Flags()
	if flags.Changed("directory") {
		cfg.Server.Directory = o.directory
	}
	if flags.Changed("addr") {
		cfg.Server.Addr = o.addr
	}
	if flags.Changed("max-conns") {
		cfg.Server.MaxConns = o.maxConns
	}
	return cfg, err
}

// serve runs the server until ctx ends, then shuts it down gracefully.
func serve(ctx context.Context, cfg *config.Config, logger zerolog.Logger, out io.Writer) error {
	store, err := filestore.New(cfg.Server.Directory)
	if err != nil {
		return err
	}

	var dispatcher httpx.Dispatcher = httpx.GoDispatcher{}
	if cfg.Server.MaxConns > 0 {
		dispatcher = httpx.NewBoundedDispatcher(cfg.Server.MaxConns)
	}
	meter := obs.NewMemMeter()
	srv := &httpx.Server{
		Addr:        cfg.Server.Addr,
		Handler:     routes.New(store),
		Encodings:   cfg.Server.Encodings,
		Dispatcher:  dispatcher,
		ReadTimeout: time.Duration(cfg.Server.ReadTimeout) * time.Second,
		Logger:      &logger,
		Meter:       meter,
	}

	ln, err := net.Listen("tcp", cfg.Server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cfg.Server.Addr, err)
	}
	printBanner(out, ln.Addr().String(), store.Dir())
	logger.Info().
		Str("directory", store.Dir()).
		Strs("encodings", cfg.Server.Encodings).
		Int("max_conns", cfg.Server.MaxConns).
		Msg("starting server")

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err = srv.Shutdown(shutdownCtx)
	<-errc

	ev := logger.Info()
	for k, v := range meter.Snapshot() {
		ev = ev.Float64(k, v)
	}
	ev.Msg("server stopped")
	return err
}

func printBanner(out io.Writer, addr, dir string) {
	bold := color.New(color.FgGreen, color.Bold)
	bold.Fprintf(out, "%s listening on %s\n", version.AppName, addr)
	fmt.Fprintf(out, "serving files from %s\n", dir)
}
