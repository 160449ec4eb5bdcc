package main

import (
	"context"
	"fmt"
	"io"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/ankek/terraform-provider-iconset/internal/config"
	"github.com/ankek/terraform-provider-iconset/internal/ingest"
	"github.com/ankek/terraform-provider-iconset/internal/logging"
	"github.com/ankek/terraform-provider-iconset/internal/registry"
	"github.com/ankek/terraform-provider-iconset/internal/renderer"
	"github.com/ankek/terraform-provider-iconset/internal/source"
)

// globalFlags are the persistent flags shared by every subcommand. Empty
// values defer to the ICONSET_* environment.
type globalFlags struct {
	backend  string
	store    string
	logLevel string
}

// app is the set of services one command invocation works with.
type app struct {
	cfg      config.Config
	logger   hclog.Logger
	store    registry.Store
	svc      *ingest.Service
	renderer *renderer.Renderer
	opener   *source.Opener
}

func openApp(flags *globalFlags, stderr io.Writer) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if flags.backend != "" {
		cfg.StoreBackend = flags.backend
	}
	if flags.store != "" {
		cfg.StorePath = flags.store
	}
	if flags.logLevel != "" {
		cfg.LogLevel = flags.logLevel
	}

	logger := logging.New("iconctl", cfg.LogLevel, stderr)
	store, err := registry.Open(cfg.StoreBackend, cfg.StorePath)
	if err != nil {
		return nil, err
	}
	logger.Debug("opened registry", "backend", cfg.StoreBackend, "path", cfg.StorePath)

	svc := ingest.NewService(store, ingest.Config{MaxBytes: cfg.MaxBytes}, ingest.WithLogger(logger))
	return &app{
		cfg:      cfg,
		logger:   logger,
		store:    store,
		svc:      svc,
		renderer: renderer.New(store, renderer.WithLogger(logger)),
		opener:   source.NewOpener(source.NewHTTPClient(cfg.HTTPRetryMax, cfg.HTTPTimeout, logger), cfg.MaxBytes),
	}, nil
}

func (a *app) Close() error {
	return a.store.Close()
}

// withApp opens the services for the duration of fn.
func withApp(flags *globalFlags, fn func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := openApp(flags, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer func() {
			if cerr := a.Close(); cerr != nil {
				a.logger.Warn("closing registry", "error", cerr)
			}
		}()
		return fn(cmd.Context(), cmd, a, args)
	}
}

func newRootCmd(in io.Reader, out, errOut io.Writer) *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "iconctl",
		Short: "Manage an iconset icon registry",
		Long: `iconctl uploads, lists, removes and renders custom SVG icons.

Uploads are validated (SVG type, size ceiling), sanitised and canonicalised:
a viewBox is ensured, fixed width/height are removed and paints become
currentColor so icons follow the surrounding text color.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)

	root.PersistentFlags().StringVar(&flags.backend, "backend", "", fmt.Sprintf("registry backend %v (env ICONSET_STORE_BACKEND)", registry.Backends()))
	root.PersistentFlags().StringVar(&flags.store, "store", "", "registry file or database path (env ICONSET_STORE_PATH)")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "log level: trace, debug, info, warn, error (env ICONSET_LOG_LEVEL)")

	root.AddCommand(
		newAddCmd(flags),
		newListCmd(flags),
		newRemoveCmd(flags),
		newClearCmd(flags),
		newRenderCmd(flags),
		newImportCmd(flags),
		newBuiltinsCmd(),
	)
	return root
}
