// Package app composes configuration, logging, storage, services and the HTTP server.
package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/LucasJalles/controle-vendas/pkg/form"
	"github.com/LucasJalles/controle-vendas/pkg/httpapi"
	"github.com/LucasJalles/controle-vendas/pkg/sale"
	"github.com/LucasJalles/controle-vendas/pkg/settings"
	"github.com/LucasJalles/controle-vendas/pkg/sheets"
	"github.com/LucasJalles/controle-vendas/pkg/storage/memory"
	"github.com/LucasJalles/controle-vendas/pkg/version"
)

// Run parses args (without the program name) and executes the selected command.
func Run(ctx context.Context, args []string) error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "load .env")
	}
	return newCLI().RunContext(ctx, append([]string{"vendas"}, args...))
}

func newCLI() *cli.App {
	return &cli.App{
		Name:        "vendas",
		Usage:       "order entry for gas and water deliveries",
		Version:     version.Version(),
		HideVersion: true,
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "port", Usage: "HTTP port (VENDAS_PORT)"},
			&cli.StringFlag{Name: "settings-path", Usage: "settings file (VENDAS_SETTINGS_PATH)"},
			&cli.StringFlag{Name: "log-mode", Usage: "development or production (VENDAS_LOG_MODE)"},
			&cli.StringFlag{Name: "log-file", Usage: "rotating JSON log file (VENDAS_LOG_FILE)"},
		},
		Action: serve,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the order screen",
				Action: serve,
			},
			{
				Name:  "configure",
				Usage: "store the spreadsheet endpoint URL",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "sheets-url", Usage: "Google Apps Script web app URL", Required: true},
				},
				Action: configure,
			},
			{
				Name:  "version",
				Usage: "print the version",
				Action: func(c *cli.Context) error {
					_, err := fmt.Fprintln(c.App.Writer, version.Version())
					return err
				},
			},
		},
	}
}

func configure(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	store, err := settings.Open(cfg.SettingsPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.SetSheetsURL(c.String("sheets-url")); err != nil {
		return err
	}
	_, err = fmt.Fprintf(c.App.Writer, "spreadsheet endpoint saved to %s\n", cfg.SettingsPath)
	return err
}

func serve(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync()
	undo := zap.ReplaceGlobals(logger)
	defer undo()

	loc := cfg.location()
	secret, err := cfg.sessionSecret()
	if err != nil {
		return err
	}

	store, err := settings.Open(cfg.SettingsPath)
	if err != nil {
		return err
	}
	defer store.Close()

	sales := sale.NewService(memory.NewLedger())
	defer sales.Close()

	forms := form.NewService()
	defer forms.Close()

	syncer := sheets.NewClient(
		sheets.WithLocation(loc),
		sheets.WithOpaqueResponses(cfg.SheetsOpaque),
	)

	srv, err := httpapi.New(httpapi.Deps{
		Forms:         forms,
		Sales:         sales,
		Settings:      store,
		Syncer:        syncer,
		SessionSecret: secret,
		Location:      loc,
	})
	if err != nil {
		return errors.Wrap(err, "build http server")
	}

	server := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Port),
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return listen(c.Context, server)
}

// listen serves until ctx is cancelled, then shuts the server down gracefully.
func listen(ctx context.Context, server *http.Server) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		zap.S().Infof("controle-vendas %s is running on %s", version.Version(), server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "server stopped unexpectedly")
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		zap.S().Info("shutting down")
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
