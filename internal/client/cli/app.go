// Package cli is the interactive command-line frontend. It wires the
// transport, session store, version gate and services together and runs a
// small REPL over them.
package cli

import (
	"bufio"
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/dmitrijs2005/carblock/internal/client/api"
	"github.com/dmitrijs2005/carblock/internal/client/config"
	"github.com/dmitrijs2005/carblock/internal/client/services"
	"github.com/dmitrijs2005/carblock/internal/client/session"
	"github.com/dmitrijs2005/carblock/internal/client/versiongate"
	"github.com/dmitrijs2005/carblock/internal/logging"
)

type App struct {
	config  *config.Config
	version string

	apiClient *api.Client
	session   *session.Store
	gate      *versiongate.Gate

	auth          *services.AuthService
	blocks        *services.BlockService
	plates        *services.PlateService
	notifications *services.NotificationService

	reader *bufio.Reader
}

func NewApp(cfg *config.Config, clientVersion string) (*App, error) {
	sess, err := session.NewStore(cfg.SessionFile)
	if err != nil {
		return nil, err
	}

	opts := []api.Option{
		api.WithToken(sess.Token()),
		api.WithTokenListener(func(token, userID string) {
			if err := sess.SetAuth(token, userID, ""); err != nil {
				log.Printf("saving session: %v", err)
			}
		}),
	}
	if cfg.ProxyUser != "" {
		opts = append(opts, api.WithProxyAuth(cfg.ProxyUser, cfg.ProxyPassword))
	}
	apiClient := api.New(cfg.ServerURL, opts...)

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))
	gate := versiongate.New(apiClient, clientVersion, logger)

	return &App{
		config:        cfg,
		version:       clientVersion,
		apiClient:     apiClient,
		session:       sess,
		gate:          gate,
		auth:          services.NewAuthService(apiClient, sess),
		blocks:        services.NewBlockService(apiClient),
		plates:        services.NewPlateService(apiClient),
		notifications: services.NewNotificationService(apiClient),
		reader:        bufio.NewReader(os.Stdin),
	}, nil
}

func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if state, err := a.gate.Check(ctx); err == nil {
		a.reportGateState(state)
	}

	go a.gate.Run(ctx, a.reportGateState)

	a.Root(ctx)
}

func (a *App) reportGateState(state versiongate.State) {
	switch state {
	case versiongate.StateForced:
		log.Printf("This client version (%s) is no longer supported. Run 'update' to download the current release.", a.version)
	case versiongate.StateRecommended:
		log.Printf("A newer client version is available (you run %s). Run 'update' to download it.", a.version)
	}
}
