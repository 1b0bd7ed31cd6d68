// Package server assembles the application: configuration, database,
// repositories, services and the HTTP transport, plus graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/dmitrijs2005/carblock/internal/cryptox"
	"github.com/dmitrijs2005/carblock/internal/logging"
	"github.com/dmitrijs2005/carblock/internal/server/appstore"
	"github.com/dmitrijs2005/carblock/internal/server/config"
	"github.com/dmitrijs2005/carblock/internal/server/httpapi"
	"github.com/dmitrijs2005/carblock/internal/server/push"
	"github.com/dmitrijs2005/carblock/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/carblock/internal/server/services"
	"github.com/dmitrijs2005/carblock/internal/server/sms"
	"github.com/dmitrijs2005/carblock/internal/server/smscode"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	server *httpapi.Server
}

// NewApp wires the full server from config. serverVersion is the build
// version reported by /api/server-info.
func NewApp(cfg *config.Config, serverVersion string) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	m := repomanager.NewPostgresRepositoryManager()
	if err := m.RunMigrations(context.Background(), db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	cipher, err := cryptox.NewCipher(cryptox.DeriveKey(cfg.EncryptionSecret))
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("cipher init error: %w", err)
	}

	codes := smscode.NewStore(cfg.CodeLength, cfg.CodeTTL)

	var sender sms.Sender = sms.NoopSender{}
	if cfg.SMSGatewayEndpoint != "" {
		sender = sms.NewGatewaySender(cfg.SMSGatewayEndpoint, cfg.SMSGatewayAPIKey)
	} else {
		logger.Warn(context.Background(), "sms gateway not configured, codes are not delivered")
	}

	var notifier push.Notifier = push.NoopNotifier{}
	if cfg.PushGatewayEndpoint != "" {
		notifier = push.NewGatewayNotifier(cfg.PushGatewayEndpoint, cfg.PushServerKey, logger)
	}

	// without S3 the static AppDownloadURL from the config is advertised
	var store services.AppStore
	if cfg.S3BaseEndpoint != "" {
		store = appstore.New(appstore.Options{
			Region:       cfg.S3Region,
			AccessKey:    cfg.S3RootUser,
			SecretKey:    cfg.S3RootPassword,
			BaseEndpoint: cfg.S3BaseEndpoint,
			Bucket:       cfg.S3Bucket,
			ObjectKey:    cfg.S3AppObjectKey,
		})
	}

	authSvc := services.NewAuthService(db, m, cfg, codes, sender, cipher)
	userSvc := services.NewUserService(db, m, cipher)
	plateSvc := services.NewPlateService(db, m)
	blockSvc := services.NewBlockService(db, m, userSvc, notifier)
	notifSvc := services.NewNotificationService(db, m)
	infoSvc := services.NewServerInfoService(serverVersion, cfg, store, logger)

	srv := httpapi.NewServer(cfg, logger, authSvc, userSvc, plateSvc, blockSvc, notifSvc, infoSvc)

	return &App{config: cfg, logger: logger, db: db, server: srv}, nil
}

// Run serves HTTP until ctx is cancelled and closes the database on the way
// out.
func (app *App) Run(ctx context.Context) error {
	defer app.db.Close()
	return app.server.Run(ctx)
}
