package services

import (
	"context"

	"github.com/dmitrijs2005/carblock/internal/logging"
	"github.com/dmitrijs2005/carblock/internal/server/appstore"
	"github.com/dmitrijs2005/carblock/internal/server/config"
)

// ServerInfo is what unauthenticated clients need to decide whether they
// may keep running and where to get an update.
type ServerInfo struct {
	ServerVersion        string `json:"server_version"`
	MinClientVersion     string `json:"min_client_version"`
	ReleaseClientVersion string `json:"release_client_version"`
	AppDownloadURL       string `json:"app_download_url"`
	TelegramBotUsername  string `json:"telegram_bot_username"`
}

// AppStore yields a download link for the current client build.
type AppStore interface {
	DownloadURL(ctx context.Context) (string, error)
}

// ServerInfoService serves version-gate data. The download link is a
// presigned storage URL minted per request; when storage is not configured
// or unreachable the static configured URL is advertised instead.
type ServerInfoService struct {
	serverVersion string
	cfg           *config.Config
	store         AppStore
	logger        logging.Logger
}

func NewServerInfoService(serverVersion string, cfg *config.Config, store AppStore, logger logging.Logger) *ServerInfoService {
	return &ServerInfoService{
		serverVersion: serverVersion,
		cfg:           cfg,
		store:         store,
		logger:        logger,
	}
}

func (s *ServerInfoService) Info(ctx context.Context) *ServerInfo {
	info := &ServerInfo{
		ServerVersion:        s.serverVersion,
		MinClientVersion:     s.cfg.MinClientVersion,
		ReleaseClientVersion: s.cfg.ReleaseClientVersion,
		AppDownloadURL:       s.cfg.AppDownloadURL,
		TelegramBotUsername:  s.cfg.TelegramBotUsername,
	}

	if s.store != nil {
		url, err := s.store.DownloadURL(ctx)
		if err != nil {
			s.logger.Warn(ctx, "app download url unavailable", "error", err)
		} else {
			info.AppDownloadURL = url
		}
	}
	return info
}

var _ AppStore = (*appstore.Store)(nil)
