// Package httpapi is the HTTP transport: routing, authentication
// middleware, and the JSON request/response contracts used by the mobile
// client.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrijs2005/carblock/internal/logging"
	"github.com/dmitrijs2005/carblock/internal/server/config"
	"github.com/dmitrijs2005/carblock/internal/server/services"
)

type Server struct {
	auth          *services.AuthService
	users         *services.UserService
	plates        *services.PlateService
	blocks        *services.BlockService
	notifications *services.NotificationService
	serverInfo    *services.ServerInfoService
	jwtSecret     []byte
	logger        logging.Logger

	httpServer *http.Server
}

func NewServer(cfg *config.Config, logger logging.Logger,
	authSvc *services.AuthService, userSvc *services.UserService,
	plateSvc *services.PlateService, blockSvc *services.BlockService,
	notifSvc *services.NotificationService, infoSvc *services.ServerInfoService) *Server {

	s := &Server{
		auth:          authSvc,
		users:         userSvc,
		plates:        plateSvc,
		blocks:        blockSvc,
		notifications: notifSvc,
		serverInfo:    infoSvc,
		jwtSecret:     []byte(cfg.SecretKey),
		logger:        logger,
	}
	s.httpServer = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Router builds the route tree. Route paths are a compatibility contract
// with the deployed mobile clients, change them only together.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/server-info", s.handleServerInfo)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/start", s.handleAuthStart)
			r.Post("/verify", s.handleAuthVerify)
			r.Post("/refresh", s.handleAuthRefresh)
		})

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)

			r.Route("/users", func(r chi.Router) {
				r.Get("/me", s.handleGetMe)
				r.Put("/me", s.handleUpdateMe)
				r.Post("/push-token", s.handleSetPushToken)
				r.Get("/by-plate", s.handleUserByPlate)
			})

			r.Route("/blocks", func(r chi.Router) {
				r.Post("/", s.handleCreateBlock)
				r.Get("/", s.handleListMyBlocks)
				r.Get("/my", s.handleBlocksAgainstMyPlates)
				r.Get("/check", s.handleCheckBlock)
				r.Delete("/{id}", s.handleDeleteBlock)
				r.Post("/{id}/warn-owner", s.handleWarnOwner)
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", s.handleListNotifications)
				r.Patch("/read-all", s.handleMarkAllNotificationsRead)
				r.Patch("/{id}/read", s.handleMarkNotificationRead)
			})

			r.Route("/user/plates", func(r chi.Router) {
				r.Get("/", s.handleListPlates)
				r.Post("/", s.handleAddPlate)
				r.Delete("/{id}", s.handleDeletePlate)
				r.Post("/{id}/primary", s.handleSetPrimaryPlate)
				r.Patch("/{id}", s.handlePlateDepartureTime)
			})
		})
	})

	return r
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "http server starting", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s.logger.Info(shutdownCtx, "http server shutting down")
	return s.httpServer.Shutdown(shutdownCtx)
}
