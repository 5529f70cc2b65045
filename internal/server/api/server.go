// Package api exposes the HTTP/JSON interface: login, user and permission
// administration, report CRUD, summaries and archive export. Every route
// except login and health sits behind bearer-token authentication.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"salesreport/internal/logging"
	"salesreport/internal/server/config"
	"salesreport/internal/server/services"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	addr        string
	secretKey   []byte
	users       *services.UserService
	permissions *services.PermissionService
	reports     *services.ReportService
	summaries   *services.SummaryService
	exports     *services.ExportService
	logger      logging.Logger

	httpServer *http.Server
}

func NewServer(
	cfg *config.Config,
	users *services.UserService,
	permissions *services.PermissionService,
	reports *services.ReportService,
	summaries *services.SummaryService,
	exports *services.ExportService,
	logger logging.Logger,
) *Server {
	s := &Server{
		addr:        cfg.EndpointAddr,
		secretKey:   []byte(cfg.SecretKey),
		users:       users,
		permissions: permissions,
		reports:     reports,
		summaries:   summaries,
		exports:     exports,
		logger:      logger.With("module", "api"),
	}
	s.httpServer = &http.Server{Addr: s.addr, Handler: s.newRouter()}
	return s
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "http server starting", "addr", s.addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.logger.Info(ctx, "http server stopped")
	return <-errCh
}
