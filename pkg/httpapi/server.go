// Package httpapi exposes the Azure DevOps service over a small REST
// surface, mirroring the MCP tool set for callers that speak plain HTTP.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/luutranit2/azure-devops-mcp/pkg/azdo"
)

// Server serves the REST API over one azdo.Service.
type Server struct {
	svc *azdo.Service
	log *zap.SugaredLogger
}

// NewServer wires the handlers to a service. The service connects lazily,
// so constructing the server performs no I/O.
func NewServer(svc *azdo.Service, log *zap.SugaredLogger) *Server {
	return &Server{svc: svc, log: log}
}

// Handler builds the gin engine with all routes registered.
func (s *Server) Handler() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	s.registerRoutes(router)
	return router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log.Warnw("http server shutdown", "error", err)
		}
	}()

	s.log.Infow("http server listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
