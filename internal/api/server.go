// Package api exposes the CRUD surface around the worker core: users,
// alerts, price history and a manual check trigger.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"flightwatch/internal/logging"
	"flightwatch/internal/repositories/repomanager"
	"flightwatch/internal/worker"
)

type Server struct {
	engine    *gin.Engine
	logger    logging.Logger
	repos     repomanager.RepositoryManager
	evaluator *worker.Evaluator
	addr      string
}

func NewServer(addr string, repos repomanager.RepositoryManager, evaluator *worker.Evaluator, logger logging.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		engine:    gin.New(),
		logger:    logger,
		repos:     repos,
		evaluator: evaluator,
		addr:      addr,
	}

	s.engine.Use(gin.Recovery())
	s.routes()
	return s
}

func (s *Server) routes() {
	s.engine.GET("/health", s.health)

	s.engine.GET("/users", s.listUsers)
	s.engine.POST("/users", s.createUser)

	s.engine.GET("/alerts", s.listAlerts)
	s.engine.POST("/alerts", s.createAlert)
	s.engine.PATCH("/alerts/:id", s.updateAlert)
	s.engine.DELETE("/alerts/:id", s.deleteAlert)
	s.engine.GET("/alerts/:id/price-history", s.priceHistory)

	s.engine.POST("/check-now/:id", s.checkNow)
}

// Handler returns the underlying http handler, used by tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.addr,
		Handler: s.engine,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	s.logger.Info(ctx, "api server started", "addr", s.addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s.logger.Info(ctx, "api server stopping")
	return srv.Shutdown(shutdownCtx)
}
