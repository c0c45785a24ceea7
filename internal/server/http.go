package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/binary-boxer/internal/config"
)

// HTTPService serves a handler until stopped. Stop cancels every request
// context, so long-lived streams end, then drains in-flight requests for at
// most the configured shutdown timeout.
type HTTPService struct {
	srv             *http.Server
	shutdownTimeout time.Duration
	logger          *zap.Logger
	ready           chan struct{}
	addr            net.Addr
}

// NewHTTPService builds an HTTPService listening on cfg.Addr().
//
// Precondition: handler and logger must be non-nil.
func NewHTTPService(cfg config.ServerConfig, handler http.Handler, logger *zap.Logger) *HTTPService {
	base, cancel := context.WithCancel(context.Background())
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
		BaseContext:  func(net.Listener) context.Context { return base },
	}
	srv.RegisterOnShutdown(cancel)
	return &HTTPService{
		srv:             srv,
		shutdownTimeout: cfg.ShutdownTimeout,
		logger:          logger,
		ready:           make(chan struct{}),
	}
}

// Start listens and serves. It returns nil after a clean Stop.
func (h *HTTPService) Start() error {
	ln, err := net.Listen("tcp", h.srv.Addr)
	if err != nil {
		close(h.ready)
		return err
	}
	h.addr = ln.Addr()
	close(h.ready)
	h.logger.Info("http listening", zap.String("addr", h.addr.String()))

	if err := h.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Addr blocks until Start has tried to listen and returns the bound address,
// or nil if listening failed.
func (h *HTTPService) Addr() net.Addr {
	<-h.ready
	return h.addr
}

// Stop shuts the server down gracefully.
func (h *HTTPService) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), h.shutdownTimeout)
	defer cancel()
	if err := h.srv.Shutdown(ctx); err != nil {
		h.logger.Warn("http shutdown incomplete", zap.Error(err))
	}
}
