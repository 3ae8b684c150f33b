package commands

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/arvindgk/facilityresv/internal/adminhttp"
	"github.com/arvindgk/facilityresv/internal/logger"
)

// adminServer runs the /healthz and /metrics HTTP surface alongside the
// UDP datagram loop. It is best-effort: a bind failure is logged, not
// fatal, since the reservation protocol does not depend on it.
type adminServer struct {
	addr       string
	statusFunc func() adminhttp.Status
	srv        *http.Server
}

func (a *adminServer) run() {
	a.srv = &http.Server{
		Addr:    a.addr,
		Handler: adminhttp.NewHandler(a.statusFunc),
	}
	logger.Info("admin http listening", "addr", a.addr)
	if err := a.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Warn("admin http server stopped", "error", err)
	}
}

func (a *adminServer) shutdown() {
	if a.srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = a.srv.Shutdown(ctx)
}
