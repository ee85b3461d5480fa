package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"
)

type Api struct {
	config *Config
	log    *slog.Logger
}

type Config struct {
	addr            string
	shutdownTimeout time.Duration
}

func NewApi(addr string, log *slog.Logger) *Api {
	return &Api{
		config: &Config{
			addr:            addr,
			shutdownTimeout: 10 * time.Second,
		},
		log: log,
	}
}

// Run serves r until ctx is cancelled, then drains in-flight requests.
func (a *Api) Run(ctx context.Context, r http.Handler) error {
	server := &http.Server{
		Addr:              a.config.addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("http server listening", "addr", a.config.addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.log.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.config.shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
