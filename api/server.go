package api

import (
	"net/http"
	"time"

	"github.com/agroconnect/agroconnect-backend/pkg/config"
	"github.com/agroconnect/agroconnect-backend/pkg/env"
)

const (
	readHeaderTimeout = 10 * time.Second
	idleTimeout       = 120 * time.Second
	// ShutdownTimeout bounds how long in-flight requests get after a signal.
	ShutdownTimeout = 15 * time.Second
)

// NewServer builds the http.Server cmd/api listens with. PORT wins over the
// configured port so platform routers can assign one. Read and write timeouts
// stay unset because websocket connections are long lived.
func NewServer(cfg *config.Config, handler http.Handler) *http.Server {
	port := env.Get("PORT", cfg.App.Port)
	return &http.Server{
		Addr:              ":" + port,
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
		IdleTimeout:       idleTimeout,
	}
}
