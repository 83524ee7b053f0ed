package observability

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"daemon-hunt/internal/logger"
)

// ServerConfig configures the debug server
type ServerConfig struct {
	Enabled       bool
	ListenAddr    string // loopback only unless AllowExternal
	AllowExternal bool
}

// DefaultServerConfig returns safe defaults
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		ListenAddr: "127.0.0.1:6061",
	}
}

// StartDebugServer serves handler until ctx is done. It returns once the
// listener is bound, so a bad address fails fast. The returned address is the
// one actually bound (useful with port 0).
func StartDebugServer(ctx context.Context, cfg ServerConfig, handler http.Handler) (string, error) {
	if !cfg.Enabled {
		logger.Log.Debug("debug server disabled")
		return "", nil
	}

	addr := cfg.ListenAddr
	if addr == "" {
		addr = DefaultServerConfig().ListenAddr
	}
	if !cfg.AllowExternal && !isLoopback(addr) {
		logger.Log.WithField("addr", addr).Warn("debug server forced to localhost")
		_, port, err := net.SplitHostPort(addr)
		if err != nil || port == "" {
			port = "6061"
		}
		addr = net.JoinHostPort("127.0.0.1", port)
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return "", err
	}

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	go func() {
		logger.Log.WithField("addr", ln.Addr().String()).Info("debug server listening")
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.WithError(err).Warn("debug server error")
		}
	}()

	return ln.Addr().String(), nil
}

func isLoopback(addr string) bool {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return false
	}
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
