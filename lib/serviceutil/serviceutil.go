package serviceutil

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

// Returns a context that will live until Ctrl+C is pressed
func SignalContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigs
		cancel()
	}()

	return ctx
}

// NewHandler wraps handler with tracing, CORS for the given origins and
// cleartext HTTP/2.
func NewHandler(handler http.Handler, allowedOrigins []string) http.Handler {
	handler = AllowOrigins(allowedOrigins, handler)
	handler = otelhttp.NewHandler(handler, "http", otelhttp.WithSpanNameFormatter(
		func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		},
	))
	return h2c.NewHandler(handler, &http2.Server{})
}

// AllowOrigins answers CORS preflights and sets the allow origin header for
// the listed origins, "*" allows every origin. No origins disables CORS.
func AllowOrigins(origins []string, next http.Handler) http.Handler {
	if len(origins) == 0 {
		return next
	}
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler(next)
}

// StartHttpServer serves handler until ctx is done, then shuts down gracefully.
func StartHttpServer(ctx context.Context, port int, handler http.Handler) error {
	server := &http.Server{
		Addr:              fmt.Sprintf("0.0.0.0:%d", port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := server.Shutdown(shutdownCtx)
		if err != nil {
			slog.Warn("shutdown http server", "err", err)
		}
	}()

	slog.Info("listening to http...", "port", port)
	err := server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func Fatal(message string, err error) {
	slog.Error(message, "err", err.Error())
	os.Exit(1)
}
