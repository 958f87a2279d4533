package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/Domenick1991/flightdesk/config"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	httpSwagger "github.com/swaggo/http-swagger"
)

const swaggerDoc = "/swagger/flightdesk.swagger.json"

// NewHandler puts the REST router behind CORS and mounts the swagger UI
// when a swagger directory is configured.
func NewHandler(cfg config.HTTPConfig, router http.Handler) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/", router)

	if cfg.SwaggerDir != "" {
		fs := http.FileServer(http.Dir(cfg.SwaggerDir))
		mux.Handle("/swagger/", http.StripPrefix("/swagger/", fs))
		mux.Handle("/docs/", httpSwagger.Handler(httpSwagger.URL(swaggerDoc)))
	}

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
	}).Handler(mux)
}

// Run serves handler until ctx is canceled or the listener fails.
func Run(ctx context.Context, cfg config.HTTPConfig, handler http.Handler) error {
	srv := &http.Server{
		Addr:         cfg.Address,
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logrus.WithField("address", cfg.Address).Info("http server started")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
		logrus.Info("shutting down http server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}
