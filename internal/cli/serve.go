package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/msomdec/tunebox/internal/config"
	"github.com/msomdec/tunebox/internal/handler"
	"github.com/msomdec/tunebox/internal/repository/sqlite"
	"github.com/msomdec/tunebox/internal/service"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Migrate the database and start the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), v)
		},
	}
}

func runServe(ctx context.Context, v *viper.Viper) error {
	cfg, err := loadConfig(v)
	if err != nil {
		return err
	}

	db, err := openDatabase(ctx, cfg.Database.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	ln, err := net.Listen("tcp", ":"+cfg.Server.Port)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	return serve(ctx, ln, newApp(cfg, db))
}

type app struct {
	handler http.Handler
	limiter *service.RateLimiter
}

// newApp wires services and routes over an open database.
func newApp(cfg *config.Config, db *sqlite.DB) *app {
	authService := service.NewAuthService(db.Users(), cfg.Auth.JWTSecret, cfg.Auth.BcryptCost, cfg.Auth.TokenTTL)
	songService := service.NewSongService(db.Songs())
	playlistService := service.NewPlaylistService(db.Playlists(), db.Songs())

	var limiter *service.RateLimiter
	if cfg.Auth.RateLimit > 0 {
		limiter = service.NewRateLimiter(cfg.Auth.RateLimit, cfg.Auth.RateBurst)
	}

	return &app{
		handler: handler.NewRouter(handler.RouterConfig{
			Auth:        authService,
			Songs:       songService,
			Playlists:   playlistService,
			DB:          db,
			AuthLimiter: limiter,
		}),
		limiter: limiter,
	}
}

// serve runs the HTTP server on ln until ctx is cancelled, then drains
// in-flight requests.
func serve(ctx context.Context, ln net.Listener, a *app) error {
	if a.limiter != nil {
		defer a.limiter.Stop()
	}

	srv := &http.Server{
		Handler:           a.handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", ln.Addr().String()).Msg("server starting")
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	log.Info().Msg("server stopped")
	return nil
}
