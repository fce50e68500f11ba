package internal

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/ivkudzin/unimatch/internal/config"
	"github.com/ivkudzin/unimatch/internal/datastore/postgres"
	redisClient "github.com/ivkudzin/unimatch/internal/datastore/redis"
	"github.com/ivkudzin/unimatch/internal/logger"
	matchRepo "github.com/ivkudzin/unimatch/internal/repository/match"
	profileRepo "github.com/ivkudzin/unimatch/internal/repository/profile"
	routesV1 "github.com/ivkudzin/unimatch/internal/routes/v1"
	authUseCase "github.com/ivkudzin/unimatch/internal/usecase/auth"
	matchUseCase "github.com/ivkudzin/unimatch/internal/usecase/match"
	profileUseCase "github.com/ivkudzin/unimatch/internal/usecase/profile"
	"github.com/ivkudzin/unimatch/pkg/filestore"
	"github.com/ivkudzin/unimatch/pkg/initdata"
	"github.com/ivkudzin/unimatch/pkg/jwt"
	"github.com/ivkudzin/unimatch/pkg/path"
	"github.com/labstack/echo"
)

type Server struct {
	httpServer *http.Server
	log        *slog.Logger
}

func NewServer(
	cfg config.IConfig,
	log *slog.Logger,
	authCase authUseCase.IAuthUseCase,
	profileCase profileUseCase.IProfileUseCase,
	matchCase matchUseCase.IMatchUseCase,
	tokens *jwt.Manager,
	uploadDir string,
) *Server {
	e := echo.New()

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "healthy"})
	})
	e.Static("/uploads", uploadDir)

	routesV1.InitV1Routes(e, authCase, profileCase, matchCase, tokens)

	return &Server{
		httpServer: &http.Server{
			Addr:    ":" + cfg.Get("PORT"),
			Handler: e,
		},
		log: log,
	}
}

func (s *Server) Start() error {
	s.log.Info("server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Run wires configuration, storage, usecases and the HTTP server, then
// blocks until the context is cancelled or the server fails.
func Run(ctx context.Context, w io.Writer, args []string) error {
	env := "dev"
	if len(args) > 1 {
		env = args[1]
	}

	cfg, err := config.NewConfig(env)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(w, cfg.Get("LOG_LEVEL"), cfg.Get("LOG_FORMAT"))

	db, err := postgres.InitializeDB(
		cfg.Get("POSTGRES_USER"),
		cfg.Get("POSTGRES_PASSWORD"),
		cfg.Get("POSTGRES_DB_NAME"),
		cfg.Get("POSTGRES_HOST"),
		cfg.Get("POSTGRES_PORT"),
	)
	if err != nil {
		return fmt.Errorf("init postgres: %w", err)
	}

	basePath, err := os.Getwd()
	if err != nil {
		return err
	}
	if root, err := path.FindRoot(basePath, "migrations", true); err == nil {
		if err := postgres.RunMigrations(db, root+"/migrations"); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
	} else {
		log.Warn("migrations directory not found, skipping", "err", err)
	}

	rdb, err := redisClient.NewRedis(cfg.Get("REDIS_HOST"), cfg.Get("REDIS_PORT"))
	if err != nil {
		return fmt.Errorf("init redis: %w", err)
	}

	photos, err := filestore.New(cfg.Get("UPLOAD_DIR"), "/uploads")
	if err != nil {
		return fmt.Errorf("init filestore: %w", err)
	}

	tokens := jwt.NewManager(cfg.Get("JWT_SECRET"), jwt.DefaultTTL)
	verifier := initdata.NewVerifier(cfg.Get("TELEGRAM_BOT_TOKEN"), initdata.DefaultMaxAge)

	profiles := profileRepo.New(db)
	matches := matchRepo.NewMatchRepo(db, rdb)

	authCase := authUseCase.New(verifier, tokens, log)
	profileCase := profileUseCase.NewProfileUseCase(profiles, matches, photos, log)
	matchCase := matchUseCase.NewMatchUseCase(profiles, matches, log)

	server := NewServer(cfg, log, authCase, profileCase, matchCase, tokens, cfg.Get("UPLOAD_DIR"))

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		log.Info("server shutting down")
		return server.Shutdown(shutdownCtx)
	}
}
