package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/bryanwahyu/profilepilot/internal/application"
	appanalysis "github.com/bryanwahyu/profilepilot/internal/application/analysis"
	"github.com/bryanwahyu/profilepilot/internal/config"
	domain "github.com/bryanwahyu/profilepilot/internal/domain/analysis"
	"github.com/bryanwahyu/profilepilot/internal/domain/failures"
	"github.com/bryanwahyu/profilepilot/internal/infra/ai"
	"github.com/bryanwahyu/profilepilot/internal/infra/db/memory"
	mysqlp "github.com/bryanwahyu/profilepilot/internal/infra/db/mysql"
	"github.com/bryanwahyu/profilepilot/internal/infra/db/postgres"
	"github.com/bryanwahyu/profilepilot/internal/infra/events"
	"github.com/bryanwahyu/profilepilot/internal/infra/httpserver"
	"github.com/bryanwahyu/profilepilot/internal/infra/storage"
	"github.com/bryanwahyu/profilepilot/internal/middleware"
)

func main() {
	// .env optional, env asli tetap menang
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("dotenv: %v", err)
	}

	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	// load config
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config invalid: %v", err)
	}

	ctx := context.Background()

	// init store
	repo, failureRepo, db, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("%s connect error: %v", cfg.Database.Driver, err)
	}
	if db != nil {
		defer db.Close()
	}

	// init generation client
	gen, err := ai.NewGenerator(ctx, ai.Settings{
		Provider: cfg.AI.Provider,
		Model:    cfg.AI.Model,
		APIKey:   cfg.AI.APIKey,
		BaseURL:  cfg.AI.BaseURL,
		Timeout:  cfg.AI.Timeout,
	})
	if err != nil {
		log.Fatalf("ai init error: %v", err)
	}

	svc := &appanalysis.Service{
		Repo:      repo,
		Generator: gen,
		Failures:  failureRepo,
		Clock:     application.SystemClock{},
	}

	// init archive (optional)
	archive, err := openArchive(ctx, cfg)
	if err != nil {
		log.Fatalf("archive init error: %v", err)
	}
	if archive != nil {
		svc.Archive = archive
	}

	// init events (optional)
	if cfg.Events.AMQPURL != "" {
		pub, err := events.Dial(cfg.Events.AMQPURL, cfg.Events.Exchange)
		if err != nil {
			log.Fatalf("amqp init error: %v", err)
		}
		defer pub.Close()
		svc.Events = pub
	}

	limiter := middleware.NewRateLimiter(cfg.Server.RateLimit.RequestsPerMinute, cfg.Server.RateLimit.Burst)
	defer limiter.Stop()

	health := map[string]middleware.HealthChecker{}
	if db != nil {
		health["database"] = &middleware.DatabaseHealthChecker{DB: db}
	}
	ready := map[string]middleware.HealthChecker{
		"generation": middleware.CheckFunc(func(context.Context) error {
			if cfg.AI.APIKey == "" {
				return domain.ErrConfiguration
			}
			return nil
		}),
	}

	handler := httpserver.NewRouter(svc, httpserver.Options{
		Oracle:         newOracle(cfg),
		AllowedOrigins: cfg.Server.AllowedOrigins,
		RateLimiter:    limiter,
		Health:         health,
		Ready:          ready,
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.AI.Timeout + 15*time.Second, // generation bisa lama
		IdleTimeout:  60 * time.Second,
	}

	// run server
	go func() {
		log.Printf("server listening on %s driver=%s provider=%s auth=%s", addr, cfg.Database.Driver, cfg.AI.Provider, cfg.Auth.Mode)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Println("shutting down server...")

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}

func openStore(ctx context.Context, cfg *config.Config) (domain.Repository, failures.Repository, *sql.DB, error) {
	switch cfg.Database.Driver {
	case "memory":
		st := memory.NewStore()
		return st, st.Failures(), nil, nil
	case "mysql":
		db, err := mysqlp.Connect(ctx, cfg.MySQLDSN())
		if err != nil {
			return nil, nil, nil, err
		}
		if cfg.Database.AutoMigrate {
			if err := mysqlp.Migrate(ctx, db); err != nil {
				_ = db.Close()
				return nil, nil, nil, err
			}
		}
		return mysqlp.NewAnalysisRepository(db), mysqlp.NewFailureRepository(db), db, nil
	default:
		db, err := postgres.Connect(ctx, cfg.PostgresDSN())
		if err != nil {
			return nil, nil, nil, err
		}
		if cfg.Database.AutoMigrate {
			if err := postgres.Migrate(ctx, db); err != nil {
				_ = db.Close()
				return nil, nil, nil, err
			}
		}
		return postgres.NewAnalysisRepository(db), postgres.NewFailureRepository(db), db, nil
	}
}

func openArchive(ctx context.Context, cfg *config.Config) (domain.Archive, error) {
	a := cfg.Archive
	switch a.Backend {
	case "minio":
		return storage.NewMinio(ctx, a.Endpoint, a.Region, a.Bucket, a.AccessKey, a.SecretKey, a.UseSSL)
	case "s3":
		return storage.NewS3(ctx, storage.S3Options{
			Endpoint:  a.Endpoint,
			Region:    a.Region,
			Bucket:    a.Bucket,
			AccessKey: a.AccessKey,
			SecretKey: a.SecretKey,
			PathStyle: a.PathStyle,
		})
	}
	return nil, nil
}

func newOracle(cfg *config.Config) middleware.Oracle {
	if cfg.Auth.Mode == "header" {
		return middleware.HeaderOracle{Header: cfg.Auth.Header}
	}
	return middleware.NewAPIKeyOracle(cfg.Auth.APIKeys)
}
