package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	authhttp "github.com/akarpov/content-api/internal/auth/http"
	authservice "github.com/akarpov/content-api/internal/auth/service"
	"github.com/akarpov/content-api/internal/common/clock"
	"github.com/akarpov/content-api/internal/common/config"
	"github.com/akarpov/content-api/internal/common/constants"
	commoncrypto "github.com/akarpov/content-api/internal/common/crypto"
	"github.com/akarpov/content-api/internal/common/db"
	commonhttp "github.com/akarpov/content-api/internal/common/http"
	"github.com/akarpov/content-api/internal/common/jwtverify"
	"github.com/akarpov/content-api/internal/common/logger"
	srv "github.com/akarpov/content-api/internal/common/server"
	posthttp "github.com/akarpov/content-api/internal/post/http"
	postrepo "github.com/akarpov/content-api/internal/post/repository"
	postservice "github.com/akarpov/content-api/internal/post/service"
	userrepo "github.com/akarpov/content-api/internal/user/repository"
)

func main() {
	log, err := logger.New(os.Getenv("LOG_DIR"), "api", os.Getenv("LOG_LEVEL"))
	if err != nil {
		os.Stderr.WriteString(fmt.Sprintf("failed to initialize logger: %v\n", err))
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	pool := db.NewPool(log, cfg.DatabaseURL)
	defer pool.Close()
	db.StartPoolMetrics(pool, constants.DBPoolMetricsInterval)

	userRepo := userrepo.NewPgRepository(pool)
	postRepo := postrepo.NewPgRepository(pool)

	hasher := commoncrypto.NewBcryptHasher(cfg.BcryptCost)
	idGenerator := commoncrypto.NewUUIDGenerator()
	clk := clock.NewRealClock()

	tokenIssuer := authservice.NewTokenIssuer(cfg.JWTSecret, constants.AccessTokenTTL, clk)
	authSvc := authservice.NewAuthService(userRepo, hasher, idGenerator, tokenIssuer, clk, log)
	postSvc := postservice.NewPostService(postRepo, idGenerator, clk, log)

	guard := jwtverify.New(cfg.JWTSecret, userRepo, log)

	mux := http.NewServeMux()
	authhttp.NewHandler(authSvc, guard, log).Mount(mux)
	posthttp.NewHandler(postSvc, guard, log).Mount(mux)
	mux.HandleFunc("/health", commonhttp.HealthHandler(log))
	mux.Handle("/metrics", promhttp.Handler())

	var handler http.Handler = mux
	if cfg.RequestTimeout > 0 {
		handler = commonhttp.WithTimeout(cfg.RequestTimeout)(handler)
	}
	handler = commonhttp.BuildBaseHandler(log, handler)

	server := srv.NewServer(srv.DefaultServerConfig(cfg.HTTPPort), handler)
	srv.StartWithGracefulShutdown(server, log, "api")
}
