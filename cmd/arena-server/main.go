package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tictac-arena/internal/ai"
	"tictac-arena/internal/arena"
	"tictac-arena/internal/config"
	"tictac-arena/internal/identity"
	"tictac-arena/internal/logging"
	"tictac-arena/internal/mcpserver"
	"tictac-arena/internal/rating"
	"tictac-arena/internal/resultpush"
	"tictac-arena/internal/store"
	httptransport "tictac-arena/internal/transport/http"
	"tictac-arena/internal/ws"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	// A missing .env is fine; the process environment still applies.
	_ = godotenv.Load()

	cfg, err := config.LoadApp()
	if err != nil {
		panic(err)
	}
	logging.Init(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := store.Migrate(cfg.Server.PostgresDSN); err != nil {
		log.Fatal().Err(err).Msg("migrate failed")
	}
	st, err := store.New(cfg.Server.PostgresDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("store init failed")
	}
	defer st.Close()
	if err := st.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("db ping failed")
	}

	resolver := identity.NewResolver(nil)
	if cfg.Server.RedisURL != "" {
		rdb, err := identity.DialRedis(ctx, cfg.Server.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("redis init failed")
		}
		defer rdb.Close()
		resolver = identity.NewResolver(identity.NewRedisProvider(rdb))
		resolver.OnRegistered(func(ctx context.Context, id identity.Identity) error {
			_, err := st.UpsertUser(ctx, id.PlayerID, id.DisplayName, cfg.Game.DefaultRating)
			return err
		})
		log.Info().Msg("token identities enabled")
	} else {
		log.Warn().Msg("REDIS_URL not set; only guest identities are accepted")
	}

	var publisher resultpush.Publisher
	if cfg.Server.NATSURL != "" {
		nc, err := resultpush.DialNATS(cfg.Server.NATSURL)
		if err != nil {
			log.Fatal().Err(err).Msg("nats init failed")
		}
		defer nc.Close()
		publisher = nc
	}
	pusher := resultpush.NewManager(resultpush.Config{
		Enabled:       publisher != nil,
		SubjectPrefix: cfg.Server.NATSSubjectPrefix,
		Workers:       cfg.Server.ResultPushWorkers,
		RetryMax:      cfg.Server.ResultPushRetries,
		RetryBase:     cfg.Server.ResultPushBackoff,
	}, publisher)
	if err := pusher.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("result push start failed")
	}

	var external ai.Strategy
	if cfg.Server.AIStrategyURL != "" {
		external = ai.NewHTTPStrategy(cfg.Server.AIStrategyURL, cfg.Server.AIStrategyAPIKey, cfg.Server.AIStrategyModel, cfg.Server.AIStrategyTimeout)
	}
	opponent := ai.NewOpponent(ai.OpponentConfig{
		ThinkMin:        cfg.Server.AIThinkMin,
		ThinkMax:        cfg.Server.AIThinkMax,
		StrategyTimeout: cfg.Server.AIStrategyTimeout,
	}, external, ai.NewDefault(time.Now().UnixNano()))

	coord := arena.NewCoordinator(cfg.Game, arena.Options{
		Resolver: resolver,
		Reporter: rating.NewReporter(st, cfg.Game.EloK, cfg.Game.DefaultRating),
		Opponent: opponent,
	})
	coord.SetLifecycleObserver(pusher)
	coord.StartJanitor(ctx)

	hub := ws.NewHub(coord)
	coord.SetNotifier(hub)

	r := httptransport.NewRouter(httptransport.Deps{
		Sessions: coord,
		Games:    st,
		DB:       st,
		WS:       http.HandlerFunc(hub.HandleWS),
		MCP:      mcpserver.New(coord, st).Handler(),
	})
	httptransport.LogRoutes(r)

	server := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	go func() {
		log.Info().Str("addr", cfg.Server.HTTPAddr).Msg("http listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown failed")
	}
	if err := coord.WaitReports(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("pending result reports abandoned")
	}
}
