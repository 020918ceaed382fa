package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"

	"github.com/mitchelldurbincs/RobotWantsBattery/internal/cache"
	"github.com/mitchelldurbincs/RobotWantsBattery/internal/config"
	"github.com/mitchelldurbincs/RobotWantsBattery/internal/grpc/engineserver"
	"github.com/mitchelldurbincs/RobotWantsBattery/internal/monitoring"
)

func main() {
	// Command line flags
	configPath := flag.String("config", "", "Path to config file")
	port := flag.Int("port", -1, "The server port (-1 to use config default)")
	host := flag.String("host", "", "The server host (empty to use config default)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error) (empty to use config default)")
	maxGames := flag.Int("max-games", -1, "Maximum concurrent games (-1 to use config default)")
	enableReflection := flag.Bool("enable-reflection", false, "Enable gRPC reflection for debugging")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize config")
	}

	cfg := config.Get()

	if *port == -1 {
		*port = cfg.Server.GRPCServer.Port
	}
	if *host == "" {
		*host = cfg.Server.GRPCServer.Host
	}
	if *logLevel == "" {
		*logLevel = cfg.Server.LogLevel
	}
	if *maxGames == -1 {
		*maxGames = cfg.Server.GRPCServer.MaxGames
	}
	if !*enableReflection {
		*enableReflection = cfg.Server.GRPCServer.EnableReflection
	}

	setupLogging(*logLevel, cfg.Server.LogFormat)

	log.Info().
		Int("port", *port).
		Str("host", *host).
		Int("max_games", *maxGames).
		Str("cache_backend", cfg.Cache.Backend).
		Msg("Starting gRPC engine server")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, closeStore, err := openFieldStore(ctx, cfg.Cache)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open field cache")
	}
	defer closeStore()

	lis, err := net.Listen("tcp", fmt.Sprintf("%s:%d", *host, *port))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to listen")
	}

	grpcServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			loggingInterceptor,
			recoveryInterceptor,
		),
	)

	engineService := engineserver.NewServer(engineserver.Options{
		MaxGames: *maxGames,
		Store:    store,
	})
	engineserver.RegisterEngineServiceServer(grpcServer, engineService)

	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(engineserver.ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)

	if *enableReflection {
		reflection.Register(grpcServer)
		log.Info().Msg("gRPC reflection enabled")
	}

	go engineService.RunCleanup(ctx)

	monitor := monitoring.NewGoroutineMonitor(log.Logger, 0, 0)
	monitor.RegisterGauge("games", engineService.GetActiveGames)
	go monitor.Run(ctx)

	config.WatchConfig(
		func() {
			setupLogging(config.Get().Server.LogLevel, config.Get().Server.LogFormat)
			log.Info().Str("file", config.ConfigFilePath()).Msg("Config reloaded")
		},
		func(err error) {
			log.Error().Err(err).Msg("Config reload rejected")
		},
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		sig := <-sigCh
		log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")

		healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_NOT_SERVING)
		healthServer.SetServingStatus(engineserver.ServiceName, grpc_health_v1.HealthCheckResponse_NOT_SERVING)

		// Give ongoing requests time to complete
		time.Sleep(time.Duration(cfg.Server.GRPCServer.GracefulShutdownDelay) * time.Second)

		log.Info().Msg("Gracefully stopping gRPC server")
		grpcServer.GracefulStop()
		cancel()
		close(done)
	}()

	log.Info().Str("address", lis.Addr().String()).Msg("gRPC server listening")

	go func() {
		if err := grpcServer.Serve(lis); err != nil {
			log.Fatal().Err(err).Msg("Failed to serve")
		}
	}()

	<-done
	log.Info().
		Int("games_dropped", engineService.GetActiveGames()).
		Msg("Server shutdown complete")
}

// openFieldStore picks the solved-field cache backend
func openFieldStore(ctx context.Context, cc config.CacheConfig) (cache.Store, func(), error) {
	if cc.Backend != config.CacheBackendRedis {
		return cache.NewMemoryStore(cc.MemorySize), func() {}, nil
	}

	client, err := cache.Connect(ctx, cc.Redis.Addr, cc.Redis.Password, cc.Redis.DB)
	if err != nil {
		return nil, nil, err
	}
	ttl := time.Duration(cc.Redis.TTLSeconds) * time.Second
	store := cache.NewRedisStore(client, cc.Redis.KeyPrefix, ttl, log.Logger)
	return store, func() { _ = client.Close() }, nil
}

func setupLogging(level, format string) {
	logLevel, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		logLevel = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(logLevel)

	if format == "json" || os.Getenv("APP_ENV") == "production" {
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
		return
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	})
}

// loggingInterceptor logs all unary RPC calls
func loggingInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	start := time.Now()
	resp, err := handler(ctx, req)

	code := codes.OK
	if err != nil {
		if st, ok := status.FromError(err); ok {
			code = st.Code()
		}
	}

	log.Info().
		Str("method", info.FullMethod).
		Str("code", code.String()).
		Dur("duration", time.Since(start)).
		Err(err).
		Msg("gRPC call")

	return resp, err
}

// recoveryInterceptor catches panics and returns proper gRPC errors
func recoveryInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().
				Str("method", info.FullMethod).
				Interface("panic", r).
				Msg("Recovered from panic in gRPC handler")
			err = status.Errorf(codes.Internal, "internal server error")
		}
	}()

	return handler(ctx, req)
}
