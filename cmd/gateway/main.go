// In file: cmd/gateway/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dileep-u-k/weather-agent/internal/planner"
	"github.com/dileep-u-k/weather-agent/internal/tools"
	"github.com/dileep-u-k/weather-agent/internal/weather"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// main is the entry point for the application.
// Its primary role is the "Composition Root": it loads configuration,
// builds the tool registry, injects dependencies, and starts the server.
func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	buildInfo := GetBuildInfo()
	log.Printf("🚀 Starting Weather Agent Gateway | Version: %s | Commit: %s", buildInfo.Version, buildInfo.GitCommit)

	// 1. LOAD CONFIGURATION
	cfg, err := LoadConfig()
	if err != nil {
		log.Fatalf("❌ FATAL: Configuration Error: %v", err)
	}
	log.Println("✅ Configuration loaded.")

	// 2. INITIALIZE SERVICES
	rdb := connectRedis(cfg.RedisAddr)

	geocoder, conditions := initializeWeatherSources(cfg, rdb)
	registry, err := initializeRegistry(geocoder, conditions)
	if err != nil {
		log.Fatalf("❌ FATAL: %v", err)
	}

	var invokerOpts []tools.InvokerOption
	var profiler *tools.Profiler
	if rdb != nil {
		profiler = tools.NewProfiler(rdb)
		invokerOpts = append(invokerOpts, tools.WithRecorder(profiler))
	}
	invoker := tools.NewInvoker(registry, invokerOpts...)

	toolPlanner := planner.New(planner.NewHeuristicPolicy(cfg.Planner.DefaultTool), invoker, cfg.Planner.Model)
	gatewayHandler := NewGatewayHandler(toolPlanner, registry, profiler)
	log.Println("✅ All services initialized.")

	// 3. SETUP AND RUN THE WEB SERVER
	gin.SetMode(os.Getenv("GIN_MODE"))
	engine := newEngine(gatewayHandler)

	srv := &http.Server{Addr: fmt.Sprintf(":%s", cfg.Port), Handler: engine}
	runServerWithGracefulShutdown(srv)
}

// newEngine wires the routes onto a gin engine.
func newEngine(h *GatewayHandler) *gin.Engine {
	engine := gin.Default()
	engine.GET("/health", HandleHealth)
	engine.POST("/run-tool", h.HandleRunTool)

	v1 := engine.Group("/api/v1")
	{
		v1.POST("/chat/completions", h.HandleChatCompletion)
		v1.GET("/tools", h.HandleListTools)
		v1.GET("/tools/:name/profile", h.HandleToolProfile)
	}
	return engine
}

// connectRedis returns nil when Redis is not configured or unreachable; the
// coordinate cache and the tool profiler are then disabled.
func connectRedis(addr string) *redis.Client {
	if addr == "" {
		log.Println("WARNING: REDIS_ADDR not set. Coordinate cache and tool profiling are disabled.")
		return nil
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Printf("WARNING: Could not connect to Redis at %s, continuing without it: %v", addr, err)
		_ = rdb.Close()
		return nil
	}
	log.Printf("✅ Connected to Redis at %s.", addr)
	return rdb
}

// initializeWeatherSources builds the provider client and layers the optional
// retry decorator and coordinate cache on top of it.
func initializeWeatherSources(cfg *AppConfig, rdb *redis.Client) (weather.Geocoder, weather.ConditionsProvider) {
	var client weather.DataClient = weather.NewClient(cfg.Providers.WeatherConfig())
	if cfg.Providers.MaxRetries > 0 {
		delay := time.Duration(cfg.Providers.RetryDelayMS) * time.Millisecond
		client = weather.NewRetryingClient(client, cfg.Providers.MaxRetries, delay)
		log.Printf("🔁 Provider calls retry up to %d times.", cfg.Providers.MaxRetries)
	}

	var geocoder weather.Geocoder = client
	if rdb != nil {
		ttl := time.Duration(cfg.Cache.CoordinatesTTLHours) * time.Hour
		geocoder = weather.NewCachedGeocoder(client, rdb, ttl)
		log.Printf("🗄️ Coordinate cache enabled (TTL %s).", ttl)
	}
	return geocoder, client
}

// initializeRegistry creates and registers all available tools.
func initializeRegistry(geocoder weather.Geocoder, conditions weather.ConditionsProvider) (*tools.Registry, error) {
	registry := tools.NewRegistry()
	for _, tool := range []tools.ToolExecutor{
		tools.NewWeatherTool(geocoder, conditions),
		tools.NewAttractionTool(),
		tools.NewTransportationTool(),
	} {
		if err := registry.Register(tool); err != nil {
			return nil, fmt.Errorf("failed to register tool: %w", err)
		}
	}
	log.Printf("✅ Tool Registry initialized with %d tools.", registry.Len())
	return registry, nil
}

// runServerWithGracefulShutdown handles the server lifecycle.
func runServerWithGracefulShutdown(srv *http.Server) {
	go func() {
		log.Printf("👂 Gateway is listening on http://localhost%s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("❌ Listen error: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("❌ Server shutdown failed:", err)
	}

	log.Println("👋 Server exited gracefully.")
}
