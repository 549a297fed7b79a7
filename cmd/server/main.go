package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"socialgraph/internal/network"
	"socialgraph/internal/seed"
	"socialgraph/pkg/config"
	apperrors "socialgraph/pkg/errors"
	"socialgraph/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load configuration: %v", err))
	}

	// Initialize logger
	if err := logger.Init(cfg.Env); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	log := logger.Get()
	log.Info("Starting social graph API server...")

	store := network.NewStore()

	// Optionally seed the store with synthetic observations so the API has
	// something to serve out of the box.
	if cfg.SeedOnStart {
		rngSeed := cfg.SeedRandom
		if rngSeed == 0 {
			rngSeed = time.Now().UnixNano()
		}
		usernames, err := seed.Seed(context.Background(), store, cfg.SeedMonths, cfg.SeedUsers, time.Now(), rngSeed)
		if err != nil {
			log.Fatal("Failed to seed network", zap.Error(err))
		}
		log.Info("Seeded network",
			zap.Int("months", cfg.SeedMonths),
			zap.Int("users_per_month", cfg.SeedUsers))

		logSampleUser(log, store, usernames)
	}

	// Setup Gin router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := setupRouter(store, log)

	// Start server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started", zap.String("port", cfg.Port))

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited")
}

// logSampleUser queries one seeded user the same way an API consumer would
// and logs the result, so a fresh start shows live numbers immediately.
func logSampleUser(log *zap.Logger, store *network.Store, usernames []string) {
	if len(usernames) == 0 {
		return
	}
	username := usernames[0]
	now := time.Now()

	if centrality, ok := store.Centrality(username, now); ok {
		log.Info("Sample user centrality",
			zap.String("username", username),
			zap.Float64p("degree", centrality.Degree),
			zap.Float64p("closeness", centrality.Closeness),
			zap.Float64p("betweenness", centrality.Betweenness),
			zap.Float64p("eigenvector", centrality.Eigenvector))
	}
	if connections, ok := store.AllConnections(username, now); ok {
		log.Info("Sample user connections",
			zap.String("username", username),
			zap.Strings("connections", connections))
	}
}

// setupRouter wires all API routes against the given store.
func setupRouter(store *network.Store, log *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(requestID())
	router.Use(ginLogger(log))
	router.Use(gin.Recovery())

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API routes
	api := router.Group("/api")
	{
		// Record one observation of a user
		api.POST("/users", func(c *gin.Context) {
			var req struct {
				Username  string   `json:"username" binding:"required"`
				Date      string   `json:"date"`
				Following []string `json:"following"`
				Posts     []string `json:"posts"`
			}

			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}

			at, ok := parseDate(c, req.Date)
			if !ok {
				return
			}

			store.AddUser(req.Username, at, req.Following, req.Posts)
			c.JSON(http.StatusAccepted, gin.H{
				"username": req.Username,
				"period":   network.PeriodKey(at),
			})
		})

		// Connection counts by kind
		api.GET("/users/:username/connections", func(c *gin.Context) {
			username := c.Param("username")
			at, ok := parseDate(c, c.Query("date"))
			if !ok {
				return
			}

			following, mentions, ok := store.Connections(username, at)
			if !ok {
				notFound(c, at)
				return
			}
			all, _ := store.AllConnections(username, at)

			c.JSON(http.StatusOK, gin.H{
				"username":  username,
				"period":    network.PeriodKey(at),
				"following": following,
				"mentions":  mentions,
				"all":       all,
			})
		})

		// Centrality measures over the whole snapshot
		api.GET("/users/:username/centrality", func(c *gin.Context) {
			username := c.Param("username")
			at, ok := parseDate(c, c.Query("date"))
			if !ok {
				return
			}

			centrality, ok := store.Centrality(username, at)
			if !ok {
				notFound(c, at)
				return
			}

			c.JSON(http.StatusOK, gin.H{
				"username":   username,
				"period":     network.PeriodKey(at),
				"centrality": centrality,
			})
		})

		// Snapshot summary
		api.GET("/network", func(c *gin.Context) {
			at, ok := parseDate(c, c.Query("date"))
			if !ok {
				return
			}

			snap, ok := store.GetNetwork(at)
			if !ok {
				notFound(c, at)
				return
			}

			c.JSON(http.StatusOK, gin.H{
				"period": snap.Period(),
				"nodes":  snap.NodeCount(),
				"edges":  snap.EdgeCount(),
			})
		})
	}

	return router
}

// parseDate resolves the optional RFC3339 date supplied with a request. An
// empty value means "now". On a malformed value it writes the 400 response
// itself and returns ok=false.
func parseDate(c *gin.Context, value string) (time.Time, bool) {
	if value == "" {
		return time.Now(), true
	}
	at, err := time.Parse(time.RFC3339, value)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": apperrors.NewInvalidDate(value, err).Error()})
		return time.Time{}, false
	}
	return at, true
}

func notFound(c *gin.Context, at time.Time) {
	c.JSON(http.StatusNotFound, gin.H{
		"error": apperrors.NewSnapshotNotFound(network.PeriodKey(at)).Error(),
	})
}

// requestID tags every response with a unique id for log correlation.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := uuid.NewString()
		c.Set("request_id", id)
		c.Writer.Header().Set("X-Request-ID", id)
		c.Next()
	}
}

// ginLogger is a custom logger middleware for Gin
func ginLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		if raw != "" {
			path = path + "?" + raw
		}

		log.Info("HTTP Request",
			zap.Int("status", status),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Duration("latency", latency),
			zap.String("request_id", c.GetString("request_id")))
	}
}
