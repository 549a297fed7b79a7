// Command demo seeds a network with three months of synthetic observations
// and queries one user, showing the library end to end without the HTTP
// server.
package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"socialgraph/internal/network"
	"socialgraph/internal/seed"
	"socialgraph/pkg/logger"
)

func main() {
	if err := logger.Init("development"); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	log := logger.Get()
	store := network.NewStore()
	now := time.Now()

	usernames, err := seed.Seed(context.Background(), store, 3, 20, now, now.UnixNano())
	if err != nil {
		log.Fatal("Failed to seed network", zap.Error(err))
	}

	username := usernames[0]

	centrality, ok := store.Centrality(username, now)
	if !ok {
		log.Fatal("No snapshot for current month")
	}
	log.Info("Centrality measures",
		zap.String("username", username),
		zap.Float64p("degree", centrality.Degree),
		zap.Float64p("closeness", centrality.Closeness),
		zap.Float64p("betweenness", centrality.Betweenness),
		zap.Float64p("eigenvector", centrality.Eigenvector))

	connections, _ := store.AllConnections(username, now)
	log.Info("Connections",
		zap.String("username", username),
		zap.Strings("connections", connections))
}
