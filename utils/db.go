// utils/db.go
package utils

import (
	"context"
	"log"
	"os"
	"sync/atomic"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// PingInterval is the fixed delay between reachability checks. There is
// no backoff growth and no attempt limit.
const PingInterval = 5 * time.Second

// Health tracks whether the storage backend is currently reachable.
// Handlers consult it through the middleware gate and fail fast with
// 503 instead of hanging on an unreachable server.
type Health struct {
	ready atomic.Bool
}

// IsReady reports the last observed reachability state.
func (h *Health) IsReady() bool {
	return h.ready.Load()
}

// SetReady records a reachability transition. Called by the monitor
// goroutine.
func (h *Health) SetReady(ok bool) {
	h.ready.Store(ok)
}

// ConnectDB connects to MongoDB and starts the supervising ping loop
// that keeps the Health flag current.
func ConnectDB() (*mongo.Client, *Health) {
	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Client().ApplyURI(uri).SetServerSelectionTimeout(PingInterval)
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		log.Fatal(err)
	}

	health := &Health{}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		log.Printf("MongoDB not reachable yet: %v", err)
	} else {
		log.Println("Successfully connected to MongoDB")
		health.SetReady(true)
	}

	go monitorConnection(client, health)
	return client, health
}

// monitorConnection pings the server on a fixed delay and flips the
// readiness flag on every transition.
func monitorConnection(client *mongo.Client, health *Health) {
	for {
		time.Sleep(PingInterval)

		ctx, cancel := context.WithTimeout(context.Background(), PingInterval)
		err := client.Ping(ctx, readpref.Primary())
		cancel()

		if err != nil {
			if health.IsReady() {
				log.Printf("MongoDB disconnected: %v", err)
			}
			health.SetReady(false)
			continue
		}
		if !health.IsReady() {
			log.Println("MongoDB reconnected")
		}
		health.SetReady(true)
	}
}

// EnsureIndexes creates the 2dsphere index on cart pod locations. The
// current REST surface runs no proximity queries, but the index must
// exist for them.
func EnsureIndexes(client *mongo.Client) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	collection := client.Database("cartpodfinder").Collection("cartpods")
	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "location", Value: "2dsphere"}},
	})
	if err != nil {
		log.Printf("Error creating location index: %v", err)
	}
}
