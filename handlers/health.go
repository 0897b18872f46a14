package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

var startTime = time.Now()

const apiVersion = "1.0.0"

// HealthDeps are the runtime dependencies reported by the health and
// readiness endpoints. Nil clients are reported as disconnected.
type HealthDeps struct {
	Mongo         *mongo.Client
	MongoDatabase string
	Redis         *redis.Client
	Environment   string
}

// RegisterHealth registers liveness, database health and readiness endpoints.
func RegisterHealth(r *gin.Engine, deps HealthDeps) {
	r.GET("/health", func(c *gin.Context) {
		db := databaseHealth(c.Request.Context(), deps)
		status := "ok"
		if !db["connected"].(bool) {
			status = "error"
		}
		c.JSON(http.StatusOK, gin.H{
			"status":      status,
			"timestamp":   time.Now().UTC().Format(time.RFC3339),
			"uptime":      time.Since(startTime).Seconds(),
			"environment": deps.Environment,
			"version":     apiVersion,
			"database":    db,
		})
	})

	r.GET("/health/database", func(c *gin.Context) {
		c.JSON(http.StatusOK, databaseHealth(c.Request.Context(), deps))
	})

	// readiness: 200 only when the story store is reachable
	r.GET("/ready", func(c *gin.Context) {
		ready := true
		depsStatus := map[string]bool{}

		db := databaseHealth(c.Request.Context(), deps)
		depsStatus["mongodb"] = db["connected"].(bool)
		if !depsStatus["mongodb"] {
			ready = false
		}

		// Redis is optional; report it but only fail readiness when configured and down
		if deps.Redis != nil {
			depsStatus["redis"] = deps.Redis.Ping(c.Request.Context()).Err() == nil
			if !depsStatus["redis"] {
				ready = false
			}
		}

		if !ready {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "deps": depsStatus, "uptime": time.Since(startTime).String()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready", "deps": depsStatus, "uptime": time.Since(startTime).String()})
	})
}

func databaseHealth(ctx context.Context, deps HealthDeps) gin.H {
	if deps.Mongo == nil {
		return gin.H{"status": "disconnected", "connected": false}
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := deps.Mongo.Ping(ctx, nil); err != nil {
		return gin.H{"status": "error", "connected": false, "error": err.Error()}
	}
	return gin.H{"status": "connected", "connected": true, "name": deps.MongoDatabase}
}
