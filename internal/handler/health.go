package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Health pings both backing stores and reports per-dependency status.
// Degraded dependencies turn the endpoint into a 503 so the orchestrator
// stops routing traffic here.
func Health(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		checks := gin.H{
			"postgres": pingPostgres(ctx, db),
			"redis":    pingRedis(ctx, rdb),
		}

		code := http.StatusOK
		for _, v := range checks {
			if v != "ok" {
				code = http.StatusServiceUnavailable
			}
		}
		c.JSON(code, gin.H{"status": checks, "ok": code == http.StatusOK})
	}
}

func pingPostgres(ctx context.Context, db *gorm.DB) string {
	sqlDB, err := db.DB()
	if err != nil {
		return "error"
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return "error"
	}
	return "ok"
}

func pingRedis(ctx context.Context, rdb *redis.Client) string {
	if err := rdb.Ping(ctx).Err(); err != nil {
		return "error"
	}
	return "ok"
}
