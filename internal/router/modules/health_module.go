package modules

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// HealthModule serves liveness and readiness probes. Readiness pings
// the database pool.
type HealthModule struct {
	Service string
	Pool    *pgxpool.Pool
}

func NewHealthModule(service string, pool *pgxpool.Pool) *HealthModule {
	return &HealthModule{Service: service, Pool: pool}
}

func (m *HealthModule) Register(rg *gin.RouterGroup) {
	rg.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": m.Service})
	})
	rg.GET("/health/ready", func(c *gin.Context) {
		if m.Pool != nil {
			if err := m.Pool.Ping(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "service": m.Service})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready", "service": m.Service})
	})
}
