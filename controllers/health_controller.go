package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Pinger is an external dependency that can report its reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthController struct {
	DB   *gorm.DB
	Deep map[string]Pinger
}

func NewHealthController(db *gorm.DB, deep map[string]Pinger) *HealthController {
	return &HealthController{DB: db, Deep: deep}
}

func (hc *HealthController) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	checks := gin.H{}
	healthy := true

	if sqlDB, err := hc.DB.DB(); err != nil {
		checks["database"] = err.Error()
		healthy = false
	} else if err := sqlDB.PingContext(ctx); err != nil {
		checks["database"] = err.Error()
		healthy = false
	} else {
		checks["database"] = "ok"
	}

	// External checks are informational and never mark the service down.
	if c.Query("deep") == "true" {
		for name, p := range hc.Deep {
			if err := p.Ping(ctx); err != nil {
				checks[name] = err.Error()
			} else {
				checks[name] = "ok"
			}
		}
	}

	status := http.StatusOK
	if !healthy {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{"healthy": healthy, "checks": checks})
}
