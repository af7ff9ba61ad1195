// controllers/ops_controller.go
package controllers

import (
	"context"
	"net/http"
	"time"

	"Gin_postgres_redis_device_rental/app"
	"Gin_postgres_redis_device_rental/models"

	"go.uber.org/zap"
)

type OpsController struct{ a *app.App }

func NewOpsController(a *app.App) *OpsController { return &OpsController{a: a} }

func (oc *OpsController) Healthz(c *app.Ctx) {
	c.JSON(http.StatusOK, app.H{"ok": true})
}

// Readyz checks the database and, when configured, Redis.
func (oc *OpsController) Readyz(c *app.Ctx) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	checks := app.H{}
	ready := true

	sqlDB, err := oc.a.DB.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		ready = false
		checks["database"] = err.Error()
		oc.a.Log.Warn("readiness: database", zap.Error(err))
	} else {
		checks["database"] = "ok"
	}

	if oc.a.RDB != nil {
		if err := oc.a.RDB.Ping(ctx).Err(); err != nil {
			ready = false
			checks["redis"] = err.Error()
			oc.a.Log.Warn("readiness: redis", zap.Error(err))
		} else {
			checks["redis"] = "ok"
		}
	}

	status := http.StatusOK
	if !ready {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, app.H{"ready": ready, "checks": checks})
}

// Overdue lists loans still out after their due date. ?today=YYYY-MM-DD overrides the
// current day.
func (oc *OpsController) Overdue(c *app.Ctx) {
	today := time.Now()
	if v := c.Query("today"); v != "" {
		t, err := time.Parse(models.DateLayout, v)
		if err != nil {
			c.JSON(http.StatusBadRequest, app.H{"error": "today must be YYYY-MM-DD"})
			return
		}
		today = t
	}

	loans, err := oc.a.Loans.Overdue(c.Request.Context(), today)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, app.H{"error": "failed to list overdue loans"})
		return
	}

	out := make([]app.H, 0, len(loans))
	for _, l := range loans {
		out = append(out, app.H{
			"id":       l.ID,
			"deviceId": l.DeviceID,
			"userId":   l.UserID,
			"dueDate":  l.DueDate.Format(models.DateLayout),
			"daysLate": models.DaysBetween(l.DueDate, today),
		})
	}
	c.JSON(http.StatusOK, app.H{"count": len(out), "loans": out})
}
