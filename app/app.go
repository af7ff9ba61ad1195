package app

import (
	"context"
	"fmt"
	"time"

	"Gin_postgres_redis_device_rental/booking"
	"Gin_postgres_redis_device_rental/config"
	"Gin_postgres_redis_device_rental/db"
	"Gin_postgres_redis_device_rental/dedupe"
	"Gin_postgres_redis_device_rental/notify"
	"Gin_postgres_redis_device_rental/reminder"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// 简化别名，便于 handlers 调用
type Ctx = gin.Context
type H = gin.H

// App 聚合各依赖
type App struct {
	Router *gin.Engine
	DB     *gorm.DB
	RDB    *redis.Client // nil when redis.addr is empty
	Config config.Config
	Log    *zap.Logger

	Repo         *db.Repo
	Devices      *booking.Devices
	Loans        *booking.LoanEngine
	Reservations *booking.ReservationEngine
	Dispatcher   *reminder.Dispatcher
	Scheduler    *reminder.Scheduler

	closers []func() error
}

func New(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, error) {
	a := &App{Config: cfg, Log: log}

	// --- DB ---
	dbConn, err := db.Open(cfg.Database, log)
	if err != nil {
		return nil, err
	}
	a.DB = dbConn
	a.closers = append(a.closers, func() error {
		sqlDB, err := dbConn.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	})

	// --- Redis（可选，只用于提醒去重）---
	var opts []reminder.Option
	if cfg.Redis.Addr != "" {
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		rdb, err := dedupe.Connect(pingCtx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		cancel()
		if err != nil {
			a.Close()
			return nil, err
		}
		a.RDB = rdb
		a.closers = append(a.closers, rdb.Close)
		opts = append(opts, reminder.WithDeduper(dedupe.NewStore(rdb, cfg.Redis.DedupeTTL)))
	}

	sink, err := a.openSink()
	if err != nil {
		a.Close()
		return nil, err
	}

	a.Repo = db.NewRepo(dbConn)
	a.Devices = booking.NewDevices(a.Repo, log)
	a.Loans = booking.NewLoanEngine(a.Repo, log)
	a.Reservations = booking.NewReservationEngine(a.Repo, log)
	a.Dispatcher = reminder.NewDispatcher(
		reminder.Config{Enabled: cfg.Reminders.Enabled, DaysAhead: cfg.Reminders.DaysAhead},
		a.Repo, sink, log, opts...,
	)
	a.Scheduler = reminder.NewScheduler(a.Dispatcher, cfg.Reminders.Interval, log)

	// --- Gin ---
	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(log))
	a.Router = r
	return a, nil
}

func (a *App) openSink() (notify.Sink, error) {
	switch a.Config.Reminders.Sink {
	case "kafka":
		w := notify.NewKafkaWriter(a.Config.Kafka)
		a.closers = append(a.closers, w.Close)
		return notify.NewKafkaSink(w), nil
	case "mqtt":
		c, err := notify.ConnectMQTT(a.Config.MQTT)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() error { notify.DisconnectMQTT(c); return nil })
		return notify.NewMQTTSink(c, a.Config.MQTT.TopicPrefix, a.Config.MQTT.QoS), nil
	case "log", "":
		return notify.NewLogSink(a.Log), nil
	}
	return nil, fmt.Errorf("unsupported reminder sink %q", a.Config.Reminders.Sink)
}

// Close releases connections in reverse order of opening.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.Log.Warn("close", zap.Error(err))
		}
	}
	a.closers = nil
}
