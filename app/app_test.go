package app_test

import (
	"context"
	"testing"

	"Gin_postgres_redis_device_rental/app"
	"Gin_postgres_redis_device_rental/booking"
	"Gin_postgres_redis_device_rental/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig() config.Config {
	cfg := config.Default()
	cfg.Database = config.DatabaseConfig{Driver: "sqlite", DSN: ":memory:"}
	return cfg
}

func TestNew(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig()
	cfg.Redis.Addr = mr.Addr()

	a, err := app.New(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer a.Close()

	assert.NotNil(t, a.RDB)
	assert.NotNil(t, a.Loans)
	assert.NotNil(t, a.Reservations)
	assert.NotNil(t, a.Scheduler)
}

func TestNewFailsFast(t *testing.T) {
	t.Run("redis unreachable", func(t *testing.T) {
		cfg := testConfig()
		cfg.Redis.Addr = "127.0.0.1:1"
		_, err := app.New(context.Background(), cfg, zap.NewNop())
		assert.Error(t, err)
	})
	t.Run("unknown sink", func(t *testing.T) {
		cfg := testConfig()
		cfg.Reminders.Sink = "pigeon"
		_, err := app.New(context.Background(), cfg, zap.NewNop())
		assert.Error(t, err)
	})
}

func TestBootstrapInventory(t *testing.T) {
	a, err := app.New(context.Background(), testConfig(), zap.NewNop())
	require.NoError(t, err)
	defer a.Close()
	ctx := context.Background()

	seeds := []config.DeviceSeed{
		{Name: "Sony A7 III", Type: "camera", SerialNumber: "SN-1", Location: "Lab 1"},
		{Name: "Zoom H6", Type: "recorder", SerialNumber: "SN-2", Location: "Lab 1"},
	}

	n, err := app.BootstrapInventory(ctx, seeds, a.Devices, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = app.BootstrapInventory(ctx, seeds, a.Devices, zap.NewNop())
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = app.BootstrapInventory(ctx, []config.DeviceSeed{{Name: "no serial"}}, a.Devices, zap.NewNop())
	assert.ErrorIs(t, err, booking.ErrInvalidDevice)
}

func TestEmptySinkOpensLogSink(t *testing.T) {
	cfg := testConfig()
	cfg.Reminders.Sink = ""
	require.NoError(t, cfg.Validate())

	a, err := app.New(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer a.Close()
	assert.NotNil(t, a.Dispatcher)
}
